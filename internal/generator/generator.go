package generator

import (
	"context"
	"fmt"
	"go/parser"
	"go/token"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
)

const (
	Separator  = ","
	OutputFile = "kosu_test.go"
)

// Generator writes the kosu test entry point of a package from the
// annotated functions found in source directories.
type Generator struct {
	parser GoCodeParser
	logger *slog.Logger
}

func New(codeParser GoCodeParser, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Generator{parser: codeParser, logger: logger}
}

// SplitDirectories splits a comma separated directory list, dropping
// empty entries.
func SplitDirectories(value string) []string {
	var directories []string
	for _, directory := range strings.Split(value, Separator) {
		if directory = strings.TrimSpace(directory); directory != "" {
			directories = append(directories, directory)
		}
	}
	return directories
}

// Run parses every directory, outputDir when none is given, and writes
// OutputFile into outputDir. It returns the path of the written file.
func (g *Generator) Run(ctx context.Context, directories []string, outputDir string) (string, error) {
	if len(directories) == 0 {
		directories = []string{outputDir}
	}

	output := NewOutput()
	for _, directory := range directories {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		parsed, err := g.parser.ParseDirectory(ctx, directory)
		if err != nil {
			return "", fmt.Errorf("could not parse %s: %w", directory, err)
		}
		if err := output.Merge(parsed); err != nil {
			return "", err
		}
		g.logger.Debug("parsed directory", "directory", directory,
			"suites", len(parsed.SuiteFunctions), "steps", len(parsed.StepFunctions))
	}

	// Detect package name and full import path for the output directory
	pkgName, pkgPath, detectErr := detectPackage(outputDir)
	if detectErr != nil {
		g.logger.Warn("could not detect package", "directory", outputDir, "error", detectErr)
	}
	output.PackageName = pkgName
	output.CurrentPackagePath = pkgPath

	path := filepath.Join(outputDir, OutputFile)
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := output.Generate(file); err != nil {
		return "", fmt.Errorf("could not generate %s: %w", path, err)
	}
	g.logger.Info("generated", "file", path,
		"suites", len(output.SuiteFunctions), "steps", len(output.StepFunctions), "hooks", len(output.HooksFunctions))
	return path, nil
}

// detectPackage detects the Go package name from Go files in dir and the
// full import path by combining the module path from go.mod with the
// relative directory.
func detectPackage(dir string) (pkgName string, pkgPath string, err error) {
	pkgName, err = detectPackageName(dir)
	if err != nil {
		return "", "", err
	}

	pkgPath, err = DetectImportPath(dir)
	if err != nil {
		return pkgName, "", err
	}

	return pkgName, pkgPath, nil
}

// detectPackageName detects the Go package name for the given directory.
// It first tries to read the package clause from existing Go files.
// If no Go files exist, it falls back to deriving the name from the directory
// path (or the module path for the module root).
func detectPackageName(dir string) (string, error) {
	fset := token.NewFileSet()
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("cannot read directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		filePath := filepath.Join(dir, name)
		f, parseErr := parser.ParseFile(fset, filePath, nil, parser.PackageClauseOnly)
		if parseErr != nil {
			continue
		}
		if f.Name != nil && f.Name.Name != "" {
			return f.Name.Name, nil
		}
	}

	// No Go files found, derive the package name from the directory or module path.
	return packageNameFromDir(dir)
}

// packageNameFromDir derives a valid Go package name from the directory path.
// At the module root it uses the last segment of the module path from go.mod.
// Otherwise it uses the directory name, sanitising characters that are invalid
// in Go identifiers (hyphens, dots, etc.).
func packageNameFromDir(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	// Try to use the module path when we're at the module root.
	goModPath := filepath.Join(absDir, "go.mod")
	if data, readErr := os.ReadFile(goModPath); readErr == nil {
		modFile, parseErr := modfile.Parse(goModPath, data, nil)
		if parseErr == nil && modFile.Module != nil {
			base := filepath.Base(modFile.Module.Mod.Path)
			if name := sanitizePackageName(base); name != "" {
				return name, nil
			}
		}
	}

	// Fall back to the directory name.
	base := filepath.Base(absDir)
	if name := sanitizePackageName(base); name != "" {
		return name, nil
	}

	return "", fmt.Errorf("cannot derive package name from directory %s", dir)
}

// sanitizePackageName turns a raw name (directory segment or module path
// segment) into a valid Go package name. Invalid characters such as hyphens
// and dots are replaced with underscores, and leading digits are prefixed
// with an underscore.
func sanitizePackageName(raw string) string {
	if raw == "" || raw == "." || raw == "/" {
		return ""
	}

	var b strings.Builder
	for i, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			// Go package names are conventionally lowercase.
			b.WriteRune(r - 'A' + 'a')
		case r == '-' || r == '.':
			if i == 0 {
				continue // drop leading separator
			}
			b.WriteRune('_')
		default:
			// Drop other characters.
		}
	}

	name := b.String()
	if name == "" {
		return ""
	}
	// A package name must not start with a digit.
	if name[0] >= '0' && name[0] <= '9' {
		name = "_" + name
	}
	return name
}

// DetectImportPath walks up from dir looking for go.mod, then computes the
// full import path as module_path + relative_directory.
func DetectImportPath(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	current := absDir
	for {
		goModPath := filepath.Join(current, "go.mod")
		data, readErr := os.ReadFile(goModPath)
		if readErr == nil {
			modFile, parseErr := modfile.Parse(goModPath, data, nil)
			if parseErr != nil {
				return "", fmt.Errorf("cannot parse go.mod: %w", parseErr)
			}

			modulePath := modFile.Module.Mod.Path
			rel, relErr := filepath.Rel(current, absDir)
			if relErr != nil {
				return "", relErr
			}

			if rel == "." {
				return modulePath, nil
			}
			return modulePath + "/" + filepath.ToSlash(rel), nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("go.mod not found in any parent of %s", dir)
		}
		current = parent
	}
}
