package comment_parser

import (
	"context"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/denizgursoy/kosu/internal/generator"
)

const (
	Annotation = "@kosu"

	StepKind   = "step"
	SuiteKind  = "suite"
	HooksKind  = "hooks"
	ConfigKind = "config"
)

// returnTypes lists the result type each annotation requires.
var returnTypes = map[string]string{
	SuiteKind:  "*model.Specification",
	HooksKind:  "*feature.Hooks",
	ConfigKind: "*kosu.Config",
}

// supportedPrimitives lists the primitive types that can be used as underlying types for custom types
var supportedPrimitives = map[string]bool{
	"string":  true,
	"int":     true,
	"int8":    true,
	"int16":   true,
	"int32":   true,
	"int64":   true,
	"uint":    true,
	"uint8":   true,
	"uint16":  true,
	"uint32":  true,
	"uint64":  true,
	"float32": true,
	"float64": true,
	"bool":    true,
}

type sourceFile struct {
	path       string
	importPath string
	node       *ast.File
}

type GoSourceFileParser struct {
}

func NewGoSourceFileParser() *GoSourceFileParser {
	return &GoSourceFileParser{}
}

// ParseDirectory collects the @kosu annotated functions of the non-test Go
// files below directory.
func (g *GoSourceFileParser) ParseDirectory(ctx context.Context, directory string) (*generator.Output, error) {
	files, err := parseFiles(ctx, directory)
	if err != nil {
		return nil, err
	}

	output := generator.NewOutput()

	// First pass: custom types, then the constants declared for them
	for _, file := range files {
		parseCustomTypes(file.node, file.importPath, output.CustomTypes)
	}
	for _, file := range files {
		parseConstants(file.node, output.CustomTypes)
	}

	// Second pass: annotated functions
	for _, file := range files {
		for _, dec := range file.node.Decls {
			decl, ok := dec.(*ast.FuncDecl)
			if !ok {
				continue
			}
			kind, argument, ok := GetAnnotation(decl)
			if !ok {
				continue
			}
			if err := addFunction(output, file, decl, kind, argument); err != nil {
				return nil, fmt.Errorf("%s: %w", file.path, err)
			}
		}
	}

	return output, nil
}

func addFunction(output *generator.Output, file sourceFile, decl *ast.FuncDecl, kind, argument string) error {
	name := decl.Name.Name
	if decl.Recv != nil || !decl.Name.IsExported() {
		return fmt.Errorf("function %s annotated with %s %s must be an exported package level function", name, Annotation, kind)
	}
	locator := &generator.FunctionLocator{
		FullPackageName: file.importPath,
		FunctionName:    name,
	}

	switch kind {
	case StepKind:
		if argument == "" {
			return fmt.Errorf("function %s annotated with %s %s has no step pattern", name, Annotation, kind)
		}
		pattern, err := transformStepPattern(argument, output.CustomTypes)
		if err != nil {
			return fmt.Errorf("error in function %s: %w", name, err)
		}
		output.StepFunctions = append(output.StepFunctions, &generator.StepFunctionLocator{
			StepName:        pattern,
			FunctionLocator: locator,
		})
	case SuiteKind, HooksKind, ConfigKind:
		if !ReturnsOnly(decl, returnTypes[kind]) {
			return fmt.Errorf("function %s annotated with %s %s must take no arguments and return %s",
				name, Annotation, kind, returnTypes[kind])
		}
		switch kind {
		case SuiteKind:
			output.SuiteFunctions = append(output.SuiteFunctions, locator)
		case HooksKind:
			output.HooksFunctions = append(output.HooksFunctions, locator)
		default:
			output.ConfigFunctions = append(output.ConfigFunctions, locator)
		}
	default:
		return fmt.Errorf("unknown annotation %s %s on function %s", Annotation, kind, name)
	}
	return nil
}

// parseFiles parses the Go files below root, skipping tests, testdata,
// vendor and hidden directories.
func parseFiles(ctx context.Context, root string) ([]sourceFile, error) {
	fset := token.NewFileSet()
	importPaths := make(map[string]string)
	var files []sourceFile

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() {
			if path != root && skipDirectory(entry.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}

		dir := filepath.Dir(path)
		importPath, ok := importPaths[dir]
		if !ok {
			importPath, err = generator.DetectImportPath(dir)
			if err != nil {
				return err
			}
			importPaths[dir] = importPath
		}

		node, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
		if err != nil {
			return err
		}
		files = append(files, sourceFile{path: path, importPath: importPath, node: node})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func skipDirectory(name string) bool {
	return name == "testdata" || name == "vendor" ||
		strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

// parseCustomTypes finds type declarations like `type Color string` in a file
func parseCustomTypes(file *ast.File, packagePath string, customTypes map[string]*generator.CustomType) {
	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}

		for _, spec := range genDecl.Specs {
			typeSpec, ok := spec.(*ast.TypeSpec)
			if !ok || typeSpec.Assign.IsValid() {
				continue
			}

			ident, ok := typeSpec.Type.(*ast.Ident)
			if !ok || !supportedPrimitives[ident.Name] {
				continue
			}

			typeName := typeSpec.Name.Name
			customTypes[strings.ToLower(typeName)] = &generator.CustomType{
				Name:        typeName,
				PackagePath: packagePath,
				Underlying:  ident.Name,
				Values:      make(map[string]string),
			}
		}
	}
}

// parseConstants finds constant declarations and associates them with custom types.
// Within a const block iota counts specs and a spec without values repeats
// the last expression.
func parseConstants(file *ast.File, customTypes map[string]*generator.CustomType) {
	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.CONST {
			continue
		}

		var (
			currentType string
			lastValues  []ast.Expr
		)
		for index, spec := range genDecl.Specs {
			valueSpec, ok := spec.(*ast.ValueSpec)
			if !ok {
				continue
			}

			if len(valueSpec.Values) > 0 {
				lastValues = valueSpec.Values
				currentType = ""
				if ident, ok := valueSpec.Type.(*ast.Ident); ok {
					currentType = ident.Name
				}
			}

			ct, ok := customTypes[strings.ToLower(currentType)]
			if !ok {
				continue
			}

			for i, name := range valueSpec.Names {
				if name.Name == "_" || i >= len(lastValues) {
					continue
				}
				if value := evaluateConstExpr(lastValues[i], int64(index), ct.Underlying); value != "" {
					ct.Values[name.Name] = value
				}
			}
		}
	}
}

// evaluateConstExpr evaluates a constant expression and returns its string value
func evaluateConstExpr(expr ast.Expr, iotaValue int64, underlying string) string {
	switch e := expr.(type) {
	case *ast.BasicLit:
		if e.Kind == token.STRING {
			value, err := strconv.Unquote(e.Value)
			if err != nil {
				return ""
			}
			return value
		}
		return e.Value

	case *ast.Ident:
		switch e.Name {
		case "iota":
			return strconv.FormatInt(iotaValue, 10)
		case "true", "false":
			return e.Name
		}
		return ""

	case *ast.BinaryExpr:
		// Handle expressions like iota + 1
		if !isIntType(underlying) {
			return ""
		}
		left, err := strconv.ParseInt(evaluateConstExpr(e.X, iotaValue, underlying), 10, 64)
		if err != nil {
			return ""
		}
		right, err := strconv.ParseInt(evaluateConstExpr(e.Y, iotaValue, underlying), 10, 64)
		if err != nil {
			return ""
		}
		switch e.Op {
		case token.ADD:
			return strconv.FormatInt(left+right, 10)
		case token.SUB:
			return strconv.FormatInt(left-right, 10)
		case token.MUL:
			return strconv.FormatInt(left*right, 10)
		case token.QUO:
			if right != 0 {
				return strconv.FormatInt(left/right, 10)
			}
		case token.SHL:
			return strconv.FormatInt(left<<right, 10)
		}
		return ""

	case *ast.UnaryExpr:
		if e.Op == token.SUB {
			if value := evaluateConstExpr(e.X, iotaValue, underlying); value != "" {
				return "-" + value
			}
		}
		return ""

	case *ast.ParenExpr:
		return evaluateConstExpr(e.X, iotaValue, underlying)

	default:
		return ""
	}
}

func isIntType(typeName string) bool {
	switch typeName {
	case "int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64":
		return true
	}
	return false
}

// builtInTypes maps built-in parameter type names to their regex patterns
var builtInTypes = map[string]string{
	"int":    `(-?\d+)`,       // Matches integers (positive/negative)
	"float":  `(-?\d*\.?\d+)`, // Matches floating point numbers
	"word":   `(\w+)`,         // Matches a single word (no whitespace)
	"string": `"([^"]*)"`,     // Matches double-quoted strings (captures content without quotes)
	"bool":   `(true|false)`,
	"":       `(.*)`,
	"any":    `(.*)`,

	// Go time.Duration strings: 5s, 1h30m, 500ms, -30m
	"duration": `(-?(?:\d+\.?\d*(?:ns|us|µs|ms|s|m|h))+)`,

	"email": `([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`,
	"url":   `(https?://[^\s]+)`,
}

// transformStepPattern replaces {typename} placeholders with regex patterns
func transformStepPattern(pattern string, customTypes map[string]*generator.CustomType) (string, error) {
	result := pattern
	start := 0

	for {
		openBrace := strings.Index(result[start:], "{")
		if openBrace == -1 {
			break
		}
		openBrace += start

		closeBrace := strings.Index(result[openBrace:], "}")
		if closeBrace == -1 {
			break
		}
		closeBrace += openBrace

		typeName := result[openBrace+1 : closeBrace]
		if isQuantifier(typeName) {
			start = closeBrace + 1
			continue
		}

		regexPattern, ok := builtInTypes[strings.ToLower(typeName)]
		if !ok {
			ct, ok := customTypes[strings.ToLower(typeName)]
			if !ok {
				return "", fmt.Errorf("unknown parameter type {%s} in step pattern (not a built-in type or custom type)", typeName)
			}
			if len(ct.Values) == 0 {
				return "", fmt.Errorf("custom type %s has no defined constants", ct.Name)
			}
			regexPattern = "(" + ct.RegexPattern() + ")"
		}

		result = result[:openBrace] + regexPattern + result[closeBrace+1:]
		start = openBrace + len(regexPattern)
	}

	return result, nil
}

// isQuantifier reports regex repetitions such as {2} or {1,3}, which stay
// untouched.
func isQuantifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != ',' {
			return false
		}
	}
	return true
}

// GetAnnotation returns the kind and argument of the first
//
//	// @kosu <kind> [`argument`]
//
// line in the doc comment of fnDecl.
func GetAnnotation(fnDecl *ast.FuncDecl) (kind, argument string, ok bool) {
	if fnDecl.Doc == nil {
		return "", "", false
	}
	for _, comment := range fnDecl.Doc.List {
		text := strings.TrimSpace(strings.TrimPrefix(comment.Text, "//"))
		rest, found := strings.CutPrefix(text, Annotation+" ")
		if !found {
			continue
		}
		kind, argument, _ = strings.Cut(strings.TrimSpace(rest), " ")
		argument = strings.TrimSpace(argument)
		if unquoted, err := strconv.Unquote(argument); err == nil {
			argument = unquoted
		}
		return kind, argument, true
	}
	return "", "", false
}

// ReturnsOnly reports whether fnDecl takes no parameters and returns a
// single value of type want, such as *feature.Hooks. The unqualified *Hooks
// matches as well.
func ReturnsOnly(fnDecl *ast.FuncDecl, want string) bool {
	if fnDecl.Type.Params != nil && len(fnDecl.Type.Params.List) > 0 {
		return false
	}
	if fnDecl.Type.Results == nil || len(fnDecl.Type.Results.List) != 1 || len(fnDecl.Type.Results.List[0].Names) > 1 {
		return false
	}
	returned := analyzeExpr(fnDecl.Type.Results.List[0].Type)
	if returned == want {
		return true
	}
	_, typeName, _ := strings.Cut(want, ".")
	return returned == "*"+typeName
}

func analyzeExpr(expr ast.Expr) string {
	switch expr := expr.(type) {
	case *ast.Ident:
		return expr.Name
	case *ast.SelectorExpr:
		return fmt.Sprintf("%s.%s", analyzeExpr(expr.X), expr.Sel.Name)
	case *ast.StarExpr:
		return "*" + analyzeExpr(expr.X)
	case *ast.ParenExpr:
		return "(" + analyzeExpr(expr.X) + ")"
	case *ast.ArrayType:
		return "[]" + analyzeExpr(expr.Elt)
	case *ast.MapType:
		return "map[" + analyzeExpr(expr.Key) + "]" + analyzeExpr(expr.Value)
	default:
		return "unknown"
	}
}
