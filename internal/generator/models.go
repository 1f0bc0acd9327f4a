package generator

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/dave/jennifer/jen"
)

const (
	kosuPackage    = "github.com/denizgursoy/kosu/pkg/kosu"
	featurePackage = "github.com/denizgursoy/kosu/pkg/feature"
	suitePackage   = "github.com/denizgursoy/kosu/pkg/suite"
)

type (
	FunctionLocator struct {
		FullPackageName string
		FunctionName    string
	}

	StepFunctionLocator struct {
		StepName string
		*FunctionLocator
	}

	// CustomType is a user-defined type like `type Color string` with the
	// constants declared for it. Step placeholders naming the type match
	// exactly the constant values.
	CustomType struct {
		Name        string            // Type name, e.g., "Color"
		PackagePath string            // Full package path
		Underlying  string            // Underlying primitive type: "string", "int", "float64", etc.
		Values      map[string]string // Constant name -> value, e.g., {"Red": "red", "Blue": "blue"}
	}

	Output struct {
		ConfigFunctions    []*FunctionLocator // Functions returning *kosu.Config
		HooksFunctions     []*FunctionLocator // Functions returning *feature.Hooks
		SuiteFunctions     []*FunctionLocator // Functions returning *model.Specification
		StepFunctions      []*StepFunctionLocator
		CustomTypes        map[string]*CustomType // lowercase type name -> CustomType
		CurrentPackagePath string                 // Full import path of the package where the test file is generated
		PackageName        string                 // Short package name (e.g., "myapp"); if empty, defaults to "main"
	}
)

func NewOutput() *Output {
	return &Output{CustomTypes: make(map[string]*CustomType)}
}

// ValuesList returns the sorted constant values of the type.
func (ct *CustomType) ValuesList() []string {
	values := make([]string, 0, len(ct.Values))
	seen := make(map[string]bool)
	for _, v := range ct.Values {
		if !seen[v] {
			values = append(values, v)
			seen[v] = true
		}
	}
	sort.Strings(values)
	return values
}

// RegexPattern returns an alternation of the constant values. Arguments are
// converted through the underlying type, so only values can match.
func (ct *CustomType) RegexPattern() string {
	values := ct.ValuesList()
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, regexp.QuoteMeta(v))
	}
	return strings.Join(parts, "|")
}

// Merge appends the functions found in other. Step patterns must stay
// unique across all merged outputs.
func (o *Output) Merge(other *Output) error {
	if other == nil {
		return nil
	}
	if o.CustomTypes == nil {
		o.CustomTypes = make(map[string]*CustomType)
	}

	seen := make(map[string]*FunctionLocator, len(o.StepFunctions))
	for _, step := range o.StepFunctions {
		seen[step.StepName] = step.FunctionLocator
	}
	for _, step := range other.StepFunctions {
		if previous, ok := seen[step.StepName]; ok {
			return fmt.Errorf("duplicate step pattern %q in %s and %s", step.StepName, previous, step.FunctionLocator)
		}
		seen[step.StepName] = step.FunctionLocator
	}

	o.ConfigFunctions = append(o.ConfigFunctions, other.ConfigFunctions...)
	o.HooksFunctions = append(o.HooksFunctions, other.HooksFunctions...)
	o.SuiteFunctions = append(o.SuiteFunctions, other.SuiteFunctions...)
	o.StepFunctions = append(o.StepFunctions, other.StepFunctions...)
	for name, ct := range other.CustomTypes {
		o.CustomTypes[name] = ct
	}
	return nil
}

func (f *FunctionLocator) String() string {
	return f.FullPackageName + "." + f.FunctionName
}

// isSamePackage returns true when the function is in the same package as the
// generated test file and therefore should be called without an import qualifier.
func (o *Output) isSamePackage(fullPkg string) bool {
	return o.CurrentPackagePath != "" && fullPkg == o.CurrentPackagePath
}

// qualOrLocal returns a jen.Statement that either qualifies the function call with
// its package path (for external packages) or calls it directly (for same-package).
func (o *Output) qualOrLocal(fullPkg, funcName string) *jen.Statement {
	if o.isSamePackage(fullPkg) {
		return jen.Id(funcName)
	}
	return jen.Qual(fullPkg, funcName)
}

func (o *Output) calls(functions []*FunctionLocator) []jen.Code {
	calls := make([]jen.Code, 0, len(functions))
	for _, f := range functions {
		calls = append(calls, o.qualOrLocal(f.FullPackageName, f.FunctionName).Call())
	}
	return calls
}

// Generate writes a test file whose TestKosu function registers the suites
// and steps of o, runs them together with the feature files below the
// package directory and fails the test on a non-zero exit code.
func (o *Output) Generate(writer io.Writer) error {
	pkgName := o.PackageName
	if pkgName == "" {
		pkgName = "main"
	}
	file := jen.NewFile(pkgName)
	file.HeaderComment("Code generated by kosu gen. DO NOT EDIT.")

	var statements []jen.Code

	statements = append(statements,
		jen.Id("suiteRegistry").Op(":=").Qual(suitePackage, "NewRegistry").Call(o.calls(o.SuiteFunctions)...),
	)

	steps := jen.Qual(featurePackage, "NewStepRegistry").Call()
	for _, function := range o.StepFunctions {
		steps.Op(".").Line().Id("MustRegisterStep").Call(
			jen.Lit(function.StepName),
			o.qualOrLocal(function.FullPackageName, function.FunctionName),
		)
	}
	statements = append(statements, jen.Id("stepRegistry").Op(":=").Add(steps))

	statements = append(statements,
		jen.List(jen.Id("features"), jen.Err()).Op(":=").Qual(featurePackage, "Targets").Call(),
		jen.If(jen.Err().Op("!=").Nil()).Block(
			jen.Id("t").Dot("Fatal").Call(jen.Err()),
		),
		jen.Id("args").Op(":=").Qual(kosuPackage, "ArgsOrDefault").Call(
			jen.Append(jen.Id("suiteRegistry").Dot("Names").Call(), jen.Id("features").Op("...")).Op("..."),
		),
	)

	var featureOptions []jen.Code
	featureOptions = append(featureOptions, jen.Id("stepRegistry"))
	if len(o.HooksFunctions) > 0 {
		featureOptions = append(featureOptions, jen.Qual(featurePackage, "WithHooks").Call(o.calls(o.HooksFunctions)...))
	}

	var options []jen.Code
	options = append(options, jen.Id("args"))
	if len(o.ConfigFunctions) > 0 {
		options = append(options, jen.Qual(kosuPackage, "WithConfig").Call(
			jen.Qual(kosuPackage, "MergeConfigs").Call(o.calls(o.ConfigFunctions)...),
		))
	}
	options = append(options,
		jen.Qual(kosuPackage, "WithIntrospector").Call(jen.Id("suiteRegistry")),
		jen.Qual(kosuPackage, "WithIntrospector").Call(jen.Qual(featurePackage, "NewIntrospector").Call(featureOptions...)),
	)

	statements = append(statements,
		jen.If(
			jen.Id("code").Op(":=").Qual(kosuPackage, "Main").CallFunc(func(g *jen.Group) {
				for _, option := range options {
					g.Line().Add(option)
				}
				g.Line()
			}),
			jen.Id("code").Op("!=").Lit(0),
		).Block(
			jen.Id("t").Dot("Fatalf").Call(jen.Lit("kosu failed with exit code %d"), jen.Id("code")),
		),
	)

	file.Func().Id("TestKosu").Params(
		jen.Id("t").Op("*").Qual("testing", "T"),
	).Block(statements...)

	return file.Render(writer)
}
