package filters

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	tagexpressions "github.com/cucumber/tag-expressions/go/v6"

	"github.com/denizgursoy/kosu/pkg/model"
	"github.com/denizgursoy/kosu/pkg/runner"
)

const (
	IncludeCategories = "IncludeCategories"
	ExcludeCategories = "ExcludeCategories"
	Tags              = "Tags"
	Method            = "Method"
)

var ErrNoCategories = errors.New("no categories specified")

// Defaults returns a registry with the built-in factories. Specs without a
// factory name are tag expressions.
func Defaults() *Registry {
	return NewRegistry().
		Register(IncludeCategories, FactoryFunc(includeCategories)).
		Register(ExcludeCategories, FactoryFunc(excludeCategories)).
		Register(Tags, FactoryFunc(tags)).
		Register(Method, FactoryFunc(method)).
		SetDefault(Tags)
}

func includeCategories(params Params) (runner.Filter, error) {
	wanted, err := parseCategories(params.Args)
	if err != nil {
		return nil, err
	}
	describe := "includes categories [" + strings.Join(wanted, ", ") + "]"
	return runner.MatchTests(describe, func(d *model.Description) bool {
		return hasAnyCategory(d, wanted)
	}), nil
}

func excludeCategories(params Params) (runner.Filter, error) {
	unwanted, err := parseCategories(params.Args)
	if err != nil {
		return nil, err
	}
	describe := "excludes categories [" + strings.Join(unwanted, ", ") + "]"
	return runner.MatchTests(describe, func(d *model.Description) bool {
		return !hasAnyCategory(d, unwanted)
	}), nil
}

func tags(params Params) (runner.Filter, error) {
	expression := strings.TrimSpace(params.Args)
	if expression == "" {
		return nil, errors.New("empty tag expression")
	}
	evaluator, err := tagexpressions.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid tag expression %q: %w", expression, err)
	}
	return runner.MatchTests("tags "+expression, func(d *model.Description) bool {
		return evaluator.Evaluate(tagNames(d.Categories()))
	}), nil
}

var methodPattern = regexp.MustCompile(`^(.+)\((.+)\)$`)

// method accepts "Class#method" or the display name "method(Class)".
func method(params Params) (runner.Filter, error) {
	args := strings.TrimSpace(params.Args)
	if class, name, ok := strings.Cut(args, "#"); ok && class != "" && name != "" {
		return runner.MatchMethod(model.CreateTestDescription(class, name)), nil
	}
	if m := methodPattern.FindStringSubmatch(args); m != nil {
		return runner.MatchMethod(model.CreateTestDescription(m[2], m[1])), nil
	}
	return nil, fmt.Errorf("expected Class#method or method(Class), got %q", args)
}

func parseCategories(args string) ([]string, error) {
	var categories []string
	for _, category := range strings.Split(args, ",") {
		category = normalize(category)
		if category != "" {
			categories = append(categories, category)
		}
	}
	if len(categories) == 0 {
		return nil, ErrNoCategories
	}
	return categories, nil
}

func hasAnyCategory(d *model.Description, categories []string) bool {
	for _, category := range d.Categories() {
		if slices.Contains(categories, normalize(category)) {
			return true
		}
	}
	return false
}

// normalize drops surrounding spaces and the tag marker so "@fast" and
// "fast" name the same category.
func normalize(category string) string {
	return strings.TrimPrefix(strings.TrimSpace(category), "@")
}

func tagNames(categories []string) []string {
	names := make([]string, 0, len(categories))
	for _, category := range categories {
		names = append(names, "@"+normalize(category))
	}
	return names
}
