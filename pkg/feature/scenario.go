package feature

import messages "github.com/cucumber/messages/go/v21"

// Scenario holds metadata about the currently executing scenario.
// Passed to BeforeScenario/AfterScenario hooks.
type Scenario struct {
	// Name is the pickle name. For expanded Scenario Outlines this includes
	// the substituted values.
	Name string

	// Tags contains the tag names attached to this scenario, including tags
	// inherited from the Feature, Rule or Examples block.
	Tags []string

	// Description is the optional free-text description below the
	// Scenario: line.
	Description string

	// Keyword is "Scenario" or "Scenario Outline".
	Keyword string

	// URI is the feature file the scenario comes from.
	URI string

	// Line is the source file line number where the scenario is defined.
	Line int64
}

// Step holds metadata about the currently executing step.
// Passed to BeforeStep/AfterStep hooks.
type Step struct {
	// Keyword is the Gherkin keyword including trailing whitespace
	// (e.g. "Given ", "When ", "Then ", "And ", "But ").
	Keyword string

	// Text is the step text after the keyword, with outline values
	// substituted.
	Text string

	// Line is the source file line number where the step is defined.
	Line int64
}

// astIndex looks up the Gherkin AST nodes pickles were compiled from.
type astIndex struct {
	scenarios map[string]*messages.Scenario
	steps     map[string]*messages.Step
}

func newASTIndex(document *messages.GherkinDocument) *astIndex {
	index := &astIndex{
		scenarios: make(map[string]*messages.Scenario),
		steps:     make(map[string]*messages.Step),
	}
	if document == nil || document.Feature == nil {
		return index
	}

	for _, child := range document.Feature.Children {
		switch {
		case child.Background != nil:
			index.addSteps(child.Background.Steps)
		case child.Scenario != nil:
			index.addScenario(child.Scenario)
		case child.Rule != nil:
			for _, ruleChild := range child.Rule.Children {
				if ruleChild.Background != nil {
					index.addSteps(ruleChild.Background.Steps)
				}
				if ruleChild.Scenario != nil {
					index.addScenario(ruleChild.Scenario)
				}
			}
		}
	}
	return index
}

func (i *astIndex) addScenario(scenario *messages.Scenario) {
	i.scenarios[scenario.Id] = scenario
	i.addSteps(scenario.Steps)
}

func (i *astIndex) addSteps(steps []*messages.Step) {
	for _, step := range steps {
		i.steps[step.Id] = step
	}
}

// scenario builds the metadata of pickle. The first AST node id of a
// pickle is its scenario.
func (i *astIndex) scenario(pickle *messages.Pickle) Scenario {
	s := Scenario{
		Name: pickle.Name,
		Tags: pickleTagNames(pickle.Tags),
		URI:  pickle.Uri,
	}
	if len(pickle.AstNodeIds) == 0 {
		return s
	}
	if node, ok := i.scenarios[pickle.AstNodeIds[0]]; ok {
		s.Description = node.Description
		s.Keyword = node.Keyword
		if node.Location != nil {
			s.Line = node.Location.Line
		}
	}
	return s
}

func (i *astIndex) step(step *messages.PickleStep) Step {
	s := Step{Text: step.Text}
	if len(step.AstNodeIds) == 0 {
		return s
	}
	if node, ok := i.steps[step.AstNodeIds[0]]; ok {
		s.Keyword = node.Keyword
		if node.Location != nil {
			s.Line = node.Location.Line
		}
	}
	return s
}

func pickleTagNames(tags []*messages.PickleTag) []string {
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Name
	}
	return names
}

func tagNames(tags []*messages.Tag) []string {
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Name
	}
	return names
}
