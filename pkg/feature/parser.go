// Package feature turns Gherkin .feature files into specifications: every
// scenario becomes a test whose steps run registered step functions.
package feature

import (
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	gherkin "github.com/cucumber/gherkin/go/v26"
	messages "github.com/cucumber/messages/go/v21"
	"github.com/google/uuid"
)

const (
	FeatureExtension = ".feature"
)

// SearchFeatureFiles returns every .feature file below the directories, in
// lexical order per directory.
func SearchFeatureFiles(directories []string) ([]string, error) {
	featureFiles := make([]string, 0)

	for _, directory := range directories {
		err := filepath.WalkDir(directory, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !entry.IsDir() && strings.HasSuffix(entry.Name(), FeatureExtension) {
				featureFiles = append(featureFiles, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return featureFiles, nil
}

// Targets lists the feature files below the directories, "." by default.
func Targets(directories ...string) ([]string, error) {
	if len(directories) == 0 {
		directories = []string{"."}
	}
	return SearchFeatureFiles(directories)
}

// ParseFeature parses one Gherkin document.
func ParseFeature(reader io.Reader) (*messages.GherkinDocument, error) {
	id := (&messages.Incrementing{}).NewId
	return gherkin.ParseGherkinDocument(reader, id)
}

// Compile expands a document into pickles: one per scenario and per example
// row of scenario outlines, with backgrounds inlined.
func Compile(document *messages.GherkinDocument, uri string) []*messages.Pickle {
	if document == nil || document.Feature == nil {
		return nil
	}
	return gherkin.Pickles(*document, uri, uuid.NewString)
}
