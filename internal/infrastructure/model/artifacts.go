// Package model loads the exported TF-IDF vectorizer and classifier once at
// startup. Loaded artifacts are read-only.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

type Artifacts struct {
	Vectorizer *Vectorizer
	Classifier Classifier
}

// Load reads both artifacts and checks that their feature spaces agree.
func Load(vectorizerPath, classifierPath string) (*Artifacts, error) {
	var vSpec VectorizerSpec
	if err := decodeFile(vectorizerPath, &vSpec); err != nil {
		return nil, fmt.Errorf("load vectorizer: %w", err)
	}
	vectorizer, err := NewVectorizer(vSpec)
	if err != nil {
		return nil, fmt.Errorf("build vectorizer: %w", err)
	}

	var cSpec ClassifierSpec
	if err := decodeFile(classifierPath, &cSpec); err != nil {
		return nil, fmt.Errorf("load classifier: %w", err)
	}
	classifier, err := NewClassifier(cSpec)
	if err != nil {
		return nil, fmt.Errorf("build classifier: %w", err)
	}

	return NewArtifacts(vectorizer, classifier)
}

func NewArtifacts(vectorizer *Vectorizer, classifier Classifier) (*Artifacts, error) {
	if vectorizer.Dim() != classifier.NFeatures() {
		return nil, fmt.Errorf(
			"vectorizer produces %d features but classifier expects %d",
			vectorizer.Dim(), classifier.NFeatures(),
		)
	}
	return &Artifacts{
		Vectorizer: vectorizer,
		Classifier: classifier,
	}, nil
}

func decodeFile(path string, out any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode yaml %s: %w", path, err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(out); err != nil {
			return fmt.Errorf("decode json %s: %w", path, err)
		}
	}
	return nil
}
