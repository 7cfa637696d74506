// Package typegen holds the language-agnostic output model of a synthesis
// run and the Generator contract each target language implements.
package typegen

import (
	"os"
	"path/filepath"

	"github.com/teranos/tripgen/errors"
	"github.com/teranos/tripgen/triplet"
	"github.com/teranos/tripgen/typegen/util"
)

// Source is one generated file.
type Source struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Result is the complete output of one synthesis run: subject interfaces,
// then parameter classes, then one test per scenario.
type Result struct {
	Files []Source `json:"files"`
}

// Generator turns scenarios into source files for one target language.
type Generator interface {
	// Language returns the target language name, e.g. "kotlin"
	Language() string

	// FileExtension returns the extension appended to every file name, e.g. ".kt"
	FileExtension() string

	// SynthesizeOne scopes declarations to a single scenario.
	SynthesizeOne(scenario triplet.Scenario) (*Result, error)

	// SynthesizeBatch shares declarations across all scenarios and emits one
	// test per scenario.
	SynthesizeBatch(scenarios []triplet.Scenario) (*Result, error)
}

// Names returns the file names in output order.
func (r *Result) Names() []string {
	names := make([]string, len(r.Files))
	for i, f := range r.Files {
		names[i] = f.Name
	}
	return names
}

// Lookup returns the file with the given name.
func (r *Result) Lookup(name string) (Source, bool) {
	for _, f := range r.Files {
		if f.Name == name {
			return f, true
		}
	}
	return Source{}, false
}

// WriteDir writes every file into dir, creating it and any directories
// named by slash-separated file names.
func (r *Result) WriteDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "failed to create output directory %s", dir)
	}
	for _, f := range r.Files {
		path := filepath.Join(dir, filepath.FromSlash(f.Name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return errors.Wrapf(err, "failed to create directory for %s", path)
		}
		if err := os.WriteFile(path, []byte(f.Content), 0644); err != nil {
			return errors.Wrapf(err, "failed to write %s", path)
		}
	}
	return nil
}

// Merge joins the files of independent runs in first-seen order. Runs that
// share declarations produce the same file twice; identical copies are kept
// once, while two different files under one name are a collision.
func Merge(results ...*Result) (*Result, error) {
	set := util.NewOrderedSet[string, Source]()
	for _, r := range results {
		if r == nil {
			continue
		}
		for _, f := range r.Files {
			if existing, ok := set.Get(f.Name); ok {
				if existing.Content != f.Content {
					return nil, errors.Collisionf("two different files named %s", f.Name)
				}
				continue
			}
			set.Add(f.Name, f)
		}
	}
	return &Result{Files: set.Values()}, nil
}
