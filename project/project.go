// Package project persists named groups of scenarios together with their
// target packages and the sources last generated from them.
package project

import (
	"strings"
	"time"

	"github.com/teranos/tripgen/errors"
	"github.com/teranos/tripgen/triplet"
	"github.com/teranos/tripgen/typegen/render"
)

// Project is a set of scenarios synthesized together.
type Project struct {
	ID                    string             `json:"id"`
	Name                  string             `json:"name"`
	DeclarationsPackage   string             `json:"generationPackage"`
	ImplementationPackage string             `json:"implementationPackage"`
	CreatedAt             time.Time          `json:"createdAt"`
	Scenarios             []triplet.Scenario `json:"scenarios,omitempty"`
}

// CreateRequest holds the caller-supplied fields of a new project.
type CreateRequest struct {
	Name                  string `json:"name"`
	DeclarationsPackage   string `json:"generationPackage"`
	ImplementationPackage string `json:"implementationPackage"`
}

// Validate rejects requests with blank fields.
func (r CreateRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.NewInvalidRequestError("project name is required")
	}
	return r.generationConfig("").Validate()
}

func (r CreateRequest) generationConfig(ext string) render.GenerationConfig {
	return render.GenerationConfig{
		DeclarationsPackage:   r.DeclarationsPackage,
		ImplementationPackage: r.ImplementationPackage,
		FileExtension:         ext,
	}
}

// GenerationConfig returns the project's packages with the given file
// extension.
func (p *Project) GenerationConfig(ext string) render.GenerationConfig {
	return render.GenerationConfig{
		DeclarationsPackage:   p.DeclarationsPackage,
		ImplementationPackage: p.ImplementationPackage,
		FileExtension:         ext,
	}
}
