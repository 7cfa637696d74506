// Package render is the template rendering service the synthesis engine
// calls once per emitted file.
//
// Templates are text/template files embedded from templates/ and addressed
// by their file name without the .tmpl suffix ("Subject.kt"). Every
// template is executed with missingkey=error so an unresolved parameter is a
// failure rather than "<no value>" in generated code.
package render

import (
	"bytes"
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"
	"text/template"

	"github.com/teranos/tripgen/errors"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Template ids of the embedded Kotlin templates.
const (
	SubjectTemplate   = "Subject.kt"
	ParameterTemplate = "Parameter.kt"
	TestTemplate      = "Test.kt"
)

// ConfigKey is the parameter key the generation configuration is exposed
// under inside every template.
const ConfigKey = "Config"

// GenerationConfig names the target packages. It is passed by value to every
// render call and never modified.
type GenerationConfig struct {
	// DeclarationsPackage holds generated interfaces and parameter classes
	DeclarationsPackage string `json:"generationPackage"`

	// ImplementationPackage holds the <Subject>Impl classes the tests instantiate
	ImplementationPackage string `json:"implementationPackage"`

	// FileExtension is appended to every generated file name; empty means ".kt"
	FileExtension string `json:"-"`
}

// Extension returns FileExtension or the Kotlin default.
func (c GenerationConfig) Extension() string {
	if c.FileExtension == "" {
		return ".kt"
	}
	return c.FileExtension
}

// Validate rejects a configuration with an empty package name.
func (c GenerationConfig) Validate() error {
	if strings.TrimSpace(c.DeclarationsPackage) == "" {
		return errors.NewInvalidRequestError("declarations package is required")
	}
	if strings.TrimSpace(c.ImplementationPackage) == "" {
		return errors.NewInvalidRequestError("implementation package is required")
	}
	return nil
}

// Renderer holds parsed templates. It is safe for concurrent use: templates
// are never modified after New returns.
type Renderer struct {
	templates map[string]*template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, errors.Wrap(err, "failed to open embedded templates")
	}
	return NewFromFS(sub)
}

// NewFromFS parses every *.tmpl file at the root of fsys.
func NewFromFS(fsys fs.FS) (*Renderer, error) {
	files, err := fs.Glob(fsys, "*.tmpl")
	if err != nil {
		return nil, errors.Wrap(err, "failed to list templates")
	}
	sort.Strings(files)

	r := &Renderer{templates: make(map[string]*template.Template, len(files))}
	for _, file := range files {
		content, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read template %s", file)
		}
		id := strings.TrimSuffix(path.Base(file), ".tmpl")
		tmpl, err := template.New(id).
			Funcs(funcs).
			Option("missingkey=error").
			Parse(string(content))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse template %s", file)
		}
		r.templates[id] = tmpl
	}
	return r, nil
}

// Templates returns the known template ids, sorted.
func (r *Renderer) Templates() []string {
	ids := make([]string, 0, len(r.templates))
	for id := range r.templates {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Render executes templateID against a copy of params with cfg added under
// ConfigKey. params is not modified or retained.
//
// Failures are distinct: ErrTemplateNotFound for an unknown id,
// ErrMissingParameter when the template references a key or field that was
// not supplied, ErrRenderFailed otherwise.
func (r *Renderer) Render(templateID string, params map[string]any, cfg GenerationConfig) (string, error) {
	tmpl, ok := r.templates[templateID]
	if !ok {
		return "", errors.WithDetailf(errors.Wrapf(errors.ErrTemplateNotFound, "%q", templateID),
			"known templates: %s", strings.Join(r.Templates(), ", "))
	}

	data := make(map[string]any, len(params)+1)
	for k, v := range params {
		data[k] = v
	}
	data[ConfigKey] = cfg

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		sentinel := errors.ErrRenderFailed
		if isMissingParameter(err) {
			sentinel = errors.ErrMissingParameter
		}
		return "", errors.WithDetail(errors.Wrap(sentinel, err.Error()), "template "+templateID)
	}
	return buf.String(), nil
}

func isMissingParameter(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "map has no entry for key") ||
		strings.Contains(msg, "can't evaluate field") ||
		strings.Contains(msg, "nil pointer evaluating")
}

var funcs = template.FuncMap{
	"quote": KotlinString,
}

var kotlinEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	`$`, `\$`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// KotlinString returns s as a double-quoted Kotlin string literal.
func KotlinString(s string) string {
	return `"` + kotlinEscaper.Replace(s) + `"`
}
