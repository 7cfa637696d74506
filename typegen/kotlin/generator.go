package kotlin

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/tripgen/errors"
	"github.com/teranos/tripgen/logger"
	"github.com/teranos/tripgen/triplet"
	"github.com/teranos/tripgen/typegen"
	"github.com/teranos/tripgen/typegen/render"
	"github.com/teranos/tripgen/typegen/util"
)

var embeddedRenderer = sync.OnceValues(render.New)

// Generator implements typegen.Generator for Kotlin. It keeps no state
// between runs and may be shared by concurrent callers.
type Generator struct {
	renderer *render.Renderer
	config   render.GenerationConfig
	logger   *zap.SugaredLogger
}

var _ typegen.Generator = (*Generator)(nil)

// NewGenerator creates a generator over the embedded templates.
// If log is nil, logging is disabled.
func NewGenerator(cfg render.GenerationConfig, log *zap.SugaredLogger) (*Generator, error) {
	r, err := embeddedRenderer()
	if err != nil {
		return nil, err
	}
	return NewGeneratorWithRenderer(r, cfg, log)
}

// NewGeneratorWithRenderer creates a generator over caller-supplied templates.
func NewGeneratorWithRenderer(r *render.Renderer, cfg render.GenerationConfig, log *zap.SugaredLogger) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Generator{renderer: r, config: cfg, logger: log}, nil
}

// Language returns "kotlin"
func (g *Generator) Language() string {
	return "kotlin"
}

// FileExtension returns the configured extension, ".kt" by default
func (g *Generator) FileExtension() string {
	return g.config.Extension()
}

// SynthesizeOne renders the interfaces and classes used by one scenario plus
// its test.
func (g *Generator) SynthesizeOne(scenario triplet.Scenario) (*typegen.Result, error) {
	return g.synthesize(scenario.Triplets, []triplet.Scenario{scenario})
}

// SynthesizeBatch renders interfaces and classes once over the union of all
// scenarios' triplets, then one test per scenario.
func (g *Generator) SynthesizeBatch(scenarios []triplet.Scenario) (*typegen.Result, error) {
	return g.synthesize(triplet.Flatten(scenarios), scenarios)
}

// SynthesizeOne is a convenience wrapper over a fresh Generator.
func SynthesizeOne(scenario triplet.Scenario, cfg render.GenerationConfig) (*typegen.Result, error) {
	g, err := NewGenerator(cfg, nil)
	if err != nil {
		return nil, err
	}
	return g.SynthesizeOne(scenario)
}

// SynthesizeBatch is a convenience wrapper over a fresh Generator.
func SynthesizeBatch(scenarios []triplet.Scenario, cfg render.GenerationConfig) (*typegen.Result, error) {
	g, err := NewGenerator(cfg, nil)
	if err != nil {
		return nil, err
	}
	return g.SynthesizeBatch(scenarios)
}

// synthesize is all-or-nothing: any failure discards every file.
func (g *Generator) synthesize(scope []triplet.Triplet, scenarios []triplet.Scenario) (*typegen.Result, error) {
	start := time.Now()

	keyer := triplet.NewKeyer()
	for _, s := range scenarios {
		if err := keyer.ValidateScenario(s); err != nil {
			return nil, err
		}
	}

	interfaces, err := SynthesizeInterfaces(scope, keyer)
	if err != nil {
		return nil, err
	}
	classes, err := SynthesizeClasses(scope, keyer)
	if err != nil {
		return nil, err
	}

	files := newFileSet(g.config.Extension())

	for _, d := range interfaces {
		content, err := g.renderer.Render(render.SubjectTemplate, map[string]any{
			"Subject": d.Name,
			"Imports": d.Imports,
			"Methods": d.Methods,
		}, g.config)
		if err != nil {
			return nil, errors.WithDetailf(err, "interface %s", d.Name)
		}
		if err := files.add(d.Name, "interface "+d.Name, content); err != nil {
			return nil, err
		}
	}

	for _, d := range classes {
		content, err := g.renderer.Render(render.ParameterTemplate, map[string]any{
			"Class":  d.Name,
			"Fields": d.Fields,
		}, g.config)
		if err != nil {
			return nil, errors.WithDetailf(err, "class %s", d.Name)
		}
		if err := files.add(d.Name, "class "+d.Name, content); err != nil {
			return nil, err
		}
	}

	for _, s := range scenarios {
		d, err := SynthesizeTest(s)
		if err != nil {
			return nil, err
		}
		content, err := g.renderer.Render(render.TestTemplate, map[string]any{
			"TestClass": d.ClassName,
			"Subjects":  d.Subjects,
			"Types":     d.Types,
			"Calls":     d.Calls,
		}, g.config)
		if err != nil {
			return nil, errors.WithDetailf(err, "scenario %q", s.Name)
		}
		if err := files.add(d.FileName, "scenario "+s.Name, content); err != nil {
			return nil, err
		}
	}

	g.logger.Debugw("Synthesized sources",
		logger.FieldScenarioCount, len(scenarios),
		logger.FieldTripletCount, len(scope),
		"interfaces", len(interfaces),
		"classes", len(classes),
		logger.FieldCount, files.set.Len(),
		logger.FieldDurationMS, time.Since(start).Milliseconds())

	return &typegen.Result{Files: files.sources()}, nil
}

type generatedFile struct {
	origin string
	source typegen.Source
}

// fileSet rejects a second file with the same name instead of overwriting.
type fileSet struct {
	ext string
	set *util.OrderedSet[string, generatedFile]
}

func newFileSet(ext string) *fileSet {
	return &fileSet{ext: ext, set: util.NewOrderedSet[string, generatedFile]()}
}

func (f *fileSet) add(base, origin, content string) error {
	name := base + f.ext
	if existing, ok := f.set.Get(name); ok {
		return errors.Collisionf("%s and %s both produce %s", existing.origin, origin, name)
	}
	f.set.Add(name, generatedFile{origin: origin, source: typegen.Source{Name: name, Content: content}})
	return nil
}

func (f *fileSet) sources() []typegen.Source {
	out := make([]typegen.Source, 0, f.set.Len())
	for _, gf := range f.set.Values() {
		out = append(out, gf.source)
	}
	return out
}
