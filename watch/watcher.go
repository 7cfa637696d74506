// Package watch regenerates Kotlin sources whenever a scenario file changes.
package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/teranos/tripgen/errors"
	"github.com/teranos/tripgen/logger"
	"github.com/teranos/tripgen/triplet"
	"github.com/teranos/tripgen/typegen"
	"github.com/teranos/tripgen/typegen/kotlin"
	"github.com/teranos/tripgen/typegen/render"
)

// DefaultDebounce is used when Config.Debounce is zero.
const DefaultDebounce = 300 * time.Millisecond

// Config configures a Watcher.
type Config struct {
	// Inputs are scenario files; each one is an independent batch run.
	// Initial generation follows this order.
	Inputs []string

	// OutDir receives the generated files
	OutDir string

	Generation render.GenerationConfig

	// Debounce collapses bursts of events on one file into one run
	Debounce time.Duration

	// Limit and Burst cap regenerations across all inputs; zero Limit means
	// one run per debounce period
	Limit rate.Limit
	Burst int
}

// Callback is called after every regeneration attempt. result is nil when
// err is not.
type Callback func(path string, result *typegen.Result, err error)

// Watcher watches the directories holding its inputs. Editors that save by
// renaming a temporary file replace the inode, so the file itself cannot be
// watched reliably.
//
// All inputs share OutDir, so a run whose files clash with the last good
// output of another input fails without writing.
type Watcher struct {
	cfg     Config
	order   []string
	inputs  map[string]struct{}
	gen     *kotlin.Generator
	limiter *rate.Limiter
	fsw     *fsnotify.Watcher
	logger  *zap.SugaredLogger

	mu        sync.Mutex
	timers    map[string]*time.Timer
	callbacks []Callback

	// latest is the last good result per input, owned by the Run goroutine
	latest map[string]*typegen.Result

	pending chan string
	done    chan struct{}
}

// New creates a watcher. If log is nil, logging is disabled.
func New(cfg Config, log *zap.SugaredLogger) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if len(cfg.Inputs) == 0 {
		return nil, errors.NewInvalidRequestError("no scenario files to watch")
	}
	if cfg.OutDir == "" {
		return nil, errors.NewInvalidRequestError("output directory is required")
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Limit == 0 {
		cfg.Limit = rate.Every(cfg.Debounce)
	}
	if cfg.Burst <= 0 {
		cfg.Burst = len(cfg.Inputs)
	}

	gen, err := kotlin.NewGenerator(cfg.Generation, log)
	if err != nil {
		return nil, err
	}

	var order []string
	inputs := make(map[string]struct{}, len(cfg.Inputs))
	dirs := make(map[string]struct{})
	for _, in := range cfg.Inputs {
		if _, err := triplet.FormatFromPath(in); err != nil {
			return nil, err
		}
		abs, err := filepath.Abs(in)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to resolve %s", in)
		}
		if _, dup := inputs[abs]; dup {
			continue
		}
		order = append(order, abs)
		inputs[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, errors.Wrapf(err, "failed to watch %s", dir)
		}
	}

	return &Watcher{
		cfg:     cfg,
		order:   order,
		inputs:  inputs,
		gen:     gen,
		limiter: rate.NewLimiter(cfg.Limit, cfg.Burst),
		fsw:     fsw,
		logger:  log,
		timers:  make(map[string]*time.Timer),
		latest:  make(map[string]*typegen.Result, len(order)),
		pending: make(chan string, len(inputs)),
		done:    make(chan struct{}),
	}, nil
}

// OnRegenerate registers a callback. Callbacks run on the Run goroutine.
func (w *Watcher) OnRegenerate(cb Callback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, cb)
}

// Run generates every input once, then regenerates on change until ctx is
// cancelled. A failed run is logged and reported to callbacks; the files
// from the last good run stay in place.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.stop()

	for _, path := range w.order {
		w.regenerate(path)
	}
	w.logger.Infow("Watching scenario files", logger.FieldCount, len(w.inputs), logger.FieldDir, w.cfg.OutDir)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warnw("Watcher error", logger.FieldError, err)

		case path := <-w.pending:
			if err := w.limiter.Wait(ctx); err != nil {
				return nil
			}
			w.regenerate(path)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}
	path, err := filepath.Abs(event.Name)
	if err != nil {
		return
	}
	if _, ok := w.inputs[path]; !ok {
		return
	}
	w.logger.Debugw("Scenario file changed", logger.FieldFile, path, "op", event.Op.String())
	w.schedule(path)
}

// schedule debounces per file.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.cfg.Debounce, func() {
		select {
		case w.pending <- path:
		case <-w.done:
		}
	})
}

func (w *Watcher) regenerate(path string) {
	start := time.Now()
	result, err := w.generate(path)
	if err != nil {
		w.logger.Errorw("Regeneration failed", logger.FieldFile, path, logger.FieldError, err)
	} else {
		w.logger.Infow("Regenerated",
			logger.FieldFile, path,
			logger.FieldCount, len(result.Files),
			logger.FieldDurationMS, time.Since(start).Milliseconds(),
		)
	}

	w.mu.Lock()
	callbacks := make([]Callback, len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.Unlock()

	for _, cb := range callbacks {
		cb(path, result, err)
	}
}

func (w *Watcher) generate(path string) (*typegen.Result, error) {
	scenarios, err := triplet.DecodeFile(path)
	if err != nil {
		return nil, err
	}
	result, err := w.gen.SynthesizeBatch(scenarios)
	if err != nil {
		return nil, errors.WithDetailf(err, "file %s", path)
	}
	if err := w.checkOverlap(path, result); err != nil {
		return nil, err
	}
	if err := result.WriteDir(w.cfg.OutDir); err != nil {
		return nil, err
	}
	w.latest[path] = result
	return result, nil
}

// checkOverlap merges result with the last good output of every other input.
// Identical shared declarations are fine; different content under one file
// name is a collision.
func (w *Watcher) checkOverlap(path string, result *typegen.Result) error {
	results := make([]*typegen.Result, 0, len(w.order))
	for _, in := range w.order {
		if in == path {
			results = append(results, result)
			continue
		}
		results = append(results, w.latest[in])
	}
	if _, err := typegen.Merge(results...); err != nil {
		return errors.WithDetailf(err, "file %s", path)
	}
	return nil
}

func (w *Watcher) stop() {
	close(w.done)
	w.mu.Lock()
	for _, t := range w.timers {
		t.Stop()
	}
	w.mu.Unlock()
	if err := w.fsw.Close(); err != nil {
		w.logger.Warnw("Failed to close watcher", logger.FieldError, err)
	}
}
