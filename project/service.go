package project

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/tripgen/errors"
	"github.com/teranos/tripgen/logger"
	"github.com/teranos/tripgen/typegen"
	"github.com/teranos/tripgen/typegen/kotlin"
)

// Service runs synthesis over stored projects.
type Service struct {
	store     *Store
	extension string
	logger    *zap.SugaredLogger
}

// NewService creates a service over store. extension is the generated file
// extension; empty means the Kotlin default.
func NewService(store *Store, extension string, log *zap.SugaredLogger) *Service {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Service{store: store, extension: extension, logger: log}
}

// Store returns the underlying store.
func (s *Service) Store() *Store {
	return s.store
}

// ProcessSync synthesizes every scenario of the project in one batch and
// replaces the stored sources with the result. A failed run leaves the
// previous sources untouched.
func (s *Service) ProcessSync(ctx context.Context, id string) (*typegen.Result, error) {
	start := time.Now()
	log := logger.LoggerFromContext(logger.WithProjectID(ctx, id), s.logger)

	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	gen, err := kotlin.NewGenerator(p.GenerationConfig(s.extension), log)
	if err != nil {
		return nil, errors.WithDetailf(err, "project %s", id)
	}
	result, err := gen.SynthesizeBatch(p.Scenarios)
	if err != nil {
		log.Warnw("Processing failed", logger.FieldError, err)
		return nil, errors.WithDetailf(err, "project %s", id)
	}

	if err := s.store.ReplaceSources(ctx, id, result.Files); err != nil {
		return nil, err
	}

	log.Infow("Project processed",
		logger.FieldScenarioCount, len(p.Scenarios),
		logger.FieldCount, len(result.Files),
		logger.FieldDurationMS, time.Since(start).Milliseconds(),
	)
	return result, nil
}
