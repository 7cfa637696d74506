package project

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/teranos/tripgen/errors"
	"github.com/teranos/tripgen/logger"
	"github.com/teranos/tripgen/triplet"
	"github.com/teranos/tripgen/typegen"
)

// Query constants
const (
	ProjectInsertQuery = `
		INSERT INTO projects (id, name, generation_package, implementation_package, created_at)
		VALUES (?, ?, ?, ?, ?)`

	ProjectSelectQuery = `
		SELECT id, name, generation_package, implementation_package, created_at
		FROM projects WHERE id = ?`

	ProjectListQuery = `
		SELECT id, name, generation_package, implementation_package, created_at
		FROM projects ORDER BY created_at, id`

	ProjectExistsQuery = `
		SELECT EXISTS(SELECT 1 FROM projects WHERE id = ?)`

	ScenarioListQuery = `
		SELECT name, triplets FROM scenarios
		WHERE project_id = ? ORDER BY position`

	ScenarioNextPositionQuery = `
		SELECT COALESCE(MAX(position) + 1, 0) FROM scenarios WHERE project_id = ?`

	ScenarioInsertQuery = `
		INSERT INTO scenarios (id, project_id, name, position, triplets, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	SourceDeleteQuery = `
		DELETE FROM sources WHERE project_id = ?`

	SourceInsertQuery = `
		INSERT INTO sources (id, project_id, name, content, position, generated_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	SourceListQuery = `
		SELECT name, content FROM sources
		WHERE project_id = ? ORDER BY position`
)

// Store persists projects in SQLite.
type Store struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

// NewStore creates a project store. If logger is nil, logging is disabled.
func NewStore(db *sql.DB, log *zap.SugaredLogger) *Store {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Store{db: db, logger: log}
}

// Create inserts a new project with no scenarios.
func (s *Store) Create(ctx context.Context, req CreateRequest) (*Project, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p := &Project{
		ID:                    uuid.NewString(),
		Name:                  req.Name,
		DeclarationsPackage:   req.DeclarationsPackage,
		ImplementationPackage: req.ImplementationPackage,
		CreatedAt:             time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx, ProjectInsertQuery,
		p.ID, p.Name, p.DeclarationsPackage, p.ImplementationPackage, p.CreatedAt)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to insert project %s", p.Name)
	}

	s.logger.Infow("Project created", logger.FieldProjectID, p.ID, "name", p.Name)
	return p, nil
}

// Get loads a project and its scenarios in insertion order.
func (s *Store) Get(ctx context.Context, id string) (*Project, error) {
	p, err := scanProject(s.db.QueryRowContext(ctx, ProjectSelectQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewNotFoundError("project %s not found", id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load project %s", id)
	}

	p.Scenarios, err = s.scenarios(ctx, id)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// List returns every project without its scenarios, oldest first.
func (s *Store) List(ctx context.Context) ([]*Project, error) {
	rows, err := s.db.QueryContext(ctx, ProjectListQuery)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list projects")
	}
	defer rows.Close()

	var projects []*Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan project")
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate projects")
	}
	return projects, nil
}

// AddScenario appends a scenario to a project. Scenario names are unique
// within a project.
func (s *Store) AddScenario(ctx context.Context, projectID string, scenario triplet.Scenario) error {
	if err := triplet.NewKeyer().ValidateScenario(scenario); err != nil {
		return err
	}
	encoded, err := json.Marshal(scenario.Triplets)
	if err != nil {
		return errors.Wrapf(err, "failed to encode scenario %s", scenario.Name)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	if err := requireProject(ctx, tx, projectID); err != nil {
		return err
	}

	var position int
	if err := tx.QueryRowContext(ctx, ScenarioNextPositionQuery, projectID).Scan(&position); err != nil {
		return errors.Wrap(err, "failed to read scenario position")
	}

	_, err = tx.ExecContext(ctx, ScenarioInsertQuery,
		uuid.NewString(), projectID, scenario.Name, position, string(encoded), time.Now().UTC())
	if isUniqueViolation(err) {
		return errors.NewInvalidRequestError("scenario %q already exists in project %s", scenario.Name, projectID)
	}
	if err != nil {
		return errors.Wrapf(err, "failed to insert scenario %s", scenario.Name)
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit scenario")
	}

	s.logger.Debugw("Scenario added",
		logger.FieldProjectID, projectID,
		logger.FieldScenario, scenario.Name,
		logger.FieldTripletCount, len(scenario.Triplets),
	)
	return nil
}

// ReplaceSources swaps the project's stored sources for files in one
// transaction.
func (s *Store) ReplaceSources(ctx context.Context, projectID string, files []typegen.Source) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	if err := requireProject(ctx, tx, projectID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, SourceDeleteQuery, projectID); err != nil {
		return errors.Wrap(err, "failed to delete sources")
	}

	now := time.Now().UTC()
	for i, f := range files {
		if _, err := tx.ExecContext(ctx, SourceInsertQuery,
			uuid.NewString(), projectID, f.Name, f.Content, i, now); err != nil {
			return errors.Wrapf(err, "failed to insert source %s", f.Name)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit sources")
	}
	return nil
}

// ListSources returns the sources stored by the last processing run, in
// output order.
func (s *Store) ListSources(ctx context.Context, projectID string) ([]typegen.Source, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx, ProjectExistsQuery, projectID).Scan(&exists); err != nil {
		return nil, errors.Wrap(err, "failed to check project")
	}
	if !exists {
		return nil, errors.NewNotFoundError("project %s not found", projectID)
	}

	rows, err := s.db.QueryContext(ctx, SourceListQuery, projectID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list sources")
	}
	defer rows.Close()

	sources := []typegen.Source{}
	for rows.Next() {
		var src typegen.Source
		if err := rows.Scan(&src.Name, &src.Content); err != nil {
			return nil, errors.Wrap(err, "failed to scan source")
		}
		sources = append(sources, src)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate sources")
	}
	return sources, nil
}

func (s *Store) scenarios(ctx context.Context, projectID string) ([]triplet.Scenario, error) {
	rows, err := s.db.QueryContext(ctx, ScenarioListQuery, projectID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list scenarios")
	}
	defer rows.Close()

	var scenarios []triplet.Scenario
	for rows.Next() {
		var (
			sc      triplet.Scenario
			encoded string
		)
		if err := rows.Scan(&sc.Name, &encoded); err != nil {
			return nil, errors.Wrap(err, "failed to scan scenario")
		}
		if err := json.Unmarshal([]byte(encoded), &sc.Triplets); err != nil {
			return nil, errors.Wrapf(err, "failed to decode scenario %s", sc.Name)
		}
		scenarios = append(scenarios, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate scenarios")
	}
	return scenarios, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*Project, error) {
	var p Project
	if err := row.Scan(&p.ID, &p.Name, &p.DeclarationsPackage, &p.ImplementationPackage, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func requireProject(ctx context.Context, tx *sql.Tx, id string) error {
	var exists bool
	if err := tx.QueryRowContext(ctx, ProjectExistsQuery, id).Scan(&exists); err != nil {
		return errors.Wrap(err, "failed to check project")
	}
	if !exists {
		return errors.NewNotFoundError("project %s not found", id)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
