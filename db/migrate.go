package db

import (
	"database/sql"
	"embed"
	"path"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/tripgen/errors"
	"github.com/teranos/tripgen/logger"
)

//go:embed sqlite/migrations/*.sql
var migrations embed.FS

const migrationsDir = "sqlite/migrations"

// migration is one embedded schema file named "<version>_<name>.sql".
// Version "000" creates schema_migrations itself.
type migration struct {
	version string
	file    string
}

// Migrate applies every embedded migration not yet recorded in
// schema_migrations, each in its own transaction, in version order.
// log may be nil.
func Migrate(db *sql.DB, log *zap.SugaredLogger) error {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	pending, err := loadMigrations()
	if err != nil {
		return err
	}
	applied, err := appliedVersions(db)
	if err != nil {
		return err
	}

	count := 0
	for _, m := range pending {
		if applied[m.version] {
			log.Debugw("Migration already applied", logger.FieldFile, m.file)
			continue
		}
		if len(applied) == 0 && count == 0 && m.version != "000" {
			return errors.Newf("schema_migrations missing and first pending migration is %s", m.file)
		}
		log.Infow("Applying migration", logger.FieldFile, m.file)
		if err := apply(db, m); err != nil {
			return err
		}
		count++
	}

	log.Infow("Schema up to date", logger.FieldCount, len(pending), "applied", count)
	return nil
}

// loadMigrations lists the embedded migrations sorted by version. Two
// files sharing a version would make the recorded history ambiguous.
func loadMigrations() ([]migration, error) {
	entries, err := migrations.ReadDir(migrationsDir)
	if err != nil {
		return nil, errors.Wrap(err, "read migrations")
	}

	byVersion := make(map[string]string, len(entries))
	var list []migration
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		version, _, ok := strings.Cut(entry.Name(), "_")
		if !ok || version == "" {
			return nil, errors.Newf("migration %s has no version prefix", entry.Name())
		}
		if prev, dup := byVersion[version]; dup {
			return nil, errors.Newf("migrations %s and %s share version %s", prev, entry.Name(), version)
		}
		byVersion[version] = entry.Name()
		list = append(list, migration{version: version, file: entry.Name()})
	}

	sort.Slice(list, func(i, j int) bool { return list[i].version < list[j].version })
	return list, nil
}

// appliedVersions reads schema_migrations. A fresh database has no such
// table and reports nothing applied.
func appliedVersions(db *sql.DB) (map[string]bool, error) {
	rows, err := db.Query("SELECT version FROM schema_migrations")
	if err != nil {
		if strings.Contains(err.Error(), "no such table") {
			return map[string]bool{}, nil
		}
		return nil, markClosed(err, "read schema_migrations")
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, errors.Wrap(err, "scan schema_migrations")
		}
		applied[v] = true
	}
	return applied, errors.Wrap(rows.Err(), "iterate schema_migrations")
}

func apply(db *sql.DB, m migration) error {
	body, err := migrations.ReadFile(path.Join(migrationsDir, m.file))
	if err != nil {
		return errors.Wrapf(err, "read %s", m.file)
	}

	tx, err := db.Begin()
	if err != nil {
		return markClosed(err, "begin "+m.file)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(string(body)); err != nil {
		return errors.Wrapf(err, "execute %s", m.file)
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", m.version); err != nil {
		return errors.Wrapf(err, "record %s", m.file)
	}
	return errors.Wrapf(tx.Commit(), "commit %s", m.file)
}
