// Package commands holds the tripgen cobra commands.
package commands

import (
	"database/sql"

	"github.com/spf13/cobra"

	"github.com/teranos/tripgen/am"
	"github.com/teranos/tripgen/db"
	"github.com/teranos/tripgen/errors"
	"github.com/teranos/tripgen/logger"
	"github.com/teranos/tripgen/typegen/render"
)

// loadConfig honours the global --config flag; without it the usual
// system, user and project files are merged.
func loadConfig(cmd *cobra.Command) (*am.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		return am.LoadFromFile(path)
	}
	cfg, err := am.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	return cfg, nil
}

// generationFlags registers the package override flags shared by generate
// and watch.
func generationFlags(cmd *cobra.Command) {
	cmd.Flags().String("decl-package", "", "Package of generated interfaces and classes (overrides config)")
	cmd.Flags().String("impl-package", "", "Package of the <Subject>Impl classes tests instantiate (overrides config)")
}

// generationConfig applies --decl-package and --impl-package on top of cfg.
func generationConfig(cmd *cobra.Command, cfg *am.Config) render.GenerationConfig {
	gen := cfg.GenerationConfig()
	if v, _ := cmd.Flags().GetString("decl-package"); v != "" {
		gen.DeclarationsPackage = v
	}
	if v, _ := cmd.Flags().GetString("impl-package"); v != "" {
		gen.ImplementationPackage = v
	}
	return gen
}

// openDatabase opens and migrates the project database. dbPath overrides
// the configured path when set.
func openDatabase(cfg *am.Config, dbPath string) (*sql.DB, error) {
	if dbPath == "" {
		dbPath = cfg.Database.Path
	}
	database, err := db.OpenAndMigrate(dbPath, logger.ComponentLogger("db"))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database at %s", dbPath)
	}
	return database, nil
}
