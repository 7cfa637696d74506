package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/tripgen/errors"
	"github.com/teranos/tripgen/logger"
	"github.com/teranos/tripgen/project"
	"github.com/teranos/tripgen/server"
)

// ServeCmd starts the HTTP API
var ServeCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"server"},
	Short:   "Start the tripgen HTTP API",
	Long: `Start the HTTP API: stateless synthesis at /api/processor/sync/task and
the project store under /api/configurator/project.`,
	RunE: runServe,
}

var (
	servePort   int
	serveDBPath string
)

func init() {
	ServeCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides server.port)")
	ServeCmd.Flags().StringVar(&serveDBPath, "db-path", "", "Database path (overrides database.path)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	port := cfg.Server.Port
	if servePort != 0 {
		port = servePort
	}

	database, err := openDatabase(cfg, serveDBPath)
	if err != nil {
		return errors.Wrap(err, "failed to open database")
	}
	defer database.Close()

	store := project.NewStore(database, logger.ComponentLogger("project"))
	svc := project.NewService(store, cfg.Generation.FileExtension, logger.ComponentLogger("project"))
	srv := server.New(cfg, svc, logger.ComponentLogger("server"))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pterm.Info.Printfln("tripgen API listening on :%d", port)
	return srv.ListenAndServe(ctx, port)
}
