package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/tripgen/logger"
	"github.com/teranos/tripgen/typegen"
	"github.com/teranos/tripgen/watch"
)

// WatchCmd regenerates sources whenever scenario files change
var WatchCmd = &cobra.Command{
	Use:   "watch <scenario-file>...",
	Short: "Regenerate sources whenever scenario files change",
	Long: `Generate every scenario file once, then regenerate a file's sources each
time it is saved. Bursts of saves are debounced (watch.debounce_ms). A file
that fails to parse or synthesize is reported and its previous output kept.

Examples:
  tripgen watch billing.yaml --out src/test/kotlin`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

var watchOut string

func init() {
	WatchCmd.Flags().StringVarP(&watchOut, "out", "o", "", "Output directory (required)")
	WatchCmd.MarkFlagRequired("out")
	generationFlags(WatchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	w, err := watch.New(watch.Config{
		Inputs:     args,
		OutDir:     watchOut,
		Generation: generationConfig(cmd, cfg),
		Debounce:   cfg.Debounce(),
	}, logger.ComponentLogger("watch"))
	if err != nil {
		return err
	}

	w.OnRegenerate(func(path string, result *typegen.Result, err error) {
		if err != nil {
			pterm.Error.Printfln("%s: %v", path, err)
			return
		}
		pterm.Success.Printfln("%s: %d files", path, len(result.Files))
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pterm.Info.Printfln("Watching %d file(s), writing to %s (Ctrl+C to stop)", len(args), watchOut)
	return w.Run(ctx)
}
