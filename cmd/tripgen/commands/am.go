package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/tripgen/am"
	"github.com/teranos/tripgen/errors"
)

// AmCmd represents the am (configuration) command
var AmCmd = &cobra.Command{
	Use:   "am",
	Short: "Show or initialize tripgen configuration",
	Long: `am — Show or initialize tripgen configuration

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (TRIPGEN_* prefix)
3. Project config (nearest am.toml from the working directory up)
4. User config (~/.tripgen/am.toml)
5. System config (/etc/tripgen/config.toml)
6. Default values

Examples:
  tripgen am show                    # Show current configuration
  tripgen am show --format json      # Show configuration in JSON format
  tripgen am init                    # Write ./am.toml with the defaults`,
}

var amShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runAmShow,
}

var amInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default values",
	RunE:  runAmInit,
}

var (
	configFormat string
	initPath     string
	initForce    bool
)

func init() {
	amShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json, yaml")
	amInitCmd.Flags().StringVar(&initPath, "path", am.ProjectConfigName, "File to write")
	amInitCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing file")

	AmCmd.AddCommand(amShowCmd)
	AmCmd.AddCommand(amInitCmd)
}

func runAmShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch configFormat {
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to JSON")
		}
		fmt.Fprintln(out, string(data))

	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to YAML")
		}
		fmt.Fprintf(out, "# tripgen configuration\n%s", data)

	case "toml":
		data, err := am.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "# tripgen configuration\n%s", data)

	default:
		return errors.Newf("unsupported format: %s (supported: toml, json, yaml)", configFormat)
	}

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return nil
	}
	if files := am.LoadedFiles(); len(files) > 0 {
		fmt.Fprintln(os.Stderr)
		for _, f := range files {
			pterm.Fprintln(os.Stderr, pterm.Gray("loaded "+f))
		}
	}
	return nil
}

func runAmInit(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(initPath)
	if err != nil {
		return errors.Wrapf(err, "failed to resolve %s", initPath)
	}
	if err := am.WriteFile(path, am.Defaults(), initForce); err != nil {
		return err
	}
	pterm.Success.Printfln("Wrote %s", path)
	return nil
}
