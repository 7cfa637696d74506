package commands

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/teranos/tripgen/errors"
	"github.com/teranos/tripgen/logger"
	"github.com/teranos/tripgen/triplet"
	"github.com/teranos/tripgen/typegen"
	"github.com/teranos/tripgen/typegen/kotlin"
	"github.com/teranos/tripgen/typegen/util"
)

// GenerateCmd synthesizes Kotlin sources from scenario files
var GenerateCmd = &cobra.Command{
	Use:   "generate <scenario-file>...",
	Short: "Synthesize Kotlin sources from scenario files",
	Long: `Synthesize Kotlin sources from YAML, JSON or TOML scenario files.

Each file is an independent batch: its scenarios share one set of interfaces
and classes. Files are processed in parallel and their outputs merged; two
files that produce different sources under the same name fail the command.

With --single every scenario is synthesized on its own into a directory
named after its test class, so each test only sees the declarations it uses.

Examples:
  tripgen generate billing.yaml                       # Print sources to stdout
  tripgen generate billing.yaml --out src/test/kotlin # Write files
  tripgen generate a.yaml b.json --decl-package com.example.api`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

var (
	generateOut    string
	generateSingle bool
)

func init() {
	GenerateCmd.Flags().StringVarP(&generateOut, "out", "o", "", "Output directory (default: stdout)")
	GenerateCmd.Flags().BoolVar(&generateSingle, "single", false, "Synthesize each scenario on its own")
	generationFlags(GenerateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	gen, err := kotlin.NewGenerator(generationConfig(cmd, cfg), logger.ComponentLogger("generate"))
	if err != nil {
		return err
	}

	results := make([]*typegen.Result, len(args))
	g, ctx := errgroup.WithContext(cmd.Context())
	for i, path := range args {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := generateFile(gen, path, generateSingle)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	merged, err := typegen.Merge(results...)
	if err != nil {
		return err
	}

	if generateOut == "" {
		return printSources(cmd.OutOrStdout(), merged)
	}
	if err := merged.WriteDir(generateOut); err != nil {
		return err
	}
	pterm.Success.Printfln("Generated %d files in %s", len(merged.Files), generateOut)
	return nil
}

// generateFile runs one scenario file. In single mode each scenario is its
// own run, placed under a directory named after the scenario's test class.
func generateFile(gen *kotlin.Generator, path string, single bool) (*typegen.Result, error) {
	scenarios, err := triplet.DecodeFile(path)
	if err != nil {
		return nil, err
	}

	if !single {
		r, err := gen.SynthesizeBatch(scenarios)
		if err != nil {
			return nil, errors.WithDetailf(err, "file %s", path)
		}
		return r, nil
	}

	runs := make([]*typegen.Result, 0, len(scenarios))
	for _, s := range scenarios {
		r, err := gen.SynthesizeOne(s)
		if err != nil {
			return nil, errors.WithDetailf(err, "file %s", path)
		}
		dir := util.ClassName(util.FileName(s.Name))
		for i := range r.Files {
			r.Files[i].Name = dir + "/" + r.Files[i].Name
		}
		runs = append(runs, r)
	}
	return typegen.Merge(runs...)
}

func printSources(w io.Writer, r *typegen.Result) error {
	for i, f := range r.Files {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if _, err := fmt.Fprintf(w, "// %s\n%s", f.Name, f.Content); err != nil {
			return errors.Wrap(err, "failed to write output")
		}
	}
	return nil
}
