package commands

import (
	"encoding/json"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/tripgen/errors"
	"github.com/teranos/tripgen/logger"
	"github.com/teranos/tripgen/project"
	"github.com/teranos/tripgen/triplet"
)

// ProjectCmd manages stored projects
var ProjectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage stored projects",
	Long: `A project is a named set of scenarios with its own target packages,
stored in the tripgen database (database.path).

Examples:
  tripgen project create billing --decl-package com.example.api
  tripgen project add-scenario <id> billing.yaml
  tripgen project process <id> --out src/test/kotlin`,
}

var projectCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectCreate,
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	Args:  cobra.NoArgs,
	RunE:  runProjectList,
}

var projectShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a project and its scenarios as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectShow,
}

var projectAddScenarioCmd = &cobra.Command{
	Use:   "add-scenario <id> <scenario-file>",
	Short: "Add every scenario of a file to a project",
	Args:  cobra.ExactArgs(2),
	RunE:  runProjectAddScenario,
}

var projectProcessCmd = &cobra.Command{
	Use:   "process <id>",
	Short: "Synthesize a project's scenarios and store the sources",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectProcess,
}

var (
	projectDBPath string
	projectOut    string
)

func init() {
	ProjectCmd.PersistentFlags().StringVar(&projectDBPath, "db-path", "", "Database path (overrides database.path)")
	generationFlags(projectCreateCmd)
	projectProcessCmd.Flags().StringVarP(&projectOut, "out", "o", "", "Also write the sources to this directory")

	ProjectCmd.AddCommand(projectCreateCmd)
	ProjectCmd.AddCommand(projectListCmd)
	ProjectCmd.AddCommand(projectShowCmd)
	ProjectCmd.AddCommand(projectAddScenarioCmd)
	ProjectCmd.AddCommand(projectProcessCmd)
}

// withService opens the database for the duration of fn.
func withService(cmd *cobra.Command, fn func(*project.Service) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	database, err := openDatabase(cfg, projectDBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	log := logger.ComponentLogger("project")
	return fn(project.NewService(project.NewStore(database, log), cfg.Generation.FileExtension, log))
}

func runProjectCreate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	gen := generationConfig(cmd, cfg)

	return withService(cmd, func(svc *project.Service) error {
		p, err := svc.Store().Create(cmd.Context(), project.CreateRequest{
			Name:                  args[0],
			DeclarationsPackage:   gen.DeclarationsPackage,
			ImplementationPackage: gen.ImplementationPackage,
		})
		if err != nil {
			return err
		}
		pterm.Success.Printfln("Created project %s (%s)", p.Name, p.ID)
		return nil
	})
}

func runProjectList(cmd *cobra.Command, args []string) error {
	return withService(cmd, func(svc *project.Service) error {
		projects, err := svc.Store().List(cmd.Context())
		if err != nil {
			return err
		}
		if len(projects) == 0 {
			pterm.Info.Println("No projects")
			return nil
		}
		for _, p := range projects {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s\n", pterm.Cyan(p.ID), p.Name, pterm.Gray(p.DeclarationsPackage))
		}
		return nil
	})
}

func runProjectShow(cmd *cobra.Command, args []string) error {
	return withService(cmd, func(svc *project.Service) error {
		p, err := svc.Store().Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal project")
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	})
}

func runProjectAddScenario(cmd *cobra.Command, args []string) error {
	scenarios, err := triplet.DecodeFile(args[1])
	if err != nil {
		return err
	}
	return withService(cmd, func(svc *project.Service) error {
		for _, s := range scenarios {
			if err := svc.Store().AddScenario(cmd.Context(), args[0], s); err != nil {
				return err
			}
		}
		pterm.Success.Printfln("Added %d scenario(s) to %s", len(scenarios), args[0])
		return nil
	})
}

func runProjectProcess(cmd *cobra.Command, args []string) error {
	return withService(cmd, func(svc *project.Service) error {
		result, err := svc.ProcessSync(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if projectOut != "" {
			if err := result.WriteDir(projectOut); err != nil {
				return err
			}
		}
		pterm.Success.Printfln("Generated %d files", len(result.Files))
		for _, name := range result.Names() {
			pterm.Println("  " + name)
		}
		return nil
	})
}
