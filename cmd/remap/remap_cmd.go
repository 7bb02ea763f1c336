package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"remap/internal/driver"
	"remap/internal/project"
)

var mapCmd = &cobra.Command{
	Use:   "map [flags] job.remap.toml",
	Short: "Remap one host document described by a job manifest",
	Long: `map merges the compiled blocks of a job into its host document, builds a
dense map for every block, chains it onto the job's base map if one is given
and writes the result to the job's output (stdout when it has none).`,
	Args: cobra.ExactArgs(1),
	RunE: runMap,
}

func init() {
	mapCmd.Flags().Bool("stats", false, "print mapping statistics")
	mapCmd.Flags().Bool("no-write", false, "print the map instead of writing job outputs")
	addDiagFlags(mapCmd)
}

// errDiagnostics ends a command whose diagnostics were already printed.
var errDiagnostics = errors.New("")

func failWithDiagnostics(cmd *cobra.Command) error {
	cmd.SilenceErrors = true
	return errDiagnostics
}

func runMap(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic(cmd)

	jobPath := args[0]
	showStats, err := cmd.Flags().GetBool("stats")
	if err != nil {
		return fmt.Errorf("failed to get stats flag: %w", err)
	}
	noWrite, err := cmd.Flags().GetBool("no-write")
	if err != nil {
		return fmt.Errorf("failed to get no-write flag: %w", err)
	}
	diagOut, err := readDiagFlags(cmd)
	if err != nil {
		return err
	}
	maxDiagnostics, err := persistentInt(cmd, "max-diagnostics")
	if err != nil {
		return err
	}
	showTimings, err := persistentBool(cmd, "timings")
	if err != nil {
		return err
	}

	job, err := project.LoadJob(jobPath)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd, filepath.Dir(job.Path))
	if err != nil {
		return err
	}
	eng, err := driver.NewEngine(cfg)
	if err != nil {
		return err
	}
	cache, err := openCache(cmd, cfg)
	if err != nil {
		return err
	}

	// в JSON тайминги и статистика идут отдельными диагностиками
	jsonDiag := diagOut.format == "json"
	res, err := driver.Remap(cmd.Context(), eng, job, driver.Options{
		MaxDiagnostics: maxDiagnostics,
		Cache:          cache,
		Timings:        showTimings && jsonDiag,
		Stats:          showStats && jsonDiag,
	})
	if err != nil {
		return fmt.Errorf("remap failed: %w", err)
	}

	if res.Map != nil {
		if noWrite || job.Output == "" || job.Output == "-" {
			data, mErr := res.Map.MarshalIndent()
			if mErr != nil {
				return mErr
			}
			if _, err := os.Stdout.Write(data); err != nil {
				return err
			}
		}
		if !noWrite {
			// ошибка записи уже лежит в res.Bag
			_ = driver.WriteOutputs(res)
		}
	}

	if err := diagOut.print(cmd, os.Stderr, res.Bag, res.Files); err != nil {
		return fmt.Errorf("failed to format diagnostics: %w", err)
	}
	if !jsonDiag {
		if showStats {
			printRunStats(cmd, res)
		}
		if showTimings {
			if err := printStageTimings(os.Stderr, stageTimings(res.Timing)); err != nil {
				return err
			}
		}
	}

	if res.Bag.HasErrors() {
		return failWithDiagnostics(cmd)
	}
	return nil
}

func printRunStats(cmd *cobra.Command, res *driver.Result) {
	label := color.New(color.FgCyan, color.Bold)
	if useColor(cmd, os.Stderr) {
		label.EnableColor()
	} else {
		label.DisableColor()
	}
	line := res.Stats.String()
	if res.Cached {
		line += " (cached " + res.Digest.Short() + ")"
	}
	fmt.Fprintf(os.Stderr, "%s %s\n", label.Sprint("stats:"), line)
}
