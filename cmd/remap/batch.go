package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"remap/internal/buildpipeline"
	"remap/internal/diagfmt"
	"remap/internal/driver"
	"remap/internal/project"
	"remap/internal/source"
)

var batchCmd = &cobra.Command{
	Use:   "batch [flags] [dir]",
	Short: "Remap every job manifest under a directory",
	Long: `batch finds every *.remap.toml under dir (default: the current directory)
and remaps them in parallel, sharing the engine caches between jobs.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().Int("jobs", 0, "max parallel jobs (0=auto)")
	batchCmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
	batchCmd.Flags().Bool("no-write", false, "remap without writing job outputs")
	batchCmd.Flags().Bool("stats", false, "print per-job statistics and cache counters")
	addDiagFlags(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic(cmd)

	dir := "."
	if len(args) > 0 && args[0] != "" {
		dir = args[0]
	}
	workers, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}
	noWrite, err := cmd.Flags().GetBool("no-write")
	if err != nil {
		return fmt.Errorf("failed to get no-write flag: %w", err)
	}
	showStats, err := cmd.Flags().GetBool("stats")
	if err != nil {
		return fmt.Errorf("failed to get stats flag: %w", err)
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

	jobs, err := project.FindJobs(dir)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		fmt.Fprintf(os.Stdout, "no %s files under %s\n", project.JobSuffix, dir)
		return nil
	}
	cfg, err := loadConfig(cmd, dir)
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
	baseDir, err := filepath.Abs(dir)
	if err != nil {
		baseDir = dir
	}

	req := &buildpipeline.Request{
		Engine:         eng,
		Jobs:           jobs,
		BaseDir:        baseDir,
		Workers:        workers,
		MaxDiagnostics: maxDiagnostics,
		Cache:          cache,
		Write:          !noWrite,
		Stats:          showStats && diagOut.format == "json",
		Timings:        showTimings && diagOut.format == "json",
	}

	var out *buildpipeline.Outcome
	if shouldUseTUI(mode, len(jobs)) {
		out, err = runBatchWithUI(cmd.Context(), "remap batch", req)
	} else {
		out, err = buildpipeline.Run(cmd.Context(), req)
	}
	if out == nil {
		return err
	}

	if printErr := printBatchDiagnostics(cmd, diagOut, out, baseDir); printErr != nil {
		return printErr
	}
	if diagOut.format != "json" {
		if showStats {
			printBatchStats(out, eng, baseDir)
		}
		if showTimings {
			if tErr := printStageTimings(os.Stderr, out.Timings); tErr != nil {
				return tErr
			}
		}
		fmt.Fprintf(os.Stdout, "remapped %d jobs, %d failed\n", len(out.Results)-out.Failed, out.Failed)
	}
	if err != nil {
		return err
	}
	if out.Failed > 0 {
		return failWithDiagnostics(cmd)
	}
	return nil
}

func printBatchDiagnostics(cmd *cobra.Command, diagOut diagOutput, out *buildpipeline.Outcome, baseDir string) error {
	if diagOut.format == "json" {
		all := make(map[string]diagfmt.DiagnosticsOutput, len(out.Results))
		pathMode := diagfmt.PathModeAuto
		if diagOut.fullPath {
			pathMode = diagfmt.PathModeAbsolute
		}
		for _, r := range out.Results {
			if r.Bag == nil {
				continue
			}
			data, err := diagfmt.BuildDiagnosticsOutput(r.Bag, batchFiles(&r), diagfmt.JSONOpts{
				IncludePositions: true,
				PathMode:         pathMode,
				IncludeNotes:     diagOut.withNotes,
			})
			if err != nil {
				return fmt.Errorf("failed to build diagnostics output: %w", err)
			}
			all[buildpipeline.DisplayName(r.Path, baseDir)] = data
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(all)
	}

	first := true
	for _, r := range out.Results {
		if r.Bag == nil || r.Bag.Len() == 0 {
			continue
		}
		if !first {
			fmt.Fprintln(os.Stderr)
		}
		first = false
		fmt.Fprintf(os.Stderr, "== %s ==\n", buildpipeline.DisplayName(r.Path, baseDir))
		if err := diagOut.print(cmd, os.Stderr, r.Bag, batchFiles(&r)); err != nil {
			return err
		}
	}
	return nil
}

func batchFiles(r *driver.BatchResult) *source.FileSet {
	if r.Result != nil {
		return r.Result.Files
	}
	return nil
}

func printBatchStats(out *buildpipeline.Outcome, eng *driver.Engine, baseDir string) {
	for _, r := range out.Results {
		if r.Result == nil {
			continue
		}
		cached := ""
		if r.Result.Cached {
			cached = " (cached)"
		}
		fmt.Fprintf(os.Stderr, "%s: %s%s\n", buildpipeline.DisplayName(r.Path, baseDir), r.Result.Stats, cached)
	}
	stats := eng.CacheStats()
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(os.Stderr, "cache %-8s %s\n", name, stats[name])
	}
}
