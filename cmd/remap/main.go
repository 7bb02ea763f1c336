// Package main implements the remap CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"remap/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "remap",
	Short: "Source map remapping for embedded dialect blocks",
	Long: `remap turns coarse dialect-compiler source maps into dense per-token maps,
merges compiled blocks back into their host document and chains the result
onto downstream maps.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cleanupTrace, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		cleanupProf, err := setupProfiling(cmd)
		if err != nil {
			cleanupTrace()
			return err
		}
		cleanups = append(cleanups, cleanupProf, cleanupTrace)
		return nil
	},
}

// cleanups run once after the command, successful or not.
var cleanups []func()

func runCleanups() {
	for _, fn := range cleanups {
		fn()
	}
	cleanups = nil
}

func main() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Current().Version

	rootCmd.AddCommand(mapCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(anchorsCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "path to remap.toml (default: search upwards from the job)")
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("timings", false, "show timing information")
	flags.Bool("no-cache", false, "bypass the disk cache")
	flags.Int("max-diagnostics", 100, "maximum number of diagnostics to show")

	flags.String("trace", "", "trace output file (- for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-mode", "stream", "trace storage mode (stream|ring|both)")
	flags.String("trace-format", "auto", "trace event format (auto|text|ndjson|chrome)")
	flags.Int("trace-ring-size", 4096, "events kept by the ring tracer")
	flags.Duration("trace-heartbeat", 0, "emit a heartbeat event at this interval (0 = off)")

	flags.String("cpu-profile", "", "write a CPU profile to file")
	flags.String("mem-profile", "", "write a heap profile to file on exit")
	flags.String("runtime-trace", "", "write a Go runtime trace to file")

	err := rootCmd.Execute()
	runCleanups()
	if err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves --color against the terminal state of f.
func useColor(cmd *cobra.Command, f *os.File) bool {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false
	}
	switch colorFlag {
	case "on":
		return true
	case "off":
		return false
	default:
		return isTerminal(f)
	}
}

func persistentString(cmd *cobra.Command, name string) (string, error) {
	v, err := cmd.Root().PersistentFlags().GetString(name)
	if err != nil {
		return "", fmt.Errorf("failed to get %s flag: %w", name, err)
	}
	return v, nil
}

func persistentInt(cmd *cobra.Command, name string) (int, error) {
	v, err := cmd.Root().PersistentFlags().GetInt(name)
	if err != nil {
		return 0, fmt.Errorf("failed to get %s flag: %w", name, err)
	}
	return v, nil
}

func persistentBool(cmd *cobra.Command, name string) (bool, error) {
	v, err := cmd.Root().PersistentFlags().GetBool(name)
	if err != nil {
		return false, fmt.Errorf("failed to get %s flag: %w", name, err)
	}
	return v, nil
}
