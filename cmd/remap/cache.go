package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"remap/internal/driver"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the disk cache of finished maps",
}

var cacheDirCmd = &cobra.Command{
	Use:   "dir [path]",
	Short: "Print the cache directory in effect for path",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, startDirArg(args))
		if err != nil {
			return err
		}
		state := ""
		if cfg.Cache.Disabled {
			state = " (disabled)"
		}
		fmt.Fprintf(os.Stdout, "%s%s\n", cfg.Cache.Dir, state)
		return nil
	},
}

var cacheCleanCmd = &cobra.Command{
	Use:   "clean [path]",
	Short: "Remove every cached map",
	Long:  "Remove the maps cached for the remap.toml in effect at path (default: the current directory).",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCacheClean,
}

func init() {
	cacheCmd.AddCommand(cacheDirCmd)
	cacheCmd.AddCommand(cacheCleanCmd)
}

func startDirArg(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return "."
}

func runCacheClean(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, startDirArg(args))
	if err != nil {
		return err
	}
	if _, err := os.Stat(cfg.Cache.Dir); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(os.Stdout, "cache directory not found")
			return nil
		}
		return fmt.Errorf("failed to stat %q: %w", cfg.Cache.Dir, err)
	}
	cache, err := driver.OpenDiskCache(cfg.Cache.Dir)
	if err != nil {
		return err
	}
	n, err := cache.DropAll()
	if err != nil {
		return fmt.Errorf("failed to clean %q: %w", cfg.Cache.Dir, err)
	}
	fmt.Fprintf(os.Stdout, "removed %d cached maps from %s\n", n, cfg.Cache.Dir)
	return nil
}
