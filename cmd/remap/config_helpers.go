package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"remap/internal/driver"
	"remap/internal/project"
)

// loadConfig reads --config, or the first remap.toml above startDir, or
// falls back to the defaults.
func loadConfig(cmd *cobra.Command, startDir string) (*project.Config, error) {
	path, err := persistentString(cmd, "config")
	if err != nil {
		return nil, err
	}
	if path != "" {
		return project.LoadConfig(path)
	}
	cfg, _, err := project.Load(startDir)
	return cfg, err
}

// openCache returns nil when caching is off by config or --no-cache.
func openCache(cmd *cobra.Command, cfg *project.Config) (*driver.DiskCache, error) {
	noCache, err := persistentBool(cmd, "no-cache")
	if err != nil {
		return nil, err
	}
	if noCache || cfg.Cache.Disabled {
		return nil, nil
	}
	cache, err := driver.OpenDiskCache(cfg.Cache.Dir)
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", cfg.Cache.Dir, err)
	}
	return cache, nil
}
