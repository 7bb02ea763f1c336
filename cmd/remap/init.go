package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"remap/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a remap.toml with the default settings",
	Long: `init creates remap.toml in path (default: the current directory) with every
setting spelled out at its default value. The directory is created if needed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(_ *cobra.Command, args []string) error {
	target, err := filepath.Abs(startDirArg(args))
	if err != nil {
		return err
	}
	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err = os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	path := filepath.Join(target, project.ConfigName)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("already initialized: %s exists", path)
	}
	if err := os.WriteFile(path, []byte(defaultConfigTOML()), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", project.ConfigName, err)
	}
	// файл должен читаться тем же загрузчиком
	if _, err := project.LoadConfig(path); err != nil {
		return fmt.Errorf("generated config does not load: %w", err)
	}

	rel := path
	if wd, err := os.Getwd(); err == nil {
		if r, err := filepath.Rel(wd, path); err == nil {
			rel = r
		}
	}
	fmt.Fprintf(os.Stdout, "wrote %s\n", rel)
	return nil
}

func defaultConfigTOML() string {
	d := project.Default()
	return fmt.Sprintf(`# remap settings
[engine]
lookahead = %d
max_backtrack = %d
literal_cache_size = %d
interp_cache_size = %d
anchor_cache_size = %d
cache_ttl = %q

[dialect]
lang = %q
target_lang = %q

# [dialect.options] is handed to the dialect compiler as is.

# Extra aliases: a generated token and the dialect spellings it may come from.
# [[alias]]
# generated = ["&&"]
# dialect = ["and"]

[cache]
disabled = false
`,
		d.Engine.Lookahead, d.Engine.MaxBacktrack,
		d.Engine.LiteralCacheSize, d.Engine.InterpCacheSize, d.Engine.AnchorCacheSize,
		d.Engine.CacheTTL, d.Dialect.Lang, d.Dialect.TargetLang)
}
