package project

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"remap/internal/alias"
)

// ErrBadValue marks a remap.toml value outside its allowed range.
var ErrBadValue = errors.New("invalid value")

type EngineConfig struct {
	Lookahead        int    `toml:"lookahead"`
	MaxBacktrack     int    `toml:"max_backtrack"`
	LiteralCacheSize int    `toml:"literal_cache_size"`
	InterpCacheSize  int    `toml:"interp_cache_size"`
	AnchorCacheSize  int    `toml:"anchor_cache_size"`
	CacheTTL         string `toml:"cache_ttl"`

	ttl time.Duration
}

// TTL returns the parsed cache_ttl.
func (e EngineConfig) TTL() time.Duration { return e.ttl }

type DialectConfig struct {
	Lang       string `toml:"lang"`
	TargetLang string `toml:"target_lang"`
	// Options go to the dialect compiler untouched.
	Options map[string]any `toml:"options"`
}

type CacheConfig struct {
	Dir      string `toml:"dir"`
	Disabled bool   `toml:"disabled"`
}

// Config is a decoded remap.toml.
type Config struct {
	// Path is empty for the built-in defaults.
	Path    string        `toml:"-"`
	Engine  EngineConfig  `toml:"engine"`
	Dialect DialectConfig `toml:"dialect"`
	Aliases []alias.Entry `toml:"alias"`
	Cache   CacheConfig   `toml:"cache"`
}

// Default returns the configuration used without a remap.toml.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg, toml.MetaData{})
	if err := cfg.validate(); err != nil {
		// значения по умолчанию всегда валидны
		panic(err)
	}
	return cfg
}

func applyDefaults(cfg *Config, meta toml.MetaData) {
	set := func(keys ...string) bool { return meta.IsDefined(keys...) }

	if !set("engine", "lookahead") {
		cfg.Engine.Lookahead = 3
	}
	if !set("engine", "max_backtrack") {
		cfg.Engine.MaxBacktrack = 64
	}
	if !set("engine", "literal_cache_size") {
		cfg.Engine.LiteralCacheSize = 10000
	}
	if !set("engine", "interp_cache_size") {
		cfg.Engine.InterpCacheSize = 5000
	}
	if !set("engine", "anchor_cache_size") {
		cfg.Engine.AnchorCacheSize = 200
	}
	if !set("engine", "cache_ttl") {
		cfg.Engine.CacheTTL = "30m"
	}
	if !set("dialect", "lang") {
		cfg.Dialect.Lang = "civet"
	}
	if !set("dialect", "target_lang") {
		cfg.Dialect.TargetLang = "ts"
	}
	if !set("cache", "dir") {
		cfg.Cache.Dir = defaultCacheDir()
	}
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "remap")
	}
	return filepath.Join(dir, "remap")
}

// LoadConfig parses remap.toml at path. Absent keys take their defaults.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	for _, key := range meta.Undecoded() {
		// содержимое [dialect.options] уходит компилятору как есть
		if len(key) > 2 && key[0] == "dialect" && key[1] == "options" {
			continue
		}
		return nil, fmt.Errorf("%s: unknown key %q", path, key.String())
	}
	cfg.Path = path
	applyDefaults(&cfg, meta)
	if cfg.Cache.Dir != "" && !filepath.IsAbs(cfg.Cache.Dir) {
		cfg.Cache.Dir = filepath.Join(filepath.Dir(path), cfg.Cache.Dir)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// Load finds remap.toml above startDir and loads it; without one it
// returns Default and ok=false.
func Load(startDir string) (cfg *Config, ok bool, err error) {
	path, ok, err := FindRemapToml(startDir)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return Default(), false, nil
	}
	cfg, err = LoadConfig(path)
	return cfg, true, err
}

func (c *Config) validate() error {
	e := &c.Engine
	switch {
	case e.Lookahead < 0:
		return fmt.Errorf("%w: engine.lookahead must be >= 0, got %d", ErrBadValue, e.Lookahead)
	case e.MaxBacktrack < 0:
		return fmt.Errorf("%w: engine.max_backtrack must be >= 0, got %d", ErrBadValue, e.MaxBacktrack)
	case e.LiteralCacheSize <= 0, e.InterpCacheSize <= 0, e.AnchorCacheSize <= 0:
		return fmt.Errorf("%w: engine cache sizes must be positive", ErrBadValue)
	case strings.TrimSpace(c.Dialect.Lang) == "", strings.TrimSpace(c.Dialect.TargetLang) == "":
		return fmt.Errorf("%w: dialect.lang and dialect.target_lang must be set", ErrBadValue)
	}
	ttl, err := time.ParseDuration(e.CacheTTL)
	if err != nil || ttl <= 0 {
		return fmt.Errorf("%w: engine.cache_ttl %q", ErrBadValue, e.CacheTTL)
	}
	e.ttl = ttl
	if _, err := c.Registry(); err != nil {
		return fmt.Errorf("%w: %w", ErrBadValue, err)
	}
	return nil
}

// Registry builds the alias registry: built-ins plus [[alias]] entries.
func (c *Config) Registry() (*alias.Registry, error) {
	return alias.New(c.Aliases)
}

// Fingerprint digests every setting that changes engine output. Cache
// location and switches are left out.
func (c *Config) Fingerprint() (Digest, error) {
	var buf bytes.Buffer
	view := struct {
		Engine  EngineConfig  `toml:"engine"`
		Dialect DialectConfig `toml:"dialect"`
		Aliases []alias.Entry `toml:"alias"`
	}{c.Engine, c.Dialect, c.Aliases}
	// кодировщик сортирует ключи таблиц: вывод детерминирован
	if err := toml.NewEncoder(&buf).Encode(view); err != nil {
		return Digest{}, fmt.Errorf("encode config: %w", err)
	}
	return NewHasher().String(buf.String()).Sum(), nil
}
