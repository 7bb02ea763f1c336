package driver

import (
	"remap/internal/alias"
	"remap/internal/anchor"
	"remap/internal/literal"
	"remap/internal/locate"
	"remap/internal/lru"
	"remap/internal/project"
)

// Engine is the state shared by every job of a process: the alias registry
// and the bounded caches. It is safe for concurrent use.
type Engine struct {
	Config   *project.Config
	Aliases  *alias.Registry
	Literals *literal.Scanner
	Interp   *locate.InterpScanner
	Anchors  *anchor.Collector
}

// NewEngine builds the shared state for cfg; nil selects project.Default.
func NewEngine(cfg *project.Config) (*Engine, error) {
	if cfg == nil {
		cfg = project.Default()
	}
	reg, err := cfg.Registry()
	if err != nil {
		return nil, err
	}
	e := cfg.Engine
	return &Engine{
		Config:   cfg,
		Aliases:  reg,
		Literals: literal.NewScanner(e.LiteralCacheSize, e.TTL()),
		Interp:   locate.NewInterpScanner(e.InterpCacheSize, e.TTL()),
		// ошибки лексера сгенерированного кода не интересны пайплайну,
		// их показывает `remap anchors`
		Anchors: anchor.NewCollector(e.AnchorCacheSize, e.TTL(), nil),
	}, nil
}

// CacheStats reports the counters of every cache, keyed by concern.
func (e *Engine) CacheStats() map[string]lru.Stats {
	return map[string]lru.Stats{
		"literal": e.Literals.Stats(),
		"interp":  e.Interp.Stats(),
		"anchor":  e.Anchors.Stats(),
	}
}
