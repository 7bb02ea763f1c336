package driver

import (
	"encoding/json"
	"fmt"

	"remap/internal/diag"
	"remap/internal/observ"
	"remap/internal/source"
)

type timingPayload struct {
	Kind     string                 `json:"kind"`
	Path     string                 `json:"path,omitempty"`
	TotalMS  float64                `json:"total_ms"`
	Phases   []observ.PhaseReport   `json:"phases"`
	Counters []observ.CounterReport `json:"counters,omitempty"`
}

func appendTimingDiagnostic(bag *diag.Bag, payload timingPayload) {
	if bag == nil {
		return
	}
	if payload.Kind == "" {
		payload.Kind = "pipeline"
	}
	msg := fmt.Sprintf("timings (%s): total %.2f ms", payload.Kind, payload.TotalMS)
	if payload.Path != "" {
		msg = fmt.Sprintf("%s: %s", msg, payload.Path)
	}
	appendJSONDiagnostic(bag, diag.ObsTimings, msg, payload)
}

type statsPayload struct {
	Path   string   `json:"path,omitempty"`
	Cached bool     `json:"cached"`
	Stats  RunStats `json:"stats"`
}

func appendStatsDiagnostic(bag *diag.Bag, payload statsPayload) {
	if bag == nil {
		return
	}
	msg := "map stats: " + payload.Stats.String()
	if payload.Cached {
		msg += " (cached)"
	}
	appendJSONDiagnostic(bag, diag.ObsMapStats, msg, payload)
}

// appendJSONDiagnostic adds an info diagnostic whose single note is the
// payload as JSON. The bag limit is for user-facing problems, so a full bag
// is grown by one instead of dropping the entry.
func appendJSONDiagnostic(bag *diag.Bag, code diag.Code, msg string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	entry := diag.NewInfo(code, source.Span{}, msg).WithNote(source.Span{}, string(data))
	if !bag.Add(entry) {
		extra := diag.NewBag(1)
		extra.Add(entry)
		bag.Merge(extra)
	}
}
