package version

import (
	"strings"
	"testing"
)

func TestCurrentTrimsAndDefaults(t *testing.T) {
	origVersion, origCommit := Version, GitCommit
	defer func() { Version, GitCommit = origVersion, origCommit }()

	Version = "  "
	GitCommit = " abc123 \n"
	info := Current()
	if info.Version != "dev" {
		t.Errorf("Version = %q, want dev", info.Version)
	}
	if info.GitCommit != "abc123" {
		t.Errorf("GitCommit = %q, want abc123", info.GitCommit)
	}
}

func TestVersion_CanBeOverridden(t *testing.T) {
	origVersion := Version
	origBuildDate := BuildDate
	defer func() { Version, BuildDate = origVersion, origBuildDate }()

	// как через -ldflags
	Version = "1.2.3"
	BuildDate = "2026-01-15T10:30:00Z"

	info := Current()
	if info.Version != "1.2.3" {
		t.Errorf("Version = %q, want %q", info.Version, "1.2.3")
	}
	if info.BuildDate != "2026-01-15T10:30:00Z" {
		t.Errorf("BuildDate = %q", info.BuildDate)
	}
}

func TestColored(t *testing.T) {
	tests := []struct {
		in      string
		enabled bool
		want    string
	}{
		{"0.1.0-dev", false, "0.1.0-dev"},
		{"1.2.3+build.7", false, "1.2.3+build.7"},
		{"nightly", true, "nightly"},
	}
	for _, tt := range tests {
		if got := Colored(tt.in, tt.enabled); got != tt.want {
			t.Errorf("Colored(%q, %v) = %q, want %q", tt.in, tt.enabled, got, tt.want)
		}
	}

	got := Colored("1.2.3-rc.1", true)
	if !strings.Contains(got, "\x1b[") || !strings.HasSuffix(got, "-rc.1") {
		t.Errorf("Colored with color = %q", got)
	}
}
