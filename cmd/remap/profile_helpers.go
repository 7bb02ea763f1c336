package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"remap/internal/prof"
)

// setupProfiling starts what --cpu-profile and --runtime-trace ask for;
// the returned cleanup stops them and writes --mem-profile.
func setupProfiling(cmd *cobra.Command) (func(), error) {
	var opts prof.Options
	for _, f := range []struct {
		name string
		dst  *string
	}{
		{"cpu-profile", &opts.CPU},
		{"runtime-trace", &opts.Trace},
		{"mem-profile", &opts.Mem},
	} {
		v, err := persistentString(cmd, f.name)
		if err != nil {
			return nil, err
		}
		*f.dst = v
	}
	if opts == (prof.Options{}) {
		return func() {}, nil
	}

	session, err := prof.Start(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to start profiling: %w", err)
	}
	return func() {
		if err := session.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "profiling: %v\n", err)
		}
	}, nil
}
