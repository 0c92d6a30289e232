// Package cli defines the vizsat command tree: serve, cache management, and
// version commands.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// Build-time variables injected via ldflags.
var (
	Version   = "1.0.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// RootOptions holds the global CLI flags.
type RootOptions struct {
	ConfigPath string
	ServerAddr string
	Timeout    time.Duration
}

// NewRootCommand creates the root command with its global flags and
// subcommands.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "vizsat",
		Short:   "viz-satellite — volcano-plot data backend",
		Long:    "viz-satellite serves deterministic synthetic differential-abundance data\nfor interactive volcano plots, with server-side significance filtering,\nzoom-scaled downsampling, and memory-bounded serialization.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),

		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: environment variables only)")
	pf.StringVar(&opts.ServerAddr, "server", "http://localhost:8000", "API server address for client commands")
	pf.DurationVar(&opts.Timeout, "timeout", 60*time.Second, "client operation timeout")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newCacheCommand(opts))
	cmd.AddCommand(newVersionCommand())

	return cmd
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
		return 1
	}
	return 0
}
