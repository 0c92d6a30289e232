package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/turtacn/viz-satellite/pkg/client"
)

func newCacheCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the server's dataset cache",
	}
	cmd.AddCommand(newCacheStatusCommand(opts))
	cmd.AddCommand(newCacheWarmCommand(opts))
	cmd.AddCommand(newCacheClearCommand(opts))
	return cmd
}

func newAPIClient(opts *RootOptions) *client.Client {
	return client.NewClient(opts.ServerAddr, client.WithTimeout(opts.Timeout))
}

func newCacheStatusCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show cached dataset sizes and memory estimate",
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, err := newAPIClient(opts).CacheStatus(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Entries:  %d\n", status.Count)
			fmt.Fprintf(out, "Memory:   %d bytes (estimate)\n", status.MemoryBytes)
			if status.Removed > 0 {
				fmt.Fprintf(out, "Removed:  %d corrupt entries\n", status.Removed)
			}
			for _, size := range status.Sizes {
				fmt.Fprintf(out, "  - %d rows\n", size)
			}
			return nil
		},
	}
}

func newCacheWarmCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "warm SIZE [SIZE...]",
		Short: "Pre-generate datasets for the given sizes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sizes := make([]int, 0, len(args))
			for _, arg := range args {
				size, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("invalid size %q: must be an integer", arg)
				}
				sizes = append(sizes, size)
			}

			report, err := newAPIClient(opts).WarmCache(cmd.Context(), sizes)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Job:       %s\n", report.JobID)
			fmt.Fprintf(out, "Succeeded: %v\n", report.Succeeded)
			for _, failure := range report.Failed {
				fmt.Fprintf(out, "Failed:    %d (%s)\n", failure.Size, failure.Reason)
			}
			if len(report.Failed) > 0 {
				return fmt.Errorf("%d of %d sizes failed to warm", len(report.Failed), len(sizes))
			}
			return nil
		},
	}
}

func newCacheClearCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached dataset",
		RunE: func(cmd *cobra.Command, _ []string) error {
			removed, err := newAPIClient(opts).ClearCache(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached datasets\n", removed)
			return nil
		},
	}
}

// ping verifies the server is reachable before client commands run.  Kept
// separate so tests can exercise it directly.
func ping(ctx context.Context, opts *RootOptions) error {
	return newAPIClient(opts).Health(ctx)
}
