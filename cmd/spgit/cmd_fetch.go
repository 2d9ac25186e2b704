package main

import (
	"fmt"

	"github.com/spgit/spgit/pkg/repo"
	"github.com/spf13/cobra"
)

func newFetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch [remote]",
		Short: "Preview the remote catalog's snapshot against HEAD without changing anything",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			remoteArg := ""
			if len(args) == 1 {
				remoteArg = args[0]
			}

			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			rl, err := openRemote(r, remoteArg)
			if err != nil {
				return fmt.Errorf("fetch: %w", err)
			}

			report, err := r.Fetch(cmd.Context(), rl)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printDiffSection(out, "added", report.Added, "+")
			printDiffSection(out, "removed", report.Removed, "-")
			printDiffSection(out, "reordered", report.Reordered, "~")
			if len(report.Added) == 0 && len(report.Removed) == 0 && len(report.Reordered) == 0 {
				fmt.Fprintf(out, "up to date (%d items)\n", report.ItemCount)
			}
			return nil
		},
	}
}
