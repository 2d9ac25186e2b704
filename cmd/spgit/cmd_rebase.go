package main

import (
	"fmt"

	"github.com/spgit/spgit/pkg/repo"
	"github.com/spf13/cobra"
)

func newRebaseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rebase <upstream>",
		Short: "Replay HEAD's unique commits onto upstream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			report, err := r.Rebase(args[0], commitAuthor())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(report.Commits) == 0 {
				fmt.Fprintf(out, "already up to date with %s\n", shortHash(report.Upstream))
				return nil
			}
			fmt.Fprintf(out, "replayed %d commit(s) onto %s\n", len(report.NewCommits), shortHash(report.Upstream))
			return nil
		},
	}
}
