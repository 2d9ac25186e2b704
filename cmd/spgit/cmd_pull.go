package main

import (
	"fmt"

	"github.com/spgit/spgit/pkg/merge"
	"github.com/spgit/spgit/pkg/repo"
	"github.com/spf13/cobra"
)

func newPullCmd() *cobra.Command {
	var strategyFlag string

	cmd := &cobra.Command{
		Use:   "pull [remote]",
		Short: "Fetch the remote catalog's snapshot and commit it against HEAD",
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
				return fmt.Errorf("pull: %w", err)
			}

			author := commitAuthor()
			report, err := r.Pull(cmd.Context(), rl, merge.Strategy(strategyFlag), author)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case report.UpToDate:
				fmt.Fprintf(out, "already up to date (%d items)\n", report.ItemCount)
			case report.Created:
				fmt.Fprintf(out, "created initial commit %s (%d items)\n", shortHash(report.CommitHash), report.ItemCount)
			default:
				fmt.Fprintf(out, "pulled %s (%d items)\n", shortHash(report.CommitHash), report.ItemCount)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&strategyFlag, "strategy", "", fmt.Sprintf("merge strategy: %s (default), %s, %s", merge.Union, merge.Append, merge.Intersection))
	return cmd
}
