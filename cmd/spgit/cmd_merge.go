package main

import (
	"fmt"

	"github.com/spgit/spgit/pkg/merge"
	"github.com/spgit/spgit/pkg/repo"
	"github.com/spf13/cobra"
)

func newMergeCmd() *cobra.Command {
	var strategyFlag string

	cmd := &cobra.Command{
		Use:   "merge <branch>",
		Short: "Merge a branch into the current branch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			branchName := args[0]

			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			current, err := r.CurrentBranch()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "merging %s into %s...\n", branchName, current)

			report, err := r.Merge(branchName, merge.Strategy(strategyFlag), commitAuthor())
			if err != nil {
				return err
			}

			switch {
			case report.UpToDate:
				fmt.Fprintln(out, "already up to date")
			case report.FastForward:
				fmt.Fprintf(out, "fast-forward to %s (%d items)\n", shortHash(report.MergeCommit), report.ItemCount)
			default:
				fmt.Fprintf(out, "[%s %s] Merge branch '%s' (%d items)\n", current, shortHash(report.MergeCommit), branchName, report.ItemCount)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&strategyFlag, "strategy", "", fmt.Sprintf("merge strategy: %s (default), %s, %s", merge.Union, merge.Append, merge.Intersection))
	return cmd
}
