package main

import (
	"fmt"

	"github.com/spgit/spgit/pkg/repo"
	"github.com/spf13/cobra"
)

func newCherryPickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cherry-pick <commit>",
		Short: "Replay a commit's item changes onto HEAD",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			target, err := resolveCommitish(r, args[0])
			if err != nil {
				return fmt.Errorf("cherry-pick: %w", err)
			}

			h, err := r.CherryPick(target, commitAuthor())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "cherry-picked %s as %s\n", shortHash(target), shortHash(h))
			return nil
		},
	}
}
