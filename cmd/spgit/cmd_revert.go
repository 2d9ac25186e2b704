package main

import (
	"fmt"

	"github.com/spgit/spgit/pkg/repo"
	"github.com/spf13/cobra"
)

func newRevertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revert <commit>",
		Short: "Create a new commit that undoes a prior commit's item changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			target, err := resolveCommitish(r, args[0])
			if err != nil {
				return fmt.Errorf("revert: %w", err)
			}

			h, err := r.Revert(target, commitAuthor())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "reverted %s as %s\n", shortHash(target), shortHash(h))
			return nil
		},
	}
}
