package main

import (
	"fmt"

	"github.com/spgit/spgit/pkg/repo"
	"github.com/spf13/cobra"
)

func newGCCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gc",
		Short: "Garbage collection (not implemented)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := repo.Open("."); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "garbage collection is not implemented")
			return nil
		},
	}
}
