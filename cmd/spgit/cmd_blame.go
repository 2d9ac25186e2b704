package main

import (
	"fmt"

	"github.com/spgit/spgit/pkg/repo"
	"github.com/spf13/cobra"
)

func newBlameCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "blame <item-id>",
		Short: "Show which commit introduced an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return fmt.Errorf("--limit must be greater than 0")
			}

			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			result, err := r.BlameItem(args[0], limit)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", result.ItemID, result.Author, shortHash(result.CommitHash), result.Message)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 200, "maximum number of commits to scan")

	return cmd
}
