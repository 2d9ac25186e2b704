package main

import (
	"fmt"
	"io"

	"github.com/spgit/spgit/pkg/item"
	"github.com/spgit/spgit/pkg/repo"
	"github.com/spf13/cobra"
)

func newDiffCmd() *cobra.Command {
	var staged bool

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Show added, removed, and reordered items between the index and HEAD",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			_ = staged // index-vs-HEAD is the only comparison this engine tracks locally

			stg, err := r.ReadStaging()
			if err != nil {
				return err
			}

			headHash, err := r.ResolveRef("HEAD")
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), "no commits yet; nothing to diff against")
				return nil
			}

			added, removed, reordered, err := r.DiffAgainst(stg, headHash)
			if err != nil {
				return err
			}

			printDiffSection(cmd.OutOrStdout(), "added", added, "+")
			printDiffSection(cmd.OutOrStdout(), "removed", removed, "-")
			printDiffSection(cmd.OutOrStdout(), "reordered", reordered, "~")

			if len(added) == 0 && len(removed) == 0 && len(reordered) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no differences")
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&staged, "staged", false, "no-op: the index is always compared against HEAD")

	return cmd
}

func printDiffSection(out io.Writer, title string, items []item.Item, marker string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(out, "%s:\n", title)
	for _, it := range items {
		name := it.DisplayName
		if name == "" {
			name = it.ID
		}
		fmt.Fprintf(out, "  %s %s\n", marker, name)
	}
}
