package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spgit/spgit/pkg/repo"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the index's state against HEAD and the remote catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			branch := "HEAD"
			head, err := r.Head()
			if err == nil && strings.HasPrefix(head, "refs/heads/") {
				branch = strings.TrimPrefix(head, "refs/heads/")
			}
			fmt.Fprintf(out, "on %s\n", branch)

			rl, rlErr := openConfiguredRemote(r)
			entries, err := r.Status(cmd.Context(), rl)
			if err != nil {
				return err
			}

			var added, removed, reordered, clean []repo.StatusEntry
			for _, e := range entries {
				switch e.AgainstHead {
				case repo.StateAdded:
					added = append(added, e)
				case repo.StateRemoved:
					removed = append(removed, e)
				case repo.StateReordered:
					reordered = append(reordered, e)
				case repo.StateClean:
					clean = append(clean, e)
				}
			}

			printGroup(out, "added (staged, not in HEAD):", added, "+")
			printGroup(out, "removed (in HEAD, not staged):", removed, "-")
			printGroup(out, "reordered:", reordered, "~")

			if len(added) == 0 && len(removed) == 0 && len(reordered) == 0 {
				fmt.Fprintln(out, "index matches HEAD")
			}

			if rlErr != nil {
				fmt.Fprintf(out, "\n(remote status unavailable: %v)\n", rlErr)
			}

			return nil
		},
	}
}

func printGroup(out io.Writer, title string, entries []repo.StatusEntry, marker string) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, title)
	for _, e := range entries {
		name := e.DisplayName
		if name == "" {
			name = e.ItemID
		}
		fmt.Fprintf(out, "  %s %s\n", marker, name)
	}
}
