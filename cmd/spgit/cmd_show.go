package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spgit/spgit/pkg/item"
	"github.com/spgit/spgit/pkg/object"
	"github.com/spgit/spgit/pkg/repo"
	"github.com/spf13/cobra"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [commit-ish]",
		Short: "Show commit metadata and the items it added, removed, or reordered",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			target := "HEAD"
			if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
				target = strings.TrimSpace(args[0])
			}

			h, err := resolveCommitish(r, target)
			if err != nil {
				return err
			}
			commit, err := r.Store.ReadCommit(h)
			if err != nil {
				return fmt.Errorf("show: read commit %s: %w", h, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "commit %s\n", h)
			fmt.Fprintf(out, "Author: %s\n", commit.Author)
			commitTime := time.Unix(commit.Timestamp, 0)
			fmt.Fprintf(out, "Date:   %s (%s)\n", commitTime.Format("2006-01-02 15:04:05"), humanize.Time(commitTime))
			fmt.Fprintln(out)
			fmt.Fprintf(out, "    %s\n", commit.Message)
			fmt.Fprintln(out)

			afterItems, err := r.TreeItems(commit.TreeHash)
			if err != nil {
				return fmt.Errorf("show: read tree: %w", err)
			}

			var beforeItems []item.Item
			if len(commit.Parents) > 0 && strings.TrimSpace(string(commit.Parents[0])) != "" {
				parent, err := r.Store.ReadCommit(commit.Parents[0])
				if err == nil {
					if items, flattenErr := r.TreeItems(parent.TreeHash); flattenErr == nil {
						beforeItems = items
					}
				}
			}

			added, removed, reordered := repo.DiffItemLists(beforeItems, afterItems)
			if len(added) == 0 && len(removed) == 0 && len(reordered) == 0 {
				return nil
			}

			fmt.Fprintln(out, "Changes:")
			printDiffSection(out, "added", added, "+")
			printDiffSection(out, "removed", removed, "-")
			printDiffSection(out, "reordered", reordered, "~")
			return nil
		},
	}
}

func resolveCommitish(r *repo.Repo, target string) (object.Hash, error) {
	if resolved, err := r.ResolveRef(target); err == nil {
		return resolved, nil
	}
	h := object.Hash(strings.TrimSpace(target))
	if h == "" {
		return "", fmt.Errorf("show: empty commit-ish")
	}
	if _, err := r.Store.ReadCommit(h); err != nil {
		return "", fmt.Errorf("show: unknown ref or commit %q", target)
	}
	return h, nil
}
