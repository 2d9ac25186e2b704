package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spgit/spgit/pkg/merge"
	"github.com/spgit/spgit/pkg/remote"
	"github.com/spgit/spgit/pkg/repo"
	"github.com/spf13/cobra"
)

func newCloneCmd() *cobra.Command {
	var remoteName string

	cmd := &cobra.Command{
		Use:   "clone <url> [directory]",
		Short: "Resolve url to a remote list and clone it into a new repository",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := strings.TrimSpace(args[0])

			dest := ""
			if len(args) == 2 {
				dest = args[1]
			} else {
				dest = deriveCloneDirName(source)
			}
			absDest, err := filepath.Abs(dest)
			if err != nil {
				return fmt.Errorf("clone: resolve destination: %w", err)
			}
			if err := ensureEmptyDir(absDest); err != nil {
				return err
			}

			rl, err := remote.NewHTTPCatalog(source)
			if err != nil {
				return fmt.Errorf("clone: %w", err)
			}
			listID, err := rl.ResolveURL(cmd.Context(), source)
			if err != nil {
				return fmt.Errorf("clone: resolve %q: %w", source, err)
			}

			r, err := repo.Init(absDest, listID)
			if err != nil {
				return err
			}
			if err := r.SetRemote(remoteName, source); err != nil {
				return err
			}

			report, err := r.Pull(cmd.Context(), rl, merge.Union, commitAuthor())
			if err != nil {
				return fmt.Errorf("clone: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "cloned %s into %s (%d items)\n", source, absDest, report.ItemCount)
			return nil
		},
	}

	cmd.Flags().StringVar(&remoteName, "remote-name", "origin", "name to assign to the cloned remote")
	return cmd
}

// deriveCloneDirName picks a destination directory name from the source
// URL's final path segment, the way "git clone" derives one from a repo
// URL's basename.
func deriveCloneDirName(source string) string {
	trimmed := strings.TrimRight(source, "/")
	name := trimmed
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
		name = trimmed[idx+1:]
	}
	name = strings.TrimSuffix(name, ".git")
	if name == "" {
		name = "list"
	}
	return name
}
