package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spgit/spgit/pkg/repo"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	var listID string

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Create an empty spgit repository",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			abs, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}

			if err := os.MkdirAll(abs, 0o755); err != nil {
				return fmt.Errorf("create directory: %w", err)
			}

			r, err := repo.Init(abs, listID)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "initialized empty spgit repository in %s\n", filepath.Join(r.RootDir, ".spgit")+string(filepath.Separator))
			return nil
		},
	}

	cmd.Flags().StringVar(&listID, "list-id", "", "remote catalog list id this repository tracks")
	return cmd
}
