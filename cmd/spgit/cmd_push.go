package main

import (
	"fmt"

	"github.com/spgit/spgit/pkg/repo"
	"github.com/spf13/cobra"
)

func newPushCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "push [remote]",
		Short: "Overwrite the remote catalog's snapshot with HEAD's items",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			remoteArg := ""
			if len(args) == 1 {
				remoteArg = args[0]
			}

			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			rl, err := openRemote(r, remoteArg)
			if err != nil {
				return fmt.Errorf("push: %w", err)
			}

			report, err := r.Push(cmd.Context(), rl)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if report.UpToDate {
				fmt.Fprintf(out, "everything up to date (%d items)\n", report.ItemCount)
				return nil
			}
			fmt.Fprintf(out, "pushed %d items\n", report.ItemCount)
			return nil
		},
	}
	return cmd
}
