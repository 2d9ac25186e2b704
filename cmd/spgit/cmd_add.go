package main

import (
	"fmt"

	"github.com/spgit/spgit/pkg/repo"
	"github.com/spf13/cobra"
)

func newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add (. | <item-uri...>)",
		Short: "Stage items from the remote catalog's current snapshot",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			rl, err := openRemote(r, "")
			if err != nil {
				return fmt.Errorf("add: %w", err)
			}
			snapshot, err := rl.FetchItems(cmd.Context(), r.Config.ListID)
			if err != nil {
				return fmt.Errorf("add: fetch remote snapshot: %w", err)
			}

			if len(args) == 1 && args[0] == "." {
				return r.StageFrom(snapshot)
			}
			return r.StageSelected(args, snapshot)
		},
	}
}
