package main

import (
	"fmt"

	"github.com/spgit/spgit/pkg/repo"
	"github.com/spf13/cobra"
)

func newResetCmd() *cobra.Command {
	var soft, hard bool

	cmd := &cobra.Command{
		Use:   "reset [commit]",
		Short: "Move HEAD (and reset the index) to commit",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			ref := "HEAD"
			if len(args) == 1 {
				ref = args[0]
			}
			target, err := r.ResolveRef(ref)
			if err != nil {
				return fmt.Errorf("reset: resolve %q: %w", ref, err)
			}

			mode := repo.ResetMixed
			switch {
			case soft && hard:
				return fmt.Errorf("reset: --soft and --hard are mutually exclusive")
			case soft:
				mode = repo.ResetSoft
			case hard:
				mode = repo.ResetHard
			}

			if err := r.Reset(mode, target, commitAuthor()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "HEAD is now at %s\n", shortHash(target))
			return nil
		},
	}

	cmd.Flags().BoolVar(&soft, "soft", false, "move HEAD only, leave the index untouched")
	cmd.Flags().BoolVar(&hard, "hard", false, "move HEAD and reset the index (remote is overwritten on next push)")

	return cmd
}
