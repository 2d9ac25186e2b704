package main

import (
	"fmt"

	"github.com/spgit/spgit/pkg/object"
	"github.com/spgit/spgit/pkg/repo"
	"github.com/spf13/cobra"
)

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check every stored object's content against its digest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			checked := 0
			var bad []object.Hash
			err = r.Store.Iter(func(h object.Hash) error {
				checked++
				objType, data, err := r.Store.Read(h)
				if err != nil {
					bad = append(bad, h)
					return nil
				}
				if object.HashObject(objType, data) != h {
					bad = append(bad, h)
				}
				return nil
			})
			if err != nil {
				return fmt.Errorf("verify: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(bad) == 0 {
				fmt.Fprintf(out, "%d objects verified, no corruption found\n", checked)
				return nil
			}
			for _, h := range bad {
				fmt.Fprintf(out, "corrupt object %s\n", h)
			}
			return fmt.Errorf("%w: %d of %d objects failed verification", repo.ErrCorruptObject, len(bad), checked)
		},
	}
}
