package main

import (
	"fmt"

	"github.com/spgit/spgit/pkg/repo"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config <key> [value]",
		Short: "Get or set a repository config value (list-id, tracking.<branch>)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			key := args[0]

			if len(args) == 2 {
				return setConfigValue(r, key, args[1])
			}
			return getConfigValue(cmd, r, key)
		},
	}
	return cmd
}

func getConfigValue(cmd *cobra.Command, r *repo.Repo, key string) error {
	switch {
	case key == "list-id":
		fmt.Fprintln(cmd.OutOrStdout(), r.Config.ListID)
		return nil
	case len(key) > len("tracking.") && key[:len("tracking.")] == "tracking.":
		branch := key[len("tracking."):]
		fmt.Fprintln(cmd.OutOrStdout(), r.Config.Tracking[branch])
		return nil
	default:
		return fmt.Errorf("config: unknown key %q", key)
	}
}

func setConfigValue(r *repo.Repo, key, value string) error {
	switch {
	case key == "list-id":
		r.Config.ListID = value
		return r.WriteConfig()
	default:
		return fmt.Errorf("config: key %q is not settable directly; use \"remote add\"/\"remote set-url\"", key)
	}
}
