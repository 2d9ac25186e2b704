package main

import (
	"fmt"
	"strconv"

	"github.com/spgit/spgit/pkg/repo"
	"github.com/spf13/cobra"
)

func newStashCmd() *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "stash",
		Short: "Stash the index and reset it to HEAD",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			h, err := r.StashSave(message, commitAuthor())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved stash %s\n", shortHash(h))
			return nil
		},
	}
	cmd.Flags().StringVarP(&message, "message", "m", "", "stash message")

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved stashes, top of stack first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			entries, err := r.StashList()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, e := range entries {
				fmt.Fprintf(out, "stash@{%d}: %s %s\n", i, shortHash(e.Hash), e.Message)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "apply [index]",
		Short: "Merge a stash into the index, leaving it on the stack",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			idx, err := parseStashIndex(args)
			if err != nil {
				return err
			}
			return r.StashApply(idx)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "pop [index]",
		Short: "Merge a stash into the index and remove it from the stack",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			idx, err := parseStashIndex(args)
			if err != nil {
				return err
			}
			return r.StashPop(idx)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "drop [index]",
		Short: "Remove a stash from the stack without applying it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			idx, err := parseStashIndex(args)
			if err != nil {
				return err
			}
			return r.StashDrop(idx)
		},
	})

	return cmd
}

func parseStashIndex(args []string) (int, error) {
	if len(args) == 0 {
		return 0, nil
	}
	idx, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid stash index %q: %w", args[0], err)
	}
	return idx, nil
}
