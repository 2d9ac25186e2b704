package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spgit/spgit/pkg/repo"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "spgit",
		Short:         "Version control for ordered catalog lists",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newAddCmd())
	root.AddCommand(newStatusCmd())
	root.AddCommand(newCommitCmd())
	root.AddCommand(newLogCmd())
	root.AddCommand(newDiffCmd())
	root.AddCommand(newBranchCmd())
	root.AddCommand(newCheckoutCmd())
	root.AddCommand(newMergeCmd())
	root.AddCommand(newPullCmd())
	root.AddCommand(newPushCmd())
	root.AddCommand(newFetchCmd())
	root.AddCommand(newRemoteCmd())
	root.AddCommand(newResetCmd())
	root.AddCommand(newRevertCmd())
	root.AddCommand(newStashCmd())
	root.AddCommand(newTagCmd())
	root.AddCommand(newShowCmd())
	root.AddCommand(newCherryPickCmd())
	root.AddCommand(newRebaseCmd())
	root.AddCommand(newBlameCmd())
	root.AddCommand(newReflogCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newCloneCmd())
	root.AddCommand(newGCCmd())
	root.AddCommand(newVerifyCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "spgit:", err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps a façade error to the process exit code: 0 success,
// 1 user error, 2 repository error, 3 remote error.
func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, repo.ErrUserError):
		return 1
	case errors.Is(err, repo.ErrNotARepository),
		errors.Is(err, repo.ErrCorruptObject),
		errors.Is(err, repo.ErrRefRace),
		errors.Is(err, repo.ErrMergeImpossible):
		return 2
	case errors.Is(err, repo.ErrRemote):
		return 3
	default:
		return 1
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "spgit 0.1.0-dev")
		},
	}
}
