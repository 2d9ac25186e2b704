package repo

import (
	"fmt"

	"github.com/spgit/spgit/pkg/object"
)

// ResetMode selects how much of the repository state Reset moves.
type ResetMode int

const (
	// ResetSoft moves HEAD (and the current branch) only; index is
	// untouched, so the difference between the old and new HEAD shows up
	// as staged changes on the next status/commit.
	ResetSoft ResetMode = iota

	// ResetMixed (the default) moves the ref and resets the index to
	// target's tree. The external catalog is left alone until the next
	// checkout or push.
	ResetMixed

	// ResetHard moves the ref and resets the index to target's tree, the
	// same as ResetMixed. The distinction is purely forward-looking: a
	// subsequent push will overwrite the remote catalog with this state,
	// whereas after a soft/mixed reset a caller may still intend to
	// reconcile manually first.
	ResetHard
)

// Reset moves the current HEAD (and, if HEAD is symbolic, its branch) to
// target, with the index adjusted according to mode.
func (r *Repo) Reset(mode ResetMode, target object.Hash, author string) error {
	head, err := r.Head()
	if err != nil {
		return fmt.Errorf("reset: read HEAD: %w", err)
	}
	currentHash, err := r.ResolveRef("HEAD")
	if err != nil {
		currentHash = ""
	}

	if _, err := r.Store.ReadCommit(target); err != nil {
		return fmt.Errorf("reset: read target commit %s: %w", target, err)
	}

	if err := r.advanceHead(head, target, currentHash, author, "reset", fmt.Sprintf("%s to %s", resetModeLabel(mode), target)); err != nil {
		return fmt.Errorf("reset: %w", err)
	}

	if mode == ResetSoft {
		return nil
	}

	commit, err := r.Store.ReadCommit(target)
	if err != nil {
		return fmt.Errorf("reset: read target commit: %w", err)
	}
	items, err := r.TreeItems(commit.TreeHash)
	if err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	if err := r.StageFrom(items); err != nil {
		return fmt.Errorf("reset: reset index: %w", err)
	}
	return nil
}

func resetModeLabel(mode ResetMode) string {
	switch mode {
	case ResetSoft:
		return "moving to"
	case ResetHard:
		return "hard reset"
	default:
		return "reset"
	}
}
