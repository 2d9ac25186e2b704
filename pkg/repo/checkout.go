package repo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spgit/spgit/pkg/object"
	"github.com/spgit/spgit/pkg/remote"
)

// Checkout switches the working state to the target's committed item list.
// The target can be a branch name or a raw commit hash.
//
// Algorithm:
//  1. Refuse if the index has uncommitted changes against HEAD.
//  2. Resolve target: try as branch name first, then as raw hash.
//  3. Read the target commit's tree and its items.
//  4. Push the item list to the working-state remote via ReplaceItems, so
//     the external catalog mirrors the checked-out history.
//  5. Rewrite the index to mirror the target tree.
//  6. Update HEAD (symbolic ref for branch, raw hash for detached).
func (r *Repo) Checkout(ctx context.Context, rl remote.RemoteList, target string) error {
	if err := r.ensureClean(); err != nil {
		return fmt.Errorf("checkout: %w", err)
	}

	isBranch := false
	var targetHash object.Hash

	branchHash, err := r.ResolveRef("refs/heads/" + target)
	if err == nil {
		targetHash = branchHash
		isBranch = true
	} else {
		targetHash = object.Hash(target)
	}

	commit, err := r.Store.ReadCommit(targetHash)
	if err != nil {
		return fmt.Errorf("checkout: cannot read commit %s: %w", targetHash, err)
	}

	items, err := r.TreeItems(commit.TreeHash)
	if err != nil {
		return fmt.Errorf("checkout: read target tree: %w", err)
	}

	if rl != nil {
		if err := rl.ReplaceItems(ctx, r.Config.ListID, items); err != nil {
			return fmt.Errorf("checkout: %w", err)
		}
	}

	if err := r.StageFrom(items); err != nil {
		return fmt.Errorf("checkout: %w", err)
	}

	headPath := filepath.Join(r.SpgitDir, "HEAD")
	var headContent string
	if isBranch {
		headContent = "ref: refs/heads/" + target + "\n"
	} else {
		headContent = string(targetHash) + "\n"
	}
	if err := os.WriteFile(headPath, []byte(headContent), 0o644); err != nil {
		return fmt.Errorf("checkout: update HEAD: %w", err)
	}

	return nil
}

// ensureClean checks that the index has no uncommitted changes relative to
// the current HEAD tree.
func (r *Repo) ensureClean() error {
	headHash, err := r.ResolveRef("HEAD")
	if err != nil {
		// No commits yet: nothing to be unclean against.
		return nil
	}
	commit, err := r.Store.ReadCommit(headHash)
	if err != nil {
		return fmt.Errorf("read HEAD commit: %w", err)
	}

	stg, err := r.ReadStaging()
	if err != nil {
		return fmt.Errorf("read staging: %w", err)
	}

	added, removed, reordered, err := r.DiffAgainst(stg, commit.TreeHash)
	if err != nil {
		return fmt.Errorf("diff against HEAD: %w", err)
	}
	if len(added) != 0 || len(removed) != 0 || len(reordered) != 0 {
		return fmt.Errorf("%w: index has uncommitted changes", ErrUserError)
	}
	return nil
}
