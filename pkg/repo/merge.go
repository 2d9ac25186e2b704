package repo

import (
	"fmt"
	"time"

	"github.com/spgit/spgit/pkg/item"
	"github.com/spgit/spgit/pkg/merge"
	"github.com/spgit/spgit/pkg/object"
)

// MergeReport is the outcome of a repository-level merge. Strategies are
// total: a merge either fast-forwards, is already up to date, or produces
// a clean merge commit. There is no conflict state to report.
type MergeReport struct {
	FastForward bool
	UpToDate    bool
	MergeCommit object.Hash
	ItemCount   int
}

// Merge merges the named branch into the current HEAD using strategy
// (empty defaults to merge.Union).
//
// Algorithm:
//  1. Resolve HEAD and the branch to commit hashes.
//  2. FindMergeBase(headHash, branchHash).
//  3. Fast-forward if HEAD is the merge base; no-op if branch is already an
//     ancestor of HEAD.
//  4. Otherwise flatten both trees (and the base tree, if any) to ordered
//     item lists, apply strategy, write the resulting tree, and create a
//     two-parent merge commit.
func (r *Repo) Merge(branchName string, strategy merge.Strategy, author string) (*MergeReport, error) {
	headHash, err := r.ResolveRef("HEAD")
	if err != nil {
		return nil, fmt.Errorf("merge: resolve HEAD: %w", err)
	}
	branchHash, err := r.ResolveRef("refs/heads/" + branchName)
	if err != nil {
		return nil, fmt.Errorf("merge: resolve branch %q: %w", branchName, err)
	}

	if strategy != "" && !strategy.Valid() {
		return nil, fmt.Errorf("merge: %w: unknown strategy %q", ErrUserError, strategy)
	}

	baseHash, err := r.FindMergeBase(headHash, branchHash)
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}

	// Up-to-date: incoming is already an ancestor of current.
	if baseHash == branchHash {
		return &MergeReport{UpToDate: true, MergeCommit: headHash}, nil
	}

	// Fast-forward: HEAD is the merge base, branch strictly ahead.
	if baseHash == headHash {
		head, err := r.Head()
		if err != nil {
			return nil, fmt.Errorf("merge: read HEAD: %w", err)
		}
		if err := r.fastForwardTo(head, headHash, branchHash, author, "merge "+branchName, "fast-forward"); err != nil {
			return nil, fmt.Errorf("merge: %w", err)
		}
		branchCommit, err := r.Store.ReadCommit(branchHash)
		if err != nil {
			return nil, fmt.Errorf("merge: read branch commit: %w", err)
		}
		items, err := r.TreeItems(branchCommit.TreeHash)
		if err != nil {
			return nil, fmt.Errorf("merge: %w", err)
		}
		if err := r.StageFrom(items); err != nil {
			return nil, fmt.Errorf("merge: %w", err)
		}
		return &MergeReport{FastForward: true, MergeCommit: branchHash, ItemCount: len(items)}, nil
	}

	headCommit, err := r.Store.ReadCommit(headHash)
	if err != nil {
		return nil, fmt.Errorf("merge: read head commit: %w", err)
	}
	branchCommit, err := r.Store.ReadCommit(branchHash)
	if err != nil {
		return nil, fmt.Errorf("merge: read branch commit: %w", err)
	}

	currentItems, err := r.TreeItems(headCommit.TreeHash)
	if err != nil {
		return nil, fmt.Errorf("merge: flatten current tree: %w", err)
	}
	incomingItems, err := r.TreeItems(branchCommit.TreeHash)
	if err != nil {
		return nil, fmt.Errorf("merge: flatten incoming tree: %w", err)
	}

	if strategy == "" {
		strategy = merge.Union
	}
	merged, err := merge.Apply(strategy, currentItems, incomingItems)
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}

	treeHash, err := r.buildTreeFromItems(merged)
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}

	mergeHash, err := r.commitMerge(
		fmt.Sprintf("Merge branch '%s'", branchName),
		author,
		treeHash,
		headHash,
		branchHash,
		"merge "+branchName,
		fmt.Sprintf("Merge made by the '%s' strategy.", strategy),
	)
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}

	if err := r.StageFrom(merged); err != nil {
		return nil, fmt.Errorf("merge: update index: %w", err)
	}

	return &MergeReport{MergeCommit: mergeHash, ItemCount: len(merged)}, nil
}

// fastForwardTo advances head (HEAD or the current branch ref) straight to
// newHash with a CAS against its current value.
func (r *Repo) fastForwardTo(head string, oldHash, newHash object.Hash, actor, action, message string) error {
	return r.advanceHead(head, newHash, oldHash, actor, action, message)
}

// commitMerge creates a commit with two parents, bypassing the staging
// area (the caller already computed the merged tree).
func (r *Repo) commitMerge(message, author string, treeHash object.Hash, parent1, parent2 object.Hash, reflogAction, reflogMessage string) (object.Hash, error) {
	if author == "" {
		author = "merge"
	}

	commitObj := &object.CommitObj{
		TreeHash:  treeHash,
		Parents:   []object.Hash{parent1, parent2},
		Author:    author,
		Timestamp: time.Now().Unix(),
		Message:   message,
	}

	commitHash, err := r.Store.WriteCommit(commitObj)
	if err != nil {
		return "", fmt.Errorf("merge commit: write: %w", err)
	}

	head, err := r.Head()
	if err != nil {
		return "", fmt.Errorf("merge commit: read HEAD: %w", err)
	}
	if err := r.advanceHead(head, commitHash, parent1, author, reflogAction, reflogMessage); err != nil {
		return "", fmt.Errorf("merge commit: %w", err)
	}

	return commitHash, nil
}

// itemsAtCommit is a small convenience wrapper used by revert, cherry-pick,
// and stash so they don't each re-derive tree items from a commit hash.
func (r *Repo) itemsAtCommit(h object.Hash) ([]item.Item, error) {
	commit, err := r.Store.ReadCommit(h)
	if err != nil {
		return nil, fmt.Errorf("read commit %s: %w", h, err)
	}
	return r.TreeItems(commit.TreeHash)
}
