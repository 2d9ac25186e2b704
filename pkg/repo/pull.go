package repo

import (
	"context"
	"fmt"

	"github.com/spgit/spgit/pkg/merge"
	"github.com/spgit/spgit/pkg/object"
	"github.com/spgit/spgit/pkg/remote"
)

// PullReport summarizes the outcome of Pull.
type PullReport struct {
	Created    bool // true when this was the repository's first commit
	UpToDate   bool
	CommitHash object.Hash
	ItemCount  int
}

// Pull fetches the remote catalog's current item snapshot and reconciles it
// with HEAD.
//
// The remote here is a mutable list, not a commit graph, so there is no
// fast-forward/diverged distinction the way there is for Merge: the fetched
// snapshot is simply combined with HEAD's current item list via strategy
// and written as a new single-parent commit. With no prior commit, the
// fetched snapshot becomes the initial commit outright.
func (r *Repo) Pull(ctx context.Context, rl remote.RemoteList, strategy merge.Strategy, author string) (*PullReport, error) {
	if strategy != "" && !strategy.Valid() {
		return nil, fmt.Errorf("pull: %w: unknown strategy %q", ErrUserError, strategy)
	}

	remoteItems, err := rl.FetchItems(ctx, r.Config.ListID)
	if err != nil {
		return nil, fmt.Errorf("pull: fetch remote: %w", err)
	}

	headHash, err := r.ResolveRef("HEAD")
	if err != nil {
		if err := r.StageFrom(remoteItems); err != nil {
			return nil, fmt.Errorf("pull: %w", err)
		}
		commitHash, err := r.Commit("Initial pull from remote", author)
		if err != nil {
			return nil, fmt.Errorf("pull: %w", err)
		}
		return &PullReport{Created: true, CommitHash: commitHash, ItemCount: len(remoteItems)}, nil
	}

	headItems, err := r.itemsAtCommit(headHash)
	if err != nil {
		return nil, fmt.Errorf("pull: %w", err)
	}

	added, removed, reordered := diffItemLists(headItems, remoteItems)
	if len(added) == 0 && len(removed) == 0 && len(reordered) == 0 {
		return &PullReport{UpToDate: true, CommitHash: headHash, ItemCount: len(headItems)}, nil
	}

	merged, err := merge.Apply(strategy, headItems, remoteItems)
	if err != nil {
		return nil, fmt.Errorf("pull: %w", err)
	}

	treeHash, err := r.buildTreeFromItems(merged)
	if err != nil {
		return nil, fmt.Errorf("pull: %w", err)
	}
	commitHash, err := r.appendCommit("Pull from remote", author, treeHash, headHash, "pull")
	if err != nil {
		return nil, fmt.Errorf("pull: %w", err)
	}
	if err := r.StageFrom(merged); err != nil {
		return nil, fmt.Errorf("pull: update index: %w", err)
	}

	return &PullReport{CommitHash: commitHash, ItemCount: len(merged)}, nil
}
