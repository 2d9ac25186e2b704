package repo

import (
	"context"
	"fmt"

	"github.com/spgit/spgit/pkg/remote"
)

// PushReport summarizes the outcome of Push.
type PushReport struct {
	UpToDate  bool
	ItemCount int
}

// Push replaces the remote catalog's item list with HEAD's committed items.
//
// Unlike a git push, there is no remote history to fast-forward: the
// catalog only ever holds a flat current snapshot, so pushing always
// overwrites it outright. Callers that want to avoid clobbering concurrent
// remote edits should Pull first and resolve via a merge strategy.
func (r *Repo) Push(ctx context.Context, rl remote.RemoteList) (*PushReport, error) {
	headHash, err := r.ResolveRef("HEAD")
	if err != nil {
		return nil, fmt.Errorf("push: resolve HEAD: %w", err)
	}

	headItems, err := r.itemsAtCommit(headHash)
	if err != nil {
		return nil, fmt.Errorf("push: %w", err)
	}

	remoteItems, err := rl.FetchItems(ctx, r.Config.ListID)
	if err == nil {
		added, removed, reordered := diffItemLists(remoteItems, headItems)
		if len(added) == 0 && len(removed) == 0 && len(reordered) == 0 {
			return &PushReport{UpToDate: true, ItemCount: len(headItems)}, nil
		}
	}

	if err := rl.ReplaceItems(ctx, r.Config.ListID, headItems); err != nil {
		return nil, fmt.Errorf("push: %w", err)
	}

	return &PushReport{ItemCount: len(headItems)}, nil
}
