package repo

import (
	"context"
	"fmt"

	"github.com/spgit/spgit/pkg/item"
	"github.com/spgit/spgit/pkg/remote"
)

// FetchReport previews what Pull would do, without changing any local
// state: no ref move, no index write.
type FetchReport struct {
	ItemCount int
	Added     []item.Item
	Removed   []item.Item
	Reordered []item.Item
}

// Fetch retrieves the remote catalog's current snapshot and reports how it
// differs from HEAD, leaving HEAD, the index, and the object store
// untouched. Pull performs the same comparison and then commits the result;
// Fetch is the read-only half of that, the way fetch-without-merge behaves
// against a branch tip.
func (r *Repo) Fetch(ctx context.Context, rl remote.RemoteList) (*FetchReport, error) {
	remoteItems, err := rl.FetchItems(ctx, r.Config.ListID)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	headHash, err := r.ResolveRef("HEAD")
	if err != nil {
		return &FetchReport{ItemCount: len(remoteItems), Added: remoteItems}, nil
	}

	headItems, err := r.itemsAtCommit(headHash)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	added, removed, reordered := diffItemLists(headItems, remoteItems)
	return &FetchReport{
		ItemCount: len(remoteItems),
		Added:     added,
		Removed:   removed,
		Reordered: reordered,
	}, nil
}
