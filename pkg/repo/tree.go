package repo

import (
	"fmt"

	"github.com/spgit/spgit/pkg/item"
	"github.com/spgit/spgit/pkg/object"
)

// BuildTree writes a TreeObj capturing the staging area's items in index
// order and returns its hash. Unlike a filesystem tree, this domain's
// tree is flat: there is no directory nesting, only a single ordered
// sequence of slots, and position is part of what gets hashed.
func (r *Repo) BuildTree(s *Staging) (object.Hash, error) {
	return r.ToTree(s)
}

// TreeItems reads a tree and resolves every entry's blob back into an
// item.Item, in tree order.
func (r *Repo) TreeItems(h object.Hash) ([]item.Item, error) {
	tr, err := r.Store.ReadTree(h)
	if err != nil {
		return nil, fmt.Errorf("tree items: %w", err)
	}
	items := make([]item.Item, 0, len(tr.Entries))
	for _, e := range tr.Entries {
		blob, err := r.Store.ReadBlob(e.BlobHash)
		if err != nil {
			return nil, fmt.Errorf("tree items: read blob for %q: %w", e.ItemID, err)
		}
		it, err := item.Unmarshal(blob.Data)
		if err != nil {
			return nil, fmt.Errorf("tree items: decode %q: %w", e.ItemID, err)
		}
		items = append(items, it)
	}
	return items, nil
}

// TreeItemIDs is TreeItems without resolving blobs, for callers that only
// need identity and order (diffing, merge strategies).
func (r *Repo) TreeItemIDs(h object.Hash) ([]string, error) {
	tr, err := r.Store.ReadTree(h)
	if err != nil {
		return nil, fmt.Errorf("tree item ids: %w", err)
	}
	ids := make([]string, len(tr.Entries))
	for i, e := range tr.Entries {
		ids[i] = e.ItemID
	}
	return ids, nil
}

// buildTreeFromItems writes a TreeObj directly from an ordered item list,
// writing any blobs that do not already exist in the store. Merge, pull,
// revert, and cherry-pick (and so rebase) all compute a new ordered item list and
// need to materialize it as a tree without going through the staging area.
func (r *Repo) buildTreeFromItems(items []item.Item) (object.Hash, error) {
	var tr object.TreeObj
	for i, it := range items {
		data, err := item.Marshal(it)
		if err != nil {
			return "", fmt.Errorf("build tree: marshal %q: %w", it.ID, err)
		}
		bh, err := r.Store.WriteBlob(&object.Blob{Data: data})
		if err != nil {
			return "", fmt.Errorf("build tree: write blob %q: %w", it.ID, err)
		}
		tr.Entries = append(tr.Entries, object.TreeEntry{
			Position:    i,
			ItemID:      it.ID,
			BlobHash:    bh,
			DisplayName: it.DisplayName,
		})
	}
	h, err := r.Store.WriteTree(&tr)
	if err != nil {
		return "", fmt.Errorf("build tree: %w", err)
	}
	return h, nil
}
