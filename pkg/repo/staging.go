package repo

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spgit/spgit/pkg/item"
	"github.com/spgit/spgit/pkg/object"
)

// StagingEntry records the staged state of a single item slot. Position is
// the entry's index in index order; Dirty marks an entry whose blob has not
// yet been confirmed to match the tree it will be committed against.
type StagingEntry struct {
	ItemID      string      `json:"item_id"`
	BlobHash    object.Hash `json:"blob_hash"`
	DisplayName string      `json:"display_name,omitempty"`
	Position    int         `json:"position"`
	Dirty       bool        `json:"dirty,omitempty"`
}

// Staging holds the full index: an ordered sequence of staged items keyed
// by identifier. Entries is a map for O(1) lookup by ItemID; Ordered
// projects it back into index order for anything that needs the sequence
// (tree building, diffing, display).
type Staging struct {
	Entries map[string]*StagingEntry `json:"entries"`
}

func (r *Repo) indexPath() string {
	return r.SpgitDir + "/index"
}

// ReadStaging loads the index from .spgit/index. A missing file is an
// empty, not-yet-staged index, not an error.
func (r *Repo) ReadStaging() (*Staging, error) {
	data, err := os.ReadFile(r.indexPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Staging{Entries: make(map[string]*StagingEntry)}, nil
		}
		return nil, fmt.Errorf("read staging: %w", err)
	}

	var stg Staging
	if err := json.Unmarshal(data, &stg); err != nil {
		return nil, fmt.Errorf("read staging: unmarshal: %w", err)
	}
	if stg.Entries == nil {
		stg.Entries = make(map[string]*StagingEntry)
	}
	return &stg, nil
}

// WriteStaging atomically writes the index to .spgit/index.
func (r *Repo) WriteStaging(s *Staging) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("write staging: marshal: %w", err)
	}

	tmp, err := os.CreateTemp(r.SpgitDir, ".index-tmp-*")
	if err != nil {
		return fmt.Errorf("write staging: tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write staging: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write staging: close: %w", err)
	}
	if err := os.Rename(tmpName, r.indexPath()); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write staging: rename: %w", err)
	}
	return nil
}

// Ordered returns the staged entries sorted by Position, the order a tree
// built from this index will preserve.
func (s *Staging) Ordered() []StagingEntry {
	out := make([]StagingEntry, 0, len(s.Entries))
	for _, e := range s.Entries {
		out = append(out, *e)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Position < out[j-1].Position; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// StageFrom replaces the entire index with the given snapshot, in the
// snapshot's order. This is the "add ." case: the caller fetched the full
// current remote-list snapshot and wants the index to mirror it exactly.
func (r *Repo) StageFrom(items []item.Item) error {
	stg := &Staging{Entries: make(map[string]*StagingEntry, len(items))}
	for i, it := range items {
		bh, err := r.writeItemBlob(it)
		if err != nil {
			return fmt.Errorf("stage from: %w", err)
		}
		stg.Entries[it.ID] = &StagingEntry{
			ItemID:      it.ID,
			BlobHash:    bh,
			DisplayName: it.DisplayName,
			Position:    i,
		}
	}
	if err := r.WriteStaging(stg); err != nil {
		return fmt.Errorf("stage from: %w", err)
	}
	return nil
}

// StageSelected adds or removes exactly the named item IDs, looking each up
// in snapshot to decide which: an id present in snapshot is staged (added or
// updated), an id absent from snapshot is unstaged (removed from the
// index) if it was present. This is the "add <item-uri>" case, where only
// specific identifiers are touched and everything else in the index is left
// alone.
func (r *Repo) StageSelected(itemIDs []string, snapshot []item.Item) error {
	stg, err := r.ReadStaging()
	if err != nil {
		return fmt.Errorf("stage selected: %w", err)
	}

	byID := make(map[string]item.Item, len(snapshot))
	for _, it := range snapshot {
		byID[it.ID] = it
	}

	nextPos := len(stg.Entries)
	for _, id := range itemIDs {
		it, present := byID[id]
		if !present {
			delete(stg.Entries, id)
			continue
		}
		bh, err := r.writeItemBlob(it)
		if err != nil {
			return fmt.Errorf("stage selected: %w", err)
		}
		if existing, ok := stg.Entries[id]; ok {
			existing.BlobHash = bh
			existing.DisplayName = it.DisplayName
			existing.Dirty = true
			continue
		}
		stg.Entries[id] = &StagingEntry{
			ItemID:      it.ID,
			BlobHash:    bh,
			DisplayName: it.DisplayName,
			Position:    nextPos,
			Dirty:       true,
		}
		nextPos++
	}

	if err := r.WriteStaging(stg); err != nil {
		return fmt.Errorf("stage selected: %w", err)
	}
	return nil
}

// ToTree writes a TreeObj from the index in Position order and returns its
// hash. It is the staging-area counterpart of buildTreeFromItems, used
// directly by Commit.
func (r *Repo) ToTree(s *Staging) (object.Hash, error) {
	var tr object.TreeObj
	for i, e := range s.Ordered() {
		tr.Entries = append(tr.Entries, object.TreeEntry{
			Position:    i,
			ItemID:      e.ItemID,
			BlobHash:    e.BlobHash,
			DisplayName: e.DisplayName,
		})
	}
	h, err := r.Store.WriteTree(&tr)
	if err != nil {
		return "", fmt.Errorf("to tree: %w", err)
	}
	return h, nil
}

// DiffAgainst compares the index against a committed tree and reports which
// items were added (present in the index, absent from the tree), removed
// (present in the tree, absent from the index), and reordered (present in
// both but at a different position).
func (r *Repo) DiffAgainst(s *Staging, treeHash object.Hash) (added, removed, reordered []item.Item, err error) {
	treeItems, err := r.TreeItems(treeHash)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("diff against: %w", err)
	}
	a, rm, ro := diffOrderedAgainst(s.Ordered(), treeItems)
	return a, rm, ro, nil
}

// diffOrderedAgainst compares a staged, position-ordered sequence against
// an arbitrary ordered item list (a committed tree's items or a remote
// catalog snapshot), reporting the same added/removed/reordered shape
// DiffAgainst exposes. It is the shared core behind DiffAgainst (index vs
// HEAD) and Status' index-vs-remote comparison.
func diffOrderedAgainst(ordered []StagingEntry, target []item.Item) (added, removed, reordered []item.Item) {
	targetPos := make(map[string]int, len(target))
	targetByID := make(map[string]item.Item, len(target))
	for i, it := range target {
		targetPos[it.ID] = i
		targetByID[it.ID] = it
	}

	indexIDs := make(map[string]bool, len(ordered))
	for _, e := range ordered {
		indexIDs[e.ItemID] = true
		pos, inTarget := targetPos[e.ItemID]
		if !inTarget {
			added = append(added, item.Item{ID: e.ItemID, DisplayName: e.DisplayName})
			continue
		}
		if pos != e.Position {
			reordered = append(reordered, targetByID[e.ItemID])
		}
	}
	for _, it := range target {
		if !indexIDs[it.ID] {
			removed = append(removed, it)
		}
	}
	return added, removed, reordered
}

// writeItemBlob marshals it and writes it as a blob, returning the
// resulting content hash.
func (r *Repo) writeItemBlob(it item.Item) (object.Hash, error) {
	data, err := item.Marshal(it)
	if err != nil {
		return "", fmt.Errorf("write item blob: %w", err)
	}
	return r.Store.WriteBlob(&object.Blob{Data: data})
}
