package repo

import (
	"context"
	"fmt"
	"sort"

	"github.com/spgit/spgit/pkg/item"
	"github.com/spgit/spgit/pkg/remote"
)

// ItemState classifies how a single item's index slot compares against one
// reference point (the committed HEAD tree, or the external remote
// catalog's current snapshot).
type ItemState int

const (
	StateClean     ItemState = iota // present in both, same position
	StateAdded                      // present in index, absent from reference
	StateRemoved                    // present in reference, absent from index
	StateReordered                  // present in both, different position
	StateUnknown                    // reference unavailable (no HEAD yet, no remote configured)
)

func (s ItemState) String() string {
	switch s {
	case StateClean:
		return "clean"
	case StateAdded:
		return "added"
	case StateRemoved:
		return "removed"
	case StateReordered:
		return "reordered"
	default:
		return "unknown"
	}
}

// StatusEntry reports one item's state relative to both HEAD (what commit
// would result) and the remote catalog (what pull/push would change).
type StatusEntry struct {
	ItemID        string
	DisplayName   string
	AgainstHead   ItemState
	AgainstRemote ItemState
}

// Status computes the index's state against HEAD (StateUnknown while no
// commit exists yet) and,
// when rl is non-nil, against the external remote catalog's current
// snapshot. Passing rl as nil leaves AgainstRemote at StateUnknown for
// every entry, which is the correct behavior for a repository with no
// configured remote: that's a RemoteError only for fetch itself, not for a
// local status read.
func (r *Repo) Status(ctx context.Context, rl remote.RemoteList) ([]StatusEntry, error) {
	stg, err := r.ReadStaging()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	ordered := stg.Ordered()

	byID := make(map[string]*StatusEntry, len(ordered))
	for _, e := range ordered {
		byID[e.ItemID] = &StatusEntry{
			ItemID:        e.ItemID,
			DisplayName:   e.DisplayName,
			AgainstHead:   StateUnknown,
			AgainstRemote: StateUnknown,
		}
	}

	headHash, err := r.ResolveRef("HEAD")
	if err == nil {
		commit, err := r.Store.ReadCommit(headHash)
		if err != nil {
			return nil, fmt.Errorf("status: read HEAD commit: %w", err)
		}
		headItems, err := r.TreeItems(commit.TreeHash)
		if err != nil {
			return nil, fmt.Errorf("status: %w", err)
		}
		applyStateDiff(byID, ordered, headItems, func(e *StatusEntry, s ItemState) { e.AgainstHead = s })
	}

	if rl != nil {
		remoteItems, err := rl.FetchItems(ctx, r.Config.ListID)
		if err != nil {
			return nil, fmt.Errorf("status: fetch remote: %w", err)
		}
		applyStateDiff(byID, ordered, remoteItems, func(e *StatusEntry, s ItemState) { e.AgainstRemote = s })
	}

	entries := make([]StatusEntry, 0, len(byID))
	for _, e := range byID {
		entries = append(entries, *e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ItemID < entries[j].ItemID })
	return entries, nil
}

// applyStateDiff runs diffOrderedAgainst against target and records the
// resulting per-item classification via set. Items present in target but
// absent from the index are synthesized into byID as StateRemoved entries.
func applyStateDiff(byID map[string]*StatusEntry, ordered []StagingEntry, target []item.Item, set func(*StatusEntry, ItemState)) {
	added, removed, reordered := diffOrderedAgainst(ordered, target)

	addedIDs := make(map[string]bool, len(added))
	for _, it := range added {
		addedIDs[it.ID] = true
	}
	reorderedIDs := make(map[string]bool, len(reordered))
	for _, it := range reordered {
		reorderedIDs[it.ID] = true
	}

	for _, e := range ordered {
		entry := byID[e.ItemID]
		switch {
		case addedIDs[e.ItemID]:
			set(entry, StateAdded)
		case reorderedIDs[e.ItemID]:
			set(entry, StateReordered)
		default:
			set(entry, StateClean)
		}
	}
	for _, it := range removed {
		entry, ok := byID[it.ID]
		if !ok {
			entry = &StatusEntry{ItemID: it.ID, DisplayName: it.DisplayName, AgainstHead: StateUnknown, AgainstRemote: StateUnknown}
			byID[it.ID] = entry
		}
		set(entry, StateRemoved)
	}
}
