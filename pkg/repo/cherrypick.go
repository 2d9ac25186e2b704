package repo

import (
	"fmt"

	"github.com/spgit/spgit/pkg/item"
	"github.com/spgit/spgit/pkg/object"
)

// CherryPick replays the item-level delta target introduced over its first
// parent onto HEAD, producing a new commit parented at HEAD. The delta is
// added/removed/reordered items, the same shape DiffAgainst reports, here
// computed between target's tree and target's parent's tree.
func (r *Repo) CherryPick(target object.Hash, author string) (object.Hash, error) {
	commit, err := r.Store.ReadCommit(target)
	if err != nil {
		return "", fmt.Errorf("cherry-pick: read commit %s: %w", target, err)
	}
	parentHash := firstParentHash(commit)

	var parentItems []item.Item
	if parentHash != "" {
		parentItems, err = r.itemsAtCommit(parentHash)
		if err != nil {
			return "", fmt.Errorf("cherry-pick: %w", err)
		}
	}
	targetItems, err := r.TreeItems(commit.TreeHash)
	if err != nil {
		return "", fmt.Errorf("cherry-pick: %w", err)
	}

	added, removed, reorderedTo := diffItemLists(parentItems, targetItems)

	headHash, err := r.ResolveRef("HEAD")
	if err != nil {
		return "", fmt.Errorf("cherry-pick: resolve HEAD: %w", err)
	}
	headItems, err := r.itemsAtCommit(headHash)
	if err != nil {
		return "", fmt.Errorf("cherry-pick: %w", err)
	}

	removedIDs := make(map[string]bool, len(removed))
	for _, it := range removed {
		removedIDs[it.ID] = true
	}
	newPosition := make(map[string]int, len(reorderedTo))
	for i, it := range targetItems {
		newPosition[it.ID] = i
	}

	result := make([]item.Item, 0, len(headItems)+len(added))
	present := make(map[string]bool, len(headItems)+len(added))
	for _, it := range headItems {
		if removedIDs[it.ID] {
			continue
		}
		result = append(result, it)
		present[it.ID] = true
	}
	for _, it := range added {
		if present[it.ID] {
			continue
		}
		present[it.ID] = true
		result = append(result, it)
	}
	reorderItemsToMatch(result, newPosition)

	treeHash, err := r.buildTreeFromItems(result)
	if err != nil {
		return "", fmt.Errorf("cherry-pick: %w", err)
	}

	message := fmt.Sprintf("%s\n\n(cherry picked from commit %s)", commit.Message, target)
	pickHash, err := r.appendCommit(message, author, treeHash, headHash, "cherry-pick")
	if err != nil {
		return "", fmt.Errorf("cherry-pick: %w", err)
	}

	if err := r.StageFrom(result); err != nil {
		return "", fmt.Errorf("cherry-pick: update index: %w", err)
	}
	return pickHash, nil
}

// DiffItemLists compares before against after by item identity, reporting
// items present only in after (added), present only in before (removed),
// and present in both but at a different index (reordered, reported in
// after's order).
func DiffItemLists(before, after []item.Item) (added, removed, reordered []item.Item) {
	return diffItemLists(before, after)
}

// diffItemLists is the unexported implementation shared by DiffItemLists and
// the repo package's internal callers.
func diffItemLists(before, after []item.Item) (added, removed, reordered []item.Item) {
	beforePos := make(map[string]int, len(before))
	for i, it := range before {
		beforePos[it.ID] = i
	}
	afterIDs := make(map[string]bool, len(after))
	for i, it := range after {
		afterIDs[it.ID] = true
		if pos, ok := beforePos[it.ID]; ok {
			if pos != i {
				reordered = append(reordered, it)
			}
		} else {
			added = append(added, it)
		}
	}
	for _, it := range before {
		if !afterIDs[it.ID] {
			removed = append(removed, it)
		}
	}
	return added, removed, reordered
}

// reorderItemsToMatch stable-sorts items in place so that any item present
// in newPosition is ordered relative to the others by that index, leaving
// items absent from newPosition in their existing relative order.
func reorderItemsToMatch(items []item.Item, newPosition map[string]int) {
	rank := func(id string) int {
		if p, ok := newPosition[id]; ok {
			return p
		}
		return -1
	}
	for i := 1; i < len(items); i++ {
		for j := i; j > 0; j-- {
			a, b := items[j-1], items[j]
			ra, rb := rank(a.ID), rank(b.ID)
			if ra == -1 || rb == -1 || ra <= rb {
				break
			}
			items[j-1], items[j] = items[j], items[j-1]
		}
	}
}
