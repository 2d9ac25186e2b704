package repo

import (
	"errors"
	"fmt"

	"github.com/spgit/spgit/pkg/object"
)

// ErrItemNotFound indicates the requested item id never appears in the
// scanned history.
var ErrItemNotFound = errors.New("item not found")

// ItemBlame attributes an item to the commit that introduced it: blame over
// reordering (an item present throughout but moved) is not well-defined, so
// only introduction is ever reported.
type ItemBlame struct {
	ItemID     string
	Author     string
	CommitHash object.Hash
	Message    string
	Position   int
}

// BlameItem walks first-parent history from HEAD, returning the commit that
// introduced itemID: the first commit (walking backward) whose tree
// contains it and whose first parent's tree does not. limit bounds how many
// commits are scanned.
func (r *Repo) BlameItem(itemID string, limit int) (*ItemBlame, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("blame: limit must be greater than 0")
	}

	headHash, err := r.ResolveRef("HEAD")
	if err != nil {
		return nil, fmt.Errorf("blame: cannot resolve HEAD: %w", err)
	}

	currentHash := headHash
	scanned := 0
	sawItem := false

	for currentHash != "" && scanned < limit {
		scanned++

		commit, err := r.Store.ReadCommit(currentHash)
		if err != nil {
			return nil, fmt.Errorf("blame: read commit %s: %w", currentHash, err)
		}

		pos, inCurrent, err := r.itemPosition(commit.TreeHash, itemID)
		if err != nil {
			return nil, fmt.Errorf("blame: %w", err)
		}

		if inCurrent {
			sawItem = true
			parentHash := firstParentHash(commit)
			if parentHash == "" {
				return &ItemBlame{
					ItemID:     itemID,
					Author:     commit.Author,
					CommitHash: currentHash,
					Message:    commit.Message,
					Position:   pos,
				}, nil
			}

			parentCommit, err := r.Store.ReadCommit(parentHash)
			if err != nil {
				return nil, fmt.Errorf("blame: read parent commit %s: %w", parentHash, err)
			}
			_, inParent, err := r.itemPosition(parentCommit.TreeHash, itemID)
			if err != nil {
				return nil, fmt.Errorf("blame: %w", err)
			}
			if !inParent {
				return &ItemBlame{
					ItemID:     itemID,
					Author:     commit.Author,
					CommitHash: currentHash,
					Message:    commit.Message,
					Position:   pos,
				}, nil
			}
		}

		parentHash := firstParentHash(commit)
		if parentHash == "" {
			break
		}
		currentHash = parentHash
	}

	if sawItem {
		return nil, fmt.Errorf("%w: %s (no change found within %d commits)", ErrItemNotFound, itemID, scanned)
	}
	return nil, fmt.Errorf("%w: %s (not found within %d commits)", ErrItemNotFound, itemID, scanned)
}

// itemPosition reports itemID's index within tree h, if present.
func (r *Repo) itemPosition(h object.Hash, itemID string) (int, bool, error) {
	ids, err := r.TreeItemIDs(h)
	if err != nil {
		return 0, false, err
	}
	for i, id := range ids {
		if id == itemID {
			return i, true, nil
		}
	}
	return 0, false, nil
}

func firstParentHash(c *object.CommitObj) object.Hash {
	if c == nil || len(c.Parents) == 0 {
		return ""
	}
	return c.Parents[0]
}
