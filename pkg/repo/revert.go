package repo

import (
	"fmt"
	"strings"
	"time"

	"github.com/spgit/spgit/pkg/item"
	"github.com/spgit/spgit/pkg/object"
)

// Revert creates a new commit on HEAD that undoes the item-level changes
// introduced by target relative to target's first parent.
//
// The delta is computed against target's parent tree: items present in the
// parent but absent from target were removed by target, so reverting adds
// them back; items present in target but absent from the parent were added
// by target, so reverting removes them. Both sets are then applied to
// HEAD's current item list, not target's — reverting an old commit works
// against however HEAD has since evolved.
func (r *Repo) Revert(target object.Hash, author string) (object.Hash, error) {
	commit, err := r.Store.ReadCommit(target)
	if err != nil {
		return "", fmt.Errorf("revert: read commit %s: %w", target, err)
	}
	parentHash := firstParentHash(commit)

	var parentItems []item.Item
	if parentHash != "" {
		parentItems, err = r.itemsAtCommit(parentHash)
		if err != nil {
			return "", fmt.Errorf("revert: %w", err)
		}
	}
	commitItems, err := r.TreeItems(commit.TreeHash)
	if err != nil {
		return "", fmt.Errorf("revert: %w", err)
	}

	inCommit := make(map[string]bool, len(commitItems))
	for _, it := range commitItems {
		inCommit[it.ID] = true
	}
	inParent := make(map[string]bool, len(parentItems))
	for _, it := range parentItems {
		inParent[it.ID] = true
	}

	var readdition []item.Item
	for _, it := range parentItems {
		if !inCommit[it.ID] {
			readdition = append(readdition, it)
		}
	}
	removals := make(map[string]bool)
	for _, it := range commitItems {
		if !inParent[it.ID] {
			removals[it.ID] = true
		}
	}

	headHash, err := r.ResolveRef("HEAD")
	if err != nil {
		return "", fmt.Errorf("revert: resolve HEAD: %w", err)
	}
	headItems, err := r.itemsAtCommit(headHash)
	if err != nil {
		return "", fmt.Errorf("revert: %w", err)
	}

	result := make([]item.Item, 0, len(headItems)+len(readdition))
	for _, it := range headItems {
		if removals[it.ID] {
			continue
		}
		result = append(result, it)
	}
	result = append(result, readdition...)

	treeHash, err := r.buildTreeFromItems(result)
	if err != nil {
		return "", fmt.Errorf("revert: %w", err)
	}

	revertHash, err := r.appendCommit(
		fmt.Sprintf("Revert %q", subjectLine(commit.Message)),
		author,
		treeHash,
		headHash,
		"revert",
	)
	if err != nil {
		return "", fmt.Errorf("revert: %w", err)
	}

	if err := r.StageFrom(result); err != nil {
		return "", fmt.Errorf("revert: update index: %w", err)
	}
	return revertHash, nil
}

// subjectLine returns the first line of a commit message, used when
// synthesizing the "Revert ..." message and reflog messages.
func subjectLine(message string) string {
	for i, r := range message {
		if r == '\n' {
			return message[:i]
		}
	}
	return message
}

// appendCommit creates a single-parent commit from a precomputed tree,
// bypassing the staging area, and advances HEAD (or the current branch) to
// it via compare-and-swap. action labels the operation in the reflog
// (e.g. "revert", "cherry-pick").
func (r *Repo) appendCommit(message, author string, treeHash object.Hash, parent object.Hash, action string) (object.Hash, error) {
	if author == "" {
		author = "unknown"
	}

	commitObj := &object.CommitObj{
		TreeHash:  treeHash,
		Parents:   []object.Hash{parent},
		Author:    author,
		Timestamp: time.Now().Unix(),
		Message:   message,
	}

	commitHash, err := r.Store.WriteCommit(commitObj)
	if err != nil {
		return "", fmt.Errorf("append commit: write: %w", err)
	}

	head, err := r.Head()
	if err != nil {
		return "", fmt.Errorf("append commit: read HEAD: %w", err)
	}
	if err := r.advanceHead(head, commitHash, parent, author, action, subjectLine(message)); err != nil {
		return "", fmt.Errorf("append commit: %w", err)
	}
	return commitHash, nil
}

// advanceHead CAS-updates whichever ref HEAD currently names (itself, if
// detached, or the branch it points to).
func (r *Repo) advanceHead(head string, newHash, oldHash object.Hash, actor, action, message string) error {
	if strings.HasPrefix(head, "refs/") {
		return r.UpdateRefCAS(head, newHash, actor, action, message, oldHash)
	}
	return r.UpdateRefCAS("HEAD", newHash, actor, action, message, oldHash)
}

// forceHead sets whichever ref HEAD names to newHash unconditionally, no
// CAS check. Used for rebase rollback, where the exact current value isn't
// known precisely (an in-progress cherry-pick may have partially applied).
func (r *Repo) forceHead(head string, newHash object.Hash, actor, action, message string) error {
	if strings.HasPrefix(head, "refs/") {
		return r.UpdateRef(head, newHash, actor, action, message)
	}
	return r.UpdateRef("HEAD", newHash, actor, action, message)
}
