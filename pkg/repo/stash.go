package repo

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spgit/spgit/pkg/item"
	"github.com/spgit/spgit/pkg/merge"
	"github.com/spgit/spgit/pkg/object"
)

// StashEntry describes one saved stash, top of stack first.
type StashEntry struct {
	Hash    object.Hash
	Message string
	Parent  object.Hash
}

func (r *Repo) stashStackPath() string {
	return r.SpgitDir + "/refs/stash"
}

// readStashStack loads the stash stack file: one commit digest per line,
// top of stack (most recently pushed) first. A missing file is an empty
// stack, not an error.
func (r *Repo) readStashStack() ([]object.Hash, error) {
	f, err := os.Open(r.stashStackPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read stash stack: %w", err)
	}
	defer f.Close()

	var hashes []object.Hash
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		hashes = append(hashes, object.Hash(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read stash stack: %w", err)
	}
	return hashes, nil
}

// writeStashStack atomically persists the stack, top of stack first.
func (r *Repo) writeStashStack(hashes []object.Hash) error {
	var sb strings.Builder
	for _, h := range hashes {
		sb.WriteString(string(h))
		sb.WriteByte('\n')
	}

	dir := r.SpgitDir + "/refs"
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("write stash stack: mkdir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".stash-tmp-*")
	if err != nil {
		return fmt.Errorf("write stash stack: tmpfile: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(sb.String()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write stash stack: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write stash stack: close: %w", err)
	}
	if err := os.Rename(tmpName, r.stashStackPath()); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write stash stack: rename: %w", err)
	}
	return nil
}

// StashSave snapshots the current index as a stash commit parented at
// HEAD, pushes it onto the top of the stash stack, and resets the index
// back to HEAD's tree.
func (r *Repo) StashSave(message, author string) (object.Hash, error) {
	headHash, err := r.ResolveRef("HEAD")
	if err != nil {
		return "", fmt.Errorf("stash save: resolve HEAD: %w", err)
	}

	stg, err := r.ReadStaging()
	if err != nil {
		return "", fmt.Errorf("stash save: %w", err)
	}
	treeHash, err := r.ToTree(stg)
	if err != nil {
		return "", fmt.Errorf("stash save: %w", err)
	}

	if message == "" {
		message = "WIP on stash"
	}
	if author == "" {
		author = "unknown"
	}
	commitObj := &object.CommitObj{
		TreeHash:  treeHash,
		Parents:   []object.Hash{headHash},
		Author:    author,
		Timestamp: time.Now().Unix(),
		Message:   message,
	}
	stashHash, err := r.Store.WriteCommit(commitObj)
	if err != nil {
		return "", fmt.Errorf("stash save: write commit: %w", err)
	}

	stack, err := r.readStashStack()
	if err != nil {
		return "", fmt.Errorf("stash save: %w", err)
	}
	stack = append([]object.Hash{stashHash}, stack...)
	if err := r.writeStashStack(stack); err != nil {
		return "", fmt.Errorf("stash save: %w", err)
	}

	headItems, err := r.itemsAtCommit(headHash)
	if err != nil {
		return "", fmt.Errorf("stash save: %w", err)
	}
	if err := r.StageFrom(headItems); err != nil {
		return "", fmt.Errorf("stash save: reset index: %w", err)
	}

	return stashHash, nil
}

// StashList returns every saved stash, top of stack first.
func (r *Repo) StashList() ([]StashEntry, error) {
	stack, err := r.readStashStack()
	if err != nil {
		return nil, fmt.Errorf("stash list: %w", err)
	}
	entries := make([]StashEntry, 0, len(stack))
	for _, h := range stack {
		commit, err := r.Store.ReadCommit(h)
		if err != nil {
			return nil, fmt.Errorf("stash list: read %s: %w", h, err)
		}
		entries = append(entries, StashEntry{Hash: h, Message: commit.Message, Parent: firstParentHash(commit)})
	}
	return entries, nil
}

// StashApply merges the stash at stack index idx (0 == top) into the
// current index, using the union strategy unconditionally: stash apply/pop
// is an explicit no-conflict-mode operation. The stash entry is left on
// the stack.
func (r *Repo) StashApply(idx int) error {
	stack, err := r.readStashStack()
	if err != nil {
		return fmt.Errorf("stash apply: %w", err)
	}
	if idx < 0 || idx >= len(stack) {
		return fmt.Errorf("stash apply: %w: no stash entry at index %d", ErrUserError, idx)
	}

	stashItems, err := r.itemsAtCommit(stack[idx])
	if err != nil {
		return fmt.Errorf("stash apply: %w", err)
	}

	stg, err := r.ReadStaging()
	if err != nil {
		return fmt.Errorf("stash apply: %w", err)
	}
	ordered := stg.Ordered()
	current := make([]item.Item, len(ordered))
	for i, e := range ordered {
		current[i] = item.Item{ID: e.ItemID, DisplayName: e.DisplayName}
	}

	merged, err := merge.Apply(merge.Union, current, stashItems)
	if err != nil {
		return fmt.Errorf("stash apply: %w", err)
	}
	if err := r.StageFrom(merged); err != nil {
		return fmt.Errorf("stash apply: %w", err)
	}
	return nil
}

// StashPop applies the stash at stack index idx (0 == top) and then
// removes it from the stack.
func (r *Repo) StashPop(idx int) error {
	if err := r.StashApply(idx); err != nil {
		return fmt.Errorf("stash pop: %w", err)
	}
	if err := r.StashDrop(idx); err != nil {
		return fmt.Errorf("stash pop: %w", err)
	}
	return nil
}

// StashDrop removes the stash at stack index idx (0 == top) without
// applying it.
func (r *Repo) StashDrop(idx int) error {
	stack, err := r.readStashStack()
	if err != nil {
		return fmt.Errorf("stash drop: %w", err)
	}
	if idx < 0 || idx >= len(stack) {
		return fmt.Errorf("stash drop: %w: no stash entry at index %d", ErrUserError, idx)
	}
	stack = append(stack[:idx], stack[idx+1:]...)
	if err := r.writeStashStack(stack); err != nil {
		return fmt.Errorf("stash drop: %w", err)
	}
	return nil
}
