package repo

import (
	"fmt"

	"github.com/spgit/spgit/pkg/object"
)

// RebaseReport summarizes a completed rebase.
type RebaseReport struct {
	Upstream   object.Hash
	Commits    []object.Hash // original commit hashes replayed, oldest first
	NewCommits []object.Hash // resulting commit hashes, same order as Commits
}

// Rebase replays every commit reachable from HEAD but not from upstream,
// oldest first, onto upstream. If any step fails, HEAD (and its branch, if
// symbolic) is rolled back to its pre-rebase value and the error is
// returned. The rollback restores the hash HEAD resolved to when Rebase was
// called, held in memory for the duration of the call; the reflog is not
// read.
func (r *Repo) Rebase(upstreamRef string, author string) (*RebaseReport, error) {
	head, err := r.Head()
	if err != nil {
		return nil, fmt.Errorf("rebase: read HEAD: %w", err)
	}
	startHash, err := r.ResolveRef("HEAD")
	if err != nil {
		return nil, fmt.Errorf("rebase: resolve HEAD: %w", err)
	}
	upstreamHash, err := r.ResolveRef(upstreamRef)
	if err != nil {
		return nil, fmt.Errorf("rebase: resolve upstream %q: %w", upstreamRef, err)
	}

	toReplay, err := r.commitsNotIn(startHash, upstreamHash)
	if err != nil {
		return nil, fmt.Errorf("rebase: %w", err)
	}

	if err := r.advanceHead(head, upstreamHash, startHash, author, "rebase", fmt.Sprintf("rebase onto %s", upstreamHash)); err != nil {
		return nil, fmt.Errorf("rebase: reset to upstream: %w", err)
	}

	report := &RebaseReport{Upstream: upstreamHash}
	for _, original := range toReplay {
		newHash, err := r.CherryPick(original, author)
		if err != nil {
			if rollbackErr := r.forceHead(head, startHash, author, "rebase", fmt.Sprintf("rebase aborted, rolled back from %s", upstreamHash)); rollbackErr != nil {
				return nil, fmt.Errorf("rebase: replay %s failed (%w); rollback to %s also failed: %v", original, err, startHash, rollbackErr)
			}
			if startItems, itemsErr := r.itemsAtCommit(startHash); itemsErr == nil {
				_ = r.StageFrom(startItems)
			}
			return nil, fmt.Errorf("rebase: replay %s failed, rolled back to %s: %w", original, startHash, err)
		}
		report.Commits = append(report.Commits, original)
		report.NewCommits = append(report.NewCommits, newHash)
	}

	return report, nil
}

// commitsNotIn returns every commit reachable from tip but not from
// upstream, oldest first: Ancestors already returns newest-first, so the
// filtered set is reversed before returning.
func (r *Repo) commitsNotIn(tip, upstream object.Hash) ([]object.Hash, error) {
	upstreamAncestors, err := r.Ancestors(upstream)
	if err != nil {
		return nil, fmt.Errorf("commits not in upstream: %w", err)
	}
	excluded := make(map[object.Hash]bool, len(upstreamAncestors))
	for _, a := range upstreamAncestors {
		excluded[a.Hash] = true
	}

	tipAncestors, err := r.Ancestors(tip)
	if err != nil {
		return nil, fmt.Errorf("commits not in tip: %w", err)
	}

	var filtered []object.Hash
	for _, a := range tipAncestors {
		if !excluded[a.Hash] {
			filtered = append(filtered, a.Hash)
		}
	}

	for i, j := 0, len(filtered)-1; i < j; i, j = i+1, j-1 {
		filtered[i], filtered[j] = filtered[j], filtered[i]
	}
	return filtered, nil
}
