package repo

import (
	"context"
	"testing"

	"github.com/spgit/spgit/pkg/item"
	"github.com/spgit/spgit/pkg/remote"
)

func statusFor(t *testing.T, entries []StatusEntry, id string) StatusEntry {
	t.Helper()
	for _, e := range entries {
		if e.ItemID == id {
			return e
		}
	}
	t.Fatalf("no status entry for item %q in %+v", id, entries)
	return StatusEntry{}
}

func TestStatus_CleanAgainstHeadAfterCommit(t *testing.T) {
	r := initRepoWithItems(t, oneItem("a"))
	if _, err := r.Commit("initial", "test-author"); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	entries, err := r.Status(context.Background(), nil)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	got := statusFor(t, entries, "a")
	if got.AgainstHead != StateClean {
		t.Errorf("AgainstHead = %v, want clean", got.AgainstHead)
	}
	if got.AgainstRemote != StateUnknown {
		t.Errorf("AgainstRemote = %v, want unknown (no remote configured)", got.AgainstRemote)
	}
}

func TestStatus_AddedAndRemovedAgainstHead(t *testing.T) {
	r := initRepoWithItems(t, []item.Item{{ID: "a"}, {ID: "b"}})
	if _, err := r.Commit("initial", "test-author"); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if err := r.StageFrom([]item.Item{{ID: "a"}, {ID: "c"}}); err != nil {
		t.Fatalf("StageFrom: %v", err)
	}

	entries, err := r.Status(context.Background(), nil)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if got := statusFor(t, entries, "c").AgainstHead; got != StateAdded {
		t.Errorf("c AgainstHead = %v, want added", got)
	}
	if got := statusFor(t, entries, "b").AgainstHead; got != StateRemoved {
		t.Errorf("b AgainstHead = %v, want removed", got)
	}
	if got := statusFor(t, entries, "a").AgainstHead; got != StateClean {
		t.Errorf("a AgainstHead = %v, want clean", got)
	}
}

func TestStatus_ReorderedAgainstHead(t *testing.T) {
	r := initRepoWithItems(t, []item.Item{{ID: "a"}, {ID: "b"}})
	if _, err := r.Commit("initial", "test-author"); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if err := r.StageFrom([]item.Item{{ID: "b"}, {ID: "a"}}); err != nil {
		t.Fatalf("StageFrom: %v", err)
	}

	entries, err := r.Status(context.Background(), nil)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if got := statusFor(t, entries, "a").AgainstHead; got != StateReordered {
		t.Errorf("a AgainstHead = %v, want reordered", got)
	}
	if got := statusFor(t, entries, "b").AgainstHead; got != StateReordered {
		t.Errorf("b AgainstHead = %v, want reordered", got)
	}
}

func TestStatus_AgainstRemoteWhenConfigured(t *testing.T) {
	r := initRepoWithItems(t, []item.Item{{ID: "a"}})
	if _, err := r.Commit("initial", "test-author"); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	m := remote.NewMemory()
	m.Seed(r.Config.ListID, []item.Item{{ID: "a"}, {ID: "remote-only"}})

	entries, err := r.Status(context.Background(), m)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if got := statusFor(t, entries, "a").AgainstRemote; got != StateClean {
		t.Errorf("a AgainstRemote = %v, want clean", got)
	}
	if got := statusFor(t, entries, "remote-only").AgainstRemote; got != StateRemoved {
		t.Errorf("remote-only AgainstRemote = %v, want removed (absent from index)", got)
	}
}

func TestStatus_NoCommitsYetHeadIsUnknown(t *testing.T) {
	r := initRepoWithItems(t, oneItem("a"))

	entries, err := r.Status(context.Background(), nil)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if got := statusFor(t, entries, "a").AgainstHead; got != StateUnknown {
		t.Errorf("AgainstHead with no commits yet = %v, want unknown", got)
	}
}
