package repo

import (
	"testing"

	"github.com/spgit/spgit/pkg/item"
	"github.com/spgit/spgit/pkg/object"
)

// initRepoWithItems creates a temp repo and stages the given items, ready
// for a Commit call. Shared by the other _test.go files in this package.
func initRepoWithItems(t *testing.T, items []item.Item) *Repo {
	t.Helper()
	dir := t.TempDir()
	r, err := Init(dir, "list-1")
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := r.StageFrom(items); err != nil {
		t.Fatalf("StageFrom: %v", err)
	}
	return r
}

func oneItem(id string) []item.Item {
	return []item.Item{{ID: id, DisplayName: id}}
}

// Test 1: Commit creates object in store.
func TestCommit_CreatesObject(t *testing.T) {
	r := initRepoWithItems(t, oneItem("track-1"))

	h, err := r.Commit("initial commit", "test-author")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if h == "" {
		t.Fatal("Commit returned empty hash")
	}

	c, err := r.Store.ReadCommit(h)
	if err != nil {
		t.Fatalf("ReadCommit(%s): %v", h, err)
	}
	if c.Message != "initial commit" {
		t.Errorf("Message = %q, want %q", c.Message, "initial commit")
	}
	if c.Author != "test-author" {
		t.Errorf("Author = %q, want %q", c.Author, "test-author")
	}
	if c.TreeHash == "" {
		t.Error("TreeHash is empty")
	}
	if c.Timestamp == 0 {
		t.Error("Timestamp is zero")
	}
	if len(c.Parents) != 0 {
		t.Errorf("first commit should have no parents, got %d", len(c.Parents))
	}
}

// Test 2: Commit updates HEAD.
func TestCommit_UpdatesHEAD(t *testing.T) {
	r := initRepoWithItems(t, oneItem("track-1"))

	h, err := r.Commit("initial commit", "test-author")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	headHash, err := r.ResolveRef("HEAD")
	if err != nil {
		t.Fatalf("ResolveRef(HEAD): %v", err)
	}
	if headHash != h {
		t.Errorf("HEAD = %q, want %q", headHash, h)
	}
}

// Test 3: Second commit has first as parent.
func TestCommit_SecondHasParent(t *testing.T) {
	r := initRepoWithItems(t, oneItem("track-1"))

	h1, err := r.Commit("first commit", "test-author")
	if err != nil {
		t.Fatalf("first Commit: %v", err)
	}

	if err := r.StageFrom([]item.Item{{ID: "track-1"}, {ID: "track-2"}}); err != nil {
		t.Fatalf("StageFrom: %v", err)
	}

	h2, err := r.Commit("second commit", "test-author")
	if err != nil {
		t.Fatalf("second Commit: %v", err)
	}

	c2, err := r.Store.ReadCommit(h2)
	if err != nil {
		t.Fatalf("ReadCommit(%s): %v", h2, err)
	}
	if len(c2.Parents) != 1 {
		t.Fatalf("second commit parents = %d, want 1", len(c2.Parents))
	}
	if c2.Parents[0] != h1 {
		t.Errorf("second commit parent = %q, want %q", c2.Parents[0], h1)
	}
}

// Test 4: Log returns reverse-chronological order.
func TestLog_ReverseChronological(t *testing.T) {
	r := initRepoWithItems(t, oneItem("track-1"))

	hashes := make([]object.Hash, 3)
	messages := []string{"first", "second", "third"}

	for i, msg := range messages {
		if i > 0 {
			if err := r.StageSelected([]string{msg}, []item.Item{{ID: msg, DisplayName: msg}}); err != nil {
				t.Fatalf("StageSelected: %v", err)
			}
		}
		h, err := r.Commit(msg, "test-author")
		if err != nil {
			t.Fatalf("Commit(%q): %v", msg, err)
		}
		hashes[i] = h
	}

	commits, err := r.Log(hashes[2], 10)
	if err != nil {
		t.Fatalf("Log: %v", err)
	}
	if len(commits) != 3 {
		t.Fatalf("Log returned %d commits, want 3", len(commits))
	}

	if commits[0].Message != "third" {
		t.Errorf("commits[0].Message = %q, want %q", commits[0].Message, "third")
	}
	if commits[1].Message != "second" {
		t.Errorf("commits[1].Message = %q, want %q", commits[1].Message, "second")
	}
	if commits[2].Message != "first" {
		t.Errorf("commits[2].Message = %q, want %q", commits[2].Message, "first")
	}

	limited, err := r.Log(hashes[2], 2)
	if err != nil {
		t.Fatalf("Log(limit=2): %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("Log(limit=2) returned %d commits, want 2", len(limited))
	}
}

// Test 5: Commit with nothing staged fails.
func TestCommit_NothingStaged_Error(t *testing.T) {
	dir := t.TempDir()
	r, err := Init(dir, "list-1")
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	if _, err := r.Commit("empty commit", "test-author"); err == nil {
		t.Fatal("Commit with empty staging area should fail")
	}
}

// Test 6: BuildTree from staging round-trips through TreeItemIDs.
func TestBuildTree_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	r, err := Init(dir, "list-1")
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	items := []item.Item{
		{ID: "track-a", DisplayName: "A"},
		{ID: "track-b", DisplayName: "B"},
		{ID: "track-c", DisplayName: "C"},
	}
	if err := r.StageFrom(items); err != nil {
		t.Fatalf("StageFrom: %v", err)
	}

	stg, err := r.ReadStaging()
	if err != nil {
		t.Fatalf("ReadStaging: %v", err)
	}

	rootHash, err := r.BuildTree(stg)
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	if rootHash == "" {
		t.Fatal("BuildTree returned empty hash")
	}

	ids, err := r.TreeItemIDs(rootHash)
	if err != nil {
		t.Fatalf("TreeItemIDs: %v", err)
	}
	if len(ids) != len(items) {
		t.Fatalf("TreeItemIDs returned %d entries, want %d", len(ids), len(items))
	}
	for i, it := range items {
		if ids[i] != it.ID {
			t.Errorf("ids[%d] = %q, want %q", i, ids[i], it.ID)
		}
	}
}
