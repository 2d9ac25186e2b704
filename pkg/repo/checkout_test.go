package repo

import (
	"context"
	"testing"

	"github.com/spgit/spgit/pkg/item"
	"github.com/spgit/spgit/pkg/remote"
)

// Test 1: Checkout restores the index to the target branch's item list.
func TestCheckout_RestoresItems(t *testing.T) {
	r := initRepoWithItems(t, []item.Item{{ID: "a", DisplayName: "v1"}})

	_, err := r.Commit("initial on main", "test-author")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	headHash, err := r.ResolveRef("HEAD")
	if err != nil {
		t.Fatalf("ResolveRef(HEAD): %v", err)
	}
	if err := r.CreateBranch("feature", headHash, "test-author"); err != nil {
		t.Fatalf("CreateBranch: %v", err)
	}

	if err := r.StageFrom([]item.Item{{ID: "a", DisplayName: "v2"}}); err != nil {
		t.Fatalf("StageFrom: %v", err)
	}
	if _, err := r.Commit("second on main", "test-author"); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	ctx := context.Background()
	if err := r.Checkout(ctx, nil, "feature"); err != nil {
		t.Fatalf("Checkout(feature): %v", err)
	}

	stg, err := r.ReadStaging()
	if err != nil {
		t.Fatalf("ReadStaging: %v", err)
	}
	got, ok := stg.Entries["a"]
	if !ok {
		t.Fatalf("expected item a staged after checkout, got %+v", stg.Entries)
	}
	if got.DisplayName != "v1" {
		t.Errorf("DisplayName after checkout = %q, want %q", got.DisplayName, "v1")
	}

	branch, err := r.CurrentBranch()
	if err != nil {
		t.Fatalf("CurrentBranch: %v", err)
	}
	if branch != "feature" {
		t.Errorf("CurrentBranch = %q, want %q", branch, "feature")
	}
}

// Test 2: Checkout removes items not in the target tree and restores
// items only present there.
func TestCheckout_AddsAndRemovesItems(t *testing.T) {
	r := initRepoWithItems(t, []item.Item{{ID: "a"}, {ID: "b"}})
	if _, err := r.Commit("initial with both items", "test-author"); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	headHash, err := r.ResolveRef("HEAD")
	if err != nil {
		t.Fatalf("ResolveRef: %v", err)
	}
	if err := r.CreateBranch("minimal", headHash, "test-author"); err != nil {
		t.Fatalf("CreateBranch: %v", err)
	}

	if err := r.StageFrom([]item.Item{{ID: "a"}}); err != nil {
		t.Fatalf("StageFrom: %v", err)
	}
	if _, err := r.Commit("remove b on main", "test-author"); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	ctx := context.Background()
	if err := r.Checkout(ctx, nil, "minimal"); err != nil {
		t.Fatalf("Checkout(minimal): %v", err)
	}
	stg, err := r.ReadStaging()
	if err != nil {
		t.Fatalf("ReadStaging: %v", err)
	}
	if _, ok := stg.Entries["b"]; !ok {
		t.Fatal("expected b restored after checkout to minimal")
	}

	if err := r.Checkout(ctx, nil, "main"); err != nil {
		t.Fatalf("Checkout(main): %v", err)
	}
	stg, err = r.ReadStaging()
	if err != nil {
		t.Fatalf("ReadStaging: %v", err)
	}
	if _, ok := stg.Entries["b"]; ok {
		t.Fatal("expected b removed after checkout back to main")
	}
}

// Test 3: Dirty index refuses checkout.
func TestCheckout_DirtyIndex_Error(t *testing.T) {
	r := initRepoWithItems(t, oneItem("a"))
	if _, err := r.Commit("initial commit", "test-author"); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	headHash, err := r.ResolveRef("HEAD")
	if err != nil {
		t.Fatalf("ResolveRef: %v", err)
	}
	if err := r.CreateBranch("feature", headHash, "test-author"); err != nil {
		t.Fatalf("CreateBranch: %v", err)
	}

	if err := r.StageSelected([]string{"b"}, oneItem("b")); err != nil {
		t.Fatalf("StageSelected: %v", err)
	}

	if err := r.Checkout(context.Background(), nil, "feature"); err == nil {
		t.Fatal("Checkout should fail with uncommitted staged changes")
	}
}

// Test 4: Checkout detached (by raw hash) updates HEAD to non-symbolic.
func TestCheckout_DetachedHead(t *testing.T) {
	r := initRepoWithItems(t, oneItem("a"))

	h, err := r.Commit("initial commit", "test-author")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if err := r.Checkout(context.Background(), nil, string(h)); err != nil {
		t.Fatalf("Checkout(hash): %v", err)
	}

	branch, err := r.CurrentBranch()
	if err != nil {
		t.Fatalf("CurrentBranch: %v", err)
	}
	if branch != "" {
		t.Errorf("CurrentBranch = %q, want %q (detached)", branch, "")
	}

	resolved, err := r.ResolveRef("HEAD")
	if err != nil {
		t.Fatalf("ResolveRef(HEAD): %v", err)
	}
	if resolved != h {
		t.Errorf("HEAD = %q, want %q", resolved, h)
	}
}

// Test 5: Checkout pushes the target item list to a configured remote.
func TestCheckout_PushesToRemote(t *testing.T) {
	r := initRepoWithItems(t, []item.Item{{ID: "a"}, {ID: "b"}})
	if _, err := r.Commit("initial commit", "test-author"); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	m := remote.NewMemory()
	m.Seed(r.Config.ListID, []item.Item{{ID: "stale"}})

	if err := r.Checkout(context.Background(), m, "main"); err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	got, err := m.FetchItems(context.Background(), r.Config.ListID)
	if err != nil {
		t.Fatalf("FetchItems: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Fatalf("remote items after checkout = %+v", got)
	}
}
