package repo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spgit/spgit/pkg/item"
	"github.com/spgit/spgit/pkg/merge"
)

// setupMergeRepo creates a repo with one item committed on "main" and a
// "feature" branch pointing at that same commit.
func setupMergeRepo(t *testing.T) *Repo {
	t.Helper()
	r := initRepoWithItems(t, oneItem("a"))
	if _, err := r.Commit("initial commit", "test-author"); err != nil {
		t.Fatalf("initial Commit: %v", err)
	}
	headHash, err := r.ResolveRef("HEAD")
	if err != nil {
		t.Fatalf("ResolveRef(HEAD): %v", err)
	}
	if err := r.CreateBranch("feature", headHash, "test-author"); err != nil {
		t.Fatalf("CreateBranch(feature): %v", err)
	}
	return r
}

func TestMerge_UnionDeduplicatesAndPreservesCurrentOrder(t *testing.T) {
	r := setupMergeRepo(t)

	// On main: add item c.
	if err := r.StageFrom([]item.Item{{ID: "a"}, {ID: "c"}}); err != nil {
		t.Fatalf("StageFrom (main): %v", err)
	}
	mainCommit, err := r.Commit("add c on main", "test-author")
	if err != nil {
		t.Fatalf("Commit (main): %v", err)
	}

	// On feature: add item b. Re-home HEAD to feature, commit directly
	// against it, then switch back (checkout itself is tested elsewhere).
	if err := r.updateHEADForTest("refs/heads/feature"); err != nil {
		t.Fatalf("updateHEADForTest: %v", err)
	}
	if err := r.StageFrom([]item.Item{{ID: "a"}, {ID: "b"}}); err != nil {
		t.Fatalf("StageFrom (feature): %v", err)
	}
	if _, err := r.Commit("add b on feature", "test-author"); err != nil {
		t.Fatalf("Commit (feature): %v", err)
	}
	if err := r.updateHEADForTest("refs/heads/main"); err != nil {
		t.Fatalf("updateHEADForTest: %v", err)
	}
	if err := r.StageFrom([]item.Item{{ID: "a"}, {ID: "c"}}); err != nil {
		t.Fatalf("StageFrom restore main: %v", err)
	}

	report, err := r.Merge("feature", merge.Union, "test-author")
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if report.FastForward || report.UpToDate {
		t.Fatalf("expected a real merge, got %+v", report)
	}
	if report.MergeCommit == "" {
		t.Fatal("expected merge commit hash")
	}

	commit, err := r.Store.ReadCommit(report.MergeCommit)
	if err != nil {
		t.Fatalf("ReadCommit: %v", err)
	}
	if len(commit.Parents) != 2 {
		t.Fatalf("merge commit parents = %d, want 2", len(commit.Parents))
	}
	if commit.Parents[0] != mainCommit {
		t.Errorf("parent[0] = %q, want main %q", commit.Parents[0], mainCommit)
	}

	ids, err := r.TreeItemIDs(commit.TreeHash)
	if err != nil {
		t.Fatalf("TreeItemIDs: %v", err)
	}
	want := []string{"a", "c", "b"}
	if len(ids) != len(want) {
		t.Fatalf("merged ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("merged ids = %v, want %v", ids, want)
		}
	}
}

func TestMerge_FastForwardAdvancesRefWithoutMergeCommit(t *testing.T) {
	r := setupMergeRepo(t)

	if err := r.updateHEADForTest("refs/heads/feature"); err != nil {
		t.Fatalf("updateHEADForTest: %v", err)
	}
	if err := r.StageFrom([]item.Item{{ID: "a"}, {ID: "b"}}); err != nil {
		t.Fatalf("StageFrom: %v", err)
	}
	featureCommit, err := r.Commit("add b on feature", "test-author")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if err := r.updateHEADForTest("refs/heads/main"); err != nil {
		t.Fatalf("updateHEADForTest: %v", err)
	}
	if err := r.StageFrom(oneItem("a")); err != nil {
		t.Fatalf("StageFrom restore main: %v", err)
	}

	report, err := r.Merge("feature", merge.Union, "test-author")
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if !report.FastForward {
		t.Fatalf("expected fast-forward, got %+v", report)
	}
	if report.MergeCommit != featureCommit {
		t.Errorf("fast-forwarded HEAD = %q, want %q", report.MergeCommit, featureCommit)
	}

	mainHash, err := r.ResolveRef("refs/heads/main")
	if err != nil {
		t.Fatalf("ResolveRef(main): %v", err)
	}
	if mainHash != featureCommit {
		t.Errorf("main ref = %q, want %q", mainHash, featureCommit)
	}
}

func TestMerge_UpToDateIsNoOp(t *testing.T) {
	r := setupMergeRepo(t)

	report, err := r.Merge("feature", merge.Union, "test-author")
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if !report.UpToDate {
		t.Fatalf("expected up-to-date merge, got %+v", report)
	}
}

func TestMerge_IntersectionKeepsOnlyCommonItems(t *testing.T) {
	r := setupMergeRepo(t)

	if err := r.StageFrom([]item.Item{{ID: "a"}, {ID: "c"}}); err != nil {
		t.Fatalf("StageFrom (main): %v", err)
	}
	if _, err := r.Commit("add c on main", "test-author"); err != nil {
		t.Fatalf("Commit (main): %v", err)
	}

	if err := r.updateHEADForTest("refs/heads/feature"); err != nil {
		t.Fatalf("updateHEADForTest: %v", err)
	}
	if err := r.StageFrom([]item.Item{{ID: "b"}}); err != nil {
		t.Fatalf("StageFrom (feature): %v", err)
	}
	if _, err := r.Commit("replace a with b on feature", "test-author"); err != nil {
		t.Fatalf("Commit (feature): %v", err)
	}
	if err := r.updateHEADForTest("refs/heads/main"); err != nil {
		t.Fatalf("updateHEADForTest: %v", err)
	}
	if err := r.StageFrom([]item.Item{{ID: "a"}, {ID: "c"}}); err != nil {
		t.Fatalf("StageFrom restore main: %v", err)
	}

	report, err := r.Merge("feature", merge.Intersection, "test-author")
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	commit, err := r.Store.ReadCommit(report.MergeCommit)
	if err != nil {
		t.Fatalf("ReadCommit: %v", err)
	}
	ids, err := r.TreeItemIDs(commit.TreeHash)
	if err != nil {
		t.Fatalf("TreeItemIDs: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("intersection of disjoint sets = %v, want empty", ids)
	}
}

func TestFindMergeBase_LinearHistory(t *testing.T) {
	r := initRepoWithItems(t, oneItem("a"))
	commitA, err := r.Commit("commit A", "test-author")
	if err != nil {
		t.Fatalf("Commit A: %v", err)
	}

	if err := r.StageFrom([]item.Item{{ID: "a"}, {ID: "b"}}); err != nil {
		t.Fatalf("StageFrom B: %v", err)
	}
	commitB, err := r.Commit("commit B", "test-author")
	if err != nil {
		t.Fatalf("Commit B: %v", err)
	}

	if err := r.StageFrom([]item.Item{{ID: "a"}, {ID: "b"}, {ID: "c"}}); err != nil {
		t.Fatalf("StageFrom C: %v", err)
	}
	commitC, err := r.Commit("commit C", "test-author")
	if err != nil {
		t.Fatalf("Commit C: %v", err)
	}

	base, err := r.FindMergeBase(commitB, commitC)
	if err != nil {
		t.Fatalf("FindMergeBase(B, C): %v", err)
	}
	if base != commitB {
		t.Errorf("FindMergeBase(B, C) = %q, want %q (commitB)", base, commitB)
	}

	base, err = r.FindMergeBase(commitA, commitC)
	if err != nil {
		t.Fatalf("FindMergeBase(A, C): %v", err)
	}
	if base != commitA {
		t.Errorf("FindMergeBase(A, C) = %q, want %q (commitA)", base, commitA)
	}

	base, err = r.FindMergeBase(commitB, commitB)
	if err != nil {
		t.Fatalf("FindMergeBase(B, B): %v", err)
	}
	if base != commitB {
		t.Errorf("FindMergeBase(B, B) = %q, want %q (commitB)", base, commitB)
	}
}

// updateHEADForTest repoints the symbolic HEAD ref directly, used by tests
// that need to commit onto a branch other than main without exercising
// Checkout's remote-mirroring behavior.
func (r *Repo) updateHEADForTest(ref string) error {
	return os.WriteFile(filepath.Join(r.SpgitDir, "HEAD"), []byte("ref: "+ref+"\n"), 0o644)
}
