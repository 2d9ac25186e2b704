package repo

import (
	"testing"

	"github.com/spgit/spgit/pkg/item"
)

func TestStageFromThenToTreePreservesOrder(t *testing.T) {
	dir := t.TempDir()
	r, err := Init(dir, "list-1")
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	items := []item.Item{
		{ID: "b", DisplayName: "Song B"},
		{ID: "a", DisplayName: "Song A"},
	}
	if err := r.StageFrom(items); err != nil {
		t.Fatalf("StageFrom: %v", err)
	}

	stg, err := r.ReadStaging()
	if err != nil {
		t.Fatalf("ReadStaging: %v", err)
	}
	if len(stg.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(stg.Entries))
	}

	h, err := r.ToTree(stg)
	if err != nil {
		t.Fatalf("ToTree: %v", err)
	}
	ids, err := r.TreeItemIDs(h)
	if err != nil {
		t.Fatalf("TreeItemIDs: %v", err)
	}
	if len(ids) != 2 || ids[0] != "b" || ids[1] != "a" {
		t.Fatalf("expected order preserved, got %v", ids)
	}
}

func TestStageFromReplacesPriorIndex(t *testing.T) {
	dir := t.TempDir()
	r, err := Init(dir, "list-1")
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	if err := r.StageFrom([]item.Item{{ID: "a"}, {ID: "b"}}); err != nil {
		t.Fatalf("StageFrom: %v", err)
	}
	if err := r.StageFrom([]item.Item{{ID: "c"}}); err != nil {
		t.Fatalf("StageFrom: %v", err)
	}

	stg, err := r.ReadStaging()
	if err != nil {
		t.Fatalf("ReadStaging: %v", err)
	}
	if len(stg.Entries) != 1 {
		t.Fatalf("expected index fully replaced, got %d entries", len(stg.Entries))
	}
	if _, ok := stg.Entries["c"]; !ok {
		t.Fatalf("expected entry c, got %+v", stg.Entries)
	}
}

func TestStageSelectedAddsAndRemoves(t *testing.T) {
	dir := t.TempDir()
	r, err := Init(dir, "list-1")
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	if err := r.StageFrom([]item.Item{{ID: "a"}, {ID: "b"}}); err != nil {
		t.Fatalf("StageFrom: %v", err)
	}

	snapshot := []item.Item{{ID: "c", DisplayName: "Song C"}}
	if err := r.StageSelected([]string{"c", "a"}, snapshot); err != nil {
		t.Fatalf("StageSelected: %v", err)
	}

	stg, err := r.ReadStaging()
	if err != nil {
		t.Fatalf("ReadStaging: %v", err)
	}
	if _, ok := stg.Entries["a"]; ok {
		t.Fatalf("expected a removed (absent from snapshot), got %+v", stg.Entries)
	}
	if e, ok := stg.Entries["c"]; !ok || e.DisplayName != "Song C" {
		t.Fatalf("expected c staged with display name, got %+v", stg.Entries)
	}
	if _, ok := stg.Entries["b"]; !ok {
		t.Fatalf("expected b left untouched, got %+v", stg.Entries)
	}
}

func TestDiffAgainstReportsAddedRemovedReordered(t *testing.T) {
	dir := t.TempDir()
	r, err := Init(dir, "list-1")
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	treeHash, err := r.buildTreeFromItems([]item.Item{{ID: "a"}, {ID: "b"}, {ID: "c"}})
	if err != nil {
		t.Fatalf("buildTreeFromItems: %v", err)
	}

	if err := r.StageFrom([]item.Item{{ID: "b"}, {ID: "a"}, {ID: "d"}}); err != nil {
		t.Fatalf("StageFrom: %v", err)
	}
	stg, err := r.ReadStaging()
	if err != nil {
		t.Fatalf("ReadStaging: %v", err)
	}

	added, removed, reordered, err := r.DiffAgainst(stg, treeHash)
	if err != nil {
		t.Fatalf("DiffAgainst: %v", err)
	}
	if len(added) != 1 || added[0].ID != "d" {
		t.Fatalf("expected d added, got %+v", added)
	}
	if len(removed) != 1 || removed[0].ID != "c" {
		t.Fatalf("expected c removed, got %+v", removed)
	}
	if len(reordered) != 2 {
		t.Fatalf("expected a and b reordered, got %+v", reordered)
	}
}
