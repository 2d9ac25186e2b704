package object

import (
	"bytes"
	"testing"
)

func TestMarshalUnmarshalBlob(t *testing.T) {
	orig := &Blob{Data: []byte(`{"id":"track-1"}`)}
	data := MarshalBlob(orig)
	got, err := UnmarshalBlob(data)
	if err != nil {
		t.Fatalf("UnmarshalBlob: %v", err)
	}
	if !bytes.Equal(got.Data, orig.Data) {
		t.Errorf("Blob round-trip mismatch: got %q, want %q", got.Data, orig.Data)
	}
}

func TestMarshalBlobDeterminism(t *testing.T) {
	b := &Blob{Data: []byte("deterministic")}
	d1 := MarshalBlob(b)
	d2 := MarshalBlob(b)
	if !bytes.Equal(d1, d2) {
		t.Error("Blob marshal not deterministic")
	}
}

func TestMarshalUnmarshalTree(t *testing.T) {
	orig := &TreeObj{
		Entries: []TreeEntry{
			{Position: 0, ItemID: "track-a", BlobHash: Hash("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"), DisplayName: "Song A"},
			{Position: 1, ItemID: "track-b", BlobHash: Hash("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"), DisplayName: "Song B"},
		},
	}
	data := MarshalTree(orig)
	got, err := UnmarshalTree(data)
	if err != nil {
		t.Fatalf("UnmarshalTree: %v", err)
	}
	if len(got.Entries) != len(orig.Entries) {
		t.Fatalf("Entries length: got %d, want %d", len(got.Entries), len(orig.Entries))
	}
	for i, e := range got.Entries {
		o := orig.Entries[i]
		if e != o {
			t.Errorf("Entries[%d]: got %+v, want %+v", i, e, o)
		}
	}
}

func TestMarshalTreePreservesOrderRegardlessOfInputOrder(t *testing.T) {
	orig := &TreeObj{
		Entries: []TreeEntry{
			{Position: 1, ItemID: "z"},
			{Position: 0, ItemID: "a"},
		},
	}
	data := MarshalTree(orig)
	got, err := UnmarshalTree(data)
	if err != nil {
		t.Fatalf("UnmarshalTree: %v", err)
	}
	if got.Entries[0].ItemID != "a" || got.Entries[1].ItemID != "z" {
		t.Fatalf("expected position-ordered entries, got %+v", got.Entries)
	}
}

func TestMarshalTreeOrderAffectsHash(t *testing.T) {
	forward := &TreeObj{Entries: []TreeEntry{{Position: 0, ItemID: "a"}, {Position: 1, ItemID: "b"}}}
	backward := &TreeObj{Entries: []TreeEntry{{Position: 0, ItemID: "b"}, {Position: 1, ItemID: "a"}}}
	if bytes.Equal(MarshalTree(forward), MarshalTree(backward)) {
		t.Fatal("expected differently-ordered trees to serialize differently")
	}
	hf := HashObject(TypeTree, MarshalTree(forward))
	hb := HashObject(TypeTree, MarshalTree(backward))
	if hf == hb {
		t.Fatal("expected differently-ordered trees to hash differently")
	}
}

func TestMarshalTreeDeterminism(t *testing.T) {
	tr := &TreeObj{Entries: []TreeEntry{{Position: 0, ItemID: "a"}, {Position: 1, ItemID: "b"}}}
	d1 := MarshalTree(tr)
	d2 := MarshalTree(tr)
	if !bytes.Equal(d1, d2) {
		t.Error("Tree marshal not deterministic")
	}
}

func TestMarshalUnmarshalCommit(t *testing.T) {
	orig := &CommitObj{
		TreeHash:       Hash("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"),
		Parents:        []Hash{Hash("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")},
		Author:         "Alice <alice@example.com>",
		Timestamp:      1700000000,
		AuthorTimezone: "+0000",
		Message:        "initial commit\n\nWith a multi-line body.",
	}
	data := MarshalCommit(orig)
	got, err := UnmarshalCommit(data)
	if err != nil {
		t.Fatalf("UnmarshalCommit: %v", err)
	}
	if got.TreeHash != orig.TreeHash {
		t.Errorf("TreeHash: got %q, want %q", got.TreeHash, orig.TreeHash)
	}
	if len(got.Parents) != len(orig.Parents) || got.Parents[0] != orig.Parents[0] {
		t.Fatalf("Parents mismatch: got %v, want %v", got.Parents, orig.Parents)
	}
	if got.Author != orig.Author {
		t.Errorf("Author: got %q, want %q", got.Author, orig.Author)
	}
	if got.Timestamp != orig.Timestamp {
		t.Errorf("Timestamp: got %d, want %d", got.Timestamp, orig.Timestamp)
	}
	if got.Message != orig.Message {
		t.Errorf("Message: got %q, want %q", got.Message, orig.Message)
	}
}

func TestMarshalCommitNoParents(t *testing.T) {
	orig := &CommitObj{
		TreeHash:       Hash("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"),
		Author:         "Bob <bob@example.com>",
		Timestamp:      1700000001,
		AuthorTimezone: "+0000",
		Message:        "root commit",
	}
	data := MarshalCommit(orig)
	got, err := UnmarshalCommit(data)
	if err != nil {
		t.Fatalf("UnmarshalCommit: %v", err)
	}
	if len(got.Parents) != 0 {
		t.Errorf("Parents should be empty, got %d", len(got.Parents))
	}
}

func TestMarshalCommitMultipleParents(t *testing.T) {
	orig := &CommitObj{
		TreeHash: Hash("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"),
		Parents: []Hash{
			Hash("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"),
			Hash("cccccccccccccccccccccccccccccccccccccccc"),
		},
		Author:         "Carol <carol@example.com>",
		Timestamp:      1700000002,
		AuthorTimezone: "+0000",
		Message:        "merge commit",
	}
	data := MarshalCommit(orig)
	got, err := UnmarshalCommit(data)
	if err != nil {
		t.Fatalf("UnmarshalCommit: %v", err)
	}
	if len(got.Parents) != 2 {
		t.Fatalf("Parents length: got %d, want 2", len(got.Parents))
	}
}

func TestMarshalCommitDeterminism(t *testing.T) {
	c := &CommitObj{
		TreeHash:       Hash("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"),
		Parents:        []Hash{Hash("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")},
		Author:         "Test <t@t.com>",
		Timestamp:      100,
		AuthorTimezone: "+0000",
		Message:        "msg",
	}
	d1 := MarshalCommit(c)
	d2 := MarshalCommit(c)
	if !bytes.Equal(d1, d2) {
		t.Error("Commit marshal not deterministic")
	}
}

func TestMarshalUnmarshalCommitWithSignature(t *testing.T) {
	orig := &CommitObj{
		TreeHash:       Hash("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"),
		Parents:        []Hash{Hash("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")},
		Author:         "Signed <signed@example.com>",
		Timestamp:      1700000003,
		AuthorTimezone: "+0000",
		Signature:      "sshsig-v1:AAAAC3NzaC1lZDI1NTE5AAAAIexample==",
		Message:        "signed commit",
	}
	data := MarshalCommit(orig)
	got, err := UnmarshalCommit(data)
	if err != nil {
		t.Fatalf("UnmarshalCommit: %v", err)
	}
	if got.Signature != orig.Signature {
		t.Fatalf("Signature: got %q, want %q", got.Signature, orig.Signature)
	}
}

func TestMarshalCommitOmitsEmptySignatureHeader(t *testing.T) {
	c := &CommitObj{
		TreeHash:       Hash("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"),
		Author:         "Unsigned <u@example.com>",
		Timestamp:      1700000004,
		AuthorTimezone: "+0000",
		Message:        "unsigned commit",
	}
	data := MarshalCommit(c)
	if bytes.Contains(data, []byte("\nsignature ")) {
		t.Fatalf("did not expect signature header in unsigned commit: %q", string(data))
	}
}

func TestMarshalUnmarshalCommitWithCommitterMetadata(t *testing.T) {
	orig := &CommitObj{
		TreeHash:           Hash("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"),
		Author:             "Alice <alice@example.com>",
		Timestamp:          1700001234,
		AuthorTimezone:     "+0200",
		Committer:          "Bob <bob@example.com>",
		CommitterTimestamp: 1700005678,
		CommitterTimezone:  "-0700",
		Message:            "preserve committer metadata",
	}
	data := MarshalCommit(orig)
	got, err := UnmarshalCommit(data)
	if err != nil {
		t.Fatalf("UnmarshalCommit: %v", err)
	}
	if got.AuthorTimezone != orig.AuthorTimezone {
		t.Fatalf("AuthorTimezone: got %q, want %q", got.AuthorTimezone, orig.AuthorTimezone)
	}
	if got.Committer != orig.Committer {
		t.Fatalf("Committer: got %q, want %q", got.Committer, orig.Committer)
	}
	if got.CommitterTimestamp != orig.CommitterTimestamp {
		t.Fatalf("CommitterTimestamp: got %d, want %d", got.CommitterTimestamp, orig.CommitterTimestamp)
	}
	if got.CommitterTimezone != orig.CommitterTimezone {
		t.Fatalf("CommitterTimezone: got %q, want %q", got.CommitterTimezone, orig.CommitterTimezone)
	}
}

func TestMarshalUnmarshalTag(t *testing.T) {
	payload := "object aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa\ntype commit\ntag v1.0\ntagger Alice <alice@example.com> 1700000000 +0000\n\nRelease v1.0\n"
	orig := &TagObj{TargetHash: Hash("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"), Data: []byte(payload)}
	data := MarshalTag(orig)
	got, err := UnmarshalTag(data)
	if err != nil {
		t.Fatalf("UnmarshalTag: %v", err)
	}
	if got.TargetHash != orig.TargetHash {
		t.Errorf("TargetHash: got %q, want %q", got.TargetHash, orig.TargetHash)
	}
	if !bytes.Equal(got.Data, orig.Data) {
		t.Errorf("Data round-trip mismatch")
	}
}
