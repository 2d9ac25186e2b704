package object

// Hash is a 40-character hex-encoded SHA-1 digest.
type Hash string

// ObjectType identifies the kind of object stored.
type ObjectType string

const (
	TypeBlob   ObjectType = "blob"
	TypeTag    ObjectType = "tag"
	TypeTree   ObjectType = "tree"
	TypeCommit ObjectType = "commit"
)

// Blob holds the canonical JSON encoding of one item.Item.
type Blob struct {
	Data []byte
}

// TagObj preserves annotated tag payload while tracking the referenced
// object. Data stores the canonical tag bytes, where the "object" header
// points at a hash in this store's own space.
type TagObj struct {
	TargetHash Hash
	Data       []byte
}

// TreeEntry is one entry in a tree object: a flat, ordered slot. Position
// is significant to the tree's hash, so reordering two otherwise-identical
// trees yields different digests.
type TreeEntry struct {
	Position    int
	ItemID      string
	BlobHash    Hash
	DisplayName string
}

// TreeObj holds the ordered list of entries making up a list snapshot.
// Entries are stored and serialized in Position order; there is no
// subdirectory nesting in this domain.
type TreeObj struct {
	Entries []TreeEntry
}

// CommitObj represents a commit pointing to a tree with metadata.
type CommitObj struct {
	TreeHash           Hash
	Parents            []Hash
	Author             string
	Timestamp          int64
	AuthorTimezone     string
	Committer          string
	CommitterTimestamp int64
	CommitterTimezone  string
	Signature          string
	Message            string
}
