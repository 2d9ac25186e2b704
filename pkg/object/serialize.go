package object

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ---------------------------------------------------------------------------
// Blob
// ---------------------------------------------------------------------------

// MarshalBlob serializes a Blob to raw bytes (identity).
func MarshalBlob(b *Blob) []byte {
	out := make([]byte, len(b.Data))
	copy(out, b.Data)
	return out
}

// UnmarshalBlob deserializes raw bytes into a Blob.
func UnmarshalBlob(data []byte) (*Blob, error) {
	out := make([]byte, len(data))
	copy(out, data)
	return &Blob{Data: out}, nil
}

// ---------------------------------------------------------------------------
// TreeObj
// ---------------------------------------------------------------------------

// MarshalTree serializes a TreeObj. Entries are sorted by Position before
// writing, never by item ID — position is the whole point of this domain's
// tree, and two trees holding the same items in a different order must hash
// differently. Each entry is one tab-separated line:
//
//	position itemID blobhash displayName
func MarshalTree(tr *TreeObj) []byte {
	sorted := make([]TreeEntry, len(tr.Entries))
	copy(sorted, tr.Entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position < sorted[j].Position
	})

	var buf bytes.Buffer
	for _, e := range sorted {
		fmt.Fprintf(&buf, "%d\t%s\t%s\t%s\n", e.Position, e.ItemID, string(e.BlobHash), e.DisplayName)
	}
	return buf.Bytes()
}

// UnmarshalTree parses a TreeObj from its serialized form.
func UnmarshalTree(data []byte) (*TreeObj, error) {
	tr := &TreeObj{}
	text := strings.TrimRight(string(data), "\n")
	if text == "" {
		return tr, nil
	}
	for _, line := range strings.Split(text, "\n") {
		parts := strings.SplitN(line, "\t", 4)
		if len(parts) != 4 {
			return nil, fmt.Errorf("unmarshal tree: malformed entry %q", line)
		}
		pos, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fmt.Errorf("unmarshal tree: bad position %q: %w", parts[0], err)
		}
		tr.Entries = append(tr.Entries, TreeEntry{
			Position:    pos,
			ItemID:      parts[1],
			BlobHash:    Hash(parts[2]),
			DisplayName: parts[3],
		})
	}
	return tr, nil
}

// ---------------------------------------------------------------------------
// CommitObj
// ---------------------------------------------------------------------------

// MarshalCommit serializes a CommitObj:
//
//	tree H
//	parent H     (zero or more)
//	author A T TZ
//	committer C T TZ
//	signature S  (optional)
//
//	message
func MarshalCommit(c *CommitObj) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "tree %s\n", string(c.TreeHash))
	for _, p := range c.Parents {
		fmt.Fprintf(&buf, "parent %s\n", string(p))
	}
	fmt.Fprintf(&buf, "author %s %d %s\n", c.Author, c.Timestamp, c.AuthorTimezone)
	committer := c.Committer
	if committer == "" {
		committer = c.Author
	}
	committerTS := c.CommitterTimestamp
	if committerTS == 0 {
		committerTS = c.Timestamp
	}
	committerTZ := c.CommitterTimezone
	if committerTZ == "" {
		committerTZ = c.AuthorTimezone
	}
	fmt.Fprintf(&buf, "committer %s %d %s\n", committer, committerTS, committerTZ)
	if strings.TrimSpace(c.Signature) != "" {
		fmt.Fprintf(&buf, "signature %s\n", c.Signature)
	}
	buf.WriteByte('\n')
	buf.WriteString(c.Message)
	return buf.Bytes()
}

// UnmarshalCommit parses a CommitObj from its serialized form.
func UnmarshalCommit(data []byte) (*CommitObj, error) {
	idx := bytes.Index(data, []byte("\n\n"))
	if idx < 0 {
		return nil, fmt.Errorf("unmarshal commit: missing header/message separator")
	}
	header := string(data[:idx])
	message := string(data[idx+2:])

	c := &CommitObj{Message: message}
	for _, line := range strings.Split(header, "\n") {
		key, val, ok := strings.Cut(line, " ")
		if !ok {
			return nil, fmt.Errorf("unmarshal commit: malformed header line %q", line)
		}
		switch key {
		case "tree":
			c.TreeHash = Hash(val)
		case "parent":
			c.Parents = append(c.Parents, Hash(val))
		case "author":
			name, ts, tz, err := parseActorLine(val)
			if err != nil {
				return nil, fmt.Errorf("unmarshal commit: author: %w", err)
			}
			c.Author, c.Timestamp, c.AuthorTimezone = name, ts, tz
		case "committer":
			name, ts, tz, err := parseActorLine(val)
			if err != nil {
				return nil, fmt.Errorf("unmarshal commit: committer: %w", err)
			}
			c.Committer, c.CommitterTimestamp, c.CommitterTimezone = name, ts, tz
		case "signature":
			c.Signature = val
		default:
			return nil, fmt.Errorf("unmarshal commit: unknown header key %q", key)
		}
	}
	return c, nil
}

// parseActorLine parses "name timestamp tz" where name may itself
// contain spaces; timestamp and timezone are always the last two fields.
func parseActorLine(val string) (name string, ts int64, tz string, err error) {
	i := strings.LastIndex(val, " ")
	if i < 0 {
		return "", 0, "", fmt.Errorf("malformed actor line %q", val)
	}
	tz = val[i+1:]
	rest := val[:i]
	j := strings.LastIndex(rest, " ")
	if j < 0 {
		return "", 0, "", fmt.Errorf("malformed actor line %q", val)
	}
	tsRaw := rest[j+1:]
	name = rest[:j]
	parsed, err := strconv.ParseInt(tsRaw, 10, 64)
	if err != nil {
		return "", 0, "", fmt.Errorf("bad timestamp %q: %w", tsRaw, err)
	}
	return name, parsed, tz, nil
}

// ---------------------------------------------------------------------------
// TagObj
// ---------------------------------------------------------------------------

// MarshalTag serializes a TagObj to raw bytes (identity — Data already
// holds the canonical "object/type/tag/tagger" payload built by the caller).
func MarshalTag(t *TagObj) []byte {
	out := make([]byte, len(t.Data))
	copy(out, t.Data)
	return out
}

// UnmarshalTag parses a TagObj, recovering TargetHash from the leading
// "object <hash>" header line of Data.
func UnmarshalTag(data []byte) (*TagObj, error) {
	t := &TagObj{Data: append([]byte(nil), data...)}
	lines := strings.SplitN(string(data), "\n", 2)
	key, val, ok := strings.Cut(lines[0], " ")
	if ok && key == "object" {
		t.TargetHash = Hash(val)
	}
	return t, nil
}
