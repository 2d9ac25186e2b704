// Package item defines the value type tracked by the engine: an opaque
// catalog identifier plus the display metadata used for rendering, not
// for identity.
package item

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Item is one entry of a remote ordered list. Two items are the same
// item if and only if their ID matches; every other field is display
// metadata that may drift between snapshots without affecting identity.
type Item struct {
	ID             string `json:"id"`
	DisplayName    string `json:"display_name,omitempty"`
	Creator        string `json:"creator,omitempty"`
	ContainerName  string `json:"container_name,omitempty"`
	DurationMillis int64  `json:"duration_ms,omitempty"`
	PositionHint   int    `json:"position_hint,omitempty"`
}

// Equal compares items by identity only.
func (it Item) Equal(other Item) bool {
	return it.ID == other.ID
}

// Marshal produces the canonical stable-key-order JSON encoding used as
// blob content. encoding/json already emits struct fields in declaration
// order, which is fixed here, so two Marshal calls for equal Items always
// produce byte-identical output.
func Marshal(it Item) ([]byte, error) {
	if it.ID == "" {
		return nil, fmt.Errorf("item: empty id")
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(it); err != nil {
		return nil, fmt.Errorf("item: marshal: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Unmarshal parses blob content produced by Marshal.
func Unmarshal(data []byte) (Item, error) {
	var it Item
	if err := json.Unmarshal(data, &it); err != nil {
		return Item{}, fmt.Errorf("item: unmarshal: %w", err)
	}
	if it.ID == "" {
		return Item{}, fmt.Errorf("item: decoded item has empty id")
	}
	return it, nil
}

// IndexOf returns the position of id within items, or -1.
func IndexOf(items []Item, id string) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// IDs projects a slice of Items to their identifiers, preserving order.
func IDs(items []Item) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}
