package remote

import (
	"context"
	"fmt"
	"sync"

	"github.com/spgit/spgit/pkg/item"
)

// Memory is an in-memory RemoteList, used by tests. The CLI never
// constructs one; with no configured remote it passes no RemoteList at all.
type Memory struct {
	mu    sync.Mutex
	lists map[string][]item.Item
	urls  map[string]string
	seq   int
}

// NewMemory returns an empty in-memory catalog.
func NewMemory() *Memory {
	return &Memory{
		lists: make(map[string][]item.Item),
		urls:  make(map[string]string),
	}
}

func (m *Memory) FetchItems(_ context.Context, listID string) ([]item.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items, ok := m.lists[listID]
	if !ok {
		return nil, wrapErr("fetch items", fmt.Errorf("list %q not found", listID))
	}
	out := make([]item.Item, len(items))
	copy(out, items)
	return out, nil
}

func (m *Memory) ReplaceItems(_ context.Context, listID string, items []item.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lists[listID]; !ok {
		return wrapErr("replace items", fmt.Errorf("list %q not found", listID))
	}
	cp := make([]item.Item, len(items))
	copy(cp, items)
	m.lists[listID] = cp
	return nil
}

// ResolveURL maps a previously registered shorthand to its list id.
func (m *Memory) ResolveURL(_ context.Context, url string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.urls[url]
	if !ok {
		return "", wrapErr("resolve url", fmt.Errorf("unknown remote url %q", url))
	}
	return id, nil
}

func (m *Memory) CreateList(_ context.Context, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	id := fmt.Sprintf("list-%d", m.seq)
	m.lists[id] = nil
	m.urls[name] = id
	return id, nil
}

// Seed registers listID with the given items, for test setup.
func (m *Memory) Seed(listID string, items []item.Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]item.Item, len(items))
	copy(cp, items)
	m.lists[listID] = cp
}
