// Package remote adapts the engine's ordered item lists onto an external,
// mutable catalog service: the "working state" this domain checks out into
// and pushes back to is not a filesystem, it is whatever ordered-list API
// the RemoteList implementation fronts.
package remote

import (
	"context"
	"fmt"

	"github.com/spgit/spgit/pkg/item"
)

// RemoteList is the external contract every remote implementation satisfies:
// fetch a list's current ordered items, replace them wholesale, resolve a
// shorthand URL to a canonical list id, and create a new list.
type RemoteList interface {
	FetchItems(ctx context.Context, listID string) ([]item.Item, error)
	ReplaceItems(ctx context.Context, listID string, items []item.Item) error
	ResolveURL(ctx context.Context, url string) (string, error)
	CreateList(ctx context.Context, name string) (string, error)
}

// Error wraps a RemoteList failure, distinguishing it from local errors so
// callers can report it with a dedicated exit code.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("remote: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}
