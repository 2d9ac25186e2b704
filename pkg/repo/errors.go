package repo

import (
	"errors"

	"github.com/spgit/spgit/pkg/object"
)

// Sentinel and typed errors the façade returns so callers (chiefly the
// CLI's exit-code mapping) can branch without parsing error strings.
var (
	// ErrUserError marks a problem with the caller's input (bad ref name,
	// nothing staged, unknown command argument) rather than the
	// repository or a remote.
	ErrUserError = errors.New("user error")

	// ErrNotARepository is returned by Open when no .spgit directory is
	// found walking up from the given path.
	ErrNotARepository = errors.New("not a spgit repository")

	// ErrCorruptObject wraps object.ErrCorruptObject at the façade layer
	// so callers outside pkg/object can match on it without importing
	// pkg/object directly.
	ErrCorruptObject = object.ErrCorruptObject

	// ErrRefCASMismatch is returned by UpdateRefCAS when the ref's current
	// value does not match the expected old value.
	ErrRefCASMismatch = errors.New("ref compare-and-swap mismatch")

	// ErrRefUpdatedButReflogAppendFailed is the Is() target for
	// RefUpdateReflogError.
	ErrRefUpdatedButReflogAppendFailed = errors.New("ref updated but reflog append failed")

	// ErrRemote marks a failure attributable to the external RemoteList
	// rather than local repository state.
	ErrRemote = errors.New("remote error")

	// ErrMergeImpossible marks a merge, rebase, or cherry-pick that
	// cannot be completed deterministically (e.g. unrelated histories
	// with no common ancestor where one is required).
	ErrMergeImpossible = errors.New("merge impossible")

	// ErrRefRace is the public name for a lost compare-and-swap race on a
	// ref update; ErrRefCASMismatch is kept as the original identifier
	// UpdateRefCAS returns.
	ErrRefRace = ErrRefCASMismatch
)

// RefUpdateReflogError indicates the ref file update itself succeeded,
// but appending the corresponding reflog entry failed. The ref change is
// already durable; callers should surface this rather than retry the
// update.
type RefUpdateReflogError struct {
	Ref     string
	OldHash string
	NewHash string
	Err     error
}

func (e *RefUpdateReflogError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return "update ref " + e.Ref + ": " + ErrRefUpdatedButReflogAppendFailed.Error() +
		" (old=" + e.OldHash + " new=" + e.NewHash + "): " + e.Err.Error()
}

func (e *RefUpdateReflogError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *RefUpdateReflogError) Is(target error) bool {
	return target == ErrRefUpdatedButReflogAppendFailed
}
