package repo

import (
	"sync"

	"github.com/spgit/spgit/pkg/object"
)

// Repo represents an opened spgit repository.
type Repo struct {
	RootDir string        // directory the repository was opened from
	SpgitDir string       // .spgit/ metadata directory
	Store   *object.Store // content-addressed object store
	Config  Config        // repo-local configuration, loaded at Open/Init time

	mergeTraversalStateOnce sync.Once
	mergeTraversalState     *mergeBaseTraversalState
}

func (r *Repo) getMergeTraversalState() *mergeBaseTraversalState {
	r.mergeTraversalStateOnce.Do(func() {
		r.mergeTraversalState = newMergeBaseTraversalState()
	})
	return r.mergeTraversalState
}
