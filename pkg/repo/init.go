package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spgit/spgit/pkg/object"
)

const (
	refLockRetryDelay = 5 * time.Millisecond
	refLockWaitLimit  = 2 * time.Second
)

// Init creates a new spgit repository at path. It creates the .spgit/
// directory structure: HEAD, objects/, refs/heads/, and a default config
// naming listID as the tracked remote list. Returns an error if a .spgit/
// directory already exists.
func Init(path string, listID string) (*Repo, error) {
	spgitDir := filepath.Join(path, ".spgit")

	if _, err := os.Stat(spgitDir); err == nil {
		return nil, fmt.Errorf("init: %w: repository already exists at %s", ErrUserError, spgitDir)
	}

	dirs := []string{
		filepath.Join(spgitDir, "objects"),
		filepath.Join(spgitDir, "refs", "heads"),
		filepath.Join(spgitDir, "refs", "tags"),
		filepath.Join(spgitDir, "logs", "refs", "heads"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("init: mkdir %s: %w", d, err)
		}
	}

	headPath := filepath.Join(spgitDir, "HEAD")
	if err := os.WriteFile(headPath, []byte("ref: refs/heads/main\n"), 0o644); err != nil {
		return nil, fmt.Errorf("init: write HEAD: %w", err)
	}

	r := &Repo{
		RootDir:  path,
		SpgitDir: spgitDir,
		Store:    object.NewStore(spgitDir),
		Config:   Config{ListID: listID},
	}
	if err := r.WriteConfig(); err != nil {
		return nil, fmt.Errorf("init: write config: %w", err)
	}
	return r, nil
}

// Open searches upward from path for a .spgit/ directory and opens the
// repository, loading its config.
func Open(path string) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open: abs path: %w", err)
	}

	cur := abs
	for {
		spgitDir := filepath.Join(cur, ".spgit")
		info, err := os.Stat(spgitDir)
		if err == nil && info.IsDir() {
			r := &Repo{
				RootDir:  cur,
				SpgitDir: spgitDir,
				Store:    object.NewStore(spgitDir),
			}
			cfg, err := r.ReadConfig()
			if err != nil {
				return nil, fmt.Errorf("open: %w", err)
			}
			r.Config = cfg
			return r, nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return nil, fmt.Errorf("open: %w: %s (or any parent up to /)", ErrNotARepository, path)
		}
		cur = parent
	}
}

// Head reads .spgit/HEAD. If the content starts with "ref: ", it returns
// the ref path (e.g., "refs/heads/main"). Otherwise it returns the raw
// content as a detached hash string.
func (r *Repo) Head() (string, error) {
	data, err := os.ReadFile(filepath.Join(r.SpgitDir, "HEAD"))
	if err != nil {
		return "", fmt.Errorf("head: %w", err)
	}
	content := strings.TrimRight(string(data), "\n")

	if strings.HasPrefix(content, "ref: ") {
		return strings.TrimPrefix(content, "ref: "), nil
	}
	return content, nil
}

// ResolveRef resolves a ref name to an object hash.
//
// Resolution order:
//  1. If name is "HEAD", read HEAD. If HEAD is symbolic, resolve the target ref.
//  2. If name starts with "refs/", read .spgit/<name>.
//  3. Otherwise, try "refs/heads/<name>".
func (r *Repo) ResolveRef(name string) (object.Hash, error) {
	if name == "HEAD" {
		head, err := r.Head()
		if err != nil {
			return "", err
		}
		if strings.HasPrefix(head, "refs/") {
			return r.ResolveRef(head)
		}
		return object.Hash(head), nil
	}

	var refPath string
	if strings.HasPrefix(name, "refs/") {
		refPath = filepath.Join(r.SpgitDir, name)
	} else {
		refPath = filepath.Join(r.SpgitDir, "refs", "heads", name)
	}

	data, err := os.ReadFile(refPath)
	if err != nil {
		return "", fmt.Errorf("resolve ref %q: %w", name, err)
	}
	return object.Hash(strings.TrimRight(string(data), "\n")), nil
}

// UpdateRef writes a hash to the named ref file under .spgit/, with no
// compare-and-swap check. Parent directories are created as needed. actor,
// action, and message describe the update for the reflog.
func (r *Repo) UpdateRef(name string, h object.Hash, actor, action, message string) error {
	return r.UpdateRefCAS(name, h, actor, action, message)
}

// UpdateRefCAS writes a hash to the named ref file under .spgit/ using
// lockfile + rename atomic semantics. If expectedOld is provided, the
// update only succeeds when the current ref hash matches it.
//
// actor, action, and message are recorded in the ref's reflog line: actor
// identifies who moved the ref, action is a short verb phrase for the
// operation (e.g. "commit", "merge f"), and message is the human-readable
// detail (e.g. "fast-forward").
//
// Reflog append happens after the ref rename; if reflog append fails, the
// ref update remains committed and a *RefUpdateReflogError is returned.
func (r *Repo) UpdateRefCAS(name string, h object.Hash, actor, action, message string, expectedOld ...object.Hash) error {
	if len(expectedOld) > 1 {
		return fmt.Errorf("update ref %q: expected at most one old hash", name)
	}
	hasExpectedOld := len(expectedOld) == 1
	wantOldHash := object.Hash("")
	if hasExpectedOld {
		wantOldHash = expectedOld[0]
	}

	refPath := filepath.Join(r.SpgitDir, name)

	dir := filepath.Dir(refPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("update ref %q: mkdir: %w", name, err)
	}

	lockPath := refPath + ".lock"
	lockFile, err := acquireRefLock(lockPath)
	if err != nil {
		return fmt.Errorf("update ref %q: lock: %w", name, err)
	}
	cleanupLock := true
	defer func() {
		if lockFile != nil {
			_ = lockFile.Close()
		}
		if cleanupLock {
			_ = os.Remove(lockPath)
		}
	}()

	oldHash, err := readRefHash(refPath)
	if err != nil {
		return fmt.Errorf("update ref %q: read old hash: %w", name, err)
	}
	if hasExpectedOld && oldHash != wantOldHash {
		return fmt.Errorf(
			"update ref %q: %w (expected %s, found %s)",
			name,
			ErrRefCASMismatch,
			wantOldHash,
			oldHash,
		)
	}

	if _, err := lockFile.WriteString(string(h) + "\n"); err != nil {
		return fmt.Errorf("update ref %q: write: %w", name, err)
	}
	if err := lockFile.Sync(); err != nil {
		return fmt.Errorf("update ref %q: sync: %w", name, err)
	}
	if err := lockFile.Close(); err != nil {
		lockFile = nil
		return fmt.Errorf("update ref %q: close: %w", name, err)
	}
	lockFile = nil

	if err := os.Rename(lockPath, refPath); err != nil {
		return fmt.Errorf("update ref %q: rename: %w", name, err)
	}
	cleanupLock = false

	if err := r.appendReflog(name, oldHash, h, actor, action, message); err != nil {
		return &RefUpdateReflogError{
			Ref:     name,
			OldHash: string(oldHash),
			NewHash: string(h),
			Err:     err,
		}
	}

	return nil
}

// DeleteRef removes a ref file, refusing to delete HEAD, the currently
// checked-out branch, or (unless force is set) a branch not yet merged
// into HEAD.
func (r *Repo) DeleteRef(name string, force bool) error {
	if name == "HEAD" {
		return fmt.Errorf("delete ref: %w: refusing to delete HEAD", ErrUserError)
	}
	current, err := r.CurrentBranch()
	if err == nil && current != "" && (name == current || name == "refs/heads/"+current) {
		return fmt.Errorf("delete ref %q: %w: cannot delete the currently checked out branch", name, ErrUserError)
	}

	refPath := filepath.Join(r.SpgitDir, name)
	target, err := r.ResolveRef(name)
	if err != nil {
		return fmt.Errorf("delete ref %q: %w", name, err)
	}

	if !force && strings.HasPrefix(name, "refs/heads/") {
		head, err := r.ResolveRef("HEAD")
		if err == nil {
			base, err := r.FindMergeBase(head, target)
			if err == nil && base != target {
				return fmt.Errorf("delete ref %q: %w: not fully merged into HEAD (use force)", name, ErrUserError)
			}
		}
	}

	if err := os.Remove(refPath); err != nil {
		return fmt.Errorf("delete ref %q: %w", name, err)
	}
	return nil
}

func acquireRefLock(lockPath string) (*os.File, error) {
	deadline := time.Now().Add(refLockWaitLimit)
	for {
		f, err := os.OpenFile(lockPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, nil
		}
		if os.IsExist(err) {
			if time.Now().After(deadline) {
				return nil, fmt.Errorf("timeout waiting for lock %q", lockPath)
			}
			time.Sleep(refLockRetryDelay)
			continue
		}
		return nil, err
	}
}

func readRefHash(refPath string) (object.Hash, error) {
	data, err := os.ReadFile(refPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return object.Hash(strings.TrimSpace(string(data))), nil
}
