package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spgit/spgit/pkg/object"
	"github.com/spgit/spgit/pkg/remote"
	"github.com/spgit/spgit/pkg/repo"
)

// shortHash truncates a hash to its first 8 characters for CLI output,
// used by "log --oneline" and by commands that report a commit they made.
func shortHash(h object.Hash) string {
	s := string(h)
	if len(s) <= 8 {
		return s
	}
	return s[:8]
}

// commitAuthor resolves the author identity for commands that create
// commits but don't expose their own --author flag (pull, revert,
// cherry-pick, rebase, stash).
func commitAuthor() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "unknown"
}

// resolveRemoteURL returns the URL for remoteArg: a literal http(s) URL is
// used as-is, an empty arg resolves the configured "origin", anything else
// is looked up by name in the repository's configured remotes.
func resolveRemoteURL(r *repo.Repo, remoteArg string) (name, url string, err error) {
	remoteArg = strings.TrimSpace(remoteArg)
	if remoteArg == "" {
		url, err := r.RemoteURL("origin")
		if err != nil {
			return "", "", fmt.Errorf("remote not configured: %w", err)
		}
		return "origin", url, nil
	}
	if strings.HasPrefix(remoteArg, "http://") || strings.HasPrefix(remoteArg, "https://") {
		return "origin", remoteArg, nil
	}
	url, err = r.RemoteURL(remoteArg)
	if err != nil {
		return "", "", err
	}
	return remoteArg, url, nil
}

// openRemote builds an HTTPCatalog client for the named remote (or
// "origin" if name is empty).
func openRemote(r *repo.Repo, name string) (remote.RemoteList, error) {
	_, url, err := resolveRemoteURL(r, name)
	if err != nil {
		return nil, err
	}
	return remote.NewHTTPCatalog(url)
}

// openConfiguredRemote is the status/checkout helper: it returns (nil, nil)
// when no remote is configured at all, since that is a normal, common
// state, not an error. Any other construction failure is returned as an
// error for the caller to report.
func openConfiguredRemote(r *repo.Repo) (remote.RemoteList, error) {
	if _, err := r.RemoteURL("origin"); err != nil {
		return nil, nil
	}
	rl, err := openRemote(r, "")
	if err != nil {
		return nil, err
	}
	return rl, nil
}

func ensureEmptyDir(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return err
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		return fmt.Errorf("destination path %q is not empty", path)
	}
	return nil
}
