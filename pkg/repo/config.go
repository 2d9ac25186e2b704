package repo

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config stores repository-local settings: which remote list this
// repository tracks, named remotes, and branch-to-remote tracking.
type Config struct {
	ListID   string            `json:"list_id,omitempty"`
	Remotes  map[string]string `json:"remotes,omitempty"`
	Tracking map[string]string `json:"tracking,omitempty"` // branch -> "remote/branch"
}

func (r *Repo) configPath() string {
	return filepath.Join(r.SpgitDir, "config")
}

// ReadConfig reads .spgit/config. Missing config returns an empty config.
func (r *Repo) ReadConfig() (Config, error) {
	data, err := os.ReadFile(r.configPath())
	if err != nil {
		if os.IsNotExist(err) {
			return Config{Remotes: map[string]string{}, Tracking: map[string]string{}}, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("read config: unmarshal: %w", err)
	}
	if cfg.Remotes == nil {
		cfg.Remotes = map[string]string{}
	}
	if cfg.Tracking == nil {
		cfg.Tracking = map[string]string{}
	}
	return cfg, nil
}

// WriteConfig atomically writes r.Config to .spgit/config.
func (r *Repo) WriteConfig() error {
	cfg := r.Config
	if cfg.Remotes == nil {
		cfg.Remotes = map[string]string{}
	}
	if cfg.Tracking == nil {
		cfg.Tracking = map[string]string{}
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("write config: marshal: %w", err)
	}

	tmp, err := os.CreateTemp(r.SpgitDir, ".config-tmp-*")
	if err != nil {
		return fmt.Errorf("write config: tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write config: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write config: close: %w", err)
	}
	if err := os.Rename(tmpName, r.configPath()); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write config: rename: %w", err)
	}
	return nil
}

// SetRemote stores/updates a named remote URL in repository config.
func (r *Repo) SetRemote(name, remoteURL string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("set remote: %w: remote name is required", ErrUserError)
	}
	remoteURL = strings.TrimSpace(remoteURL)
	if remoteURL == "" {
		return fmt.Errorf("set remote: %w: remote URL is required", ErrUserError)
	}

	if r.Config.Remotes == nil {
		r.Config.Remotes = map[string]string{}
	}
	r.Config.Remotes[name] = remoteURL
	return r.WriteConfig()
}

// RemoteURL returns the configured URL for the given remote name.
func (r *Repo) RemoteURL(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("remote name is required")
	}

	url, ok := r.Config.Remotes[name]
	if !ok || strings.TrimSpace(url) == "" {
		return "", fmt.Errorf("remote %q is not configured", name)
	}
	return url, nil
}

// SetTracking records that branch tracks "<remote>/<remoteBranch>".
func (r *Repo) SetTracking(branch, remote, remoteBranch string) error {
	if r.Config.Tracking == nil {
		r.Config.Tracking = map[string]string{}
	}
	r.Config.Tracking[branch] = remote + "/" + remoteBranch
	return r.WriteConfig()
}
