package repo

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spgit/spgit/pkg/object"
)

const zeroHash = string(object.ZeroHash)

// ReflogEntry is one line of a per-ref reflog: the ref's old and new value,
// who moved it and when, and why (action/message).
type ReflogEntry struct {
	Ref        string
	OldHash    object.Hash
	NewHash    object.Hash
	ActorName  string
	ActorEmail string
	Timestamp  int64
	TZOffset   string
	Action     string
	Message    string
}

// splitActor parses an actor string of the form "Name <email>" into its
// parts. Actors supplied as a bare name (the common case: CLI commands pass
// $USER with no email) get the email "<>", matching git's own convention
// for an unconfigured address.
func splitActor(actor string) (name, email string) {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return "unknown", "<>"
	}
	open := strings.IndexByte(actor, '<')
	close := strings.IndexByte(actor, '>')
	if open >= 0 && close > open {
		name = strings.TrimSpace(actor[:open])
		if name == "" {
			name = "unknown"
		}
		return name, actor[open : close+1]
	}
	return actor, "<>"
}

// appendReflog writes one line to .spgit/logs/<ref>, in the format
//
//	<old> <new> <actor-name> <actor-email> <unix-ts> <tz>\t<action>: <message>
//
// actor is the raw author/actor string (split into name/email via
// splitActor); action is a short verb phrase identifying the operation
// (e.g. "commit", "merge f", "rebase"); message is the human-readable
// detail (e.g. "first", "fast-forward").
func (r *Repo) appendReflog(ref string, oldHash, newHash object.Hash, actor, action, message string) error {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil
	}
	action = strings.TrimSpace(action)
	if action == "" {
		action = "update"
	}
	name, email := splitActor(actor)

	logPath := filepath.Join(r.SpgitDir, "logs", filepath.FromSlash(ref))
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("reflog mkdir: %w", err)
	}

	old := string(oldHash)
	if strings.TrimSpace(old) == "" {
		old = zeroHash
	}
	newVal := string(newHash)
	if strings.TrimSpace(newVal) == "" {
		newVal = zeroHash
	}

	now := time.Now()
	line := fmt.Sprintf("%s %s %s %s %d %s\t%s: %s\n",
		old, newVal, name, email, now.Unix(), formatTimezoneOffset(now), action, message)

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("reflog open: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("reflog write: %w", err)
	}
	return nil
}

func (r *Repo) ReadReflog(ref string, limit int) ([]ReflogEntry, error) {
	refName, err := r.resolveReflogRefName(ref)
	if err != nil {
		return nil, err
	}

	logPath := filepath.Join(r.SpgitDir, "logs", filepath.FromSlash(refName))
	f, err := os.Open(logPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read reflog: %w", err)
	}
	defer f.Close()

	var entries []ReflogEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}
		entry, ok := parseReflogLine(line)
		if !ok {
			continue
		}
		entry.Ref = refName
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read reflog: %w", err)
	}

	// Return newest first.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// parseReflogLine parses one on-disk reflog line. The actor name is
// unbounded (may contain spaces), so the header portion (before the tab) is
// split around the bracketed email rather than by naive space-splitting:
// everything before "<" is old, new, and name tokens; everything after ">"
// is the timestamp and tz offset.
func parseReflogLine(line string) (ReflogEntry, bool) {
	tabIdx := strings.Index(line, "\t")
	if tabIdx < 0 {
		return ReflogEntry{}, false
	}
	header := line[:tabIdx]
	rest := line[tabIdx+1:]

	action := rest
	message := ""
	if idx := strings.Index(rest, ": "); idx >= 0 {
		action = rest[:idx]
		message = rest[idx+2:]
	}

	openIdx := strings.IndexByte(header, '<')
	closeIdx := strings.IndexByte(header, '>')
	if openIdx < 0 || closeIdx < openIdx {
		return ReflogEntry{}, false
	}

	before := strings.Fields(header[:openIdx])
	if len(before) < 3 {
		return ReflogEntry{}, false
	}
	old := before[0]
	newHash := before[1]
	name := strings.Join(before[2:], " ")
	email := header[openIdx : closeIdx+1]

	after := strings.Fields(header[closeIdx+1:])
	if len(after) < 2 {
		return ReflogEntry{}, false
	}
	ts, err := strconv.ParseInt(after[0], 10, 64)
	if err != nil {
		return ReflogEntry{}, false
	}

	return ReflogEntry{
		OldHash:    object.Hash(old),
		NewHash:    object.Hash(newHash),
		ActorName:  name,
		ActorEmail: email,
		Timestamp:  ts,
		TZOffset:   after[1],
		Action:     action,
		Message:    message,
	}, true
}

func (r *Repo) resolveReflogRefName(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" || ref == "HEAD" {
		head, err := r.Head()
		if err == nil && strings.HasPrefix(head, "refs/") {
			return head, nil
		}
		return "HEAD", nil
	}
	if strings.HasPrefix(ref, "refs/") {
		return ref, nil
	}
	return "refs/heads/" + ref, nil
}
