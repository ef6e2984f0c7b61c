package manifest

import (
	"crypto/sha256"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// ComputeSourceDigest hashes a cookbook directory into a deterministic
// "sha256:<hex>" digest. Relative paths are sorted before hashing so the
// result is independent of filesystem walk order, and each path is bound
// to its content with a separator so moving bytes between files changes
// the digest.
func ComputeSourceDigest(dir string) (string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			return relErr
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("walking %s: %w", dir, err)
	}

	sort.Strings(paths)

	h := sha256.New()
	for _, rel := range paths {
		data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", rel, err)
		}
		h.Write([]byte(rel))
		h.Write([]byte{0})
		h.Write(data)
		h.Write([]byte{'\n'})
	}

	return fmt.Sprintf("sha256:%x", h.Sum(nil)), nil
}

// State classifies a manifest entry against the current source tree.
type State string

const (
	// StateFresh means the source digest still matches.
	StateFresh State = "fresh"

	// StateStale means the cookbook changed since conversion.
	StateStale State = "stale"

	// StateMissing means the cookbook directory is gone.
	StateMissing State = "missing"
)

// Status is the freshness classification of one entry.
type Status struct {
	Entry Entry
	State State

	// CurrentDigest is the recomputed digest; empty for missing sources.
	CurrentDigest string
}

// Classify recomputes each entry's source digest and reports whether the
// generated role is still current. Entries are returned in input order.
func Classify(entries []Entry) []Status {
	statuses := make([]Status, 0, len(entries))

	for _, entry := range entries {
		status := Status{Entry: entry}

		digest, err := ComputeSourceDigest(entry.Source)
		switch {
		case err != nil:
			status.State = StateMissing
		case digest == entry.SourceDigest:
			status.State = StateFresh
			status.CurrentDigest = digest
		default:
			status.State = StateStale
			status.CurrentDigest = digest
		}

		statuses = append(statuses, status)
	}

	return statuses
}
