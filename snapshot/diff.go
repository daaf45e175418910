package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Diff returns the differences between this snapshot and a newer one.
// Targets are compared by label across packages; hash changes are reported
// per package.
func (s *Snapshot) Diff(other *Snapshot) *Diff {
	diff := &Diff{
		ChangedHashes: make(map[string][2]string),
	}

	if s.Version != other.Version {
		diff.VersionChanged = true
		diff.OldVersion = s.Version
		diff.NewVersion = other.Version
	}

	oldTargets := s.targetIndex()
	newTargets := other.targetIndex()

	for lbl, entry := range newTargets {
		old, exists := oldTargets[lbl]
		if !exists {
			diff.Added = append(diff.Added, lbl)
			continue
		}
		if !reflect.DeepEqual(old, entry) {
			diff.Changed = append(diff.Changed, lbl)
		}
	}
	for lbl := range oldTargets {
		if _, exists := newTargets[lbl]; !exists {
			diff.Removed = append(diff.Removed, lbl)
		}
	}
	sort.Strings(diff.Added)
	sort.Strings(diff.Removed)
	sort.Strings(diff.Changed)

	for path, hash := range other.BuildFileHashes {
		if old, exists := s.BuildFileHashes[path]; exists && old != hash {
			diff.ChangedHashes[path] = [2]string{old, hash}
		}
	}

	return diff
}

// targetIndex flattens the snapshot into a label-keyed map.
func (s *Snapshot) targetIndex() map[string]TargetEntry {
	index := make(map[string]TargetEntry)
	for _, pkg := range s.Packages {
		for _, target := range pkg.Targets {
			index[fmt.Sprintf("//%s:%s", pkg.Path, target.Name)] = target
		}
	}
	return index
}

// Diff describes differences between two snapshots.
type Diff struct {
	VersionChanged bool
	OldVersion     int
	NewVersion     int

	// Added, Removed, and Changed hold target labels, sorted.
	Added   []string
	Removed []string
	Changed []string

	// ChangedHashes maps package path to [old, new] BUILD file hashes.
	ChangedHashes map[string][2]string
}

// IsEmpty returns true if there are no differences.
func (d *Diff) IsEmpty() bool {
	return !d.VersionChanged &&
		len(d.Added) == 0 &&
		len(d.Removed) == 0 &&
		len(d.Changed) == 0
}

// Summary returns a human-readable summary of the differences.
func (d *Diff) Summary() string {
	if d.IsEmpty() {
		return "no changes"
	}

	var b strings.Builder
	if d.VersionChanged {
		fmt.Fprintf(&b, "version: %d -> %d\n", d.OldVersion, d.NewVersion)
	}
	for _, lbl := range d.Added {
		fmt.Fprintf(&b, "added: %s\n", lbl)
	}
	for _, lbl := range d.Removed {
		fmt.Fprintf(&b, "removed: %s\n", lbl)
	}
	for _, lbl := range d.Changed {
		fmt.Fprintf(&b, "changed: %s\n", lbl)
	}
	if len(d.ChangedHashes) > 0 {
		fmt.Fprintf(&b, "build files changed: %d\n", len(d.ChangedHashes))
	}
	return b.String()
}

// HashContent computes the SHA-256 hash of content, hex encoded.
func HashContent(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// VerifyHash checks if content matches the expected hash.
func VerifyHash(content []byte, expectedHash string) bool {
	return HashContent(content) == expectedHash
}
