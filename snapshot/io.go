package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// snapshotPermissions is the file permission mode for snapshot files.
// Owner read/write only.
const snapshotPermissions = 0o600

// ErrUnsupportedVersion indicates a snapshot with a schema version this
// package cannot read.
var ErrUnsupportedVersion = errors.New("unsupported snapshot version")

// ReadFile reads and parses a snapshot from the given path.
func ReadFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return Parse(data)
}

// Parse parses snapshot JSON data.
func Parse(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot JSON: %w", err)
	}

	if snap.Version != FormatVersion {
		return nil, fmt.Errorf("%w: %d (supported: %d)",
			ErrUnsupportedVersion, snap.Version, FormatVersion)
	}

	if snap.BuildFileHashes == nil {
		snap.BuildFileHashes = make(map[string]string)
	}

	return &snap, nil
}

// WriteFile writes the snapshot to the given path with deterministic
// formatting.
func (s *Snapshot) WriteFile(path string) error {
	data, err := s.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, snapshotPermissions)
}

// WriteTo writes the snapshot to the given writer.
func (s *Snapshot) WriteTo(w io.Writer) (int64, error) {
	data, err := s.Marshal()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

// Marshal serializes the snapshot to indented JSON. Output is
// deterministic: slices are sorted at capture time and map keys are
// emitted in sorted order.
func (s *Snapshot) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Exists returns true if a snapshot exists at the given path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// DefaultPath returns the default snapshot path relative to a workspace
// root.
func DefaultPath(workspaceRoot string) string {
	if workspaceRoot == "" {
		return "buildgraph.snapshot.json"
	}
	return workspaceRoot + "/buildgraph.snapshot.json"
}
