package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Load reads the snapshot at path. A missing, truncated, or otherwise
// unreadable file yields a zero-value state so the monitor can bootstrap
// from nothing; Load never fails.
func Load(path string) *State {
	state := &State{}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return state
	}
	if err := json.Unmarshal(data, state); err != nil {
		return &State{}
	}
	return state
}

// Save atomically replaces the snapshot at path: the state is written to a
// temporary file in the same directory and renamed over the destination, so
// a crash mid-write leaves the previous snapshot intact. Missing parent
// directories are created.
func Save(path string, state *State) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return errors.Wrap(err, "create state directory")
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal state")
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrap(err, "write state temp file")
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.Wrap(err, "rename state file")
	}
	return nil
}
