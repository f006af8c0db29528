package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ramjac-digital/rambo/internal/emulation"
	"github.com/ramjac-digital/rambo/internal/snapshot"
)

// StateManager owns the save-state directory, grounded on the teacher's
// gones/internal/app/states.go StateManager (directory bookkeeping kept;
// the JSON-based SaveState/CPUStateData/... field-by-field serialization
// is replaced by internal/snapshot's versioned gob format, since that
// package now owns the binary layout spec.md §6b specifies).
type StateManager struct {
	dir string
}

// NewStateManager returns a manager rooted at dir, creating it if absent.
// An empty dir defaults to "saves" in the working directory.
func NewStateManager(dir string) *StateManager {
	if dir == "" {
		dir = "saves"
	}
	_ = os.MkdirAll(dir, 0o755)
	return &StateManager{dir: dir}
}

// path resolves a bare save-state name to a file path under the managed
// directory; a name that is absolute or already contains a directory is
// returned unchanged.
func (m *StateManager) path(name string) string {
	if filepath.IsAbs(name) || filepath.Dir(name) != "." {
		return name
	}
	return filepath.Join(m.dir, name)
}

// Save captures state and writes it to name (or a slot path) under the
// managed directory.
func (m *StateManager) Save(state *emulation.State, name string) error {
	blob, err := snapshot.Save(state, 0)
	if err != nil {
		return fmt.Errorf("capturing snapshot: %w", err)
	}
	if err := os.WriteFile(m.path(name), blob, 0o644); err != nil {
		return fmt.Errorf("writing save state %q: %w", name, err)
	}
	return nil
}

// Load reads name and restores it into state. On any rejection
// (snapshot.RejectError) state is left untouched, per spec.md §7's
// SnapshotError policy.
func (m *StateManager) Load(state *emulation.State, name string) error {
	blob, err := os.ReadFile(m.path(name))
	if err != nil {
		return fmt.Errorf("reading save state %q: %w", name, err)
	}
	if err := snapshot.Load(state, blob); err != nil {
		return fmt.Errorf("restoring save state %q: %w", name, err)
	}
	return nil
}
