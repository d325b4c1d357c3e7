// Package mirror keeps a durable local snapshot of the full application
// state so the app has something to show before (or without) remote
// hydration.
package mirror

import (
	"encoding/json"
	"path/filepath"

	"github.com/peterbourgon/diskv/v3"

	"github.com/gravityplanner/gravity/internal/logger"
	"github.com/gravityplanner/gravity/internal/store"
)

const stateKey = "state.json"

// Mirror is a write-through, single-key snapshot of the store state backed
// by diskv. Writes are best-effort: failures are logged and swallowed, the
// in-memory state is always authoritative.
type Mirror struct {
	d *diskv.Diskv
}

// New creates a mirror rooted under dataDir.
func New(dataDir string) *Mirror {
	return &Mirror{
		d: diskv.New(diskv.Options{
			BasePath:     filepath.Join(dataDir, "state"),
			CacheSizeMax: 1024 * 1024, // 1MB
		}),
	}
}

// Write serializes the full state. Called on every dispatch.
func (m *Mirror) Write(s store.State) {
	data, err := json.Marshal(s)
	if err != nil {
		logger.Warn("Failed to serialize state snapshot", "error", err)
		return
	}
	if err := m.d.Write(stateKey, data); err != nil {
		logger.Warn("Failed to persist state snapshot", "error", err)
	}
}

// Read loads the last snapshot. A missing or corrupt snapshot falls back to
// defaults; fields absent from an older snapshot are defaulted, not
// versioned.
func (m *Mirror) Read() store.State {
	data, err := m.d.Read(stateKey)
	if err != nil {
		logger.Debug("No usable state snapshot, starting from defaults", "error", err)
		return store.Default()
	}
	var s store.State
	if err := json.Unmarshal(data, &s); err != nil {
		logger.Warn("Corrupt state snapshot, starting from defaults", "error", err)
		return store.Default()
	}
	return s.Normalize()
}
