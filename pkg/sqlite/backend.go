// Package sqlite provides the public API for the SQLite taskboard backend.
// It exposes the factory while keeping the implementation internal.
package sqlite

import (
	"github.com/charmbracelet/log"

	"github.com/mesh-intelligence/taskboard/internal/sqlite"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
// A nil logger keeps the default stderr logger.
//
// Example:
//
//	store := sqlite.NewBackend(nil)
//	err := store.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".taskboard-db",
//	})
//	defer store.Detach()
func NewBackend(logger *log.Logger) types.Store {
	return sqlite.NewBackend(sqlite.WithLogger(logger))
}
