// Package relations implements the task-relationship managers: the blocking
// dependency graph, the single-parent todo link and subtask progress.
//
// Every operation resolves the caller's tenant first and then runs in exactly
// one store transaction, so the reads that check an invariant and the write
// that depends on it commit together or not at all.
package relations

import (
	"github.com/charmbracelet/log"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// manager holds what every relationship manager needs.
type manager struct {
	store   types.Store
	tenants types.TenantResolver
	logger  *log.Logger
}

func newManager(store types.Store, tenants types.TenantResolver, logger *log.Logger) manager {
	if logger == nil {
		logger = log.Default()
	}
	return manager{store: store, tenants: tenants, logger: logger}
}
