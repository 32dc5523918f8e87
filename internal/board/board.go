// Package board implements the plain task and todo operations around the
// relationship core, including the cascading deletes that keep dependency
// edges, links and subtasks from outliving their parents.
package board

import (
	"github.com/charmbracelet/log"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

type service struct {
	store   types.Store
	tenants types.TenantResolver
	logger  *log.Logger
}

func newService(store types.Store, tenants types.TenantResolver, logger *log.Logger) service {
	if logger == nil {
		logger = log.Default()
	}
	return service{store: store, tenants: tenants, logger: logger}
}
