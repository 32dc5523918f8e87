package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskboard/internal/board"
	"github.com/mesh-intelligence/taskboard/internal/paths"
	"github.com/mesh-intelligence/taskboard/internal/relations"
	"github.com/mesh-intelligence/taskboard/internal/sqlite"
	"github.com/mesh-intelligence/taskboard/internal/tenant"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// session is an attached backend plus the services built on it.
type session struct {
	backend      *sqlite.Backend
	tasks        *board.Tasks
	todos        *board.Todos
	dependencies *relations.Dependencies
	links        *relations.Links
	subtasks     *relations.Subtasks
}

// resolveDataDir applies --data-dir > config.yaml > TASKBOARD_DATA_DIR >
// $(CWD)/.taskboard-db.
func (a *app) resolveDataDir() (string, error) {
	return paths.ResolveDataDir(a.flags.dataDir, a.config.GetString(cfgKeyDataDir))
}

func (a *app) tenantID() string {
	if a.flags.tenant != "" {
		return a.flags.tenant
	}
	return a.config.GetString(cfgKeyTenant)
}

// attachBackend resolves the data directory and attaches a SQLite backend.
// The caller must Detach it.
func (a *app) attachBackend() (*sqlite.Backend, error) {
	dataDir, err := a.resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	cfg := types.Config{
		Backend: a.config.GetString(cfgKeyBackend),
		DataDir: dataDir,
	}
	backend := sqlite.NewBackend(sqlite.WithLogger(a.logger))
	if err := backend.Attach(cfg); err != nil {
		return nil, fmt.Errorf("attach backend: %w", err)
	}
	return backend, nil
}

// open attaches the backend and wires the services with the given resolver.
func (a *app) open(tenants types.TenantResolver) (*session, error) {
	backend, err := a.attachBackend()
	if err != nil {
		return nil, err
	}
	return &session{
		backend:      backend,
		tasks:        board.NewTasks(backend, tenants, a.logger),
		todos:        board.NewTodos(backend, tenants, a.logger),
		dependencies: relations.NewDependencies(backend, tenants, a.logger),
		links:        relations.NewLinks(backend, tenants, a.logger),
		subtasks:     relations.NewSubtasks(backend, tenants, a.logger),
	}, nil
}

// withSession runs fn with a session for the configured tenant and detaches
// afterwards.
func (a *app) withSession(fn func(cmd *cobra.Command, args []string, s *session) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := a.open(tenant.Static(a.tenantID()))
		if err != nil {
			return err
		}
		defer s.backend.Detach()
		return fn(cmd, args, s)
	}
}
