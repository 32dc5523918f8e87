package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskboard/internal/server"
	"github.com/mesh-intelligence/taskboard/internal/tenant"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		Long:  "Serve the JSON API. Each request names its tenant in the " + server.TenantHeader + " header.",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.config.GetString(cfgKeyListenAddr)
			}

			if a.logger.GetLevel() > log.DebugLevel {
				gin.SetMode(gin.ReleaseMode)
			}

			s, err := a.open(tenant.Guard{})
			if err != nil {
				return err
			}
			defer s.backend.Detach()

			srv := server.NewServer(server.Services{
				Tasks:        s.tasks,
				Todos:        s.todos,
				Dependencies: s.dependencies,
				Links:        s.links,
				Subtasks:     s.subtasks,
			}, a.logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}
