package cli

import (
	"github.com/spf13/cobra"
)

func newDepCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dep",
		Short: "Manage blocking dependencies between tasks",
	}
	cmd.AddCommand(
		newDepAddCmd(a),
		newDepRemoveCmd(a),
		newDepBlockersCmd(a),
		newDepAvailableCmd(a),
		newDepReadyCmd(a),
	)
	return cmd
}

func newDepAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <blocking-task-id> <blocked-task-id>",
		Short: "Record that one task blocks another",
		Args:  exactArgs(2),
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *session) error {
			id, err := s.dependencies.Create(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return a.printID(cmd.OutOrStdout(), "dependency_id", id)
		}),
	}
}

func newDepRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <dependency-id>",
		Short: "Remove a dependency",
		Args:  exactArgs(1),
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *session) error {
			if err := s.dependencies.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			return a.printDone(cmd.OutOrStdout(), "removed "+args[0])
		}),
	}
}

func newDepBlockersCmd(a *app) *cobra.Command {
	var blocking bool
	cmd := &cobra.Command{
		Use:   "blockers <task-id>",
		Short: "List the tasks blocking a task",
		Args:  exactArgs(1),
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *session) error {
			query := s.dependencies.Blockers
			if blocking {
				query = s.dependencies.Blocking
			}
			deps, err := query(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.printDependencies(cmd.OutOrStdout(), deps)
		}),
	}
	cmd.Flags().BoolVar(&blocking, "blocking", false, "list the tasks this task blocks instead")
	return cmd
}

func newDepAvailableCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "available <task-id>",
		Short: "List tasks that could block a task without creating a cycle",
		Args:  exactArgs(1),
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *session) error {
			tasks, err := s.dependencies.AvailableBlockers(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.printTasks(cmd.OutOrStdout(), tasks)
		}),
	}
}

func newDepReadyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ready",
		Short: "List unfinished tasks whose blockers are all done",
		Args:  exactArgs(0),
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *session) error {
			tasks, err := s.dependencies.Ready(cmd.Context())
			if err != nil {
				return err
			}
			return a.printTasks(cmd.OutOrStdout(), tasks)
		}),
	}
}
