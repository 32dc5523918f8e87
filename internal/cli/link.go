package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

func newLinkCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link",
		Short: "Plan tasks under todos",
	}
	cmd.AddCommand(
		newLinkAddCmd(a),
		newLinkRelinkCmd(a),
		newLinkRemoveCmd(a),
		newLinkShowCmd(a),
	)
	return cmd
}

func newLinkAddCmd(a *app) *cobra.Command {
	var relink bool
	cmd := &cobra.Command{
		Use:   "add <todo-id> <task-id>",
		Short: "Link a task to a todo",
		Args:  exactArgs(2),
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *session) error {
			todoID, taskID := args[0], args[1]
			err := s.links.Link(cmd.Context(), todoID, taskID)

			var linked *types.AlreadyLinkedError
			if errors.As(err, &linked) {
				if !relink {
					return fmt.Errorf("%w (use --relink or 'taskboard link relink' to move it)", err)
				}
				err = s.links.Relink(cmd.Context(), todoID, taskID)
			}
			if err != nil {
				return err
			}
			return a.printDone(cmd.OutOrStdout(), "linked "+taskID+" to "+todoID)
		}),
	}
	cmd.Flags().BoolVar(&relink, "relink", false, "move the task if it already has a todo")
	return cmd
}

func newLinkRelinkCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "relink <todo-id> <task-id>",
		Short: "Move a task to another todo",
		Args:  exactArgs(2),
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *session) error {
			if err := s.links.Relink(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			return a.printDone(cmd.OutOrStdout(), "linked "+args[1]+" to "+args[0])
		}),
	}
}

func newLinkRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <task-id>",
		Short: "Detach a task from its todo",
		Args:  exactArgs(1),
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *session) error {
			if err := s.links.Unlink(cmd.Context(), args[0]); err != nil {
				return err
			}
			return a.printDone(cmd.OutOrStdout(), "unlinked "+args[0])
		}),
	}
}

func newLinkShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tasks <todo-id>",
		Short: "List the tasks planned under a todo",
		Args:  exactArgs(1),
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *session) error {
			tasks, err := s.links.TasksForTodo(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.printTasks(cmd.OutOrStdout(), tasks)
		}),
	}
}
