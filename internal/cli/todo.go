package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

func newTodoCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "todo",
		Short: "Manage personal todos",
	}
	cmd.AddCommand(
		newTodoAddCmd(a),
		newTodoListCmd(a),
		newTodoDoneCmd(a),
		newTodoDeleteCmd(a),
	)
	return cmd
}

func newTodoAddCmd(a *app) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a todo",
		Args:  exactArgs(1),
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *session) error {
			todo := &types.Todo{Title: args[0]}
			if date != "" {
				todo.ScheduledDate = &date
			}
			if err := s.todos.Create(cmd.Context(), todo); err != nil {
				return err
			}
			return a.printID(cmd.OutOrStdout(), "todo_id", todo.TodoID)
		}),
	}
	cmd.Flags().StringVar(&date, "date", "", "scheduled date (YYYY-MM-DD)")
	return cmd
}

func newTodoListCmd(a *app) *cobra.Command {
	var filter types.TodoFilter
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List todos by scheduled date",
		Args:  exactArgs(0),
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *session) error {
			todos, err := s.todos.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return a.printTodos(cmd.OutOrStdout(), todos)
		}),
	}
	cmd.Flags().StringVar(&filter.ScheduledDate, "date", "", "only todos scheduled on this date")
	cmd.Flags().StringVar(&filter.Status, "status", "", "only todos with this status")
	return cmd
}

func newTodoDoneCmd(a *app) *cobra.Command {
	var reopen bool
	cmd := &cobra.Command{
		Use:   "done <todo-id>",
		Short: "Mark a todo done",
		Args:  exactArgs(1),
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *session) error {
			status := types.TodoStatusDone
			if reopen {
				status = types.TodoStatusTodo
			}
			todo, err := s.todos.SetStatus(cmd.Context(), args[0], status)
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), todo)
			}
			return a.printDone(cmd.OutOrStdout(), todo.TodoID+" "+todo.Status)
		}),
	}
	cmd.Flags().BoolVar(&reopen, "reopen", false, "mark the todo open again")
	return cmd
}

func newTodoDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <todo-id>",
		Short: "Delete a todo; linked tasks stay, unparented",
		Args:  exactArgs(1),
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *session) error {
			if err := s.todos.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			return a.printDone(cmd.OutOrStdout(), "deleted "+args[0])
		}),
	}
}
