package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSubtaskCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subtask",
		Short: "Manage checklist items under tasks",
	}
	cmd.AddCommand(
		newSubtaskAddCmd(a),
		newSubtaskListCmd(a),
		newSubtaskToggleCmd(a),
		newSubtaskRenameCmd(a),
		newSubtaskRemoveCmd(a),
		newSubtaskProgressCmd(a),
	)
	return cmd
}

func newSubtaskAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <task-id> <title>",
		Short: "Add a subtask",
		Args:  exactArgs(2),
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *session) error {
			id, err := s.subtasks.Create(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return a.printID(cmd.OutOrStdout(), "subtask_id", id)
		}),
	}
}

func newSubtaskListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list <task-id>",
		Short: "List a task's subtasks",
		Args:  exactArgs(1),
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *session) error {
			subtasks, err := s.subtasks.List(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.printSubtasks(cmd.OutOrStdout(), subtasks)
		}),
	}
}

func newSubtaskToggleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <subtask-id>",
		Short: "Flip a subtask between todo and done",
		Args:  exactArgs(1),
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *session) error {
			subtask, err := s.subtasks.Toggle(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), subtask)
			}
			return a.printDone(cmd.OutOrStdout(), subtask.SubtaskID+" "+subtask.Status)
		}),
	}
}

func newSubtaskRenameCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <subtask-id> <title>",
		Short: "Rename a subtask",
		Args:  exactArgs(2),
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *session) error {
			if err := s.subtasks.Update(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			return a.printDone(cmd.OutOrStdout(), "renamed "+args[0])
		}),
	}
}

func newSubtaskRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <subtask-id>",
		Short: "Remove a subtask",
		Args:  exactArgs(1),
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *session) error {
			if err := s.subtasks.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			return a.printDone(cmd.OutOrStdout(), "removed "+args[0])
		}),
	}
}

func newSubtaskProgressCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "progress <task-id>...",
		Short: "Show subtask completion for one or more tasks",
		Args:  minArgs(1),
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *session) error {
			results, err := s.subtasks.ProgressBatch(cmd.Context(), args)
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), results)
			}
			for i, p := range results {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %d/%d  %.0f%%\n", args[i], p.Completed, p.Total, p.Percentage*100)
			}
			return nil
		}),
	}
}
