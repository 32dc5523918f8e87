package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskboard/internal/board"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

func newTaskCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage project tasks",
	}
	cmd.AddCommand(
		newTaskAddCmd(a),
		newTaskListCmd(a),
		newTaskShowCmd(a),
		newTaskUpdateCmd(a),
		newTaskStatusCmd(a),
		newTaskDeleteCmd(a),
	)
	return cmd
}

func newTaskAddCmd(a *app) *cobra.Command {
	var task types.Task
	var milestone string
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task",
		Args:  exactArgs(1),
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *session) error {
			task.Title = args[0]
			if milestone != "" {
				task.MilestoneID = &milestone
			}
			if err := s.tasks.Create(cmd.Context(), &task); err != nil {
				return err
			}
			return a.printID(cmd.OutOrStdout(), "task_id", task.TaskID)
		}),
	}
	cmd.Flags().StringVarP(&task.ProjectID, "project", "p", "", "owning project id (required)")
	cmd.Flags().StringVar(&task.Priority, "priority", "", "low, medium, high or urgent (default medium)")
	cmd.Flags().StringVar(&task.Status, "status", "", "todo, in_progress or done (default todo)")
	cmd.Flags().StringSliceVar(&task.Assignees, "assignee", nil, "assignee (repeatable)")
	cmd.Flags().StringSliceVar(&task.Tags, "tag", nil, "tag (repeatable)")
	cmd.Flags().StringVar(&milestone, "milestone", "", "milestone id")
	return cmd
}

func newTaskListCmd(a *app) *cobra.Command {
	var filter types.TaskFilter
	var ready bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  exactArgs(0),
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *session) error {
			var tasks []*types.Task
			var err error
			if ready {
				tasks, err = s.dependencies.Ready(cmd.Context())
			} else {
				tasks, err = s.tasks.List(cmd.Context(), filter)
			}
			if err != nil {
				return err
			}
			return a.printTasks(cmd.OutOrStdout(), tasks)
		}),
	}
	cmd.Flags().StringVarP(&filter.ProjectID, "project", "p", "", "only tasks of this project")
	cmd.Flags().StringVar(&filter.Status, "status", "", "only tasks with this status")
	cmd.Flags().BoolVar(&ready, "ready", false, "only unfinished tasks whose blockers are done")
	return cmd
}

func newTaskShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show a task",
		Args:  exactArgs(1),
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *session) error {
			task, err := s.tasks.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.printTask(cmd.OutOrStdout(), task)
		}),
	}
}

func newTaskUpdateCmd(a *app) *cobra.Command {
	var (
		title, priority, project, milestone string
		assignees, tags                     []string
	)
	cmd := &cobra.Command{
		Use:   "update <task-id>",
		Short: "Change task fields",
		Long:  "Change the fields given as flags. Pass --milestone \"\" to clear the milestone.",
		Args:  exactArgs(1),
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *session) error {
			var patch board.TaskPatch
			f := cmd.Flags()
			if f.Changed("title") {
				patch.Title = &title
			}
			if f.Changed("priority") {
				patch.Priority = &priority
			}
			if f.Changed("project") {
				patch.ProjectID = &project
			}
			if f.Changed("milestone") {
				patch.MilestoneID = &milestone
			}
			if f.Changed("assignee") {
				patch.Assignees = &assignees
			}
			if f.Changed("tag") {
				patch.Tags = &tags
			}
			task, err := s.tasks.Update(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			return a.printTask(cmd.OutOrStdout(), task)
		}),
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&priority, "priority", "", "new priority")
	cmd.Flags().StringVarP(&project, "project", "p", "", "new project id")
	cmd.Flags().StringVar(&milestone, "milestone", "", "new milestone id")
	cmd.Flags().StringSliceVar(&assignees, "assignee", nil, "replace assignees")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "replace tags")
	return cmd
}

func newTaskStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status <task-id> <todo|in_progress|done>",
		Short: "Set a task's status",
		Args:  exactArgs(2),
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *session) error {
			task, err := s.tasks.SetStatus(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return a.printTask(cmd.OutOrStdout(), task)
		}),
	}
}

func newTaskDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task with its subtasks, dependencies and link",
		Args:  exactArgs(1),
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *session) error {
			if err := s.tasks.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			return a.printDone(cmd.OutOrStdout(), "deleted "+args[0])
		}),
	}
}
