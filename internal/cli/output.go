package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) printTasks(w io.Writer, tasks []*types.Task) error {
	if a.flags.jsonMode {
		return writeJSON(w, tasks)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tPRIORITY\tPROJECT\tTITLE")
	for _, t := range tasks {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", t.TaskID, t.Status, t.Priority, t.ProjectID, t.Title)
	}
	return tw.Flush()
}

func (a *app) printTask(w io.Writer, t *types.Task) error {
	if a.flags.jsonMode {
		return writeJSON(w, t)
	}
	fmt.Fprintf(w, "ID:        %s\n", t.TaskID)
	fmt.Fprintf(w, "Title:     %s\n", t.Title)
	fmt.Fprintf(w, "Status:    %s\n", t.Status)
	fmt.Fprintf(w, "Priority:  %s\n", t.Priority)
	fmt.Fprintf(w, "Project:   %s\n", t.ProjectID)
	if t.MilestoneID != nil {
		fmt.Fprintf(w, "Milestone: %s\n", *t.MilestoneID)
	}
	if len(t.Assignees) > 0 {
		fmt.Fprintf(w, "Assignees: %s\n", strings.Join(t.Assignees, ", "))
	}
	if len(t.Tags) > 0 {
		fmt.Fprintf(w, "Tags:      %s\n", strings.Join(t.Tags, ", "))
	}
	return nil
}

func (a *app) printTodos(w io.Writer, todos []*types.Todo) error {
	if a.flags.jsonMode {
		return writeJSON(w, todos)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tDATE\tTITLE")
	for _, t := range todos {
		date := "-"
		if t.ScheduledDate != nil {
			date = *t.ScheduledDate
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.TodoID, t.Status, date, t.Title)
	}
	return tw.Flush()
}

func (a *app) printDependencies(w io.Writer, deps []*types.Dependency) error {
	if a.flags.jsonMode {
		return writeJSON(w, deps)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tBLOCKING\tBLOCKED")
	for _, d := range deps {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", d.DependencyID, d.BlockingTaskID, d.BlockedTaskID)
	}
	return tw.Flush()
}

func (a *app) printSubtasks(w io.Writer, subtasks []*types.Subtask) error {
	if a.flags.jsonMode {
		return writeJSON(w, subtasks)
	}
	for _, s := range subtasks {
		mark := " "
		if s.Status == types.SubtaskStatusDone {
			mark = "x"
		}
		fmt.Fprintf(w, "[%s] %d. %s  (%s)\n", mark, s.Position, s.Title, s.SubtaskID)
	}
	return nil
}

// printID prints a created id as plain text or {"<key>": id}.
func (a *app) printID(w io.Writer, key, id string) error {
	if a.flags.jsonMode {
		return writeJSON(w, map[string]string{key: id})
	}
	_, err := fmt.Fprintln(w, id)
	return err
}

func (a *app) printDone(w io.Writer, msg string) error {
	if a.flags.jsonMode {
		return writeJSON(w, map[string]bool{"ok": true})
	}
	_, err := fmt.Fprintln(w, msg)
	return err
}
