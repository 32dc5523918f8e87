// This file checks imported JSONL rows against the entity rules before they
// reach SQL, so that every stored row can be read back by the accessors.
package sqlite

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// rowCheckers validate and normalize one decoded record of a table in place.
var rowCheckers = map[string]func(obj map[string]any) error{
	types.TableTasks:        checkTaskRow,
	types.TableTodos:        checkTodoRow,
	types.TableDependencies: requireStrings("blocking_task_id", "blocked_task_id"),
	types.TableLinks:        requireStrings("todo_id", "task_id"),
	types.TableSubtasks:     checkSubtaskRow,
}

// checkRecord rejects a record with a blank id or tenant, a timestamp that
// parseTime cannot read, or fields that fail the table's entity rules.
func checkRecord(table string, columns []string, obj map[string]any) error {
	// The first two columns of every table are its id and tenant_id.
	if err := requireStrings(columns[0], columns[1])(obj); err != nil {
		return err
	}
	for _, col := range columns {
		if !strings.HasSuffix(col, "_at") {
			continue
		}
		s, _ := obj[col].(string)
		if _, err := parseTime(s); err != nil {
			return fmt.Errorf("%s %q: %w", col, s, types.ErrInvalidData)
		}
	}
	if check, ok := rowCheckers[table]; ok {
		return check(obj)
	}
	return nil
}

func checkTaskRow(obj map[string]any) error {
	assignees, err := stringSet(obj["assignees"])
	if err != nil {
		return fmt.Errorf("assignees: %w", err)
	}
	tags, err := stringSet(obj["tags"])
	if err != nil {
		return fmt.Errorf("tags: %w", err)
	}
	milestone, err := optionalString(obj["milestone_id"])
	if err != nil {
		return fmt.Errorf("milestone_id: %w", err)
	}

	task := &types.Task{
		Title:       str(obj, "title"),
		Status:      str(obj, "status"),
		Priority:    str(obj, "priority"),
		ProjectID:   str(obj, "project_id"),
		Assignees:   assignees,
		Tags:        tags,
		MilestoneID: milestone,
	}
	if err := task.Validate(); err != nil {
		return err
	}
	task.ApplyDefaults()

	a, tg, err := encodeSets(task)
	if err != nil {
		return err
	}
	obj["status"] = task.Status
	obj["priority"] = task.Priority
	obj["assignees"] = a
	obj["tags"] = tg
	return nil
}

func checkTodoRow(obj map[string]any) error {
	date, err := optionalString(obj["scheduled_date"])
	if err != nil {
		return fmt.Errorf("scheduled_date: %w", err)
	}
	todo := &types.Todo{
		Title:         str(obj, "title"),
		Status:        str(obj, "status"),
		ScheduledDate: date,
	}
	if err := todo.Validate(); err != nil {
		return err
	}
	if todo.Status == "" {
		obj["status"] = types.TodoStatusTodo
	}
	return nil
}

func checkSubtaskRow(obj map[string]any) error {
	if err := requireStrings("task_id")(obj); err != nil {
		return err
	}
	if strings.TrimSpace(str(obj, "title")) == "" {
		return types.ErrInvalidTitle
	}
	switch str(obj, "status") {
	case types.SubtaskStatusTodo, types.SubtaskStatusDone:
	case "":
		obj["status"] = types.SubtaskStatusTodo
	default:
		return types.ErrInvalidStatus
	}
	pos, ok := obj["position"].(float64)
	if !ok || pos < 1 || pos != math.Trunc(pos) {
		return fmt.Errorf("position: %w", types.ErrInvalidData)
	}
	obj["position"] = int64(pos)
	return nil
}

// requireStrings returns a check that the named fields are non-blank strings.
func requireStrings(fields ...string) func(obj map[string]any) error {
	return func(obj map[string]any) error {
		for _, f := range fields {
			if strings.TrimSpace(str(obj, f)) == "" {
				return fmt.Errorf("%s: %w", f, types.ErrInvalidData)
			}
		}
		return nil
	}
}

func str(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}

func optionalString(v any) (*string, error) {
	switch s := v.(type) {
	case nil:
		return nil, nil
	case string:
		return &s, nil
	default:
		return nil, types.ErrInvalidData
	}
}

// stringSet accepts a set as a JSON array or as the JSON text the tasks
// table stores.
func stringSet(v any) ([]string, error) {
	switch s := v.(type) {
	case nil:
		return nil, nil
	case string:
		var out []string
		if err := json.Unmarshal([]byte(s), &out); err != nil {
			return nil, types.ErrInvalidData
		}
		return out, nil
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			str, ok := item.(string)
			if !ok {
				return nil, types.ErrInvalidData
			}
			out = append(out, str)
		}
		return out, nil
	default:
		return nil, types.ErrInvalidData
	}
}
