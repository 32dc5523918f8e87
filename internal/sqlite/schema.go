// This file holds the SQLite schema. Every table carries tenant_id and every
// secondary lookup is served by an index that leads with tenant_id.
package sqlite

// Schema DDL for all tables, parents first.
const (
	createTasks = `CREATE TABLE IF NOT EXISTS tasks (
    task_id TEXT PRIMARY KEY,
    tenant_id TEXT NOT NULL,
    title TEXT NOT NULL,
    status TEXT NOT NULL,
    priority TEXT NOT NULL,
    assignees TEXT NOT NULL,
    tags TEXT NOT NULL,
    project_id TEXT NOT NULL,
    milestone_id TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createTodos = `CREATE TABLE IF NOT EXISTS todos (
    todo_id TEXT PRIMARY KEY,
    tenant_id TEXT NOT NULL,
    title TEXT NOT NULL,
    status TEXT NOT NULL,
    scheduled_date TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createDependencies = `CREATE TABLE IF NOT EXISTS dependencies (
    dependency_id TEXT PRIMARY KEY,
    tenant_id TEXT NOT NULL,
    blocking_task_id TEXT NOT NULL,
    blocked_task_id TEXT NOT NULL,
    created_at TEXT NOT NULL,
    CHECK (blocking_task_id <> blocked_task_id),
    FOREIGN KEY (blocking_task_id) REFERENCES tasks(task_id),
    FOREIGN KEY (blocked_task_id) REFERENCES tasks(task_id)
);`

	createTaskTodoLinks = `CREATE TABLE IF NOT EXISTS task_todo_links (
    link_id TEXT PRIMARY KEY,
    tenant_id TEXT NOT NULL,
    todo_id TEXT NOT NULL,
    task_id TEXT NOT NULL,
    created_at TEXT NOT NULL,
    FOREIGN KEY (todo_id) REFERENCES todos(todo_id),
    FOREIGN KEY (task_id) REFERENCES tasks(task_id)
);`

	createSubtasks = `CREATE TABLE IF NOT EXISTS subtasks (
    subtask_id TEXT PRIMARY KEY,
    tenant_id TEXT NOT NULL,
    task_id TEXT NOT NULL,
    title TEXT NOT NULL,
    status TEXT NOT NULL,
    position INTEGER NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    FOREIGN KEY (task_id) REFERENCES tasks(task_id)
);`
)

// Index DDL. The unique indexes back the duplicate-edge and single-parent
// rules at the storage layer as well.
const (
	idxTasksTenantProject   = `CREATE INDEX IF NOT EXISTS idx_tasks_tenant_project ON tasks(tenant_id, project_id);`
	idxTodosTenantDate      = `CREATE INDEX IF NOT EXISTS idx_todos_tenant_date ON todos(tenant_id, scheduled_date);`
	idxDependenciesUnique   = `CREATE UNIQUE INDEX IF NOT EXISTS idx_dependencies_unique ON dependencies(tenant_id, blocking_task_id, blocked_task_id);`
	idxDependenciesBlocked  = `CREATE INDEX IF NOT EXISTS idx_dependencies_blocked ON dependencies(tenant_id, blocked_task_id);`
	idxLinksTask            = `CREATE UNIQUE INDEX IF NOT EXISTS idx_links_task ON task_todo_links(tenant_id, task_id);`
	idxLinksTodo            = `CREATE INDEX IF NOT EXISTS idx_links_todo ON task_todo_links(tenant_id, todo_id);`
	idxSubtasksTaskPosition = `CREATE INDEX IF NOT EXISTS idx_subtasks_task_position ON subtasks(tenant_id, task_id, position);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createTasks,
	createTodos,
	createDependencies,
	createTaskTodoLinks,
	createSubtasks,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxTasksTenantProject,
	idxTodosTenantDate,
	idxDependenciesUnique,
	idxDependenciesBlocked,
	idxLinksTask,
	idxLinksTodo,
	idxSubtasksTaskPosition,
}

// tableColumns maps each table to its columns in DDL order. Export and import
// use it so that JSONL files carry exactly these fields.
var tableColumns = []struct {
	table   string
	columns []string
}{
	{"tasks", []string{"task_id", "tenant_id", "title", "status", "priority", "assignees", "tags", "project_id", "milestone_id", "created_at", "updated_at"}},
	{"todos", []string{"todo_id", "tenant_id", "title", "status", "scheduled_date", "created_at", "updated_at"}},
	{"dependencies", []string{"dependency_id", "tenant_id", "blocking_task_id", "blocked_task_id", "created_at"}},
	{"task_todo_links", []string{"link_id", "tenant_id", "todo_id", "task_id", "created_at"}},
	{"subtasks", []string{"subtask_id", "tenant_id", "task_id", "title", "status", "position", "created_at", "updated_at"}},
}
