package types

// Standard table names. The order lists parents before children so that
// loaders can insert rows without tripping foreign keys.
const (
	TableTasks        = "tasks"
	TableTodos        = "todos"
	TableDependencies = "dependencies"
	TableLinks        = "task_todo_links"
	TableSubtasks     = "subtasks"
)

// StandardTableNames lists all standard table names for enumeration.
var StandardTableNames = []string{
	TableTasks,
	TableTodos,
	TableDependencies,
	TableLinks,
	TableSubtasks,
}
