package main

// Input types for MCP tools. Schemas are inferred from these structs.
type GetBoardInput struct{}

type CreateTaskInput struct {
	Name         string   `json:"name" jsonschema:"task name"`
	Description  string   `json:"description,omitempty" jsonschema:"task description"`
	DueDate      string   `json:"due_date" jsonschema:"due date as YYYY-MM-DD"`
	Priority     int      `json:"priority" jsonschema:"priority from 1 to 5, higher sorts first"`
	Dependencies []string `json:"dependencies,omitempty" jsonschema:"ids of tasks this task depends on; it can start once they are in_progress or completed and finish once they are completed"`
}

type UpdateTaskInput struct {
	ID           string    `json:"id" jsonschema:"task id"`
	Name         *string   `json:"name,omitempty" jsonschema:"new task name"`
	Description  *string   `json:"description,omitempty" jsonschema:"new task description"`
	DueDate      *string   `json:"due_date,omitempty" jsonschema:"new due date as YYYY-MM-DD"`
	Priority     *int      `json:"priority,omitempty" jsonschema:"new priority from 1 to 5"`
	Dependencies *[]string `json:"dependencies,omitempty" jsonschema:"replacement list of dependency ids, empty to clear"`
}

type MoveTaskInput struct {
	ID     string `json:"id" jsonschema:"task id"`
	Status string `json:"status" jsonschema:"destination lane: todo, in_progress or completed"`
	Index  *int   `json:"index,omitempty" jsonschema:"position in the destination lane, end of lane when omitted"`
}

type DeleteTaskInput struct {
	ID string `json:"id" jsonschema:"task id; it is also removed from the dependencies of other tasks, which are kept"`
}

type SortTasksInput struct {
	Key string `json:"key" jsonschema:"sort key: priority or due_date"`
}

type GenerateTasksInput struct {
	ProjectName        string `json:"project_name,omitempty" jsonschema:"project name, also used as the board name"`
	ProjectDescription string `json:"project_description" jsonschema:"description of the project to plan"`
}
