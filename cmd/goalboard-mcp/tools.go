package main

import "github.com/modelcontextprotocol/go-sdk/mcp"

// The dependency rules below mirror goal.satisfies: in_progress needs every
// dependency in_progress or completed, completed needs every dependency
// completed, and todo is always reachable.
const (
	dependencyRules = "A task may move to in_progress only when every task it depends on is in_progress or completed, " +
		"and to completed only when every task it depends on is completed. Moving back to todo is always allowed."

	serverInstructions = "MCP server for a goal board with three lanes (todo, in_progress, completed). " + dependencyRules +
		" Workflow: 1) Use goalboard_get_board to see lanes and task ids, 2) Use goalboard_create_task or goalboard_generate_tasks to add work, " +
		"3) Use goalboard_move_task to progress tasks, advancing dependencies first, " +
		"4) Use goalboard_update_task, goalboard_delete_task and goalboard_sort_tasks to maintain the board."

	moveTaskDescription = "Move a task to a lane and position. " + dependencyRules +
		" A refused move lists the blocking task ids."

	deleteTaskDescription = "Delete a task; its id is removed from every other task's dependencies. Other tasks are kept."
)

func newServer(c *GoalBoardClient) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "goalboard-mcp",
			Title:   "Goal Board MCP Server",
			Version: "v1.0.0",
		},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "goalboard_get_board",
		Title:       "Goal Board: Get Board",
		Description: "Get the board: its name, every task, and the order of tasks in each lane.",
	}, c.GetBoardHandler)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "goalboard_create_task",
		Title:       "Goal Board: Create Task",
		Description: "Create a task in the todo lane with a name, due date, priority, and optional dependencies.",
	}, c.CreateTaskHandler)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "goalboard_update_task",
		Title:       "Goal Board: Update Task",
		Description: "Update a task's name, description, due date, priority or dependencies. Omitted fields are left unchanged. Dependencies that would form a cycle are rejected.",
	}, c.UpdateTaskHandler)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "goalboard_move_task",
		Title:       "Goal Board: Move Task",
		Description: moveTaskDescription,
	}, c.MoveTaskHandler)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "goalboard_delete_task",
		Title:       "Goal Board: Delete Task",
		Description: deleteTaskDescription,
	}, c.DeleteTaskHandler)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "goalboard_sort_tasks",
		Title:       "Goal Board: Sort Tasks",
		Description: "Sort every lane by priority or by due date.",
	}, c.SortTasksHandler)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "goalboard_generate_tasks",
		Title:       "Goal Board: Generate Tasks",
		Description: "Replace the whole board with tasks generated from a project description. Existing tasks are discarded.",
	}, c.GenerateTasksHandler)

	return server
}
