package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kazz187/goalboard/internal/client"
	"github.com/kazz187/goalboard/internal/goal"
	"github.com/kazz187/goalboard/pkg/cerr"
)

type GoalBoardClient struct {
	client *client.BoardClient
}

func NewGoalBoardClient(cfg *Config) *GoalBoardClient {
	return &GoalBoardClient{
		client: client.NewBoardClient(http.DefaultClient, cfg.BoardAddr, cfg.APIKey),
	}
}

func (c *GoalBoardClient) GetBoardHandler(ctx context.Context, _ *mcp.CallToolRequest, _ GetBoardInput) (*mcp.CallToolResult, any, error) {
	board, err := c.client.GetBoard(ctx)
	if err != nil {
		return errorResult("getting board", err), nil, nil
	}
	return jsonResult(board), nil, nil
}

func (c *GoalBoardClient) CreateTaskHandler(ctx context.Context, _ *mcp.CallToolRequest, in CreateTaskInput) (*mcp.CallToolResult, any, error) {
	due, err := goal.ParseDate(in.DueDate)
	if err != nil {
		return errorResult("creating task", err), nil, nil
	}
	task, _, err := c.client.CreateTask(ctx, goal.Draft{
		Name:         in.Name,
		Description:  in.Description,
		DueDate:      due,
		Priority:     in.Priority,
		Dependencies: in.Dependencies,
	})
	if err != nil {
		return errorResult("creating task", err), nil, nil
	}
	return jsonResult(task), nil, nil
}

func (c *GoalBoardClient) UpdateTaskHandler(ctx context.Context, _ *mcp.CallToolRequest, in UpdateTaskInput) (*mcp.CallToolResult, any, error) {
	patch := goal.Patch{
		Name:         in.Name,
		Description:  in.Description,
		Priority:     in.Priority,
		Dependencies: in.Dependencies,
	}
	if in.DueDate != nil {
		due, err := goal.ParseDate(*in.DueDate)
		if err != nil {
			return errorResult("updating task", err), nil, nil
		}
		patch.DueDate = &due
	}
	task, _, err := c.client.UpdateTask(ctx, in.ID, patch)
	if err != nil {
		return errorResult("updating task", err), nil, nil
	}
	return jsonResult(task), nil, nil
}

func (c *GoalBoardClient) MoveTaskHandler(ctx context.Context, _ *mcp.CallToolRequest, in MoveTaskInput) (*mcp.CallToolResult, any, error) {
	status, err := goal.ParseStatus(in.Status)
	if err != nil {
		return errorResult("moving task", err), nil, nil
	}
	index := -1
	if in.Index != nil {
		index = *in.Index
	}
	board, err := c.client.MoveTaskTo(ctx, in.ID, status, index)
	if err != nil {
		return errorResult("moving task", err), nil, nil
	}
	return jsonResult(board), nil, nil
}

func (c *GoalBoardClient) DeleteTaskHandler(ctx context.Context, _ *mcp.CallToolRequest, in DeleteTaskInput) (*mcp.CallToolResult, any, error) {
	board, err := c.client.DeleteTask(ctx, in.ID)
	if err != nil {
		return errorResult("deleting task", err), nil, nil
	}
	return jsonResult(board), nil, nil
}

func (c *GoalBoardClient) SortTasksHandler(ctx context.Context, _ *mcp.CallToolRequest, in SortTasksInput) (*mcp.CallToolResult, any, error) {
	key, err := goal.ParseSortKey(in.Key)
	if err != nil {
		return errorResult("sorting tasks", err), nil, nil
	}
	board, err := c.client.SortTasks(ctx, key)
	if err != nil {
		return errorResult("sorting tasks", err), nil, nil
	}
	return jsonResult(board), nil, nil
}

func (c *GoalBoardClient) GenerateTasksHandler(ctx context.Context, _ *mcp.CallToolRequest, in GenerateTasksInput) (*mcp.CallToolResult, any, error) {
	board, err := c.client.GenerateTasks(ctx, goal.GenerateRequest{
		ProjectName:        in.ProjectName,
		ProjectDescription: in.ProjectDescription,
	})
	if err != nil {
		return errorResult("generating tasks", err), nil, nil
	}
	return jsonResult(board), nil, nil
}

func jsonResult(v any) *mcp.CallToolResult {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("encoding result", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{
				Text: string(jsonData),
			},
		},
	}
}

// errorResult reports a failed call to the model as tool output. Blocking
// dependency ids are listed so the model can advance them first.
func errorResult(action string, err error) *mcp.CallToolResult {
	text := fmt.Sprintf("Error %s: %v", action, err)
	for _, v := range cerr.ViolationsFromConnectError(err) {
		text += fmt.Sprintf("\n- %s (%s)", v.Message, v.RuleID)
	}
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{
				Text: text,
			},
		},
	}
}
