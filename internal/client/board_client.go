package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/kazz187/goalboard/internal/eventbus"
	"github.com/kazz187/goalboard/internal/goal"
	"github.com/kazz187/goalboard/pkg/jsoncodec"
)

// BoardClient provides client operations for the board service
type BoardClient struct {
	getBoard         *connect.Client[goal.GetBoardRequest, goal.GetBoardResponse]
	getTask          *connect.Client[goal.GetTaskRequest, goal.GetTaskResponse]
	listCandidates   *connect.Client[goal.ListCandidatesRequest, goal.ListCandidatesResponse]
	createTask       *connect.Client[goal.CreateTaskRequest, goal.CreateTaskResponse]
	updateTask       *connect.Client[goal.UpdateTaskRequest, goal.UpdateTaskResponse]
	deleteTask       *connect.Client[goal.DeleteTaskRequest, goal.DeleteTaskResponse]
	moveTask         *connect.Client[goal.MoveTaskRequest, goal.MoveTaskResponse]
	sortTasks        *connect.Client[goal.SortTasksRequest, goal.SortTasksResponse]
	generateTasks    *connect.Client[goal.GenerateTasksRequest, goal.GenerateTasksResponse]
	cancelGeneration *connect.Client[goal.CancelGenerationRequest, goal.CancelGenerationResponse]
	renameBoard      *connect.Client[goal.RenameBoardRequest, goal.RenameBoardResponse]
	watchBoard       *connect.Client[goal.WatchBoardRequest, goal.BoardEvent]
}

// NewBoardClient creates a new board client. An empty apiKey sends no key.
func NewBoardClient(httpClient connect.HTTPClient, baseURL, apiKey string, opts ...connect.ClientOption) *BoardClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{
		connect.WithCodec(jsoncodec.Codec{}),
		connect.WithInterceptors(newAPIKeyInterceptor(apiKey)),
	}, opts...)

	return &BoardClient{
		getBoard:         connect.NewClient[goal.GetBoardRequest, goal.GetBoardResponse](httpClient, baseURL+goal.BoardServiceGetBoardProcedure, opts...),
		getTask:          connect.NewClient[goal.GetTaskRequest, goal.GetTaskResponse](httpClient, baseURL+goal.BoardServiceGetTaskProcedure, opts...),
		listCandidates:   connect.NewClient[goal.ListCandidatesRequest, goal.ListCandidatesResponse](httpClient, baseURL+goal.BoardServiceListCandidatesProcedure, opts...),
		createTask:       connect.NewClient[goal.CreateTaskRequest, goal.CreateTaskResponse](httpClient, baseURL+goal.BoardServiceCreateTaskProcedure, opts...),
		updateTask:       connect.NewClient[goal.UpdateTaskRequest, goal.UpdateTaskResponse](httpClient, baseURL+goal.BoardServiceUpdateTaskProcedure, opts...),
		deleteTask:       connect.NewClient[goal.DeleteTaskRequest, goal.DeleteTaskResponse](httpClient, baseURL+goal.BoardServiceDeleteTaskProcedure, opts...),
		moveTask:         connect.NewClient[goal.MoveTaskRequest, goal.MoveTaskResponse](httpClient, baseURL+goal.BoardServiceMoveTaskProcedure, opts...),
		sortTasks:        connect.NewClient[goal.SortTasksRequest, goal.SortTasksResponse](httpClient, baseURL+goal.BoardServiceSortTasksProcedure, opts...),
		generateTasks:    connect.NewClient[goal.GenerateTasksRequest, goal.GenerateTasksResponse](httpClient, baseURL+goal.BoardServiceGenerateTasksProcedure, opts...),
		cancelGeneration: connect.NewClient[goal.CancelGenerationRequest, goal.CancelGenerationResponse](httpClient, baseURL+goal.BoardServiceCancelGenerationProcedure, opts...),
		renameBoard:      connect.NewClient[goal.RenameBoardRequest, goal.RenameBoardResponse](httpClient, baseURL+goal.BoardServiceRenameBoardProcedure, opts...),
		watchBoard:       connect.NewClient[goal.WatchBoardRequest, goal.BoardEvent](httpClient, baseURL+goal.BoardServiceWatchBoardProcedure, opts...),
	}
}

// GetBoard gets the whole board
func (c *BoardClient) GetBoard(ctx context.Context) (*goal.Snapshot, error) {
	resp, err := c.getBoard.CallUnary(ctx, connect.NewRequest(&goal.GetBoardRequest{}))
	if err != nil {
		return nil, fmt.Errorf("failed to get board: %w", err)
	}
	return resp.Msg.Board, nil
}

// GetTask gets the detail view of a task
func (c *BoardClient) GetTask(ctx context.Context, id string) (*goal.TaskDetail, error) {
	resp, err := c.getTask.CallUnary(ctx, connect.NewRequest(&goal.GetTaskRequest{ID: id}))
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return resp.Msg.Detail, nil
}

// ListCandidates lists the tasks id may depend on
func (c *BoardClient) ListCandidates(ctx context.Context, id string) ([]*goal.Task, error) {
	resp, err := c.listCandidates.CallUnary(ctx, connect.NewRequest(&goal.ListCandidatesRequest{ID: id}))
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	return resp.Msg.Candidates, nil
}

// CreateTask creates a new task
func (c *BoardClient) CreateTask(ctx context.Context, d goal.Draft) (*goal.Task, *goal.Snapshot, error) {
	resp, err := c.createTask.CallUnary(ctx, connect.NewRequest(&goal.CreateTaskRequest{Draft: d}))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create task: %w", err)
	}
	return resp.Msg.Task, resp.Msg.Board, nil
}

// UpdateTask updates the fields set in p
func (c *BoardClient) UpdateTask(ctx context.Context, id string, p goal.Patch) (*goal.Task, *goal.Snapshot, error) {
	resp, err := c.updateTask.CallUnary(ctx, connect.NewRequest(&goal.UpdateTaskRequest{ID: id, Patch: p}))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to update task: %w", err)
	}
	return resp.Msg.Task, resp.Msg.Board, nil
}

// DeleteTask deletes a task
func (c *BoardClient) DeleteTask(ctx context.Context, id string) (*goal.Snapshot, error) {
	resp, err := c.deleteTask.CallUnary(ctx, connect.NewRequest(&goal.DeleteTaskRequest{ID: id}))
	if err != nil {
		return nil, fmt.Errorf("failed to delete task: %w", err)
	}
	return resp.Msg.Board, nil
}

// MoveTask moves a task between or within lanes
func (c *BoardClient) MoveTask(ctx context.Context, req goal.MoveRequest) (*goal.Snapshot, error) {
	resp, err := c.moveTask.CallUnary(ctx, connect.NewRequest(&goal.MoveTaskRequest{MoveRequest: req}))
	if err != nil {
		return nil, fmt.Errorf("failed to move task: %w", err)
	}
	return resp.Msg.Board, nil
}

// MoveTaskTo moves a task to the given position of another lane, looking up
// where it currently is.
func (c *BoardClient) MoveTaskTo(ctx context.Context, id string, dest goal.Status, destIndex int) (*goal.Snapshot, error) {
	board, err := c.GetBoard(ctx)
	if err != nil {
		return nil, err
	}
	t := board.Task(id)
	if t == nil {
		return nil, fmt.Errorf("failed to move task: %w", connect.NewError(connect.CodeNotFound, fmt.Errorf("task %q not found", id)))
	}
	sourceIndex := 0
	for i, laneID := range board.Lanes[t.Status] {
		if laneID == id {
			sourceIndex = i
			break
		}
	}
	if destIndex < 0 {
		destIndex = len(board.Lanes[dest])
	}
	return c.MoveTask(ctx, goal.MoveRequest{
		TaskID:       id,
		SourceStatus: t.Status,
		SourceIndex:  sourceIndex,
		DestStatus:   dest,
		DestIndex:    destIndex,
	})
}

// SortTasks sorts every lane by key
func (c *BoardClient) SortTasks(ctx context.Context, key goal.SortKey) (*goal.Snapshot, error) {
	resp, err := c.sortTasks.CallUnary(ctx, connect.NewRequest(&goal.SortTasksRequest{Key: key}))
	if err != nil {
		return nil, fmt.Errorf("failed to sort tasks: %w", err)
	}
	return resp.Msg.Board, nil
}

// GenerateTasks replaces the board with generated tasks
func (c *BoardClient) GenerateTasks(ctx context.Context, req goal.GenerateRequest) (*goal.Snapshot, error) {
	resp, err := c.generateTasks.CallUnary(ctx, connect.NewRequest(&goal.GenerateTasksRequest{GenerateRequest: req}))
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}
	return resp.Msg.Board, nil
}

// CancelGeneration cancels the running generation
func (c *BoardClient) CancelGeneration(ctx context.Context) (bool, error) {
	resp, err := c.cancelGeneration.CallUnary(ctx, connect.NewRequest(&goal.CancelGenerationRequest{}))
	if err != nil {
		return false, fmt.Errorf("failed to cancel generation: %w", err)
	}
	return resp.Msg.Canceled, nil
}

// RenameBoard renames the board
func (c *BoardClient) RenameBoard(ctx context.Context, name string) (*goal.Snapshot, error) {
	resp, err := c.renameBoard.CallUnary(ctx, connect.NewRequest(&goal.RenameBoardRequest{Name: name}))
	if err != nil {
		return nil, fmt.Errorf("failed to rename board: %w", err)
	}
	return resp.Msg.Board, nil
}

// WatchBoard calls fn for every board event of the given types (all types
// when empty) until ctx is done or fn returns an error.
func (c *BoardClient) WatchBoard(ctx context.Context, types []eventbus.EventType, fn func(*goal.BoardEvent) error) error {
	stream, err := c.watchBoard.CallServerStream(ctx, connect.NewRequest(&goal.WatchBoardRequest{Types: types}))
	if err != nil {
		return fmt.Errorf("failed to watch board: %w", err)
	}
	defer stream.Close()

	for stream.Receive() {
		if err := fn(stream.Msg()); err != nil {
			return err
		}
	}
	if err := stream.Err(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("board stream ended: %w", err)
	}
	return nil
}
