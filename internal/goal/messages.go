package goal

import "github.com/kazz187/goalboard/internal/eventbus"

type GetBoardRequest struct{}

type GetBoardResponse struct {
	Board *Snapshot `json:"board"`
}

type GetTaskRequest struct {
	ID string `json:"id"`
}

type GetTaskResponse struct {
	Detail *TaskDetail `json:"detail"`
}

type ListCandidatesRequest struct {
	// ID is empty when listing candidates for a task not created yet.
	ID string `json:"id,omitempty"`
}

type ListCandidatesResponse struct {
	Candidates []*Task `json:"candidates"`
}

type CreateTaskRequest struct {
	Draft
}

type CreateTaskResponse struct {
	Task  *Task     `json:"task"`
	Board *Snapshot `json:"board"`
}

type UpdateTaskRequest struct {
	ID string `json:"id"`
	Patch
}

type UpdateTaskResponse struct {
	Task  *Task     `json:"task"`
	Board *Snapshot `json:"board"`
}

type DeleteTaskRequest struct {
	ID string `json:"id"`
}

type DeleteTaskResponse struct {
	Board *Snapshot `json:"board"`
}

type MoveTaskRequest struct {
	MoveRequest
}

type MoveTaskResponse struct {
	Board *Snapshot `json:"board"`
}

type SortTasksRequest struct {
	Key SortKey `json:"key"`
}

type SortTasksResponse struct {
	Board *Snapshot `json:"board"`
}

type GenerateTasksRequest struct {
	GenerateRequest
}

type GenerateTasksResponse struct {
	Board *Snapshot `json:"board"`
}

type CancelGenerationRequest struct{}

type CancelGenerationResponse struct {
	Canceled bool `json:"canceled"`
}

type RenameBoardRequest struct {
	Name string `json:"name"`
}

type RenameBoardResponse struct {
	Board *Snapshot `json:"board"`
}

type WatchBoardRequest struct {
	// Types limits the stream to these event types. Empty means all.
	Types []eventbus.EventType `json:"types,omitempty"`
}

// BoardEvent is one message of the WatchBoard stream. The first message has
// no Event and carries the board as it was when the stream opened.
type BoardEvent struct {
	Event *eventbus.Event `json:"event,omitempty"`
	Board *Snapshot       `json:"board"`
}
