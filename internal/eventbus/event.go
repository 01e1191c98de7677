package eventbus

import "time"

type EventType string

const (
	EventTypeTaskCreated        EventType = "task_created"
	EventTypeTaskUpdated        EventType = "task_updated"
	EventTypeTaskDeleted        EventType = "task_deleted"
	EventTypeTaskMoved          EventType = "task_moved"
	EventTypeBoardSorted        EventType = "board_sorted"
	EventTypeBoardGenerated     EventType = "board_generated"
	EventTypeBoardRenamed       EventType = "board_renamed"
	EventTypeBoardRestored      EventType = "board_restored"
	EventTypeGenerationStarted  EventType = "generation_started"
	EventTypeGenerationFailed   EventType = "generation_failed"
	EventTypeGenerationCanceled EventType = "generation_canceled"
)

// BoardChanges are the event types after which the saved board differs
// from the live one.
var BoardChanges = []EventType{
	EventTypeTaskCreated,
	EventTypeTaskUpdated,
	EventTypeTaskDeleted,
	EventTypeTaskMoved,
	EventTypeBoardSorted,
	EventTypeBoardGenerated,
	EventTypeBoardRenamed,
	EventTypeBoardRestored,
}

// Event is a notification that the board changed. ResourceID is the task id
// for task events and empty for board-wide events.
type Event struct {
	ID         string            `json:"id"`
	Type       EventType         `json:"type"`
	ResourceID string            `json:"resource_id,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}
