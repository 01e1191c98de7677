package goal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

func newTestBoard(opts ...Option) *Board {
	return NewBoard(append([]Option{WithClock(func() time.Time { return testNow })}, opts...)...)
}

func mustCreate(t *testing.T, b *Board, name string, priority int, deps ...string) *Task {
	t.Helper()
	task, _, err := b.CreateTask(context.Background(), Draft{
		Name:         name,
		DueDate:      NewDate(2026, 11, 1),
		Priority:     priority,
		Dependencies: deps,
	})
	require.NoError(t, err)
	return task
}

func mustMove(t *testing.T, b *Board, id string, to Status) *Snapshot {
	t.Helper()
	from := b.Snapshot().Task(id).Status
	snap, err := b.MoveTask(context.Background(), MoveRequest{TaskID: id, SourceStatus: from, DestStatus: to})
	require.NoError(t, err)
	return snap
}

func ptr[T any](v T) *T {
	return &v
}
