package repositoryimpl

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazz187/goalboard/internal/goal"
	"github.com/kazz187/goalboard/pkg/cerr"
	"github.com/kazz187/goalboard/pkg/storage"
)

func TestYAMLRepository_SaveLoad(t *testing.T) {
	ctx := context.Background()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	repo := NewYAMLRepository(store, "")

	_, err = repo.Load(ctx)
	assert.True(t, cerr.IsCode(err, cerr.NotFound))

	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	board := goal.NewBoard(goal.WithName("Podcast"), goal.WithClock(func() time.Time { return now }))
	a, _, err := board.CreateTask(ctx, goal.Draft{Name: "Pick a topic", DueDate: goal.NewDate(2026, 10, 20), Priority: 3})
	require.NoError(t, err)
	b, _, err := board.CreateTask(ctx, goal.Draft{Name: "Record", DueDate: goal.NewDate(2026, 10, 25), Priority: 2, Dependencies: []string{a.ID}})
	require.NoError(t, err)
	_, err = board.MoveTask(ctx, goal.MoveRequest{TaskID: a.ID, SourceStatus: goal.StatusTodo, DestStatus: goal.StatusCompleted})
	require.NoError(t, err)

	saved := board.Document()
	require.NoError(t, repo.Save(ctx, saved))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Podcast", loaded.Name)
	assert.Equal(t, saved.Version, loaded.Version)
	assert.Equal(t, saved.Lanes, loaded.Lanes)
	require.Len(t, loaded.Tasks, 2)
	assert.Equal(t, goal.NewDate(2026, 10, 25), loaded.Tasks[1].DueDate)
	assert.Equal(t, []string{a.ID}, loaded.Tasks[1].Dependencies)

	restored := goal.NewBoard()
	require.NoError(t, restored.Restore(ctx, loaded))
	snap := restored.Snapshot()
	assert.Equal(t, "Podcast", snap.Name)
	assert.Equal(t, []string{b.ID}, snap.Lanes[goal.StatusTodo])
	assert.Equal(t, []string{a.ID}, snap.Lanes[goal.StatusCompleted])
	assert.Equal(t, goal.StatusCompleted, snap.Task(a.ID).Status)
}
