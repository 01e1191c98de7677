package internal

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazz187/goalboard/internal/client"
	"github.com/kazz187/goalboard/internal/config"
	"github.com/kazz187/goalboard/internal/eventbus"
	"github.com/kazz187/goalboard/internal/generation"
	"github.com/kazz187/goalboard/internal/goal"
)

const testAPIKey = "test-key"

func newTestStack(t *testing.T) *httptest.Server {
	t.Helper()
	genSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"tasks":[
			{"task":"Outline","description":"List chapters","daysToFinish":2},
			{"task":"Draft","description":"Write it","daysToFinish":5},
			{"task":"Edit","description":"Polish","daysToFinish":10}
		]}`)
	}))
	t.Cleanup(genSrv.Close)

	env := &config.Env{BaseEnv: config.BaseEnv{APIKey: testAPIKey}}
	bus := eventbus.New()
	board := goal.NewBoard(
		goal.WithEventBus(bus),
		goal.WithGenerator(generation.NewClient(genSrv.URL, time.Second)),
	)
	srv := NewServer(env, goal.NewServer(board, bus))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestServer_APIKey(t *testing.T) {
	ctx := context.Background()
	ts := newTestStack(t)

	_, err := client.NewBoardClient(ts.Client(), ts.URL, "wrong").GetBoard(ctx)
	require.Error(t, err)
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))

	resp, err := ts.Client().Get(ts.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/board", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	resp, err = ts.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req, err = http.NewRequest(http.MethodGet, ts.URL+"/api/nowhere", nil)
	require.NoError(t, err)
	req.Header.Set("X-API-Key", testAPIKey)
	resp, err = ts.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_BoardFlow(t *testing.T) {
	ctx := context.Background()
	ts := newTestStack(t)
	c := client.NewBoardClient(ts.Client(), ts.URL, testAPIKey)

	board, err := c.GenerateTasks(ctx, goal.GenerateRequest{ProjectName: "Novel", ProjectDescription: "write a novel"})
	require.NoError(t, err)
	assert.Equal(t, "Novel", board.Name)
	todo := board.Lane(goal.StatusTodo)
	require.Len(t, todo, 3)
	assert.Equal(t, "Outline", todo[0].Name)

	outline, draft := todo[0], todo[1]
	_, board, err = c.UpdateTask(ctx, draft.ID, goal.Patch{Dependencies: &[]string{outline.ID}})
	require.NoError(t, err)

	_, err = c.MoveTaskTo(ctx, draft.ID, goal.StatusCompleted, 0)
	require.Error(t, err)
	assert.Equal(t, connect.CodeFailedPrecondition, connect.CodeOf(err))

	_, err = c.MoveTaskTo(ctx, "missing", goal.StatusInProgress, -1)
	require.Error(t, err)
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))

	_, err = c.MoveTaskTo(ctx, outline.ID, goal.StatusCompleted, -1)
	require.NoError(t, err)
	board, err = c.MoveTaskTo(ctx, draft.ID, goal.StatusCompleted, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{outline.ID, draft.ID}, board.Lanes[goal.StatusCompleted])

	candidates, err := c.ListCandidates(ctx, outline.ID)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Edit", candidates[0].Name)

	detail, err := c.GetTask(ctx, outline.ID)
	require.NoError(t, err)
	require.Len(t, detail.Dependents, 1)
	assert.Equal(t, draft.ID, detail.Dependents[0].ID)

	board, err = c.DeleteTask(ctx, outline.ID)
	require.NoError(t, err)
	assert.Empty(t, board.Task(draft.ID).Dependencies)

	board, err = c.SortTasks(ctx, goal.SortKeyDueDate)
	require.NoError(t, err)
	assert.Len(t, board.Tasks, 2)

	board, err = c.RenameBoard(ctx, "Short story")
	require.NoError(t, err)
	assert.Equal(t, "Short story", board.Name)

	canceled, err := c.CancelGeneration(ctx)
	require.NoError(t, err)
	assert.False(t, canceled)
}

func TestServer_Watch(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ts := newTestStack(t)
	c := client.NewBoardClient(ts.Client(), ts.URL, testAPIKey)

	received := make(chan *goal.BoardEvent, 4)
	go func() {
		_ = c.WatchBoard(ctx, nil, func(ev *goal.BoardEvent) error {
			received <- ev
			return nil
		})
	}()

	first := <-received
	assert.Nil(t, first.Event)

	_, err := c.RenameBoard(ctx, "Watched")
	require.NoError(t, err)

	select {
	case ev := <-received:
		require.NotNil(t, ev.Event)
		assert.Equal(t, eventbus.EventTypeBoardRenamed, ev.Event.Type)
		assert.Equal(t, "Watched", ev.Board.Name)
	case <-ctx.Done():
		t.Fatal("no event received")
	}
}
