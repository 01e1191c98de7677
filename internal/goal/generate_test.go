package goal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazz187/goalboard/internal/eventbus"
	"github.com/kazz187/goalboard/internal/generation"
	"github.com/kazz187/goalboard/pkg/cerr"
)

type generatorFunc func(ctx context.Context, description string) ([]generation.Suggestion, error)

func (f generatorFunc) Generate(ctx context.Context, description string) ([]generation.Suggestion, error) {
	return f(ctx, description)
}

func staticGenerator(suggestions ...generation.Suggestion) generatorFunc {
	return func(context.Context, string) ([]generation.Suggestion, error) {
		return suggestions, nil
	}
}

// Scenario: three suggestions due in 2, 5 and 10 days replace the board.
func TestGenerateFromDescription(t *testing.T) {
	ctx := context.Background()
	b := newTestBoard(WithGenerator(staticGenerator(
		generation.Suggestion{Task: "Research", Description: "Read papers", DaysToFinish: 2},
		generation.Suggestion{Task: "Write", Description: "Draft chapters", DaysToFinish: 5},
		generation.Suggestion{Task: "Review", Description: "Proofread", DaysToFinish: 10},
	)))
	old := mustCreate(t, b, "old task", 3)

	snap, err := b.GenerateFromDescription(ctx, GenerateRequest{ProjectName: "Thesis", ProjectDescription: "write a thesis"})
	require.NoError(t, err)
	assert.Equal(t, "Thesis", snap.Name)
	assert.Nil(t, snap.Task(old.ID))
	require.Len(t, snap.Tasks, 3)

	today := DateOf(testNow)
	wantDue := []Date{today.AddDays(2), today.AddDays(5), today.AddDays(10)}
	wantNames := []string{"Research", "Write", "Review"}
	todo := snap.Lane(StatusTodo)
	require.Len(t, todo, 3)
	for i, task := range todo {
		assert.Equal(t, wantNames[i], task.Name)
		assert.Equal(t, wantDue[i], task.DueDate)
		assert.Equal(t, StatusTodo, task.Status)
		assert.Equal(t, GeneratedPriority, task.Priority)
		assert.Empty(t, task.Dependencies)
	}
	assert.Empty(t, snap.Lanes[StatusInProgress])
	assert.Empty(t, snap.Lanes[StatusCompleted])
	assert.False(t, snap.Generating)
}

func TestGenerateFromDescription_FailureLeavesBoard(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		gen  Generator
	}{
		{name: "service error", gen: generatorFunc(func(context.Context, string) ([]generation.Suggestion, error) {
			return nil, errors.New("connection refused")
		})},
		{name: "bad days", gen: staticGenerator(
			generation.Suggestion{Task: "ok", DaysToFinish: 1},
			generation.Suggestion{Task: "bad", DaysToFinish: 0},
		)},
		{name: "empty name", gen: staticGenerator(generation.Suggestion{Task: "", DaysToFinish: 3})},
		{name: "no tasks", gen: staticGenerator()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBoard(WithGenerator(tt.gen))
			mustCreate(t, b, "keep me", 2)
			before := b.Snapshot()

			_, err := b.GenerateFromDescription(ctx, GenerateRequest{ProjectName: "New", ProjectDescription: "anything"})
			require.ErrorIs(t, err, ErrGenerationService)
			assert.NotErrorIs(t, err, ErrValidation)
			assert.True(t, cerr.IsCode(err, cerr.Unavailable))
			assert.Equal(t, before, b.Snapshot())
		})
	}
}

func TestGenerateFromDescription_Validation(t *testing.T) {
	b := newTestBoard(WithGenerator(staticGenerator()))
	_, err := b.GenerateFromDescription(context.Background(), GenerateRequest{ProjectDescription: "  "})
	assert.ErrorIs(t, err, ErrValidation)

	unconfigured := newTestBoard()
	_, err = unconfigured.GenerateFromDescription(context.Background(), GenerateRequest{ProjectDescription: "x"})
	assert.ErrorIs(t, err, ErrGenerationService)
}

// blockingGenerator answers each call only when released, ignoring
// cancellation so stale responses really arrive late.
type blockingGenerator struct {
	started chan string
	release map[string]chan []generation.Suggestion
}

func newBlockingGenerator(descriptions ...string) *blockingGenerator {
	g := &blockingGenerator{
		started: make(chan string, len(descriptions)),
		release: make(map[string]chan []generation.Suggestion),
	}
	for _, d := range descriptions {
		g.release[d] = make(chan []generation.Suggestion, 1)
	}
	return g
}

func (g *blockingGenerator) Generate(ctx context.Context, description string) ([]generation.Suggestion, error) {
	g.started <- description
	return <-g.release[description], nil
}

func waitStarted(t *testing.T, g *blockingGenerator, want string) {
	t.Helper()
	select {
	case got := <-g.started:
		require.Equal(t, want, got)
	case <-time.After(2 * time.Second):
		t.Fatalf("generation %q did not start", want)
	}
}

type result struct {
	snap *Snapshot
	err  error
}

func TestGenerateFromDescription_SupersededResponseDiscarded(t *testing.T) {
	ctx := context.Background()
	gen := newBlockingGenerator("first", "second")
	b := newTestBoard(WithGenerator(gen))

	firstDone := make(chan result, 1)
	go func() {
		snap, err := b.GenerateFromDescription(ctx, GenerateRequest{ProjectDescription: "first"})
		firstDone <- result{snap, err}
	}()
	waitStarted(t, gen, "first")
	assert.True(t, b.Snapshot().Generating)

	secondDone := make(chan result, 1)
	go func() {
		snap, err := b.GenerateFromDescription(ctx, GenerateRequest{ProjectDescription: "second"})
		secondDone <- result{snap, err}
	}()
	waitStarted(t, gen, "second")

	gen.release["second"] <- []generation.Suggestion{{Task: "from second", Description: "", DaysToFinish: 1}}
	second := <-secondDone
	require.NoError(t, second.err)

	gen.release["first"] <- []generation.Suggestion{{Task: "from first", Description: "", DaysToFinish: 1}}
	first := <-firstDone
	require.ErrorIs(t, first.err, ErrGenerationService)
	assert.True(t, cerr.IsCode(first.err, cerr.Aborted))

	snap := b.Snapshot()
	require.Len(t, snap.Tasks, 1)
	assert.Equal(t, "from second", snap.Tasks[0].Name)
	assert.False(t, snap.Generating)
}

func TestGenerateFromDescription_CanceledResponseDiscarded(t *testing.T) {
	ctx := context.Background()
	gen := newBlockingGenerator("only")
	b := newTestBoard(WithGenerator(gen))
	keep := mustCreate(t, b, "keep me", 2)

	done := make(chan result, 1)
	go func() {
		snap, err := b.GenerateFromDescription(ctx, GenerateRequest{ProjectDescription: "only"})
		done <- result{snap, err}
	}()
	waitStarted(t, gen, "only")

	assert.True(t, b.CancelGeneration(ctx))
	assert.False(t, b.CancelGeneration(ctx), "nothing left to cancel")

	gen.release["only"] <- []generation.Suggestion{{Task: "late", Description: "", DaysToFinish: 1}}
	res := <-done
	require.ErrorIs(t, res.err, ErrGenerationService)
	assert.True(t, cerr.IsCode(res.err, cerr.Canceled))

	snap := b.Snapshot()
	require.Len(t, snap.Tasks, 1)
	assert.Equal(t, keep.ID, snap.Tasks[0].ID)
}

func TestGenerateFromDescription_CancelStopsRequestContext(t *testing.T) {
	ctx := context.Background()
	started := make(chan struct{})
	b := newTestBoard(WithGenerator(generatorFunc(func(ctx context.Context, _ string) ([]generation.Suggestion, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	})))

	done := make(chan error, 1)
	go func() {
		_, err := b.GenerateFromDescription(ctx, GenerateRequest{ProjectDescription: "x"})
		done <- err
	}()
	<-started
	require.True(t, b.CancelGeneration(ctx))

	select {
	case err := <-done:
		assert.True(t, cerr.IsCode(err, cerr.Canceled))
	case <-time.After(2 * time.Second):
		t.Fatal("generation was not canceled")
	}
}

func TestCancelGeneration_PublishesEvent(t *testing.T) {
	ctx := context.Background()
	bus := eventbus.New()
	subID, events := bus.Subscribe(8, eventbus.EventTypeGenerationCanceled)
	defer bus.Unsubscribe(subID)
	gen := newBlockingGenerator("only")
	b := newTestBoard(WithGenerator(gen), WithEventBus(bus))

	done := make(chan result, 1)
	go func() {
		snap, err := b.GenerateFromDescription(ctx, GenerateRequest{ProjectDescription: "only"})
		done <- result{snap, err}
	}()
	waitStarted(t, gen, "only")

	require.True(t, b.CancelGeneration(ctx))
	select {
	case ev := <-events:
		assert.Equal(t, eventbus.EventTypeGenerationCanceled, ev.Type)
		assert.Equal(t, "1", ev.Metadata["seq"])
	case <-time.After(2 * time.Second):
		t.Fatal("no generation_canceled event")
	}
	assert.False(t, b.Snapshot().Generating)

	gen.release["only"] <- nil
	<-done
}

func TestRestore_DiscardsPendingGeneration(t *testing.T) {
	ctx := context.Background()
	gen := newBlockingGenerator("plan")
	b := newTestBoard(WithGenerator(gen))

	done := make(chan result, 1)
	go func() {
		snap, err := b.GenerateFromDescription(ctx, GenerateRequest{ProjectDescription: "plan"})
		done <- result{snap, err}
	}()
	waitStarted(t, gen, "plan")

	require.NoError(t, b.Restore(ctx, validDocument()))
	assert.False(t, b.Snapshot().Generating)

	gen.release["plan"] <- []generation.Suggestion{{Task: "generated", DaysToFinish: 1}}
	res := <-done
	require.ErrorIs(t, res.err, ErrGenerationService)
	assert.True(t, cerr.IsCode(res.err, cerr.Canceled))

	snap := b.Snapshot()
	require.Len(t, snap.Tasks, 3)
	assert.NotNil(t, snap.Task("A"))
	assert.Equal(t, "Thesis", snap.Name)
}
