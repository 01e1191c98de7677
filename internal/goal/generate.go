package goal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/kazz187/goalboard/internal/eventbus"
	"github.com/kazz187/goalboard/internal/generation"
	"github.com/kazz187/goalboard/pkg/cerr"
)

// GeneratedPriority is the priority given to every generated task.
const GeneratedPriority = 1

type GenerateRequest struct {
	// ProjectName, when set, becomes the board name once generation succeeds.
	ProjectName        string `json:"project_name,omitempty"`
	ProjectDescription string `json:"project_description"`
}

// generationState tracks the one generation request allowed to apply its
// result. Each new request bumps seq and cancels the previous one.
type generationState struct {
	seq       uint64
	cancel    context.CancelFunc
	cancelled uint64
}

// GenerateFromDescription replaces the whole board with tasks proposed by
// the generation service. The remote call runs without holding the board
// lock; its result is applied only if no newer request was issued and the
// request was not cancelled meanwhile.
func (b *Board) GenerateFromDescription(ctx context.Context, req GenerateRequest) (*Snapshot, error) {
	if strings.TrimSpace(req.ProjectDescription) == "" {
		return nil, validationError("project description must not be empty")
	}
	if b.generator == nil {
		return nil, generationError(cerr.Unavailable, "task generation is not configured", nil)
	}

	seq, genCtx := b.beginGeneration(ctx)
	suggestions, genErr := b.generator.Generate(genCtx, req.ProjectDescription)

	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.finishGenerationLocked(seq); err != nil {
		slog.InfoContext(ctx, "discarded generation result", "seq", seq, "error", err)
		return nil, err
	}
	if genErr != nil {
		slog.WarnContext(ctx, "task generation failed", "seq", seq, "error", genErr)
		b.publish(eventbus.EventTypeGenerationFailed, "", map[string]string{"error": genErr.Error()})
		if errors.Is(genErr, context.Canceled) {
			return nil, generationError(cerr.Canceled, "task generation was canceled", genErr)
		}
		return nil, generationError(cerr.Unavailable, "task generation failed", genErr)
	}

	repo, lanes, err := b.stage(suggestions)
	if err != nil {
		slog.WarnContext(ctx, "generation returned unusable tasks", "seq", seq, "error", err)
		b.publish(eventbus.EventTypeGenerationFailed, "", map[string]string{"error": err.Error()})
		return nil, generationError(cerr.Unavailable, "generation service returned unusable tasks", err)
	}

	b.repo = repo
	b.lanes = lanes
	if name := strings.TrimSpace(req.ProjectName); name != "" {
		b.name = name
	}
	slog.InfoContext(ctx, "board generated", "seq", seq, "tasks", repo.Len())
	return b.commitLocked(eventbus.EventTypeBoardGenerated, "", map[string]string{
		"tasks": strconv.Itoa(repo.Len()),
	}), nil
}

func (b *Board) beginGeneration(ctx context.Context) (uint64, context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.gen.cancel != nil {
		b.gen.cancel()
	}
	b.gen.seq++
	genCtx, cancel := context.WithCancel(ctx)
	b.gen.cancel = cancel
	b.publish(eventbus.EventTypeGenerationStarted, "", map[string]string{"seq": strconv.FormatUint(b.gen.seq, 10)})
	return b.gen.seq, genCtx
}

// finishGenerationLocked returns an error when the request seq may no longer
// apply its result. Otherwise it releases the request context.
func (b *Board) finishGenerationLocked(seq uint64) error {
	if b.gen.cancelled == seq {
		return generationError(cerr.Canceled, "task generation was canceled", context.Canceled)
	}
	if b.gen.seq != seq {
		return generationError(cerr.Aborted, "task generation was superseded by a newer request", nil)
	}
	b.gen.cancel()
	b.gen.cancel = nil
	return nil
}

// CancelGeneration cancels the in-flight generation request, if any.
func (b *Board) CancelGeneration(ctx context.Context) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.cancelGenerationLocked(ctx)
}

// cancelGenerationLocked stops the in-flight request so its result is never
// applied, and tells watchers the board is no longer generating.
func (b *Board) cancelGenerationLocked(ctx context.Context) bool {
	if b.gen.cancel == nil {
		return false
	}
	b.gen.cancel()
	b.gen.cancel = nil
	b.gen.cancelled = b.gen.seq
	slog.InfoContext(ctx, "task generation canceled", "seq", b.gen.seq)
	b.publish(eventbus.EventTypeGenerationCanceled, "", map[string]string{"seq": strconv.FormatUint(b.gen.seq, 10)})
	return true
}

// stage builds a fresh repository and lane order from suggestions without
// touching the current board.
func (b *Board) stage(suggestions []generation.Suggestion) (*Repository, *Lanes, error) {
	if len(suggestions) == 0 {
		return nil, nil, errors.New("no tasks were generated")
	}
	today := DateOf(b.now())
	repo := NewRepository(b.now)
	for i, s := range suggestions {
		if s.DaysToFinish <= 0 {
			return nil, nil, fmt.Errorf("tasks[%d]: non-positive daysToFinish %d", i, s.DaysToFinish)
		}
		if _, err := repo.Create(Draft{
			Name:        s.Task,
			Description: s.Description,
			DueDate:     today.AddDays(s.DaysToFinish),
			Priority:    GeneratedPriority,
		}); err != nil {
			// Flattened: a bad suggestion is a service fault, not ErrValidation.
			return nil, nil, fmt.Errorf("tasks[%d]: %v", i, err)
		}
	}
	lanes := NewLanes()
	lanes.Rebuild(repo.All())
	return repo, lanes, nil
}
