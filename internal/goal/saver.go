package goal

import (
	"context"
	"log/slog"

	"github.com/kazz187/goalboard/internal/eventbus"
)

// Saver writes the board document to a DocumentRepository after every change
// published on the event bus.
type Saver struct {
	board     *Board
	repo      DocumentRepository
	bus       *eventbus.Bus
	lastSaved uint64
}

func NewSaver(board *Board, repo DocumentRepository, bus *eventbus.Bus) *Saver {
	return &Saver{board: board, repo: repo, bus: bus}
}

// Start saves until ctx is done. A final save runs on the way out so the
// last change is not lost on shutdown.
func (s *Saver) Start(ctx context.Context) error {
	subID, ch := s.bus.Subscribe(64, eventbus.BoardChanges...)
	defer s.bus.Unsubscribe(subID)
	s.lastSaved = s.board.Document().Version

	for {
		select {
		case <-ctx.Done():
			return s.save(context.WithoutCancel(ctx))
		case _, ok := <-ch:
			if !ok {
				return nil
			}
			// Coalesce a burst of events into one write.
			drain(ch)
			if err := s.save(ctx); err != nil {
				slog.ErrorContext(ctx, "failed to save board", "error", err)
			}
		}
	}
}

func (s *Saver) save(ctx context.Context) error {
	doc := s.board.Document()
	if doc.Version == s.lastSaved {
		return nil
	}
	if err := s.repo.Save(ctx, doc); err != nil {
		return err
	}
	s.lastSaved = doc.Version
	slog.DebugContext(ctx, "board saved", "version", doc.Version, "tasks", len(doc.Tasks))
	return nil
}

func drain(ch <-chan *eventbus.Event) {
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		default:
			return
		}
	}
}
