package goal

import (
	"context"
	"fmt"
	"strings"

	"github.com/kazz187/goalboard/internal/eventbus"
	"github.com/kazz187/goalboard/pkg/cerr"
)

// Document is the persisted form of a board: every task plus the order of
// each lane.
type Document struct {
	Name    string    `yaml:"name"`
	Version uint64    `yaml:"version"`
	Tasks   []*Task   `yaml:"tasks"`
	Lanes   LaneOrder `yaml:"lanes"`
}

// DocumentRepository stores board documents. Load returns a cerr.NotFound
// error when nothing has been saved yet.
type DocumentRepository interface {
	Load(ctx context.Context) (*Document, error)
	Save(ctx context.Context, doc *Document) error
}

func (b *Board) Document() *Document {
	b.mu.Lock()
	defer b.mu.Unlock()
	return &Document{
		Name:    b.name,
		Version: b.version,
		Tasks:   b.repo.All(),
		Lanes:   b.lanes.Order(),
	}
}

// Restore replaces the board with doc after checking every board invariant.
// A document that fails any check leaves the board unchanged.
func (b *Board) Restore(ctx context.Context, doc *Document) error {
	if doc == nil {
		return validationError("document is empty")
	}
	repo := NewRepository(b.now)
	if err := repo.load(doc.Tasks); err != nil {
		return err
	}
	if cycle := NewGraph(repo.All()).FindCycle(); cycle != nil {
		return cerr.NewError(cerr.FailedPrecondition,
			fmt.Sprintf("document has a dependency cycle: %s -> %s", strings.Join(cycle, " -> "), cycle[0]),
			ErrCycleRejected)
	}
	lanes := NewLanes()
	lanes.Replace(doc.Lanes)
	if err := lanes.Verify(repo); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.cancelGenerationLocked(ctx)
	b.repo = repo
	b.lanes = lanes
	if name := strings.TrimSpace(doc.Name); name != "" {
		b.name = name
	}
	b.version = doc.Version
	b.publish(eventbus.EventTypeBoardRestored, "", nil)
	return nil
}
