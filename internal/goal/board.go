package goal

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/kazz187/goalboard/internal/eventbus"
	"github.com/kazz187/goalboard/internal/generation"
)

const DefaultName = "Goals"

// Generator proposes tasks for a project description.
type Generator interface {
	Generate(ctx context.Context, description string) ([]generation.Suggestion, error)
}

type Option func(*Board)

func WithName(name string) Option {
	return func(b *Board) {
		if strings.TrimSpace(name) != "" {
			b.name = name
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(b *Board) {
		b.now = now
	}
}

func WithEventBus(bus *eventbus.Bus) Option {
	return func(b *Board) {
		b.bus = bus
	}
}

func WithGenerator(g Generator) Option {
	return func(b *Board) {
		b.generator = g
	}
}

// Board owns the tasks and their lane order. All mutations are serialized by
// mu and are all-or-nothing: a command that returns an error leaves the
// board exactly as it was.
type Board struct {
	mu        sync.Mutex
	name      string
	version   uint64
	repo      *Repository
	lanes     *Lanes
	policy    TransitionPolicy
	now       func() time.Time
	bus       *eventbus.Bus
	generator Generator
	gen       generationState
}

func NewBoard(opts ...Option) *Board {
	b := &Board{
		name: DefaultName,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.repo = NewRepository(b.now)
	b.lanes = NewLanes()
	return b
}

// Snapshot is the full board state returned by every command.
type Snapshot struct {
	Name       string    `json:"name"`
	Version    uint64    `json:"version"`
	Tasks      []*Task   `json:"tasks"`
	Lanes      LaneOrder `json:"lanes"`
	Generating bool      `json:"generating"`
}

// Task returns the task with the given id, or nil.
func (s *Snapshot) Task(id string) *Task {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// Lane returns the tasks of one lane in display order.
func (s *Snapshot) Lane(status Status) []*Task {
	byID := make(map[string]*Task, len(s.Tasks))
	for _, t := range s.Tasks {
		byID[t.ID] = t
	}
	var out []*Task
	for _, id := range s.Lanes[status] {
		if t, ok := byID[id]; ok {
			out = append(out, t)
		}
	}
	return out
}

// TaskRef identifies a related task in a detail view.
type TaskRef struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status Status `json:"status"`
}

// TaskDetail is a task together with everything an editor needs: its
// dependencies, the tasks depending on it, the tasks it may still depend
// on, and the dependencies blocking each lane it is not in.
type TaskDetail struct {
	Task         *Task               `json:"task"`
	Dependencies []TaskRef           `json:"dependencies"`
	Dependents   []TaskRef           `json:"dependents"`
	Candidates   []TaskRef           `json:"candidates"`
	Blocking     map[Status][]string `json:"blocking,omitempty"`
}

func (b *Board) Snapshot() *Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotLocked()
}

func (b *Board) snapshotLocked() *Snapshot {
	return &Snapshot{
		Name:       b.name,
		Version:    b.version,
		Tasks:      b.repo.All(),
		Lanes:      b.lanes.Order(),
		Generating: b.gen.cancel != nil,
	}
}

func (b *Board) commitLocked(eventType eventbus.EventType, resourceID string, metadata map[string]string) *Snapshot {
	b.version++
	b.publish(eventType, resourceID, metadata)
	return b.snapshotLocked()
}

func (b *Board) publish(eventType eventbus.EventType, resourceID string, metadata map[string]string) {
	if b.bus == nil {
		return
	}
	if metadata == nil {
		metadata = map[string]string{}
	}
	metadata["version"] = strconv.FormatUint(b.version, 10)
	b.bus.PublishNew(eventType, resourceID, metadata)
}

func (b *Board) CreateTask(ctx context.Context, d Draft) (*Task, *Snapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, err := b.repo.Create(d)
	if err != nil {
		return nil, nil, err
	}
	b.lanes.Append(t.Status, t.ID)
	slog.DebugContext(ctx, "task created", "task_id", t.ID, "dependencies", t.Dependencies)
	return t, b.commitLocked(eventbus.EventTypeTaskCreated, t.ID, nil), nil
}

func (b *Board) UpdateTask(ctx context.Context, id string, p Patch) (*Task, *Snapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.repo.Has(id) {
		return nil, nil, notFoundError("task", id)
	}
	if p.Dependencies != nil {
		next := uniqueIDs(*p.Dependencies)
		if err := NewGraph(b.repo.All()).ValidateDependencies(id, next); err != nil {
			return nil, nil, err
		}
		p.Dependencies = &next
	}
	t, err := b.repo.Update(id, p)
	if err != nil {
		return nil, nil, err
	}
	slog.DebugContext(ctx, "task updated", "task_id", t.ID)
	return t, b.commitLocked(eventbus.EventTypeTaskUpdated, t.ID, nil), nil
}

func (b *Board) DeleteTask(ctx context.Context, id string) (*Snapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.repo.Delete(id); err != nil {
		return nil, err
	}
	b.lanes.Remove(id)
	slog.DebugContext(ctx, "task deleted", "task_id", id)
	return b.commitLocked(eventbus.EventTypeTaskDeleted, id, nil), nil
}

func (b *Board) MoveTask(ctx context.Context, req MoveRequest) (*Snapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	changed, err := b.lanes.Move(req, b.repo, b.policy)
	if err != nil {
		return nil, err
	}
	if !changed {
		return b.snapshotLocked(), nil
	}
	slog.DebugContext(ctx, "task moved", "task_id", req.TaskID, "from", req.SourceStatus, "to", req.DestStatus)
	return b.commitLocked(eventbus.EventTypeTaskMoved, req.TaskID, map[string]string{
		"source_status": string(req.SourceStatus),
		"dest_status":   string(req.DestStatus),
	}), nil
}

func (b *Board) SortTasks(ctx context.Context, key SortKey) (*Snapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := sortLanes(b.repo, b.lanes, key); err != nil {
		return nil, err
	}
	slog.DebugContext(ctx, "tasks sorted", "key", key)
	return b.commitLocked(eventbus.EventTypeBoardSorted, "", map[string]string{"key": string(key)}), nil
}

// Rename sets the board (project) name.
func (b *Board) Rename(ctx context.Context, name string) (*Snapshot, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationError("board name must not be empty")
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.name = name
	slog.DebugContext(ctx, "board renamed", "name", name)
	return b.commitLocked(eventbus.EventTypeBoardRenamed, "", map[string]string{"name": name}), nil
}

// Task returns the detail view of one task.
func (b *Board) Task(id string) (*TaskDetail, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, err := b.repo.Get(id)
	if err != nil {
		return nil, err
	}
	graph := NewGraph(b.repo.All())
	ref := func(ids []string) []TaskRef {
		refs := make([]TaskRef, 0, len(ids))
		for _, depID := range ids {
			if dep, err := b.repo.Get(depID); err == nil {
				refs = append(refs, TaskRef{ID: dep.ID, Name: dep.Name, Status: dep.Status})
			}
		}
		return refs
	}

	detail := &TaskDetail{
		Task:         t,
		Dependencies: ref(t.Dependencies),
		Dependents:   ref(graph.Dependents(id)),
		Candidates:   ref(graph.AvailableCandidates(id)),
	}
	for _, s := range Statuses {
		if s == t.Status {
			continue
		}
		if blocking := BlockingDependencies(t, s, b.repo.StatusOf); len(blocking) > 0 {
			if detail.Blocking == nil {
				detail.Blocking = make(map[Status][]string)
			}
			detail.Blocking[s] = blocking
		}
	}
	return detail, nil
}

// AvailableCandidates returns the tasks id may depend on without closing a
// cycle. An empty id means a task that does not exist yet, which may depend
// on anything.
func (b *Board) AvailableCandidates(id string) ([]*Task, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	all := b.repo.All()
	if id == "" {
		return all, nil
	}
	if !b.repo.Has(id) {
		return nil, notFoundError("task", id)
	}
	allowed := NewGraph(all).AvailableCandidates(id)
	out := make([]*Task, 0, len(allowed))
	for _, t := range all {
		if slices.Contains(allowed, t.ID) {
			out = append(out, t)
		}
	}
	return out, nil
}
