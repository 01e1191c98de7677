package goal

import (
	"slices"
	"time"

	"github.com/oklog/ulid/v2"
)

// Repository owns the set of tasks. It keeps insertion order, which is not
// the display order; that belongs to Lanes.
type Repository struct {
	tasks map[string]*Task
	order []string
	now   func() time.Time
}

func NewRepository(now func() time.Time) *Repository {
	if now == nil {
		now = time.Now
	}
	return &Repository{
		tasks: make(map[string]*Task),
		now:   now,
	}
}

func (r *Repository) Len() int {
	return len(r.order)
}

func (r *Repository) Has(id string) bool {
	_, ok := r.tasks[id]
	return ok
}

// Create stores a new todo task built from d. Every dependency must exist.
func (r *Repository) Create(d Draft) (*Task, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	deps := uniqueIDs(d.Dependencies)
	for _, dep := range deps {
		if !r.Has(dep) {
			return nil, notFoundError("dependency", dep)
		}
	}

	now := r.now()
	t := &Task{
		ID:           ulid.Make().String(),
		Name:         d.Name,
		Description:  d.Description,
		DueDate:      d.DueDate,
		Priority:     d.Priority,
		Status:       StatusTodo,
		Dependencies: deps,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.tasks[t.ID] = t
	r.order = append(r.order, t.ID)
	return t.clone(), nil
}

// Update merges the non-nil fields of p. Dependency edits are applied as
// given; cycle checks happen in the caller before Update is reached.
func (r *Repository) Update(id string, p Patch) (*Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, notFoundError("task", id)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	var deps []string
	if p.Dependencies != nil {
		deps = uniqueIDs(*p.Dependencies)
		for _, dep := range deps {
			if !r.Has(dep) {
				return nil, notFoundError("dependency", dep)
			}
		}
	}

	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Dependencies != nil {
		t.Dependencies = deps
	}
	t.UpdatedAt = r.now()
	return t.clone(), nil
}

// Delete removes the task and drops its id from every dependency set.
func (r *Repository) Delete(id string) error {
	if !r.Has(id) {
		return notFoundError("task", id)
	}
	delete(r.tasks, id)
	r.order = slices.DeleteFunc(r.order, func(v string) bool { return v == id })

	now := r.now()
	for _, other := range r.tasks {
		if other.DependsOn(id) {
			other.Dependencies = slices.DeleteFunc(other.Dependencies, func(v string) bool { return v == id })
			other.UpdatedAt = now
		}
	}
	return nil
}

func (r *Repository) Get(id string) (*Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, notFoundError("task", id)
	}
	return t.clone(), nil
}

// All returns copies of every task in insertion order.
func (r *Repository) All() []*Task {
	out := make([]*Task, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.tasks[id].clone())
	}
	return out
}

func (r *Repository) SetStatus(id string, s Status) error {
	t, ok := r.tasks[id]
	if !ok {
		return notFoundError("task", id)
	}
	if !s.Valid() {
		return validationError("unknown status %q", s)
	}
	if t.Status != s {
		t.Status = s
		t.UpdatedAt = r.now()
	}
	return nil
}

// StatusOf reports the status of id without copying the task.
func (r *Repository) StatusOf(id string) (Status, bool) {
	t, ok := r.tasks[id]
	if !ok {
		return "", false
	}
	return t.Status, true
}

// load replaces the content with already-built tasks, as read from a saved
// document. Field and reference checks run here; cycle checks do not.
func (r *Repository) load(tasks []*Task) error {
	staged := make(map[string]*Task, len(tasks))
	order := make([]string, 0, len(tasks))
	for _, t := range tasks {
		if t == nil || t.ID == "" {
			return validationError("task id must not be empty")
		}
		if _, dup := staged[t.ID]; dup {
			return validationError("duplicate task id %q", t.ID)
		}
		if err := (Draft{Name: t.Name, Priority: t.Priority, DueDate: t.DueDate}).validate(); err != nil {
			return err
		}
		if !t.Status.Valid() {
			return validationError("task %s has unknown status %q", t.ID, t.Status)
		}
		c := t.clone()
		c.Dependencies = uniqueIDs(c.Dependencies)
		staged[c.ID] = c
		order = append(order, c.ID)
	}
	for _, id := range order {
		for _, dep := range staged[id].Dependencies {
			if dep == id {
				return cycleError(id, dep)
			}
			if _, ok := staged[dep]; !ok {
				return notFoundError("dependency", dep)
			}
		}
	}
	r.tasks = staged
	r.order = order
	return nil
}
