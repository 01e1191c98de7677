package goal

import "slices"

// LaneOrder is the display order of task ids, one sequence per status.
type LaneOrder map[Status][]string

func (o LaneOrder) clone() LaneOrder {
	c := make(LaneOrder, len(Statuses))
	for _, s := range Statuses {
		c[s] = slices.Clone(o[s])
		if c[s] == nil {
			c[s] = []string{}
		}
	}
	return c
}

// MoveRequest describes a drag of one task from a lane position to another.
type MoveRequest struct {
	TaskID       string `json:"task_id"`
	SourceStatus Status `json:"source_status"`
	SourceIndex  int    `json:"source_index"`
	DestStatus   Status `json:"dest_status"`
	DestIndex    int    `json:"dest_index"`
}

// Lanes keeps one ordered id sequence per status. Sequences are never
// modified in place, so a slice handed out earlier keeps its content.
type Lanes struct {
	seq LaneOrder
}

func NewLanes() *Lanes {
	return &Lanes{seq: LaneOrder{}.clone()}
}

func (l *Lanes) Append(s Status, id string) {
	l.seq[s] = append(slices.Clone(l.seq[s]), id)
}

// Remove drops id from whichever lane holds it.
func (l *Lanes) Remove(id string) {
	for _, s := range Statuses {
		if i := slices.Index(l.seq[s], id); i >= 0 {
			l.seq[s] = slices.Delete(slices.Clone(l.seq[s]), i, i+1)
		}
	}
}

func (l *Lanes) Order() LaneOrder {
	return l.seq.clone()
}

// DisplayOrder concatenates the lanes in Statuses order.
func (l *Lanes) DisplayOrder() []string {
	var out []string
	for _, s := range Statuses {
		out = append(out, l.seq[s]...)
	}
	return out
}

// Rebuild sets every lane to the tasks of its status, in the given order.
func (l *Lanes) Rebuild(order []*Task) {
	next := LaneOrder{}.clone()
	for _, t := range order {
		next[t.Status] = append(next[t.Status], t.ID)
	}
	l.seq = next
}

func (l *Lanes) Replace(order LaneOrder) {
	l.seq = order.clone()
}

// Move applies req against repo. The transition policy runs first when the
// status changes; on any error neither lanes nor repo are touched. It
// reports whether anything changed.
func (l *Lanes) Move(req MoveRequest, repo *Repository, policy TransitionPolicy) (bool, error) {
	t, err := repo.Get(req.TaskID)
	if err != nil {
		return false, err
	}
	if !req.SourceStatus.Valid() {
		return false, validationError("unknown source status %q", req.SourceStatus)
	}
	if !req.DestStatus.Valid() {
		return false, validationError("unknown destination status %q", req.DestStatus)
	}
	if t.Status != req.SourceStatus {
		return false, validationError("task %s is in %s, not %s", t.ID, t.Status, req.SourceStatus)
	}

	src := l.seq[req.SourceStatus]
	from := clamp(req.SourceIndex, 0, len(src)-1)
	if from < 0 || src[from] != t.ID {
		// The index is only a hint; fall back to the task's real position.
		from = slices.Index(src, t.ID)
		if from < 0 {
			return false, validationError("task %s is missing from lane %s", t.ID, req.SourceStatus)
		}
	}

	sameLane := req.SourceStatus == req.DestStatus
	if sameLane && clamp(req.DestIndex, 0, len(src)-1) == from {
		return false, nil
	}
	if !sameLane {
		if err := policy.Check(t, req.DestStatus, repo.StatusOf); err != nil {
			return false, err
		}
		if err := repo.SetStatus(t.ID, req.DestStatus); err != nil {
			return false, err
		}
	}

	remaining := slices.Delete(slices.Clone(src), from, from+1)
	if sameLane {
		to := clamp(req.DestIndex, 0, len(remaining))
		l.seq[req.SourceStatus] = slices.Insert(remaining, to, t.ID)
		return true, nil
	}
	dst := l.seq[req.DestStatus]
	to := clamp(req.DestIndex, 0, len(dst))
	l.seq[req.SourceStatus] = remaining
	l.seq[req.DestStatus] = slices.Insert(slices.Clone(dst), to, t.ID)
	return true, nil
}

// Verify checks that each lane holds exactly the tasks of its status, each
// exactly once, and nothing else.
func (l *Lanes) Verify(repo *Repository) error {
	for s := range l.seq {
		if !s.Valid() {
			return validationError("unknown lane %q", s)
		}
	}
	seen := make(map[string]bool, repo.Len())
	for _, s := range Statuses {
		for _, id := range l.seq[s] {
			if seen[id] {
				return validationError("task %s appears more than once in lanes", id)
			}
			seen[id] = true
			status, ok := repo.StatusOf(id)
			if !ok {
				return validationError("lane %s references unknown task %s", s, id)
			}
			if status != s {
				return validationError("task %s is %s but sits in lane %s", id, status, s)
			}
		}
	}
	if len(seen) != repo.Len() {
		return validationError("lanes hold %d tasks, board has %d", len(seen), repo.Len())
	}
	return nil
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return hi
	}
	return min(max(v, lo), hi)
}
