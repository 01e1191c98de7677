package goal

// StatusLookup returns the current status of a task id.
type StatusLookup func(id string) (Status, bool)

// TransitionPolicy gates status changes on the status of a task's
// dependencies. Moving back to todo is always allowed.
type TransitionPolicy struct{}

// Check returns a *BlockedError (wrapped in a coded error) listing the
// dependencies that prevent t from reaching target, in dependency order.
func (TransitionPolicy) Check(t *Task, target Status, lookup StatusLookup) error {
	if !target.Valid() {
		return validationError("unknown status %q", target)
	}
	blocking := BlockingDependencies(t, target, lookup)
	if len(blocking) > 0 {
		return blockedError(&BlockedError{TaskID: t.ID, Target: target, Blocking: blocking})
	}
	return nil
}

// BlockingDependencies lists the dependencies of t that keep it out of target.
func BlockingDependencies(t *Task, target Status, lookup StatusLookup) []string {
	var blocking []string
	for _, dep := range t.Dependencies {
		s, ok := lookup(dep)
		if !ok || !satisfies(s, target) {
			blocking = append(blocking, dep)
		}
	}
	return blocking
}

func satisfies(dependency, target Status) bool {
	switch target {
	case StatusCompleted:
		return dependency == StatusCompleted
	case StatusInProgress:
		return dependency == StatusInProgress || dependency == StatusCompleted
	default:
		return true
	}
}
