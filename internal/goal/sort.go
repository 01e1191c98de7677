package goal

import (
	"cmp"
	"slices"
)

type SortKey string

const (
	SortKeyPriority SortKey = "priority"
	SortKeyDueDate  SortKey = "due_date"
)

func ParseSortKey(s string) (SortKey, error) {
	switch s {
	case "priority":
		return SortKeyPriority, nil
	case "due_date", "due-date", "dueDate":
		return SortKeyDueDate, nil
	}
	return "", validationError("unknown sort key %q", s)
}

// SortByPriority orders tasks by descending priority. Ties keep their order.
func SortByPriority(tasks []*Task) {
	slices.SortStableFunc(tasks, func(a, b *Task) int {
		return cmp.Compare(b.Priority, a.Priority)
	})
}

// SortByDueDate orders tasks by ascending due date. Ties keep their order.
func SortByDueDate(tasks []*Task) {
	slices.SortStableFunc(tasks, func(a, b *Task) int {
		return a.DueDate.Compare(b.DueDate)
	})
}

// sortLanes reorders every lane by key, starting from the current display
// order so that ties keep what the user sees.
func sortLanes(repo *Repository, lanes *Lanes, key SortKey) error {
	var sortFunc func([]*Task)
	switch key {
	case SortKeyPriority:
		sortFunc = SortByPriority
	case SortKeyDueDate:
		sortFunc = SortByDueDate
	default:
		return validationError("unknown sort key %q", key)
	}

	ids := lanes.DisplayOrder()
	tasks := make([]*Task, 0, len(ids))
	for _, id := range ids {
		t, err := repo.Get(id)
		if err != nil {
			return err
		}
		tasks = append(tasks, t)
	}
	sortFunc(tasks)
	lanes.Rebuild(tasks)
	return nil
}
