package goal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chain() []*Task {
	// C -> B -> A, D stands alone.
	return []*Task{
		{ID: "A"},
		{ID: "B", Dependencies: []string{"A"}},
		{ID: "C", Dependencies: []string{"B"}},
		{ID: "D"},
	}
}

func TestGraph_WouldCreateCycle(t *testing.T) {
	g := NewGraph(chain())

	assert.True(t, g.WouldCreateCycle("A", "C"), "C transitively depends on A")
	assert.True(t, g.WouldCreateCycle("A", "B"))
	assert.True(t, g.WouldCreateCycle("A", "A"), "self edge")
	assert.False(t, g.WouldCreateCycle("C", "A"))
	assert.False(t, g.WouldCreateCycle("A", "D"))
}

func TestGraph_AvailableCandidates(t *testing.T) {
	g := NewGraph(chain())

	assert.Equal(t, []string{"D"}, g.AvailableCandidates("A"))
	assert.Equal(t, []string{"A", "B", "D"}, g.AvailableCandidates("C"))
	assert.Equal(t, []string{"A", "B", "C"}, g.AvailableCandidates("D"))
}

func TestGraph_ValidateDependencies(t *testing.T) {
	g := NewGraph(chain())

	assert.NoError(t, g.ValidateDependencies("C", []string{"B", "A", "D"}))
	assert.NoError(t, g.ValidateDependencies("B", nil))
	assert.ErrorIs(t, g.ValidateDependencies("A", []string{"D", "C"}), ErrCycleRejected)
	assert.ErrorIs(t, g.ValidateDependencies("D", []string{"D"}), ErrCycleRejected)
	assert.ErrorIs(t, g.ValidateDependencies("D", []string{"X"}), ErrNotFound)
}

func TestGraph_Dependents(t *testing.T) {
	tasks := chain()
	tasks[3].Dependencies = []string{"A"}
	g := NewGraph(tasks)

	assert.Equal(t, []string{"B", "D"}, g.Dependents("A"))
	assert.Empty(t, g.Dependents("C"))
}

func TestGraph_FindCycle(t *testing.T) {
	assert.Nil(t, NewGraph(chain()).FindCycle())

	tasks := chain()
	tasks[0].Dependencies = []string{"C"}
	cycle := NewGraph(tasks).FindCycle()
	require.Len(t, cycle, 3)
	assert.ElementsMatch(t, []string{"A", "B", "C"}, cycle)
}

func TestTransitionPolicy(t *testing.T) {
	statuses := map[string]Status{"A": StatusTodo, "B": StatusInProgress, "C": StatusCompleted}
	lookup := func(id string) (Status, bool) {
		s, ok := statuses[id]
		return s, ok
	}
	task := &Task{ID: "T", Dependencies: []string{"A", "B", "C"}}
	var policy TransitionPolicy

	err := policy.Check(task, StatusCompleted, lookup)
	assert.ErrorIs(t, err, ErrDependencyNotSatisfied)
	assert.Equal(t, []string{"A", "B"}, BlockingIDs(err))

	err = policy.Check(task, StatusInProgress, lookup)
	assert.ErrorIs(t, err, ErrDependencyNotSatisfied)
	assert.Equal(t, []string{"A"}, BlockingIDs(err))

	assert.NoError(t, policy.Check(task, StatusTodo, lookup))
	assert.NoError(t, policy.Check(&Task{ID: "U", Dependencies: []string{"C"}}, StatusCompleted, lookup))
	assert.ErrorIs(t, policy.Check(task, Status("done"), lookup), ErrValidation)
}
