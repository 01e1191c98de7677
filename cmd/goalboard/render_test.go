package main

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazz187/goalboard/internal/eventbus"
	"github.com/kazz187/goalboard/internal/goal"
	"github.com/kazz187/goalboard/pkg/cerr"
)

func init() {
	color.NoColor = true
}

func testSnapshot(t *testing.T) *goal.Snapshot {
	t.Helper()
	due, err := goal.ParseDate("2026-10-20")
	require.NoError(t, err)
	return &goal.Snapshot{
		Name:    "Launch",
		Version: 4,
		Tasks: []*goal.Task{
			{ID: "a", Name: "Design", DueDate: due, Priority: 1, Status: goal.StatusCompleted, Dependencies: []string{}},
			{ID: "b", Name: "Build", DueDate: due, Priority: 2, Status: goal.StatusTodo, Dependencies: []string{"a"}},
		},
		Lanes: goal.LaneOrder{
			goal.StatusTodo:       {"b"},
			goal.StatusInProgress: {},
			goal.StatusCompleted:  {"a"},
		},
	}
}

func TestRenderBoard(t *testing.T) {
	var buf bytes.Buffer
	renderBoard(&buf, testSnapshot(t))
	out := buf.String()

	assert.Contains(t, out, "Launch (v4)")
	assert.Contains(t, out, "To Do (1)")
	assert.Contains(t, out, "In Progress (0)")
	assert.Contains(t, out, "Completed (1)")
	assert.Contains(t, out, "0. [P2] Build  due 2026-10-20  b  after: Design")
	assert.Contains(t, out, "(empty)")
	assert.NotContains(t, out, "generating")
}

func TestRenderBoard_Generating(t *testing.T) {
	s := testSnapshot(t)
	s.Generating = true
	var buf bytes.Buffer
	renderBoard(&buf, s)
	assert.Contains(t, buf.String(), "generating...")
}

func TestRenderDetail(t *testing.T) {
	s := testSnapshot(t)
	var buf bytes.Buffer
	renderDetail(&buf, &goal.TaskDetail{
		Task:         s.Task("b"),
		Dependencies: []goal.TaskRef{{ID: "a", Name: "Design", Status: goal.StatusTodo}},
		Blocking:     map[goal.Status][]string{goal.StatusCompleted: {"a"}},
	})
	out := buf.String()

	assert.Contains(t, out, "status:   To Do")
	assert.Contains(t, out, "Depends on:")
	assert.Contains(t, out, "- Design (todo, a)")
	assert.Contains(t, out, "blocked from Completed by: a")
	assert.NotContains(t, out, "Needed by")
}

func TestRenderEvent(t *testing.T) {
	var buf bytes.Buffer
	renderEvent(&buf, &goal.BoardEvent{
		Event: &eventbus.Event{
			Type:      eventbus.EventTypeGenerationFailed,
			Metadata:  map[string]string{"error": "service down"},
			CreatedAt: time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC),
		},
	})
	assert.Equal(t, "09:30:00 generation_failed service down\n", buf.String())
}

func TestRenderError_Violations(t *testing.T) {
	err := cerr.NewError(cerr.FailedPrecondition, "dependencies not completed", nil).
		AddDetailMessageWithCode("a", goal.RuleDependencyNotSatisfied).
		ConnectError()

	var buf bytes.Buffer
	renderError(&buf, err)
	out := buf.String()
	assert.Contains(t, out, "error: ")
	assert.Contains(t, out, "dependency_not_satisfied: a")

	buf.Reset()
	renderError(&buf, connect.NewError(connect.CodeUnavailable, errors.New("down")))
	assert.Equal(t, "error: unavailable: down\n", buf.String())
}
