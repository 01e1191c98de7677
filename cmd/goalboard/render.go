package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/kazz187/goalboard/internal/eventbus"
	"github.com/kazz187/goalboard/internal/goal"
	"github.com/kazz187/goalboard/pkg/cerr"
)

var (
	titleColor = color.New(color.Bold)
	dimColor   = color.New(color.Faint)
	errorColor = color.New(color.FgRed, color.Bold)
	laneColors = map[goal.Status]*color.Color{
		goal.StatusTodo:       color.New(color.FgYellow, color.Bold),
		goal.StatusInProgress: color.New(color.FgCyan, color.Bold),
		goal.StatusCompleted:  color.New(color.FgGreen, color.Bold),
	}
	priorityColors = map[int]*color.Color{
		5: color.New(color.FgRed),
		4: color.New(color.FgMagenta),
		3: color.New(color.FgYellow),
		2: color.New(color.FgBlue),
		1: color.New(color.FgWhite),
	}
)

func renderBoard(w io.Writer, s *goal.Snapshot) {
	titleColor.Fprintf(w, "%s", s.Name)
	dimColor.Fprintf(w, " (v%d)", s.Version)
	if s.Generating {
		dimColor.Fprint(w, " generating...")
	}
	fmt.Fprintln(w)

	for _, status := range goal.Statuses {
		lane := s.Lane(status)
		fmt.Fprintln(w)
		laneColors[status].Fprintf(w, "%s (%d)\n", status.Title(), len(lane))
		if len(lane) == 0 {
			dimColor.Fprintln(w, "  (empty)")
			continue
		}
		for i, t := range lane {
			renderTaskLine(w, i, t, s)
		}
	}
}

func renderTaskLine(w io.Writer, index int, t *goal.Task, s *goal.Snapshot) {
	fmt.Fprintf(w, "  %d. ", index)
	priorityColor(t.Priority).Fprintf(w, "[P%d]", t.Priority)
	fmt.Fprintf(w, " %s  due %s", t.Name, t.DueDate)
	dimColor.Fprintf(w, "  %s", t.ID)
	if len(t.Dependencies) > 0 {
		names := make([]string, 0, len(t.Dependencies))
		for _, id := range t.Dependencies {
			if dep := s.Task(id); dep != nil {
				names = append(names, dep.Name)
			} else {
				names = append(names, id)
			}
		}
		dimColor.Fprintf(w, "  after: %s", strings.Join(names, ", "))
	}
	fmt.Fprintln(w)
}

func renderDetail(w io.Writer, d *goal.TaskDetail) {
	t := d.Task
	titleColor.Fprintln(w, t.Name)
	fmt.Fprintf(w, "  id:       %s\n", t.ID)
	fmt.Fprintf(w, "  status:   %s\n", t.Status.Title())
	fmt.Fprintf(w, "  priority: %d\n", t.Priority)
	fmt.Fprintf(w, "  due:      %s\n", t.DueDate)
	if t.Description != "" {
		fmt.Fprintf(w, "  %s\n", t.Description)
	}
	renderRefs(w, "Depends on", d.Dependencies)
	renderRefs(w, "Needed by", d.Dependents)
	renderRefs(w, "Candidates", d.Candidates)
	for _, status := range goal.Statuses {
		ids, ok := d.Blocking[status]
		if !ok || len(ids) == 0 {
			continue
		}
		dimColor.Fprintf(w, "  blocked from %s by: %s\n", status.Title(), strings.Join(ids, ", "))
	}
}

func renderRefs(w io.Writer, heading string, refs []goal.TaskRef) {
	if len(refs) == 0 {
		return
	}
	fmt.Fprintf(w, "  %s:\n", heading)
	for _, r := range refs {
		fmt.Fprintf(w, "    - %s ", r.Name)
		dimColor.Fprintf(w, "(%s, %s)\n", r.Status, r.ID)
	}
}

func renderTasks(w io.Writer, tasks []*goal.Task) {
	if len(tasks) == 0 {
		dimColor.Fprintln(w, "(none)")
		return
	}
	for _, t := range tasks {
		priorityColor(t.Priority).Fprintf(w, "[P%d]", t.Priority)
		fmt.Fprintf(w, " %s ", t.Name)
		dimColor.Fprintf(w, "(%s, %s)\n", t.Status, t.ID)
	}
}

func renderEvent(w io.Writer, e *goal.BoardEvent) {
	if e.Event == nil {
		renderBoard(w, e.Board)
		return
	}
	dimColor.Fprintf(w, "%s ", e.Event.CreatedAt.Format("15:04:05"))
	fmt.Fprintf(w, "%s", e.Event.Type)
	if e.Event.ResourceID != "" {
		fmt.Fprintf(w, " %s", e.Event.ResourceID)
	}
	if e.Event.Type == eventbus.EventTypeGenerationFailed {
		if msg := e.Event.Metadata["error"]; msg != "" {
			errorColor.Fprintf(w, " %s", msg)
		}
	}
	fmt.Fprintln(w)
}

// renderError prints a failed call with its code and any violations the
// server attached, e.g. the ids of unfinished dependencies.
func renderError(w io.Writer, err error) {
	errorColor.Fprintf(w, "error: ")
	fmt.Fprintln(w, err)
	for _, v := range cerr.ViolationsFromConnectError(err) {
		if v.RuleID != "" {
			dimColor.Fprintf(w, "  %s: ", v.RuleID)
		} else {
			fmt.Fprint(w, "  ")
		}
		fmt.Fprintln(w, v.Message)
	}
}

func priorityColor(p int) *color.Color {
	if c, ok := priorityColors[p]; ok {
		return c
	}
	return dimColor
}
