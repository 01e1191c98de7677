package goal

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Statuses lists the lanes in display order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusCompleted}

func (s Status) Valid() bool {
	return slices.Contains(Statuses, s)
}

func (s Status) String() string {
	return string(s)
}

// ParseStatus accepts the canonical names and the hyphenated "in-progress".
func ParseStatus(s string) (Status, error) {
	normalized := Status(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if !normalized.Valid() {
		return "", validationError("unknown status %q", s)
	}
	return normalized, nil
}

const (
	MinPriority = 1
	MaxPriority = 5
)

const dateLayout = time.DateOnly

// Date is a calendar day without time of day or zone.
type Date struct {
	t time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, validationError("invalid date %q, want YYYY-MM-DD", s)
	}
	return Date{t: t}, nil
}

func (d Date) IsZero() bool { return d.t.IsZero() }

func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

func (d Date) Before(other Date) bool { return d.t.Before(other.t) }

func (d Date) Compare(other Date) int { return d.t.Compare(other.t) }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(dateLayout)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

type Task struct {
	ID           string    `json:"id" yaml:"id"`
	Name         string    `json:"name" yaml:"name"`
	Description  string    `json:"description" yaml:"description"`
	DueDate      Date      `json:"due_date" yaml:"due_date"`
	Priority     int       `json:"priority" yaml:"priority"`
	Status       Status    `json:"status" yaml:"status"`
	Dependencies []string  `json:"dependencies" yaml:"dependencies"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" yaml:"updated_at"`
}

func (t *Task) clone() *Task {
	c := *t
	c.Dependencies = slices.Clone(t.Dependencies)
	if c.Dependencies == nil {
		c.Dependencies = []string{}
	}
	return &c
}

func (t *Task) DependsOn(id string) bool {
	return slices.Contains(t.Dependencies, id)
}

// Draft holds the fields of a task to be created.
type Draft struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	DueDate      Date     `json:"due_date"`
	Priority     int      `json:"priority"`
	Dependencies []string `json:"dependencies,omitempty"`
}

// Patch holds the editable fields of a task. Nil fields are left unchanged.
type Patch struct {
	Name         *string   `json:"name,omitempty"`
	Description  *string   `json:"description,omitempty"`
	DueDate      *Date     `json:"due_date,omitempty"`
	Priority     *int      `json:"priority,omitempty"`
	Dependencies *[]string `json:"dependencies,omitempty"`
}

func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.DueDate == nil && p.Priority == nil && p.Dependencies == nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return validationError("name must not be empty")
	}
	return nil
}

func validatePriority(p int) error {
	if p < MinPriority || p > MaxPriority {
		return validationError("priority must be between %d and %d, got %d", MinPriority, MaxPriority, p)
	}
	return nil
}

func validateDueDate(d Date) error {
	if d.IsZero() {
		return validationError("due date is required")
	}
	return nil
}

func (d Draft) validate() error {
	if err := validateName(d.Name); err != nil {
		return err
	}
	if err := validatePriority(d.Priority); err != nil {
		return err
	}
	return validateDueDate(d.DueDate)
}

func (p Patch) validate() error {
	if p.Name != nil {
		if err := validateName(*p.Name); err != nil {
			return err
		}
	}
	if p.Priority != nil {
		if err := validatePriority(*p.Priority); err != nil {
			return err
		}
	}
	if p.DueDate != nil {
		if err := validateDueDate(*p.DueDate); err != nil {
			return err
		}
	}
	return nil
}

// uniqueIDs drops blanks and repeated ids, keeping first occurrences in order.
func uniqueIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || slices.Contains(out, id) {
			continue
		}
		out = append(out, id)
	}
	return out
}

// Title is the lane heading shown to users.
func (s Status) Title() string {
	switch s {
	case StatusTodo:
		return "To Do"
	case StatusInProgress:
		return "In Progress"
	case StatusCompleted:
		return "Completed"
	}
	return fmt.Sprintf("Status(%s)", string(s))
}
