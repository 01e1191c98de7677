package goal

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want Status
		ok   bool
	}{
		{in: "todo", want: StatusTodo, ok: true},
		{in: "in_progress", want: StatusInProgress, ok: true},
		{in: "in-progress", want: StatusInProgress, ok: true},
		{in: " Completed ", want: StatusCompleted, ok: true},
		{in: "done"},
		{in: ""},
	}
	for _, tt := range tests {
		got, err := ParseStatus(tt.in)
		if !tt.ok {
			assert.ErrorIs(t, err, ErrValidation, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestDate(t *testing.T) {
	d, err := ParseDate("2026-12-30")
	require.NoError(t, err)
	assert.Equal(t, "2027-01-04", d.AddDays(5).String())
	assert.True(t, d.Before(d.AddDays(1)))
	assert.Equal(t, 0, d.Compare(NewDate(2026, 12, 30)))

	_, err = ParseDate("30/12/2026")
	assert.ErrorIs(t, err, ErrValidation)

	var zero Date
	assert.True(t, zero.IsZero())
	assert.Equal(t, "", zero.String())
}

func TestDateEncoding(t *testing.T) {
	task := Task{ID: "T1", Name: "Write outline", DueDate: NewDate(2026, 10, 20), Priority: 2, Status: StatusTodo}

	data, err := json.Marshal(task)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"due_date":"2026-10-20"`)
	var fromJSON Task
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	assert.Equal(t, task.DueDate, fromJSON.DueDate)

	out, err := yaml.Marshal(task)
	require.NoError(t, err)
	assert.Contains(t, string(out), "2026-10-20")
	var fromYAML Task
	require.NoError(t, yaml.Unmarshal(out, &fromYAML))
	assert.Equal(t, task.DueDate, fromYAML.DueDate)

	assert.Error(t, json.Unmarshal([]byte(`{"due_date":"tomorrow"}`), &fromJSON))
}

func TestUniqueIDs(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, uniqueIDs([]string{"a", " b", "", "a", "b"}))
	assert.Equal(t, []string{}, uniqueIDs(nil))
}
