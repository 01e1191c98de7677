package generation

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		data, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var req map[string]string
		require.NoError(t, json.Unmarshal(data, &req))
		assert.Equal(t, "Launch a podcast", req["project_description"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Generate(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"tasks":[
		{"task":"Pick a topic","description":"Choose a niche","daysToFinish":2},
		{"task":"Record pilot","description":"","daysToFinish":5},
		{"task":"Publish","description":"Upload","daysToFinish":10}
	]}`)

	got, err := NewClient(srv.URL, time.Second).Generate(context.Background(), "Launch a podcast")
	require.NoError(t, err)
	assert.Equal(t, []Suggestion{
		{Task: "Pick a topic", Description: "Choose a niche", DaysToFinish: 2},
		{Task: "Record pilot", Description: "", DaysToFinish: 5},
		{Task: "Publish", Description: "Upload", DaysToFinish: 10},
	}, got)
}

func TestClient_GenerateStringEncodedTasks(t *testing.T) {
	srv := newTestServer(t, http.StatusOK,
		`{"tasks":"`+"```json\\n"+`[{\"task\":\"Pick a topic\",\"description\":\"d\",\"daysToFinish\":3}]`+"\\n```"+`"}`)

	got, err := NewClient(srv.URL, time.Second).Generate(context.Background(), "Launch a podcast")
	require.NoError(t, err)
	assert.Equal(t, []Suggestion{{Task: "Pick a topic", Description: "d", DaysToFinish: 3}}, got)
}

func TestClient_GenerateMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `<html>`},
		{name: "missing tasks", body: `{}`},
		{name: "empty tasks", body: `{"tasks":[]}`},
		{name: "missing task name", body: `{"tasks":[{"description":"d","daysToFinish":1}]}`},
		{name: "blank task name", body: `{"tasks":[{"task":"  ","description":"d","daysToFinish":1}]}`},
		{name: "missing description", body: `{"tasks":[{"task":"a","daysToFinish":1}]}`},
		{name: "missing days", body: `{"tasks":[{"task":"a","description":"d"}]}`},
		{name: "zero days", body: `{"tasks":[{"task":"a","description":"d","daysToFinish":0}]}`},
		{name: "negative days", body: `{"tasks":[{"task":"a","description":"d","daysToFinish":-3}]}`},
		{name: "string without array", body: `{"tasks":"sorry"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, http.StatusOK, tt.body)
			_, err := NewClient(srv.URL, time.Second).Generate(context.Background(), "Launch a podcast")
			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestClient_GenerateServerError(t *testing.T) {
	srv := newTestServer(t, http.StatusInternalServerError, `{"error":"quota exceeded"}`)
	_, err := NewClient(srv.URL, time.Second).Generate(context.Background(), "Launch a podcast")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.NotErrorIs(t, err, ErrMalformedResponse)
}

func TestClient_GenerateCanceled(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewClient(srv.URL, time.Second).Generate(ctx, "Launch a podcast")
	assert.ErrorIs(t, err, context.Canceled)
}
