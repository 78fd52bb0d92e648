package handlers

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/sunless-engine/internal/events"
)

// readEvent reads one SSE event, skipping keepalive comments.
func readEvent(t *testing.T, r *bufio.Reader) (string, string) {
	t.Helper()
	var name, data string
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		switch {
		case strings.HasPrefix(line, "event: "):
			name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		case line == "" && name != "":
			return name, data
		}
	}
}

func TestEventsHandler_Stream(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	handler := NewEventsHandler(client, testLogger())
	handler.keepalive = 50 * time.Millisecond
	server := httptest.NewServer(handler)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	id := uuid.New()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/v1/events/adventures/"+id.String(), nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	name, data := readEvent(t, reader)
	assert.Equal(t, "connected", name)
	assert.Contains(t, data, id.String())

	broadcaster := events.NewBroadcaster(client, testLogger())
	require.NoError(t, broadcaster.Publish(ctx, id, events.LocationChanged("home", "hallway")))

	name, data = readEvent(t, reader)
	assert.Equal(t, "location.changed", name)
	assert.JSONEq(t, `{"from":"home","to":"hallway"}`, data)
}

func TestEventsHandler_BadRequests(t *testing.T) {
	handler := NewEventsHandler(nil, testLogger())

	tests := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{name: "wrong method", method: http.MethodPost, path: "/v1/events/adventures/" + uuid.New().String(), status: http.StatusMethodNotAllowed},
		{name: "wrong path", method: http.MethodGet, path: "/v1/events/games/" + uuid.New().String(), status: http.StatusBadRequest},
		{name: "invalid id", method: http.MethodGet, path: "/v1/events/adventures/abc", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}
