package metrics

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, h http.Handler, path string) (int, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return rec.Code, string(body)
}

func TestRouterHealthAndStatus(t *testing.T) {
	h := NewRouter(func() (string, string) { return "job-1", "running" })

	code, body := get(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body)

	code, body = get(t, h, "/status")
	require.Equal(t, http.StatusOK, code)
	var status map[string]string
	require.NoError(t, json.Unmarshal([]byte(body), &status))
	assert.Equal(t, map[string]string{"job": "job-1", "state": "running"}, status)

	code, _ = get(t, h, "/nope")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRouterExposesCounters(t *testing.T) {
	h := NewRouter(func() (string, string) { return "", "idle" })

	ObserveJob("killed", 1500*time.Millisecond)
	ObserveMatch(MatchFound, 20*time.Millisecond)
	AddReplayedEvents(3)

	code, body := get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `automaton_script_jobs_total{state="killed"}`)
	assert.Contains(t, body, `automaton_script_jobs_total{state="completed"} 0`)
	assert.Contains(t, body, `automaton_image_matches_total{result="found"}`)
	assert.Contains(t, body, "automaton_replayed_events_total")
	assert.Contains(t, body, "automaton_image_match_duration_seconds_bucket")
}

func TestServeStopsWithContext(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, addr, NewRouter(func() (string, string) { return "", "idle" })) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}
