package web

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"arduplot/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexHandler(t *testing.T) {
	s := NewServer(events.NewHub())

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `@get('/frames')`)
	assert.Contains(t, rec.Body.String(), `id="frame"`)

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFramePatchEscapes(t *testing.T) {
	patch := framePatch(&events.Event{Timestamp: 12, Frame: []byte("dt*1|1|5|0|\r\n<b>|0|5|1|x||1.0000000|dt*\r\n")})
	assert.True(t, strings.HasPrefix(patch, `<pre id="frame" data-timestamp="12">`))
	assert.Contains(t, patch, "&lt;b&gt;")
	assert.NotContains(t, patch, "<b>")
	assert.NotContains(t, patch, "\r")
}

func TestFramesHandlerStreamsLatestFrame(t *testing.T) {
	hub := events.NewHub()
	hub.Broadcast(&events.Event{Timestamp: 1, Frame: []byte("dt*0|0|0|0|dt*\r\n")})

	srv := httptest.NewServer(NewServer(hub).Handler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/frames", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	buf := make([]byte, 4096)
	var body strings.Builder
	for !strings.Contains(body.String(), "dt*0|0|0|0|dt*") {
		n, err := resp.Body.Read(buf)
		body.Write(buf[:n])
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
	}
	assert.Contains(t, body.String(), `<pre id="frame" data-timestamp="1">`)
}

func TestRunStopsOnCancel(t *testing.T) {
	s := NewServer(events.NewHub())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, "127.0.0.1:0") }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server didn't stop")
	}
}
