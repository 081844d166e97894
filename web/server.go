package web

import (
	"context"
	"errors"
	"fmt"
	"html"
	"html/template"
	"net/http"
	"strings"
	"time"

	"arduplot/events"
	"arduplot/logging"

	ds "github.com/starfederation/datastar-go/datastar"
	"go.uber.org/zap"
)

const SHUTDOWN_TIMEOUT = 2 * time.Second

var indexTemplate = template.Must(template.New("index").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>arduplot mirror</title>
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js"></script>
</head>
<body data-init="@get('{{.FramesPath}}')">
<h1>Latest frame</h1>
<pre id="frame">waiting for the first frame…</pre>
</body>
</html>
`))

// Server shows the raw frames going out to the listener. It doesn't decode them.
type Server struct {
	eventHub *events.EventHub
	handler  *http.ServeMux
	log      *zap.Logger
}

func NewServer(eventHub *events.EventHub) *Server {
	s := &Server{
		eventHub: eventHub,
		log:      logging.Named("web"),
	}

	handler := http.NewServeMux()
	handler.HandleFunc("/", s.IndexHandler)
	handler.HandleFunc("/frames", s.FramesHandler)
	s.handler = handler

	return s
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.handler}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), SHUTDOWN_TIMEOUT)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve %s: %w", addr, err)
	}
	return nil
}

// IndexHandler is the main entrypoint for the UI
func (s *Server) IndexHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	err := indexTemplate.Execute(w, map[string]string{"FramesPath": "/frames"})
	if err != nil {
		s.log.Warn("couldn't execute index template", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// FramesHandler streams every mirrored frame to the client as an element patch.
func (s *Server) FramesHandler(w http.ResponseWriter, r *http.Request) {
	_, frames, cancel := s.eventHub.Subscribe()
	defer cancel()

	sse := ds.NewSSE(w, r)
	ctx := r.Context()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-frames:
			if !ok {
				return
			}
			if err := sse.PatchElements(framePatch(event)); err != nil {
				s.log.Debug("client gone", zap.Error(err))
				return
			}
		}
	}
}

// framePatch renders a frame for the page. CRs are dropped since SSE treats a bare CR as a line end.
func framePatch(event *events.Event) string {
	text := strings.ReplaceAll(string(event.Frame), "\r\n", "\n")
	return fmt.Sprintf(`<pre id="frame" data-timestamp="%d">%s</pre>`, event.Timestamp, html.EscapeString(text))
}
