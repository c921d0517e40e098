// Package statusd exposes a read-only HTTP snapshot of an in-flight
// rewrite batch, for external tooling (CI dashboards, progress bars) to
// poll. It is a side channel only: it never influences file output.
package statusd

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/praetorian-inc/rewrite/pkg/types"
)

// FileStatus is the per-file entry of a Snapshot.
type FileStatus struct {
	OK               bool   `json:"ok"`
	ReplacementCount int    `json:"replacement_count"`
	Error            string `json:"error,omitempty"`
}

// Snapshot is the JSON document served at /status.
type Snapshot struct {
	TotalFiles        int                   `json:"total_files"`
	CompletedFiles    int                   `json:"completed_files"`
	FailedFiles       int                   `json:"failed_files"`
	TotalReplacements int                   `json:"total_replacements"`
	Files             map[string]FileStatus `json:"files"`
}

// Tracker accumulates per-file outcomes as the Processor reports them.
// All methods are safe for concurrent use; FileFinished is designed to be
// passed directly to Processor.SetObserver.
type Tracker struct {
	mu    sync.Mutex
	total int
	files map[string]FileStatus
}

// NewTracker returns an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{files: make(map[string]FileStatus)}
}

// BatchStarted resets the tracker for a new batch of n files.
func (t *Tracker) BatchStarted(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.total = n
	t.files = make(map[string]FileStatus, n)
}

// FileFinished records one file's outcome.
func (t *Tracker) FileFinished(res types.ProcessingResult) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.files[res.FilePath] = FileStatus{
		OK:               res.OK,
		ReplacementCount: res.ReplacementCount,
		Error:            res.ErrMsg,
	}
}

// Snapshot returns a copy of the current state.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	snap := Snapshot{
		TotalFiles: t.total,
		Files:      make(map[string]FileStatus, len(t.files)),
	}
	for path, st := range t.files {
		snap.Files[path] = st
		snap.CompletedFiles++
		snap.TotalReplacements += st.ReplacementCount
		if !st.OK {
			snap.FailedFiles++
		}
	}
	return snap
}

// Server serves a Tracker's snapshot over HTTP.
type Server struct {
	tracker *Tracker
	httpSrv *http.Server
	ln      net.Listener
}

// NewServer builds a Server for tracker; call Start to begin listening on
// addr.
func NewServer(tracker *Tracker, addr string) *Server {
	s := &Server{tracker: tracker}
	mux := http.NewServeMux()
	mux.HandleFunc("/status", s.handleStatus)
	s.httpSrv = &http.Server{Addr: addr, Handler: mux}
	return s
}

// Start binds the listener and serves in a background goroutine. It
// returns once the listener is bound, so a caller that Starts before
// processing can poll immediately.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpSrv.Addr)
	if err != nil {
		return err
	}
	s.ln = ln
	go s.httpSrv.Serve(ln)
	return nil
}

// Addr returns the bound listener address, useful when Start was given
// ":0".
func (s *Server) Addr() string {
	if s.ln == nil {
		return s.httpSrv.Addr
	}
	return s.ln.Addr().String()
}

// Close shuts the server down, waiting briefly for in-flight requests.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.tracker.Snapshot())
}
