// Package review implements the browser review session: an ephemeral
// loopback HTTP server bound to one proposal and one session token, and the
// coordinator that guarantees the session resolves exactly once.
package review

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/drydock-dev/drydock/internal/proposal"
)

// ResolutionKind identifies which termination source won the session race.
type ResolutionKind string

const (
	ResolvedSubmit  ResolutionKind = "submitted"
	ResolvedCancel  ResolutionKind = "cancelled"
	ResolvedTimeout ResolutionKind = "timeout"
	ResolvedAbort   ResolutionKind = "aborted"
	ResolvedError   ResolutionKind = "error"
)

// Resolution is the single terminal outcome of a review session.
// Decision is set only for ResolvedSubmit; Err only for ResolvedError.
type Resolution struct {
	Kind     ResolutionKind
	Decision *proposal.Decision
	Err      error
}

// ServerOptions configures a review session server.
type ServerOptions struct {
	IdleTimeout       time.Duration // auto-cancel after this much inactivity
	GraceDelay        time.Duration // pause between HTTP ack and resolution
	HeartbeatInterval time.Duration // client ping cadence, embedded into the page
	WorkDir           string        // shown on the review page
	RunID             string        // correlates the page with log events
}

// Server serves one proposal to one browser session and captures exactly
// one terminal resolution. The listening socket and the idle timer are owned
// exclusively by the Server for its lifetime.
type Server struct {
	prop     *proposal.Proposal
	token    string
	opts     ServerOptions
	listener net.Listener
	server   *http.Server

	mu        sync.Mutex
	deadline  time.Time
	idleTimer *time.Timer
	resolved  bool

	resolveOnce sync.Once
	closeOnce   sync.Once
	resolvedCh  chan Resolution
}

// NewServer creates a review server bound to a random port on localhost,
// with a freshly generated session token and the idle timer armed.
func NewServer(p *proposal.Proposal, opts ServerOptions) (*Server, error) {
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = 10 * time.Minute
	}
	if opts.GraceDelay <= 0 {
		opts.GraceDelay = 200 * time.Millisecond
	}
	if opts.HeartbeatInterval <= 0 {
		opts.HeartbeatInterval = 10 * time.Second
	}

	token, err := newToken()
	if err != nil {
		return nil, fmt.Errorf("review: generating session token: %w", err)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("review: binding listener: %w", err)
	}

	s := &Server{
		prop:       p,
		token:      token,
		opts:       opts,
		listener:   ln,
		resolvedCh: make(chan Resolution, 1),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/styles.css", s.handleStyles)
	mux.HandleFunc("/script.js", s.handleScript)
	mux.HandleFunc("/heartbeat", s.handleHeartbeat)
	mux.HandleFunc("/submit", s.handleSubmit)
	mux.HandleFunc("/cancel", s.handleCancel)
	s.server = &http.Server{Handler: mux}

	s.deadline = time.Now().Add(opts.IdleTimeout)
	s.idleTimer = time.AfterFunc(opts.IdleTimeout, func() {
		s.resolve(Resolution{Kind: ResolvedTimeout})
	})

	return s, nil
}

// Start begins serving HTTP requests in a background goroutine. A transport
// failure resolves the session with ResolvedError.
func (s *Server) Start() {
	go func() {
		if err := s.server.Serve(s.listener); err != nil && err != http.ErrServerClosed {
			s.resolve(Resolution{Kind: ResolvedError, Err: err})
		}
	}()
}

// URL returns the review page address, carrying the session token as a
// query credential.
func (s *Server) URL() string {
	return fmt.Sprintf("http://%s/?token=%s", s.listener.Addr().String(), s.token)
}

// Token returns the opaque session token.
func (s *Server) Token() string {
	return s.token
}

// Resolved returns the channel carrying the single terminal Resolution.
func (s *Server) Resolved() <-chan Resolution {
	return s.resolvedCh
}

// Abort resolves the session as externally aborted. Safe to call at any
// time, including after the session has already resolved (idempotent no-op).
func (s *Server) Abort() {
	s.resolve(Resolution{Kind: ResolvedAbort})
}

// Close shuts the listener down and clears the idle timer. Safe to call
// multiple times and from any resolution path.
func (s *Server) Close() error {
	var closeErr error
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.idleTimer.Stop()
		s.mu.Unlock()
		closeErr = s.server.Close()
	})
	return closeErr
}

// resolve delivers the terminal resolution exactly once. Whichever of
// submit, cancel, timeout, or abort calls first wins; all later attempts
// are no-ops.
func (s *Server) resolve(res Resolution) {
	s.resolveOnce.Do(func() {
		s.mu.Lock()
		s.resolved = true
		s.idleTimer.Stop()
		s.mu.Unlock()
		s.resolvedCh <- res
	})
}

// touch extends the idle deadline. Activity only ever pushes the deadline
// out, never shortens it, and has no effect once resolved.
func (s *Server) touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.resolved {
		return
	}
	s.deadline = time.Now().Add(s.opts.IdleTimeout)
	s.idleTimer.Reset(s.opts.IdleTimeout)
}

// remaining returns the time left before the idle timeout fires.
func (s *Server) remaining() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Until(s.deadline)
}

// checkToken verifies the session token carried in the query string or the
// X-Review-Token header. The token is the authority binding a browser tab
// to this one session.
func (s *Server) checkToken(r *http.Request) bool {
	token := r.URL.Query().Get("token")
	if token == "" {
		token = r.Header.Get("X-Review-Token")
	}
	return token == s.token
}

// --- Handlers ---

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}
	if !s.checkToken(r) {
		http.Error(w, "invalid session token", http.StatusForbidden)
		return
	}
	s.touch()

	page, err := renderIndex(s.prop, s.token, s.opts)
	if err != nil {
		http.Error(w, fmt.Sprintf("rendering review page: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (s *Server) handleStyles(w http.ResponseWriter, _ *http.Request) {
	s.touch()
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	_, _ = w.Write(stylesCSS)
}

func (s *Server) handleScript(w http.ResponseWriter, _ *http.Request) {
	s.touch()
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	_, _ = w.Write(scriptJS)
}

func (s *Server) handleHeartbeat(w http.ResponseWriter, r *http.Request) {
	if !s.checkToken(r) {
		http.Error(w, "invalid session token", http.StatusForbidden)
		return
	}
	s.touch()
	writeJSON(w, map[string]any{
		"ok":        true,
		"remaining": int(s.remaining().Seconds()),
	})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.checkToken(r) {
		http.Error(w, "invalid session token", http.StatusForbidden)
		return
	}

	var decision proposal.Decision
	if err := json.NewDecoder(r.Body).Decode(&decision); err != nil {
		http.Error(w, fmt.Sprintf("invalid JSON: %v", err), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()
	if err := decision.Valid(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.ackThenResolve(w, Resolution{Kind: ResolvedSubmit, Decision: &decision})
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.checkToken(r) {
		http.Error(w, "invalid session token", http.StatusForbidden)
		return
	}

	s.ackThenResolve(w, Resolution{Kind: ResolvedCancel})
}

// ackThenResolve stops the idle timer, acknowledges the HTTP request, and
// resolves only after the acknowledgement has been flushed plus a short
// grace delay. The browser must see the success response before the server
// tears down.
func (s *Server) ackThenResolve(w http.ResponseWriter, res Resolution) {
	s.mu.Lock()
	s.idleTimer.Stop()
	s.mu.Unlock()

	writeJSON(w, map[string]any{"success": true})
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}

	grace := s.opts.GraceDelay
	go func() {
		time.Sleep(grace)
		s.resolve(res)
	}()
}

// --- Helpers ---

// newToken generates an opaque unguessable session identifier.
func newToken() (string, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, fmt.Sprintf("encoding response: %v", err), http.StatusInternalServerError)
	}
}
