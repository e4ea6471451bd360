// Package inspect serves a small HTTP API over a running playfield: the
// current grid, synthesized geometry, digs and resets, and an event stream.
package inspect

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/a-h/templ"
	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	platformcore "github.com/vovakirdan/diggy/internal/core"
	"github.com/vovakirdan/diggy/internal/games/diggy"
	"github.com/vovakirdan/diggy/internal/games/diggy/core"
	"github.com/vovakirdan/diggy/internal/games/diggy/mesh"
)

// Server guards one game behind a mutex and exposes it over HTTP.
type Server struct {
	mu     sync.Mutex
	game   *diggy.Game
	hub    *Hub
	logger *log.Logger
	seed   int64
}

// New subscribes to g's events and starts a run with seed.
func New(g *diggy.Game, seed int64, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		game:   g,
		hub:    NewHub(),
		logger: logger,
		seed:   seed,
	}
	g.Subscribe(s.hub)
	g.Reset(platformcore.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: seed})
	return s
}

// Hub returns the event hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.index)
	r.Route("/playfield", func(r chi.Router) {
		r.Get("/stream", s.stream)
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(15 * time.Second))
			r.Get("/", s.snapshot)
			r.Post("/dig/{dir}", s.dig)
			r.Post("/reset", s.reset)
			r.Get("/mesh.json", s.meshJSON)
			r.Get("/mesh.obj", s.meshOBJ)
		})
	})
	return r
}

// requestLogger logs each request through the charm logger.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"dur", time.Since(start),
			"id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	snap := s.game.Snapshot()
	s.mu.Unlock()
	render(w, r, PlayfieldPage(snap))
}

func render(w http.ResponseWriter, r *http.Request, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(r.Context(), w); err != nil {
		http.Error(w, "failed to render", http.StatusInternalServerError)
	}
}

func (s *Server) snapshot(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	snap := s.game.Snapshot()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, snap)
}

// DigResult is returned by a successful dig.
type DigResult struct {
	Hit       string         `json:"hit"`
	Row       int            `json:"row"`
	Col       int            `json:"col"`
	Scrolled  bool           `json:"scrolled"`
	Crossed   bool           `json:"crossed"`
	Playfield diggy.Snapshot `json:"playfield"`
}

func (s *Server) dig(w http.ResponseWriter, r *http.Request) {
	dir, ok := core.ParseDir(chi.URLParam(r, "dir"))
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown direction")
		return
	}

	s.mu.Lock()
	step, err := s.game.Dig(dir)
	snap := s.game.Snapshot()
	s.mu.Unlock()

	if err != nil {
		status := http.StatusConflict
		var ce *core.ConfigError
		if errors.As(err, &ce) {
			status = http.StatusInternalServerError
		}
		writeError(w, status, err.Error())
		return
	}

	if wantsHTML(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, DigResult{
		Hit:       step.Hit.Cell.String(),
		Row:       step.Hit.Row,
		Col:       step.Hit.Col,
		Scrolled:  step.Scrolled,
		Crossed:   step.Crossed,
		Playfield: snap,
	})
}

// reset restarts the run. A seed query parameter reseeds it; without one
// the current seed is reused.
func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v := strings.TrimSpace(r.URL.Query().Get("seed")); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid seed")
			return
		}
		s.seed = seed
	}
	s.game.Reset(platformcore.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: s.seed})
	if err := s.game.Err(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if wantsHTML(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, s.game.Snapshot())
}

// MeshJSON is the flattened geometry served by /playfield/mesh.json.
type MeshJSON struct {
	Vertices  int       `json:"vertices"`
	Triangles int       `json:"triangles"`
	Positions []float32 `json:"positions"`
	UVs       []float32 `json:"uvs"`
	Normals   []float32 `json:"normals"`
	Indices   []uint32  `json:"indices"`
}

// Flatten converts buffers to interleaved-free flat arrays.
func Flatten(b *mesh.Buffers) MeshJSON {
	out := MeshJSON{
		Positions: make([]float32, 0, 3*len(b.Positions)),
		UVs:       make([]float32, 0, 2*len(b.UVs)),
		Normals:   make([]float32, 0, 3*len(b.Normals)),
		Indices:   append([]uint32{}, b.Indices...),
		Vertices:  b.VertexCount(),
		Triangles: b.TriangleCount(),
	}
	for _, p := range b.Positions {
		out.Positions = append(out.Positions, p.X, p.Y, p.Z)
	}
	for _, uv := range b.UVs {
		out.UVs = append(out.UVs, uv.X, uv.Y)
	}
	for _, n := range b.Normals {
		out.Normals = append(out.Normals, n.X, n.Y, n.Z)
	}
	return out
}

// currentMesh copies the latest buffers, which the game reuses on the next dig.
func (s *Server) currentMesh() (*mesh.Buffers, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.game.Frame()
	if f.Mesh == nil {
		return nil, false
	}
	return f.Mesh.Clone(), true
}

func (s *Server) meshJSON(w http.ResponseWriter, _ *http.Request) {
	b, ok := s.currentMesh()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "no mesh yet")
		return
	}
	writeJSON(w, http.StatusOK, Flatten(b))
}

func (s *Server) meshOBJ(w http.ResponseWriter, _ *http.Request) {
	b, ok := s.currentMesh()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "no mesh yet")
		return
	}
	var buf bytes.Buffer
	if err := mesh.WriteOBJ(&buf, "playfield", b); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// stream sends a server-sent event for every playfield event.
func (s *Server) stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sub := s.hub.Subscribe()
	defer s.hub.Unsubscribe(sub)

	send := func(event string) {
		s.mu.Lock()
		snap := s.game.Snapshot()
		s.mu.Unlock()
		data, _ := json.Marshal(snap)
		writeSSE(w, event, string(data))
		flusher.Flush()
	}
	send("snapshot")

	keepAlive := time.NewTicker(25 * time.Second)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-sub:
			if !ok {
				return
			}
			send(event)
		case <-keepAlive.C:
			_, _ = w.Write([]byte(": keepalive\n\n"))
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, event, data string) {
	_, _ = w.Write([]byte("event: " + event + "\n"))
	for _, line := range strings.Split(data, "\n") {
		_, _ = w.Write([]byte("data: " + line + "\n"))
	}
	_, _ = w.Write([]byte("\n"))
}

func wantsHTML(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return strings.HasPrefix(ct, "application/x-www-form-urlencoded") && strings.Contains(r.Header.Get("Accept"), "text/html")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// ListenAndServe serves the inspector on addr until the server fails.
func (s *Server) ListenAndServe(addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	s.logger.Info("inspector listening", "addr", addr)
	return server.ListenAndServe()
}
