// internal/httpserver/server.go
//
// HTTP surface for the game core.
// Responsibilities:
//   - Router + middleware (JSON, CORS, panic recovery, request IDs).
//   - Game endpoints: create, exists, join, start, guess, rematch.
//   - Event stream endpoint: per-game SSE with per-viewer redaction and
//     keepalive pulses.
//   - Mapping game errors to JSON responses with stable codes.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - The events route skips the timeout middleware: streams are long-lived.
//   - All game semantics live in the registry; handlers only translate HTTP.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/guessroom/guessroom/internal/game"
	"github.com/guessroom/guessroom/internal/metrics"
	"github.com/guessroom/guessroom/internal/registry"
)

const keepaliveInterval = 15 * time.Second

// Config carries the HTTP-layer knobs.
type Config struct {
	ClientOrigin string // origin allowed for credentialed CORS
	CookieSecret string // HMAC key for player/creator cookies
}

// Server bundles the router, the game registry, and cookie configuration.
type Server struct {
	r   *chi.Mux
	reg *registry.Registry
	cfg Config
}

// New constructs a Server, installs middleware, and registers routes.
func New(reg *registry.Registry, cfg Config) *Server {
	s := &Server{r: chi.NewRouter(), reg: reg, cfg: cfg}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(jsonContentType)
	s.r.Use(corsFor(cfg.ClientOrigin))

	// --- diagnostics ---
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Handle("/metrics", promhttp.Handler())

	s.r.Route("/api/games", func(r chi.Router) {
		// Short-lived JSON endpoints get a handler timeout.
		r.Group(func(r chi.Router) {
			r.Use(chimw.Timeout(10 * time.Second))
			r.Post("/", s.handleCreate)
			r.Get("/{code}", s.handleExists)
			r.Post("/{code}/new", s.handleRematch)
			r.Post("/{code}/player/{name}", s.handleJoin)
			r.Post("/{code}/start", s.handleStart)
			r.Post("/{code}/guess/{guess}", s.handleGuess)
		})
		r.Get("/{code}/events", s.handleEvents)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Handler exposes the router (used by main for graceful shutdown, and by
// tests).
func (s *Server) Handler() http.Handler { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header; the SSE handler
// overrides it before writing.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFor enables credentialed CORS for a single origin.
func corsFor(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ------------------------------ handlers -----------------------------------

// handleCreate registers a new game for the word in the query string and
// marks the caller as its creator.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	word := r.URL.Query().Get("word")
	code, err := s.reg.CreateGame(word)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.setCreatorCookie(w, code)
	s.writeJSON(w, http.StatusCreated, map[string]string{"code": code})
}

// handleRematch chains a fresh game off a finished one. Creator-gated, and
// the caller becomes the creator of the new game too.
func (s *Server) handleRematch(w http.ResponseWriter, r *http.Request) {
	oldCode := chi.URLParam(r, "code")
	if !s.isCreator(r, oldCode) {
		s.writeJSON(w, http.StatusUnauthorized, map[string]string{
			"error": "You are not the creator of this game",
			"code":  "UNAUTHORIZED",
		})
		return
	}
	word := r.URL.Query().Get("word")
	code, err := s.reg.CreateRematch(oldCode, word)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.setCreatorCookie(w, code)
	s.writeJSON(w, http.StatusCreated, map[string]string{"code": code})
}

func (s *Server) handleExists(w http.ResponseWriter, r *http.Request) {
	if s.reg.Exists(chi.URLParam(r, "code")) {
		s.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
		return
	}
	s.writeError(w, game.ErrGameNotFound)
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	playerID := s.playerID(w, r)
	_, err := s.reg.JoinGame(chi.URLParam(r, "code"), playerID, chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{})
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if !s.isCreator(r, code) {
		s.writeJSON(w, http.StatusUnauthorized, map[string]string{
			"error": "You are not the creator of this game",
			"code":  "UNAUTHORIZED",
		})
		return
	}
	if _, err := s.reg.StartGame(code); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{})
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	playerID := s.playerID(w, r)
	_, err := s.reg.Guess(chi.URLParam(r, "code"), playerID, chi.URLParam(r, "guess"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{})
}

// handleEvents streams game state to the viewer until the game is closed,
// the client disconnects, or a rematch redirects everyone elsewhere.
//
// Event vocabulary:
//   - "update": redacted state after every change (and once on subscribe)
//   - "done":   the game reached FINISHED (stream stays open for "new")
//   - "new":    a rematch was created; data is the fresh join code
//   - ": keepalive" comments on an independent timer
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	playerID := s.playerID(w, r)

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, `{"error":"streaming unsupported"}`, http.StatusInternalServerError)
		return
	}
	if !s.reg.Exists(code) {
		s.writeError(w, game.ErrGameNotFound)
		return
	}

	// Writes come from request handlers (fan-out), the keepalive timer, and
	// nothing else; the mutex serializes them and the gone flag stops all
	// writes once the handler unwinds.
	var (
		mu   sync.Mutex
		gone bool
	)
	write := func(ev sseEvent) {
		mu.Lock()
		defer mu.Unlock()
		if gone {
			return
		}
		if _, err := w.Write([]byte(ev.render())); err != nil {
			return
		}
		flusher.Flush()
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	write(sseEvent{Comment: "connected"})

	var closeOnce sync.Once
	closed := make(chan struct{})

	unsubscribe, err := s.reg.Subscribe(code,
		func(st game.State) {
			payload, err := json.Marshal(redact(st, playerID))
			if err != nil {
				log.Error().Err(err).Str("code", code).Msg("marshal state view")
				return
			}
			write(sseEvent{Event: "update", Data: string(payload)})
			if st.Phase == game.PhaseFinished {
				write(sseEvent{Event: "done", Data: "{}"})
			}
		},
		func() {
			closeOnce.Do(func() { close(closed) })
		},
		func(newCode string) {
			write(sseEvent{Event: "new", Data: newCode})
		},
	)
	if err != nil {
		// The game vanished between the existence check and the subscribe;
		// headers are already out, so just end the stream.
		return
	}

	metrics.SubscribersActive.Inc()
	defer metrics.SubscribersActive.Dec()

	keepalive := time.NewTicker(keepaliveInterval)
	defer keepalive.Stop()

	defer func() {
		mu.Lock()
		gone = true
		mu.Unlock()
		unsubscribe()
	}()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-closed:
			return
		case <-keepalive.C:
			write(sseEvent{Comment: "keepalive"})
		}
	}
}

// ------------------------------ responses ----------------------------------

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warn().Err(err).Msg("write response")
	}
}

// writeError maps a failure to its HTTP shape. Recoverable game errors keep
// their stable code; anything else is an unhandled server error.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var gerr *game.Error
	if errors.As(err, &gerr) {
		status := http.StatusBadRequest
		if gerr.Code == game.CodeGameNotFound {
			status = http.StatusNotFound
		}
		s.writeJSON(w, status, map[string]string{"error": gerr.Message, "code": string(gerr.Code)})
		return
	}
	log.Error().Err(err).Msg("unhandled server error")
	s.writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "Unhandled Server Error",
		"code":  "UNHANDLED_SERVER_ERROR",
	})
}
