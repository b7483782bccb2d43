// internal/httpserver/server.go
//
// HTTP server wiring for the mathflash backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health".
//   - Setup endpoints: GET /setup/options, POST /setup (returns a one-shot hand-off token).
//   - Game endpoints: POST /game/new, GET /game/{id}, POST /game/{id}/actions.
//   - Recent sessions: GET /sessions/recent.
//
// Notes:
//   - Every route runs under withPlayer; all state is scoped to the player id.
//   - Game actions are the named commands of game.Dispatch; this file only
//     maps them to HTTP and errors to status codes.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/mathflash/internal/game"
	"github.com/robalobadob/mathflash/internal/sessionlog"
	"github.com/robalobadob/mathflash/internal/setup"
	"github.com/robalobadob/mathflash/internal/store"
)

// Deps are the collaborators the server needs.
type Deps struct {
	Sessions     store.Store
	Handoffs     *store.Handoffs
	Log          *sessionlog.Log
	Questions    game.QuestionSource
	Presets      []setup.Preset
	Clock        game.Clock // nil means wall clock
	Logger       zerolog.Logger
	Secret       string
	ClientOrigin string
	Production   bool
}

// Server bundles router, live sessions, hand-offs and the session log.
type Server struct {
	r          *chi.Mux
	sessions   store.Store
	handoffs   *store.Handoffs
	log        *sessionlog.Log
	questions  game.QuestionSource
	presets    []setup.Preset
	clock      game.Clock
	secret     []byte
	origin     string
	production bool
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	s := &Server{
		r:          chi.NewRouter(),
		sessions:   d.Sessions,
		handoffs:   d.Handoffs,
		log:        d.Log,
		questions:  d.Questions,
		presets:    d.Presets,
		clock:      d.Clock,
		secret:     []byte(d.Secret),
		origin:     d.ClientOrigin,
		production: d.Production,
	}
	if s.clock == nil {
		s.clock = game.RealClock()
	}
	if s.origin == "" {
		s.origin = "http://localhost:5173"
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(d.Logger))       // request-scoped logger
	s.r.Use(accessLog)                       // one line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(s.cors)                          // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"service":"mathflash","endpoints":["/health","GET /setup/options","POST /setup","POST /game/new","GET /game/{id}","POST /game/{id}/actions","GET /sessions/recent"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	s.r.Group(func(r chi.Router) {
		r.Use(s.withPlayer)

		r.Get("/setup/options", s.handleSetupOptions)
		r.Post("/setup", s.handleSetup)

		r.Post("/game/new", s.handleNewGame)
		r.Get("/game/{id}", s.handleGetGame)
		r.Post("/game/{id}/actions", s.handleAction)

		r.Get("/sessions/recent", s.handleRecent)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Router exposes the internal router (useful for tests and http.Server).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured front-end origin.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", s.origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

var accessLog = hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Debug().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("request_id", chimw.GetReqID(r.Context())).
		Int("status", status).
		Int("size", size).
		Dur("duration", d).
		Msg("request")
})

// ------------------------------ SETUP --------------------------------------

type optionItem struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Symbol string `json:"symbol,omitempty"`
}

type setupOptionsRes struct {
	Operations []optionItem   `json:"operations"`
	Types      []optionItem   `json:"types"`
	Ranges     []setup.Preset `json:"ranges"`
}

// handleSetupOptions lists the closed value sets the setup screen offers.
func (s *Server) handleSetupOptions(w http.ResponseWriter, r *http.Request) {
	res := setupOptionsRes{Ranges: s.presets}
	for _, op := range setup.Operations {
		res.Operations = append(res.Operations, optionItem{ID: string(op), Title: op.Title(), Symbol: op.Symbol()})
	}
	for _, t := range setup.QuestionTypes {
		res.Types = append(res.Types, optionItem{ID: string(t), Title: t.Title()})
	}
	writeJSON(w, http.StatusOK, res)
}

// setupReq carries the selections; Actions, when present, are applied first
// and then the flat fields. A selection is only launched when it is complete.
type setupReq struct {
	Actions    []setup.Action `json:"actions"`
	Operations []string       `json:"operations"`
	Range      string         `json:"range"`
	Type       string         `json:"type"`
}

type setupRes struct {
	Preview setup.Preview `json:"preview"`
	Handoff string        `json:"handoff,omitempty"`
	Mission string        `json:"mission,omitempty"`
}

// handleSetup finalizes a configuration and stores the hand-off blob.
func (s *Server) handleSetup(w http.ResponseWriter, r *http.Request) {
	var req setupReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}

	b := setup.NewBuilder()
	actions := req.Actions
	for _, op := range req.Operations {
		actions = append(actions, setup.Action{Kind: setup.ActSelectOperation, Value: op})
	}
	if req.Range != "" {
		actions = append(actions, setup.Action{Kind: setup.ActSelectRange, Value: s.resolveRange(req.Range)})
	}
	if req.Type != "" {
		actions = append(actions, setup.Action{Kind: setup.ActSelectType, Value: req.Type})
	}
	for _, a := range actions {
		if err := b.Apply(a); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_selection", "detail": err.Error()})
			return
		}
	}

	cfg, ok := b.Finalize()
	if !ok {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": "not_launchable", "preview": b.Preview()})
		return
	}
	if err := cfg.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_selection", "detail": err.Error()})
		return
	}
	blob, err := cfg.Encode()
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("encode config")
		writeError(w, http.StatusInternalServerError, "encode_failed")
		return
	}
	token := s.handoffs.Put(r.Context(), playerFrom(r), blob)
	writeJSON(w, http.StatusOK, setupRes{Preview: b.Preview(), Handoff: token, Mission: cfg.MissionText()})
}

// resolveRange maps a preset label to its "min-max" form; other values pass through.
func (s *Server) resolveRange(v string) string {
	if p, ok := setup.FindPreset(s.presets, v); ok {
		return p.Range.String()
	}
	return v
}

// ------------------------------ GAME ---------------------------------------

type newGameReq struct {
	Handoff string `json:"handoff"`
}

type gameRes struct {
	GameID string    `json:"gameId"`
	View   game.View `json:"view"`
}

const noConfigMessage = "No configuration found. Redirecting to main menu."

// handleNewGame consumes a hand-off and starts a session.
// A missing, consumed or invalid hand-off sends the client back to setup.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	player := playerFrom(r)
	blob, ok := s.handoffs.Take(r.Context(), player, req.Handoff)
	if !ok {
		writeNoConfig(w)
		return
	}
	cfg, err := setup.Decode(blob)
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("decode hand-off")
		writeNoConfig(w)
		return
	}

	sess := game.Start(cfg, s.questions, game.Options{
		ID:    uuid.NewString(),
		Clock: s.clock,
		Sink:  s.log.For(sessionlog.PlayerKey(player)),
	})
	if err := s.sessions.Save(r.Context(), player, sess); err != nil {
		_, _, _ = sess.End(r.Context())
		hlog.FromRequest(r).Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	hlog.FromRequest(r).Info().Str("gameId", sess.ID).Str("mission", cfg.MissionText()).Msg("session started")
	writeJSON(w, http.StatusCreated, gameRes{GameID: sess.ID, View: sess.View()})
}

// handleGetGame returns the current view, including the elapsed clock.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.Context(), playerFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	writeJSON(w, http.StatusOK, gameRes{GameID: sess.ID, View: sess.View()})
}

// handleAction dispatches one named action to the session.
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.Context(), playerFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	var a game.Action
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}

	view, err := sess.Dispatch(r.Context(), a)
	switch {
	case err == nil:
	case errors.Is(err, game.ErrUnknownAction):
		writeError(w, http.StatusBadRequest, "unknown_action")
		return
	case errors.Is(err, game.ErrSessionEnded):
		writeJSON(w, http.StatusGone, map[string]any{"error": "session_ended", "view": view})
		return
	case errors.Is(err, game.ErrAdvancePending):
		writeJSON(w, http.StatusConflict, map[string]any{"error": "advance_pending", "view": view})
		return
	case a.Kind == game.ActEnd:
		// the session did end; only the log write failed
		hlog.FromRequest(r).Warn().Err(err).Str("gameId", sess.ID).Msg("record session")
	default:
		hlog.FromRequest(r).Error().Err(err).Str("action", string(a.Kind)).Msg("dispatch")
		writeError(w, http.StatusInternalServerError, "action_failed")
		return
	}

	if a.Kind == game.ActEnd {
		_ = s.sessions.Delete(r.Context(), sess.ID)
		hlog.FromRequest(r).Info().Str("gameId", sess.ID).Int("total", view.Stats.Total).Msg("session ended")
	}
	writeJSON(w, http.StatusOK, gameRes{GameID: sess.ID, View: view})
}

// ----------------------------- SESSIONS ------------------------------------

type recentRes struct {
	Sessions []game.Snapshot `json:"sessions"`
}

// handleRecent returns the player's capped session log, oldest first.
func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	snaps, err := s.log.Recent(r.Context(), sessionlog.PlayerKey(playerFrom(r)))
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("read session log")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, recentRes{Sessions: snaps})
}

// ------------------------------- small util --------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

func writeNoConfig(w http.ResponseWriter) {
	writeJSON(w, http.StatusConflict, map[string]string{
		"error":    "no_config",
		"message":  noConfigMessage,
		"redirect": "/",
	})
}
