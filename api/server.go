package api

import (
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/gorilla/mux"

	"github.com/fourline/relay/game/broker"
	"github.com/fourline/relay/game/engine"
)

// Server exposes the relay's REST surface and mounts the websocket
// endpoint and static assets.
type Server struct {
	broker    *broker.Broker
	router    *mux.Router
	staticDir string
	started   time.Time
}

// GameSummary describes one live session without exposing its tokens.
type GameSummary struct {
	CreatedAt   time.Time     `json:"created_at"`
	Moves       int           `json:"moves"`
	Connections int           `json:"connections"`
	Winner      engine.Player `json:"winner,omitempty"`
	Finished    bool          `json:"finished"`
}

// NewServer creates the API server. wsHandler is mounted at /ws; staticDir
// is served at the root for the browser client.
func NewServer(b *broker.Broker, wsHandler http.Handler, staticDir string) *Server {
	s := &Server{
		broker:    b,
		router:    mux.NewRouter(),
		staticDir: staticDir,
		started:   time.Now(),
	}

	s.setupRoutes(wsHandler)
	return s
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(wsHandler http.Handler) {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods("GET")
	api.HandleFunc("/stats", s.handleStats).Methods("GET")
	api.HandleFunc("/games", s.handleListGames).Methods("GET")

	// WebSocket
	s.router.Handle("/ws", wsHandler)

	// Static files for the browser client
	s.router.PathPrefix("/").Handler(http.FileServer(http.Dir(s.staticDir)))
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.started).String(),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	sessions := s.broker.Sessions()

	connections := 0
	for _, sess := range sessions {
		connections += sess.ConnCount()
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"sessions":    len(sessions),
		"connections": connections,
	})
}

// handleListGames returns anonymized summaries of live sessions, newest
// first. Tokens are never exposed here; discovery stays invitation-only.
func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	sessions := s.broker.Sessions()

	games := make([]GameSummary, 0, len(sessions))
	for _, sess := range sessions {
		moves, winner, finished := sess.Snapshot()
		games = append(games, GameSummary{
			CreatedAt:   sess.CreatedAt(),
			Moves:       len(moves),
			Connections: sess.ConnCount(),
			Winner:      winner,
			Finished:    finished,
		})
	}

	sort.Slice(games, func(i, j int) bool {
		return games[i].CreatedAt.After(games[j].CreatedAt)
	})

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(games),
		"games": games,
	})
}
