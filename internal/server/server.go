// Package server exposes the HTTP surface: the JSON-RPC endpoint, the
// conversational /chat endpoint, the people REST API, and health.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/peopled/peopled/internal/agent"
	"github.com/peopled/peopled/internal/mcp"
	"github.com/peopled/peopled/internal/store"
)

// Server bundles the HTTP handlers over the protocol dispatcher, the chat
// orchestrator, and the people store.
type Server struct {
	dispatcher   *mcp.Dispatcher
	orchestrator *agent.Orchestrator
	store        *store.Store
}

func New(dispatcher *mcp.Dispatcher, orchestrator *agent.Orchestrator, st *store.Store) *Server {
	return &Server{dispatcher: dispatcher, orchestrator: orchestrator, store: st}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /mcp", s.handleMCP)
	mux.HandleFunc("GET /mcp", s.handleMCPDiscovery)
	mux.HandleFunc("GET /mcp/ws", s.dispatcher.ServeWS)

	mux.HandleFunc("POST /chat", s.handleChat)

	mux.HandleFunc("POST /people", s.handleCreatePerson)
	mux.HandleFunc("GET /people", s.handleListPeople)
	mux.HandleFunc("GET /people/{id}", s.handleGetPerson)
	mux.HandleFunc("PUT /people/{id}", s.handleUpdatePerson)
	mux.HandleFunc("DELETE /people/{id}", s.handleDeletePerson)

	mux.HandleFunc("GET /api/health", s.handleHealth)

	return mux
}

// Run serves on addr until ctx is cancelled, then drains connections.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("Failed to encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}
