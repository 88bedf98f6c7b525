package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/peopled/peopled/internal/schema"
)

// maxBodyBytes bounds request bodies to keep malformed clients from
// exhausting memory.
const maxBodyBytes = 1 << 20

// handleMCP feeds the body through the JSON-RPC dispatcher. Payloads that
// produce no response (notifications) are acknowledged with 202.
func (s *Server) handleMCP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	resp := s.dispatcher.Dispatch(r.Context(), body)
	if resp == nil {
		w.WriteHeader(http.StatusAccepted)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(resp)
}

// handleMCPDiscovery answers GET /mcp with server identity and a summary of
// the available tools, for clients probing availability before speaking
// JSON-RPC.
func (s *Server) handleMCPDiscovery(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.dispatcher.Discovery())
}

// handleChat runs one orchestrated conversation turn.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserQuery   string           `json:"user_query"`
		ChatHistory []schema.Message `json:"chat_history"`
	}
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if req.UserQuery == "" {
		writeError(w, http.StatusUnprocessableEntity, "user_query is required")
		return
	}

	res, err := s.orchestrator.Turn(r.Context(), req.UserQuery, req.ChatHistory)
	if err != nil {
		writeError(w, http.StatusBadGateway, "completion service error: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"response":              res.Response,
		"chat_history":          res.History,
		"tool_budget_exhausted": res.ExhaustedBudget,
	})
}

// decodeJSONBody decodes a size-limited JSON request body into dst.
func decodeJSONBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return errors.New("malformed JSON body")
	}
	return nil
}
