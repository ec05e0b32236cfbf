// Package jsonrpc exposes the marketplace over a JSON-RPC 2.0 HTTP
// surface. Callers are trusted to have been authenticated upstream.
package jsonrpc

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
)

// Server represents a JSON-RPC server.
type Server struct {
	handler *Handler
	log     *logrus.Logger
}

// NewServer creates a new JSON-RPC server instance.
func NewServer(handler *Handler, log *logrus.Logger) *Server {
	return &Server{handler: handler, log: log}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		JsonRPC string          `json:"jsonrpc"`
		Method  string          `json:"method"`
		Params  json.RawMessage `json:"params"`
		ID      interface{}     `json:"id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, nil, -32700, "Parse error", nil)
		return
	}

	result, err := s.handler.Handle(r.Context(), req.Method, req.Params)
	if err != nil {
		code := -32603
		switch {
		case errors.Is(err, ErrMethodNotFound):
			code = -32601
		case errors.Is(err, ErrInvalidParams):
			code = -32602
		}
		s.log.WithFields(logrus.Fields{
			"method": req.Method,
			"error":  err,
		}).Debug("request failed")
		writeError(w, req.ID, code, err.Error(), nil)
		return
	}

	response := map[string]interface{}{
		"jsonrpc": "2.0",
		"result":  result,
		"id":      req.ID,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func writeError(w http.ResponseWriter, id interface{}, code int, message string, data interface{}) {
	response := map[string]interface{}{
		"jsonrpc": "2.0",
		"error": map[string]interface{}{
			"code":    code,
			"message": message,
			"data":    data,
		},
		"id": id,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
