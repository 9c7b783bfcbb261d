package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HexSleeves/hrchat/internal/chat"
	hrerrors "github.com/HexSleeves/hrchat/internal/errors"
)

const maxBodyBytes = 1 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": s.now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.db.Ping(ctx); err != nil {
			s.logger.Warn("readiness check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"error":  err.Error(),
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

type toolsListResponse struct {
	Tools []mcp.Tool `json:"tools"`
}

func (s *Server) handleToolsList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toolsListResponse{Tools: s.executor.Registry().Descriptors()})
}

type toolCallRequest struct {
	Method string `json:"method,omitempty"`
	Params struct {
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	} `json:"params"`
}

func (s *Server) handleToolsCall(w http.ResponseWriter, r *http.Request) {
	var req toolCallRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err, hrerrors.CodeInvalidRequest)
		return
	}
	if strings.TrimSpace(req.Params.Name) == "" {
		writeError(w, hrerrors.New(hrerrors.CodeInvalidRequest, "Tool name is required"), hrerrors.CodeInvalidRequest)
		return
	}

	resp, err := s.executor.Execute(r.Context(), req.Params.Name, req.Params.Arguments)
	if err != nil {
		writeError(w, err, hrerrors.CodeExecution)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type chatRequest struct {
	Message             string                `json:"message"`
	ConversationHistory []chat.HistoryMessage `json:"conversation_history,omitempty"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err, hrerrors.CodeInvalidRequest)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, hrerrors.New(hrerrors.CodeInvalidRequest, "Message is required"), hrerrors.CodeInvalidRequest)
		return
	}
	if s.chat == nil {
		writeError(w, hrerrors.New(hrerrors.CodeChat, "chat is not configured: no LLM API key"), hrerrors.CodeChat)
		return
	}

	res, err := s.chat.Chat(r.Context(), req.Message, req.ConversationHistory)
	if err != nil {
		writeError(w, err, hrerrors.CodeChat)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// decodeBody reads a JSON request body. An empty body decodes as {}.
func decodeBody(w http.ResponseWriter, r *http.Request, out any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return hrerrors.Wrap(hrerrors.CodeInvalidRequest, err, "Invalid JSON body")
	}
	return nil
}
