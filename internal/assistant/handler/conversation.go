package handler

import (
	"context"
	"net/http"

	"medassist/internal/assistant/core"
	"medassist/internal/assistant/session"
	httputil "medassist/pkg/http"
	"medassist/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

// ConversationManager is implemented by *session.Manager.
type ConversationManager interface {
	Start(ctx context.Context) (*session.Session, error)
	Get(ctx context.Context, id string) (*session.Session, error)
	End(ctx context.Context, id string) error
	HandleToolCalls(ctx context.Context, id string, calls []core.ToolCall) ([]core.Message, error)
}

type ConversationHandler struct {
	manager ConversationManager
	log     *logger.Logger
}

func NewConversationHandler(manager ConversationManager, log *logger.Logger) *ConversationHandler {
	return &ConversationHandler{
		manager: manager,
		log:     log,
	}
}

type ToolCallsRequest struct {
	ToolCalls []core.ToolCall `json:"tool_calls"`
}

type ToolCallsResponse struct {
	Messages []core.Message `json:"messages"`
}

func (h *ConversationHandler) Start(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s, err := h.manager.Start(r.Context())
	if err != nil {
		h.log.Error("failed to start conversation", "handler", "Start", "error", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, s)
}

func (h *ConversationHandler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s, err := h.manager.Get(r.Context(), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, s)
}

func (h *ConversationHandler) End(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.manager.End(r.Context(), ps.ByName("id")); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ConversationHandler) ToolCalls(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req ToolCallsRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	msgs, err := h.manager.HandleToolCalls(r.Context(), ps.ByName("id"), req.ToolCalls)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, ToolCallsResponse{Messages: msgs})
}

func (h *ConversationHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/conversations", h.Start)
	router.GET("/api/v1/conversations/:id", h.Get)
	router.DELETE("/api/v1/conversations/:id", h.End)
	router.POST("/api/v1/conversations/:id/tool-calls", h.ToolCalls)
}
