package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Loxfxgc/life-drop/internal/alert/service"
	"github.com/Loxfxgc/life-drop/pkg/platform/httputil"
	"github.com/Loxfxgc/life-drop/pkg/requestcontext"
)

type Handler struct {
	service *service.Service
	logger  *slog.Logger
}

func NewHandler(service *service.Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the alert routes. All routes require authentication.
func (h *Handler) Register(r chi.Router) {
	r.Get("/alerts", h.list)
	r.Post("/alerts/{alertID}/read", h.markRead)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	alerts, err := h.service.ListForUser(ctx, requestcontext.UserID(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, alerts)
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	alertID := chi.URLParam(r, "alertID")
	if err := h.service.MarkRead(ctx, requestcontext.UserID(ctx), requestcontext.Role(ctx), alertID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "read"})
}
