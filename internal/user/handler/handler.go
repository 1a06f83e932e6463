package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Loxfxgc/life-drop/internal/user/models"
	"github.com/Loxfxgc/life-drop/internal/user/service"
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

// Register mounts the profile routes. Callers operate on their own profile;
// the blood-type listing serves donor outreach.
func (h *Handler) Register(r chi.Router) {
	r.Get("/profile", h.get)
	r.Patch("/profile", h.update)
	r.Get("/users", h.listByBloodType)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profile, err := h.service.GetProfile(ctx, requestcontext.UserID(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, profile)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	update, err := httputil.Decode[models.Update](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	ctx := r.Context()
	if err := h.service.UpdateProfile(ctx, requestcontext.UserID(ctx), update); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) listByBloodType(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.service.ListByBloodType(r.Context(), r.URL.Query().Get("bloodType"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, profiles)
}
