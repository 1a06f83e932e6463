package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Loxfxgc/life-drop/internal/donor/models"
	"github.com/Loxfxgc/life-drop/internal/donor/service"
	"github.com/Loxfxgc/life-drop/pkg/platform/httputil"
)

type Handler struct {
	service *service.Service
	logger  *slog.Logger
}

func NewHandler(service *service.Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the donor routes. Blood type filters arrive as a query
// parameter since "+" does not survive a path segment.
func (h *Handler) Register(r chi.Router) {
	r.Post("/donors", h.create)
	r.Get("/donors", h.list)
	r.Get("/donors/{donorID}", h.get)
	r.Patch("/donors/{donorID}", h.update)
	r.Delete("/donors/{donorID}", h.delete)
	r.Get("/donors/user/{userID}", h.byUser)
	r.Get("/donors/user/{userID}/history", h.history)
	r.Post("/donations", h.recordDonation)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	donor, err := httputil.Decode[models.Donor](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	id, err := h.service.Register(r.Context(), donor)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var (
		donors []models.Donor
		err    error
	)
	if bloodType := r.URL.Query().Get("bloodType"); bloodType != "" {
		donors, err = h.service.ListByBloodType(r.Context(), bloodType)
	} else {
		donors, err = h.service.ListAll(r.Context())
	}
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, donors)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	donor, err := h.service.GetByID(r.Context(), chi.URLParam(r, "donorID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, donor)
}

// byUser returns null with 200 when the user has no profile. Absence is an
// expected state the client renders, not a failure.
func (h *Handler) byUser(w http.ResponseWriter, r *http.Request) {
	donor, found, err := h.service.GetByUserID(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if !found {
		httputil.WriteJSON(w, http.StatusOK, nil)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, donor)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	update, err := httputil.Decode[models.Update](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.Update(r.Context(), chi.URLParam(r, "donorID"), update); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "donorID")); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.History(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, entries)
}

func (h *Handler) recordDonation(w http.ResponseWriter, r *http.Request) {
	entry, err := httputil.Decode[models.HistoryEntry](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	id, err := h.service.RecordDonation(r.Context(), entry)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]string{"id": id})
}
