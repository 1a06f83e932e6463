package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Loxfxgc/life-drop/internal/request/models"
	"github.com/Loxfxgc/life-drop/internal/request/service"
	dErrors "github.com/Loxfxgc/life-drop/pkg/domain-errors"
	"github.com/Loxfxgc/life-drop/pkg/platform/httputil"
)

type Handler struct {
	service *service.Service
	logger  *slog.Logger
}

func NewHandler(service *service.Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the blood-request routes. The named transitions (approve,
// reject, fulfill, cancel) are thin wrappers over the status update.
func (h *Handler) Register(r chi.Router) {
	r.Post("/requests", h.create)
	r.Get("/requests", h.list)
	r.Get("/requests/{requestID}", h.get)
	r.Patch("/requests/{requestID}", h.update)
	r.Delete("/requests/{requestID}", h.delete)
	r.Put("/requests/{requestID}/approve", h.transition(models.StatusApproved))
	r.Put("/requests/{requestID}/reject", h.transition(models.StatusRejected))
	r.Put("/requests/{requestID}/fulfill", h.transition(models.StatusFulfilled))
	r.Put("/requests/{requestID}/cancel", h.transition(models.StatusCancelled))
	r.Put("/requests/{requestID}/status", h.setStatus)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	request, err := httputil.Decode[models.Request](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	id, err := h.service.Create(r.Context(), request)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var (
		requests []models.Request
		err      error
	)
	switch {
	case r.URL.Query().Get("userId") != "":
		requests, err = h.service.ListByUser(ctx, r.URL.Query().Get("userId"))
	case r.URL.Query().Get("hospitalId") != "":
		requests, err = h.service.ListForHospital(ctx, r.URL.Query().Get("hospitalId"))
	default:
		requests, err = h.service.ListAll(ctx)
	}
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, requests)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	request, err := h.service.Get(r.Context(), chi.URLParam(r, "requestID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, request)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	update, err := httputil.Decode[models.Update](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.Update(r.Context(), chi.URLParam(r, "requestID"), update); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "requestID")); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type statusBody struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes,omitempty"`
	Reason *string `json:"reason,omitempty"`
}

func (h *Handler) transition(status models.Status) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var notes *string
		if r.ContentLength > 0 {
			body, err := httputil.Decode[statusBody](r)
			if err != nil {
				httputil.WriteError(w, err)
				return
			}
			notes = body.Notes
			if notes == nil {
				notes = body.Reason
			}
		}
		if err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "requestID"), status, notes); err != nil {
			httputil.WriteError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": string(status)})
	}
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request) {
	body, err := httputil.Decode[statusBody](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	status, err := models.ParseStatus(body.Status)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "unknown request status"))
		return
	}
	if err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "requestID"), status, body.Notes); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": string(status)})
}
