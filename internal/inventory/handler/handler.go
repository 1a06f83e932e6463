package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Loxfxgc/life-drop/internal/inventory/service"
	"github.com/Loxfxgc/life-drop/pkg/platform/httputil"
)

type Handler struct {
	service *service.Service
	logger  *slog.Logger
}

func NewHandler(service *service.Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/inventory/availability", h.availability)
	r.Get("/inventory/compatibility", h.compatibility)
	r.Get("/hospitals/{hospitalID}/inventory", h.hospitalInventory)
	r.Put("/hospitals/{hospitalID}/inventory", h.upsertLine)
	r.Delete("/inventory/{lineID}", h.deleteLine)
}

func (h *Handler) availability(w http.ResponseWriter, r *http.Request) {
	availability, err := h.service.BloodAvailability(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, availability)
}

func (h *Handler) compatibility(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.service.CompatibilityChart())
}

func (h *Handler) hospitalInventory(w http.ResponseWriter, r *http.Request) {
	lines, err := h.service.HospitalInventory(r.Context(), chi.URLParam(r, "hospitalID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, lines)
}

type upsertBody struct {
	BloodType      string `json:"bloodType"`
	AvailableUnits int    `json:"availableUnits"`
}

func (h *Handler) upsertLine(w http.ResponseWriter, r *http.Request) {
	body, err := httputil.Decode[upsertBody](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	line, err := h.service.UpsertLine(r.Context(), chi.URLParam(r, "hospitalID"), body.BloodType, body.AvailableUnits)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, line)
}

func (h *Handler) deleteLine(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteLine(r.Context(), chi.URLParam(r, "lineID")); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
