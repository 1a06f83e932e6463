package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Loxfxgc/life-drop/internal/hospital/models"
	"github.com/Loxfxgc/life-drop/internal/hospital/service"
	"github.com/Loxfxgc/life-drop/internal/platform/middleware"
	requestmodels "github.com/Loxfxgc/life-drop/internal/request/models"
	"github.com/Loxfxgc/life-drop/pkg/domain"
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

func (h *Handler) Register(r chi.Router) {
	r.Post("/hospitals", h.create)
	r.Get("/hospitals", h.list)
	r.Get("/hospitals/{hospitalID}", h.get)
	r.Get("/hospitals/user/{userID}", h.byUser)
	r.Patch("/hospitals/{hospitalID}", h.update)
	r.With(middleware.RequireRole(domain.RoleAdmin)).
		Post("/hospitals/{hospitalID}/verify", h.verify)

	r.Post("/events", h.createEvent)
	r.Get("/events/upcoming", h.upcomingEvents)
	r.Get("/hospitals/{hospitalID}/events", h.hospitalEvents)

	r.Post("/donation-records", h.recordDonation)
	r.Get("/donation-records/hospital/{hospitalID}", h.donationsByHospital)
	r.Get("/donation-records/donor/{donorID}", h.donationsByDonor)
	r.Put("/donation-records/{recordID}/status", h.updateDonationStatus)

	r.Put("/hospitals/{hospitalID}/requests/{requestID}/respond", h.respondToRequest)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	hospital, err := httputil.Decode[models.Hospital](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	id, err := h.service.Register(r.Context(), hospital)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	hospitals, err := h.service.ListAll(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, hospitals)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	hospital, err := h.service.GetByID(r.Context(), chi.URLParam(r, "hospitalID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, hospital)
}

func (h *Handler) byUser(w http.ResponseWriter, r *http.Request) {
	hospital, found, err := h.service.GetByUserID(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if !found {
		httputil.WriteJSON(w, http.StatusOK, nil)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, hospital)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	update, err := httputil.Decode[models.Update](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.UpdateProfile(r.Context(), chi.URLParam(r, "hospitalID"), update); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Verify(r.Context(), chi.URLParam(r, "hospitalID")); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "verified"})
}

func (h *Handler) createEvent(w http.ResponseWriter, r *http.Request) {
	event, err := httputil.Decode[models.Event](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	id, err := h.service.CreateEvent(r.Context(), event)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *Handler) hospitalEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.HospitalEvents(r.Context(), chi.URLParam(r, "hospitalID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, events)
}

func (h *Handler) upcomingEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.UpcomingEvents(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, events)
}

func (h *Handler) recordDonation(w http.ResponseWriter, r *http.Request) {
	record, err := httputil.Decode[models.Record](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	id, err := h.service.RecordDonation(r.Context(), record)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *Handler) donationsByHospital(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.DonationsByHospital(r.Context(), chi.URLParam(r, "hospitalID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, records)
}

func (h *Handler) donationsByDonor(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.DonationsByDonor(r.Context(), chi.URLParam(r, "donorID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, records)
}

type statusBody struct {
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

func (h *Handler) updateDonationStatus(w http.ResponseWriter, r *http.Request) {
	body, err := httputil.Decode[statusBody](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	status := models.RecordStatus(body.Status)
	switch status {
	case models.RecordCollected, models.RecordProcessed, models.RecordAvailable, models.RecordUsed:
	default:
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "unknown donation status"))
		return
	}
	if err := h.service.UpdateDonationStatus(r.Context(), chi.URLParam(r, "recordID"), status, body.Notes); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": string(status)})
}

type respondBody struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes,omitempty"`
}

func (h *Handler) respondToRequest(w http.ResponseWriter, r *http.Request) {
	body, err := httputil.Decode[respondBody](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	status, err := requestmodels.ParseStatus(body.Status)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "unknown request status"))
		return
	}
	err = h.service.RespondToRequest(r.Context(),
		chi.URLParam(r, "hospitalID"), chi.URLParam(r, "requestID"), status, body.Notes)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": string(status)})
}
