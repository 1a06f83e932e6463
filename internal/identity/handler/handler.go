package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Loxfxgc/life-drop/internal/identity/service"
	"github.com/Loxfxgc/life-drop/internal/platform/middleware"
	"github.com/Loxfxgc/life-drop/pkg/domain"
	dErrors "github.com/Loxfxgc/life-drop/pkg/domain-errors"
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

// RegisterPublic mounts the unauthenticated auth routes.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/auth/register", h.register)
	r.Post("/auth/register-hospital", h.registerHospital)
	r.Post("/auth/login", h.login)
}

// RegisterProtected mounts the routes that need a valid session.
func (h *Handler) RegisterProtected(r chi.Router) {
	r.Get("/auth/me", h.me)
	r.Post("/auth/logout", h.logout)
	r.With(middleware.RequireRole(domain.RoleAdmin)).
		Put("/users/{userID}/role", h.updateRole)
}

type registerBody struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	body, err := httputil.Decode[registerBody](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	session, err := h.service.Register(r.Context(), body.Name, body.Email, body.Password)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, session)
}

func (h *Handler) registerHospital(w http.ResponseWriter, r *http.Request) {
	body, err := httputil.Decode[registerBody](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	session, err := h.service.RegisterHospital(r.Context(), body.Name, body.Email, body.Password)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, session)
}

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	body, err := httputil.Decode[loginBody](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	session, err := h.service.SignIn(r.Context(), body.Email, body.Password)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, session)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session, err := h.service.CurrentUser(ctx, requestcontext.UserID(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, session)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || token == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing bearer token"))
		return
	}
	if err := h.service.SignOut(r.Context(), token); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}

type roleBody struct {
	Role string `json:"role"`
}

func (h *Handler) updateRole(w http.ResponseWriter, r *http.Request) {
	body, err := httputil.Decode[roleBody](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	role, err := domain.ParseRole(body.Role)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "unknown role"))
		return
	}
	if err := h.service.UpdateUserRole(r.Context(), chi.URLParam(r, "userID"), role); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}
