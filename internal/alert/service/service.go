package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"github.com/Loxfxgc/life-drop/internal/alert/models"
	"github.com/Loxfxgc/life-drop/pkg/domain"
	dErrors "github.com/Loxfxgc/life-drop/pkg/domain-errors"
	"github.com/Loxfxgc/life-drop/pkg/platform/sentinel"
)

// Store is the alert persistence the service needs.
type Store interface {
	Insert(ctx context.Context, alert models.Alert) (string, error)
	FindByID(ctx context.Context, id string) (models.Alert, error)
	ListByUser(ctx context.Context, userID string) ([]models.Alert, error)
	SetStatus(ctx context.Context, id string, status models.Status) error
}

// Service is the alert inbox: list and mark-read, keyed by recipient user id.
type Service struct {
	store  Store
	logger *slog.Logger
}

func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// ListForUser fetches by equality filter then sorts newest-first in memory.
// Alerts without a timestamp sort last.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]models.Alert, error) {
	alerts, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("list alerts failed", "user_id", userID, "error", err)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list alerts")
	}
	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].CreatedAt.After(alerts[j].CreatedAt)
	})
	return alerts, nil
}

// MarkRead flips an alert to read. The caller must own the alert or be an
// admin; the original system skipped this check, which was an authorization
// gap, so ownership is enforced here.
func (s *Service) MarkRead(ctx context.Context, callerID string, callerRole domain.Role, alertID string) error {
	alert, err := s.store.FindByID(ctx, alertID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "alert not found")
		}
		s.logger.Error("alert lookup failed", "alert_id", alertID, "error", err)
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load alert")
	}

	if alert.UserID != callerID && callerRole != domain.RoleAdmin {
		return dErrors.New(dErrors.CodeForbidden, "alert belongs to another user")
	}

	if err := s.store.SetStatus(ctx, alertID, models.StatusRead); err != nil {
		s.logger.Error("mark alert read failed", "alert_id", alertID, "error", err)
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to mark alert read")
	}
	return nil
}
