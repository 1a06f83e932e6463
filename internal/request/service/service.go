package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"github.com/Loxfxgc/life-drop/internal/request/models"
	dErrors "github.com/Loxfxgc/life-drop/pkg/domain-errors"
	"github.com/Loxfxgc/life-drop/pkg/platform/audit"
	"github.com/Loxfxgc/life-drop/pkg/platform/audit/publisher"
	"github.com/Loxfxgc/life-drop/pkg/platform/sentinel"
	"github.com/Loxfxgc/life-drop/pkg/requestcontext"
)

// Store is the blood-request persistence the service needs.
type Store interface {
	Insert(ctx context.Context, request models.Request) (string, error)
	FindByID(ctx context.Context, id string) (models.Request, error)
	ListAll(ctx context.Context) ([]models.Request, error)
	ListByUser(ctx context.Context, userID string) ([]models.Request, error)
	ListByHospital(ctx context.Context, hospitalID string) ([]models.Request, error)
	ListByStatus(ctx context.Context, status models.Status) ([]models.Request, error)
	Update(ctx context.Context, id string, update models.Update) error
	SetStatus(ctx context.Context, id string, status models.Status, notes *string) error
	Delete(ctx context.Context, id string) error
}

type Service struct {
	store  Store
	audit  *publisher.Publisher
	logger *slog.Logger
}

func NewService(store Store, audit *publisher.Publisher, logger *slog.Logger) *Service {
	return &Service{store: store, audit: audit, logger: logger}
}

// Create stores a new request. Status is forced to pending no matter what the
// caller supplied; timestamps are server-assigned by the store.
func (s *Service) Create(ctx context.Context, request models.Request) (string, error) {
	if !request.BloodType.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown blood type")
	}
	if request.UnitsNeeded <= 0 {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unitsNeeded must be positive")
	}
	if request.Urgency == "" {
		request.Urgency = models.UrgencyNormal
	} else {
		urgency, err := models.ParseUrgency(string(request.Urgency))
		if err != nil {
			return "", dErrors.New(dErrors.CodeInvalidInput, "unknown urgency")
		}
		request.Urgency = urgency
	}
	request.Status = models.StatusPending
	request.ResponseNotes = ""

	id, err := s.store.Insert(ctx, request)
	if err != nil {
		s.logger.Error("blood request insert failed", "user_id", request.UserID, "error", err)
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to create blood request")
	}

	s.emit(ctx, audit.EventRequestCreated, request.UserID, id, "")
	return id, nil
}

func (s *Service) Get(ctx context.Context, id string) (models.Request, error) {
	request, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.Request{}, dErrors.New(dErrors.CodeNotFound, "blood request not found")
		}
		return models.Request{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load blood request")
	}
	return request, nil
}

func (s *Service) ListAll(ctx context.Context) ([]models.Request, error) {
	return s.sorted(s.store.ListAll(ctx))
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]models.Request, error) {
	return s.sorted(s.store.ListByUser(ctx, userID))
}

func (s *Service) ListForHospital(ctx context.Context, hospitalID string) ([]models.Request, error) {
	return s.sorted(s.store.ListByHospital(ctx, hospitalID))
}

// sorted orders newest-first by creation time, falling back to request time
// for records that predate the created_at column.
func (s *Service) sorted(requests []models.Request, err error) ([]models.Request, error) {
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list blood requests")
	}
	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].SortKey().After(requests[j].SortKey())
	})
	return requests, nil
}

func (s *Service) Update(ctx context.Context, id string, update models.Update) error {
	if update.BloodType != nil && !update.BloodType.IsValid() {
		return dErrors.New(dErrors.CodeInvalidInput, "unknown blood type")
	}
	if update.Urgency != nil {
		urgency, err := models.ParseUrgency(string(*update.Urgency))
		if err != nil {
			return dErrors.New(dErrors.CodeInvalidInput, "unknown urgency")
		}
		update.Urgency = &urgency
	}
	if err := s.store.Update(ctx, id, update); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "blood request not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update blood request")
	}
	return nil
}

// UpdateStatus moves the request and optionally records response notes. It
// deliberately raises no alert; only the hospital response path fans one out.
func (s *Service) UpdateStatus(ctx context.Context, id string, status models.Status, notes *string) error {
	request, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "blood request not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load blood request")
	}

	if err := s.store.SetStatus(ctx, id, status, notes); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update request status")
	}

	s.emit(ctx, audit.EventRequestStatusMoved, request.UserID, id, string(status))
	return nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "blood request not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete blood request")
	}
	return nil
}

func (s *Service) emit(ctx context.Context, action audit.AuditEvent, userID, subject, reason string) {
	event := audit.Event{
		Timestamp: requestcontext.Now(ctx),
		UserID:    userID,
		Action:    string(action),
		Subject:   subject,
		Reason:    reason,
		RequestID: requestcontext.RequestID(ctx),
		Device:    requestcontext.Device(ctx),
		ActorID:   requestcontext.UserID(ctx),
	}
	if err := s.audit.Emit(ctx, event); err != nil {
		s.logger.Warn("audit emit failed", "action", action, "error", err)
	}
}
