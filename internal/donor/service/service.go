package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/Loxfxgc/life-drop/internal/donor/models"
	"github.com/Loxfxgc/life-drop/internal/effects"
	"github.com/Loxfxgc/life-drop/pkg/domain"
	dErrors "github.com/Loxfxgc/life-drop/pkg/domain-errors"
	"github.com/Loxfxgc/life-drop/pkg/platform/audit"
	"github.com/Loxfxgc/life-drop/pkg/platform/audit/publisher"
	"github.com/Loxfxgc/life-drop/pkg/platform/sentinel"
	"github.com/Loxfxgc/life-drop/pkg/requestcontext"
)

// Store is the donor persistence the service needs.
type Store interface {
	Insert(ctx context.Context, donor models.Donor) (string, error)
	FindByID(ctx context.Context, id string) (models.Donor, error)
	FindByUserID(ctx context.Context, userID string) (models.Donor, error)
	ListAll(ctx context.Context) ([]models.Donor, error)
	ListByBloodType(ctx context.Context, bloodType domain.BloodType) ([]models.Donor, error)
	Update(ctx context.Context, id string, update models.Update) error
	SetLastDonation(ctx context.Context, id string, date time.Time) error
	Delete(ctx context.Context, id string) error
	InsertHistory(ctx context.Context, entry models.HistoryEntry) (string, error)
	ListHistoryByUser(ctx context.Context, userID string) ([]models.HistoryEntry, error)
}

type Service struct {
	store   Store
	effects *effects.Runner
	audit   *publisher.Publisher
	logger  *slog.Logger
}

func NewService(store Store, runner *effects.Runner, audit *publisher.Publisher, logger *slog.Logger) *Service {
	return &Service{store: store, effects: runner, audit: audit, logger: logger}
}

// Register creates a donor profile with server-assigned timestamps.
func (s *Service) Register(ctx context.Context, donor models.Donor) (string, error) {
	if !donor.BloodType.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown blood type")
	}
	if donor.UserID == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "userId is required")
	}

	id, err := s.store.Insert(ctx, donor)
	if err != nil {
		s.logger.Error("donor insert failed", "user_id", donor.UserID, "error", err)
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to register donor")
	}

	s.emit(ctx, audit.EventDonorRegistered, donor.UserID, id)
	return id, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (models.Donor, error) {
	donor, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.Donor{}, dErrors.New(dErrors.CodeNotFound, "donor not found")
		}
		return models.Donor{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load donor")
	}
	return donor, nil
}

// GetByUserID looks up the profile owned by a user. An absent profile is a
// normal outcome, reported through the bool rather than an error.
func (s *Service) GetByUserID(ctx context.Context, userID string) (models.Donor, bool, error) {
	donor, err := s.store.FindByUserID(ctx, userID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return models.Donor{}, false, nil
	}
	if err != nil {
		return models.Donor{}, false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load donor")
	}
	return donor, true, nil
}

func (s *Service) ListAll(ctx context.Context) ([]models.Donor, error) {
	donors, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list donors")
	}
	return donors, nil
}

func (s *Service) ListByBloodType(ctx context.Context, raw string) ([]models.Donor, error) {
	bloodType, err := domain.ParseBloodType(raw)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "unknown blood type")
	}
	donors, err := s.store.ListByBloodType(ctx, bloodType)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list donors")
	}
	return donors, nil
}

func (s *Service) Update(ctx context.Context, id string, update models.Update) error {
	if update.BloodType != nil && !update.BloodType.IsValid() {
		return dErrors.New(dErrors.CodeInvalidInput, "unknown blood type")
	}
	if err := s.store.Update(ctx, id, update); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "donor not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update donor")
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "donor not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete donor")
	}
	return nil
}

// History returns the donor's donation timeline, newest first.
func (s *Service) History(ctx context.Context, userID string) ([]models.HistoryEntry, error) {
	entries, err := s.store.ListHistoryByUser(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list donation history")
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})
	return entries, nil
}

// RecordDonation appends a history entry and, when the entry names a donor
// profile, stamps its lastDonation through the effect runner. The stamp never
// recomputes from history: it simply mirrors this entry's date.
func (s *Service) RecordDonation(ctx context.Context, entry models.HistoryEntry) (string, error) {
	if !entry.BloodType.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown blood type")
	}
	if entry.Status == "" {
		entry.Status = models.HistoryCompleted
	}

	id, err := s.store.InsertHistory(ctx, entry)
	if err != nil {
		s.logger.Error("donation history insert failed", "user_id", entry.UserID, "error", err)
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to record donation")
	}

	if err := s.effects.Apply(ctx, s.donationEffects(id, entry)); err != nil {
		s.logger.Error("donation side writes failed", "history_id", id, "error", err)
		return id, dErrors.Wrap(err, dErrors.CodeInternal, "donation recorded but side writes failed")
	}

	s.emit(ctx, audit.EventDonationRecorded, entry.UserID, id)
	return id, nil
}

func (s *Service) donationEffects(id string, entry models.HistoryEntry) []effects.Effect {
	if entry.DonorID == "" {
		return nil
	}
	return []effects.Effect{
		effects.Func{
			K: fmt.Sprintf("history:%s:last-donation", id),
			Fn: func(ctx context.Context) error {
				return s.store.SetLastDonation(ctx, entry.DonorID, entry.Date)
			},
		},
	}
}

func (s *Service) emit(ctx context.Context, action audit.AuditEvent, userID, subject string) {
	event := audit.Event{
		Timestamp: requestcontext.Now(ctx),
		UserID:    userID,
		Action:    string(action),
		Subject:   subject,
		RequestID: requestcontext.RequestID(ctx),
		Device:    requestcontext.Device(ctx),
		ActorID:   requestcontext.UserID(ctx),
	}
	if err := s.audit.Emit(ctx, event); err != nil {
		s.logger.Warn("audit emit failed", "action", action, "error", err)
	}
}
