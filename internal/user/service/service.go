package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Loxfxgc/life-drop/internal/user/models"
	"github.com/Loxfxgc/life-drop/pkg/domain"
	dErrors "github.com/Loxfxgc/life-drop/pkg/domain-errors"
	"github.com/Loxfxgc/life-drop/pkg/platform/sentinel"
)

// Store is the profile persistence the service needs.
type Store interface {
	Create(ctx context.Context, profile models.Profile) error
	FindByID(ctx context.Context, id string) (models.Profile, error)
	Update(ctx context.Context, id string, update models.Update) error
	ListByBloodType(ctx context.Context, bloodType domain.BloodType) ([]models.Profile, error)
}

type Service struct {
	store  Store
	logger *slog.Logger
}

func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// GetProfile returns the user's profile, creating a default one on first
// read if none exists yet.
func (s *Service) GetProfile(ctx context.Context, userID string) (models.Profile, error) {
	profile, err := s.store.FindByID(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return models.Profile{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load profile")
	}

	profile = models.Profile{
		ID:     userID,
		Name:   "New User",
		Gender: "other",
	}
	if err := s.store.Create(ctx, profile); err != nil {
		// Lost a create race; the other writer's profile wins.
		if errors.Is(err, sentinel.ErrConflict) {
			return s.store.FindByID(ctx, userID)
		}
		s.logger.Error("default profile create failed", "user_id", userID, "error", err)
		return models.Profile{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create profile")
	}
	return s.store.FindByID(ctx, userID)
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, update models.Update) error {
	if update.BloodType != nil && *update.BloodType != "" && !update.BloodType.IsValid() {
		return dErrors.New(dErrors.CodeInvalidInput, "unknown blood type")
	}
	if err := s.store.Update(ctx, userID, update); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "profile not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update profile")
	}
	return nil
}

func (s *Service) ListByBloodType(ctx context.Context, raw string) ([]models.Profile, error) {
	bloodType, err := domain.ParseBloodType(raw)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "unknown blood type")
	}
	profiles, err := s.store.ListByBloodType(ctx, bloodType)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list profiles")
	}
	return profiles, nil
}
