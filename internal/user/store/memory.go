// Package store provides user profile persistence. Profiles are keyed by the
// owning user's id rather than a generated one.
package store

import (
	"context"
	"sync"

	"github.com/Loxfxgc/life-drop/internal/user/models"
	"github.com/Loxfxgc/life-drop/pkg/domain"
	"github.com/Loxfxgc/life-drop/pkg/platform/sentinel"
	"github.com/Loxfxgc/life-drop/pkg/requestcontext"
)

type InMemory struct {
	mu       sync.RWMutex
	profiles map[string]models.Profile
}

func NewInMemory() *InMemory {
	return &InMemory{profiles: make(map[string]models.Profile)}
}

// Create stores a profile under its own id. An existing profile is a
// conflict, not an overwrite.
func (s *InMemory) Create(ctx context.Context, profile models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[profile.ID]; ok {
		return sentinel.ErrConflict
	}
	now := requestcontext.Now(ctx)
	profile.CreatedAt = now
	profile.UpdatedAt = now
	s.profiles[profile.ID] = profile
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id string) (models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.profiles[id]; ok {
		return p, nil
	}
	return models.Profile{}, sentinel.ErrNotFound
}

func (s *InMemory) Update(ctx context.Context, id string, update models.Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	if update.Name != nil {
		p.Name = *update.Name
	}
	if update.Email != nil {
		p.Email = *update.Email
	}
	if update.Phone != nil {
		p.Phone = *update.Phone
	}
	if update.Address != nil {
		p.Address = *update.Address
	}
	if update.BloodType != nil {
		p.BloodType = *update.BloodType
	}
	if update.DateOfBirth != nil {
		p.DateOfBirth = *update.DateOfBirth
	}
	if update.Gender != nil {
		p.Gender = *update.Gender
	}
	if update.ProfilePicture != nil {
		p.ProfilePicture = *update.ProfilePicture
	}
	p.UpdatedAt = requestcontext.Now(ctx)
	s.profiles[id] = p
	return nil
}

func (s *InMemory) ListByBloodType(_ context.Context, bloodType domain.BloodType) ([]models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Profile
	for _, p := range s.profiles {
		if p.BloodType == bloodType {
			out = append(out, p)
		}
	}
	return out, nil
}
