// Package store provides donor and donation-history persistence.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Loxfxgc/life-drop/internal/donor/models"
	"github.com/Loxfxgc/life-drop/pkg/domain"
	"github.com/Loxfxgc/life-drop/pkg/platform/sentinel"
	"github.com/Loxfxgc/life-drop/pkg/requestcontext"
)

type InMemory struct {
	mu      sync.RWMutex
	donors  map[string]models.Donor
	history map[string]models.HistoryEntry
}

func NewInMemory() *InMemory {
	return &InMemory{
		donors:  make(map[string]models.Donor),
		history: make(map[string]models.HistoryEntry),
	}
}

func (s *InMemory) Insert(ctx context.Context, donor models.Donor) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := requestcontext.Now(ctx)
	donor.ID = uuid.NewString()
	donor.CreatedAt = now
	donor.UpdatedAt = now
	s.donors[donor.ID] = donor
	return donor.ID, nil
}

func (s *InMemory) FindByID(_ context.Context, id string) (models.Donor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if d, ok := s.donors[id]; ok {
		return d, nil
	}
	return models.Donor{}, sentinel.ErrNotFound
}

// FindByUserID returns the first profile matching the owning user id.
func (s *InMemory) FindByUserID(_ context.Context, userID string) (models.Donor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.donors {
		if d.UserID == userID {
			return d, nil
		}
	}
	return models.Donor{}, sentinel.ErrNotFound
}

func (s *InMemory) ListAll(_ context.Context) ([]models.Donor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Donor, 0, len(s.donors))
	for _, d := range s.donors {
		out = append(out, d)
	}
	return out, nil
}

func (s *InMemory) ListByBloodType(_ context.Context, bloodType domain.BloodType) ([]models.Donor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Donor
	for _, d := range s.donors {
		if d.BloodType == bloodType {
			out = append(out, d)
		}
	}
	return out, nil
}

// Update merges the non-nil fields into the stored profile and stamps the
// update time.
func (s *InMemory) Update(ctx context.Context, id string, update models.Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.donors[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	if update.Name != nil {
		d.Name = *update.Name
	}
	if update.Email != nil {
		d.Email = *update.Email
	}
	if update.Phone != nil {
		d.Phone = *update.Phone
	}
	if update.BloodType != nil {
		d.BloodType = *update.BloodType
	}
	if update.Age != nil {
		d.Age = *update.Age
	}
	if update.Gender != nil {
		d.Gender = *update.Gender
	}
	if update.Weight != nil {
		d.Weight = *update.Weight
	}
	if update.Address != nil {
		d.Address = *update.Address
	}
	if update.MedicalHistory != nil {
		d.MedicalHistory = *update.MedicalHistory
	}
	d.UpdatedAt = requestcontext.Now(ctx)
	s.donors[id] = d
	return nil
}

// SetLastDonation writes the denormalized last-donation date.
func (s *InMemory) SetLastDonation(ctx context.Context, id string, date time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.donors[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	d.LastDonation = &date
	d.UpdatedAt = requestcontext.Now(ctx)
	s.donors[id] = d
	return nil
}

func (s *InMemory) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.donors[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.donors, id)
	return nil
}

func (s *InMemory) InsertHistory(ctx context.Context, entry models.HistoryEntry) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := requestcontext.Now(ctx)
	entry.ID = uuid.NewString()
	entry.CreatedAt = now
	entry.UpdatedAt = now
	s.history[entry.ID] = entry
	return entry.ID, nil
}

// ListHistoryByUser returns entries in store order; callers sort.
func (s *InMemory) ListHistoryByUser(_ context.Context, userID string) ([]models.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.HistoryEntry
	for _, e := range s.history {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}
