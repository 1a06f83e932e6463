// Package store provides blood-request persistence.
package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/Loxfxgc/life-drop/internal/request/models"
	"github.com/Loxfxgc/life-drop/pkg/platform/sentinel"
	"github.com/Loxfxgc/life-drop/pkg/requestcontext"
)

type InMemory struct {
	mu       sync.RWMutex
	requests map[string]models.Request
}

func NewInMemory() *InMemory {
	return &InMemory{requests: make(map[string]models.Request)}
}

func (s *InMemory) Insert(ctx context.Context, request models.Request) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := requestcontext.Now(ctx)
	request.ID = uuid.NewString()
	request.RequestDate = now
	request.CreatedAt = now
	request.UpdatedAt = now
	s.requests[request.ID] = request
	return request.ID, nil
}

func (s *InMemory) FindByID(_ context.Context, id string) (models.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r, ok := s.requests[id]; ok {
		return r, nil
	}
	return models.Request{}, sentinel.ErrNotFound
}

func (s *InMemory) ListAll(_ context.Context) ([]models.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Request, 0, len(s.requests))
	for _, r := range s.requests {
		out = append(out, r)
	}
	return out, nil
}

func (s *InMemory) ListByUser(_ context.Context, userID string) ([]models.Request, error) {
	return s.filter(func(r models.Request) bool { return r.UserID == userID })
}

func (s *InMemory) ListByHospital(_ context.Context, hospitalID string) ([]models.Request, error) {
	return s.filter(func(r models.Request) bool { return r.HospitalID == hospitalID })
}

func (s *InMemory) ListByStatus(_ context.Context, status models.Status) ([]models.Request, error) {
	return s.filter(func(r models.Request) bool { return r.Status == status })
}

func (s *InMemory) filter(keep func(models.Request) bool) ([]models.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Request
	for _, r := range s.requests {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *InMemory) Update(ctx context.Context, id string, update models.Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	if update.PatientName != nil {
		r.PatientName = *update.PatientName
	}
	if update.PatientAge != nil {
		r.PatientAge = *update.PatientAge
	}
	if update.BloodType != nil {
		r.BloodType = *update.BloodType
	}
	if update.UnitsNeeded != nil {
		r.UnitsNeeded = *update.UnitsNeeded
	}
	if update.HospitalName != nil {
		r.HospitalName = *update.HospitalName
	}
	if update.ContactName != nil {
		r.ContactName = *update.ContactName
	}
	if update.ContactPhone != nil {
		r.ContactPhone = *update.ContactPhone
	}
	if update.ContactEmail != nil {
		r.ContactEmail = *update.ContactEmail
	}
	if update.Urgency != nil {
		r.Urgency = *update.Urgency
	}
	if update.Reason != nil {
		r.Reason = *update.Reason
	}
	r.UpdatedAt = requestcontext.Now(ctx)
	s.requests[id] = r
	return nil
}

// SetStatus moves the request and optionally overwrites the response notes.
func (s *InMemory) SetStatus(ctx context.Context, id string, status models.Status, notes *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	r.Status = status
	if notes != nil {
		r.ResponseNotes = *notes
	}
	r.UpdatedAt = requestcontext.Now(ctx)
	s.requests[id] = r
	return nil
}

func (s *InMemory) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.requests[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.requests, id)
	return nil
}

// Seed inserts a request as-is, preserving id and timestamps. Test helper.
func (s *InMemory) Seed(request models.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if request.ID == "" {
		request.ID = uuid.NewString()
	}
	s.requests[request.ID] = request
}
