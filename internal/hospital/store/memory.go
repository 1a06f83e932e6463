// Package store provides hospital, event, and donation-record persistence.
package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/Loxfxgc/life-drop/internal/hospital/models"
	"github.com/Loxfxgc/life-drop/pkg/platform/sentinel"
	"github.com/Loxfxgc/life-drop/pkg/requestcontext"
)

type InMemory struct {
	mu        sync.RWMutex
	hospitals map[string]models.Hospital
	events    map[string]models.Event
	records   map[string]models.Record
}

func NewInMemory() *InMemory {
	return &InMemory{
		hospitals: make(map[string]models.Hospital),
		events:    make(map[string]models.Event),
		records:   make(map[string]models.Record),
	}
}

func (s *InMemory) Insert(ctx context.Context, hospital models.Hospital) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := requestcontext.Now(ctx)
	hospital.ID = uuid.NewString()
	hospital.RegistrationDate = now
	hospital.CreatedAt = now
	hospital.UpdatedAt = now
	s.hospitals[hospital.ID] = hospital
	return hospital.ID, nil
}

func (s *InMemory) FindByID(_ context.Context, id string) (models.Hospital, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if h, ok := s.hospitals[id]; ok {
		return h, nil
	}
	return models.Hospital{}, sentinel.ErrNotFound
}

func (s *InMemory) FindByUserID(_ context.Context, userID string) (models.Hospital, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, h := range s.hospitals {
		if h.UserID == userID {
			return h, nil
		}
	}
	return models.Hospital{}, sentinel.ErrNotFound
}

func (s *InMemory) ListAll(_ context.Context) ([]models.Hospital, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Hospital, 0, len(s.hospitals))
	for _, h := range s.hospitals {
		out = append(out, h)
	}
	return out, nil
}

func (s *InMemory) Update(ctx context.Context, id string, update models.Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.hospitals[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	if update.Name != nil {
		h.Name = *update.Name
	}
	if update.Email != nil {
		h.Email = *update.Email
	}
	if update.Phone != nil {
		h.Phone = *update.Phone
	}
	if update.Address != nil {
		h.Address = *update.Address
	}
	if update.City != nil {
		h.City = *update.City
	}
	if update.State != nil {
		h.State = *update.State
	}
	if update.ZipCode != nil {
		h.ZipCode = *update.ZipCode
	}
	if update.LicenseNumber != nil {
		h.LicenseNumber = *update.LicenseNumber
	}
	if update.ContactPerson != nil {
		h.ContactPerson = *update.ContactPerson
	}
	h.UpdatedAt = requestcontext.Now(ctx)
	s.hospitals[id] = h
	return nil
}

func (s *InMemory) SetVerified(ctx context.Context, id string, verified bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.hospitals[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	h.IsVerified = verified
	h.UpdatedAt = requestcontext.Now(ctx)
	s.hospitals[id] = h
	return nil
}

func (s *InMemory) InsertEvent(ctx context.Context, event models.Event) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := requestcontext.Now(ctx)
	event.ID = uuid.NewString()
	event.CreatedAt = now
	event.UpdatedAt = now
	s.events[event.ID] = event
	return event.ID, nil
}

// ListEventsByHospital returns events in store order; callers sort.
func (s *InMemory) ListEventsByHospital(_ context.Context, hospitalID string) ([]models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Event
	for _, e := range s.events {
		if e.HospitalID == hospitalID {
			out = append(out, e)
		}
	}
	return out, nil
}

// ListEventsByStatus matches any of the given statuses.
func (s *InMemory) ListEventsByStatus(_ context.Context, statuses ...models.EventStatus) ([]models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Event
	for _, e := range s.events {
		for _, st := range statuses {
			if e.Status == st {
				out = append(out, e)
				break
			}
		}
	}
	return out, nil
}

func (s *InMemory) InsertRecord(ctx context.Context, record models.Record) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := requestcontext.Now(ctx)
	record.ID = uuid.NewString()
	record.CreatedAt = now
	record.UpdatedAt = now
	s.records[record.ID] = record
	return record.ID, nil
}

func (s *InMemory) FindRecordByID(_ context.Context, id string) (models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r, ok := s.records[id]; ok {
		return r, nil
	}
	return models.Record{}, sentinel.ErrNotFound
}

func (s *InMemory) ListRecordsByHospital(_ context.Context, hospitalID string) ([]models.Record, error) {
	return s.filterRecords(func(r models.Record) bool { return r.HospitalID == hospitalID })
}

func (s *InMemory) ListRecordsByDonor(_ context.Context, donorID string) ([]models.Record, error) {
	return s.filterRecords(func(r models.Record) bool { return r.DonorID == donorID })
}

func (s *InMemory) filterRecords(keep func(models.Record) bool) ([]models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Record
	for _, r := range s.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

// SetRecordStatus rewrites status and notes on an existing record.
func (s *InMemory) SetRecordStatus(ctx context.Context, id string, status models.RecordStatus, notes string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	r.Status = status
	r.Notes = notes
	r.UpdatedAt = requestcontext.Now(ctx)
	s.records[id] = r
	return nil
}

// SeedEvent inserts an event as-is, preserving id and timestamps. Test helper.
func (s *InMemory) SeedEvent(event models.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	s.events[event.ID] = event
}

// SeedRecord inserts a record as-is. Test helper.
func (s *InMemory) SeedRecord(record models.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	s.records[record.ID] = record
}
