// Package store provides hospital inventory persistence.
package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/Loxfxgc/life-drop/internal/inventory/models"
	"github.com/Loxfxgc/life-drop/pkg/domain"
	"github.com/Loxfxgc/life-drop/pkg/platform/sentinel"
	"github.com/Loxfxgc/life-drop/pkg/requestcontext"
)

type lineKey struct {
	hospitalID string
	bloodType  domain.BloodType
}

type InMemory struct {
	mu    sync.Mutex
	lines map[lineKey]models.Line
}

func NewInMemory() *InMemory {
	return &InMemory{lines: make(map[lineKey]models.Line)}
}

// Upsert creates or replaces the line for (hospitalId, bloodType) under one
// lock, so two concurrent writers can never produce duplicate lines.
func (s *InMemory) Upsert(ctx context.Context, hospitalID string, bloodType domain.BloodType, units int) (models.Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := lineKey{hospitalID: hospitalID, bloodType: bloodType}
	line, ok := s.lines[key]
	if !ok {
		line = models.Line{
			ID:         uuid.NewString(),
			HospitalID: hospitalID,
			BloodType:  bloodType,
		}
	}
	line.AvailableUnits = units
	line.LastUpdated = requestcontext.Now(ctx)
	s.lines[key] = line
	return line, nil
}

func (s *InMemory) ListByHospital(_ context.Context, hospitalID string) ([]models.Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Line
	for _, line := range s.lines {
		if line.HospitalID == hospitalID {
			out = append(out, line)
		}
	}
	return out, nil
}

func (s *InMemory) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, line := range s.lines {
		if line.ID == id {
			delete(s.lines, key)
			return nil
		}
	}
	return sentinel.ErrNotFound
}
