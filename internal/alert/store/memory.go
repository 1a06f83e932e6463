// Package store provides alert persistence. In-memory keeps tests and
// single-node deployments lightweight; Postgres backs everything else.
package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/Loxfxgc/life-drop/internal/alert/models"
	"github.com/Loxfxgc/life-drop/pkg/platform/sentinel"
	"github.com/Loxfxgc/life-drop/pkg/requestcontext"
)

type InMemory struct {
	mu     sync.RWMutex
	alerts map[string]models.Alert
}

func NewInMemory() *InMemory {
	return &InMemory{alerts: make(map[string]models.Alert)}
}

// Insert assigns an id and the server timestamp, then stores the alert.
func (s *InMemory) Insert(ctx context.Context, alert models.Alert) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	alert.ID = uuid.NewString()
	alert.CreatedAt = requestcontext.Now(ctx)
	s.alerts[alert.ID] = alert
	return alert.ID, nil
}

func (s *InMemory) FindByID(_ context.Context, id string) (models.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a, ok := s.alerts[id]; ok {
		return a, nil
	}
	return models.Alert{}, sentinel.ErrNotFound
}

// ListByUser returns the user's alerts in store order; callers sort.
func (s *InMemory) ListByUser(_ context.Context, userID string) ([]models.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Alert
	for _, a := range s.alerts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *InMemory) SetStatus(_ context.Context, id string, status models.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.alerts[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	a.Status = status
	s.alerts[id] = a
	return nil
}

// Seed inserts an alert as-is, preserving id and timestamp. Test helper.
func (s *InMemory) Seed(alert models.Alert) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if alert.ID == "" {
		alert.ID = uuid.NewString()
	}
	s.alerts[alert.ID] = alert
}
