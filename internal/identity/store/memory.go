// Package store provides account, role, and token-revocation persistence.
package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Loxfxgc/life-drop/internal/identity/models"
	"github.com/Loxfxgc/life-drop/pkg/domain"
	"github.com/Loxfxgc/life-drop/pkg/platform/sentinel"
	"github.com/Loxfxgc/life-drop/pkg/requestcontext"
)

type InMemory struct {
	mu       sync.RWMutex
	accounts map[string]models.Account
	byEmail  map[string]string
	roles    map[string]models.RoleAssignment
}

func NewInMemory() *InMemory {
	return &InMemory{
		accounts: make(map[string]models.Account),
		byEmail:  make(map[string]string),
		roles:    make(map[string]models.RoleAssignment),
	}
}

// CreateAccount stores an account, rejecting duplicate email addresses.
func (s *InMemory) CreateAccount(ctx context.Context, account models.Account) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email := strings.ToLower(account.Email)
	if _, ok := s.byEmail[email]; ok {
		return "", sentinel.ErrConflict
	}
	account.ID = uuid.NewString()
	account.CreatedAt = requestcontext.Now(ctx)
	s.accounts[account.ID] = account
	s.byEmail[email] = account.ID
	return account.ID, nil
}

func (s *InMemory) FindAccountByEmail(_ context.Context, email string) (models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return models.Account{}, sentinel.ErrNotFound
	}
	return s.accounts[id], nil
}

func (s *InMemory) FindAccountByID(_ context.Context, id string) (models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a, ok := s.accounts[id]; ok {
		return a, nil
	}
	return models.Account{}, sentinel.ErrNotFound
}

// SetRole writes the user's role assignment, replacing any existing one.
func (s *InMemory) SetRole(ctx context.Context, userID string, role domain.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roles[userID] = models.RoleAssignment{
		UserID:     userID,
		Role:       role,
		AssignedAt: requestcontext.Now(ctx),
	}
	return nil
}

func (s *InMemory) FindRole(_ context.Context, userID string) (models.RoleAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r, ok := s.roles[userID]; ok {
		return r, nil
	}
	return models.RoleAssignment{}, sentinel.ErrNotFound
}

// RevocationMemory tracks revoked token ids in process memory. Entries past
// their expiry are dropped lazily on read.
type RevocationMemory struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewRevocationMemory() *RevocationMemory {
	return &RevocationMemory{revoked: make(map[string]time.Time)}
}

func (s *RevocationMemory) Revoke(_ context.Context, jti string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[jti] = expiresAt
	return nil
}

func (s *RevocationMemory) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.revoked[jti]
	if !ok {
		return false, nil
	}
	if !exp.IsZero() && time.Now().After(exp) {
		delete(s.revoked, jti)
		return false, nil
	}
	return true, nil
}
