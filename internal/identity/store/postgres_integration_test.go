//go:build integration

package store_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/Loxfxgc/life-drop/internal/identity/models"
	"github.com/Loxfxgc/life-drop/internal/identity/store"
	"github.com/Loxfxgc/life-drop/pkg/domain"
	"github.com/Loxfxgc/life-drop/pkg/platform/sentinel"
	"github.com/Loxfxgc/life-drop/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.Postgres
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "user_accounts", "user_roles")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) TestCreateAndFindAccount() {
	ctx := context.Background()

	id, err := s.store.CreateAccount(ctx, models.Account{
		Name:         "Asha",
		Email:        "Asha@Example.com",
		PasswordHash: "$2a$10$hash",
	})
	s.Require().NoError(err)
	s.Require().NotEmpty(id)

	// Email lookups are case-insensitive because addresses are lowered on write.
	account, err := s.store.FindAccountByEmail(ctx, "ASHA@example.COM")
	s.Require().NoError(err)
	s.Equal(id, account.ID)
	s.Equal("asha@example.com", account.Email)

	byID, err := s.store.FindAccountByID(ctx, id)
	s.Require().NoError(err)
	s.Equal(account.Email, byID.Email)
}

func (s *PostgresStoreSuite) TestFindAccountMissing() {
	_, err := s.store.FindAccountByEmail(context.Background(), "nobody@example.com")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

// TestConcurrentDuplicateEmail verifies that concurrent registrations with the
// same address result in exactly one account.
func (s *PostgresStoreSuite) TestConcurrentDuplicateEmail() {
	ctx := context.Background()
	email := "dup-" + uuid.NewString() + "@example.com"
	const goroutines = 20

	var wg sync.WaitGroup
	var successCount, conflictCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.CreateAccount(ctx, models.Account{
				Name:         "Dup",
				Email:        email,
				PasswordHash: "$2a$10$hash",
			})
			switch {
			case err == nil:
				successCount.Add(1)
			case err == sentinel.ErrConflict:
				conflictCount.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successCount.Load())
	s.Equal(int32(goroutines-1), conflictCount.Load())
}

func (s *PostgresStoreSuite) TestSetRoleUpserts() {
	ctx := context.Background()
	userID := uuid.NewString()

	_, err := s.store.FindRole(ctx, userID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	s.Require().NoError(s.store.SetRole(ctx, userID, domain.RoleHospital))
	assignment, err := s.store.FindRole(ctx, userID)
	s.Require().NoError(err)
	s.Equal(domain.RoleHospital, assignment.Role)

	s.Require().NoError(s.store.SetRole(ctx, userID, domain.RoleAdmin))
	assignment, err = s.store.FindRole(ctx, userID)
	s.Require().NoError(err)
	s.Equal(domain.RoleAdmin, assignment.Role)
}
