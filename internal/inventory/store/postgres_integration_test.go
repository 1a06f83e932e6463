//go:build integration

package store_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/Loxfxgc/life-drop/internal/inventory/store"
	"github.com/Loxfxgc/life-drop/pkg/domain"
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
	err := s.postgres.TruncateTables(context.Background(), "hospital_inventory")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) TestUpsertKeepsOneLinePerType() {
	ctx := context.Background()

	first, err := s.store.Upsert(ctx, "hosp-1", domain.ONegative, 4)
	s.Require().NoError(err)

	second, err := s.store.Upsert(ctx, "hosp-1", domain.ONegative, 9)
	s.Require().NoError(err)
	s.Equal(first.ID, second.ID)
	s.Equal(9, second.AvailableUnits)

	lines, err := s.store.ListByHospital(ctx, "hosp-1")
	s.Require().NoError(err)
	s.Require().Len(lines, 1)
	s.Equal(9, lines[0].AvailableUnits)
}

// TestConcurrentUpsert hammers the same (hospital, blood type) pair and
// expects the unique constraint to collapse everything onto one row.
func (s *PostgresStoreSuite) TestConcurrentUpsert() {
	ctx := context.Background()
	const goroutines = 16

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(units int) {
			defer wg.Done()
			_, err := s.store.Upsert(ctx, "hosp-race", domain.APositive, units)
			s.NoError(err)
		}(i + 1)
	}
	wg.Wait()

	lines, err := s.store.ListByHospital(ctx, "hosp-race")
	s.Require().NoError(err)
	s.Len(lines, 1)
}

func (s *PostgresStoreSuite) TestDelete() {
	ctx := context.Background()

	line, err := s.store.Upsert(ctx, "hosp-1", domain.BNegative, 2)
	s.Require().NoError(err)

	s.Require().NoError(s.store.Delete(ctx, line.ID))

	lines, err := s.store.ListByHospital(ctx, "hosp-1")
	s.Require().NoError(err)
	s.Empty(lines)
}
