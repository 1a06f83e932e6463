package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	alertmodels "github.com/Loxfxgc/life-drop/internal/alert/models"
	donormodels "github.com/Loxfxgc/life-drop/internal/donor/models"
	donorservice "github.com/Loxfxgc/life-drop/internal/donor/service"
	"github.com/Loxfxgc/life-drop/internal/effects"
	"github.com/Loxfxgc/life-drop/internal/hospital/models"
	inventoryservice "github.com/Loxfxgc/life-drop/internal/inventory/service"
	inventorystore "github.com/Loxfxgc/life-drop/internal/inventory/store"
	"github.com/Loxfxgc/life-drop/internal/platform/logger"
	"github.com/Loxfxgc/life-drop/pkg/domain"
	"github.com/Loxfxgc/life-drop/pkg/platform/audit/publisher"
	auditmemory "github.com/Loxfxgc/life-drop/pkg/platform/audit/store/memory"
)

// TestDonationFlow walks the full donation path: an O- donor registers, a
// hospital records a one unit donation, and the side effects land where the
// donor looks for them.
func TestDonationFlow(t *testing.T) {
	f := newFixture(t)
	runner := effects.NewRunner()
	pub := publisher.NewPublisher(auditmemory.NewInMemoryStore())
	log := logger.New()

	donors := donorservice.NewService(f.donors, runner, pub, log)
	inventory := inventoryservice.NewService(inventorystore.NewInMemory(), f.donors, f.requests, log)

	ctx := context.Background()
	donorID, err := donors.Register(ctx, donormodels.Donor{
		UserID:    "user-omar",
		Name:      "Omar",
		BloodType: domain.ONegative,
	})
	require.NoError(t, err)

	hospitalID, err := f.svc.Register(ctx, models.Hospital{UserID: "user-city", Name: "City General"})
	require.NoError(t, err)
	require.NoError(t, f.svc.Verify(ctx, hospitalID))

	donationDate := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	_, err = f.svc.RecordDonation(ctx, models.Record{
		HospitalID:   hospitalID,
		DonorID:      donorID,
		UserID:       "user-omar",
		DonationDate: donationDate,
		BloodType:    domain.ONegative,
		Quantity:     1,
	})
	require.NoError(t, err)

	donor, found, err := donors.GetByUserID(ctx, "user-omar")
	require.NoError(t, err)
	require.True(t, found)
	require.NotNil(t, donor.LastDonation)
	assert.True(t, donor.LastDonation.Equal(donationDate))

	alerts, err := f.alerts.ListByUser(ctx, "user-omar")
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, alertmodels.TypeCollection, alerts[0].Type)
	assert.Equal(t, alertmodels.StatusUnread, alerts[0].Status)

	availability, err := inventory.BloodAvailability(ctx)
	require.NoError(t, err)
	byType := make(map[domain.BloodType]int, len(availability))
	for _, a := range availability {
		byType[a.BloodType] = a.Available
	}
	assert.Equal(t, 1, byType[domain.ONegative])
	assert.Equal(t, 0, byType[domain.APositive])
}
