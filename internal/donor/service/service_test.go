package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Loxfxgc/life-drop/internal/donor/models"
	"github.com/Loxfxgc/life-drop/internal/donor/service"
	"github.com/Loxfxgc/life-drop/internal/donor/store"
	"github.com/Loxfxgc/life-drop/internal/effects"
	"github.com/Loxfxgc/life-drop/internal/platform/logger"
	"github.com/Loxfxgc/life-drop/pkg/domain"
	dErrors "github.com/Loxfxgc/life-drop/pkg/domain-errors"
	"github.com/Loxfxgc/life-drop/pkg/platform/audit/publisher"
	auditmemory "github.com/Loxfxgc/life-drop/pkg/platform/audit/store/memory"
	"github.com/Loxfxgc/life-drop/pkg/requestcontext"
)

func newService(t *testing.T) (*service.Service, *store.InMemory, *auditmemory.InMemoryStore) {
	t.Helper()
	st := store.NewInMemory()
	sink := auditmemory.NewInMemoryStore()
	svc := service.NewService(st, effects.NewRunner(), publisher.NewPublisher(sink), logger.New())
	return svc, st, sink
}

func TestRegister(t *testing.T) {
	svc, st, sink := newService(t)
	ctx := requestcontext.WithTime(context.Background(), time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC))

	id, err := svc.Register(ctx, models.Donor{
		UserID:    "u1",
		Name:      "Priya",
		BloodType: domain.ONegative,
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	donor, err := st.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "u1", donor.UserID)
	assert.Equal(t, time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC), donor.CreatedAt)
	assert.Nil(t, donor.LastDonation)

	events := sink.All()
	require.Len(t, events, 1)
	assert.Equal(t, "donor_registered", events[0].Action)
}

func TestRegisterRejectsBadInput(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.Register(context.Background(), models.Donor{UserID: "u1", BloodType: "X+"})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

	_, err = svc.Register(context.Background(), models.Donor{BloodType: domain.APositive})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestGetByUserIDAbsentIsNotAnError(t *testing.T) {
	svc, _, _ := newService(t)

	_, found, err := svc.GetByUserID(context.Background(), "nobody")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRecordDonationStampsLastDonation(t *testing.T) {
	svc, st, _ := newService(t)
	ctx := context.Background()

	donorID, err := svc.Register(ctx, models.Donor{UserID: "u1", BloodType: domain.ONegative})
	require.NoError(t, err)

	donationDate := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	_, err = svc.RecordDonation(ctx, models.HistoryEntry{
		DonorID:   donorID,
		UserID:    "u1",
		Date:      donationDate,
		Location:  "City General",
		BloodType: domain.ONegative,
	})
	require.NoError(t, err)

	donor, err := st.FindByID(ctx, donorID)
	require.NoError(t, err)
	require.NotNil(t, donor.LastDonation)
	assert.True(t, donor.LastDonation.Equal(donationDate))
}

func TestRecordDonationWithoutDonorSkipsStamp(t *testing.T) {
	svc, _, _ := newService(t)

	id, err := svc.RecordDonation(context.Background(), models.HistoryEntry{
		UserID:    "u1",
		Date:      time.Now(),
		BloodType: domain.BPositive,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}

func TestHistorySortsNewestFirst(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()
	base := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	for _, offset := range []time.Duration{24 * time.Hour, 0, 72 * time.Hour} {
		_, err := svc.RecordDonation(ctx, models.HistoryEntry{
			UserID:    "u1",
			Date:      base.Add(offset),
			BloodType: domain.ABPositive,
		})
		require.NoError(t, err)
	}

	entries, err := svc.History(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.True(t, entries[0].Date.Equal(base.Add(72*time.Hour)))
	assert.True(t, entries[1].Date.Equal(base.Add(24*time.Hour)))
	assert.True(t, entries[2].Date.Equal(base))
}

func TestUpdateMergesFields(t *testing.T) {
	svc, st, _ := newService(t)
	ctx := context.Background()

	id, err := svc.Register(ctx, models.Donor{UserID: "u1", Name: "Priya", Phone: "555", BloodType: domain.APositive})
	require.NoError(t, err)

	newPhone := "777"
	require.NoError(t, svc.Update(ctx, id, models.Update{Phone: &newPhone}))

	donor, err := st.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "777", donor.Phone)
	assert.Equal(t, "Priya", donor.Name)
}

func TestUpdateMissingDonor(t *testing.T) {
	svc, _, _ := newService(t)
	name := "x"
	err := svc.Update(context.Background(), "missing", models.Update{Name: &name})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}
