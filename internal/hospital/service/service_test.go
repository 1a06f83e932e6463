package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	alertstore "github.com/Loxfxgc/life-drop/internal/alert/store"
	donormodels "github.com/Loxfxgc/life-drop/internal/donor/models"
	donorstore "github.com/Loxfxgc/life-drop/internal/donor/store"
	"github.com/Loxfxgc/life-drop/internal/effects"
	"github.com/Loxfxgc/life-drop/internal/hospital/models"
	"github.com/Loxfxgc/life-drop/internal/hospital/service"
	"github.com/Loxfxgc/life-drop/internal/hospital/store"
	"github.com/Loxfxgc/life-drop/internal/platform/logger"
	requestmodels "github.com/Loxfxgc/life-drop/internal/request/models"
	requeststore "github.com/Loxfxgc/life-drop/internal/request/store"
	"github.com/Loxfxgc/life-drop/pkg/domain"
	dErrors "github.com/Loxfxgc/life-drop/pkg/domain-errors"
	"github.com/Loxfxgc/life-drop/pkg/platform/audit/publisher"
	auditmemory "github.com/Loxfxgc/life-drop/pkg/platform/audit/store/memory"
	"github.com/Loxfxgc/life-drop/pkg/requestcontext"
)

func requestcontextWithTime(t time.Time) context.Context {
	return requestcontext.WithTime(context.Background(), t)
}

func donorModel(userID string, bloodType domain.BloodType) donormodels.Donor {
	return donormodels.Donor{UserID: userID, Name: "Donor", BloodType: bloodType}
}

type fixture struct {
	svc      *service.Service
	store    *store.InMemory
	alerts   *alertstore.InMemory
	donors   *donorstore.InMemory
	requests *requeststore.InMemory
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	f := fixture{
		store:    store.NewInMemory(),
		alerts:   alertstore.NewInMemory(),
		donors:   donorstore.NewInMemory(),
		requests: requeststore.NewInMemory(),
	}
	f.svc = service.NewService(f.store, f.alerts, f.donors, f.requests,
		effects.NewRunner(), publisher.NewPublisher(auditmemory.NewInMemoryStore()), logger.New())
	return f
}

func TestRegisterForcesUnverified(t *testing.T) {
	f := newFixture(t)

	id, err := f.svc.Register(context.Background(), models.Hospital{
		UserID:     "u1",
		Name:       "City General",
		IsVerified: true,
	})
	require.NoError(t, err)

	hospital, err := f.store.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, hospital.IsVerified)
	assert.False(t, hospital.RegistrationDate.IsZero())
}

func TestVerify(t *testing.T) {
	f := newFixture(t)
	id, err := f.svc.Register(context.Background(), models.Hospital{UserID: "u1", Name: "City General"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Verify(context.Background(), id))

	hospital, err := f.store.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, hospital.IsVerified)
}

func TestCreateEventZeroesRegistrations(t *testing.T) {
	f := newFixture(t)

	id, err := f.svc.CreateEvent(context.Background(), models.Event{
		HospitalID:        "h1",
		Title:             "Summer Drive",
		CurrentRegistered: 42,
	})
	require.NoError(t, err)

	events, err := f.store.ListEventsByHospital(context.Background(), "h1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, id, events[0].ID)
	assert.Equal(t, 0, events[0].CurrentRegistered)
	assert.Equal(t, models.EventUpcoming, events[0].Status)
}

func TestHospitalEventsSortNewestFirst(t *testing.T) {
	f := newFixture(t)
	base := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)

	f.store.SeedEvent(models.Event{ID: "e1", HospitalID: "h1", EventDate: base})
	f.store.SeedEvent(models.Event{ID: "e2", HospitalID: "h1", EventDate: base.Add(48 * time.Hour)})
	f.store.SeedEvent(models.Event{ID: "e3", HospitalID: "h1", EventDate: base.Add(24 * time.Hour)})

	events, err := f.svc.HospitalEvents(context.Background(), "h1")
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, []string{"e2", "e3", "e1"}, []string{events[0].ID, events[1].ID, events[2].ID})
}

func TestUpcomingEventsFilterAndAscendingOrder(t *testing.T) {
	f := newFixture(t)
	now := time.Date(2026, time.May, 1, 12, 0, 0, 0, time.UTC)
	ctx := requestcontextWithTime(now)

	f.store.SeedEvent(models.Event{ID: "past", Status: models.EventUpcoming, EventDate: now.Add(-time.Hour)})
	f.store.SeedEvent(models.Event{ID: "soon", Status: models.EventActive, EventDate: now.Add(time.Hour)})
	f.store.SeedEvent(models.Event{ID: "later", Status: models.EventUpcoming, EventDate: now.Add(48 * time.Hour)})
	f.store.SeedEvent(models.Event{ID: "done", Status: models.EventCompleted, EventDate: now.Add(time.Hour)})

	events, err := f.svc.UpcomingEvents(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "soon", events[0].ID)
	assert.Equal(t, "later", events[1].ID)
}

func TestRecordDonationFansOut(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	donorID, err := f.donors.Insert(ctx, donorModel("u1", domain.ONegative))
	require.NoError(t, err)

	donationDate := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	recordID, err := f.svc.RecordDonation(ctx, models.Record{
		HospitalID:   "h1",
		DonorID:      donorID,
		UserID:       "u1",
		DonationDate: donationDate,
		BloodType:    domain.ONegative,
		Quantity:     1,
	})
	require.NoError(t, err)

	donor, err := f.donors.FindByID(ctx, donorID)
	require.NoError(t, err)
	require.NotNil(t, donor.LastDonation)
	assert.True(t, donor.LastDonation.Equal(donationDate))

	alerts, err := f.alerts.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "Your blood donation was received by h1", alerts[0].Message)
	assert.Equal(t, "collection", string(alerts[0].Type))
	assert.Equal(t, "unread", string(alerts[0].Status))
	assert.Equal(t, recordID, alerts[0].DonationRecordID)
}

func TestDonationEffectsList(t *testing.T) {
	f := newFixture(t)

	withDonor := f.svc.DonationEffects("rec-1", models.Record{DonorID: "d1", UserID: "u1"})
	require.Len(t, withDonor, 2)
	assert.Equal(t, "donation:rec-1:last-donation", withDonor[0].Key())
	assert.Equal(t, "donation:rec-1:alert", withDonor[1].Key())

	withoutDonor := f.svc.DonationEffects("rec-2", models.Record{UserID: "u1"})
	require.Len(t, withoutDonor, 1)
	assert.Equal(t, "donation:rec-2:alert", withoutDonor[0].Key())
}

func TestUpdateDonationStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.SeedRecord(models.Record{
		ID: "rec-1", HospitalID: "h1", DonorID: "d1", UserID: "u1",
		Status: models.RecordCollected, Notes: "first visit",
	})

	t.Run("moves status and alerts", func(t *testing.T) {
		require.NoError(t, f.svc.UpdateDonationStatus(ctx, "rec-1", models.RecordProcessed, ""))

		record, err := f.store.FindRecordByID(ctx, "rec-1")
		require.NoError(t, err)
		assert.Equal(t, models.RecordProcessed, record.Status)
		assert.Equal(t, "first visit", record.Notes)

		alerts, err := f.alerts.ListByUser(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, alerts, 1)
		assert.Equal(t, "Your blood donation status has been updated to: processed", alerts[0].Message)
		assert.Equal(t, "status_update", string(alerts[0].Type))
	})

	t.Run("new notes replace old ones", func(t *testing.T) {
		require.NoError(t, f.svc.UpdateDonationStatus(ctx, "rec-1", models.RecordAvailable, "passed screening"))

		record, err := f.store.FindRecordByID(ctx, "rec-1")
		require.NoError(t, err)
		assert.Equal(t, "passed screening", record.Notes)
	})

	t.Run("missing record fails before any write", func(t *testing.T) {
		before, err := f.alerts.ListByUser(ctx, "u1")
		require.NoError(t, err)

		err = f.svc.UpdateDonationStatus(ctx, "missing", models.RecordUsed, "")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))

		after, err := f.alerts.ListByUser(ctx, "u1")
		require.NoError(t, err)
		assert.Len(t, after, len(before))
	})
}

func TestRespondToRequestAlertsRequester(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.requests.Seed(requestmodels.Request{ID: "req-1", UserID: "u2", Status: requestmodels.StatusPending})

	notes := "two units reserved"
	require.NoError(t, f.svc.RespondToRequest(ctx, "h1", "req-1", requestmodels.StatusApproved, &notes))

	request, err := f.requests.FindByID(ctx, "req-1")
	require.NoError(t, err)
	assert.Equal(t, requestmodels.StatusApproved, request.Status)
	assert.Equal(t, "two units reserved", request.ResponseNotes)

	alerts, err := f.alerts.ListByUser(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "Your blood request has been approved", alerts[0].Message)
}

func TestRespondToRequestMissing(t *testing.T) {
	f := newFixture(t)
	err := f.svc.RespondToRequest(context.Background(), "h1", "missing", requestmodels.StatusApproved, nil)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}
