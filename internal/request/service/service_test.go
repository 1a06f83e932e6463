package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Loxfxgc/life-drop/internal/platform/logger"
	"github.com/Loxfxgc/life-drop/internal/request/models"
	"github.com/Loxfxgc/life-drop/internal/request/service"
	"github.com/Loxfxgc/life-drop/internal/request/store"
	"github.com/Loxfxgc/life-drop/pkg/domain"
	dErrors "github.com/Loxfxgc/life-drop/pkg/domain-errors"
	"github.com/Loxfxgc/life-drop/pkg/platform/audit/publisher"
	auditmemory "github.com/Loxfxgc/life-drop/pkg/platform/audit/store/memory"
)

func newService(t *testing.T) (*service.Service, *store.InMemory) {
	t.Helper()
	st := store.NewInMemory()
	svc := service.NewService(st, publisher.NewPublisher(auditmemory.NewInMemoryStore()), logger.New())
	return svc, st
}

func TestCreateForcesPendingStatus(t *testing.T) {
	svc, st := newService(t)

	id, err := svc.Create(context.Background(), models.Request{
		UserID:      "u1",
		PatientName: "Asha",
		BloodType:   domain.ABNegative,
		UnitsNeeded: 2,
		Status:      models.StatusApproved,
	})
	require.NoError(t, err)

	stored, err := st.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status)
	assert.False(t, stored.RequestDate.IsZero())
	assert.Empty(t, stored.ResponseNotes)
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Create(context.Background(), models.Request{BloodType: "Z+", UnitsNeeded: 1})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

	_, err = svc.Create(context.Background(), models.Request{BloodType: domain.OPositive, UnitsNeeded: 0})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestCreateCanonicalizesUrgency(t *testing.T) {
	svc, st := newService(t)

	id, err := svc.Create(context.Background(), models.Request{
		UserID:      "u1",
		PatientName: "Asha",
		BloodType:   domain.OPositive,
		UnitsNeeded: 1,
		Urgency:     "emergency",
	})
	require.NoError(t, err)

	stored, err := st.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.UrgencyCritical, stored.Urgency)

	_, err = svc.Create(context.Background(), models.Request{
		UserID:      "u1",
		PatientName: "Asha",
		BloodType:   domain.OPositive,
		UnitsNeeded: 1,
		Urgency:     "whenever",
	})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestUpdateCanonicalizesUrgency(t *testing.T) {
	svc, st := newService(t)
	id, err := svc.Create(context.Background(), models.Request{
		UserID:      "u1",
		PatientName: "Asha",
		BloodType:   domain.OPositive,
		UnitsNeeded: 1,
	})
	require.NoError(t, err)

	alias := models.Urgency("EMERGENCY")
	require.NoError(t, svc.Update(context.Background(), id, models.Update{Urgency: &alias}))

	stored, err := st.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.UrgencyCritical, stored.Urgency)

	bogus := models.Urgency("whenever")
	err = svc.Update(context.Background(), id, models.Update{Urgency: &bogus})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestListingsSortNewestFirst(t *testing.T) {
	svc, st := newService(t)
	base := time.Date(2026, time.February, 1, 8, 0, 0, 0, time.UTC)

	st.Seed(models.Request{ID: "r1", UserID: "u1", CreatedAt: base.Add(time.Hour)})
	st.Seed(models.Request{ID: "r2", UserID: "u1", CreatedAt: base.Add(3 * time.Hour)})
	// Legacy record without created_at falls back to request date.
	st.Seed(models.Request{ID: "r3", UserID: "u1", RequestDate: base.Add(2 * time.Hour)})
	st.Seed(models.Request{ID: "r4", UserID: "u2", CreatedAt: base.Add(4 * time.Hour)})

	requests, err := svc.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, requests, 3)
	assert.Equal(t, "r2", requests[0].ID)
	assert.Equal(t, "r3", requests[1].ID)
	assert.Equal(t, "r1", requests[2].ID)
}

func TestListForHospital(t *testing.T) {
	svc, st := newService(t)

	st.Seed(models.Request{ID: "r1", HospitalID: "h1", CreatedAt: time.Now()})
	st.Seed(models.Request{ID: "r2", HospitalID: "h2", CreatedAt: time.Now()})

	requests, err := svc.ListForHospital(context.Background(), "h1")
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, "r1", requests[0].ID)
}

func TestUpdateStatusOverwritesNotes(t *testing.T) {
	svc, st := newService(t)
	st.Seed(models.Request{ID: "r1", UserID: "u1", Status: models.StatusPending})

	notes := "stock reserved"
	require.NoError(t, svc.UpdateStatus(context.Background(), "r1", models.StatusApproved, &notes))

	stored, err := st.FindByID(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, stored.Status)
	assert.Equal(t, "stock reserved", stored.ResponseNotes)
}

func TestUpdateStatusMissingRequest(t *testing.T) {
	svc, _ := newService(t)
	err := svc.UpdateStatus(context.Background(), "missing", models.StatusApproved, nil)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestParseUrgencyAcceptsLegacySpelling(t *testing.T) {
	u, err := models.ParseUrgency("emergency")
	require.NoError(t, err)
	assert.Equal(t, models.UrgencyCritical, u)

	_, err = models.ParseUrgency("whenever")
	assert.Error(t, err)
}
