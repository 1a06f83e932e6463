package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Loxfxgc/life-drop/internal/platform/logger"
	"github.com/Loxfxgc/life-drop/internal/user/models"
	"github.com/Loxfxgc/life-drop/internal/user/service"
	"github.com/Loxfxgc/life-drop/internal/user/store"
	"github.com/Loxfxgc/life-drop/pkg/domain"
	dErrors "github.com/Loxfxgc/life-drop/pkg/domain-errors"
	"github.com/Loxfxgc/life-drop/pkg/requestcontext"
)

func TestGetProfileCreatesDefaultOnFirstRead(t *testing.T) {
	svc := service.NewService(store.NewInMemory(), logger.New())
	ctx := requestcontext.WithTime(context.Background(),
		time.Date(2026, time.July, 1, 9, 0, 0, 0, time.UTC))

	profile, err := svc.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", profile.ID)
	assert.Equal(t, "New User", profile.Name)
	assert.Equal(t, "other", profile.Gender)
	assert.Empty(t, profile.BloodType)
	assert.False(t, profile.CreatedAt.IsZero())

	// Second read returns the same profile instead of recreating it.
	again, err := svc.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, profile.CreatedAt, again.CreatedAt)
}

func TestUpdateProfile(t *testing.T) {
	st := store.NewInMemory()
	svc := service.NewService(st, logger.New())
	ctx := context.Background()

	_, err := svc.GetProfile(ctx, "u1")
	require.NoError(t, err)

	name := "Priya"
	bloodType := domain.ONegative
	require.NoError(t, svc.UpdateProfile(ctx, "u1", models.Update{Name: &name, BloodType: &bloodType}))

	profile, err := st.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Priya", profile.Name)
	assert.Equal(t, domain.ONegative, profile.BloodType)
}

func TestUpdateProfileRejectsBadBloodType(t *testing.T) {
	svc := service.NewService(store.NewInMemory(), logger.New())
	bad := domain.BloodType("Z+")
	err := svc.UpdateProfile(context.Background(), "u1", models.Update{BloodType: &bad})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestListByBloodType(t *testing.T) {
	st := store.NewInMemory()
	svc := service.NewService(st, logger.New())
	ctx := context.Background()

	require.NoError(t, st.Create(ctx, models.Profile{ID: "u1", BloodType: domain.APositive}))
	require.NoError(t, st.Create(ctx, models.Profile{ID: "u2", BloodType: domain.ONegative}))

	profiles, err := svc.ListByBloodType(ctx, "A+")
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "u1", profiles[0].ID)

	_, err = svc.ListByBloodType(ctx, "nope")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}
