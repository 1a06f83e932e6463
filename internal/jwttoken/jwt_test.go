package jwttoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Loxfxgc/life-drop/pkg/domain"
	dErrors "github.com/Loxfxgc/life-drop/pkg/domain-errors"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := NewService("test-signing-key")

	token, err := svc.Generate("subject-1", domain.RoleHospital, time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "subject-1", claims.UserID)
	assert.Equal(t, domain.RoleHospital, claims.Role)
	assert.NotEmpty(t, claims.JTI)
}

func TestValidateRejectsExpired(t *testing.T) {
	svc := NewService("test-signing-key")

	token, err := svc.Generate("subject-1", domain.RoleUser, -time.Minute)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestValidateRejectsWrongKey(t *testing.T) {
	token, err := NewService("key-a").Generate("subject-1", domain.RoleUser, time.Hour)
	require.NoError(t, err)

	_, err = NewService("key-b").ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestJTIAndExpiry(t *testing.T) {
	svc := NewService("test-signing-key")
	token, err := svc.Generate("subject-1", domain.RoleUser, time.Hour)
	require.NoError(t, err)

	jti, exp, err := svc.JTIAndExpiry(token)
	require.NoError(t, err)
	assert.NotEmpty(t, jti)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)
}
