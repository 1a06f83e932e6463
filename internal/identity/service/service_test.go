package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Loxfxgc/life-drop/internal/identity/service"
	"github.com/Loxfxgc/life-drop/internal/identity/store"
	"github.com/Loxfxgc/life-drop/internal/jwttoken"
	"github.com/Loxfxgc/life-drop/internal/platform/logger"
	"github.com/Loxfxgc/life-drop/pkg/domain"
	dErrors "github.com/Loxfxgc/life-drop/pkg/domain-errors"
	"github.com/Loxfxgc/life-drop/pkg/platform/audit/publisher"
	auditmemory "github.com/Loxfxgc/life-drop/pkg/platform/audit/store/memory"
)

type fixture struct {
	svc     *service.Service
	store   *store.InMemory
	tokens  *jwttoken.Service
	revoker *store.RevocationMemory
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	f := fixture{
		store:   store.NewInMemory(),
		tokens:  jwttoken.NewService("test-signing-key"),
		revoker: store.NewRevocationMemory(),
	}
	f.svc = service.NewService(f.store, f.tokens, f.revoker, time.Hour,
		publisher.NewPublisher(auditmemory.NewInMemoryStore()), logger.New())
	return f
}

func TestRegisterAndSignIn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session, err := f.svc.Register(ctx, "Priya", "priya@example.com", "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, session.SubjectID)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, domain.RoleUser, session.Role)

	signedIn, err := f.svc.SignIn(ctx, "priya@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, session.SubjectID, signedIn.SubjectID)
	assert.Equal(t, "Priya", signedIn.DisplayName)

	claims, err := f.tokens.ValidateToken(signedIn.Token)
	require.NoError(t, err)
	assert.Equal(t, session.SubjectID, claims.UserID)
	assert.Equal(t, domain.RoleUser, claims.Role)
}

func TestRegisterHospitalGetsHospitalRole(t *testing.T) {
	f := newFixture(t)

	session, err := f.svc.RegisterHospital(context.Background(), "City General", "ops@city.example", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleHospital, session.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, "A", "dup@example.com", "correct-horse")
	require.NoError(t, err)

	_, err = f.svc.Register(ctx, "B", "Dup@Example.com", "correct-horse")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, "Priya", "priya@example.com", "correct-horse")
	require.NoError(t, err)

	_, err = f.svc.SignIn(ctx, "priya@example.com", "wrong")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))

	_, err = f.svc.SignIn(ctx, "nobody@example.com", "correct-horse")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestSignOutRevokesToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session, err := f.svc.Register(ctx, "Priya", "priya@example.com", "correct-horse")
	require.NoError(t, err)

	require.NoError(t, f.svc.SignOut(ctx, session.Token))

	claims, err := f.tokens.ValidateToken(session.Token)
	require.NoError(t, err)
	revoked, err := f.revoker.IsRevoked(ctx, claims.JTI)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestResolveRoleDefaultsWithoutPersisting(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	role, err := f.svc.ResolveRole(ctx, "unassigned-user")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, role)

	// The default must not have been written back as an assignment.
	_, err = f.store.FindRole(ctx, "unassigned-user")
	assert.Error(t, err)
}

func TestUpdateUserRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session, err := f.svc.Register(ctx, "Priya", "priya@example.com", "correct-horse")
	require.NoError(t, err)

	require.NoError(t, f.svc.UpdateUserRole(ctx, session.SubjectID, domain.RoleAdmin))

	role, err := f.svc.ResolveRole(ctx, session.SubjectID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, role)

	err = f.svc.UpdateUserRole(ctx, "missing", domain.RoleAdmin)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Register(context.Background(), "A", "", "correct-horse")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

	_, err = f.svc.Register(context.Background(), "A", "a@example.com", "short")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}
