// Package service implements registration, sign-in, and role resolution.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Loxfxgc/life-drop/internal/identity/models"
	"github.com/Loxfxgc/life-drop/pkg/domain"
	dErrors "github.com/Loxfxgc/life-drop/pkg/domain-errors"
	"github.com/Loxfxgc/life-drop/pkg/platform/audit"
	"github.com/Loxfxgc/life-drop/pkg/platform/audit/publisher"
	"github.com/Loxfxgc/life-drop/pkg/platform/sentinel"
	"github.com/Loxfxgc/life-drop/pkg/requestcontext"
)

// Store is the account and role persistence the service needs.
type Store interface {
	CreateAccount(ctx context.Context, account models.Account) (string, error)
	FindAccountByEmail(ctx context.Context, email string) (models.Account, error)
	FindAccountByID(ctx context.Context, id string) (models.Account, error)
	SetRole(ctx context.Context, userID string, role domain.Role) error
	FindRole(ctx context.Context, userID string) (models.RoleAssignment, error)
}

// TokenIssuer mints and inspects session tokens.
type TokenIssuer interface {
	Generate(userID string, role domain.Role, expiresIn time.Duration) (string, error)
	JTIAndExpiry(tokenString string) (string, time.Time, error)
}

// Revoker invalidates token ids on sign-out.
type Revoker interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
}

type Service struct {
	store    Store
	tokens   TokenIssuer
	revoker  Revoker
	tokenTTL time.Duration
	audit    *publisher.Publisher
	logger   *slog.Logger
}

func NewService(store Store, tokens TokenIssuer, revoker Revoker, tokenTTL time.Duration,
	audit *publisher.Publisher, logger *slog.Logger) *Service {
	return &Service{
		store:    store,
		tokens:   tokens,
		revoker:  revoker,
		tokenTTL: tokenTTL,
		audit:    audit,
		logger:   logger,
	}
}

// Register creates an account with the plain user role and signs it in.
func (s *Service) Register(ctx context.Context, name, email, password string) (models.Session, error) {
	return s.register(ctx, name, email, password, domain.RoleUser, audit.EventUserRegistered)
}

// RegisterHospital creates an account carrying the hospital role.
func (s *Service) RegisterHospital(ctx context.Context, name, email, password string) (models.Session, error) {
	return s.register(ctx, name, email, password, domain.RoleHospital, audit.EventHospitalRegistered)
}

func (s *Service) register(ctx context.Context, name, email, password string, role domain.Role, event audit.AuditEvent) (models.Session, error) {
	if email == "" || password == "" {
		return models.Session{}, dErrors.New(dErrors.CodeInvalidInput, "email and password are required")
	}
	if len(password) < 8 {
		return models.Session{}, dErrors.New(dErrors.CodeInvalidInput, "password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.Session{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}

	id, err := s.store.CreateAccount(ctx, models.Account{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return models.Session{}, dErrors.New(dErrors.CodeConflict, "email already registered")
		}
		s.logger.Error("account create failed", "error", err)
		return models.Session{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register")
	}

	if err := s.store.SetRole(ctx, id, role); err != nil {
		s.logger.Error("role assignment failed", "user_id", id, "error", err)
		return models.Session{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to assign role")
	}

	token, err := s.tokens.Generate(id, role, s.tokenTTL)
	if err != nil {
		return models.Session{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}

	s.emit(ctx, event, id, id)
	return models.Session{SubjectID: id, DisplayName: name, Email: email, Role: role, Token: token}, nil
}

// SignIn verifies credentials and issues a session token. Bad email and bad
// password are indistinguishable to the caller.
func (s *Service) SignIn(ctx context.Context, email, password string) (models.Session, error) {
	account, err := s.store.FindAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.Session{}, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
		}
		return models.Session{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign in")
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return models.Session{}, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}

	role, err := s.ResolveRole(ctx, account.ID)
	if err != nil {
		return models.Session{}, err
	}

	token, err := s.tokens.Generate(account.ID, role, s.tokenTTL)
	if err != nil {
		return models.Session{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}

	s.emit(ctx, audit.EventUserSignedIn, account.ID, account.ID)
	return models.Session{
		SubjectID:   account.ID,
		DisplayName: account.Name,
		Email:       account.Email,
		Role:        role,
		Token:       token,
	}, nil
}

// SignOut revokes the presented token so it cannot be replayed.
func (s *Service) SignOut(ctx context.Context, token string) error {
	jti, expiresAt, err := s.tokens.JTIAndExpiry(token)
	if err != nil {
		return err
	}
	if s.revoker != nil {
		if err := s.revoker.Revoke(ctx, jti, expiresAt); err != nil {
			s.logger.Error("token revoke failed", "error", err)
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign out")
		}
	}
	s.emit(ctx, audit.EventUserSignedOut, requestcontext.UserID(ctx), jti)
	return nil
}

// ResolveRole returns the user's assigned role, defaulting to the plain user
// role when no assignment exists. The default is never written back.
func (s *Service) ResolveRole(ctx context.Context, userID string) (domain.Role, error) {
	assignment, err := s.store.FindRole(ctx, userID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return domain.RoleUser, nil
	}
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve role")
	}
	return assignment.Role, nil
}

// UpdateUserRole rewrites a user's role binding. The handler restricts this
// to admins; the audit trail records the acting admin.
func (s *Service) UpdateUserRole(ctx context.Context, userID string, role domain.Role) error {
	if _, err := s.store.FindAccountByID(ctx, userID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	if err := s.store.SetRole(ctx, userID, role); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update role")
	}
	s.emit(ctx, audit.EventRoleChanged, userID, string(role))
	return nil
}

// CurrentUser returns the signed-in account with its resolved role.
func (s *Service) CurrentUser(ctx context.Context, userID string) (models.Session, error) {
	account, err := s.store.FindAccountByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.Session{}, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return models.Session{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	role, err := s.ResolveRole(ctx, userID)
	if err != nil {
		return models.Session{}, err
	}
	return models.Session{
		SubjectID:   account.ID,
		DisplayName: account.Name,
		Email:       account.Email,
		Role:        role,
	}, nil
}

func (s *Service) emit(ctx context.Context, action audit.AuditEvent, userID, subject string) {
	event := audit.Event{
		Timestamp: requestcontext.Now(ctx),
		UserID:    userID,
		Action:    string(action),
		Subject:   subject,
		RequestID: requestcontext.RequestID(ctx),
		Device:    requestcontext.Device(ctx),
		ActorID:   requestcontext.UserID(ctx),
	}
	if err := s.audit.Emit(ctx, event); err != nil {
		s.logger.Warn("audit emit failed", "action", action, "error", err)
	}
}
