package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Loxfxgc/life-drop/internal/identity/models"
	"github.com/Loxfxgc/life-drop/pkg/domain"
	"github.com/Loxfxgc/life-drop/pkg/platform/sentinel"
	"github.com/Loxfxgc/life-drop/pkg/requestcontext"
)

// Postgres stores accounts in user_accounts and role bindings in user_roles.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) CreateAccount(ctx context.Context, account models.Account) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_accounts (id, name, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		id, account.Name, strings.ToLower(account.Email), account.PasswordHash,
		requestcontext.Now(ctx),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return "", sentinel.ErrConflict
		}
		return "", fmt.Errorf("insert account: %w", err)
	}
	return id, nil
}

func (s *Postgres) FindAccountByEmail(ctx context.Context, email string) (models.Account, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, created_at
		FROM user_accounts WHERE email = $1`, strings.ToLower(email))
	return scanAccount(row)
}

func (s *Postgres) FindAccountByID(ctx context.Context, id string) (models.Account, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, created_at
		FROM user_accounts WHERE id = $1`, id)
	return scanAccount(row)
}

func (s *Postgres) SetRole(ctx context.Context, userID string, role domain.Role) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_roles (user_id, role, assigned_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id)
		DO UPDATE SET role = EXCLUDED.role, assigned_at = EXCLUDED.assigned_at`,
		userID, string(role), requestcontext.Now(ctx))
	if err != nil {
		return fmt.Errorf("set role: %w", err)
	}
	return nil
}

func (s *Postgres) FindRole(ctx context.Context, userID string) (models.RoleAssignment, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT user_id, role, assigned_at FROM user_roles WHERE user_id = $1`, userID)

	var assignment models.RoleAssignment
	var role string
	err := row.Scan(&assignment.UserID, &role, &assignment.AssignedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.RoleAssignment{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.RoleAssignment{}, fmt.Errorf("scan role: %w", err)
	}
	assignment.Role = domain.Role(role)
	return assignment, nil
}

func scanAccount(row *sql.Row) (models.Account, error) {
	var a models.Account
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Account{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.Account{}, fmt.Errorf("scan account: %w", err)
	}
	return a, nil
}
