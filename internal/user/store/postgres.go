package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Loxfxgc/life-drop/internal/user/models"
	"github.com/Loxfxgc/life-drop/pkg/domain"
	"github.com/Loxfxgc/life-drop/pkg/platform/sentinel"
	"github.com/Loxfxgc/life-drop/pkg/requestcontext"
)

// Postgres stores profiles in the users table, keyed by the account id.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const profileColumns = `id, name, email, phone, address, blood_type, date_of_birth, gender,
	profile_picture, created_at, updated_at`

func (s *Postgres) Create(ctx context.Context, profile models.Profile) error {
	now := requestcontext.Now(ctx)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (`+profileColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		profile.ID, profile.Name, profile.Email, profile.Phone, profile.Address,
		string(profile.BloodType), profile.DateOfBirth, profile.Gender,
		profile.ProfilePicture, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert user profile: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, id string) (models.Profile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM users WHERE id = $1`, id)
	return scanProfile(row)
}

func (s *Postgres) Update(ctx context.Context, id string, update models.Update) error {
	var bloodType any
	if update.BloodType != nil {
		bloodType = string(*update.BloodType)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET
			name            = COALESCE($2, name),
			email           = COALESCE($3, email),
			phone           = COALESCE($4, phone),
			address         = COALESCE($5, address),
			blood_type      = COALESCE($6, blood_type),
			date_of_birth   = COALESCE($7, date_of_birth),
			gender          = COALESCE($8, gender),
			profile_picture = COALESCE($9, profile_picture),
			updated_at      = $10
		WHERE id = $1`,
		id, update.Name, update.Email, update.Phone, update.Address, bloodType,
		update.DateOfBirth, update.Gender, update.ProfilePicture, requestcontext.Now(ctx),
	)
	if err != nil {
		return fmt.Errorf("update user profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) ListByBloodType(ctx context.Context, bloodType domain.BloodType) ([]models.Profile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+profileColumns+` FROM users WHERE blood_type = $1`, string(bloodType))
	if err != nil {
		return nil, fmt.Errorf("list user profiles: %w", err)
	}
	defer rows.Close()

	var out []models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (models.Profile, error) {
	var p models.Profile
	var bloodType string
	err := row.Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &p.Address, &bloodType,
		&p.DateOfBirth, &p.Gender, &p.ProfilePicture, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Profile{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.Profile{}, fmt.Errorf("scan user profile: %w", err)
	}
	p.BloodType = domain.BloodType(bloodType)
	return p, nil
}
