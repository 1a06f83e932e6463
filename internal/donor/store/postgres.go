package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Loxfxgc/life-drop/internal/donor/models"
	"github.com/Loxfxgc/life-drop/pkg/domain"
	"github.com/Loxfxgc/life-drop/pkg/platform/sentinel"
	"github.com/Loxfxgc/life-drop/pkg/requestcontext"
)

// Postgres stores donor profiles in the donors table and history entries in
// the donations table. The medical questionnaire is a jsonb column since it
// is read and written as a unit.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const donorColumns = `id, user_id, name, email, phone, blood_type, age, gender, weight, address, medical_history, last_donation, created_at, updated_at`

func (s *Postgres) Insert(ctx context.Context, donor models.Donor) (string, error) {
	id := uuid.NewString()
	now := requestcontext.Now(ctx)
	medical, err := json.Marshal(donor.MedicalHistory)
	if err != nil {
		return "", fmt.Errorf("encode medical history: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO donors (`+donorColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		id, donor.UserID, donor.Name, donor.Email, donor.Phone, string(donor.BloodType),
		donor.Age, donor.Gender, donor.Weight, donor.Address, medical, donor.LastDonation, now, now,
	)
	if err != nil {
		return "", fmt.Errorf("insert donor: %w", err)
	}
	return id, nil
}

func (s *Postgres) FindByID(ctx context.Context, id string) (models.Donor, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+donorColumns+` FROM donors WHERE id = $1`, id)
	return scanDonor(row)
}

func (s *Postgres) FindByUserID(ctx context.Context, userID string) (models.Donor, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+donorColumns+` FROM donors WHERE user_id = $1 LIMIT 1`, userID)
	return scanDonor(row)
}

func (s *Postgres) ListAll(ctx context.Context) ([]models.Donor, error) {
	return s.queryDonors(ctx, `SELECT `+donorColumns+` FROM donors`)
}

func (s *Postgres) ListByBloodType(ctx context.Context, bloodType domain.BloodType) ([]models.Donor, error) {
	return s.queryDonors(ctx,
		`SELECT `+donorColumns+` FROM donors WHERE blood_type = $1`, string(bloodType))
}

func (s *Postgres) Update(ctx context.Context, id string, update models.Update) error {
	var medical any
	if update.MedicalHistory != nil {
		b, err := json.Marshal(update.MedicalHistory)
		if err != nil {
			return fmt.Errorf("encode medical history: %w", err)
		}
		medical = b
	}
	var bloodType any
	if update.BloodType != nil {
		bloodType = string(*update.BloodType)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE donors SET
			name            = COALESCE($2, name),
			email           = COALESCE($3, email),
			phone           = COALESCE($4, phone),
			blood_type      = COALESCE($5, blood_type),
			age             = COALESCE($6, age),
			gender          = COALESCE($7, gender),
			weight          = COALESCE($8, weight),
			address         = COALESCE($9, address),
			medical_history = COALESCE($10, medical_history),
			updated_at      = $11
		WHERE id = $1`,
		id, update.Name, update.Email, update.Phone, bloodType, update.Age,
		update.Gender, update.Weight, update.Address, medical, requestcontext.Now(ctx),
	)
	if err != nil {
		return fmt.Errorf("update donor: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) SetLastDonation(ctx context.Context, id string, date time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE donors SET last_donation = $1, updated_at = $2 WHERE id = $3`,
		date, requestcontext.Now(ctx), id)
	if err != nil {
		return fmt.Errorf("set last donation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM donors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete donor: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) InsertHistory(ctx context.Context, entry models.HistoryEntry) (string, error) {
	id := uuid.NewString()
	now := requestcontext.Now(ctx)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO donations
			(id, donor_id, user_id, date, location, blood_type, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		id, entry.DonorID, entry.UserID, entry.Date, entry.Location,
		string(entry.BloodType), string(entry.Status), entry.Notes, now, now,
	)
	if err != nil {
		return "", fmt.Errorf("insert donation history: %w", err)
	}
	return id, nil
}

func (s *Postgres) ListHistoryByUser(ctx context.Context, userID string) ([]models.HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, donor_id, user_id, date, location, blood_type, status, notes, created_at, updated_at
		FROM donations WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("list donation history: %w", err)
	}
	defer rows.Close()

	var out []models.HistoryEntry
	for rows.Next() {
		var e models.HistoryEntry
		var bloodType, status string
		if err := rows.Scan(&e.ID, &e.DonorID, &e.UserID, &e.Date, &e.Location,
			&bloodType, &status, &e.Notes, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan donation history: %w", err)
		}
		e.BloodType = domain.BloodType(bloodType)
		e.Status = models.HistoryStatus(status)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Postgres) queryDonors(ctx context.Context, query string, args ...any) ([]models.Donor, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list donors: %w", err)
	}
	defer rows.Close()

	var out []models.Donor
	for rows.Next() {
		d, err := scanDonor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDonor(row rowScanner) (models.Donor, error) {
	var d models.Donor
	var bloodType string
	var medical []byte
	var lastDonation sql.NullTime
	err := row.Scan(&d.ID, &d.UserID, &d.Name, &d.Email, &d.Phone, &bloodType,
		&d.Age, &d.Gender, &d.Weight, &d.Address, &medical, &lastDonation,
		&d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Donor{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.Donor{}, fmt.Errorf("scan donor: %w", err)
	}
	d.BloodType = domain.BloodType(bloodType)
	if len(medical) > 0 {
		if err := json.Unmarshal(medical, &d.MedicalHistory); err != nil {
			return models.Donor{}, fmt.Errorf("decode medical history: %w", err)
		}
	}
	if lastDonation.Valid {
		t := lastDonation.Time
		d.LastDonation = &t
	}
	return d, nil
}
