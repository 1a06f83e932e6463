package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Loxfxgc/life-drop/internal/alert/models"
	"github.com/Loxfxgc/life-drop/pkg/platform/sentinel"
	"github.com/Loxfxgc/life-drop/pkg/requestcontext"
)

// Postgres stores alerts in the donation_alerts table. Queries stay on
// single-field equality with no ORDER BY; services sort in memory.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Insert(ctx context.Context, alert models.Alert) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO donation_alerts
			(id, user_id, donor_id, hospital_id, donation_record_id, message, type, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		id, alert.UserID, alert.DonorID, alert.HospitalID, alert.DonationRecordID,
		alert.Message, string(alert.Type), string(alert.Status), requestcontext.Now(ctx),
	)
	if err != nil {
		return "", fmt.Errorf("insert alert: %w", err)
	}
	return id, nil
}

func (s *Postgres) FindByID(ctx context.Context, id string) (models.Alert, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, donor_id, hospital_id, donation_record_id, message, type, status, created_at
		FROM donation_alerts WHERE id = $1`, id)
	return scanAlert(row)
}

func (s *Postgres) ListByUser(ctx context.Context, userID string) ([]models.Alert, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, donor_id, hospital_id, donation_record_id, message, type, status, created_at
		FROM donation_alerts WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	var out []models.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Postgres) SetStatus(ctx context.Context, id string, status models.Status) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE donation_alerts SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		return fmt.Errorf("set alert status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAlert(row rowScanner) (models.Alert, error) {
	var a models.Alert
	var typ, status string
	err := row.Scan(&a.ID, &a.UserID, &a.DonorID, &a.HospitalID, &a.DonationRecordID,
		&a.Message, &typ, &status, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Alert{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.Alert{}, fmt.Errorf("scan alert: %w", err)
	}
	a.Type = models.Type(typ)
	a.Status = models.Status(status)
	return a, nil
}
