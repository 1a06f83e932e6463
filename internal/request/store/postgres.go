package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Loxfxgc/life-drop/internal/request/models"
	"github.com/Loxfxgc/life-drop/pkg/domain"
	"github.com/Loxfxgc/life-drop/pkg/platform/sentinel"
	"github.com/Loxfxgc/life-drop/pkg/requestcontext"
)

// Postgres stores requests in the blood_requests table. Queries stay on
// single-field equality with no ORDER BY; services sort in memory.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const requestColumns = `id, user_id, hospital_id, patient_name, patient_age, blood_type, units_needed,
	hospital_name, contact_name, contact_phone, contact_email, urgency, reason, status,
	response_notes, request_date, created_at, updated_at`

func (s *Postgres) Insert(ctx context.Context, request models.Request) (string, error) {
	id := uuid.NewString()
	now := requestcontext.Now(ctx)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO blood_requests (`+requestColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		id, request.UserID, request.HospitalID, request.PatientName, request.PatientAge,
		string(request.BloodType), request.UnitsNeeded, request.HospitalName,
		request.ContactName, request.ContactPhone, request.ContactEmail,
		string(request.Urgency), request.Reason, string(request.Status),
		request.ResponseNotes, now, now, now,
	)
	if err != nil {
		return "", fmt.Errorf("insert blood request: %w", err)
	}
	return id, nil
}

func (s *Postgres) FindByID(ctx context.Context, id string) (models.Request, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM blood_requests WHERE id = $1`, id)
	return scanRequest(row)
}

func (s *Postgres) ListAll(ctx context.Context) ([]models.Request, error) {
	return s.query(ctx, `SELECT `+requestColumns+` FROM blood_requests`)
}

func (s *Postgres) ListByUser(ctx context.Context, userID string) ([]models.Request, error) {
	return s.query(ctx,
		`SELECT `+requestColumns+` FROM blood_requests WHERE user_id = $1`, userID)
}

func (s *Postgres) ListByHospital(ctx context.Context, hospitalID string) ([]models.Request, error) {
	return s.query(ctx,
		`SELECT `+requestColumns+` FROM blood_requests WHERE hospital_id = $1`, hospitalID)
}

func (s *Postgres) ListByStatus(ctx context.Context, status models.Status) ([]models.Request, error) {
	return s.query(ctx,
		`SELECT `+requestColumns+` FROM blood_requests WHERE status = $1`, string(status))
}

func (s *Postgres) Update(ctx context.Context, id string, update models.Update) error {
	var bloodType, urgency any
	if update.BloodType != nil {
		bloodType = string(*update.BloodType)
	}
	if update.Urgency != nil {
		urgency = string(*update.Urgency)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE blood_requests SET
			patient_name  = COALESCE($2, patient_name),
			patient_age   = COALESCE($3, patient_age),
			blood_type    = COALESCE($4, blood_type),
			units_needed  = COALESCE($5, units_needed),
			hospital_name = COALESCE($6, hospital_name),
			contact_name  = COALESCE($7, contact_name),
			contact_phone = COALESCE($8, contact_phone),
			contact_email = COALESCE($9, contact_email),
			urgency       = COALESCE($10, urgency),
			reason        = COALESCE($11, reason),
			updated_at    = $12
		WHERE id = $1`,
		id, update.PatientName, update.PatientAge, bloodType, update.UnitsNeeded,
		update.HospitalName, update.ContactName, update.ContactPhone, update.ContactEmail,
		urgency, update.Reason, requestcontext.Now(ctx),
	)
	if err != nil {
		return fmt.Errorf("update blood request: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) SetStatus(ctx context.Context, id string, status models.Status, notes *string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE blood_requests SET
			status         = $2,
			response_notes = COALESCE($3, response_notes),
			updated_at     = $4
		WHERE id = $1`,
		id, string(status), notes, requestcontext.Now(ctx))
	if err != nil {
		return fmt.Errorf("set request status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM blood_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete blood request: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) query(ctx context.Context, query string, args ...any) ([]models.Request, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list blood requests: %w", err)
	}
	defer rows.Close()

	var out []models.Request
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (models.Request, error) {
	var r models.Request
	var bloodType, urgency, status string
	err := row.Scan(&r.ID, &r.UserID, &r.HospitalID, &r.PatientName, &r.PatientAge,
		&bloodType, &r.UnitsNeeded, &r.HospitalName, &r.ContactName, &r.ContactPhone,
		&r.ContactEmail, &urgency, &r.Reason, &status, &r.ResponseNotes,
		&r.RequestDate, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Request{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.Request{}, fmt.Errorf("scan blood request: %w", err)
	}
	r.BloodType = domain.BloodType(bloodType)
	r.Urgency = models.Urgency(urgency)
	r.Status = models.Status(status)
	return r, nil
}
