package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Loxfxgc/life-drop/internal/hospital/models"
	"github.com/Loxfxgc/life-drop/pkg/domain"
	"github.com/Loxfxgc/life-drop/pkg/platform/sentinel"
	"github.com/Loxfxgc/life-drop/pkg/requestcontext"
)

// Postgres stores hospitals, donation_events, and donation_records. Queries
// stay on single-field equality (plus one status IN) with no ORDER BY;
// services sort in memory.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const hospitalColumns = `id, user_id, name, email, phone, address, city, state, zip_code,
	license_number, contact_person, registration_date, is_verified, created_at, updated_at`

func (s *Postgres) Insert(ctx context.Context, hospital models.Hospital) (string, error) {
	id := uuid.NewString()
	now := requestcontext.Now(ctx)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO hospitals (`+hospitalColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		id, hospital.UserID, hospital.Name, hospital.Email, hospital.Phone,
		hospital.Address, hospital.City, hospital.State, hospital.ZipCode,
		hospital.LicenseNumber, hospital.ContactPerson, now, hospital.IsVerified, now, now,
	)
	if err != nil {
		return "", fmt.Errorf("insert hospital: %w", err)
	}
	return id, nil
}

func (s *Postgres) FindByID(ctx context.Context, id string) (models.Hospital, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+hospitalColumns+` FROM hospitals WHERE id = $1`, id)
	return scanHospital(row)
}

func (s *Postgres) FindByUserID(ctx context.Context, userID string) (models.Hospital, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+hospitalColumns+` FROM hospitals WHERE user_id = $1 LIMIT 1`, userID)
	return scanHospital(row)
}

func (s *Postgres) ListAll(ctx context.Context) ([]models.Hospital, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+hospitalColumns+` FROM hospitals`)
	if err != nil {
		return nil, fmt.Errorf("list hospitals: %w", err)
	}
	defer rows.Close()

	var out []models.Hospital
	for rows.Next() {
		h, err := scanHospital(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (s *Postgres) Update(ctx context.Context, id string, update models.Update) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE hospitals SET
			name           = COALESCE($2, name),
			email          = COALESCE($3, email),
			phone          = COALESCE($4, phone),
			address        = COALESCE($5, address),
			city           = COALESCE($6, city),
			state          = COALESCE($7, state),
			zip_code       = COALESCE($8, zip_code),
			license_number = COALESCE($9, license_number),
			contact_person = COALESCE($10, contact_person),
			updated_at     = $11
		WHERE id = $1`,
		id, update.Name, update.Email, update.Phone, update.Address, update.City,
		update.State, update.ZipCode, update.LicenseNumber, update.ContactPerson,
		requestcontext.Now(ctx),
	)
	if err != nil {
		return fmt.Errorf("update hospital: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) SetVerified(ctx context.Context, id string, verified bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE hospitals SET is_verified = $1, updated_at = $2 WHERE id = $3`,
		verified, requestcontext.Now(ctx), id)
	if err != nil {
		return fmt.Errorf("set hospital verified: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

const eventColumns = `id, hospital_id, title, description, event_date, start_time, end_time,
	location, target_donors, current_registered, status, created_at, updated_at`

func (s *Postgres) InsertEvent(ctx context.Context, event models.Event) (string, error) {
	id := uuid.NewString()
	now := requestcontext.Now(ctx)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO donation_events (`+eventColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		id, event.HospitalID, event.Title, event.Description, event.EventDate,
		event.StartTime, event.EndTime, event.Location, event.TargetDonors,
		event.CurrentRegistered, string(event.Status), now, now,
	)
	if err != nil {
		return "", fmt.Errorf("insert donation event: %w", err)
	}
	return id, nil
}

func (s *Postgres) ListEventsByHospital(ctx context.Context, hospitalID string) ([]models.Event, error) {
	return s.queryEvents(ctx,
		`SELECT `+eventColumns+` FROM donation_events WHERE hospital_id = $1`, hospitalID)
}

func (s *Postgres) ListEventsByStatus(ctx context.Context, statuses ...models.EventStatus) ([]models.Event, error) {
	vals := make([]string, len(statuses))
	for i, st := range statuses {
		vals[i] = string(st)
	}
	// pgx's stdlib driver maps []string onto text[].
	return s.queryEvents(ctx,
		`SELECT `+eventColumns+` FROM donation_events WHERE status = ANY($1)`, vals)
}

const recordColumns = `id, hospital_id, donor_id, user_id, donation_date, blood_type, quantity,
	status, event_id, recipient_id, notes, created_at, updated_at`

func (s *Postgres) InsertRecord(ctx context.Context, record models.Record) (string, error) {
	id := uuid.NewString()
	now := requestcontext.Now(ctx)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO donation_records (`+recordColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		id, record.HospitalID, record.DonorID, record.UserID, record.DonationDate,
		string(record.BloodType), record.Quantity, string(record.Status),
		record.EventID, record.RecipientID, record.Notes, now, now,
	)
	if err != nil {
		return "", fmt.Errorf("insert donation record: %w", err)
	}
	return id, nil
}

func (s *Postgres) FindRecordByID(ctx context.Context, id string) (models.Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM donation_records WHERE id = $1`, id)
	return scanRecord(row)
}

func (s *Postgres) ListRecordsByHospital(ctx context.Context, hospitalID string) ([]models.Record, error) {
	return s.queryRecords(ctx,
		`SELECT `+recordColumns+` FROM donation_records WHERE hospital_id = $1`, hospitalID)
}

func (s *Postgres) ListRecordsByDonor(ctx context.Context, donorID string) ([]models.Record, error) {
	return s.queryRecords(ctx,
		`SELECT `+recordColumns+` FROM donation_records WHERE donor_id = $1`, donorID)
}

func (s *Postgres) SetRecordStatus(ctx context.Context, id string, status models.RecordStatus, notes string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE donation_records SET status = $1, notes = $2, updated_at = $3 WHERE id = $4`,
		string(status), notes, requestcontext.Now(ctx), id)
	if err != nil {
		return fmt.Errorf("set donation record status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) queryEvents(ctx context.Context, query string, args ...any) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list donation events: %w", err)
	}
	defer rows.Close()

	var out []models.Event
	for rows.Next() {
		var e models.Event
		var status string
		if err := rows.Scan(&e.ID, &e.HospitalID, &e.Title, &e.Description, &e.EventDate,
			&e.StartTime, &e.EndTime, &e.Location, &e.TargetDonors, &e.CurrentRegistered,
			&status, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan donation event: %w", err)
		}
		e.Status = models.EventStatus(status)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Postgres) queryRecords(ctx context.Context, query string, args ...any) ([]models.Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list donation records: %w", err)
	}
	defer rows.Close()

	var out []models.Record
	for rows.Next() {
		r, err := scanRecord(rows)
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

func scanHospital(row rowScanner) (models.Hospital, error) {
	var h models.Hospital
	err := row.Scan(&h.ID, &h.UserID, &h.Name, &h.Email, &h.Phone, &h.Address,
		&h.City, &h.State, &h.ZipCode, &h.LicenseNumber, &h.ContactPerson,
		&h.RegistrationDate, &h.IsVerified, &h.CreatedAt, &h.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Hospital{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.Hospital{}, fmt.Errorf("scan hospital: %w", err)
	}
	return h, nil
}

func scanRecord(row rowScanner) (models.Record, error) {
	var r models.Record
	var bloodType, status string
	err := row.Scan(&r.ID, &r.HospitalID, &r.DonorID, &r.UserID, &r.DonationDate,
		&bloodType, &r.Quantity, &status, &r.EventID, &r.RecipientID, &r.Notes,
		&r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Record{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.Record{}, fmt.Errorf("scan donation record: %w", err)
	}
	r.BloodType = domain.BloodType(bloodType)
	r.Status = models.RecordStatus(status)
	return r, nil
}
