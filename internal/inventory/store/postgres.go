package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/Loxfxgc/life-drop/internal/inventory/models"
	"github.com/Loxfxgc/life-drop/pkg/domain"
	"github.com/Loxfxgc/life-drop/pkg/platform/sentinel"
	"github.com/Loxfxgc/life-drop/pkg/requestcontext"
)

// Postgres stores inventory lines in the hospital_inventory table, which
// carries a unique constraint on (hospital_id, blood_type). Upsert rides on
// that constraint instead of a read-then-write.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Upsert(ctx context.Context, hospitalID string, bloodType domain.BloodType, units int) (models.Line, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO hospital_inventory (id, hospital_id, blood_type, available_units, last_updated)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (hospital_id, blood_type)
		DO UPDATE SET available_units = EXCLUDED.available_units, last_updated = EXCLUDED.last_updated
		RETURNING id, hospital_id, blood_type, available_units, last_updated`,
		uuid.NewString(), hospitalID, string(bloodType), units, requestcontext.Now(ctx),
	)

	var line models.Line
	var bt string
	if err := row.Scan(&line.ID, &line.HospitalID, &bt, &line.AvailableUnits, &line.LastUpdated); err != nil {
		return models.Line{}, fmt.Errorf("upsert inventory line: %w", err)
	}
	line.BloodType = domain.BloodType(bt)
	return line, nil
}

func (s *Postgres) ListByHospital(ctx context.Context, hospitalID string) ([]models.Line, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hospital_id, blood_type, available_units, last_updated
		FROM hospital_inventory WHERE hospital_id = $1`, hospitalID)
	if err != nil {
		return nil, fmt.Errorf("list inventory lines: %w", err)
	}
	defer rows.Close()

	var out []models.Line
	for rows.Next() {
		var line models.Line
		var bt string
		if err := rows.Scan(&line.ID, &line.HospitalID, &bt, &line.AvailableUnits, &line.LastUpdated); err != nil {
			return nil, fmt.Errorf("scan inventory line: %w", err)
		}
		line.BloodType = domain.BloodType(bt)
		out = append(out, line)
	}
	return out, rows.Err()
}

func (s *Postgres) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM hospital_inventory WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete inventory line: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
