// Package service implements per-hospital stock lines and the system-wide
// availability aggregate.
package service

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	donormodels "github.com/Loxfxgc/life-drop/internal/donor/models"
	"github.com/Loxfxgc/life-drop/internal/inventory/models"
	requestmodels "github.com/Loxfxgc/life-drop/internal/request/models"
	"github.com/Loxfxgc/life-drop/pkg/domain"
	dErrors "github.com/Loxfxgc/life-drop/pkg/domain-errors"
	"github.com/Loxfxgc/life-drop/pkg/platform/sentinel"
	"github.com/Loxfxgc/life-drop/pkg/requestcontext"
)

// Store is the inventory persistence the service needs.
type Store interface {
	Upsert(ctx context.Context, hospitalID string, bloodType domain.BloodType, units int) (models.Line, error)
	ListByHospital(ctx context.Context, hospitalID string) ([]models.Line, error)
	Delete(ctx context.Context, id string) error
}

// DonorScanner supplies the donor roster for the availability aggregate.
type DonorScanner interface {
	ListAll(ctx context.Context) ([]donormodels.Donor, error)
}

// RequestScanner supplies outstanding requests for the availability
// aggregate.
type RequestScanner interface {
	ListByStatus(ctx context.Context, status requestmodels.Status) ([]requestmodels.Request, error)
}

type Service struct {
	store    Store
	donors   DonorScanner
	requests RequestScanner
	logger   *slog.Logger
}

func NewService(store Store, donors DonorScanner, requests RequestScanner, logger *slog.Logger) *Service {
	return &Service{store: store, donors: donors, requests: requests, logger: logger}
}

// UpsertLine sets a hospital's stock of one blood type. The write is atomic
// on the (hospitalId, bloodType) key; there is never a separate existence
// check for the caller to race against.
func (s *Service) UpsertLine(ctx context.Context, hospitalID string, rawType string, units int) (models.Line, error) {
	bloodType, err := domain.ParseBloodType(rawType)
	if err != nil {
		return models.Line{}, dErrors.New(dErrors.CodeInvalidInput, "unknown blood type")
	}
	if units < 0 {
		return models.Line{}, dErrors.New(dErrors.CodeInvalidInput, "availableUnits must not be negative")
	}
	if hospitalID == "" {
		return models.Line{}, dErrors.New(dErrors.CodeInvalidInput, "hospitalId is required")
	}

	line, err := s.store.Upsert(ctx, hospitalID, bloodType, units)
	if err != nil {
		s.logger.Error("inventory upsert failed", "hospital_id", hospitalID, "error", err)
		return models.Line{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update inventory")
	}
	return line, nil
}

func (s *Service) HospitalInventory(ctx context.Context, hospitalID string) ([]models.Line, error) {
	lines, err := s.store.ListByHospital(ctx, hospitalID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list inventory")
	}
	return lines, nil
}

func (s *Service) DeleteLine(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "inventory line not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete inventory line")
	}
	return nil
}

// BloodAvailability recomputes, on every call, donors on file per blood type
// against units wanted by pending requests. Every canonical type appears in
// the result even at zero. Both scans run concurrently; there is no cache.
func (s *Service) BloodAvailability(ctx context.Context) ([]models.Availability, error) {
	var (
		donors   []donormodels.Donor
		requests []requestmodels.Request
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		donors, err = s.donors.ListAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		requests, err = s.requests.ListByStatus(gctx, requestmodels.StatusPending)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("availability scan failed", "error", err)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to compute blood availability")
	}

	available := make(map[domain.BloodType]int)
	for _, d := range donors {
		available[d.BloodType]++
	}
	requested := make(map[domain.BloodType]int)
	for _, r := range requests {
		requested[r.BloodType] += r.UnitsNeeded
	}

	now := requestcontext.Now(ctx)
	out := make([]models.Availability, 0, len(domain.BloodTypes))
	for _, bt := range domain.BloodTypes {
		out = append(out, models.Availability{
			BloodType: bt,
			Available: available[bt],
			Requested: requested[bt],
			UpdatedAt: now,
		})
	}
	return out, nil
}

// CompatibilityChart returns, per recipient blood type, the donor types a
// recipient may safely receive under ABO/Rh rules.
func (s *Service) CompatibilityChart() map[domain.BloodType][]domain.BloodType {
	return map[domain.BloodType][]domain.BloodType{
		domain.APositive:  {domain.APositive, domain.ANegative, domain.OPositive, domain.ONegative},
		domain.ANegative:  {domain.ANegative, domain.ONegative},
		domain.BPositive:  {domain.BPositive, domain.BNegative, domain.OPositive, domain.ONegative},
		domain.BNegative:  {domain.BNegative, domain.ONegative},
		domain.ABPositive: {domain.APositive, domain.ANegative, domain.BPositive, domain.BNegative, domain.ABPositive, domain.ABNegative, domain.OPositive, domain.ONegative},
		domain.ABNegative: {domain.ANegative, domain.BNegative, domain.ABNegative, domain.ONegative},
		domain.OPositive:  {domain.OPositive, domain.ONegative},
		domain.ONegative:  {domain.ONegative},
	}
}
