// Package service implements hospital operations: profile management,
// donation drives, and the donation record pipeline with its derived writes.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	alertmodels "github.com/Loxfxgc/life-drop/internal/alert/models"
	"github.com/Loxfxgc/life-drop/internal/effects"
	"github.com/Loxfxgc/life-drop/internal/hospital/models"
	requestmodels "github.com/Loxfxgc/life-drop/internal/request/models"
	dErrors "github.com/Loxfxgc/life-drop/pkg/domain-errors"
	"github.com/Loxfxgc/life-drop/pkg/platform/audit"
	"github.com/Loxfxgc/life-drop/pkg/platform/audit/publisher"
	"github.com/Loxfxgc/life-drop/pkg/platform/sentinel"
	"github.com/Loxfxgc/life-drop/pkg/requestcontext"
)

// Store is the hospital persistence the service needs.
type Store interface {
	Insert(ctx context.Context, hospital models.Hospital) (string, error)
	FindByID(ctx context.Context, id string) (models.Hospital, error)
	FindByUserID(ctx context.Context, userID string) (models.Hospital, error)
	ListAll(ctx context.Context) ([]models.Hospital, error)
	Update(ctx context.Context, id string, update models.Update) error
	SetVerified(ctx context.Context, id string, verified bool) error
	InsertEvent(ctx context.Context, event models.Event) (string, error)
	ListEventsByHospital(ctx context.Context, hospitalID string) ([]models.Event, error)
	ListEventsByStatus(ctx context.Context, statuses ...models.EventStatus) ([]models.Event, error)
	InsertRecord(ctx context.Context, record models.Record) (string, error)
	FindRecordByID(ctx context.Context, id string) (models.Record, error)
	ListRecordsByHospital(ctx context.Context, hospitalID string) ([]models.Record, error)
	ListRecordsByDonor(ctx context.Context, donorID string) ([]models.Record, error)
	SetRecordStatus(ctx context.Context, id string, status models.RecordStatus, notes string) error
}

// AlertSink fans notification records out to users.
type AlertSink interface {
	Insert(ctx context.Context, alert alertmodels.Alert) (string, error)
}

// DonorWriter stamps the denormalized last-donation date on a donor profile.
type DonorWriter interface {
	SetLastDonation(ctx context.Context, donorID string, date time.Time) error
}

// RequestTransitioner moves blood requests on behalf of a responding
// hospital.
type RequestTransitioner interface {
	FindByID(ctx context.Context, id string) (requestmodels.Request, error)
	SetStatus(ctx context.Context, id string, status requestmodels.Status, notes *string) error
}

type Service struct {
	store    Store
	alerts   AlertSink
	donors   DonorWriter
	requests RequestTransitioner
	effects  *effects.Runner
	audit    *publisher.Publisher
	tracer   trace.Tracer
	logger   *slog.Logger
}

func NewService(store Store, alerts AlertSink, donors DonorWriter, requests RequestTransitioner,
	runner *effects.Runner, audit *publisher.Publisher, logger *slog.Logger) *Service {
	return &Service{
		store:    store,
		alerts:   alerts,
		donors:   donors,
		requests: requests,
		effects:  runner,
		audit:    audit,
		tracer:   otel.Tracer("hospital"),
		logger:   logger,
	}
}

// Register creates a hospital profile. Verification is forced off no matter
// what the caller supplied; an admin flips it after review.
func (s *Service) Register(ctx context.Context, hospital models.Hospital) (string, error) {
	if hospital.UserID == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "userId is required")
	}
	if hospital.Name == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "name is required")
	}
	hospital.IsVerified = false

	id, err := s.store.Insert(ctx, hospital)
	if err != nil {
		s.logger.Error("hospital insert failed", "user_id", hospital.UserID, "error", err)
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to register hospital")
	}

	s.emit(ctx, audit.EventHospitalRegistered, hospital.UserID, id, "")
	return id, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (models.Hospital, error) {
	hospital, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.Hospital{}, dErrors.New(dErrors.CodeNotFound, "hospital not found")
		}
		return models.Hospital{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load hospital")
	}
	return hospital, nil
}

// GetByUserID looks up the profile owned by a user. Absence is reported
// through the bool, not an error.
func (s *Service) GetByUserID(ctx context.Context, userID string) (models.Hospital, bool, error) {
	hospital, err := s.store.FindByUserID(ctx, userID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return models.Hospital{}, false, nil
	}
	if err != nil {
		return models.Hospital{}, false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load hospital")
	}
	return hospital, true, nil
}

func (s *Service) ListAll(ctx context.Context) ([]models.Hospital, error) {
	hospitals, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list hospitals")
	}
	return hospitals, nil
}

func (s *Service) UpdateProfile(ctx context.Context, id string, update models.Update) error {
	if err := s.store.Update(ctx, id, update); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "hospital not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update hospital")
	}
	return nil
}

// Verify marks a hospital as reviewed. Admin only; the handler enforces the
// role, the audit trail records the actor.
func (s *Service) Verify(ctx context.Context, id string) error {
	hospital, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.SetVerified(ctx, id, true); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify hospital")
	}
	s.emit(ctx, audit.EventRoleChanged, hospital.UserID, id, "hospital verified")
	return nil
}

// CreateEvent schedules a donation drive. The registered-donor counter always
// starts at zero.
func (s *Service) CreateEvent(ctx context.Context, event models.Event) (string, error) {
	if event.HospitalID == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "hospitalId is required")
	}
	if event.Status == "" {
		event.Status = models.EventUpcoming
	}
	event.CurrentRegistered = 0

	id, err := s.store.InsertEvent(ctx, event)
	if err != nil {
		s.logger.Error("donation event insert failed", "hospital_id", event.HospitalID, "error", err)
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to create donation event")
	}
	return id, nil
}

// HospitalEvents returns a hospital's drives, newest first.
func (s *Service) HospitalEvents(ctx context.Context, hospitalID string) ([]models.Event, error) {
	events, err := s.store.ListEventsByHospital(ctx, hospitalID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list donation events")
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].EventDate.After(events[j].EventDate)
	})
	return events, nil
}

// UpcomingEvents returns upcoming and active drives that have not yet
// happened, soonest first.
func (s *Service) UpcomingEvents(ctx context.Context) ([]models.Event, error) {
	events, err := s.store.ListEventsByStatus(ctx, models.EventUpcoming, models.EventActive)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list donation events")
	}
	now := requestcontext.Now(ctx)
	upcoming := events[:0]
	for _, e := range events {
		if !e.EventDate.Before(now) {
			upcoming = append(upcoming, e)
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].EventDate.Before(upcoming[j].EventDate)
	})
	return upcoming, nil
}

// RecordDonation inserts a donation record, then applies its derived writes:
// the donor profile's last-donation stamp and a collection alert to the
// donor's user account. The effects run after the primary insert; a failure
// leaves the record in place and the error tells the caller which side write
// is missing.
func (s *Service) RecordDonation(ctx context.Context, record models.Record) (string, error) {
	ctx, span := s.tracer.Start(ctx, "RecordDonation",
		trace.WithAttributes(
			attribute.String("hospital.id", record.HospitalID),
			attribute.String("blood.type", string(record.BloodType)),
		))
	defer span.End()

	if !record.BloodType.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown blood type")
	}
	if record.Quantity <= 0 {
		return "", dErrors.New(dErrors.CodeInvalidInput, "quantity must be positive")
	}
	if record.Status == "" {
		record.Status = models.RecordCollected
	}

	id, err := s.store.InsertRecord(ctx, record)
	if err != nil {
		s.logger.Error("donation record insert failed", "hospital_id", record.HospitalID, "error", err)
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to record donation")
	}
	span.SetAttributes(attribute.String("record.id", id))

	if err := s.effects.Apply(ctx, s.DonationEffects(id, record)); err != nil {
		s.logger.Error("donation side writes failed", "record_id", id, "error", err)
		return id, dErrors.Wrap(err, dErrors.CodeInternal, "donation recorded but side writes failed")
	}

	s.emit(ctx, audit.EventDonationRecorded, record.UserID, id, "")
	return id, nil
}

// DonationEffects builds the derived writes for a newly inserted record.
// Exported so tests can assert on the list itself.
func (s *Service) DonationEffects(id string, record models.Record) []effects.Effect {
	var list []effects.Effect
	if record.DonorID != "" {
		list = append(list, effects.Func{
			K: fmt.Sprintf("donation:%s:last-donation", id),
			Fn: func(ctx context.Context) error {
				return s.donors.SetLastDonation(ctx, record.DonorID, record.DonationDate)
			},
		})
	}
	list = append(list, effects.Func{
		K: fmt.Sprintf("donation:%s:alert", id),
		Fn: func(ctx context.Context) error {
			_, err := s.alerts.Insert(ctx, alertmodels.Alert{
				UserID:           record.UserID,
				DonorID:          record.DonorID,
				HospitalID:       record.HospitalID,
				DonationRecordID: id,
				Message:          fmt.Sprintf("Your blood donation was received by %s", record.HospitalID),
				Type:             alertmodels.TypeCollection,
				Status:           alertmodels.StatusUnread,
			})
			return err
		},
	})
	return list
}

// DonationsByHospital returns a hospital's records, newest donation first.
func (s *Service) DonationsByHospital(ctx context.Context, hospitalID string) ([]models.Record, error) {
	return s.sortedRecords(s.store.ListRecordsByHospital(ctx, hospitalID))
}

// DonationsByDonor returns a donor's records, newest donation first.
func (s *Service) DonationsByDonor(ctx context.Context, donorID string) ([]models.Record, error) {
	return s.sortedRecords(s.store.ListRecordsByDonor(ctx, donorID))
}

func (s *Service) sortedRecords(records []models.Record, err error) ([]models.Record, error) {
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list donation records")
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].DonationDate.After(records[j].DonationDate)
	})
	return records, nil
}

// UpdateDonationStatus reads the record first and fails with not-found before
// any write happens. On success it rewrites status with merged notes and
// fans a status alert out to the donor's user account.
func (s *Service) UpdateDonationStatus(ctx context.Context, id string, status models.RecordStatus, notes string) error {
	record, err := s.store.FindRecordByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "donation record not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load donation record")
	}

	merged := notes
	if merged == "" {
		merged = record.Notes
	}
	if err := s.store.SetRecordStatus(ctx, id, status, merged); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update donation status")
	}

	statusEffect := []effects.Effect{effects.Func{
		K: fmt.Sprintf("donation:%s:status:%s:alert", id, status),
		Fn: func(ctx context.Context) error {
			_, err := s.alerts.Insert(ctx, alertmodels.Alert{
				UserID:           record.UserID,
				DonorID:          record.DonorID,
				HospitalID:       record.HospitalID,
				DonationRecordID: id,
				Message:          fmt.Sprintf("Your blood donation status has been updated to: %s", status),
				Type:             alertmodels.TypeStatusUpdate,
				Status:           alertmodels.StatusUnread,
			})
			return err
		},
	}}
	if err := s.effects.Apply(ctx, statusEffect); err != nil {
		s.logger.Error("status alert failed", "record_id", id, "error", err)
		return dErrors.Wrap(err, dErrors.CodeInternal, "status updated but alert failed")
	}

	s.emit(ctx, audit.EventDonationStatusMoved, record.UserID, id, string(status))
	return nil
}

// RespondToRequest transitions a blood request on behalf of a hospital and
// notifies the requester. This is the only path that alerts on a request
// status change; direct status updates stay silent.
func (s *Service) RespondToRequest(ctx context.Context, hospitalID, requestID string, status requestmodels.Status, notes *string) error {
	request, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "blood request not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load blood request")
	}

	if err := s.requests.SetStatus(ctx, requestID, status, notes); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update blood request")
	}

	if request.UserID != "" {
		responseEffect := []effects.Effect{effects.Func{
			K: fmt.Sprintf("request:%s:response:%s:alert", requestID, status),
			Fn: func(ctx context.Context) error {
				_, err := s.alerts.Insert(ctx, alertmodels.Alert{
					UserID:           request.UserID,
					HospitalID:       hospitalID,
					DonationRecordID: requestID,
					Message:          fmt.Sprintf("Your blood request has been %s", status),
					Type:             alertmodels.TypeStatusUpdate,
					Status:           alertmodels.StatusUnread,
				})
				return err
			},
		}}
		if err := s.effects.Apply(ctx, responseEffect); err != nil {
			s.logger.Error("request response alert failed", "request_id", requestID, "error", err)
		}
	}

	s.emit(ctx, audit.EventRequestStatusMoved, request.UserID, requestID, string(status))
	return nil
}

func (s *Service) emit(ctx context.Context, action audit.AuditEvent, userID, subject, reason string) {
	event := audit.Event{
		Timestamp: requestcontext.Now(ctx),
		UserID:    userID,
		Action:    string(action),
		Subject:   subject,
		Reason:    reason,
		RequestID: requestcontext.RequestID(ctx),
		Device:    requestcontext.Device(ctx),
		ActorID:   requestcontext.UserID(ctx),
	}
	if err := s.audit.Emit(ctx, event); err != nil {
		s.logger.Warn("audit emit failed", "action", action, "error", err)
	}
}
