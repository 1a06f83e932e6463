package audit

import (
	"context"
	"time"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time
	UserID    string
	Action    string
	Subject   string
	Reason    string
	RequestID string
	// Device is the parsed User-Agent of the caller, when a sign-in or
	// registration produced the event.
	Device string
	// ActorID tracks who performed the action when different from UserID
	// (admin acting on a user's behalf, hospital acting on a donor's).
	ActorID string
}

// AuditEvent names the actions the system records.
type AuditEvent string

const (
	EventUserRegistered       AuditEvent = "user_registered"
	EventHospitalRegistered   AuditEvent = "hospital_registered"
	EventUserSignedIn         AuditEvent = "user_signed_in"
	EventUserSignedOut        AuditEvent = "user_signed_out"
	EventRoleChanged          AuditEvent = "role_changed"
	EventDonorRegistered      AuditEvent = "donor_registered"
	EventDonationRecorded     AuditEvent = "donation_recorded"
	EventDonationStatusMoved  AuditEvent = "donation_status_changed"
	EventRequestCreated       AuditEvent = "request_created"
	EventRequestStatusMoved   AuditEvent = "request_status_changed"
	EventInventoryLineUpdated AuditEvent = "inventory_line_updated"
)

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}
