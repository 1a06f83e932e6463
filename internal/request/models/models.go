package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/Loxfxgc/life-drop/pkg/domain"
)

// Status is the lifecycle of a blood request.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusFulfilled Status = "fulfilled"
	StatusCancelled Status = "cancelled"
)

func ParseStatus(raw string) (Status, error) {
	switch Status(strings.ToLower(raw)) {
	case StatusPending, StatusApproved, StatusRejected, StatusFulfilled, StatusCancelled:
		return Status(strings.ToLower(raw)), nil
	}
	return "", fmt.Errorf("unknown request status %q", raw)
}

// Urgency ranks how soon the blood is needed. "emergency" is accepted as a
// legacy spelling of critical.
type Urgency string

const (
	UrgencyNormal   Urgency = "normal"
	UrgencyUrgent   Urgency = "urgent"
	UrgencyCritical Urgency = "critical"
)

func ParseUrgency(raw string) (Urgency, error) {
	switch strings.ToLower(raw) {
	case "normal":
		return UrgencyNormal, nil
	case "urgent":
		return UrgencyUrgent, nil
	case "critical", "emergency":
		return UrgencyCritical, nil
	}
	return "", fmt.Errorf("unknown urgency %q", raw)
}

// Request is a plea for blood units on behalf of a patient. RequestDate is
// server-assigned at creation; CreatedAt mirrors it and is the primary sort
// key for listings.
type Request struct {
	ID            string           `json:"id"`
	UserID        string           `json:"userId"`
	HospitalID    string           `json:"hospitalId,omitempty"`
	PatientName   string           `json:"patientName"`
	PatientAge    int              `json:"patientAge"`
	BloodType     domain.BloodType `json:"bloodType"`
	UnitsNeeded   int              `json:"unitsNeeded"`
	HospitalName  string           `json:"hospitalName"`
	ContactName   string           `json:"contactName"`
	ContactPhone  string           `json:"contactPhone"`
	ContactEmail  string           `json:"contactEmail"`
	Urgency       Urgency          `json:"urgency"`
	Reason        string           `json:"reason"`
	Status        Status           `json:"status"`
	ResponseNotes string           `json:"responseNotes,omitempty"`
	RequestDate   time.Time        `json:"requestDate"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// SortKey is the timestamp listings order by: creation time when present,
// request time otherwise.
func (r Request) SortKey() time.Time {
	if !r.CreatedAt.IsZero() {
		return r.CreatedAt
	}
	return r.RequestDate
}

// Update carries a partial edit. Nil fields are left untouched.
type Update struct {
	PatientName  *string           `json:"patientName,omitempty"`
	PatientAge   *int              `json:"patientAge,omitempty"`
	BloodType    *domain.BloodType `json:"bloodType,omitempty"`
	UnitsNeeded  *int              `json:"unitsNeeded,omitempty"`
	HospitalName *string           `json:"hospitalName,omitempty"`
	ContactName  *string           `json:"contactName,omitempty"`
	ContactPhone *string           `json:"contactPhone,omitempty"`
	ContactEmail *string           `json:"contactEmail,omitempty"`
	Urgency      *Urgency          `json:"urgency,omitempty"`
	Reason       *string           `json:"reason,omitempty"`
}
