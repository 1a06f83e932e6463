package models

import (
	"time"

	"github.com/Loxfxgc/life-drop/pkg/domain"
)

// Hospital is an institutional profile owned by one user account. IsVerified
// starts false on every registration and is flipped only by an admin review.
type Hospital struct {
	ID               string    `json:"id"`
	UserID           string    `json:"userId"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	Address          string    `json:"address"`
	City             string    `json:"city"`
	State            string    `json:"state"`
	ZipCode          string    `json:"zipCode"`
	LicenseNumber    string    `json:"licenseNumber"`
	ContactPerson    string    `json:"contactPerson"`
	RegistrationDate time.Time `json:"registrationDate"`
	IsVerified       bool      `json:"isVerified"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Update carries a partial profile edit. Nil fields are left untouched.
// Verification state is not editable here; see Verify.
type Update struct {
	Name          *string `json:"name,omitempty"`
	Email         *string `json:"email,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Address       *string `json:"address,omitempty"`
	City          *string `json:"city,omitempty"`
	State         *string `json:"state,omitempty"`
	ZipCode       *string `json:"zipCode,omitempty"`
	LicenseNumber *string `json:"licenseNumber,omitempty"`
	ContactPerson *string `json:"contactPerson,omitempty"`
}

// EventStatus is the lifecycle of a donation drive.
type EventStatus string

const (
	EventUpcoming  EventStatus = "upcoming"
	EventActive    EventStatus = "active"
	EventCompleted EventStatus = "completed"
	EventCancelled EventStatus = "cancelled"
)

// Event is a scheduled blood donation drive hosted by a hospital.
type Event struct {
	ID                string      `json:"id"`
	HospitalID        string      `json:"hospitalId"`
	Title             string      `json:"title"`
	Description       string      `json:"description"`
	EventDate         time.Time   `json:"eventDate"`
	StartTime         string      `json:"startTime"`
	EndTime           string      `json:"endTime"`
	Location          string      `json:"location"`
	TargetDonors      int         `json:"targetDonors"`
	CurrentRegistered int         `json:"currentRegistered"`
	Status            EventStatus `json:"status"`
	CreatedAt         time.Time   `json:"createdAt"`
	UpdatedAt         time.Time   `json:"updatedAt"`
}

// RecordStatus tracks a collected unit through processing.
type RecordStatus string

const (
	RecordCollected RecordStatus = "collected"
	RecordProcessed RecordStatus = "processed"
	RecordAvailable RecordStatus = "available"
	RecordUsed      RecordStatus = "used"
)

// Record is one collected donation. Creating a record fans out a
// last-donation stamp on the donor profile and a collection alert to the
// donor's user account.
type Record struct {
	ID           string           `json:"id"`
	HospitalID   string           `json:"hospitalId"`
	DonorID      string           `json:"donorId"`
	UserID       string           `json:"userId"`
	DonationDate time.Time        `json:"donationDate"`
	BloodType    domain.BloodType `json:"bloodType"`
	Quantity     int              `json:"quantity"`
	Status       RecordStatus     `json:"status"`
	EventID      string           `json:"eventId,omitempty"`
	RecipientID  string           `json:"recipientId,omitempty"`
	Notes        string           `json:"notes,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}
