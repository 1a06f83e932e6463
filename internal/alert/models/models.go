package models

import "time"

// Type classifies why an alert was raised.
type Type string

const (
	TypeCollection   Type = "collection"
	TypeStatusUpdate Type = "status_update"
	TypeUsage        Type = "usage"
)

// Status is the read-state of an alert.
type Status string

const (
	StatusUnread Status = "unread"
	StatusRead   Status = "read"
)

// Alert is a notification record fanned out to a user as a consequence of
// another entity's state change. CreatedAt is store-assigned; a zero value
// means the record predates timestamping and sorts last.
type Alert struct {
	ID               string    `json:"id"`
	UserID           string    `json:"userId"`
	DonorID          string    `json:"donorId,omitempty"`
	HospitalID       string    `json:"hospitalId"`
	DonationRecordID string    `json:"donationRecordId"`
	Message          string    `json:"message"`
	Type             Type      `json:"type"`
	Status           Status    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
}
