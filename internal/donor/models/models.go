package models

import (
	"time"

	"github.com/Loxfxgc/life-drop/pkg/domain"
)

// MedicalHistory is the self-reported screening questionnaire captured at
// registration. Booleans are stored as answered; eligibility decisions stay
// with hospital staff.
type MedicalHistory struct {
	HasDisease       bool   `json:"hasDisease"`
	HasTattoo        bool   `json:"hasTattoo"`
	HasRecentSurgery bool   `json:"hasRecentSurgery"`
	HasAllergies     bool   `json:"hasAllergies"`
	IsMedicated      bool   `json:"isMedicated"`
	AdditionalInfo   string `json:"additionalInfo"`
}

// Donor is a donation profile owned by exactly one user account.
// LastDonation is denormalized from the newest donation and is not
// recomputed if that donation is later edited or removed.
type Donor struct {
	ID             string           `json:"id"`
	UserID         string           `json:"userId"`
	Name           string           `json:"name"`
	Email          string           `json:"email"`
	Phone          string           `json:"phone"`
	BloodType      domain.BloodType `json:"bloodType"`
	Age            int              `json:"age"`
	Gender         string           `json:"gender"`
	Weight         float64          `json:"weight"`
	Address        string           `json:"address"`
	MedicalHistory MedicalHistory   `json:"medicalHistory"`
	LastDonation   *time.Time       `json:"lastDonation,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

// Update carries a partial profile edit. Nil fields are left untouched.
type Update struct {
	Name           *string           `json:"name,omitempty"`
	Email          *string           `json:"email,omitempty"`
	Phone          *string           `json:"phone,omitempty"`
	BloodType      *domain.BloodType `json:"bloodType,omitempty"`
	Age            *int              `json:"age,omitempty"`
	Gender         *string           `json:"gender,omitempty"`
	Weight         *float64          `json:"weight,omitempty"`
	Address        *string           `json:"address,omitempty"`
	MedicalHistory *MedicalHistory   `json:"medicalHistory,omitempty"`
}

// HistoryStatus tracks a donation appointment from the donor's side.
type HistoryStatus string

const (
	HistoryCompleted HistoryStatus = "completed"
	HistoryScheduled HistoryStatus = "scheduled"
	HistoryCancelled HistoryStatus = "cancelled"
)

// HistoryEntry is one row of a donor's donation timeline. Append-only from
// the donor's point of view.
type HistoryEntry struct {
	ID        string           `json:"id"`
	DonorID   string           `json:"donorId"`
	UserID    string           `json:"userId"`
	Date      time.Time        `json:"date"`
	Location  string           `json:"location"`
	BloodType domain.BloodType `json:"bloodType"`
	Status    HistoryStatus    `json:"status"`
	Notes     string           `json:"notes,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}
