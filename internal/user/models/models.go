package models

import (
	"time"

	"github.com/Loxfxgc/life-drop/pkg/domain"
)

// Profile is the account-level profile keyed by the user's id. BloodType may
// be empty; users fill it in after registration.
type Profile struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Email          string           `json:"email"`
	Phone          string           `json:"phone"`
	Address        string           `json:"address"`
	BloodType      domain.BloodType `json:"bloodType"`
	DateOfBirth    string           `json:"dateOfBirth"`
	Gender         string           `json:"gender"`
	ProfilePicture string           `json:"profilePicture,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

// Update carries a partial profile edit. Nil fields are left untouched.
type Update struct {
	Name           *string           `json:"name,omitempty"`
	Email          *string           `json:"email,omitempty"`
	Phone          *string           `json:"phone,omitempty"`
	Address        *string           `json:"address,omitempty"`
	BloodType      *domain.BloodType `json:"bloodType,omitempty"`
	DateOfBirth    *string           `json:"dateOfBirth,omitempty"`
	Gender         *string           `json:"gender,omitempty"`
	ProfilePicture *string           `json:"profilePicture,omitempty"`
}
