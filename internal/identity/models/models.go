package models

import (
	"time"

	"github.com/Loxfxgc/life-drop/pkg/domain"
)

// Account is an authentication record. PasswordHash is a bcrypt hash and
// never leaves the identity package.
type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// RoleAssignment binds a role to a user. Accounts without an assignment
// resolve to the plain user role.
type RoleAssignment struct {
	UserID     string      `json:"userId"`
	Role       domain.Role `json:"role"`
	AssignedAt time.Time   `json:"assignedAt"`
}

// Session is what a successful sign-in returns to the client.
type Session struct {
	SubjectID   string      `json:"id"`
	DisplayName string      `json:"name"`
	Email       string      `json:"email"`
	Role        domain.Role `json:"role"`
	Token       string      `json:"token"`
}
