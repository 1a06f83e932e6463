package domain

import (
	dErrors "github.com/Loxfxgc/life-drop/pkg/domain-errors"
)

// Role is the access level attached to a user account. Roles live in a side
// collection keyed by the auth subject id, not on the identity record itself,
// because the identity record is externally owned.
type Role string

const (
	RoleUser     Role = "user"
	RoleAdmin    Role = "admin"
	RoleHospital Role = "hospital"
)

var validRoles = map[Role]bool{
	RoleUser:     true,
	RoleAdmin:    true,
	RoleHospital: true,
}

// ParseRole constructs a Role from external input.
func ParseRole(s string) (Role, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "role cannot be empty")
	}
	r := Role(s)
	if !validRoles[r] {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid role")
	}
	return r, nil
}

// IsValid checks if the role is one of the supported values.
func (r Role) IsValid() bool {
	return validRoles[r]
}

func (r Role) String() string {
	return string(r)
}
