package domain

import (
	dErrors "github.com/Loxfxgc/life-drop/pkg/domain-errors"
)

// BloodType is one of the eight canonical ABO/Rh combinations.
// Invariant: the value must be one of the canonical types.
//
// Usage: construct via ParseBloodType at trust boundaries to enforce the
// allowlist; direct casting bypasses validation.
type BloodType string

const (
	APositive  BloodType = "A+"
	ANegative  BloodType = "A-"
	BPositive  BloodType = "B+"
	BNegative  BloodType = "B-"
	ABPositive BloodType = "AB+"
	ABNegative BloodType = "AB-"
	OPositive  BloodType = "O+"
	ONegative  BloodType = "O-"
)

// BloodTypes lists the canonical types in display order. Aggregates that key
// by blood type iterate this slice so no type is ever omitted.
var BloodTypes = []BloodType{
	APositive, ANegative, BPositive, BNegative,
	ABPositive, ABNegative, OPositive, ONegative,
}

// bloodTypeDisplay maps each type to its long-form label.
var bloodTypeDisplay = map[BloodType]string{
	APositive:  "A Positive (A+)",
	ANegative:  "A Negative (A-)",
	BPositive:  "B Positive (B+)",
	BNegative:  "B Negative (B-)",
	ABPositive: "AB Positive (AB+)",
	ABNegative: "AB Negative (AB-)",
	OPositive:  "O Positive (O+)",
	ONegative:  "O Negative (O-)",
}

// ParseBloodType constructs a BloodType from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or not one of the
// eight canonical types.
func ParseBloodType(s string) (BloodType, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "blood type cannot be empty")
	}
	bt := BloodType(s)
	if !bt.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid blood type")
	}
	return bt, nil
}

// IsValid checks if the blood type is one of the canonical values.
func (b BloodType) IsValid() bool {
	_, ok := bloodTypeDisplay[b]
	return ok
}

// Display returns the long-form label, e.g. "O Negative (O-)".
func (b BloodType) Display() string {
	return bloodTypeDisplay[b]
}

func (b BloodType) String() string {
	return string(b)
}
