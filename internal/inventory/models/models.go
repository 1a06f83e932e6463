package models

import (
	"time"

	"github.com/Loxfxgc/life-drop/pkg/domain"
)

// Line is one hospital's stock of one blood type. At most one line exists
// per (hospitalId, bloodType) pair.
type Line struct {
	ID             string           `json:"id"`
	HospitalID     string           `json:"hospitalId"`
	BloodType      domain.BloodType `json:"bloodType"`
	AvailableUnits int              `json:"availableUnits"`
	LastUpdated    time.Time        `json:"lastUpdated"`
}

// Availability is the system-wide derived view for one blood type: donors on
// file counted as available units versus units asked for by pending requests.
type Availability struct {
	BloodType domain.BloodType `json:"bloodType"`
	Available int              `json:"available"`
	Requested int              `json:"requested"`
	UpdatedAt time.Time        `json:"lastUpdated"`
}
