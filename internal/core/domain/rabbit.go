package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	GenderMale   = "male"
	GenderFemale = "female"

	RabbitStatusActive  = "active"
	RabbitStatusRemoved = "removed"
)

type Rabbit struct {
	ID        uuid.UUID  `json:"id"`
	FarmID    uuid.UUID  `json:"farm_id"`
	HutchID   *uuid.UUID `json:"hutch_id,omitempty"`
	Tag       string     `json:"tag"`
	Name      string     `json:"name,omitempty"`
	Gender    string     `json:"gender"`
	Breed     string     `json:"breed,omitempty"`
	Color     string     `json:"color,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	Weight    *float64   `json:"weight,omitempty"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// RabbitRemoval is the audit row written when a rabbit leaves the farm. It
// doubles as the history of a hutch.
type RabbitRemoval struct {
	ID        uuid.UUID  `json:"id"`
	RabbitID  uuid.UUID  `json:"rabbit_id"`
	FarmID    uuid.UUID  `json:"farm_id"`
	HutchID   *uuid.UUID `json:"hutch_id,omitempty"`
	RabbitTag string     `json:"rabbit_tag,omitempty"`
	Reason    string     `json:"reason"`
	Notes     string     `json:"notes,omitempty"`
	RemovedBy uuid.UUID  `json:"removed_by"`
	RemovedAt time.Time  `json:"removed_at"`
}
