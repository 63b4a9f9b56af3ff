package domain

import (
	"time"

	"github.com/google/uuid"
)

// GestationDays is used when a breeding record is created without an expected birth date.
const GestationDays = 31

const (
	KitStatusAlive  = "alive"
	KitStatusDead   = "dead"
	KitStatusWeaned = "weaned"
	KitStatusSold   = "sold"
)

type BreedingRecord struct {
	ID                uuid.UUID  `json:"id"`
	FarmID            uuid.UUID  `json:"farm_id"`
	DoeID             uuid.UUID  `json:"doe_id"`
	BuckID            uuid.UUID  `json:"buck_id"`
	MatingDate        time.Time  `json:"mating_date"`
	ExpectedBirthDate time.Time  `json:"expected_birth_date"`
	ActualBirthDate   *time.Time `json:"actual_birth_date,omitempty"`
	NumberOfKits      int        `json:"number_of_kits"`
	Notes             string     `json:"notes,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

type KitRecord struct {
	ID               uuid.UUID  `json:"id"`
	BreedingRecordID uuid.UUID  `json:"breeding_record_id"`
	FarmID           uuid.UUID  `json:"farm_id"`
	KitNumber        string     `json:"kit_number"`
	BirthWeight      *float64   `json:"birth_weight,omitempty"`
	Gender           string     `json:"gender,omitempty"`
	Color            string     `json:"color,omitempty"`
	Status           string     `json:"status"`
	WeaningDate      *time.Time `json:"weaning_date,omitempty"`
	WeaningWeight    *float64   `json:"weaning_weight,omitempty"`
	Notes            string     `json:"notes,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
