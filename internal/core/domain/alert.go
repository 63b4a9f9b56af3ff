package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	AlertUpcomingBirth = "upcoming_birth"
	AlertOverdueBirth  = "overdue_birth"
	AlertWeaningDue    = "weaning_due"
)

// Alert is computed on read; nothing is persisted.
type Alert struct {
	Type             string    `json:"type"`
	Message          string    `json:"message"`
	BreedingRecordID uuid.UUID `json:"breeding_record_id"`
	DoeID            uuid.UUID `json:"doe_id"`
	DueDate          time.Time `json:"due_date"`
}
