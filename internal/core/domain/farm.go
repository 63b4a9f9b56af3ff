package domain

import (
	"time"

	"github.com/google/uuid"
)

type Farm struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Hutch struct {
	ID         uuid.UUID `json:"id"`
	FarmID     uuid.UUID `json:"farm_id"`
	Name       string    `json:"name"`
	RowName    string    `json:"row_name,omitempty"`
	Level      string    `json:"level,omitempty"`
	Size       string    `json:"size,omitempty"`
	Material   string    `json:"material,omitempty"`
	IsOccupied bool      `json:"is_occupied"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
