package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	EarningRabbitSale = "rabbit_sale"
	EarningManureSale = "manure_sale"
	EarningUrineSale  = "urine_sale"
	EarningOther      = "other"
)

type EarningsRecord struct {
	ID        uuid.UUID  `json:"id"`
	FarmID    uuid.UUID  `json:"farm_id"`
	Type      string     `json:"type"`
	RabbitID  *uuid.UUID `json:"rabbit_id,omitempty"`
	Amount    float64    `json:"amount"`
	Date      time.Time  `json:"date"`
	BuyerName string     `json:"buyer_name,omitempty"`
	Notes     string     `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
