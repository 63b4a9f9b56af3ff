package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/rabbitfarm/internal/core/domain"
)

type EarningsQuery struct {
	Pagination
	Type     string
	DateFrom *time.Time
	DateTo   *time.Time
}

type EarningsRepository interface {
	Create(ctx context.Context, record *domain.EarningsRecord) error
	GetByID(ctx context.Context, id, farmID uuid.UUID) (*domain.EarningsRecord, error)
	List(ctx context.Context, farmID uuid.UUID, query EarningsQuery) ([]*domain.EarningsRecord, error)
	Update(ctx context.Context, record *domain.EarningsRecord) error
	Delete(ctx context.Context, id, farmID uuid.UUID) (*domain.EarningsRecord, error)
}

type EarningsInput struct {
	Type      string     `json:"type" validate:"required,oneof=rabbit_sale manure_sale urine_sale other"`
	RabbitID  *uuid.UUID `json:"rabbit_id"`
	Amount    float64    `json:"amount" validate:"required,gt=0"`
	Date      string     `json:"date" validate:"required,datetime=2006-01-02"`
	BuyerName string     `json:"buyer_name" validate:"max=100"`
	Notes     string     `json:"notes" validate:"max=1000"`
}

type EarningsFilter struct {
	Page
	Type     string
	DateFrom string
	DateTo   string
}

type EarningsService interface {
	Create(ctx context.Context, farmID uuid.UUID, input EarningsInput, userID uuid.UUID) (*domain.EarningsRecord, error)
	GetByID(ctx context.Context, id, farmID uuid.UUID) (*domain.EarningsRecord, error)
	GetAll(ctx context.Context, farmID uuid.UUID, filter EarningsFilter) ([]*domain.EarningsRecord, error)
	Update(ctx context.Context, id, farmID uuid.UUID, input EarningsInput, userID uuid.UUID) (*domain.EarningsRecord, error)
	Delete(ctx context.Context, id, farmID, userID uuid.UUID) (*domain.EarningsRecord, error)
}
