package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/rabbitfarm/internal/core/domain"
)

type RabbitQuery struct {
	Pagination
	HutchID *uuid.UUID
	Gender  string
}

type RabbitRepository interface {
	// Create and Update claim the rabbit's hutch, failing with
	// domain.ErrHutchNotAvailable when it is missing or already occupied.
	Create(ctx context.Context, rabbit *domain.Rabbit) error
	GetByID(ctx context.Context, id, farmID uuid.UUID) (*domain.Rabbit, error)
	List(ctx context.Context, farmID uuid.UUID, query RabbitQuery) ([]*domain.Rabbit, error)
	Update(ctx context.Context, rabbit *domain.Rabbit, previousHutch *uuid.UUID) error
	Remove(ctx context.Context, removal *domain.RabbitRemoval) (*domain.Rabbit, error)
}

type RabbitInput struct {
	Tag       string     `json:"tag" validate:"required,max=50"`
	Name      string     `json:"name" validate:"max=100"`
	Gender    string     `json:"gender" validate:"required,oneof=male female"`
	Breed     string     `json:"breed" validate:"max=50"`
	Color     string     `json:"color" validate:"max=50"`
	HutchID   *uuid.UUID `json:"hutch_id"`
	BirthDate string     `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Weight    *float64   `json:"weight" validate:"omitempty,gt=0"`
}

type RemovalInput struct {
	Reason string `json:"reason" validate:"omitempty,oneof=sold dead culled transferred other"`
	Notes  string `json:"notes" validate:"max=1000"`
}

type RabbitFilter struct {
	Page
	HutchID string
	Gender  string
}

type RabbitService interface {
	Create(ctx context.Context, farmID uuid.UUID, input RabbitInput, userID uuid.UUID) (*domain.Rabbit, error)
	GetByID(ctx context.Context, id, farmID uuid.UUID) (*domain.Rabbit, error)
	GetAll(ctx context.Context, farmID uuid.UUID, filter RabbitFilter) ([]*domain.Rabbit, error)
	Update(ctx context.Context, id, farmID uuid.UUID, input RabbitInput, userID uuid.UUID) (*domain.Rabbit, error)
	Delete(ctx context.Context, id, farmID uuid.UUID, input RemovalInput, userID uuid.UUID) (*domain.Rabbit, error)
}
