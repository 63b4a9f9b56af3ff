package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/rabbitfarm/internal/core/domain"
)

type FarmRepository interface {
	Create(ctx context.Context, farm *domain.Farm) error
	GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Farm, error)
	List(ctx context.Context, userID uuid.UUID, page Pagination) ([]*domain.Farm, error)
	Update(ctx context.Context, farm *domain.Farm) error
	Delete(ctx context.Context, id, userID uuid.UUID) (*domain.Farm, error)
	// GetOwner returns domain.ErrFarmNotFound for missing or deleted farms.
	GetOwner(ctx context.Context, farmID uuid.UUID) (uuid.UUID, error)
}

type FarmInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Location    string `json:"location" validate:"max=255"`
	Description string `json:"description" validate:"max=1000"`
}

// FarmService scopes farms by their owner rather than by a parent farm id.
type FarmService interface {
	Create(ctx context.Context, input FarmInput, userID uuid.UUID) (*domain.Farm, error)
	GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Farm, error)
	GetAll(ctx context.Context, userID uuid.UUID, page Page) ([]*domain.Farm, error)
	Update(ctx context.Context, id uuid.UUID, input FarmInput, userID uuid.UUID) (*domain.Farm, error)
	Delete(ctx context.Context, id, userID uuid.UUID) (*domain.Farm, error)
	CheckAccess(ctx context.Context, farmID, userID uuid.UUID) error
}
