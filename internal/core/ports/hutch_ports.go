package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/rabbitfarm/internal/core/domain"
)

type HutchQuery struct {
	Pagination
	IsOccupied *bool
	RowName    string
}

type HutchRepository interface {
	Create(ctx context.Context, hutch *domain.Hutch) error
	GetByID(ctx context.Context, id, farmID uuid.UUID) (*domain.Hutch, error)
	List(ctx context.Context, farmID uuid.UUID, query HutchQuery) ([]*domain.Hutch, error)
	Update(ctx context.Context, hutch *domain.Hutch) error
	Delete(ctx context.Context, id, farmID uuid.UUID) (*domain.Hutch, error)
	ListRemovals(ctx context.Context, hutchID, farmID uuid.UUID) ([]*domain.RabbitRemoval, error)
}

type HutchInput struct {
	Name     string `json:"name" validate:"required,max=50"`
	RowName  string `json:"row_name" validate:"max=50"`
	Level    string `json:"level" validate:"max=20"`
	Size     string `json:"size" validate:"max=50"`
	Material string `json:"material" validate:"max=50"`
}

type HutchFilter struct {
	Page
	IsOccupied string
	RowName    string
}

type HutchService interface {
	Create(ctx context.Context, farmID uuid.UUID, input HutchInput, userID uuid.UUID) (*domain.Hutch, error)
	GetByID(ctx context.Context, id, farmID uuid.UUID) (*domain.Hutch, error)
	GetAll(ctx context.Context, farmID uuid.UUID, filter HutchFilter) ([]*domain.Hutch, error)
	Update(ctx context.Context, id, farmID uuid.UUID, input HutchInput, userID uuid.UUID) (*domain.Hutch, error)
	Delete(ctx context.Context, id, farmID, userID uuid.UUID) (*domain.Hutch, error)
	GetRemovedRabbits(ctx context.Context, id, farmID uuid.UUID) ([]*domain.RabbitRemoval, error)
}
