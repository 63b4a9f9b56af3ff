package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/rabbitfarm/internal/core/domain"
)

type AlertService interface {
	GetAll(ctx context.Context, farmID uuid.UUID) ([]domain.Alert, error)
}
