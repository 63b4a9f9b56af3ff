package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/rabbitfarm/internal/core/domain"
)

type BreedingRepository interface {
	Create(ctx context.Context, record *domain.BreedingRecord) error
	GetByID(ctx context.Context, id, farmID uuid.UUID) (*domain.BreedingRecord, error)
	List(ctx context.Context, farmID uuid.UUID, page Pagination) ([]*domain.BreedingRecord, error)
	Update(ctx context.Context, record *domain.BreedingRecord) error
	Delete(ctx context.Context, id, farmID uuid.UUID) (*domain.BreedingRecord, error)

	// AddKits inserts the kits and refreshes the record's number_of_kits.
	AddKits(ctx context.Context, recordID, farmID uuid.UUID, kits []*domain.KitRecord) error
	ListKits(ctx context.Context, recordID, farmID uuid.UUID) ([]*domain.KitRecord, error)
	GetKit(ctx context.Context, kitID, recordID, farmID uuid.UUID) (*domain.KitRecord, error)
	UpdateKit(ctx context.Context, kit *domain.KitRecord) error
	DeleteKit(ctx context.Context, kitID, recordID, farmID uuid.UUID) (*domain.KitRecord, error)

	ListPendingBirths(ctx context.Context, farmID uuid.UUID) ([]*domain.BreedingRecord, error)
	ListUnweanedLitters(ctx context.Context, farmID uuid.UUID, bornBefore time.Time) ([]*domain.BreedingRecord, error)
}

type BreedingInput struct {
	DoeID             uuid.UUID `json:"doe_id" validate:"required"`
	BuckID            uuid.UUID `json:"buck_id" validate:"required"`
	MatingDate        string    `json:"mating_date" validate:"required,datetime=2006-01-02"`
	ExpectedBirthDate string    `json:"expected_birth_date" validate:"omitempty,datetime=2006-01-02"`
	ActualBirthDate   string    `json:"actual_birth_date" validate:"omitempty,datetime=2006-01-02"`
	NumberOfKits      int       `json:"number_of_kits" validate:"gte=0"`
	Notes             string    `json:"notes" validate:"max=1000"`
}

type KitInput struct {
	KitNumber     string   `json:"kit_number" validate:"required,max=50"`
	BirthWeight   *float64 `json:"birth_weight" validate:"omitempty,gt=0"`
	Gender        string   `json:"gender" validate:"omitempty,oneof=male female"`
	Color         string   `json:"color" validate:"max=50"`
	Status        string   `json:"status" validate:"omitempty,oneof=alive dead weaned sold"`
	WeaningDate   string   `json:"weaning_date" validate:"omitempty,datetime=2006-01-02"`
	WeaningWeight *float64 `json:"weaning_weight" validate:"omitempty,gt=0"`
	Notes         string   `json:"notes" validate:"max=1000"`
}

type AddKitsInput struct {
	Kits []KitInput `json:"kits" validate:"required,min=1,dive"`
}

type BreedingService interface {
	Create(ctx context.Context, farmID uuid.UUID, input BreedingInput, userID uuid.UUID) (*domain.BreedingRecord, error)
	GetByID(ctx context.Context, id, farmID uuid.UUID) (*domain.BreedingRecord, error)
	GetAll(ctx context.Context, farmID uuid.UUID, page Page) ([]*domain.BreedingRecord, error)
	Update(ctx context.Context, id, farmID uuid.UUID, input BreedingInput, userID uuid.UUID) (*domain.BreedingRecord, error)
	Delete(ctx context.Context, id, farmID, userID uuid.UUID) (*domain.BreedingRecord, error)

	AddKits(ctx context.Context, recordID, farmID uuid.UUID, input AddKitsInput, userID uuid.UUID) ([]*domain.KitRecord, error)
	GetKits(ctx context.Context, recordID, farmID uuid.UUID) ([]*domain.KitRecord, error)
	UpdateKit(ctx context.Context, kitID, recordID, farmID uuid.UUID, input KitInput, userID uuid.UUID) (*domain.KitRecord, error)
	DeleteKit(ctx context.Context, kitID, recordID, farmID, userID uuid.UUID) (*domain.KitRecord, error)
}
