package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/rabbitfarm/internal/core/domain"
	"github.com/vncsmyrnk/rabbitfarm/internal/core/ports"
)

type farmService struct {
	repo ports.FarmRepository
}

func NewFarmService(repo ports.FarmRepository) ports.FarmService {
	return &farmService{
		repo: repo,
	}
}

func (s *farmService) Create(ctx context.Context, input ports.FarmInput, userID uuid.UUID) (*domain.Farm, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	input = trimFarmInput(input)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	farm := &domain.Farm{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        input.Name,
		Location:    input.Location,
		Description: input.Description,
	}
	if err := s.repo.Create(ctx, farm); err != nil {
		return nil, err
	}
	return farm, nil
}

func (s *farmService) GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Farm, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := requireFarm(id); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id, userID)
}

func (s *farmService) GetAll(ctx context.Context, userID uuid.UUID, page ports.Page) ([]*domain.Farm, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	p, err := parsePage(page)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, userID, p)
}

func (s *farmService) Update(ctx context.Context, id uuid.UUID, input ports.FarmInput, userID uuid.UUID) (*domain.Farm, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := requireFarm(id); err != nil {
		return nil, err
	}
	input = trimFarmInput(input)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	farm, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	farm.Name = input.Name
	farm.Location = input.Location
	farm.Description = input.Description
	if err := s.repo.Update(ctx, farm); err != nil {
		return nil, err
	}
	return farm, nil
}

func (s *farmService) Delete(ctx context.Context, id, userID uuid.UUID) (*domain.Farm, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := requireFarm(id); err != nil {
		return nil, err
	}
	return s.repo.Delete(ctx, id, userID)
}

// CheckAccess reports ErrFarmNotFound for unknown farms and ErrFarmAccessDenied
// for farms owned by someone else.
func (s *farmService) CheckAccess(ctx context.Context, farmID, userID uuid.UUID) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if err := requireFarm(farmID); err != nil {
		return err
	}

	owner, err := s.repo.GetOwner(ctx, farmID)
	if err != nil {
		return err
	}
	if owner != userID {
		return domain.ErrFarmAccessDenied
	}
	return nil
}

func trimFarmInput(input ports.FarmInput) ports.FarmInput {
	input.Name = strings.TrimSpace(input.Name)
	input.Location = strings.TrimSpace(input.Location)
	input.Description = strings.TrimSpace(input.Description)
	return input
}
