package services

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/rabbitfarm/internal/core/domain"
	"github.com/vncsmyrnk/rabbitfarm/internal/core/ports"
)

type hutchService struct {
	repo ports.HutchRepository
}

func NewHutchService(repo ports.HutchRepository) ports.HutchService {
	return &hutchService{
		repo: repo,
	}
}

func (s *hutchService) Create(ctx context.Context, farmID uuid.UUID, input ports.HutchInput, userID uuid.UUID) (*domain.Hutch, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := requireFarm(farmID); err != nil {
		return nil, err
	}
	input = trimHutchInput(input)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	hutch := &domain.Hutch{
		ID:     uuid.New(),
		FarmID: farmID,
	}
	applyHutchInput(hutch, input)

	if err := s.repo.Create(ctx, hutch); err != nil {
		return nil, err
	}
	return hutch, nil
}

func (s *hutchService) GetByID(ctx context.Context, id, farmID uuid.UUID) (*domain.Hutch, error) {
	if err := requireScope("Hutch", id, farmID); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id, farmID)
}

func (s *hutchService) GetAll(ctx context.Context, farmID uuid.UUID, filter ports.HutchFilter) ([]*domain.Hutch, error) {
	if err := requireFarm(farmID); err != nil {
		return nil, err
	}
	page, err := parsePage(filter.Page)
	if err != nil {
		return nil, err
	}

	query := ports.HutchQuery{
		Pagination: page,
		RowName:    strings.TrimSpace(filter.RowName),
	}
	if filter.IsOccupied != "" {
		occupied, err := strconv.ParseBool(filter.IsOccupied)
		if err != nil {
			return nil, domain.Validation("is_occupied must be true or false")
		}
		query.IsOccupied = &occupied
	}

	return s.repo.List(ctx, farmID, query)
}

func (s *hutchService) Update(ctx context.Context, id, farmID uuid.UUID, input ports.HutchInput, userID uuid.UUID) (*domain.Hutch, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := requireScope("Hutch", id, farmID); err != nil {
		return nil, err
	}
	input = trimHutchInput(input)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	hutch, err := s.repo.GetByID(ctx, id, farmID)
	if err != nil {
		return nil, err
	}
	applyHutchInput(hutch, input)

	if err := s.repo.Update(ctx, hutch); err != nil {
		return nil, err
	}
	return hutch, nil
}

func (s *hutchService) Delete(ctx context.Context, id, farmID, userID uuid.UUID) (*domain.Hutch, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := requireScope("Hutch", id, farmID); err != nil {
		return nil, err
	}

	hutch, err := s.repo.GetByID(ctx, id, farmID)
	if err != nil {
		return nil, err
	}
	if hutch.IsOccupied {
		return nil, domain.ErrHutchOccupied
	}

	return s.repo.Delete(ctx, id, farmID)
}

func (s *hutchService) GetRemovedRabbits(ctx context.Context, id, farmID uuid.UUID) ([]*domain.RabbitRemoval, error) {
	if err := requireScope("Hutch", id, farmID); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetByID(ctx, id, farmID); err != nil {
		return nil, err
	}
	return s.repo.ListRemovals(ctx, id, farmID)
}

func trimHutchInput(input ports.HutchInput) ports.HutchInput {
	input.Name = strings.TrimSpace(input.Name)
	input.RowName = strings.TrimSpace(input.RowName)
	input.Level = strings.TrimSpace(input.Level)
	input.Size = strings.TrimSpace(input.Size)
	input.Material = strings.TrimSpace(input.Material)
	return input
}

func applyHutchInput(hutch *domain.Hutch, input ports.HutchInput) {
	hutch.Name = input.Name
	hutch.RowName = input.RowName
	hutch.Level = input.Level
	hutch.Size = input.Size
	hutch.Material = input.Material
}
