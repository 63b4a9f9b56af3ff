package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/rabbitfarm/internal/core/domain"
	"github.com/vncsmyrnk/rabbitfarm/internal/core/ports"
)

const defaultRemovalReason = "other"

type rabbitService struct {
	repo ports.RabbitRepository
	now  func() time.Time
}

func NewRabbitService(repo ports.RabbitRepository) ports.RabbitService {
	return &rabbitService{
		repo: repo,
		now:  time.Now,
	}
}

func (s *rabbitService) Create(ctx context.Context, farmID uuid.UUID, input ports.RabbitInput, userID uuid.UUID) (*domain.Rabbit, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := requireFarm(farmID); err != nil {
		return nil, err
	}

	rabbit := &domain.Rabbit{
		ID:     uuid.New(),
		FarmID: farmID,
		Status: domain.RabbitStatusActive,
	}
	if err := applyRabbitInput(rabbit, input); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, rabbit); err != nil {
		return nil, err
	}
	return rabbit, nil
}

func (s *rabbitService) GetByID(ctx context.Context, id, farmID uuid.UUID) (*domain.Rabbit, error) {
	if err := requireScope("Rabbit", id, farmID); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id, farmID)
}

func (s *rabbitService) GetAll(ctx context.Context, farmID uuid.UUID, filter ports.RabbitFilter) ([]*domain.Rabbit, error) {
	if err := requireFarm(farmID); err != nil {
		return nil, err
	}
	page, err := parsePage(filter.Page)
	if err != nil {
		return nil, err
	}

	query := ports.RabbitQuery{Pagination: page}
	if filter.HutchID != "" {
		hutchID, err := uuid.Parse(filter.HutchID)
		if err != nil {
			return nil, domain.Validation("hutch_id must be a valid UUID")
		}
		query.HutchID = &hutchID
	}
	if filter.Gender != "" {
		gender := strings.ToLower(filter.Gender)
		if gender != domain.GenderMale && gender != domain.GenderFemale {
			return nil, domain.Validation("gender must be one of: male, female")
		}
		query.Gender = gender
	}

	return s.repo.List(ctx, farmID, query)
}

func (s *rabbitService) Update(ctx context.Context, id, farmID uuid.UUID, input ports.RabbitInput, userID uuid.UUID) (*domain.Rabbit, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := requireScope("Rabbit", id, farmID); err != nil {
		return nil, err
	}

	rabbit, err := s.repo.GetByID(ctx, id, farmID)
	if err != nil {
		return nil, err
	}
	previousHutch := rabbit.HutchID

	if err := applyRabbitInput(rabbit, input); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, rabbit, previousHutch); err != nil {
		return nil, err
	}
	return rabbit, nil
}

// Delete soft-deletes the rabbit and records why it left. The returned rabbit
// is the row as it was before removal.
func (s *rabbitService) Delete(ctx context.Context, id, farmID uuid.UUID, input ports.RemovalInput, userID uuid.UUID) (*domain.Rabbit, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := requireScope("Rabbit", id, farmID); err != nil {
		return nil, err
	}
	input.Reason = strings.ToLower(strings.TrimSpace(input.Reason))
	input.Notes = strings.TrimSpace(input.Notes)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if input.Reason == "" {
		input.Reason = defaultRemovalReason
	}

	removal := &domain.RabbitRemoval{
		ID:        uuid.New(),
		RabbitID:  id,
		FarmID:    farmID,
		Reason:    input.Reason,
		Notes:     input.Notes,
		RemovedBy: userID,
		RemovedAt: s.now(),
	}
	return s.repo.Remove(ctx, removal)
}

func applyRabbitInput(rabbit *domain.Rabbit, input ports.RabbitInput) error {
	input.Tag = strings.TrimSpace(input.Tag)
	input.Name = strings.TrimSpace(input.Name)
	input.Gender = strings.ToLower(strings.TrimSpace(input.Gender))
	input.Breed = strings.TrimSpace(input.Breed)
	input.Color = strings.TrimSpace(input.Color)
	if err := validateInput(input); err != nil {
		return err
	}

	birthDate, err := parseDate("birth_date", input.BirthDate)
	if err != nil {
		return err
	}

	rabbit.Tag = input.Tag
	rabbit.Name = input.Name
	rabbit.Gender = input.Gender
	rabbit.Breed = input.Breed
	rabbit.Color = input.Color
	rabbit.HutchID = input.HutchID
	if rabbit.HutchID != nil && *rabbit.HutchID == uuid.Nil {
		rabbit.HutchID = nil
	}
	rabbit.BirthDate = birthDate
	rabbit.Weight = input.Weight
	return nil
}
