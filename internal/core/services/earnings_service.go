package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/rabbitfarm/internal/core/domain"
	"github.com/vncsmyrnk/rabbitfarm/internal/core/ports"
)

var earningTypes = map[string]bool{
	domain.EarningRabbitSale: true,
	domain.EarningManureSale: true,
	domain.EarningUrineSale:  true,
	domain.EarningOther:      true,
}

type earningsService struct {
	repo       ports.EarningsRepository
	rabbitRepo ports.RabbitRepository
}

func NewEarningsService(repo ports.EarningsRepository, rabbitRepo ports.RabbitRepository) ports.EarningsService {
	return &earningsService{
		repo:       repo,
		rabbitRepo: rabbitRepo,
	}
}

func (s *earningsService) Create(ctx context.Context, farmID uuid.UUID, input ports.EarningsInput, userID uuid.UUID) (*domain.EarningsRecord, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := requireFarm(farmID); err != nil {
		return nil, err
	}

	record := &domain.EarningsRecord{
		ID:     uuid.New(),
		FarmID: farmID,
	}
	if err := applyEarningsInput(record, input); err != nil {
		return nil, err
	}
	if err := s.checkRabbit(ctx, farmID, record.RabbitID); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *earningsService) GetByID(ctx context.Context, id, farmID uuid.UUID) (*domain.EarningsRecord, error) {
	if err := requireScope("Earnings record", id, farmID); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id, farmID)
}

func (s *earningsService) GetAll(ctx context.Context, farmID uuid.UUID, filter ports.EarningsFilter) ([]*domain.EarningsRecord, error) {
	if err := requireFarm(farmID); err != nil {
		return nil, err
	}
	page, err := parsePage(filter.Page)
	if err != nil {
		return nil, err
	}

	query := ports.EarningsQuery{Pagination: page}
	if filter.Type != "" {
		typ := strings.ToLower(filter.Type)
		if !earningTypes[typ] {
			return nil, domain.Validation("type must be one of: rabbit_sale, manure_sale, urine_sale, other")
		}
		query.Type = typ
	}
	if query.DateFrom, err = parseDate("date_from", filter.DateFrom); err != nil {
		return nil, err
	}
	if query.DateTo, err = parseDate("date_to", filter.DateTo); err != nil {
		return nil, err
	}
	if query.DateFrom != nil && query.DateTo != nil && query.DateFrom.After(*query.DateTo) {
		return nil, domain.Validation("date_from must not be after date_to")
	}

	return s.repo.List(ctx, farmID, query)
}

func (s *earningsService) Update(ctx context.Context, id, farmID uuid.UUID, input ports.EarningsInput, userID uuid.UUID) (*domain.EarningsRecord, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := requireScope("Earnings record", id, farmID); err != nil {
		return nil, err
	}

	record, err := s.repo.GetByID(ctx, id, farmID)
	if err != nil {
		return nil, err
	}
	previous := record.RabbitID
	if err := applyEarningsInput(record, input); err != nil {
		return nil, err
	}
	// An unchanged reference stays valid after the rabbit is removed.
	if !sameRabbit(previous, record.RabbitID) {
		if err := s.checkRabbit(ctx, farmID, record.RabbitID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *earningsService) Delete(ctx context.Context, id, farmID, userID uuid.UUID) (*domain.EarningsRecord, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := requireScope("Earnings record", id, farmID); err != nil {
		return nil, err
	}
	return s.repo.Delete(ctx, id, farmID)
}

// checkRabbit requires rabbitID, when set, to name a live rabbit of farmID.
func (s *earningsService) checkRabbit(ctx context.Context, farmID uuid.UUID, rabbitID *uuid.UUID) error {
	if rabbitID == nil {
		return nil
	}
	_, err := s.rabbitRepo.GetByID(ctx, *rabbitID, farmID)
	if errors.Is(err, domain.ErrRabbitNotFound) {
		return domain.ErrUnknownRabbit
	}
	return err
}

func sameRabbit(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func applyEarningsInput(record *domain.EarningsRecord, input ports.EarningsInput) error {
	input.Type = strings.ToLower(strings.TrimSpace(input.Type))
	input.BuyerName = strings.TrimSpace(input.BuyerName)
	input.Notes = strings.TrimSpace(input.Notes)
	if err := validateInput(input); err != nil {
		return err
	}

	date, err := parseDate("date", input.Date)
	if err != nil {
		return err
	}

	record.Type = input.Type
	record.RabbitID = input.RabbitID
	if record.RabbitID != nil && *record.RabbitID == uuid.Nil {
		record.RabbitID = nil
	}
	record.Amount = input.Amount
	record.Date = *date
	record.BuyerName = input.BuyerName
	record.Notes = input.Notes
	return nil
}
