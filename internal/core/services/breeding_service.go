package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/rabbitfarm/internal/core/domain"
	"github.com/vncsmyrnk/rabbitfarm/internal/core/ports"
)

type breedingService struct {
	repo       ports.BreedingRepository
	rabbitRepo ports.RabbitRepository
}

func NewBreedingService(repo ports.BreedingRepository, rabbitRepo ports.RabbitRepository) ports.BreedingService {
	return &breedingService{
		repo:       repo,
		rabbitRepo: rabbitRepo,
	}
}

func (s *breedingService) Create(ctx context.Context, farmID uuid.UUID, input ports.BreedingInput, userID uuid.UUID) (*domain.BreedingRecord, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := requireFarm(farmID); err != nil {
		return nil, err
	}

	record := &domain.BreedingRecord{
		ID:     uuid.New(),
		FarmID: farmID,
	}
	if err := s.apply(ctx, record, input); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *breedingService) GetByID(ctx context.Context, id, farmID uuid.UUID) (*domain.BreedingRecord, error) {
	if err := requireScope("Breeding record", id, farmID); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id, farmID)
}

func (s *breedingService) GetAll(ctx context.Context, farmID uuid.UUID, page ports.Page) ([]*domain.BreedingRecord, error) {
	if err := requireFarm(farmID); err != nil {
		return nil, err
	}
	p, err := parsePage(page)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, farmID, p)
}

func (s *breedingService) Update(ctx context.Context, id, farmID uuid.UUID, input ports.BreedingInput, userID uuid.UUID) (*domain.BreedingRecord, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := requireScope("Breeding record", id, farmID); err != nil {
		return nil, err
	}

	record, err := s.repo.GetByID(ctx, id, farmID)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, record, input); err != nil {
		return nil, err
	}

	// number_of_kits follows the kit rows once any exist.
	kits, err := s.repo.ListKits(ctx, id, farmID)
	if err != nil {
		return nil, err
	}
	if len(kits) > 0 {
		record.NumberOfKits = len(kits)
	}

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *breedingService) Delete(ctx context.Context, id, farmID, userID uuid.UUID) (*domain.BreedingRecord, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := requireScope("Breeding record", id, farmID); err != nil {
		return nil, err
	}
	return s.repo.Delete(ctx, id, farmID)
}

func (s *breedingService) AddKits(ctx context.Context, recordID, farmID uuid.UUID, input ports.AddKitsInput, userID uuid.UUID) ([]*domain.KitRecord, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := requireScope("Breeding record", recordID, farmID); err != nil {
		return nil, err
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByID(ctx, recordID, farmID); err != nil {
		return nil, err
	}

	kits := make([]*domain.KitRecord, 0, len(input.Kits))
	for _, in := range input.Kits {
		kit := &domain.KitRecord{
			ID:               uuid.New(),
			BreedingRecordID: recordID,
			FarmID:           farmID,
		}
		if err := applyKitInput(kit, in); err != nil {
			return nil, err
		}
		kits = append(kits, kit)
	}

	if err := s.repo.AddKits(ctx, recordID, farmID, kits); err != nil {
		return nil, err
	}
	return kits, nil
}

func (s *breedingService) GetKits(ctx context.Context, recordID, farmID uuid.UUID) ([]*domain.KitRecord, error) {
	if err := requireScope("Breeding record", recordID, farmID); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetByID(ctx, recordID, farmID); err != nil {
		return nil, err
	}
	return s.repo.ListKits(ctx, recordID, farmID)
}

func (s *breedingService) UpdateKit(ctx context.Context, kitID, recordID, farmID uuid.UUID, input ports.KitInput, userID uuid.UUID) (*domain.KitRecord, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := requireKitScope(kitID, recordID, farmID); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetByID(ctx, recordID, farmID); err != nil {
		return nil, err
	}

	kit, err := s.repo.GetKit(ctx, kitID, recordID, farmID)
	if err != nil {
		return nil, err
	}
	if err := applyKitInput(kit, input); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateKit(ctx, kit); err != nil {
		return nil, err
	}
	return kit, nil
}

func (s *breedingService) DeleteKit(ctx context.Context, kitID, recordID, farmID, userID uuid.UUID) (*domain.KitRecord, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := requireKitScope(kitID, recordID, farmID); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetByID(ctx, recordID, farmID); err != nil {
		return nil, err
	}
	return s.repo.DeleteKit(ctx, kitID, recordID, farmID)
}

func (s *breedingService) apply(ctx context.Context, record *domain.BreedingRecord, input ports.BreedingInput) error {
	input.Notes = strings.TrimSpace(input.Notes)
	if err := validateInput(input); err != nil {
		return err
	}

	mating, err := parseDate("mating_date", input.MatingDate)
	if err != nil {
		return err
	}
	expected, err := parseDate("expected_birth_date", input.ExpectedBirthDate)
	if err != nil {
		return err
	}
	actual, err := parseDate("actual_birth_date", input.ActualBirthDate)
	if err != nil {
		return err
	}
	if expected == nil {
		due := mating.AddDate(0, 0, domain.GestationDays)
		expected = &due
	}
	if expected.Before(*mating) {
		return domain.Validation("expected_birth_date must not be before mating_date")
	}
	if actual != nil && actual.Before(*mating) {
		return domain.Validation("actual_birth_date must not be before mating_date")
	}

	if err := s.checkPair(ctx, record.FarmID, input.DoeID, input.BuckID); err != nil {
		return err
	}

	record.DoeID = input.DoeID
	record.BuckID = input.BuckID
	record.MatingDate = *mating
	record.ExpectedBirthDate = *expected
	record.ActualBirthDate = actual
	record.NumberOfKits = input.NumberOfKits
	record.Notes = input.Notes
	return nil
}

// checkPair requires an active female doe and an active male buck from the same farm.
func (s *breedingService) checkPair(ctx context.Context, farmID, doeID, buckID uuid.UUID) error {
	doe, err := s.activeRabbit(ctx, doeID, farmID)
	if err != nil {
		return err
	}
	buck, err := s.activeRabbit(ctx, buckID, farmID)
	if err != nil {
		return err
	}
	if doe == nil || buck == nil || doe.Gender != domain.GenderFemale || buck.Gender != domain.GenderMale {
		return domain.ErrInvalidBreedingPair
	}
	return nil
}

func (s *breedingService) activeRabbit(ctx context.Context, id, farmID uuid.UUID) (*domain.Rabbit, error) {
	rabbit, err := s.rabbitRepo.GetByID(ctx, id, farmID)
	if errors.Is(err, domain.ErrRabbitNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if rabbit.Status != domain.RabbitStatusActive {
		return nil, nil
	}
	return rabbit, nil
}

func requireKitScope(kitID, recordID, farmID uuid.UUID) error {
	if kitID == uuid.Nil || recordID == uuid.Nil || farmID == uuid.Nil {
		return domain.Validation("Kit ID, Breeding record ID and Farm ID are required")
	}
	return nil
}

func applyKitInput(kit *domain.KitRecord, input ports.KitInput) error {
	input.KitNumber = strings.TrimSpace(input.KitNumber)
	input.Gender = strings.ToLower(strings.TrimSpace(input.Gender))
	input.Status = strings.ToLower(strings.TrimSpace(input.Status))
	input.Color = strings.TrimSpace(input.Color)
	input.Notes = strings.TrimSpace(input.Notes)
	if err := validateInput(input); err != nil {
		return err
	}

	weaningDate, err := parseDate("weaning_date", input.WeaningDate)
	if err != nil {
		return err
	}
	if input.Status == "" {
		input.Status = domain.KitStatusAlive
	}

	kit.KitNumber = input.KitNumber
	kit.BirthWeight = input.BirthWeight
	kit.Gender = input.Gender
	kit.Color = input.Color
	kit.Status = input.Status
	kit.WeaningDate = weaningDate
	kit.WeaningWeight = input.WeaningWeight
	kit.Notes = input.Notes
	return nil
}
