package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/rabbitfarm/internal/core/domain"
	"github.com/vncsmyrnk/rabbitfarm/internal/core/ports"
)

const (
	upcomingBirthWindowDays = 7
	weaningAgeDays          = 42
)

type alertService struct {
	breedingRepo ports.BreedingRepository
	now          func() time.Time
}

func NewAlertService(breedingRepo ports.BreedingRepository) ports.AlertService {
	return &alertService{
		breedingRepo: breedingRepo,
		now:          time.Now,
	}
}

// GetAll derives alerts from breeding records on every call, ordered by due date.
func (s *alertService) GetAll(ctx context.Context, farmID uuid.UUID) ([]domain.Alert, error) {
	if err := requireFarm(farmID); err != nil {
		return nil, err
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	windowEnd := today.AddDate(0, 0, upcomingBirthWindowDays)

	pending, err := s.breedingRepo.ListPendingBirths(ctx, farmID)
	if err != nil {
		return nil, err
	}

	alerts := []domain.Alert{}
	for _, r := range pending {
		expected := r.ExpectedBirthDate
		switch {
		case expected.Before(today):
			alerts = append(alerts, domain.Alert{
				Type:             domain.AlertOverdueBirth,
				Message:          fmt.Sprintf("Birth overdue since %s", expected.Format(dateLayout)),
				BreedingRecordID: r.ID,
				DoeID:            r.DoeID,
				DueDate:          expected,
			})
		case !expected.After(windowEnd):
			alerts = append(alerts, domain.Alert{
				Type:             domain.AlertUpcomingBirth,
				Message:          fmt.Sprintf("Birth expected on %s", expected.Format(dateLayout)),
				BreedingRecordID: r.ID,
				DoeID:            r.DoeID,
				DueDate:          expected,
			})
		}
	}

	litters, err := s.breedingRepo.ListUnweanedLitters(ctx, farmID, today.AddDate(0, 0, -weaningAgeDays))
	if err != nil {
		return nil, err
	}
	for _, r := range litters {
		if r.ActualBirthDate == nil {
			continue
		}
		due := r.ActualBirthDate.AddDate(0, 0, weaningAgeDays)
		alerts = append(alerts, domain.Alert{
			Type:             domain.AlertWeaningDue,
			Message:          fmt.Sprintf("Litter due for weaning since %s", due.Format(dateLayout)),
			BreedingRecordID: r.ID,
			DoeID:            r.DoeID,
			DueDate:          due,
		})
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].DueDate.Before(alerts[j].DueDate)
	})
	return alerts, nil
}
