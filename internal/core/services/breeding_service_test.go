package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/rabbitfarm/internal/core/domain"
	"github.com/vncsmyrnk/rabbitfarm/internal/core/ports"
)

type breedingFixture struct {
	svc     ports.BreedingService
	repo    *fakeBreedingRepo
	rabbits *fakeRabbitRepo
	farmID  uuid.UUID
	doe     *domain.Rabbit
	buck    *domain.Rabbit
}

func newBreedingFixture() *breedingFixture {
	repo := newFakeBreedingRepo()
	rabbits := newFakeRabbitRepo()
	farmID := uuid.New()

	return &breedingFixture{
		svc:     NewBreedingService(repo, rabbits),
		repo:    repo,
		rabbits: rabbits,
		farmID:  farmID,
		doe:     rabbits.add(farmID, domain.GenderFemale, domain.RabbitStatusActive),
		buck:    rabbits.add(farmID, domain.GenderMale, domain.RabbitStatusActive),
	}
}

func TestBreedingService_CreateDefaultsExpectedBirth(t *testing.T) {
	f := newBreedingFixture()

	record, err := f.svc.Create(context.Background(), f.farmID, ports.BreedingInput{
		DoeID:      f.doe.ID,
		BuckID:     f.buck.ID,
		MatingDate: "2024-05-01",
	}, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), record.ExpectedBirthDate)
	assert.Nil(t, record.ActualBirthDate)
}

func TestBreedingService_RejectsInvalidPairs(t *testing.T) {
	f := newBreedingFixture()
	otherDoe := f.rabbits.add(f.farmID, domain.GenderFemale, domain.RabbitStatusActive)
	removedBuck := f.rabbits.add(f.farmID, domain.GenderMale, domain.RabbitStatusRemoved)
	foreignBuck := f.rabbits.add(uuid.New(), domain.GenderMale, domain.RabbitStatusActive)

	tests := []struct {
		name   string
		doeID  uuid.UUID
		buckID uuid.UUID
	}{
		{name: "two does", doeID: f.doe.ID, buckID: otherDoe.ID},
		{name: "swapped", doeID: f.buck.ID, buckID: f.doe.ID},
		{name: "removed buck", doeID: f.doe.ID, buckID: removedBuck.ID},
		{name: "buck from another farm", doeID: f.doe.ID, buckID: foreignBuck.ID},
		{name: "unknown doe", doeID: uuid.New(), buckID: f.buck.ID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(context.Background(), f.farmID, ports.BreedingInput{
				DoeID:      tt.doeID,
				BuckID:     tt.buckID,
				MatingDate: "2024-05-01",
			}, uuid.New())
			assert.ErrorIs(t, err, domain.ErrInvalidBreedingPair)
		})
	}
}

func TestBreedingService_DateOrder(t *testing.T) {
	f := newBreedingFixture()

	_, err := f.svc.Create(context.Background(), f.farmID, ports.BreedingInput{
		DoeID:             f.doe.ID,
		BuckID:            f.buck.ID,
		MatingDate:        "2024-05-01",
		ExpectedBirthDate: "2024-04-01",
	}, uuid.New())
	require.Error(t, err)
	assert.Equal(t, "expected_birth_date must not be before mating_date", err.Error())
}

func TestBreedingService_Kits(t *testing.T) {
	f := newBreedingFixture()
	ctx := context.Background()
	user := uuid.New()

	record, err := f.svc.Create(ctx, f.farmID, ports.BreedingInput{
		DoeID:           f.doe.ID,
		BuckID:          f.buck.ID,
		MatingDate:      "2024-05-01",
		ActualBirthDate: "2024-06-01",
	}, user)
	require.NoError(t, err)

	_, err = f.svc.AddKits(ctx, record.ID, f.farmID, ports.AddKitsInput{}, user)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	kits, err := f.svc.AddKits(ctx, record.ID, f.farmID, ports.AddKitsInput{Kits: []ports.KitInput{
		{KitNumber: "K1"},
		{KitNumber: "K2", Gender: "female"},
	}}, user)
	require.NoError(t, err)
	require.Len(t, kits, 2)
	assert.Equal(t, domain.KitStatusAlive, kits[0].Status)
	assert.Equal(t, 2, f.repo.records[record.ID].NumberOfKits)

	listed, err := f.svc.GetKits(ctx, record.ID, f.farmID)
	require.NoError(t, err)
	assert.Len(t, listed, 2)

	updated, err := f.svc.UpdateKit(ctx, kits[0].ID, record.ID, f.farmID, ports.KitInput{
		KitNumber:   "K1",
		Status:      "weaned",
		WeaningDate: "2024-07-13",
	}, user)
	require.NoError(t, err)
	assert.Equal(t, domain.KitStatusWeaned, updated.Status)
	require.NotNil(t, updated.WeaningDate)

	_, err = f.svc.DeleteKit(ctx, kits[1].ID, record.ID, f.farmID, user)
	require.NoError(t, err)
	_, err = f.svc.DeleteKit(ctx, kits[1].ID, record.ID, f.farmID, user)
	assert.ErrorIs(t, err, domain.ErrKitNotFound)

	_, err = f.svc.GetKits(ctx, uuid.New(), f.farmID)
	assert.ErrorIs(t, err, domain.ErrBreedingNotFound)
}

func TestBreedingService_KitsOfDeletedRecordAreNotFound(t *testing.T) {
	f := newBreedingFixture()
	ctx := context.Background()
	user := uuid.New()

	record, err := f.svc.Create(ctx, f.farmID, ports.BreedingInput{
		DoeID:           f.doe.ID,
		BuckID:          f.buck.ID,
		MatingDate:      "2024-05-01",
		ActualBirthDate: "2024-06-01",
	}, user)
	require.NoError(t, err)
	kits, err := f.svc.AddKits(ctx, record.ID, f.farmID, ports.AddKitsInput{Kits: []ports.KitInput{{KitNumber: "K1"}}}, user)
	require.NoError(t, err)

	_, err = f.svc.Delete(ctx, record.ID, f.farmID, user)
	require.NoError(t, err)

	_, err = f.svc.UpdateKit(ctx, kits[0].ID, record.ID, f.farmID, ports.KitInput{KitNumber: "K1", Status: "weaned"}, user)
	assert.ErrorIs(t, err, domain.ErrBreedingNotFound)
	_, err = f.svc.DeleteKit(ctx, kits[0].ID, record.ID, f.farmID, user)
	assert.ErrorIs(t, err, domain.ErrBreedingNotFound)
	assert.Equal(t, domain.KitStatusAlive, f.repo.kits[kits[0].ID].Status)
}

func TestBreedingService_UpdateKeepsKitCount(t *testing.T) {
	f := newBreedingFixture()
	ctx := context.Background()
	user := uuid.New()
	input := ports.BreedingInput{
		DoeID:           f.doe.ID,
		BuckID:          f.buck.ID,
		MatingDate:      "2024-05-01",
		ActualBirthDate: "2024-06-01",
	}

	record, err := f.svc.Create(ctx, f.farmID, input, user)
	require.NoError(t, err)

	input.NumberOfKits = 4
	updated, err := f.svc.Update(ctx, record.ID, f.farmID, input, user)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.NumberOfKits, "no kit rows yet")

	_, err = f.svc.AddKits(ctx, record.ID, f.farmID, ports.AddKitsInput{Kits: []ports.KitInput{
		{KitNumber: "K1"},
		{KitNumber: "K2"},
	}}, user)
	require.NoError(t, err)

	input.NumberOfKits = 0
	updated, err = f.svc.Update(ctx, record.ID, f.farmID, input, user)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.NumberOfKits)
	assert.Equal(t, 2, f.repo.records[record.ID].NumberOfKits)
}
