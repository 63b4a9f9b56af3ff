package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/rabbitfarm/internal/core/domain"
	"github.com/vncsmyrnk/rabbitfarm/internal/core/ports"
)

const (
	breedingColumns = `id, farm_id, doe_id, buck_id, mating_date, expected_birth_date, actual_birth_date, number_of_kits, notes, created_at, updated_at`
	kitColumns      = `id, breeding_record_id, farm_id, kit_number, birth_weight, gender, color, status, weaning_date, weaning_weight, notes, created_at, updated_at`
)

var (
	breedingScope = scope{
		table:    "breeding_records",
		columns:  breedingColumns,
		parents:  []string{"farm_id"},
		notFound: domain.ErrBreedingNotFound,
	}
	kitScope = scope{
		table:    "kit_records",
		columns:  kitColumns,
		parents:  []string{"breeding_record_id", "farm_id"},
		notFound: domain.ErrKitNotFound,
	}
)

type breedingRepository struct {
	db *sql.DB
}

func NewBreedingRepository(db *sql.DB) ports.BreedingRepository {
	return &breedingRepository{
		db: db,
	}
}

func (r *breedingRepository) Create(ctx context.Context, record *domain.BreedingRecord) error {
	query := `
		INSERT INTO breeding_records (id, farm_id, doe_id, buck_id, mating_date, expected_birth_date, actual_birth_date, number_of_kits, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		record.ID, record.FarmID, record.DoeID, record.BuckID, record.MatingDate,
		record.ExpectedBirthDate, record.ActualBirthDate, record.NumberOfKits, record.Notes,
	).Scan(&record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert breeding record: %w", err)
	}
	return nil
}

func (r *breedingRepository) GetByID(ctx context.Context, id, farmID uuid.UUID) (*domain.BreedingRecord, error) {
	query := `SELECT ` + breedingColumns + ` FROM breeding_records WHERE id = $1 AND farm_id = $2 AND is_deleted = 0`

	record := &domain.BreedingRecord{}
	if err := scanBreeding(r.db.QueryRowContext(ctx, query, id, farmID), record); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBreedingNotFound
		}
		return nil, fmt.Errorf("failed to get breeding record: %w", err)
	}
	return record, nil
}

func (r *breedingRepository) List(ctx context.Context, farmID uuid.UUID, page ports.Pagination) ([]*domain.BreedingRecord, error) {
	query := `
		SELECT ` + breedingColumns + `
		FROM breeding_records
		WHERE farm_id = $1 AND is_deleted = 0
		ORDER BY mating_date DESC
		LIMIT $2 OFFSET $3
	`
	return r.queryRecords(ctx, query, farmID, page.Limit, page.Offset)
}

func (r *breedingRepository) Update(ctx context.Context, record *domain.BreedingRecord) error {
	query := `
		UPDATE breeding_records
		SET doe_id = $1, buck_id = $2, mating_date = $3, expected_birth_date = $4,
			actual_birth_date = $5, number_of_kits = $6, notes = $7, updated_at = NOW()
		WHERE id = $8 AND farm_id = $9 AND is_deleted = 0
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		record.DoeID, record.BuckID, record.MatingDate, record.ExpectedBirthDate,
		record.ActualBirthDate, record.NumberOfKits, record.Notes, record.ID, record.FarmID,
	).Scan(&record.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrBreedingNotFound
		}
		return fmt.Errorf("failed to update breeding record: %w", err)
	}
	return nil
}

func (r *breedingRepository) Delete(ctx context.Context, id, farmID uuid.UUID) (*domain.BreedingRecord, error) {
	record := &domain.BreedingRecord{}
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		return softDelete(ctx, tx, breedingScope, func(row rowScanner) error {
			return scanBreeding(row, record)
		}, id, farmID)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *breedingRepository) AddKits(ctx context.Context, recordID, farmID uuid.UUID, kits []*domain.KitRecord) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		var locked uuid.UUID
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM breeding_records WHERE id = $1 AND farm_id = $2 AND is_deleted = 0 FOR UPDATE`,
			recordID, farmID).Scan(&locked)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrBreedingNotFound
			}
			return fmt.Errorf("failed to lock breeding record: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO kit_records (id, breeding_record_id, farm_id, kit_number, birth_weight, gender, color, status, weaning_date, weaning_weight, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING created_at, updated_at
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare kit statement: %w", err)
		}
		defer stmt.Close()

		for _, kit := range kits {
			err := stmt.QueryRowContext(ctx,
				kit.ID, recordID, farmID, kit.KitNumber, kit.BirthWeight, kit.Gender,
				kit.Color, kit.Status, kit.WeaningDate, kit.WeaningWeight, kit.Notes,
			).Scan(&kit.CreatedAt, &kit.UpdatedAt)
			if err != nil {
				return fmt.Errorf("failed to insert kit: %w", err)
			}
		}

		return refreshKitCount(ctx, tx, recordID)
	})
}

func (r *breedingRepository) ListKits(ctx context.Context, recordID, farmID uuid.UUID) ([]*domain.KitRecord, error) {
	query := `
		SELECT ` + kitColumns + `
		FROM kit_records
		WHERE breeding_record_id = $1 AND farm_id = $2 AND is_deleted = 0
		ORDER BY kit_number
	`
	rows, err := r.db.QueryContext(ctx, query, recordID, farmID)
	if err != nil {
		return nil, fmt.Errorf("failed to list kits: %w", err)
	}
	defer rows.Close()

	kits := []*domain.KitRecord{}
	for rows.Next() {
		kit := &domain.KitRecord{}
		if err := scanKit(rows, kit); err != nil {
			return nil, fmt.Errorf("failed to scan kit: %w", err)
		}
		kits = append(kits, kit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating kits: %w", err)
	}
	return kits, nil
}

func (r *breedingRepository) GetKit(ctx context.Context, kitID, recordID, farmID uuid.UUID) (*domain.KitRecord, error) {
	query := `
		SELECT ` + kitColumns + `
		FROM kit_records
		WHERE id = $1 AND breeding_record_id = $2 AND farm_id = $3 AND is_deleted = 0
	`
	kit := &domain.KitRecord{}
	if err := scanKit(r.db.QueryRowContext(ctx, query, kitID, recordID, farmID), kit); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrKitNotFound
		}
		return nil, fmt.Errorf("failed to get kit: %w", err)
	}
	return kit, nil
}

func (r *breedingRepository) UpdateKit(ctx context.Context, kit *domain.KitRecord) error {
	query := `
		UPDATE kit_records
		SET kit_number = $1, birth_weight = $2, gender = $3, color = $4, status = $5,
			weaning_date = $6, weaning_weight = $7, notes = $8, updated_at = NOW()
		WHERE id = $9 AND breeding_record_id = $10 AND farm_id = $11 AND is_deleted = 0
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		kit.KitNumber, kit.BirthWeight, kit.Gender, kit.Color, kit.Status,
		kit.WeaningDate, kit.WeaningWeight, kit.Notes, kit.ID, kit.BreedingRecordID, kit.FarmID,
	).Scan(&kit.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrKitNotFound
		}
		return fmt.Errorf("failed to update kit: %w", err)
	}
	return nil
}

func (r *breedingRepository) DeleteKit(ctx context.Context, kitID, recordID, farmID uuid.UUID) (*domain.KitRecord, error) {
	kit := &domain.KitRecord{}
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		err := softDelete(ctx, tx, kitScope, func(row rowScanner) error {
			return scanKit(row, kit)
		}, kitID, recordID, farmID)
		if err != nil {
			return err
		}
		return refreshKitCount(ctx, tx, recordID)
	})
	if err != nil {
		return nil, err
	}
	return kit, nil
}

func (r *breedingRepository) ListPendingBirths(ctx context.Context, farmID uuid.UUID) ([]*domain.BreedingRecord, error) {
	query := `
		SELECT ` + breedingColumns + `
		FROM breeding_records
		WHERE farm_id = $1 AND is_deleted = 0 AND actual_birth_date IS NULL
		ORDER BY expected_birth_date
	`
	return r.queryRecords(ctx, query, farmID)
}

// ListUnweanedLitters returns litters born on or before bornBefore that still
// have live kits without a weaning date.
func (r *breedingRepository) ListUnweanedLitters(ctx context.Context, farmID uuid.UUID, bornBefore time.Time) ([]*domain.BreedingRecord, error) {
	query := `
		SELECT ` + breedingColumns + `
		FROM breeding_records b
		WHERE b.farm_id = $1 AND b.is_deleted = 0 AND b.actual_birth_date <= $2
			AND EXISTS (
				SELECT 1 FROM kit_records k
				WHERE k.breeding_record_id = b.id AND k.is_deleted = 0
					AND k.status = 'alive' AND k.weaning_date IS NULL
			)
		ORDER BY b.actual_birth_date
	`
	return r.queryRecords(ctx, query, farmID, bornBefore)
}

func (r *breedingRepository) queryRecords(ctx context.Context, query string, args ...any) ([]*domain.BreedingRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list breeding records: %w", err)
	}
	defer rows.Close()

	records := []*domain.BreedingRecord{}
	for rows.Next() {
		record := &domain.BreedingRecord{}
		if err := scanBreeding(rows, record); err != nil {
			return nil, fmt.Errorf("failed to scan breeding record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating breeding records: %w", err)
	}
	return records, nil
}

func refreshKitCount(ctx context.Context, tx *sql.Tx, recordID uuid.UUID) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE breeding_records
		SET number_of_kits = (
			SELECT COUNT(*) FROM kit_records WHERE breeding_record_id = $1 AND is_deleted = 0
		), updated_at = NOW()
		WHERE id = $1
	`, recordID)
	if err != nil {
		return fmt.Errorf("failed to refresh kit count: %w", err)
	}
	return nil
}

func scanBreeding(row rowScanner, record *domain.BreedingRecord) error {
	return row.Scan(
		&record.ID,
		&record.FarmID,
		&record.DoeID,
		&record.BuckID,
		&record.MatingDate,
		&record.ExpectedBirthDate,
		&record.ActualBirthDate,
		&record.NumberOfKits,
		&record.Notes,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
}

func scanKit(row rowScanner, kit *domain.KitRecord) error {
	return row.Scan(
		&kit.ID,
		&kit.BreedingRecordID,
		&kit.FarmID,
		&kit.KitNumber,
		&kit.BirthWeight,
		&kit.Gender,
		&kit.Color,
		&kit.Status,
		&kit.WeaningDate,
		&kit.WeaningWeight,
		&kit.Notes,
		&kit.CreatedAt,
		&kit.UpdatedAt,
	)
}
