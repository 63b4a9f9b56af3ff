package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/rabbitfarm/internal/core/domain"
	"github.com/vncsmyrnk/rabbitfarm/internal/core/ports"
)

const rabbitColumns = `id, farm_id, hutch_id, tag, name, gender, breed, color, birth_date, weight, status, created_at, updated_at`

var rabbitScope = scope{
	table:    "rabbits",
	columns:  rabbitColumns,
	parents:  []string{"farm_id"},
	set:      "status = '" + domain.RabbitStatusRemoved + "'",
	notFound: domain.ErrRabbitNotFound,
}

type rabbitRepository struct {
	db *sql.DB
}

func NewRabbitRepository(db *sql.DB) ports.RabbitRepository {
	return &rabbitRepository{
		db: db,
	}
}

func (r *rabbitRepository) Create(ctx context.Context, rabbit *domain.Rabbit) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if rabbit.HutchID != nil {
			if err := claimHutch(ctx, tx, *rabbit.HutchID, rabbit.FarmID); err != nil {
				return err
			}
		}

		query := `
			INSERT INTO rabbits (id, farm_id, hutch_id, tag, name, gender, breed, color, birth_date, weight, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING created_at, updated_at
		`
		err := tx.QueryRowContext(ctx, query,
			rabbit.ID, rabbit.FarmID, rabbit.HutchID, rabbit.Tag, rabbit.Name, rabbit.Gender,
			rabbit.Breed, rabbit.Color, rabbit.BirthDate, rabbit.Weight, rabbit.Status,
		).Scan(&rabbit.CreatedAt, &rabbit.UpdatedAt)
		if err != nil {
			if isUniqueViolation(err, "rabbits_farm_tag_key") {
				return domain.ErrDuplicateRabbitTag
			}
			return fmt.Errorf("failed to insert rabbit: %w", err)
		}
		return nil
	})
}

func (r *rabbitRepository) GetByID(ctx context.Context, id, farmID uuid.UUID) (*domain.Rabbit, error) {
	query := `SELECT ` + rabbitColumns + ` FROM rabbits WHERE id = $1 AND farm_id = $2 AND is_deleted = 0`

	rabbit := &domain.Rabbit{}
	if err := scanRabbit(r.db.QueryRowContext(ctx, query, id, farmID), rabbit); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRabbitNotFound
		}
		return nil, fmt.Errorf("failed to get rabbit: %w", err)
	}
	return rabbit, nil
}

func (r *rabbitRepository) List(ctx context.Context, farmID uuid.UUID, q ports.RabbitQuery) ([]*domain.Rabbit, error) {
	cond := newConditions("farm_id = $%d", farmID)
	if q.HutchID != nil {
		cond.add("hutch_id = $%d", *q.HutchID)
	}
	if q.Gender != "" {
		cond.add("gender = $%d", q.Gender)
	}
	query := fmt.Sprintf(`
		SELECT %s
		FROM rabbits
		WHERE %s
		ORDER BY tag
		%s
	`, rabbitColumns, cond.where(), cond.page(q.Pagination))

	rows, err := r.db.QueryContext(ctx, query, cond.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list rabbits: %w", err)
	}
	defer rows.Close()

	rabbits := []*domain.Rabbit{}
	for rows.Next() {
		rabbit := &domain.Rabbit{}
		if err := scanRabbit(rows, rabbit); err != nil {
			return nil, fmt.Errorf("failed to scan rabbit: %w", err)
		}
		rabbits = append(rabbits, rabbit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rabbits: %w", err)
	}
	return rabbits, nil
}

// Update moves the rabbit between hutches when its hutch changed, freeing the
// previous one and claiming the new one in the same transaction.
func (r *rabbitRepository) Update(ctx context.Context, rabbit *domain.Rabbit, previousHutch *uuid.UUID) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if !sameHutch(previousHutch, rabbit.HutchID) {
			if previousHutch != nil {
				if err := freeHutch(ctx, tx, *previousHutch, rabbit.FarmID); err != nil {
					return err
				}
			}
			if rabbit.HutchID != nil {
				if err := claimHutch(ctx, tx, *rabbit.HutchID, rabbit.FarmID); err != nil {
					return err
				}
			}
		}

		query := `
			UPDATE rabbits
			SET hutch_id = $1, tag = $2, name = $3, gender = $4, breed = $5, color = $6,
				birth_date = $7, weight = $8, updated_at = NOW()
			WHERE id = $9 AND farm_id = $10 AND is_deleted = 0
			RETURNING updated_at
		`
		err := tx.QueryRowContext(ctx, query,
			rabbit.HutchID, rabbit.Tag, rabbit.Name, rabbit.Gender, rabbit.Breed, rabbit.Color,
			rabbit.BirthDate, rabbit.Weight, rabbit.ID, rabbit.FarmID,
		).Scan(&rabbit.UpdatedAt)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrRabbitNotFound
			}
			if isUniqueViolation(err, "rabbits_farm_tag_key") {
				return domain.ErrDuplicateRabbitTag
			}
			return fmt.Errorf("failed to update rabbit: %w", err)
		}
		return nil
	})
}

// Remove soft-deletes the rabbit, frees its hutch and writes the removal audit row.
func (r *rabbitRepository) Remove(ctx context.Context, removal *domain.RabbitRemoval) (*domain.Rabbit, error) {
	rabbit := &domain.Rabbit{}
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		err := softDelete(ctx, tx, rabbitScope, func(row rowScanner) error {
			return scanRabbit(row, rabbit)
		}, removal.RabbitID, removal.FarmID)
		if err != nil {
			return err
		}

		if rabbit.HutchID != nil {
			if err := freeHutch(ctx, tx, *rabbit.HutchID, rabbit.FarmID); err != nil {
				return err
			}
		}

		removal.HutchID = rabbit.HutchID
		removal.RabbitTag = rabbit.Tag
		query := `
			INSERT INTO rabbit_removals (id, rabbit_id, farm_id, hutch_id, reason, notes, removed_by, removed_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`
		_, err = tx.ExecContext(ctx, query,
			removal.ID, removal.RabbitID, removal.FarmID, removal.HutchID,
			removal.Reason, removal.Notes, removal.RemovedBy, removal.RemovedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert removal: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rabbit, nil
}

func claimHutch(ctx context.Context, tx *sql.Tx, hutchID, farmID uuid.UUID) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE hutches SET is_occupied = true, updated_at = NOW()
		WHERE id = $1 AND farm_id = $2 AND is_deleted = 0 AND is_occupied = false
	`, hutchID, farmID)
	if err != nil {
		return fmt.Errorf("failed to claim hutch: %w", err)
	}
	return affectedOne(res, domain.ErrHutchNotAvailable)
}

func freeHutch(ctx context.Context, tx *sql.Tx, hutchID, farmID uuid.UUID) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE hutches SET is_occupied = false, updated_at = NOW()
		WHERE id = $1 AND farm_id = $2
	`, hutchID, farmID)
	if err != nil {
		return fmt.Errorf("failed to free hutch: %w", err)
	}
	return nil
}

func sameHutch(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func scanRabbit(row rowScanner, rabbit *domain.Rabbit) error {
	return row.Scan(
		&rabbit.ID,
		&rabbit.FarmID,
		&rabbit.HutchID,
		&rabbit.Tag,
		&rabbit.Name,
		&rabbit.Gender,
		&rabbit.Breed,
		&rabbit.Color,
		&rabbit.BirthDate,
		&rabbit.Weight,
		&rabbit.Status,
		&rabbit.CreatedAt,
		&rabbit.UpdatedAt,
	)
}
