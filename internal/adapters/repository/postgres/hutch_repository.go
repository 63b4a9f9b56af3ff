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

const hutchColumns = `id, farm_id, name, row_name, level, size, material, is_occupied, created_at, updated_at`

var hutchScope = scope{
	table:    "hutches",
	columns:  hutchColumns,
	parents:  []string{"farm_id"},
	notFound: domain.ErrHutchNotFound,
}

type hutchRepository struct {
	db *sql.DB
}

func NewHutchRepository(db *sql.DB) ports.HutchRepository {
	return &hutchRepository{
		db: db,
	}
}

func (r *hutchRepository) Create(ctx context.Context, hutch *domain.Hutch) error {
	query := `
		INSERT INTO hutches (id, farm_id, name, row_name, level, size, material, is_occupied)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		hutch.ID, hutch.FarmID, hutch.Name, hutch.RowName, hutch.Level, hutch.Size, hutch.Material, hutch.IsOccupied,
	).Scan(&hutch.CreatedAt, &hutch.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert hutch: %w", err)
	}
	return nil
}

func (r *hutchRepository) GetByID(ctx context.Context, id, farmID uuid.UUID) (*domain.Hutch, error) {
	query := `SELECT ` + hutchColumns + ` FROM hutches WHERE id = $1 AND farm_id = $2 AND is_deleted = 0`

	hutch := &domain.Hutch{}
	if err := scanHutch(r.db.QueryRowContext(ctx, query, id, farmID), hutch); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrHutchNotFound
		}
		return nil, fmt.Errorf("failed to get hutch: %w", err)
	}
	return hutch, nil
}

func (r *hutchRepository) List(ctx context.Context, farmID uuid.UUID, q ports.HutchQuery) ([]*domain.Hutch, error) {
	cond := newConditions("farm_id = $%d", farmID)
	if q.IsOccupied != nil {
		cond.add("is_occupied = $%d", *q.IsOccupied)
	}
	if q.RowName != "" {
		cond.add("row_name ILIKE $%d", "%"+q.RowName+"%")
	}
	query := fmt.Sprintf(`
		SELECT %s
		FROM hutches
		WHERE %s
		ORDER BY row_name, name
		%s
	`, hutchColumns, cond.where(), cond.page(q.Pagination))

	rows, err := r.db.QueryContext(ctx, query, cond.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list hutches: %w", err)
	}
	defer rows.Close()

	hutches := []*domain.Hutch{}
	for rows.Next() {
		hutch := &domain.Hutch{}
		if err := scanHutch(rows, hutch); err != nil {
			return nil, fmt.Errorf("failed to scan hutch: %w", err)
		}
		hutches = append(hutches, hutch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating hutches: %w", err)
	}
	return hutches, nil
}

func (r *hutchRepository) Update(ctx context.Context, hutch *domain.Hutch) error {
	query := `
		UPDATE hutches
		SET name = $1, row_name = $2, level = $3, size = $4, material = $5, updated_at = NOW()
		WHERE id = $6 AND farm_id = $7 AND is_deleted = 0
		RETURNING is_occupied, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		hutch.Name, hutch.RowName, hutch.Level, hutch.Size, hutch.Material, hutch.ID, hutch.FarmID,
	).Scan(&hutch.IsOccupied, &hutch.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrHutchNotFound
		}
		return fmt.Errorf("failed to update hutch: %w", err)
	}
	return nil
}

// Delete refuses a hutch that became occupied after the caller last read it.
func (r *hutchRepository) Delete(ctx context.Context, id, farmID uuid.UUID) (*domain.Hutch, error) {
	hutch := &domain.Hutch{}
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		return softDelete(ctx, tx, hutchScope, func(row rowScanner) error {
			if err := scanHutch(row, hutch); err != nil {
				return err
			}
			if hutch.IsOccupied {
				return domain.ErrHutchOccupied
			}
			return nil
		}, id, farmID)
	})
	if err != nil {
		return nil, err
	}
	return hutch, nil
}

func (r *hutchRepository) ListRemovals(ctx context.Context, hutchID, farmID uuid.UUID) ([]*domain.RabbitRemoval, error) {
	query := `
		SELECT rr.id, rr.rabbit_id, rr.farm_id, rr.hutch_id, r.tag, rr.reason, rr.notes, rr.removed_by, rr.removed_at
		FROM rabbit_removals rr
		JOIN rabbits r ON r.id = rr.rabbit_id
		WHERE rr.hutch_id = $1 AND rr.farm_id = $2
		ORDER BY rr.removed_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, hutchID, farmID)
	if err != nil {
		return nil, fmt.Errorf("failed to list hutch history: %w", err)
	}
	defer rows.Close()

	removals := []*domain.RabbitRemoval{}
	for rows.Next() {
		rr := &domain.RabbitRemoval{}
		err := rows.Scan(&rr.ID, &rr.RabbitID, &rr.FarmID, &rr.HutchID, &rr.RabbitTag, &rr.Reason, &rr.Notes, &rr.RemovedBy, &rr.RemovedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan removal: %w", err)
		}
		removals = append(removals, rr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating removals: %w", err)
	}
	return removals, nil
}

func scanHutch(row rowScanner, hutch *domain.Hutch) error {
	return row.Scan(
		&hutch.ID,
		&hutch.FarmID,
		&hutch.Name,
		&hutch.RowName,
		&hutch.Level,
		&hutch.Size,
		&hutch.Material,
		&hutch.IsOccupied,
		&hutch.CreatedAt,
		&hutch.UpdatedAt,
	)
}
