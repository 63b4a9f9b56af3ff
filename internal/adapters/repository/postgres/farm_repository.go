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

const farmColumns = `id, user_id, name, location, description, created_at, updated_at`

var farmScope = scope{
	table:    "farms",
	columns:  farmColumns,
	parents:  []string{"user_id"},
	notFound: domain.ErrFarmNotFound,
}

type farmRepository struct {
	db *sql.DB
}

func NewFarmRepository(db *sql.DB) ports.FarmRepository {
	return &farmRepository{
		db: db,
	}
}

func (r *farmRepository) Create(ctx context.Context, farm *domain.Farm) error {
	query := `
		INSERT INTO farms (id, user_id, name, location, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, farm.ID, farm.UserID, farm.Name, farm.Location, farm.Description).
		Scan(&farm.CreatedAt, &farm.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert farm: %w", err)
	}
	return nil
}

func (r *farmRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Farm, error) {
	query := `SELECT ` + farmColumns + ` FROM farms WHERE id = $1 AND user_id = $2 AND is_deleted = 0`

	farm := &domain.Farm{}
	if err := scanFarm(r.db.QueryRowContext(ctx, query, id, userID), farm); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrFarmNotFound
		}
		return nil, fmt.Errorf("failed to get farm: %w", err)
	}
	return farm, nil
}

func (r *farmRepository) List(ctx context.Context, userID uuid.UUID, page ports.Pagination) ([]*domain.Farm, error) {
	query := `
		SELECT ` + farmColumns + `
		FROM farms
		WHERE user_id = $1 AND is_deleted = 0
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, query, userID, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list farms: %w", err)
	}
	defer rows.Close()

	farms := []*domain.Farm{}
	for rows.Next() {
		farm := &domain.Farm{}
		if err := scanFarm(rows, farm); err != nil {
			return nil, fmt.Errorf("failed to scan farm: %w", err)
		}
		farms = append(farms, farm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating farms: %w", err)
	}
	return farms, nil
}

func (r *farmRepository) Update(ctx context.Context, farm *domain.Farm) error {
	query := `
		UPDATE farms
		SET name = $1, location = $2, description = $3, updated_at = NOW()
		WHERE id = $4 AND user_id = $5 AND is_deleted = 0
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query, farm.Name, farm.Location, farm.Description, farm.ID, farm.UserID).
		Scan(&farm.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrFarmNotFound
		}
		return fmt.Errorf("failed to update farm: %w", err)
	}
	return nil
}

func (r *farmRepository) Delete(ctx context.Context, id, userID uuid.UUID) (*domain.Farm, error) {
	farm := &domain.Farm{}
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		return softDelete(ctx, tx, farmScope, func(row rowScanner) error {
			return scanFarm(row, farm)
		}, id, userID)
	})
	if err != nil {
		return nil, err
	}
	return farm, nil
}

func (r *farmRepository) GetOwner(ctx context.Context, farmID uuid.UUID) (uuid.UUID, error) {
	var owner uuid.UUID
	err := r.db.QueryRowContext(ctx, `SELECT user_id FROM farms WHERE id = $1 AND is_deleted = 0`, farmID).Scan(&owner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, domain.ErrFarmNotFound
		}
		return uuid.Nil, fmt.Errorf("failed to get farm owner: %w", err)
	}
	return owner, nil
}

func scanFarm(row rowScanner, farm *domain.Farm) error {
	return row.Scan(
		&farm.ID,
		&farm.UserID,
		&farm.Name,
		&farm.Location,
		&farm.Description,
		&farm.CreatedAt,
		&farm.UpdatedAt,
	)
}
