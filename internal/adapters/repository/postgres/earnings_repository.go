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

const earningsColumns = `id, farm_id, type, rabbit_id, amount, date, buyer_name, notes, created_at, updated_at`

var earningsScope = scope{
	table:    "earnings_records",
	columns:  earningsColumns,
	parents:  []string{"farm_id"},
	notFound: domain.ErrEarningNotFound,
}

type earningsRepository struct {
	db *sql.DB
}

func NewEarningsRepository(db *sql.DB) ports.EarningsRepository {
	return &earningsRepository{
		db: db,
	}
}

func (r *earningsRepository) Create(ctx context.Context, record *domain.EarningsRecord) error {
	query := `
		INSERT INTO earnings_records (id, farm_id, type, rabbit_id, amount, date, buyer_name, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		record.ID, record.FarmID, record.Type, record.RabbitID, record.Amount,
		record.Date, record.BuyerName, record.Notes,
	).Scan(&record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert earnings record: %w", err)
	}
	return nil
}

func (r *earningsRepository) GetByID(ctx context.Context, id, farmID uuid.UUID) (*domain.EarningsRecord, error) {
	query := `SELECT ` + earningsColumns + ` FROM earnings_records WHERE id = $1 AND farm_id = $2 AND is_deleted = 0`

	record := &domain.EarningsRecord{}
	if err := scanEarnings(r.db.QueryRowContext(ctx, query, id, farmID), record); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEarningNotFound
		}
		return nil, fmt.Errorf("failed to get earnings record: %w", err)
	}
	return record, nil
}

func (r *earningsRepository) List(ctx context.Context, farmID uuid.UUID, q ports.EarningsQuery) ([]*domain.EarningsRecord, error) {
	cond := newConditions("farm_id = $%d", farmID)
	if q.Type != "" {
		cond.add("type = $%d", q.Type)
	}
	if q.DateFrom != nil {
		cond.add("date >= $%d", *q.DateFrom)
	}
	if q.DateTo != nil {
		cond.add("date <= $%d", *q.DateTo)
	}
	query := fmt.Sprintf(`
		SELECT %s
		FROM earnings_records
		WHERE %s
		ORDER BY date DESC, created_at DESC
		%s
	`, earningsColumns, cond.where(), cond.page(q.Pagination))

	rows, err := r.db.QueryContext(ctx, query, cond.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list earnings records: %w", err)
	}
	defer rows.Close()

	records := []*domain.EarningsRecord{}
	for rows.Next() {
		record := &domain.EarningsRecord{}
		if err := scanEarnings(rows, record); err != nil {
			return nil, fmt.Errorf("failed to scan earnings record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating earnings records: %w", err)
	}
	return records, nil
}

func (r *earningsRepository) Update(ctx context.Context, record *domain.EarningsRecord) error {
	query := `
		UPDATE earnings_records
		SET type = $1, rabbit_id = $2, amount = $3, date = $4, buyer_name = $5, notes = $6, updated_at = NOW()
		WHERE id = $7 AND farm_id = $8 AND is_deleted = 0
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		record.Type, record.RabbitID, record.Amount, record.Date, record.BuyerName, record.Notes,
		record.ID, record.FarmID,
	).Scan(&record.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrEarningNotFound
		}
		return fmt.Errorf("failed to update earnings record: %w", err)
	}
	return nil
}

func (r *earningsRepository) Delete(ctx context.Context, id, farmID uuid.UUID) (*domain.EarningsRecord, error) {
	record := &domain.EarningsRecord{}
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		return softDelete(ctx, tx, earningsScope, func(row rowScanner) error {
			return scanEarnings(row, record)
		}, id, farmID)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func scanEarnings(row rowScanner, record *domain.EarningsRecord) error {
	return row.Scan(
		&record.ID,
		&record.FarmID,
		&record.Type,
		&record.RabbitID,
		&record.Amount,
		&record.Date,
		&record.BuyerName,
		&record.Notes,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
}
