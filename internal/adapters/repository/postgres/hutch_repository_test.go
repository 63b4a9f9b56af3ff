package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/rabbitfarm/internal/core/domain"
	"github.com/vncsmyrnk/rabbitfarm/internal/core/ports"
)

var hutchRowColumns = []string{"id", "farm_id", "name", "row_name", "level", "size", "material", "is_occupied", "created_at", "updated_at"}

func hutchRow(id, farmID uuid.UUID, occupied bool) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(hutchRowColumns).
		AddRow(id.String(), farmID.String(), "A1", "A", "1", "large", "wire", occupied, now, now)
}

func TestHutchRepository_DeleteSoftDeletes(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id, farmID := uuid.New(), uuid.New()
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM hutches WHERE id = \$1 AND farm_id = \$2 AND is_deleted = 0 FOR UPDATE`).
		WithArgs(id, farmID).
		WillReturnRows(hutchRow(id, farmID, false))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE hutches SET is_deleted = 1, updated_at = NOW() WHERE id = $1 AND farm_id = $2 AND is_deleted = 0`)).
		WithArgs(id, farmID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	hutch, err := NewHutchRepository(db).Delete(context.Background(), id, farmID)
	require.NoError(t, err)
	assert.Equal(t, id, hutch.ID)
	assert.Equal(t, "A1", hutch.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHutchRepository_DeleteZeroRowsRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id, farmID := uuid.New(), uuid.New()
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM hutches .+ FOR UPDATE`).WillReturnRows(hutchRow(id, farmID, false))
	mock.ExpectExec(`UPDATE hutches SET is_deleted = 1`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err = NewHutchRepository(db).Delete(context.Background(), id, farmID)
	assert.ErrorIs(t, err, domain.ErrHutchNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHutchRepository_DeleteMissingRowRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM hutches .+ FOR UPDATE`).WillReturnRows(sqlmock.NewRows(hutchRowColumns))
	mock.ExpectRollback()

	_, err = NewHutchRepository(db).Delete(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrHutchNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHutchRepository_DeleteOccupiedRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id, farmID := uuid.New(), uuid.New()
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM hutches .+ FOR UPDATE`).WillReturnRows(hutchRow(id, farmID, true))
	mock.ExpectRollback()

	_, err = NewHutchRepository(db).Delete(context.Background(), id, farmID)
	assert.ErrorIs(t, err, domain.ErrHutchOccupied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHutchRepository_ListFilters(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id, farmID := uuid.New(), uuid.New()
	occupied := true
	mock.ExpectQuery(`WHERE farm_id = \$1 AND is_occupied = \$2 AND row_name ILIKE \$3 AND is_deleted = 0\s+ORDER BY row_name, name\s+LIMIT \$4 OFFSET \$5`).
		WithArgs(farmID, true, "%A%", 10, 20).
		WillReturnRows(hutchRow(id, farmID, true))

	hutches, err := NewHutchRepository(db).List(context.Background(), farmID, ports.HutchQuery{
		Pagination: ports.Pagination{Limit: 10, Offset: 20},
		IsOccupied: &occupied,
		RowName:    "A",
	})
	require.NoError(t, err)
	require.Len(t, hutches, 1)
	assert.True(t, hutches[0].IsOccupied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHutchRepository_GetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM hutches WHERE id = \$1 AND farm_id = \$2 AND is_deleted = 0`).
		WillReturnRows(sqlmock.NewRows(hutchRowColumns))

	_, err = NewHutchRepository(db).GetByID(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrHutchNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
