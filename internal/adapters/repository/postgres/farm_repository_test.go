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

func TestFarmRepository_GetOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	farmID, owner := uuid.New(), uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT user_id FROM farms WHERE id = $1 AND is_deleted = 0`)).
		WithArgs(farmID).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(owner.String()))
	mock.ExpectQuery(`SELECT user_id FROM farms`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	repo := NewFarmRepository(db)

	got, err := repo.GetOwner(context.Background(), farmID)
	require.NoError(t, err)
	assert.Equal(t, owner, got)

	_, err = repo.GetOwner(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrFarmNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFarmRepository_DeleteScopesByOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id, owner := uuid.New(), uuid.New()
	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM farms WHERE id = \$1 AND user_id = \$2 AND is_deleted = 0 FOR UPDATE`).
		WithArgs(id, owner).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name", "location", "description", "created_at", "updated_at"}).
			AddRow(id.String(), owner.String(), "North", "Valley", "", now, now))
	mock.ExpectExec(`UPDATE farms SET is_deleted = 1`).
		WithArgs(id, owner).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	farm, err := NewFarmRepository(db).Delete(context.Background(), id, owner)
	require.NoError(t, err)
	assert.Equal(t, "North", farm.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFarmRepository_ListPaginates(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	owner := uuid.New()
	mock.ExpectQuery(`FROM farms\s+WHERE user_id = \$1 AND is_deleted = 0\s+ORDER BY created_at DESC\s+LIMIT \$2 OFFSET \$3`).
		WithArgs(owner, 5, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name", "location", "description", "created_at", "updated_at"}))

	farms, err := NewFarmRepository(db).List(context.Background(), owner, ports.Pagination{Limit: 5, Offset: 10})
	require.NoError(t, err)
	assert.NotNil(t, farms)
	assert.Empty(t, farms)
	assert.NoError(t, mock.ExpectationsWereMet())
}
