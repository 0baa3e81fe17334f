package epochs

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/flipkeeper/internal/common"
	"github.com/dmitrijs2005/flipkeeper/internal/node/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

const selectQ = `^SELECT\s+epoch,\s*next_validation\s+FROM\s+epochs\s+WHERE\s+id\s*=\s*1$`

func TestGet(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	next := time.Now().Add(time.Hour)

	mock.ExpectQuery(selectQ).WillReturnRows(sqlmock.NewRows([]string{"epoch", "next_validation"}).AddRow(4, next))
	got, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &models.Epoch{Epoch: 4, NextValidation: next}, got)

	mock.ExpectQuery(selectQ).WillReturnError(sql.ErrNoRows)
	_, err = repo.Get(context.Background())
	assert.ErrorIs(t, err, common.ErrorNotFound)

	mock.ExpectQuery(selectQ).WillReturnError(errors.New("db down"))
	_, err = repo.Get(context.Background())
	assert.EqualError(t, err, "db error: db down")
}

func TestSet(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	next := time.Now()
	q := `(?s)^\s*INSERT\s+INTO\s+epochs\b.*VALUES\s*\(1,\s*\$1,\s*\$2\)\s*ON\s+CONFLICT\s*\(id\).*$`

	mock.ExpectExec(q).WithArgs(5, next).WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Set(context.Background(), &models.Epoch{Epoch: 5, NextValidation: next}))

	mock.ExpectExec(q).WillReturnError(errors.New("db down"))
	assert.EqualError(t, repo.Set(context.Background(), &models.Epoch{}), "db error: db down")
	require.NoError(t, mock.ExpectationsWereMet())
}
