package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

var mediaRowColumns = []string{"id", "type", "title", "description", "src", "tags", "annotations", "fps", "added_at", "updated_at", "source", "publication_date"}

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "sqlite")
	return sqlxDB, mock, func() {
		require.NoError(t, mock.ExpectationsWereMet())
		sqlxDB.Close()
	}
}
