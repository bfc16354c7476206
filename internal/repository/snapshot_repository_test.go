package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/synergo-api/internal/models"
)

func TestSnapshotRepositoryExport(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSnapshotRepository(db)
	repo.now = func() time.Time { return time.UnixMilli(99) }

	mock.ExpectQuery("FROM media ORDER BY added_at ASC").
		WillReturnRows(sqlmock.NewRows(mediaRowColumns).AddRow("m-1", "photo", "Guard", "", "/g.jpg", "[]", "[]", 30, 1, 1, "", ""))
	mock.ExpectQuery("FROM nomenclatures").
		WillReturnRows(sqlmock.NewRows([]string{"id", "label", "description", "interpretation"}))
	mock.ExpectQuery("FROM review_list").
		WillReturnRows(sqlmock.NewRows([]string{"media_id"}).AddRow("m-1"))
	mock.ExpectQuery("FROM quiz_list").
		WillReturnRows(sqlmock.NewRows([]string{"media_id"}))

	snapshot, err := repo.Export(context.Background())
	require.NoError(t, err)
	assert.Len(t, snapshot.Media, 1)
	assert.Empty(t, snapshot.Nomenclatures)
	assert.NotNil(t, snapshot.Nomenclatures)
	assert.Equal(t, []string{"m-1"}, snapshot.ReviewList)
	assert.Equal(t, int64(99), snapshot.ExportedAt)
}

func TestSnapshotRepositoryImportSkipsUnknownListEntries(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSnapshotRepository(db)
	repo.now = func() time.Time { return time.UnixMilli(1000) }

	mock.ExpectBegin()
	for _, table := range []string{"review_list", "quiz_list", "media", "nomenclatures"} {
		mock.ExpectExec("DELETE FROM " + table).WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectExec("INSERT INTO media").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO nomenclatures").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO quiz_list").WithArgs("m-1", int64(1001)).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.Import(context.Background(), &models.DatabaseSnapshot{
		Media:         []models.Media{{ID: "m-1", Type: models.MediaTypePhoto, Title: "Guard"}},
		Nomenclatures: []models.Nomenclature{{ID: "n-1", Label: "guard"}},
		ReviewList:    []string{"ghost"},
		QuizList:      []string{"ghost", "m-1"},
	})
	require.NoError(t, err)
}

func TestSnapshotRepositoryResetRollsBackOnError(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSnapshotRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM review_list").WillReturnError(errors.New("locked"))
	mock.ExpectRollback()

	err := repo.Reset(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clear review_list")
}
