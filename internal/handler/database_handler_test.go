package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/synergo-api/internal/dto"
	"github.com/noah-isme/synergo-api/internal/models"
	"github.com/noah-isme/synergo-api/internal/service"
	appErrors "github.com/noah-isme/synergo-api/pkg/errors"
	"github.com/noah-isme/synergo-api/pkg/storage"
)

type fakeDatabaseService struct {
	imported *models.DatabaseSnapshot
}

func (f *fakeDatabaseService) Export(context.Context) (*models.DatabaseSnapshot, error) {
	return &models.DatabaseSnapshot{
		Media:         []models.Media{{ID: "m-1", Title: "Jab"}},
		Nomenclatures: []models.Nomenclature{},
		ReviewList:    []string{"m-1"},
		QuizList:      []string{},
	}, nil
}

func (f *fakeDatabaseService) Import(_ context.Context, snapshot *models.DatabaseSnapshot) (*dto.DatabaseResetResponse, error) {
	f.imported = snapshot
	return &dto.DatabaseResetResponse{Media: len(snapshot.Media), Nomenclatures: len(snapshot.Nomenclatures)}, nil
}

func (f *fakeDatabaseService) Reset(context.Context) (*dto.DatabaseResetResponse, error) {
	return &dto.DatabaseResetResponse{Media: 4, Nomenclatures: 7}, nil
}

func (f *fakeDatabaseService) Backup(context.Context) (*models.BackupFile, error) {
	return &models.BackupFile{ID: "b-1", Filename: "backup.json", Token: "tok"}, nil
}

func (f *fakeDatabaseService) Download(_ context.Context, token string) (*service.BackupDownload, error) {
	if token != "tok" {
		return nil, appErrors.Clone(appErrors.ErrInvalidToken, "")
	}
	return &service.BackupDownload{Filename: "backup.json", Data: []byte(`{"media":[]}`)}, nil
}

func (f *fakeDatabaseService) ListBackups(context.Context) ([]storage.FileInfo, error) {
	return []storage.FileInfo{{Name: "backup.json", Size: 12}}, nil
}

func newDatabaseRouter(svc *fakeDatabaseService) http.Handler {
	h := NewDatabaseHandler(svc)
	return newTestRouter(func(r *gin.Engine) {
		r.GET("/database", h.Export)
		r.POST("/database/import", h.Import)
		r.POST("/database/reset", h.Reset)
		r.POST("/database/backups", h.Backup)
		r.GET("/database/backups", h.ListBackups)
		r.GET("/database/backups/download", h.Download)
	})
}

func TestDatabaseHandlerExport(t *testing.T) {
	router := newDatabaseRouter(&fakeDatabaseService{})

	w := serve(router, http.MethodGet, "/database", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decodeEnvelope(t, w).Data), `"review_list":["m-1"]`)

	w = serve(router, http.MethodGet, "/database?download=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "synergo_export_")
	assert.Contains(t, w.Body.String(), `"media":[{"id":"m-1"`)
}

func TestDatabaseHandlerImportAndReset(t *testing.T) {
	svc := &fakeDatabaseService{}
	router := newDatabaseRouter(svc)

	w := serve(router, http.MethodPost, "/database/import", []byte(`{"media":[{"id":"m-1"}],"nomenclatures":[]}`))
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.imported)
	assert.Len(t, svc.imported.Media, 1)

	assert.Equal(t, http.StatusBadRequest, serve(router, http.MethodPost, "/database/import", []byte(`[1,2`)).Code)

	w = serve(router, http.MethodPost, "/database/reset", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decodeEnvelope(t, w).Data), `"nomenclatures":7`)
}

func TestDatabaseHandlerBackups(t *testing.T) {
	router := newDatabaseRouter(&fakeDatabaseService{})

	w := serve(router, http.MethodPost, "/database/backups", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, string(decodeEnvelope(t, w).Data), `"token":"tok"`)

	w = serve(router, http.MethodGet, "/database/backups", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decodeEnvelope(t, w).Data), `"backup.json"`)

	assert.Equal(t, http.StatusBadRequest, serve(router, http.MethodGet, "/database/backups/download", nil).Code)
	assert.Equal(t, http.StatusForbidden, serve(router, http.MethodGet, "/database/backups/download?token=bad", nil).Code)

	w = serve(router, http.MethodGet, "/database/backups/download?token=tok", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, `{"media":[]}`, w.Body.String())
}
