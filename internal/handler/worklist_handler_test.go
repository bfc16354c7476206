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
	appErrors "github.com/noah-isme/synergo-api/pkg/errors"
)

type fakeWorklistService struct {
	listed   map[string]bool
	lastKind models.WorklistKind
}

func (f *fakeWorklistService) List(_ context.Context, kind models.WorklistKind) ([]models.WorklistItem, error) {
	f.lastKind = kind
	items := []models.WorklistItem{}
	for id := range f.listed {
		items = append(items, models.WorklistItem{Media: models.Media{ID: id}})
	}
	return items, nil
}

func (f *fakeWorklistService) Add(_ context.Context, kind models.WorklistKind, req dto.AddWorklistRequest) (*dto.WorklistAddResponse, error) {
	f.lastKind = kind
	added := !f.listed[req.MediaID]
	f.listed[req.MediaID] = true
	return &dto.WorklistAddResponse{MediaID: req.MediaID, Added: added}, nil
}

func (f *fakeWorklistService) BulkAdd(_ context.Context, kind models.WorklistKind, req dto.BulkAddWorklistRequest) (*models.BulkAddResult, error) {
	return &models.BulkAddResult{Added: req.MediaIDs, Existing: []string{}, Missing: []string{}}, nil
}

func (f *fakeWorklistService) Remove(_ context.Context, kind models.WorklistKind, mediaID string) error {
	if !f.listed[mediaID] {
		return appErrors.Clone(appErrors.ErrNotFound, "media not listed")
	}
	delete(f.listed, mediaID)
	return nil
}

func (f *fakeWorklistService) Clear(context.Context, models.WorklistKind) (*dto.WorklistClearResponse, error) {
	n := len(f.listed)
	f.listed = map[string]bool{}
	return &dto.WorklistClearResponse{Removed: n}, nil
}

func newWorklistRouter(svc *fakeWorklistService) http.Handler {
	h := NewWorklistHandler(svc)
	return newTestRouter(func(r *gin.Engine) {
		r.GET("/lists/:kind", h.List)
		r.POST("/lists/:kind", h.Add)
		r.DELETE("/lists/:kind", h.Clear)
		r.POST("/lists/:kind/bulk", h.BulkAdd)
		r.DELETE("/lists/:kind/:mediaId", h.Remove)
	})
}

func TestWorklistHandlerAddIsIdempotent(t *testing.T) {
	svc := &fakeWorklistService{listed: map[string]bool{}}
	router := newWorklistRouter(svc)

	w := serve(router, http.MethodPost, "/lists/Quiz", []byte(`{"media_id":"m-1"}`))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, models.WorklistQuiz, svc.lastKind)

	w = serve(router, http.MethodPost, "/lists/quiz", []byte(`{"media_id":"m-1"}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decodeEnvelope(t, w).Data), `"added":false`)
}

func TestWorklistHandlerRemoveAndClear(t *testing.T) {
	svc := &fakeWorklistService{listed: map[string]bool{"m-1": true, "m-2": true}}
	router := newWorklistRouter(svc)

	assert.Equal(t, http.StatusNoContent, serve(router, http.MethodDelete, "/lists/review/m-1", nil).Code)
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodDelete, "/lists/review/m-1", nil).Code)

	w := serve(router, http.MethodDelete, "/lists/review", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decodeEnvelope(t, w).Data), `"removed":1`)
}

func TestWorklistHandlerListAndBulk(t *testing.T) {
	svc := &fakeWorklistService{listed: map[string]bool{"m-1": true}}
	router := newWorklistRouter(svc)

	w := serve(router, http.MethodGet, "/lists/review", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.WorklistReview, svc.lastKind)
	assert.Equal(t, float64(1), decodeEnvelope(t, w).Meta["count"])

	w = serve(router, http.MethodPost, "/lists/review/bulk", []byte(`{"media_ids":["a","b"]}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decodeEnvelope(t, w).Data), `"added":["a","b"]`)
}
