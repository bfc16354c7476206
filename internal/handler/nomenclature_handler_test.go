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
)

type fakeNomenclatureService struct {
	items    []models.Nomenclature
	cacheHit bool
}

func (f *fakeNomenclatureService) List(context.Context) ([]models.Nomenclature, bool, error) {
	return f.items, f.cacheHit, nil
}

func (f *fakeNomenclatureService) Get(_ context.Context, id string) (*models.Nomenclature, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			return &f.items[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "nomenclature not found")
}

func (f *fakeNomenclatureService) Create(_ context.Context, req dto.NomenclatureRequest) (*models.Nomenclature, error) {
	for _, item := range f.items {
		if item.Label == req.Label {
			return nil, appErrors.Clone(appErrors.ErrDuplicate, "label already exists")
		}
	}
	item := models.Nomenclature{ID: "n-new", Label: req.Label, Description: req.Description}
	f.items = append(f.items, item)
	return &item, nil
}

func (f *fakeNomenclatureService) Update(_ context.Context, id string, req dto.NomenclatureRequest) (*models.Nomenclature, error) {
	item, err := f.Get(context.Background(), id)
	if err != nil {
		return nil, err
	}
	item.Label = req.Label
	return item, nil
}

func (f *fakeNomenclatureService) Delete(_ context.Context, id string) error {
	return appErrors.Clone(appErrors.ErrInUse, "label still used by media")
}

func (f *fakeNomenclatureService) ReconcileAll(context.Context) (*dto.NomenclatureSyncResult, error) {
	return &dto.NomenclatureSyncResult{Added: 2}, nil
}

type fakeGlossaryExporter struct {
	format string
}

func (f *fakeGlossaryExporter) Nomenclatures(_ context.Context, format string) (*service.ExportFile, error) {
	f.format = format
	if format == "xml" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported format")
	}
	return &service.ExportFile{Filename: "nomenclatures.csv", ContentType: "text/csv", Data: []byte("label\njab\n")}, nil
}

func newNomenclatureRouter(svc *fakeNomenclatureService, exporter glossaryExporter) http.Handler {
	h := NewNomenclatureHandler(svc, exporter)
	return newTestRouter(func(r *gin.Engine) {
		r.GET("/nomenclatures", h.List)
		r.POST("/nomenclatures", h.Create)
		r.POST("/nomenclatures/sync", h.Sync)
		r.GET("/nomenclatures/export", h.Export)
		r.GET("/nomenclatures/:id", h.Get)
		r.PUT("/nomenclatures/:id", h.Update)
		r.DELETE("/nomenclatures/:id", h.Delete)
	})
}

func TestNomenclatureHandlerCRUD(t *testing.T) {
	svc := &fakeNomenclatureService{items: []models.Nomenclature{{ID: "n-1", Label: "jab"}}, cacheHit: true}
	router := newNomenclatureRouter(svc, nil)

	w := serve(router, http.MethodGet, "/nomenclatures", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeEnvelope(t, w).Meta["cache_hit"])

	assert.Equal(t, http.StatusCreated, serve(router, http.MethodPost, "/nomenclatures", jsonBody(t, dto.NomenclatureRequest{Label: "hook"})).Code)
	w = serve(router, http.MethodPost, "/nomenclatures", jsonBody(t, dto.NomenclatureRequest{Label: "jab"}))
	assert.Equal(t, http.StatusConflict, w.Code)
	require.NotNil(t, decodeEnvelope(t, w).Error)
	assert.Equal(t, appErrors.ErrDuplicate.Code, decodeEnvelope(t, w).Error.Code)

	w = serve(router, http.MethodPut, "/nomenclatures/n-1", jsonBody(t, dto.NomenclatureRequest{Label: "cross"}))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decodeEnvelope(t, w).Data), `"label":"cross"`)

	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/nomenclatures/missing", nil).Code)
	assert.Equal(t, http.StatusPreconditionFailed, serve(router, http.MethodDelete, "/nomenclatures/n-1", nil).Code)
}

func TestNomenclatureHandlerSync(t *testing.T) {
	w := serve(newNomenclatureRouter(&fakeNomenclatureService{}, nil), http.MethodPost, "/nomenclatures/sync", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decodeEnvelope(t, w).Data), `"added":2`)
}

func TestNomenclatureHandlerExport(t *testing.T) {
	exporter := &fakeGlossaryExporter{}
	router := newNomenclatureRouter(&fakeNomenclatureService{}, exporter)

	w := serve(router, http.MethodGet, "/nomenclatures/export?format=csv", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "csv", exporter.format)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "nomenclatures.csv")
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.Equal(t, "label\njab\n", w.Body.String())

	assert.Equal(t, http.StatusBadRequest, serve(router, http.MethodGet, "/nomenclatures/export?format=xml", nil).Code)

	noExporter := newNomenclatureRouter(&fakeNomenclatureService{}, nil)
	assert.Equal(t, http.StatusInternalServerError, serve(noExporter, http.MethodGet, "/nomenclatures/export", nil).Code)
}
