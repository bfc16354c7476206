package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/synergo-api/internal/catalog"
	"github.com/noah-isme/synergo-api/internal/dto"
	"github.com/noah-isme/synergo-api/internal/models"
	appErrors "github.com/noah-isme/synergo-api/pkg/errors"
	"github.com/noah-isme/synergo-api/pkg/jobs"
)

type nomenclatureRepository interface {
	List(ctx context.Context) ([]models.Nomenclature, error)
	FindByID(ctx context.Context, id string) (*models.Nomenclature, error)
	ExistsByLabel(ctx context.Context, label, excludeID string) (bool, error)
	Create(ctx context.Context, item *models.Nomenclature) error
	Update(ctx context.Context, item *models.Nomenclature) error
	Delete(ctx context.Context, id string) error
	InsertMissing(ctx context.Context, items []models.Nomenclature) (int, error)
}

type mediaLister interface {
	ListAll(ctx context.Context) ([]models.Media, error)
}

type mediaSource interface {
	mediaLister
	FindByID(ctx context.Context, id string) (*models.Media, error)
}

// NomenclatureService manages the controlled vocabulary.
type NomenclatureService struct {
	repo      nomenclatureRepository
	media     mediaSource
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewNomenclatureService constructs the service.
func NewNomenclatureService(repo nomenclatureRepository, media mediaSource, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *NomenclatureService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NomenclatureService{repo: repo, media: media, cache: cache, metrics: metrics, validator: validate, logger: logger}
}

// List returns the vocabulary ordered by label. The boolean reports a cache hit.
func (s *NomenclatureService) List(ctx context.Context) ([]models.Nomenclature, bool, error) {
	var cached []models.Nomenclature
	if hit, _ := s.cache.Get(ctx, nomenclatureCacheKey, &cached); hit {
		return cached, true, nil
	}
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list nomenclatures")
	}
	if items == nil {
		items = []models.Nomenclature{}
	}
	_ = s.cache.Set(ctx, nomenclatureCacheKey, items, 0)
	return items, false, nil
}

// Get returns one entry.
func (s *NomenclatureService) Get(ctx context.Context, id string) (*models.Nomenclature, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "nomenclature not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load nomenclature")
	}
	return item, nil
}

// Create adds an entry. Labels are unique ignoring case.
func (s *NomenclatureService) Create(ctx context.Context, req dto.NomenclatureRequest) (*models.Nomenclature, error) {
	item, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueLabel(ctx, item.Label, ""); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create nomenclature")
	}
	s.cache.InvalidateCatalog(ctx)
	return item, nil
}

// Update replaces label, description and interpretation of an entry.
func (s *NomenclatureService) Update(ctx context.Context, id string, req dto.NomenclatureRequest) (*models.Nomenclature, error) {
	item, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueLabel(ctx, item.Label, id); err != nil {
		return nil, err
	}
	item.ID = id
	if err := s.repo.Update(ctx, item); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "nomenclature not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update nomenclature")
	}
	s.cache.InvalidateCatalog(ctx)
	return item, nil
}

// Delete removes an entry unless a tag or annotation still uses its label.
func (s *NomenclatureService) Delete(ctx context.Context, id string) error {
	item, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	media, err := s.media.ListAll(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load media")
	}
	if catalog.IsLabelUsed(item.Label, media) {
		return appErrors.Clone(appErrors.ErrInUse, "nomenclature is still used by media")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "nomenclature not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete nomenclature")
	}
	s.cache.InvalidateCatalog(ctx)
	return nil
}

// ReconcileAll adds a blank entry for every label found on media that the vocabulary lacks.
// Existing entries are never modified.
func (s *NomenclatureService) ReconcileAll(ctx context.Context) (*dto.NomenclatureSyncResult, error) {
	media, err := s.media.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load media")
	}
	existing, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list nomenclatures")
	}

	merged, changed := catalog.ReconcileNomenclatures(catalog.DeriveNomenclatures(media), existing)
	if !changed {
		return &dto.NomenclatureSyncResult{Added: 0, Total: len(existing)}, nil
	}
	return s.insertMissing(ctx, merged[len(existing):], len(existing))
}

// SyncFromMedia adds a blank entry for each label of one media item that the vocabulary lacks.
// A media item deleted since the job was queued is not an error.
func (s *NomenclatureService) SyncFromMedia(ctx context.Context, mediaID string) (*dto.NomenclatureSyncResult, error) {
	existing, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list nomenclatures")
	}
	media, err := s.media.FindByID(ctx, mediaID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &dto.NomenclatureSyncResult{Added: 0, Total: len(existing)}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load media")
	}

	merged, changed := catalog.ReconcileNomenclatures(catalog.DeriveNomenclatures([]models.Media{*media}), existing)
	if !changed {
		return &dto.NomenclatureSyncResult{Added: 0, Total: len(existing)}, nil
	}
	return s.insertMissing(ctx, merged[len(existing):], len(existing))
}

// Sync imports entries by label. A label already present keeps its stored content.
func (s *NomenclatureService) Sync(ctx context.Context, reqs []dto.NomenclatureRequest) (*dto.NomenclatureSyncResult, error) {
	existing, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list nomenclatures")
	}
	known := append([]models.Nomenclature(nil), existing...)
	var fresh []models.Nomenclature
	for _, req := range reqs {
		item, err := s.fromRequest(req)
		if err != nil {
			return nil, err
		}
		if _, inserted := catalog.UpsertByLabel(*item, known); inserted {
			known = append(known, *item)
			fresh = append(fresh, *item)
		}
	}
	return s.insertMissing(ctx, fresh, len(existing))
}

// HandleSyncJob runs a queued vocabulary reconciliation. A job carrying a media id only
// looks at that item; any other job scans the whole catalogue.
func (s *NomenclatureService) HandleSyncJob(ctx context.Context, job jobs.Job) error {
	var (
		result *dto.NomenclatureSyncResult
		err    error
	)
	if mediaID, ok := job.Payload.(string); ok && mediaID != "" {
		result, err = s.SyncFromMedia(ctx, mediaID)
	} else {
		result, err = s.ReconcileAll(ctx)
	}
	if err != nil {
		return err
	}
	if result.Added > 0 {
		s.logger.Info("nomenclatures synced from media", zap.String("job_id", job.ID), zap.Int("added", result.Added))
	}
	return nil
}

func (s *NomenclatureService) insertMissing(ctx context.Context, items []models.Nomenclature, base int) (*dto.NomenclatureSyncResult, error) {
	if len(items) == 0 {
		return &dto.NomenclatureSyncResult{Added: 0, Total: base}, nil
	}
	added, err := s.repo.InsertMissing(ctx, items)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store nomenclatures")
	}
	if added > 0 {
		s.metrics.RecordNomenclatureSync(added)
		s.cache.InvalidateCatalog(ctx)
	}
	return &dto.NomenclatureSyncResult{Added: added, Total: base + added}, nil
}

func (s *NomenclatureService) fromRequest(req dto.NomenclatureRequest) (*models.Nomenclature, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	item := &models.Nomenclature{
		Label:          strings.TrimSpace(req.Label),
		Description:    strings.TrimSpace(req.Description),
		Interpretation: strings.TrimSpace(req.Interpretation),
	}
	if item.Label == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "label is required")
	}
	return item, nil
}

func (s *NomenclatureService) ensureUniqueLabel(ctx context.Context, label, excludeID string) error {
	exists, err := s.repo.ExistsByLabel(ctx, label, excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check label")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrDuplicate, "a nomenclature with this label already exists")
	}
	return nil
}
