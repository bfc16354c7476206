package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/synergo-api/internal/catalog"
	"github.com/noah-isme/synergo-api/internal/dto"
	"github.com/noah-isme/synergo-api/internal/models"
	appErrors "github.com/noah-isme/synergo-api/pkg/errors"
	"github.com/noah-isme/synergo-api/pkg/jobs"
)

const (
	defaultMediaPageSize = 50
	defaultSearchLimit   = 100

	// NomenclatureSyncJob reconciles the vocabulary with labels found on media.
	NomenclatureSyncJob = "nomenclature_sync"
)

type mediaRepository interface {
	List(ctx context.Context, filter models.MediaFilter) ([]models.Media, int, error)
	ListAll(ctx context.Context) ([]models.Media, error)
	FindByID(ctx context.Context, id string) (*models.Media, error)
	Create(ctx context.Context, item *models.Media) error
	Update(ctx context.Context, item *models.Media) error
	Delete(ctx context.Context, id string) error
	NextResourceNumber(ctx context.Context, datePrefix, source, subject string) (string, error)
}

type jobEnqueuer interface {
	Enqueue(job jobs.Job) error
}

type mediaListPage struct {
	Items []models.Media     `json:"items"`
	Page  *models.Pagination `json:"page"`
}

// MediaService manages the resource catalogue.
type MediaService struct {
	repo      mediaRepository
	queue     jobEnqueuer
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewMediaService constructs the service. queue and cache are optional.
func NewMediaService(repo mediaRepository, queue jobEnqueuer, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *MediaService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &MediaService{repo: repo, queue: queue, cache: cache, validator: validate, logger: logger, now: time.Now}
	if err := RegisterValidations(svc.validator); err != nil {
		logger.Error("register media validations", zap.Error(err))
	}
	return svc
}

// RegisterValidations adds the media-specific rules used by the request DTOs to v.
func RegisterValidations(v *validator.Validate) error {
	return v.RegisterValidation("mediatype", func(fl validator.FieldLevel) bool {
		return models.MediaType(fl.Field().String()).Valid()
	})
}

// List returns a page of media. The boolean reports a cache hit.
func (s *MediaService) List(ctx context.Context, query dto.MediaListQuery) ([]models.Media, *models.Pagination, bool, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, nil, false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid filter")
	}
	filter := models.MediaFilter{Type: models.MediaType(query.Type), Page: query.Page, PageSize: query.PageSize}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = defaultMediaPageSize
	}

	key := fmt.Sprintf("%smedia:list:%s:%d:%d", cacheKeyPrefix, filter.Type, filter.Page, filter.PageSize)
	var cached mediaListPage
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached.Items, cached.Page, true, nil
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list media")
	}
	if items == nil {
		items = []models.Media{}
	}
	page := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	_ = s.cache.Set(ctx, key, mediaListPage{Items: items, Page: page}, 0)
	return items, page, false, nil
}

// Get returns one media item.
func (s *MediaService) Get(ctx context.Context, id string) (*models.Media, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "media not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load media")
	}
	return item, nil
}

// Create catalogues a new resource.
func (s *MediaService) Create(ctx context.Context, req dto.CreateMediaRequest) (*models.Media, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	now := s.now().UnixMilli()
	item := &models.Media{
		ID:              uuid.NewString(),
		Type:            models.MediaType(req.Type),
		Title:           strings.TrimSpace(req.Title),
		Description:     strings.TrimSpace(req.Description),
		Src:             strings.TrimSpace(req.Src),
		Tags:            catalog.NormalizeTags(req.Tags),
		FPS:             req.FPS,
		AddedAt:         now,
		UpdatedAt:       now,
		Source:          strings.TrimSpace(req.Source),
		PublicationDate: strings.TrimSpace(req.PublicationDate),
	}
	annotations, err := toAnnotations(req.Annotations)
	if err != nil {
		return nil, err
	}
	item.Annotations = annotations
	if item.Title == "" || item.Src == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "title and src are required")
	}
	if item.FPS <= 0 {
		item.FPS = models.DefaultFPS
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create media")
	}
	s.afterWrite(ctx, item.ID)
	return item, nil
}

// Update applies a partial update and bumps the modification time.
func (s *MediaService) Update(ctx context.Context, id string, req dto.UpdateMediaRequest) (*models.Media, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Type != nil {
		item.Type = models.MediaType(*req.Type)
	}
	if req.Title != nil {
		item.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		item.Description = strings.TrimSpace(*req.Description)
	}
	if req.Src != nil {
		item.Src = strings.TrimSpace(*req.Src)
	}
	if req.Tags != nil {
		item.Tags = catalog.NormalizeTags(*req.Tags)
	}
	if req.Annotations != nil {
		annotations, err := toAnnotations(*req.Annotations)
		if err != nil {
			return nil, err
		}
		item.Annotations = annotations
	}
	if req.FPS != nil {
		item.FPS = *req.FPS
	}
	if req.Source != nil {
		item.Source = strings.TrimSpace(*req.Source)
	}
	if req.PublicationDate != nil {
		item.PublicationDate = strings.TrimSpace(*req.PublicationDate)
	}
	if item.Title == "" || item.Src == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "title and src are required")
	}

	updatedAt := s.now().UnixMilli()
	if updatedAt <= item.UpdatedAt {
		updatedAt = item.UpdatedAt + 1
	}
	item.UpdatedAt = updatedAt

	if err := s.repo.Update(ctx, item); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "media not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update media")
	}
	s.afterWrite(ctx, item.ID)
	return item, nil
}

// Delete removes a media item and its worklist memberships.
func (s *MediaService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "media not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete media")
	}
	s.cache.InvalidateCatalog(ctx)
	s.logger.Info("media deleted", zap.String("media_id", id))
	return nil
}

// Search combines type, category prefix, tag similarity and fuzzy text filters.
func (s *MediaService) Search(ctx context.Context, query dto.MediaSearchQuery) ([]models.Media, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid search")
	}
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load media")
	}
	limit := query.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	items = catalog.FilterByType(items, models.MediaType(query.Type))
	items = catalog.FilterByCategoryPrefix(items, strings.TrimSpace(query.Category))
	if tag := strings.TrimSpace(query.SimilarTo); tag != "" {
		items = catalog.FindSimilarByTag(tag, items, len(items))
	}
	items = catalog.FuzzySearch(items, query.Query, catalog.ParseSearchFields(query.Fields)...)

	if len(items) > limit {
		items = items[:limit]
	}
	if items == nil {
		items = []models.Media{}
	}
	return items, nil
}

// CategoryTree groups the hierarchical tags of the catalogue. The boolean reports a cache hit.
func (s *MediaService) CategoryTree(ctx context.Context) ([]catalog.CategoryNode, bool, error) {
	var cached []catalog.CategoryNode
	if hit, _ := s.cache.Get(ctx, categoryTreeCacheKey, &cached); hit {
		return cached, true, nil
	}
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load media")
	}
	tree := catalog.ExtractCategoryTree(items)
	_ = s.cache.Set(ctx, categoryTreeCacheKey, tree, 0)
	return tree, false, nil
}

// NextNumber suggests the next file name of a date/source/subject series.
func (s *MediaService) NextNumber(ctx context.Context, query dto.NextNumberQuery) (*dto.NextNumberResponse, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query")
	}
	source := sanitize(query.Source)
	subject := sanitize(query.Subject)
	if source == "" || subject == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "source and subject must contain letters or digits")
	}
	number, err := s.repo.NextResourceNumber(ctx, query.Date, source, subject)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute resource number")
	}
	return &dto.NextNumberResponse{
		Number:   number,
		Filename: strings.Join([]string{query.Date, source, subject, number}, "_"),
	}, nil
}

func (s *MediaService) afterWrite(ctx context.Context, mediaID string) {
	s.cache.InvalidateCatalog(ctx)
	if s.queue == nil {
		return
	}
	job := jobs.Job{ID: uuid.NewString(), Type: NomenclatureSyncJob, Key: NomenclatureSyncJob + ":" + mediaID, Payload: mediaID}
	if err := s.queue.Enqueue(job); err != nil {
		s.logger.Warn("enqueue nomenclature sync failed", zap.String("media_id", mediaID), zap.Error(err))
	}
}

func toAnnotations(reqs []dto.AnnotationRequest) (models.AnnotationList, error) {
	annotations := make(models.AnnotationList, 0, len(reqs))
	for _, a := range reqs {
		label := strings.TrimSpace(a.Label)
		if label == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "annotation label is required")
		}
		if a.Time < 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "annotation time must not be negative")
		}
		annotations = append(annotations, models.Annotation{Time: a.Time, Label: label})
	}
	return annotations, nil
}
