package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/synergo-api/internal/dto"
	"github.com/noah-isme/synergo-api/internal/models"
	appErrors "github.com/noah-isme/synergo-api/pkg/errors"
)

type worklistRepository interface {
	List(ctx context.Context, kind models.WorklistKind) ([]models.WorklistItem, error)
	Add(ctx context.Context, kind models.WorklistKind, entry models.WorklistEntry) (bool, error)
	Remove(ctx context.Context, kind models.WorklistKind, mediaID string) (bool, error)
	Clear(ctx context.Context, kind models.WorklistKind) (int, error)
	Count(ctx context.Context, kind models.WorklistKind) (int, error)
}

type mediaExistenceChecker interface {
	ExistingIDs(ctx context.Context, ids []string) (map[string]bool, error)
}

// WorklistService manages the review and quiz lists.
type WorklistService struct {
	repo      worklistRepository
	media     mediaExistenceChecker
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewWorklistService constructs the service.
func NewWorklistService(repo worklistRepository, media mediaExistenceChecker, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *WorklistService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorklistService{repo: repo, media: media, cache: cache, validator: validate, logger: logger, now: time.Now}
}

// List returns the media of a list, most recently listed first.
func (s *WorklistService) List(ctx context.Context, kind models.WorklistKind) ([]models.WorklistItem, error) {
	if err := validateKind(kind); err != nil {
		return nil, err
	}
	items, err := s.repo.List(ctx, kind)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list worklist")
	}
	if items == nil {
		items = []models.WorklistItem{}
	}
	return items, nil
}

// Add lists a media item. Adding an item twice is not an error; Added is false the second time.
func (s *WorklistService) Add(ctx context.Context, kind models.WorklistKind, req dto.AddWorklistRequest) (*dto.WorklistAddResponse, error) {
	if err := validateKind(kind); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	mediaID := strings.TrimSpace(req.MediaID)
	found, err := s.media.ExistingIDs(ctx, []string{mediaID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load media")
	}
	if !found[mediaID] {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "media not found")
	}
	added, err := s.repo.Add(ctx, kind, models.WorklistEntry{MediaID: mediaID, AddedAt: s.now().UnixMilli()})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add to worklist")
	}
	if added {
		s.invalidate(ctx)
	}
	return &dto.WorklistAddResponse{MediaID: mediaID, Added: added}, nil
}

// BulkAdd lists up to models.MaxBulkWorklistAdd items, reporting each id as added,
// already listed or missing. Later ids are listed as more recent.
func (s *WorklistService) BulkAdd(ctx context.Context, kind models.WorklistKind, req dto.BulkAddWorklistRequest) (*models.BulkAddResult, error) {
	if err := validateKind(kind); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	if len(req.MediaIDs) > models.MaxBulkWorklistAdd {
		return nil, appErrors.Clone(appErrors.ErrValidation, "too many media ids")
	}

	ids := make([]string, 0, len(req.MediaIDs))
	seen := make(map[string]struct{}, len(req.MediaIDs))
	for _, raw := range req.MediaIDs {
		id := strings.TrimSpace(raw)
		if _, dup := seen[id]; dup || id == "" {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	found, err := s.media.ExistingIDs(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load media")
	}

	result := &models.BulkAddResult{Added: []string{}, Existing: []string{}, Missing: []string{}}
	base := s.now().UnixMilli()
	for i, id := range ids {
		if !found[id] {
			result.Missing = append(result.Missing, id)
			continue
		}
		added, err := s.repo.Add(ctx, kind, models.WorklistEntry{MediaID: id, AddedAt: base + int64(i)})
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add to worklist")
		}
		if added {
			result.Added = append(result.Added, id)
		} else {
			result.Existing = append(result.Existing, id)
		}
	}
	if len(result.Added) > 0 {
		s.invalidate(ctx)
	}
	return result, nil
}

// Remove unlists a media item.
func (s *WorklistService) Remove(ctx context.Context, kind models.WorklistKind, mediaID string) error {
	if err := validateKind(kind); err != nil {
		return err
	}
	removed, err := s.repo.Remove(ctx, kind, mediaID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove from worklist")
	}
	if !removed {
		return appErrors.Clone(appErrors.ErrNotFound, "media is not in this list")
	}
	s.invalidate(ctx)
	return nil
}

// Clear empties a list.
func (s *WorklistService) Clear(ctx context.Context, kind models.WorklistKind) (*dto.WorklistClearResponse, error) {
	if err := validateKind(kind); err != nil {
		return nil, err
	}
	removed, err := s.repo.Clear(ctx, kind)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear worklist")
	}
	s.invalidate(ctx)
	s.logger.Info("worklist cleared", zap.String("kind", string(kind)), zap.Int("removed", removed))
	return &dto.WorklistClearResponse{Removed: removed}, nil
}

func (s *WorklistService) invalidate(ctx context.Context) {
	_ = s.cache.Invalidate(ctx, statisticsCacheKey)
}

func validateKind(kind models.WorklistKind) error {
	if !kind.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "unknown list; use review or quiz")
	}
	return nil
}
