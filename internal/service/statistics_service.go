package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/synergo-api/internal/catalog"
	"github.com/noah-isme/synergo-api/internal/models"
	appErrors "github.com/noah-isme/synergo-api/pkg/errors"
)

type nomenclatureLister interface {
	List(ctx context.Context) ([]models.Nomenclature, error)
}

type worklistCounter interface {
	Count(ctx context.Context, kind models.WorklistKind) (int, error)
}

// StatisticsService summarises the catalogue.
type StatisticsService struct {
	media         mediaLister
	nomenclatures nomenclatureLister
	worklists     worklistCounter
	cache         *CacheService
	logger        *zap.Logger
}

// NewStatisticsService constructs the service.
func NewStatisticsService(media mediaLister, nomenclatures nomenclatureLister, worklists worklistCounter, cache *CacheService, logger *zap.Logger) *StatisticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatisticsService{media: media, nomenclatures: nomenclatures, worklists: worklists, cache: cache, logger: logger}
}

// Get computes the statistics or serves them from cache. The boolean reports a cache hit.
func (s *StatisticsService) Get(ctx context.Context) (*models.Statistics, bool, error) {
	var cached models.Statistics
	if hit, _ := s.cache.Get(ctx, statisticsCacheKey, &cached); hit {
		return &cached, true, nil
	}

	media, err := s.media.ListAll(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load media")
	}
	nomenclatures, err := s.nomenclatures.List(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list nomenclatures")
	}

	stats := catalog.ComputeStatistics(media, nomenclatures)
	if s.worklists != nil {
		if stats.ReviewListSize, err = s.worklists.Count(ctx, models.WorklistReview); err != nil {
			return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count review list")
		}
		if stats.QuizListSize, err = s.worklists.Count(ctx, models.WorklistQuiz); err != nil {
			return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count quiz list")
		}
	}

	if err := s.cache.Set(ctx, statisticsCacheKey, stats, 0); err != nil {
		s.logger.Debug("statistics not cached", zap.Error(err))
	}
	return &stats, false, nil
}
