package main

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/synergo-api/internal/quiz"
	"github.com/noah-isme/synergo-api/internal/repository"
	"github.com/noah-isme/synergo-api/internal/service"
	"github.com/noah-isme/synergo-api/pkg/cache"
	"github.com/noah-isme/synergo-api/pkg/config"
	"github.com/noah-isme/synergo-api/pkg/database"
	"github.com/noah-isme/synergo-api/pkg/jobs"
	"github.com/noah-isme/synergo-api/pkg/logger"
	"github.com/noah-isme/synergo-api/pkg/storage"
)

// app holds the wired dependencies shared by the commands.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *sqlx.DB
	redis  *redis.Client
	queue  *jobs.Queue

	metrics       *service.MetricsService
	media         *service.MediaService
	nomenclatures *service.NomenclatureService
	worklists     *service.WorklistService
	statistics    *service.StatisticsService
	quiz          *service.QuizService
	uploads       *service.UploadService
	database      *service.DatabaseService
	exports       *service.ExportService
}

// loadConfig reads configuration and builds the logger.
func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, logr, nil
}

// openDatabase connects and applies pending migrations.
func openDatabase(cfg *config.Config, logr *zap.Logger) (*sqlx.DB, error) {
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := database.Migrate(db, cfg.Database.Driver, logr); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func newApp(cfg *config.Config, logr *zap.Logger) (*app, error) {
	db, err := openDatabase(cfg, logr)
	if err != nil {
		return nil, err
	}
	redisClient, err := cache.NewRedis(cfg.Redis, logr)
	if err != nil {
		logr.Warn("redis unavailable, using in-process stores", zap.Error(err))
		redisClient = nil
	}

	a := &app{cfg: cfg, logger: logr, db: db, redis: redisClient}
	if cfg.Metrics.Enabled {
		a.metrics = service.NewMetricsService()
	}

	validate := validator.New()
	if err := service.RegisterValidations(validate); err != nil {
		return nil, fmt.Errorf("register validations: %w", err)
	}
	mediaRepo := repository.NewMediaRepository(db)
	nomenclatureRepo := repository.NewNomenclatureRepository(db)
	worklistRepo := repository.NewWorklistRepository(db)
	snapshotRepo := repository.NewSnapshotRepository(db)

	cacheSvc := service.NewCacheService(repository.NewCacheRepository(redisClient, logr), a.metrics, cfg.Cache.TTL, logr, redisClient != nil)

	a.nomenclatures = service.NewNomenclatureService(nomenclatureRepo, mediaRepo, cacheSvc, a.metrics, validate, logr)
	a.queue = jobs.NewQueue("nomenclature-sync", a.nomenclatures.HandleSyncJob, jobs.QueueConfig{
		Workers:    cfg.Sync.Workers,
		MaxRetries: cfg.Sync.Retries,
		RetryDelay: time.Second,
		Logger:     logr,
	})
	a.media = service.NewMediaService(mediaRepo, a.queue, cacheSvc, validate, logr)
	a.worklists = service.NewWorklistService(worklistRepo, mediaRepo, cacheSvc, validate, logr)
	a.statistics = service.NewStatisticsService(mediaRepo, nomenclatureRepo, worklistRepo, cacheSvc, logr)

	var sessions service.QuizSessionStore
	if redisClient != nil {
		sessions = repository.NewQuizSessionRepository(redisClient, cfg.Quiz.SessionTTL)
	}
	a.quiz = service.NewQuizService(worklistRepo, nomenclatureRepo, sessions, quiz.NewGenerator(nil), a.metrics, validate, logr, service.QuizConfig{
		DefaultQuestions: cfg.Quiz.DefaultQuestions,
		MaxQuestions:     cfg.Quiz.MaxQuestions,
		SessionTTL:       cfg.Quiz.SessionTTL,
	})

	resources, err := storage.NewLocalStorage(cfg.Uploads.ResourcesDir)
	if err != nil {
		a.close()
		return nil, err
	}
	a.uploads = service.NewUploadService(resources, logr, service.UploadServiceConfig{
		MaxFileSize:  cfg.Uploads.MaxFileSizeBytes,
		AllowedMIMEs: cfg.Uploads.AllowedMIMEs,
		PublicPrefix: "/resources",
	})

	backups, err := storage.NewLocalStorage(cfg.Backups.StorageDir)
	if err != nil {
		a.close()
		return nil, err
	}
	signer := storage.NewSignedURLSigner(cfg.Backups.SignedURLSecret, cfg.Backups.SignedURLTTL)
	a.database = service.NewDatabaseService(snapshotRepo, a.nomenclatures, backups, signer, cacheSvc, logr, service.DatabaseServiceConfig{
		APIPrefix: cfg.APIPrefix,
		Retention: cfg.Backups.Retention,
	})
	a.exports = service.NewExportService(nomenclatureRepo, logr)
	return a, nil
}

// start launches background workers bound to ctx.
func (a *app) start(ctx context.Context) {
	a.queue.Start(ctx)
	go a.database.RunBackupCleanup(ctx, a.cfg.Backups.CleanupInterval)
}

func (a *app) close() {
	if a.queue != nil {
		a.queue.Stop()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}
