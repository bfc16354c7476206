package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/synergo-api/internal/catalog"
	"github.com/noah-isme/synergo-api/internal/dto"
	"github.com/noah-isme/synergo-api/internal/models"
	appErrors "github.com/noah-isme/synergo-api/pkg/errors"
	"github.com/noah-isme/synergo-api/pkg/storage"
)

type snapshotRepository interface {
	Export(ctx context.Context) (*models.DatabaseSnapshot, error)
	Import(ctx context.Context, snapshot *models.DatabaseSnapshot) error
	Reset(ctx context.Context) error
}

type vocabularyReconciler interface {
	ReconcileAll(ctx context.Context) (*dto.NomenclatureSyncResult, error)
}

type backupStorage interface {
	Save(name string, data []byte) (string, error)
	ReadFile(name string) ([]byte, error)
	List() ([]storage.FileInfo, error)
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type backupSigner interface {
	Generate(id, relPath string) (string, time.Time, error)
	Parse(token string, allowExpired bool) (id, relPath string, expiresAt time.Time, err error)
}

// DatabaseServiceConfig tunes backups.
type DatabaseServiceConfig struct {
	APIPrefix string
	Retention time.Duration
}

// BackupDownload is a backup file ready to stream.
type BackupDownload struct {
	Filename string
	Data     []byte
}

// DatabaseService exports, imports and backs up the whole store.
type DatabaseService struct {
	repo       snapshotRepository
	vocabulary vocabularyReconciler
	backups    backupStorage
	signer     backupSigner
	cache      *CacheService
	logger     *zap.Logger
	cfg        DatabaseServiceConfig
	now        func() time.Time
}

// NewDatabaseService constructs the service.
func NewDatabaseService(repo snapshotRepository, vocabulary vocabularyReconciler, backups backupStorage, signer backupSigner, cache *CacheService, logger *zap.Logger, cfg DatabaseServiceConfig) *DatabaseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = "/api/v1"
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 7 * 24 * time.Hour
	}
	return &DatabaseService{repo: repo, vocabulary: vocabulary, backups: backups, signer: signer, cache: cache, logger: logger, cfg: cfg, now: time.Now}
}

// Export returns the full content of the store.
func (s *DatabaseService) Export(ctx context.Context) (*models.DatabaseSnapshot, error) {
	snapshot, err := s.repo.Export(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to export database")
	}
	return snapshot, nil
}

// Import replaces the store with snapshot, then derives missing vocabulary from its media.
func (s *DatabaseService) Import(ctx context.Context, snapshot *models.DatabaseSnapshot) (*dto.DatabaseResetResponse, error) {
	if err := normalizeSnapshot(snapshot); err != nil {
		return nil, err
	}
	if err := s.repo.Import(ctx, snapshot); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to import database")
	}
	s.cache.InvalidateCatalog(ctx)

	total := len(snapshot.Nomenclatures)
	if s.vocabulary != nil {
		result, err := s.vocabulary.ReconcileAll(ctx)
		if err != nil {
			return nil, err
		}
		total = result.Total
	}
	s.logger.Info("database imported", zap.Int("media", len(snapshot.Media)), zap.Int("nomenclatures", total))
	return &dto.DatabaseResetResponse{Media: len(snapshot.Media), Nomenclatures: total}, nil
}

// Reset deletes all content.
func (s *DatabaseService) Reset(ctx context.Context) (*dto.DatabaseResetResponse, error) {
	if err := s.repo.Reset(ctx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reset database")
	}
	s.cache.InvalidateCatalog(ctx)
	s.logger.Warn("database reset")
	return &dto.DatabaseResetResponse{}, nil
}

// Backup writes a snapshot file and returns a signed download link.
func (s *DatabaseService) Backup(ctx context.Context) (*models.BackupFile, error) {
	snapshot, err := s.Export(ctx)
	if err != nil {
		return nil, err
	}
	payload, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode backup")
	}

	id := uuid.NewString()
	filename := fmt.Sprintf("synergo_backup_%s_%s.json", s.now().UTC().Format("20060102_150405"), id[:8])
	relPath, err := s.backups.Save(filename, payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to write backup")
	}
	token, expiresAt, err := s.signer.Generate(id, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign backup link")
	}

	s.logger.Info("database backup written", zap.String("filename", relPath), zap.Int("bytes", len(payload)))
	return &models.BackupFile{
		ID:          id,
		Filename:    relPath,
		Size:        int64(len(payload)),
		Token:       token,
		DownloadURL: fmt.Sprintf("%s/database/backups/download?token=%s", strings.TrimRight(s.cfg.APIPrefix, "/"), url.QueryEscape(token)),
		ExpiresAt:   expiresAt.UnixMilli(),
	}, nil
}

// Download resolves a signed token to its backup file.
func (s *DatabaseService) Download(ctx context.Context, token string) (*BackupDownload, error) {
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		if errors.Is(err, storage.ErrTokenExpired) {
			return nil, appErrors.Clone(appErrors.ErrInvalidToken, "download link expired")
		}
		return nil, appErrors.Clone(appErrors.ErrInvalidToken, "")
	}
	data, err := s.backups.ReadFile(relPath)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "backup not found")
	}
	return &BackupDownload{Filename: relPath, Data: data}, nil
}

// ListBackups returns stored backup files.
func (s *DatabaseService) ListBackups(ctx context.Context) ([]storage.FileInfo, error) {
	files, err := s.backups.List()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list backups")
	}
	return files, nil
}

// CleanupBackups removes backups older than the retention period.
func (s *DatabaseService) CleanupBackups(ctx context.Context) ([]string, error) {
	removed, err := s.backups.CleanupOlderThan(s.cfg.Retention)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clean backups")
	}
	if len(removed) > 0 {
		s.logger.Info("old backups removed", zap.Strings("files", removed))
	}
	return removed, nil
}

// RunBackupCleanup calls CleanupBackups every interval until ctx is done.
func (s *DatabaseService) RunBackupCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.CleanupBackups(ctx); err != nil {
				s.logger.Warn("backup cleanup failed", zap.Error(err))
			}
		}
	}
}

func normalizeSnapshot(snapshot *models.DatabaseSnapshot) error {
	if snapshot == nil {
		return appErrors.Clone(appErrors.ErrValidation, "snapshot is required")
	}
	seen := make(map[string]struct{}, len(snapshot.Media))
	for i := range snapshot.Media {
		m := &snapshot.Media[i]
		if strings.TrimSpace(m.ID) == "" || strings.TrimSpace(m.Title) == "" {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("media #%d needs an id and a title", i))
		}
		if !m.Type.Valid() {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("media %s has an unknown type", m.ID))
		}
		if _, dup := seen[m.ID]; dup {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("media %s appears twice", m.ID))
		}
		seen[m.ID] = struct{}{}
		m.Tags = catalog.NormalizeTags(m.Tags)
		if m.Annotations == nil {
			m.Annotations = models.AnnotationList{}
		}
		if m.FPS <= 0 {
			m.FPS = models.DefaultFPS
		}
		if m.UpdatedAt < m.AddedAt {
			m.UpdatedAt = m.AddedAt
		}
	}
	for i := range snapshot.Nomenclatures {
		n := &snapshot.Nomenclatures[i]
		n.Label = strings.TrimSpace(n.Label)
		if n.Label == "" {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("nomenclature #%d has an empty label", i))
		}
		if n.ID == "" {
			n.ID = uuid.NewString()
		}
	}
	return nil
}
