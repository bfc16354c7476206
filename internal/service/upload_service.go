package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/synergo-api/internal/models"
	appErrors "github.com/noah-isme/synergo-api/pkg/errors"
	"github.com/noah-isme/synergo-api/pkg/storage"
)

type resourceStorage interface {
	SaveStream(name string, r io.Reader, limit int64) (int64, error)
	Exists(name string) bool
	List() ([]storage.FileInfo, error)
}

// ResourceUpload carries an uploaded file. Name optionally fixes the stored file stem.
type ResourceUpload struct {
	Filename string
	Name     string
	Size     int64
	MimeType string
	Content  io.ReadSeeker
}

// UploadServiceConfig holds ingestion limits.
type UploadServiceConfig struct {
	MaxFileSize  int64
	AllowedMIMEs []string
	PublicPrefix string
}

// UploadService stores media files under the public resources directory.
type UploadService struct {
	storage resourceStorage
	logger  *zap.Logger
	cfg     UploadServiceConfig
	mimeSet map[string]struct{}
	now     func() time.Time
}

// NewUploadService constructs the service with defaults.
func NewUploadService(storage resourceStorage, logger *zap.Logger, cfg UploadServiceConfig) *UploadService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = 100 * 1024 * 1024
	}
	if len(cfg.AllowedMIMEs) == 0 {
		cfg.AllowedMIMEs = []string{"image/jpeg", "image/png", "image/gif", "image/webp", "video/mp4", "video/webm", "video/ogg", "video/quicktime"}
	}
	if cfg.PublicPrefix == "" {
		cfg.PublicPrefix = "/resources"
	}
	mimeSet := make(map[string]struct{}, len(cfg.AllowedMIMEs))
	for _, mt := range cfg.AllowedMIMEs {
		mimeSet[strings.ToLower(mt)] = struct{}{}
	}
	return &UploadService{storage: storage, logger: logger, cfg: cfg, mimeSet: mimeSet, now: time.Now}
}

// Upload validates and stores a resource file.
func (s *UploadService) Upload(ctx context.Context, upload ResourceUpload) (*models.UploadedFile, error) {
	if upload.Size > s.cfg.MaxFileSize {
		return nil, appErrors.Clone(appErrors.ErrFileTooLarge, fmt.Sprintf("file exceeds %d bytes", s.cfg.MaxFileSize))
	}
	mimeType, err := s.detectMime(upload)
	if err != nil {
		return nil, err
	}
	if _, ok := s.mimeSet[mimeType]; !ok {
		return nil, appErrors.Clone(appErrors.ErrUnsupportedMedia, fmt.Sprintf("file type %s not allowed", mimeType))
	}

	filename := s.filename(upload, mimeType)
	if s.storage.Exists(filename) {
		return nil, appErrors.Clone(appErrors.ErrDuplicate, fmt.Sprintf("a resource named %s already exists", filename))
	}
	size, err := s.storage.SaveStream(filename, upload.Content, s.cfg.MaxFileSize)
	if err != nil {
		if errors.Is(err, storage.ErrTooLarge) {
			return nil, appErrors.Clone(appErrors.ErrFileTooLarge, fmt.Sprintf("file exceeds %d bytes", s.cfg.MaxFileSize))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store file")
	}

	s.logger.Info("resource uploaded", zap.String("filename", filename), zap.Int64("size", size), zap.String("mime_type", mimeType))
	return &models.UploadedFile{
		Filename:     filename,
		OriginalName: upload.Filename,
		Size:         size,
		MimeType:     mimeType,
		URL:          s.publicURL(filename),
	}, nil
}

// ListFiles returns the stored resources sorted by name.
func (s *UploadService) ListFiles(ctx context.Context) ([]models.UploadedFile, error) {
	infos, err := s.storage.List()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list resources")
	}
	files := make([]models.UploadedFile, 0, len(infos))
	for _, info := range infos {
		mimeType := mime.TypeByExtension(filepath.Ext(info.Name))
		if i := strings.Index(mimeType, ";"); i >= 0 {
			mimeType = mimeType[:i]
		}
		files = append(files, models.UploadedFile{
			Filename: info.Name,
			Size:     info.Size,
			MimeType: mimeType,
			URL:      s.publicURL(info.Name),
		})
	}
	return files, nil
}

func (s *UploadService) detectMime(upload ResourceUpload) (string, error) {
	if upload.Content == nil {
		return "", appErrors.Clone(appErrors.ErrValidation, "file reader missing")
	}
	declared := strings.ToLower(strings.TrimSpace(upload.MimeType))
	if i := strings.Index(declared, ";"); i >= 0 {
		declared = strings.TrimSpace(declared[:i])
	}
	if declared != "" && declared != "application/octet-stream" {
		return declared, nil
	}
	header := make([]byte, 512)
	n, err := upload.Content.Read(header)
	if err != nil && err != io.EOF {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to inspect file")
	}
	if _, err := upload.Content.Seek(0, io.SeekStart); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reset upload stream")
	}
	if n == 0 {
		return "", appErrors.Clone(appErrors.ErrValidation, "empty file")
	}
	return http.DetectContentType(header[:n]), nil
}

func (s *UploadService) filename(upload ResourceUpload, mimeType string) string {
	ext := strings.ToLower(filepath.Ext(upload.Filename))
	if ext == "" {
		ext = mimeExtension(mimeType)
	}
	if ext == "" {
		ext = ".bin"
	}
	if stem := sanitize(strings.TrimSuffix(upload.Name, filepath.Ext(upload.Name))); stem != "" {
		return stem + ext
	}
	return fmt.Sprintf("resource_%d_%s%s", s.now().Unix(), randomSuffix(), ext)
}

func (s *UploadService) publicURL(filename string) string {
	return strings.TrimRight(s.cfg.PublicPrefix, "/") + "/" + filename
}

// sanitize lowercases raw and replaces everything but letters and digits with underscores.
func sanitize(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	var b strings.Builder
	for _, r := range raw {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "_")
}

func mimeExtension(mimeType string) string {
	switch strings.ToLower(mimeType) {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "video/mp4":
		return ".mp4"
	case "video/webm":
		return ".webm"
	case "video/ogg":
		return ".ogv"
	case "video/quicktime":
		return ".mov"
	default:
		return ""
	}
}

func randomSuffix() string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}
