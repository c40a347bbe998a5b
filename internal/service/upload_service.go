package service

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/guidely/guidely-backend/internal/config"
	"github.com/guidely/guidely-backend/internal/model"
)

// Sentinel errors for uploads.
var (
	ErrNoFiles             = errors.New("no files in upload")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
)

// Allowed attachment MIME types.
var allowedMIMETypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

// UploadService stores guide attachments on local disk.
type UploadService struct {
	cfg *config.Config
	log zerolog.Logger
}

// NewUploadService creates a new UploadService.
func NewUploadService(cfg *config.Config, log zerolog.Logger) *UploadService {
	return &UploadService{
		cfg: cfg,
		log: log.With().Str("component", "upload_service").Logger(),
	}
}

// SaveBatch stores every file in the batch or none of them. All headers are
// validated before the first byte is written; if any write fails the files
// already written for this batch are removed.
func (s *UploadService) SaveBatch(headers []*multipart.FileHeader) (*model.UploadResult, error) {
	if len(headers) == 0 {
		return nil, ErrNoFiles
	}

	for _, header := range headers {
		if err := s.validateHeader(header); err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	result := &model.UploadResult{URLs: make([]string, 0, len(headers))}
	written := make([]string, 0, len(headers))

	for _, header := range headers {
		destPath, url, err := s.saveOne(header)
		if err != nil {
			s.rollback(written)
			return nil, err
		}
		written = append(written, destPath)
		result.URLs = append(result.URLs, url)
		result.Count++
		result.TotalBytes += header.Size
	}

	s.log.Info().
		Int("count", result.Count).
		Int64("total_bytes", result.TotalBytes).
		Msg("Upload batch stored")
	return result, nil
}

func (s *UploadService) validateHeader(header *multipart.FileHeader) error {
	contentType := header.Header.Get("Content-Type")
	if _, ok := allowedMIMETypes[contentType]; !ok {
		return fmt.Errorf("%w: %s (allowed: %s)",
			ErrUnsupportedFileType, contentType, strings.Join(allowedTypes(), ", "))
	}
	if header.Size > s.cfg.MaxUploadBytes {
		return fmt.Errorf("%w: %d bytes (max: %d)", ErrFileTooLarge, header.Size, s.cfg.MaxUploadBytes)
	}
	return nil
}

// saveOne writes a single file under a UUID filename and returns the path on
// disk plus the public URL.
func (s *UploadService) saveOne(header *multipart.FileHeader) (string, string, error) {
	src, err := header.Open()
	if err != nil {
		return "", "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	ext := allowedMIMETypes[header.Header.Get("Content-Type")]
	filename := uuid.New().String() + ext
	destPath := filepath.Join(s.cfg.UploadDir, filename)

	dst, err := os.Create(destPath)
	if err != nil {
		return "", "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(destPath)
		return "", "", fmt.Errorf("write file: %w", err)
	}

	return destPath, "/uploads/" + filename, nil
}

func (s *UploadService) rollback(paths []string) {
	for _, p := range paths {
		if err := os.Remove(p); err != nil {
			s.log.Warn().Err(err).Str("path", p).Msg("Failed to remove partial upload")
		}
	}
}

func allowedTypes() []string {
	types := make([]string, 0, len(allowedMIMETypes))
	for t := range allowedMIMETypes {
		types = append(types, t)
	}
	return types
}
