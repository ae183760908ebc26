package upload

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"carrental/internal/pkg/apperr"
	"carrental/internal/pkg/logger"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const (
	MaxFileSize    = 10 * 1024 * 1024
	DefaultBaseDir = "./uploads"
	DefaultURLBase = "/static/uploads"
)

// Photos are the only thing the rental flows attach.
var allowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/heic": true,
}

type Service struct {
	repo    *Repository
	baseDir string
	urlBase string
	log     *logger.Logger
	now     func() time.Time
}

func NewService(repo *Repository, baseDir, urlBase string, log *logger.Logger) *Service {
	if baseDir == "" {
		baseDir = DefaultBaseDir
	}
	if urlBase == "" {
		urlBase = DefaultURLBase
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:    repo,
		baseDir: baseDir,
		urlBase: strings.TrimRight(urlBase, "/"),
		log:     log,
		now:     time.Now,
	}
}

// Upload sniffs the content, writes it under baseDir/YYYY/MM/DD and records it.
func (s *Service) Upload(ctx context.Context, userID uuid.UUID, fh *multipart.FileHeader) (*Upload, error) {
	if fh == nil {
		return nil, ErrNoFile
	}
	if fh.Size == 0 {
		return nil, ErrEmptyFile
	}
	if fh.Size > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return nil, apperr.Backend(err, "failed to open upload")
	}
	defer src.Close()

	mt, err := mimetype.DetectReader(src)
	if err != nil {
		return nil, apperr.Backend(err, "failed to read upload")
	}
	if !allowedMimeTypes[mt.String()] {
		return nil, ErrInvalidMimeType.WithDetails(map[string]string{"mime_type": mt.String()})
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, apperr.Backend(err, "failed to rewind upload")
	}

	now := s.now().UTC()
	id := uuid.New()
	relDir := path.Join(fmt.Sprintf("%04d", now.Year()), fmt.Sprintf("%02d", now.Month()), fmt.Sprintf("%02d", now.Day()))
	absDir := filepath.Join(s.baseDir, filepath.FromSlash(relDir))
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return nil, apperr.Backend(err, "failed to create upload directory")
	}

	name := fmt.Sprintf("%s_%s%s", id, sanitizeName(fh.Filename), mt.Extension())
	absPath := filepath.Join(absDir, name)
	dst, err := os.Create(absPath)
	if err != nil {
		return nil, apperr.Backend(err, "failed to create file")
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(absPath)
		return nil, apperr.Backend(err, "failed to write file")
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(absPath)
		return nil, apperr.Backend(err, "failed to write file")
	}

	relPath := path.Join(relDir, name)
	u := &Upload{
		ID:           id,
		UserID:       userID,
		OriginalName: fh.Filename,
		FilePath:     relPath,
		FileURL:      s.urlBase + "/" + relPath,
		MimeType:     mt.String(),
		Size:         fh.Size,
		CreatedAt:    now,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		_ = os.Remove(absPath)
		return nil, err
	}
	return u, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Upload, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListMine(ctx context.Context, userID uuid.UUID) ([]Upload, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Delete removes the record and then the file; a file that is already gone is not an error.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u.UserID != userID {
		return ErrNotOwner
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	abs := filepath.Join(s.baseDir, filepath.FromSlash(u.FilePath))
	if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
		s.log.Warn(s.log.WithField(ctx, "upload_id", id.String()), "failed to remove upload file", err)
	}
	return nil
}

func sanitizeName(name string) string {
	name = filepath.Base(name)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return '_'
	}, name)
	if len(name) > 40 {
		name = name[:40]
	}
	if name == "" || name == "_" {
		return "file"
	}
	return name
}
