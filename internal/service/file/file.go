// Package file handles uploads of session result documents. Only PDFs are
// accepted; the stored object is private and served through presigned URLs.
package file

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/ceprunsa/consultorio_backend/config"
	"github.com/ceprunsa/consultorio_backend/internal/model"
	s3pkg "github.com/ceprunsa/consultorio_backend/pkg/s3"
)

var (
	ErrNotPDF    = errors.New("only PDF files are accepted")
	ErrTooLarge  = errors.New("file exceeds the upload size limit")
	ErrEmptyFile = errors.New("uploaded file is empty")
)

const defaultMaxUploadMB = 10

type Service interface {
	// UploadDocument stores a session result PDF and returns the document
	// record to attach to the appointment.
	UploadDocument(ctx context.Context, actor model.Actor, appointmentID string, fh *multipart.FileHeader) (*model.Document, error)
	// DownloadURL returns a short-lived presigned URL for a stored document.
	DownloadURL(ctx context.Context, doc *model.Document) (string, error)
	// Remove deletes the stored object. Best effort; callers log failures
	// instead of failing the operation that triggered the cleanup.
	Remove(ctx context.Context, doc *model.Document) error
}

type fileService struct {
	bucket   *s3pkg.Bucket
	maxBytes int64
	now      func() string
}

func New(bucket *s3pkg.Bucket, cfg config.StorageConfig) Service {
	maxMB := cfg.MaxUploadMB
	if maxMB <= 0 {
		maxMB = defaultMaxUploadMB
	}
	return &fileService{
		bucket:   bucket,
		maxBytes: int64(maxMB) * 1024 * 1024,
		now:      model.NowISO,
	}
}

func (s *fileService) UploadDocument(ctx context.Context, actor model.Actor, appointmentID string, fh *multipart.FileHeader) (*model.Document, error) {
	if fh.Size == 0 {
		return nil, ErrEmptyFile
	}
	if fh.Size > s.maxBytes {
		return nil, ErrTooLarge
	}

	mime := fh.Header.Get("Content-Type")
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if mime != "application/pdf" && ext != ".pdf" {
		return nil, ErrNotPDF
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	id := uuid.NewString()
	key := fmt.Sprintf("appointments/%s/%s.pdf", appointmentID, id)
	if err := s.bucket.Put(ctx, key, "application/pdf", src, fh.Size); err != nil {
		return nil, fmt.Errorf("store document: %w", err)
	}

	return &model.Document{
		ID:           id,
		FileName:     id + ".pdf",
		OriginalName: fh.Filename,
		Key:          key,
		Size:         fh.Size,
		MimeType:     "application/pdf",
		UploadedAt:   s.now(),
		UploadedBy:   actor.AuditEmail(),
	}, nil
}

func (s *fileService) DownloadURL(ctx context.Context, doc *model.Document) (string, error) {
	if doc == nil || doc.Key == "" {
		return "", fmt.Errorf("document has no stored object")
	}
	return s.bucket.SignedGetURL(ctx, doc.Key)
}

func (s *fileService) Remove(ctx context.Context, doc *model.Document) error {
	if doc == nil || doc.Key == "" {
		return nil
	}
	return s.bucket.Remove(ctx, doc.Key)
}
