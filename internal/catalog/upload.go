// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"folio/internal/imaging"
	"folio/internal/models"
	"folio/internal/slug"
	"folio/internal/variant"
)

// MaxImageSize caps cover and gallery uploads.
const MaxImageSize = 10 << 20

var (
	// ErrUnsupportedType is returned for uploads that are neither a product
	// image nor a digital format file.
	ErrUnsupportedType = errors.New("catalog: unsupported file type")

	// ErrTooLarge is returned for uploads above the size limit of their type.
	ErrTooLarge = errors.New("catalog: file too large")
)

// imageTypes are the image types accepted for product media.
var imageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// documentTypes are the e-book file types accepted for digital formats.
var documentTypes = map[string]bool{
	"application/pdf":      true,
	"application/epub+zip": true,
}

// StageUpload stores an uploaded file under staging/ and returns the
// reference a draft attaches to a media item or a digital format. The
// content type is sniffed from the bytes; the client's claim is ignored.
// Raster images also get a JPEG thumbnail.
func (s *Service) StageUpload(ctx context.Context, name string, body io.Reader) (*models.FileRef, error) {
	if s.objects == nil {
		return nil, ErrStorageDisabled
	}

	limit := max(int64(MaxImageSize), s.maxFileSize())
	data, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	mtype := mimetype.Detect(data)
	contentType := baseType(mtype.String())
	if err := s.checkUpload(contentType, int64(len(data))); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	fileID := uuid.NewString()
	base := strings.TrimSuffix(slug.FileName(name), path.Ext(slug.FileName(name)))
	key := fmt.Sprintf("staging/%d/%02d/%s-%s%s", now.Year(), now.Month(), fileID, base, mtype.Extension())

	bucket := s.objects.BucketFor(contentType)
	if err := s.objects.Upload(ctx, bucket, key, contentType, bytes.NewReader(data), int64(len(data))); err != nil {
		return nil, fmt.Errorf("stage upload: %w", err)
	}

	ref := &models.FileRef{
		Key:         key,
		Name:        strings.TrimSpace(path.Base(strings.ReplaceAll(name, "\\", "/"))),
		ContentType: contentType,
		Size:        int64(len(data)),
	}

	if imaging.Thumbable(contentType) {
		thumb, err := imaging.Thumbnail(bytes.NewReader(data), imaging.ThumbMaxWidth)
		if err != nil {
			slog.Warn("thumbnail generation failed", "error", err, "key", key)
		} else if thumb != nil {
			tk := fmt.Sprintf("staging/%d/%02d/%s_thumb.jpg", now.Year(), now.Month(), fileID)
			if err := s.objects.Upload(ctx, s.objects.PublicBucket(), tk, "image/jpeg", bytes.NewReader(thumb), int64(len(thumb))); err != nil {
				slog.Warn("thumbnail upload failed", "error", err, "key", tk)
			} else {
				ref.ThumbKey = tk
			}
		}
	}

	slog.Info("upload staged", "key", key, "content_type", contentType, "size", ref.Size)
	return ref, nil
}

// checkUpload enforces the accepted types and their size limits.
func (s *Service) checkUpload(contentType string, size int64) error {
	switch {
	case imageTypes[contentType]:
		if size > MaxImageSize {
			return fmt.Errorf("%w: images must not exceed %d MB", ErrTooLarge, MaxImageSize>>20)
		}
	case documentTypes[contentType], strings.HasPrefix(contentType, "audio/"):
		if size > s.maxFileSize() {
			return fmt.Errorf("%w: files must not exceed %d MB", ErrTooLarge, s.maxFileSize()>>20)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
	return nil
}

func (s *Service) maxFileSize() int64 {
	if s.rules.MaxFileSize > 0 {
		return s.rules.MaxFileSize
	}
	return variant.DefaultMaxFileSize
}

// baseType strips parameters such as charset from a MIME type.
func baseType(contentType string) string {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}
