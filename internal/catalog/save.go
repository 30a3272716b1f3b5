// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"folio/internal/editor"
	"folio/internal/events"
	"folio/internal/media"
	"folio/internal/models"
	"folio/internal/slug"
	"folio/internal/store"
)

// storedObject is an object this service wrote or must remove.
type storedObject struct {
	bucket string
	key    string
}

// promotion tracks the objects copied out of staging for one save.
type promotion struct {
	copied []storedObject
	staged []storedObject
}

// SaveProduct applies a save command: staged files are copied to their
// product location, then every row is written in one transaction. Objects
// released by the save are removed afterwards on a best-effort basis. A
// new product gets its id assigned into cmd.ProductID.
func (s *Service) SaveProduct(ctx context.Context, cmd *editor.SaveCommand) error {
	rec := &store.ProductRecord{
		ID:          cmd.ProductID,
		Title:       cmd.Title,
		Description: cmd.Description,
		CategoryID:  cmd.CategoryID,
		PublisherID: cmd.PublisherID,
		AuthorIDs:   cmd.AuthorIDs,
		SEO:         cmd.SEO,
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
		rec.IsNew = true
	} else if _, err := uuid.Parse(rec.ID); err != nil {
		return ErrNotFound
	}
	rec.Slug = productSlug(rec.Title, rec.ID)

	var p promotion
	formats, err := s.promoteFormats(ctx, rec.ID, cmd.Formats, &p)
	if err == nil {
		rec.Formats = formats
		rec.Media, err = s.promoteMedia(ctx, rec.ID, cmd.Media, &p)
	}
	if err != nil {
		s.removeObjects(ctx, p.copied)
		return err
	}

	res, err := s.products.Save(ctx, rec)
	if err != nil {
		s.removeObjects(ctx, p.copied)
		if errors.Is(err, store.ErrStale) {
			return fmt.Errorf("%w: %v", ErrConflict, err)
		}
		return fmt.Errorf("save product: %w", err)
	}
	cmd.ProductID = res.ProductID

	s.removeObjects(ctx, p.staged)
	s.removeObjects(ctx, s.releasedObjects(res, rec.Formats))

	summary := media.Summarize(cmd.Media)
	ev := events.New(events.TypeProductSaved, events.ProductSaved{
		ProductID:     res.ProductID,
		CategoryID:    cmd.CategoryID,
		CategoryPath:  cmd.CategoryPath,
		FormatIDs:     res.FormatIDs,
		MediaCreated:  summary.Create,
		MediaDeleted:  summary.Delete,
		MediaRetained: summary.Keep,
	})
	if err := s.events.Publish(ctx, res.ProductID, ev); err != nil {
		slog.Warn("publish product saved event failed", "product_id", res.ProductID, "error", err)
	}
	return nil
}

// productSlug derives a unique slug from the title and the product id.
func productSlug(title, id string) string {
	short := strings.ReplaceAll(id, "-", "")
	if len(short) > 8 {
		short = short[:8]
	}
	base := slug.Generate(title)
	if base == "" {
		return short
	}
	return base + "-" + short
}

// productPrefix is the key prefix every object of a product lives under.
func productPrefix(productID string) string {
	return "products/" + productID + "/"
}

// promoteFormats copies newly staged format files into the private bucket
// and replaces each File with the object key. Every promotion gets a
// directory of its own, so a copy never lands on a key a stored row still
// uses. Existing keys must belong to the product.
func (s *Service) promoteFormats(ctx context.Context, productID string, formats []models.Format, p *promotion) ([]models.Format, error) {
	out := make([]models.Format, 0, len(formats))
	for i, f := range formats {
		switch {
		case f.File != nil:
			if s.objects == nil {
				return nil, ErrStorageDisabled
			}
			src := storedObject{bucket: s.objects.BucketFor(f.File.ContentType), key: f.File.Key}
			dst := storedObject{
				bucket: s.objects.PrivateBucket(),
				key: fmt.Sprintf("%sformats/%s/%s-%s",
					productPrefix(productID), uuid.NewString()[:8], f.Type, slug.FileName(f.File.Name)),
			}
			if err := s.objects.Copy(ctx, src.bucket, src.key, dst.bucket, dst.key); err != nil {
				return nil, fmt.Errorf("promote format file: %w", err)
			}
			p.copied = append(p.copied, dst)
			p.staged = append(p.staged, src)
			f.FileURL = dst.key
			f.File = nil
		case f.FileURL != "" && !strings.HasPrefix(f.FileURL, productPrefix(productID)):
			return nil, &editor.FieldError{
				Field:  fmt.Sprintf("formats[%d].fileUrl", i),
				Reason: "does not belong to this product",
			}
		}
		out = append(out, f)
	}
	return out, nil
}

// promoteMedia resolves media operations to rows. Created items are copied
// from staging into the public bucket under a directory of their own, so
// the stored title is always the last segment of the item's URL.
func (s *Service) promoteMedia(ctx context.Context, productID string, ops []media.Op, p *promotion) ([]store.MediaChange, error) {
	changes := make([]store.MediaChange, 0, len(ops))
	for _, op := range ops {
		ch := store.MediaChange{Kind: op.Kind, ID: op.ID, Role: op.Role}
		if op.Kind == media.OpCreate {
			if op.File == nil {
				return nil, media.ErrMissingFile
			}
			if s.objects == nil {
				return nil, ErrStorageDisabled
			}
			dir := fmt.Sprintf("%smedia/%s/", productPrefix(productID), uuid.NewString()[:8])
			title := slug.FileName(op.Title)
			src := storedObject{bucket: s.objects.BucketFor(op.File.ContentType), key: op.File.Key}
			dst := storedObject{bucket: s.objects.PublicBucket(), key: dir + title}
			if err := s.objects.Copy(ctx, src.bucket, src.key, dst.bucket, dst.key); err != nil {
				return nil, fmt.Errorf("promote media %q: %w", op.Title, err)
			}
			p.copied = append(p.copied, dst)
			p.staged = append(p.staged, src)

			ch.Title = title
			ch.BaseURL = s.objects.DirURL(dst.key)
			if op.File.ThumbKey != "" {
				thumbSrc := storedObject{bucket: s.objects.PublicBucket(), key: op.File.ThumbKey}
				thumbDst := storedObject{bucket: s.objects.PublicBucket(), key: dir + "thumb.jpg"}
				if err := s.objects.Copy(ctx, thumbSrc.bucket, thumbSrc.key, thumbDst.bucket, thumbDst.key); err != nil {
					slog.Warn("promote thumbnail failed", "key", thumbSrc.key, "error", err)
				} else {
					p.copied = append(p.copied, thumbDst)
					p.staged = append(p.staged, thumbSrc)
					ch.ThumbURL = s.objects.FileURL(thumbDst.key)
				}
			}
		}
		changes = append(changes, ch)
	}
	return changes, nil
}

// releasedObjects lists the objects no row references after a save. File
// keys still used by one of the saved formats are never released.
func (s *Service) releasedObjects(res *store.SaveResult, saved []models.Format) []storedObject {
	if s.objects == nil {
		return nil
	}
	live := make(map[string]bool, len(saved))
	for _, f := range saved {
		if f.FileURL != "" {
			live[f.FileURL] = true
		}
	}
	var objs []storedObject
	for _, m := range res.RemovedMedia {
		for _, u := range []string{m.URL(), m.ThumbURL} {
			if key, ok := s.objects.ExtractS3Key(u); ok {
				objs = append(objs, storedObject{bucket: s.objects.PublicBucket(), key: key})
			}
		}
	}
	for _, key := range res.RemovedFileKeys {
		if live[key] {
			continue
		}
		objs = append(objs, storedObject{bucket: s.objects.PrivateBucket(), key: key})
	}
	return objs
}

// removeObjects deletes objects, logging failures.
func (s *Service) removeObjects(ctx context.Context, objs []storedObject) {
	if s.objects == nil {
		return
	}
	for _, o := range objs {
		if err := s.objects.Delete(ctx, o.bucket, o.key); err != nil {
			slog.Warn("object cleanup failed", "bucket", o.bucket, "key", o.key, "error", err)
		}
	}
}
