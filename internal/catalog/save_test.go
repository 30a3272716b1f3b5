// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"folio/internal/editor"
	"folio/internal/media"
	"folio/internal/models"
	"folio/internal/store"
)

const testProductID = "6f1c2d3e-4b5a-4c6d-8e7f-901a2b3c4d5e"

func TestProductSlug(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"The Left Hand of Darkness", "the-left-hand-of-darkness-6f1c2d3e"},
		{"???", "6f1c2d3e"},
	}
	for _, tt := range tests {
		if got := productSlug(tt.title, testProductID); got != tt.want {
			t.Errorf("productSlug(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestPromoteFormats(t *testing.T) {
	objs := newFakeObjects()
	objs.objects["private/staging/2026/03/abc-book.epub"] = []byte("epub")
	s := New(Deps{Objects: objs})

	formats := []models.Format{
		{Type: models.FormatPhysical, Price: decimal.NewFromInt(20)},
		{Type: models.FormatEbook, Price: decimal.NewFromInt(9), File: &models.FileRef{
			Key: "staging/2026/03/abc-book.epub", Name: "My Book.epub", ContentType: "application/epub+zip",
		}},
		{ID: "f3", Type: models.FormatAudiobook, Price: decimal.NewFromInt(15), FileURL: productPrefix(testProductID) + "formats/audiobook-book.mp3"},
	}

	var p promotion
	out, err := s.promoteFormats(context.Background(), testProductID, formats, &p)
	if err != nil {
		t.Fatalf("promoteFormats: %v", err)
	}

	key := out[1].FileURL
	if out[1].File != nil || !strings.HasPrefix(key, "products/"+testProductID+"/formats/") ||
		!strings.HasSuffix(key, "/ebook-my-book.epub") {
		t.Errorf("ebook after promotion: file=%v url=%q", out[1].File, key)
	}
	if !objs.has("private", key) {
		t.Error("ebook file not copied into the private bucket")
	}
	if out[2].FileURL != formats[2].FileURL {
		t.Errorf("existing file key changed: %q", out[2].FileURL)
	}
	if len(p.copied) != 1 || len(p.staged) != 1 || p.staged[0].key != "staging/2026/03/abc-book.epub" {
		t.Errorf("promotion bookkeeping: %+v", p)
	}
	// The input is not modified.
	if formats[1].File == nil {
		t.Error("promoteFormats modified its input")
	}
}

// TestPromoteFormatsSameNameReplacement replaces an ebook file with an
// upload of the same name, then abandons the save. The file the stored
// row points at must survive both the copy and the cleanup.
func TestPromoteFormatsSameNameReplacement(t *testing.T) {
	objs := newFakeObjects()
	liveKey := productPrefix(testProductID) + "formats/ebook-book.pdf"
	objs.objects["private/"+liveKey] = []byte("old")
	objs.objects["private/staging/2026/03/new-book.pdf"] = []byte("new")
	s := New(Deps{Objects: objs})

	formats := []models.Format{{ID: "f1", Type: models.FormatEbook, Price: decimal.NewFromInt(9), FileURL: liveKey, File: &models.FileRef{
		Key: "staging/2026/03/new-book.pdf", Name: "Book.pdf", ContentType: "application/pdf",
	}}}

	var p promotion
	out, err := s.promoteFormats(context.Background(), testProductID, formats, &p)
	if err != nil {
		t.Fatalf("promoteFormats: %v", err)
	}
	if out[0].FileURL == liveKey {
		t.Fatalf("promoted key %q reuses the stored key", out[0].FileURL)
	}
	if string(objs.objects["private/"+liveKey]) != "old" {
		t.Error("promotion overwrote the stored file")
	}

	// A failed save removes what it copied.
	s.removeObjects(context.Background(), p.copied)
	if !objs.has("private", liveKey) {
		t.Error("stored file removed by the failed-save cleanup")
	}

	// A second promotion of the same upload gets its own key too.
	var p2 promotion
	again, err := s.promoteFormats(context.Background(), testProductID, formats, &p2)
	if err != nil {
		t.Fatalf("second promoteFormats: %v", err)
	}
	if again[0].FileURL == out[0].FileURL {
		t.Errorf("two promotions share key %q", again[0].FileURL)
	}
}

// TestReleasedObjectsKeepsLiveKeys deletes a format and re-adds one whose
// row points at the deleted format's key. That key stays.
func TestReleasedObjectsKeepsLiveKeys(t *testing.T) {
	s := New(Deps{Objects: newFakeObjects()})
	shared := "products/p/formats/x/ebook-a.pdf"
	res := &store.SaveResult{RemovedFileKeys: []string{shared, "products/p/formats/y/audiobook-b.mp3"}}
	saved := []models.Format{{ID: "f9", Type: models.FormatEbook, FileURL: shared}}

	got := s.releasedObjects(res, saved)
	if len(got) != 1 || got[0].key != "products/p/formats/y/audiobook-b.mp3" {
		t.Errorf("released = %+v, want only the audiobook file", got)
	}
}

func TestPromoteFormatsForeignKey(t *testing.T) {
	s := New(Deps{Objects: newFakeObjects()})
	formats := []models.Format{
		{ID: "f1", Type: models.FormatEbook, FileURL: "products/someone-else/formats/ebook.pdf"},
	}
	var p promotion
	_, err := s.promoteFormats(context.Background(), testProductID, formats, &p)
	var fe *editor.FieldError
	if !errors.As(err, &fe) || fe.Field != "formats[0].fileUrl" {
		t.Errorf("err = %v, want field error on formats[0].fileUrl", err)
	}
}

func TestPromoteMedia(t *testing.T) {
	objs := newFakeObjects()
	objs.objects["public/staging/2026/03/abc-cover.jpg"] = []byte("jpg")
	objs.objects["public/staging/2026/03/abc_thumb.jpg"] = []byte("thumb")
	s := New(Deps{Objects: objs})

	ops := []media.Op{
		{Kind: media.OpKeep, ID: "m1", Role: models.RoleGallery, Title: "old.jpg"},
		{Kind: media.OpCreate, Role: models.RoleCover, Title: "New Cover.JPG", File: &models.FileRef{
			Key: "staging/2026/03/abc-cover.jpg", ContentType: "image/jpeg", ThumbKey: "staging/2026/03/abc_thumb.jpg",
		}},
		{Kind: media.OpDelete, ID: "m2", Role: models.RoleCover},
	}

	var p promotion
	changes, err := s.promoteMedia(context.Background(), testProductID, ops, &p)
	if err != nil {
		t.Fatalf("promoteMedia: %v", err)
	}
	if len(changes) != 3 {
		t.Fatalf("changes = %d, want 3", len(changes))
	}
	if changes[0] != (store.MediaChange{Kind: media.OpKeep, ID: "m1", Role: models.RoleGallery}) {
		t.Errorf("keep change = %+v", changes[0])
	}

	created := changes[1]
	if created.Title != "new-cover.jpg" {
		t.Errorf("title = %q, want new-cover.jpg", created.Title)
	}
	item := models.MediaItem{Title: created.Title, BaseURL: created.BaseURL}
	key, ok := objs.ExtractS3Key(item.URL())
	if !ok || !objs.has("public", key) {
		t.Errorf("created item URL %q does not point at a stored object", item.URL())
	}
	if !strings.HasPrefix(key, productPrefix(testProductID)+"media/") {
		t.Errorf("key %q outside the product prefix", key)
	}
	if !strings.HasSuffix(created.ThumbURL, "/thumb.jpg") {
		t.Errorf("thumb URL = %q", created.ThumbURL)
	}
	if changes[2].Kind != media.OpDelete || changes[2].ID != "m2" {
		t.Errorf("delete change = %+v", changes[2])
	}
	if len(p.copied) != 2 || len(p.staged) != 2 {
		t.Errorf("promotion bookkeeping: %+v", p)
	}
}

func TestPromoteMediaCopyFailure(t *testing.T) {
	objs := newFakeObjects()
	objs.copyErr = errors.New("s3 down")
	s := New(Deps{Objects: objs})

	ops := []media.Op{{Kind: media.OpCreate, Role: models.RoleCover, Title: "a.jpg", File: &models.FileRef{Key: "staging/a.jpg", ContentType: "image/jpeg"}}}
	var p promotion
	if _, err := s.promoteMedia(context.Background(), testProductID, ops, &p); !errors.Is(err, objs.copyErr) {
		t.Errorf("err = %v, want wrapped copy error", err)
	}
}

func TestPromoteWithoutStorage(t *testing.T) {
	s := New(Deps{})
	ops := []media.Op{{Kind: media.OpCreate, Role: models.RoleCover, Title: "a.jpg", File: &models.FileRef{Key: "k"}}}
	var p promotion
	if _, err := s.promoteMedia(context.Background(), testProductID, ops, &p); !errors.Is(err, ErrStorageDisabled) {
		t.Errorf("err = %v, want ErrStorageDisabled", err)
	}

	// Keep-only saves never touch storage.
	keep := []media.Op{{Kind: media.OpKeep, ID: "m1", Role: models.RoleCover}}
	if _, err := s.promoteMedia(context.Background(), testProductID, keep, &p); err != nil {
		t.Errorf("keep-only promoteMedia: %v", err)
	}
}

func TestReleasedObjects(t *testing.T) {
	s := New(Deps{Objects: newFakeObjects()})
	res := &store.SaveResult{
		RemovedMedia: []models.MediaItem{
			{Title: "cover.jpg", BaseURL: "https://cdn.test/products/p/media/x", ThumbURL: "https://cdn.test/products/p/media/x/thumb.jpg"},
			{Title: "ext.jpg", BaseURL: "https://elsewhere.test/img"},
		},
		RemovedFileKeys: []string{"products/p/formats/ebook-a.pdf"},
	}
	got := s.releasedObjects(res, nil)
	want := []storedObject{
		{bucket: "public", key: "products/p/media/x/cover.jpg"},
		{bucket: "public", key: "products/p/media/x/thumb.jpg"},
		{bucket: "private", key: "products/p/formats/ebook-a.pdf"},
	}
	if len(got) != len(want) {
		t.Fatalf("released = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("released[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}
