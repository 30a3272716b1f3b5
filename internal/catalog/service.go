// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog is the catalog service behind the product editor. It
// reads and writes the catalog through the store package, caches the
// category tree in Valkey, moves uploaded files in object storage and
// announces saves on the event bus.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"folio/internal/cache"
	"folio/internal/events"
	"folio/internal/hierarchy"
	"folio/internal/models"
	"folio/internal/store"
	"folio/internal/variant"
)

var (
	// ErrNotFound is returned when a product or format does not exist.
	ErrNotFound = errors.New("catalog: not found")

	// ErrConflict is returned when a save references rows that changed
	// since the editor loaded them.
	ErrConflict = errors.New("catalog: product changed since it was loaded")

	// ErrStorageDisabled is returned by file operations when no object
	// storage is configured.
	ErrStorageDisabled = errors.New("catalog: object storage is not configured")
)

// Objects is the object storage the service needs. *storage.Client
// satisfies it.
type Objects interface {
	Upload(ctx context.Context, bucket, key, contentType string, body io.Reader, size int64) error
	Copy(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) error
	Delete(ctx context.Context, bucket, key string) error
	FileURL(key string) string
	DirURL(key string) string
	BucketFor(contentType string) string
	PublicBucket() string
	PrivateBucket() string
	PresignedURL(ctx context.Context, bucket, key string, expires time.Duration) (string, error)
	ExtractS3Key(rawURL string) (string, bool)
}

// Deps are the collaborators a Service is built from. Cache, Objects and
// Events may be nil.
type Deps struct {
	Categories *store.CategoryStore
	Products   *store.ProductStore
	Lookups    *store.LookupStore
	Cache      *cache.CatalogCache
	Objects    Objects
	Events     events.Publisher
	Rules      variant.Rules
}

// Service implements editor.CatalogService on top of PostgreSQL, Valkey,
// S3 and Kafka.
type Service struct {
	categories *store.CategoryStore
	products   *store.ProductStore
	lookups    *store.LookupStore
	cache      *cache.CatalogCache
	objects    Objects
	events     events.Publisher
	rules      variant.Rules
	now        func() time.Time
}

// New creates a Service.
func New(d Deps) *Service {
	pub := d.Events
	if pub == nil {
		pub = events.NopPublisher{}
	}
	return &Service{
		categories: d.Categories,
		products:   d.Products,
		lookups:    d.Lookups,
		cache:      d.Cache,
		objects:    d.Objects,
		events:     pub,
		rules:      d.Rules,
		now:        time.Now,
	}
}

// Rules returns the format rules uploads and saves are checked against.
func (s *Service) Rules() variant.Rules {
	return s.rules
}

// categoryRows returns the flat category rows, from cache when possible.
func (s *Service) categoryRows(ctx context.Context) ([]models.Category, error) {
	if rows, ok := s.cache.Tree(ctx); ok {
		return rows, nil
	}
	rows, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetTree(ctx, rows)
	return rows, nil
}

// Forest loads the category forest.
func (s *Service) Forest(ctx context.Context) (*hierarchy.Forest, error) {
	rows, err := s.categoryRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	forest, err := hierarchy.Build(rows)
	if err != nil {
		return nil, fmt.Errorf("build category tree: %w", err)
	}
	return forest, nil
}

// CategoryTree returns the nested category forest.
func (s *Service) CategoryTree(ctx context.Context) ([]models.Category, error) {
	forest, err := s.Forest(ctx)
	if err != nil {
		return nil, err
	}
	return forest.Roots(), nil
}

// Product loads a product with its formats and media. Returns nil if the
// product does not exist.
func (s *Service) Product(ctx context.Context, id string) (*models.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	return s.products.FindByID(ctx, id)
}

// Authors returns the author lookup list.
func (s *Service) Authors(ctx context.Context) ([]models.Author, error) {
	var authors []models.Author
	if s.cache.Lookup(ctx, "authors", &authors) {
		return authors, nil
	}
	authors, err := s.lookups.Authors(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetLookup(ctx, "authors", authors)
	return authors, nil
}

// Publishers returns the publisher lookup list.
func (s *Service) Publishers(ctx context.Context) ([]models.Publisher, error) {
	var publishers []models.Publisher
	if s.cache.Lookup(ctx, "publishers", &publishers) {
		return publishers, nil
	}
	publishers, err := s.lookups.Publishers(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetLookup(ctx, "publishers", publishers)
	return publishers, nil
}
