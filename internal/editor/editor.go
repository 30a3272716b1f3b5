// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package editor turns a product edit into one validated save command. It
// composes the hierarchy resolver, the format rule engine and the media
// reconciler; the catalog service it talks to is the only I/O.
package editor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"folio/internal/hierarchy"
	"folio/internal/media"
	"folio/internal/models"
	"folio/internal/variant"
)

// Validation limits for product form fields.
const (
	maxTitleLen       = 300
	maxDescriptionLen = 20_000
	maxMetaTitleLen   = 70
	maxMetaDescLen    = 500
	maxMetaKeywordLen = 500
)

// CatalogService is the remote catalog the editor loads from and saves to.
type CatalogService interface {
	CategoryTree(ctx context.Context) ([]models.Category, error)
	Product(ctx context.Context, id string) (*models.Product, error)
	Authors(ctx context.Context) ([]models.Author, error)
	Publishers(ctx context.Context) ([]models.Publisher, error)
	SaveProduct(ctx context.Context, cmd *SaveCommand) error
}

// Draft is the editable state of a product form.
type Draft struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	CategoryID  string             `json:"categoryId"`
	AuthorIDs   []string           `json:"authorIds"`
	PublisherID string             `json:"publisherId"`
	SEO         models.SEO         `json:"seo"`
	Formats     []models.Format    `json:"formats"`
	Media       []models.MediaItem `json:"media"`
}

// DraftFrom copies a loaded product into a draft.
func DraftFrom(p *models.Product) Draft {
	d := Draft{
		Title:       p.Title,
		Description: p.Description,
		CategoryID:  p.CategoryID,
		AuthorIDs:   append([]string(nil), p.AuthorIDs...),
		PublisherID: p.PublisherID,
		SEO:         p.SEO,
		Formats:     append([]models.Format(nil), p.Formats...),
		Media:       append([]models.MediaItem(nil), p.Media...),
	}
	return d
}

// Session is what an editor works against: the category forest, the
// product as stored and the lookup lists. It is not modified by Prepare or
// Submit.
type Session struct {
	ProductID    string
	Forest       *hierarchy.Forest
	Stored       models.Product
	Draft        Draft
	CategoryPath []string
	Authors      []models.Author
	Publishers   []models.Publisher
}

// SaveCommand is the single payload handed to the catalog service on
// submit. Formats without an id are inserted, the rest updated in place.
type SaveCommand struct {
	ProductID    string          `json:"productId,omitempty"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	CategoryID   string          `json:"categoryId"`
	CategoryPath []string        `json:"categoryPath"`
	AuthorIDs    []string        `json:"authorIds"`
	PublisherID  string          `json:"publisherId"`
	SEO          models.SEO      `json:"seo"`
	Formats      []models.Format `json:"formats"`
	Media        []media.Op      `json:"media"`
}

// Editor prepares and submits product edits.
type Editor struct {
	svc   CatalogService
	rules variant.Rules
}

// New returns an Editor backed by svc.
func New(svc CatalogService, rules variant.Rules) *Editor {
	return &Editor{svc: svc, rules: rules}
}

// Open loads everything an edit needs. An empty productID opens a session
// for a new product.
func (e *Editor) Open(ctx context.Context, productID string) (*Session, error) {
	tree, err := e.svc.CategoryTree(ctx)
	if err != nil {
		return nil, fmt.Errorf("load category tree: %w", err)
	}
	forest, err := hierarchy.New(tree)
	if err != nil {
		return nil, fmt.Errorf("load category tree: %w", err)
	}

	s := &Session{ProductID: strings.TrimSpace(productID), Forest: forest}

	if s.ProductID != "" {
		p, err := e.svc.Product(ctx, s.ProductID)
		if err != nil {
			return nil, fmt.Errorf("load product: %w", err)
		}
		if p == nil {
			return nil, ErrProductNotFound
		}
		s.Stored = *p
		s.Draft = DraftFrom(p)
		if p.CategoryID != "" {
			if path, err := forest.PathTo(p.CategoryID); err == nil {
				s.CategoryPath = path
			} else {
				slog.Warn("product category missing from tree", "product_id", p.ID, "category_id", p.CategoryID)
			}
		}
	}

	if s.Authors, err = e.svc.Authors(ctx); err != nil {
		return nil, fmt.Errorf("load authors: %w", err)
	}
	if s.Publishers, err = e.svc.Publishers(ctx); err != nil {
		return nil, fmt.Errorf("load publishers: %w", err)
	}
	return s, nil
}

// Prepare validates a draft against the session and builds the save
// command. It performs no I/O. The first failure is returned as a
// *FieldError and nothing is assembled.
func (e *Editor) Prepare(s *Session, d Draft) (*SaveCommand, error) {
	if err := checkForm(d); err != nil {
		return nil, err
	}

	formats, err := e.checkFormats(d.Formats)
	if err != nil {
		return nil, err
	}

	ops, err := media.Reconcile(s.Stored.Media, d.Media)
	if err != nil {
		field, reason := Describe(err)
		if field == "" {
			field = "media"
		}
		return nil, &FieldError{Field: field, Reason: reason, Err: err}
	}

	node, err := s.Forest.FindNode(d.CategoryID)
	if err != nil {
		field, reason := Describe(err)
		return nil, &FieldError{Field: field, Reason: reason, Err: err}
	}
	path, err := s.Forest.PathTo(node.ID)
	if err != nil {
		field, reason := Describe(err)
		return nil, &FieldError{Field: field, Reason: reason, Err: err}
	}

	return &SaveCommand{
		ProductID:    s.ProductID,
		Title:        strings.TrimSpace(d.Title),
		Description:  strings.TrimSpace(d.Description),
		CategoryID:   node.ID,
		CategoryPath: path,
		AuthorIDs:    trimAll(d.AuthorIDs),
		PublisherID:  strings.TrimSpace(d.PublisherID),
		SEO: models.SEO{
			MetaTitle:       strings.TrimSpace(d.SEO.MetaTitle),
			MetaDescription: strings.TrimSpace(d.SEO.MetaDescription),
			MetaKeywords:    strings.TrimSpace(d.SEO.MetaKeywords),
		},
		Formats: formats,
		Media:   ops,
	}, nil
}

// Submit prepares the draft and, only if that succeeds, hands the command
// to the catalog service.
func (e *Editor) Submit(ctx context.Context, s *Session, d Draft) (*SaveCommand, error) {
	cmd, err := e.Prepare(s, d)
	if err != nil {
		return nil, err
	}
	if err := e.svc.SaveProduct(ctx, cmd); err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}
	slog.Info("product saved",
		"product_id", cmd.ProductID,
		"category_id", cmd.CategoryID,
		"formats", len(cmd.Formats),
		"media_ops", len(cmd.Media),
	)
	return cmd, nil
}

// checkForm runs the product-level preconditions in form order.
func checkForm(d Draft) error {
	title := strings.TrimSpace(d.Title)
	switch {
	case title == "":
		return &FieldError{Field: "title", Reason: "is required"}
	case utf8.RuneCountInString(title) > maxTitleLen:
		return &FieldError{Field: "title", Reason: fmt.Sprintf("is too long (max %d characters)", maxTitleLen)}
	}

	description := strings.TrimSpace(d.Description)
	switch {
	case description == "":
		return &FieldError{Field: "description", Reason: "is required"}
	case utf8.RuneCountInString(description) > maxDescriptionLen:
		return &FieldError{Field: "description", Reason: fmt.Sprintf("is too long (max %d characters)", maxDescriptionLen)}
	}

	if strings.TrimSpace(d.CategoryID) == "" {
		return &FieldError{Field: "categoryId", Reason: "select a category"}
	}
	if len(d.Formats) == 0 {
		return &FieldError{Field: "formats", Reason: "add at least one format"}
	}
	if len(trimAll(d.AuthorIDs)) == 0 {
		return &FieldError{Field: "authorIds", Reason: "select at least one author"}
	}
	if strings.TrimSpace(d.PublisherID) == "" {
		return &FieldError{Field: "publisherId", Reason: "select a publisher"}
	}

	if err := checkSEO(d.SEO); err != nil {
		return err
	}

	if !media.HasRole(d.Media, models.RoleCover) {
		return &FieldError{Field: "media", Reason: "add a cover image"}
	}
	return nil
}

func checkSEO(seo models.SEO) error {
	metaTitle := strings.TrimSpace(seo.MetaTitle)
	metaDesc := strings.TrimSpace(seo.MetaDescription)
	switch {
	case metaTitle == "":
		return &FieldError{Field: "seo.metaTitle", Reason: "is required"}
	case utf8.RuneCountInString(metaTitle) > maxMetaTitleLen:
		return &FieldError{Field: "seo.metaTitle", Reason: fmt.Sprintf("is too long (max %d characters)", maxMetaTitleLen)}
	case metaDesc == "":
		return &FieldError{Field: "seo.metaDescription", Reason: "is required"}
	case utf8.RuneCountInString(metaDesc) > maxMetaDescLen:
		return &FieldError{Field: "seo.metaDescription", Reason: fmt.Sprintf("is too long (max %d characters)", maxMetaDescLen)}
	case utf8.RuneCountInString(seo.MetaKeywords) > maxMetaKeywordLen:
		return &FieldError{Field: "seo.metaKeywords", Reason: fmt.Sprintf("are too long (max %d characters)", maxMetaKeywordLen)}
	}
	return nil
}

// checkFormats normalizes every format and fails on the first invalid one.
// A product lists each format type at most once.
func (e *Editor) checkFormats(formats []models.Format) ([]models.Format, error) {
	out := make([]models.Format, 0, len(formats))
	seen := make(map[models.FormatType]bool, len(formats))
	for i, f := range formats {
		n := variant.Normalize(f)
		if err := e.rules.Validate(n); err != nil {
			field, reason := Describe(err)
			return nil, &FieldError{Field: fmt.Sprintf("formats[%d].%s", i, field), Reason: reason, Err: err}
		}
		if seen[n.Type] {
			return nil, &FieldError{Field: fmt.Sprintf("formats[%d].formatType", i), Reason: fmt.Sprintf("%s is already listed", n.Type)}
		}
		seen[n.Type] = true
		out = append(out, n)
	}
	return out, nil
}

func trimAll(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}
