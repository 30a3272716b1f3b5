// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the Folio catalog admin
// API. Handlers are grouped by concern (categories, products, uploads) and
// receive their dependencies through the handler struct.
package handlers

import (
	"context"
	"io"

	"folio/internal/catalog"
	"folio/internal/editor"
	"folio/internal/hierarchy"
	"folio/internal/models"
	"folio/internal/variant"
)

// CatalogService is the part of the catalog service the API calls
// directly. Product edits go through the editor instead.
type CatalogService interface {
	Forest(ctx context.Context) (*hierarchy.Forest, error)
	MoveCategory(ctx context.Context, id, parentID string) error
	QuoteFormat(ctx context.Context, productID, formatID string, quantity int) (*catalog.Quote, error)
	FormatDownloadURL(ctx context.Context, productID, formatID string) (string, error)
	StageUpload(ctx context.Context, name string, body io.Reader) (*models.FileRef, error)
	Rules() variant.Rules
}

// Catalog groups the category, product and upload handlers.
type Catalog struct {
	svc    CatalogService
	editor *editor.Editor
}

// NewCatalog creates a new Catalog handler group.
func NewCatalog(svc CatalogService, ed *editor.Editor) *Catalog {
	return &Catalog{svc: svc, editor: ed}
}
