// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for the handler
// tests: an in-memory catalog that satisfies both the handler and the
// editor interfaces, and chi request helpers.
package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"folio/internal/catalog"
	"folio/internal/editor"
	"folio/internal/hierarchy"
	"folio/internal/models"
	"folio/internal/variant"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

// fakeCatalog is an in-memory catalog for handler tests.
type fakeCatalog struct {
	forest     *hierarchy.Forest
	products   map[string]*models.Product
	authors    []models.Author
	publishers []models.Publisher
	rules      variant.Rules

	saved    []*editor.SaveCommand
	moves    [][2]string
	staged   []string
	quoteErr error
	stageErr error
}

func newFakeCatalog(t *testing.T) *fakeCatalog {
	t.Helper()

	forest, err := hierarchy.New([]models.Category{
		{ID: "fic", Title: "Fiction", Children: []models.Category{
			{ID: "fan", ParentID: strPtr("fic"), Title: "Fantasy", Children: []models.Category{
				{ID: "epic", ParentID: strPtr("fan"), Title: "Epic"},
			}},
		}},
		{ID: "non", Title: "Non-fiction"},
	})
	if err != nil {
		t.Fatalf("hierarchy.New: %v", err)
	}

	return &fakeCatalog{
		forest: forest,
		products: map[string]*models.Product{
			"p1": {
				ID:          "p1",
				Title:       "The Long Road",
				Description: "A journey.",
				CategoryID:  "fan",
				AuthorIDs:   []string{"a1"},
				PublisherID: "pub1",
				SEO:         models.SEO{MetaTitle: "The Long Road", MetaDescription: "A journey in paperback."},
				Formats: []models.Format{
					{ID: "f1", Type: models.FormatPhysical, Price: decimal.RequireFromString("20.00"), StockQuantity: intPtr(4), IsAvailable: true},
				},
				Media: []models.MediaItem{
					{ID: "m1", Role: models.RoleCover, Title: "cover.jpg", BaseURL: "https://cdn.test/products/p1"},
					{ID: "m2", Role: models.RoleGallery, Title: "inside.jpg", BaseURL: "https://cdn.test/products/p1"},
				},
			},
		},
		authors:    []models.Author{{ID: "a1", Name: "Ana"}},
		publishers: []models.Publisher{{ID: "pub1", Name: "North"}},
		rules:      variant.DefaultRules(),
	}
}

func (f *fakeCatalog) Forest(context.Context) (*hierarchy.Forest, error) {
	return f.forest, nil
}

func (f *fakeCatalog) MoveCategory(_ context.Context, id, parentID string) error {
	if err := f.forest.Reparent(id, parentID); err != nil {
		return err
	}
	f.moves = append(f.moves, [2]string{id, parentID})
	return nil
}

func (f *fakeCatalog) QuoteFormat(_ context.Context, productID, formatID string, quantity int) (*catalog.Quote, error) {
	if f.quoteErr != nil {
		return nil, f.quoteErr
	}
	p, ok := f.products[productID]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	for _, fm := range p.Formats {
		if fm.ID != formatID {
			continue
		}
		q := &catalog.Quote{FormatID: fm.ID, FormatType: string(fm.Type), Requested: quantity, UnitPrice: variant.UnitPrice(fm)}
		n, err := variant.ClampQuantity(quantity, fm)
		if err != nil {
			return q, nil
		}
		q.Quantity, q.Amount, q.Purchasable = n, variant.ResolvePrice(fm, n), variant.Purchasable(fm)
		return q, nil
	}
	return nil, catalog.ErrNotFound
}

func (f *fakeCatalog) FormatDownloadURL(_ context.Context, productID, formatID string) (string, error) {
	if _, ok := f.products[productID]; !ok {
		return "", catalog.ErrNotFound
	}
	return "https://signed.test/" + productID + "/" + formatID, nil
}

func (f *fakeCatalog) StageUpload(_ context.Context, name string, body io.Reader) (*models.FileRef, error) {
	if f.stageErr != nil {
		return nil, f.stageErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	f.staged = append(f.staged, name)
	return &models.FileRef{Key: "staging/2026/03/" + name, Name: name, ContentType: "application/pdf", Size: int64(len(data))}, nil
}

func (f *fakeCatalog) Rules() variant.Rules { return f.rules }

func (f *fakeCatalog) CategoryTree(context.Context) ([]models.Category, error) {
	return f.forest.Roots(), nil
}

func (f *fakeCatalog) Product(_ context.Context, id string) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeCatalog) Authors(context.Context) ([]models.Author, error) {
	return f.authors, nil
}

func (f *fakeCatalog) Publishers(context.Context) ([]models.Publisher, error) {
	return f.publishers, nil
}

func (f *fakeCatalog) SaveProduct(_ context.Context, cmd *editor.SaveCommand) error {
	if cmd.ProductID == "" {
		cmd.ProductID = "p-new"
	}
	f.saved = append(f.saved, cmd)
	return nil
}

// newTestCatalog returns a handler group backed by a fresh fake.
func newTestCatalog(t *testing.T) (*Catalog, *fakeCatalog) {
	t.Helper()
	fake := newFakeCatalog(t)
	return NewCatalog(fake, editor.New(fake, fake.rules)), fake
}

// withChiURLParams adds chi URL parameters to a request, given as
// key/value pairs.
func withChiURLParams(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// jsonRequest builds a request with a JSON body.
func jsonRequest(method, target, body string) *http.Request {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// decodeBody decodes a recorded JSON response.
func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rr.Body.String())
	}
}
