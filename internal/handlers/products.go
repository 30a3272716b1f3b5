// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"folio/internal/editor"
	"folio/internal/media"
	"folio/internal/models"
)

// sessionView is everything the product form needs to render.
type sessionView struct {
	ProductID    string             `json:"productId,omitempty"`
	Product      *models.Product    `json:"product,omitempty"`
	Draft        editor.Draft       `json:"draft"`
	CategoryPath []string           `json:"categoryPath"`
	Breadcrumb   string             `json:"breadcrumb,omitempty"`
	Categories   []models.Category  `json:"categories"`
	Authors      []models.Author    `json:"authors"`
	Publishers   []models.Publisher `json:"publishers"`
}

// saveView summarizes an accepted save.
type saveView struct {
	ProductID    string          `json:"productId"`
	CategoryID   string          `json:"categoryId"`
	CategoryPath []string        `json:"categoryPath"`
	Formats      []models.Format `json:"formats"`
	Media        media.Summary   `json:"media"`
}

func newSessionView(s *editor.Session) sessionView {
	v := sessionView{
		ProductID:    s.ProductID,
		Draft:        s.Draft,
		CategoryPath: s.CategoryPath,
		Categories:   s.Forest.Flatten(),
		Authors:      s.Authors,
		Publishers:   s.Publishers,
	}
	if s.ProductID != "" {
		p := s.Stored
		v.Product = &p
	}
	if v.CategoryPath == nil {
		v.CategoryPath = []string{}
	}
	if len(s.CategoryPath) > 0 {
		v.Breadcrumb, _ = s.Forest.Breadcrumb(s.CategoryPath[len(s.CategoryPath)-1])
	}
	return v
}

// ProductEdit opens an edit session for an existing product.
func (c *Catalog) ProductEdit(w http.ResponseWriter, r *http.Request) {
	s, err := c.editor.Open(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newSessionView(s))
}

// ProductNew opens an edit session for a product that does not exist yet.
func (c *Catalog) ProductNew(w http.ResponseWriter, r *http.Request) {
	s, err := c.editor.Open(r.Context(), "")
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newSessionView(s))
}

// ProductCreate validates a new product form and saves it.
func (c *Catalog) ProductCreate(w http.ResponseWriter, r *http.Request) {
	c.submit(w, r, "", http.StatusCreated)
}

// ProductUpdate validates an edited product form and saves it.
func (c *Catalog) ProductUpdate(w http.ResponseWriter, r *http.Request) {
	c.submit(w, r, chi.URLParam(r, "id"), http.StatusOK)
}

// submit decodes a draft, re-opens the session it was edited against and
// hands both to the editor. Nothing is written unless every check passes.
func (c *Catalog) submit(w http.ResponseWriter, r *http.Request, productID string, status int) {
	var req draftRequest
	if err := decodeJSON(w, r, &req); err != nil {
		if isBodyTooLarge(err) {
			writeMessage(w, http.StatusRequestEntityTooLarge, "Request body too large.")
			return
		}
		writeMessage(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	draft, err := toDraft(req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s, err := c.editor.Open(r.Context(), productID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	cmd, err := c.editor.Submit(r.Context(), s, draft)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, status, saveView{
		ProductID:    cmd.ProductID,
		CategoryID:   cmd.CategoryID,
		CategoryPath: cmd.CategoryPath,
		Formats:      cmd.Formats,
		Media:        media.Summarize(cmd.Media),
	})
}

// ProductQuote prices a quantity of one format of a product.
func (c *Catalog) ProductQuote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	if err := checkQuote(req); err != nil {
		writeError(w, r, err)
		return
	}

	q, err := c.svc.QuoteFormat(r.Context(), chi.URLParam(r, "id"), req.FormatID, req.Quantity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// FormatDownload returns a short-lived URL for a digital format's file.
func (c *Catalog) FormatDownload(w http.ResponseWriter, r *http.Request) {
	url, err := c.svc.FormatDownloadURL(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "formatId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
