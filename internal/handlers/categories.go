// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"folio/internal/models"
)

// categoryPath is the response of the path endpoint.
type categoryPath struct {
	ID         string   `json:"id"`
	IDs        []string `json:"ids"`
	Breadcrumb string   `json:"breadcrumb"`
}

// CategoryTree returns the nested category forest.
func (c *Catalog) CategoryTree(w http.ResponseWriter, r *http.Request) {
	forest, err := c.svc.Forest(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	roots := forest.Roots()
	if roots == nil {
		roots = []models.Category{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": roots})
}

// CategoryList returns every category depth-first with its depth set, the
// shape a parent or category picker renders.
func (c *Catalog) CategoryList(w http.ResponseWriter, r *http.Request) {
	forest, err := c.svc.Forest(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": forest.Flatten()})
}

// CategoryPath returns the root-first id chain and breadcrumb of a category.
func (c *Catalog) CategoryPath(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	forest, err := c.svc.Forest(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	ids, err := forest.PathTo(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	crumb, err := forest.Breadcrumb(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categoryPath{ID: id, IDs: ids, Breadcrumb: crumb})
}

// CategoryLegalParents lists the categories a category may be moved under:
// everything except itself and its descendants.
func (c *Catalog) CategoryLegalParents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	forest, err := c.svc.Forest(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := forest.FindNode(id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": forest.LegalParents(id)})
}

// CategoryMove changes the parent of a category. An empty parent_id makes
// it a root. Moves that would create a cycle are refused with 409.
func (c *Catalog) CategoryMove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req moveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	parentID := strings.TrimSpace(req.ParentID)

	if err := c.svc.MoveCategory(r.Context(), id, parentID); err != nil {
		writeError(w, r, err)
		return
	}

	forest, err := c.svc.Forest(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	ids, err := forest.PathTo(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	crumb, _ := forest.Breadcrumb(id)
	writeJSON(w, http.StatusOK, categoryPath{ID: id, IDs: ids, Breadcrumb: crumb})
}
