// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"folio/internal/catalog"
)

// uploadLimit is the largest file the upload endpoint reads: the bigger of
// the image cap and the configured format file cap.
func (c *Catalog) uploadLimit() int64 {
	limit := c.svc.Rules().MaxFileSize
	if limit < catalog.MaxImageSize {
		limit = catalog.MaxImageSize
	}
	return limit
}

// Upload stages a cover, gallery image or digital format file. The
// returned reference is attached to a draft and only promoted when the
// product is saved.
func (c *Catalog) Upload(w http.ResponseWriter, r *http.Request) {
	limit := c.uploadLimit()

	r.Body = http.MaxBytesReader(w, r.Body, limit+uploadOverhead)
	if err := r.ParseMultipartForm(limit); err != nil {
		if isBodyTooLarge(err) {
			writeMessage(w, http.StatusRequestEntityTooLarge, "File too large.")
			return
		}
		writeMessage(w, http.StatusBadRequest, "Invalid multipart form.")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "No file provided.")
		return
	}
	defer file.Close()

	if header.Size > limit {
		writeMessage(w, http.StatusRequestEntityTooLarge, "File too large.")
		return
	}

	ref, err := c.svc.StageUpload(r.Context(), header.Filename, file)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ref)
}
