// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"folio/internal/catalog"
	"folio/internal/editor"
	"folio/internal/hierarchy"
	"folio/internal/media"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeMessage writes a JSON error with no field attached.
func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// writeError maps an error from the editor or the catalog service to a
// status code and a JSON body. Unexpected errors are logged and reported
// as a bare 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		fe  *editor.FieldError
		dup *media.DuplicateRoleError
		ce  *hierarchy.CycleError
	)
	switch {
	case errors.As(err, &ce):
		field, reason := editor.Describe(err)
		writeJSON(w, http.StatusConflict, errorBody{Error: reason, Field: field})
	case errors.As(err, &fe), errors.As(err, &dup):
		field, reason := editor.Describe(err)
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: reason, Field: field})
	case errors.Is(err, media.ErrMissingFile), errors.Is(err, media.ErrAmbiguousSource):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: err.Error(), Field: "media"})
	case errors.Is(err, hierarchy.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "Category not found.")
	case errors.Is(err, editor.ErrProductNotFound), errors.Is(err, catalog.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "Not found.")
	case errors.Is(err, catalog.ErrConflict):
		writeMessage(w, http.StatusConflict, "The product changed since it was loaded. Reload and try again.")
	case errors.Is(err, catalog.ErrUnsupportedType):
		writeMessage(w, http.StatusUnsupportedMediaType, "File type is not allowed.")
	case errors.Is(err, catalog.ErrTooLarge):
		writeMessage(w, http.StatusRequestEntityTooLarge, "File too large.")
	case errors.Is(err, catalog.ErrStorageDisabled):
		writeMessage(w, http.StatusServiceUnavailable, "Object storage is not configured.")
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
	}
}
