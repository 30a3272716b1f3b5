package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"folio/internal/editor"
	"folio/internal/media"
	"folio/internal/models"
	"folio/internal/variant"
)

// Request limits.
const (
	maxBodyBytes   = 1 << 20
	maxQuoteQty    = 10_000
	uploadOverhead = 1 << 20
)

// draftRequest is a product form as the admin UI posts it. Formats and
// media arrive loosely typed and are narrowed by toDraft.
type draftRequest struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	CategoryID  string        `json:"categoryId"`
	AuthorIDs   []string      `json:"authorIds"`
	PublisherID string        `json:"publisherId"`
	SEO         models.SEO    `json:"seo"`
	Formats     []variant.Raw `json:"formats"`
	Media       []media.Raw   `json:"media"`
}

type moveRequest struct {
	ParentID string `json:"parent_id"`
}

type quoteRequest struct {
	FormatID string `json:"format_id"`
	Quantity int    `json:"quantity"`
}

// decodeJSON reads a size-limited JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// toDraft coerces a posted form into an editor draft. The first format or
// media record that cannot be narrowed is reported with its index.
func toDraft(req draftRequest) (editor.Draft, error) {
	d := editor.Draft{
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		AuthorIDs:   req.AuthorIDs,
		PublisherID: req.PublisherID,
		SEO:         req.SEO,
	}

	for i, raw := range req.Formats {
		f, err := variant.Parse(raw)
		if err != nil {
			field, reason := editor.Describe(err)
			return editor.Draft{}, &editor.FieldError{Field: fmt.Sprintf("formats[%d].%s", i, field), Reason: reason, Err: err}
		}
		d.Formats = append(d.Formats, f)
	}

	for i, raw := range req.Media {
		m, err := media.Parse(raw)
		if err != nil {
			return editor.Draft{}, &editor.FieldError{
				Field:  fmt.Sprintf("media[%d].mediaRole", i),
				Reason: "must be one of cover, backCover, gallery",
				Err:    err,
			}
		}
		d.Media = append(d.Media, m)
	}
	return d, nil
}

// checkQuote validates a quote request before it reaches the service.
func checkQuote(req quoteRequest) error {
	switch {
	case strings.TrimSpace(req.FormatID) == "":
		return &editor.FieldError{Field: "format_id", Reason: "is required"}
	case req.Quantity > maxQuoteQty:
		return &editor.FieldError{Field: "quantity", Reason: fmt.Sprintf("is too large (max %d)", maxQuoteQty)}
	}
	return nil
}

// isBodyTooLarge reports whether err came from an oversized request body.
func isBodyTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}
