// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package variant

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"folio/internal/models"
)

// Number is a JSON value that may arrive as a number, a numeric string or
// null. It keeps the raw text; Parse does the conversion.
type Number string

// UnmarshalJSON accepts 12, "12", "12.50" and null.
func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = Number(strings.TrimSpace(s))
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return err
	}
	*n = Number(num)
	return nil
}

// stockLimit bounds stock quantities to the stored integer column.
var stockLimit = decimal.NewFromInt(math.MaxInt32)

// Raw is a format exactly as the catalog service or an edit form sends it.
type Raw struct {
	ID            string          `json:"id"`
	FormatType    string          `json:"formatType"`
	Price         Number          `json:"price"`
	DiscountPrice Number          `json:"discountPrice"`
	StockQuantity Number          `json:"stockQuantity"`
	IsAvailable   bool            `json:"isAvailable"`
	File          *models.FileRef `json:"file,omitempty"`
	FileURL       string          `json:"fileUrl"`
}

// Parse coerces a Raw format into a typed one. Unknown format types and
// malformed numbers are rejected rather than defaulted.
func Parse(raw Raw) (models.Format, error) {
	t, err := models.ParseFormatType(raw.FormatType)
	if err != nil {
		return models.Format{}, &ValidationError{Field: "formatType", Reason: "must be one of physical, ebook, audiobook"}
	}

	f := models.Format{
		ID:          strings.TrimSpace(raw.ID),
		Type:        t,
		IsAvailable: raw.IsAvailable,
		File:        raw.File,
		FileURL:     strings.TrimSpace(raw.FileURL),
	}

	if raw.Price == "" {
		return models.Format{}, &ValidationError{Field: "price", Reason: "is required"}
	}
	if f.Price, err = decimal.NewFromString(string(raw.Price)); err != nil {
		return models.Format{}, &ValidationError{Field: "price", Reason: "must be a number"}
	}

	if raw.DiscountPrice != "" {
		d, err := decimal.NewFromString(string(raw.DiscountPrice))
		if err != nil {
			return models.Format{}, &ValidationError{Field: "discountPrice", Reason: "must be a number"}
		}
		f.DiscountPrice = &d
	}

	if raw.StockQuantity != "" {
		q, err := decimal.NewFromString(string(raw.StockQuantity))
		if err != nil || !q.IsInteger() {
			return models.Format{}, &ValidationError{Field: "stockQuantity", Reason: "must be a non-negative integer"}
		}
		if q.Abs().GreaterThan(stockLimit) {
			return models.Format{}, &ValidationError{Field: "stockQuantity", Reason: "is too large"}
		}
		n := int(q.IntPart())
		f.StockQuantity = &n
	}

	return f, nil
}
