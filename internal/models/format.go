// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatType is the medium a product is sold in.
type FormatType string

const (
	FormatPhysical  FormatType = "physical"
	FormatEbook     FormatType = "ebook"
	FormatAudiobook FormatType = "audiobook"
)

// ParseFormatType narrows a free-form string to a known FormatType.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParseFormatType(s string) (FormatType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "physical":
		return FormatPhysical, nil
	case "ebook":
		return FormatEbook, nil
	case "audiobook":
		return FormatAudiobook, nil
	}
	return "", fmt.Errorf("unknown format type %q", s)
}

// Valid reports whether t is one of the known format types.
func (t FormatType) Valid() bool {
	switch t {
	case FormatPhysical, FormatEbook, FormatAudiobook:
		return true
	}
	return false
}

// IsDigital reports whether the format is delivered as a file.
func (t FormatType) IsDigital() bool {
	return t == FormatEbook || t == FormatAudiobook
}

// Format is one purchasable variant of a product. An empty ID marks a
// variant that has not been persisted yet.
type Format struct {
	ID            string           `json:"id,omitempty"`
	Type          FormatType       `json:"formatType"`
	Price         decimal.Decimal  `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discountPrice,omitempty"`
	StockQuantity *int             `json:"stockQuantity,omitempty"`
	IsAvailable   bool             `json:"isAvailable"`
	File          *FileRef         `json:"file,omitempty"`
	FileURL       string           `json:"fileUrl,omitempty"`
}

// IsNew reports whether the format has no backend identity yet.
func (f *Format) IsNew() bool {
	return f.ID == ""
}

// FileRef points at a file that was staged in object storage but is not
// yet attached to a product.
type FileRef struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	ThumbKey    string `json:"thumbKey,omitempty"`
}
