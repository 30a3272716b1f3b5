// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package variant validates and normalizes the sale formats of a product
// (physical book, e-book, audiobook) and computes prices and purchasable
// quantities. Everything here is pure: no I/O, no shared state.
package variant

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"folio/internal/models"
)

// DefaultMaxFileSize is the largest e-book or audiobook source accepted (6 MiB).
const DefaultMaxFileSize int64 = 6 << 20

// ErrNotPurchasable is returned for a physical format with no stock left.
var ErrNotPurchasable = errors.New("variant: format is out of stock")

// ebookTypes lists the document types accepted as e-book sources.
var ebookTypes = map[string]bool{
	"application/pdf":      true,
	"application/epub+zip": true,
}

// ValidationError describes one malformed format field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Reason
}

// Rules holds the configurable limits of the format rule engine.
type Rules struct {
	MaxFileSize int64
}

// DefaultRules returns the rules used when nothing is configured.
func DefaultRules() Rules {
	return Rules{MaxFileSize: DefaultMaxFileSize}
}

// Validate returns the first rule the format breaks, or nil.
func (r Rules) Validate(f models.Format) error {
	if errs := r.Check(f); len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// Check runs every rule and returns all failures in rule order: type,
// price, stock, file, discount.
func (r Rules) Check(f models.Format) []*ValidationError {
	var errs []*ValidationError
	add := func(e *ValidationError) {
		if e != nil {
			errs = append(errs, e)
		}
	}

	typeOK := f.Type.Valid()
	if !typeOK {
		add(&ValidationError{Field: "formatType", Reason: "must be one of physical, ebook, audiobook"})
	}

	priceOK := f.Price.IsPositive()
	if !priceOK {
		add(&ValidationError{Field: "price", Reason: "must be a positive number"})
	}

	if typeOK && f.Type == models.FormatPhysical {
		add(checkStock(f))
	}
	if typeOK && f.Type.IsDigital() {
		add(r.checkFile(f))
	}

	if f.DiscountPrice != nil {
		switch {
		case !f.DiscountPrice.IsPositive():
			add(&ValidationError{Field: "discountPrice", Reason: "must be greater than zero"})
		case priceOK && f.DiscountPrice.GreaterThanOrEqual(f.Price):
			add(&ValidationError{Field: "discountPrice", Reason: "must be lower than the price"})
		}
	}
	return errs
}

func checkStock(f models.Format) *ValidationError {
	if f.StockQuantity == nil {
		return &ValidationError{Field: "stockQuantity", Reason: "is required for physical formats"}
	}
	if *f.StockQuantity < 0 {
		return &ValidationError{Field: "stockQuantity", Reason: "must be a non-negative integer"}
	}
	return nil
}

func (r Rules) checkFile(f models.Format) *ValidationError {
	hasFile := f.File != nil
	hasURL := strings.TrimSpace(f.FileURL) != ""

	switch {
	case !hasFile && !hasURL:
		if f.Type == models.FormatEbook {
			return &ValidationError{Field: "file", Reason: "an e-book file is required"}
		}
		return &ValidationError{Field: "file", Reason: "an audio file is required"}
	case hasFile && hasURL:
		return &ValidationError{Field: "file", Reason: "provide either a new file or the existing file URL, not both"}
	case hasURL:
		return nil
	}

	contentType := strings.ToLower(strings.TrimSpace(f.File.ContentType))
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	switch f.Type {
	case models.FormatEbook:
		if !ebookTypes[contentType] {
			return &ValidationError{Field: "file", Reason: "must be a PDF or EPUB document"}
		}
	case models.FormatAudiobook:
		if !strings.HasPrefix(contentType, "audio/") {
			return &ValidationError{Field: "file", Reason: "must be an audio file"}
		}
	}

	maxSize := r.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	if f.File.Size > maxSize {
		return &ValidationError{Field: "file", Reason: fmt.Sprintf("must not exceed %d MB", maxSize>>20)}
	}
	return nil
}

// Normalize returns a copy of f with fields that do not apply to its type
// removed: digital formats never carry stock, physical formats never carry
// a source file. The format type is canonicalized when recognizable.
func Normalize(f models.Format) models.Format {
	if t, err := models.ParseFormatType(string(f.Type)); err == nil {
		f.Type = t
	}
	if f.DiscountPrice != nil {
		d := *f.DiscountPrice
		f.DiscountPrice = &d
	}
	if f.StockQuantity != nil {
		s := *f.StockQuantity
		f.StockQuantity = &s
	}
	if f.File != nil {
		ref := *f.File
		f.File = &ref
	}

	switch {
	case f.Type == models.FormatPhysical:
		f.File = nil
		f.FileURL = ""
	case f.Type.IsDigital():
		f.StockQuantity = nil
	}
	return f
}

// UnitPrice is the discount price when it is set and strictly between zero
// and the list price, and the list price otherwise.
func UnitPrice(f models.Format) decimal.Decimal {
	if d := f.DiscountPrice; d != nil && d.IsPositive() && d.LessThan(f.Price) {
		return *d
	}
	return f.Price
}

// ResolvePrice returns the amount due for quantity units. A quantity below
// one is treated as one.
func ResolvePrice(f models.Format, quantity int) decimal.Decimal {
	if quantity < 1 {
		quantity = 1
	}
	return UnitPrice(f).Mul(decimal.NewFromInt(int64(quantity)))
}

// ClampQuantity fits a requested quantity into what the format can sell.
// Physical formats are capped by stock and fail with ErrNotPurchasable when
// none is left; digital formats only enforce a minimum of one.
func ClampQuantity(requested int, f models.Format) (int, error) {
	if requested < 1 {
		requested = 1
	}
	if f.Type != models.FormatPhysical {
		return requested, nil
	}

	stock := 0
	if f.StockQuantity != nil {
		stock = *f.StockQuantity
	}
	if stock <= 0 {
		return 0, ErrNotPurchasable
	}
	if requested > stock {
		return stock, nil
	}
	return requested, nil
}

// Purchasable reports whether an add-to-cart or buy action may proceed.
func Purchasable(f models.Format) bool {
	if !f.IsAvailable {
		return false
	}
	if f.Type == models.FormatPhysical {
		return f.StockQuantity != nil && *f.StockQuantity > 0
	}
	return f.Type.IsDigital()
}
