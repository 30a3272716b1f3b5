// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"folio/internal/models"
	"folio/internal/variant"
)

// downloadExpiry is how long a pre-signed format file URL stays valid.
const downloadExpiry = 1 * time.Hour

// Quote is the price of a quantity of one format.
type Quote struct {
	FormatID    string          `json:"formatId"`
	FormatType  string          `json:"formatType"`
	Requested   int             `json:"requested"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Amount      decimal.Decimal `json:"amount"`
	Purchasable bool            `json:"purchasable"`
}

// format loads a product and returns one of its formats.
func (s *Service) format(ctx context.Context, productID, formatID string) (*models.Format, error) {
	p, err := s.Product(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	for i := range p.Formats {
		if p.Formats[i].ID == formatID {
			return &p.Formats[i], nil
		}
	}
	return nil, ErrNotFound
}

// QuoteFormat prices a requested quantity of a format. The quantity is
// clamped to what can be bought; an out-of-stock physical format yields a
// quote with Purchasable false and a zero amount.
func (s *Service) QuoteFormat(ctx context.Context, productID, formatID string, quantity int) (*Quote, error) {
	f, err := s.format(ctx, productID, formatID)
	if err != nil {
		return nil, err
	}

	q := &Quote{
		FormatID:    f.ID,
		FormatType:  string(f.Type),
		Requested:   quantity,
		UnitPrice:   variant.UnitPrice(*f),
		Purchasable: variant.Purchasable(*f),
		Amount:      decimal.Zero,
	}
	clamped, err := variant.ClampQuantity(quantity, *f)
	if errors.Is(err, variant.ErrNotPurchasable) {
		return q, nil
	}
	if err != nil {
		return nil, err
	}
	q.Quantity = clamped
	q.Amount = variant.ResolvePrice(*f, clamped)
	return q, nil
}

// FormatDownloadURL returns a short-lived URL for the file behind a
// digital format.
func (s *Service) FormatDownloadURL(ctx context.Context, productID, formatID string) (string, error) {
	if s.objects == nil {
		return "", ErrStorageDisabled
	}
	f, err := s.format(ctx, productID, formatID)
	if err != nil {
		return "", err
	}
	if !f.Type.IsDigital() || f.FileURL == "" {
		return "", ErrNotFound
	}
	return s.objects.PresignedURL(ctx, s.objects.PrivateBucket(), f.FileURL, downloadExpiry)
}
