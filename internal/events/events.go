// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package events publishes catalog change notifications so downstream
// services (search indexing, storefront caches) can refresh.
package events

import (
	"context"
	"time"
)

// Event types carried in Envelope.Type.
const (
	TypeProductSaved  = "product.saved"
	TypeCategoryMoved = "category.moved"
)

// Envelope wraps every published event.
type Envelope struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data"`
}

// ProductSaved is emitted after a product save commits.
type ProductSaved struct {
	ProductID     string   `json:"productId"`
	CategoryID    string   `json:"categoryId"`
	CategoryPath  []string `json:"categoryPath"`
	FormatIDs     []string `json:"formatIds"`
	MediaCreated  int      `json:"mediaCreated"`
	MediaDeleted  int      `json:"mediaDeleted"`
	MediaRetained int      `json:"mediaRetained"`
}

// CategoryMoved is emitted after a category is given a new parent.
type CategoryMoved struct {
	CategoryID  string `json:"categoryId"`
	OldParentID string `json:"oldParentId,omitempty"`
	NewParentID string `json:"newParentId,omitempty"`
}

// Publisher delivers events keyed by the aggregate they describe.
type Publisher interface {
	Publish(ctx context.Context, key string, event Envelope) error
	Close() error
}

// New wraps data in an envelope stamped with the current time.
func New(eventType string, data any) Envelope {
	return Envelope{Type: eventType, OccurredAt: time.Now().UTC(), Data: data}
}

// NopPublisher discards every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, Envelope) error { return nil }
func (NopPublisher) Close() error                                    { return nil }
