// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// SEO holds the search metadata an editor fills in for a product.
type SEO struct {
	MetaTitle       string `json:"metaTitle"`
	MetaDescription string `json:"metaDescription"`
	MetaKeywords    string `json:"metaKeywords,omitempty"`
}

// Product is a catalog entry with its formats and media.
type Product struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Slug        string      `json:"slug"`
	Description string      `json:"description"`
	CategoryID  string      `json:"categoryId"`
	AuthorIDs   []string    `json:"authorIds"`
	PublisherID string      `json:"publisherId"`
	SEO         SEO         `json:"seo"`
	Formats     []Format    `json:"formats"`
	Media       []MediaItem `json:"media"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// Author is a lookup record offered in the product editor.
type Author struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Publisher is a lookup record offered in the product editor.
type Publisher struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
