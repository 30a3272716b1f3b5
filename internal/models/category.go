// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"
)

// Category is a node of the catalog category forest. A node owns its
// children; the parent is referenced by id only.
type Category struct {
	ID        string    `json:"id"`
	ParentID  *string   `json:"parentId,omitempty"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	SortOrder int       `json:"sortOrder"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Virtual fields populated by the hierarchy resolver.
	Children []Category `json:"children,omitempty"`
	Depth    int        `json:"depth"`
}

// IsRoot reports whether the category has no parent.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil || *c.ParentID == ""
}
