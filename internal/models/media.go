// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"strings"
)

// MediaRole is the slot an image occupies on the product page.
type MediaRole string

const (
	RoleCover     MediaRole = "cover"
	RoleBackCover MediaRole = "backCover"
	RoleGallery   MediaRole = "gallery"
)

// ParseMediaRole narrows a free-form string to a known MediaRole.
func ParseMediaRole(s string) (MediaRole, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cover":
		return RoleCover, nil
	case "backcover", "back_cover", "back-cover":
		return RoleBackCover, nil
	case "gallery":
		return RoleGallery, nil
	}
	return "", fmt.Errorf("unknown media role %q", s)
}

// Valid reports whether r is one of the known roles.
func (r MediaRole) Valid() bool {
	switch r {
	case RoleCover, RoleBackCover, RoleGallery:
		return true
	}
	return false
}

// Singleton reports whether at most one active item may hold the role.
func (r MediaRole) Singleton() bool {
	return r == RoleCover || r == RoleBackCover
}

// MediaItem is an image attached to a product. Persisted items carry an ID
// and a BaseURL; fresh uploads carry only a File.
type MediaItem struct {
	ID       string    `json:"id,omitempty"`
	Role     MediaRole `json:"mediaRole"`
	Title    string    `json:"title"`
	BaseURL  string    `json:"mediaUrl,omitempty"`
	ThumbURL string    `json:"thumbUrl,omitempty"`
	File     *FileRef  `json:"file,omitempty"`
}

// URL composes the full address of a persisted item. Returns an empty
// string for items that have not been uploaded yet.
func (m *MediaItem) URL() string {
	if m.BaseURL == "" {
		return ""
	}
	return strings.TrimRight(m.BaseURL, "/") + "/" + m.Title
}
