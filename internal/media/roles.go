// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package media

import (
	"fmt"
	"strings"

	"folio/internal/models"
)

// AssignRole returns a copy of items with items[index] moved to role. When
// role is a singleton, whoever held it before is demoted to gallery so the
// set stays reconcilable.
func AssignRole(items []models.MediaItem, index int, role models.MediaRole) ([]models.MediaItem, error) {
	if index < 0 || index >= len(items) {
		return nil, fmt.Errorf("media: index %d out of range", index)
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w %q", ErrUnknownRole, role)
	}

	out := make([]models.MediaItem, len(items))
	copy(out, items)
	if role.Singleton() {
		for i := range out {
			if i != index && out[i].Role == role {
				out[i].Role = models.RoleGallery
			}
		}
	}
	out[index].Role = role
	return out, nil
}

// HasRole reports whether any item holds role.
func HasRole(items []models.MediaItem, role models.MediaRole) bool {
	for _, m := range items {
		if m.Role == role {
			return true
		}
	}
	return false
}

// Raw is a media record as the catalog service or an edit form sends it,
// with the role still a free string.
type Raw struct {
	ID        string          `json:"id"`
	MediaRole string          `json:"mediaRole"`
	Title     string          `json:"title"`
	MediaURL  string          `json:"mediaUrl"`
	File      *models.FileRef `json:"file,omitempty"`
}

// Parse narrows a Raw record to a MediaItem, rejecting unknown roles.
func Parse(raw Raw) (models.MediaItem, error) {
	role, err := models.ParseMediaRole(raw.MediaRole)
	if err != nil {
		return models.MediaItem{}, fmt.Errorf("%w %q", ErrUnknownRole, raw.MediaRole)
	}
	return models.MediaItem{
		ID:      strings.TrimSpace(raw.ID),
		Role:    role,
		Title:   strings.TrimSpace(raw.Title),
		BaseURL: strings.TrimSpace(raw.MediaURL),
		File:    raw.File,
	}, nil
}
