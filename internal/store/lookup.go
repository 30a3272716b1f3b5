// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"folio/internal/models"
)

// LookupStore reads the author and publisher lists the product form
// selects from.
type LookupStore struct {
	db *sql.DB
}

// NewLookupStore returns a new LookupStore.
func NewLookupStore(db *sql.DB) *LookupStore {
	return &LookupStore{db: db}
}

// Authors returns all authors ordered by name.
func (s *LookupStore) Authors(ctx context.Context) ([]models.Author, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM authors ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	defer rows.Close()

	var items []models.Author
	for rows.Next() {
		var a models.Author
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, fmt.Errorf("scan author: %w", err)
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

// Publishers returns all publishers ordered by name.
func (s *LookupStore) Publishers(ctx context.Context) ([]models.Publisher, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM publishers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list publishers: %w", err)
	}
	defer rows.Close()

	var items []models.Publisher
	for rows.Next() {
		var p models.Publisher
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("scan publisher: %w", err)
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

// CreateAuthor inserts an author and returns it.
func (s *LookupStore) CreateAuthor(ctx context.Context, name string) (*models.Author, error) {
	a := models.Author{Name: name}
	err := s.db.QueryRowContext(ctx, `INSERT INTO authors (name) VALUES ($1) RETURNING id`, name).Scan(&a.ID)
	if err != nil {
		return nil, fmt.Errorf("create author: %w", err)
	}
	return &a, nil
}

// CreatePublisher inserts a publisher and returns it.
func (s *LookupStore) CreatePublisher(ctx context.Context, name string) (*models.Publisher, error) {
	p := models.Publisher{Name: name}
	err := s.db.QueryRowContext(ctx, `INSERT INTO publishers (name) VALUES ($1) RETURNING id`, name).Scan(&p.ID)
	if err != nil {
		return nil, fmt.Errorf("create publisher: %w", err)
	}
	return &p, nil
}
