// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"folio/internal/models"
)

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, parent_id, title, slug, sort_order, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.ParentID, &c.Title, &c.Slug,
		&c.SortOrder, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// queryer is the part of *sql.DB and *sql.Tx the category queries need.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// List returns every category as a flat list ordered by sort_order. The
// hierarchy package assembles the tree.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	return listCategories(ctx, s.db)
}

func listCategories(ctx context.Context, q queryer) ([]models.Category, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		ORDER BY sort_order, title
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(ctx context.Context, id string) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// Create inserts a new category and returns it.
func (s *CategoryStore) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO categories (parent_id, title, slug, sort_order)
		VALUES ($1, $2, $3, $4)
		RETURNING `+categoryColumns,
		c.ParentID, c.Title, c.Slug, c.SortOrder,
	)
	result, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return result, nil
}

// categoryTreeLock is the advisory lock key held while a parent changes.
const categoryTreeLock int64 = 0x666f6c696f01

// CategoryMove is a parent change. A nil ParentID is the root level.
type CategoryMove struct {
	ID       string
	ParentID *string
}

// MoveFunc decides a move from the category rows as they stand inside the
// moving transaction. It returns nil when nothing changes.
type MoveFunc func(rows []models.Category) (*CategoryMove, error)

// Move applies the parent change decide settles on. Moves are serialised
// by a transaction-scoped advisory lock and decide reads the rows under
// that lock, so a cycle check made there holds when the update commits.
// Errors from decide are returned unwrapped. Returns the applied move, or
// nil if decide reported no change.
func (s *CategoryStore) Move(ctx context.Context, decide MoveFunc) (*CategoryMove, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin category move: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, categoryTreeLock); err != nil {
		return nil, fmt.Errorf("lock category tree: %w", err)
	}
	rows, err := listCategories(ctx, tx)
	if err != nil {
		return nil, err
	}
	move, err := decide(rows)
	if err != nil || move == nil {
		return nil, err
	}

	sortOrder, err := nextSortOrder(ctx, tx, move.ParentID)
	if err != nil {
		return nil, err
	}
	res, err := tx.ExecContext(ctx, `
		UPDATE categories SET parent_id = $1, sort_order = $2, updated_at = NOW()
		WHERE id = $3
	`, move.ParentID, sortOrder, move.ID)
	if err != nil {
		return nil, fmt.Errorf("set category parent: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("set category parent %s: %w", move.ID, ErrStale)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit category move: %w", err)
	}
	return move, nil
}

// nextSortOrder returns the next sort_order value for a given parent.
func nextSortOrder(ctx context.Context, q queryer, parentID *string) (int, error) {
	var maxOrder sql.NullInt64
	var err error
	if parentID == nil {
		err = q.QueryRowContext(ctx, `SELECT MAX(sort_order) FROM categories WHERE parent_id IS NULL`).Scan(&maxOrder)
	} else {
		err = q.QueryRowContext(ctx, `SELECT MAX(sort_order) FROM categories WHERE parent_id = $1`, *parentID).Scan(&maxOrder)
	}
	if err != nil {
		return 0, fmt.Errorf("next sort order: %w", err)
	}
	if maxOrder.Valid {
		return int(maxOrder.Int64) + 1, nil
	}
	return 0, nil
}
