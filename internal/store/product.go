// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"folio/internal/media"
	"folio/internal/models"
)

// ErrStale is returned when a save references a row that no longer exists
// or belongs to another product.
var ErrStale = errors.New("store: record changed or removed")

// ProductStore manages products and the rows that hang off them: author
// links, formats and media.
type ProductStore struct {
	db *sql.DB
}

// NewProductStore returns a new ProductStore.
func NewProductStore(db *sql.DB) *ProductStore {
	return &ProductStore{db: db}
}

// ProductRecord is everything written by one product save.
type ProductRecord struct {
	ID          string
	IsNew       bool
	Title       string
	Slug        string
	Description string
	CategoryID  string
	PublisherID string
	AuthorIDs   []string
	SEO         models.SEO
	// Formats carry the object key of their file in FileURL.
	Formats []models.Format
	Media   []MediaChange
}

// MediaChange is one media operation with the storage location resolved.
type MediaChange struct {
	Kind     media.OpKind
	ID       string
	Role     models.MediaRole
	Title    string
	BaseURL  string
	ThumbURL string
}

// SaveResult reports what a save wrote and what it released.
type SaveResult struct {
	ProductID string
	FormatIDs []string
	// RemovedMedia are the media rows deleted by the save.
	RemovedMedia []models.MediaItem
	// RemovedFileKeys are format file keys no longer referenced.
	RemovedFileKeys []string
}

const productColumns = `id, title, slug, description, category_id, publisher_id,
	meta_title, meta_description, meta_keywords, created_at, updated_at`

func scanProduct(scanner interface{ Scan(...any) error }) (*models.Product, error) {
	var p models.Product
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Description, &p.CategoryID, &p.PublisherID,
		&p.SEO.MetaTitle, &p.SEO.MetaDescription, &p.SEO.MetaKeywords,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByID loads a product with its authors, formats and media. Returns
// nil if not found.
func (s *ProductStore) FindByID(ctx context.Context, id string) (*models.Product, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find product by id: %w", err)
	}

	if p.AuthorIDs, err = s.authorIDs(ctx, id); err != nil {
		return nil, err
	}
	if p.Formats, err = s.formats(ctx, id); err != nil {
		return nil, err
	}
	if p.Media, err = s.media(ctx, id); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProductStore) authorIDs(ctx context.Context, productID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT author_id FROM product_authors
		WHERE product_id = $1
		ORDER BY position
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("list product authors: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan product author: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *ProductStore) formats(ctx context.Context, productID string) ([]models.Format, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, format_type, price, discount_price, stock_quantity, is_available, file_key
		FROM product_formats
		WHERE product_id = $1
		ORDER BY created_at, id
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("list product formats: %w", err)
	}
	defer rows.Close()

	items := []models.Format{}
	for rows.Next() {
		var (
			f        models.Format
			discount decimal.NullDecimal
			fileKey  sql.NullString
		)
		if err := rows.Scan(&f.ID, &f.Type, &f.Price, &discount, &f.StockQuantity, &f.IsAvailable, &fileKey); err != nil {
			return nil, fmt.Errorf("scan product format: %w", err)
		}
		if discount.Valid {
			d := discount.Decimal
			f.DiscountPrice = &d
		}
		f.FileURL = fileKey.String
		items = append(items, f)
	}
	return items, rows.Err()
}

func (s *ProductStore) media(ctx context.Context, productID string) ([]models.MediaItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, role, title, base_url, thumb_url
		FROM product_media
		WHERE product_id = $1
		ORDER BY position, created_at
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("list product media: %w", err)
	}
	defer rows.Close()

	items := []models.MediaItem{}
	for rows.Next() {
		var m models.MediaItem
		if err := rows.Scan(&m.ID, &m.Role, &m.Title, &m.BaseURL, &m.ThumbURL); err != nil {
			return nil, fmt.Errorf("scan product media: %w", err)
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// Save writes a product and all of its child rows in one transaction.
// Formats missing from the record are deleted; media follow the record's
// operations in order.
func (s *ProductStore) Save(ctx context.Context, rec *ProductRecord) (*SaveResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := saveProductRow(ctx, tx, rec); err != nil {
		return nil, err
	}
	if err := saveAuthors(ctx, tx, rec.ID, rec.AuthorIDs); err != nil {
		return nil, err
	}

	result := &SaveResult{ProductID: rec.ID}
	if err := saveFormats(ctx, tx, rec, result); err != nil {
		return nil, err
	}
	if err := saveMedia(ctx, tx, rec, result); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit product save: %w", err)
	}
	return result, nil
}

func saveProductRow(ctx context.Context, tx *sql.Tx, rec *ProductRecord) error {
	if rec.IsNew {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO products (id, title, slug, description, category_id, publisher_id,
				meta_title, meta_description, meta_keywords)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, rec.ID, rec.Title, rec.Slug, rec.Description, rec.CategoryID, rec.PublisherID,
			rec.SEO.MetaTitle, rec.SEO.MetaDescription, rec.SEO.MetaKeywords)
		if err != nil {
			return fmt.Errorf("insert product: %w", err)
		}
		return nil
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE products SET
			title = $1, slug = $2, description = $3, category_id = $4, publisher_id = $5,
			meta_title = $6, meta_description = $7, meta_keywords = $8, updated_at = NOW()
		WHERE id = $9
	`, rec.Title, rec.Slug, rec.Description, rec.CategoryID, rec.PublisherID,
		rec.SEO.MetaTitle, rec.SEO.MetaDescription, rec.SEO.MetaKeywords, rec.ID)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update product %s: %w", rec.ID, ErrStale)
	}
	return nil
}

func saveAuthors(ctx context.Context, tx *sql.Tx, productID string, authorIDs []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM product_authors WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("clear product authors: %w", err)
	}
	seen := make(map[string]bool, len(authorIDs))
	for i, id := range authorIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO product_authors (product_id, author_id, position) VALUES ($1, $2, $3)
		`, productID, id, i); err != nil {
			return fmt.Errorf("link product author %s: %w", id, err)
		}
	}
	return nil
}

func saveFormats(ctx context.Context, tx *sql.Tx, rec *ProductRecord, result *SaveResult) error {
	rows, err := tx.QueryContext(ctx, `
		SELECT id, file_key FROM product_formats WHERE product_id = $1 FOR UPDATE
	`, rec.ID)
	if err != nil {
		return fmt.Errorf("lock product formats: %w", err)
	}
	existing := make(map[string]string)
	for rows.Next() {
		var id string
		var key sql.NullString
		if err := rows.Scan(&id, &key); err != nil {
			rows.Close()
			return fmt.Errorf("scan product format: %w", err)
		}
		existing[id] = key.String
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("lock product formats: %w", err)
	}

	kept := make(map[string]bool, len(rec.Formats))
	for _, f := range rec.Formats {
		if f.ID != "" {
			kept[f.ID] = true
		}
	}

	// Removed formats go first so a replacement of the same type can be
	// inserted without tripping the (product_id, format_type) constraint.
	for id, key := range existing {
		if kept[id] {
			continue
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM product_formats WHERE id = $1`, id); err != nil {
			return fmt.Errorf("delete product format %s: %w", id, err)
		}
		if key != "" {
			result.RemovedFileKeys = append(result.RemovedFileKeys, key)
		}
	}

	for _, f := range rec.Formats {
		fileKey := sql.NullString{String: f.FileURL, Valid: f.FileURL != ""}

		if f.ID == "" {
			var id string
			err := tx.QueryRowContext(ctx, `
				INSERT INTO product_formats (product_id, format_type, price, discount_price,
					stock_quantity, is_available, file_key)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
				RETURNING id
			`, rec.ID, f.Type, f.Price, f.DiscountPrice, f.StockQuantity, f.IsAvailable, fileKey).Scan(&id)
			if err != nil {
				return fmt.Errorf("insert product format: %w", err)
			}
			result.FormatIDs = append(result.FormatIDs, id)
			continue
		}

		oldKey, ok := existing[f.ID]
		if !ok {
			return fmt.Errorf("update product format %s: %w", f.ID, ErrStale)
		}
		_, err := tx.ExecContext(ctx, `
			UPDATE product_formats SET
				format_type = $1, price = $2, discount_price = $3, stock_quantity = $4,
				is_available = $5, file_key = $6, updated_at = NOW()
			WHERE id = $7
		`, f.Type, f.Price, f.DiscountPrice, f.StockQuantity, f.IsAvailable, fileKey, f.ID)
		if err != nil {
			return fmt.Errorf("update product format %s: %w", f.ID, err)
		}
		if oldKey != "" && oldKey != f.FileURL {
			result.RemovedFileKeys = append(result.RemovedFileKeys, oldKey)
		}
		result.FormatIDs = append(result.FormatIDs, f.ID)
	}
	return nil
}

func saveMedia(ctx context.Context, tx *sql.Tx, rec *ProductRecord, result *SaveResult) error {
	for _, ch := range rec.Media {
		if ch.Kind != media.OpDelete {
			continue
		}
		var m models.MediaItem
		err := tx.QueryRowContext(ctx, `
			DELETE FROM product_media WHERE id = $1 AND product_id = $2
			RETURNING id, role, title, base_url, thumb_url
		`, ch.ID, rec.ID).Scan(&m.ID, &m.Role, &m.Title, &m.BaseURL, &m.ThumbURL)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return fmt.Errorf("delete product media %s: %w", ch.ID, err)
		}
		result.RemovedMedia = append(result.RemovedMedia, m)
	}

	// Demote everything first so role swaps between kept items never hold
	// two covers at once.
	if _, err := tx.ExecContext(ctx, `
		UPDATE product_media SET role = $1 WHERE product_id = $2
	`, models.RoleGallery, rec.ID); err != nil {
		return fmt.Errorf("reset product media roles: %w", err)
	}

	position := 0
	for _, ch := range rec.Media {
		switch ch.Kind {
		case media.OpKeep:
			res, err := tx.ExecContext(ctx, `
				UPDATE product_media SET role = $1, position = $2
				WHERE id = $3 AND product_id = $4
			`, ch.Role, position, ch.ID, rec.ID)
			if err != nil {
				return fmt.Errorf("update product media %s: %w", ch.ID, err)
			}
			if n, _ := res.RowsAffected(); n == 0 {
				return fmt.Errorf("update product media %s: %w", ch.ID, ErrStale)
			}
		case media.OpCreate:
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO product_media (product_id, role, title, base_url, thumb_url, position)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, rec.ID, ch.Role, ch.Title, ch.BaseURL, ch.ThumbURL, position); err != nil {
				return fmt.Errorf("insert product media: %w", err)
			}
		default:
			continue
		}
		position++
	}
	return nil
}

// Delete removes a product and, through cascades, its child rows.
func (s *ProductStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}
