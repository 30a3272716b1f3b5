package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"folio/internal/slug"
)

// seedCategory is one node of the development category tree.
type seedCategory struct {
	title    string
	children []seedCategory
}

var seedTree = []seedCategory{
	{title: "Fiction", children: []seedCategory{
		{title: "Fantasy", children: []seedCategory{{title: "Epic Fantasy"}, {title: "Urban Fantasy"}}},
		{title: "Science Fiction"},
		{title: "Crime"},
	}},
	{title: "Non-fiction", children: []seedCategory{
		{title: "History"},
		{title: "Science"},
	}},
	{title: "Children"},
}

// Seed populates the database with development catalog data: a category
// tree, a few authors and publishers. It does nothing when categories
// already exist.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin tx: %w", err)
	}
	defer tx.Rollback()

	var inserted int
	if err := seedCategories(tx, seedTree, nil, &inserted); err != nil {
		return err
	}

	for _, name := range []string{"Ursula K. Le Guin", "Terry Pratchett", "Mary Beard"} {
		if _, err := tx.Exec(`INSERT INTO authors (name) VALUES ($1)`, name); err != nil {
			return fmt.Errorf("seed insert author: %w", err)
		}
	}
	for _, name := range []string{"North Press", "Harbor Books"} {
		if _, err := tx.Exec(`INSERT INTO publishers (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name); err != nil {
			return fmt.Errorf("seed insert publisher: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with catalog data", "categories", inserted)
	return nil
}

func seedCategories(tx *sql.Tx, nodes []seedCategory, parentID *string, inserted *int) error {
	for i, n := range nodes {
		var id string
		err := tx.QueryRow(`
			INSERT INTO categories (parent_id, title, slug, sort_order)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, parentID, n.title, slug.Generate(n.title), i).Scan(&id)
		if err != nil {
			return fmt.Errorf("seed insert category %q: %w", n.title, err)
		}
		*inserted++
		if err := seedCategories(tx, n.children, &id, inserted); err != nil {
			return err
		}
	}
	return nil
}
