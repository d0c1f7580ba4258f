// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"sitecraft/internal/models"
)

// TextStore handles database operations for text-shaped content rows
// (hero copy, badges, team bios, testimonials).
type TextStore struct {
	db *sql.DB
}

// NewTextStore creates a new TextStore with the given database connection.
func NewTextStore(db *sql.DB) *TextStore {
	return &TextStore{db: db}
}

const textColumns = `id, section, kind, title, body, category, author,
	company, position, value, placeholder, created_at, updated_at`

// scanText scans a row into a TextItem struct.
func scanText(scanner interface{ Scan(...any) error }) (*models.TextItem, error) {
	var t models.TextItem
	err := scanner.Scan(
		&t.ID, &t.Section, &t.Kind, &t.Title, &t.Body, &t.Category,
		&t.Author, &t.Company, &t.Position, &t.Value, &t.Placeholder,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns text items of a kind ordered by creation date descending.
// An empty category means no category filter. Placeholder rows exist only
// to keep empty categories alive and are excluded unless asked for.
func (s *TextStore) List(section models.Section, kind, category string, includePlaceholders bool) ([]models.TextItem, error) {
	query := `SELECT ` + textColumns + ` FROM text_items WHERE section = $1 AND kind = $2`
	args := []any{section, kind}
	if !includePlaceholders {
		query += ` AND NOT placeholder`
	}
	if category != "" {
		args = append(args, category)
		query += fmt.Sprintf(` AND category = $%d`, len(args))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list text items: %w", err)
	}
	defer rows.Close()

	var items []models.TextItem
	for rows.Next() {
		t, err := scanText(rows)
		if err != nil {
			return nil, fmt.Errorf("scan text item: %w", err)
		}
		items = append(items, *t)
	}
	return items, rows.Err()
}

// Recent returns the newest real (non-placeholder) items of a kind, capped
// at limit. Used for dashboard previews.
func (s *TextStore) Recent(section models.Section, kind string, limit int) ([]models.TextItem, error) {
	rows, err := s.db.Query(`
		SELECT `+textColumns+` FROM text_items
		WHERE section = $1 AND kind = $2 AND NOT placeholder
		ORDER BY created_at DESC
		LIMIT $3
	`, section, kind, limit)
	if err != nil {
		return nil, fmt.Errorf("recent text items: %w", err)
	}
	defer rows.Close()

	var items []models.TextItem
	for rows.Next() {
		t, err := scanText(rows)
		if err != nil {
			return nil, fmt.Errorf("scan text item: %w", err)
		}
		items = append(items, *t)
	}
	return items, rows.Err()
}

// FindByID retrieves a text item by its UUID. Returns nil if not found.
func (s *TextStore) FindByID(id uuid.UUID) (*models.TextItem, error) {
	row := s.db.QueryRow(`SELECT `+textColumns+` FROM text_items WHERE id = $1`, id)
	t, err := scanText(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find text item by id: %w", err)
	}
	return t, nil
}

// Create inserts a new text item and returns it with server-side timestamps.
func (s *TextStore) Create(t *models.TextItem) (*models.TextItem, error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	row := s.db.QueryRow(`
		INSERT INTO text_items (id, section, kind, title, body, category,
		                        author, company, position, value, placeholder)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+textColumns,
		t.ID, t.Section, t.Kind, t.Title, t.Body, t.Category,
		t.Author, t.Company, t.Position, t.Value, t.Placeholder,
	)
	result, err := scanText(row)
	if err != nil {
		return nil, fmt.Errorf("create text item: %w", err)
	}
	return result, nil
}

// Update writes every mutable column and refreshes updated_at. Callers that
// want partial updates load the row first and overwrite only the fields
// the request carried.
func (s *TextStore) Update(t *models.TextItem) error {
	_, err := s.db.Exec(`
		UPDATE text_items SET
			title = $1, body = $2, category = $3, author = $4,
			company = $5, position = $6, value = $7, placeholder = $8,
			updated_at = NOW()
		WHERE id = $9
	`, t.Title, t.Body, t.Category, t.Author, t.Company, t.Position,
		t.Value, t.Placeholder, t.ID)
	if err != nil {
		return fmt.Errorf("update text item: %w", err)
	}
	return nil
}

// Delete removes a text item by ID.
func (s *TextStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM text_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete text item: %w", err)
	}
	return nil
}

// Count returns the number of real items of a kind.
func (s *TextStore) Count(section models.Section, kind string) (int, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM text_items
		WHERE section = $1 AND kind = $2 AND NOT placeholder
	`, section, kind).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count text items: %w", err)
	}
	return count, nil
}
