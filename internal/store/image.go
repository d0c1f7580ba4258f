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

// ImageStore handles database operations for image-shaped content rows.
type ImageStore struct {
	db *sql.DB
}

// NewImageStore creates a new ImageStore with the given database connection.
func NewImageStore(db *sql.DB) *ImageStore {
	return &ImageStore{db: db}
}

const imageColumns = `id, section, kind, title, description, image_path,
	website_url, category, placeholder, created_at, updated_at`

// scanImage scans a row into an ImageItem struct.
func scanImage(scanner interface{ Scan(...any) error }) (*models.ImageItem, error) {
	var i models.ImageItem
	err := scanner.Scan(
		&i.ID, &i.Section, &i.Kind, &i.Title, &i.Description, &i.ImagePath,
		&i.WebsiteURL, &i.Category, &i.Placeholder, &i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

// List returns image items of a kind ordered by creation date descending.
// An empty category means no category filter.
func (s *ImageStore) List(section models.Section, kind, category string, includePlaceholders bool) ([]models.ImageItem, error) {
	query := `SELECT ` + imageColumns + ` FROM image_items WHERE section = $1 AND kind = $2`
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
		return nil, fmt.Errorf("list image items: %w", err)
	}
	defer rows.Close()

	var items []models.ImageItem
	for rows.Next() {
		i, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan image item: %w", err)
		}
		items = append(items, *i)
	}
	return items, rows.Err()
}

// Recent returns the newest real items of a kind, capped at limit.
func (s *ImageStore) Recent(section models.Section, kind string, limit int) ([]models.ImageItem, error) {
	rows, err := s.db.Query(`
		SELECT `+imageColumns+` FROM image_items
		WHERE section = $1 AND kind = $2 AND NOT placeholder
		ORDER BY created_at DESC
		LIMIT $3
	`, section, kind, limit)
	if err != nil {
		return nil, fmt.Errorf("recent image items: %w", err)
	}
	defer rows.Close()

	var items []models.ImageItem
	for rows.Next() {
		i, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan image item: %w", err)
		}
		items = append(items, *i)
	}
	return items, rows.Err()
}

// FindByID retrieves an image item by its UUID. Returns nil if not found.
func (s *ImageStore) FindByID(id uuid.UUID) (*models.ImageItem, error) {
	row := s.db.QueryRow(`SELECT `+imageColumns+` FROM image_items WHERE id = $1`, id)
	i, err := scanImage(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find image item by id: %w", err)
	}
	return i, nil
}

// Create inserts a new image item and returns it with server-side timestamps.
func (s *ImageStore) Create(i *models.ImageItem) (*models.ImageItem, error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	row := s.db.QueryRow(`
		INSERT INTO image_items (id, section, kind, title, description,
		                         image_path, website_url, category, placeholder)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+imageColumns,
		i.ID, i.Section, i.Kind, i.Title, i.Description,
		i.ImagePath, i.WebsiteURL, i.Category, i.Placeholder,
	)
	result, err := scanImage(row)
	if err != nil {
		return nil, fmt.Errorf("create image item: %w", err)
	}
	return result, nil
}

// Update writes every mutable column and refreshes updated_at.
func (s *ImageStore) Update(i *models.ImageItem) error {
	_, err := s.db.Exec(`
		UPDATE image_items SET
			title = $1, description = $2, image_path = $3, website_url = $4,
			category = $5, placeholder = $6, updated_at = NOW()
		WHERE id = $7
	`, i.Title, i.Description, i.ImagePath, i.WebsiteURL,
		i.Category, i.Placeholder, i.ID)
	if err != nil {
		return fmt.Errorf("update image item: %w", err)
	}
	return nil
}

// Delete removes an image item row by ID. The stored file is the caller's
// responsibility and must be removed before the row.
func (s *ImageStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM image_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete image item: %w", err)
	}
	return nil
}

// Count returns the number of real items of a kind.
func (s *ImageStore) Count(section models.Section, kind string) (int, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM image_items
		WHERE section = $1 AND kind = $2 AND NOT placeholder
	`, section, kind).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count image items: %w", err)
	}
	return count, nil
}
