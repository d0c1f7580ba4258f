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

// VideoStore handles database operations for video-shaped content rows.
type VideoStore struct {
	db *sql.DB
}

// NewVideoStore creates a new VideoStore with the given database connection.
func NewVideoStore(db *sql.DB) *VideoStore {
	return &VideoStore{db: db}
}

const videoColumns = `id, section, kind, title, description, video_path,
	author, company, category, placeholder, created_at, updated_at`

// scanVideo scans a row into a VideoItem struct.
func scanVideo(scanner interface{ Scan(...any) error }) (*models.VideoItem, error) {
	var v models.VideoItem
	err := scanner.Scan(
		&v.ID, &v.Section, &v.Kind, &v.Title, &v.Description, &v.VideoPath,
		&v.Author, &v.Company, &v.Category, &v.Placeholder,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// List returns video items of a kind ordered by creation date descending.
// An empty category means no category filter.
func (s *VideoStore) List(section models.Section, kind, category string, includePlaceholders bool) ([]models.VideoItem, error) {
	query := `SELECT ` + videoColumns + ` FROM video_items WHERE section = $1 AND kind = $2`
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
		return nil, fmt.Errorf("list video items: %w", err)
	}
	defer rows.Close()

	var items []models.VideoItem
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan video item: %w", err)
		}
		items = append(items, *v)
	}
	return items, rows.Err()
}

// Recent returns the newest real items of a kind, capped at limit.
func (s *VideoStore) Recent(section models.Section, kind string, limit int) ([]models.VideoItem, error) {
	rows, err := s.db.Query(`
		SELECT `+videoColumns+` FROM video_items
		WHERE section = $1 AND kind = $2 AND NOT placeholder
		ORDER BY created_at DESC
		LIMIT $3
	`, section, kind, limit)
	if err != nil {
		return nil, fmt.Errorf("recent video items: %w", err)
	}
	defer rows.Close()

	var items []models.VideoItem
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan video item: %w", err)
		}
		items = append(items, *v)
	}
	return items, rows.Err()
}

// FindByID retrieves a video item by its UUID. Returns nil if not found.
func (s *VideoStore) FindByID(id uuid.UUID) (*models.VideoItem, error) {
	row := s.db.QueryRow(`SELECT `+videoColumns+` FROM video_items WHERE id = $1`, id)
	v, err := scanVideo(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find video item by id: %w", err)
	}
	return v, nil
}

// Create inserts a new video item and returns it with server-side timestamps.
func (s *VideoStore) Create(v *models.VideoItem) (*models.VideoItem, error) {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	row := s.db.QueryRow(`
		INSERT INTO video_items (id, section, kind, title, description,
		                         video_path, author, company, category, placeholder)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+videoColumns,
		v.ID, v.Section, v.Kind, v.Title, v.Description,
		v.VideoPath, v.Author, v.Company, v.Category, v.Placeholder,
	)
	result, err := scanVideo(row)
	if err != nil {
		return nil, fmt.Errorf("create video item: %w", err)
	}
	return result, nil
}

// Update writes every mutable column and refreshes updated_at.
func (s *VideoStore) Update(v *models.VideoItem) error {
	_, err := s.db.Exec(`
		UPDATE video_items SET
			title = $1, description = $2, video_path = $3, author = $4,
			company = $5, category = $6, placeholder = $7, updated_at = NOW()
		WHERE id = $8
	`, v.Title, v.Description, v.VideoPath, v.Author,
		v.Company, v.Category, v.Placeholder, v.ID)
	if err != nil {
		return fmt.Errorf("update video item: %w", err)
	}
	return nil
}

// Delete removes a video item row by ID. The stored file is the caller's
// responsibility and must be removed before the row.
func (s *VideoStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM video_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete video item: %w", err)
	}
	return nil
}

// Count returns the number of real items of a kind.
func (s *VideoStore) Count(section models.Section, kind string) (int, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM video_items
		WHERE section = $1 AND kind = $2 AND NOT placeholder
	`, section, kind).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count video items: %w", err)
	}
	return count, nil
}
