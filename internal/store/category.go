// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"sitecraft/internal/models"
	"sitecraft/internal/normalize"
)

// ErrCategoryExists signals a create for a value already in use within
// the section.
var ErrCategoryExists = errors.New("category already exists")

// CategoryStore manages the emergent category registry. Categories are not
// a table of their own: a category exists exactly while at least one row in
// a section's item tables carries its value. Empty categories are kept
// alive by placeholder rows.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

// tableForShape maps a row shape to its item table.
func tableForShape(shape models.Shape) string {
	switch shape {
	case models.ShapeText:
		return "text_items"
	case models.ShapeImage:
		return "image_items"
	case models.ShapeVideo:
		return "video_items"
	}
	panic("unknown shape: " + string(shape))
}

// ListForKind returns the distinct category values present for one content
// kind, placeholder rows included, sorted alphabetically.
func (s *CategoryStore) ListForKind(kind models.Kind) ([]models.Category, error) {
	rows, err := s.db.Query(fmt.Sprintf(`
		SELECT DISTINCT category FROM %s
		WHERE section = $1 AND kind = $2 AND category IS NOT NULL
	`, tableForShape(kind.Shape)), kind.Section, kind.Name)
	if err != nil {
		return nil, fmt.Errorf("list categories for kind: %w", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return categoriesFromValues(values), nil
}

// ListForSection returns the union of category values across every
// category-bearing kind of a section, sorted alphabetically.
func (s *CategoryStore) ListForSection(section models.Section) ([]models.Category, error) {
	seen := make(map[string]bool)
	var values []string
	for _, kind := range section.Kinds() {
		if !kind.HasCategory() {
			continue
		}
		cats, err := s.ListForKind(kind)
		if err != nil {
			return nil, err
		}
		for _, c := range cats {
			if !seen[c.Value] {
				seen[c.Value] = true
				values = append(values, c.Value)
			}
		}
	}
	return categoriesFromValues(values), nil
}

// Exists reports whether a category value is present anywhere in a section.
func (s *CategoryStore) Exists(section models.Section, value string) (bool, error) {
	cats, err := s.ListForSection(section)
	if err != nil {
		return false, err
	}
	for _, c := range cats {
		if c.Value == value {
			return true, nil
		}
	}
	return false, nil
}

// Create registers a new category in a section by inserting one placeholder
// row into each category-bearing kind's table, all in one transaction. The
// name is normalized first; the stored value is returned. A value already
// in use within the section is ErrCategoryExists.
func (s *CategoryStore) Create(section models.Section, name string) (string, error) {
	value := normalize.Category(name)
	if value == "" {
		return "", fmt.Errorf("category name %q normalizes to empty", name)
	}

	exists, err := s.Exists(section, value)
	if err != nil {
		return "", err
	}
	if exists {
		return "", fmt.Errorf("%w: %s/%s", ErrCategoryExists, section, value)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, kind := range section.Kinds() {
		if !kind.HasCategory() {
			continue
		}
		_, err := tx.Exec(fmt.Sprintf(`
			INSERT INTO %s (id, section, kind, title, category, placeholder)
			VALUES ($1, $2, $3, $4, $5, TRUE)
		`, tableForShape(kind.Shape)), uuid.New(), kind.Section, kind.Name, "Category: "+value, value)
		if err != nil {
			return "", fmt.Errorf("create category placeholder: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit category create: %w", err)
	}
	return value, nil
}

// DeleteRows removes every row of one content kind carrying a category
// value, placeholders included, and returns the number of rows removed.
// Sibling kinds of the section keep their rows. Attached files must be
// cleaned up by the caller before this is invoked.
func (s *CategoryStore) DeleteRows(kind models.Kind, value string) (int64, error) {
	res, err := s.db.Exec(fmt.Sprintf(`
		DELETE FROM %s WHERE section = $1 AND kind = $2 AND category = $3
	`, tableForShape(kind.Shape)), kind.Section, kind.Name, value)
	if err != nil {
		return 0, fmt.Errorf("delete category rows: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// categoriesFromValues pairs each stored value with its display label and
// sorts by label, which is what listings show.
func categoriesFromValues(values []string) []models.Category {
	cats := make([]models.Category, 0, len(values))
	for _, v := range values {
		cats = append(cats, models.Category{
			Value: v,
			Label: normalize.CategoryLabel(v),
		})
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i].Label < cats[j].Label })
	return cats
}
