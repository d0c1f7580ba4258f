// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package section aggregates the per-shape stores into section-level
// operations: overviews for the admin console, kind dispatch, and the
// cleanup choreography that keeps stored files and rows consistent.
package section

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"sitecraft/internal/files"
	"sitecraft/internal/models"
	"sitecraft/internal/store"
)

// recentLimit caps the per-kind preview in overviews.
const recentLimit = 5

var (
	// ErrInvalidContentType signals a kind name outside the section's
	// composition.
	ErrInvalidContentType = errors.New("invalid content type")

	// ErrNotFound signals a missing item.
	ErrNotFound = errors.New("item not found")

	// ErrCategoryNotFound signals a category delete that matched no rows.
	ErrCategoryNotFound = errors.New("category not found")
)

// Aggregator coordinates the three shape stores, the category registry,
// and the file store.
type Aggregator struct {
	texts      *store.TextStore
	images     *store.ImageStore
	videos     *store.VideoStore
	categories *store.CategoryStore
	files      *files.Store
}

// New wires an Aggregator over the given collaborators.
func New(texts *store.TextStore, images *store.ImageStore, videos *store.VideoStore, categories *store.CategoryStore, fileStore *files.Store) *Aggregator {
	return &Aggregator{
		texts:      texts,
		images:     images,
		videos:     videos,
		categories: categories,
		files:      fileStore,
	}
}

// KindOverview is the admin view of one content kind: how many real items
// it holds and a short preview of the newest ones. Recent holds a slice of
// the kind's item type.
type KindOverview struct {
	Name   string       `json:"name"`
	Shape  models.Shape `json:"shape"`
	Count  int          `json:"count"`
	Recent any          `json:"recent"`
}

// Overview is the admin view of one section.
type Overview struct {
	Section    models.Section    `json:"section"`
	Kinds      []KindOverview    `json:"kinds"`
	Categories []models.Category `json:"categories,omitempty"`
}

// SectionOverview builds the per-kind counts and previews for a section,
// plus its category registry when the section carries categories.
func (a *Aggregator) SectionOverview(section models.Section) (*Overview, error) {
	ov := &Overview{Section: section}
	for _, kind := range section.Kinds() {
		ko := KindOverview{Name: kind.Name, Shape: kind.Shape}

		var err error
		switch kind.Shape {
		case models.ShapeText:
			ko.Count, err = a.texts.Count(section, kind.Name)
			if err == nil {
				ko.Recent, err = a.texts.Recent(section, kind.Name, recentLimit)
			}
		case models.ShapeImage:
			ko.Count, err = a.images.Count(section, kind.Name)
			if err == nil {
				ko.Recent, err = a.images.Recent(section, kind.Name, recentLimit)
			}
		case models.ShapeVideo:
			ko.Count, err = a.videos.Count(section, kind.Name)
			if err == nil {
				ko.Recent, err = a.videos.Recent(section, kind.Name, recentLimit)
			}
		}
		if err != nil {
			return nil, fmt.Errorf("overview %s/%s: %w", section, kind.Name, err)
		}
		ov.Kinds = append(ov.Kinds, ko)
	}

	for _, kind := range section.Kinds() {
		if kind.HasCategory() {
			cats, err := a.categories.ListForSection(section)
			if err != nil {
				return nil, fmt.Errorf("overview %s categories: %w", section, err)
			}
			ov.Categories = cats
			break
		}
	}
	return ov, nil
}

// Dashboard builds overviews for every section in stable order.
func (a *Aggregator) Dashboard() ([]Overview, error) {
	var out []Overview
	for _, section := range models.AllSections() {
		ov, err := a.SectionOverview(section)
		if err != nil {
			return nil, err
		}
		out = append(out, *ov)
	}
	return out, nil
}

// Kind validates a kind name against a section's composition. Create and
// edit flows dispatch through this before handing off to the kind's
// store; an unknown name is the dispatch error.
func (a *Aggregator) Kind(section models.Section, kindName string) (models.Kind, error) {
	kind, ok := section.Kind(kindName)
	if !ok {
		return models.Kind{}, fmt.Errorf("%w: %s/%s", ErrInvalidContentType, section, kindName)
	}
	return kind, nil
}

// DeleteItem removes one item of a kind, cleaning up its stored file
// first. File removal is best effort: a failed delete is logged and the
// row still goes, so a broken disk never wedges the console.
func (a *Aggregator) DeleteItem(ctx context.Context, section models.Section, kindName string, id uuid.UUID) error {
	kind, err := a.Kind(section, kindName)
	if err != nil {
		return err
	}

	switch kind.Shape {
	case models.ShapeText:
		item, err := a.texts.FindByID(id)
		if err != nil {
			return err
		}
		if item == nil || item.Section != section || item.Kind != kindName {
			return ErrNotFound
		}
		return a.texts.Delete(id)

	case models.ShapeImage:
		item, err := a.images.FindByID(id)
		if err != nil {
			return err
		}
		if item == nil || item.Section != section || item.Kind != kindName {
			return ErrNotFound
		}
		a.cleanupFile(ctx, item)
		return a.images.Delete(id)

	case models.ShapeVideo:
		item, err := a.videos.FindByID(id)
		if err != nil {
			return err
		}
		if item == nil || item.Section != section || item.Kind != kindName {
			return ErrNotFound
		}
		a.cleanupFile(ctx, item)
		return a.videos.Delete(id)
	}

	return fmt.Errorf("%w: %s/%s", ErrInvalidContentType, section, kindName)
}

// DeleteCategory removes a category from one content kind: attached files
// first when the kind stores uploads, then every row of the kind carrying
// the value, placeholders included. Rows of sibling kinds keep the value.
// Returns the number of rows removed, or ErrCategoryNotFound when the
// value matches nothing in the kind.
func (a *Aggregator) DeleteCategory(ctx context.Context, section models.Section, kindName, value string) (int64, error) {
	kind, err := a.Kind(section, kindName)
	if err != nil {
		return 0, err
	}

	switch kind.Shape {
	case models.ShapeImage:
		items, err := a.images.List(section, kind.Name, value, true)
		if err != nil {
			return 0, err
		}
		for i := range items {
			a.cleanupFile(ctx, &items[i])
		}
	case models.ShapeVideo:
		items, err := a.videos.List(section, kind.Name, value, true)
		if err != nil {
			return 0, err
		}
		for i := range items {
			a.cleanupFile(ctx, &items[i])
		}
	}

	n, err := a.categories.DeleteRows(kind, value)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: %s/%s/%s", ErrCategoryNotFound, section, kindName, value)
	}
	return n, nil
}

// cleanupFile deletes an item's attached file if it has one. Failures are
// logged, never propagated.
func (a *Aggregator) cleanupFile(ctx context.Context, item models.HasAttachedFile) {
	path := item.AttachmentPath()
	if path == "" {
		return
	}
	if err := a.files.Delete(ctx, path); err != nil {
		slog.Warn("file cleanup failed", "path", path, "error", err)
	}
}
