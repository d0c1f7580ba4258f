// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"sitecraft/internal/models"
	"sitecraft/internal/normalize"
	"sitecraft/internal/section"
	"sitecraft/internal/store"
)

// resolveCategorySection parses the {section} URL parameter and checks
// that the section actually carries categorized kinds.
func resolveCategorySection(w http.ResponseWriter, r *http.Request) (models.Section, bool) {
	sec, ok := models.ParseSection(chi.URLParam(r, "section"))
	if !ok {
		writeError(w, r, http.StatusNotFound, "section not found")
		return "", false
	}
	for _, k := range sec.Kinds() {
		if k.HasCategory() {
			return sec, true
		}
	}
	writeError(w, r, http.StatusBadRequest, "section does not use categories")
	return "", false
}

// ListCategories serves the distinct categories in use across a section.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	sec, ok := resolveCategorySection(w, r)
	if !ok {
		return
	}

	categories, err := h.categories.ListForSection(sec)
	if err != nil {
		serverError(w, r, err)
		return
	}
	render.JSON(w, r, categories)
}

type categoryRequest struct {
	Name string `json:"name"`
}

// CreateCategory registers a new category for a section, so it shows up
// in listings before any real content lands in it.
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	sec, ok := resolveCategorySection(w, r)
	if !ok {
		return
	}

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if normalize.Category(req.Name) == "" {
		writeError(w, r, http.StatusBadRequest, "category name is required")
		return
	}

	value, err := h.categories.Create(sec, req.Name)
	if errors.Is(err, store.ErrCategoryExists) {
		writeError(w, r, http.StatusConflict, "category already exists")
		return
	}
	if err != nil {
		serverError(w, r, err)
		return
	}

	h.lists.InvalidateSection(r.Context(), sec)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]string{"category": value})
}

// DeleteCategory removes a category from one content kind along with
// every item of the kind filed under it, attached files included. The
// same value on sibling kinds of the section is untouched.
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.resolveKind(w, r)
	if !ok {
		return
	}
	if !kind.HasCategory() {
		writeError(w, r, http.StatusBadRequest, "content type does not take a category")
		return
	}

	deleted, err := h.aggregator.DeleteCategory(r.Context(), kind.Section, kind.Name, chi.URLParam(r, "value"))
	if errors.Is(err, section.ErrCategoryNotFound) {
		writeError(w, r, http.StatusNotFound, "category not found")
		return
	}
	if err != nil {
		serverError(w, r, err)
		return
	}

	h.lists.InvalidateKind(r.Context(), kind.Section, kind.Name)
	render.JSON(w, r, map[string]any{"status": "deleted", "items_removed": deleted})
}
