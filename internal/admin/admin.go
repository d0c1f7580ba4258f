// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package admin implements the JSON console the management frontend
// talks to: session login, dashboard overviews, and moderation actions.
// It sits behind session auth and CSRF, unlike the token-gated API.
package admin

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"sitecraft/internal/cache"
	"sitecraft/internal/middleware"
	"sitecraft/internal/models"
	"sitecraft/internal/normalize"
	"sitecraft/internal/section"
	"sitecraft/internal/session"
	"sitecraft/internal/store"
)

// Handler groups the console handlers and their collaborators.
type Handler struct {
	users      *store.UserStore
	categories *store.CategoryStore
	aggregator *section.Aggregator
	sessions   *session.Store
	lists      *cache.ListCache
}

// New creates the console handler group.
func New(
	users *store.UserStore,
	categories *store.CategoryStore,
	aggregator *section.Aggregator,
	sessions *session.Store,
	lists *cache.ListCache,
) *Handler {
	return &Handler{
		users:      users,
		categories: categories,
		aggregator: aggregator,
		sessions:   sessions,
		lists:      lists,
	}
}

type errResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, errResponse{Error: msg})
}

func serverError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("admin internal error", "path", r.URL.Path, "error", err)
	writeError(w, r, http.StatusInternalServerError, "internal server error")
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates console credentials and opens a session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := h.users.FindByUsername(req.Username)
	if err != nil {
		serverError(w, r, err)
		return
	}
	if user == nil || !h.users.CheckPassword(user, req.Password) {
		writeError(w, r, http.StatusUnauthorized, "invalid username or password")
		return
	}

	if _, err := h.sessions.Create(r.Context(), w, &session.Data{
		UserID:   user.ID,
		Username: user.Username,
	}); err != nil {
		serverError(w, r, err)
		return
	}

	if err := h.users.UpdateLastLogin(user.ID); err != nil {
		slog.Warn("failed to record login time", "user", user.Username, "error", err)
	}

	render.JSON(w, r, map[string]string{"status": "ok", "username": user.Username})
}

// Logout destroys the session and clears the cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(r.Context(), w, r); err != nil {
		serverError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]string{"status": "ok"})
}

// Me reports the logged-in user, for frontend session checks.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}
	render.JSON(w, r, map[string]string{
		"user_id":  sess.UserID.String(),
		"username": sess.Username,
	})
}

// Dashboard serves the all-sections overview: per-kind counts and the
// most recent items of every section.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	overviews, err := h.aggregator.Dashboard()
	if err != nil {
		serverError(w, r, err)
		return
	}
	render.JSON(w, r, overviews)
}

// Section serves one section's overview.
func (h *Handler) Section(w http.ResponseWriter, r *http.Request) {
	sec, ok := models.ParseSection(chi.URLParam(r, "section"))
	if !ok {
		writeError(w, r, http.StatusNotFound, "section not found")
		return
	}

	overview, err := h.aggregator.SectionOverview(sec)
	if err != nil {
		serverError(w, r, err)
		return
	}
	render.JSON(w, r, overview)
}

// DeleteItem removes one item through the aggregator, attached file
// included.
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	sec, ok := models.ParseSection(chi.URLParam(r, "section"))
	if !ok {
		writeError(w, r, http.StatusNotFound, "section not found")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid item id")
		return
	}

	kind := chi.URLParam(r, "kind")
	err = h.aggregator.DeleteItem(r.Context(), sec, kind, id)
	switch {
	case errors.Is(err, section.ErrInvalidContentType):
		writeError(w, r, http.StatusBadRequest, "invalid content type")
		return
	case errors.Is(err, section.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "item not found")
		return
	case err != nil:
		serverError(w, r, err)
		return
	}

	h.lists.InvalidateKind(r.Context(), sec, kind)
	render.JSON(w, r, map[string]string{"status": "deleted"})
}

// Categories serves the categories in use across a section.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	sec, ok := h.categorySection(w, r)
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

// CreateCategory registers a new, possibly still empty, category.
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	sec, ok := h.categorySection(w, r)
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

// DeleteCategory removes a category from one content kind and everything
// of that kind filed under it. Sibling kinds keep the value.
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	sec, ok := models.ParseSection(chi.URLParam(r, "section"))
	if !ok {
		writeError(w, r, http.StatusNotFound, "section not found")
		return
	}
	kindName := chi.URLParam(r, "kind")
	kind, err := h.aggregator.Kind(sec, kindName)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid content type")
		return
	}
	if !kind.HasCategory() {
		writeError(w, r, http.StatusBadRequest, "content type does not take a category")
		return
	}

	deleted, err := h.aggregator.DeleteCategory(r.Context(), sec, kindName, chi.URLParam(r, "value"))
	if errors.Is(err, section.ErrCategoryNotFound) {
		writeError(w, r, http.StatusNotFound, "category not found")
		return
	}
	if err != nil {
		serverError(w, r, err)
		return
	}

	h.lists.InvalidateKind(r.Context(), sec, kindName)
	render.JSON(w, r, map[string]any{"status": "deleted", "items_removed": deleted})
}

func (h *Handler) categorySection(w http.ResponseWriter, r *http.Request) (models.Section, bool) {
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
