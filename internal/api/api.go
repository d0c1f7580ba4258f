// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package api implements the public REST surface: anonymous reads of
// section content and bearer-token writes. Responses are JSON throughout.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"sitecraft/internal/cache"
	"sitecraft/internal/files"
	"sitecraft/internal/markdown"
	"sitecraft/internal/models"
	"sitecraft/internal/section"
	"sitecraft/internal/store"
	"sitecraft/internal/token"
)

// Handler groups the REST API handlers and their collaborators.
type Handler struct {
	texts      *store.TextStore
	images     *store.ImageStore
	videos     *store.VideoStore
	categories *store.CategoryStore
	users      *store.UserStore
	aggregator *section.Aggregator
	files      *files.Store
	lists      *cache.ListCache
	tokens     *token.Issuer
	maxUpload  int64
}

// New creates the API handler group.
func New(
	texts *store.TextStore,
	images *store.ImageStore,
	videos *store.VideoStore,
	categories *store.CategoryStore,
	users *store.UserStore,
	aggregator *section.Aggregator,
	fileStore *files.Store,
	lists *cache.ListCache,
	tokens *token.Issuer,
	maxUpload int64,
) *Handler {
	return &Handler{
		texts:      texts,
		images:     images,
		videos:     videos,
		categories: categories,
		users:      users,
		aggregator: aggregator,
		files:      fileStore,
		lists:      lists,
		tokens:     tokens,
		maxUpload:  maxUpload,
	}
}

// errResponse is the uniform JSON error body.
type errResponse struct {
	Error string `json:"error"`
}

// writeError sends a JSON error with the given status.
func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, errResponse{Error: msg})
}

// serverError logs an internal failure and sends an opaque 500.
func serverError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("api internal error", "path", r.URL.Path, "error", err)
	writeError(w, r, http.StatusInternalServerError, "internal server error")
}

// textResponse wraps a text item with its rendered body.
type textResponse struct {
	models.TextItem
	ContentHTML string `json:"content_html,omitempty"`
}

// imageResponse wraps an image item with resolved file URLs.
type imageResponse struct {
	models.ImageItem
	ImageURL string `json:"image_url,omitempty"`
}

// videoResponse wraps a video item with its resolved file URL.
type videoResponse struct {
	models.VideoItem
	VideoURL string `json:"video_url,omitempty"`
}

func (h *Handler) textResponse(item models.TextItem) textResponse {
	resp := textResponse{TextItem: item}
	if item.Body != "" {
		html, err := markdown.ToHTML(item.Body)
		if err != nil {
			slog.Warn("markdown render failed", "id", item.ID, "error", err)
		} else {
			resp.ContentHTML = html
		}
	}
	return resp
}

func (h *Handler) imageResponse(item models.ImageItem) imageResponse {
	resp := imageResponse{ImageItem: item}
	if p := item.AttachmentPath(); p != "" {
		resp.ImageURL = h.files.URL(p)
	}
	return resp
}

func (h *Handler) videoResponse(item models.VideoItem) videoResponse {
	resp := videoResponse{VideoItem: item}
	if p := item.AttachmentPath(); p != "" {
		resp.VideoURL = h.files.URL(p)
	}
	return resp
}

func (h *Handler) textResponses(items []models.TextItem) []textResponse {
	out := make([]textResponse, 0, len(items))
	for _, item := range items {
		out = append(out, h.textResponse(item))
	}
	return out
}

func (h *Handler) imageResponses(items []models.ImageItem) []imageResponse {
	out := make([]imageResponse, 0, len(items))
	for _, item := range items {
		out = append(out, h.imageResponse(item))
	}
	return out
}

func (h *Handler) videoResponses(items []models.VideoItem) []videoResponse {
	out := make([]videoResponse, 0, len(items))
	for _, item := range items {
		out = append(out, h.videoResponse(item))
	}
	return out
}
