// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package api

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"sitecraft/internal/cache"
	"sitecraft/internal/files"
	"sitecraft/internal/models"
	"sitecraft/internal/normalize"
	"sitecraft/internal/section"
)

// resolveKind maps the {section}/{kind} URL pair onto the static section
// composition. Unknown sections are 404; a kind name outside the section
// is the dispatch error.
func (h *Handler) resolveKind(w http.ResponseWriter, r *http.Request) (models.Kind, bool) {
	sec, ok := models.ParseSection(chi.URLParam(r, "section"))
	if !ok {
		writeError(w, r, http.StatusNotFound, "section not found")
		return models.Kind{}, false
	}
	kind, err := h.aggregator.Kind(sec, chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid content type")
		return models.Kind{}, false
	}
	return kind, true
}

// itemID parses the {id} URL parameter.
func itemID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid item id")
		return uuid.Nil, false
	}
	return id, true
}

// List serves the public listing of one content kind, newest first.
// An optional ?category= filter narrows category-bearing kinds. Responses
// are cached in Valkey until the next write to the kind.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.resolveKind(w, r)
	if !ok {
		return
	}

	category := ""
	if kind.HasCategory() {
		category = normalize.Category(r.URL.Query().Get("category"))
	}

	key := cache.Key(kind.Section, kind.Name, category)
	if body, ok := h.lists.Get(r.Context(), key); ok {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write(body)
		return
	}

	var payload any
	var err error
	switch kind.Shape {
	case models.ShapeText:
		var items []models.TextItem
		items, err = h.texts.List(kind.Section, kind.Name, category, false)
		payload = h.textResponses(items)
	case models.ShapeImage:
		var items []models.ImageItem
		items, err = h.images.List(kind.Section, kind.Name, category, false)
		payload = h.imageResponses(items)
	case models.ShapeVideo:
		var items []models.VideoItem
		items, err = h.videos.List(kind.Section, kind.Name, category, false)
		payload = h.videoResponses(items)
	}
	if err != nil {
		serverError(w, r, err)
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		serverError(w, r, err)
		return
	}
	h.lists.Set(r.Context(), key, body)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Write(body)
}

// Get serves a single item by ID.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.resolveKind(w, r)
	if !ok {
		return
	}
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	switch kind.Shape {
	case models.ShapeText:
		item, err := h.texts.FindByID(id)
		if err != nil {
			serverError(w, r, err)
			return
		}
		if item == nil || item.Section != kind.Section || item.Kind != kind.Name {
			writeError(w, r, http.StatusNotFound, "item not found")
			return
		}
		render.JSON(w, r, h.textResponse(*item))

	case models.ShapeImage:
		item, err := h.images.FindByID(id)
		if err != nil {
			serverError(w, r, err)
			return
		}
		if item == nil || item.Section != kind.Section || item.Kind != kind.Name {
			writeError(w, r, http.StatusNotFound, "item not found")
			return
		}
		render.JSON(w, r, h.imageResponse(*item))

	case models.ShapeVideo:
		item, err := h.videos.FindByID(id)
		if err != nil {
			serverError(w, r, err)
			return
		}
		if item == nil || item.Section != kind.Section || item.Kind != kind.Name {
			writeError(w, r, http.StatusNotFound, "item not found")
			return
		}
		render.JSON(w, r, h.videoResponse(*item))
	}
}

// textPayload carries create and partial-update input for text items.
// Pointer fields distinguish "absent" from "set to empty".
type textPayload struct {
	Title    *string `json:"title"`
	Body     *string `json:"content"`
	Category *string `json:"category"`
	Author   *string `json:"author"`
	Company  *string `json:"company"`
	Position *string `json:"position"`
	Value    *string `json:"value"`
}

// Create inserts a new item. Text kinds take a JSON body; image and video
// kinds take multipart form data with the file under the shape's name.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.resolveKind(w, r)
	if !ok {
		return
	}

	switch kind.Shape {
	case models.ShapeText:
		h.createText(w, r, kind)
	case models.ShapeImage:
		h.createImage(w, r, kind)
	case models.ShapeVideo:
		h.createVideo(w, r, kind)
	}
}

func (h *Handler) createText(w http.ResponseWriter, r *http.Request, kind models.Kind) {
	var p textPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	item := &models.TextItem{Section: kind.Section, Kind: kind.Name}
	if p.Title != nil {
		item.Title = *p.Title
	}
	if p.Body != nil {
		item.Body = *p.Body
	}
	item.Author = p.Author
	item.Company = p.Company
	item.Position = p.Position
	item.Value = p.Value

	if msg := validateText(item); msg != "" {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}

	category, ok := h.resolveCategory(w, r, kind, p.Category, true)
	if !ok {
		return
	}
	item.Category = category

	created, err := h.texts.Create(item)
	if err != nil {
		serverError(w, r, err)
		return
	}

	h.lists.InvalidateKind(r.Context(), kind.Section, kind.Name)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, h.textResponse(*created))
}

func (h *Handler) createImage(w http.ResponseWriter, r *http.Request, kind models.Kind) {
	form, ok := h.parseUpload(w, r)
	if !ok {
		return
	}

	if form.title == "" {
		writeError(w, r, http.StatusBadRequest, "title is required")
		return
	}

	item := &models.ImageItem{
		Section: kind.Section,
		Kind:    kind.Name,
		Title:   form.title,
	}
	item.Description = form.description
	item.WebsiteURL = form.optional("website_url")

	category, ok := h.resolveCategory(w, r, kind, form.optional("category"), true)
	if !ok {
		return
	}
	item.Category = category

	if form.file == nil {
		writeError(w, r, http.StatusBadRequest, "file is required")
		return
	}

	rel, ok := h.saveUpload(w, r, kind.Shape, form)
	if !ok {
		return
	}
	item.ImagePath = &rel

	created, err := h.images.Create(item)
	if err != nil {
		// The row never landed, so the stored file must go too.
		h.files.Delete(r.Context(), rel)
		serverError(w, r, err)
		return
	}

	h.lists.InvalidateKind(r.Context(), kind.Section, kind.Name)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, h.imageResponse(*created))
}

func (h *Handler) createVideo(w http.ResponseWriter, r *http.Request, kind models.Kind) {
	form, ok := h.parseUpload(w, r)
	if !ok {
		return
	}

	if form.title == "" {
		writeError(w, r, http.StatusBadRequest, "title is required")
		return
	}

	item := &models.VideoItem{
		Section: kind.Section,
		Kind:    kind.Name,
		Title:   form.title,
	}
	item.Description = form.description
	item.Author = form.optional("author")
	item.Company = form.optional("company")

	category, ok := h.resolveCategory(w, r, kind, form.optional("category"), true)
	if !ok {
		return
	}
	item.Category = category

	if form.file == nil {
		writeError(w, r, http.StatusBadRequest, "file is required")
		return
	}

	rel, ok := h.saveUpload(w, r, kind.Shape, form)
	if !ok {
		return
	}
	item.VideoPath = &rel

	created, err := h.videos.Create(item)
	if err != nil {
		h.files.Delete(r.Context(), rel)
		serverError(w, r, err)
		return
	}

	h.lists.InvalidateKind(r.Context(), kind.Section, kind.Name)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, h.videoResponse(*created))
}

// Update applies a partial update: only the fields present in the request
// change, and updated_at is refreshed either way.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.resolveKind(w, r)
	if !ok {
		return
	}
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	switch kind.Shape {
	case models.ShapeText:
		h.updateText(w, r, kind, id)
	case models.ShapeImage:
		h.updateImage(w, r, kind, id)
	case models.ShapeVideo:
		h.updateVideo(w, r, kind, id)
	}
}

func (h *Handler) updateText(w http.ResponseWriter, r *http.Request, kind models.Kind, id uuid.UUID) {
	item, err := h.texts.FindByID(id)
	if err != nil {
		serverError(w, r, err)
		return
	}
	if item == nil || item.Section != kind.Section || item.Kind != kind.Name {
		writeError(w, r, http.StatusNotFound, "item not found")
		return
	}

	var p textPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if p.Title != nil {
		item.Title = *p.Title
	}
	if p.Body != nil {
		item.Body = *p.Body
	}
	if p.Author != nil {
		item.Author = p.Author
	}
	if p.Company != nil {
		item.Company = p.Company
	}
	if p.Position != nil {
		item.Position = p.Position
	}
	if p.Value != nil {
		item.Value = p.Value
	}
	if p.Category != nil {
		category, ok := h.resolveCategory(w, r, kind, p.Category, false)
		if !ok {
			return
		}
		item.Category = category
	}

	if msg := validateText(item); msg != "" {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}

	if err := h.texts.Update(item); err != nil {
		serverError(w, r, err)
		return
	}

	updated, err := h.texts.FindByID(id)
	if err != nil || updated == nil {
		serverError(w, r, err)
		return
	}

	h.lists.InvalidateKind(r.Context(), kind.Section, kind.Name)
	render.JSON(w, r, h.textResponse(*updated))
}

func (h *Handler) updateImage(w http.ResponseWriter, r *http.Request, kind models.Kind, id uuid.UUID) {
	item, err := h.images.FindByID(id)
	if err != nil {
		serverError(w, r, err)
		return
	}
	if item == nil || item.Section != kind.Section || item.Kind != kind.Name {
		writeError(w, r, http.StatusNotFound, "item not found")
		return
	}

	form, ok := h.parseUpload(w, r)
	if !ok {
		return
	}

	if v := form.optional("title"); v != nil {
		item.Title = *v
	}
	if v := form.optional("description"); v != nil {
		item.Description = v
	}
	if v := form.optional("website_url"); v != nil {
		item.WebsiteURL = v
	}
	if v := form.optional("category"); v != nil {
		category, ok := h.resolveCategory(w, r, kind, v, false)
		if !ok {
			return
		}
		item.Category = category
	}

	oldPath := item.AttachmentPath()
	var newPath string
	if form.file != nil {
		newPath, ok = h.saveUpload(w, r, kind.Shape, form)
		if !ok {
			return
		}
		item.ImagePath = &newPath
	}
	// A real update on a placeholder row turns it into content.
	item.Placeholder = false

	if err := h.images.Update(item); err != nil {
		if newPath != "" {
			h.files.Delete(r.Context(), newPath)
		}
		serverError(w, r, err)
		return
	}

	// The row now points at the new file; the old one is orphaned.
	if newPath != "" && oldPath != "" {
		h.files.Delete(r.Context(), oldPath)
	}

	updated, err := h.images.FindByID(id)
	if err != nil || updated == nil {
		serverError(w, r, err)
		return
	}

	h.lists.InvalidateKind(r.Context(), kind.Section, kind.Name)
	render.JSON(w, r, h.imageResponse(*updated))
}

func (h *Handler) updateVideo(w http.ResponseWriter, r *http.Request, kind models.Kind, id uuid.UUID) {
	item, err := h.videos.FindByID(id)
	if err != nil {
		serverError(w, r, err)
		return
	}
	if item == nil || item.Section != kind.Section || item.Kind != kind.Name {
		writeError(w, r, http.StatusNotFound, "item not found")
		return
	}

	form, ok := h.parseUpload(w, r)
	if !ok {
		return
	}

	if v := form.optional("title"); v != nil {
		item.Title = *v
	}
	if v := form.optional("description"); v != nil {
		item.Description = v
	}
	if v := form.optional("author"); v != nil {
		item.Author = v
	}
	if v := form.optional("company"); v != nil {
		item.Company = v
	}
	if v := form.optional("category"); v != nil {
		category, ok := h.resolveCategory(w, r, kind, v, false)
		if !ok {
			return
		}
		item.Category = category
	}

	oldPath := item.AttachmentPath()
	var newPath string
	if form.file != nil {
		newPath, ok = h.saveUpload(w, r, kind.Shape, form)
		if !ok {
			return
		}
		item.VideoPath = &newPath
	}
	item.Placeholder = false

	if err := h.videos.Update(item); err != nil {
		if newPath != "" {
			h.files.Delete(r.Context(), newPath)
		}
		serverError(w, r, err)
		return
	}

	if newPath != "" && oldPath != "" {
		h.files.Delete(r.Context(), oldPath)
	}

	updated, err := h.videos.FindByID(id)
	if err != nil || updated == nil {
		serverError(w, r, err)
		return
	}

	h.lists.InvalidateKind(r.Context(), kind.Section, kind.Name)
	render.JSON(w, r, h.videoResponse(*updated))
}

// Delete removes an item, file first, row second.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	sec, ok := models.ParseSection(chi.URLParam(r, "section"))
	if !ok {
		writeError(w, r, http.StatusNotFound, "section not found")
		return
	}
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	err := h.aggregator.DeleteItem(r.Context(), sec, chi.URLParam(r, "kind"), id)
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

	h.lists.InvalidateKind(r.Context(), sec, chi.URLParam(r, "kind"))
	render.JSON(w, r, map[string]string{"status": "deleted"})
}

// resolveCategory normalizes and validates a category value against the
// kind's rule. enforceRequired applies the required check (creates);
// updates only validate when the field is present.
func (h *Handler) resolveCategory(w http.ResponseWriter, r *http.Request, kind models.Kind, raw *string, enforceRequired bool) (*string, bool) {
	var value string
	if raw != nil {
		value = normalize.Category(*raw)
	}

	if value == "" {
		if kind.Category == models.CategoryRequired && enforceRequired {
			writeError(w, r, http.StatusBadRequest, "category is required")
			return nil, false
		}
		if raw != nil && kind.Category == models.CategoryRequired {
			writeError(w, r, http.StatusBadRequest, "category is required")
			return nil, false
		}
		return nil, true
	}

	if !kind.HasCategory() {
		writeError(w, r, http.StatusBadRequest, "content type does not take a category")
		return nil, false
	}
	return &value, true
}

// uploadForm is the parsed multipart payload for media writes.
type uploadForm struct {
	r           *http.Request
	title       string
	description *string
	file        multipart.File
	filename    string
}

// optional returns a pointer to a form value, or nil when the field was
// not sent at all.
func (f *uploadForm) optional(field string) *string {
	if f.r.MultipartForm == nil {
		return nil
	}
	vals, ok := f.r.MultipartForm.Value[field]
	if !ok || len(vals) == 0 {
		return nil
	}
	return &vals[0]
}

// parseUpload reads the multipart form, capped at the configured upload
// size. The file part may be named after the shape ("image", "video") or
// generically "file".
func (h *Handler) parseUpload(w http.ResponseWriter, r *http.Request) (*uploadForm, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid multipart form")
		return nil, false
	}

	form := &uploadForm{r: r, title: r.FormValue("title")}
	form.description = form.optional("description")

	for _, field := range []string{"image", "video", "file"} {
		file, header, err := r.FormFile(field)
		if err == nil {
			form.file = file
			form.filename = header.Filename
			break
		}
	}
	return form, true
}

// saveUpload stores the file part and returns the stored path.
func (h *Handler) saveUpload(w http.ResponseWriter, r *http.Request, shape models.Shape, form *uploadForm) (string, bool) {
	defer form.file.Close()

	if !files.Allowed(shape, form.filename) {
		writeError(w, r, http.StatusBadRequest, "file type not allowed")
		return "", false
	}

	data, err := io.ReadAll(form.file)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "failed to read upload")
		return "", false
	}

	rel, err := h.files.Save(r.Context(), shape, form.filename, data)
	if err != nil {
		if errors.Is(err, files.ErrTypeNotAllowed) {
			writeError(w, r, http.StatusBadRequest, "file type not allowed")
			return "", false
		}
		serverError(w, r, err)
		return "", false
	}
	return rel, true
}
