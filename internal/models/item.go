// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// TextItem is a unit of textual content (hero copy, badges, team bios,
// testimonials). Author, Company, Position, and Value are only populated
// for kinds that use them.
type TextItem struct {
	ID          uuid.UUID `json:"id"`
	Section     Section   `json:"section"`
	Kind        string    `json:"kind"`
	Title       string    `json:"title"`
	Body        string    `json:"content"`
	Category    *string   `json:"category,omitempty"`
	Author      *string   `json:"author,omitempty"`
	Company     *string   `json:"company,omitempty"`
	Position    *string   `json:"position,omitempty"`
	Value       *string   `json:"value,omitempty"`
	Placeholder bool      `json:"placeholder,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ImageItem is an uploaded image with metadata. ImagePath is nil until a
// file is attached and always stored root-relative with forward slashes.
type ImageItem struct {
	ID          uuid.UUID `json:"id"`
	Section     Section   `json:"section"`
	Kind        string    `json:"kind"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	ImagePath   *string   `json:"image_path"`
	Category    *string   `json:"category,omitempty"`
	WebsiteURL  *string   `json:"website_url,omitempty"`
	Placeholder bool      `json:"placeholder,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// VideoItem is an uploaded video with metadata, mirroring ImageItem.
type VideoItem struct {
	ID          uuid.UUID `json:"id"`
	Section     Section   `json:"section"`
	Kind        string    `json:"kind"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	VideoPath   *string   `json:"video_path"`
	Category    *string   `json:"category,omitempty"`
	Author      *string   `json:"author,omitempty"`
	Company     *string   `json:"company,omitempty"`
	Placeholder bool      `json:"placeholder,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HasAttachedFile is implemented by row types that may reference a stored
// file. Delete paths ask for the path through this interface instead of
// probing struct fields.
type HasAttachedFile interface {
	// AttachmentPath returns the root-relative stored path, or "" when
	// no file is attached.
	AttachmentPath() string
}

// AttachmentPath implements HasAttachedFile.
func (i *ImageItem) AttachmentPath() string {
	if i.ImagePath == nil {
		return ""
	}
	return *i.ImagePath
}

// AttachmentPath implements HasAttachedFile.
func (v *VideoItem) AttachmentPath() string {
	if v.VideoPath == nil {
		return ""
	}
	return *v.VideoPath
}

// Category pairs a stored category value with its display label
// (underscores to spaces, title-cased).
type Category struct {
	Value string `json:"value"`
	Label string `json:"label"`
}
