// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package files stores uploaded media behind a pluggable blob backend.
// Stored paths are root-relative with forward slashes so they survive a
// move between backends and operating systems.
package files

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"path"
	"strings"

	"github.com/google/uuid"

	"sitecraft/internal/models"
	"sitecraft/internal/normalize"
)

// ErrTypeNotAllowed signals an upload whose extension is outside the
// allow-list for its shape. Checked before any bytes are written.
var ErrTypeNotAllowed = errors.New("file type not allowed")

// allowedExts is the per-shape extension allow-list. Matching is
// case-insensitive on the extension only.
var allowedExts = map[models.Shape]map[string]bool{
	models.ShapeImage: {
		".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true,
	},
	models.ShapeVideo: {
		".mp4": true, ".webm": true, ".ogg": true, ".mov": true,
	},
}

// shapeDirs maps a shape to its subdirectory under the upload root.
var shapeDirs = map[models.Shape]string{
	models.ShapeImage: "uploads/images",
	models.ShapeVideo: "uploads/videos",
}

// Blob is the storage backend contract. Delete is idempotent: removing a
// missing object succeeds.
type Blob interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// URLBuilder is implemented by backends that build their own public URLs,
// such as an S3 bucket served directly or through a CDN.
type URLBuilder interface {
	FileURL(key string) string
}

// Store saves and removes uploaded files and builds their public URLs.
type Store struct {
	blob      Blob
	publicURL string
}

// New creates a file store on the given backend. publicURL is the base
// prefix for serving stored files.
func New(blob Blob, publicURL string) *Store {
	return &Store{blob: blob, publicURL: strings.TrimRight(publicURL, "/")}
}

// Allowed reports whether a filename's extension is acceptable for the
// given shape. The comparison is case-insensitive.
func Allowed(shape models.Shape, filename string) bool {
	ext := strings.ToLower(path.Ext(filename))
	return allowedExts[shape][ext]
}

// Save validates and stores an upload, returning its root-relative path.
// Names are made collision-free with a random prefix, so two concurrent
// uploads of the same filename never clash. For images a JPEG thumbnail
// is stored alongside when the source is large enough; thumbnail failures
// are logged, not fatal.
func (s *Store) Save(ctx context.Context, shape models.Shape, filename string, data []byte) (string, error) {
	if !Allowed(shape, filename) {
		return "", fmt.Errorf("%w: %q", ErrTypeNotAllowed, filename)
	}

	safe := normalize.Filename(filename)
	if safe == "" {
		return "", fmt.Errorf("%w: %q", ErrTypeNotAllowed, filename)
	}

	key := path.Join(shapeDirs[shape], randomPrefix()+"_"+safe)
	contentType := mime.TypeByExtension(strings.ToLower(path.Ext(safe)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := s.blob.Put(ctx, key, contentType, data); err != nil {
		return "", fmt.Errorf("save file %s: %w", key, err)
	}

	if shape == models.ShapeImage {
		thumb, err := generateThumbnail(bytes.NewReader(data), thumbMaxWidth)
		if err != nil {
			slog.Warn("thumbnail generation failed", "error", err, "key", key)
		} else if thumb != nil {
			tk := thumbKey(key)
			if err := s.blob.Put(ctx, tk, "image/jpeg", thumb); err != nil {
				slog.Warn("thumbnail save failed", "error", err, "key", tk)
			}
		}
	}

	return key, nil
}

// Delete removes a stored file. It is idempotent and best effort: an
// empty path and a missing object are both fine. For images the
// thumbnail, if any, goes too.
func (s *Store) Delete(ctx context.Context, relPath string) error {
	if relPath == "" {
		return nil
	}
	if err := s.blob.Delete(ctx, relPath); err != nil {
		return fmt.Errorf("delete file %s: %w", relPath, err)
	}
	if strings.HasPrefix(relPath, shapeDirs[models.ShapeImage]+"/") {
		if err := s.blob.Delete(ctx, thumbKey(relPath)); err != nil {
			slog.Warn("thumbnail delete failed", "error", err, "key", thumbKey(relPath))
		}
	}
	return nil
}

// URL returns the public URL for a stored path. A backend that knows its
// own URLs wins over the configured base prefix.
func (s *Store) URL(relPath string) string {
	if b, ok := s.blob.(URLBuilder); ok {
		return b.FileURL(relPath)
	}
	return s.publicURL + "/" + relPath
}

// randomPrefix returns the dashless hex form of a fresh UUID.
func randomPrefix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// thumbKey derives the thumbnail path from a stored image path.
func thumbKey(key string) string {
	ext := path.Ext(key)
	return strings.TrimSuffix(key, ext) + "_thumb.jpg"
}
