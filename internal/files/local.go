// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package files

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalBlob stores objects under a base directory on the local filesystem.
// Keys use forward slashes and are mapped to native paths on write.
type LocalBlob struct {
	baseDir string
}

// NewLocalBlob creates the base directory if needed and returns a
// filesystem-backed blob store.
func NewLocalBlob(baseDir string) (*LocalBlob, error) {
	if baseDir == "" {
		return nil, errors.New("base directory is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create base directory: %w", err)
	}
	return &LocalBlob{baseDir: baseDir}, nil
}

// Put writes an object, creating parent directories as needed.
func (b *LocalBlob) Put(ctx context.Context, key, contentType string, data []byte) error {
	full := filepath.Join(b.baseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// Delete removes an object. A missing object is not an error.
func (b *LocalBlob) Delete(ctx context.Context, key string) error {
	full := filepath.Join(b.baseDir, filepath.FromSlash(key))
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}
