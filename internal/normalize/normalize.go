// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package normalize provides the canonical forms used across the backend:
// category values (lowercase, underscore-separated), their display labels,
// and sanitized filenames for uploaded files.
package normalize

import (
	"regexp"
	"strings"
)

var (
	// categoryDisallowed matches anything that isn't a letter, digit,
	// underscore, or space in an already lowercased category name.
	categoryDisallowed = regexp.MustCompile(`[^a-z0-9_\s-]`)
	// multipleUnderscores collapses consecutive underscores into one.
	multipleUnderscores = regexp.MustCompile(`_{2,}`)
	// unsafeFilename matches characters that must not appear in a stored
	// file name.
	unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9._-]`)
)

// Category converts a free-text category name into its stored value.
// Example: "Modern Style" → "modern_style"
func Category(name string) string {
	result := strings.ToLower(strings.TrimSpace(name))
	result = categoryDisallowed.ReplaceAllString(result, "")
	result = strings.ReplaceAll(result, "-", "_")
	result = strings.ReplaceAll(result, " ", "_")
	result = multipleUnderscores.ReplaceAllString(result, "_")
	return strings.Trim(result, "_")
}

// CategoryLabel converts a stored category value into its display label.
// Example: "modern_style" → "Modern Style"
func CategoryLabel(value string) string {
	words := strings.Split(strings.ReplaceAll(value, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Filename strips path components and unsafe characters from an uploaded
// file's original name so it can be embedded in a stored name.
// Example: "../My Photo (1).JPG" → "My_Photo_1.JPG"
func Filename(name string) string {
	// Drop any directory part the client sent, both separators.
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, " ", "_")
	name = unsafeFilename.ReplaceAllString(name, "")
	// A name of only dots would escape nothing but helps nobody.
	name = strings.Trim(name, ".")
	return name
}
