// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package api

import (
	"fmt"
	"unicode/utf8"

	"sitecraft/internal/models"
)

const (
	maxTitleLen = 300
	maxBodyLen  = 100_000
)

// validateText checks user-supplied text fields. It returns an empty
// string when the item is acceptable, or a client-facing message.
func validateText(item *models.TextItem) string {
	if item.Title == "" {
		return "title is required"
	}
	if item.Body == "" {
		return "content is required"
	}
	if utf8.RuneCountInString(item.Title) > maxTitleLen {
		return fmt.Sprintf("title exceeds %d characters", maxTitleLen)
	}
	if utf8.RuneCountInString(item.Body) > maxBodyLen {
		return fmt.Sprintf("content exceeds %d characters", maxBodyLen)
	}
	return ""
}
