// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package markdown

import (
	"strings"
	"testing"
)

func TestToHTML(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"heading", "# Welcome", "<h1"},
		{"emphasis", "Built to *last*", "<em>last</em>"},
		{"gfm table", "| A | B |\n| - | - |\n| 1 | 2 |", "<table>"},
		{"gfm strikethrough", "~~old price~~", "<del>old price</del>"},
		{"raw html passes through", `<div class="legacy">kept</div>`, `<div class="legacy">kept</div>`},
		{"fenced code highlighted", "```go\nfunc main() {}\n```", "<pre"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToHTML(tt.source)
			if err != nil {
				t.Fatalf("ToHTML: %v", err)
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("output %q does not contain %q", got, tt.want)
			}
		})
	}
}

func TestToHTMLHeadingAnchors(t *testing.T) {
	got, err := ToHTML("## Our Team")
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	if !strings.Contains(got, `id="our-team"`) {
		t.Errorf("heading missing generated anchor id: %q", got)
	}
}
