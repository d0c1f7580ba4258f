// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import "net/http"

// browserHeaders go on every response the backend serves, JSON and
// uploaded media alike: no MIME sniffing, no cross-origin framing of the
// console, no legacy XSS filter, trimmed referrers, no FLoC cohorts.
var browserHeaders = map[string]string{
	"X-Content-Type-Options": "nosniff",
	"X-Frame-Options":        "SAMEORIGIN",
	"X-XSS-Protection":       "0",
	"Referrer-Policy":        "strict-origin-when-cross-origin",
	"Permissions-Policy":     "interest-cohort=()",
}

// SecureHeaders applies the baseline browser protection headers.
func SecureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		for name, value := range browserHeaders {
			h.Set(name, value)
		}
		next.ServeHTTP(w, r)
	})
}
