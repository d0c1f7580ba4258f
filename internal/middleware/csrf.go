// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"
)

const (
	// csrfTokenLength is the byte length of CSRF tokens (32 bytes = 64 hex chars).
	csrfTokenLength = 32

	// CSRFCookieName is the cookie that holds the CSRF token.
	CSRFCookieName = "sc_csrf"

	// CSRFHeaderName is the header the admin frontend sends the CSRF
	// token in.
	CSRFHeaderName = "X-CSRF-Token"

	// CSRFFormField is the form field fallback for urlencoded posts.
	CSRFFormField = "csrf_token"

	// csrfFormLimit caps how much body the form fallback will read.
	csrfFormLimit = 1 << 20
)

// csrfKey is the context key the current token is stored under.
var csrfKey = contextKey("csrf_token")

// NewCSRF returns double-submit cookie CSRF protection middleware. A
// token is issued in a cookie on first contact and every state-changing
// request (POST, PUT, PATCH, DELETE) must echo it back in the
// X-CSRF-Token header or, for urlencoded posts, the csrf_token form
// field. Multipart bodies are never parsed here: uploads must use the
// header, which keeps the handlers' body size cap intact. The cookie is
// deliberately readable by frontend JS so it can do the echoing; secure
// marks it Secure and should be set behind TLS.
func NewCSRF(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(CSRFCookieName)
			if err != nil || cookie.Value == "" {
				token, err := generateCSRFToken()
				if err != nil {
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     CSRFCookieName,
					Value:    token,
					Path:     "/",
					HttpOnly: false,
					Secure:   secure,
					SameSite: http.SameSiteStrictMode,
				})
				cookie = &http.Cookie{Value: token}
			}

			ctx := context.WithValue(r.Context(), csrfKey, cookie.Value)
			r = r.WithContext(ctx)

			// Safe methods don't need validation.
			if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			submitted := r.Header.Get(CSRFHeaderName)
			if submitted == "" && formEncoded(r) {
				r.Body = http.MaxBytesReader(w, r.Body, csrfFormLimit)
				submitted = r.PostFormValue(CSRFFormField)
			}

			if subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(submitted)) != 1 {
				http.Error(w, "CSRF token mismatch", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// formEncoded reports whether the request body is a plain urlencoded
// form, the only body shape the middleware is willing to read.
func formEncoded(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	return strings.TrimSpace(ct) == "application/x-www-form-urlencoded"
}

// CSRFTokenFromCtx returns the request's CSRF token, or "" when the
// middleware has not run.
func CSRFTokenFromCtx(ctx context.Context) string {
	token, _ := ctx.Value(csrfKey).(string)
	return token
}

// generateCSRFToken creates a cryptographically random token.
func generateCSRFToken() (string, error) {
	b := make([]byte, csrfTokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
