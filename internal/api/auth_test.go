// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestLogin(t *testing.T) {
	h := newHarness(t)

	username := "apilogin_" + uuid.NewString()[:8]
	user, err := h.users.Create(username, username+"@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	t.Cleanup(func() { h.db.Exec("DELETE FROM users WHERE username = $1", username) })

	t.Run("wrong password", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/login",
			strings.NewReader(`{"username":"`+username+`","password":"wrong"}`))
		rr := h.do(req)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("status: got %d, want 401", rr.Code)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/login",
			strings.NewReader(`{"username":"nobody-here","password":"whatever"}`))
		rr := h.do(req)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("status: got %d, want 401", rr.Code)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/login",
			strings.NewReader(`{"username":"`+username+`"}`))
		rr := h.do(req)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("status: got %d, want 400", rr.Code)
		}
	})

	t.Run("valid credentials", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/login",
			strings.NewReader(`{"username":"`+username+`","password":"correct-horse"}`))
		rr := h.do(req)
		if rr.Code != http.StatusOK {
			t.Fatalf("status: got %d, want 200: %s", rr.Code, rr.Body.String())
		}

		var resp loginResponse
		decode(t, rr.Body, &resp)

		claims, err := h.issuer.Verify(resp.Token)
		if err != nil {
			t.Fatalf("issued token does not verify: %v", err)
		}
		if claims.Username != username {
			t.Errorf("claims username: got %q, want %q", claims.Username, username)
		}
		if claims.UserID != user.ID.String() {
			t.Errorf("claims user_id: got %q, want %q", claims.UserID, user.ID)
		}
		if !resp.ExpiresAt.After(time.Now()) {
			t.Error("expires_at should be in the future")
		}

		// Login records the timestamp.
		refreshed, err := h.users.FindByID(user.ID)
		if err != nil {
			t.Fatalf("reload user: %v", err)
		}
		if refreshed.LastLogin == nil {
			t.Error("last_login should be set after login")
		}
	})
}

func TestWriteEndpointsRequireToken(t *testing.T) {
	h := newHarness(t)

	req := httptest.NewRequest(http.MethodPost, "/api/hero/text",
		strings.NewReader(`{"title":"x","content":"y"}`))
	rr := h.do(req)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("no token: got %d, want 401", rr.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/hero/text",
		strings.NewReader(`{"title":"x","content":"y"}`))
	req.Header.Set("Authorization", "Bearer not-a-token")
	rr = h.do(req)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("garbage token: got %d, want 401", rr.Code)
	}
}
