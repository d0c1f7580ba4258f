// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"sitecraft/internal/token"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login checks credentials and issues a signed bearer token for API
// writes. Failures are reported with a single message so the response
// does not reveal which half was wrong.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, r, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := h.users.FindByUsername(req.Username)
	if err != nil {
		serverError(w, r, err)
		return
	}
	if user == nil || !h.users.CheckPassword(user, req.Password) {
		writeError(w, r, http.StatusUnauthorized, "invalid username or password")
		return
	}

	signed, err := h.tokens.Issue(user.ID, user.Username)
	if err != nil {
		serverError(w, r, err)
		return
	}

	if err := h.users.UpdateLastLogin(user.ID); err != nil {
		slog.Warn("failed to record login time", "user", user.Username, "error", err)
	}

	render.JSON(w, r, loginResponse{
		Token:     signed,
		ExpiresAt: time.Now().Add(token.Lifetime),
	})
}
