// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// admin_test.go exercises the console over a real database and Valkey.
// Both are required here (sessions live in Valkey); tests are skipped
// when either is unreachable.
package admin

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"sitecraft/internal/cache"
	"sitecraft/internal/database"
	"sitecraft/internal/files"
	"sitecraft/internal/middleware"
	"sitecraft/internal/models"
	"sitecraft/internal/section"
	"sitecraft/internal/session"
	"sitecraft/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

type harness struct {
	router chi.Router
	db     *sql.DB
	users  *store.UserStore
	texts  *store.TextStore
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	dsn := "postgres://" + envOr("POSTGRES_USER", "sitecraft") + ":" +
		envOr("POSTGRES_PASSWORD", "changeme") + "@" +
		envOr("POSTGRES_HOST", "localhost") + ":" +
		envOr("POSTGRES_PORT", "5432") + "/" +
		envOr("POSTGRES_DB", "sitecraft") + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	goose.SetBaseFS(nil)
	t.Cleanup(func() { db.Close() })

	client := redis.NewClient(&redis.Options{
		Addr: envOr("VALKEY_HOST", "localhost") + ":" + envOr("VALKEY_PORT", "6379"),
		DB:   15,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	blob, err := files.NewLocalBlob(t.TempDir())
	if err != nil {
		t.Fatalf("local blob: %v", err)
	}
	fileStore := files.New(blob, "http://localhost:8080/static")

	users := store.NewUserStore(db)
	texts := store.NewTextStore(db)
	images := store.NewImageStore(db)
	videos := store.NewVideoStore(db)
	categories := store.NewCategoryStore(db)
	aggregator := section.New(texts, images, videos, categories, fileStore)

	sessions := session.NewStore(client, false)
	lists := cache.NewListCache(client, time.Minute)
	h := New(users, categories, aggregator, sessions, lists)

	r := chi.NewRouter()
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.LoadSession(sessions))
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/me", h.Me)
			r.Get("/dashboard", h.Dashboard)
			r.Route("/sections/{section}", func(r chi.Router) {
				r.Get("/", h.Section)
				r.Delete("/{kind}/{id}", h.DeleteItem)
			})
		})
	})

	return &harness{router: r, db: db, users: users, texts: texts}
}

func (h *harness) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.router.ServeHTTP(rr, req)
	return rr
}

// login creates a user and returns its session cookie.
func (h *harness) login(t *testing.T) *http.Cookie {
	t.Helper()

	username := "console_" + uuid.NewString()[:8]
	if _, err := h.users.Create(username, username+"@example.com", "console-pass"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	t.Cleanup(func() { h.db.Exec("DELETE FROM users WHERE username = $1", username) })

	req := httptest.NewRequest(http.MethodPost, "/admin/login",
		strings.NewReader(`{"username":"`+username+`","password":"console-pass"}`))
	rr := h.do(req)
	if rr.Code != http.StatusOK {
		t.Fatalf("login: got %d, want 200: %s", rr.Code, rr.Body.String())
	}

	for _, c := range rr.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	t.Fatal("login did not set a session cookie")
	return nil
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	h := newHarness(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/login",
		strings.NewReader(`{"username":"ghost","password":"nope"}`))
	rr := h.do(req)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rr.Code)
	}
}

func TestDashboardRequiresSession(t *testing.T) {
	h := newHarness(t)

	rr := h.do(httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rr.Code)
	}
}

func TestDashboardWithSession(t *testing.T) {
	h := newHarness(t)
	cookie := h.login(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.AddCookie(cookie)
	rr := h.do(req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200: %s", rr.Code, rr.Body.String())
	}

	var overviews []section.Overview
	if err := json.NewDecoder(rr.Body).Decode(&overviews); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(overviews) != 8 {
		t.Errorf("overviews: got %d sections, want 8", len(overviews))
	}
}

func TestMe(t *testing.T) {
	h := newHarness(t)
	cookie := h.login(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/me", nil)
	req.AddCookie(cookie)
	rr := h.do(req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasPrefix(resp["username"], "console_") {
		t.Errorf("username: got %q", resp["username"])
	}
}

func TestLogoutEndsSession(t *testing.T) {
	h := newHarness(t)
	cookie := h.login(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/logout", nil)
	req.AddCookie(cookie)
	rr := h.do(req)
	if rr.Code != http.StatusOK {
		t.Fatalf("logout: got %d, want 200", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.AddCookie(cookie)
	rr = h.do(req)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("after logout: got %d, want 401", rr.Code)
	}
}

func TestConsoleDeleteItem(t *testing.T) {
	h := newHarness(t)
	cookie := h.login(t)

	item, err := h.texts.Create(&models.TextItem{
		Section: models.SectionHero,
		Kind:    "text",
		Title:   "Console Delete " + uuid.NewString()[:8],
		Body:    "to be removed",
	})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	t.Cleanup(func() { h.db.Exec("DELETE FROM text_items WHERE id = $1", item.ID) })

	req := httptest.NewRequest(http.MethodDelete, "/admin/sections/hero/text/"+item.ID.String(), nil)
	req.AddCookie(cookie)
	rr := h.do(req)
	if rr.Code != http.StatusOK {
		t.Fatalf("delete: got %d, want 200: %s", rr.Code, rr.Body.String())
	}

	gone, err := h.texts.FindByID(item.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if gone != nil {
		t.Error("item should be gone after console delete")
	}

	// Unknown kind maps to the dispatch error.
	req = httptest.NewRequest(http.MethodDelete, "/admin/sections/hero/podcast/"+uuid.NewString(), nil)
	req.AddCookie(cookie)
	rr = h.do(req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad kind: got %d, want 400", rr.Code)
	}
}
