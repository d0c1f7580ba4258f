// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// api_test.go provides the shared harness for API integration tests.
// Tests are skipped if PostgreSQL is not available. Valkey is optional:
// the listing cache degrades to misses when it is unreachable.
package api

import (
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
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
	"sitecraft/internal/section"
	"sitecraft/internal/store"
	"sitecraft/internal/token"
)

func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "sitecraft")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "sitecraft")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// harness bundles a fully wired API handler over a real database with
// local file storage in a temp dir.
type harness struct {
	handler *Handler
	router  chi.Router
	db      *sql.DB
	issuer  *token.Issuer
	texts   *store.TextStore
	images  *store.ImageStore
	videos  *store.VideoStore
	users   *store.UserStore
	uploads string
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
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

	uploads := t.TempDir()
	blob, err := files.NewLocalBlob(uploads)
	if err != nil {
		t.Fatalf("local blob: %v", err)
	}
	fileStore := files.New(blob, "http://localhost:8080/static")

	texts := store.NewTextStore(db)
	images := store.NewImageStore(db)
	videos := store.NewVideoStore(db)
	categories := store.NewCategoryStore(db)
	users := store.NewUserStore(db)
	aggregator := section.New(texts, images, videos, categories, fileStore)

	// DB 15, same convention as the cache tests. An unreachable Valkey
	// just means every lookup misses.
	client := redis.NewClient(&redis.Options{
		Addr: envOr("VALKEY_HOST", "localhost") + ":" + envOr("VALKEY_PORT", "6379"),
		DB:   15,
	})
	t.Cleanup(func() { client.Close() })
	lists := cache.NewListCache(client, time.Minute)

	issuer := token.NewIssuer("api-test-secret")
	h := New(texts, images, videos, categories, users, aggregator, fileStore, lists, issuer, 8<<20)

	r := chi.NewRouter()
	r.Post("/api/admin/login", h.Login)
	r.Route("/api/{section}", func(r chi.Router) {
		r.Get("/categories", h.ListCategories)
		r.Get("/{kind}", h.List)
		r.Get("/{kind}/{id}", h.Get)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireToken(issuer))
			r.Post("/categories", h.CreateCategory)
			r.Delete("/{kind}/categories/{value}", h.DeleteCategory)
			r.Post("/{kind}", h.Create)
			r.Put("/{kind}/{id}", h.Update)
			r.Delete("/{kind}/{id}", h.Delete)
		})
	})

	return &harness{
		handler: h,
		router:  r,
		db:      db,
		issuer:  issuer,
		texts:   texts,
		images:  images,
		videos:  videos,
		users:   users,
		uploads: uploads,
	}
}

// bearer issues a valid token for requests that hit write endpoints.
func (h *harness) bearer(t *testing.T) string {
	t.Helper()
	signed, err := h.issuer.Issue(uuid.New(), "tester")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return "Bearer " + signed
}

// do runs a request through the router and returns the recorder.
func (h *harness) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.router.ServeHTTP(rr, req)
	return rr
}

// decode unmarshals a JSON response body, failing the test on error.
func decode(t *testing.T, body io.Reader, v any) {
	t.Helper()
	if err := json.NewDecoder(body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

// cleanTitle removes rows a test created, matched by their unique title.
func cleanTitle(t *testing.T, db *sql.DB, title string) {
	t.Helper()
	db.Exec("DELETE FROM text_items WHERE title = $1", title)
	db.Exec("DELETE FROM image_items WHERE title = $1", title)
	db.Exec("DELETE FROM video_items WHERE title = $1", title)
}

// cleanCategory removes a category's rows across a section.
func cleanCategory(t *testing.T, db *sql.DB, section, value string) {
	t.Helper()
	db.Exec("DELETE FROM text_items WHERE section = $1 AND category = $2", section, value)
	db.Exec("DELETE FROM image_items WHERE section = $1 AND category = $2", section, value)
	db.Exec("DELETE FROM video_items WHERE section = $1 AND category = $2", section, value)
}
