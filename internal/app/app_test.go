package app_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"portfolio/internal/app"
	"portfolio/internal/config"
	"portfolio/internal/domain/models"
	"portfolio/internal/storage/migrations"
	"portfolio/internal/storage/postgresql/pgtest"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passDefaultLen = 12

type envelope[T any] struct {
	Status string `json:"status"`
	Data   T      `json:"data"`
}

type suite struct {
	t     *testing.T
	app   *app.App
	admin config.AdminConfig
}

func newSuite(t *testing.T) (context.Context, *suite) {
	t.Helper()

	dsn := pgtest.DSN(t)
	require.NoError(t, migrations.MigrateUp(dsn))

	cfg := &config.Config{
		Env:           "local",
		DSN:           dsn,
		TokenTTL:      time.Hour,
		TokenSecret:   "test-secret",
		SessionSecret: "test-session-secret",
		HTTP:          config.HTTPConfig{Port: "0", ShutdownTimeout: time.Second},
		FileStorage: config.FileStorageConfig{
			Driver:     "local",
			BaseDir:    t.TempDir(),
			BaseURL:    "/uploads",
			PublicPath: "/uploads",
			MaxSize:    1 << 20,
		},
		Cache: config.CacheConfig{TTL: time.Minute},
		Admin: config.AdminConfig{
			Login:    gofakeit.Username(),
			Password: gofakeit.Password(true, true, true, false, false, passDefaultLen),
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	application, err := app.New(ctx, log, cfg)
	require.NoError(t, err)

	t.Cleanup(func() {
		application.Close()
		cancel()
	})

	require.NoError(t, application.Seed(ctx, cfg.Admin))

	return ctx, &suite{t: t, app: application, admin: cfg.Admin}
}

func (s *suite) do(method, target, token, body string) *httptest.ResponseRecorder {
	s.t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.app.HTTPServer.Echo().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var env envelope[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env.Data
}

func (s *suite) login() string {
	s.t.Helper()

	rec := s.do(http.MethodPost, "/api/v1/login", "",
		fmt.Sprintf(`{"login":%q,"password":%q}`, s.admin.Login, s.admin.Password))
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())

	session := decode[models.Session](s.t, rec)
	require.NotEmpty(s.t, session.AccessToken)
	return session.AccessToken
}

func sectionSlugs(sections []models.Section) []string {
	slugs := make([]string, 0, len(sections))
	for _, sec := range sections {
		slugs = append(slugs, sec.Slug)
	}
	return slugs
}

func TestSeedIsIdempotent(t *testing.T) {
	ctx, st := newSuite(t)

	require.NoError(t, st.app.Seed(ctx, st.admin))

	sections, err := st.app.Catalog.ListSections(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"paintings", "graphics", "installations"}, sectionSlugs(sections))
}

func TestReorderSections_HappyPath(t *testing.T) {
	_, st := newSuite(t)
	token := st.login()

	rec := st.do(http.MethodGet, "/api/v1/sections", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	sections := decode[[]models.Section](t, rec)
	require.Len(t, sections, 3)

	ids := fmt.Sprintf(`{"ids":[%d,%d,%d]}`, sections[2].ID, sections[0].ID, sections[1].ID)
	rec = st.do(http.MethodPatch, "/api/v1/admin/sections/order", token, ids)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"updated":3}`, rec.Body.String())

	// публичный кеш сброшен после перестановки
	rec = st.do(http.MethodGet, "/api/v1/sections", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	reordered := decode[[]models.Section](t, rec)
	assert.Equal(t, []string{"installations", "paintings", "graphics"}, sectionSlugs(reordered))
	for i, sec := range reordered {
		assert.Equal(t, i, sec.Position)
	}
}

func TestReorderSections_RejectsUnknownAndDuplicateIDs(t *testing.T) {
	_, st := newSuite(t)
	token := st.login()

	sections := decode[[]models.Section](t, st.do(http.MethodGet, "/api/v1/sections", "", ""))
	require.Len(t, sections, 3)

	rec := st.do(http.MethodPatch, "/api/v1/admin/sections/order", token,
		fmt.Sprintf(`{"ids":[%d,%d,999999]}`, sections[1].ID, sections[0].ID))
	assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())

	rec = st.do(http.MethodPatch, "/api/v1/admin/sections/order", token,
		fmt.Sprintf(`{"ids":[%d,%d]}`, sections[0].ID, sections[0].ID))
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	after := decode[[]models.Section](t, st.do(http.MethodGet, "/api/v1/sections", "", ""))
	assert.Equal(t, sectionSlugs(sections), sectionSlugs(after))
}

func TestItemsAcrossSections_ScopeMismatch(t *testing.T) {
	_, st := newSuite(t)
	token := st.login()

	sections := decode[[]models.Section](t, st.do(http.MethodGet, "/api/v1/sections", "", ""))
	require.Len(t, sections, 3)

	createItem := func(sectionID int64, slug string) models.Item {
		rec := st.do(http.MethodPost, fmt.Sprintf("/api/v1/admin/sections/%d/items", sectionID), token,
			fmt.Sprintf(`{"slug":%q,"title":%q,"is_published":true}`, slug, gofakeit.Sentence(3)))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		return decode[models.Item](t, rec)
	}

	a := createItem(sections[0].ID, "first-work")
	b := createItem(sections[1].ID, "second-work")
	assert.Equal(t, 0, a.Position)
	assert.Equal(t, 0, b.Position)

	rec := st.do(http.MethodPatch, "/api/v1/admin/items/order", token,
		fmt.Sprintf(`{"ids":[%d,%d]}`, b.ID, a.ID))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "scope_mismatch")
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	_, st := newSuite(t)

	rec := st.do(http.MethodPatch, "/api/v1/admin/sections/order", "", `{"ids":[1]}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token := st.login()
	rec = st.do(http.MethodPost, "/api/v1/logout", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = st.do(http.MethodGet, "/api/v1/admin/sections", token, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealth(t *testing.T) {
	_, st := newSuite(t)

	rec := st.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
