package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/SignorelliLorenzo/portfolio/assets"
	"github.com/SignorelliLorenzo/portfolio/contact"
	"github.com/SignorelliLorenzo/portfolio/images"
	"github.com/SignorelliLorenzo/portfolio/metrics"
	"github.com/SignorelliLorenzo/portfolio/models"
	"github.com/SignorelliLorenzo/portfolio/projects"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-admin-secret"

var pngBytes = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}

func publicFS() fstest.MapFS {
	return fstest.MapFS{
		"projects/alpha/meta.json": {Data: []byte(`{
			"title": "Alpha", "shortDescription": "First", "shortDescriptionIt": "Primo",
			"tags": ["go"], "order": 2
		}`)},
		"projects/alpha/en.md":             {Data: []byte("# Alpha")},
		"projects/alpha/it.md":             {Data: []byte("# Alfa")},
		"projects/alpha/assets/cover.png":  {Data: pngBytes},
		"projects/alpha/assets/graph.png":  {Data: pngBytes},
		"projects/beta/meta.json":          {Data: []byte(`{"title": "Beta", "shortDescription": "Second", "order": 1}`)},
		"projects/beta/en.md":              {Data: []byte("# Beta")},
		"images/projects/bundled.png":      {Data: pngBytes},
		"images/projects/not-an-image.txt": {Data: []byte("x")},
	}
}

func testDataset(t *testing.T) *projects.Dataset {
	t.Helper()
	d, err := projects.LoadDataset([]byte(`[
		{"id":"bundled","title":"Bundled","shortDescription":"From JSON","shortDescription_it":"Dal JSON",
		 "image":"/images/projects/bundled.png","tags":["json"]}
	]`))
	require.NoError(t, err)
	return d
}

type fakeAssets struct {
	asset *models.Asset
	err   error
	got   []string
}

func (f *fakeAssets) FindForLocale(_ context.Context, projectID, slug, loc string) (*models.Asset, error) {
	f.got = []string{projectID, slug, loc}
	return f.asset, f.err
}

type fakeImages struct {
	image *models.ProjectImage
}

func (f fakeImages) FindImage(context.Context, string) (*models.ProjectImage, error) {
	return f.image, nil
}

type fakeContacts struct {
	requests []models.ContactRequest
	limit    int
}

func (f *fakeContacts) FindRecent(_ context.Context, limit int) ([]models.ContactRequest, error) {
	f.limit = limit
	return f.requests, nil
}

type testEnv struct {
	router   *chi.Mux
	registry *prometheus.Registry
}

func newTestEnv(t *testing.T, store func(*projects.Resolver, *metrics.Metrics) assets.Store, contacts ContactLister, c map[string]string) testEnv {
	t.Helper()
	public := publicFS()
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	resolver := projects.NewResolver(projects.NewFilesystemSource(public), testDataset(t), projects.WithMetrics(m))
	if c == nil {
		c = map[string]string{}
	}
	deps := Dependencies{
		Resolver:        resolver,
		Assets:          store(resolver, m),
		Contact:         contact.NewService(contact.NewWindowLimiter(3, time.Hour), contact.WithMetrics(m)),
		Inliner:         images.NewInliner(public),
		ContactRequests: contacts,
		Public:          public,
		Metrics:         m,
		Gatherer:        registry,
	}
	return testEnv{
		router:   newRouter(deps, withConfig(c), withStartupTime(time.Now())),
		registry: registry,
	}
}

func staticStore(r *projects.Resolver, m *metrics.Metrics) assets.Store {
	return assets.NewStaticStore(r, m)
}

func (e testEnv) do(t *testing.T, method, target string, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestListProjects_FilesystemOrderAndLocale(t *testing.T) {
	env := newTestEnv(t, staticStore, nil, nil)

	rec := env.do(t, http.MethodGet, "/api/projects?locale=it", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var list []models.Project
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "beta", list[0].ID)
	assert.Equal(t, "alpha", list[1].ID)
	assert.Equal(t, "Primo", list[1].ShortDescription)
	require.NotNil(t, list[1].Markdown)
	assert.Equal(t, "# Alfa", *list[1].Markdown)
	assert.True(t, list[1].HasItalianTranslation)
	assert.Equal(t, []string{}, list[0].Tags)
}

func TestListProjects_UnsupportedLocaleFallsBackToEnglish(t *testing.T) {
	env := newTestEnv(t, staticStore, nil, nil)

	rec := env.do(t, http.MethodGet, "/api/projects?locale=fr", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list []models.Project
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "First", list[1].ShortDescription)
}

func TestListProjects_Inline(t *testing.T) {
	env := newTestEnv(t, staticStore, nil, nil)

	rec := env.do(t, http.MethodGet, "/api/projects?inline=true", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list []models.Project
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 2)
	require.NotNil(t, list[1].Image)
	assert.True(t, strings.HasPrefix(*list[1].Image, "data:image/png;base64,"), *list[1].Image)
	assert.Nil(t, list[0].Image)
}

func TestGetProject(t *testing.T) {
	env := newTestEnv(t, staticStore, nil, nil)

	rec := env.do(t, http.MethodGet, "/api/projects/alpha?locale=en", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var p models.Project
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "Alpha", p.Title)
	assert.Equal(t, "First", p.ShortDescription)

	// Unknown to the filesystem, present in the dataset.
	rec = env.do(t, http.MethodGet, "/api/projects/bundled?locale=it", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "Dal JSON", p.ShortDescription)

	rec = env.do(t, http.MethodGet, "/api/projects/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Project not found", decodeError(t, rec).Error)
}

func TestStaticVariant_RedirectsAndServesFiles(t *testing.T) {
	env := newTestEnv(t, staticStore, nil, nil)

	rec := env.do(t, http.MethodGet, "/api/assets/alpha/graph.png?locale=it", "", nil)
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/projects/alpha/assets/graph.png", rec.Header().Get("Location"))

	rec = env.do(t, http.MethodGet, "/api/projects/alpha/image", "", nil)
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/projects/alpha/assets/cover.png", rec.Header().Get("Location"))

	rec = env.do(t, http.MethodGet, "/api/projects/beta/image", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Image not found", decodeError(t, rec).Error)

	rec = env.do(t, http.MethodGet, "/projects/alpha/assets/graph.png", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, pngBytes, rec.Body.Bytes())
}

func TestDatabaseVariant_Assets(t *testing.T) {
	finder := &fakeAssets{}
	mime := "image/webp"
	store := func(_ *projects.Resolver, m *metrics.Metrics) assets.Store {
		return assets.NewDatabaseStore(finder, fakeImages{&models.ProjectImage{ImageBlob: pngBytes, ImageMime: &mime}}, testDataset(t), publicFS(), m)
	}
	env := newTestEnv(t, store, nil, nil)

	finder.asset = &models.Asset{ID: "alpha-graph.png-it", MimeType: "image/png", Blob: pngBytes}
	rec := env.do(t, http.MethodGet, "/api/assets/alpha/graph.png?locale=IT", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"alpha", "graph.png", "it"}, finder.got)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, assets.AssetCacheControl, rec.Header().Get("Cache-Control"))
	assert.Equal(t, pngBytes, rec.Body.Bytes())

	finder.asset = nil
	rec = env.do(t, http.MethodGet, "/api/assets/alpha/unknown.png", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Asset not found", decodeError(t, rec).Error)

	finder.asset = &models.Asset{ID: "alpha-empty.png", MimeType: "image/png"}
	rec = env.do(t, http.MethodGet, "/api/assets/alpha/empty.png", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Asset has no binary data", decodeError(t, rec).Error)

	finder.asset, finder.err = nil, errors.New("connection reset")
	rec = env.do(t, http.MethodGet, "/api/assets/alpha/nowhere.png", "", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to fetch asset", decodeError(t, rec).Error)

	// The static copy still answers when the query fails.
	rec = env.do(t, http.MethodGet, "/api/assets/alpha/graph.png", "", nil)
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/projects/alpha/image", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/webp", rec.Header().Get("Content-Type"))
	assert.Equal(t, assets.CoverCacheControl, rec.Header().Get("Cache-Control"))
}

func TestContact(t *testing.T) {
	env := newTestEnv(t, staticStore, nil, nil)
	header := http.Header{"X-Forwarded-For": {"203.0.113.7, 10.0.0.1"}}

	rec := env.do(t, http.MethodPost, "/api/contact", `{"name":"Ada","email":"ada@example.com"}`, header)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing required fields", decodeError(t, rec).Error)

	rec = env.do(t, http.MethodPost, "/api/contact", `{"name":"Ada","email":"ada@example","message":"Hello there, Lorenzo"}`, header)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid email address", decodeError(t, rec).Error)

	rec = env.do(t, http.MethodPost, "/api/contact", `{"name":"Ada","email":"ada@example.com","message":"Hello there, Lorenzo"}`, header)
	require.Equal(t, http.StatusOK, rec.Code)
	var ok ContactResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ok))
	assert.Equal(t, ContactResponse{Success: true, Message: "Message received successfully"}, ok)

	// Three attempts are spent; the fourth from the same client is refused.
	rec = env.do(t, http.MethodPost, "/api/contact", `{"name":"Ada","email":"ada@example.com","message":"Hello there, Lorenzo"}`, header)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, contact.TooManyRequestsMessage, decodeError(t, rec).Error)

	rec = env.do(t, http.MethodPost, "/api/contact", `{"name":`, http.Header{"X-Real-Ip": {"198.51.100.1"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func signedToken(t *testing.T, secret string, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "owner",
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestAdminContactRequests(t *testing.T) {
	contacts := &fakeContacts{requests: []models.ContactRequest{{Name: "Ada", Email: "ada@example.com", Message: "Hello there"}}}
	env := newTestEnv(t, staticStore, contacts, map[string]string{"ADMIN_JWT_SECRET": testSecret})

	rec := env.do(t, http.MethodGet, "/api/admin/contact-requests", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	bearer := func(token string) http.Header {
		return http.Header{"Authorization": {"Bearer " + token}}
	}

	rec = env.do(t, http.MethodGet, "/api/admin/contact-requests", "", bearer(signedToken(t, "wrong", time.Now().Add(time.Hour))))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/admin/contact-requests", "", bearer(signedToken(t, testSecret, time.Now().Add(-time.Hour))))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "expired access token", decodeError(t, rec).Error)

	valid := bearer(signedToken(t, testSecret, time.Now().Add(time.Hour)))
	rec = env.do(t, http.MethodGet, "/api/admin/contact-requests?limit=5", "", valid)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, contacts.limit)
	var got []models.ContactRequest
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Ada", got[0].Name)

	rec = env.do(t, http.MethodGet, "/api/admin/contact-requests?limit=-1", "", valid)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminContactRequests_NoDatabaseOrSecret(t *testing.T) {
	env := newTestEnv(t, staticStore, nil, map[string]string{"ADMIN_JWT_SECRET": testSecret})
	rec := env.do(t, http.MethodGet, "/api/admin/contact-requests", "", http.Header{
		"Authorization": {"Bearer " + signedToken(t, testSecret, time.Now().Add(time.Hour))},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	env = newTestEnv(t, staticStore, nil, nil)
	rec = env.do(t, http.MethodGet, "/api/admin/contact-requests", "", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCORS(t *testing.T) {
	env := newTestEnv(t, staticStore, nil, map[string]string{"ACCEPTED_ORIGINS": "https://lorenzosignorelli.dev"})

	preflight := http.Header{
		"Origin":                        {"https://evil.example"},
		"Access-Control-Request-Method": {"GET"},
	}
	rec := env.do(t, http.MethodOptions, "/api/projects", "", preflight)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/projects", "", http.Header{"Origin": {"https://lorenzosignorelli.dev"}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://lorenzosignorelli.dev", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHealthAndMetrics(t *testing.T) {
	env := newTestEnv(t, staticStore, nil, nil)

	rec := env.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var health HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "filesystem", health.Source)

	env.do(t, http.MethodGet, "/api/projects/alpha", "", nil)

	rec = env.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `portfolio_http_request_duration_seconds_count{method="GET",route="/api/projects/{projectID}",status="200"} 1`)
	assert.Contains(t, body, `portfolio_project_source_total{source="filesystem",tier="live"}`)
}

func TestPanicRecovery(t *testing.T) {
	r := chi.NewRouter()
	r.Use(LogInternalServerErrors)
	r.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
}

func TestWriteError_HidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	NewResponder(zerolog.Nop()).WriteError(rec, errors.New("db exploded"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
}
