package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/assetdesk/backend/internal/application/attachment"
	"github.com/assetdesk/backend/internal/application/audit"
	appinv "github.com/assetdesk/backend/internal/application/inventory"
	"github.com/assetdesk/backend/internal/application/taxonomy"
	"github.com/assetdesk/backend/internal/application/team"
	"github.com/assetdesk/backend/internal/infrastructure/auth"
	"github.com/assetdesk/backend/internal/infrastructure/cache"
	"github.com/assetdesk/backend/internal/infrastructure/config"
	"github.com/assetdesk/backend/internal/infrastructure/event"
	"github.com/assetdesk/backend/internal/infrastructure/persistence"
	"github.com/assetdesk/backend/internal/infrastructure/storage"
	"github.com/assetdesk/backend/internal/interfaces/http/handler"
	"github.com/assetdesk/backend/internal/interfaces/http/middleware"
	"github.com/assetdesk/backend/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiFixture struct {
	engine *gin.Engine
	blobs  *storage.LocalStore
	jwt    *auth.JWTService
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	blobs := storage.NewMemoryStore()

	bus := event.NewInMemoryEventBus(nil)
	auditRepo := persistence.NewGormAuditRepository(db)
	bus.Subscribe(audit.NewRecorder(auditRepo, nil))

	files := attachment.NewManager(blobs, attachment.DefaultPolicies(), nil)
	files.SetEventPublisher(bus)

	readers := appinv.Readers{
		Assets:       persistence.NewGormAssetRepository(db),
		Kits:         persistence.NewGormKitRepository(db),
		Files:        persistence.NewGormAdditionalFileRepository(db),
		CustomFields: persistence.NewGormCustomFieldRepository(db),
		CustomValues: persistence.NewGormCustomFieldValueRepository(db),
		Categories:   persistence.NewGormCategoryRepository(db),
		Tags:         persistence.NewGormTagRepository(db),
		Locations:    persistence.NewGormLocationRepository(db),
	}
	scope := persistence.NewGormTransactionScope(db)
	jwtService := auth.NewJWTService(config.JWTConfig{Secret: "test-secret", Issuer: "assetdesk", AllowTeamHeader: true})

	engine, err := New(Options{
		HTTP: config.HTTPConfig{MaxBodySize: 10 << 20, RequestTimeout: 10 * time.Second},
		Auth: middleware.AuthConfig{Validator: jwtService, AllowTeamHeader: true},
		Idempotency: middleware.Idempotency(middleware.IdempotencyMiddlewareConfig{
			Store: cache.NewInMemoryIdempotencyStore(),
		}),
	}, Handlers{
		Assets:       handler.NewAssetHandler(appinv.NewAssetService(scope, files, readers, nil)),
		Kits:         handler.NewKitHandler(appinv.NewKitService(scope, files, readers, nil)),
		Files:        handler.NewAdditionalFileHandler(attachment.NewService(files, persistence.NewGormAttachmentTransactionScope(db), readers.Files, nil)),
		Categories:   handler.NewCategoryHandler(taxonomy.NewCategoryService(readers.Categories, nil)),
		Tags:         handler.NewTagHandler(taxonomy.NewTagService(readers.Tags, nil)),
		Locations:    handler.NewLocationHandler(taxonomy.NewLocationService(readers.Locations, files, nil)),
		CustomFields: handler.NewCustomFieldHandler(appinv.NewCustomFieldService(readers.CustomFields, readers.Categories, nil)),
		Teams:        handler.NewTeamHandler(team.NewService(persistence.NewGormTeamRepository(db), files, nil)),
		Audit:        handler.NewAuditHandler(audit.NewService(auditRepo)),
		System:       handler.NewSystemHandler("assetdesk", "test", nil),
	})
	require.NoError(t, err)
	return &apiFixture{engine: engine, blobs: blobs, jwt: jwtService}
}

const formContentType = "application/x-www-form-urlencoded"

type request struct {
	method, path string
	team         uuid.UUID
	body         io.Reader
	contentType  string
	headers      map[string]string
}

func (f *apiFixture) do(t *testing.T, r request) (*httptest.ResponseRecorder, testutil.Envelope) {
	t.Helper()
	req := httptest.NewRequest(r.method, r.path, r.body)
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if r.team != uuid.Nil {
		req.Header.Set(middleware.TeamHeaderKey, r.team.String())
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)

	return w, testutil.DecodeEnvelope(t, w.Body.Bytes())
}

func TestAPI_HealthAndVersion(t *testing.T) {
	f := newAPI(t)

	w, resp := f.do(t, request{method: http.MethodGet, path: "/health"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)

	w, resp = f.do(t, request{method: http.MethodGet, path: "/api/v1/version"})
	assert.Equal(t, http.StatusOK, w.Code, "version needs no credentials")
	assert.Equal(t, "test", testutil.Data[map[string]any](t, resp)["version"])
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestAPI_Authentication(t *testing.T) {
	f := newAPI(t)

	w, resp := f.do(t, request{method: http.MethodGet, path: "/api/v1/assets"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)

	token, _, err := f.jwt.GenerateToken(auth.TokenInput{TeamID: testutil.TestTeamID(), UserID: uuid.New()})
	require.NoError(t, err)
	w, resp = f.do(t, request{method: http.MethodGet, path: "/api/v1/assets", headers: map[string]string{
		"Authorization": "Bearer " + token,
	}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
}

func TestAPI_AssetLifecycle(t *testing.T) {
	f := newAPI(t)
	teamID := testutil.TestTeamID()

	body, ct := testutil.MultipartForm(t, url.Values{"name": {"Cordless drill"}, "custom_id": {"D-1"}, "value": {"149.99"}},
		testutil.FilePart{Field: "image", Name: "drill.png", ContentType: "image/png", Body: "png"},
		testutil.FilePart{Field: "files[]", Name: "manual.pdf", ContentType: "application/pdf", Body: "%PDF-1"},
		testutil.FilePart{Field: "files[]", Name: "warranty.pdf", ContentType: "application/pdf", Body: "%PDF-2"},
	)
	w, resp := f.do(t, request{method: http.MethodPost, path: "/api/v1/assets", team: teamID, body: body, contentType: ct})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := testutil.Data[appinv.AssetResponse](t, resp)
	assert.Equal(t, "Cordless drill", created.Name)
	assert.Equal(t, "149.99", created.Value.String())
	assert.NotEmpty(t, created.Image)
	require.Len(t, created.Files, 2)

	var keep, drop attachment.FileResponse
	for _, file := range created.Files {
		if file.Name == "manual.pdf" {
			keep = file
		} else {
			drop = file
		}
	}

	// selected set keeps the manual only; the warranty loses its last owner
	form := url.Values{"name": {"Cordless drill"}, "existing_files[]": {keep.ID.String()}}
	w, resp = f.do(t, request{method: http.MethodPut, path: "/api/v1/assets/" + created.ID.String(), team: teamID,
		body: strings.NewReader(form.Encode()), contentType: formContentType})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := testutil.Data[appinv.AssetResponse](t, resp)
	require.Len(t, updated.Files, 1)
	assert.Equal(t, keep.ID, updated.Files[0].ID)
	assert.Equal(t, 1, updated.Files[0].LinkedCount)

	w, _ = f.do(t, request{method: http.MethodGet, path: "/api/v1/additional-files/" + drop.ID.String(), team: teamID})
	assert.Equal(t, http.StatusNotFound, w.Code)
	exists, err := f.blobs.Exists(drop.FilePath)
	require.NoError(t, err)
	assert.False(t, exists)

	w, resp = f.do(t, request{method: http.MethodGet, path: "/api/v1/assets?search=drill", team: teamID})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), resp.Meta.Total)

	w, _ = f.do(t, request{method: http.MethodGet, path: "/api/v1/assets/" + created.ID.String(), team: testutil.OtherTeamID()})
	assert.Equal(t, http.StatusNotFound, w.Code, "other teams cannot see the asset")

	w, _ = f.do(t, request{method: http.MethodDelete, path: "/api/v1/assets/" + created.ID.String(), team: teamID})
	assert.Equal(t, http.StatusNoContent, w.Code)
	w, _ = f.do(t, request{method: http.MethodGet, path: "/api/v1/assets/" + created.ID.String(), team: teamID})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, resp = f.do(t, request{method: http.MethodGet, path: "/api/v1/audit", team: teamID})
	assert.Equal(t, http.StatusOK, w.Code)
	entries := testutil.Data[[]audit.EntryResponse](t, resp)
	assert.NotEmpty(t, entries)
}

func TestAPI_AssetValidation(t *testing.T) {
	f := newAPI(t)
	teamID := testutil.TestTeamID()

	form := url.Values{"custom_id": {"D-1"}}
	w, resp := f.do(t, request{method: http.MethodPost, path: "/api/v1/assets", team: teamID,
		body: strings.NewReader(form.Encode()), contentType: formContentType})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)

	body, ct := testutil.MultipartForm(t, url.Values{"name": {"Drill"}},
		testutil.FilePart{Field: "files[]", Name: "notes.txt", ContentType: "text/plain", Body: "notes"},
	)
	w, resp = f.do(t, request{method: http.MethodPost, path: "/api/v1/assets", team: teamID, body: body, contentType: ct})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	assert.Equal(t, "DISALLOWED_CONTENT_TYPE", resp.Error.Code)

	w, _ = f.do(t, request{method: http.MethodGet, path: "/api/v1/assets", team: teamID})
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = f.do(t, request{method: http.MethodGet, path: "/api/v1/assets/not-a-uuid", team: teamID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPI_KitMembership(t *testing.T) {
	f := newAPI(t)
	teamID := testutil.TestTeamID()

	create := func(path, name string, team uuid.UUID) uuid.UUID {
		form := url.Values{"name": {name}}
		w, resp := f.do(t, request{method: http.MethodPost, path: path, team: team,
			body: strings.NewReader(form.Encode()), contentType: formContentType})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		return testutil.Data[struct {
			ID uuid.UUID `json:"id"`
		}](t, resp).ID
	}
	kitID := create("/api/v1/kits", "Camera kit", teamID)
	assetID := create("/api/v1/assets", "Camera", teamID)
	foreignID := create("/api/v1/assets", "Tripod", testutil.OtherTeamID())

	add := func(id uuid.UUID) (*httptest.ResponseRecorder, testutil.Envelope) {
		return f.do(t, request{method: http.MethodPost, path: "/api/v1/kits/" + kitID.String() + "/assets", team: teamID,
			body: testutil.ToJSONReader(t, map[string]string{"asset_id": id.String()}), contentType: "application/json"})
	}

	w, resp := add(assetID)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := testutil.Data[appinv.KitMembershipResult](t, resp)
	assert.True(t, result.Changed)
	assert.Equal(t, 1, result.AssetCount)

	w, resp = add(assetID)
	require.Equal(t, http.StatusOK, w.Code)
	result = testutil.Data[appinv.KitMembershipResult](t, resp)
	assert.False(t, result.Changed, "adding twice changes nothing")
	assert.Equal(t, 1, result.AssetCount)

	w, resp = add(foreignID)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "CROSS_TEAM", resp.Error.Code)

	w, resp = f.do(t, request{method: http.MethodGet, path: "/api/v1/kits/" + kitID.String(), team: teamID})
	require.Equal(t, http.StatusOK, w.Code)
	kit := testutil.Data[appinv.KitResponse](t, resp)
	assert.Equal(t, 1, kit.AssetCount)
	require.Len(t, kit.Unavailable, 1)
	assert.Equal(t, assetID, kit.Unavailable[0].AssetID)

	w, resp = f.do(t, request{method: http.MethodDelete, path: "/api/v1/kits/" + kitID.String() + "/assets/" + assetID.String(), team: teamID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, testutil.Data[appinv.KitMembershipResult](t, resp).AssetCount)
}

func TestAPI_StandaloneFiles(t *testing.T) {
	f := newAPI(t)
	teamID := testutil.TestTeamID()

	body, ct := testutil.MultipartForm(t, url.Values{"description": {"floor plan"}},
		testutil.FilePart{Field: "file", Name: "plan.pdf", ContentType: "application/pdf", Body: "%PDF"})
	w, resp := f.do(t, request{method: http.MethodPost, path: "/api/v1/additional-files", team: teamID, body: body, contentType: ct})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	file := testutil.Data[attachment.FileResponse](t, resp)
	assert.Equal(t, 0, file.LinkedCount)
	assert.Equal(t, "floor plan", file.Description)

	w, resp = f.do(t, request{method: http.MethodGet, path: "/api/v1/additional-files", team: teamID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), resp.Meta.Total)

	w, _ = f.do(t, request{method: http.MethodDelete, path: "/api/v1/additional-files/" + file.ID.String(), team: testutil.OtherTeamID()})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, resp = f.do(t, request{method: http.MethodDelete, path: "/api/v1/additional-files/" + file.ID.String(), team: teamID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, testutil.Data[attachment.DeleteFileResponse](t, resp).Detached)

	body, ct = testutil.MultipartForm(t, nil)
	w, _ = f.do(t, request{method: http.MethodPost, path: "/api/v1/additional-files", team: teamID, body: body, contentType: ct})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPI_CategoryTrash(t *testing.T) {
	f := newAPI(t)
	teamID := testutil.TestTeamID()

	w, resp := f.do(t, request{method: http.MethodPost, path: "/api/v1/categories", team: teamID,
		body: testutil.ToJSONReader(t, map[string]string{"name": "Power tools", "color": "#ff0000"}), contentType: "application/json"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	category := testutil.Data[taxonomy.CategoryResponse](t, resp)

	w, _ = f.do(t, request{method: http.MethodDelete, path: "/api/v1/categories/" + category.ID.String(), team: teamID})
	require.Equal(t, http.StatusNoContent, w.Code)

	_, resp = f.do(t, request{method: http.MethodGet, path: "/api/v1/categories", team: teamID})
	assert.Equal(t, int64(0), resp.Meta.Total)
	_, resp = f.do(t, request{method: http.MethodGet, path: "/api/v1/categories?trashed=true", team: teamID})
	assert.Equal(t, int64(1), resp.Meta.Total)

	w, _ = f.do(t, request{method: http.MethodPost, path: "/api/v1/categories/" + category.ID.String() + "/restore", team: teamID})
	require.Equal(t, http.StatusOK, w.Code)
	_, resp = f.do(t, request{method: http.MethodGet, path: "/api/v1/categories", team: teamID})
	assert.Equal(t, int64(1), resp.Meta.Total)

	w, resp = f.do(t, request{method: http.MethodPost, path: "/api/v1/categories", team: teamID,
		body: testutil.ToJSONReader(t, map[string]string{}), contentType: "application/json"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
}

func TestAPI_TagDeleteIsPermanent(t *testing.T) {
	f := newAPI(t)
	teamID := testutil.TestTeamID()

	w, resp := f.do(t, request{method: http.MethodPost, path: "/api/v1/tags", team: teamID,
		body: testutil.ToJSONReader(t, map[string]string{"name": "fragile"}), contentType: "application/json"})
	require.Equal(t, http.StatusCreated, w.Code)
	tag := testutil.Data[taxonomy.TagResponse](t, resp)

	w, _ = f.do(t, request{method: http.MethodDelete, path: "/api/v1/tags/" + tag.ID.String(), team: teamID})
	require.Equal(t, http.StatusNoContent, w.Code)
	w, _ = f.do(t, request{method: http.MethodGet, path: "/api/v1/tags/" + tag.ID.String(), team: teamID})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPI_TeamLogo(t *testing.T) {
	f := newAPI(t)
	teamID := testutil.TestTeamID()
	path := "/api/v1/teams/" + teamID.String() + "/logo"

	body, ct := testutil.MultipartForm(t, url.Values{"variant": {"bw"}}, testutil.FilePart{Field: "logo", Name: "logo.png", ContentType: "image/png", Body: "png"})
	w, resp := f.do(t, request{method: http.MethodPut, path: path, team: teamID, body: body, contentType: ct})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	first := testutil.Data[team.TeamResponse](t, resp)
	require.NotEmpty(t, first.BWLogo)

	body, ct = testutil.MultipartForm(t, url.Values{"variant": {"bw"}}, testutil.FilePart{Field: "logo", Name: "logo2.png", ContentType: "image/png", Body: "png2"})
	w, resp = f.do(t, request{method: http.MethodPost, path: path, team: teamID, body: body, contentType: ct})
	require.Equal(t, http.StatusOK, w.Code)
	second := testutil.Data[team.TeamResponse](t, resp)
	assert.NotEqual(t, first.BWLogo, second.BWLogo)
	exists, err := f.blobs.Exists(first.BWLogo)
	require.NoError(t, err)
	assert.False(t, exists, "replaced logo blob is deleted")

	body, ct = testutil.MultipartForm(t, nil, testutil.FilePart{Field: "logo", Name: "logo.png", ContentType: "image/png", Body: "png"})
	w, resp = f.do(t, request{method: http.MethodPut, path: "/api/v1/teams/" + testutil.OtherTeamID().String() + "/logo",
		team: teamID, body: body, contentType: ct})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "CROSS_TEAM", resp.Error.Code)
}

func TestAPI_IdempotentCreate(t *testing.T) {
	f := newAPI(t)
	teamID := testutil.TestTeamID()
	headers := map[string]string{middleware.IdempotencyKeyHeader: "create-fragile"}

	w1, resp1 := f.do(t, request{method: http.MethodPost, path: "/api/v1/tags", team: teamID, headers: headers,
		body: testutil.ToJSONReader(t, map[string]string{"name": "fragile"}), contentType: "application/json"})
	require.Equal(t, http.StatusCreated, w1.Code)

	w2, resp2 := f.do(t, request{method: http.MethodPost, path: "/api/v1/tags", team: teamID, headers: headers,
		body: testutil.ToJSONReader(t, map[string]string{"name": "fragile"}), contentType: "application/json"})
	require.Equal(t, http.StatusCreated, w2.Code)
	assert.Equal(t, "true", w2.Header().Get(middleware.IdempotencyReplayedHeader))
	assert.JSONEq(t, string(resp1.Data), string(resp2.Data))

	_, list := f.do(t, request{method: http.MethodGet, path: "/api/v1/tags", team: teamID})
	assert.Equal(t, int64(1), list.Meta.Total)
}
