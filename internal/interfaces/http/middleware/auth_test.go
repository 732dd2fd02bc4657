package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/assetdesk/backend/internal/infrastructure/auth"
	"github.com/assetdesk/backend/internal/infrastructure/config"
	"github.com/assetdesk/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(allowHeader bool) (*gin.Engine, *auth.JWTService) {
	jwtService := auth.NewJWTService(config.JWTConfig{Secret: "middleware-test-secret", Issuer: "assetdesk"})
	r := gin.New()
	r.Use(RequestID(), Auth(AuthConfig{
		Validator:       jwtService,
		AllowTeamHeader: allowHeader,
		SkipPaths:       []string{"/health"},
	}))
	handler := func(c *gin.Context) {
		teamID, ok := GetTeamID(c)
		c.JSON(http.StatusOK, gin.H{"team_id": teamID, "ok": ok, "user_id": GetUserID(c)})
	}
	r.GET("/health", handler)
	r.GET("/assets", handler)
	return r, jwtService
}

func TestAuth_BearerToken(t *testing.T) {
	r, jwtService := newAuthRouter(false)
	teamID, userID := uuid.New(), uuid.New()
	token, _, err := jwtService.GenerateToken(auth.TokenInput{TeamID: teamID, UserID: userID, TTL: time.Minute})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/assets", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	// A token always wins over the header.
	req.Header.Set(TeamHeaderKey, uuid.NewString())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, teamID.String(), body["team_id"])
	assert.Equal(t, userID.String(), body["user_id"])
}

func TestAuth_Rejections(t *testing.T) {
	r, jwtService := newAuthRouter(false)
	expired, _, err := jwtService.GenerateToken(auth.TokenInput{TeamID: uuid.New(), UserID: uuid.New(), TTL: -time.Minute})
	require.NoError(t, err)

	tests := []struct {
		name     string
		header   string
		team     string
		wantCode string
	}{
		{"no credentials", "", "", dto.ErrCodeUnauthorized},
		{"header not allowed", "", uuid.NewString(), dto.ErrCodeUnauthorized},
		{"not bearer", "Basic abc", "", dto.ErrCodeUnauthorized},
		{"garbage token", BearerPrefix + "garbage", "", dto.ErrCodeUnauthorized},
		{"expired", BearerPrefix + expired, "", dto.ErrCodeUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/assets", nil)
			if tt.header != "" {
				req.Header.Set(AuthHeaderKey, tt.header)
			}
			if tt.team != "" {
				req.Header.Set(TeamHeaderKey, tt.team)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			var resp dto.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Error.RequestID)
		})
	}
}

func TestAuth_ExpiredTokenCode(t *testing.T) {
	r, jwtService := newAuthRouter(false)
	expired, _, err := jwtService.GenerateToken(auth.TokenInput{TeamID: uuid.New(), TTL: -time.Minute})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/assets", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+expired)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Contains(t, w.Body.String(), dto.ErrCodeTokenExpired)
}

func TestAuth_DevHeader(t *testing.T) {
	r, _ := newAuthRouter(true)
	teamID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/assets", nil)
	req.Header.Set(TeamHeaderKey, teamID.String())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), teamID.String())

	req = httptest.NewRequest(http.MethodGet, "/assets", nil)
	req.Header.Set(TeamHeaderKey, "not-a-uuid")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuth_SkipPaths(t *testing.T) {
	r, _ := newAuthRouter(false)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
