package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/assetdesk/backend/internal/infrastructure/auth"
	"github.com/assetdesk/backend/internal/infrastructure/logger"
	"github.com/assetdesk/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Auth context keys
const (
	ClaimsKey     = "jwt_claims"
	TeamIDKey     = "team_id"
	UserIDKey     = "user_id"
	TeamHeaderKey = "X-Team-ID"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// TokenValidator validates bearer tokens
type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
}

// AuthConfig holds configuration for the team authentication middleware
type AuthConfig struct {
	Validator TokenValidator
	// AllowTeamHeader accepts X-Team-ID on requests without a token.
	// Development only.
	AllowTeamHeader bool
	// SkipPaths are paths that don't require authentication
	SkipPaths []string
	Logger    *zap.Logger
}

// Auth resolves the acting team for every request. A bearer token wins
// over the X-Team-ID header; the header is only honoured without a token
// and when AllowTeamHeader is set.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		authHeader := c.GetHeader(AuthHeaderKey)
		switch {
		case authHeader != "":
			token, ok := strings.CutPrefix(authHeader, BearerPrefix)
			if !ok || token == "" || cfg.Validator == nil {
				abortUnauthorized(c, log, auth.ErrInvalidToken)
				return
			}
			claims, err := cfg.Validator.ValidateToken(token)
			if err != nil {
				abortUnauthorized(c, log, err)
				return
			}
			teamID, err := claims.TeamUUID()
			if err != nil {
				abortUnauthorized(c, log, err)
				return
			}
			c.Set(ClaimsKey, claims)
			setIdentity(c, teamID, claims.UserID)

		case cfg.AllowTeamHeader && c.GetHeader(TeamHeaderKey) != "":
			teamID, err := uuid.Parse(c.GetHeader(TeamHeaderKey))
			if err != nil || teamID == uuid.Nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, dto.Fail(
					dto.ErrCodeBadRequest, "X-Team-ID must be a UUID", GetRequestID(c)))
				return
			}
			setIdentity(c, teamID, "")

		default:
			abortUnauthorized(c, log, errMissingCredentials)
			return
		}

		c.Next()
	}
}

var errMissingCredentials = errors.New("missing credentials")

func setIdentity(c *gin.Context, teamID uuid.UUID, userID string) {
	c.Set(TeamIDKey, teamID.String())
	if userID != "" {
		c.Set(UserIDKey, userID)
	}

	ctx := c.Request.Context()
	log := logger.FromContext(ctx)
	ctx, log = logger.WithTeamID(ctx, log, teamID.String())
	if userID != "" {
		ctx, _ = logger.WithUserID(ctx, log, userID)
	}
	c.Request = c.Request.WithContext(ctx)
}

func abortUnauthorized(c *gin.Context, log *zap.Logger, err error) {
	log.Debug("authentication failed",
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
	)

	code, message := dto.ErrCodeUnauthorized, "Authentication required"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, message = dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrMissingTeamID):
		message = "Token carries no team"
	case errors.Is(err, errMissingCredentials):
	default:
		message = "Invalid token"
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.Fail(code, message, GetRequestID(c)))
}

// GetTeamID returns the acting team set by Auth
func GetTeamID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.GetString(TeamIDKey)
	if raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// GetUserID returns the user from the token, if any
func GetUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

// GetClaims returns the validated token claims, if any
func GetClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(ClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}
