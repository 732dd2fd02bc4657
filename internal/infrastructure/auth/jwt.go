// Package auth verifies the bearer tokens issued by the identity provider.
// Tokens carry the acting team; this service never issues tokens outside
// development tooling and tests.
package auth

import (
	"errors"
	"time"

	"github.com/assetdesk/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrMissingTeamID    = errors.New("missing team_id in claims")
)

// Claims are the claims this service reads
type Claims struct {
	jwt.RegisteredClaims
	TeamID   string `json:"team_id"`
	UserID   string `json:"user_id"`
	Username string `json:"username,omitempty"`
}

// TeamUUID parses the team claim
func (c *Claims) TeamUUID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.TeamID)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, ErrMissingTeamID
	}
	return id, nil
}

// JWTService validates HS256 tokens
type JWTService struct {
	secret []byte
	issuer string
}

// NewJWTService creates a new JWT service
func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{secret: []byte(cfg.Secret), issuer: cfg.Issuer}
}

// TokenInput describes a token to issue
type TokenInput struct {
	TeamID   uuid.UUID
	UserID   uuid.UUID
	Username string
	TTL      time.Duration
}

// GenerateToken signs a token for the given team and user
func (s *JWTService) GenerateToken(input TokenInput) (string, time.Time, error) {
	now := time.Now()
	ttl := input.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	expiresAt := now.Add(ttl)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   input.UserID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		TeamID:   input.TeamID.String(),
		UserID:   input.UserID.String(),
		Username: input.Username,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ValidateToken checks signature, time claims, issuer and the team claim
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrTokenNotYetValid
		default:
			return nil, ErrInvalidToken
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if _, err := claims.TeamUUID(); err != nil {
		return nil, err
	}
	return claims, nil
}
