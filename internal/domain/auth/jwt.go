// Package auth issues and validates the JWT access tokens of the API.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	appctx "saletype/internal/core/context"
)

// JWTConfig holds JWT configuration.
type JWTConfig struct {
	Secret         string
	Issuer         string
	AccessTokenTTL time.Duration
}

// DefaultJWTConfig signs 15 minute tokens issued by "saletype".
func DefaultJWTConfig(secret string) JWTConfig {
	return JWTConfig{
		Secret:         secret,
		Issuer:         "saletype",
		AccessTokenTTL: 15 * time.Minute,
	}
}

// Claims carry the caller, its permissions and its companies. cid is the
// working company; cids the others it may switch to with X-Company-ID.
type Claims struct {
	jwt.RegisteredClaims
	UserID      string   `json:"uid"`
	Email       string   `json:"email"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"perms,omitempty"`
	CompanyID   string   `json:"cid,omitempty"`
	CompanyIDs  []string `json:"cids,omitempty"`
	Lang        string   `json:"lang,omitempty"`
	IsAdmin     bool     `json:"adm,omitempty"`
}

func claimsFor(u appctx.UserContext) Claims {
	return Claims{
		UserID:      u.UserID,
		Email:       u.Email,
		Roles:       u.Roles,
		Permissions: u.Permissions,
		CompanyID:   u.CompanyID,
		CompanyIDs:  u.CompanyIDs,
		Lang:        u.Lang,
		IsAdmin:     u.IsAdmin,
	}
}

func (c *Claims) user() *appctx.UserContext {
	return &appctx.UserContext{
		UserID:      c.UserID,
		Email:       c.Email,
		Roles:       c.Roles,
		Permissions: c.Permissions,
		CompanyID:   c.CompanyID,
		CompanyIDs:  c.CompanyIDs,
		Lang:        c.Lang,
		IsAdmin:     c.IsAdmin,
		SessionID:   c.ID,
	}
}

// JWTService signs and validates HS256 tokens.
type JWTService struct {
	config JWTConfig
}

// NewJWTService creates a new JWT service.
func NewJWTService(config JWTConfig) *JWTService {
	return &JWTService{config: config}
}

// GenerateAccessToken signs a token for user and returns its expiry.
func (s *JWTService) GenerateAccessToken(user appctx.UserContext) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.config.AccessTokenTTL)

	claims := claimsFor(user)
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    s.config.Issuer,
		Subject:   user.UserID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateToken checks signature, issuer and expiry and returns the caller.
func (s *JWTService) ValidateToken(tokenString string) (*appctx.UserContext, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return []byte(s.config.Secret), nil
	},
		jwt.WithIssuer(s.config.Issuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims.user(), nil
}
