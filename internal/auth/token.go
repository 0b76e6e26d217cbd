package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/BradenHooton/meular/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidToken covers bad signatures, malformed tokens and wrong token types
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired is returned for a correctly signed token past its exp claim
	ErrTokenExpired = errors.New("token expired")
)

// TokenManager issues and verifies signed access and refresh tokens. Access
// and refresh tokens use independent secrets and lifetimes. Verification is
// stateless; whether a refresh token is still the live one is decided by the
// auth service against the stored hash.
type TokenManager struct {
	accessSecret       []byte
	refreshSecret      []byte
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
	now                func() time.Time
}

// NewTokenManager creates a new TokenManager
func NewTokenManager(accessSecret, refreshSecret string, accessExpiry, refreshExpiry time.Duration) *TokenManager {
	return &TokenManager{
		accessSecret:       []byte(accessSecret),
		refreshSecret:      []byte(refreshSecret),
		accessTokenExpiry:  accessExpiry,
		refreshTokenExpiry: refreshExpiry,
		now:                time.Now,
	}
}

// GenerateAccessToken creates a short-lived access token for the subject
func (tm *TokenManager) GenerateAccessToken(subject, name string) (string, error) {
	token, err := tm.sign(models.TokenTypeAccess, subject, name, tm.accessSecret, tm.accessTokenExpiry)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return token, nil
}

// GenerateRefreshToken creates a long-lived refresh token for the subject
func (tm *TokenManager) GenerateRefreshToken(subject, name string) (string, error) {
	token, err := tm.sign(models.TokenTypeRefresh, subject, name, tm.refreshSecret, tm.refreshTokenExpiry)
	if err != nil {
		return "", fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return token, nil
}

// GeneratePair mints a fresh access and refresh token
func (tm *TokenManager) GeneratePair(subject, name string) (*models.TokenPair, error) {
	accessToken, err := tm.GenerateAccessToken(subject, name)
	if err != nil {
		return nil, err
	}

	refreshToken, err := tm.GenerateRefreshToken(subject, name)
	if err != nil {
		return nil, err
	}

	return &models.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// ValidateAccessToken verifies an access token and returns its claims
func (tm *TokenManager) ValidateAccessToken(tokenString string) (*models.TokenClaims, error) {
	return tm.validate(tokenString, models.TokenTypeAccess, tm.accessSecret)
}

// ValidateRefreshToken verifies a refresh token signature and expiry
func (tm *TokenManager) ValidateRefreshToken(tokenString string) (*models.TokenClaims, error) {
	return tm.validate(tokenString, models.TokenTypeRefresh, tm.refreshSecret)
}

func (tm *TokenManager) sign(tokenType, subject, name string, secret []byte, ttl time.Duration) (string, error) {
	now := tm.now()

	claims := &models.TokenClaims{
		Type: tokenType,
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (tm *TokenManager) validate(tokenString, tokenType string, secret []byte) (*models.TokenClaims, error) {
	claims := &models.TokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	if claims.Type != tokenType {
		return nil, fmt.Errorf("%w: expected %s token, got %q", ErrInvalidToken, tokenType, claims.Type)
	}

	return claims, nil
}
