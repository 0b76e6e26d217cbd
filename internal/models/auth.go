package models

import (
	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// TokenClaims carries the subject's public id in the registered "sub" claim
type TokenClaims struct {
	Type string `json:"type"`
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// TokenPair is returned by sign-in and refresh
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
