package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkghttp "github.com/BradenHooton/meular/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", true},
		{"bearer abc.def.ghi", "abc.def.ghi", true},
		{"BEARER   abc.def.ghi  ", "abc.def.ghi", true},
		{"Bearer ", "", false},
		{"Bearer", "", false},
		{"Basic dXNlcjpwYXNz", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			token, ok := BearerToken(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.token, token)
		})
	}
}

func okHandler(t *testing.T, check func(r *http.Request)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		check(r)
		w.WriteHeader(http.StatusOK)
	})
}

func assertUnauthorized(t *testing.T, w *httptest.ResponseRecorder, message string) {
	t.Helper()
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var resp pkghttp.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "unauthorized", resp.Error)
	assert.Equal(t, message, resp.Message)
}

func TestRequireAccessToken(t *testing.T) {
	tm := newTestTokenManager()
	pair, err := tm.GeneratePair("abc123def456", "Alice")
	require.NoError(t, err)

	t.Run("valid access token injects claims", func(t *testing.T) {
		called := false
		handler := RequireAccessToken(tm)(okHandler(t, func(r *http.Request) {
			called = true
			claims := GetUserFromContext(r)
			require.NotNil(t, claims)
			assert.Equal(t, "abc123def456", claims.Subject)
		}))

		req := httptest.NewRequest(http.MethodGet, "/v1/users/me", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, called)
	})

	t.Run("missing header", func(t *testing.T) {
		handler := RequireAccessToken(tm)(okHandler(t, func(r *http.Request) { t.Fatal("handler must not run") }))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assertUnauthorized(t, w, "missing or malformed authorization header")
	})

	t.Run("refresh token rejected", func(t *testing.T) {
		handler := RequireAccessToken(tm)(okHandler(t, func(r *http.Request) { t.Fatal("handler must not run") }))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assertUnauthorized(t, w, "invalid token")
	})

	t.Run("expired token", func(t *testing.T) {
		past := newTestTokenManager()
		past.now = func() time.Time { return time.Now().Add(-time.Hour) }
		expired, err := past.GenerateAccessToken("abc123def456", "Alice")
		require.NoError(t, err)

		handler := RequireAccessToken(tm)(okHandler(t, func(r *http.Request) { t.Fatal("handler must not run") }))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+expired)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assertUnauthorized(t, w, "token expired")
	})
}

func TestRequireRefreshToken(t *testing.T) {
	tm := newTestTokenManager()
	pair, err := tm.GeneratePair("abc123def456", "Alice")
	require.NoError(t, err)

	t.Run("valid refresh token injects claims and raw token", func(t *testing.T) {
		handler := RequireRefreshToken(tm)(okHandler(t, func(r *http.Request) {
			assert.Equal(t, "abc123def456", GetUserFromContext(r).Subject)
			assert.Equal(t, pair.RefreshToken, GetRefreshTokenFromContext(r))
		}))

		req := httptest.NewRequest(http.MethodGet, "/v1/auth/refresh", nil)
		req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("access token rejected", func(t *testing.T) {
		handler := RequireRefreshToken(tm)(okHandler(t, func(r *http.Request) { t.Fatal("handler must not run") }))
		req := httptest.NewRequest(http.MethodGet, "/v1/auth/refresh", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assertUnauthorized(t, w, "invalid token")
	})
}

func TestContextHelpers_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, GetUserFromContext(req))
	assert.Empty(t, GetRefreshTokenFromContext(req))
}
