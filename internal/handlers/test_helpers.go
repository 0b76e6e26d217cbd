package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"github.com/BradenHooton/meular/internal/auth"
	"github.com/BradenHooton/meular/internal/models"
	"github.com/BradenHooton/meular/internal/services"
	pkghttp "github.com/BradenHooton/meular/pkg/http"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithAuthContext adds access token claims for publicID to the request context
func WithAuthContext(req *http.Request, publicID string) *http.Request {
	claims := &models.TokenClaims{
		Type:             models.TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{Subject: publicID},
	}
	ctx := context.WithValue(req.Context(), auth.UserContextKey, claims)
	return req.WithContext(ctx)
}

// WithRefreshContext adds refresh token claims and the raw token to the request context
func WithRefreshContext(req *http.Request, publicID, token string) *http.Request {
	claims := &models.TokenClaims{
		Type:             models.TokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{Subject: publicID},
	}
	ctx := context.WithValue(req.Context(), auth.UserContextKey, claims)
	ctx = context.WithValue(ctx, auth.RefreshTokenContextKey, token)
	return req.WithContext(ctx)
}

// WithChiRouteContext adds chi URL parameters to request context for testing
//
// Example usage:
//
//	req := httptest.NewRequest("GET", "/property-types/3", nil)
//	req = WithChiRouteContext(req, map[string]string{"id": "3"})
func WithChiRouteContext(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target any) {
	t.Helper()
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"), "Content-Type should be application/json")

	if target != nil {
		err := json.Unmarshal(w.Body.Bytes(), target)
		assert.NoError(t, err, "Failed to decode response JSON")
	}
}

// AssertErrorResponse checks status, error code and message of an error response.
// An empty expectedMessage only asserts that a message is present.
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedError, expectedMessage string) {
	t.Helper()
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode error response")
	assert.Equal(t, expectedError, resp.Error, "Error code mismatch")
	if expectedMessage != "" {
		assert.Equal(t, expectedMessage, resp.Message)
	} else {
		assert.NotEmpty(t, resp.Message, "Error message should not be empty")
	}
}

// MockAuthService implements AuthServiceInterface for testing
type MockAuthService struct {
	SignInFunc           func(ctx context.Context, email, password string) (*models.TokenPair, error)
	SignOutFunc          func(ctx context.Context, publicID string) error
	RefreshFunc          func(ctx context.Context, publicID, presented string) (*models.TokenPair, error)
	RegisterFunc         func(ctx context.Context, email, password, name string) (*models.SafeUser, error)
	ValidateEmailFunc    func(ctx context.Context, publicID, presented string) error
	ResendValidationFunc func(ctx context.Context, email string) error
	ForgotPasswordFunc   func(ctx context.Context, email string) (string, error)
	ResetPasswordFunc    func(ctx context.Context, recoveryID, presented, newPassword string) error
	CurrentUserFunc      func(ctx context.Context, publicID string) (*models.SafeUser, error)
	UpdateProfileFunc    func(ctx context.Context, publicID string, update models.UserUpdate) (*models.SafeUser, error)
	DeleteAccountFunc    func(ctx context.Context, publicID string) error
}

func (m *MockAuthService) SignIn(ctx context.Context, email, password string) (*models.TokenPair, error) {
	if m.SignInFunc == nil {
		return nil, models.ErrUnauthorized
	}
	return m.SignInFunc(ctx, email, password)
}

func (m *MockAuthService) SignOut(ctx context.Context, publicID string) error {
	if m.SignOutFunc == nil {
		return nil
	}
	return m.SignOutFunc(ctx, publicID)
}

func (m *MockAuthService) Refresh(ctx context.Context, publicID, presented string) (*models.TokenPair, error) {
	if m.RefreshFunc == nil {
		return nil, models.ErrUnauthorized
	}
	return m.RefreshFunc(ctx, publicID, presented)
}

func (m *MockAuthService) Register(ctx context.Context, email, password, name string) (*models.SafeUser, error) {
	if m.RegisterFunc == nil {
		return nil, models.ErrBadRequest
	}
	return m.RegisterFunc(ctx, email, password, name)
}

func (m *MockAuthService) ValidateEmail(ctx context.Context, publicID, presented string) error {
	if m.ValidateEmailFunc == nil {
		return nil
	}
	return m.ValidateEmailFunc(ctx, publicID, presented)
}

func (m *MockAuthService) ResendValidation(ctx context.Context, email string) error {
	if m.ResendValidationFunc == nil {
		return nil
	}
	return m.ResendValidationFunc(ctx, email)
}

func (m *MockAuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	if m.ForgotPasswordFunc == nil {
		return "", models.ErrNotFound
	}
	return m.ForgotPasswordFunc(ctx, email)
}

func (m *MockAuthService) ResetPassword(ctx context.Context, recoveryID, presented, newPassword string) error {
	if m.ResetPasswordFunc == nil {
		return nil
	}
	return m.ResetPasswordFunc(ctx, recoveryID, presented, newPassword)
}

func (m *MockAuthService) CurrentUser(ctx context.Context, publicID string) (*models.SafeUser, error) {
	if m.CurrentUserFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.CurrentUserFunc(ctx, publicID)
}

func (m *MockAuthService) UpdateProfile(ctx context.Context, publicID string, update models.UserUpdate) (*models.SafeUser, error) {
	if m.UpdateProfileFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.UpdateProfileFunc(ctx, publicID, update)
}

func (m *MockAuthService) DeleteAccount(ctx context.Context, publicID string) error {
	if m.DeleteAccountFunc == nil {
		return nil
	}
	return m.DeleteAccountFunc(ctx, publicID)
}

// MockPropertyService implements PropertyServiceInterface for testing
type MockPropertyService struct {
	CreateFunc   func(ctx context.Context, ownerPublicID string, input services.PropertyInput) (*models.Property, error)
	GetFunc      func(ctx context.Context, publicID string) (*models.Property, error)
	ListFunc     func(ctx context.Context, limit, offset int) ([]*models.Property, error)
	ListMineFunc func(ctx context.Context, ownerPublicID string) ([]*models.Property, error)
	UpdateFunc   func(ctx context.Context, ownerPublicID, publicID string, input services.PropertyInput) (*models.Property, error)
	DeleteFunc   func(ctx context.Context, ownerPublicID, publicID string) error
}

func (m *MockPropertyService) Create(ctx context.Context, ownerPublicID string, input services.PropertyInput) (*models.Property, error) {
	if m.CreateFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.CreateFunc(ctx, ownerPublicID, input)
}

func (m *MockPropertyService) Get(ctx context.Context, publicID string) (*models.Property, error) {
	if m.GetFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetFunc(ctx, publicID)
}

func (m *MockPropertyService) List(ctx context.Context, limit, offset int) ([]*models.Property, error) {
	if m.ListFunc == nil {
		return []*models.Property{}, nil
	}
	return m.ListFunc(ctx, limit, offset)
}

func (m *MockPropertyService) ListMine(ctx context.Context, ownerPublicID string) ([]*models.Property, error) {
	if m.ListMineFunc == nil {
		return []*models.Property{}, nil
	}
	return m.ListMineFunc(ctx, ownerPublicID)
}

func (m *MockPropertyService) Update(ctx context.Context, ownerPublicID, publicID string, input services.PropertyInput) (*models.Property, error) {
	if m.UpdateFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.UpdateFunc(ctx, ownerPublicID, publicID, input)
}

func (m *MockPropertyService) Delete(ctx context.Context, ownerPublicID, publicID string) error {
	if m.DeleteFunc == nil {
		return nil
	}
	return m.DeleteFunc(ctx, ownerPublicID, publicID)
}

// MockTaxonomyService implements TaxonomyServiceInterface for testing
type MockTaxonomyService struct {
	CreateFunc func(ctx context.Context, name string) (*models.Taxonomy, error)
	GetFunc    func(ctx context.Context, id int64) (*models.Taxonomy, error)
	ListFunc   func(ctx context.Context) ([]*models.Taxonomy, error)
	UpdateFunc func(ctx context.Context, id int64, name string) (*models.Taxonomy, error)
	DeleteFunc func(ctx context.Context, id int64) error
}

func (m *MockTaxonomyService) Create(ctx context.Context, name string) (*models.Taxonomy, error) {
	if m.CreateFunc == nil {
		return &models.Taxonomy{ID: 1, Name: name}, nil
	}
	return m.CreateFunc(ctx, name)
}

func (m *MockTaxonomyService) Get(ctx context.Context, id int64) (*models.Taxonomy, error) {
	if m.GetFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetFunc(ctx, id)
}

func (m *MockTaxonomyService) List(ctx context.Context) ([]*models.Taxonomy, error) {
	if m.ListFunc == nil {
		return []*models.Taxonomy{}, nil
	}
	return m.ListFunc(ctx)
}

func (m *MockTaxonomyService) Update(ctx context.Context, id int64, name string) (*models.Taxonomy, error) {
	if m.UpdateFunc == nil {
		return &models.Taxonomy{ID: id, Name: name}, nil
	}
	return m.UpdateFunc(ctx, id, name)
}

func (m *MockTaxonomyService) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc == nil {
		return nil
	}
	return m.DeleteFunc(ctx, id)
}
