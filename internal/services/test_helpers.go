package services

import (
	"context"
	"sync"
	"time"

	"github.com/BradenHooton/meular/internal/models"
)

// MockUserRepository implements UserRepository for testing
type MockUserRepository struct {
	GetByEmailFunc              func(ctx context.Context, email string) (*models.User, error)
	GetByPublicIDFunc           func(ctx context.Context, publicID string) (*models.User, error)
	CreateFunc                  func(ctx context.Context, user *models.User) (*models.User, error)
	SetRefreshTokenHashFunc     func(ctx context.Context, publicID string, hash *string) error
	RotateRefreshTokenHashFunc  func(ctx context.Context, publicID, current, next string) error
	SetEmailValidationTokenFunc func(ctx context.Context, publicID, hash string, sentAt time.Time) error
	MarkEmailValidatedFunc      func(ctx context.Context, publicID string) error
	UpdateFunc                  func(ctx context.Context, publicID string, update models.UserUpdate) (*models.User, error)
	DeleteFunc                  func(ctx context.Context, publicID string) error
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByPublicID(ctx context.Context, publicID string) (*models.User, error) {
	if m.GetByPublicIDFunc != nil {
		return m.GetByPublicIDFunc(ctx, publicID)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) SetRefreshTokenHash(ctx context.Context, publicID string, hash *string) error {
	if m.SetRefreshTokenHashFunc != nil {
		return m.SetRefreshTokenHashFunc(ctx, publicID, hash)
	}
	return nil
}

func (m *MockUserRepository) RotateRefreshTokenHash(ctx context.Context, publicID, current, next string) error {
	if m.RotateRefreshTokenHashFunc != nil {
		return m.RotateRefreshTokenHashFunc(ctx, publicID, current, next)
	}
	return nil
}

func (m *MockUserRepository) SetEmailValidationToken(ctx context.Context, publicID, hash string, sentAt time.Time) error {
	if m.SetEmailValidationTokenFunc != nil {
		return m.SetEmailValidationTokenFunc(ctx, publicID, hash, sentAt)
	}
	return nil
}

func (m *MockUserRepository) MarkEmailValidated(ctx context.Context, publicID string) error {
	if m.MarkEmailValidatedFunc != nil {
		return m.MarkEmailValidatedFunc(ctx, publicID)
	}
	return nil
}

func (m *MockUserRepository) Update(ctx context.Context, publicID string, update models.UserUpdate) (*models.User, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, publicID, update)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) Delete(ctx context.Context, publicID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, publicID)
	}
	return nil
}

// MockPasswordRecoveryRepository implements PasswordRecoveryRepository for testing
type MockPasswordRecoveryRepository struct {
	CreateFunc        func(ctx context.Context, req *models.PasswordRecoveryRequest) (*models.PasswordRecoveryRequest, error)
	GetByIDFunc       func(ctx context.Context, id string) (*models.PasswordRecoveryRequest, error)
	ResetPasswordFunc func(ctx context.Context, recoveryID, userID, passwordHash string) error
}

func (m *MockPasswordRecoveryRepository) Create(ctx context.Context, req *models.PasswordRecoveryRequest) (*models.PasswordRecoveryRequest, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, req)
	}
	return nil, models.ErrInternalServer
}

func (m *MockPasswordRecoveryRepository) GetByID(ctx context.Context, id string) (*models.PasswordRecoveryRequest, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockPasswordRecoveryRepository) ResetPassword(ctx context.Context, recoveryID, userID, passwordHash string) error {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, recoveryID, userID, passwordHash)
	}
	return nil
}

// MockMailService records sent mail
type MockMailService struct {
	SendFunc func(ctx context.Context, mail Mail) error

	mu   sync.Mutex
	Sent []Mail
}

func (m *MockMailService) Send(ctx context.Context, mail Mail) error {
	m.mu.Lock()
	m.Sent = append(m.Sent, mail)
	m.mu.Unlock()

	if m.SendFunc != nil {
		return m.SendFunc(ctx, mail)
	}
	return nil
}

// Last returns the most recently sent mail, or nil
func (m *MockMailService) Last() *Mail {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Sent) == 0 {
		return nil
	}
	mail := m.Sent[len(m.Sent)-1]
	return &mail
}

// MockTimingDelay implements TimingDelay for testing
type MockTimingDelay struct {
	WaitFromFunc func(startTime time.Time, succeeded bool)
}

func (m *MockTimingDelay) WaitFrom(startTime time.Time, succeeded bool) {
	if m.WaitFromFunc != nil {
		m.WaitFromFunc(startTime, succeeded)
	}
}

// MockPropertyRepository implements PropertyRepository for testing
type MockPropertyRepository struct {
	CreateFunc        func(ctx context.Context, p *models.Property) (*models.Property, error)
	GetByPublicIDFunc func(ctx context.Context, publicID string) (*models.Property, error)
	ListFunc          func(ctx context.Context, limit, offset int) ([]*models.Property, error)
	ListByUserFunc    func(ctx context.Context, userID string) ([]*models.Property, error)
	UpdateFunc        func(ctx context.Context, p *models.Property) (*models.Property, error)
	DeleteFunc        func(ctx context.Context, publicID, userID string) error
}

func (m *MockPropertyRepository) Create(ctx context.Context, p *models.Property) (*models.Property, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, p)
	}
	return nil, models.ErrInternalServer
}

func (m *MockPropertyRepository) GetByPublicID(ctx context.Context, publicID string) (*models.Property, error) {
	if m.GetByPublicIDFunc != nil {
		return m.GetByPublicIDFunc(ctx, publicID)
	}
	return nil, models.ErrNotFound
}

func (m *MockPropertyRepository) List(ctx context.Context, limit, offset int) ([]*models.Property, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	return []*models.Property{}, nil
}

func (m *MockPropertyRepository) ListByUser(ctx context.Context, userID string) ([]*models.Property, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return []*models.Property{}, nil
}

func (m *MockPropertyRepository) Update(ctx context.Context, p *models.Property) (*models.Property, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, p)
	}
	return nil, models.ErrNotFound
}

func (m *MockPropertyRepository) Delete(ctx context.Context, publicID, userID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, publicID, userID)
	}
	return nil
}

// MockTaxonomyRepository implements TaxonomyRepository for testing
type MockTaxonomyRepository struct {
	CreateFunc  func(ctx context.Context, name, slug string) (*models.Taxonomy, error)
	GetByIDFunc func(ctx context.Context, id int64) (*models.Taxonomy, error)
	ListFunc    func(ctx context.Context) ([]*models.Taxonomy, error)
	UpdateFunc  func(ctx context.Context, id int64, name, slug string) (*models.Taxonomy, error)
	DeleteFunc  func(ctx context.Context, id int64) error
}

func (m *MockTaxonomyRepository) Create(ctx context.Context, name, slug string) (*models.Taxonomy, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, name, slug)
	}
	return &models.Taxonomy{ID: 1, Name: name, Slug: slug}, nil
}

func (m *MockTaxonomyRepository) GetByID(ctx context.Context, id int64) (*models.Taxonomy, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockTaxonomyRepository) List(ctx context.Context) ([]*models.Taxonomy, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []*models.Taxonomy{}, nil
}

func (m *MockTaxonomyRepository) Update(ctx context.Context, id int64, name, slug string) (*models.Taxonomy, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, name, slug)
	}
	return &models.Taxonomy{ID: id, Name: name, Slug: slug}, nil
}

func (m *MockTaxonomyRepository) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}
