package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/BradenHooton/meular/internal/auth"
	"github.com/BradenHooton/meular/internal/models"
	pkgauth "github.com/BradenHooton/meular/pkg/auth"
	pkglogger "github.com/BradenHooton/meular/pkg/logger"
)

// UserRepository is the credential store as seen by the auth service. Every
// lookup returns models.ErrNotFound when no row matches.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByPublicID(ctx context.Context, publicID string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	SetRefreshTokenHash(ctx context.Context, publicID string, hash *string) error
	RotateRefreshTokenHash(ctx context.Context, publicID, current, next string) error
	SetEmailValidationToken(ctx context.Context, publicID, hash string, sentAt time.Time) error
	MarkEmailValidated(ctx context.Context, publicID string) error
	Update(ctx context.Context, publicID string, update models.UserUpdate) (*models.User, error)
	Delete(ctx context.Context, publicID string) error
}

// PasswordRecoveryRepository stores pending password recovery requests
type PasswordRecoveryRepository interface {
	Create(ctx context.Context, req *models.PasswordRecoveryRequest) (*models.PasswordRecoveryRequest, error)
	GetByID(ctx context.Context, id string) (*models.PasswordRecoveryRequest, error)
	ResetPassword(ctx context.Context, recoveryID, userID, passwordHash string) error
}

// TimingDelay pads the duration of failed credential checks
type TimingDelay interface {
	WaitFrom(startTime time.Time, succeeded bool)
}

// AuthConfig carries the credential lifecycle settings
type AuthConfig struct {
	PasswordRecoveryWindow time.Duration
	EmailValidationWindow  time.Duration
	EmailValidationEnabled bool
	ResendCooldown         time.Duration
	MailFrom               string
	BaseURL                string
}

// Client-facing messages
const (
	msgUserNotFound        = "user not found"
	msgInvalidCredentials  = "invalid credentials"
	msgInvalidSession      = "invalid session"
	msgEmailExists         = "email already exists"
	msgUsernameTaken       = "username already taken"
	msgNothingToUpdate     = "nothing to update"
	msgDeliveryFailed      = "delivery failed"
	msgAlreadyValidated    = "email already validated"
	msgNoPendingValidation = "no pending email validation"
	msgValidationExpired   = "validation token expired"
	msgInvalidToken        = "invalid token provided"
	msgRecoveryNotFound    = "recovery request not found"
	msgRecoveryExpired     = "expired"
	msgUnavailable         = "service unavailable"
	msgInternal            = "internal server error"
)

// AuthService orchestrates sign-in, sessions, email validation and password
// recovery against the credential store, hasher, token manager and mailer.
type AuthService struct {
	users      UserRepository
	recoveries PasswordRecoveryRepository
	hasher     pkgauth.Hasher
	tm         *auth.TokenManager
	mail       MailService
	timing     TimingDelay
	cfg        AuthConfig
	logger     *slog.Logger
	audit      *pkglogger.AuditLogger
	now        func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(
	users UserRepository,
	recoveries PasswordRecoveryRepository,
	hasher pkgauth.Hasher,
	tm *auth.TokenManager,
	mail MailService,
	timing TimingDelay,
	cfg AuthConfig,
	logger *slog.Logger,
	audit *pkglogger.AuditLogger,
) *AuthService {
	return &AuthService{
		users:      users,
		recoveries: recoveries,
		hasher:     hasher,
		tm:         tm,
		mail:       mail,
		timing:     timing,
		cfg:        cfg,
		logger:     logger,
		audit:      audit,
		now:        time.Now,
	}
}

// SignIn verifies the password and starts a new session, replacing any
// previous one. An unknown email yields models.ErrNotFound.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (pair *models.TokenPair, err error) {
	start := time.Now()
	defer func() {
		if s.timing != nil {
			s.timing.WaitFrom(start, err == nil)
		}
	}()

	email = normalizeEmail(email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("sign-in failed: unknown email")
			s.audit.Log(ctx, pkglogger.AuditEvent{
				EventType:     pkglogger.EventSignIn,
				Email:         email,
				FailureReason: "unknown_email",
			})
			return nil, models.NewDomainError(models.ErrNotFound, msgUserNotFound)
		}
		return nil, s.storeFailure("failed to get user by email", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		s.logger.Error("stored password hash is unusable", slog.String("user_id", user.PublicID), slog.Any("error", err))
		return nil, models.NewDomainError(models.ErrInternalServer, msgInternal)
	}
	if !ok {
		s.logger.Info("sign-in failed: invalid credentials", slog.String("user_id", user.PublicID))
		s.audit.Log(ctx, pkglogger.AuditEvent{
			EventType:     pkglogger.EventSignIn,
			UserID:        user.PublicID,
			FailureReason: "invalid_password",
		})
		return nil, models.NewDomainError(models.ErrUnauthorized, msgInvalidCredentials)
	}

	pair, refreshHash, err := s.issueSession(user)
	if err != nil {
		return nil, err
	}

	if err := s.users.SetRefreshTokenHash(ctx, user.PublicID, &refreshHash); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.NewDomainError(models.ErrUnauthorized, msgInvalidSession)
		}
		return nil, s.storeFailure("failed to store refresh token", err, slog.String("user_id", user.PublicID))
	}

	s.logger.Info("user signed in", slog.String("user_id", user.PublicID))
	s.audit.Log(ctx, pkglogger.AuditEvent{EventType: pkglogger.EventSignIn, UserID: user.PublicID, Success: true})

	return pair, nil
}

// SignOut ends the user's session. Signing out without a session, or as a
// user that no longer exists, is not an error.
func (s *AuthService) SignOut(ctx context.Context, publicID string) error {
	err := s.users.SetRefreshTokenHash(ctx, publicID, nil)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return s.storeFailure("failed to clear refresh token", err, slog.String("user_id", publicID))
	}

	s.logger.Info("user signed out", slog.String("user_id", publicID))
	s.audit.Log(ctx, pkglogger.AuditEvent{EventType: pkglogger.EventSignOut, UserID: publicID, Success: true})
	return nil
}

// Refresh rotates the session: the presented refresh token must match the
// stored hash, and is invalidated by the new pair. The new hash is only
// written if the stored one is still the hash that was verified, so
// concurrent requests replaying the same token get exactly one new pair.
func (s *AuthService) Refresh(ctx context.Context, publicID, presented string) (*models.TokenPair, error) {
	user, err := s.users.GetByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.rejectRefresh(ctx, publicID, "unknown_user")
			return nil, models.NewDomainError(models.ErrUnauthorized, msgInvalidSession)
		}
		return nil, s.storeFailure("failed to get user for refresh", err, slog.String("user_id", publicID))
	}

	if !user.HasSession() {
		s.rejectRefresh(ctx, publicID, "no_session")
		return nil, models.NewDomainError(models.ErrUnauthorized, msgInvalidSession)
	}

	ok, err := s.hasher.Verify(presented, *user.RefreshTokenHash)
	if err != nil {
		s.logger.Error("stored refresh hash is unusable", slog.String("user_id", publicID), slog.Any("error", err))
		return nil, models.NewDomainError(models.ErrInternalServer, msgInternal)
	}
	if !ok {
		s.rejectRefresh(ctx, publicID, "token_mismatch")
		return nil, models.NewDomainError(models.ErrUnauthorized, msgInvalidSession)
	}

	pair, refreshHash, err := s.issueSession(user)
	if err != nil {
		return nil, err
	}

	if err := s.users.RotateRefreshTokenHash(ctx, publicID, *user.RefreshTokenHash, refreshHash); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.rejectRefresh(ctx, publicID, "already_rotated")
			return nil, models.NewDomainError(models.ErrUnauthorized, msgInvalidSession)
		}
		return nil, s.storeFailure("failed to rotate refresh token", err, slog.String("user_id", publicID))
	}

	s.audit.Log(ctx, pkglogger.AuditEvent{EventType: pkglogger.EventRefresh, UserID: publicID, Success: true})
	return pair, nil
}

// Register creates the account. When email validation is enabled a secret is
// mailed to the user; if delivery fails the account stays and the caller gets
// an Unavailable error. ResendValidation recovers from that state.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*models.SafeUser, error) {
	email = normalizeEmail(email)

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, models.NewDomainError(models.ErrInternalServer, msgInternal)
	}

	user := &models.User{
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: passwordHash,
	}

	var secret string
	if s.cfg.EmailValidationEnabled {
		var tokenHash string
		secret, tokenHash, err = s.newSecret()
		if err != nil {
			return nil, err
		}
		sentAt := s.now()
		user.EmailValidationTokenHash = &tokenHash
		user.EmailValidationSentAt = &sentAt
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			s.audit.Log(ctx, pkglogger.AuditEvent{EventType: pkglogger.EventRegister, Email: email, FailureReason: "email_exists"})
			return nil, models.NewDomainError(models.ErrBadRequest, msgEmailExists)
		}
		return nil, s.storeFailure("failed to create user", err)
	}

	s.logger.Info("user registered", slog.String("user_id", created.PublicID))
	s.audit.Log(ctx, pkglogger.AuditEvent{EventType: pkglogger.EventRegister, UserID: created.PublicID, Success: true})

	if s.cfg.EmailValidationEnabled {
		if err := s.sendValidationMail(ctx, created, secret); err != nil {
			return nil, err
		}
	}

	return created.Safe(), nil
}

// ValidateEmail consumes the pending email validation secret
func (s *AuthService) ValidateEmail(ctx context.Context, publicID, presented string) error {
	user, err := s.users.GetByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.NewDomainError(models.ErrNotFound, msgUserNotFound)
		}
		return s.storeFailure("failed to get user for email validation", err, slog.String("user_id", publicID))
	}

	if user.EmailValidated {
		return models.NewDomainError(models.ErrBadRequest, msgAlreadyValidated)
	}
	if user.EmailValidationTokenHash == nil {
		return models.NewDomainError(models.ErrBadRequest, msgNoPendingValidation)
	}
	if pkgauth.IsExpired(user.ValidationIssuedAt(), s.cfg.EmailValidationWindow, s.now()) {
		s.failValidation(ctx, publicID, "expired")
		return models.NewDomainError(models.ErrBadRequest, msgValidationExpired)
	}

	ok, err := s.hasher.Verify(presented, *user.EmailValidationTokenHash)
	if err != nil {
		s.logger.Error("stored validation hash is unusable", slog.String("user_id", publicID), slog.Any("error", err))
		return models.NewDomainError(models.ErrInternalServer, msgInternal)
	}
	if !ok {
		s.failValidation(ctx, publicID, "token_mismatch")
		return models.NewDomainError(models.ErrBadRequest, msgInvalidToken)
	}

	if err := s.users.MarkEmailValidated(ctx, publicID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.NewDomainError(models.ErrNotFound, msgUserNotFound)
		}
		return s.storeFailure("failed to mark email validated", err, slog.String("user_id", publicID))
	}

	s.logger.Info("email validated", slog.String("user_id", publicID))
	s.audit.Log(ctx, pkglogger.AuditEvent{EventType: pkglogger.EventEmailValidation, UserID: publicID, Success: true})
	return nil
}

// ResendValidation mails a fresh validation secret. Unknown or already
// validated addresses, and requests inside the cooldown, succeed silently.
func (s *AuthService) ResendValidation(ctx context.Context, email string) error {
	if !s.cfg.EmailValidationEnabled {
		return nil
	}

	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil
		}
		return s.storeFailure("failed to get user for validation resend", err)
	}

	if user.EmailValidated {
		return nil
	}

	now := s.now()
	if user.EmailValidationSentAt != nil && now.Sub(*user.EmailValidationSentAt) < s.cfg.ResendCooldown {
		s.logger.Info("validation resend skipped: cooldown", slog.String("user_id", user.PublicID))
		return nil
	}

	secret, tokenHash, err := s.newSecret()
	if err != nil {
		return err
	}

	if err := s.users.SetEmailValidationToken(ctx, user.PublicID, tokenHash, now); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil
		}
		return s.storeFailure("failed to store validation token", err, slog.String("user_id", user.PublicID))
	}

	if err := s.sendValidationMail(ctx, user, secret); err != nil {
		return err
	}

	s.audit.Log(ctx, pkglogger.AuditEvent{EventType: pkglogger.EventValidationResend, UserID: user.PublicID, Success: true})
	return nil
}

// ForgotPassword opens a recovery request and mails its secret. It returns
// the recovery request id, or models.ErrNotFound for an unknown email. Every
// outcome is padded to the same minimum duration.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (id string, err error) {
	start := time.Now()
	defer func() {
		if s.timing != nil {
			s.timing.WaitFrom(start, false)
		}
	}()

	email = normalizeEmail(email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.audit.Log(ctx, pkglogger.AuditEvent{EventType: pkglogger.EventRecoveryRequest, Email: email, FailureReason: "unknown_email"})
			return "", models.NewDomainError(models.ErrNotFound, msgUserNotFound)
		}
		return "", s.storeFailure("failed to get user for password recovery", err)
	}

	secret, tokenHash, err := s.newSecret()
	if err != nil {
		return "", err
	}

	req, err := s.recoveries.Create(ctx, &models.PasswordRecoveryRequest{
		UserID:    user.ID,
		TokenHash: tokenHash,
		CreatedAt: s.now(),
	})
	if err != nil {
		return "", s.storeFailure("failed to create recovery request", err, slog.String("user_id", user.PublicID))
	}

	err = s.mail.Send(ctx, Mail{
		To:       user.Email,
		From:     s.cfg.MailFrom,
		Subject:  "Reset your MeuLar password",
		Template: TemplatePasswordRecovery,
		Data: RecoveryMailData{
			Name:       user.Name,
			Link:       s.link("/reset-password", url.Values{"id": {req.ID}, "token": {secret}}),
			RecoveryID: req.ID,
			ExpiresIn:  formatWindow(s.cfg.PasswordRecoveryWindow),
		},
	})
	if err != nil {
		s.logger.Error("failed to deliver recovery mail", slog.String("user_id", user.PublicID), slog.Any("error", err))
		return "", models.NewDomainError(models.ErrUnavailable, msgDeliveryFailed)
	}

	s.logger.Info("password recovery requested", slog.String("user_id", user.PublicID))
	s.audit.Log(ctx, pkglogger.AuditEvent{EventType: pkglogger.EventRecoveryRequest, UserID: user.PublicID, Success: true})

	return req.ID, nil
}

// ResetPassword consumes a recovery request. On success the password is
// replaced, the session ends and every pending request of the user is
// deleted, so the same secret cannot be used twice.
func (s *AuthService) ResetPassword(ctx context.Context, recoveryID, presented, newPassword string) (err error) {
	start := time.Now()
	defer func() {
		if s.timing != nil {
			s.timing.WaitFrom(start, err == nil)
		}
	}()

	req, err := s.recoveries.GetByID(ctx, recoveryID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.failReset(ctx, recoveryID, "unknown_request")
			return models.NewDomainError(models.ErrNotFound, msgRecoveryNotFound)
		}
		return s.storeFailure("failed to get recovery request", err)
	}

	if pkgauth.IsExpired(req.CreatedAt, s.cfg.PasswordRecoveryWindow, s.now()) {
		s.failReset(ctx, recoveryID, "expired")
		return models.NewDomainError(models.ErrBadRequest, msgRecoveryExpired)
	}

	ok, err := s.hasher.Verify(presented, req.TokenHash)
	if err != nil {
		s.logger.Error("stored recovery hash is unusable", slog.String("recovery_id", recoveryID), slog.Any("error", err))
		return models.NewDomainError(models.ErrInternalServer, msgInternal)
	}
	if !ok {
		s.failReset(ctx, recoveryID, "token_mismatch")
		return models.NewDomainError(models.ErrNotFound, msgInvalidToken)
	}

	passwordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return models.NewDomainError(models.ErrInternalServer, msgInternal)
	}

	if err := s.recoveries.ResetPassword(ctx, req.ID, req.UserID, passwordHash); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.failReset(ctx, recoveryID, "already_consumed")
			return models.NewDomainError(models.ErrNotFound, msgRecoveryNotFound)
		}
		return s.storeFailure("failed to reset password", err)
	}

	s.logger.Info("password reset")
	s.audit.Log(ctx, pkglogger.AuditEvent{
		EventType: pkglogger.EventPasswordReset,
		Success:   true,
		Metadata:  map[string]string{"recovery_id": recoveryID},
	})
	return nil
}

// CurrentUser returns the projection of the signed-in user
func (s *AuthService) CurrentUser(ctx context.Context, publicID string) (*models.SafeUser, error) {
	user, err := s.users.GetByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.NewDomainError(models.ErrNotFound, msgUserNotFound)
		}
		return nil, s.storeFailure("failed to get current user", err, slog.String("user_id", publicID))
	}
	return user.Safe(), nil
}

// UpdateProfile changes the signed-in user's name and username
func (s *AuthService) UpdateProfile(ctx context.Context, publicID string, update models.UserUpdate) (*models.SafeUser, error) {
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		update.Name = &name
	}
	if update.Username != nil {
		username := strings.ToLower(strings.TrimSpace(*update.Username))
		update.Username = &username
	}
	if update.IsEmpty() {
		return nil, models.NewDomainError(models.ErrBadRequest, msgNothingToUpdate)
	}

	user, err := s.users.Update(ctx, publicID, update)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			return nil, models.NewDomainError(models.ErrNotFound, msgUserNotFound)
		case errors.Is(err, models.ErrConflict):
			return nil, models.NewDomainError(models.ErrBadRequest, msgUsernameTaken)
		}
		return nil, s.storeFailure("failed to update user", err, slog.String("user_id", publicID))
	}

	s.audit.Log(ctx, pkglogger.AuditEvent{EventType: pkglogger.EventProfileUpdate, UserID: publicID, Success: true})
	return user.Safe(), nil
}

// DeleteAccount removes the signed-in user together with their properties
// and pending recovery requests
func (s *AuthService) DeleteAccount(ctx context.Context, publicID string) error {
	if err := s.users.Delete(ctx, publicID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.NewDomainError(models.ErrNotFound, msgUserNotFound)
		}
		return s.storeFailure("failed to delete user", err, slog.String("user_id", publicID))
	}

	s.logger.Info("account deleted", slog.String("user_id", publicID))
	s.audit.Log(ctx, pkglogger.AuditEvent{EventType: pkglogger.EventAccountDelete, UserID: publicID, Success: true})
	return nil
}

// issueSession mints a pair and hashes its refresh token for storage
func (s *AuthService) issueSession(user *models.User) (*models.TokenPair, string, error) {
	pair, err := s.tm.GeneratePair(user.PublicID, user.Name)
	if err != nil {
		s.logger.Error("failed to issue tokens", slog.String("user_id", user.PublicID), slog.Any("error", err))
		return nil, "", models.NewDomainError(models.ErrInternalServer, msgInternal)
	}

	refreshHash, err := s.hasher.Hash(pair.RefreshToken)
	if err != nil {
		s.logger.Error("failed to hash refresh token", slog.String("user_id", user.PublicID), slog.Any("error", err))
		return nil, "", models.NewDomainError(models.ErrInternalServer, msgInternal)
	}

	return pair, refreshHash, nil
}

func (s *AuthService) sendValidationMail(ctx context.Context, user *models.User, secret string) error {
	err := s.mail.Send(ctx, Mail{
		To:       user.Email,
		From:     s.cfg.MailFrom,
		Subject:  "Confirm your MeuLar email",
		Template: TemplateEmailValidation,
		Data: ValidationMailData{
			Name:      user.Name,
			Link:      s.link("/validate-email", url.Values{"id": {user.PublicID}, "token": {secret}}),
			ExpiresIn: formatWindow(s.cfg.EmailValidationWindow),
		},
	})
	if err != nil {
		s.logger.Error("failed to deliver validation mail", slog.String("user_id", user.PublicID), slog.Any("error", err))
		return models.NewDomainError(models.ErrUnavailable, msgDeliveryFailed)
	}
	return nil
}

// newSecret returns a one-time plaintext secret and its hash
func (s *AuthService) newSecret() (string, string, error) {
	secret, err := pkgauth.GenerateSecret()
	if err != nil {
		s.logger.Error("failed to generate secret", slog.Any("error", err))
		return "", "", models.NewDomainError(models.ErrInternalServer, msgInternal)
	}

	hash, err := s.hasher.Hash(secret)
	if err != nil {
		s.logger.Error("failed to hash secret", slog.Any("error", err))
		return "", "", models.NewDomainError(models.ErrInternalServer, msgInternal)
	}

	return secret, hash, nil
}

func (s *AuthService) storeFailure(msg string, err error, attrs ...any) error {
	return storeFailure(s.logger, msg, err, attrs...)
}

// storeFailure logs an unexpected store error and hides it behind Unavailable
func storeFailure(logger *slog.Logger, msg string, err error, attrs ...any) error {
	logger.Error(msg, append(attrs, slog.Any("error", err))...)
	return models.NewDomainError(models.ErrUnavailable, msgUnavailable)
}

func (s *AuthService) rejectRefresh(ctx context.Context, publicID, reason string) {
	s.logger.Info("refresh rejected", slog.String("user_id", publicID), slog.String("reason", reason))
	s.audit.Log(ctx, pkglogger.AuditEvent{EventType: pkglogger.EventRefresh, UserID: publicID, FailureReason: reason})
}

func (s *AuthService) failValidation(ctx context.Context, publicID, reason string) {
	s.audit.Log(ctx, pkglogger.AuditEvent{EventType: pkglogger.EventEmailValidation, UserID: publicID, FailureReason: reason})
}

func (s *AuthService) failReset(ctx context.Context, recoveryID, reason string) {
	s.audit.Log(ctx, pkglogger.AuditEvent{
		EventType:     pkglogger.EventPasswordReset,
		FailureReason: reason,
		Metadata:      map[string]string{"recovery_id": recoveryID},
	})
}

func (s *AuthService) link(path string, query url.Values) string {
	return s.cfg.BaseURL + path + "?" + query.Encode()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// formatWindow renders a window for humans: "30 minutes", "7 days"
func formatWindow(d time.Duration) string {
	switch {
	case d >= 24*time.Hour && d%(24*time.Hour) == 0:
		return plural(int(d/(24*time.Hour)), "day")
	case d >= time.Hour && d%time.Hour == 0:
		return plural(int(d/time.Hour), "hour")
	default:
		return plural(int(d/time.Minute), "minute")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
