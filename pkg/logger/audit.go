package logger

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Credential lifecycle event types
const (
	EventSignIn           = "sign_in"
	EventSignOut          = "sign_out"
	EventRefresh          = "token_refresh"
	EventRegister         = "register"
	EventEmailValidation  = "email_validation"
	EventValidationResend = "email_validation_resend"
	EventRecoveryRequest  = "password_recovery_request"
	EventPasswordReset    = "password_reset"
	EventProfileUpdate    = "profile_update"
	EventAccountDelete    = "account_delete"
)

// AuditEvent represents a security audit event
type AuditEvent struct {
	EventType     string
	UserID        string
	Email         string
	IPAddress     string
	Success       bool
	FailureReason string
	Metadata      map[string]string
}

// AuditLogger writes credential events to the structured log and counts
// them by type and outcome.
type AuditLogger struct {
	logger *slog.Logger
	events *prometheus.CounterVec
	env    string
}

// NewAuditLogger creates a new audit logger. The event counter is registered
// with reg when it is non-nil.
func NewAuditLogger(logger *slog.Logger, reg prometheus.Registerer, env string) *AuditLogger {
	events := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meular_auth_events_total",
			Help: "Total number of credential lifecycle events",
		},
		[]string{"event", "outcome"},
	)
	if reg != nil {
		reg.MustRegister(events)
	}

	return &AuditLogger{
		logger: logger,
		events: events,
		env:    env,
	}
}

// Events exposes the counter for tests and custom collectors
func (al *AuditLogger) Events() *prometheus.CounterVec {
	return al.events
}

// Log records a single audit event. A nil logger is a no-op.
func (al *AuditLogger) Log(ctx context.Context, event AuditEvent) {
	if al == nil {
		return
	}

	if event.IPAddress == "" {
		event.IPAddress = ClientIP(ctx)
	}

	outcome := "success"
	level := slog.LevelInfo
	if !event.Success {
		outcome = "failure"
		level = slog.LevelWarn
	}
	al.events.WithLabelValues(event.EventType, outcome).Inc()

	attrs := []slog.Attr{
		slog.String("audit_type", "auth"),
		slog.String("event_type", event.EventType),
		slog.Bool("success", event.Success),
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
	}

	if event.UserID != "" {
		attrs = append(attrs, slog.String("user_id", event.UserID))
	}
	if event.Email != "" {
		attrs = append(attrs, slog.String("email", SanitizedEmail(event.Email)))
	}
	if event.IPAddress != "" {
		attrs = append(attrs, RedactedAttr("ip_address", event.IPAddress, al.env))
	}
	if event.FailureReason != "" {
		attrs = append(attrs, slog.String("failure_reason", event.FailureReason))
	}
	for key, val := range event.Metadata {
		attrs = append(attrs, slog.String(key, val))
	}

	al.logger.LogAttrs(ctx, level, "audit", attrs...)
}
