package logger

import "context"

type ctxKey struct{}

// WithClientIP attaches the caller's address so audit events can record it
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ctxKey{}, ip)
}

// ClientIP returns the address stored by WithClientIP, or ""
func ClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(ctxKey{}).(string)
	return ip
}
