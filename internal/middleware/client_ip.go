package middleware

import (
	"net/http"

	pkghttp "github.com/BradenHooton/meular/pkg/http"
	pkglogger "github.com/BradenHooton/meular/pkg/logger"
)

// ClientIP resolves the caller's address once, honouring forwarding headers
// only from trusted proxies, and stores it for the access log, the audit log
// and the rate limiter.
func ClientIP(ipConfig *pkghttp.IPConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := pkghttp.ExtractClientIP(r, ipConfig)
			next.ServeHTTP(w, r.WithContext(pkglogger.WithClientIP(r.Context(), ip)))
		})
	}
}
