package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/BradenHooton/meular/internal/auth"
	"github.com/BradenHooton/meular/internal/handlers"
	"github.com/BradenHooton/meular/internal/middleware"
)

// Handlers groups the HTTP handlers mounted under /v1
type Handlers struct {
	Auth               *handlers.AuthHandler
	Users              *handlers.UserHandler
	Properties         *handlers.PropertyHandler
	PropertyTypes      *handlers.TaxonomyHandler
	PropertyCategories *handlers.TaxonomyHandler
}

// RegisterRoutes registers the versioned API on router. Endpoints that take
// or mail credentials share the per-IP rate limit.
func RegisterRoutes(router chi.Router, h Handlers, tokenManager *auth.TokenManager, rateLimit middleware.RateLimitConfig) {
	limited := middleware.RateLimitByIP(rateLimit)
	requireAccess := auth.RequireAccessToken(tokenManager)

	router.Route("/auth", func(r chi.Router) {
		r.With(limited).Post("/sign-in", h.Auth.SignIn)
		r.With(requireAccess).Get("/sign-out", h.Auth.SignOut)
		r.With(limited, auth.RequireRefreshToken(tokenManager)).Get("/refresh", h.Auth.Refresh)
	})

	router.Route("/users", func(r chi.Router) {
		r.With(limited).Post("/", h.Users.Register)
		r.With(limited).Post("/validate-email", h.Users.ValidateEmail)
		r.With(limited).Post("/resend-validation", h.Users.ResendValidation)
		r.With(limited).Get("/email/{email}/forgot-password", h.Users.ForgotPassword)
		r.With(limited).Post("/reset-password", h.Users.ResetPassword)
		r.With(requireAccess).Get("/me", h.Users.Me)
		r.With(requireAccess).Patch("/me", h.Users.UpdateMe)
		r.With(requireAccess).Delete("/me", h.Users.DeleteMe)
	})

	router.Route("/properties", func(r chi.Router) {
		r.Get("/", h.Properties.List)
		r.Get("/{id}", h.Properties.Get)

		r.Group(func(r chi.Router) {
			r.Use(requireAccess)
			r.Get("/mine", h.Properties.ListMine)
			r.Post("/", h.Properties.Create)
			r.Patch("/{id}", h.Properties.Update)
			r.Delete("/{id}", h.Properties.Delete)
		})
	})

	router.Route("/property-types", taxonomyRoutes(h.PropertyTypes, requireAccess))
	router.Route("/property-categories", taxonomyRoutes(h.PropertyCategories, requireAccess))
}

func taxonomyRoutes(h *handlers.TaxonomyHandler, requireAccess func(http.Handler) http.Handler) func(chi.Router) {
	return func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(requireAccess)
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	}
}
