package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter registers HTTP routes and the middleware stack.
// Centralizing routes here ensures consistent auth and error behavior
// across endpoints.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.healthz)
	r.Get("/readyz", handler.readyz)

	// Owner account surface, public half.
	r.Route("/auth/v1", func(r chi.Router) {
		r.Post("/register", handler.registerOwner)
		r.Post("/verify-otp", handler.verifyOTP)
		r.Post("/resend-otp", handler.resendOTP)
		r.Post("/login", handler.loginOwner)
		r.Post("/password/reset-request", handler.passwordResetRequest)
		r.Post("/password/reset", handler.passwordReset)
		r.Post("/email/verify", handler.verifyEmail)
	})

	// Sub-user surface used by consuming software. Unauthenticated on
	// purpose: callers identify by owner namespace plus license or
	// credentials, never by bearer token.
	r.Route("/client/v1", func(r chi.Router) {
		r.Post("/register", handler.registerByLicense)
		r.Post("/login", handler.loginByLicense)
		r.Post("/login/password", handler.loginByPassword)
	})

	// Owner management surface, gated by the "<Kind> <token>" credential.
	r.Route("/manage/v1", func(r chi.Router) {
		r.Use(handler.authMiddleware)

		r.Get("/account", handler.accountProfile)
		r.Post("/account/password", handler.changePassword)
		r.Post("/account/email", handler.updateEmail)

		r.Get("/apps", handler.listApps)
		r.Post("/apps", handler.createApp)
		r.Put("/apps/{app_id}/name", handler.renameApp)
		r.Patch("/apps/{app_id}", handler.updateApp)
		r.Delete("/apps/{app_id}", handler.deleteApp)

		r.Get("/licenses", handler.listLicenses)
		r.Post("/licenses", handler.createLicense)
		r.Post("/licenses/{license_id}/renew", handler.renewLicense)
		r.Delete("/licenses/{license_id}", handler.deleteLicense)

		r.Get("/users", handler.listSubUsers)
		r.Post("/users", handler.createSubUser)
		r.Delete("/users/{user_id}", handler.deleteSubUser)
	})

	// Administrative surface, requires an elevated capability.
	r.Route("/admin/v1", func(r chi.Router) {
		r.Use(handler.authMiddleware)
		r.Use(handler.adminMiddleware)

		r.Get("/owners", handler.listOwners)
		r.Put("/owners/{owner_id}/ban", handler.setOwnerBanned)
		r.Delete("/owners/{owner_id}", handler.deleteOwner)
	})

	return r
}
