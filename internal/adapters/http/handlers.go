package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/AuthsManager/AuthManager-Src-sub000/internal/application"
)

// Handler is the HTTP adapter entrypoint for account and license
// use-cases. Keeping only the application dependency here preserves
// clean adapter boundaries.
type Handler struct {
	service  *application.Service
	validate *validator.Validate
}

// NewHandler constructs an HTTP handler bound to the application service.
func NewHandler(service *application.Service) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "ok")
}

func (h *Handler) readyz(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "ready")
}

// authMiddleware resolves the "<Kind> <token>" credential into a
// Capability and stores it in the request context. Gated routes never
// see a request without a resolved caller.
func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		kind, token, err := credentialFromHeader(r.Header.Get("Authorization"))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", err.Error())
			return
		}

		cap, err := h.service.ResolveBearer(r.Context(), kind, token)
		if err != nil {
			status, code, msg := mapDomainError(err)
			writeError(w, status, code, msg)
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyCapability, cap)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// adminMiddleware sits behind authMiddleware and rejects callers whose
// capability is not elevated. Presenting the Admin kind is not enough;
// the owner's plan must grant it too.
func (h *Handler) adminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cap, ok := capabilityFromContext(r.Context())
		if !ok || !cap.Elevated {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "insufficient permissions")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) mustCapability(w http.ResponseWriter, r *http.Request) (application.Capability, bool) {
	cap, ok := capabilityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing credentials")
	}
	return cap, ok
}

func (h *Handler) decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain a single JSON value")
	}
	if err := h.validate.Struct(dst); err != nil {
		return err
	}
	return nil
}
