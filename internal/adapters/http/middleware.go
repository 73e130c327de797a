package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AuthsManager/AuthManager-Src-sub000/internal/application"
	"github.com/AuthsManager/AuthManager-Src-sub000/internal/domain"
)

type ctxKey string

const (
	ctxKeyRequestID  ctxKey = "request_id"
	ctxKeyCapability ctxKey = "capability"
)

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-Id")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", reqID)
		ctx := context.WithValue(r.Context(), ctxKeyRequestID, reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				httpLogger().ErrorContext(r.Context(), "panic recovered",
					"operation", "http_panic_recovery",
					"outcome", "failure",
					"request_id", requestIDFromContext(r.Context()),
					"method", r.Method,
					"path", r.URL.Path,
					"panic", rec,
				)
				writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	bytes      int
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *statusRecorder) Write(payload []byte) (int, error) {
	if r.statusCode == 0 {
		r.statusCode = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(payload)
	r.bytes += n
	return n, err
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(recorder, r)

		statusCode := recorder.statusCode
		if statusCode == 0 {
			statusCode = http.StatusOK
		}
		outcome := "success"
		if statusCode >= 400 {
			outcome = "failure"
		}

		fields := []any{
			"operation", "http_request",
			"outcome", outcome,
			"method", r.Method,
			"path", r.URL.Path,
			"status_code", statusCode,
			"bytes", recorder.bytes,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", requestIDFromContext(r.Context()),
		}
		switch {
		case statusCode >= 500:
			httpLogger().ErrorContext(r.Context(), "http request completed", fields...)
		case statusCode >= 400:
			httpLogger().WarnContext(r.Context(), "http request completed", fields...)
		default:
			httpLogger().InfoContext(r.Context(), "http request completed", fields...)
		}
	})
}

func requestIDFromContext(ctx context.Context) string {
	v := ctx.Value(ctxKeyRequestID)
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// credentialFromHeader splits an Authorization header of the form
// "<Kind> <token>" where Kind names the credential type being
// presented. Kind validation is the service's job; this only splits.
func credentialFromHeader(header string) (kind, token string, err error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", "", errors.New("missing authorization header")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.TrimSpace(parts[1]) == "" {
		return "", "", errors.New("malformed authorization header")
	}
	return parts[0], strings.TrimSpace(parts[1]), nil
}

func mapDomainError(err error) (int, string, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "VALIDATION_ERROR", errDetail(err, domain.ErrInvalidInput)
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS", errDetail(err, domain.ErrInvalidCredentials)
	case errors.Is(err, domain.ErrNotVerified):
		return http.StatusUnauthorized, "NOT_VERIFIED", errDetail(err, domain.ErrNotVerified)
	case errors.Is(err, domain.ErrLicenseUsed):
		return http.StatusUnauthorized, "LICENSE_USED", errDetail(err, domain.ErrLicenseUsed)
	case errors.Is(err, domain.ErrInactive):
		return http.StatusUnauthorized, "INACTIVE", errDetail(err, domain.ErrInactive)
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", errDetail(err, domain.ErrUnauthorized)
	case errors.Is(err, domain.ErrSuspended):
		return http.StatusForbidden, "SUSPENDED", "account suspended"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", "insufficient permissions"
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, "CONFLICT", errDetail(err, domain.ErrConflict)
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", errDetail(err, domain.ErrNotFound)
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"
	}
}

// errDetail strips the sentinel prefix so clients see the detail text
// ("Invalid OTP Code"), not "unauthorized: Invalid OTP Code". A bare
// sentinel passes through unchanged.
func errDetail(err, sentinel error) string {
	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, sentinel.Error()+": "); ok {
		return rest
	}
	return msg
}

func capabilityFromContext(ctx context.Context) (application.Capability, bool) {
	v := ctx.Value(ctxKeyCapability)
	cap, ok := v.(application.Capability)
	return cap, ok
}
