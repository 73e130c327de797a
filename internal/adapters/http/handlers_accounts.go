package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/AuthsManager/AuthManager-Src-sub000/internal/application"
)

func (h *Handler) registerOwner(w http.ResponseWriter, r *http.Request) {
	var req application.RegisterOwnerRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	res, err := h.service.RegisterOwner(r.Context(), req)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusCreated, res)
}

func (h *Handler) verifyOTP(w http.ResponseWriter, r *http.Request) {
	var req application.VerifyOTPRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	res, err := h.service.VerifyOTP(r.Context(), req)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) resendOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email" validate:"required,email"`
	}
	if err := h.decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	if err := h.service.ResendOTP(r.Context(), req.Email); err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeMessage(w, http.StatusOK, "Verification code sent")
}

func (h *Handler) loginOwner(w http.ResponseWriter, r *http.Request) {
	var req application.OwnerLoginRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	res, err := h.service.LoginOwner(r.Context(), req)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) passwordResetRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email" validate:"required,email"`
	}
	if err := h.decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	if err := h.service.RequestPasswordReset(r.Context(), req.Email); err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeMessage(w, http.StatusOK, "If the email exists, a reset code has been sent")
}

func (h *Handler) passwordReset(w http.ResponseWriter, r *http.Request) {
	var req application.ResetPasswordRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	if err := h.service.ResetPassword(r.Context(), req); err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeMessage(w, http.StatusOK, "Password reset successful. You can now login with your new password.")
}

func (h *Handler) verifyEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email" validate:"required,email"`
		Code  string `json:"code" validate:"required"`
	}
	if err := h.decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	if err := h.service.VerifyEmail(r.Context(), req.Email, req.Code); err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeMessage(w, http.StatusOK, "Email verified successfully")
}

func (h *Handler) accountProfile(w http.ResponseWriter, r *http.Request) {
	cap, ok := h.mustCapability(w, r)
	if !ok {
		return
	}
	writeSuccess(w, http.StatusOK, h.service.Profile(cap))
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	cap, ok := h.mustCapability(w, r)
	if !ok {
		return
	}
	var req application.ChangePasswordRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	if err := h.service.ChangePassword(r.Context(), cap, req); err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeMessage(w, http.StatusOK, "Password changed successfully")
}

func (h *Handler) updateEmail(w http.ResponseWriter, r *http.Request) {
	cap, ok := h.mustCapability(w, r)
	if !ok {
		return
	}
	var req struct {
		Email string `json:"email" validate:"required,email"`
	}
	if err := h.decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	if err := h.service.UpdateEmail(r.Context(), cap, req.Email); err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeMessage(w, http.StatusOK, "Verification code sent to the new address")
}

func (h *Handler) listOwners(w http.ResponseWriter, r *http.Request) {
	cap, ok := h.mustCapability(w, r)
	if !ok {
		return
	}
	items, err := h.service.ListOwners(r.Context(), cap)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"owners": items})
}

func (h *Handler) setOwnerBanned(w http.ResponseWriter, r *http.Request) {
	cap, ok := h.mustCapability(w, r)
	if !ok {
		return
	}
	ownerID, err := uuid.Parse(chi.URLParam(r, "owner_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid owner_id")
		return
	}
	var req struct {
		Banned bool `json:"banned"`
	}
	if err := h.decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	if err := h.service.SetOwnerBanned(r.Context(), cap, ownerID, req.Banned); err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeMessage(w, http.StatusOK, "Owner updated")
}

func (h *Handler) deleteOwner(w http.ResponseWriter, r *http.Request) {
	cap, ok := h.mustCapability(w, r)
	if !ok {
		return
	}
	ownerID, err := uuid.Parse(chi.URLParam(r, "owner_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid owner_id")
		return
	}

	if err := h.service.DeleteOwner(r.Context(), cap, ownerID); err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
