package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/AuthsManager/AuthManager-Src-sub000/internal/application"
)

// Sub-user endpoints answer 204 on success so consuming software gets
// a bare yes/no. No session token exists to return.

func (h *Handler) registerByLicense(w http.ResponseWriter, r *http.Request) {
	var req application.RegisterByLicenseRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	if err := h.service.RegisterByLicense(r.Context(), req); err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) loginByLicense(w http.ResponseWriter, r *http.Request) {
	var req application.LoginByLicenseRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	if err := h.service.LoginByLicense(r.Context(), req); err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) loginByPassword(w http.ResponseWriter, r *http.Request) {
	var req application.LoginByPasswordRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	if err := h.service.LoginByPassword(r.Context(), req); err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listSubUsers(w http.ResponseWriter, r *http.Request) {
	cap, ok := h.mustCapability(w, r)
	if !ok {
		return
	}
	items, err := h.service.ListSubUsers(r.Context(), cap)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"users": items})
}

func (h *Handler) createSubUser(w http.ResponseWriter, r *http.Request) {
	cap, ok := h.mustCapability(w, r)
	if !ok {
		return
	}
	var req application.CreateSubUserRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	item, err := h.service.CreateSubUser(r.Context(), cap, req)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusCreated, item)
}

func (h *Handler) deleteSubUser(w http.ResponseWriter, r *http.Request) {
	cap, ok := h.mustCapability(w, r)
	if !ok {
		return
	}
	userID, err := uuid.Parse(chi.URLParam(r, "user_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid user_id")
		return
	}

	if err := h.service.DeleteSubUser(r.Context(), cap, userID); err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
