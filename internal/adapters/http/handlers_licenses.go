package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/AuthsManager/AuthManager-Src-sub000/internal/application"
)

func (h *Handler) listLicenses(w http.ResponseWriter, r *http.Request) {
	cap, ok := h.mustCapability(w, r)
	if !ok {
		return
	}
	items, err := h.service.ListLicenses(r.Context(), cap)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"licenses": items})
}

func (h *Handler) createLicense(w http.ResponseWriter, r *http.Request) {
	cap, ok := h.mustCapability(w, r)
	if !ok {
		return
	}
	var req application.CreateLicenseRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	item, err := h.service.CreateLicense(r.Context(), cap, req)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusCreated, item)
}

func (h *Handler) renewLicense(w http.ResponseWriter, r *http.Request) {
	cap, ok := h.mustCapability(w, r)
	if !ok {
		return
	}
	licenseID, err := uuid.Parse(chi.URLParam(r, "license_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid license_id")
		return
	}

	item, err := h.service.RenewLicense(r.Context(), cap, licenseID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, item)
}

func (h *Handler) deleteLicense(w http.ResponseWriter, r *http.Request) {
	cap, ok := h.mustCapability(w, r)
	if !ok {
		return
	}
	licenseID, err := uuid.Parse(chi.URLParam(r, "license_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid license_id")
		return
	}

	if err := h.service.DeleteLicense(r.Context(), cap, licenseID); err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
