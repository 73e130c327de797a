package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/AuthsManager/AuthManager-Src-sub000/internal/application"
)

func (h *Handler) listApps(w http.ResponseWriter, r *http.Request) {
	cap, ok := h.mustCapability(w, r)
	if !ok {
		return
	}
	items, err := h.service.ListApps(r.Context(), cap)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"apps": items})
}

func (h *Handler) createApp(w http.ResponseWriter, r *http.Request) {
	cap, ok := h.mustCapability(w, r)
	if !ok {
		return
	}
	var req application.CreateAppRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	item, err := h.service.CreateApp(r.Context(), cap, req)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusCreated, item)
}

func (h *Handler) renameApp(w http.ResponseWriter, r *http.Request) {
	cap, ok := h.mustCapability(w, r)
	if !ok {
		return
	}
	appID, err := uuid.Parse(chi.URLParam(r, "app_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid app_id")
		return
	}
	var req struct {
		Name string `json:"name" validate:"required"`
	}
	if err := h.decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	item, err := h.service.RenameApp(r.Context(), cap, appID, req.Name)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, item)
}

func (h *Handler) updateApp(w http.ResponseWriter, r *http.Request) {
	cap, ok := h.mustCapability(w, r)
	if !ok {
		return
	}
	appID, err := uuid.Parse(chi.URLParam(r, "app_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid app_id")
		return
	}
	var req application.UpdateAppRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	if err := h.service.UpdateApp(r.Context(), cap, appID, req); err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeMessage(w, http.StatusOK, "Application updated")
}

func (h *Handler) deleteApp(w http.ResponseWriter, r *http.Request) {
	cap, ok := h.mustCapability(w, r)
	if !ok {
		return
	}
	appID, err := uuid.Parse(chi.URLParam(r, "app_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid app_id")
		return
	}

	if err := h.service.DeleteApp(r.Context(), cap, appID); err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
