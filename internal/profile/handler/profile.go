package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"solodesk/internal/profile/service"
	apperrors "solodesk/pkg/errors"
	httputil "solodesk/pkg/http"
	"solodesk/pkg/identity"
	"solodesk/pkg/logger"
	"solodesk/pkg/model"
)

type ProfileHandler struct {
	service service.ProfileService
	log     *logger.Logger
}

func NewProfileHandler(svc service.ProfileService, log *logger.Logger) *ProfileHandler {
	return &ProfileHandler{service: svc, log: log}
}

func (h *ProfileHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/profile", h.GetProfile)
	router.PUT("/api/v1/profile", h.SaveProfile)
}

func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ident, ok := identity.FromContext(r.Context())
	if !ok {
		h.writeError(w, apperrors.Unauthorized("Missing identity"))
		return
	}

	profile, err := h.service.GetProfile(r.Context(), ident.UserID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := httputil.WriteSuccess(w, profile); err != nil {
		h.log.Error("Failed to write profile response", "error", err)
	}
}

func (h *ProfileHandler) SaveProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ident, ok := identity.FromContext(r.Context())
	if !ok {
		h.writeError(w, apperrors.Unauthorized("Missing identity"))
		return
	}

	var p model.Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		h.writeError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	saved, err := h.service.SaveProfile(r.Context(), ident.UserID, p)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := httputil.WriteSuccess(w, saved); err != nil {
		h.log.Error("Failed to write profile response", "error", err)
	}
}

func (h *ProfileHandler) writeError(w http.ResponseWriter, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("Failed to write error response", "error", writeErr)
	}
}
