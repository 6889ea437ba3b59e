package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"solodesk/internal/availability/service"
	apperrors "solodesk/pkg/errors"
	httputil "solodesk/pkg/http"
	"solodesk/pkg/identity"
	"solodesk/pkg/logger"
	"solodesk/pkg/model"
)

// AvailabilityHandler exposes the owner-facing availability API. All routes
// require an authenticated identity; the handler never takes a user ID from
// the request body or path.
type AvailabilityHandler struct {
	service service.AvailabilityService
	log     *logger.Logger
}

func NewAvailabilityHandler(svc service.AvailabilityService, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{service: svc, log: log}
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/availability/settings", h.GetSettings)
	router.PUT("/api/v1/availability/settings", h.SaveSettings)
	router.GET("/api/v1/availability/slots", h.ListSlots)
	router.POST("/api/v1/availability/slots", h.AddSlot)
	router.PUT("/api/v1/availability/slots/:id", h.EditSlot)
	router.DELETE("/api/v1/availability/slots/:id", h.RemoveSlot)
}

func (h *AvailabilityHandler) GetSettings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ident, ok := identity.FromContext(r.Context())
	if !ok {
		h.writeError(w, apperrors.Unauthorized("Missing identity"))
		return
	}

	settings, err := h.service.GetSettings(r.Context(), ident.UserID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := httputil.WriteSuccess(w, settings); err != nil {
		h.log.Error("Failed to write settings response", "error", err)
	}
}

func (h *AvailabilityHandler) SaveSettings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ident, ok := identity.FromContext(r.Context())
	if !ok {
		h.writeError(w, apperrors.Unauthorized("Missing identity"))
		return
	}

	var params model.GenerationParameters
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		h.writeError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	result, err := h.service.SaveSettings(r.Context(), ident.UserID, params)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("Failed to write save response", "error", err)
	}
}

func (h *AvailabilityHandler) ListSlots(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ident, ok := identity.FromContext(r.Context())
	if !ok {
		h.writeError(w, apperrors.Unauthorized("Missing identity"))
		return
	}

	slots, err := h.service.ListSlots(r.Context(), ident.UserID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := httputil.WriteSuccess(w, slots); err != nil {
		h.log.Error("Failed to write slots response", "error", err)
	}
}

func (h *AvailabilityHandler) AddSlot(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ident, ok := identity.FromContext(r.Context())
	if !ok {
		h.writeError(w, apperrors.Unauthorized("Missing identity"))
		return
	}

	var req model.SlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	slot, err := h.service.AddSlot(r.Context(), ident.UserID, req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := httputil.WriteCreated(w, slot); err != nil {
		h.log.Error("Failed to write slot response", "error", err)
	}
}

func (h *AvailabilityHandler) EditSlot(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ident, ok := identity.FromContext(r.Context())
	if !ok {
		h.writeError(w, apperrors.Unauthorized("Missing identity"))
		return
	}

	slotID := ps.ByName("id")
	if slotID == "" {
		h.writeError(w, apperrors.InvalidInput("Missing slot ID"))
		return
	}

	var req model.SlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	slot, err := h.service.EditSlot(r.Context(), ident.UserID, slotID, req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := httputil.WriteSuccess(w, slot); err != nil {
		h.log.Error("Failed to write slot response", "error", err)
	}
}

func (h *AvailabilityHandler) RemoveSlot(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ident, ok := identity.FromContext(r.Context())
	if !ok {
		h.writeError(w, apperrors.Unauthorized("Missing identity"))
		return
	}

	slotID := ps.ByName("id")
	if slotID == "" {
		h.writeError(w, apperrors.InvalidInput("Missing slot ID"))
		return
	}

	if err := h.service.RemoveSlot(r.Context(), ident.UserID, slotID); err != nil {
		h.writeError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *AvailabilityHandler) writeError(w http.ResponseWriter, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("Failed to write error response", "error", writeErr)
	}
}
