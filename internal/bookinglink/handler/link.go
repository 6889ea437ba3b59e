package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"solodesk/internal/bookinglink/service"
	apperrors "solodesk/pkg/errors"
	httputil "solodesk/pkg/http"
	"solodesk/pkg/identity"
	"solodesk/pkg/logger"
)

type LinkHandler struct {
	service service.LinkService
	log     *logger.Logger
}

func NewLinkHandler(svc service.LinkService, log *logger.Logger) *LinkHandler {
	return &LinkHandler{service: svc, log: log}
}

func (h *LinkHandler) RegisterRoutes(router *httprouter.Router) {
	router.PUT("/api/v1/booking-link", h.Assign)
}

type assignRequest struct {
	Slug string `json:"slug"`
}

func (h *LinkHandler) Assign(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ident, ok := identity.FromContext(r.Context())
	if !ok {
		h.writeError(w, apperrors.Unauthorized("Missing identity"))
		return
	}

	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	result, err := h.service.Assign(r.Context(), ident.UserID, req.Slug)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("Failed to write booking link response", "error", err)
	}
}

func (h *LinkHandler) writeError(w http.ResponseWriter, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("Failed to write error response", "error", writeErr)
	}
}
