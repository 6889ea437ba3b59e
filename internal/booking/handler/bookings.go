package handler

import (
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	booking "solodesk/internal/booking/service"
	"solodesk/pkg/config"
	apperrors "solodesk/pkg/errors"
	httputil "solodesk/pkg/http"
	"solodesk/pkg/identity"
	"solodesk/pkg/logger"
)

// BookingHandler exposes the owner's view of received bookings.
type BookingHandler struct {
	service booking.BookingService
	log     *logger.Logger
}

func NewBookingHandler(svc booking.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{service: svc, log: log}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/bookings", h.ListBookings)
}

func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ident, ok := identity.FromContext(r.Context())
	if !ok {
		h.writeError(w, apperrors.Unauthorized("Missing identity"))
		return
	}

	limit := config.DefaultPaginationLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.writeError(w, apperrors.InvalidInput("Invalid limit parameter"))
			return
		}
		limit = config.NormalizePaginationLimit(parsed)
	}

	bookings, err := h.service.ListBookings(r.Context(), ident.UserID, limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := httputil.WriteSuccess(w, bookings); err != nil {
		h.log.Error("Failed to write bookings response", "error", err)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("Failed to write error response", "error", writeErr)
	}
}
