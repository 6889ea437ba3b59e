package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	availability "solodesk/internal/availability/service"
	booking "solodesk/internal/booking/service"
	bookinglink "solodesk/internal/bookinglink/service"
	profile "solodesk/internal/profile/service"
	apperrors "solodesk/pkg/errors"
	httputil "solodesk/pkg/http"
	"solodesk/pkg/logger"
	"solodesk/pkg/model"
)

// PublicHandler serves the unauthenticated booking pages: the page payload a
// client sees and the booking submission. Everything hangs off the slug.
type PublicHandler struct {
	links        bookinglink.LinkService
	profiles     profile.ProfileService
	availability availability.AvailabilityService
	bookings     booking.BookingService
	log          *logger.Logger
	now          func() time.Time
}

func NewPublicHandler(
	links bookinglink.LinkService,
	profiles profile.ProfileService,
	avail availability.AvailabilityService,
	bookings booking.BookingService,
	log *logger.Logger,
) *PublicHandler {
	return &PublicHandler{
		links:        links,
		profiles:     profiles,
		availability: avail,
		bookings:     bookings,
		log:          log,
		now:          time.Now,
	}
}

func (h *PublicHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/p/:slug", h.GetPage)
	router.POST("/p/:slug/bookings", h.SubmitBooking)
}

// publicProfile is the subset of the profile safe to show to anyone.
type publicProfile struct {
	Name         string `json:"name,omitempty"`
	BusinessName string `json:"business_name,omitempty"`
	Bio          string `json:"bio,omitempty"`
	Timezone     string `json:"timezone,omitempty"`
}

type pagePayload struct {
	Slug    string                   `json:"slug"`
	Profile *publicProfile           `json:"profile,omitempty"`
	Slots   []model.AvailabilitySlot `json:"slots"`
}

func (h *PublicHandler) GetPage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	slug := ps.ByName("slug")

	ownerID, err := h.links.Resolve(r.Context(), slug)
	if err != nil {
		h.writeError(w, err)
		return
	}

	payload := pagePayload{Slug: slug}

	// A provider may publish a link before filling in their profile; the
	// page still renders with slots only.
	p, err := h.profiles.GetProfile(r.Context(), ownerID)
	switch {
	case err == nil:
		payload.Profile = &publicProfile{
			Name:         p.Name,
			BusinessName: p.BusinessName,
			Bio:          p.Bio,
			Timezone:     p.Timezone,
		}
	case !apperrors.HasCode(err, apperrors.CodeNotFound):
		h.writeError(w, err)
		return
	}

	slots, err := h.availability.ListOpenSlots(r.Context(), ownerID, h.now())
	if err != nil {
		h.writeError(w, err)
		return
	}
	payload.Slots = slots

	if err := httputil.WriteSuccess(w, payload); err != nil {
		h.log.Error("Failed to write public page response", "slug", slug, "error", err)
	}
}

func (h *PublicHandler) SubmitBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	slug := ps.ByName("slug")

	ownerID, err := h.links.Resolve(r.Context(), slug)
	if err != nil {
		h.writeError(w, err)
		return
	}

	var b model.Booking
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		h.writeError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	saved, err := h.bookings.Submit(r.Context(), ownerID, b)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := httputil.WriteCreated(w, saved); err != nil {
		h.log.Error("Failed to write booking response", "slug", slug, "error", err)
	}
}

func (h *PublicHandler) writeError(w http.ResponseWriter, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("Failed to write error response", "error", writeErr)
	}
}
