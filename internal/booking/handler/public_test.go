package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	availability "solodesk/internal/availability/service"
	bookinglink "solodesk/internal/bookinglink/service"
	apperrors "solodesk/pkg/errors"
	"solodesk/pkg/logger"
	"solodesk/pkg/model"
)

type mockLinkService struct {
	resolveFunc func(ctx context.Context, slug string) (string, error)
}

func (m *mockLinkService) Assign(ctx context.Context, ownerID, desired string) (*bookinglink.AssignResult, error) {
	return nil, nil
}

func (m *mockLinkService) Resolve(ctx context.Context, slug string) (string, error) {
	if m.resolveFunc != nil {
		return m.resolveFunc(ctx, slug)
	}
	return "", apperrors.NotFound("Booking page")
}

type mockProfileService struct {
	getProfileFunc func(ctx context.Context, ownerID string) (*model.Profile, error)
}

func (m *mockProfileService) GetProfile(ctx context.Context, ownerID string) (*model.Profile, error) {
	if m.getProfileFunc != nil {
		return m.getProfileFunc(ctx, ownerID)
	}
	return nil, apperrors.NotFound("Profile")
}

func (m *mockProfileService) SaveProfile(ctx context.Context, ownerID string, p model.Profile) (*model.Profile, error) {
	return nil, nil
}

func (m *mockProfileService) CurrentLink(ctx context.Context, ownerID string) (string, error) {
	return "", nil
}

func (m *mockProfileService) SetLink(ctx context.Context, ownerID, slug string) error {
	return nil
}

type mockAvailabilityService struct {
	listOpenFunc func(ctx context.Context, ownerID string, from time.Time) ([]model.AvailabilitySlot, error)
}

func (m *mockAvailabilityService) GetSettings(ctx context.Context, ownerID string) (*model.PersistedSettings, error) {
	return nil, nil
}

func (m *mockAvailabilityService) SaveSettings(ctx context.Context, ownerID string, params model.GenerationParameters) (*availability.SaveResult, error) {
	return nil, nil
}

func (m *mockAvailabilityService) ListSlots(ctx context.Context, ownerID string) ([]model.AvailabilitySlot, error) {
	return nil, nil
}

func (m *mockAvailabilityService) ListOpenSlots(ctx context.Context, ownerID string, from time.Time) ([]model.AvailabilitySlot, error) {
	if m.listOpenFunc != nil {
		return m.listOpenFunc(ctx, ownerID, from)
	}
	return nil, nil
}

func (m *mockAvailabilityService) AddSlot(ctx context.Context, ownerID string, req model.SlotRequest) (*model.AvailabilitySlot, error) {
	return nil, nil
}

func (m *mockAvailabilityService) EditSlot(ctx context.Context, ownerID, slotID string, req model.SlotRequest) (*model.AvailabilitySlot, error) {
	return nil, nil
}

func (m *mockAvailabilityService) RemoveSlot(ctx context.Context, ownerID, slotID string) error {
	return nil
}

type mockBookingService struct {
	submitFunc func(ctx context.Context, ownerID string, b model.Booking) (*model.Booking, error)
}

func (m *mockBookingService) Submit(ctx context.Context, ownerID string, b model.Booking) (*model.Booking, error) {
	if m.submitFunc != nil {
		return m.submitFunc(ctx, ownerID, b)
	}
	b.ID = "booking-1"
	b.UserID = ownerID
	return &b, nil
}

func (m *mockBookingService) ListBookings(ctx context.Context, ownerID string, limit int) ([]model.Booking, error) {
	return nil, nil
}

func newPublicRouter(links *mockLinkService, profiles *mockProfileService, avail *mockAvailabilityService, bookings *mockBookingService) *httprouter.Router {
	router := httprouter.New()
	NewPublicHandler(links, profiles, avail, bookings, logger.Discard()).RegisterRoutes(router)
	return router
}

func resolveJane(ctx context.Context, slug string) (string, error) {
	if slug == "janedoe" {
		return "user-1", nil
	}
	return "", apperrors.NotFound("Booking page")
}

func TestGetPage_ComposesProfileAndSlots(t *testing.T) {
	start := time.Date(2026, 1, 6, 9, 0, 0, 0, time.UTC)
	avail := &mockAvailabilityService{
		listOpenFunc: func(ctx context.Context, ownerID string, from time.Time) ([]model.AvailabilitySlot, error) {
			return []model.AvailabilitySlot{{ID: "slot-1", UserID: ownerID, Start: start, End: start.Add(time.Hour)}}, nil
		},
	}
	profiles := &mockProfileService{
		getProfileFunc: func(ctx context.Context, ownerID string) (*model.Profile, error) {
			return &model.Profile{UserID: ownerID, Name: "Jane", BusinessName: "Jane's Studio", BookingLink: "janedoe"}, nil
		},
	}
	router := newPublicRouter(&mockLinkService{resolveFunc: resolveJane}, profiles, avail, &mockBookingService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/p/janedoe", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data struct {
			Slug    string `json:"slug"`
			Profile *struct {
				Name         string `json:"name"`
				BusinessName string `json:"business_name"`
			} `json:"profile"`
			Slots []model.AvailabilitySlot `json:"slots"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.Slug != "janedoe" {
		t.Errorf("expected slug echoed, got %q", resp.Data.Slug)
	}
	if resp.Data.Profile == nil || resp.Data.Profile.Name != "Jane" {
		t.Errorf("expected profile in payload, got %+v", resp.Data.Profile)
	}
	if len(resp.Data.Slots) != 1 {
		t.Errorf("expected 1 slot, got %d", len(resp.Data.Slots))
	}
}

func TestGetPage_MissingProfileStillRenders(t *testing.T) {
	router := newPublicRouter(&mockLinkService{resolveFunc: resolveJane}, &mockProfileService{}, &mockAvailabilityService{}, &mockBookingService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/p/janedoe", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 without a profile, got %d", rec.Code)
	}
}

func TestGetPage_UnknownSlug(t *testing.T) {
	router := newPublicRouter(&mockLinkService{}, &mockProfileService{}, &mockAvailabilityService{}, &mockBookingService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/p/ghost", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestSubmitBooking_ResolvesOwnerFromSlug(t *testing.T) {
	var gotOwner string
	bookings := &mockBookingService{
		submitFunc: func(ctx context.Context, ownerID string, b model.Booking) (*model.Booking, error) {
			gotOwner = ownerID
			b.ID = "booking-1"
			return &b, nil
		},
	}
	router := newPublicRouter(&mockLinkService{resolveFunc: resolveJane}, &mockProfileService{}, &mockAvailabilityService{}, bookings)

	body := `{"name":"Jamie Client","email":"jamie@example.com","message":"See you Tuesday"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/p/janedoe/bookings", strings.NewReader(body)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotOwner != "user-1" {
		t.Errorf("expected owner resolved from slug, got %q", gotOwner)
	}
}

func TestSubmitBooking_UnknownSlugRejectedBeforeStore(t *testing.T) {
	submitCalled := false
	bookings := &mockBookingService{
		submitFunc: func(ctx context.Context, ownerID string, b model.Booking) (*model.Booking, error) {
			submitCalled = true
			return &b, nil
		},
	}
	router := newPublicRouter(&mockLinkService{}, &mockProfileService{}, &mockAvailabilityService{}, bookings)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/p/ghost/bookings", strings.NewReader(`{"name":"x","email":"x@example.com"}`)))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if submitCalled {
		t.Error("expected no submission for an unknown slug")
	}
}
