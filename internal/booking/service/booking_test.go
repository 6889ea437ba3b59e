package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"solodesk/internal/booking/repository"
	apperrors "solodesk/pkg/errors"
	"solodesk/pkg/logger"
	"solodesk/pkg/model"
)

type mockBookingRepository struct {
	createFunc func(ctx context.Context, b model.Booking) (*model.Booking, error)
	listFunc   func(ctx context.Context, userID string, limit int) ([]model.Booking, error)
}

func (m *mockBookingRepository) Create(ctx context.Context, b model.Booking) (*model.Booking, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, b)
	}
	b.ID = "booking-1"
	return &b, nil
}

func (m *mockBookingRepository) ListByOwner(ctx context.Context, userID string, limit int) ([]model.Booking, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, userID, limit)
	}
	return nil, nil
}

type mockPublisher struct {
	publishFunc func(ctx context.Context, eventType, key string, event any) error
	published   []string
}

func (m *mockPublisher) Publish(ctx context.Context, eventType, key string, event any) error {
	m.published = append(m.published, eventType)
	if m.publishFunc != nil {
		return m.publishFunc(ctx, eventType, key, event)
	}
	return nil
}

func newTestBookingService(repo repository.BookingRepository, pub EventPublisher) BookingService {
	svc := NewBookingService(repo, pub, logger.Discard()).(*bookingService)
	svc.now = func() time.Time { return time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestSubmit_StampsOwnerAndCreatedAt(t *testing.T) {
	var stored model.Booking
	repo := &mockBookingRepository{
		createFunc: func(ctx context.Context, b model.Booking) (*model.Booking, error) {
			stored = b
			b.ID = "booking-1"
			return &b, nil
		},
	}
	svc := newTestBookingService(repo, nil)

	saved, err := svc.Submit(context.Background(), "owner-1", model.Booking{
		UserID: "spoofed-owner",
		Name:   "Jamie Client",
		Email:  "jamie@example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The owner always comes from the resolved slug, never the payload.
	if stored.UserID != "owner-1" {
		t.Errorf("expected owner-1, got %q", stored.UserID)
	}
	if stored.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be stamped")
	}
	if saved.ID != "booking-1" {
		t.Errorf("expected stored ID returned, got %q", saved.ID)
	}
}

func TestSubmit_ValidatesPresence(t *testing.T) {
	tests := []struct {
		name    string
		booking model.Booking
	}{
		{"missing name", model.Booking{Email: "jamie@example.com"}},
		{"missing email", model.Booking{Name: "Jamie"}},
		{"malformed email", model.Booking{Name: "Jamie", Email: "not-an-email"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			createCalled := false
			repo := &mockBookingRepository{
				createFunc: func(ctx context.Context, b model.Booking) (*model.Booking, error) {
					createCalled = true
					return &b, nil
				},
			}
			svc := newTestBookingService(repo, nil)

			_, err := svc.Submit(context.Background(), "owner-1", tt.booking)
			if !apperrors.HasCode(err, apperrors.CodeValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if createCalled {
				t.Error("expected nothing stored after validation failure")
			}
		})
	}
}

func TestSubmit_PublishesEvent(t *testing.T) {
	pub := &mockPublisher{}
	svc := newTestBookingService(&mockBookingRepository{}, pub)

	if _, err := svc.Submit(context.Background(), "owner-1", model.Booking{
		Name:  "Jamie",
		Email: "jamie@example.com",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pub.published) != 1 || pub.published[0] != EventBookingSubmitted {
		t.Errorf("expected one %s event, got %v", EventBookingSubmitted, pub.published)
	}
}

func TestSubmit_PublishFailureIsNonFatal(t *testing.T) {
	pub := &mockPublisher{
		publishFunc: func(ctx context.Context, eventType, key string, event any) error {
			return errors.New("broker down")
		},
	}
	svc := newTestBookingService(&mockBookingRepository{}, pub)

	saved, err := svc.Submit(context.Background(), "owner-1", model.Booking{
		Name:  "Jamie",
		Email: "jamie@example.com",
	})
	if err != nil {
		t.Fatalf("expected publish failure to be swallowed, got %v", err)
	}
	if saved == nil {
		t.Fatal("expected stored booking returned")
	}
}

func TestSubmit_NilPublisherSkipsEventing(t *testing.T) {
	svc := newTestBookingService(&mockBookingRepository{}, nil)

	if _, err := svc.Submit(context.Background(), "owner-1", model.Booking{
		Name:  "Jamie",
		Email: "jamie@example.com",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSubmit_StoreFailure(t *testing.T) {
	repo := &mockBookingRepository{
		createFunc: func(ctx context.Context, b model.Booking) (*model.Booking, error) {
			return nil, errors.New("store down")
		},
	}
	pub := &mockPublisher{}
	svc := newTestBookingService(repo, pub)

	_, err := svc.Submit(context.Background(), "owner-1", model.Booking{
		Name:  "Jamie",
		Email: "jamie@example.com",
	})
	if !apperrors.HasCode(err, apperrors.CodeInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
	if len(pub.published) != 0 {
		t.Error("must not publish an event for a booking that was not stored")
	}
}
