package service

import (
	"context"
	"time"

	"solodesk/internal/booking/repository"
	apperrors "solodesk/pkg/errors"
	"solodesk/pkg/logger"
	"solodesk/pkg/model"

	validate "github.com/go-playground/validator/v10"
)

const EventBookingSubmitted = "booking.submitted"

// EventPublisher is the slice of the Kafka producer the service needs.
// A nil publisher disables eventing entirely.
type EventPublisher interface {
	Publish(ctx context.Context, eventType, key string, event any) error
}

// BookingSubmittedEvent is the payload published when a client books.
type BookingSubmittedEvent struct {
	BookingID string    `json:"booking_id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type BookingService interface {
	Submit(ctx context.Context, ownerID string, b model.Booking) (*model.Booking, error)
	ListBookings(ctx context.Context, ownerID string, limit int) ([]model.Booking, error)
}

type bookingService struct {
	bookings  repository.BookingRepository
	publisher EventPublisher
	validate  *validate.Validate
	log       *logger.Logger
	now       func() time.Time
}

func NewBookingService(bookings repository.BookingRepository, publisher EventPublisher, log *logger.Logger) BookingService {
	return &bookingService{
		bookings:  bookings,
		publisher: publisher,
		validate:  validate.New(),
		log:       log,
		now:       time.Now,
	}
}

// Submit records a public booking against the resolved owner. A failed event
// publish is logged but never surfaces to the client; the booking is already
// stored.
func (s *bookingService) Submit(ctx context.Context, ownerID string, b model.Booking) (*model.Booking, error) {
	b.UserID = ownerID
	b.CreatedAt = s.now().UTC()

	if err := s.validate.Struct(b); err != nil {
		return nil, apperrors.Validation("Booking validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	saved, err := s.bookings.Create(ctx, b)
	if err != nil {
		s.log.Error("Failed to store booking", "user_id", ownerID, "error", err)
		return nil, apperrors.Internal("Failed to submit booking", err)
	}
	s.log.Info("Booking submitted", "user_id", ownerID, "booking_id", saved.ID)

	if s.publisher != nil {
		event := BookingSubmittedEvent{
			BookingID: saved.ID,
			UserID:    saved.UserID,
			Name:      saved.Name,
			Email:     saved.Email,
			CreatedAt: saved.CreatedAt,
		}
		if err := s.publisher.Publish(ctx, EventBookingSubmitted, saved.UserID, event); err != nil {
			s.log.Warn("Failed to publish booking event", "booking_id", saved.ID, "error", err)
		}
	}

	return saved, nil
}

func (s *bookingService) ListBookings(ctx context.Context, ownerID string, limit int) ([]model.Booking, error) {
	bookings, err := s.bookings.ListByOwner(ctx, ownerID, limit)
	if err != nil {
		s.log.Error("Failed to list bookings", "user_id", ownerID, "error", err)
		return nil, apperrors.Internal("Failed to list bookings", err)
	}
	return bookings, nil
}
