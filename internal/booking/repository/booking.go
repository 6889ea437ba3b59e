package repository

import (
	"context"
	"time"

	"solodesk/pkg/model"
	"solodesk/pkg/store"
)

const BookingsCollection = "bookings"

const (
	fieldUserID    = "userId"
	fieldName      = "name"
	fieldEmail     = "email"
	fieldMessage   = "message"
	fieldCreatedAt = "createdAt"
)

type BookingRepository interface {
	// Create persists a submission with owner-only grants; the client who
	// submitted it never gets read access.
	Create(ctx context.Context, b model.Booking) (*model.Booking, error)

	// ListByOwner returns the owner's received bookings, newest first.
	ListByOwner(ctx context.Context, userID string, limit int) ([]model.Booking, error)
}

type storeBookingRepository struct {
	store store.Store
}

func NewBookingRepository(st store.Store) BookingRepository {
	return &storeBookingRepository{store: st}
}

func (r *storeBookingRepository) Create(ctx context.Context, b model.Booking) (*model.Booking, error) {
	doc, err := r.store.Create(ctx, BookingsCollection, "", map[string]any{
		fieldUserID:    b.UserID,
		fieldName:      b.Name,
		fieldEmail:     b.Email,
		fieldMessage:   b.Message,
		fieldCreatedAt: b.CreatedAt.UTC().Format(time.RFC3339),
	}, store.OwnerOnly(b.UserID))
	if err != nil {
		return nil, err
	}
	return decodeBooking(doc), nil
}

func (r *storeBookingRepository) ListByOwner(ctx context.Context, userID string, limit int) ([]model.Booking, error) {
	docs, err := r.store.List(ctx, BookingsCollection, store.Query{
		Filters:    []store.Filter{store.Equal(fieldUserID, userID)},
		OrderBy:    fieldCreatedAt,
		Descending: true,
		Limit:      limit,
	})
	if err != nil {
		return nil, err
	}

	bookings := make([]model.Booking, 0, len(docs))
	for _, doc := range docs {
		bookings = append(bookings, *decodeBooking(doc))
	}
	return bookings, nil
}

func decodeBooking(doc store.Document) *model.Booking {
	return &model.Booking{
		ID:        doc.ID,
		UserID:    doc.String(fieldUserID),
		Name:      doc.String(fieldName),
		Email:     doc.String(fieldEmail),
		Message:   doc.String(fieldMessage),
		CreatedAt: doc.Time(fieldCreatedAt),
	}
}
