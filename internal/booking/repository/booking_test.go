package repository

import (
	"context"
	"testing"
	"time"

	"solodesk/pkg/model"
	"solodesk/pkg/store"
)

func seedBooking(t *testing.T, repo BookingRepository, userID, name string, createdAt time.Time) {
	t.Helper()
	_, err := repo.Create(context.Background(), model.Booking{
		UserID:    userID,
		Name:      name,
		Email:     "client@example.com",
		CreatedAt: createdAt,
	})
	if err != nil {
		t.Fatalf("seed booking %q: %v", name, err)
	}
}

func TestListByOwner_NewestFirst(t *testing.T) {
	repo := NewBookingRepository(store.NewMemory())

	base := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	seedBooking(t, repo, "user-1", "First", base)
	seedBooking(t, repo, "user-1", "Second", base.AddDate(0, 1, 0))
	seedBooking(t, repo, "user-1", "Third", base.AddDate(0, 2, 0))

	bookings, err := repo.ListByOwner(context.Background(), "user-1", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bookings) != 3 {
		t.Fatalf("expected 3 bookings, got %d", len(bookings))
	}
	for i, want := range []string{"Third", "Second", "First"} {
		if bookings[i].Name != want {
			t.Errorf("position %d: expected %q, got %q", i, want, bookings[i].Name)
		}
	}
}

func TestListByOwner_FiltersAndLimits(t *testing.T) {
	repo := NewBookingRepository(store.NewMemory())

	base := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedBooking(t, repo, "user-1", "Mine", base.Add(time.Duration(i)*time.Hour))
	}
	seedBooking(t, repo, "user-2", "Theirs", base)

	bookings, err := repo.ListByOwner(context.Background(), "user-1", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bookings) != 3 {
		t.Fatalf("expected the limit to cap results at 3, got %d", len(bookings))
	}
	for _, b := range bookings {
		if b.UserID != "user-1" {
			t.Errorf("expected only user-1 bookings, got one for %s", b.UserID)
		}
	}
}
