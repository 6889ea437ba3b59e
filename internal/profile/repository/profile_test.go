package repository

import (
	"context"
	"testing"

	"solodesk/pkg/model"
	"solodesk/pkg/store"
)

func TestUpsert_CreatesThenUpdates(t *testing.T) {
	mem := store.NewMemory()
	repo := NewProfileRepository(mem)
	ctx := context.Background()

	created, err := repo.Upsert(ctx, "user-1", model.Profile{
		Name:         "Jane Doe",
		BusinessName: "Jane's Studio",
		Timezone:     "Europe/London",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID == "" {
		t.Error("expected the store to assign an ID")
	}
	if created.UserID != "user-1" {
		t.Errorf("expected owner user-1, got %q", created.UserID)
	}

	updated, err := repo.Upsert(ctx, "user-1", model.Profile{
		Name: "Jane D.",
		Bio:  "Updated bio",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.ID != created.ID {
		t.Errorf("expected update to reuse document %s, got %s", created.ID, updated.ID)
	}
	if updated.Name != "Jane D." || updated.Bio != "Updated bio" {
		t.Errorf("update not applied: %+v", updated)
	}
	if mem.Count(ProfilesCollection) != 1 {
		t.Errorf("expected a single profile document, got %d", mem.Count(ProfilesCollection))
	}
}

func TestFindByOwner_MissingProfile(t *testing.T) {
	repo := NewProfileRepository(store.NewMemory())

	_, err := repo.FindByOwner(context.Background(), "nobody")
	if !store.IsNotFound(err) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSetBookingLink(t *testing.T) {
	mem := store.NewMemory()
	repo := NewProfileRepository(mem)
	ctx := context.Background()

	// Setting a link before any profile save creates the document.
	if err := repo.SetBookingLink(ctx, "user-1", "janedoe"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, err := repo.FindByOwner(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.BookingLink != "janedoe" {
		t.Errorf("expected link persisted, got %q", p.BookingLink)
	}

	// Renaming overwrites only the link; profile fields survive.
	if _, err := repo.Upsert(ctx, "user-1", model.Profile{Name: "Jane"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.SetBookingLink(ctx, "user-1", "jane-studio"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p, err = repo.FindByOwner(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.BookingLink != "jane-studio" {
		t.Errorf("expected renamed link, got %q", p.BookingLink)
	}
	if p.Name != "Jane" {
		t.Errorf("expected profile fields untouched, got %q", p.Name)
	}
}
