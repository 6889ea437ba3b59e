package repository

import (
	"context"

	"solodesk/pkg/model"
	"solodesk/pkg/store"
)

// LinksCollection maps booking-link slugs to owners. The document ID is the
// slug itself, which makes slug lookup a point read and slug uniqueness a
// property of the store.
const LinksCollection = "public_profiles"

const fieldUserID = "userId"

type LinkRepository interface {
	// Find returns the mapping for slug, or store.ErrNotFound when the slug
	// is unclaimed.
	Find(ctx context.Context, slug string) (*model.BookingLinkMapping, error)
	// Upsert claims slug for userID, overwriting a mapping the same owner
	// already holds.
	Upsert(ctx context.Context, slug, userID string) error
	// Delete releases slug. Deleting an unclaimed slug returns
	// store.ErrNotFound.
	Delete(ctx context.Context, slug string) error
}

type storeLinkRepository struct {
	store store.Store
}

func NewLinkRepository(st store.Store) LinkRepository {
	return &storeLinkRepository{store: st}
}

func (r *storeLinkRepository) Find(ctx context.Context, slug string) (*model.BookingLinkMapping, error) {
	doc, err := r.store.Get(ctx, LinksCollection, slug)
	if err != nil {
		return nil, err
	}
	return &model.BookingLinkMapping{Slug: doc.ID, UserID: doc.String(fieldUserID)}, nil
}

func (r *storeLinkRepository) Upsert(ctx context.Context, slug, userID string) error {
	fields := map[string]any{fieldUserID: userID}
	_, err := r.store.Update(ctx, LinksCollection, slug, fields)
	if store.IsNotFound(err) {
		_, err = r.store.Create(ctx, LinksCollection, slug, fields, store.PublicReadOwnerWrite(userID))
	}
	return err
}

func (r *storeLinkRepository) Delete(ctx context.Context, slug string) error {
	return r.store.Delete(ctx, LinksCollection, slug)
}
