package repository

import (
	"context"

	"solodesk/pkg/model"
	"solodesk/pkg/store"
)

const ProfilesCollection = "profiles"

const (
	fieldUserID       = "userId"
	fieldName         = "name"
	fieldBusinessName = "businessName"
	fieldBio          = "bio"
	fieldTimezone     = "timezone"
	fieldBookingLink  = "bookingLink"
)

type ProfileRepository interface {
	// FindByOwner returns the owner's profile, or store.ErrNotFound when none
	// has been created yet.
	FindByOwner(ctx context.Context, userID string) (*model.Profile, error)
	// Upsert writes the profile fields, creating the document on first save.
	Upsert(ctx context.Context, userID string, p model.Profile) (*model.Profile, error)
	// SetBookingLink updates only the bookingLink preference.
	SetBookingLink(ctx context.Context, userID, slug string) error
}

type storeProfileRepository struct {
	store store.Store
}

func NewProfileRepository(st store.Store) ProfileRepository {
	return &storeProfileRepository{store: st}
}

func (r *storeProfileRepository) FindByOwner(ctx context.Context, userID string) (*model.Profile, error) {
	docs, err := r.store.List(ctx, ProfilesCollection, store.Query{
		Filters: []store.Filter{store.Equal(fieldUserID, userID)},
		Limit:   1,
	})
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, store.ErrNotFound
	}
	return decodeProfile(docs[0]), nil
}

func (r *storeProfileRepository) Upsert(ctx context.Context, userID string, p model.Profile) (*model.Profile, error) {
	fields := map[string]any{
		fieldName:         p.Name,
		fieldBusinessName: p.BusinessName,
		fieldBio:          p.Bio,
		fieldTimezone:     p.Timezone,
	}

	existing, err := r.FindByOwner(ctx, userID)
	if err != nil && !store.IsNotFound(err) {
		return nil, err
	}

	var doc store.Document
	if existing != nil {
		doc, err = r.store.Update(ctx, ProfilesCollection, existing.ID, fields)
	} else {
		fields[fieldUserID] = userID
		doc, err = r.store.Create(ctx, ProfilesCollection, "", fields, store.PublicReadOwnerWrite(userID))
	}
	if err != nil {
		return nil, err
	}
	return decodeProfile(doc), nil
}

func (r *storeProfileRepository) SetBookingLink(ctx context.Context, userID, slug string) error {
	existing, err := r.FindByOwner(ctx, userID)
	if store.IsNotFound(err) {
		_, err = r.store.Create(ctx, ProfilesCollection, "", map[string]any{
			fieldUserID:      userID,
			fieldBookingLink: slug,
		}, store.PublicReadOwnerWrite(userID))
		return err
	}
	if err != nil {
		return err
	}
	_, err = r.store.Update(ctx, ProfilesCollection, existing.ID, map[string]any{
		fieldBookingLink: slug,
	})
	return err
}

func decodeProfile(doc store.Document) *model.Profile {
	return &model.Profile{
		ID:           doc.ID,
		UserID:       doc.String(fieldUserID),
		Name:         doc.String(fieldName),
		BusinessName: doc.String(fieldBusinessName),
		Bio:          doc.String(fieldBio),
		Timezone:     doc.String(fieldTimezone),
		BookingLink:  doc.String(fieldBookingLink),
	}
}
