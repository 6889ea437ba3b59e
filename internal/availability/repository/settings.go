package repository

import (
	"context"
	"fmt"

	availerrors "solodesk/internal/availability/errors"
	"solodesk/pkg/model"
	"solodesk/pkg/store"
)

const SettingsCollection = "availability_settings"

// Settings document field names, matching the store schema.
const (
	fieldUserID             = "userId"
	fieldWeekdayStart       = "weekdayStart"
	fieldWeekdayEnd         = "weekdayEnd"
	fieldAllowWeekends      = "allowWeekends"
	fieldWeekendStart       = "weekendStart"
	fieldWeekendEnd         = "weekendEnd"
	fieldBookingWindowWeeks = "bookingWindowWeeks"
	fieldSlotLengthMinutes  = "slotLengthMinutes"
)

// StoredSettings pairs the persisted subset with its document identity.
type StoredSettings struct {
	DocID string
	model.PersistedSettings
}

type SettingsRepository interface {
	FindByOwner(ctx context.Context, userID string) (*StoredSettings, error)
	Create(ctx context.Context, userID string, s model.PersistedSettings) (*StoredSettings, error)
	Update(ctx context.Context, docID string, s model.PersistedSettings) error
}

type storeSettingsRepository struct {
	store store.Store
}

func NewSettingsRepository(st store.Store) SettingsRepository {
	return &storeSettingsRepository{store: st}
}

func (r *storeSettingsRepository) FindByOwner(ctx context.Context, userID string) (*StoredSettings, error) {
	docs, err := r.store.List(ctx, SettingsCollection, store.Query{
		Filters: []store.Filter{store.Equal(fieldUserID, userID)},
		Limit:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	if len(docs) == 0 {
		return nil, availerrors.ErrSettingsNotFound
	}
	return decodeSettings(docs[0]), nil
}

func (r *storeSettingsRepository) Create(ctx context.Context, userID string, s model.PersistedSettings) (*StoredSettings, error) {
	doc, err := r.store.Create(ctx, SettingsCollection, "", settingsFields(userID, s), store.OwnerOnly(userID))
	if err != nil {
		return nil, fmt.Errorf("create settings: %w", err)
	}
	return decodeSettings(doc), nil
}

func (r *storeSettingsRepository) Update(ctx context.Context, docID string, s model.PersistedSettings) error {
	// userId is immutable; only the window fields are rewritten.
	fields := settingsFields("", s)
	delete(fields, fieldUserID)
	if _, err := r.store.Update(ctx, SettingsCollection, docID, fields); err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	return nil
}

func settingsFields(userID string, s model.PersistedSettings) map[string]any {
	return map[string]any{
		fieldUserID:             userID,
		fieldWeekdayStart:       s.WeekdayStart,
		fieldWeekdayEnd:         s.WeekdayEnd,
		fieldAllowWeekends:      s.AllowWeekends,
		fieldWeekendStart:       s.WeekendStart,
		fieldWeekendEnd:         s.WeekendEnd,
		fieldBookingWindowWeeks: s.BookingWindowWeeks,
		fieldSlotLengthMinutes:  s.SlotLengthMinutes,
	}
}

func decodeSettings(doc store.Document) *StoredSettings {
	return &StoredSettings{
		DocID: doc.ID,
		PersistedSettings: model.PersistedSettings{
			WeekdayStart:       doc.String(fieldWeekdayStart),
			WeekdayEnd:         doc.String(fieldWeekdayEnd),
			AllowWeekends:      doc.Bool(fieldAllowWeekends),
			WeekendStart:       doc.String(fieldWeekendStart),
			WeekendEnd:         doc.String(fieldWeekendEnd),
			BookingWindowWeeks: doc.Int(fieldBookingWindowWeeks),
			SlotLengthMinutes:  doc.Int(fieldSlotLengthMinutes),
		},
	}
}
