package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	availerrors "solodesk/internal/availability/errors"
	"solodesk/pkg/logger"
	"solodesk/pkg/model"
	"solodesk/pkg/store"
)

const SlotsCollection = "availability"

const (
	fieldStartDatetime = "startDatetime"
	fieldEndDatetime   = "endDatetime"
)

// BatchConfig tunes the bulk mutation discipline: page size for enumeration,
// pacing between operations and the retry policy for rate-limited failures.
type BatchConfig struct {
	PageSize   int
	OpPause    time.Duration
	BatchPause time.Duration
	BatchSize  int
	Retry      store.RetryPolicy
}

type SlotRepository interface {
	// DeleteAllByOwner tears down the owner's entire slot set, page by page,
	// and returns how many documents it deleted. Partial completion is
	// reported through the count alongside the error.
	DeleteAllByOwner(ctx context.Context, userID string) (int, error)

	// CreateAll persists every candidate as a public-readable, owner-writable
	// slot document, pacing and retrying the same way the delete phase does.
	CreateAll(ctx context.Context, userID string, candidates []model.SlotWindow) (int, error)

	ListByOwner(ctx context.Context, userID string) ([]model.AvailabilitySlot, error)

	// ListOpen returns every slot overlapping [from, until), ordered by
	// start time. It pages through the full window; large slot sets are
	// never truncated.
	ListOpen(ctx context.Context, userID string, from, until time.Time) ([]model.AvailabilitySlot, error)
	Create(ctx context.Context, userID string, w model.SlotWindow) (*model.AvailabilitySlot, error)
	UpdateTimes(ctx context.Context, userID, slotID string, w model.SlotWindow) (*model.AvailabilitySlot, error)
	Delete(ctx context.Context, userID, slotID string) error
}

type storeSlotRepository struct {
	store store.Store
	batch BatchConfig
	log   *logger.Logger
}

func NewSlotRepository(st store.Store, batch BatchConfig, log *logger.Logger) SlotRepository {
	if batch.PageSize <= 0 {
		batch.PageSize = 100
	}
	if batch.BatchSize <= 0 {
		batch.BatchSize = 8
	}
	return &storeSlotRepository{store: st, batch: batch, log: log}
}

func (r *storeSlotRepository) pacer() *store.Pacer {
	return &store.Pacer{
		OpPause:    r.batch.OpPause,
		BatchPause: r.batch.BatchPause,
		BatchSize:  r.batch.BatchSize,
	}
}

func (r *storeSlotRepository) DeleteAllByOwner(ctx context.Context, userID string) (int, error) {
	pacer := r.pacer()
	deleted := 0

	// Each pass deletes the first page, so the next List starts from the
	// beginning again; the loop ends when a page comes back empty.
	for {
		var page []store.Document
		err := r.batch.Retry.Do(ctx, func() error {
			var listErr error
			page, listErr = r.store.List(ctx, SlotsCollection, store.Query{
				Filters: []store.Filter{store.Equal(fieldUserID, userID)},
				OrderBy: "$id",
				Limit:   r.batch.PageSize,
			})
			return listErr
		})
		if err != nil {
			return deleted, fmt.Errorf("list slots for teardown: %w", err)
		}
		if len(page) == 0 {
			break
		}

		for _, doc := range page {
			err := r.batch.Retry.Do(ctx, func() error {
				return r.store.Delete(ctx, SlotsCollection, doc.ID)
			})
			if err != nil {
				return deleted, fmt.Errorf("delete slot %s: %w", doc.ID, err)
			}
			deleted++
			if err := pacer.Pause(ctx); err != nil {
				return deleted, err
			}
		}
	}

	r.log.Info("Deleted existing availability slots", "user_id", userID, "count", deleted)
	return deleted, nil
}

func (r *storeSlotRepository) CreateAll(ctx context.Context, userID string, candidates []model.SlotWindow) (int, error) {
	pacer := r.pacer()
	perms := store.PublicReadOwnerWrite(userID)
	created := 0

	for _, w := range candidates {
		fields := slotFields(userID, w)
		err := r.batch.Retry.Do(ctx, func() error {
			_, createErr := r.store.Create(ctx, SlotsCollection, "", fields, perms)
			return createErr
		})
		if err != nil {
			return created, fmt.Errorf("create slot starting %s: %w", w.Start.Format(time.RFC3339), err)
		}
		created++
		if err := pacer.Pause(ctx); err != nil {
			return created, err
		}
	}

	r.log.Info("Created availability slots", "user_id", userID, "count", created)
	return created, nil
}

func (r *storeSlotRepository) ListByOwner(ctx context.Context, userID string) ([]model.AvailabilitySlot, error) {
	var slots []model.AvailabilitySlot
	cursor := ""
	for {
		page, err := r.store.List(ctx, SlotsCollection, store.Query{
			Filters:     []store.Filter{store.Equal(fieldUserID, userID)},
			OrderBy:     "$id",
			Limit:       r.batch.PageSize,
			CursorAfter: cursor,
		})
		if err != nil {
			return nil, fmt.Errorf("list slots: %w", err)
		}
		for _, doc := range page {
			slots = append(slots, decodeSlot(doc))
		}
		if len(page) < r.batch.PageSize {
			break
		}
		cursor = page[len(page)-1].ID
	}
	return slots, nil
}

func (r *storeSlotRepository) ListOpen(ctx context.Context, userID string, from, until time.Time) ([]model.AvailabilitySlot, error) {
	filters := []store.Filter{
		store.Equal(fieldUserID, userID),
		store.LessThan(fieldStartDatetime, until.UTC().Format(time.RFC3339)),
		store.GreaterThan(fieldEndDatetime, from.UTC().Format(time.RFC3339)),
	}

	var slots []model.AvailabilitySlot
	cursor := ""
	for {
		page, err := r.store.List(ctx, SlotsCollection, store.Query{
			Filters:     filters,
			OrderBy:     "$id",
			Limit:       r.batch.PageSize,
			CursorAfter: cursor,
		})
		if err != nil {
			return nil, fmt.Errorf("list open slots: %w", err)
		}
		for _, doc := range page {
			slots = append(slots, decodeSlot(doc))
		}
		if len(page) < r.batch.PageSize {
			break
		}
		cursor = page[len(page)-1].ID
	}

	sort.Slice(slots, func(i, j int) bool { return slots[i].Start.Before(slots[j].Start) })
	return slots, nil
}

func (r *storeSlotRepository) Create(ctx context.Context, userID string, w model.SlotWindow) (*model.AvailabilitySlot, error) {
	doc, err := r.store.Create(ctx, SlotsCollection, "", slotFields(userID, w), store.PublicReadOwnerWrite(userID))
	if err != nil {
		return nil, fmt.Errorf("create slot: %w", err)
	}
	slot := decodeSlot(doc)
	return &slot, nil
}

func (r *storeSlotRepository) UpdateTimes(ctx context.Context, userID, slotID string, w model.SlotWindow) (*model.AvailabilitySlot, error) {
	if err := r.checkOwnership(ctx, userID, slotID); err != nil {
		return nil, err
	}
	doc, err := r.store.Update(ctx, SlotsCollection, slotID, map[string]any{
		fieldStartDatetime: w.Start.UTC().Format(time.RFC3339),
		fieldEndDatetime:   w.End.UTC().Format(time.RFC3339),
	})
	if err != nil {
		if store.IsNotFound(err) {
			return nil, availerrors.ErrSlotNotFound
		}
		return nil, fmt.Errorf("update slot: %w", err)
	}
	slot := decodeSlot(doc)
	return &slot, nil
}

func (r *storeSlotRepository) Delete(ctx context.Context, userID, slotID string) error {
	if err := r.checkOwnership(ctx, userID, slotID); err != nil {
		return err
	}
	if err := r.store.Delete(ctx, SlotsCollection, slotID); err != nil {
		if store.IsNotFound(err) {
			return availerrors.ErrSlotNotFound
		}
		return fmt.Errorf("delete slot: %w", err)
	}
	return nil
}

func (r *storeSlotRepository) checkOwnership(ctx context.Context, userID, slotID string) error {
	doc, err := r.store.Get(ctx, SlotsCollection, slotID)
	if err != nil {
		if store.IsNotFound(err) {
			return availerrors.ErrSlotNotFound
		}
		return fmt.Errorf("get slot: %w", err)
	}
	if doc.String(fieldUserID) != userID {
		return availerrors.ErrNotOwner
	}
	return nil
}

func slotFields(userID string, w model.SlotWindow) map[string]any {
	return map[string]any{
		fieldUserID:        userID,
		fieldStartDatetime: w.Start.UTC().Format(time.RFC3339),
		fieldEndDatetime:   w.End.UTC().Format(time.RFC3339),
	}
}

func decodeSlot(doc store.Document) model.AvailabilitySlot {
	return model.AvailabilitySlot{
		ID:     doc.ID,
		UserID: doc.String(fieldUserID),
		Start:  doc.Time(fieldStartDatetime),
		End:    doc.Time(fieldEndDatetime),
	}
}
