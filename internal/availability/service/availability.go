package service

import (
	"context"
	"errors"
	"time"

	availerrors "solodesk/internal/availability/errors"
	"solodesk/internal/availability/repository"
	"solodesk/internal/availability/schedule"
	"solodesk/internal/availability/validator"
	"solodesk/pkg/config"
	apperrors "solodesk/pkg/errors"
	"solodesk/pkg/guard"
	"solodesk/pkg/model"
)

// User-visible save statuses, surfaced verbatim by the dashboard.
const (
	StatusSaving      = "Saving… (may take a moment)"
	StatusRegenerated = "Settings saved! Slots regenerated."
	StatusNoChanges   = "Settings saved (no changes)."
	StatusFailed      = "Failed to save settings."
)

// SaveResult reports what a settings save did: whether regeneration ran and
// how many slots the teardown and rebuild phases touched.
type SaveResult struct {
	Settings    model.PersistedSettings `json:"settings"`
	Regenerated bool                    `json:"regenerated"`
	Deleted     int                     `json:"deleted"`
	Created     int                     `json:"created"`
	Status      string                  `json:"status"`
}

type AvailabilityService interface {
	GetSettings(ctx context.Context, ownerID string) (*model.PersistedSettings, error)
	SaveSettings(ctx context.Context, ownerID string, params model.GenerationParameters) (*SaveResult, error)
	ListSlots(ctx context.Context, ownerID string) ([]model.AvailabilitySlot, error)
	ListOpenSlots(ctx context.Context, ownerID string, from time.Time) ([]model.AvailabilitySlot, error)
	AddSlot(ctx context.Context, ownerID string, req model.SlotRequest) (*model.AvailabilitySlot, error)
	EditSlot(ctx context.Context, ownerID, slotID string, req model.SlotRequest) (*model.AvailabilitySlot, error)
	RemoveSlot(ctx context.Context, ownerID, slotID string) error
}

type availabilityService struct {
	settings  repository.SettingsRepository
	slots     repository.SlotRepository
	validator *validator.AvailabilityValidator
	guard     *guard.Guard
	cfg       *config.Config
	now       func() time.Time
}

func NewAvailabilityService(
	settings repository.SettingsRepository,
	slots repository.SlotRepository,
	v *validator.AvailabilityValidator,
	g *guard.Guard,
	cfg *config.Config,
) AvailabilityService {
	return &availabilityService{
		settings:  settings,
		slots:     slots,
		validator: v,
		guard:     g,
		cfg:       cfg,
		now:       time.Now,
	}
}

// NewAvailabilityServiceAt is NewAvailabilityService with an injected clock.
// Tests use it to pin the horizon reference day.
func NewAvailabilityServiceAt(
	settings repository.SettingsRepository,
	slots repository.SlotRepository,
	v *validator.AvailabilityValidator,
	g *guard.Guard,
	cfg *config.Config,
	now func() time.Time,
) AvailabilityService {
	svc := NewAvailabilityService(settings, slots, v, g, cfg).(*availabilityService)
	svc.now = now
	return svc
}

func (s *availabilityService) GetSettings(ctx context.Context, ownerID string) (*model.PersistedSettings, error) {
	stored, err := s.settings.FindByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, availerrors.ErrSettingsNotFound) {
			return nil, apperrors.NotFound("Availability settings")
		}
		s.cfg.Log.Error("Failed to load availability settings", "user_id", ownerID, "error", err)
		return nil, apperrors.Internal("Failed to load availability settings", err)
	}
	settings := stored.PersistedSettings
	return &settings, nil
}

// SaveSettings persists the settings document and, when any persisted field
// changed (or no document existed yet), tears down and regenerates the
// owner's whole slot set. The cadence controls shape generation but are
// deliberately excluded from both persistence and the change comparison,
// mirroring the product's long-standing behavior.
func (s *availabilityService) SaveSettings(ctx context.Context, ownerID string, params model.GenerationParameters) (*SaveResult, error) {
	if err := s.validator.ValidateParameters(params); err != nil {
		return nil, apperrors.Validation("Availability settings validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	release, ok := s.guard.TryAcquire(ownerID, guard.KindSaveSettings)
	if !ok {
		s.cfg.Log.Warn("Dropped reentrant settings save", "user_id", ownerID)
		return nil, apperrors.Conflict(StatusSaving)
	}
	defer release()

	prior, err := s.settings.FindByOwner(ctx, ownerID)
	if err != nil && !errors.Is(err, availerrors.ErrSettingsNotFound) {
		s.cfg.Log.Error("Failed to load prior settings", "user_id", ownerID, "error", err)
		return nil, apperrors.Internal(StatusFailed, err)
	}

	// The settings write always happens before any slot mutation; if it
	// fails nothing else runs.
	if prior != nil {
		if err := s.settings.Update(ctx, prior.DocID, params.PersistedSettings); err != nil {
			s.cfg.Log.Error("Failed to update settings document", "user_id", ownerID, "error", err)
			return nil, apperrors.Internal(StatusFailed, err)
		}
	} else {
		if _, err := s.settings.Create(ctx, ownerID, params.PersistedSettings); err != nil {
			s.cfg.Log.Error("Failed to create settings document", "user_id", ownerID, "error", err)
			return nil, apperrors.Internal(StatusFailed, err)
		}
	}

	result := &SaveResult{Settings: params.PersistedSettings}

	changed := prior == nil || prior.PersistedSettings != params.PersistedSettings
	if !changed {
		result.Status = StatusNoChanges
		s.cfg.Log.Info("Settings saved without changes", "user_id", ownerID)
		return result, nil
	}

	deleted, created, err := s.regenerate(ctx, ownerID, params)
	result.Deleted = deleted
	result.Created = created
	if err != nil {
		s.cfg.Log.Error("Slot regeneration failed",
			"user_id", ownerID,
			"deleted", deleted,
			"created", created,
			"error", err,
		)
		// Partial application is accepted and surfaced, never rolled back.
		return result, apperrors.Internal(StatusFailed, err).WithDetails(map[string]any{
			"deleted": deleted,
			"created": created,
		})
	}

	result.Regenerated = true
	result.Status = StatusRegenerated
	s.cfg.Log.Info("Availability regenerated",
		"user_id", ownerID,
		"deleted", deleted,
		"created", created,
	)
	return result, nil
}

// regenerate runs the full teardown-then-rebuild cycle. The delete phase
// finishes completely before the first create is issued.
func (s *availabilityService) regenerate(ctx context.Context, ownerID string, params model.GenerationParameters) (deleted, created int, err error) {
	deleted, err = s.slots.DeleteAllByOwner(ctx, ownerID)
	if err != nil {
		return deleted, 0, err
	}

	candidates := schedule.Generate(params, s.now())
	created, err = s.slots.CreateAll(ctx, ownerID, candidates)
	return deleted, created, err
}

func (s *availabilityService) ListSlots(ctx context.Context, ownerID string) ([]model.AvailabilitySlot, error) {
	slots, err := s.slots.ListByOwner(ctx, ownerID)
	if err != nil {
		s.cfg.Log.Error("Failed to list slots", "user_id", ownerID, "error", err)
		return nil, apperrors.Internal("Failed to list availability slots", err)
	}
	return slots, nil
}

// ListOpenSlots returns the slots a public viewer may book: anything
// overlapping the window from `from` to the configured number of weeks out.
func (s *availabilityService) ListOpenSlots(ctx context.Context, ownerID string, from time.Time) ([]model.AvailabilitySlot, error) {
	until := from.AddDate(0, 0, s.cfg.PublicWindowWeeks*7)
	slots, err := s.slots.ListOpen(ctx, ownerID, from, until)
	if err != nil {
		s.cfg.Log.Error("Failed to list open slots", "user_id", ownerID, "error", err)
		return nil, apperrors.Internal("Failed to list open slots", err)
	}
	return slots, nil
}

func (s *availabilityService) AddSlot(ctx context.Context, ownerID string, req model.SlotRequest) (*model.AvailabilitySlot, error) {
	if err := s.validator.ValidateSlot(req); err != nil {
		return nil, apperrors.Validation("Slot validation failed", map[string]any{"error": err.Error()})
	}

	release, ok := s.guard.TryAcquire(ownerID, guard.KindAddSlot)
	if !ok {
		return nil, apperrors.Conflict("Another availability operation is in progress")
	}
	defer release()

	slot, err := s.slots.Create(ctx, ownerID, model.SlotWindow{Start: req.Start, End: req.End})
	if err != nil {
		s.cfg.Log.Error("Failed to add slot", "user_id", ownerID, "error", err)
		return nil, apperrors.Internal("Failed to add slot", err)
	}
	s.cfg.Log.Info("Custom slot added", "user_id", ownerID, "slot_id", slot.ID)
	return slot, nil
}

func (s *availabilityService) EditSlot(ctx context.Context, ownerID, slotID string, req model.SlotRequest) (*model.AvailabilitySlot, error) {
	if err := s.validator.ValidateSlot(req); err != nil {
		return nil, apperrors.Validation("Slot validation failed", map[string]any{"error": err.Error()})
	}

	release, ok := s.guard.TryAcquire(ownerID, guard.KindEditSlot)
	if !ok {
		return nil, apperrors.Conflict("Another availability operation is in progress")
	}
	defer release()

	slot, err := s.slots.UpdateTimes(ctx, ownerID, slotID, model.SlotWindow{Start: req.Start, End: req.End})
	if err != nil {
		return nil, s.slotError(ownerID, slotID, "edit", err)
	}
	return slot, nil
}

func (s *availabilityService) RemoveSlot(ctx context.Context, ownerID, slotID string) error {
	release, ok := s.guard.TryAcquire(ownerID, guard.KindDeleteSlot)
	if !ok {
		return apperrors.Conflict("Another availability operation is in progress")
	}
	defer release()

	if err := s.slots.Delete(ctx, ownerID, slotID); err != nil {
		return s.slotError(ownerID, slotID, "delete", err)
	}
	s.cfg.Log.Info("Slot deleted", "user_id", ownerID, "slot_id", slotID)
	return nil
}

func (s *availabilityService) slotError(ownerID, slotID, op string, err error) error {
	switch {
	case errors.Is(err, availerrors.ErrSlotNotFound):
		return apperrors.NotFoundWithID("Slot", slotID)
	case errors.Is(err, availerrors.ErrNotOwner):
		return apperrors.Forbidden("Slot belongs to another user")
	default:
		s.cfg.Log.Error("Slot operation failed",
			"user_id", ownerID,
			"slot_id", slotID,
			"op", op,
			"error", err,
		)
		return apperrors.Internal("Failed to "+op+" slot", err)
	}
}
