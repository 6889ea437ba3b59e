package model

import "time"

// Cadence values for slot start alignment.
const (
	CadenceHour  = "hour"  // starts on the hour only
	CadenceEvery = "every" // starts every N minutes
)

// PersistedSettings is the subset of availability settings written to the
// settings document. These are also the only fields compared for change
// detection: editing anything here triggers a full slot regeneration.
type PersistedSettings struct {
	WeekdayStart       string `json:"weekday_start" validate:"required,hhmm"`
	WeekdayEnd         string `json:"weekday_end" validate:"required,hhmm"`
	AllowWeekends      bool   `json:"allow_weekends"`
	WeekendStart       string `json:"weekend_start,omitempty" validate:"omitempty,hhmm"`
	WeekendEnd         string `json:"weekend_end,omitempty" validate:"omitempty,hhmm"`
	BookingWindowWeeks int    `json:"booking_window_weeks" validate:"required,min=1,max=52"`
	SlotLengthMinutes  int    `json:"slot_length_minutes" validate:"required,min=5,max=180"`
}

// GenerationParameters is the full input to slot materialization: the
// persisted subset plus the cadence controls. The cadence controls shape the
// generated slots but are not persisted and do not participate in change
// detection.
type GenerationParameters struct {
	PersistedSettings

	Cadence        string `json:"cadence,omitempty" validate:"omitempty,oneof=hour every"`
	EveryMinutes   int    `json:"every_minutes,omitempty" validate:"omitempty,min=5,max=120"`
	GapMinutes     int    `json:"gap_minutes,omitempty" validate:"omitempty,min=0,max=120"`
	AlignToCadence *bool  `json:"align_to_cadence,omitempty"`
}

// Normalized returns a copy with product defaults applied: hourly cadence,
// 60-minute interval, aligned starts. It also clamps the numeric inputs to
// their floors (slot length 5, gap 0, window 1 week) so slot generation
// always terminates, whatever the caller passes.
func (p GenerationParameters) Normalized() GenerationParameters {
	if p.Cadence == "" {
		p.Cadence = CadenceHour
	}
	if p.EveryMinutes == 0 {
		p.EveryMinutes = 60
	}
	if p.AlignToCadence == nil {
		aligned := true
		p.AlignToCadence = &aligned
	}
	if p.SlotLengthMinutes < 5 {
		p.SlotLengthMinutes = 5
	}
	if p.GapMinutes < 0 {
		p.GapMinutes = 0
	}
	if p.BookingWindowWeeks < 1 {
		p.BookingWindowWeeks = 1
	}
	return p
}

// Aligned reports whether candidate starts snap to cadence anchors.
func (p GenerationParameters) Aligned() bool {
	return p.AlignToCadence == nil || *p.AlignToCadence
}

// AvailabilitySlot is one bookable interval owned by a provider.
type AvailabilitySlot struct {
	ID     string    `json:"id"`
	UserID string    `json:"user_id"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

// SlotWindow is a candidate interval produced by the generator, before the
// store assigns it an identity.
type SlotWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// SlotRequest is the payload for adding or editing a single custom slot.
type SlotRequest struct {
	Start time.Time `json:"start" validate:"required"`
	End   time.Time `json:"end" validate:"required,gtfield=Start"`
}
