// Package schedule materializes a provider's declarative availability
// settings into concrete slot windows. Everything here is pure: the horizon
// reference instant is an explicit argument, so identical inputs always
// produce the identical slot sequence.
package schedule

import (
	"fmt"
	"time"

	"solodesk/pkg/model"
)

// Anchors returns the allowed minute-of-hour start offsets for a cadence,
// ordered ascending. Hourly cadence pins starts to minute zero; "every"
// cadence spaces them n minutes apart within the hour.
func Anchors(cadence string, everyMinutes int) []int {
	if cadence != model.CadenceEvery {
		return []int{0}
	}
	n := everyMinutes
	if n < 1 {
		n = 1
	}
	var anchors []int
	for m := 0; m < 60; m += n {
		anchors = append(anchors, m)
	}
	return anchors
}

// SnapForward returns the smallest instant at or after t whose minute-of-hour
// is an anchor, with sub-minute components zeroed. When no anchor remains in
// t's hour it rolls to the first anchor of the next hour. The result is never
// earlier than t.
func SnapForward(t time.Time, anchors []int) time.Time {
	if len(anchors) == 0 {
		return t
	}

	candidate := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, t.Location())
	if candidate.Before(t) {
		// The current minute has partially elapsed; snapping onto it would
		// travel backwards.
		candidate = candidate.Add(time.Minute)
	}

	minute := candidate.Minute()
	for _, a := range anchors {
		if a >= minute {
			return candidate.Add(time.Duration(a-minute) * time.Minute)
		}
	}
	topOfNextHour := candidate.Add(time.Duration(60-minute) * time.Minute)
	return topOfNextHour.Add(time.Duration(anchors[0]) * time.Minute)
}

// Generate walks every calendar day of the booking window and emits the
// ordered slot candidates for the given parameters. horizonStart anchors the
// window; its calendar day is the first day considered and its location
// supplies the wall-clock frame. A slot is emitted only when it fits entirely
// inside the day's window; the last partial candidate of a day is dropped
// rather than overflowing past the window end.
func Generate(params model.GenerationParameters, horizonStart time.Time) []model.SlotWindow {
	params = params.Normalized()

	slotLen := time.Duration(params.SlotLengthMinutes) * time.Minute
	gap := time.Duration(params.GapMinutes) * time.Minute
	anchors := Anchors(params.Cadence, params.EveryMinutes)
	aligned := params.Aligned()

	loc := horizonStart.Location()
	first := time.Date(horizonStart.Year(), horizonStart.Month(), horizonStart.Day(), 0, 0, 0, 0, loc)
	totalDays := params.BookingWindowWeeks * 7

	var out []model.SlotWindow
	for offset := 0; offset <= totalDays; offset++ {
		day := first.AddDate(0, 0, offset)

		var startHHMM, endHHMM string
		switch day.Weekday() {
		case time.Saturday, time.Sunday:
			if !params.AllowWeekends || params.WeekendStart == "" || params.WeekendEnd == "" {
				continue
			}
			startHHMM, endHHMM = params.WeekendStart, params.WeekendEnd
		default:
			if params.WeekdayStart == "" || params.WeekdayEnd == "" {
				continue
			}
			startHHMM, endHHMM = params.WeekdayStart, params.WeekdayEnd
		}

		dayStart, err := atTimeOfDay(day, startHHMM)
		if err != nil {
			continue
		}
		dayEnd, err := atTimeOfDay(day, endHHMM)
		if err != nil || !dayEnd.After(dayStart) {
			continue
		}

		cursor := dayStart
		if aligned {
			cursor = SnapForward(cursor, anchors)
		}
		for cursor.Before(dayEnd) {
			slotEnd := cursor.Add(slotLen)
			if slotEnd.After(dayEnd) {
				break
			}
			out = append(out, model.SlotWindow{Start: cursor, End: slotEnd})

			cursor = slotEnd.Add(gap)
			if aligned {
				cursor = SnapForward(cursor, anchors)
			}
		}
	}
	return out
}

// atTimeOfDay anchors an "HH:MM" wall-clock value onto a calendar day.
func atTimeOfDay(day time.Time, hhmm string) (time.Time, error) {
	var h, m int
	if _, err := fmt.Sscanf(hhmm, "%d:%d", &h, &m); err != nil {
		return time.Time{}, fmt.Errorf("invalid time of day %q: %w", hhmm, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return time.Time{}, fmt.Errorf("invalid time of day %q", hhmm)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, day.Location()), nil
}
