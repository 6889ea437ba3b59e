package schedule

import (
	"testing"
	"time"

	"solodesk/pkg/model"
)

// Monday, so the first generated day is a weekday.
var monday = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

func boolPtr(b bool) *bool { return &b }

func baseParams() model.GenerationParameters {
	return model.GenerationParameters{
		PersistedSettings: model.PersistedSettings{
			WeekdayStart:       "09:00",
			WeekdayEnd:         "17:00",
			BookingWindowWeeks: 1,
			SlotLengthMinutes:  60,
		},
	}
}

func TestAnchors(t *testing.T) {
	tests := []struct {
		name         string
		cadence      string
		everyMinutes int
		want         []int
	}{
		{"hourly pins to minute zero", model.CadenceHour, 0, []int{0}},
		{"every 15", model.CadenceEvery, 15, []int{0, 15, 30, 45}},
		{"every 20", model.CadenceEvery, 20, []int{0, 20, 40}},
		{"non-divisor spacing", model.CadenceEvery, 25, []int{0, 25, 50}},
		{"every 60 collapses to hourly", model.CadenceEvery, 60, []int{0}},
		{"unknown cadence treated as hourly", "weird", 15, []int{0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Anchors(tt.cadence, tt.everyMinutes)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("expected %v, got %v", tt.want, got)
				}
			}
		})
	}
}

func TestAnchors_ClampsInterval(t *testing.T) {
	got := Anchors(model.CadenceEvery, 0)
	if len(got) != 60 {
		t.Fatalf("expected interval clamped to 1 minute (60 anchors), got %d", len(got))
	}
	if got[0] != 0 || got[59] != 59 {
		t.Fatalf("expected anchors 0..59, got first=%d last=%d", got[0], got[59])
	}
}

func TestSnapForward(t *testing.T) {
	quarterly := []int{0, 15, 30, 45}

	tests := []struct {
		name    string
		in      time.Time
		anchors []int
		want    time.Time
	}{
		{
			name:    "already on an anchor stays put",
			in:      time.Date(2026, 1, 5, 9, 15, 0, 0, time.UTC),
			anchors: quarterly,
			want:    time.Date(2026, 1, 5, 9, 15, 0, 0, time.UTC),
		},
		{
			name:    "snaps to the next anchor in the hour",
			in:      time.Date(2026, 1, 5, 9, 16, 0, 0, time.UTC),
			anchors: quarterly,
			want:    time.Date(2026, 1, 5, 9, 30, 0, 0, time.UTC),
		},
		{
			name:    "rolls to the next hour when no anchor remains",
			in:      time.Date(2026, 1, 5, 9, 46, 0, 0, time.UTC),
			anchors: []int{0, 45},
			want:    time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC),
		},
		{
			name:    "elapsed seconds push past the current minute",
			in:      time.Date(2026, 1, 5, 9, 15, 0, 1, time.UTC),
			anchors: quarterly,
			want:    time.Date(2026, 1, 5, 9, 30, 0, 0, time.UTC),
		},
		{
			name:    "hourly anchor from mid-hour",
			in:      time.Date(2026, 1, 5, 9, 10, 0, 0, time.UTC),
			anchors: []int{0},
			want:    time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SnapForward(tt.in, tt.anchors)
			if !got.Equal(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			if got.Before(tt.in) {
				t.Fatalf("snapped instant %v is earlier than input %v", got, tt.in)
			}
		})
	}
}

func TestGenerate_HourlyWeekdays(t *testing.T) {
	slots := Generate(baseParams(), monday)

	// One inclusive week starting Monday covers six weekdays (both Mondays)
	// with eight hourly slots each.
	if len(slots) != 48 {
		t.Fatalf("expected 48 slots, got %d", len(slots))
	}

	first := slots[0]
	wantStart := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	if !first.Start.Equal(wantStart) {
		t.Errorf("expected first slot at %v, got %v", wantStart, first.Start)
	}
	if !first.End.Equal(wantStart.Add(time.Hour)) {
		t.Errorf("expected one-hour slot, got end %v", first.End)
	}

	lastOfDay := slots[7]
	if !lastOfDay.End.Equal(time.Date(2026, 1, 5, 17, 0, 0, 0, time.UTC)) {
		t.Errorf("expected eighth slot to end at window close, got %v", lastOfDay.End)
	}

	for i, s := range slots {
		wd := s.Start.Weekday()
		if wd == time.Saturday || wd == time.Sunday {
			t.Fatalf("slot %d falls on a weekend: %v", i, s.Start)
		}
	}
}

func TestGenerate_UnalignedWithGap(t *testing.T) {
	params := baseParams()
	params.WeekdayEnd = "11:00"
	params.SlotLengthMinutes = 45
	params.GapMinutes = 15
	params.AlignToCadence = boolPtr(false)

	slots := Generate(params, monday)

	// 09:00-09:45, then 15 minutes of gap, 10:00-10:45; the next start would
	// land exactly on the window end and is dropped.
	perDay := slotsOn(slots, monday)
	if len(perDay) != 2 {
		t.Fatalf("expected 2 slots on the first day, got %d", len(perDay))
	}
	if !perDay[1].Start.Equal(time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("expected second slot at 10:00, got %v", perDay[1].Start)
	}
}

func TestGenerate_AlignedSkipsMisfitTail(t *testing.T) {
	params := baseParams()
	params.WeekdayStart = "09:10"
	params.WeekdayEnd = "11:00"
	params.SlotLengthMinutes = 40
	params.Cadence = model.CadenceEvery
	params.EveryMinutes = 30

	slots := slotsOn(Generate(params, monday), monday)

	// The window start snaps 09:10 -> 09:30; the following candidate snaps to
	// 10:30 and would run past 11:00, so only one slot survives.
	if len(slots) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(slots))
	}
	if !slots[0].Start.Equal(time.Date(2026, 1, 5, 9, 30, 0, 0, time.UTC)) {
		t.Errorf("expected snapped start 09:30, got %v", slots[0].Start)
	}
}

func TestGenerate_NoOverflow(t *testing.T) {
	params := baseParams()
	params.WeekdayEnd = "09:50"

	if slots := slotsOn(Generate(params, monday), monday); len(slots) != 0 {
		t.Fatalf("expected no slots in a window shorter than the slot length, got %d", len(slots))
	}
}

func TestGenerate_Weekends(t *testing.T) {
	saturday := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	params := baseParams()
	params.AllowWeekends = true
	params.WeekendStart = "10:00"
	params.WeekendEnd = "14:00"

	slots := slotsOn(Generate(params, monday), saturday)
	if len(slots) != 4 {
		t.Fatalf("expected 4 weekend slots, got %d", len(slots))
	}
	if !slots[0].Start.Equal(saturday.Add(10 * time.Hour)) {
		t.Errorf("expected weekend window to open at 10:00, got %v", slots[0].Start)
	}
}

func TestGenerate_WeekendsNeedBothBounds(t *testing.T) {
	saturday := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	params := baseParams()
	params.AllowWeekends = true
	params.WeekendStart = "10:00"

	if slots := slotsOn(Generate(params, monday), saturday); len(slots) != 0 {
		t.Fatalf("expected weekend without an end bound to be skipped, got %d slots", len(slots))
	}
}

func TestGenerate_SkipsInvertedWindow(t *testing.T) {
	params := baseParams()
	params.WeekdayStart = "17:00"
	params.WeekdayEnd = "09:00"

	if slots := Generate(params, monday); len(slots) != 0 {
		t.Fatalf("expected inverted window to produce nothing, got %d slots", len(slots))
	}
}

func TestGenerate_InclusiveFinalDay(t *testing.T) {
	slots := Generate(baseParams(), monday)

	// The horizon is weeks*7 days counted inclusively, so the Monday one week
	// out still generates.
	finalDay := monday.AddDate(0, 0, 7)
	if got := slotsOn(slots, finalDay); len(got) != 8 {
		t.Fatalf("expected 8 slots on the final inclusive day, got %d", len(got))
	}
	if got := slotsOn(slots, monday.AddDate(0, 0, 8)); len(got) != 0 {
		t.Fatalf("expected nothing past the horizon")
	}
}

func TestGenerate_MidDayHorizonStillCoversFullDay(t *testing.T) {
	midday := time.Date(2026, 1, 5, 13, 42, 17, 0, time.UTC)

	slots := slotsOn(Generate(baseParams(), midday), monday)
	if len(slots) != 8 {
		t.Fatalf("expected the full first day regardless of horizon time-of-day, got %d slots", len(slots))
	}
	if !slots[0].Start.Equal(time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("expected first slot at window start, got %v", slots[0].Start)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a := Generate(baseParams(), monday)
	b := Generate(baseParams(), monday)

	if len(a) != len(b) {
		t.Fatalf("expected identical runs, got %d vs %d slots", len(a), len(b))
	}
	for i := range a {
		if !a[i].Start.Equal(b[i].Start) || !a[i].End.Equal(b[i].End) {
			t.Fatalf("slot %d differs between runs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestGenerate_AnchorsHoldAcrossAlignedRun(t *testing.T) {
	params := baseParams()
	params.SlotLengthMinutes = 25
	params.GapMinutes = 5
	params.Cadence = model.CadenceEvery
	params.EveryMinutes = 15

	for i, s := range Generate(params, monday) {
		if s.Start.Minute()%15 != 0 {
			t.Fatalf("slot %d start %v is off-anchor", i, s.Start)
		}
		if s.Start.Second() != 0 || s.Start.Nanosecond() != 0 {
			t.Fatalf("slot %d start %v has sub-minute components", i, s.Start)
		}
	}
}

func slotsOn(slots []model.SlotWindow, day time.Time) []model.SlotWindow {
	var out []model.SlotWindow
	for _, s := range slots {
		if s.Start.Year() == day.Year() && s.Start.YearDay() == day.YearDay() {
			out = append(out, s)
		}
	}
	return out
}

func TestGenerate_ClampsDegenerateInputs(t *testing.T) {
	// A non-positive slot length would leave the cursor stuck in place; the
	// floors guarantee the walk always advances and terminates.
	params := baseParams()
	params.SlotLengthMinutes = 0
	params.GapMinutes = -10
	params.BookingWindowWeeks = 0
	params.AlignToCadence = boolPtr(false)

	got := Generate(params, monday)

	if len(got) == 0 {
		t.Fatal("expected slots from clamped parameters, got none")
	}
	for _, w := range got {
		if w.End.Sub(w.Start) != 5*time.Minute {
			t.Fatalf("expected slot length clamped to 5 minutes, got %s", w.End.Sub(w.Start))
		}
	}
	// A zero window is clamped to one week: one inclusive week of weekdays.
	days := map[string]bool{}
	for _, w := range got {
		days[w.Start.Format("2006-01-02")] = true
	}
	if len(days) != 6 {
		t.Fatalf("expected 6 weekdays in a one-week inclusive window, got %d", len(days))
	}
}
