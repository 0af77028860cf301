package timegrid

import (
	"testing"
	"time"
)

func TestGenerate(t *testing.T) {
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		params     Params
		wantCount  int
		wantFirst  string // "HH:MM" start of first window
		wantLast   string // "HH:MM" start of last window
	}{
		{
			name:      "standard dinner service",
			params:    Params{Open: "10:00", Close: "23:00", SlotDuration: 90 * time.Minute, Step: 30 * time.Minute},
			wantCount: 24,
			wantFirst: "10:00",
			wantLast:  "21:30",
		},
		{
			name:      "short day single slot",
			params:    Params{Open: "10:00", Close: "11:30", SlotDuration: 90 * time.Minute, Step: 30 * time.Minute},
			wantCount: 1,
			wantFirst: "10:00",
			wantLast:  "10:00",
		},
		{
			name:      "day shorter than slot",
			params:    Params{Open: "10:00", Close: "11:00", SlotDuration: 90 * time.Minute, Step: 30 * time.Minute},
			wantCount: 0,
		},
		{
			name:      "overnight close rolls to next day",
			params:    Params{Open: "18:00", Close: "02:00", SlotDuration: 90 * time.Minute, Step: 30 * time.Minute},
			wantCount: 14,
			wantFirst: "18:00",
			wantLast:  "00:30",
		},
		{
			name:      "equal open and close treated as overnight",
			params:    Params{Open: "12:00", Close: "12:00", SlotDuration: 90 * time.Minute, Step: 30 * time.Minute},
			wantCount: 46,
			wantFirst: "12:00",
			wantLast:  "10:30",
		},
		{
			name:      "unparsable hours fall back to default window",
			params:    Params{Open: "not-a-time", Close: "??", SlotDuration: 90 * time.Minute, Step: 30 * time.Minute},
			wantCount: 22, // 10:00-22:00 default
			wantFirst: "10:00",
			wantLast:  "20:30",
		},
		{
			name:      "zero duration and step use defaults",
			params:    Params{Open: "10:00", Close: "13:00"},
			wantCount: 4,
			wantFirst: "10:00",
			wantLast:  "11:30",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			windows := Generate(date, time.UTC, tt.params)

			if len(windows) != tt.wantCount {
				t.Fatalf("expected %d windows, got %d", tt.wantCount, len(windows))
			}
			if tt.wantCount == 0 {
				return
			}

			if got := windows[0].Start.Format("15:04"); got != tt.wantFirst {
				t.Errorf("first window starts %s, want %s", got, tt.wantFirst)
			}
			if got := windows[len(windows)-1].Start.Format("15:04"); got != tt.wantLast {
				t.Errorf("last window starts %s, want %s", got, tt.wantLast)
			}
		})
	}
}

func TestGenerateOrdering(t *testing.T) {
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	step := 30 * time.Minute
	windows := Generate(date, time.UTC, Params{Open: "10:00", Close: "23:00", SlotDuration: 90 * time.Minute, Step: step})

	for i, w := range windows {
		if want := 90 * time.Minute; w.End.Sub(w.Start) != want {
			t.Errorf("window %d has duration %v, want %v", i, w.End.Sub(w.Start), want)
		}
		if i == 0 {
			continue
		}
		if got := w.Start.Sub(windows[i-1].Start); got != step {
			t.Errorf("window %d start gap %v, want %v", i, got, step)
		}
	}

	closeAt := time.Date(2026, 9, 10, 23, 0, 0, 0, time.UTC)
	if last := windows[len(windows)-1].End; last.After(closeAt) {
		t.Errorf("last window ends %v after close %v", last, closeAt)
	}
}

func TestGenerateFiniteForInvertedHours(t *testing.T) {
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	// Close before open means overnight service; the loop must stay finite.
	windows := Generate(date, time.UTC, Params{Open: "23:00", Close: "01:00", SlotDuration: 90 * time.Minute, Step: 30 * time.Minute})
	if len(windows) != 2 {
		t.Errorf("expected 2 windows for 23:00-01:00, got %d", len(windows))
	}
}

func TestDayBounds(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata unavailable")
	}

	// DST starts 2026-03-08 in the US; the local day is 23 hours long.
	date := time.Date(2026, 3, 8, 12, 0, 0, 0, loc)
	start, end := DayBounds(date, loc)

	if start.Hour() != 0 || end.Hour() != 0 {
		t.Errorf("bounds not at local midnight: %v, %v", start, end)
	}
	if got := end.Sub(start); got != 23*time.Hour {
		t.Errorf("DST day length %v, want 23h", got)
	}
}

func TestOverlapping(t *testing.T) {
	base := time.Date(2026, 9, 10, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		bStart   time.Duration
		bEnd     time.Duration
		expected bool
	}{
		{"identical", 0, 90 * time.Minute, true},
		{"contained", 30 * time.Minute, time.Hour, true},
		{"partial", -30 * time.Minute, 30 * time.Minute, true},
		{"touching end is free", 90 * time.Minute, 3 * time.Hour, false},
		{"touching start is free", -2 * time.Hour, 0, false},
		{"disjoint", 5 * time.Hour, 6 * time.Hour, false},
	}

	aStart, aEnd := base, base.Add(90*time.Minute)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlapping(aStart, aEnd, base.Add(tt.bStart), base.Add(tt.bEnd))
			if got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}
