package services

import (
	"main/model"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextDate(t *testing.T) {
	tests := []struct {
		name    string
		current time.Time
		pattern model.Pattern
		want    time.Time
	}{
		{
			name:    "daily adds one day",
			current: date(2025, time.March, 10),
			pattern: model.PatternDaily,
			want:    date(2025, time.March, 11),
		},
		{
			name:    "weekly adds seven days",
			current: date(2025, time.March, 10),
			pattern: model.PatternWeekly,
			want:    date(2025, time.March, 17),
		},
		{
			name:    "monthly mid-month",
			current: date(2025, time.January, 15),
			pattern: model.PatternMonthly,
			want:    date(2025, time.February, 15),
		},
		{
			name:    "monthly clamps Jan 31 to Feb 28",
			current: date(2025, time.January, 31),
			pattern: model.PatternMonthly,
			want:    date(2025, time.February, 28),
		},
		{
			name:    "monthly clamps Jan 31 to Feb 29 in leap year",
			current: date(2024, time.January, 31),
			pattern: model.PatternMonthly,
			want:    date(2024, time.February, 29),
		},
		{
			name:    "monthly keeps day after clamped month",
			current: date(2025, time.March, 31),
			pattern: model.PatternMonthly,
			want:    date(2025, time.April, 30),
		},
		{
			name:    "quarterly clamps Mar 31 to Jun 30",
			current: date(2025, time.March, 31),
			pattern: model.PatternQuarterly,
			want:    date(2025, time.June, 30),
		},
		{
			name:    "quarterly wraps year",
			current: date(2025, time.November, 15),
			pattern: model.PatternQuarterly,
			want:    date(2026, time.February, 15),
		},
		{
			name:    "half-yearly clamps Aug 31 to Feb 28",
			current: date(2024, time.August, 31),
			pattern: model.PatternHalfYearly,
			want:    date(2025, time.February, 28),
		},
		{
			name:    "yearly clamps Feb 29 to Feb 28",
			current: date(2024, time.February, 29),
			pattern: model.PatternYearly,
			want:    date(2025, time.February, 28),
		},
		{
			name:    "yearly plain",
			current: date(2025, time.July, 1),
			pattern: model.PatternYearly,
			want:    date(2026, time.July, 1),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NextDate(tc.current, tc.pattern)
			if err != nil {
				t.Fatalf("NextDate(%v, %q) failed: %v", tc.current, tc.pattern, err)
			}
			if !got.Equal(tc.want) {
				t.Errorf("NextDate(%v, %q) = %v, want %v", tc.current, tc.pattern, got, tc.want)
			}
			if !got.After(tc.current) {
				t.Errorf("NextDate(%v, %q) = %v is not after the input", tc.current, tc.pattern, got)
			}
		})
	}
}

func TestNextDateInvalidPattern(t *testing.T) {
	if _, err := NextDate(date(2025, time.January, 1), model.Pattern("fortnightly")); err != ErrInvalidPattern {
		t.Errorf("expected ErrInvalidPattern, got %v", err)
	}
	if _, err := NextDate(date(2025, time.January, 1), model.Pattern("")); err != ErrInvalidPattern {
		t.Errorf("expected ErrInvalidPattern for empty pattern, got %v", err)
	}
}

func TestNextDatePreservesClock(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Fatalf("failed to load location: %v", err)
	}
	current := time.Date(2025, time.January, 31, 14, 30, 5, 0, loc)

	got, err := NextDate(current, model.PatternMonthly)
	if err != nil {
		t.Fatalf("NextDate failed: %v", err)
	}

	want := time.Date(2025, time.February, 28, 14, 30, 5, 0, loc)
	if !got.Equal(want) {
		t.Errorf("NextDate = %v, want %v", got, want)
	}
	if got.Location() != loc {
		t.Errorf("NextDate changed location to %v", got.Location())
	}
}

func TestTotalCycles(t *testing.T) {
	start := date(2025, time.January, 1)

	tests := []struct {
		name      string
		reference time.Time
		pattern   model.Pattern
		want      int
	}{
		{"reference before start clamps to zero", date(2024, time.December, 1), model.PatternMonthly, 0},
		{"reference equal to start", start, model.PatternMonthly, 0},
		{"under one period", start.AddDate(0, 0, 20), model.PatternMonthly, 0},
		{"two monthly periods by day count", start.AddDate(0, 0, 65), model.PatternMonthly, 2},
		{"one quarterly period", start.AddDate(0, 0, 95), model.PatternQuarterly, 1},
		{"one half-yearly period", start.AddDate(0, 0, 181), model.PatternHalfYearly, 1},
		{"one yearly period", start.AddDate(0, 0, 365), model.PatternYearly, 1},
		{"daily counts days", start.AddDate(0, 0, 14), model.PatternDaily, 14},
		{"weekly counts weeks", start.AddDate(0, 0, 15), model.PatternWeekly, 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := TotalCycles(start, tc.reference, tc.pattern)
			if err != nil {
				t.Fatalf("TotalCycles failed: %v", err)
			}
			if got != tc.want {
				t.Errorf("TotalCycles(%v, %v, %q) = %d, want %d",
					start, tc.reference, tc.pattern, got, tc.want)
			}
		})
	}
}

func TestTotalCyclesInvalidPattern(t *testing.T) {
	if _, err := TotalCycles(date(2025, time.January, 1), date(2025, time.June, 1), model.Pattern("bogus")); err != ErrInvalidPattern {
		t.Errorf("expected ErrInvalidPattern, got %v", err)
	}
}

// The two duration models intentionally diverge: NextDate follows the
// calendar, TotalCycles approximates with fixed day counts. Twelve
// monthly advances land exactly one calendar year out while the counter
// reports 12 periods only because 365/30 happens to floor to 12.
func TestDurationModelsDiverge(t *testing.T) {
	start := date(2025, time.January, 15)

	current := start
	for i := 0; i < 12; i++ {
		next, err := NextDate(current, model.PatternMonthly)
		if err != nil {
			t.Fatalf("NextDate failed: %v", err)
		}
		current = next
	}
	if want := date(2026, time.January, 15); !current.Equal(want) {
		t.Fatalf("12 monthly advances = %v, want %v", current, want)
	}

	cycles, err := TotalCycles(start, current, model.PatternMonthly)
	if err != nil {
		t.Fatalf("TotalCycles failed: %v", err)
	}
	if cycles != 12 {
		t.Errorf("TotalCycles over one calendar year = %d, want 12", cycles)
	}
}
