package daykey

import (
	"testing"
	"time"
)

func tokyo(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		return time.FixedZone("Asia/Tokyo", 9*60*60)
	}
	return loc
}

func TestToDayKeyConvertsInstantIntoZone(t *testing.T) {
	loc := tokyo(t)

	// 23:30 UTC is already the next day in UTC+9.
	got, err := ToDayKey("2024-03-05T23:30:00Z", loc)
	if err != nil {
		t.Fatalf("ToDayKey() error = %v", err)
	}
	if got != "2024-03-06" {
		t.Errorf("ToDayKey() = %q, want %q", got, "2024-03-06")
	}

	got, err = ToDayKey("2024-03-05T10:00:00Z", loc)
	if err != nil {
		t.Fatalf("ToDayKey() error = %v", err)
	}
	if got != "2024-03-05" {
		t.Errorf("ToDayKey() = %q, want %q", got, "2024-03-05")
	}
}

func TestToDayKeyIdempotentOnDayKeys(t *testing.T) {
	loc := tokyo(t)

	first, err := ToDayKey("2024-01-31T20:00:00Z", loc)
	if err != nil {
		t.Fatalf("ToDayKey() error = %v", err)
	}
	second, err := ToDayKey(first, loc)
	if err != nil {
		t.Fatalf("ToDayKey() error = %v", err)
	}
	if second != first {
		t.Errorf("ToDayKey(ToDayKey(t)) = %q, want %q", second, first)
	}
}

func TestToDayKeyRejectsGarbage(t *testing.T) {
	loc := tokyo(t)

	for _, v := range []string{"", "yesterday", "2024/03/05", "2024-13-40"} {
		if _, err := ToDayKey(v, loc); err == nil {
			t.Errorf("ToDayKey(%q) expected error", v)
		}
	}
}

func TestStartAndEndOfDayUTC(t *testing.T) {
	loc := tokyo(t)

	start, err := StartOfDayUTC("2024-03-05", loc)
	if err != nil {
		t.Fatalf("StartOfDayUTC() error = %v", err)
	}
	want := time.Date(2024, 3, 4, 15, 0, 0, 0, time.UTC)
	if !start.Equal(want) {
		t.Errorf("StartOfDayUTC() = %v, want %v", start, want)
	}

	end, err := EndOfDayUTC("2024-03-05", loc)
	if err != nil {
		t.Fatalf("EndOfDayUTC() error = %v", err)
	}
	if !end.After(start) || end.Sub(start) >= 24*time.Hour {
		t.Errorf("EndOfDayUTC() = %v, not within the local day after %v", end, start)
	}
}

func TestMonthOfAndRange(t *testing.T) {
	if got := MonthOf("2024-03-05"); got != "2024-03" {
		t.Errorf("MonthOf() = %q, want %q", got, "2024-03")
	}

	start, end, err := MonthRange("2024-12")
	if err != nil {
		t.Fatalf("MonthRange() error = %v", err)
	}
	if start != "2024-12-01" || end != "2025-01-01" {
		t.Errorf("MonthRange() = %q..%q, want 2024-12-01..2025-01-01", start, end)
	}
}

func TestDurationMin(t *testing.T) {
	start := time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 2, 6, 30, 0, 0, time.UTC)

	if got := DurationMin(start, end); got != 450 {
		t.Errorf("DurationMin() = %d, want 450", got)
	}

	// End before start clamps to zero instead of going negative.
	if got := DurationMin(end, start); got != 0 {
		t.Errorf("DurationMin() reversed = %d, want 0", got)
	}

	// Absurd spans cap at 7 days.
	far := start.Add(30 * 24 * time.Hour)
	if got := DurationMin(start, far); got != MaxDurationMin {
		t.Errorf("DurationMin() capped = %d, want %d", got, MaxDurationMin)
	}
}

func TestAddDays(t *testing.T) {
	got, err := AddDays("2024-02-28", 2)
	if err != nil {
		t.Fatalf("AddDays() error = %v", err)
	}
	if got != "2024-03-01" {
		t.Errorf("AddDays() = %q, want 2024-03-01 (leap year)", got)
	}
}
