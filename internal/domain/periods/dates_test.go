package periods

import (
	"testing"
	"time"
)

func TestDatesInclusive(t *testing.T) {
	start := time.Date(2025, 11, 28, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 12, 2, 0, 0, 0, 0, time.UTC)
	days := Dates(start, end)
	if len(days) != 5 {
		t.Fatalf("expected 5 days, got %d", len(days))
	}
	if !days[0].Equal(start) || !days[4].Equal(end) {
		t.Fatalf("unexpected boundaries: %v .. %v", days[0], days[4])
	}
}

func TestDatesSingleDay(t *testing.T) {
	day := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	days := Dates(day, day)
	if len(days) != 1 {
		t.Fatalf("expected 1 day, got %d", len(days))
	}
}

func TestDatesEmptyOnBadInput(t *testing.T) {
	day := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	if got := Dates(time.Time{}, day); got != nil {
		t.Fatal("expected empty for zero start")
	}
	if got := Dates(day, time.Time{}); got != nil {
		t.Fatal("expected empty for zero end")
	}
	if got := Dates(day.AddDate(0, 0, 1), day); got != nil {
		t.Fatal("expected empty for inverted range")
	}
}

func TestDateStrings(t *testing.T) {
	days := DateStrings("2025-02-27", "2025-03-01")
	want := []string{"2025-02-27", "2025-02-28", "2025-03-01"}
	if len(days) != len(want) {
		t.Fatalf("expected %d days, got %d", len(want), len(days))
	}
	for i := range want {
		if days[i] != want[i] {
			t.Fatalf("day %d = %s, want %s", i, days[i], want[i])
		}
	}
	if got := DateStrings("not-a-date", "2025-03-01"); got != nil {
		t.Fatal("expected empty for unparseable start")
	}
}
