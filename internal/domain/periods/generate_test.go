package periods

import (
	"testing"
	"time"
)

var testToday = time.Date(2025, 11, 25, 0, 0, 0, 0, time.UTC)

func assertContiguous(t *testing.T, list []Period) {
	t.Helper()
	for i := 1; i < len(list); i++ {
		prevEnd := ParseDate(list[i-1].EndDate)
		start := ParseDate(list[i].StartDate)
		if !prevEnd.AddDate(0, 0, 1).Equal(start) {
			t.Fatalf("gap between %s (ends %s) and %s (starts %s)",
				list[i-1].ID, list[i-1].EndDate, list[i].ID, list[i].StartDate)
		}
	}
}

func TestGenerateMonthlyContiguous(t *testing.T) {
	list := Generate(Rule{Type: RuleMonthly}, testToday)
	if len(list) != 25 {
		t.Fatalf("expected 25 periods, got %d", len(list))
	}
	assertContiguous(t, list)
	if list[12].ID != "2025-11" || list[12].StartDate != "2025-11-01" || list[12].EndDate != "2025-11-30" {
		t.Fatalf("unexpected center period: %+v", list[12])
	}
}

func TestGenerateHalfMonthTiles(t *testing.T) {
	list := Generate(Rule{Type: RuleHalfMonth}, testToday)
	if len(list) != 50 {
		t.Fatalf("expected 50 periods, got %d", len(list))
	}
	assertContiguous(t, list)
	current := PeriodByDate("2025-11-16", list)
	if current == nil || current.ID != "2025-11-H2" || current.EndDate != "2025-11-30" {
		t.Fatalf("unexpected H2 period: %+v", current)
	}
}

func TestGenerateMasterMonthSpansPreviousMonth(t *testing.T) {
	list := Generate(Rule{Type: RuleMasterMonth}, testToday)
	assertContiguous(t, list)
	current := PeriodByDate("2025-11-10", list)
	if current == nil {
		t.Fatal("expected a period containing 2025-11-10")
	}
	if current.ID != "2025-11-M" || current.StartDate != "2025-10-16" || current.EndDate != "2025-11-15" {
		t.Fatalf("unexpected master period: %+v", current)
	}
}

func TestGenerateWeeklyAnchors(t *testing.T) {
	monday := Generate(Rule{Type: RuleWeekly, Options: Options{StartWeekday: WeekStartMonday}}, testToday)
	if len(monday) != 53 {
		t.Fatalf("expected 53 weekly periods, got %d", len(monday))
	}
	assertContiguous(t, monday)
	for _, p := range monday {
		if ParseDate(p.StartDate).Weekday() != time.Monday {
			t.Fatalf("period %s does not start on Monday", p.ID)
		}
	}

	sunday := Generate(Rule{Type: RuleWeekly, Options: Options{StartWeekday: WeekStartSunday}}, testToday)
	for _, p := range sunday {
		if ParseDate(p.StartDate).Weekday() != time.Sunday {
			t.Fatalf("period %s does not start on Sunday", p.ID)
		}
	}
}

func TestGenerateQuarterlyFiscalStart(t *testing.T) {
	list := Generate(Rule{Type: RuleQuarterly, Options: Options{FiscalStartMonth: 4}}, testToday)
	if len(list) != 17 {
		t.Fatalf("expected 17 quarterly periods, got %d", len(list))
	}
	assertContiguous(t, list)
	center := list[8]
	if center.StartDate != "2025-04-01" || center.EndDate != "2025-06-30" {
		t.Fatalf("unexpected center quarter: %+v", center)
	}
	if center.ID != "2025-Q1-4" {
		t.Fatalf("unexpected quarter id: %s", center.ID)
	}
}

func TestGenerateCustomMonthWrap(t *testing.T) {
	// startDay 20 derives endDay 19 of the following month
	list := Generate(Rule{Type: RuleCustomMonth, Options: Options{StartDay: 20}}, testToday)
	assertContiguous(t, list)
	current := PeriodByDate("2025-11-25", list)
	if current == nil {
		t.Fatal("expected a period containing 2025-11-25")
	}
	if current.StartDate != "2025-11-20" || current.EndDate != "2025-12-19" {
		t.Fatalf("unexpected custom period: %+v", current)
	}
}

func TestGenerateCustomMonthClampsToMonthEnd(t *testing.T) {
	list := Generate(Rule{Type: RuleCustomMonth, Options: Options{StartDay: 1, EndDay: 31}}, testToday)
	current := PeriodByDate("2025-11-10", list)
	if current == nil || current.EndDate != "2025-11-30" {
		t.Fatalf("expected end clamped to 2025-11-30, got %+v", current)
	}
	feb := PeriodByDate("2026-02-10", list)
	if feb == nil || feb.EndDate != "2026-02-28" {
		t.Fatalf("expected end clamped to 2026-02-28, got %+v", feb)
	}
}

func TestGenerateUnknownTypeFallsBackToMonthly(t *testing.T) {
	list := Generate(Rule{Type: "fortnightly"}, testToday)
	if len(list) != 25 || list[12].ID != "2025-11" {
		t.Fatalf("expected monthly fallback, got %d periods", len(list))
	}
}

func TestNormalizeLegacyTypes(t *testing.T) {
	cases := map[string]RuleType{
		"half-monthly":   RuleHalfMonth,
		"custom":         RuleCustomMonth,
		"master-monthly": RuleMasterMonth,
		"monthly":        RuleMonthly,
		"":               RuleMonthly,
		"garbage":        RuleMonthly,
	}
	for raw, want := range cases {
		if got := NormalizeType(raw); got != want {
			t.Fatalf("NormalizeType(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestNormalizeDefaultsOptions(t *testing.T) {
	weekly := Normalize(Rule{Type: RuleWeekly})
	if weekly.Options.StartWeekday != WeekStartMonday {
		t.Fatalf("expected monday default, got %q", weekly.Options.StartWeekday)
	}
	quarterly := Normalize(Rule{Type: RuleQuarterly, Options: Options{FiscalStartMonth: 13}})
	if quarterly.Options.FiscalStartMonth != 1 {
		t.Fatalf("expected fiscal start fallback 1, got %d", quarterly.Options.FiscalStartMonth)
	}
	custom := Normalize(Rule{Type: RuleCustomMonth, Options: Options{StartDay: 1}})
	if custom.Options.EndDay != 31 {
		t.Fatalf("expected derived end day 31, got %d", custom.Options.EndDay)
	}
	custom = Normalize(Rule{Type: RuleCustomMonth, Options: Options{StartDay: 20}})
	if custom.Options.EndDay != 19 {
		t.Fatalf("expected derived end day 19, got %d", custom.Options.EndDay)
	}
}

func TestPeriodByDateOutside(t *testing.T) {
	list := Generate(Rule{Type: RuleMonthly}, testToday)
	if p := PeriodByDate("2010-01-01", list); p != nil {
		t.Fatalf("expected nil for date outside window, got %+v", p)
	}
	if p := PeriodByDate("", list); p != nil {
		t.Fatal("expected nil for empty date")
	}
}
