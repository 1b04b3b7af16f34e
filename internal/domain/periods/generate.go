package periods

import (
	"fmt"
	"time"
)

type Period struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// Generate builds the rolling window of evaluation periods for a rule,
// relative to today. The window sizes match the settings screen: 12 cycles
// either side for month-based rules, 26 weeks, 8 quarters.
func Generate(rule Rule, today time.Time) []Period {
	rule = Normalize(rule)
	switch rule.Type {
	case RuleHalfMonth:
		return halfMonthPeriods(today)
	case RuleMasterMonth:
		return masterMonthPeriods(today)
	case RuleWeekly:
		return weeklyPeriods(today, rule.Options.StartWeekday)
	case RuleQuarterly:
		return quarterlyPeriods(today, rule.Options.FiscalStartMonth)
	case RuleCustomMonth:
		return customMonthPeriods(today, rule.Options.StartDay, rule.Options.EndDay)
	default:
		return monthlyPeriods(today)
	}
}

// PeriodByDate returns the period containing the given ISO date, or nil.
func PeriodByDate(date string, list []Period) *Period {
	target := ParseDate(date)
	if target.IsZero() {
		return nil
	}
	for i := range list {
		start := ParseDate(list[i].StartDate)
		end := ParseDate(list[i].EndDate)
		if start.IsZero() || end.IsZero() {
			continue
		}
		if !target.Before(start) && !target.After(end) {
			return &list[i]
		}
	}
	return nil
}

func monthlyPeriods(today time.Time) []Period {
	var out []Period
	for offset := -12; offset <= 12; offset++ {
		base := time.Date(today.Year(), today.Month()+time.Month(offset), 1, 0, 0, 0, 0, time.UTC)
		start := base
		end := time.Date(base.Year(), base.Month()+1, 0, 0, 0, 0, 0, time.UTC)
		out = append(out, Period{
			ID:        fmt.Sprintf("%04d-%02d", base.Year(), int(base.Month())),
			Label:     fmt.Sprintf("%d年%02d月", base.Year(), int(base.Month())),
			StartDate: FormatDate(start),
			EndDate:   FormatDate(end),
		})
	}
	return out
}

func halfMonthPeriods(today time.Time) []Period {
	var out []Period
	for offset := -12; offset <= 12; offset++ {
		base := time.Date(today.Year(), today.Month()+time.Month(offset), 1, 0, 0, 0, 0, time.UTC)
		year, month := base.Year(), base.Month()
		monthLabel := fmt.Sprintf("%d年%02d月", year, int(month))
		endOfMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
		out = append(out,
			Period{
				ID:        fmt.Sprintf("%04d-%02d-H1", year, int(month)),
				Label:     monthLabel + "前半",
				StartDate: FormatDate(base),
				EndDate:   FormatDate(time.Date(year, month, 15, 0, 0, 0, 0, time.UTC)),
			},
			Period{
				ID:        fmt.Sprintf("%04d-%02d-H2", year, int(month)),
				Label:     monthLabel + "後半",
				StartDate: FormatDate(time.Date(year, month, 16, 0, 0, 0, 0, time.UTC)),
				EndDate:   FormatDate(endOfMonth),
			},
		)
	}
	return out
}

// masterMonthPeriods labels a period for month M while spanning the
// previous month's 16th through M's 15th, pay-cycle style.
func masterMonthPeriods(today time.Time) []Period {
	var out []Period
	for offset := -12; offset <= 12; offset++ {
		base := time.Date(today.Year(), today.Month()+time.Month(offset), 1, 0, 0, 0, 0, time.UTC)
		year, month := base.Year(), base.Month()
		start := time.Date(year, month-1, 16, 0, 0, 0, 0, time.UTC)
		end := time.Date(year, month, 15, 0, 0, 0, 0, time.UTC)
		out = append(out, Period{
			ID:        fmt.Sprintf("%04d-%02d-M", year, int(month)),
			Label:     fmt.Sprintf("%d年%02d月度", year, int(month)),
			StartDate: FormatDate(start),
			EndDate:   FormatDate(end),
		})
	}
	return out
}

func weeklyPeriods(today time.Time, startWeekday string) []Period {
	anchor := 1 // Monday
	if startWeekday == WeekStartSunday {
		anchor = 0
	}
	base := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	var out []Period
	for offset := -26; offset <= 26; offset++ {
		day := base.AddDate(0, 0, offset*7)
		diff := (int(day.Weekday()) - anchor + 7) % 7
		start := day.AddDate(0, 0, -diff)
		end := start.AddDate(0, 0, 6)
		out = append(out, Period{
			ID:        FormatDate(start),
			Label:     FormatDate(start) + "〜" + FormatDate(end),
			StartDate: FormatDate(start),
			EndDate:   FormatDate(end),
		})
	}
	return out
}

func quarterlyPeriods(today time.Time, fiscalStartMonth int) []Period {
	var out []Period
	for offset := -8; offset <= 8; offset++ {
		monthIndex := fiscalStartMonth - 1 + offset*3
		startMonth := ((monthIndex % 12) + 12) % 12
		startYear := today.Year() + floorDiv(monthIndex, 12)
		start := time.Date(startYear, time.Month(startMonth+1), 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(startYear, time.Month(startMonth+1)+3, 0, 0, 0, 0, 0, time.UTC)
		qIndex := ((offset%4)+4)%4 + 1
		out = append(out, Period{
			ID:        fmt.Sprintf("%04d-Q%d-%d", start.Year(), qIndex, fiscalStartMonth),
			Label:     fmt.Sprintf("Q%d（%s〜%s）", qIndex, FormatDate(start), FormatDate(end)),
			StartDate: FormatDate(start),
			EndDate:   FormatDate(end),
		})
	}
	return out
}

func customMonthPeriods(today time.Time, startDay, endDay int) []Period {
	var out []Period
	for offset := -12; offset <= 12; offset++ {
		base := time.Date(today.Year(), today.Month()+time.Month(offset), 1, 0, 0, 0, 0, time.UTC)
		year, month := base.Year(), base.Month()
		start := safeDay(year, month, startDay)
		var end time.Time
		if startDay <= endDay {
			end = safeDay(year, month, endDay)
		} else {
			next := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC)
			end = safeDay(next.Year(), next.Month(), endDay)
		}
		out = append(out, Period{
			ID:        fmt.Sprintf("%04d-%02d-C", year, int(month)),
			Label:     fmt.Sprintf("%d年%02d月（%s〜%s）", year, int(month), FormatDate(start), FormatDate(end)),
			StartDate: FormatDate(start),
			EndDate:   FormatDate(end),
		})
	}
	return out
}

// safeDay clamps a day-of-month to the month's real last day, so day 31 in
// a 30-day month lands on the 30th.
func safeDay(year int, month time.Month, day int) time.Time {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
