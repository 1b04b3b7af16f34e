package periods

type RuleType string

const (
	RuleMonthly     RuleType = "monthly"
	RuleHalfMonth   RuleType = "half-month"
	RuleMasterMonth RuleType = "master-month"
	RuleWeekly      RuleType = "weekly"
	RuleQuarterly   RuleType = "quarterly"
	RuleCustomMonth RuleType = "custom-month"
)

const (
	WeekStartMonday = "monday"
	WeekStartSunday = "sunday"
)

type Options struct {
	StartWeekday     string `json:"startWeekday,omitempty"`
	FiscalStartMonth int    `json:"fiscalStartMonth,omitempty"`
	StartDay         int    `json:"startDay,omitempty"`
	EndDay           int    `json:"endDay,omitempty"`
}

type Rule struct {
	Type    RuleType `json:"type"`
	Options Options  `json:"options"`
}

// legacy rule strings stored by older clients
var legacyTypes = map[string]RuleType{
	"half-monthly":   RuleHalfMonth,
	"custom":         RuleCustomMonth,
	"master-monthly": RuleMasterMonth,
}

func knownType(t RuleType) bool {
	switch t {
	case RuleMonthly, RuleHalfMonth, RuleMasterMonth, RuleWeekly, RuleQuarterly, RuleCustomMonth:
		return true
	}
	return false
}

// NormalizeType maps legacy rule-type strings to their canonical form and
// falls back to monthly for anything unrecognized.
func NormalizeType(raw string) RuleType {
	if mapped, ok := legacyTypes[raw]; ok {
		return mapped
	}
	if knownType(RuleType(raw)) {
		return RuleType(raw)
	}
	return RuleMonthly
}

// Normalize returns a rule with a canonical type and fully defaulted options.
func Normalize(raw Rule) Rule {
	rule := Rule{Type: NormalizeType(string(raw.Type)), Options: raw.Options}
	switch rule.Type {
	case RuleWeekly:
		if rule.Options.StartWeekday != WeekStartSunday {
			rule.Options.StartWeekday = WeekStartMonday
		}
	case RuleQuarterly:
		if rule.Options.FiscalStartMonth < 1 || rule.Options.FiscalStartMonth > 12 {
			rule.Options.FiscalStartMonth = 1
		}
	case RuleCustomMonth:
		rule.Options.StartDay = clampDay(rule.Options.StartDay, 1)
		if rule.Options.EndDay == 0 {
			rule.Options.EndDay = derivedEndDay(rule.Options.StartDay)
		} else {
			rule.Options.EndDay = clampDay(rule.Options.EndDay, 31)
		}
	}
	return rule
}

func clampDay(day, fallback int) int {
	if day == 0 {
		return fallback
	}
	if day < 1 {
		return 1
	}
	if day > 31 {
		return 31
	}
	return day
}

// derivedEndDay reproduces the settings-screen convention: the period ends
// the day before it starts, or on the 31st when it starts on the 1st.
func derivedEndDay(startDay int) int {
	if startDay-1 <= 0 {
		return 31
	}
	return startDay - 1
}
