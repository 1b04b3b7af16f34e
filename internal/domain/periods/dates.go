package periods

import "time"

const ISODate = "2006-01-02"

func FormatDate(t time.Time) string {
	return t.Format(ISODate)
}

// ParseDate returns the zero time for empty or unparseable input.
func ParseDate(value string) time.Time {
	parsed, err := time.Parse(ISODate, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

// Dates enumerates every calendar day from start through end inclusive.
// A zero boundary or an inverted range yields an empty slice. Goal
// distribution and day tables share this enumeration so their lengths
// always agree.
func Dates(start, end time.Time) []time.Time {
	if start.IsZero() || end.IsZero() || start.After(end) {
		return nil
	}
	var out []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// DateStrings is Dates over ISO strings, used where callers hold the
// period's stored string boundaries.
func DateStrings(start, end string) []string {
	days := Dates(ParseDate(start), ParseDate(end))
	out := make([]string, 0, len(days))
	for _, d := range days {
		out = append(out, FormatDate(d))
	}
	return out
}
