package calls

import (
	"fmt"
	"strings"
)

// NormalizeName lower-cases and strips all whitespace, including
// full-width spaces, so 山田 太郎 and 山田太郎 key the same.
func NormalizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch r {
		case ' ', '\t', '\n', '\r', '　':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizePhone strips everything but digits.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CallKey derives the grouping key for attempt numbering and contact
// summaries. Empty when nothing on the record can identify a
// candidate; such records stay in route-level totals but leave
// per-candidate aggregation.
func CallKey(rec CallLogRecord) string {
	if rec.CandidateID > 0 {
		return fmt.Sprintf("id:%d", rec.CandidateID)
	}
	// The target field is free text. Recognizable emails and phone
	// numbers key stronger than the name fallback, which would match
	// any non-empty text.
	target := strings.TrimSpace(rec.Target)
	if email := NormalizeEmail(target); strings.Contains(email, "@") {
		return "email:" + email
	}
	if phone := NormalizePhone(target); phone != "" && len(phone) >= 10 {
		return "phone:" + phone
	}
	if name := NormalizeName(target); name != "" {
		return "name:" + name
	}
	return ""
}

// Resolve finds a candidate id for a log that lacks one. Order: exact
// name match, longest-normalized-substring name match, phone match,
// email match. Returns 0 when nothing resolves.
func Resolve(rec CallLogRecord, candidates []Candidate) int64 {
	if rec.CandidateID > 0 {
		return rec.CandidateID
	}
	target := NormalizeName(rec.Target)
	if target != "" {
		for _, c := range candidates {
			if NormalizeName(c.Name) == target {
				return c.ID
			}
		}
		// Longest candidate name contained in the free-text target wins.
		var best int64
		bestLen := 0
		for _, c := range candidates {
			name := NormalizeName(c.Name)
			if name == "" || !strings.Contains(target, name) {
				continue
			}
			if len(name) > bestLen {
				best = c.ID
				bestLen = len(name)
			}
		}
		if best > 0 {
			return best
		}
	}
	if phone := NormalizePhone(rec.Target); phone != "" {
		for _, c := range candidates {
			if NormalizePhone(c.Phone) == phone {
				return c.ID
			}
		}
	}
	if email := NormalizeEmail(rec.Target); strings.Contains(email, "@") {
		for _, c := range candidates {
			if NormalizeEmail(c.Email) == email {
				return c.ID
			}
		}
	}
	return 0
}
