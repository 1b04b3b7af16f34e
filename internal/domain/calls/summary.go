package calls

import "fmt"

// BuildSummaries rebuilds the per-candidate contact summaries from the
// full log set. Summaries are keyed both by candidate id and by
// normalized name so lookups can fall back when a log carries no id.
func BuildSummaries(logs []CallLogRecord) map[string]*ContactSummary {
	out := map[string]*ContactSummary{}

	get := func(key string) *ContactSummary {
		if s, ok := out[key]; ok {
			return s
		}
		s := &ContactSummary{}
		out[key] = s
		return s
	}

	for _, log := range logs {
		primary := CallKey(log)
		if primary == "" {
			continue
		}
		keys := []string{primary}
		// Mirror id-keyed entries under the name key as well.
		if log.CandidateID > 0 {
			if name := NormalizeName(log.Target); name != "" {
				keys = append(keys, "name:"+name)
			}
		}

		code := Classify(log.ResultCode)
		ts := log.Datetime
		for _, key := range keys {
			s := get(key)
			if log.Route == RouteTel {
				s.CallCount++
			}
			if code == CodeSmsSent {
				s.HasSms = true
			}
			if IsConnect(code) {
				s.HasConnected = true
				// >= keeps the last processed record on timestamp ties.
				if s.LastConnectedAt == nil || !ts.Before(*s.LastConnectedAt) {
					t := ts
					s.LastConnectedAt = &t
				}
			}
		}
	}
	return out
}

// SummaryFor looks a candidate up by id first, then by name.
func SummaryFor(summaries map[string]*ContactSummary, candidateID int64, name string) *ContactSummary {
	if candidateID > 0 {
		if s, ok := summaries[fmt.Sprintf("id:%d", candidateID)]; ok {
			return s
		}
	}
	if key := NormalizeName(name); key != "" {
		if s, ok := summaries["name:"+key]; ok {
			return s
		}
	}
	return nil
}
