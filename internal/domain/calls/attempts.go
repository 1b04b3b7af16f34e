package calls

import "sort"

// AssignAttempts renumbers callAttempt over the entire log set. Only
// route=tel records with a derivable call key get numbers; everything
// else is reset to zero. The whole set is renumbered on every call, so
// deletions can never leave stale numbers behind.
func AssignAttempts(logs []CallLogRecord) {
	groups := map[string][]int{}
	for i := range logs {
		logs[i].CallAttempt = 0
		if logs[i].Route != RouteTel {
			continue
		}
		key := CallKey(logs[i])
		if key == "" {
			continue
		}
		groups[key] = append(groups[key], i)
	}

	for _, indexes := range groups {
		sort.SliceStable(indexes, func(a, b int) bool {
			la, lb := logs[indexes[a]], logs[indexes[b]]
			if la.Datetime.Equal(lb.Datetime) {
				return la.ID < lb.ID
			}
			return la.Datetime.Before(lb.Datetime)
		})
		for n, idx := range indexes {
			logs[idx].CallAttempt = n + 1
		}
	}
}
