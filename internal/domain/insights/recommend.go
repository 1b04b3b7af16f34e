package insights

import (
	"fmt"
	"math"
	"sort"
	"time"

	"atskpi/internal/domain/calls"
)

// Kind tags how a recommendation was chosen.
type Kind string

const (
	// KindLift recommends the bucket with the best smoothed lift.
	KindLift Kind = "lift"
	// KindVolume falls back to the busiest bucket when no lift clears
	// the threshold.
	KindVolume Kind = "volume"
	// KindLowSample signals that the data is too thin to rank at all.
	KindLowSample Kind = "lowSample"
)

// Smoothing priors and lift thresholds, in percentage points. Slot
// buckets are noisier than attempt buckets and get the heavier prior.
const (
	slotPrior    = 6.0
	attemptPrior = 4.0

	slotLiftThreshold    = 6.0
	attemptLiftThreshold = 3.0
)

// Bucket is one ranked cell of the heatmap or attempt table.
type Bucket struct {
	Label      string  `json:"label"`
	Samples    int     `json:"samples"`
	Hits       int     `json:"hits"`
	RawRate    float64 `json:"rawRate"`
	ShrunkRate float64 `json:"shrunkRate"`
	Lift       float64 `json:"lift"`
	Score      float64 `json:"score"`
}

// Recommendation is the engine's answer for one bucket family.
type Recommendation struct {
	Kind         Kind     `json:"kind"`
	Bucket       *Bucket  `json:"bucket,omitempty"`
	Baseline     float64  `json:"baseline"`
	TotalSamples int      `json:"totalSamples"`
	MinSamples   int      `json:"minSamples"`
	Buckets      []Bucket `json:"buckets"`
}

var weekdayLabels = [7]string{"日", "月", "火", "水", "木", "金", "土"}

// SlotOf buckets a timestamp into weekday plus two-hour band.
func SlotOf(t time.Time) string {
	band := t.Hour() / 2 * 2
	return fmt.Sprintf("%s %02d-%02d時", weekdayLabels[int(t.Weekday())], band, band+2)
}

// RecommendSlots ranks weekday and time-of-day slots by smoothed
// connect-rate lift over the baseline.
func RecommendSlots(logs []calls.CallLogRecord) Recommendation {
	return recommend(logs, slotPrior, slotLiftThreshold, func(rec calls.CallLogRecord) (string, bool) {
		return SlotOf(rec.Datetime), true
	})
}

// RecommendAttempts ranks call-attempt numbers the same way. Records
// without a derived attempt number are outside every bucket but still
// count toward the baseline.
func RecommendAttempts(logs []calls.CallLogRecord) Recommendation {
	return recommend(logs, attemptPrior, attemptLiftThreshold, func(rec calls.CallLogRecord) (string, bool) {
		if rec.CallAttempt <= 0 {
			return "", false
		}
		return fmt.Sprintf("%d回目", rec.CallAttempt), true
	})
}

func recommend(logs []calls.CallLogRecord, prior, liftThreshold float64, bucketOf func(calls.CallLogRecord) (string, bool)) Recommendation {
	type tally struct{ samples, hits int }
	tallies := map[string]*tally{}
	var order []string

	total := 0
	totalHits := 0
	for _, rec := range logs {
		if rec.Route != calls.RouteTel {
			continue
		}
		hit := calls.IsConnect(calls.Classify(rec.ResultCode))
		total++
		if hit {
			totalHits++
		}

		label, ok := bucketOf(rec)
		if !ok {
			continue
		}
		tl, seen := tallies[label]
		if !seen {
			tl = &tally{}
			tallies[label] = tl
			order = append(order, label)
		}
		tl.samples++
		if hit {
			tl.hits++
		}
	}

	floor := minSamples(total)
	out := Recommendation{TotalSamples: total, MinSamples: floor}
	if total == 0 {
		out.Kind = KindLowSample
		return out
	}

	baseline := float64(totalHits) / float64(total) * 100
	out.Baseline = round1(baseline)

	sort.Strings(order)
	for _, label := range order {
		tl := tallies[label]
		raw := float64(tl.hits) / float64(tl.samples) * 100
		shrunk := (float64(tl.hits) + baseline/100*prior) / (float64(tl.samples) + prior) * 100
		lift := shrunk - baseline
		out.Buckets = append(out.Buckets, Bucket{
			Label:      label,
			Samples:    tl.samples,
			Hits:       tl.hits,
			RawRate:    round1(raw),
			ShrunkRate: round1(shrunk),
			Lift:       round1(lift),
			Score:      lift * math.Sqrt(float64(tl.samples)),
		})
	}

	if total < floor {
		out.Kind = KindLowSample
		return out
	}

	var top *Bucket
	for i := range out.Buckets {
		b := &out.Buckets[i]
		if b.Samples < floor {
			continue
		}
		if top == nil || b.Score > top.Score {
			top = b
		}
	}
	if top != nil && top.Lift >= liftThreshold {
		out.Kind = KindLift
		out.Bucket = top
		return out
	}

	// Nothing clears the lift bar; point at the busiest bucket so the
	// team knows where more data would help.
	var busiest *Bucket
	for i := range out.Buckets {
		b := &out.Buckets[i]
		if busiest == nil || b.Samples > busiest.Samples {
			busiest = b
		}
	}
	if busiest == nil {
		out.Kind = KindLowSample
		return out
	}
	out.Kind = KindVolume
	out.Bucket = busiest
	return out
}

// minSamples is the eligibility floor for ranked buckets.
func minSamples(total int) int {
	floor := int(math.Ceil(float64(total) * 0.05))
	if floor < 5 {
		floor = 5
	}
	return floor
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
