package goals

import "math"

const (
	ScopeCompany  = "company"
	ScopePersonal = "personal"
)

// TargetKeys lists every metric a period target can carry, counts first,
// then the rate targets shown on the settings screen.
var TargetKeys = []string{
	"newInterviewsTarget",
	"proposalsTarget",
	"recommendationsTarget",
	"interviewsScheduledTarget",
	"interviewsHeldTarget",
	"offersTarget",
	"acceptsTarget",
	"revenueTarget",
	"proposalRateTarget",
	"recommendationRateTarget",
	"interviewScheduleRateTarget",
	"interviewHeldRateTarget",
	"offerRateTarget",
	"acceptRateTarget",
	"hireRateTarget",
}

// DailyKeys is the subset of TargetKeys that gets distributed across days.
var DailyKeys = []string{
	"newInterviewsTarget",
	"proposalsTarget",
	"recommendationsTarget",
	"interviewsScheduledTarget",
	"interviewsHeldTarget",
	"offersTarget",
	"acceptsTarget",
}

// Target maps a metric key to its non-negative goal value.
type Target map[string]float64

// DailyTargets maps an ISO date to the target for that day.
type DailyTargets map[string]Target

// NormalizeTarget keeps only known keys and coerces anything missing,
// negative, or non-finite to zero.
func NormalizeTarget(raw Target) Target {
	out := make(Target, len(TargetKeys))
	for _, key := range TargetKeys {
		v := raw[key]
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			v = 0
		}
		out[key] = v
	}
	return out
}

// NormalizeDailyTargets normalizes every day's target in place of the raw map.
func NormalizeDailyTargets(raw DailyTargets) DailyTargets {
	out := make(DailyTargets, len(raw))
	for date, target := range raw {
		out[date] = NormalizeTarget(target)
	}
	return out
}
