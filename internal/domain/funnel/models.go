package funnel

// FunnelCounts holds the seven hiring-pipeline stage counts for one
// scope and date range. Counts are derived from candidate records on
// every request; only targets are persisted.
type FunnelCounts struct {
	NewInterviews       int `json:"newInterviews"`
	Proposals           int `json:"proposals"`
	Recommendations     int `json:"recommendations"`
	InterviewsScheduled int `json:"interviewsScheduled"`
	InterviewsHeld      int `json:"interviewsHeld"`
	Offers              int `json:"offers"`
	Accepts             int `json:"accepts"`
}

// Hires is an alias for Accepts kept for display labels that talk about
// hires rather than accepts.
func (c FunnelCounts) Hires() int {
	return c.Accepts
}

// TrendPoint is one bucket of a funnel trend series. Rates are pointers
// so a zero denominator renders as a gap instead of a zero.
type TrendPoint struct {
	Bucket string       `json:"bucket"`
	Counts FunnelCounts `json:"counts"`
	Rates  TrendRates   `json:"rates"`
}

type TrendRates struct {
	ProposalRate          *float64 `json:"proposalRate"`
	RecommendationRate    *float64 `json:"recommendationRate"`
	InterviewScheduleRate *float64 `json:"interviewScheduleRate"`
	InterviewHeldRate     *float64 `json:"interviewHeldRate"`
	OfferRate             *float64 `json:"offerRate"`
	AcceptRate            *float64 `json:"acceptRate"`
	HireRate              *float64 `json:"hireRate"`
}
