package funnel

import "math"

// DenominatorMode selects what each stage's conversion rate divides by.
type DenominatorMode string

const (
	// ModeBase divides every stage by the first-stage count.
	ModeBase DenominatorMode = "base"
	// ModeStep divides each stage by the immediately preceding stage.
	ModeStep DenominatorMode = "step"
)

// AttendanceBasis selects the show-rate denominator for the outbound
// call funnel. It is independent of DenominatorMode.
type AttendanceBasis string

const (
	// BasisSets divides shows by appointments set.
	BasisSets AttendanceBasis = "sets"
	// BasisContacts divides shows by connected-or-later calls.
	BasisContacts AttendanceBasis = "contacts"
)

// Ratio is an unrounded numerator/denominator pair. Callers pick the
// precision; a zero denominator yields zero or nil depending on the
// accessor, never NaN.
type Ratio struct {
	Numer float64 `json:"numerator"`
	Denom float64 `json:"denominator"`
}

func (r Ratio) Value() float64 {
	if r.Denom == 0 {
		return 0
	}
	return r.Numer / r.Denom
}

// Percent1 returns the percentage rounded to one decimal, 0 when the
// denominator is zero. Used by summary cards.
func (r Ratio) Percent1() float64 {
	if r.Denom == 0 {
		return 0
	}
	return math.Round(r.Numer/r.Denom*1000) / 10
}

// PercentInt returns the percentage rounded to the nearest integer.
// Used by compact table cells.
func (r Ratio) PercentInt() int {
	if r.Denom == 0 {
		return 0
	}
	return int(math.Round(r.Numer / r.Denom * 100))
}

// Percent1OrNil returns the one-decimal percentage, or nil when the
// denominator is zero so trend charts can render a gap.
func (r Ratio) Percent1OrNil() *float64 {
	if r.Denom == 0 {
		return nil
	}
	v := r.Percent1()
	return &v
}

// RateBundle carries the seven stage-conversion ratios for one counts
// snapshot.
type RateBundle struct {
	ProposalRate          Ratio
	RecommendationRate    Ratio
	InterviewScheduleRate Ratio
	InterviewHeldRate     Ratio
	OfferRate             Ratio
	AcceptRate            Ratio
	HireRate              Ratio
}

// ComputeRates builds the stage ratios under the given denominator
// convention. Base mode divides everything by new interviews; step mode
// divides each stage by its predecessor, with the hire rate dividing
// hires by accepts.
func ComputeRates(c FunnelCounts, mode DenominatorMode) RateBundle {
	stages := []float64{
		float64(c.NewInterviews),
		float64(c.Proposals),
		float64(c.Recommendations),
		float64(c.InterviewsScheduled),
		float64(c.InterviewsHeld),
		float64(c.Offers),
		float64(c.Accepts),
		float64(c.Hires()),
	}

	denom := func(k int) float64 {
		if mode == ModeStep {
			return stages[k-1]
		}
		return stages[0]
	}

	return RateBundle{
		ProposalRate:          Ratio{Numer: stages[1], Denom: denom(1)},
		RecommendationRate:    Ratio{Numer: stages[2], Denom: denom(2)},
		InterviewScheduleRate: Ratio{Numer: stages[3], Denom: denom(3)},
		InterviewHeldRate:     Ratio{Numer: stages[4], Denom: denom(4)},
		OfferRate:             Ratio{Numer: stages[5], Denom: denom(5)},
		AcceptRate:            Ratio{Numer: stages[6], Denom: denom(6)},
		HireRate:              Ratio{Numer: stages[7], Denom: denom(7)},
	}
}

// ShowRate computes the outbound-funnel attendance rate. The basis is
// its own switch, not a denominator mode.
func ShowRate(shows, sets, contacts int, basis AttendanceBasis) Ratio {
	denom := float64(contacts)
	if basis == BasisSets {
		denom = float64(sets)
	}
	return Ratio{Numer: float64(shows), Denom: denom}
}

// TrendRatesFor converts a bundle into nullable chart values.
func TrendRatesFor(b RateBundle) TrendRates {
	return TrendRates{
		ProposalRate:          b.ProposalRate.Percent1OrNil(),
		RecommendationRate:    b.RecommendationRate.Percent1OrNil(),
		InterviewScheduleRate: b.InterviewScheduleRate.Percent1OrNil(),
		InterviewHeldRate:     b.InterviewHeldRate.Percent1OrNil(),
		OfferRate:             b.OfferRate.Percent1OrNil(),
		AcceptRate:            b.AcceptRate.Percent1OrNil(),
		HireRate:              b.HireRate.Percent1OrNil(),
	}
}

// SummaryRates converts a bundle into zero-filled summary-card values.
type SummaryRates struct {
	ProposalRate          float64 `json:"proposalRate"`
	RecommendationRate    float64 `json:"recommendationRate"`
	InterviewScheduleRate float64 `json:"interviewScheduleRate"`
	InterviewHeldRate     float64 `json:"interviewHeldRate"`
	OfferRate             float64 `json:"offerRate"`
	AcceptRate            float64 `json:"acceptRate"`
	HireRate              float64 `json:"hireRate"`
}

func SummaryRatesFor(b RateBundle) SummaryRates {
	return SummaryRates{
		ProposalRate:          b.ProposalRate.Percent1(),
		RecommendationRate:    b.RecommendationRate.Percent1(),
		InterviewScheduleRate: b.InterviewScheduleRate.Percent1(),
		InterviewHeldRate:     b.InterviewHeldRate.Percent1(),
		OfferRate:             b.OfferRate.Percent1(),
		AcceptRate:            b.AcceptRate.Percent1(),
		HireRate:              b.HireRate.Percent1(),
	}
}
