package funnel

import "testing"

func TestComputeRatesModeSwitch(t *testing.T) {
	counts := FunnelCounts{NewInterviews: 100, Proposals: 50, Recommendations: 25}

	base := ComputeRates(counts, ModeBase)
	if got := base.RecommendationRate.Percent1(); got != 25.0 {
		t.Fatalf("base recommendation rate = %v, want 25.0", got)
	}
	step := ComputeRates(counts, ModeStep)
	if got := step.RecommendationRate.Percent1(); got != 50.0 {
		t.Fatalf("step recommendation rate = %v, want 50.0", got)
	}
}

func TestComputeRatesStepChain(t *testing.T) {
	counts := FunnelCounts{
		NewInterviews:       80,
		Proposals:           40,
		Recommendations:     20,
		InterviewsScheduled: 10,
		InterviewsHeld:      8,
		Offers:              4,
		Accepts:             2,
	}
	b := ComputeRates(counts, ModeStep)

	if got := b.ProposalRate.Percent1(); got != 50.0 {
		t.Fatalf("proposal rate = %v, want 50.0", got)
	}
	if got := b.InterviewHeldRate.Percent1(); got != 80.0 {
		t.Fatalf("held rate = %v, want 80.0", got)
	}
	if got := b.AcceptRate.Percent1(); got != 50.0 {
		t.Fatalf("accept rate = %v, want 50.0", got)
	}
	// Hires alias accepts, so the step hire rate is always 100 when
	// accepts is non-zero.
	if got := b.HireRate.Percent1(); got != 100.0 {
		t.Fatalf("hire rate = %v, want 100.0", got)
	}
}

func TestZeroDenominator(t *testing.T) {
	b := ComputeRates(FunnelCounts{}, ModeBase)

	if got := b.ProposalRate.Percent1(); got != 0 {
		t.Fatalf("summary rate with zero denominator = %v, want 0", got)
	}
	if got := b.ProposalRate.Percent1OrNil(); got != nil {
		t.Fatalf("trend rate with zero denominator = %v, want nil", *got)
	}
	if got := b.ProposalRate.Value(); got != 0 {
		t.Fatalf("raw value with zero denominator = %v, want 0", got)
	}
}

func TestRatioPrecision(t *testing.T) {
	r := Ratio{Numer: 1, Denom: 3}
	if got := r.Percent1(); got != 33.3 {
		t.Fatalf("Percent1 = %v, want 33.3", got)
	}
	if got := r.PercentInt(); got != 33 {
		t.Fatalf("PercentInt = %v, want 33", got)
	}

	r = Ratio{Numer: 2, Denom: 3}
	if got := r.Percent1(); got != 66.7 {
		t.Fatalf("Percent1 = %v, want 66.7", got)
	}
	if got := r.PercentInt(); got != 67 {
		t.Fatalf("PercentInt = %v, want 67", got)
	}
}

func TestShowRateBasis(t *testing.T) {
	if got := ShowRate(3, 6, 12, BasisSets).Percent1(); got != 50.0 {
		t.Fatalf("show rate on sets = %v, want 50.0", got)
	}
	if got := ShowRate(3, 6, 12, BasisContacts).Percent1(); got != 25.0 {
		t.Fatalf("show rate on contacts = %v, want 25.0", got)
	}
	if got := ShowRate(3, 0, 12, BasisSets).Percent1OrNil(); got != nil {
		t.Fatalf("show rate with zero sets = %v, want nil", *got)
	}
}

func TestHiresAliasesAccepts(t *testing.T) {
	c := FunnelCounts{Accepts: 7}
	if c.Hires() != 7 {
		t.Fatalf("Hires() = %d, want 7", c.Hires())
	}
}
