package kpihandler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"atskpi/internal/domain/funnel"
)

func TestModeFallsBackToHandlerDefault(t *testing.T) {
	h := NewHandler(nil, nil, nil, funnel.ModeBase)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/kpi/summary", nil)
	if got := h.mode(req); got != funnel.ModeBase {
		t.Fatalf("expected base default, got %q", got)
	}

	h.DefaultMode = funnel.ModeStep
	if got := h.mode(req); got != funnel.ModeStep {
		t.Fatalf("expected step default, got %q", got)
	}
}

func TestModeQueryParamOverridesDefault(t *testing.T) {
	h := NewHandler(nil, nil, nil, funnel.ModeStep)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/kpi/summary?mode=base", nil)
	if got := h.mode(req); got != funnel.ModeBase {
		t.Fatalf("expected base from query, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/kpi/summary?mode=bogus", nil)
	if got := h.mode(req); got != funnel.ModeStep {
		t.Fatalf("expected default for unknown mode, got %q", got)
	}
}

func TestAdvisorParamPassesThroughWithoutUser(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/kpi/summary?advisorId=adv-9", nil)
	if got := advisorParam(req); got != "adv-9" {
		t.Fatalf("expected adv-9, got %q", got)
	}
}
