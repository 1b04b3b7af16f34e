package goalshandler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHandleSaveRuleRejectsInvalidPayload(t *testing.T) {
	h := NewHandler(nil, nil)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/goals/rule", bytes.NewBufferString("{bad"))
	rec := httptest.NewRecorder()
	h.handleSaveRule(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed rule payload, got %d", rec.Code)
	}
}

func TestHandleDistributeRejectsInvalidPayload(t *testing.T) {
	h := NewHandler(nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/goals/periods/2025-11/distribute", bytes.NewBufferString("not json"))
	rec := httptest.NewRecorder()
	h.handleDistribute(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed distribute payload, got %d", rec.Code)
	}
}

func TestScopeParamsDefaultsToCompany(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/goals/periods/2025-11/targets", nil)
	scope, advisorID := scopeParams(req)
	if scope != "company" {
		t.Fatalf("expected company scope by default, got %q", scope)
	}
	if advisorID != "" {
		t.Fatalf("expected empty advisor id, got %q", advisorID)
	}
}

func TestScopeParamsPassesExplicitSelection(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/goals/periods/2025-11/targets?scope=personal&advisorId=adv-1", nil)
	scope, advisorID := scopeParams(req)
	if scope != "personal" {
		t.Fatalf("expected personal scope, got %q", scope)
	}
	if advisorID != "adv-1" {
		t.Fatalf("expected adv-1, got %q", advisorID)
	}
}
