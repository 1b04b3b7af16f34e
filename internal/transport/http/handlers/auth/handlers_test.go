package authhandler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHandleLoginRejectsInvalidPayload(t *testing.T) {
	h := NewHandler(nil, "secret", nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	h.HandleLogin(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed payload, got %d", rec.Code)
	}
}

func TestHandleRefreshRequiresBearerToken(t *testing.T) {
	h := NewHandler(nil, "secret", nil)

	noHeader := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	rec := httptest.NewRecorder()
	h.HandleRefresh(rec, noHeader)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without Authorization header, got %d", rec.Code)
	}

	badScheme := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	badScheme.Header.Set("Authorization", "Basic abc123")
	rec = httptest.NewRecorder()
	h.HandleRefresh(rec, badScheme)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for non-bearer scheme, got %d", rec.Code)
	}

	garbage := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	garbage.Header.Set("Authorization", "Bearer not-a-jwt")
	rec = httptest.NewRecorder()
	h.HandleRefresh(rec, garbage)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unparseable token, got %d", rec.Code)
	}
}

func TestHandleMFASetupRequiresAuthentication(t *testing.T) {
	h := NewHandler(nil, "secret", nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/mfa/setup", nil)
	rec := httptest.NewRecorder()
	h.HandleMFASetup(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without user context, got %d", rec.Code)
	}
}

func TestGenerateTokenIsURLSafeAndUnique(t *testing.T) {
	first, err := generateToken()
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	second, err := generateToken()
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if first == second {
		t.Fatal("expected distinct tokens")
	}
	if len(first) < 40 {
		t.Fatalf("token too short: %d chars", len(first))
	}
}
