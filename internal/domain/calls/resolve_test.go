package calls

import (
	"testing"
	"time"
)

var knownCandidates = []Candidate{
	{ID: 1, Name: "山田太郎", Phone: "090-1234-5678", Email: "yamada@example.com"},
	{ID: 2, Name: "山田", Phone: "080-0000-1111", Email: "y@example.com"},
	{ID: 3, Name: "佐藤花子", Phone: "070-2222-3333", Email: "sato@example.com"},
}

func TestResolveExactName(t *testing.T) {
	rec := CallLogRecord{Target: "佐藤 花子"}
	if got := Resolve(rec, knownCandidates); got != 3 {
		t.Fatalf("Resolve = %d, want 3", got)
	}
}

func TestResolveLongestSubstringWins(t *testing.T) {
	// The target contains both 山田 and 山田太郎; the longer name wins.
	rec := CallLogRecord{Target: "山田太郎様（折返し）"}
	if got := Resolve(rec, knownCandidates); got != 1 {
		t.Fatalf("Resolve = %d, want 1", got)
	}
}

func TestResolvePhoneAndEmail(t *testing.T) {
	if got := Resolve(CallLogRecord{Target: "090 1234 5678"}, knownCandidates); got != 1 {
		t.Fatalf("phone resolve = %d, want 1", got)
	}
	if got := Resolve(CallLogRecord{Target: " SATO@example.com "}, knownCandidates); got != 3 {
		t.Fatalf("email resolve = %d, want 3", got)
	}
}

func TestResolveKeepsExistingID(t *testing.T) {
	rec := CallLogRecord{CandidateID: 2, Target: "山田太郎"}
	if got := Resolve(rec, knownCandidates); got != 2 {
		t.Fatalf("Resolve = %d, want the record's own id 2", got)
	}
}

func TestResolveUnresolvable(t *testing.T) {
	if got := Resolve(CallLogRecord{Target: "未知の人"}, knownCandidates); got != 0 {
		t.Fatalf("Resolve = %d, want 0", got)
	}
}

func TestNormalizers(t *testing.T) {
	if got := NormalizeName("山田　太郎 "); got != "山田太郎" {
		t.Fatalf("NormalizeName = %q", got)
	}
	if got := NormalizePhone("090-1234-5678"); got != "09012345678" {
		t.Fatalf("NormalizePhone = %q", got)
	}
	if got := NormalizeEmail(" Foo@Example.COM "); got != "foo@example.com" {
		t.Fatalf("NormalizeEmail = %q", got)
	}
}

func TestRawCallLogNormalize(t *testing.T) {
	raw := RawCallLog{
		ID:           9,
		CalledAt:     "2025-11-01 09:30:00",
		EmployeeAlt:  "田中",
		Route:        "tel",
		TargetAlt:    "山田太郎",
		CandidateID2: 7,
		Result:       "通電",
	}
	rec := raw.Normalize()

	want := time.Date(2025, 11, 1, 9, 30, 0, 0, time.UTC)
	if !rec.Datetime.Equal(want) {
		t.Fatalf("datetime = %v, want %v", rec.Datetime, want)
	}
	if rec.EmployeeName != "田中" || rec.Target != "山田太郎" {
		t.Fatalf("fallback fields not applied: %+v", rec)
	}
	if rec.CandidateID != 7 {
		t.Fatalf("candidateId = %d, want 7", rec.CandidateID)
	}
	if rec.Route != RouteTel || rec.ResultCode != "通電" {
		t.Fatalf("route/result = %v/%q", rec.Route, rec.ResultCode)
	}

	if got := (RawCallLog{Route: "visit"}).Normalize().Route; got != RouteOther {
		t.Fatalf("unknown route = %v, want other", got)
	}
}
