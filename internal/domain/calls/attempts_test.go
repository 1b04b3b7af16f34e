package calls

import (
	"testing"
	"time"
)

func telLog(id, candidateID int64, target string, at time.Time) CallLogRecord {
	return CallLogRecord{ID: id, CandidateID: candidateID, Target: target, Route: RouteTel, Datetime: at, ResultCode: "通電"}
}

func TestAssignAttemptsOrdersByTimestamp(t *testing.T) {
	base := time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC)
	logs := []CallLogRecord{
		telLog(3, 1, "山田太郎", base.Add(2*time.Hour)),
		telLog(1, 1, "山田太郎", base),
		telLog(2, 1, "山田太郎", base.Add(time.Hour)),
		telLog(4, 2, "佐藤花子", base),
	}
	AssignAttempts(logs)

	byID := map[int64]int{}
	for _, l := range logs {
		byID[l.ID] = l.CallAttempt
	}
	if byID[1] != 1 || byID[2] != 2 || byID[3] != 3 {
		t.Fatalf("candidate 1 attempts = %v, want 1,2,3 in time order", byID)
	}
	if byID[4] != 1 {
		t.Fatalf("candidate 2 attempt = %d, want 1", byID[4])
	}
}

func TestAssignAttemptsRenumbersAfterDeletion(t *testing.T) {
	base := time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC)
	logs := []CallLogRecord{
		telLog(1, 1, "", base),
		telLog(2, 1, "", base.Add(time.Hour)),
		telLog(3, 1, "", base.Add(2*time.Hour)),
	}
	AssignAttempts(logs)

	// Delete the middle record and renumber the remaining set.
	logs = append(logs[:1], logs[2])
	AssignAttempts(logs)

	if logs[0].CallAttempt != 1 || logs[1].CallAttempt != 2 {
		t.Fatalf("attempts after deletion = %d,%d, want 1,2", logs[0].CallAttempt, logs[1].CallAttempt)
	}
}

func TestAssignAttemptsSkipsNonTelAndKeyless(t *testing.T) {
	base := time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC)
	logs := []CallLogRecord{
		{ID: 1, CandidateID: 1, Route: RouteOther, Datetime: base},
		{ID: 2, Route: RouteTel, Datetime: base}, // no id, no target
		telLog(3, 1, "", base),
	}
	AssignAttempts(logs)

	if logs[0].CallAttempt != 0 {
		t.Fatalf("non-tel record got attempt %d", logs[0].CallAttempt)
	}
	if logs[1].CallAttempt != 0 {
		t.Fatalf("keyless record got attempt %d", logs[1].CallAttempt)
	}
	if logs[2].CallAttempt != 1 {
		t.Fatalf("tel record attempt = %d, want 1", logs[2].CallAttempt)
	}
}

func TestAssignAttemptsFallbackKeys(t *testing.T) {
	base := time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC)
	logs := []CallLogRecord{
		telLog(1, 0, "山田 太郎", base),
		telLog(2, 0, "山田太郎", base.Add(time.Hour)), // same name, whitespace ignored
		telLog(3, 0, "090-1234-5678", base),
		telLog(4, 0, "09012345678", base.Add(time.Hour)), // same phone digits
	}
	AssignAttempts(logs)

	if logs[0].CallAttempt != 1 || logs[1].CallAttempt != 2 {
		t.Fatalf("name-keyed attempts = %d,%d, want 1,2", logs[0].CallAttempt, logs[1].CallAttempt)
	}
	if logs[2].CallAttempt != 1 || logs[3].CallAttempt != 2 {
		t.Fatalf("phone-keyed attempts = %d,%d, want 1,2", logs[2].CallAttempt, logs[3].CallAttempt)
	}
}
