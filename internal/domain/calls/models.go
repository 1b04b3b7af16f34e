package calls

import "time"

// Route separates outbound phone work from every other contact channel.
type Route string

const (
	RouteTel   Route = "tel"
	RouteOther Route = "other"
)

// CallLogRecord is the canonical call-log shape. Everything past the
// ingestion boundary works on this struct only.
type CallLogRecord struct {
	ID           int64     `json:"id"`
	Datetime     time.Time `json:"datetime"`
	EmployeeName string    `json:"employeeName"`
	Route        Route     `json:"route"`
	Target       string    `json:"target"`
	CandidateID  int64     `json:"candidateId,omitempty"`
	ResultCode   string    `json:"resultCode"`
	Memo         string    `json:"memo,omitempty"`
	// CallAttempt is derived. It is reassigned over the whole log set
	// after every mutation, never patched incrementally.
	CallAttempt int `json:"callAttempt,omitempty"`
}

// RawCallLog is the loose shape accepted from imports and older API
// clients, where the same field arrives under several names. It exists
// so the fallback chains live here and nowhere else.
type RawCallLog struct {
	ID          int64  `json:"id"`
	Datetime    string `json:"datetime"`
	CalledAt    string `json:"called_at"`
	CallDate    string `json:"callDate"`
	Employee    string `json:"employeeName"`
	EmployeeAlt string `json:"caller_name"`
	Route       string `json:"route"`
	Target      string `json:"target"`
	TargetAlt   string `json:"candidate_name"`
	CandidateID int64  `json:"candidateId"`
	CandidateID2 int64 `json:"candidate_id"`
	Result      string `json:"result"`
	ResultAlt   string `json:"resultCode"`
	Memo        string `json:"memo"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Normalize converts a raw log into the canonical record. Unparseable
// datetimes come out as the zero time and unknown routes as RouteOther.
func (r RawCallLog) Normalize() CallLogRecord {
	raw := firstNonEmpty(r.Datetime, r.CalledAt, r.CallDate)
	var ts time.Time
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			ts = t
			break
		}
	}

	route := RouteOther
	if r.Route == string(RouteTel) {
		route = RouteTel
	}

	candidateID := r.CandidateID
	if candidateID == 0 {
		candidateID = r.CandidateID2
	}

	return CallLogRecord{
		ID:           r.ID,
		Datetime:     ts,
		EmployeeName: firstNonEmpty(r.Employee, r.EmployeeAlt),
		Route:        route,
		Target:       firstNonEmpty(r.Target, r.TargetAlt),
		CandidateID:  candidateID,
		ResultCode:   firstNonEmpty(r.Result, r.ResultAlt),
		Memo:         r.Memo,
	}
}

// Candidate is the slice of the candidate record the call engine needs
// for fuzzy resolution and attendance lookups.
type Candidate struct {
	ID                  int64  `json:"id"`
	Name                string `json:"name"`
	Phone               string `json:"phone,omitempty"`
	Email               string `json:"email,omitempty"`
	AttendanceConfirmed bool   `json:"attendanceConfirmed"`
}

// ContactSummary is the per-candidate aggregate over the full log set.
// Rebuilt from scratch on every change.
type ContactSummary struct {
	CallCount       int        `json:"callCount"`
	HasConnected    bool       `json:"hasConnected"`
	HasSms          bool       `json:"hasSms"`
	LastConnectedAt *time.Time `json:"lastConnectedAt,omitempty"`
}
