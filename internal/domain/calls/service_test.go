package calls

import (
	"testing"
	"time"

	"atskpi/internal/domain/funnel"
)

func TestBuildKPIRowsByDate(t *testing.T) {
	day1 := time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	logs := []CallLogRecord{
		{Route: RouteTel, Datetime: day1, EmployeeName: "田中", ResultCode: "通電"},
		{Route: RouteTel, Datetime: day1, EmployeeName: "田中", ResultCode: "不在"},
		{Route: RouteTel, Datetime: day1, EmployeeName: "鈴木", ResultCode: "面接設定"},
		{Route: RouteTel, Datetime: day1, EmployeeName: "鈴木", ResultCode: "着座"},
		{Route: RouteTel, Datetime: day2, EmployeeName: "田中", ResultCode: "SMS送信"},
		{Route: RouteOther, Datetime: day1, EmployeeName: "田中", ResultCode: "通電"},
	}

	rows := buildKPIRows(logs, GroupByDate, funnel.BasisSets)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}

	r := rows[0]
	if r.Date != "2025-11-01" {
		t.Fatalf("first bucket = %q", r.Date)
	}
	if r.TotalCalls != 4 {
		t.Fatalf("totalCalls = %d, want 4 (non-tel excluded)", r.TotalCalls)
	}
	if r.ConnectedCalls != 3 || r.NoAnswerCalls != 1 {
		t.Fatalf("connected/noAnswer = %d/%d, want 3/1", r.ConnectedCalls, r.NoAnswerCalls)
	}
	if r.ScheduledCalls != 2 || r.AttendedCalls != 1 {
		t.Fatalf("scheduled/attended = %d/%d, want 2/1", r.ScheduledCalls, r.AttendedCalls)
	}
	if r.ConnectRate != 75.0 {
		t.Fatalf("connectRate = %v, want 75.0", r.ConnectRate)
	}
	if r.ScheduleRate != 66.7 {
		t.Fatalf("scheduleRate = %v, want 66.7", r.ScheduleRate)
	}
	if r.AttendanceRate != 50.0 {
		t.Fatalf("attendanceRate on sets = %v, want 50.0", r.AttendanceRate)
	}

	if rows[1].Date != "2025-11-02" || rows[1].SmsCalls != 1 {
		t.Fatalf("second bucket = %+v", rows[1])
	}
}

func TestBuildKPIRowsByCaller(t *testing.T) {
	at := time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC)
	logs := []CallLogRecord{
		{Route: RouteTel, Datetime: at, EmployeeName: "田中", ResultCode: "通電"},
		{Route: RouteTel, Datetime: at.AddDate(0, 0, 1), EmployeeName: "田中", ResultCode: "通電"},
		{Route: RouteTel, Datetime: at, EmployeeName: "鈴木", ResultCode: "不在"},
	}

	rows := buildKPIRows(logs, GroupByCaller, funnel.BasisContacts)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	byCaller := map[string]KPIRow{}
	for _, r := range rows {
		byCaller[r.Caller] = r
	}
	if byCaller["田中"].TotalCalls != 2 || byCaller["田中"].ConnectRate != 100.0 {
		t.Fatalf("田中 row = %+v", byCaller["田中"])
	}
	if byCaller["鈴木"].ConnectRate != 0 {
		t.Fatalf("鈴木 connectRate = %v, want 0", byCaller["鈴木"].ConnectRate)
	}

	split := buildKPIRows(logs, GroupByCallerDate, funnel.BasisContacts)
	if len(split) != 3 {
		t.Fatalf("caller_date rows = %d, want 3", len(split))
	}
}

func TestBuildKPIRowsZeroDenominators(t *testing.T) {
	at := time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC)
	logs := []CallLogRecord{
		{Route: RouteTel, Datetime: at, EmployeeName: "田中", ResultCode: "不在"},
	}
	rows := buildKPIRows(logs, GroupByDate, funnel.BasisSets)
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	r := rows[0]
	if r.ConnectRate != 0 || r.ScheduleRate != 0 || r.AttendanceRate != 0 {
		t.Fatalf("zero-denominator rates = %+v, want all 0", r)
	}
}
