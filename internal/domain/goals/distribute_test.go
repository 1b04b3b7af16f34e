package goals

import (
	"math"
	"testing"
)

func TestDistributeLastEntryIsExactTotal(t *testing.T) {
	for _, total := range []float64{1, 7, 1000, 999999} {
		for _, n := range []int{1, 7, 30, 31} {
			seq := Distribute(total, n)
			if len(seq) != n {
				t.Fatalf("Distribute(%v,%d) length %d", total, n, len(seq))
			}
			if seq[n-1] != total {
				t.Fatalf("Distribute(%v,%d) last = %v, want exact total", total, n, seq[n-1])
			}
		}
	}
}

func TestDistributePrefixRounding(t *testing.T) {
	seq := Distribute(1000, 7)
	want := []float64{143, 286, 429, 571, 714, 857, 1000}
	for i := range want {
		if seq[i] != want[i] {
			t.Fatalf("seq[%d] = %v, want %v", i, seq[i], want[i])
		}
	}
}

func TestDistributeDegenerate(t *testing.T) {
	if got := Distribute(0, 5); len(got) != 5 {
		t.Fatalf("expected length 5, got %d", len(got))
	} else {
		for i, v := range got {
			if v != 0 {
				t.Fatalf("expected all zeros, got %v at %d", v, i)
			}
		}
	}
	if got := Distribute(-10, 5); got[4] != 0 {
		t.Fatalf("negative total should distribute to zeros, got %v", got)
	}
	if got := Distribute(100, 0); got != nil {
		t.Fatal("expected nil for zero day count")
	}
	if Cumulative(math.NaN(), 0, 5) != 0 {
		t.Fatal("NaN total should yield 0")
	}
}

func TestDistributeRoundTrip(t *testing.T) {
	for _, total := range []float64{0, 1, 999, 1000000} {
		for _, n := range []int{1, 2, 30} {
			seq := Distribute(total, n)
			daily := ToDaily(seq)
			sum := 0.0
			for i, d := range daily {
				sum += d
				if sum != seq[i] {
					t.Fatalf("round trip failed at total=%v n=%d i=%d: %v != %v", total, n, i, sum, seq[i])
				}
			}
		}
	}
}

func TestDistributeActiveSkipsDisabledDays(t *testing.T) {
	dates := []string{"2025-11-01", "2025-11-02", "2025-11-03", "2025-11-04"}
	disabled := map[string]bool{"2025-11-02": true}
	out := DistributeActive(dates, func(d string) bool { return !disabled[d] }, 9)
	if _, ok := out["2025-11-02"]; ok {
		t.Fatal("disabled day should have no entry")
	}
	if out["2025-11-01"] != 3 || out["2025-11-03"] != 6 || out["2025-11-04"] != 9 {
		t.Fatalf("unexpected distribution: %v", out)
	}
}

func TestDistributeActiveEmptyAxis(t *testing.T) {
	out := DistributeActive(nil, nil, 100)
	if len(out) != 0 {
		t.Fatalf("expected empty map, got %v", out)
	}
}
