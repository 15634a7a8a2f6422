package types

import "testing"

func TestSubmissionStatus(t *testing.T) {
	cases := []struct {
		name     string
		value    string
		evidence string
		want     string
	}{
		{"empty", "", "", SubmissionMissing},
		{"whitespace value", "   ", "", SubmissionMissing},
		{"value only", "1250", "", SubmissionPartial},
		{"evidence only", "", "bill.pdf", SubmissionPartial},
		{"both", "1250", "bill.pdf", SubmissionComplete},
		{"inactive marker", SentinelInactivePeriod, "", SubmissionInactive},
		{"inactive marker with evidence", SentinelInactivePeriod, "bill.pdf", SubmissionInactive},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := &Submission{Value: tc.value, EvidenceFile: tc.evidence}
			if got := s.Status(); got != tc.want {
				t.Fatalf("Status() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestHasValueExcludesSentinel(t *testing.T) {
	s := &Submission{Value: SentinelInactivePeriod}
	if s.HasValue() {
		t.Fatal("sentinel must not count as a value")
	}
}

func TestPeriodLabel(t *testing.T) {
	cases := []struct {
		month int
		want  string
	}{
		{1, "Jan"},
		{5, "May"},
		{12, "Dec"},
	}
	for _, tc := range cases {
		if got := PeriodLabel(tc.month); got != tc.want {
			t.Fatalf("PeriodLabel(%d) = %q, want %q", tc.month, got, tc.want)
		}
	}
}

func TestCadenceAppliesToMonth(t *testing.T) {
	for m := 1; m <= 12; m++ {
		if !CadenceAppliesToMonth(CadenceMonthly, m) {
			t.Fatalf("monthly must apply to month %d", m)
		}
		if !CadenceAppliesToMonth(CadenceDaily, m) {
			t.Fatalf("daily must apply to month %d", m)
		}
		wantAnnual := m == AnnualReportingMonth
		if CadenceAppliesToMonth(CadenceAnnual, m) != wantAnnual {
			t.Fatalf("annual in month %d: want %v", m, wantAnnual)
		}
		if CadenceAppliesToMonth(CadenceOnInstallation, m) != wantAnnual {
			t.Fatalf("event cadence in month %d: want %v", m, wantAnnual)
		}
	}
}
