package service

import (
	"math"
	"testing"
)

func f(v float64) *float64 { return &v }

func TestReconcileEffort_TwoSignals(t *testing.T) {
	cases := []struct {
		name string
		in   EffortInput
		want EffortValues
	}{
		{
			name: "actual plus remaining",
			in:   EffortInput{ActualEffort: f(5), RemainingEffort: f(15)},
			want: EffortValues{ActualEffort: 5, ScheduledEffort: 20, RemainingEffort: 15, PercentComplete: 25},
		},
		{
			name: "scheduled plus remaining",
			in:   EffortInput{ScheduledEffort: f(20), RemainingEffort: f(15)},
			want: EffortValues{ActualEffort: 5, ScheduledEffort: 20, RemainingEffort: 15, PercentComplete: 25},
		},
		{
			name: "scheduled plus percent",
			in:   EffortInput{ScheduledEffort: f(20), PercentComplete: f(25)},
			want: EffortValues{ActualEffort: 5, ScheduledEffort: 20, RemainingEffort: 15, PercentComplete: 25},
		},
		{
			name: "remaining plus percent",
			in:   EffortInput{RemainingEffort: f(15), PercentComplete: f(25)},
			want: EffortValues{ActualEffort: 5, ScheduledEffort: 20, RemainingEffort: 15, PercentComplete: 25},
		},
		{
			name: "actual plus percent",
			in:   EffortInput{ActualEffort: f(5), PercentComplete: f(25)},
			want: EffortValues{ActualEffort: 5, ScheduledEffort: 20, RemainingEffort: 15, PercentComplete: 25},
		},
		{
			name: "actual plus scheduled",
			in:   EffortInput{ActualEffort: f(5), ScheduledEffort: f(20)},
			want: EffortValues{ActualEffort: 5, ScheduledEffort: 20, RemainingEffort: 15, PercentComplete: 25},
		},
		{
			name: "completed task",
			in:   EffortInput{ActualEffort: f(10), PercentComplete: f(100)},
			want: EffortValues{ActualEffort: 10, ScheduledEffort: 10, RemainingEffort: 0, PercentComplete: 100},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ReconcileEffort(tc.in)
			assertEffort(t, got, tc.want)
		})
	}
}

func TestReconcileEffort_AllZeroIsFinal(t *testing.T) {
	got := ReconcileEffort(EffortInput{ActualEffort: f(0), ScheduledEffort: f(0), RemainingEffort: f(0), PercentComplete: f(0)})
	if got != (EffortValues{}) {
		t.Errorf("expected all-zero output, got %+v", got)
	}

	got = ReconcileEffort(EffortInput{})
	if got != (EffortValues{}) {
		t.Errorf("expected all-zero output for absent input, got %+v", got)
	}
}

// When more than two signals are supplied, the later derivation rules win.
// The ladder order is load-bearing compatibility behavior.
func TestReconcile_OverSuppliedSignalsOrder(t *testing.T) {
	// SE and ERE alone give AE = SE - ERE.
	if got := ReconcileEffort(EffortInput{ScheduledEffort: f(100), RemainingEffort: f(60)}); got.ActualEffort != 40 {
		t.Errorf("expected subtraction rule AE=40, got %v", got.ActualEffort)
	}
	// Adding PC lets the remaining*percent rule overwrite it:
	// AE = 60 * 0.25 / 0.75 = 20.
	if got := ReconcileEffort(EffortInput{ScheduledEffort: f(100), RemainingEffort: f(60), PercentComplete: f(25)}); got.ActualEffort != 20 {
		t.Errorf("expected remaining*percent rule AE=20, got %v", got.ActualEffort)
	}
	// Without ERE, the scheduled*percent rule is the last to fire.
	if got := ReconcileEffort(EffortInput{ScheduledEffort: f(100), PercentComplete: f(25)}); got.ActualEffort != 25 {
		t.Errorf("expected scheduled*percent rule AE=25, got %v", got.ActualEffort)
	}
}

func TestReconcileEffort_Invariants(t *testing.T) {
	inputs := []EffortInput{
		{ActualEffort: f(5), RemainingEffort: f(15)},
		{ScheduledEffort: f(20), PercentComplete: f(0.4)},
		{ActualEffort: f(0.2), ScheduledEffort: f(100)},
		{RemainingEffort: f(200), PercentComplete: f(0.3)},
		{ActualEffort: f(3)},
		{ScheduledEffort: f(8)},
		{ActualEffort: f(50), ScheduledEffort: f(20), RemainingEffort: f(10), PercentComplete: f(99)},
	}

	for _, in := range inputs {
		got := ReconcileEffort(in)

		if diff := got.ScheduledEffort - (got.ActualEffort + got.RemainingEffort); math.Abs(diff) > 1e-9 {
			t.Errorf("identity violated for %+v: SE=%v AE=%v ERE=%v", in, got.ScheduledEffort, got.ActualEffort, got.RemainingEffort)
		}
		if got.ActualEffort > 0 && got.PercentComplete < 1 {
			t.Errorf("AE>0 but PC<1 for %+v: %+v", in, got)
		}
		if got.PercentComplete > 0 && got.ActualEffort < 1 {
			t.Errorf("PC>0 but AE<1 for %+v: %+v", in, got)
		}
		if got.PercentComplete < 0 || got.PercentComplete > 100 {
			t.Errorf("PC out of range for %+v: %v", in, got.PercentComplete)
		}
	}
}

// Feeding the engine's own output back in must be a fixed point.
func TestReconcileEffort_Idempotent(t *testing.T) {
	inputs := []EffortInput{
		{ActualEffort: f(5), RemainingEffort: f(15)},
		{ScheduledEffort: f(20), PercentComplete: f(25)},
		{ActualEffort: f(0.2), ScheduledEffort: f(100)},
		{RemainingEffort: f(200), PercentComplete: f(0.3)},
		{ActualEffort: f(10), PercentComplete: f(100)},
	}

	for _, in := range inputs {
		first := ReconcileEffort(in)
		second := ReconcileEffort(EffortInput{
			ActualEffort:    f(first.ActualEffort),
			ScheduledEffort: f(first.ScheduledEffort),
			RemainingEffort: f(first.RemainingEffort),
			PercentComplete: f(first.PercentComplete),
		})
		assertEffort(t, second, first)
	}
}

func TestParsePercent(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{"25%", 25, true},
		{"0.4", 0.4, true},
		{" 80 % ", 80, true},
		{"100%", 100, true},
		{"", 0, false},
		{"   ", 0, false},
		{"n/a", 0, false},
	}
	for _, tc := range cases {
		got := parsePercent(tc.raw)
		if tc.ok != (got != nil) {
			t.Errorf("parsePercent(%q): expected ok=%v, got %v", tc.raw, tc.ok, got)
			continue
		}
		if got != nil && *got != tc.want {
			t.Errorf("parsePercent(%q): expected %v, got %v", tc.raw, tc.want, *got)
		}
	}
}

func TestParseEffort(t *testing.T) {
	if got := parseEffort("12.5"); got == nil || *got != 12.5 {
		t.Errorf("expected 12.5, got %v", got)
	}
	if got := parseEffort("-3"); got == nil || *got != 0 {
		t.Errorf("negative effort should floor to zero, got %v", got)
	}
	if got := parseEffort(""); got != nil {
		t.Errorf("blank effort should have no value, got %v", *got)
	}
	if got := parseEffort("eight"); got != nil {
		t.Errorf("unparsable effort should have no value, got %v", *got)
	}
}

func assertEffort(t *testing.T, got, want EffortValues) {
	t.Helper()
	const eps = 1e-9
	if math.Abs(got.ActualEffort-want.ActualEffort) > eps ||
		math.Abs(got.ScheduledEffort-want.ScheduledEffort) > eps ||
		math.Abs(got.RemainingEffort-want.RemainingEffort) > eps ||
		math.Abs(got.PercentComplete-want.PercentComplete) > eps {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}
