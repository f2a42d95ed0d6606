package service

import (
	"log"
	"strconv"
	"strings"
)

// EffortInput holds the up-to-four effort signals parsed from one row. A nil
// field means the signal was unmapped or unparsable, which is different from
// an explicit zero.
type EffortInput struct {
	ActualEffort    *float64
	ScheduledEffort *float64
	RemainingEffort *float64
	PercentComplete *float64
}

// EffortValues is a fully settled set of effort metrics:
// ScheduledEffort = ActualEffort + RemainingEffort exactly, and
// PercentComplete is consistent with the two, clamped to [0, 100].
type EffortValues struct {
	ActualEffort    float64
	ScheduledEffort float64
	RemainingEffort float64
	PercentComplete float64
}

// ReconcileEffort derives the missing effort metrics from the supplied ones.
// Users are expected to fill in two independent signals (any two effort
// fields, or one effort field plus percent complete); when more are supplied,
// later derivation rules win over earlier ones. The rule order is fixed for
// compatibility and must not be reordered.
func ReconcileEffort(in EffortInput) EffortValues {
	ae, _ := value(in.ActualEffort)
	se, haveSE := value(in.ScheduledEffort)
	ere, haveERE := value(in.RemainingEffort)
	pc, havePC := value(in.PercentComplete)

	// All-zero rows genuinely have no actuals.
	if ae == 0 && se == 0 && ere == 0 && pc == 0 {
		return EffortValues{}
	}

	if ae == 0 {
		if haveSE && haveERE {
			ae = se - ere
		}
		if haveSE && havePC {
			ae = se * pc / 100
		}
		if haveERE && havePC && pc != 100 {
			ae = ere * (pc / 100) / (1 - pc/100)
		}
	}

	if se == 0 {
		if haveERE {
			se = ae + ere
		} else if havePC && pc != 0 {
			se = ae / (pc / 100)
		}
	}

	if ere == 0 {
		ere = se - ae
	}

	// The host enforces SE = AE + ERE; when all three were supplied
	// inconsistently, AE and ERE win.
	se = ae + ere

	pc = percentOf(ae, se)

	// Never report progress with no recorded effort, nor recorded effort
	// with zero progress.
	if pc > 0 && ae < 1 {
		ae = 1
		se = ae + ere
		pc = percentOf(ae, se)
	}
	if ae > 0 && pc < 1 {
		pc = 1
	}

	return EffortValues{
		ActualEffort:    ae,
		ScheduledEffort: se,
		RemainingEffort: ere,
		PercentComplete: pc,
	}
}

func percentOf(actual, scheduled float64) float64 {
	if actual == 0 || scheduled == 0 {
		return 0
	}
	pc := actual / scheduled * 100
	if pc < 0 {
		return 0
	}
	if pc > 100 {
		return 100
	}
	return pc
}

func value(v *float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return *v, true
}

// parseEffort parses a numeric effort value. Blank or unparsable text yields
// no value rather than zero; negative values are floored to zero.
func parseEffort(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("ignoring unparsable effort value %q: %v", raw, err)
		return nil
	}
	if v < 0 {
		v = 0
	}
	return &v
}

// parsePercent parses a percent-complete display value, stripping one
// trailing "%" if present. The text is already on the 0-100 scale, so no
// division happens here.
func parsePercent(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	raw = strings.TrimSpace(strings.TrimSuffix(raw, "%"))
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("ignoring unparsable percent value %q: %v", raw, err)
		return nil
	}
	return &v
}
