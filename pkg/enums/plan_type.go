package enums

import "fmt"

// PlanType defines the recurrence cadence of a patient plan.
type PlanType string

const (
	PlanTypeMonthly    PlanType = "MONTHLY"
	PlanTypeQuarterly  PlanType = "QUARTERLY"
	PlanTypeSemiannual PlanType = "SEMIANNUAL"
	PlanTypeAnnual     PlanType = "ANNUAL"
	PlanTypeOneOff     PlanType = "ONE_OFF"
)

var validPlanTypes = []PlanType{
	PlanTypeMonthly,
	PlanTypeQuarterly,
	PlanTypeSemiannual,
	PlanTypeAnnual,
	PlanTypeOneOff,
}

// String implements fmt.Stringer.
func (p PlanType) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PlanType.
func (p PlanType) IsValid() bool {
	for _, candidate := range validPlanTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// Months returns how many months a single cycle of the plan spans.
// One-off plans have no cycle and return 0.
func (p PlanType) Months() int {
	switch p {
	case PlanTypeMonthly:
		return 1
	case PlanTypeQuarterly:
		return 3
	case PlanTypeSemiannual:
		return 6
	case PlanTypeAnnual:
		return 12
	default:
		return 0
	}
}

// ParsePlanType converts the raw string to PlanType.
func ParsePlanType(value string) (PlanType, error) {
	for _, candidate := range validPlanTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid plan type %q", value)
}
