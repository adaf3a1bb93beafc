package plans

import (
	"github.com/appnutry/nutry-backend/pkg/enums"
	pkgerrors "github.com/appnutry/nutry-backend/pkg/errors"
	"github.com/appnutry/nutry-backend/pkg/types"
)

// Schedule holds the derived dates for a plan. Both fields are nil when the
// start date has not been set yet.
type Schedule struct {
	EndDate         *types.Date
	NextPaymentDate *types.Date
}

// ComputeSchedule derives the end and next-payment dates from a start date and
// plan type. Recurring plans advance by whole months with the day clamped to
// the last day of the target month, so a Jan 31 monthly plan renews on the last
// day of February instead of rolling into March. One-off plans end the day they
// start and never schedule a payment.
func ComputeSchedule(planType enums.PlanType, start *types.Date) (Schedule, error) {
	if !planType.IsValid() {
		return Schedule{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown plan type").
			WithDetails(map[string]any{"type": string(planType)})
	}
	if start == nil {
		return Schedule{}, nil
	}

	if planType == enums.PlanTypeOneOff {
		end := *start
		return Schedule{EndDate: &end}, nil
	}

	end := start.AddMonths(planType.Months())
	next := start.AddMonths(planType.Months())
	return Schedule{EndDate: &end, NextPaymentDate: &next}, nil
}
