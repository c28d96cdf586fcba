package itinerary

import "errors"

// Domain errors. Repairable issues never surface as errors; they become
// warnings attached to the validated itinerary.
var (
	// ErrInvalidParameters indicates bad trip inputs. User-visible, blocks generation.
	ErrInvalidParameters = errors.New("invalid trip parameters")

	// ErrSchema indicates a candidate that is structurally undecodable and
	// cannot be repaired into day plans.
	ErrSchema = errors.New("itinerary schema error")
)

// WarningCode classifies non-fatal repair notes.
type WarningCode string

const (
	// WarnCostCoerced: a cost field was missing, non-numeric, or negative and
	// was coerced to a parsed or zero value.
	WarnCostCoerced WarningCode = "cost_coerced"
	// WarnDayCountAdjusted: days were truncated or synthesized to match the
	// expected trip length.
	WarnDayCountAdjusted WarningCode = "day_count_adjusted"
	// WarnEmptyDayRepaired: a day with no activities received a default one.
	WarnEmptyDayRepaired WarningCode = "empty_day_repaired"
	// WarnBelowBudgetFloor: utilization fell below the configured floor after
	// repair. Callers may regenerate; validation does not.
	WarnBelowBudgetFloor WarningCode = "below_budget_floor"
	// WarnTimeOrder: time labels within a day are not non-decreasing.
	WarnTimeOrder WarningCode = "time_order"
)

// Warning is a repair note attached to a validated itinerary. Warnings are
// logged or displayed but never block the result.
type Warning struct {
	Code    WarningCode `json:"code"`
	Day     int         `json:"day,omitempty"` // 0 means itinerary-wide
	Message string      `json:"message"`
}

func (w Warning) String() string {
	return string(w.Code) + ": " + w.Message
}
