package itinerary

import "fmt"

// DefaultUtilizationFloor is the minimum acceptable ratio of planned spend to
// stated budget. Plans below the floor are flagged, not rejected.
const DefaultUtilizationFloor = 0.70

// BudgetPlan holds per-day spend targets derived from the total budget.
// It steers prompt construction and doubles as the post-hoc floor check on
// the parsed result.
type BudgetPlan struct {
	PerDayTarget float64
	MinimumTotal float64
	Floor        float64
}

// AllocateBudget computes the per-day target (total/days, currency precision)
// and the minimum-utilization floor for a trip.
func AllocateBudget(b Budget, days int, floor float64) (BudgetPlan, error) {
	if b.Amount <= 0 {
		return BudgetPlan{}, fmt.Errorf("%w: budget must be positive, got %v", ErrInvalidParameters, b.Amount)
	}
	if days < 1 {
		return BudgetPlan{}, fmt.Errorf("%w: days must be at least 1, got %d", ErrInvalidParameters, days)
	}
	if floor <= 0 || floor > 1 {
		return BudgetPlan{}, fmt.Errorf("%w: utilization floor must be in (0, 1], got %v", ErrInvalidParameters, floor)
	}

	return BudgetPlan{
		PerDayTarget: roundCurrency(b.Amount / float64(days)),
		MinimumTotal: roundCurrency(b.Amount * floor),
		Floor:        floor,
	}, nil
}
