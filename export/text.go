// Package export renders a validated itinerary as plain text or PDF. It
// assumes the itinerary is schema-complete: the validator has run and all
// derived fields are populated.
package export

import (
	"fmt"
	"strings"

	"github.com/novatripai/novatrip/itinerary"
)

// Text renders an itinerary as aligned plain text with bullet activities,
// per-day subtotals, and the overall total. It is also the fallback format
// when PDF rendering fails.
func Text(it itinerary.Itinerary, params itinerary.TripParameters) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Itinerary: %s", params.Destination)
	if params.TripType != "" {
		fmt.Fprintf(&b, " (%s)", params.TripType)
	}
	fmt.Fprintf(&b, "\n%d days, budget %s\n", params.Days, params.Budget.String())

	for _, day := range it.Days {
		fmt.Fprintf(&b, "\nDay %d\n", day.Day)
		for _, a := range day.Activities {
			b.WriteString("  • ")
			if a.Time != "" {
				fmt.Fprintf(&b, "%s  ", a.Time)
			}
			b.WriteString(a.Title)
			if a.Cost > 0 {
				fmt.Fprintf(&b, " — %.2f", a.Cost)
			}
			b.WriteString("\n")
			if a.Description != "" {
				fmt.Fprintf(&b, "    %s\n", a.Description)
			}
			if a.SafetyNote != "" {
				fmt.Fprintf(&b, "    Safety: %s\n", a.SafetyNote)
			}
		}
		fmt.Fprintf(&b, "  Day total: %.2f\n", day.Subtotal)
	}

	fmt.Fprintf(&b, "\nTotal estimated cost: %.2f (%.0f%% of budget)\n",
		it.TotalEstimatedCost, it.BudgetUtilization*100)

	return b.String()
}
