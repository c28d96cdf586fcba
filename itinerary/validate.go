package itinerary

import (
	"fmt"
	"regexp"
	"sort"
)

// placeholderActivity fills days the collaborator left empty or missing.
// Zero-cost so repair never pushes a plan over budget.
func placeholderActivity() Activity {
	return Activity{
		Time:        "10:00",
		Title:       "Free time",
		Description: "Open time to explore at your own pace",
		Cost:        0,
		Category:    "leisure",
	}
}

var clockPattern = regexp.MustCompile(`^\d{1,2}:\d{2}$`)

// Validate checks and repairs a candidate against the canonical itinerary
// shape. Repair is always preferred over rejection: day-count drift, empty
// days, and cost-field noise become warnings. Only a candidate with no
// decodable day plans at all fails, with ErrSchema.
//
// All derived fields (per-day subtotals, total, budget utilization) are
// recomputed from the repaired structure; values carried by the candidate are
// never trusted.
func Validate(c Candidate, expectedDays int, budget Budget, floor float64) (Itinerary, []Warning, error) {
	if expectedDays < 1 {
		return Itinerary{}, nil, fmt.Errorf("%w: expected days must be at least 1", ErrInvalidParameters)
	}
	if c.Kind == CandidateMalformed || len(c.Days) == 0 {
		return Itinerary{}, nil, fmt.Errorf("%w: candidate contains no day plans", ErrSchema)
	}

	var warnings []Warning

	days := append([]CandidateDay(nil), c.Days...)
	sort.SliceStable(days, func(i, j int) bool { return days[i].Day < days[j].Day })

	// Day count mismatch is never fatal: truncate extras, synthesize the rest.
	if len(days) > expectedDays {
		warnings = append(warnings, Warning{
			Code:    WarnDayCountAdjusted,
			Message: fmt.Sprintf("candidate had %d days, truncated to %d", len(days), expectedDays),
		})
		days = days[:expectedDays]
	}
	for len(days) < expectedDays {
		days = append(days, CandidateDay{
			Activities: []CandidateActivity{{
				Time:     "10:00",
				Title:    "Free time",
				Category: "leisure",
			}},
		})
		warnings = append(warnings, Warning{
			Code:    WarnDayCountAdjusted,
			Day:     len(days),
			Message: fmt.Sprintf("candidate was missing day %d, added a free-time placeholder", len(days)),
		})
	}

	out := Itinerary{Days: make([]DayPlan, expectedDays)}
	for i, cd := range days {
		dayNum := i + 1
		plan := DayPlan{Day: dayNum}

		if len(cd.Activities) == 0 {
			plan.Activities = []Activity{placeholderActivity()}
			warnings = append(warnings, Warning{
				Code:    WarnEmptyDayRepaired,
				Day:     dayNum,
				Message: fmt.Sprintf("day %d had no activities, inserted a default one", dayNum),
			})
		} else {
			plan.Activities = make([]Activity, 0, len(cd.Activities))
			for _, ca := range cd.Activities {
				cost, clean := coerceCost(ca.Cost)
				if !clean {
					warnings = append(warnings, Warning{
						Code:    WarnCostCoerced,
						Day:     dayNum,
						Message: fmt.Sprintf("day %d activity %q: cost %v coerced to %v", dayNum, ca.Title, ca.Cost, cost),
					})
				}
				plan.Activities = append(plan.Activities, Activity{
					Time:        ca.Time,
					Title:       ca.Title,
					Description: ca.Description,
					Cost:        roundCurrency(cost),
					Category:    ca.Category,
					SafetyNote:  ca.SafetyNote,
				})
			}
		}

		if !timesNonDecreasing(plan.Activities) {
			warnings = append(warnings, Warning{
				Code:    WarnTimeOrder,
				Day:     dayNum,
				Message: fmt.Sprintf("day %d time labels are not in non-decreasing order", dayNum),
			})
		}

		for _, a := range plan.Activities {
			plan.Subtotal += a.Cost
		}
		plan.Subtotal = roundCurrency(plan.Subtotal)
		out.Days[i] = plan
		out.TotalEstimatedCost += plan.Subtotal
	}
	out.TotalEstimatedCost = roundCurrency(out.TotalEstimatedCost)

	if budget.Amount > 0 {
		out.BudgetUtilization = roundCurrency(out.TotalEstimatedCost/budget.Amount*100) / 100
		if out.BudgetUtilization < floor {
			warnings = append(warnings, Warning{
				Code: WarnBelowBudgetFloor,
				Message: fmt.Sprintf("estimated cost %v uses %.0f%% of budget %s, below the %.0f%% floor",
					out.TotalEstimatedCost, out.BudgetUtilization*100, budget.String(), floor*100),
			})
		}
	}

	return out, warnings, nil
}

// timesNonDecreasing reports whether the clock-formatted time labels in order
// never decrease. Labels that are not HH:MM are skipped rather than flagged.
func timesNonDecreasing(activities []Activity) bool {
	prev := ""
	for _, a := range activities {
		if !clockPattern.MatchString(a.Time) {
			continue
		}
		label := a.Time
		if len(label) == 4 { // pad 9:00 -> 09:00 for lexical comparison
			label = "0" + label
		}
		if prev != "" && label < prev {
			return false
		}
		prev = label
	}
	return true
}
