package planner

import (
	"fmt"
	"strings"

	"github.com/novatripai/novatrip/itinerary"
)

// mockShare is one fixed activity slot in a mock day. Cost shares are
// fractions of the per-day budget target; they sum to 0.75 so the plan lands
// above the 70% utilization floor with slack for rounding.
type mockShare struct {
	time     string
	category string
	share    float64
}

var mockDayShape = []mockShare{
	{time: "09:00", category: "sightseeing", share: 0.25},
	{time: "12:30", category: "food", share: 0.15},
	{time: "14:30", category: "", share: 0.25}, // category follows trip type
	{time: "19:00", category: "food", share: 0.10},
}

// MockPlanner produces a valid candidate itinerary without any external
// call. Mock-mode is first-class: it serves both as the generation fallback
// and as the default when no credential is configured at all.
//
// It is deterministic — identical parameters always produce identical output.
type MockPlanner struct{}

// Plan builds a candidate with params.Days generic days whose costs are fixed
// shares of the per-day budget target.
func (MockPlanner) Plan(params itinerary.TripParameters, plan itinerary.BudgetPlan) itinerary.Candidate {
	days := make([]itinerary.CandidateDay, params.Days)
	for i := range days {
		dayNum := i + 1
		activities := make([]itinerary.CandidateActivity, 0, len(mockDayShape))
		for slot, shape := range mockDayShape {
			a := itinerary.CandidateActivity{
				Time:     shape.time,
				Category: shape.category,
				Cost:     roundedShare(plan.PerDayTarget, shape.share),
			}
			switch slot {
			case 0:
				if dayNum == 1 {
					a.Title = fmt.Sprintf("Arrival and orientation walk in %s", params.Destination)
				} else {
					a.Title = fmt.Sprintf("Morning walk through %s, day %d highlights", params.Destination, dayNum)
				}
				a.SafetyNote = "Carry water and sunscreen."
			case 1:
				a.Title = "Lunch at a well-reviewed local restaurant"
			case 2:
				a.Title = afternoonTitle(params.TripType)
				a.Category = afternoonCategory(params.TripType)
			case 3:
				a.Title = "Dinner featuring regional specialties"
			}
			activities = append(activities, a)
		}
		days[i] = itinerary.CandidateDay{Day: dayNum, Activities: activities}
	}

	return itinerary.Candidate{Kind: itinerary.CandidateStructured, Days: days}
}

func afternoonTitle(tripType string) string {
	switch strings.ToLower(tripType) {
	case "adventure":
		return "Guided outdoor excursion"
	case "cultural":
		return "Museum and heritage district visit"
	case "relaxation":
		return "Afternoon at a spa or quiet beach"
	default:
		return "Guided local experience"
	}
}

func afternoonCategory(tripType string) string {
	switch strings.ToLower(tripType) {
	case "adventure":
		return "adventure"
	case "relaxation":
		return "leisure"
	default:
		return "sightseeing"
	}
}

// roundedShare keeps mock costs at currency precision so derived totals stay
// stable across runs.
func roundedShare(perDay, share float64) float64 {
	v := perDay * share
	return float64(int64(v*100+0.5)) / 100
}
