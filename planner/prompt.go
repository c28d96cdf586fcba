package planner

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/novatripai/novatrip/itinerary"
	"github.com/novatripai/novatrip/llm"
)

// Markers fencing the current itinerary inside a modification prompt, so the
// model cannot confuse plan content with instructions.
const (
	itineraryStartMarker = "<<ITINERARY_START>>"
	itineraryEndMarker   = "<<ITINERARY_END>>"
)

const generationSystemPrompt = `You are a travel assistant. Produce a detailed day-by-day itinerary including activities with timings, food suggestions with approximate costs, and a safety tip per day. Aim to utilize at least 70% of the provided budget, scaling the quality of experiences and comfort level to match it. Do not exceed the total budget.

Respond with a single JSON object of the form:
{"days": [{"day": 1, "activities": [{"time": "09:00", "title": "...", "description": "...", "cost": 0, "category": "sightseeing|food|transport|adventure|leisure", "safety_note": "..."}]}]}

Every time slot must be its own cost-tagged activity entry. Output JSON only, no commentary.`

// buildGenerationMessages assembles the generation prompt from trip
// parameters and the allocated budget targets.
func buildGenerationMessages(params itinerary.TripParameters, plan itinerary.BudgetPlan) []llm.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a day-by-day itinerary.\n")
	fmt.Fprintf(&b, "Destination: %s\n", params.Destination)
	fmt.Fprintf(&b, "Duration: %d days\n", params.Days)
	fmt.Fprintf(&b, "Budget: %s (target roughly %.2f per day, spend at least %.2f in total)\n",
		params.Budget.String(), plan.PerDayTarget, plan.MinimumTotal)
	fmt.Fprintf(&b, "Trip type: %s\n\n", params.TripType)
	b.WriteString("Include per day: a timed schedule, two food suggestions, a cost for every activity, and one safety tip.")

	return []llm.Message{
		{Role: "system", Content: generationSystemPrompt},
		{Role: "user", Content: b.String()},
	}
}

const modificationSystemPrompt = `You are a travel itinerary assistant. You are given the user's current itinerary and an instruction describing edits. Return a single JSON object of the same shape as the input: {"days": [{"day": 1, "activities": [...]}]}.

Requirements:
- Return the COMPLETE itinerary containing every day, not just the modified one.
- Keep days the instruction does not mention unchanged.
- Preserve day numbering unless the instruction asks to add or remove days.
- Output JSON only, no commentary.`

// buildModificationMessages embeds the serialized current itinerary and the
// edit instruction.
func buildModificationMessages(current itinerary.Itinerary, instruction string) ([]llm.Message, error) {
	serialized, err := json.Marshal(current)
	if err != nil {
		return nil, fmt.Errorf("serialize current itinerary: %w", err)
	}

	var b strings.Builder
	b.WriteString("CURRENT ITINERARY (between markers):\n")
	b.WriteString(itineraryStartMarker + "\n")
	b.Write(serialized)
	b.WriteString("\n" + itineraryEndMarker + "\n\n")
	b.WriteString("USER INSTRUCTION:\n")
	b.WriteString(instruction)

	return []llm.Message{
		{Role: "system", Content: modificationSystemPrompt},
		{Role: "user", Content: b.String()},
	}, nil
}
