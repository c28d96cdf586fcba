package itinerary

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// CandidateKind tags how a candidate was decoded from collaborator output.
type CandidateKind int

const (
	// CandidateMalformed marks output no decoder could shape into day plans.
	CandidateMalformed CandidateKind = iota
	// CandidateStructured came from a directly structured (JSON) response.
	CandidateStructured
	// CandidateFreeText was extracted best-effort from prose.
	CandidateFreeText
)

// Candidate is an unvalidated, possibly malformed plan prior to validation.
// Costs are kept loose (any) so the validator can coerce field-level noise
// like "$20" or "700 INR" instead of rejecting it.
type Candidate struct {
	Kind CandidateKind
	Days []CandidateDay
}

// CandidateDay mirrors DayPlan before repair. Day may be zero or duplicated;
// the validator normalizes indices.
type CandidateDay struct {
	Day        int                 `json:"day"`
	Activities []CandidateActivity `json:"activities"`
}

// CandidateActivity mirrors Activity with an untyped cost.
type CandidateActivity struct {
	Time        string `json:"time"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Cost        any    `json:"cost"`
	Category    string `json:"category"`
	SafetyNote  string `json:"safety_note"`
}

// candidateEnvelope accepts the {"days": [...]} object form.
type candidateEnvelope struct {
	Days []CandidateDay `json:"days"`
}

// DecodeJSONCandidate decodes a structured response. It accepts either an
// object with a "days" array or a bare array of day plans.
func DecodeJSONCandidate(data []byte) (Candidate, bool) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return Candidate{Kind: CandidateMalformed}, false
	}

	if strings.HasPrefix(trimmed, "[") {
		var days []CandidateDay
		if err := json.Unmarshal([]byte(trimmed), &days); err == nil && len(days) > 0 {
			return Candidate{Kind: CandidateStructured, Days: days}, true
		}
		return Candidate{Kind: CandidateMalformed}, false
	}

	var env candidateEnvelope
	if err := json.Unmarshal([]byte(trimmed), &env); err == nil && len(env.Days) > 0 {
		return Candidate{Kind: CandidateStructured, Days: env.Days}, true
	}
	return Candidate{Kind: CandidateMalformed}, false
}

var (
	dayHeaderPattern = regexp.MustCompile(`(?i)^Day\s*(\d+)\s*[:.\-]\s*(.*)$`)
	costLinePattern  = regexp.MustCompile(`(?i)Cost:\s*([0-9]+(?:\.[0-9]+)?)`)
	timeLinePattern  = regexp.MustCompile(`^[\s\-\*•]*(\d{1,2}:\d{2})\s*[:\-–]?\s*(.+)$`)
	bulletPattern    = regexp.MustCompile(`^[\s\-\*•]+(.+)$`)
)

// DecodeFreeTextCandidate extracts day plans from prose of the form the
// collaborator tends to produce when it ignores the JSON instruction:
//
//	Day 1: Arrival
//	 - 09:00: Walk around the local market
//	 - Lunch at Fisherman's Cafe (approx 500 INR)
//	 - Cost: 2000 INR
//
// A line starting "Day N" opens a day; time-labeled and bulleted lines become
// activities; a "Cost: N" line becomes the cost of the day's first activity
// when no activity carried one.
func DecodeFreeTextCandidate(text string) Candidate {
	var days []CandidateDay
	var current *CandidateDay
	var dayCost float64
	var haveDayCost bool

	flush := func() {
		if current == nil {
			return
		}
		// Attach a day-level "Cost: N" to the first activity so totals survive.
		if haveDayCost && len(current.Activities) > 0 {
			current.Activities[0].Cost = dayCost
		}
		days = append(days, *current)
		current = nil
		dayCost = 0
		haveDayCost = false
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, " \t")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if m := dayHeaderPattern.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			flush()
			n, _ := strconv.Atoi(m[1])
			current = &CandidateDay{Day: n}
			if title := strings.TrimSpace(m[2]); title != "" {
				current.Activities = append(current.Activities, CandidateActivity{Title: title})
			}
			continue
		}
		if current == nil {
			continue
		}

		if m := costLinePattern.FindStringSubmatch(line); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				dayCost = v
				haveDayCost = true
			}
			continue
		}
		if m := timeLinePattern.FindStringSubmatch(line); m != nil {
			current.Activities = append(current.Activities, CandidateActivity{
				Time:  m[1],
				Title: strings.TrimSpace(m[2]),
			})
			continue
		}
		if m := bulletPattern.FindStringSubmatch(line); m != nil {
			current.Activities = append(current.Activities, CandidateActivity{
				Title: strings.TrimSpace(m[1]),
			})
		}
	}
	flush()

	if len(days) == 0 {
		return Candidate{Kind: CandidateMalformed}
	}
	return Candidate{Kind: CandidateFreeText, Days: days}
}

var costNumberPattern = regexp.MustCompile(`-?[0-9]+(?:\.[0-9]+)?`)

// coerceCost normalizes an untyped cost field. It returns the numeric value
// and whether the field was already a clean non-negative number. Strings like
// "$20", "700 INR", or "approx 500" parse to their numeric part; anything
// else coerces to zero.
func coerceCost(v any) (float64, bool) {
	switch c := v.(type) {
	case nil:
		return 0, false
	case float64:
		if c < 0 {
			return 0, false
		}
		return c, true
	case int:
		if c < 0 {
			return 0, false
		}
		return float64(c), true
	case json.Number:
		f, err := c.Float64()
		if err != nil || f < 0 {
			return 0, false
		}
		return f, true
	case string:
		m := costNumberPattern.FindString(c)
		if m == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(m, 64)
		if err != nil || f < 0 {
			return 0, false
		}
		return f, false
	default:
		return 0, false
	}
}
