package planner

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/novatripai/novatrip/itinerary"
)

// Text-pattern edits applied when the modification collaborator is
// unavailable. Best-effort by design: anything the patterns cannot express
// reports failure rather than guessing.
var (
	addPattern    = regexp.MustCompile(`(?i)\badd\s+(?:an?\s+)?(.+?)\s+(?:to|on|in)\s+day\s+(\d+)\b`)
	removePattern = regexp.MustCompile(`(?i)\bremove\s+(?:the\s+)?(.+?)\s+from\s+day\s+(\d+)\b`)
	clearPattern  = regexp.MustCompile(`(?i)\bclear\s+day\s+(\d+)\b`)
)

// applyHeuristic edits a copy of the current itinerary according to simple
// instruction patterns ("add X to day N", "remove X from day N",
// "clear day N"). It returns the edited plan as a candidate for validation,
// or ok=false when the instruction could not be interpreted or the day is out
// of range.
func applyHeuristic(current itinerary.Itinerary, instruction string) (itinerary.Candidate, bool) {
	if m := addPattern.FindStringSubmatch(instruction); m != nil {
		day, _ := strconv.Atoi(m[2])
		return addActivity(current, day, strings.TrimSpace(m[1]))
	}
	if m := removePattern.FindStringSubmatch(instruction); m != nil {
		day, _ := strconv.Atoi(m[2])
		return removeActivity(current, day, strings.TrimSpace(m[1]))
	}
	if m := clearPattern.FindStringSubmatch(instruction); m != nil {
		day, _ := strconv.Atoi(m[1])
		return clearDay(current, day)
	}
	return itinerary.Candidate{Kind: itinerary.CandidateMalformed}, false
}

func addActivity(current itinerary.Itinerary, day int, what string) (itinerary.Candidate, bool) {
	if day < 1 || day > len(current.Days) {
		return itinerary.Candidate{Kind: itinerary.CandidateMalformed}, false
	}
	cand := toCandidate(current)
	cand.Days[day-1].Activities = append(cand.Days[day-1].Activities, itinerary.CandidateActivity{
		Time:     "16:00",
		Title:    capitalize(what),
		Cost:     0.0,
		Category: guessCategory(what),
	})
	return cand, true
}

func removeActivity(current itinerary.Itinerary, day int, what string) (itinerary.Candidate, bool) {
	if day < 1 || day > len(current.Days) {
		return itinerary.Candidate{Kind: itinerary.CandidateMalformed}, false
	}
	cand := toCandidate(current)
	activities := cand.Days[day-1].Activities
	needle := strings.ToLower(what)
	for i, a := range activities {
		if strings.Contains(strings.ToLower(a.Title), needle) {
			cand.Days[day-1].Activities = append(activities[:i:i], activities[i+1:]...)
			return cand, true
		}
	}
	return itinerary.Candidate{Kind: itinerary.CandidateMalformed}, false
}

func clearDay(current itinerary.Itinerary, day int) (itinerary.Candidate, bool) {
	if day < 1 || day > len(current.Days) {
		return itinerary.Candidate{Kind: itinerary.CandidateMalformed}, false
	}
	cand := toCandidate(current)
	// Leave the day empty; the validator repairs it with a placeholder.
	cand.Days[day-1].Activities = nil
	return cand, true
}

// toCandidate converts a validated itinerary back into candidate form so the
// edited result flows through the same validation as collaborator output.
func toCandidate(it itinerary.Itinerary) itinerary.Candidate {
	days := make([]itinerary.CandidateDay, len(it.Days))
	for i, d := range it.Days {
		activities := make([]itinerary.CandidateActivity, len(d.Activities))
		for j, a := range d.Activities {
			activities[j] = itinerary.CandidateActivity{
				Time:        a.Time,
				Title:       a.Title,
				Description: a.Description,
				Cost:        a.Cost,
				Category:    a.Category,
				SafetyNote:  a.SafetyNote,
			}
		}
		days[i] = itinerary.CandidateDay{Day: d.Day, Activities: activities}
	}
	return itinerary.Candidate{Kind: itinerary.CandidateStructured, Days: days}
}

var categoryKeywords = []struct {
	category string
	words    []string
}{
	{"food", []string{"lunch", "dinner", "breakfast", "cafe", "restaurant", "food", "tasting"}},
	{"transport", []string{"taxi", "train", "bus", "transfer", "ferry"}},
	{"adventure", []string{"hike", "trek", "dive", "kayak", "climb", "safari"}},
	{"sightseeing", []string{"museum", "gallery", "temple", "fort", "palace", "tour", "monument", "visit"}},
}

func guessCategory(what string) string {
	lower := strings.ToLower(what)
	for _, ck := range categoryKeywords {
		for _, w := range ck.words {
			if strings.Contains(lower, w) {
				return ck.category
			}
		}
	}
	return "leisure"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
