package planner

import (
	"strings"

	"github.com/novatripai/novatrip/itinerary"
	"github.com/novatripai/novatrip/llm"
)

// ParseCandidate turns raw collaborator output into a candidate structure.
// It accepts, in order of preference: a directly structured JSON response, a
// JSON object or array buried in fences or prose, and a best-effort free-text
// extraction. Anything else comes back tagged malformed and reaches the
// validator's schema failure path.
func ParseCandidate(content string) itinerary.Candidate {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return itinerary.Candidate{Kind: itinerary.CandidateMalformed}
	}

	if c, ok := itinerary.DecodeJSONCandidate([]byte(trimmed)); ok {
		return c
	}

	if extracted := llm.ExtractJSONObject(trimmed); extracted != "" {
		if c, ok := itinerary.DecodeJSONCandidate([]byte(extracted)); ok {
			return c
		}
	}
	if extracted := llm.ExtractJSONArray(trimmed); extracted != "" {
		if c, ok := itinerary.DecodeJSONCandidate([]byte(extracted)); ok {
			return c
		}
	}

	return itinerary.DecodeFreeTextCandidate(trimmed)
}
