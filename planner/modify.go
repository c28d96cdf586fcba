package planner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/novatripai/novatrip/itinerary"
	"github.com/novatripai/novatrip/llm"
	"github.com/novatripai/novatrip/metrics"
)

// Modifier applies a natural-language edit instruction to a validated
// itinerary. Results flow through the same tolerant validation as fresh
// generation, so cost-field noise or minor shape drift introduced by the
// model repairs silently instead of rejecting the edit.
type Modifier struct {
	client llm.Completer // nil means heuristic-only
	cfg    Config
	logger *slog.Logger
}

// ModifierOption configures a Modifier.
type ModifierOption func(*Modifier)

// WithModifierLogger sets the logger.
func WithModifierLogger(logger *slog.Logger) ModifierOption {
	return func(m *Modifier) {
		m.logger = logger
	}
}

// NewModifier creates a Modifier. Pass a nil client to run heuristic-only.
func NewModifier(client llm.Completer, cfg Config, opts ...ModifierOption) *Modifier {
	m := &Modifier{
		client: client,
		cfg:    cfg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ModifyResult is a successful modification: the new itinerary plus the
// restorable copy of the prior state. The snapshot is taken before any
// mutation and stays independently valid after the new plan is built.
type ModifyResult struct {
	Itinerary itinerary.Itinerary
	Snapshot  itinerary.Itinerary
	Warnings  []itinerary.Warning
}

// Modify produces a new validated itinerary from the current one and an edit
// instruction. On an unrepairable schema failure it returns an error and no
// result; the caller keeps the original itinerary and commits nothing.
func (m *Modifier) Modify(ctx context.Context, current itinerary.Itinerary, instruction string, params itinerary.TripParameters) (*ModifyResult, error) {
	if strings.TrimSpace(instruction) == "" {
		return nil, fmt.Errorf("%w: modification instruction is empty", itinerary.ErrInvalidParameters)
	}
	if len(current.Days) == 0 {
		return nil, fmt.Errorf("%w: no itinerary to modify", itinerary.ErrInvalidParameters)
	}

	snapshot := current.Clone()

	candidate, err := m.candidate(ctx, current, instruction)
	if err != nil {
		return nil, err
	}

	it, warnings, err := itinerary.Validate(candidate, params.Days, params.Budget, m.cfg.UtilizationFloor)
	if err != nil {
		return nil, fmt.Errorf("modify itinerary: %w", err)
	}

	countRepairs(warnings)
	return &ModifyResult{Itinerary: it, Snapshot: snapshot, Warnings: warnings}, nil
}

// candidate obtains the revised plan from the collaborator, degrading to the
// local heuristic editor when the collaborator is unavailable or its output
// is malformed.
func (m *Modifier) candidate(ctx context.Context, current itinerary.Itinerary, instruction string) (itinerary.Candidate, error) {
	if m.collaboratorUsable() {
		messages, err := buildModificationMessages(current, instruction)
		if err != nil {
			return itinerary.Candidate{}, err
		}

		resp, err := m.client.Complete(ctx, llm.Request{
			Messages:    messages,
			Temperature: m.cfg.temperature(),
			MaxTokens:   m.cfg.MaxTokens,
		})
		if err == nil {
			if cand := ParseCandidate(resp.Content); cand.Kind != itinerary.CandidateMalformed {
				return cand, nil
			}
			m.logger.Warn("modification response malformed, trying heuristic editor")
		} else {
			m.logger.Warn("modification collaborator failed, trying heuristic editor", "error", err)
		}
		metrics.Fallbacks.WithLabelValues("modify").Inc()
	}

	if cand, ok := applyHeuristic(current, instruction); ok {
		return cand, nil
	}
	return itinerary.Candidate{}, fmt.Errorf("%w: could not interpret instruction %q", itinerary.ErrSchema, instruction)
}

func (m *Modifier) collaboratorUsable() bool {
	if m.client == nil {
		return false
	}
	if a, ok := m.client.(availability); ok && !a.Available() {
		return false
	}
	return true
}
