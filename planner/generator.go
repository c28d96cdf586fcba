package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/novatripai/novatrip/itinerary"
	"github.com/novatripai/novatrip/llm"
	"github.com/novatripai/novatrip/metrics"
)

// availability is implemented by clients that can tell up front whether they
// have the credential they need (llm.Client does).
type availability interface {
	Available() bool
}

// Generator builds itineraries from trip parameters. It prompts the
// generation collaborator when one is usable and falls back to the
// deterministic mock planner otherwise — collaborator failures never
// propagate to the caller.
type Generator struct {
	client llm.Completer // nil means mock-mode
	mock   MockPlanner
	cfg    Config
	logger *slog.Logger
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithGeneratorLogger sets the logger.
func WithGeneratorLogger(logger *slog.Logger) GeneratorOption {
	return func(g *Generator) {
		g.logger = logger
	}
}

// NewGenerator creates a Generator. Pass a nil client to run in mock-mode.
func NewGenerator(client llm.Completer, cfg Config, opts ...GeneratorOption) *Generator {
	g := &Generator{
		client: client,
		cfg:    cfg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate produces a validated itinerary for the given parameters.
//
// A schema failure from the validator triggers the configured number of
// regeneration attempts (default exactly one) through the mock planner before
// surfacing. Because mock output is always day-shaped, generation degrades to
// a valid generic plan rather than failing outright.
func (g *Generator) Generate(ctx context.Context, params itinerary.TripParameters) (itinerary.Itinerary, []itinerary.Warning, error) {
	if err := params.Validate(); err != nil {
		return itinerary.Itinerary{}, nil, err
	}

	plan, err := itinerary.AllocateBudget(params.Budget, params.Days, g.cfg.UtilizationFloor)
	if err != nil {
		return itinerary.Itinerary{}, nil, err
	}

	candidate := g.candidate(ctx, params, plan)

	it, warnings, err := itinerary.Validate(candidate, params.Days, params.Budget, g.cfg.UtilizationFloor)
	for attempt := 0; errors.Is(err, itinerary.ErrSchema) && attempt < g.cfg.RegenerationAttempts; attempt++ {
		g.logger.Warn("candidate failed validation, regenerating via mock planner",
			"destination", params.Destination,
			"error", err)
		metrics.Generations.WithLabelValues("regenerated").Inc()
		it, warnings, err = itinerary.Validate(g.mock.Plan(params, plan), params.Days, params.Budget, g.cfg.UtilizationFloor)
	}
	if err != nil {
		metrics.Generations.WithLabelValues("failed").Inc()
		return itinerary.Itinerary{}, nil, fmt.Errorf("generate itinerary: %w", err)
	}

	countRepairs(warnings)
	return it, warnings, nil
}

// candidate obtains a raw candidate from the collaborator, or from the mock
// planner when the collaborator is missing, unconfigured, or failing.
func (g *Generator) candidate(ctx context.Context, params itinerary.TripParameters, plan itinerary.BudgetPlan) itinerary.Candidate {
	if !g.collaboratorUsable() {
		metrics.Generations.WithLabelValues("mock").Inc()
		return g.mock.Plan(params, plan)
	}

	resp, err := g.client.Complete(ctx, llm.Request{
		Messages:    buildGenerationMessages(params, plan),
		Temperature: g.cfg.temperature(),
		MaxTokens:   g.cfg.MaxTokens,
	})
	if err != nil {
		g.logger.Warn("generation collaborator failed, using mock planner",
			"destination", params.Destination,
			"error", err)
		metrics.Fallbacks.WithLabelValues("generate").Inc()
		metrics.Generations.WithLabelValues("mock").Inc()
		return g.mock.Plan(params, plan)
	}

	metrics.Generations.WithLabelValues("llm").Inc()
	return ParseCandidate(resp.Content)
}

func (g *Generator) collaboratorUsable() bool {
	if g.client == nil {
		return false
	}
	if a, ok := g.client.(availability); ok && !a.Available() {
		return false
	}
	return true
}

func countRepairs(warnings []itinerary.Warning) {
	codes := make([]string, len(warnings))
	for i, w := range warnings {
		codes[i] = string(w.Code)
	}
	metrics.CountRepairs(codes)
}
