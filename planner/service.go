package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/novatripai/novatrip/itinerary"
	"github.com/novatripai/novatrip/metrics"
)

// ErrNothingToUndo is reported when undo is requested and no snapshot exists.
// State is left unchanged.
var ErrNothingToUndo = errors.New("nothing to undo")

// Store is the persistence collaborator. Snapshot loads return (nil, nil)
// when no snapshot exists. The store owns per-trip serialization; the engine
// assumes at most one in-flight modification per trip and concurrent edits
// against the same trip resolve last-write-wins.
type Store interface {
	SaveTrip(ctx context.Context, trip *itinerary.Trip) error
	GetTrip(ctx context.Context, tripID string) (*itinerary.Trip, error)
	SaveItinerary(ctx context.Context, tripID string, it itinerary.Itinerary) error
	LoadItinerary(ctx context.Context, tripID string) (*itinerary.Itinerary, error)
	SaveSnapshot(ctx context.Context, snap itinerary.Snapshot) error
	LoadSnapshot(ctx context.Context, tripID string) (*itinerary.Snapshot, error)
	ClearSnapshot(ctx context.Context, tripID string) error
}

// Service composes the generator, the modification engine, and the
// persistence collaborator into the trip-level operations the application
// surface calls. Every call takes and returns explicit values; the service
// holds no per-trip state of its own.
type Service struct {
	store  Store
	gen    *Generator
	mod    *Modifier
	logger *slog.Logger
}

// NewService wires the engine together.
func NewService(store Store, gen *Generator, mod *Modifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, gen: gen, mod: mod, logger: logger}
}

// PlanTrip validates parameters, generates an itinerary, and persists both
// the trip record and the plan. Parameters are immutable afterwards;
// replanning creates a new trip.
func (s *Service) PlanTrip(ctx context.Context, params itinerary.TripParameters) (*itinerary.Trip, itinerary.Itinerary, []itinerary.Warning, error) {
	it, warnings, err := s.gen.Generate(ctx, params)
	if err != nil {
		return nil, itinerary.Itinerary{}, nil, err
	}

	now := time.Now().UTC()
	trip := &itinerary.Trip{
		ID:        uuid.New().String(),
		Params:    params,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.SaveTrip(ctx, trip); err != nil {
		return nil, itinerary.Itinerary{}, nil, fmt.Errorf("save trip: %w", err)
	}
	if err := s.store.SaveItinerary(ctx, trip.ID, it); err != nil {
		return nil, itinerary.Itinerary{}, nil, fmt.Errorf("save itinerary: %w", err)
	}

	s.logger.Info("trip planned",
		"trip_id", trip.ID,
		"destination", params.Destination,
		"days", params.Days,
		"estimated_cost", it.TotalEstimatedCost,
		"utilization", it.BudgetUtilization,
		"warnings", len(warnings))

	return trip, it, warnings, nil
}

// Modify applies an edit instruction to a stored trip's itinerary. On
// success the prior plan is persisted as the trip's snapshot (overwriting any
// previous one — single-level undo) and the new plan replaces the itinerary.
// On failure the stored itinerary is untouched and no snapshot is committed.
func (s *Service) Modify(ctx context.Context, tripID, instruction string) (itinerary.Itinerary, []itinerary.Warning, error) {
	trip, err := s.store.GetTrip(ctx, tripID)
	if err != nil {
		return itinerary.Itinerary{}, nil, fmt.Errorf("load trip: %w", err)
	}
	current, err := s.store.LoadItinerary(ctx, tripID)
	if err != nil {
		return itinerary.Itinerary{}, nil, fmt.Errorf("load itinerary: %w", err)
	}

	result, err := s.mod.Modify(ctx, *current, instruction, trip.Params)
	if err != nil {
		return itinerary.Itinerary{}, nil, err
	}

	prev, err := s.store.LoadSnapshot(ctx, tripID)
	if err != nil {
		return itinerary.Itinerary{}, nil, fmt.Errorf("load snapshot: %w", err)
	}
	seq := uint64(1)
	if prev != nil {
		seq = prev.Sequence + 1
	}

	// Snapshot first: losing the new plan is recoverable by retrying the
	// instruction, losing the old one is not.
	if err := s.store.SaveSnapshot(ctx, itinerary.Snapshot{
		TripID:    tripID,
		Itinerary: result.Snapshot,
		TakenAt:   time.Now().UTC(),
		Sequence:  seq,
	}); err != nil {
		return itinerary.Itinerary{}, nil, fmt.Errorf("save snapshot: %w", err)
	}
	if err := s.store.SaveItinerary(ctx, tripID, result.Itinerary); err != nil {
		// The itinerary never changed, so an undo against the snapshot just
		// written would be a lie. Put back what was there before.
		var rollbackErr error
		if prev != nil {
			rollbackErr = s.store.SaveSnapshot(ctx, *prev)
		} else {
			rollbackErr = s.store.ClearSnapshot(ctx, tripID)
		}
		if rollbackErr != nil {
			s.logger.Warn("failed to roll back snapshot", "trip_id", tripID, "error", rollbackErr)
		}
		return itinerary.Itinerary{}, nil, fmt.Errorf("save itinerary: %w", err)
	}

	trip.UpdatedAt = time.Now().UTC()
	if err := s.store.SaveTrip(ctx, trip); err != nil {
		s.logger.Warn("failed to update trip timestamp", "trip_id", tripID, "error", err)
	}

	s.logger.Info("itinerary modified",
		"trip_id", tripID,
		"estimated_cost", result.Itinerary.TotalEstimatedCost,
		"warnings", len(result.Warnings))

	return result.Itinerary, result.Warnings, nil
}

// Undo restores the most recent snapshot and clears it. A second consecutive
// undo finds no snapshot and reports ErrNothingToUndo without changing state.
func (s *Service) Undo(ctx context.Context, tripID string) (itinerary.Itinerary, error) {
	snap, err := s.store.LoadSnapshot(ctx, tripID)
	if err != nil {
		return itinerary.Itinerary{}, fmt.Errorf("load snapshot: %w", err)
	}
	if snap == nil {
		metrics.Undos.WithLabelValues("empty").Inc()
		return itinerary.Itinerary{}, ErrNothingToUndo
	}

	if err := s.store.SaveItinerary(ctx, tripID, snap.Itinerary); err != nil {
		return itinerary.Itinerary{}, fmt.Errorf("restore itinerary: %w", err)
	}
	if err := s.store.ClearSnapshot(ctx, tripID); err != nil {
		return itinerary.Itinerary{}, fmt.Errorf("clear snapshot: %w", err)
	}

	metrics.Undos.WithLabelValues("restored").Inc()
	s.logger.Info("itinerary restored from snapshot", "trip_id", tripID, "sequence", snap.Sequence)
	return snap.Itinerary, nil
}

// Get returns a trip record and its current itinerary.
func (s *Service) Get(ctx context.Context, tripID string) (*itinerary.Trip, *itinerary.Itinerary, error) {
	trip, err := s.store.GetTrip(ctx, tripID)
	if err != nil {
		return nil, nil, fmt.Errorf("load trip: %w", err)
	}
	it, err := s.store.LoadItinerary(ctx, tripID)
	if err != nil {
		return nil, nil, fmt.Errorf("load itinerary: %w", err)
	}
	return trip, it, nil
}
