// Package storage persists trips, itineraries, and undo snapshots in NATS
// JetStream KV buckets. It implements planner.Store.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/novatripai/novatrip/itinerary"
)

// Bucket names, one per entity kind. Itineraries and snapshots are keyed by
// trip ID; a trip owns at most one of each.
const (
	BucketTrips       = "NOVATRIP_TRIPS"
	BucketItineraries = "NOVATRIP_ITINERARIES"
	BucketSnapshots   = "NOVATRIP_SNAPSHOTS"
)

// Store provides trip persistence backed by NATS KV.
type Store struct {
	trips       jetstream.KeyValue
	itineraries jetstream.KeyValue
	snapshots   jetstream.KeyValue
}

// NewStore creates a Store, creating the KV buckets if they don't exist.
func NewStore(ctx context.Context, js jetstream.JetStream) (*Store, error) {
	trips, err := getOrCreateBucket(ctx, js, BucketTrips)
	if err != nil {
		return nil, fmt.Errorf("create trips bucket: %w", err)
	}

	itineraries, err := getOrCreateBucket(ctx, js, BucketItineraries)
	if err != nil {
		return nil, fmt.Errorf("create itineraries bucket: %w", err)
	}

	snapshots, err := getOrCreateBucket(ctx, js, BucketSnapshots)
	if err != nil {
		return nil, fmt.Errorf("create snapshots bucket: %w", err)
	}

	return &Store{
		trips:       trips,
		itineraries: itineraries,
		snapshots:   snapshots,
	}, nil
}

func getOrCreateBucket(ctx context.Context, js jetstream.JetStream, name string) (jetstream.KeyValue, error) {
	kv, err := js.KeyValue(ctx, name)
	if err == nil {
		return kv, nil
	}
	return js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      name,
		Description: fmt.Sprintf("novatrip %s storage", strings.ToLower(name)),
		History:     5,
	})
}

// SaveTrip stores a trip record, overwriting any existing one.
func (s *Store) SaveTrip(ctx context.Context, trip *itinerary.Trip) error {
	data, err := json.Marshal(trip)
	if err != nil {
		return fmt.Errorf("marshal trip: %w", err)
	}
	if _, err := s.trips.Put(ctx, trip.ID, data); err != nil {
		return fmt.Errorf("store trip: %w", err)
	}
	return nil
}

// GetTrip retrieves a trip by ID.
func (s *Store) GetTrip(ctx context.Context, tripID string) (*itinerary.Trip, error) {
	entry, err := s.trips.Get(ctx, tripID)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("trip %s: %w", tripID, ErrNotFound)
		}
		return nil, fmt.Errorf("get trip: %w", err)
	}

	var trip itinerary.Trip
	if err := json.Unmarshal(entry.Value(), &trip); err != nil {
		return nil, fmt.Errorf("unmarshal trip: %w", err)
	}
	return &trip, nil
}

// ListTrips returns all stored trips.
func (s *Store) ListTrips(ctx context.Context) ([]*itinerary.Trip, error) {
	keys, err := s.trips.Keys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("list trip keys: %w", err)
	}

	trips := make([]*itinerary.Trip, 0, len(keys))
	for _, key := range keys {
		entry, err := s.trips.Get(ctx, key)
		if err != nil {
			continue // skip entries that fail to load
		}
		var trip itinerary.Trip
		if err := json.Unmarshal(entry.Value(), &trip); err != nil {
			continue
		}
		trips = append(trips, &trip)
	}
	return trips, nil
}

// DeleteTrip removes a trip and everything it owns: its itinerary and any
// snapshot.
func (s *Store) DeleteTrip(ctx context.Context, tripID string) error {
	if err := s.trips.Delete(ctx, tripID); err != nil && !isNotFound(err) {
		return fmt.Errorf("delete trip: %w", err)
	}
	if err := s.itineraries.Delete(ctx, tripID); err != nil && !isNotFound(err) {
		return fmt.Errorf("delete itinerary: %w", err)
	}
	if err := s.snapshots.Delete(ctx, tripID); err != nil && !isNotFound(err) {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}

// SaveItinerary stores the current itinerary for a trip, replacing any
// existing one wholesale.
func (s *Store) SaveItinerary(ctx context.Context, tripID string, it itinerary.Itinerary) error {
	data, err := json.Marshal(it)
	if err != nil {
		return fmt.Errorf("marshal itinerary: %w", err)
	}
	if _, err := s.itineraries.Put(ctx, tripID, data); err != nil {
		return fmt.Errorf("store itinerary: %w", err)
	}
	return nil
}

// LoadItinerary retrieves the current itinerary for a trip.
func (s *Store) LoadItinerary(ctx context.Context, tripID string) (*itinerary.Itinerary, error) {
	entry, err := s.itineraries.Get(ctx, tripID)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("itinerary for trip %s: %w", tripID, ErrNotFound)
		}
		return nil, fmt.Errorf("get itinerary: %w", err)
	}

	var it itinerary.Itinerary
	if err := json.Unmarshal(entry.Value(), &it); err != nil {
		return nil, fmt.Errorf("unmarshal itinerary: %w", err)
	}
	return &it, nil
}

// SaveSnapshot stores the single undo snapshot for a trip, overwriting the
// previous one.
func (s *Store) SaveSnapshot(ctx context.Context, snap itinerary.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if _, err := s.snapshots.Put(ctx, snap.TripID, data); err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot retrieves a trip's snapshot, or (nil, nil) when none exists.
func (s *Store) LoadSnapshot(ctx context.Context, tripID string) (*itinerary.Snapshot, error) {
	entry, err := s.snapshots.Get(ctx, tripID)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	var snap itinerary.Snapshot
	if err := json.Unmarshal(entry.Value(), &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

// ClearSnapshot removes a trip's snapshot. Clearing an absent snapshot is not
// an error.
func (s *Store) ClearSnapshot(ctx context.Context, tripID string) error {
	if err := s.snapshots.Delete(ctx, tripID); err != nil && !isNotFound(err) {
		return fmt.Errorf("clear snapshot: %w", err)
	}
	return nil
}

// isNotFound checks whether an error indicates a missing key.
func isNotFound(err error) bool {
	return errors.Is(err, jetstream.ErrKeyNotFound) ||
		(err != nil && strings.Contains(err.Error(), "key not found"))
}
