//go:build integration

package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novatripai/novatrip/itinerary"
)

// newTestStore connects to the NATS server named by NATS_URL (default
// localhost) and returns a Store over real JetStream KV buckets.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	url := os.Getenv("NATS_URL")
	if url == "" {
		url = nats.DefaultURL
	}
	nc, err := nats.Connect(url, nats.Timeout(5*time.Second))
	if err != nil {
		t.Skipf("NATS not available at %s: %v", url, err)
	}
	t.Cleanup(nc.Close)

	js, err := jetstream.New(nc)
	require.NoError(t, err)

	store, err := NewStore(context.Background(), js)
	require.NoError(t, err)
	return store
}

func sampleTrip() *itinerary.Trip {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &itinerary.Trip{
		ID: uuid.New().String(),
		Params: itinerary.TripParameters{
			Destination: "Lisbon",
			Days:        2,
			Budget:      itinerary.Budget{Amount: 1200, Currency: "EUR"},
			TripType:    "cultural",
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func sampleItinerary() itinerary.Itinerary {
	return itinerary.Itinerary{
		Days: []itinerary.DayPlan{
			{Day: 1, Activities: []itinerary.Activity{
				{Time: "09:00", Title: "Alfama walk", Cost: 450, Category: "sightseeing"},
			}, Subtotal: 450},
			{Day: 2, Activities: []itinerary.Activity{
				{Time: "10:00", Title: "Tram 28 ride", Cost: 450, Category: "transport"},
			}, Subtotal: 450},
		},
		TotalEstimatedCost: 900,
		BudgetUtilization:  0.75,
	}
}

func TestStoreTripRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	trip := sampleTrip()
	require.NoError(t, store.SaveTrip(ctx, trip))
	t.Cleanup(func() { _ = store.DeleteTrip(ctx, trip.ID) })

	got, err := store.GetTrip(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, trip.ID, got.ID)
	assert.Equal(t, trip.Params, got.Params)
	assert.True(t, trip.CreatedAt.Equal(got.CreatedAt))
}

func TestStoreGetTripNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetTrip(context.Background(), "no-such-trip")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreItineraryRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	trip := sampleTrip()
	require.NoError(t, store.SaveTrip(ctx, trip))
	t.Cleanup(func() { _ = store.DeleteTrip(ctx, trip.ID) })

	it := sampleItinerary()
	require.NoError(t, store.SaveItinerary(ctx, trip.ID, it))

	got, err := store.LoadItinerary(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, it, *got)
}

func TestStoreSnapshotLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	trip := sampleTrip()
	require.NoError(t, store.SaveTrip(ctx, trip))
	t.Cleanup(func() { _ = store.DeleteTrip(ctx, trip.ID) })

	// No snapshot yet: (nil, nil), not an error.
	snap, err := store.LoadSnapshot(ctx, trip.ID)
	require.NoError(t, err)
	assert.Nil(t, snap)

	saved := itinerary.Snapshot{
		TripID:    trip.ID,
		Itinerary: sampleItinerary(),
		TakenAt:   time.Now().UTC(),
		Sequence:  1,
	}
	require.NoError(t, store.SaveSnapshot(ctx, saved))

	snap, err = store.LoadSnapshot(ctx, trip.ID)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, saved.Sequence, snap.Sequence)
	assert.Equal(t, saved.Itinerary, snap.Itinerary)

	// Overwrite keeps exactly one snapshot.
	saved.Sequence = 2
	require.NoError(t, store.SaveSnapshot(ctx, saved))
	snap, err = store.LoadSnapshot(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), snap.Sequence)

	require.NoError(t, store.ClearSnapshot(ctx, trip.ID))
	snap, err = store.LoadSnapshot(ctx, trip.ID)
	require.NoError(t, err)
	assert.Nil(t, snap)

	// Clearing an absent snapshot is a no-op.
	assert.NoError(t, store.ClearSnapshot(ctx, trip.ID))
}

func TestStoreDeleteTripCascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	trip := sampleTrip()
	require.NoError(t, store.SaveTrip(ctx, trip))
	require.NoError(t, store.SaveItinerary(ctx, trip.ID, sampleItinerary()))
	require.NoError(t, store.SaveSnapshot(ctx, itinerary.Snapshot{
		TripID: trip.ID, Itinerary: sampleItinerary(), TakenAt: time.Now().UTC(), Sequence: 1,
	}))

	require.NoError(t, store.DeleteTrip(ctx, trip.ID))

	_, err := store.GetTrip(ctx, trip.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.LoadItinerary(ctx, trip.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	snap, err := store.LoadSnapshot(ctx, trip.ID)
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestStoreListTrips(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, second := sampleTrip(), sampleTrip()
	require.NoError(t, store.SaveTrip(ctx, first))
	require.NoError(t, store.SaveTrip(ctx, second))
	t.Cleanup(func() {
		_ = store.DeleteTrip(ctx, first.ID)
		_ = store.DeleteTrip(ctx, second.ID)
	})

	trips, err := store.ListTrips(ctx)
	require.NoError(t, err)

	ids := make(map[string]bool, len(trips))
	for _, trip := range trips {
		ids[trip.ID] = true
	}
	assert.True(t, ids[first.ID], "first trip missing from list")
	assert.True(t, ids[second.ID], "second trip missing from list")
}
