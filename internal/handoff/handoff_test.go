package handoff

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/trainbooking/internal/models"
)

func payload(sessionID string) Payload {
	return Payload{
		SessionID: sessionID,
		Checkout: models.Checkout{
			Seats: []models.SelectedSeat{{SeatID: 101, SeatNumber: 1, CarriageNumber: 2, Price: 300}},
			Trip:  models.Trip{TrainID: 9, ScheduleID: 55},
		},
	}
}

func TestMemoryStore_roundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute)

	id, err := s.Put(ctx, payload("alice"))
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	require.NoError(t, err)

	got, err := s.Get(ctx, "alice", id)
	require.NoError(t, err)
	assert.Equal(t, 300, got.Checkout.Total())
	assert.Equal(t, 55, got.Checkout.Trip.ScheduleID)

	require.NoError(t, s.Delete(ctx, id))
	_, err = s.Get(ctx, "alice", id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_boundToSession(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute)

	id, err := s.Put(ctx, payload("alice"))
	require.NoError(t, err)

	_, err = s.Get(ctx, "mallory", id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_expires(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute)
	now := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	id, err := s.Put(ctx, payload("alice"))
	require.NoError(t, err)

	now = now.Add(time.Minute)
	_, err = s.Get(ctx, "alice", id)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Put(ctx, payload("bob"))
	require.NoError(t, err)
	assert.Len(t, s.entries, 1, "expired entries are swept on write")
}
