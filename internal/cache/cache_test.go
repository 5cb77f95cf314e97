package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/trainbooking/internal/models"
)

func TestScheduleKey_ignoresDetailsFlag(t *testing.T) {
	a := models.SearchRequest{From: "Київ", To: "Львів", Date: "2025-05-10"}
	b := a
	b.Details = true

	assert.Equal(t, scheduleKey(a), scheduleKey(b))
	assert.NotEqual(t, scheduleKey(a), scheduleKey(models.SearchRequest{From: "Львів", To: "Київ", Date: "2025-05-10"}))
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute)
	now := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	req := models.SearchRequest{From: "Київ", To: "Одеса", Date: "2025-05-10"}
	_, ok := c.GetSchedules(ctx, req)
	assert.False(t, ok)

	require.NoError(t, c.SetSchedules(ctx, req, []models.Schedule{{ScheduleID: 3}}))
	got, ok := c.GetSchedules(ctx, req)
	require.True(t, ok)
	assert.Equal(t, 3, got[0].ScheduleID)

	arrival := "10:00:00"
	require.NoError(t, c.SetRoute(ctx, "91", []models.RouteStation{{StationOrder: 1, StationName: "Київ", ArrivalTime: &arrival}}))
	stations, ok := c.GetRoute(ctx, "91")
	require.True(t, ok)
	assert.Equal(t, "10:00:00", *stations[0].ArrivalTime)

	now = now.Add(time.Minute)
	_, ok = c.GetSchedules(ctx, req)
	assert.False(t, ok)

	require.NoError(t, c.SetRoute(ctx, "92", nil))
	assert.Len(t, c.items, 1, "expired entries are dropped on write")
}

func TestNoOpCache(t *testing.T) {
	c := NewNoOpCache()
	require.NoError(t, c.SetSchedules(context.Background(), models.SearchRequest{}, nil))
	_, ok := c.GetSchedules(context.Background(), models.SearchRequest{})
	assert.False(t, ok)
}
