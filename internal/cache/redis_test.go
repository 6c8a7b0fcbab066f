package cache

import (
	"context"
	"testing"
	"time"

	"ynovair/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewRedisCacheWithClient(client, time.Minute)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedisCache_FlightsRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	flights := []domain.Flight{
		{ID: 1, FlightNumber: "YN001", TotalSeats: 100, AvailableSeats: 42, PriceCents: 15_000, Status: domain.FlightStatusScheduled},
		{ID: 2, FlightNumber: "YN002", TotalSeats: 180, AvailableSeats: 0, PriceCents: 9_900, Status: domain.FlightStatusBoarding},
	}

	require.NoError(t, c.SetFlights(ctx, flights))

	got, err := c.GetFlights(ctx)
	assert.NoError(t, err)
	assert.Equal(t, flights, got)
}

func TestRedisCache_GetFlights_EmptyCache(t *testing.T) {
	c, _ := newTestCache(t)

	got, err := c.GetFlights(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisCache_InvalidateFlights(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetFlights(ctx, []domain.Flight{{ID: 1}}))
	require.NoError(t, c.InvalidateFlights(ctx))

	got, err := c.GetFlights(ctx)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisCache_FlightsExpire(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetFlights(ctx, []domain.Flight{{ID: 1}}))
	mr.FastForward(2 * time.Minute)

	got, err := c.GetFlights(ctx)
	assert.NoError(t, err)
	assert.Nil(t, got)
}
