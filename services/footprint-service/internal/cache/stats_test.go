package cache

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vasapolrittideah/carbon-tracker-api/services/footprint-service/internal/analytics"
	"github.com/vasapolrittideah/carbon-tracker-api/services/footprint-service/internal/model"
	"github.com/vasapolrittideah/carbon-tracker-api/services/footprint-service/internal/usecase"
)

// countingUsecase records calls and returns fixed stats.
type countingUsecase struct {
	usecase.ActivityUsecase
	statsCalls  int
	lastYear    int
	mutations   int
	totalCO2    float64
	mutationErr error
	// duringStats runs while stats are being computed.
	duringStats func()
}

func (c *countingUsecase) GetStats(_ context.Context, _ string, year int) (*analytics.Stats, error) {
	c.statsCalls++
	c.lastYear = year
	if c.duringStats != nil {
		c.duringStats()
	}
	return &analytics.Stats{Year: year, TotalCO2: c.totalCO2}, nil
}

func (c *countingUsecase) CreateActivity(context.Context, string, usecase.CreateActivityParams) (*model.Activity, error) {
	c.mutations++
	return &model.Activity{ID: "a1"}, c.mutationErr
}

func (c *countingUsecase) DeleteActivity(context.Context, string, string) error {
	c.mutations++
	return c.mutationErr
}

func (c *countingUsecase) ExportActivities(context.Context, string, usecase.ExportActivitiesParams, io.Writer) error {
	return nil
}

func unreachableRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestStatsKey(t *testing.T) {
	assert.Equal(t, "stats:u1", statsKey("u1"))
	assert.Equal(t, "stats:version:u1", statsVersionKey("u1"))
}

func TestStatsFieldIncludesVersionAndMonth(t *testing.T) {
	march := time.Date(2024, 3, 31, 23, 0, 0, 0, time.UTC)
	april := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "2024:3:2024-03", statsField(2024, "3", march))
	assert.NotEqual(t, statsField(2024, "3", march), statsField(2024, "3", april))
	assert.NotEqual(t, statsField(2024, "3", march), statsField(2024, "4", march))
}

func TestRedisFailureFallsThrough(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.Nop()
	next := &countingUsecase{totalCO2: 42}
	client := unreachableRedis()
	t.Cleanup(func() { _ = client.Close() })

	cached := NewCachedActivityUsecase(next, client, time.Minute, &logger)

	stats, err := cached.GetStats(ctx, "u1", 2024)
	require.NoError(t, err)
	assert.Equal(t, 42.0, stats.TotalCO2)
	assert.Equal(t, 1, next.statsCalls)

	_, err = cached.CreateActivity(ctx, "u1", usecase.CreateActivityParams{Name: "x"})
	assert.NoError(t, err)
	assert.NoError(t, cached.ExportActivities(ctx, "u1", usecase.ExportActivitiesParams{}, io.Discard))
}

func TestZeroYearResolvesToCurrentYear(t *testing.T) {
	logger := zerolog.Nop()
	next := &countingUsecase{}
	client := unreachableRedis()
	t.Cleanup(func() { _ = client.Close() })

	cached := NewCachedActivityUsecase(next, client, time.Minute, &logger).(*cachedActivityUsecase)
	cached.now = func() time.Time { return time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC) }

	_, err := cached.GetStats(context.Background(), "u1", 0)
	require.NoError(t, err)
	assert.Equal(t, 2031, next.lastYear)
}
