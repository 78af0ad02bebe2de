// Package cache decorates the activity use cases with a Redis backed stats cache.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/carbon-tracker-api/services/footprint-service/internal/analytics"
	"github.com/vasapolrittideah/carbon-tracker-api/services/footprint-service/internal/model"
	"github.com/vasapolrittideah/carbon-tracker-api/services/footprint-service/internal/usecase"
)

// cachedActivityUsecase caches GetStats per user and year in one hash per user.
// Any mutation bumps the user's stats version and drops the hash. Redis errors
// are logged and the call falls through to next.
type cachedActivityUsecase struct {
	next        usecase.ActivityUsecase
	redisClient redis.UniversalClient
	cacheTTL    time.Duration
	logger      *zerolog.Logger
	now         func() time.Time
}

func NewCachedActivityUsecase(
	next usecase.ActivityUsecase,
	redisClient redis.UniversalClient,
	cacheTTL time.Duration,
	logger *zerolog.Logger,
) usecase.ActivityUsecase {
	return &cachedActivityUsecase{
		next:        next,
		redisClient: redisClient,
		cacheTTL:    cacheTTL,
		logger:      logger,
		now:         time.Now,
	}
}

func statsKey(userID string) string {
	return "stats:" + userID
}

func statsVersionKey(userID string) string {
	return "stats:version:" + userID
}

// statsField names a cached entry. now's month is part of the field because
// the month over month figures move with the calendar, not only with writes.
func statsField(year int, version string, now time.Time) string {
	return strconv.Itoa(year) + ":" + version + ":" + now.UTC().Format("2006-01")
}

func (c *cachedActivityUsecase) GetStats(ctx context.Context, userID string, year int) (*analytics.Stats, error) {
	now := c.now()
	if year == 0 {
		year = now.UTC().Year()
	}
	key := statsKey(userID)
	versionKey := statsVersionKey(userID)

	version, err := c.redisClient.Get(ctx, versionKey).Result()
	switch {
	case errors.Is(err, redis.Nil):
		version = "0"
	case err != nil:
		c.logger.Warn().Err(err).Str("key", versionKey).Msg("failed to read stats version")
		return c.next.GetStats(ctx, userID, year)
	}
	field := statsField(year, version, now)

	val, err := c.redisClient.HGet(ctx, key, field).Result()
	switch {
	case err == nil:
		var stats analytics.Stats
		if err := json.Unmarshal([]byte(val), &stats); err == nil {
			return &stats, nil
		}
		c.logger.Warn().Str("key", key).Msg("discarding undecodable cached stats")
	case !errors.Is(err, redis.Nil):
		c.logger.Warn().Err(err).Str("key", key).Msg("failed to read cached stats")
	}

	stats, err := c.next.GetStats(ctx, userID, year)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(stats)
	if err != nil {
		c.logger.Warn().Err(err).Msg("failed to encode stats for cache")
		return stats, nil
	}

	c.store(ctx, userID, version, field, data)

	return stats, nil
}

// store writes data only while the user's version still equals version. A
// mutation that lands while stats are being computed bumps the version, so the
// stale result is dropped instead of cached.
func (c *cachedActivityUsecase) store(ctx context.Context, userID, version, field string, data []byte) {
	key := statsKey(userID)
	versionKey := statsVersionKey(userID)

	err := c.redisClient.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, versionKey).Result()
		switch {
		case errors.Is(err, redis.Nil):
			current = "0"
		case err != nil:
			return err
		}
		if current != version {
			return redis.TxFailedErr
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, field, data)
			pipe.Expire(ctx, key, c.cacheTTL)
			return nil
		})
		return err
	}, versionKey)

	switch {
	case errors.Is(err, redis.TxFailedErr):
		c.logger.Debug().Str("key", key).Msg("stats changed while computing, not caching")
	case err != nil:
		c.logger.Warn().Err(err).Str("key", key).Msg("failed to cache stats")
	}
}

func (c *cachedActivityUsecase) invalidate(ctx context.Context, userID string) {
	pipe := c.redisClient.TxPipeline()
	pipe.Incr(ctx, statsVersionKey(userID))
	pipe.Del(ctx, statsKey(userID))
	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to invalidate cached stats")
	}
}

func (c *cachedActivityUsecase) CreateActivity(
	ctx context.Context,
	userID string,
	params usecase.CreateActivityParams,
) (*model.Activity, error) {
	activity, err := c.next.CreateActivity(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	c.invalidate(ctx, userID)
	return activity, nil
}

func (c *cachedActivityUsecase) UpdateActivity(
	ctx context.Context,
	userID, id string,
	params usecase.UpdateActivityParams,
) (*model.Activity, error) {
	activity, err := c.next.UpdateActivity(ctx, userID, id, params)
	if err != nil {
		return nil, err
	}

	c.invalidate(ctx, userID)
	return activity, nil
}

func (c *cachedActivityUsecase) DeleteActivity(ctx context.Context, userID, id string) error {
	if err := c.next.DeleteActivity(ctx, userID, id); err != nil {
		return err
	}

	c.invalidate(ctx, userID)
	return nil
}

func (c *cachedActivityUsecase) ListActivities(
	ctx context.Context,
	userID string,
	params usecase.ListActivitiesParams,
) (*usecase.ActivityPage, error) {
	return c.next.ListActivities(ctx, userID, params)
}

func (c *cachedActivityUsecase) GetActivity(ctx context.Context, userID, id string) (*model.Activity, error) {
	return c.next.GetActivity(ctx, userID, id)
}

func (c *cachedActivityUsecase) ExportActivities(
	ctx context.Context,
	userID string,
	params usecase.ExportActivitiesParams,
	w io.Writer,
) error {
	return c.next.ExportActivities(ctx, userID, params, w)
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}
