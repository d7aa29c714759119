package usecase

import (
	"context"
	"time"

	"resume-screener/internal/infrastructure/cache"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Cache is the subset of the redis cache the use cases rely on. Every method
// must tolerate an unavailable backend.
type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	// IncrBy adds delta to a counter and returns the new value. A zero delta
	// reads the counter without creating it.
	IncrBy(ctx context.Context, key string, delta int64) (int64, error)
}

type nopCache struct{}

func (nopCache) GetJSON(context.Context, string, any) (bool, error)        { return false, nil }
func (nopCache) SetJSON(context.Context, string, any, time.Duration) error { return nil }
func (nopCache) Delete(context.Context, ...string) error                   { return nil }
func (nopCache) SetIfNotExists(context.Context, string, string, time.Duration) (bool, error) {
	return true, nil
}
func (nopCache) IncrBy(context.Context, string, int64) (int64, error) { return 0, nil }

func cacheOrNop(c Cache) Cache {
	if c == nil {
		return nopCache{}
	}
	return c
}

// invalidateCandidates must run after the write it covers has committed. The
// generation is bumped before the list is dropped so a fill that read the
// database earlier sees the bump and discards what it stored.
func invalidateCandidates(ctx context.Context, c Cache, log *zap.Logger, jobID uuid.UUID) {
	if _, err := c.IncrBy(ctx, cache.CandidatesGenKey(jobID), 1); err != nil {
		log.Warn("candidate cache generation bump failed", zap.String("job_id", jobID.String()), zap.Error(err))
	}
	if err := c.Delete(ctx, cache.CandidatesKey(jobID)); err != nil {
		log.Warn("candidate cache invalidation failed", zap.String("job_id", jobID.String()), zap.Error(err))
	}
}
