package ratelimiter

import (
	"time"

	"github.com/ironquill/assesspoint/internal/domain"
)

// DomainAdapter exposes a RedisLuaLimiter as a domain.RateLimiter. It exists
// because domain.RateLimiter.Allow takes an int cost (the port's generic
// shape) while RedisLuaLimiter.Allow takes int64 (matching the Lua script's
// ARGV encoding) — kept as two types rather than forcing one signature to
// bend to the other's caller.
//
// Callers like CodeExecService pass a per-candidate key (e.g.
// "codeexec:<candidateAssessmentID>") that RedisLuaLimiter has never seen
// before. Since RedisLuaLimiter only rate-limits keys with a registered
// BucketConfig, DomainAdapter registers defaultBucket for every unseen key
// on first use — SetBucketConfig only touches the in-memory config map, not
// the token count stored in Redis, so re-registering an already-known key
// is a harmless no-op.
type DomainAdapter struct {
	limiter       *RedisLuaLimiter
	defaultBucket BucketConfig
}

// NewDomainAdapter wraps limiter for use behind the domain.RateLimiter port.
// Every key Allow sees is lazily registered with defaultBucket.
func NewDomainAdapter(limiter *RedisLuaLimiter, defaultBucket BucketConfig) *DomainAdapter {
	return &DomainAdapter{limiter: limiter, defaultBucket: defaultBucket}
}

func (a *DomainAdapter) Allow(ctx domain.Context, key string, cost int) (bool, time.Duration, error) {
	if a.limiter != nil && a.defaultBucket.Capacity > 0 {
		a.limiter.SetBucketConfig(key, a.defaultBucket)
	}
	return a.limiter.Allow(ctx, key, int64(cost))
}
