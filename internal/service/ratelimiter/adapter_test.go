package ratelimiter

import (
	"context"
	"testing"
)

func TestDomainAdapter_Allow_RegistersDefaultBucketForUnseenKey(t *testing.T) {
	limiter, cleanup := newTestRedisLuaLimiter(t)
	defer cleanup()

	adapter := NewDomainAdapter(limiter, BucketConfig{Capacity: 2, RefillRate: 0.000001})
	ctx := context.Background()

	allowed, _, err := adapter.Allow(ctx, "codeexec:candidate-1", 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !allowed {
		t.Fatalf("expected first call within capacity to be allowed")
	}

	allowed, _, err = adapter.Allow(ctx, "codeexec:candidate-1", 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !allowed {
		t.Fatalf("expected second call within capacity to be allowed")
	}

	allowed, _, err = adapter.Allow(ctx, "codeexec:candidate-1", 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if allowed {
		t.Fatalf("expected third call to exceed the capacity-2 bucket")
	}
}

func TestDomainAdapter_Allow_ZeroCapacityDisablesLimiting(t *testing.T) {
	limiter, cleanup := newTestRedisLuaLimiter(t)
	defer cleanup()

	adapter := NewDomainAdapter(limiter, BucketConfig{})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		allowed, _, err := adapter.Allow(ctx, "codeexec:candidate-2", 1)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !allowed {
			t.Fatalf("expected call %d to be allowed with zero-capacity default bucket", i)
		}
	}
}
