package redis

import (
	"context"
	"time"

	"limo/internal/domain"
)

// RuleCacheInterface defines the interface for the pricing rule cache.
type RuleCacheInterface interface {
	Get(ctx context.Context, tenantID string) ([]*domain.PricingRule, bool, error)
	Set(ctx context.Context, tenantID string, rules []*domain.PricingRule) error
	Invalidate(ctx context.Context, tenantID string) error
}

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireBookingLock(ctx context.Context, bookingID string, ttl time.Duration) (token string, ok bool, err error)
	ReleaseBookingLock(ctx context.Context, bookingID, token string) error
}

// Ensure concrete types implement interfaces.
var (
	_ RuleCacheInterface = (*RuleCache)(nil)
	_ LockStoreInterface = (*LockStore)(nil)
)
