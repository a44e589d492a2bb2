package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"limo/internal/domain"
)

// DefaultRuleCacheTTL bounds staleness when a write path misses an invalidation.
const DefaultRuleCacheTTL = 5 * time.Minute

const ruleCachePrefix = "cache:pricing_rules:"

// RuleCache caches each tenant's active pricing rules in Redis.
type RuleCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRuleCache creates a new RuleCache. A non-positive ttl uses DefaultRuleCacheTTL.
func NewRuleCache(client *redis.Client, ttl time.Duration) *RuleCache {
	if ttl <= 0 {
		ttl = DefaultRuleCacheTTL
	}
	return &RuleCache{client: client, ttl: ttl}
}

// CachedRule is the JSON form of a pricing rule stored in the cache.
type CachedRule struct {
	ID           string              `json:"id"`
	TenantID     string              `json:"tenant_id"`
	VehicleID    string              `json:"vehicle_id,omitempty"`
	VehicleType  string              `json:"vehicle_type,omitempty"`
	RideType     string              `json:"ride_type"`
	PricingModel string              `json:"pricing_model"`
	BasePrice    decimal.Decimal     `json:"base_price"`
	PerUnitPrice decimal.NullDecimal `json:"per_unit_price"`
	MinimumHours decimal.NullDecimal `json:"minimum_hours"`
	Currency     string              `json:"currency"`
	Active       bool                `json:"active"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

func toCachedRule(r *domain.PricingRule) CachedRule {
	return CachedRule{
		ID:           r.ID,
		TenantID:     r.TenantID,
		VehicleID:    r.VehicleID,
		VehicleType:  string(r.VehicleType),
		RideType:     string(r.RideType),
		PricingModel: string(r.PricingModel),
		BasePrice:    r.BasePrice,
		PerUnitPrice: r.PerUnitPrice,
		MinimumHours: r.MinimumHours,
		Currency:     r.Currency,
		Active:       r.Active,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func (c CachedRule) toDomain() *domain.PricingRule {
	return &domain.PricingRule{
		ID:           c.ID,
		TenantID:     c.TenantID,
		VehicleID:    c.VehicleID,
		VehicleType:  domain.VehicleType(c.VehicleType),
		RideType:     domain.RideType(c.RideType),
		PricingModel: domain.PricingModel(c.PricingModel),
		BasePrice:    c.BasePrice,
		PerUnitPrice: c.PerUnitPrice,
		MinimumHours: c.MinimumHours,
		Currency:     c.Currency,
		Active:       c.Active,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// Get retrieves a tenant's active rules from cache.
// The second return value is false on a cache miss.
func (c *RuleCache) Get(ctx context.Context, tenantID string) ([]*domain.PricingRule, bool, error) {
	data, err := c.client.Get(ctx, ruleCachePrefix+tenantID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil // Cache miss
		}
		return nil, false, err
	}

	var cached []CachedRule
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, false, err
	}

	rules := make([]*domain.PricingRule, 0, len(cached))
	for _, c := range cached {
		rules = append(rules, c.toDomain())
	}
	return rules, true, nil
}

// Set stores a tenant's active rules in cache. An empty list is cached too
// so tenants without rules do not hit the database on every quote.
func (c *RuleCache) Set(ctx context.Context, tenantID string, rules []*domain.PricingRule) error {
	cached := make([]CachedRule, 0, len(rules))
	for _, r := range rules {
		if r == nil {
			continue
		}
		cached = append(cached, toCachedRule(r))
	}

	data, err := json.Marshal(cached)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, ruleCachePrefix+tenantID, data, c.ttl).Err()
}

// Invalidate removes a tenant's rules from cache.
func (c *RuleCache) Invalidate(ctx context.Context, tenantID string) error {
	return c.client.Del(ctx, ruleCachePrefix+tenantID).Err()
}
