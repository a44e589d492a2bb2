package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"limo/internal/domain"
	"limo/internal/pricing"
	"limo/internal/redis"
	"limo/internal/repository"
)

// QuoteService prices a tenant's fleet for a requested trip.
type QuoteService struct {
	vehicleRepo repository.VehicleRepository
	ruleRepo    repository.PricingRuleRepository
	ruleCache   redis.RuleCacheInterface
	logger      logrus.FieldLogger
}

// NewQuoteService creates a new QuoteService. ruleCache may be nil.
func NewQuoteService(
	vehicleRepo repository.VehicleRepository,
	ruleRepo repository.PricingRuleRepository,
	ruleCache redis.RuleCacheInterface,
	logger logrus.FieldLogger,
) *QuoteService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &QuoteService{
		vehicleRepo: vehicleRepo,
		ruleRepo:    ruleRepo,
		ruleCache:   ruleCache,
		logger:      logger,
	}
}

// VehicleQuote pairs a vehicle with its price for the requested trip.
type VehicleQuote struct {
	Vehicle *domain.Vehicle
	Quote   pricing.Quote
}

// QuoteVehicles prices every active vehicle of a tenant. Vehicles without a
// matching rule are returned with an unpriced quote.
func (s *QuoteService) QuoteVehicles(ctx context.Context, tenantID string, rideType domain.RideType, input pricing.QuoteInput) ([]VehicleQuote, error) {
	if tenantID == "" {
		return nil, ErrInvalidTenantID
	}
	if !rideType.Valid() {
		return nil, ErrInvalidRideType
	}

	vehicles, err := s.vehicleRepo.ListByTenant(ctx, tenantID, true)
	if err != nil {
		return nil, err
	}

	rules, err := s.activeRules(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	quotes := make([]VehicleQuote, 0, len(vehicles))
	for _, v := range vehicles {
		quotes = append(quotes, VehicleQuote{
			Vehicle: v,
			Quote:   pricing.Resolve(v, rules, rideType, input),
		})
	}

	return quotes, nil
}

// QuoteVehicle prices one active vehicle of a tenant.
func (s *QuoteService) QuoteVehicle(ctx context.Context, tenantID, vehicleID string, rideType domain.RideType, input pricing.QuoteInput) (*VehicleQuote, error) {
	if tenantID == "" {
		return nil, ErrInvalidTenantID
	}
	if vehicleID == "" {
		return nil, ErrInvalidVehicleID
	}
	if !rideType.Valid() {
		return nil, ErrInvalidRideType
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, tenantID, vehicleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrVehicleNotInTenant
		}
		return nil, err
	}
	if !vehicle.Active {
		return nil, ErrVehicleInactive
	}

	rules, err := s.activeRules(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	return &VehicleQuote{
		Vehicle: vehicle,
		Quote:   pricing.Resolve(vehicle, rules, rideType, input),
	}, nil
}

// activeRules loads a tenant's active rules, cache first. Cache failures
// are logged and fall through to the database.
func (s *QuoteService) activeRules(ctx context.Context, tenantID string) ([]*domain.PricingRule, error) {
	if s.ruleCache != nil {
		rules, ok, err := s.ruleCache.Get(ctx, tenantID)
		if err != nil {
			s.logger.WithError(err).WithField("tenant_id", tenantID).Warn("pricing rule cache read failed")
		} else if ok {
			return rules, nil
		}
	}

	rules, err := s.ruleRepo.ListActiveByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if s.ruleCache != nil {
		if err := s.ruleCache.Set(ctx, tenantID, rules); err != nil {
			s.logger.WithError(err).WithField("tenant_id", tenantID).Warn("pricing rule cache write failed")
		}
	}

	return rules, nil
}
