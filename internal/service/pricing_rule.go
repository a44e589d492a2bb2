package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"limo/internal/domain"
	"limo/internal/pricing"
	"limo/internal/redis"
	"limo/internal/repository"
)

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// PricingRuleService manages a tenant's pricing rules.
type PricingRuleService struct {
	ruleRepo        repository.PricingRuleRepository
	vehicleRepo     repository.VehicleRepository
	ruleCache       redis.RuleCacheInterface
	defaultCurrency string
	logger          logrus.FieldLogger
}

// NewPricingRuleService creates a new PricingRuleService. ruleCache may be nil.
func NewPricingRuleService(
	ruleRepo repository.PricingRuleRepository,
	vehicleRepo repository.VehicleRepository,
	ruleCache redis.RuleCacheInterface,
	defaultCurrency string,
	logger logrus.FieldLogger,
) *PricingRuleService {
	if defaultCurrency == "" {
		defaultCurrency = pricing.DefaultCurrency
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &PricingRuleService{
		ruleRepo:        ruleRepo,
		vehicleRepo:     vehicleRepo,
		ruleCache:       ruleCache,
		defaultCurrency: strings.ToUpper(defaultCurrency),
		logger:          logger,
	}
}

// PricingRuleInput contains the editable fields of a pricing rule.
type PricingRuleInput struct {
	VehicleID    string
	VehicleType  domain.VehicleType
	RideType     domain.RideType
	PricingModel domain.PricingModel
	BasePrice    decimal.Decimal
	PerUnitPrice decimal.NullDecimal
	MinimumHours decimal.NullDecimal
	Currency     string
}

// CreatePricingRule adds an active rule to a tenant.
func (s *PricingRuleService) CreatePricingRule(ctx context.Context, tenantID string, in PricingRuleInput) (*domain.PricingRule, error) {
	if tenantID == "" {
		return nil, ErrInvalidTenantID
	}

	now := time.Now()
	rule := &domain.PricingRule{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.apply(ctx, rule, in); err != nil {
		return nil, err
	}

	if err := s.ruleRepo.Create(ctx, rule); err != nil {
		return nil, err
	}

	s.invalidate(ctx, tenantID)
	return rule, nil
}

// UpdatePricingRule replaces the editable fields of a rule. A nil active
// leaves the rule's active flag unchanged.
func (s *PricingRuleService) UpdatePricingRule(ctx context.Context, tenantID, ruleID string, in PricingRuleInput, active *bool) (*domain.PricingRule, error) {
	if tenantID == "" {
		return nil, ErrInvalidTenantID
	}
	if ruleID == "" {
		return nil, ErrInvalidRuleID
	}

	rule, err := s.ruleRepo.GetByID(ctx, tenantID, ruleID)
	if err != nil {
		return nil, err
	}

	if err := s.apply(ctx, rule, in); err != nil {
		return nil, err
	}
	if active != nil {
		rule.Active = *active
	}
	rule.UpdatedAt = time.Now()

	if err := s.ruleRepo.Update(ctx, rule); err != nil {
		return nil, err
	}

	s.invalidate(ctx, tenantID)
	return rule, nil
}

// DeactivatePricingRule retires a rule without deleting it.
func (s *PricingRuleService) DeactivatePricingRule(ctx context.Context, tenantID, ruleID string) error {
	if tenantID == "" {
		return ErrInvalidTenantID
	}
	if ruleID == "" {
		return ErrInvalidRuleID
	}

	if err := s.ruleRepo.Deactivate(ctx, tenantID, ruleID); err != nil {
		return err
	}

	s.invalidate(ctx, tenantID)
	return nil
}

// ListPricingRules retrieves all of a tenant's rules, active or not.
func (s *PricingRuleService) ListPricingRules(ctx context.Context, tenantID string) ([]*domain.PricingRule, error) {
	if tenantID == "" {
		return nil, ErrInvalidTenantID
	}
	return s.ruleRepo.ListByTenant(ctx, tenantID)
}

// apply validates in and copies it onto rule.
func (s *PricingRuleService) apply(ctx context.Context, rule *domain.PricingRule, in PricingRuleInput) error {
	if !in.RideType.Valid() {
		return ErrInvalidRideType
	}
	if !in.PricingModel.Valid() {
		return ErrInvalidPricingModel
	}
	if in.VehicleID != "" && in.VehicleType != "" {
		return fmt.Errorf("%w: vehicle and vehicle type are mutually exclusive", ErrInvalidPricingRule)
	}
	if in.VehicleType != "" && !in.VehicleType.Valid() {
		return fmt.Errorf("%w: unknown vehicle type %q", ErrInvalidPricingRule, in.VehicleType)
	}
	if in.BasePrice.IsNegative() {
		return fmt.Errorf("%w: base price must not be negative", ErrInvalidPricingRule)
	}

	perUnit := in.PerUnitPrice
	switch {
	case in.PricingModel.Metered() && !perUnit.Valid:
		return fmt.Errorf("%w: %s requires a per-unit price", ErrInvalidPricingRule, in.PricingModel)
	case !in.PricingModel.Metered():
		perUnit = decimal.NullDecimal{}
	}
	if perUnit.Valid && perUnit.Decimal.IsNegative() {
		return fmt.Errorf("%w: per-unit price must not be negative", ErrInvalidPricingRule)
	}

	minHours := in.MinimumHours
	if minHours.Valid {
		if in.PricingModel != domain.PricingModelHourly {
			return fmt.Errorf("%w: minimum hours only apply to %s", ErrInvalidPricingRule, domain.PricingModelHourly)
		}
		if minHours.Decimal.IsNegative() {
			return fmt.Errorf("%w: minimum hours must not be negative", ErrInvalidPricingRule)
		}
	}

	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = s.defaultCurrency
	}
	if !currencyPattern.MatchString(currency) {
		return fmt.Errorf("%w: currency must be a 3-letter code", ErrInvalidPricingRule)
	}

	if in.VehicleID != "" {
		if _, err := s.vehicleRepo.GetByID(ctx, rule.TenantID, in.VehicleID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrVehicleNotInTenant
			}
			return err
		}
	}

	rule.VehicleID = in.VehicleID
	rule.VehicleType = in.VehicleType
	rule.RideType = in.RideType
	rule.PricingModel = in.PricingModel
	rule.BasePrice = in.BasePrice
	rule.PerUnitPrice = perUnit
	rule.MinimumHours = minHours
	rule.Currency = currency
	return nil
}

func (s *PricingRuleService) invalidate(ctx context.Context, tenantID string) {
	if s.ruleCache == nil {
		return
	}
	if err := s.ruleCache.Invalidate(ctx, tenantID); err != nil {
		s.logger.WithError(err).WithField("tenant_id", tenantID).Error("pricing rule cache invalidation failed")
	}
}
