package tests

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"limo/internal/domain"
	"limo/internal/redis"
	"limo/internal/repository"
	"limo/internal/service"
)

// ──────────────────────────────────────────────
// MOCK TENANT REPOSITORY
// ──────────────────────────────────────────────

// MockTenantRepository is a mock implementation of TenantRepository.
type MockTenantRepository struct {
	mu      sync.RWMutex
	tenants map[string]*domain.Tenant

	// Error injection
	GetError error
}

// NewMockTenantRepository creates a new mock tenant repository.
func NewMockTenantRepository() *MockTenantRepository {
	return &MockTenantRepository{
		tenants: make(map[string]*domain.Tenant),
	}
}

// AddTenant adds a tenant to the mock repository.
func (m *MockTenantRepository) AddTenant(tenant *domain.Tenant) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tenants[tenant.ID] = tenant
}

func (m *MockTenantRepository) GetByID(ctx context.Context, id string) (*domain.Tenant, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	tenant, ok := m.tenants[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *tenant
	return &copy, nil
}

func (m *MockTenantRepository) GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.tenants {
		if t.Slug == slug && t.Active {
			copy := *t
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockTenantRepository) GetFirstActive(ctx context.Context) (*domain.Tenant, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var first *domain.Tenant
	for _, t := range m.tenants {
		if !t.Active {
			continue
		}
		if first == nil || t.CreatedAt.Before(first.CreatedAt) {
			first = t
		}
	}
	if first == nil {
		return nil, repository.ErrNotFound
	}
	copy := *first
	return &copy, nil
}

func (m *MockTenantRepository) GetAll(ctx context.Context) ([]*domain.Tenant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Tenant, 0, len(m.tenants))
	for _, t := range m.tenants {
		copy := *t
		result = append(result, &copy)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK VEHICLE REPOSITORY
// ──────────────────────────────────────────────

// MockVehicleRepository is a mock implementation of VehicleRepository.
type MockVehicleRepository struct {
	mu       sync.RWMutex
	vehicles map[string]*domain.Vehicle

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	ListError error
}

// NewMockVehicleRepository creates a new mock vehicle repository.
func NewMockVehicleRepository() *MockVehicleRepository {
	return &MockVehicleRepository{
		vehicles: make(map[string]*domain.Vehicle),
	}
}

// AddVehicle adds a vehicle to the mock repository.
func (m *MockVehicleRepository) AddVehicle(vehicle *domain.Vehicle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vehicles[vehicle.ID] = vehicle
}

func (m *MockVehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vehicles[vehicle.ID] = vehicle
	return nil
}

func (m *MockVehicleRepository) Update(ctx context.Context, vehicle *domain.Vehicle) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.vehicles[vehicle.ID]
	if !ok || existing.TenantID != vehicle.TenantID {
		return repository.ErrNotFound
	}
	m.vehicles[vehicle.ID] = vehicle
	return nil
}

func (m *MockVehicleRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	vehicle, ok := m.vehicles[id]
	if !ok || vehicle.TenantID != tenantID {
		return nil, repository.ErrNotFound
	}
	copy := *vehicle
	return &copy, nil
}

func (m *MockVehicleRepository) ListByTenant(ctx context.Context, tenantID string, activeOnly bool) ([]*domain.Vehicle, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Vehicle, 0)
	for _, v := range m.vehicles {
		if v.TenantID != tenantID || (activeOnly && !v.Active) {
			continue
		}
		copy := *v
		result = append(result, &copy)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK PRICING RULE REPOSITORY
// ──────────────────────────────────────────────

// MockPricingRuleRepository is a mock implementation of PricingRuleRepository.
type MockPricingRuleRepository struct {
	mu    sync.RWMutex
	rules map[string]*domain.PricingRule

	// Counters for verification
	ListActiveCallCount int32
	CreateCallCount     int32

	// Error injection
	ListError error
}

// NewMockPricingRuleRepository creates a new mock pricing rule repository.
func NewMockPricingRuleRepository() *MockPricingRuleRepository {
	return &MockPricingRuleRepository{
		rules: make(map[string]*domain.PricingRule),
	}
}

// AddRule adds a rule to the mock repository.
func (m *MockPricingRuleRepository) AddRule(rule *domain.PricingRule) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules[rule.ID] = rule
}

// GetRule returns the stored rule for assertions.
func (m *MockPricingRuleRepository) GetRule(id string) *domain.PricingRule {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rules[id]
}

func (m *MockPricingRuleRepository) Create(ctx context.Context, rule *domain.PricingRule) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules[rule.ID] = rule
	return nil
}

func (m *MockPricingRuleRepository) Update(ctx context.Context, rule *domain.PricingRule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.rules[rule.ID]
	if !ok || existing.TenantID != rule.TenantID {
		return repository.ErrNotFound
	}
	m.rules[rule.ID] = rule
	return nil
}

func (m *MockPricingRuleRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.PricingRule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rule, ok := m.rules[id]
	if !ok || rule.TenantID != tenantID {
		return nil, repository.ErrNotFound
	}
	copy := *rule
	return &copy, nil
}

func (m *MockPricingRuleRepository) ListActiveByTenant(ctx context.Context, tenantID string) ([]*domain.PricingRule, error) {
	atomic.AddInt32(&m.ListActiveCallCount, 1)
	return m.list(tenantID, true)
}

func (m *MockPricingRuleRepository) ListByTenant(ctx context.Context, tenantID string) ([]*domain.PricingRule, error) {
	return m.list(tenantID, false)
}

func (m *MockPricingRuleRepository) list(tenantID string, activeOnly bool) ([]*domain.PricingRule, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.PricingRule, 0)
	for _, r := range m.rules {
		if r.TenantID != tenantID || (activeOnly && !r.Active) {
			continue
		}
		copy := *r
		result = append(result, &copy)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (m *MockPricingRuleRepository) Deactivate(ctx context.Context, tenantID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rule, ok := m.rules[id]
	if !ok || rule.TenantID != tenantID {
		return repository.ErrNotFound
	}
	rule.Active = false
	return nil
}

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	// Counters for verification
	CreateCallCount int32

	// EmailMisses makes that many GetByEmail calls report not found, as if
	// the user were inserted concurrently right after the lookup.
	EmailMisses int32
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

// AddUser adds a user to the mock repository.
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return repository.ErrConflict
		}
	}
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *user
	return &copy, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if atomic.AddInt32(&m.EmailMisses, -1) >= 0 {
		return nil, repository.ErrNotFound
	}
	atomic.StoreInt32(&m.EmailMisses, 0)
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

// CountUsers returns the number of users.
func (m *MockUserRepository) CountUsers() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users)
}

// ──────────────────────────────────────────────
// MOCK DRIVER REPOSITORY
// ──────────────────────────────────────────────

// MockDriverRepository is a mock implementation of DriverRepository.
type MockDriverRepository struct {
	mu      sync.RWMutex
	drivers []*domain.Driver

	// Error injection
	ListError error

	// LastFilter is the filter passed to the most recent List call.
	LastFilter repository.DriverFilter
}

// NewMockDriverRepository creates a new mock driver repository.
func NewMockDriverRepository() *MockDriverRepository {
	return &MockDriverRepository{}
}

// AddDriver adds a driver. Later drivers are listed first.
func (m *MockDriverRepository) AddDriver(driver *domain.Driver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers = append([]*domain.Driver{driver}, m.drivers...)
}

func (m *MockDriverRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range m.drivers {
		if d.ID == id && d.TenantID == tenantID {
			copy := *d
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockDriverRepository) List(ctx context.Context, filter repository.DriverFilter) ([]*domain.Driver, error) {
	m.mu.Lock()
	m.LastFilter = filter
	m.mu.Unlock()

	if m.ListError != nil {
		return nil, m.ListError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	search := strings.ToLower(filter.Search)
	var result []*domain.Driver
	for _, d := range m.drivers {
		if d.TenantID != filter.TenantID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(strings.Join([]string{
			d.FirstName, d.LastName, d.Email, d.Phone, d.LicenseNumber,
		}, "\x00")), search) {
			continue
		}
		copy := *d
		result = append(result, &copy)
	}
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK BOOKING REPOSITORY
// ──────────────────────────────────────────────

// MockBookingRepository is a mock implementation of BookingRepository.
type MockBookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]*domain.Booking

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error

	// LastFilter is the filter passed to the most recent List call.
	LastFilter repository.BookingFilter
}

// NewMockBookingRepository creates a new mock booking repository.
func NewMockBookingRepository() *MockBookingRepository {
	return &MockBookingRepository{
		bookings: make(map[string]*domain.Booking),
	}
}

// AddBooking adds a booking to the mock repository.
func (m *MockBookingRepository) AddBooking(booking *domain.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[booking.ID] = booking
}

// GetBookingByID returns the stored booking for assertions.
func (m *MockBookingRepository) GetBookingByID(id string) *domain.Booking {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bookings[id]
}

// CountBookings returns the number of bookings.
func (m *MockBookingRepository) CountBookings() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.bookings)
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[booking.ID] = booking
	return nil
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	booking, ok := m.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *booking
	return &copy, nil
}

func (m *MockBookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[booking.ID]; !ok {
		return repository.ErrNotFound
	}
	m.bookings[booking.ID] = booking
	return nil
}

func (m *MockBookingRepository) List(ctx context.Context, filter repository.BookingFilter) ([]*repository.BookingRow, int, error) {
	m.mu.Lock()
	m.LastFilter = filter
	m.mu.Unlock()

	matched := m.matching(filter, true)
	sort.Slice(matched, func(i, j int) bool { return matched[i].ScheduledAt.After(matched[j].ScheduledAt) })

	total := len(matched)
	start := min(filter.Offset, total)
	end := total
	if filter.Limit > 0 {
		end = min(start+filter.Limit, total)
	}

	rows := make([]*repository.BookingRow, 0, end-start)
	for _, b := range matched[start:end] {
		rows = append(rows, &repository.BookingRow{Booking: b})
	}
	return rows, total, nil
}

func (m *MockBookingRepository) CountByStatus(ctx context.Context, filter repository.BookingFilter) (map[domain.BookingStatus]int, error) {
	counts := make(map[domain.BookingStatus]int)
	for _, b := range m.matching(filter, false) {
		counts[b.Status]++
	}
	return counts, nil
}

func (m *MockBookingRepository) matching(filter repository.BookingFilter, withStatus bool) []*domain.Booking {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Booking
	for _, b := range m.bookings {
		if filter.TenantID != "" && b.TenantID != filter.TenantID {
			continue
		}
		if withStatus && filter.Status != "" && b.Status != filter.Status {
			continue
		}
		if !filter.From.IsZero() && b.ScheduledAt.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && !b.ScheduledAt.Before(filter.To) {
			continue
		}
		copy := *b
		result = append(result, &copy)
	}
	return result
}

// ──────────────────────────────────────────────
// MOCK PAYMENT REPOSITORY
// ──────────────────────────────────────────────

// MockPaymentRepository is a mock implementation of PaymentRepository.
type MockPaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]*domain.Payment

	// Counters
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockPaymentRepository creates a new mock payment repository.
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		payments: make(map[string]*domain.Payment),
	}
}

// AddPayment adds a payment to the mock repository.
func (m *MockPaymentRepository) AddPayment(payment *domain.Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[payment.ID] = payment
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.payments {
		if p.IdempotencyKey == payment.IdempotencyKey {
			return repository.ErrConflict
		}
	}
	copy := *payment
	m.payments[payment.ID] = &copy
	return nil
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	payment, ok := m.payments[id]
	if !ok || payment.TenantID != tenantID {
		return nil, repository.ErrNotFound
	}
	copy := *payment
	return &copy, nil
}

func (m *MockPaymentRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.payments {
		if p.IdempotencyKey == key {
			copy := *p
			return &copy, nil
		}
	}
	return nil, nil // Not found, but not an error for idempotency check
}

func (m *MockPaymentRepository) AttachIntent(ctx context.Context, id, providerRef, clientSecret string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	payment, ok := m.payments[id]
	if !ok {
		return repository.ErrNotFound
	}
	payment.ProviderRef = providerRef
	payment.ClientSecret = clientSecret
	return nil
}

func (m *MockPaymentRepository) UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus, providerRef string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	payment, ok := m.payments[id]
	if !ok {
		return repository.ErrNotFound
	}
	payment.Status = status
	if providerRef != "" {
		payment.ProviderRef = providerRef
	}
	return nil
}

// CountPayments returns the number of payments.
func (m *MockPaymentRepository) CountPayments() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.payments)
}

// GetPaymentByBookingID returns the payment of a booking.
func (m *MockPaymentRepository) GetPaymentByBookingID(bookingID string) *domain.Payment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.payments {
		if p.BookingID == bookingID {
			return p
		}
	}
	return nil
}

// ──────────────────────────────────────────────
// MOCK TX MANAGER
// ──────────────────────────────────────────────

// MockTxManager runs transactions directly against the mock repositories.
// There is no rollback; tests assert on what was written before a failure.
type MockTxManager struct {
	Users    *MockUserRepository
	Bookings *MockBookingRepository

	CallCount int32
}

// NewMockTxManager creates a new mock transaction manager.
func NewMockTxManager(users *MockUserRepository, bookings *MockBookingRepository) *MockTxManager {
	return &MockTxManager{Users: users, Bookings: bookings}
}

func (m *MockTxManager) WithinTx(ctx context.Context, fn func(repos repository.Repositories) error) error {
	atomic.AddInt32(&m.CallCount, 1)
	return fn(repository.Repositories{Users: m.Users, Bookings: m.Bookings})
}

// ──────────────────────────────────────────────
// MOCK RULE CACHE
// ──────────────────────────────────────────────

// MockRuleCache is a mock implementation of RuleCacheInterface.
type MockRuleCache struct {
	mu      sync.Mutex
	entries map[string][]*domain.PricingRule

	// Counters
	GetCallCount        int32
	SetCallCount        int32
	InvalidateCallCount int32

	// Error injection
	GetError        error
	SetError        error
	InvalidateError error
}

// NewMockRuleCache creates a new mock rule cache.
func NewMockRuleCache() *MockRuleCache {
	return &MockRuleCache{
		entries: make(map[string][]*domain.PricingRule),
	}
}

func (m *MockRuleCache) Get(ctx context.Context, tenantID string) ([]*domain.PricingRule, bool, error) {
	atomic.AddInt32(&m.GetCallCount, 1)
	if m.GetError != nil {
		return nil, false, m.GetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rules, ok := m.entries[tenantID]
	return rules, ok, nil
}

func (m *MockRuleCache) Set(ctx context.Context, tenantID string, rules []*domain.PricingRule) error {
	atomic.AddInt32(&m.SetCallCount, 1)
	if m.SetError != nil {
		return m.SetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[tenantID] = rules
	return nil
}

func (m *MockRuleCache) Invalidate(ctx context.Context, tenantID string) error {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	if m.InvalidateError != nil {
		return m.InvalidateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, tenantID)
	return nil
}

// Cached reports whether the tenant has a cache entry.
func (m *MockRuleCache) Cached(tenantID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[tenantID]
	return ok
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStoreInterface.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]string // booking ID -> holder token
	seq   int

	AcquireCallCount int32
	ReleaseCallCount int32

	AcquireError error
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]string),
	}
}

// Hold marks a booking as locked by someone else.
func (m *MockLockStore) Hold(bookingID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locks[bookingID] = "other-holder"
}

// IsLocked reports whether a booking lock is held.
func (m *MockLockStore) IsLocked(bookingID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.locks[bookingID]
	return ok
}

func (m *MockLockStore) AcquireBookingLock(ctx context.Context, bookingID string, ttl time.Duration) (string, bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return "", false, m.AcquireError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, held := m.locks[bookingID]; held {
		return "", false, nil
	}
	m.seq++
	token := fmt.Sprintf("token-%d", m.seq)
	m.locks[bookingID] = token
	return token, true, nil
}

func (m *MockLockStore) ReleaseBookingLock(ctx context.Context, bookingID, token string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[bookingID] == token {
		delete(m.locks, bookingID)
	}
	return nil
}

// ──────────────────────────────────────────────
// MOCK PSP
// ──────────────────────────────────────────────

// ErrPSPUnavailable is returned by FailingPSP.
var ErrPSPUnavailable = errors.New("psp unavailable")

// FailingPSP is a PSP that always fails.
type FailingPSP struct {
	CallCount int32
}

func (p *FailingPSP) CreateIntent(ctx context.Context, req service.IntentRequest) (*service.Intent, error) {
	atomic.AddInt32(&p.CallCount, 1)
	return nil, ErrPSPUnavailable
}

// RecordingPSP succeeds and remembers every request it saw.
type RecordingPSP struct {
	mu       sync.Mutex
	Requests []service.IntentRequest
}

func (p *RecordingPSP) CreateIntent(ctx context.Context, req service.IntentRequest) (*service.Intent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Requests = append(p.Requests, req)
	return &service.Intent{ID: "pi_test", ClientSecret: "pi_test_secret"}, nil
}

// Compile-time interface checks.
var (
	_ repository.TenantRepository      = (*MockTenantRepository)(nil)
	_ repository.VehicleRepository     = (*MockVehicleRepository)(nil)
	_ repository.PricingRuleRepository = (*MockPricingRuleRepository)(nil)
	_ repository.UserRepository        = (*MockUserRepository)(nil)
	_ repository.BookingRepository     = (*MockBookingRepository)(nil)
	_ repository.DriverRepository      = (*MockDriverRepository)(nil)
	_ repository.PaymentRepository     = (*MockPaymentRepository)(nil)
	_ repository.TxManager             = (*MockTxManager)(nil)
	_ redis.RuleCacheInterface         = (*MockRuleCache)(nil)
	_ redis.LockStoreInterface         = (*MockLockStore)(nil)
	_ service.PSP                      = (*FailingPSP)(nil)
	_ service.PSP                      = (*RecordingPSP)(nil)
)
