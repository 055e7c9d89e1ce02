package test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/veresko/boxroom/internal/domain/model"
)

// StubPeriod returns a fixed one-month rental interval.
func StubPeriod() model.DateRange {
	start := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	r, _ := model.NewDateRange(start, model.EndOn(start.AddDate(0, 1, 0)))
	return r
}

// StubOrder builds a reserved order owned by the given user.
func StubOrder(reference string, userID int64) *model.Order {
	return &model.Order{
		ID:            1,
		Reference:     reference,
		UserID:        userID,
		StorageUnitID: 1,
		CategoryID:    1,
		Status:        model.OrderStatusReserved,
		Period:        StubPeriod(),
		Price:         decimal.NewFromInt(100),
		Currency:      "EUR",
	}
}

// StubContract builds an unsigned contract owned by the given user.
func StubContract(number string, userID int64) *model.Contract {
	return &model.Contract{
		ID:            1,
		Number:        number,
		OrderID:       1,
		UserID:        userID,
		StorageUnitID: 1,
		CategoryID:    1,
		Period:        StubPeriod(),
	}
}

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	PlaceFn          func(context.Context, int64, int64, model.DateRange) (*model.Order, error)
	OrderFn          func(context.Context, string) (*model.Order, error)
	OrdersFn         func(context.Context, int64) ([]model.Order, error)
	StartPaymentFn   func(context.Context, string) (*model.Order, error)
	ConfirmPaymentFn func(context.Context, string) (*model.Order, error)
	CompleteFn       func(context.Context, string) (*model.Contract, error)
	CancelFn         func(context.Context, string) (*model.Order, error)
}

// PlaceOrder delegates to the provided function or returns a reserved order.
func (s OrderFacadeStub) PlaceOrder(ctx context.Context, userID, categoryID int64, period model.DateRange) (*model.Order, error) {
	if s.PlaceFn != nil {
		return s.PlaceFn(ctx, userID, categoryID, period)
	}
	order := StubOrder("ref-1", userID)
	order.CategoryID = categoryID
	order.Period = period
	return order, nil
}

// Order returns the stub order under the requested reference.
func (s OrderFacadeStub) Order(ctx context.Context, reference string) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, reference)
	}
	return StubOrder(reference, 1), nil
}

// Orders returns predefined orders for the given user.
func (s OrderFacadeStub) Orders(ctx context.Context, userID int64) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, userID)
	}
	return []model.Order{*StubOrder("ref-1", userID)}, nil
}

// StartPayment moves the stub order to AWAITING_PAYMENT.
func (s OrderFacadeStub) StartPayment(ctx context.Context, reference string) (*model.Order, error) {
	if s.StartPaymentFn != nil {
		return s.StartPaymentFn(ctx, reference)
	}
	order := StubOrder(reference, 1)
	order.Status = model.OrderStatusAwaitingPayment
	return order, nil
}

// ConfirmPayment moves the stub order to PAID.
func (s OrderFacadeStub) ConfirmPayment(ctx context.Context, reference string) (*model.Order, error) {
	if s.ConfirmPaymentFn != nil {
		return s.ConfirmPaymentFn(ctx, reference)
	}
	order := StubOrder(reference, 1)
	order.Status = model.OrderStatusPaid
	return order, nil
}

// CompleteOrder hands off to a stub contract.
func (s OrderFacadeStub) CompleteOrder(ctx context.Context, reference string) (*model.Contract, error) {
	if s.CompleteFn != nil {
		return s.CompleteFn(ctx, reference)
	}
	return StubContract("contract-1", 1), nil
}

// CancelOrder moves the stub order to CANCELLED.
func (s OrderFacadeStub) CancelOrder(ctx context.Context, reference string) (*model.Order, error) {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, reference)
	}
	order := StubOrder(reference, 1)
	order.Status = model.OrderStatusCancelled
	return order, nil
}

// ContractFacadeStub simulates contract operations.
type ContractFacadeStub struct {
	ContractFn  func(context.Context, string) (*model.Contract, error)
	ContractsFn func(context.Context, int64) ([]model.Contract, error)
	SignFn      func(context.Context, string) (*model.Contract, error)
	TerminateFn func(context.Context, string) (*model.Contract, error)
}

// Contract returns the stub contract under the requested number.
func (s ContractFacadeStub) Contract(ctx context.Context, number string) (*model.Contract, error) {
	if s.ContractFn != nil {
		return s.ContractFn(ctx, number)
	}
	return StubContract(number, 1), nil
}

// Contracts returns predefined contracts for the given user.
func (s ContractFacadeStub) Contracts(ctx context.Context, userID int64) ([]model.Contract, error) {
	if s.ContractsFn != nil {
		return s.ContractsFn(ctx, userID)
	}
	return []model.Contract{*StubContract("contract-1", userID)}, nil
}

// SignContract records a signature on the stub contract.
func (s ContractFacadeStub) SignContract(ctx context.Context, number string) (*model.Contract, error) {
	if s.SignFn != nil {
		return s.SignFn(ctx, number)
	}
	contract := StubContract(number, 1)
	now := time.Now()
	contract.SignedAt = &now
	return contract, nil
}

// TerminateContract ends the stub contract.
func (s ContractFacadeStub) TerminateContract(ctx context.Context, number string) (*model.Contract, error) {
	if s.TerminateFn != nil {
		return s.TerminateFn(ctx, number)
	}
	contract := StubContract(number, 1)
	now := time.Now()
	contract.TerminatedAt = &now
	return contract, nil
}

// StorageFacadeStub simulates inventory management operations.
type StorageFacadeStub struct {
	CreateCategoryFn func(context.Context, string, string) (*model.StorageCategory, error)
	CreateUnitFn     func(context.Context, int64, string) (*model.StorageUnit, error)
	DeleteUnitFn     func(context.Context, int64) error
	MarkUnavailFn    func(context.Context, int64) (*model.StorageUnit, error)
	MarkAvailFn      func(context.Context, int64) (*model.StorageUnit, error)
	DeclareFn        func(context.Context, int64, model.DateRange, string, bool) (*model.StorageUnavailability, error)
	RemoveFn         func(context.Context, int64) error
}

// CreateCategory returns a stub category.
func (s StorageFacadeStub) CreateCategory(ctx context.Context, place, name string) (*model.StorageCategory, error) {
	if s.CreateCategoryFn != nil {
		return s.CreateCategoryFn(ctx, place, name)
	}
	return &model.StorageCategory{ID: 1, Place: place, Name: name}, nil
}

// CreateUnit returns a stub available unit.
func (s StorageFacadeStub) CreateUnit(ctx context.Context, categoryID int64, number string) (*model.StorageUnit, error) {
	if s.CreateUnitFn != nil {
		return s.CreateUnitFn(ctx, categoryID, number)
	}
	return &model.StorageUnit{ID: 1, CategoryID: categoryID, Number: number, Status: model.StorageStatusAvailable}, nil
}

// DeleteUnit executes the configured handler.
func (s StorageFacadeStub) DeleteUnit(ctx context.Context, unitID int64) error {
	if s.DeleteUnitFn != nil {
		return s.DeleteUnitFn(ctx, unitID)
	}
	return nil
}

// MarkUnitUnavailable returns the unit in MANUALLY_UNAVAILABLE.
func (s StorageFacadeStub) MarkUnitUnavailable(ctx context.Context, unitID int64) (*model.StorageUnit, error) {
	if s.MarkUnavailFn != nil {
		return s.MarkUnavailFn(ctx, unitID)
	}
	return &model.StorageUnit{ID: unitID, CategoryID: 1, Number: "A-01", Status: model.StorageStatusManuallyUnavailable}, nil
}

// MarkUnitAvailable returns the unit in AVAILABLE.
func (s StorageFacadeStub) MarkUnitAvailable(ctx context.Context, unitID int64) (*model.StorageUnit, error) {
	if s.MarkAvailFn != nil {
		return s.MarkAvailFn(ctx, unitID)
	}
	return &model.StorageUnit{ID: unitID, CategoryID: 1, Number: "A-01", Status: model.StorageStatusAvailable}, nil
}

// DeclareUnavailability returns a stub blackout window.
func (s StorageFacadeStub) DeclareUnavailability(ctx context.Context, unitID int64, period model.DateRange, reason string, markUnit bool) (*model.StorageUnavailability, error) {
	if s.DeclareFn != nil {
		return s.DeclareFn(ctx, unitID, period, reason, markUnit)
	}
	return &model.StorageUnavailability{ID: 1, StorageUnitID: unitID, Period: period, Reason: reason}, nil
}

// RemoveUnavailability executes the configured handler.
func (s StorageFacadeStub) RemoveUnavailability(ctx context.Context, id int64) error {
	if s.RemoveFn != nil {
		return s.RemoveFn(ctx, id)
	}
	return nil
}

// AvailabilityFacadeStub answers capacity queries with fixed data.
type AvailabilityFacadeStub struct {
	AvailableFn func(context.Context, int64, model.DateRange) (int, error)
	AtRiskFn    func(context.Context, int64) ([]model.Contract, error)
}

// AvailableStorages returns the configured capacity.
func (s AvailabilityFacadeStub) AvailableStorages(ctx context.Context, categoryID int64, period model.DateRange) (int, error) {
	if s.AvailableFn != nil {
		return s.AvailableFn(ctx, categoryID, period)
	}
	return 1, nil
}

// AtRiskContracts returns the configured forecast.
func (s AvailabilityFacadeStub) AtRiskContracts(ctx context.Context, categoryID int64) ([]model.Contract, error) {
	if s.AtRiskFn != nil {
		return s.AtRiskFn(ctx, categoryID)
	}
	return []model.Contract{*StubContract("contract-1", 1)}, nil
}

// RentalFacadeStub aggregates the facade stubs for router tests.
type RentalFacadeStub struct {
	OrderFacadeStub
	ContractFacadeStub
	StorageFacadeStub
	AvailabilityFacadeStub
}

// SweeperFacadeStub mimics the expiry sweep entry point used by the
// background worker. Remaining orders drain batch by batch.
type SweeperFacadeStub struct {
	ExpireFn  func(context.Context, int) (int, error)
	Remaining int
	Calls     []int
	Err       error

	mu sync.Mutex
}

// Lock exposes the internal mutex for external synchronization.
func (s *SweeperFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases a previously acquired lock.
func (s *SweeperFacadeStub) Unlock() { s.mu.Unlock() }

// ExpireOrders records the call and drains up to limit remaining orders.
func (s *SweeperFacadeStub) ExpireOrders(ctx context.Context, limit int) (int, error) {
	if s.ExpireFn != nil {
		return s.ExpireFn(ctx, limit)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	s.Calls = append(s.Calls, limit)
	n := s.Remaining
	if n > limit {
		n = limit
	}
	s.Remaining -= n
	return n, nil
}

// PriceProviderStub returns canned quotes from the pricing service.
type PriceProviderStub struct {
	QuoteFn func(context.Context, int64, model.DateRange) (*model.PriceQuote, error)
	Price   *model.PriceQuote
	Err     error
}

// Quote returns the configured quote or a default 100 EUR rate.
func (s PriceProviderStub) Quote(ctx context.Context, categoryID int64, period model.DateRange) (*model.PriceQuote, error) {
	if s.QuoteFn != nil {
		return s.QuoteFn(ctx, categoryID, period)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Price != nil {
		return s.Price, nil
	}
	return &model.PriceQuote{CategoryID: categoryID, Amount: decimal.NewFromInt(100), Currency: "EUR"}, nil
}
