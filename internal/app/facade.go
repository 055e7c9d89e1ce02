package app

import (
	"context"
	"time"

	"github.com/veresko/boxroom/internal/domain/model"
	"github.com/veresko/boxroom/internal/usecase"
)

// PriceProvider supplies rental quotes from the external pricing service.
type PriceProvider interface {
	Quote(ctx context.Context, categoryID int64, period model.DateRange) (*model.PriceQuote, error)
}

// RentalFacade is the application entry point aggregating the rental use
// cases behind one surface for the HTTP layer and the background worker.
type RentalFacade struct {
	orders     *usecase.OrderUseCase
	contracts  *usecase.ContractUseCase
	storages   *usecase.StorageUseCase
	assignment *usecase.AssignmentUseCase
	forecast   *usecase.ForecastUseCase
	prices     PriceProvider
}

// NewRentalFacade constructs the facade.
func NewRentalFacade(
	orders *usecase.OrderUseCase,
	contracts *usecase.ContractUseCase,
	storages *usecase.StorageUseCase,
	assignment *usecase.AssignmentUseCase,
	forecast *usecase.ForecastUseCase,
	prices PriceProvider,
) *RentalFacade {
	return &RentalFacade{
		orders:     orders,
		contracts:  contracts,
		storages:   storages,
		assignment: assignment,
		forecast:   forecast,
		prices:     prices,
	}
}

// PlaceOrder quotes the rental with the pricing service and creates the
// reservation. A category the service cannot price cannot be ordered.
func (f *RentalFacade) PlaceOrder(ctx context.Context, userID, categoryID int64, period model.DateRange) (*model.Order, error) {
	quote, err := f.prices.Quote(ctx, categoryID, period)
	if err != nil {
		return nil, err
	}
	return f.orders.Create(ctx, userID, categoryID, period, *quote)
}

func (f *RentalFacade) Order(ctx context.Context, reference string) (*model.Order, error) {
	return f.orders.GetByReference(ctx, reference)
}

func (f *RentalFacade) Orders(ctx context.Context, userID int64) ([]model.Order, error) {
	return f.orders.ListByUser(ctx, userID)
}

func (f *RentalFacade) StartPayment(ctx context.Context, reference string) (*model.Order, error) {
	return f.orders.StartPayment(ctx, reference)
}

func (f *RentalFacade) ConfirmPayment(ctx context.Context, reference string) (*model.Order, error) {
	return f.orders.ConfirmPayment(ctx, reference)
}

func (f *RentalFacade) CompleteOrder(ctx context.Context, reference string) (*model.Contract, error) {
	return f.orders.Complete(ctx, reference)
}

func (f *RentalFacade) CancelOrder(ctx context.Context, reference string) (*model.Order, error) {
	return f.orders.Cancel(ctx, reference)
}

// ExpireOrders expires up to limit overdue unpaid orders.
func (f *RentalFacade) ExpireOrders(ctx context.Context, limit int) (int, error) {
	return f.orders.ExpireDue(ctx, limit)
}

func (f *RentalFacade) Contract(ctx context.Context, number string) (*model.Contract, error) {
	return f.contracts.GetByNumber(ctx, number)
}

func (f *RentalFacade) Contracts(ctx context.Context, userID int64) ([]model.Contract, error) {
	return f.contracts.ListByUser(ctx, userID)
}

func (f *RentalFacade) SignContract(ctx context.Context, number string) (*model.Contract, error) {
	return f.contracts.Sign(ctx, number)
}

func (f *RentalFacade) TerminateContract(ctx context.Context, number string) (*model.Contract, error) {
	return f.contracts.Terminate(ctx, number)
}

func (f *RentalFacade) CreateCategory(ctx context.Context, place, name string) (*model.StorageCategory, error) {
	return f.storages.CreateCategory(ctx, place, name)
}

func (f *RentalFacade) CreateUnit(ctx context.Context, categoryID int64, number string) (*model.StorageUnit, error) {
	return f.storages.CreateUnit(ctx, categoryID, number)
}

func (f *RentalFacade) DeleteUnit(ctx context.Context, unitID int64) error {
	return f.storages.DeleteUnit(ctx, unitID)
}

func (f *RentalFacade) MarkUnitUnavailable(ctx context.Context, unitID int64) (*model.StorageUnit, error) {
	return f.storages.MarkUnavailable(ctx, unitID)
}

func (f *RentalFacade) MarkUnitAvailable(ctx context.Context, unitID int64) (*model.StorageUnit, error) {
	return f.storages.MarkAvailable(ctx, unitID)
}

func (f *RentalFacade) DeclareUnavailability(ctx context.Context, unitID int64, period model.DateRange, reason string, markUnit bool) (*model.StorageUnavailability, error) {
	return f.storages.DeclareUnavailability(ctx, unitID, period, reason, markUnit)
}

func (f *RentalFacade) RemoveUnavailability(ctx context.Context, id int64) error {
	return f.storages.RemoveUnavailability(ctx, id)
}

// AvailableStorages reports category capacity for the period.
func (f *RentalFacade) AvailableStorages(ctx context.Context, categoryID int64, period model.DateRange) (int, error) {
	return f.assignment.CountAvailableStorages(ctx, categoryID, period)
}

// AtRiskContracts lists active bounded contracts of the category whose
// holder would have no unit to move into when their term ends.
func (f *RentalFacade) AtRiskContracts(ctx context.Context, categoryID int64) ([]model.Contract, error) {
	return f.forecast.FindAtRiskContracts(ctx, categoryID, time.Now())
}
