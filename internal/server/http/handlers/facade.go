package handlers

import (
	"context"

	"github.com/veresko/boxroom/internal/domain/model"
)

// OrderFacade encapsulates order lifecycle operations exposed via HTTP.
type OrderFacade interface {
	PlaceOrder(ctx context.Context, userID, categoryID int64, period model.DateRange) (*model.Order, error)
	Order(ctx context.Context, reference string) (*model.Order, error)
	Orders(ctx context.Context, userID int64) ([]model.Order, error)
	StartPayment(ctx context.Context, reference string) (*model.Order, error)
	ConfirmPayment(ctx context.Context, reference string) (*model.Order, error)
	CompleteOrder(ctx context.Context, reference string) (*model.Contract, error)
	CancelOrder(ctx context.Context, reference string) (*model.Order, error)
}

// ContractFacade provides contract related operations.
type ContractFacade interface {
	Contract(ctx context.Context, number string) (*model.Contract, error)
	Contracts(ctx context.Context, userID int64) ([]model.Contract, error)
	SignContract(ctx context.Context, number string) (*model.Contract, error)
	TerminateContract(ctx context.Context, number string) (*model.Contract, error)
}

// StorageFacade provides landlord inventory management.
type StorageFacade interface {
	CreateCategory(ctx context.Context, place, name string) (*model.StorageCategory, error)
	CreateUnit(ctx context.Context, categoryID int64, number string) (*model.StorageUnit, error)
	DeleteUnit(ctx context.Context, unitID int64) error
	MarkUnitUnavailable(ctx context.Context, unitID int64) (*model.StorageUnit, error)
	MarkUnitAvailable(ctx context.Context, unitID int64) (*model.StorageUnit, error)
	DeclareUnavailability(ctx context.Context, unitID int64, period model.DateRange, reason string, markUnit bool) (*model.StorageUnavailability, error)
	RemoveUnavailability(ctx context.Context, id int64) error
}

// AvailabilityFacade answers capacity and at-risk queries.
type AvailabilityFacade interface {
	AvailableStorages(ctx context.Context, categoryID int64, period model.DateRange) (int, error)
	AtRiskContracts(ctx context.Context, categoryID int64) ([]model.Contract, error)
}

// RentalFacade aggregates the full set of operations used across handlers.
type RentalFacade interface {
	OrderFacade
	ContractFacade
	StorageFacade
	AvailabilityFacade
}
