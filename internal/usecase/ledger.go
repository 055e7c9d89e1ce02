package usecase

import (
	"context"

	"github.com/veresko/boxroom/internal/domain/model"
	"github.com/veresko/boxroom/internal/domain/repository"
)

// ClaimLedger answers which binding claims rest on a storage unit for a
// candidate period: claiming orders, non-terminated contracts and
// declared blackout windows. A unit is a valid assignment candidate iff
// all three queries come back empty.
type ClaimLedger struct {
	repos repository.Factory
}

// NewClaimLedger constructs ClaimLedger over the given repositories.
func NewClaimLedger(repos repository.Factory) *ClaimLedger {
	return &ClaimLedger{repos: repos}
}

// OverlappingOrders returns orders claiming the unit for the period.
// excludeOrderID, when non-zero, leaves out an order being re-checked.
func (l *ClaimLedger) OverlappingOrders(ctx context.Context, unitID int64, period model.DateRange, excludeOrderID int64) ([]model.Order, error) {
	return l.repos.Orders().ListOverlapping(ctx, unitID, period, excludeOrderID)
}

// OverlappingContracts returns non-terminated contracts claiming the
// unit for the period.
func (l *ClaimLedger) OverlappingContracts(ctx context.Context, unitID int64, period model.DateRange) ([]model.Contract, error) {
	return l.repos.Contracts().ListOverlapping(ctx, unitID, period)
}

// OverlappingUnavailabilities returns blackout windows on the unit
// overlapping the period.
func (l *ClaimLedger) OverlappingUnavailabilities(ctx context.Context, unitID int64, period model.DateRange) ([]model.StorageUnavailability, error) {
	return l.repos.Unavailabilities().ListOverlapping(ctx, unitID, period)
}

// IsFree reports whether the unit carries no claim overlapping the
// period.
func (l *ClaimLedger) IsFree(ctx context.Context, unitID int64, period model.DateRange, excludeOrderID int64) (bool, error) {
	orders, err := l.OverlappingOrders(ctx, unitID, period, excludeOrderID)
	if err != nil {
		return false, err
	}
	if len(orders) > 0 {
		return false, nil
	}

	contracts, err := l.OverlappingContracts(ctx, unitID, period)
	if err != nil {
		return false, err
	}
	if len(contracts) > 0 {
		return false, nil
	}

	windows, err := l.OverlappingUnavailabilities(ctx, unitID, period)
	if err != nil {
		return false, err
	}
	return len(windows) == 0, nil
}
