package usecase

import (
	"context"

	domainErrors "github.com/veresko/boxroom/internal/domain/errors"
	"github.com/veresko/boxroom/internal/domain/model"
	"github.com/veresko/boxroom/internal/domain/repository"
)

// AssignmentUseCase selects a concrete unit for a category and rental
// period. It has no side effects of its own; the order flow drives the
// paired storage transition after a successful pick.
type AssignmentUseCase struct {
	repos repository.Factory
}

// NewAssignmentUseCase constructs AssignmentUseCase.
func NewAssignmentUseCase(repos repository.Factory) *AssignmentUseCase {
	return &AssignmentUseCase{repos: repos}
}

// AssignStorage returns the unit to allocate for the period, or
// ErrNoStorageAvailable. A non-zero userID enables the extension
// preference: a tenant whose own contract on a unit of this category
// ends exactly the day before the requested start keeps that unit.
// Safe to call for read-only availability probing.
func (u *AssignmentUseCase) AssignStorage(ctx context.Context, categoryID int64, period model.DateRange, userID int64) (*model.StorageUnit, error) {
	return assignStorage(ctx, u.repos, categoryID, period, userID, false)
}

// HasAvailableStorage reports whether any unit of the category can take
// the period.
func (u *AssignmentUseCase) HasAvailableStorage(ctx context.Context, categoryID int64, period model.DateRange) (bool, error) {
	n, err := u.countAvailable(ctx, categoryID, period, true)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CountAvailableStorages returns category-wide capacity for the period,
// without any per-user preference.
func (u *AssignmentUseCase) CountAvailableStorages(ctx context.Context, categoryID int64, period model.DateRange) (int, error) {
	return u.countAvailable(ctx, categoryID, period, false)
}

func (u *AssignmentUseCase) countAvailable(ctx context.Context, categoryID int64, period model.DateRange, stopAtFirst bool) (int, error) {
	units, err := u.repos.Storages().ListUnitsByCategory(ctx, categoryID)
	if err != nil {
		return 0, err
	}

	ledger := NewClaimLedger(u.repos)
	count := 0
	for i := range units {
		if units[i].Status == model.StorageStatusManuallyUnavailable {
			continue
		}
		free, err := ledger.IsFree(ctx, units[i].ID, period, 0)
		if err != nil {
			return 0, err
		}
		if free {
			count++
			if stopAtFirst {
				return count, nil
			}
		}
	}
	return count, nil
}

// assignStorage runs the selection against the given repository set.
// The order flow calls it with lock=true inside a transaction so that
// concurrent reservation attempts serialize on the category's units.
func assignStorage(ctx context.Context, repos repository.Factory, categoryID int64, period model.DateRange, userID int64, lock bool) (*model.StorageUnit, error) {
	storages := repos.Storages()

	var units []model.StorageUnit
	var err error
	if lock {
		units, err = storages.LockUnitsByCategory(ctx, categoryID)
	} else {
		units, err = storages.ListUnitsByCategory(ctx, categoryID)
	}
	if err != nil {
		return nil, err
	}

	ledger := NewClaimLedger(repos)

	if userID != 0 {
		unit, err := preferredExtension(ctx, repos, ledger, units, userID, categoryID, period)
		if err != nil {
			return nil, err
		}
		if unit != nil {
			return unit, nil
		}
	}

	// Units arrive in stable unit-number order; the first free one wins.
	for i := range units {
		if units[i].Status == model.StorageStatusManuallyUnavailable {
			continue
		}
		free, err := ledger.IsFree(ctx, units[i].ID, period, 0)
		if err != nil {
			return nil, err
		}
		if free {
			return &units[i], nil
		}
	}

	return nil, domainErrors.ErrNoStorageAvailable
}

// preferredExtension finds the unit of the user's own contract that
// ends exactly the day before the requested start, keeping a seamless
// renewal on the same unit when it is still eligible.
func preferredExtension(ctx context.Context, repos repository.Factory, ledger *ClaimLedger, units []model.StorageUnit, userID, categoryID int64, period model.DateRange) (*model.StorageUnit, error) {
	contracts, err := repos.Contracts().ListActiveByUserAndCategory(ctx, userID, categoryID, model.Day(period.Start).AddDate(0, 0, -1))
	if err != nil {
		return nil, err
	}

	for _, c := range contracts {
		if !period.FollowsImmediately(c.Period) {
			continue
		}
		for i := range units {
			if units[i].ID != c.StorageUnitID || units[i].Status == model.StorageStatusManuallyUnavailable {
				continue
			}
			free, err := ledger.IsFree(ctx, units[i].ID, period, 0)
			if err != nil {
				return nil, err
			}
			if free {
				return &units[i], nil
			}
		}
	}
	return nil, nil
}
