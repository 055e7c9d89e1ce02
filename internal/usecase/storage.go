package usecase

import (
	"context"
	"fmt"
	"time"

	domainErrors "github.com/veresko/boxroom/internal/domain/errors"
	"github.com/veresko/boxroom/internal/domain/model"
	"github.com/veresko/boxroom/internal/domain/repository"
)

// StorageUseCase manages landlord inventory: categories, units and
// declared blackout windows.
type StorageUseCase struct {
	repos repository.Factory
	now   func() time.Time
}

// NewStorageUseCase constructs StorageUseCase.
func NewStorageUseCase(repos repository.Factory) *StorageUseCase {
	return &StorageUseCase{repos: repos, now: time.Now}
}

// CreateCategory registers a class of interchangeable units.
func (u *StorageUseCase) CreateCategory(ctx context.Context, place, name string) (*model.StorageCategory, error) {
	return u.repos.Storages().CreateCategory(ctx, &model.StorageCategory{
		Place:     place,
		Name:      name,
		CreatedAt: u.now(),
	})
}

// CreateUnit adds a rentable unit to a category, available immediately.
func (u *StorageUseCase) CreateUnit(ctx context.Context, categoryID int64, number string) (*model.StorageUnit, error) {
	if _, err := u.repos.Storages().GetCategory(ctx, categoryID); err != nil {
		return nil, err
	}
	return u.repos.Storages().CreateUnit(ctx, &model.StorageUnit{
		CategoryID: categoryID,
		Number:     number,
		Status:     model.StorageStatusAvailable,
		UpdatedAt:  u.now(),
	})
}

// DeleteUnit removes a unit that carries no live claim state. Units in
// RESERVED or OCCUPIED cannot be deleted.
func (u *StorageUseCase) DeleteUnit(ctx context.Context, unitID int64) error {
	unit, err := u.repos.Storages().GetUnit(ctx, unitID)
	if err != nil {
		return err
	}
	if !unit.CanBeDeleted() {
		return fmt.Errorf("%w: unit %s is %s", domainErrors.ErrStorageInUse, unit.Number, unit.Status)
	}
	return u.repos.Storages().DeleteUnit(ctx, unitID)
}

// MarkUnavailable withdraws an available unit from assignment candidacy.
func (u *StorageUseCase) MarkUnavailable(ctx context.Context, unitID int64) (*model.StorageUnit, error) {
	return u.unitTransition(ctx, unitID, (*model.StorageUnit).MarkUnavailable)
}

// MarkAvailable returns a manually withheld unit to candidacy.
func (u *StorageUseCase) MarkAvailable(ctx context.Context, unitID int64) (*model.StorageUnit, error) {
	return u.unitTransition(ctx, unitID, (*model.StorageUnit).MarkAvailable)
}

// DeclareUnavailability records a blackout window on a unit. With
// markUnit set the unit is also moved to MANUALLY_UNAVAILABLE; the
// window is consulted by the claim ledger either way.
func (u *StorageUseCase) DeclareUnavailability(ctx context.Context, unitID int64, period model.DateRange, reason string, markUnit bool) (*model.StorageUnavailability, error) {
	now := u.now()

	var window *model.StorageUnavailability
	err := u.repos.WithinTransaction(ctx, func(tx repository.Factory) error {
		unit, err := tx.Storages().GetUnit(ctx, unitID)
		if err != nil {
			return err
		}

		window, err = tx.Unavailabilities().Create(ctx, &model.StorageUnavailability{
			StorageUnitID: unit.ID,
			Period:        period,
			Reason:        reason,
			CreatedAt:     now,
		})
		if err != nil {
			return err
		}

		if markUnit {
			ev, err := unit.MarkUnavailable(now)
			if err != nil {
				return err
			}
			if err := tx.Storages().UpdateUnitStatus(ctx, unit.ID, unit.Status, now); err != nil {
				return err
			}
			if err := tx.Events().Append(ctx, ev); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return window, nil
}

// RemoveUnavailability deletes a blackout window.
func (u *StorageUseCase) RemoveUnavailability(ctx context.Context, id int64) error {
	return u.repos.Unavailabilities().Delete(ctx, id)
}

func (u *StorageUseCase) unitTransition(ctx context.Context, unitID int64, apply func(*model.StorageUnit, time.Time) (model.Event, error)) (*model.StorageUnit, error) {
	now := u.now()

	var updated *model.StorageUnit
	err := u.repos.WithinTransaction(ctx, func(tx repository.Factory) error {
		unit, err := tx.Storages().GetUnit(ctx, unitID)
		if err != nil {
			return err
		}

		ev, err := apply(unit, now)
		if err != nil {
			return err
		}
		if err := tx.Storages().UpdateUnitStatus(ctx, unit.ID, unit.Status, now); err != nil {
			return err
		}
		if err := tx.Events().Append(ctx, ev); err != nil {
			return err
		}
		updated = unit
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
