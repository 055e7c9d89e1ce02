package repository

import (
	"context"
	"time"

	"github.com/veresko/boxroom/internal/domain/model"
)

// StorageRepository describes persistence operations with storage
// categories and units.
type StorageRepository interface {
	CreateCategory(ctx context.Context, category *model.StorageCategory) (*model.StorageCategory, error)
	GetCategory(ctx context.Context, id int64) (*model.StorageCategory, error)

	CreateUnit(ctx context.Context, unit *model.StorageUnit) (*model.StorageUnit, error)
	GetUnit(ctx context.Context, id int64) (*model.StorageUnit, error)
	// ListUnitsByCategory returns the category's units in stable
	// unit-number order.
	ListUnitsByCategory(ctx context.Context, categoryID int64) ([]model.StorageUnit, error)
	// LockUnitsByCategory is ListUnitsByCategory with the rows locked
	// for the duration of the surrounding transaction.
	LockUnitsByCategory(ctx context.Context, categoryID int64) ([]model.StorageUnit, error)
	UpdateUnitStatus(ctx context.Context, unitID int64, status model.StorageStatus, updatedAt time.Time) error
	DeleteUnit(ctx context.Context, unitID int64) error
}
