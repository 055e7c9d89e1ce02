package repository

import (
	"context"

	"github.com/veresko/boxroom/internal/domain/model"
)

// UnavailabilityRepository describes persistence operations with
// landlord-declared blackout windows.
type UnavailabilityRepository interface {
	Create(ctx context.Context, window *model.StorageUnavailability) (*model.StorageUnavailability, error)
	ListOverlapping(ctx context.Context, unitID int64, period model.DateRange) ([]model.StorageUnavailability, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]model.StorageUnavailability, error)
	Delete(ctx context.Context, id int64) error
}
