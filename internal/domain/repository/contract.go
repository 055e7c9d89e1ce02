package repository

import (
	"context"
	"time"

	"github.com/veresko/boxroom/internal/domain/model"
)

// ContractRepository describes persistence operations with contracts.
type ContractRepository interface {
	Create(ctx context.Context, contract *model.Contract) (*model.Contract, error)
	GetByNumber(ctx context.Context, number string) (*model.Contract, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Contract, error)
	// ListOverlapping returns non-terminated contracts claiming the
	// unit for a period overlapping the given one.
	ListOverlapping(ctx context.Context, unitID int64, period model.DateRange) ([]model.Contract, error)
	// ListActiveByCategory returns contracts active at the given moment
	// across all units of a category.
	ListActiveByCategory(ctx context.Context, categoryID int64, now time.Time) ([]model.Contract, error)
	ListActiveByUserAndCategory(ctx context.Context, userID, categoryID int64, now time.Time) ([]model.Contract, error)
	SetSigned(ctx context.Context, contractID int64, signedAt time.Time) error
	SetTerminated(ctx context.Context, contractID int64, terminatedAt time.Time) error
}
