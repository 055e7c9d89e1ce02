package repository

import (
	"context"
	"time"

	"github.com/veresko/boxroom/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) (*model.Order, error)
	GetByReference(ctx context.Context, reference string) (*model.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Order, error)
	// ListOverlapping returns the orders that claim the unit for a
	// period overlapping the given one. Cancelled and expired orders do
	// not claim. A non-zero excludeOrderID leaves that order out, for
	// re-checking an order being modified.
	ListOverlapping(ctx context.Context, unitID int64, period model.DateRange, excludeOrderID int64) ([]model.Order, error)
	// ListBindingByCategory returns every claiming order in a category,
	// regardless of period.
	ListBindingByCategory(ctx context.Context, categoryID int64) ([]model.Order, error)
	// SelectExpiredBatch picks overdue unpaid orders, skipping rows
	// already locked by a concurrent sweep.
	SelectExpiredBatch(ctx context.Context, now time.Time, limit int) ([]model.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus, updatedAt time.Time) error
}
