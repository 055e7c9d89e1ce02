package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainErrors "github.com/veresko/boxroom/internal/domain/errors"
)

// OrderStatus describes the reservation-to-fulfillment lifecycle.
type OrderStatus string

const (
	OrderStatusCreated         OrderStatus = "CREATED"
	OrderStatusReserved        OrderStatus = "RESERVED"
	OrderStatusAwaitingPayment OrderStatus = "AWAITING_PAYMENT"
	OrderStatusPaid            OrderStatus = "PAID"
	OrderStatusCompleted       OrderStatus = "COMPLETED"
	OrderStatusCancelled       OrderStatus = "CANCELLED"
	OrderStatusExpired         OrderStatus = "EXPIRED"
)

// Order is a reservation-in-progress for one storage unit. An order with
// an unbounded period is an "unlimited" rental.
type Order struct {
	ID            int64
	Reference     string
	UserID        int64
	StorageUnitID int64
	CategoryID    int64
	Status        OrderStatus
	Period        DateRange
	Price         decimal.Decimal
	Currency      string
	ExpiresAt     time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewOrder constructs a CREATED order with a fixed expiry timestamp.
func NewOrder(userID, unitID, categoryID int64, period DateRange, price decimal.Decimal, currency string, now time.Time, ttl time.Duration) *Order {
	return &Order{
		Reference:     uuid.NewString(),
		UserID:        userID,
		StorageUnitID: unitID,
		CategoryID:    categoryID,
		Status:        OrderStatusCreated,
		Period:        period,
		Price:         price,
		Currency:      currency,
		ExpiresAt:     now.Add(ttl),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// CreatedEvent is the event recorded when the order is first persisted.
func (o Order) CreatedEvent() Event {
	return o.event(EventOrderCreated, o.CreatedAt)
}

// IsTerminal reports whether the order reached a final status.
func (o Order) IsTerminal() bool {
	switch o.Status {
	case OrderStatusCompleted, OrderStatusCancelled, OrderStatusExpired:
		return true
	}
	return false
}

// Binds reports whether the order still claims its storage unit.
// Every status except CANCELLED and EXPIRED binds.
func (o Order) Binds() bool {
	return o.Status != OrderStatusCancelled && o.Status != OrderStatusExpired
}

// CanBePaid reports whether payment may be taken.
func (o Order) CanBePaid() bool {
	switch o.Status {
	case OrderStatusCreated, OrderStatusReserved, OrderStatusAwaitingPayment:
		return true
	}
	return false
}

// CanBeCancelled reports whether the order may still be cancelled.
func (o Order) CanBeCancelled() bool {
	return !o.IsTerminal()
}

// CanBeCompleted reports whether the order may hand off to a contract.
func (o Order) CanBeCompleted() bool {
	return o.Status == OrderStatusPaid
}

// IsExpired reports whether the order is overdue for payment. Paid and
// terminal orders never expire, regardless of the expiry timestamp.
func (o Order) IsExpired(now time.Time) bool {
	if o.IsTerminal() || o.Status == OrderStatusPaid {
		return false
	}
	return now.After(o.ExpiresAt)
}

// Reserve records that a storage unit has been reserved for the order.
func (o *Order) Reserve(now time.Time) (Event, error) {
	if o.Status != OrderStatusCreated {
		return Event{}, o.transitionError(OrderStatusReserved)
	}
	o.setStatus(OrderStatusReserved, now)
	return o.event(EventOrderReserved, now), nil
}

// AwaitPayment moves a reserved order to AWAITING_PAYMENT.
func (o *Order) AwaitPayment(now time.Time) (Event, error) {
	if o.Status != OrderStatusReserved {
		return Event{}, o.transitionError(OrderStatusAwaitingPayment)
	}
	o.setStatus(OrderStatusAwaitingPayment, now)
	return o.event(EventOrderAwaitingPayment, now), nil
}

// MarkPaid records a successful payment.
func (o *Order) MarkPaid(now time.Time) (Event, error) {
	if !o.CanBePaid() {
		return Event{}, o.transitionError(OrderStatusPaid)
	}
	o.setStatus(OrderStatusPaid, now)
	return o.event(EventOrderPaid, now), nil
}

// Complete finishes a paid order. The caller constructs the contract
// and occupies the unit as the paired transitions.
func (o *Order) Complete(now time.Time) (Event, error) {
	if !o.CanBeCompleted() {
		return Event{}, o.transitionError(OrderStatusCompleted)
	}
	o.setStatus(OrderStatusCompleted, now)
	return o.event(EventOrderCompleted, now), nil
}

// Cancel aborts a non-terminal order.
func (o *Order) Cancel(now time.Time) (Event, error) {
	if !o.CanBeCancelled() {
		return Event{}, o.transitionError(OrderStatusCancelled)
	}
	o.setStatus(OrderStatusCancelled, now)
	return o.event(EventOrderCancelled, now), nil
}

// Expire marks an overdue unpaid order EXPIRED. Calling it on an order
// that is already expired is a no-op, so sweeps are safe to repeat.
func (o *Order) Expire(now time.Time) (Event, error) {
	if o.Status == OrderStatusExpired {
		return Event{}, nil
	}
	if !o.IsExpired(now) {
		return Event{}, o.transitionError(OrderStatusExpired)
	}
	o.setStatus(OrderStatusExpired, now)
	return o.event(EventOrderExpired, now), nil
}

func (o *Order) setStatus(status OrderStatus, now time.Time) {
	o.Status = status
	o.UpdatedAt = now
}

func (o Order) transitionError(to OrderStatus) error {
	return fmt.Errorf("%w: order %s %s -> %s",
		domainErrors.ErrInvalidStateTransition, o.Reference, o.Status, to)
}

func (o Order) event(kind EventKind, now time.Time) Event {
	return NewEvent(kind, now, map[string]any{
		"order_id":        o.ID,
		"reference":       o.Reference,
		"user_id":         o.UserID,
		"storage_unit_id": o.StorageUnitID,
		"status":          string(o.Status),
	})
}
