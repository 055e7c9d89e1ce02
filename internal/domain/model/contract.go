package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/veresko/boxroom/internal/domain/errors"
)

// Contract is the binding claim created exactly once when an order
// completes. Its rental bounds are copied from the order and never
// change afterwards; an open-ended contract only ends via Terminate.
type Contract struct {
	ID            int64
	Number        string
	OrderID       int64
	UserID        int64
	StorageUnitID int64
	CategoryID    int64
	Period        DateRange
	SignedAt      *time.Time
	TerminatedAt  *time.Time
	CreatedAt     time.Time
}

// NewContractFromOrder builds the contract handed off by a completed
// order, copying user, unit and rental bounds.
func NewContractFromOrder(o *Order, now time.Time) *Contract {
	return &Contract{
		Number:        uuid.NewString(),
		OrderID:       o.ID,
		UserID:        o.UserID,
		StorageUnitID: o.StorageUnitID,
		CategoryID:    o.CategoryID,
		Period:        o.Period,
		CreatedAt:     now,
	}
}

// CreatedEvent is the event recorded when the contract is first
// persisted.
func (c Contract) CreatedEvent() Event {
	return c.event(EventContractCreated, c.CreatedAt)
}

// IsActive reports whether the contract binds its unit at the given
// moment: not terminated and not past its end date.
func (c Contract) IsActive(now time.Time) bool {
	if c.TerminatedAt != nil {
		return false
	}
	d, ok := c.Period.End.Date()
	if !ok {
		return true
	}
	return !Day(now).After(d)
}

// Bounded reports whether the contract has a concrete end date.
// Unlimited contracts never expire on their own.
func (c Contract) Bounded() bool {
	return c.Period.End.Bounded()
}

// IsSigned reports whether the tenant signed the contract.
func (c Contract) IsSigned() bool {
	return c.SignedAt != nil
}

// Sign records the tenant signature. Signing is independent of
// termination but happens at most once.
func (c *Contract) Sign(now time.Time) (Event, error) {
	if c.SignedAt != nil {
		return Event{}, fmt.Errorf("%w: contract %s already signed",
			domainErrors.ErrInvalidStateTransition, c.Number)
	}
	c.SignedAt = &now
	return c.event(EventContractSigned, now), nil
}

// Terminate ends the contract. The caller releases the storage unit as
// the paired transition.
func (c *Contract) Terminate(now time.Time) (Event, error) {
	if c.TerminatedAt != nil {
		return Event{}, fmt.Errorf("%w: contract %s already terminated",
			domainErrors.ErrInvalidStateTransition, c.Number)
	}
	c.TerminatedAt = &now
	return c.event(EventContractTerminated, now), nil
}

func (c Contract) event(kind EventKind, now time.Time) Event {
	return NewEvent(kind, now, map[string]any{
		"contract_id":     c.ID,
		"number":          c.Number,
		"order_id":        c.OrderID,
		"user_id":         c.UserID,
		"storage_unit_id": c.StorageUnitID,
	})
}
