package model

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/veresko/boxroom/internal/domain/errors"
)

func newTestContract(t *testing.T, end RangeEnd) *Contract {
	t.Helper()
	period, err := NewDateRange(day(0), end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	order := NewOrder(7, 3, 1, period, decimal.NewFromInt(120), "EUR", base, 7*24*time.Hour)
	order.ID = 42
	return NewContractFromOrder(order, base)
}

func TestNewContractFromOrderCopiesBounds(t *testing.T) {
	c := newTestContract(t, EndOn(day(30)))
	if c.OrderID != 42 || c.UserID != 7 || c.StorageUnitID != 3 || c.CategoryID != 1 {
		t.Fatalf("contract did not copy order identities: %+v", c)
	}
	if !c.Period.Start.Equal(day(0)) {
		t.Fatalf("unexpected period start %v", c.Period.Start)
	}
	if c.Number == "" {
		t.Fatal("expected generated contract number")
	}
	if c.IsSigned() || c.TerminatedAt != nil {
		t.Fatal("new contract should be unsigned and active")
	}
}

func TestContractIsActive(t *testing.T) {
	c := newTestContract(t, EndOn(day(30)))
	if !c.IsActive(day(0)) || !c.IsActive(day(30)) {
		t.Fatal("contract should be active through its end date")
	}
	if c.IsActive(day(31)) {
		t.Fatal("contract should not be active past its end date")
	}

	unlimited := newTestContract(t, Unbounded())
	if !unlimited.IsActive(day(5000)) {
		t.Fatal("unlimited contract should stay active until terminated")
	}

	if _, err := unlimited.Terminate(day(10)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if unlimited.IsActive(day(10)) {
		t.Fatal("terminated contract should not be active")
	}
}

func TestContractSign(t *testing.T) {
	c := newTestContract(t, EndOn(day(30)))

	ev, err := c.Sign(base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Kind != EventContractSigned || !c.IsSigned() {
		t.Fatalf("unexpected sign result: %s signed=%v", ev.Kind, c.IsSigned())
	}

	if _, err := c.Sign(base); !errors.Is(err, domainErrors.ErrInvalidStateTransition) {
		t.Fatalf("double signing should fail, got %v", err)
	}
}

func TestContractSignAfterTermination(t *testing.T) {
	// Signing is independent of termination: the paperwork may arrive
	// after the tenant already moved out.
	c := newTestContract(t, EndOn(day(30)))
	if _, err := c.Terminate(base); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.Sign(base); err != nil {
		t.Fatalf("signing a terminated contract should work, got %v", err)
	}
}

func TestContractTerminateTwice(t *testing.T) {
	c := newTestContract(t, EndOn(day(30)))
	if _, err := c.Terminate(base); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.Terminate(base); !errors.Is(err, domainErrors.ErrInvalidStateTransition) {
		t.Fatalf("double termination should fail, got %v", err)
	}
}

func TestContractBounded(t *testing.T) {
	if !newTestContract(t, EndOn(day(30))).Bounded() {
		t.Fatal("dated contract should be bounded")
	}
	if newTestContract(t, Unbounded()).Bounded() {
		t.Fatal("unlimited contract should not be bounded")
	}
}
