package usecase

import (
	"context"
	"time"

	"github.com/veresko/boxroom/internal/domain/model"
	"github.com/veresko/boxroom/internal/domain/repository"
)

// OrderUseCase orchestrates the reservation-to-fulfillment lifecycle,
// pairing each order transition with the corresponding storage unit
// transition inside one transaction.
type OrderUseCase struct {
	repos repository.Factory
	ttl   time.Duration
	now   func() time.Time
}

// NewOrderUseCase constructs OrderUseCase. ttl is how long an unpaid
// order holds its reservation before it may be expired.
func NewOrderUseCase(repos repository.Factory, ttl time.Duration) *OrderUseCase {
	return &OrderUseCase{repos: repos, ttl: ttl, now: time.Now}
}

// Create assigns a unit for the period, persists the order and reserves
// the unit, all atomically with respect to concurrent reservation
// attempts on the same category. The price quote comes from the
// external pricing service. Newly at-risk contracts in the category are
// recorded as warning events in the same transaction.
func (u *OrderUseCase) Create(ctx context.Context, userID, categoryID int64, period model.DateRange, quote model.PriceQuote) (*model.Order, error) {
	now := u.now()

	var created *model.Order
	err := u.repos.WithinTransaction(ctx, func(tx repository.Factory) error {
		unit, err := assignStorage(ctx, tx, categoryID, period, userID, true)
		if err != nil {
			return err
		}

		order := model.NewOrder(userID, unit.ID, categoryID, period, quote.Amount, quote.Currency, now, u.ttl)
		order, err = tx.Orders().Create(ctx, order)
		if err != nil {
			return err
		}

		events := []model.Event{order.CreatedEvent()}

		ev, err := order.Reserve(now)
		if err != nil {
			return err
		}
		events = append(events, ev)
		if err := tx.Orders().UpdateStatus(ctx, order.ID, order.Status, now); err != nil {
			return err
		}

		if unit.Status == model.StorageStatusAvailable {
			ev, err := unit.Reserve(now)
			if err != nil {
				return err
			}
			events = append(events, ev)
			if err := tx.Storages().UpdateUnitStatus(ctx, unit.ID, unit.Status, now); err != nil {
				return err
			}
		}

		warnings, err := atRiskWarnings(ctx, tx, categoryID, now)
		if err != nil {
			return err
		}
		events = append(events, warnings...)

		if err := tx.Events().Append(ctx, events...); err != nil {
			return err
		}

		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// StartPayment moves a reserved order to AWAITING_PAYMENT before the
// gateway takes over.
func (u *OrderUseCase) StartPayment(ctx context.Context, reference string) (*model.Order, error) {
	return u.transition(ctx, reference, func(o *model.Order, now time.Time) (model.Event, error) {
		return o.AwaitPayment(now)
	})
}

// ConfirmPayment records a successful payment reported by the gateway.
func (u *OrderUseCase) ConfirmPayment(ctx context.Context, reference string) (*model.Order, error) {
	return u.transition(ctx, reference, func(o *model.Order, now time.Time) (model.Event, error) {
		return o.MarkPaid(now)
	})
}

// Complete finishes a paid order: the contract is constructed from the
// order and the unit moves to OCCUPIED.
func (u *OrderUseCase) Complete(ctx context.Context, reference string) (*model.Contract, error) {
	now := u.now()

	var contract *model.Contract
	err := u.repos.WithinTransaction(ctx, func(tx repository.Factory) error {
		order, err := tx.Orders().GetByReference(ctx, reference)
		if err != nil {
			return err
		}

		ev, err := order.Complete(now)
		if err != nil {
			return err
		}
		if err := tx.Orders().UpdateStatus(ctx, order.ID, order.Status, now); err != nil {
			return err
		}
		events := []model.Event{ev}

		contract, err = tx.Contracts().Create(ctx, model.NewContractFromOrder(order, now))
		if err != nil {
			return err
		}
		events = append(events, contract.CreatedEvent())

		occupied, err := occupyUnit(ctx, tx, order.StorageUnitID, now)
		if err != nil {
			return err
		}
		events = append(events, occupied...)

		return tx.Events().Append(ctx, events...)
	})
	if err != nil {
		return nil, err
	}
	return contract, nil
}

// Cancel aborts a non-terminal order and releases its reservation.
func (u *OrderUseCase) Cancel(ctx context.Context, reference string) (*model.Order, error) {
	now := u.now()

	var cancelled *model.Order
	err := u.repos.WithinTransaction(ctx, func(tx repository.Factory) error {
		order, err := tx.Orders().GetByReference(ctx, reference)
		if err != nil {
			return err
		}

		ev, err := order.Cancel(now)
		if err != nil {
			return err
		}
		if err := tx.Orders().UpdateStatus(ctx, order.ID, order.Status, now); err != nil {
			return err
		}
		events := []model.Event{ev}

		released, err := releaseUnit(ctx, tx, order.StorageUnitID, order.ID, now)
		if err != nil {
			return err
		}
		events = append(events, released...)

		if err := tx.Events().Append(ctx, events...); err != nil {
			return err
		}
		cancelled = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

// ExpireDue expires up to limit overdue unpaid orders and releases
// their reservations. Safe to call repeatedly; already expired orders
// are left alone. Returns the number of orders expired.
func (u *OrderUseCase) ExpireDue(ctx context.Context, limit int) (int, error) {
	now := u.now()

	expired := 0
	err := u.repos.WithinTransaction(ctx, func(tx repository.Factory) error {
		orders, err := tx.Orders().SelectExpiredBatch(ctx, now, limit)
		if err != nil {
			return err
		}

		for i := range orders {
			order := &orders[i]
			if !order.IsExpired(now) {
				continue
			}

			ev, err := order.Expire(now)
			if err != nil {
				return err
			}
			if err := tx.Orders().UpdateStatus(ctx, order.ID, order.Status, now); err != nil {
				return err
			}
			events := []model.Event{ev}

			released, err := releaseUnit(ctx, tx, order.StorageUnitID, order.ID, now)
			if err != nil {
				return err
			}
			events = append(events, released...)

			if err := tx.Events().Append(ctx, events...); err != nil {
				return err
			}
			expired++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return expired, nil
}

// GetByReference fetches one order.
func (u *OrderUseCase) GetByReference(ctx context.Context, reference string) (*model.Order, error) {
	return u.repos.Orders().GetByReference(ctx, reference)
}

// ListByUser returns the user's orders.
func (u *OrderUseCase) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	return u.repos.Orders().ListByUser(ctx, userID)
}

func (u *OrderUseCase) transition(ctx context.Context, reference string, apply func(*model.Order, time.Time) (model.Event, error)) (*model.Order, error) {
	now := u.now()

	var updated *model.Order
	err := u.repos.WithinTransaction(ctx, func(tx repository.Factory) error {
		order, err := tx.Orders().GetByReference(ctx, reference)
		if err != nil {
			return err
		}

		ev, err := apply(order, now)
		if err != nil {
			return err
		}
		if err := tx.Orders().UpdateStatus(ctx, order.ID, order.Status, now); err != nil {
			return err
		}
		if err := tx.Events().Append(ctx, ev); err != nil {
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// releaseUnit returns the unit to AVAILABLE when the ended claim was
// the one holding it. Any other binding order or contract covering the
// current day keeps the unit in its present status. excludeOrderID
// leaves the order whose claim is ending (or the order a terminating
// contract grew from) out of the check.
func releaseUnit(ctx context.Context, tx repository.Factory, unitID, excludeOrderID int64, now time.Time) ([]model.Event, error) {
	unit, err := tx.Storages().GetUnit(ctx, unitID)
	if err != nil {
		return nil, err
	}
	if unit.Status != model.StorageStatusReserved && unit.Status != model.StorageStatusOccupied {
		return nil, nil
	}

	today, err := model.NewDateRange(now, model.EndOn(now))
	if err != nil {
		return nil, err
	}
	ledger := NewClaimLedger(tx)
	orders, err := ledger.OverlappingOrders(ctx, unitID, today, excludeOrderID)
	if err != nil {
		return nil, err
	}
	contracts, err := ledger.OverlappingContracts(ctx, unitID, today)
	if err != nil {
		return nil, err
	}
	if len(orders) > 0 || len(contracts) > 0 {
		return nil, nil
	}

	ev, err := unit.Release(now)
	if err != nil {
		return nil, err
	}
	if err := tx.Storages().UpdateUnitStatus(ctx, unit.ID, unit.Status, now); err != nil {
		return nil, err
	}
	return []model.Event{ev}, nil
}

func occupyUnit(ctx context.Context, tx repository.Factory, unitID int64, now time.Time) ([]model.Event, error) {
	unit, err := tx.Storages().GetUnit(ctx, unitID)
	if err != nil {
		return nil, err
	}
	if unit.Status != model.StorageStatusReserved {
		return nil, nil
	}
	ev, err := unit.Occupy(now)
	if err != nil {
		return nil, err
	}
	if err := tx.Storages().UpdateUnitStatus(ctx, unit.ID, unit.Status, now); err != nil {
		return nil, err
	}
	return []model.Event{ev}, nil
}

// atRiskWarnings emits a warning event per contract left without a
// lateral move after this category's occupancy changed.
func atRiskWarnings(ctx context.Context, tx repository.Factory, categoryID int64, now time.Time) ([]model.Event, error) {
	forecast := NewForecastUseCase(tx)
	atRisk, err := forecast.FindAtRiskContracts(ctx, categoryID, now)
	if err != nil {
		return nil, err
	}

	events := make([]model.Event, 0, len(atRisk))
	for _, c := range atRisk {
		events = append(events, model.NewEvent(model.EventStorageAtRisk, now, map[string]any{
			"contract_id":     c.ID,
			"number":          c.Number,
			"user_id":         c.UserID,
			"storage_unit_id": c.StorageUnitID,
			"category_id":     c.CategoryID,
		}))
	}
	return events, nil
}
