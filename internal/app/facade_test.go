package app

import (
	"context"
	"errors"
	"testing"
	"time"

	domainErrors "github.com/veresko/boxroom/internal/domain/errors"
	"github.com/veresko/boxroom/internal/domain/model"
	testhelpers "github.com/veresko/boxroom/internal/test"
	"github.com/veresko/boxroom/internal/usecase"
)

func newFacade(prices PriceProvider) (*RentalFacade, *testhelpers.RepositoryFactory) {
	repos := testhelpers.NewRepositoryFactory()
	facade := NewRentalFacade(
		usecase.NewOrderUseCase(repos, time.Hour),
		usecase.NewContractUseCase(repos),
		usecase.NewStorageUseCase(repos),
		usecase.NewAssignmentUseCase(repos),
		usecase.NewForecastUseCase(repos),
		prices,
	)
	return facade, repos
}

func futurePeriod(t *testing.T, startOffset, endOffset int) model.DateRange {
	t.Helper()
	start := model.Day(time.Now()).AddDate(0, 0, startOffset)
	r, err := model.NewDateRange(start, model.EndOn(start.AddDate(0, 0, endOffset-startOffset)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return r
}

func TestRentalFacadeOrderFlow(t *testing.T) {
	facade, repos := newFacade(testhelpers.PriceProviderStub{})
	ctx := context.Background()

	category, err := facade.CreateCategory(ctx, "Berlin", "5sqm")
	if err != nil {
		t.Fatalf("create category returned error: %v", err)
	}
	unit, err := facade.CreateUnit(ctx, category.ID, "A-01")
	if err != nil {
		t.Fatalf("create unit returned error: %v", err)
	}

	period := futurePeriod(t, 1, 31)
	order, err := facade.PlaceOrder(ctx, 7, category.ID, period)
	if err != nil {
		t.Fatalf("place order returned error: %v", err)
	}
	if order.Status != model.OrderStatusReserved {
		t.Fatalf("expected reserved order, got %s", order.Status)
	}
	if order.Price.String() != "100" || order.Currency != "EUR" {
		t.Fatalf("unexpected price: %s %s", order.Price, order.Currency)
	}

	if _, err := facade.StartPayment(ctx, order.Reference); err != nil {
		t.Fatalf("start payment returned error: %v", err)
	}
	if _, err := facade.ConfirmPayment(ctx, order.Reference); err != nil {
		t.Fatalf("confirm payment returned error: %v", err)
	}

	contract, err := facade.CompleteOrder(ctx, order.Reference)
	if err != nil {
		t.Fatalf("complete returned error: %v", err)
	}
	if contract.UserID != 7 || contract.StorageUnitID != unit.ID {
		t.Fatalf("unexpected contract: %+v", contract)
	}

	listed, err := facade.Contracts(ctx, 7)
	if err != nil || len(listed) != 1 {
		t.Fatalf("expected one contract, got %v err=%v", listed, err)
	}

	if _, err := facade.SignContract(ctx, contract.Number); err != nil {
		t.Fatalf("sign returned error: %v", err)
	}
	if _, err := facade.TerminateContract(ctx, contract.Number); err != nil {
		t.Fatalf("terminate returned error: %v", err)
	}
	if repos.Units[0].Status != model.StorageStatusAvailable {
		t.Fatalf("expected unit released, got %s", repos.Units[0].Status)
	}
}

func TestRentalFacadeQuoteFailureBlocksOrder(t *testing.T) {
	facade, repos := newFacade(testhelpers.PriceProviderStub{Err: errors.New("pricing down")})
	ctx := context.Background()

	category, err := facade.CreateCategory(ctx, "Berlin", "5sqm")
	if err != nil {
		t.Fatalf("create category returned error: %v", err)
	}
	if _, err := facade.CreateUnit(ctx, category.ID, "A-01"); err != nil {
		t.Fatalf("create unit returned error: %v", err)
	}

	if _, err := facade.PlaceOrder(ctx, 7, category.ID, futurePeriod(t, 1, 31)); err == nil {
		t.Fatal("expected quote failure to block the order")
	}
	if len(repos.OrderList) != 0 {
		t.Fatalf("expected no order persisted, got %d", len(repos.OrderList))
	}
}

func TestRentalFacadeAvailability(t *testing.T) {
	facade, _ := newFacade(testhelpers.PriceProviderStub{})
	ctx := context.Background()

	category, err := facade.CreateCategory(ctx, "Berlin", "5sqm")
	if err != nil {
		t.Fatalf("create category returned error: %v", err)
	}
	for _, number := range []string{"A-01", "A-02"} {
		if _, err := facade.CreateUnit(ctx, category.ID, number); err != nil {
			t.Fatalf("create unit returned error: %v", err)
		}
	}

	period := futurePeriod(t, 1, 31)
	available, err := facade.AvailableStorages(ctx, category.ID, period)
	if err != nil || available != 2 {
		t.Fatalf("expected 2 available units, got %d err=%v", available, err)
	}

	if _, err := facade.PlaceOrder(ctx, 7, category.ID, period); err != nil {
		t.Fatalf("place order returned error: %v", err)
	}
	available, err = facade.AvailableStorages(ctx, category.ID, period)
	if err != nil || available != 1 {
		t.Fatalf("expected 1 available unit, got %d err=%v", available, err)
	}
}

func TestRentalFacadeExpireOrders(t *testing.T) {
	facade, repos := newFacade(testhelpers.PriceProviderStub{})
	ctx := context.Background()

	category := repos.AddCategory("Berlin", "5sqm")
	unit := repos.AddUnit(category.ID, "A-01", model.StorageStatusReserved)
	overdue := model.Order{
		Reference:     "stale",
		UserID:        7,
		StorageUnitID: unit.ID,
		CategoryID:    category.ID,
		Status:        model.OrderStatusReserved,
		Period:        futurePeriod(t, 1, 31),
		ExpiresAt:     time.Now().Add(-time.Hour),
	}
	repos.AddOrder(overdue)

	expired, err := facade.ExpireOrders(ctx, 10)
	if err != nil || expired != 1 {
		t.Fatalf("expected one expired order, got %d err=%v", expired, err)
	}
	if repos.OrderList[0].Status != model.OrderStatusExpired {
		t.Fatalf("expected expired status, got %s", repos.OrderList[0].Status)
	}
}

func TestRentalFacadeAtRiskContracts(t *testing.T) {
	facade, repos := newFacade(testhelpers.PriceProviderStub{})
	ctx := context.Background()

	category := repos.AddCategory("Berlin", "5sqm")
	occupied := repos.AddUnit(category.ID, "A-01", model.StorageStatusOccupied)
	repos.AddUnit(category.ID, "A-02", model.StorageStatusAvailable)

	endingSoon := futurePeriod(t, 0, 10)
	repos.AddContract(model.Contract{
		Number:        "c-1",
		UserID:        7,
		StorageUnitID: occupied.ID,
		CategoryID:    category.ID,
		Period:        endingSoon,
	})

	atRisk, err := facade.AtRiskContracts(ctx, category.ID)
	if err != nil {
		t.Fatalf("at risk returned error: %v", err)
	}
	if len(atRisk) != 0 {
		t.Fatalf("expected no contracts at risk, got %d", len(atRisk))
	}

	// Blocking the only alternative over the move-in day puts the
	// contract at risk.
	repos.AddWindow(repos.Units[1].ID, futurePeriod(t, 5, 30))
	atRisk, err = facade.AtRiskContracts(ctx, category.ID)
	if err != nil {
		t.Fatalf("at risk returned error: %v", err)
	}
	if len(atRisk) != 1 || atRisk[0].Number != "c-1" {
		t.Fatalf("expected contract c-1 at risk, got %v", atRisk)
	}

	if _, err := facade.Contract(ctx, "missing"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
