package usecase

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/veresko/boxroom/internal/domain/model"
)

var testBase = time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)

func day(n int) time.Time {
	return testBase.AddDate(0, 0, n)
}

func boundedRange(t *testing.T, start, end int) model.DateRange {
	t.Helper()
	r, err := model.NewDateRange(day(start), model.EndOn(day(end)))
	if err != nil {
		t.Fatalf("unexpected error building range: %v", err)
	}
	return r
}

func openRange(t *testing.T, start int) model.DateRange {
	t.Helper()
	r, err := model.NewDateRange(day(start), model.Unbounded())
	if err != nil {
		t.Fatalf("unexpected error building range: %v", err)
	}
	return r
}

func contractOn(unitID, categoryID, userID int64, period model.DateRange) model.Contract {
	return model.Contract{
		Number:        uuid.NewString(),
		UserID:        userID,
		StorageUnitID: unitID,
		CategoryID:    categoryID,
		Period:        period,
	}
}

func orderOn(unitID, categoryID, userID int64, status model.OrderStatus, period model.DateRange) model.Order {
	return model.Order{
		Reference:     uuid.NewString(),
		UserID:        userID,
		StorageUnitID: unitID,
		CategoryID:    categoryID,
		Status:        status,
		Period:        period,
		Price:         decimal.NewFromInt(100),
		Currency:      "EUR",
		ExpiresAt:     testBase.Add(7 * 24 * time.Hour),
	}
}

func testQuote(categoryID int64) model.PriceQuote {
	return model.PriceQuote{CategoryID: categoryID, Amount: decimal.NewFromInt(100), Currency: "EUR"}
}
