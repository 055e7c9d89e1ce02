package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/veresko/boxroom/internal/adapter/pricing"
	domainErrors "github.com/veresko/boxroom/internal/domain/errors"
	"github.com/veresko/boxroom/internal/domain/model"
	"github.com/veresko/boxroom/internal/server/http/dto"
	"github.com/veresko/boxroom/internal/server/http/middleware"
	testhelpers "github.com/veresko/boxroom/internal/test"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(t *testing.T, method, path, route string, handler gin.HandlerFunc, setup func(*gin.Context), body []byte) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.Handle(method, route, func(c *gin.Context) {
		if setup != nil {
			setup(c)
		}
		handler(c)
	})

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func asUser(id int64) func(*gin.Context) {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDContextKey, id)
	}
}

func TestCurrentUserID(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := CurrentUserID(c); got != 0 {
		t.Fatalf("expected 0 when not set, got %d", got)
	}

	c.Set(middleware.UserIDContextKey, int64(42))
	if got := CurrentUserID(c); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
}

func TestOrderHandlerCreate(t *testing.T) {
	facade := testhelpers.OrderFacadeStub{PlaceFn: func(_ context.Context, userID, categoryID int64, period model.DateRange) (*model.Order, error) {
		if userID != 7 || categoryID != 3 {
			t.Fatalf("unexpected arguments: user=%d category=%d", userID, categoryID)
		}
		if _, bounded := period.End.Date(); bounded {
			t.Fatal("expected unlimited rental")
		}
		order := testhelpers.StubOrder("ref-9", userID)
		order.CategoryID = categoryID
		order.Period = period
		return order, nil
	}}
	body, _ := json.Marshal(dto.OrderCreateRequest{CategoryID: 3, StartDate: "2026-06-01"})
	resp := performRequest(t, http.MethodPost, "/orders", "/orders", NewOrderHandler(facade).Create, asUser(7), body)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}

	var decoded dto.OrderResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded.Reference != "ref-9" || decoded.EndDate != nil {
		t.Fatalf("unexpected response: %+v", decoded)
	}
}

func TestOrderHandlerCreateFailures(t *testing.T) {
	tests := []struct {
		name   string
		facade testhelpers.OrderFacadeStub
		body   []byte
		status int
	}{
		{name: "bad json", body: []byte("not json"), status: http.StatusBadRequest},
		{name: "bad dates", body: []byte(`{"category_id":1,"start_date":"June 1st"}`), status: http.StatusUnprocessableEntity},
		{name: "end before start", body: []byte(`{"category_id":1,"start_date":"2026-06-10","end_date":"2026-06-01"}`), status: http.StatusUnprocessableEntity},
		{name: "sold out", body: []byte(`{"category_id":1,"start_date":"2026-06-01"}`), facade: testhelpers.OrderFacadeStub{PlaceFn: func(context.Context, int64, int64, model.DateRange) (*model.Order, error) {
			return nil, domainErrors.ErrNoStorageAvailable
		}}, status: http.StatusConflict},
		{name: "unknown category", body: []byte(`{"category_id":99,"start_date":"2026-06-01"}`), facade: testhelpers.OrderFacadeStub{PlaceFn: func(context.Context, int64, int64, model.DateRange) (*model.Order, error) {
			return nil, domainErrors.ErrNotFound
		}}, status: http.StatusNotFound},
		{name: "unpriced category", body: []byte(`{"category_id":1,"start_date":"2026-06-01"}`), facade: testhelpers.OrderFacadeStub{PlaceFn: func(context.Context, int64, int64, model.DateRange) (*model.Order, error) {
			return nil, pricing.ErrPriceNotAvailable
		}}, status: http.StatusUnprocessableEntity},
		{name: "internal", body: []byte(`{"category_id":1,"start_date":"2026-06-01"}`), facade: testhelpers.OrderFacadeStub{PlaceFn: func(context.Context, int64, int64, model.DateRange) (*model.Order, error) {
			return nil, errors.New("boom")
		}}, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performRequest(t, http.MethodPost, "/orders", "/orders", NewOrderHandler(tt.facade).Create, asUser(1), tt.body)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestOrderHandlerGet(t *testing.T) {
	resp := performRequest(t, http.MethodGet, "/orders/ref-1", "/orders/:reference", NewOrderHandler(testhelpers.OrderFacadeStub{}).Get, asUser(1), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodGet, "/orders/ref-1", "/orders/:reference", NewOrderHandler(testhelpers.OrderFacadeStub{}).Get, asUser(2), nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign order, got %d", resp.Code)
	}

	notFound := testhelpers.OrderFacadeStub{OrderFn: func(context.Context, string) (*model.Order, error) {
		return nil, domainErrors.ErrNotFound
	}}
	resp = performRequest(t, http.MethodGet, "/orders/ref-1", "/orders/:reference", NewOrderHandler(notFound).Get, asUser(1), nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing order, got %d", resp.Code)
	}
}

func TestOrderHandlerList(t *testing.T) {
	resp := performRequest(t, http.MethodGet, "/orders", "/orders", NewOrderHandler(testhelpers.OrderFacadeStub{}).List, asUser(1), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var decoded []dto.OrderResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(decoded) != 1 {
		t.Fatalf("expected one order, got %d", len(decoded))
	}

	empty := testhelpers.OrderFacadeStub{OrdersFn: func(context.Context, int64) ([]model.Order, error) {
		return nil, nil
	}}
	resp = performRequest(t, http.MethodGet, "/orders", "/orders", NewOrderHandler(empty).List, asUser(1), nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected status 204 for empty list, got %d", resp.Code)
	}
}

func TestOrderHandlerPaymentFlow(t *testing.T) {
	handler := NewOrderHandler(testhelpers.OrderFacadeStub{})

	resp := performRequest(t, http.MethodPost, "/orders/ref-1/pay", "/orders/:reference/pay", handler.Pay, asUser(1), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for pay, got %d", resp.Code)
	}
	var decoded dto.OrderResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded.Status != string(model.OrderStatusAwaitingPayment) {
		t.Fatalf("expected awaiting payment, got %s", decoded.Status)
	}

	resp = performRequest(t, http.MethodPost, "/orders/ref-1/pay/confirm", "/orders/:reference/pay/confirm", handler.ConfirmPayment, asUser(1), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for confirm, got %d", resp.Code)
	}

	rejected := testhelpers.OrderFacadeStub{StartPaymentFn: func(context.Context, string) (*model.Order, error) {
		return nil, domainErrors.ErrInvalidStateTransition
	}}
	resp = performRequest(t, http.MethodPost, "/orders/ref-1/pay", "/orders/:reference/pay", NewOrderHandler(rejected).Pay, asUser(1), nil)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409 for invalid transition, got %d", resp.Code)
	}
}

func TestOrderHandlerComplete(t *testing.T) {
	resp := performRequest(t, http.MethodPost, "/orders/ref-1/complete", "/orders/:reference/complete", NewOrderHandler(testhelpers.OrderFacadeStub{}).Complete, asUser(1), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var decoded dto.ContractResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded.Number != "contract-1" {
		t.Fatalf("unexpected contract: %+v", decoded)
	}

	unpaid := testhelpers.OrderFacadeStub{CompleteFn: func(context.Context, string) (*model.Contract, error) {
		return nil, domainErrors.ErrInvalidStateTransition
	}}
	resp = performRequest(t, http.MethodPost, "/orders/ref-1/complete", "/orders/:reference/complete", NewOrderHandler(unpaid).Complete, asUser(1), nil)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409 for unpaid order, got %d", resp.Code)
	}
}

func TestOrderHandlerCancel(t *testing.T) {
	resp := performRequest(t, http.MethodPost, "/orders/ref-1/cancel", "/orders/:reference/cancel", NewOrderHandler(testhelpers.OrderFacadeStub{}).Cancel, asUser(1), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
}

func TestContractHandlerGetAndList(t *testing.T) {
	handler := NewContractHandler(testhelpers.ContractFacadeStub{})

	resp := performRequest(t, http.MethodGet, "/contracts/c-1", "/contracts/:number", handler.Get, asUser(1), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodGet, "/contracts/c-1", "/contracts/:number", handler.Get, asUser(9), nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign contract, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodGet, "/contracts", "/contracts", handler.List, asUser(1), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	empty := testhelpers.ContractFacadeStub{ContractsFn: func(context.Context, int64) ([]model.Contract, error) {
		return nil, nil
	}}
	resp = performRequest(t, http.MethodGet, "/contracts", "/contracts", NewContractHandler(empty).List, asUser(1), nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected status 204 for empty list, got %d", resp.Code)
	}
}

func TestContractHandlerSignAndTerminate(t *testing.T) {
	handler := NewContractHandler(testhelpers.ContractFacadeStub{})

	resp := performRequest(t, http.MethodPost, "/contracts/c-1/sign", "/contracts/:number/sign", handler.Sign, asUser(1), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for sign, got %d", resp.Code)
	}
	var decoded dto.ContractResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded.SignedAt == nil {
		t.Fatal("expected signature timestamp")
	}

	resp = performRequest(t, http.MethodPost, "/contracts/c-1/terminate", "/contracts/:number/terminate", handler.Terminate, asUser(1), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for terminate, got %d", resp.Code)
	}

	signedTwice := testhelpers.ContractFacadeStub{SignFn: func(context.Context, string) (*model.Contract, error) {
		return nil, domainErrors.ErrInvalidStateTransition
	}}
	resp = performRequest(t, http.MethodPost, "/contracts/c-1/sign", "/contracts/:number/sign", NewContractHandler(signedTwice).Sign, asUser(1), nil)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409 for double sign, got %d", resp.Code)
	}
}

func TestStorageHandlerCreateCategoryAndUnit(t *testing.T) {
	handler := NewStorageHandler(testhelpers.StorageFacadeStub{})

	body, _ := json.Marshal(dto.CategoryCreateRequest{Place: "Berlin", Name: "5sqm"})
	resp := performRequest(t, http.MethodPost, "/categories", "/categories", handler.CreateCategory, nil, body)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodPost, "/categories", "/categories", handler.CreateCategory, nil, []byte(`{"place":""}`))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for empty fields, got %d", resp.Code)
	}

	body, _ = json.Marshal(dto.UnitCreateRequest{Number: "A-01"})
	resp = performRequest(t, http.MethodPost, "/categories/1/units", "/categories/:categoryID/units", handler.CreateUnit, nil, body)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodPost, "/categories/zero/units", "/categories/:categoryID/units", handler.CreateUnit, nil, body)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for bad category id, got %d", resp.Code)
	}

	missing := testhelpers.StorageFacadeStub{CreateUnitFn: func(context.Context, int64, string) (*model.StorageUnit, error) {
		return nil, domainErrors.ErrNotFound
	}}
	resp = performRequest(t, http.MethodPost, "/categories/9/units", "/categories/:categoryID/units", NewStorageHandler(missing).CreateUnit, nil, body)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for unknown category, got %d", resp.Code)
	}

	duplicate := testhelpers.StorageFacadeStub{CreateUnitFn: func(context.Context, int64, string) (*model.StorageUnit, error) {
		return nil, domainErrors.ErrAlreadyExists
	}}
	resp = performRequest(t, http.MethodPost, "/categories/1/units", "/categories/:categoryID/units", NewStorageHandler(duplicate).CreateUnit, nil, body)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409 for duplicate unit, got %d", resp.Code)
	}
}

func TestStorageHandlerDeleteUnit(t *testing.T) {
	resp := performRequest(t, http.MethodDelete, "/units/1", "/units/:unitID", NewStorageHandler(testhelpers.StorageFacadeStub{}).DeleteUnit, nil, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", resp.Code)
	}

	busy := testhelpers.StorageFacadeStub{DeleteUnitFn: func(context.Context, int64) error {
		return domainErrors.ErrStorageInUse
	}}
	resp = performRequest(t, http.MethodDelete, "/units/1", "/units/:unitID", NewStorageHandler(busy).DeleteUnit, nil, nil)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409 for busy unit, got %d", resp.Code)
	}
}

func TestStorageHandlerMarkUnavailableAndBack(t *testing.T) {
	handler := NewStorageHandler(testhelpers.StorageFacadeStub{})

	resp := performRequest(t, http.MethodPost, "/units/1/unavailable", "/units/:unitID/unavailable", handler.MarkUnavailable, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var decoded dto.UnitResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded.Status != string(model.StorageStatusManuallyUnavailable) {
		t.Fatalf("unexpected status %s", decoded.Status)
	}

	resp = performRequest(t, http.MethodPost, "/units/1/available", "/units/:unitID/available", handler.MarkAvailable, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	claimed := testhelpers.StorageFacadeStub{MarkUnavailFn: func(context.Context, int64) (*model.StorageUnit, error) {
		return nil, domainErrors.ErrInvalidStateTransition
	}}
	resp = performRequest(t, http.MethodPost, "/units/1/unavailable", "/units/:unitID/unavailable", NewStorageHandler(claimed).MarkUnavailable, nil, nil)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409 for claimed unit, got %d", resp.Code)
	}
}

func TestStorageHandlerUnavailabilityWindows(t *testing.T) {
	handler := NewStorageHandler(testhelpers.StorageFacadeStub{})

	body, _ := json.Marshal(dto.UnavailabilityRequest{StartDate: "2026-06-01", EndDate: "2026-06-10", Reason: "maintenance"})
	resp := performRequest(t, http.MethodPost, "/units/1/unavailabilities", "/units/:unitID/unavailabilities", handler.DeclareUnavailability, nil, body)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}
	var decoded dto.UnavailabilityResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded.Reason != "maintenance" || decoded.EndDate == nil {
		t.Fatalf("unexpected window: %+v", decoded)
	}

	badDates, _ := json.Marshal(dto.UnavailabilityRequest{StartDate: "soon"})
	resp = performRequest(t, http.MethodPost, "/units/1/unavailabilities", "/units/:unitID/unavailabilities", handler.DeclareUnavailability, nil, badDates)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422 for bad dates, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodDelete, "/unavailabilities/1", "/unavailabilities/:id", handler.RemoveUnavailability, nil, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", resp.Code)
	}

	missing := testhelpers.StorageFacadeStub{RemoveFn: func(context.Context, int64) error {
		return domainErrors.ErrNotFound
	}}
	resp = performRequest(t, http.MethodDelete, "/unavailabilities/9", "/unavailabilities/:id", NewStorageHandler(missing).RemoveUnavailability, nil, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

func TestAvailabilityHandler(t *testing.T) {
	facade := testhelpers.AvailabilityFacadeStub{AvailableFn: func(_ context.Context, categoryID int64, period model.DateRange) (int, error) {
		if categoryID != 3 {
			t.Fatalf("unexpected category %d", categoryID)
		}
		if _, bounded := period.End.Date(); !bounded {
			t.Fatal("expected bounded period")
		}
		return 2, nil
	}}
	handler := NewAvailabilityHandler(facade)

	resp := performRequest(t, http.MethodGet, "/availability?category=3&from=2026-06-01&to=2026-07-01", "/availability", handler.Availability, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var decoded dto.AvailabilityResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded.Available != 2 {
		t.Fatalf("expected 2 available units, got %d", decoded.Available)
	}

	resp = performRequest(t, http.MethodGet, "/availability?category=oops&from=2026-06-01", "/availability", handler.Availability, nil, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for bad category, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodGet, "/availability?category=3", "/availability", handler.Availability, nil, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for missing dates, got %d", resp.Code)
	}
}

func TestAvailabilityHandlerAtRisk(t *testing.T) {
	handler := NewAvailabilityHandler(testhelpers.AvailabilityFacadeStub{})

	resp := performRequest(t, http.MethodGet, "/categories/1/at-risk", "/categories/:categoryID/at-risk", handler.AtRisk, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var decoded []dto.ContractResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(decoded) != 1 {
		t.Fatalf("expected one at-risk contract, got %d", len(decoded))
	}

	safe := testhelpers.AvailabilityFacadeStub{AtRiskFn: func(context.Context, int64) ([]model.Contract, error) {
		return nil, nil
	}}
	resp = performRequest(t, http.MethodGet, "/categories/1/at-risk", "/categories/:categoryID/at-risk", NewAvailabilityHandler(safe).AtRisk, nil, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected status 204 when nothing is at risk, got %d", resp.Code)
	}
}
