package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/veresko/boxroom/internal/adapter/pricing"
	domainErrors "github.com/veresko/boxroom/internal/domain/errors"
	"github.com/veresko/boxroom/internal/domain/model"
	"github.com/veresko/boxroom/internal/server/http/dto"
)

// OrderHandler manages order lifecycle endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	userID := CurrentUserID(c)

	var req dto.OrderCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	period, err := dto.ParsePeriod(req.StartDate, req.EndDate)
	if err != nil {
		c.Status(http.StatusUnprocessableEntity)
		return
	}

	order, err := h.facade.PlaceOrder(c.Request.Context(), userID, req.CategoryID, period)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrNoStorageAvailable):
			c.Status(http.StatusConflict)
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		case errors.Is(err, pricing.ErrPriceNotAvailable):
			c.Status(http.StatusUnprocessableEntity)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusCreated, toOrderResponse(*order))
}

// Get handles GET /api/orders/:reference.
func (h *OrderHandler) Get(c *gin.Context) {
	order, ok := h.ownedOrder(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	userID := CurrentUserID(c)
	orders, err := h.facade.Orders(c.Request.Context(), userID)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(orders) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, toOrderResponse(o))
	}
	c.JSON(http.StatusOK, response)
}

// Pay handles POST /api/orders/:reference/pay.
func (h *OrderHandler) Pay(c *gin.Context) {
	h.transition(c, h.facade.StartPayment)
}

// ConfirmPayment handles POST /api/orders/:reference/pay/confirm.
func (h *OrderHandler) ConfirmPayment(c *gin.Context) {
	h.transition(c, h.facade.ConfirmPayment)
}

// Cancel handles POST /api/orders/:reference/cancel.
func (h *OrderHandler) Cancel(c *gin.Context) {
	h.transition(c, h.facade.CancelOrder)
}

// Complete handles POST /api/orders/:reference/complete. A completed
// order hands off to a contract.
func (h *OrderHandler) Complete(c *gin.Context) {
	order, ok := h.ownedOrder(c)
	if !ok {
		return
	}

	contract, err := h.facade.CompleteOrder(c.Request.Context(), order.Reference)
	if err != nil {
		if errors.Is(err, domainErrors.ErrInvalidStateTransition) {
			c.Status(http.StatusConflict)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, toContractResponse(*contract))
}

func (h *OrderHandler) transition(c *gin.Context, apply func(ctx context.Context, reference string) (*model.Order, error)) {
	order, ok := h.ownedOrder(c)
	if !ok {
		return
	}

	updated, err := apply(c.Request.Context(), order.Reference)
	if err != nil {
		if errors.Is(err, domainErrors.ErrInvalidStateTransition) {
			c.Status(http.StatusConflict)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*updated))
}

// ownedOrder resolves the :reference parameter to an order belonging to
// the caller. Foreign orders are indistinguishable from missing ones.
func (h *OrderHandler) ownedOrder(c *gin.Context) (*model.Order, bool) {
	order, err := h.facade.Order(c.Request.Context(), c.Param("reference"))
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.Status(http.StatusNotFound)
		} else {
			c.Status(http.StatusInternalServerError)
		}
		return nil, false
	}
	if order.UserID != CurrentUserID(c) {
		c.Status(http.StatusNotFound)
		return nil, false
	}
	return order, true
}

func toOrderResponse(order model.Order) dto.OrderResponse {
	return dto.OrderResponse{
		Reference:     order.Reference,
		Status:        string(order.Status),
		CategoryID:    order.CategoryID,
		StorageUnitID: order.StorageUnitID,
		StartDate:     dto.FormatStart(order.Period),
		EndDate:       dto.FormatEnd(order.Period),
		Price:         order.Price.String(),
		Currency:      order.Currency,
		ExpiresAt:     order.ExpiresAt,
		CreatedAt:     order.CreatedAt,
	}
}
