package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/veresko/boxroom/internal/domain/errors"
	"github.com/veresko/boxroom/internal/domain/model"
	"github.com/veresko/boxroom/internal/server/http/dto"
)

// StorageHandler manages landlord inventory endpoints.
type StorageHandler struct {
	facade StorageFacade
}

// NewStorageHandler constructs StorageHandler.
func NewStorageHandler(facade StorageFacade) *StorageHandler {
	return &StorageHandler{facade: facade}
}

// CreateCategory handles POST /api/admin/categories.
func (h *StorageHandler) CreateCategory(c *gin.Context) {
	var req dto.CategoryCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Place == "" || req.Name == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	category, err := h.facade.CreateCategory(c.Request.Context(), req.Place, req.Name)
	if err != nil {
		if errors.Is(err, domainErrors.ErrAlreadyExists) {
			c.Status(http.StatusConflict)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusCreated, dto.CategoryResponse{ID: category.ID, Place: category.Place, Name: category.Name})
}

// CreateUnit handles POST /api/admin/categories/:categoryID/units.
func (h *StorageHandler) CreateUnit(c *gin.Context) {
	categoryID, ok := pathID(c, "categoryID")
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}

	var req dto.UnitCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Number == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	unit, err := h.facade.CreateUnit(c.Request.Context(), categoryID, req.Number)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		case errors.Is(err, domainErrors.ErrAlreadyExists):
			c.Status(http.StatusConflict)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}
	c.JSON(http.StatusCreated, toUnitResponse(*unit))
}

// DeleteUnit handles DELETE /api/admin/units/:unitID. Units carrying a
// live claim cannot be deleted.
func (h *StorageHandler) DeleteUnit(c *gin.Context) {
	unitID, ok := pathID(c, "unitID")
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}

	if err := h.facade.DeleteUnit(c.Request.Context(), unitID); err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		case errors.Is(err, domainErrors.ErrStorageInUse):
			c.Status(http.StatusConflict)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkUnavailable handles POST /api/admin/units/:unitID/unavailable.
func (h *StorageHandler) MarkUnavailable(c *gin.Context) {
	h.unitTransition(c, h.facade.MarkUnitUnavailable)
}

// MarkAvailable handles POST /api/admin/units/:unitID/available.
func (h *StorageHandler) MarkAvailable(c *gin.Context) {
	h.unitTransition(c, h.facade.MarkUnitAvailable)
}

// DeclareUnavailability handles POST /api/admin/units/:unitID/unavailabilities.
func (h *StorageHandler) DeclareUnavailability(c *gin.Context) {
	unitID, ok := pathID(c, "unitID")
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}

	var req dto.UnavailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	period, err := dto.ParsePeriod(req.StartDate, req.EndDate)
	if err != nil {
		c.Status(http.StatusUnprocessableEntity)
		return
	}

	window, err := h.facade.DeclareUnavailability(c.Request.Context(), unitID, period, req.Reason, req.MarkUnit)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		case errors.Is(err, domainErrors.ErrInvalidStateTransition):
			c.Status(http.StatusConflict)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}
	c.JSON(http.StatusCreated, dto.UnavailabilityResponse{
		ID:            window.ID,
		StorageUnitID: window.StorageUnitID,
		StartDate:     dto.FormatStart(window.Period),
		EndDate:       dto.FormatEnd(window.Period),
		Reason:        window.Reason,
	})
}

// RemoveUnavailability handles DELETE /api/admin/unavailabilities/:id.
func (h *StorageHandler) RemoveUnavailability(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}

	if err := h.facade.RemoveUnavailability(c.Request.Context(), id); err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *StorageHandler) unitTransition(c *gin.Context, apply func(ctx context.Context, unitID int64) (*model.StorageUnit, error)) {
	unitID, ok := pathID(c, "unitID")
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}

	unit, err := apply(c.Request.Context(), unitID)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		case errors.Is(err, domainErrors.ErrInvalidStateTransition):
			c.Status(http.StatusConflict)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}
	c.JSON(http.StatusOK, toUnitResponse(*unit))
}

func toUnitResponse(unit model.StorageUnit) dto.UnitResponse {
	return dto.UnitResponse{
		ID:         unit.ID,
		CategoryID: unit.CategoryID,
		Number:     unit.Number,
		Status:     string(unit.Status),
	}
}
