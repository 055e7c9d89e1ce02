package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/veresko/boxroom/internal/server/http/dto"
)

// AvailabilityHandler answers capacity and at-risk queries.
type AvailabilityHandler struct {
	facade AvailabilityFacade
}

// NewAvailabilityHandler constructs AvailabilityHandler.
func NewAvailabilityHandler(facade AvailabilityFacade) *AvailabilityHandler {
	return &AvailabilityHandler{facade: facade}
}

// Availability handles GET /api/availability?category=&from=&to=.
func (h *AvailabilityHandler) Availability(c *gin.Context) {
	categoryID, err := strconv.ParseInt(c.Query("category"), 10, 64)
	if err != nil || categoryID <= 0 {
		c.Status(http.StatusBadRequest)
		return
	}

	period, err := dto.ParsePeriod(c.Query("from"), c.Query("to"))
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	available, err := h.facade.AvailableStorages(c.Request.Context(), categoryID, period)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, dto.AvailabilityResponse{
		CategoryID: categoryID,
		StartDate:  dto.FormatStart(period),
		EndDate:    dto.FormatEnd(period),
		Available:  available,
	})
}

// AtRisk handles GET /api/admin/categories/:categoryID/at-risk. The
// result lists active bounded contracts whose holder would have no
// same-category unit to move into when their term ends.
func (h *AvailabilityHandler) AtRisk(c *gin.Context) {
	categoryID, ok := pathID(c, "categoryID")
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}

	contracts, err := h.facade.AtRiskContracts(c.Request.Context(), categoryID)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(contracts) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.ContractResponse, 0, len(contracts))
	for _, contract := range contracts {
		response = append(response, toContractResponse(contract))
	}
	c.JSON(http.StatusOK, response)
}
