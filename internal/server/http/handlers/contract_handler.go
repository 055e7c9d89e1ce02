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

// ContractHandler manages contract endpoints.
type ContractHandler struct {
	facade ContractFacade
}

// NewContractHandler constructs ContractHandler.
func NewContractHandler(facade ContractFacade) *ContractHandler {
	return &ContractHandler{facade: facade}
}

// Get handles GET /api/contracts/:number.
func (h *ContractHandler) Get(c *gin.Context) {
	contract, ok := h.ownedContract(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toContractResponse(*contract))
}

// List handles GET /api/contracts.
func (h *ContractHandler) List(c *gin.Context) {
	userID := CurrentUserID(c)
	contracts, err := h.facade.Contracts(c.Request.Context(), userID)
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

// Sign handles POST /api/contracts/:number/sign.
func (h *ContractHandler) Sign(c *gin.Context) {
	h.transition(c, h.facade.SignContract)
}

// Terminate handles POST /api/contracts/:number/terminate.
func (h *ContractHandler) Terminate(c *gin.Context) {
	h.transition(c, h.facade.TerminateContract)
}

func (h *ContractHandler) transition(c *gin.Context, apply func(ctx context.Context, number string) (*model.Contract, error)) {
	contract, ok := h.ownedContract(c)
	if !ok {
		return
	}

	updated, err := apply(c.Request.Context(), contract.Number)
	if err != nil {
		if errors.Is(err, domainErrors.ErrInvalidStateTransition) {
			c.Status(http.StatusConflict)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, toContractResponse(*updated))
}

// ownedContract resolves the :number parameter to a contract belonging
// to the caller. Foreign contracts are indistinguishable from missing
// ones.
func (h *ContractHandler) ownedContract(c *gin.Context) (*model.Contract, bool) {
	contract, err := h.facade.Contract(c.Request.Context(), c.Param("number"))
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.Status(http.StatusNotFound)
		} else {
			c.Status(http.StatusInternalServerError)
		}
		return nil, false
	}
	if contract.UserID != CurrentUserID(c) {
		c.Status(http.StatusNotFound)
		return nil, false
	}
	return contract, true
}

func toContractResponse(contract model.Contract) dto.ContractResponse {
	return dto.ContractResponse{
		Number:        contract.Number,
		CategoryID:    contract.CategoryID,
		StorageUnitID: contract.StorageUnitID,
		StartDate:     dto.FormatStart(contract.Period),
		EndDate:       dto.FormatEnd(contract.Period),
		SignedAt:      contract.SignedAt,
		TerminatedAt:  contract.TerminatedAt,
		CreatedAt:     contract.CreatedAt,
	}
}
