package usecase

import (
	"go.uber.org/fx"

	"github.com/veresko/boxroom/internal/config"
	"github.com/veresko/boxroom/internal/domain/repository"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	NewClaimLedger,
	NewAssignmentUseCase,
	NewForecastUseCase,
	NewContractUseCase,
	NewStorageUseCase,
	func(repos repository.Factory, cfg *config.Config) *OrderUseCase {
		return NewOrderUseCase(repos, cfg.OrderTTL)
	},
)
