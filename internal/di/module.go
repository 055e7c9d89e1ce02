package di

import (
	"go.uber.org/fx"

	"github.com/veresko/boxroom/internal/adapter/pricing"
	"github.com/veresko/boxroom/internal/app"
	"github.com/veresko/boxroom/internal/config"
	"github.com/veresko/boxroom/internal/logger"
	"github.com/veresko/boxroom/internal/server/http/handlers"
	"github.com/veresko/boxroom/internal/server/http/router"
	"github.com/veresko/boxroom/internal/storage/postgres"
	"github.com/veresko/boxroom/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		postgres.Module,
		pricing.Module,
		usecase.Module,
		fx.Provide(func(client pricing.Client) app.PriceProvider { return client }),
		fx.Provide(func(facade *app.RentalFacade) handlers.RentalFacade { return facade }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
