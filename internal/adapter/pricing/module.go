package pricing

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/veresko/boxroom/internal/config"
)

// Module exposes pricing client implementation to fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.PricingServiceAddress, p.Logger)
}
