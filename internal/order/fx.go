package order

import (
	"go.uber.org/fx"

	"github.com/picksmart/storesync/internal/order/repository"
	"github.com/picksmart/storesync/internal/order/service"
)

var Module = fx.Module("order",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.New),
)
