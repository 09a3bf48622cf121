package customer

import (
	"go.uber.org/fx"

	"github.com/picksmart/storesync/internal/customer/repository"
	"github.com/picksmart/storesync/internal/customer/service"
)

var Module = fx.Module("customer",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.New),
)
