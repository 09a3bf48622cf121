package catalog

import (
	"go.uber.org/fx"

	"github.com/picksmart/storesync/internal/catalog/repository"
	"github.com/picksmart/storesync/internal/catalog/service"
)

var Module = fx.Module("catalog",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.New),
)
