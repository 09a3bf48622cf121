package category

import (
	"go.uber.org/fx"

	"github.com/picksmart/storesync/internal/category/repository"
	"github.com/picksmart/storesync/internal/category/service"
)

var Module = fx.Module("category",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.New),
)
