package migration

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	catalogdomain "github.com/picksmart/storesync/internal/catalog/domain"
	categorydomain "github.com/picksmart/storesync/internal/category/domain"
	"github.com/picksmart/storesync/internal/config"
	customerdomain "github.com/picksmart/storesync/internal/customer/domain"
	"github.com/picksmart/storesync/internal/importer"
	orderdomain "github.com/picksmart/storesync/internal/order/domain"
	"github.com/picksmart/storesync/internal/webhooklog"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		// Versioned SQL migrations target postgres. Other dialects
		// (sqlite for local development) fall back to schema sync.
		if cfg.DBType != "postgres" {
			return autoMigrate(conn)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)

func autoMigrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&categorydomain.Category{},
		&catalogdomain.Product{},
		&catalogdomain.Variant{},
		&catalogdomain.Image{},
		&catalogdomain.Metafield{},
		&customerdomain.Customer{},
		&orderdomain.Order{},
		&orderdomain.OrderItem{},
		&webhooklog.Event{},
		&importer.ImportRun{},
	)
}
