package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
	"gorm.io/gorm"

	catalogdomain "github.com/picksmart/storesync/internal/catalog/domain"
	catalogrepo "github.com/picksmart/storesync/internal/catalog/repository"
	catalogsvc "github.com/picksmart/storesync/internal/catalog/service"
	categorydomain "github.com/picksmart/storesync/internal/category/domain"
	categoryrepo "github.com/picksmart/storesync/internal/category/repository"
	categorysvc "github.com/picksmart/storesync/internal/category/service"
	"github.com/picksmart/storesync/internal/clock"
	"github.com/picksmart/storesync/internal/config"
	customerdomain "github.com/picksmart/storesync/internal/customer/domain"
	customerrepo "github.com/picksmart/storesync/internal/customer/repository"
	customersvc "github.com/picksmart/storesync/internal/customer/service"
	"github.com/picksmart/storesync/internal/observability/metrics"
	orderdomain "github.com/picksmart/storesync/internal/order/domain"
	orderrepo "github.com/picksmart/storesync/internal/order/repository"
	ordersvc "github.com/picksmart/storesync/internal/order/service"
)

func newTestRunner(t *testing.T) (*Runner, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&categorydomain.Category{},
		&catalogdomain.Product{},
		&catalogdomain.Variant{},
		&catalogdomain.Image{},
		&catalogdomain.Metafield{},
		&customerdomain.Customer{},
		&orderdomain.Order{},
		&orderdomain.OrderItem{},
		&ImportRun{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	log := zap.NewNop()
	clk := clock.NewSystem()
	holder := (*config.ImporterConfigHolder)(nil)

	m, err := metrics.New(metrics.Config{}, noop.NewMeterProvider())
	require.NoError(t, err)

	products := catalogsvc.New(catalogsvc.Params{
		DB: db, Log: log, GenID: node, Clock: clk,
		Repo: catalogrepo.NewRepository(),
	})
	categories := categorysvc.New(categorysvc.Params{
		DB: db, Log: log, GenID: node, Clock: clk,
		Repo: categoryrepo.NewRepository(), Importer: holder,
	})
	customers := customersvc.New(customersvc.Params{
		DB: db, Log: log, GenID: node, Clock: clk,
		Repo: customerrepo.NewRepository(),
	})
	orders := ordersvc.New(ordersvc.Params{
		DB: db, Log: log, GenID: node, Clock: clk,
		Repo: orderrepo.NewRepository(), Customers: customers,
	})

	runner := NewRunner(Params{
		DB:         db,
		Log:        log,
		GenID:      node,
		Clock:      clk,
		Metrics:    m,
		Importer:   holder,
		Products:   products,
		Categories: categories,
		Customers:  customers,
		Orders:     orders,
	})
	return runner, db
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const productsCSV = `Handle,Title,Vendor,Product Category,Option1 Name,Option1 Value,Variant SKU,Variant Price,Variant Inventory Qty,Image Src,Image Position
ceramic-mug,Ceramic Mug,Picksmart,Home > Kitchen,Color,Red,M1,9.99,4,red.png,1
ceramic-mug,,,,Color,Blue,M2,10.99,6,blue.png,2
yoga-mat,Yoga Mat,Picksmart,Sports > Fitness > Mats,,,YM1,25.00,3,,
`

const customersCSV = `First Name,Last Name,Email,Accepts Email Marketing,Country
Jane,Doe,jane@example.com,yes,US
John,Roe,john@example.com,no,US
`

const ordersCSV = `Name,Email,Financial Status,Currency,Subtotal,Total,Lineitem quantity,Lineitem name,Lineitem price,Lineitem sku
#1001,jane@example.com,paid,USD,9.99,9.99,1,Ceramic Mug,9.99,M1
`

func TestRunProducts(t *testing.T) {
	runner, db := newTestRunner(t)
	path := writeFile(t, t.TempDir(), "products_export.csv", productsCSV)

	report, err := runner.RunProducts(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Rows)
	assert.Equal(t, 2, report.Created)
	assert.Zero(t, report.Failed)
	// Home, Kitchen, Sports, Fitness, Mats.
	assert.Equal(t, 5, report.CategoriesCreated)

	var product catalogdomain.Product
	require.NoError(t, db.Where("handle = ?", "ceramic-mug").First(&product).Error)
	assert.Equal(t, int64(999), product.Price)
	assert.Equal(t, 10, product.TotalInventory)
	require.NotNil(t, product.CategoryID)

	var run ImportRun
	require.NoError(t, db.Where("run_id = ?", report.RunID).First(&run).Error)
	assert.Equal(t, "products", run.Entity)
	assert.Equal(t, 2, run.Created)
}

func TestRunProducts_RerunSkipsByDefault(t *testing.T) {
	runner, _ := newTestRunner(t)
	path := writeFile(t, t.TempDir(), "products_export.csv", productsCSV)
	ctx := context.Background()

	_, err := runner.RunProducts(ctx, path)
	require.NoError(t, err)

	report, err := runner.RunProducts(ctx, path)
	require.NoError(t, err)
	assert.Zero(t, report.Created)
	assert.Equal(t, 2, report.Skipped)
	assert.Zero(t, report.CategoriesCreated)
}

func TestRunAll(t *testing.T) {
	runner, db := newTestRunner(t)
	dir := t.TempDir()
	writeFile(t, dir, DefaultProductsFile, productsCSV)
	writeFile(t, dir, DefaultCustomersFile, customersCSV)
	writeFile(t, dir, DefaultOrdersFile, ordersCSV)

	reports, err := runner.RunAll(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, reports, 3)
	assert.Equal(t, "products", reports[0].Entity)
	assert.Equal(t, "customers", reports[1].Entity)
	assert.Equal(t, "orders", reports[2].Entity)

	// The order links to the customer imported in the previous step.
	var order orderdomain.Order
	require.NoError(t, db.Where("name = ?", "#1001").First(&order).Error)
	require.NotNil(t, order.CustomerID)
}

func TestRunAll_MissingFileAborts(t *testing.T) {
	runner, _ := newTestRunner(t)
	dir := t.TempDir()
	writeFile(t, dir, DefaultProductsFile, productsCSV)

	reports, err := runner.RunAll(context.Background(), dir)
	assert.Error(t, err)
	assert.Len(t, reports, 1)
}

func TestValidate(t *testing.T) {
	runner, db := newTestRunner(t)
	path := writeFile(t, t.TempDir(), "products_export.csv", productsCSV)

	report, err := runner.Validate(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Rows)
	assert.Equal(t, 2, report.Skipped)

	// Nothing is written.
	var products int64
	db.Model(&catalogdomain.Product{}).Count(&products)
	assert.Zero(t, products)
}
