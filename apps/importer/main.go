package main

import (
	"context"
	"fmt"
	"os"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/picksmart/storesync/internal/catalog"
	"github.com/picksmart/storesync/internal/category"
	"github.com/picksmart/storesync/internal/clock"
	"github.com/picksmart/storesync/internal/config"
	"github.com/picksmart/storesync/internal/customer"
	"github.com/picksmart/storesync/internal/importer"
	"github.com/picksmart/storesync/internal/migration"
	"github.com/picksmart/storesync/internal/observability"
	"github.com/picksmart/storesync/internal/order"
	"github.com/picksmart/storesync/pkg/db"
)

const usage = `usage: importer <command> [path]

Commands:
  products   import a product export (default path: products_export.csv)
  customers  import a customer export (default path: customers_export.csv)
  orders     import an order export (default path: orders_export.csv)
  all        import products, customers and orders from a directory (default: .)
  test       parse and aggregate a product export without writing anything
  help       print this message

Exit code is 0 on success and 1 on any fatal error. Per-record failures are
tallied in the summary and do not change the exit code.`

func main() {
	args := os.Args[1:]
	if len(args) == 0 || args[0] == "help" {
		fmt.Println(usage)
		return
	}

	command := args[0]
	path := ""
	if len(args) > 1 {
		path = args[1]
	}

	switch command {
	case "products", "customers", "orders", "all", "test":
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s\n", command, usage)
		os.Exit(1)
	}

	exitCode := 0
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		catalog.Module,
		category.Module,
		customer.Module,
		order.Module,
		importer.Module,

		fx.Invoke(func(lc fx.Lifecycle, runner *importer.Runner, shutdowner fx.Shutdowner) {
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					go func() {
						if err := execute(context.Background(), runner, command, path); err != nil {
							fmt.Fprintln(os.Stderr, "error:", err)
							exitCode = 1
						}
						_ = shutdowner.Shutdown()
					}()
					return nil
				},
			})
		}),
	)
	app.Run()
	os.Exit(exitCode)
}

func execute(ctx context.Context, runner *importer.Runner, command, path string) error {
	switch command {
	case "products":
		report, err := runner.RunProducts(ctx, defaultPath(path, importer.DefaultProductsFile))
		return printReport(report, err)
	case "customers":
		report, err := runner.RunCustomers(ctx, defaultPath(path, importer.DefaultCustomersFile))
		return printReport(report, err)
	case "orders":
		report, err := runner.RunOrders(ctx, defaultPath(path, importer.DefaultOrdersFile))
		return printReport(report, err)
	case "all":
		reports, err := runner.RunAll(ctx, path)
		for _, report := range reports {
			fmt.Println(report.Summary())
		}
		return err
	case "test":
		report, err := runner.Validate(ctx, defaultPath(path, importer.DefaultProductsFile))
		if err != nil {
			return err
		}
		fmt.Printf("ok: %d rows, %d products aggregated\n", report.Rows, report.Skipped)
		return nil
	}
	return fmt.Errorf("unknown command %q", command)
}

func printReport(report *importer.Report, err error) error {
	if err != nil {
		return err
	}
	fmt.Println(report.Summary())
	return nil
}

func defaultPath(path, fallback string) string {
	if path != "" {
		return path
	}
	return fallback
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
