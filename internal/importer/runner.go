package importer

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	catalogdomain "github.com/picksmart/storesync/internal/catalog/domain"
	categorydomain "github.com/picksmart/storesync/internal/category/domain"
	"github.com/picksmart/storesync/internal/clock"
	"github.com/picksmart/storesync/internal/config"
	customerdomain "github.com/picksmart/storesync/internal/customer/domain"
	"github.com/picksmart/storesync/internal/observability/metrics"
	orderdomain "github.com/picksmart/storesync/internal/order/domain"
	"github.com/picksmart/storesync/internal/reconcile"
	"github.com/picksmart/storesync/internal/shopify/export"
)

// Default export file names used by the "all" subcommand when pointed at a
// directory instead of a single file.
const (
	DefaultProductsFile  = "products_export.csv"
	DefaultCustomersFile = "customers_export.csv"
	DefaultOrdersFile    = "orders_export.csv"
)

// Report tallies one migration run. Per-entity failures are counted, not
// fatal; the run proceeds to the next entity.
type Report struct {
	RunID  string
	Entity string
	Mode   reconcile.ConflictMode
	Source string

	Rows    int
	Created int
	Updated int
	Skipped int
	Failed  int

	CategoriesCreated int

	Duration time.Duration
}

func (r Report) Summary() string {
	return fmt.Sprintf("%s: %d rows, %d created, %d updated, %d skipped, %d failed (%s)",
		r.Entity, r.Rows, r.Created, r.Updated, r.Skipped, r.Failed, r.Duration.Round(time.Millisecond))
}

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Metrics    *metrics.Metrics
	Importer   *config.ImporterConfigHolder
	Products   catalogdomain.Service
	Categories categorydomain.Service
	Customers  customerdomain.Service
	Orders     orderdomain.Service
}

type Runner struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	metrics    *metrics.Metrics
	importer   *config.ImporterConfigHolder
	products   catalogdomain.Service
	categories categorydomain.Service
	customers  customerdomain.Service
	orders     orderdomain.Service
}

func NewRunner(p Params) *Runner {
	return &Runner{
		db:         p.DB,
		log:        p.Log.Named("importer"),
		genID:      p.GenID,
		clock:      p.Clock,
		metrics:    p.Metrics,
		importer:   p.Importer,
		products:   p.Products,
		categories: p.Categories,
		customers:  p.Customers,
		orders:     p.Orders,
	}
}

func (r *Runner) mode() reconcile.ConflictMode {
	return reconcile.ParseConflictMode(r.importer.Get().ConflictMode)
}

// RunProducts bootstraps the catalog from one product export: aggregate the
// flat rows, materialize the category tree, then reconcile each product
// sequentially.
func (r *Runner) RunProducts(ctx context.Context, path string) (*Report, error) {
	started := r.clock.Now()
	report := r.newReport("products", path)

	ex, err := export.ReadFile(path)
	if err != nil {
		return nil, err
	}

	products, summary := export.BuildProducts(ex)
	report.Rows = summary.Rows

	paths := make([]string, 0, len(products))
	for _, p := range products {
		if p.CategoryPath != "" {
			paths = append(paths, p.CategoryPath)
		}
	}
	ensured, err := r.categories.EnsureTree(ctx, paths)
	if err != nil {
		return nil, fmt.Errorf("ensure categories: %w", err)
	}
	report.CategoriesCreated = ensured.Created

	mode := r.mode()
	for _, p := range products {
		input := p.ProductInput
		if p.CategoryPath != "" {
			leafID, err := r.categories.ResolveLeaf(ctx, p.CategoryPath)
			if err != nil {
				r.log.Warn("category not resolved",
					zap.String("handle", input.Handle),
					zap.String("path", p.CategoryPath),
					zap.Error(err),
				)
			} else {
				input.CategoryID = &leafID
			}
		}

		outcome, err := r.products.Upsert(ctx, input, mode)
		r.tally(ctx, report, "product", input.Handle, outcome, err)
	}

	return r.finish(ctx, report, started)
}

func (r *Runner) RunCustomers(ctx context.Context, path string) (*Report, error) {
	started := r.clock.Now()
	report := r.newReport("customers", path)

	ex, err := export.ReadFile(path)
	if err != nil {
		return nil, err
	}

	customers, summary := export.BuildCustomers(ex)
	report.Rows = summary.Rows

	mode := r.mode()
	for _, input := range customers {
		outcome, err := r.customers.Upsert(ctx, input, mode)
		r.tally(ctx, report, "customer", input.Email, outcome, err)
	}

	return r.finish(ctx, report, started)
}

func (r *Runner) RunOrders(ctx context.Context, path string) (*Report, error) {
	started := r.clock.Now()
	report := r.newReport("orders", path)

	ex, err := export.ReadFile(path)
	if err != nil {
		return nil, err
	}

	orders, summary := export.BuildOrders(ex)
	report.Rows = summary.Rows

	mode := r.mode()
	for _, input := range orders {
		outcome, err := r.orders.Upsert(ctx, input, mode)
		r.tally(ctx, report, "order", input.Name, outcome, err)
	}

	return r.finish(ctx, report, started)
}

// RunAll runs products, customers then orders from their default export
// files under dir. Customers run before orders so order rows can link.
func (r *Runner) RunAll(ctx context.Context, dir string) ([]*Report, error) {
	if dir == "" {
		dir = "."
	}

	reports := make([]*Report, 0, 3)
	for _, step := range []struct {
		file string
		run  func(context.Context, string) (*Report, error)
	}{
		{DefaultProductsFile, r.RunProducts},
		{DefaultCustomersFile, r.RunCustomers},
		{DefaultOrdersFile, r.RunOrders},
	} {
		report, err := step.run(ctx, filepath.Join(dir, step.file))
		if err != nil {
			return reports, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// Validate parses and aggregates a product export without writing anything.
// Backs the "test" subcommand.
func (r *Runner) Validate(ctx context.Context, path string) (*Report, error) {
	started := r.clock.Now()
	report := r.newReport("validate", path)

	ex, err := export.ReadFile(path)
	if err != nil {
		return nil, err
	}

	products, summary := export.BuildProducts(ex)
	report.Rows = summary.Rows
	report.Skipped = len(products)
	report.Duration = r.clock.Now().Sub(started)

	r.log.Info("export validated",
		zap.String("source", path),
		zap.Int("rows", summary.Rows),
		zap.Int("products", summary.Entities),
		zap.Int("variants", summary.Variants),
		zap.Int("images", summary.Images),
		zap.Int("duplicate_variants", summary.DuplicateVariants),
		zap.Int("duplicate_images", summary.DuplicateImages),
	)
	return report, nil
}

func (r *Runner) newReport(entity, source string) *Report {
	return &Report{
		RunID:  uuid.NewString(),
		Entity: entity,
		Mode:   r.mode(),
		Source: source,
	}
}

// tally records one entity outcome. A single failed upsert is logged with
// its external key and counted; it never aborts the batch.
func (r *Runner) tally(ctx context.Context, report *Report, entity, key string, outcome reconcile.Outcome, err error) {
	if err != nil {
		report.Failed++
		r.metrics.RecordImportRecord(ctx, entity, "failed")
		r.log.Error("upsert failed",
			zap.String("entity", entity),
			zap.String("key", key),
			zap.Error(err),
		)
		return
	}

	switch outcome {
	case reconcile.OutcomeCreated:
		report.Created++
	case reconcile.OutcomeUpdated:
		report.Updated++
	case reconcile.OutcomeSkipped:
		report.Skipped++
	}
	r.metrics.RecordImportRecord(ctx, entity, string(outcome))
	r.metrics.RecordUpsertOutcome(ctx, entity, string(outcome))
}

// finish stamps the duration and persists the run report. Persistence is
// best effort; the CLI summary is the primary output.
func (r *Runner) finish(ctx context.Context, report *Report, started time.Time) (*Report, error) {
	report.Duration = r.clock.Now().Sub(started)

	run := ImportRun{
		ID:                r.genID.Generate().Int64(),
		RunID:             report.RunID,
		Entity:            report.Entity,
		Mode:              string(report.Mode),
		Source:            report.Source,
		Rows:              report.Rows,
		Created:           report.Created,
		Updated:           report.Updated,
		Skipped:           report.Skipped,
		Failed:            report.Failed,
		CategoriesCreated: report.CategoriesCreated,
		DurationMS:        report.Duration.Milliseconds(),
		StartedAt:         started,
		CreatedAt:         r.clock.Now(),
	}
	if err := r.db.WithContext(ctx).Create(&run).Error; err != nil {
		r.log.Warn("import run not persisted",
			zap.String("run_id", report.RunID),
			zap.Error(err),
		)
	}

	r.log.Info("import run finished",
		zap.String("run_id", report.RunID),
		zap.String("entity", report.Entity),
		zap.Int("created", report.Created),
		zap.Int("updated", report.Updated),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
		zap.Duration("duration", report.Duration),
	)
	return report, nil
}

var Module = fx.Module("importer",
	fx.Provide(NewRunner),
)
