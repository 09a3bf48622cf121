package health

import (
	"context"
	"runtime"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/picksmart/storesync/internal/config"
	"github.com/picksmart/storesync/internal/webhooklog"
)

const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"

	webhookRateWindow    = 24 * time.Hour
	webhookRateThreshold = 0.9
	gatewayProbeTimeout  = 5 * time.Second
)

// QuickReport is the load balancer variant: a boolean-ish status only.
type QuickReport struct {
	Status string `json:"status"`
	OK     bool   `json:"ok"`
}

// FullReport is the operator dashboard variant with per-subsystem detail.
type FullReport struct {
	Status    string    `json:"status"`
	CheckedAt time.Time `json:"checked_at"`

	Database struct {
		OK        bool   `json:"ok"`
		LatencyMS int64  `json:"latency_ms"`
		Error     string `json:"error,omitempty"`
	} `json:"database"`

	Webhooks struct {
		SuccessRate float64 `json:"success_rate"`
		Deliveries  int64   `json:"deliveries"`
		WindowHours int     `json:"window_hours"`
	} `json:"webhooks"`

	PaymentGateway struct {
		Configured bool   `json:"configured"`
		OK         bool   `json:"ok"`
		Error      string `json:"error,omitempty"`
	} `json:"payment_gateway"`

	Runtime struct {
		Goroutines  int    `json:"goroutines"`
		HeapAllocMB uint64 `json:"heap_alloc_mb"`
		NumGC       uint32 `json:"num_gc"`
	} `json:"runtime"`
}

type Service interface {
	Quick(ctx context.Context) QuickReport
	Full(ctx context.Context) FullReport
}

type Params struct {
	fx.In

	Cfg    config.Config
	DB     *gorm.DB
	Log    *zap.Logger
	Events webhooklog.Service
}

type service struct {
	db         *gorm.DB
	log        *zap.Logger
	events     webhooklog.Service
	gatewayURL string
	client     *resty.Client
}

func New(p Params) Service {
	return &service{
		db:         p.DB,
		log:        p.Log.Named("health"),
		events:     p.Events,
		gatewayURL: p.Cfg.PaymentGatewayHealthURL,
		client:     resty.New().SetTimeout(gatewayProbeTimeout),
	}
}

func (s *service) Quick(ctx context.Context) QuickReport {
	if err := s.pingDatabase(ctx); err != nil {
		return QuickReport{Status: StatusUnhealthy, OK: false}
	}
	return QuickReport{Status: StatusHealthy, OK: true}
}

func (s *service) Full(ctx context.Context) FullReport {
	report := FullReport{CheckedAt: time.Now().UTC()}
	degraded := false
	unhealthy := false

	start := time.Now()
	if err := s.pingDatabase(ctx); err != nil {
		report.Database.Error = err.Error()
		unhealthy = true
	} else {
		report.Database.OK = true
	}
	report.Database.LatencyMS = time.Since(start).Milliseconds()

	report.Webhooks.WindowHours = int(webhookRateWindow.Hours())
	rate, deliveries, err := s.events.SuccessRate(ctx, webhookRateWindow)
	if err != nil {
		s.log.Warn("webhook success rate unavailable", zap.Error(err))
		degraded = true
	} else {
		report.Webhooks.SuccessRate = rate
		report.Webhooks.Deliveries = deliveries
		if deliveries > 0 && rate < webhookRateThreshold {
			degraded = true
		}
	}

	report.PaymentGateway.Configured = s.gatewayURL != ""
	if s.gatewayURL != "" {
		if err := s.probeGateway(ctx); err != nil {
			report.PaymentGateway.Error = err.Error()
			degraded = true
		} else {
			report.PaymentGateway.OK = true
		}
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	report.Runtime.Goroutines = runtime.NumGoroutine()
	report.Runtime.HeapAllocMB = mem.HeapAlloc / (1 << 20)
	report.Runtime.NumGC = mem.NumGC

	switch {
	case unhealthy:
		report.Status = StatusUnhealthy
	case degraded:
		report.Status = StatusDegraded
	default:
		report.Status = StatusHealthy
	}
	return report
}

func (s *service) pingDatabase(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *service) probeGateway(ctx context.Context) error {
	resp, err := s.client.R().SetContext(ctx).Get(s.gatewayURL)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return &probeError{status: resp.Status()}
	}
	return nil
}

type probeError struct {
	status string
}

func (e *probeError) Error() string {
	return "gateway returned " + e.status
}

var Module = fx.Module("health",
	fx.Provide(New),
)
