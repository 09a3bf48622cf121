package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/picksmart/storesync/internal/catalog"
	catalogdomain "github.com/picksmart/storesync/internal/catalog/domain"
	"github.com/picksmart/storesync/internal/category"
	categorydomain "github.com/picksmart/storesync/internal/category/domain"
	"github.com/picksmart/storesync/internal/clock"
	"github.com/picksmart/storesync/internal/config"
	"github.com/picksmart/storesync/internal/customer"
	"github.com/picksmart/storesync/internal/health"
	"github.com/picksmart/storesync/internal/locks"
	"github.com/picksmart/storesync/internal/observability"
	obsmiddleware "github.com/picksmart/storesync/internal/observability/logger"
	obsmetrics "github.com/picksmart/storesync/internal/observability/metrics"
	obstracing "github.com/picksmart/storesync/internal/observability/tracing"
	"github.com/picksmart/storesync/internal/order"
	"github.com/picksmart/storesync/internal/shopify/webhook"
	"github.com/picksmart/storesync/internal/webhooklog"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	clock.Module,
	catalog.Module,
	category.Module,
	customer.Module,
	order.Module,
	locks.Module,
	webhooklog.Module,
	webhook.Module,
	health.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	db          *gorm.DB
	productSvc  catalogdomain.Service
	categorySvc categorydomain.Service
	webhookSvc  webhook.Service
	healthSvc   health.Service
	eventsSvc   webhooklog.Service
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	DB          *gorm.DB
	ProductSvc  catalogdomain.Service
	CategorySvc categorydomain.Service
	WebhookSvc  webhook.Service
	HealthSvc   health.Service
	EventsSvc   webhooklog.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		db:          p.DB,
		productSvc:  p.ProductSvc,
		categorySvc: p.CategorySvc,
		webhookSvc:  p.WebhookSvc,
		healthSvc:   p.HealthSvc,
		eventsSvc:   p.EventsSvc,
	}

	svc.registerHealthRoutes()
	svc.registerWebhookRoutes()
	svc.registerAPIRoutes()

	return svc
}

func (s *Server) registerHealthRoutes() {
	s.engine.GET("/health", s.HandleHealthQuick)
	s.engine.GET("/health/full", s.HandleHealthFull)
}

func (s *Server) registerWebhookRoutes() {
	s.engine.POST("/webhooks/shopify", s.HandleShopifyWebhook)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")
	api.GET("/products", s.HandleListProducts)
	api.GET("/products/:handle", s.HandleGetProduct)
	api.GET("/categories", s.HandleListCategories)
}
