package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/vitrine/internal/config"
	entitlementdomain "github.com/smallbiznis/vitrine/internal/entitlement/domain"
	"github.com/smallbiznis/vitrine/internal/observability"
	obslogger "github.com/smallbiznis/vitrine/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/vitrine/internal/observability/metrics"
	obstracing "github.com/smallbiznis/vitrine/internal/observability/tracing"
	orderdomain "github.com/smallbiznis/vitrine/internal/order/domain"
	plandomain "github.com/smallbiznis/vitrine/internal/plan/domain"
	productdomain "github.com/smallbiznis/vitrine/internal/product/domain"
	"github.com/smallbiznis/vitrine/internal/ratelimit"
	shippingdomain "github.com/smallbiznis/vitrine/internal/shipping/domain"
	storedomain "github.com/smallbiznis/vitrine/internal/store/domain"
	subscriptiondomain "github.com/smallbiznis/vitrine/internal/subscription/domain"
	usagedomain "github.com/smallbiznis/vitrine/internal/usage/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

type EngineParams struct {
	fx.In

	ObsConfig observability.Config
	Metrics   *obsmetrics.Metrics  `optional:"true"`
	Registry  *prometheus.Registry `optional:"true"`
}

func NewEngine(p EngineParams) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug:           p.ObsConfig.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(p.Metrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if path := p.ObsConfig.MetricsPath; path != "" {
		metricsHandler := promhttp.Handler()
		if p.Registry != nil {
			metricsHandler = promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{Registry: p.Registry})
		}
		r.GET(path, gin.WrapH(metricsHandler))
	}

	return r
}

func registerGin(p EngineParams) *gin.Engine {
	return NewEngine(p)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	addr := cfg.HTTPAddr
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", addr))
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
	engine          *gin.Engine
	cfg             config.Config
	log             *zap.Logger
	storeSvc        storedomain.Service
	productSvc      productdomain.Service
	orderSvc        orderdomain.Service
	shippingSvc     shippingdomain.Service
	catalog         plandomain.Catalog
	subscriptionSvc subscriptiondomain.Service
	usageSvc        usagedomain.Service
	gate            entitlementdomain.Gate
	quoteLimiter    *ratelimit.QuoteLimiter
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	Log             *zap.Logger
	StoreSvc        storedomain.Service
	ProductSvc      productdomain.Service
	OrderSvc        orderdomain.Service
	ShippingSvc     shippingdomain.Service
	Catalog         plandomain.Catalog
	SubscriptionSvc subscriptiondomain.Service
	UsageSvc        usagedomain.Service
	Gate            entitlementdomain.Gate
	QuoteLimiter    *ratelimit.QuoteLimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		log:             p.Log.Named("http.server"),
		storeSvc:        p.StoreSvc,
		productSvc:      p.ProductSvc,
		orderSvc:        p.OrderSvc,
		shippingSvc:     p.ShippingSvc,
		catalog:         p.Catalog,
		subscriptionSvc: p.SubscriptionSvc,
		usageSvc:        p.UsageSvc,
		gate:            p.Gate,
		quoteLimiter:    p.QuoteLimiter,
	}
	svc.registerPublicRoutes()
	svc.registerMerchantRoutes()
	svc.registerFallback()
	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerPublicRoutes() {
	api := s.engine.Group("/api")

	// -------- Plans --------
	api.GET("/plans", s.ListPlans)
	api.GET("/plans/:slug", s.GetPlanBySlug)

	// -------- Storefront --------
	public := api.Group("/public/stores/:slug")
	public.POST("/shipping/quote", s.QuoteRateLimit(), s.QuoteShipping)
}

func (s *Server) registerMerchantRoutes() {
	api := s.engine.Group("/api", s.RequireUser())

	api.POST("/stores", s.CreateStore)

	// -------- Subscription --------
	api.GET("/subscription", s.GetSubscription)
	api.POST("/subscription", s.Subscribe)
	api.POST("/subscription/cancel", s.CancelSubscription)

	// -------- Usage --------
	api.GET("/usage", s.GetUsage)

	store := api.Group("/store", s.RequireStore())
	store.GET("", s.GetStore)

	// -------- Shipping --------
	store.GET("/shipping/config", s.GetShippingConfig)
	store.PUT("/shipping/config", s.UpsertShippingConfig)
	store.GET("/shipping/zones", s.ListShippingZones)
	store.POST("/shipping/zones", s.CreateShippingZone)
	store.DELETE("/shipping/zones/:id", s.DeleteShippingZone)

	// -------- Products --------
	store.GET("/products", s.ListProducts)
	store.POST("/products", s.ProductLimit(), s.CreateProduct)
	store.GET("/products/:id", s.GetProductByID)

	// -------- Orders --------
	orderHandlers := []gin.HandlerFunc{s.CreateOrder}
	if s.cfg.EnforceOrderLimit {
		orderHandlers = append([]gin.HandlerFunc{s.OrderLimit()}, orderHandlers...)
	}
	store.POST("/orders", orderHandlers...)
	store.POST("/orders/:id/cancel", s.CancelOrder)
}

func (s *Server) registerFallback() {
	s.engine.NoRoute(func(c *gin.Context) {
		AbortWithError(c, ErrNotFound)
	})
}
