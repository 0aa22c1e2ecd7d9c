package http

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/smartcart/backend/config"
	"github.com/smartcart/backend/internal/domain"
	"github.com/smartcart/backend/internal/infrastructure/metrics"
)

// RouterOptions carries the observability dependencies of the router
type RouterOptions struct {
	Logger   zerolog.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
}

var registerValidatorsOnce sync.Once

// registerValidators adds the custom binding rules used by request structs
func registerValidators() {
	registerValidatorsOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("measure_unit", func(fl validator.FieldLevel) bool {
				_, ok := domain.ParseMeasureUnit(fl.Field().String())
				return ok
			})
		}
	})
}

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, opts RouterOptions) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	registerValidators()

	router := gin.New()
	router.MaxMultipartMemory = cfg.Server.MaxUploadMB << 20

	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware(opts.Logger))
	if opts.Metrics != nil {
		router.Use(MetricsMiddleware(opts.Metrics))
	}
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)

	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		cart := v1.Group("/cart")
		{
			cart.GET("", handler.GetCart)
			cart.DELETE("", handler.ClearCart)
			cart.POST("/items", handler.AddItem)
			cart.PATCH("/items/:id", handler.UpdateItem)
			cart.DELETE("/items/:id", handler.RemoveItem)
			cart.POST("/items/:id/increment", handler.IncrementItem)
			cart.POST("/items/:id/decrement", handler.DecrementItem)
			cart.GET("/comparison", handler.Comparison)
			cart.GET("/share", handler.ShareText)
			cart.GET("/export.pdf", handler.ExportReport)
		}

		v1.POST("/scan", handler.Scan)

		budget := v1.Group("/budget")
		{
			budget.GET("", handler.GetBudget)
			budget.PUT("", handler.SetBudget)
			budget.DELETE("", handler.ClearBudget)
		}

		list := v1.Group("/list")
		{
			list.GET("", handler.GetList)
			list.POST("", handler.AddListItem)
			list.DELETE("", handler.ClearList)
			list.POST("/import", handler.ImportList)
			list.POST("/:id/toggle", handler.ToggleListItem)
			list.DELETE("/:id", handler.RemoveListItem)
		}
	}

	return router
}
