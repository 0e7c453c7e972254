package restapi

import (
	"net/http"
	"net/http/pprof"

	"portfolio_oracle/internal/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// RouterOptions toggles the auxiliary endpoints.
type RouterOptions struct {
	AllowedOrigins []string
	EnablePprof    bool
	// SwaggerSpecPath - путь к swagger.yaml на диске; пустой отключает /swagger.
	SwaggerSpecPath string
}

// SetupRouter настраивает и возвращает экземпляр Gin роутера.
func SetupRouter(portfolioHandler *PortfolioHandler, oracleHandler *OracleHandler, zapLogger *zap.Logger, opts RouterOptions) *gin.Engine {
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	if len(opts.AllowedOrigins) == 0 || (len(opts.AllowedOrigins) == 1 && opts.AllowedOrigins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = opts.AllowedOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	router.Use(cors.New(corsConfig))

	router.Use(logger.GinZap(zapLogger))
	router.Use(gin.Recovery())

	api := router.Group("/api")
	{
		api.GET("/portfolio", portfolioHandler.GetPortfolioHandler)
		api.POST("/ai", oracleHandler.StreamHandler)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if opts.SwaggerSpecPath != "" {
		router.StaticFile("/docs/swagger.yaml", opts.SwaggerSpecPath)
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/docs/swagger.yaml")))
	}

	if opts.EnablePprof {
		pprofRouter := router.Group("/debug/pprof")
		{
			pprofRouter.GET("/", gin.WrapF(pprof.Index))
			pprofRouter.GET("/cmdline", gin.WrapF(pprof.Cmdline))
			pprofRouter.GET("/profile", gin.WrapF(pprof.Profile))
			pprofRouter.POST("/symbol", gin.WrapF(pprof.Symbol))
			pprofRouter.GET("/symbol", gin.WrapF(pprof.Symbol))
			pprofRouter.GET("/trace", gin.WrapF(pprof.Trace))
			pprofRouter.GET("/allocs", gin.WrapH(pprof.Handler("allocs")))
			pprofRouter.GET("/block", gin.WrapH(pprof.Handler("block")))
			pprofRouter.GET("/goroutine", gin.WrapH(pprof.Handler("goroutine")))
			pprofRouter.GET("/heap", gin.WrapH(pprof.Handler("heap")))
			pprofRouter.GET("/mutex", gin.WrapH(pprof.Handler("mutex")))
			pprofRouter.GET("/threadcreate", gin.WrapH(pprof.Handler("threadcreate")))
		}
		zapLogger.Info("Pprof endpoints enabled under /debug/pprof")
	}

	return router
}
