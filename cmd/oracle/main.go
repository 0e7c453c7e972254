package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portfolio_oracle/internal/app/port"
	"portfolio_oracle/internal/app/provider"
	"portfolio_oracle/internal/app/service"
	"portfolio_oracle/internal/infrastructure/aiclient"
	"portfolio_oracle/internal/infrastructure/configloader"
	clientprovider "portfolio_oracle/internal/infrastructure/network/client"
	networkdefinition "portfolio_oracle/internal/infrastructure/network/definition"
	"portfolio_oracle/internal/infrastructure/pricefeed"
	"portfolio_oracle/internal/infrastructure/restapi"
	"portfolio_oracle/internal/infrastructure/tokenloader"
	"portfolio_oracle/internal/pkg/logger"
	"portfolio_oracle/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Загрузка конфигурации
	configPath := configloader.ResolvePath()
	cfg, err := configloader.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: failed to load configuration from %s: %v\n", configPath, err)
		os.Exit(1)
	}

	zapLogger, err := logger.NewZap(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: Failed to initialize zapLogger: %v\n", err)
		os.Exit(1)
	}
	defer zapLogger.Sync()
	logger.InitZap(zapLogger, cfg.Logging.Level)

	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("Portfolio oracle запускается...", "config", configPath)
	metrics.MustRegisterMetrics()

	appLogger := logger.NewSlogAdapter()

	overrides := make([]networkdefinition.RPCOverride, 0, len(cfg.Networks))
	for _, n := range cfg.Networks {
		overrides = append(overrides, networkdefinition.RPCOverride{
			ChainID:       n.ChainID,
			PrimaryRPCURL: n.RPCURL,
			FallbackURLs:  n.FallbackURLs,
		})
	}
	netDefProvider := networkdefinition.NewNetworkDefinitionProvider(logger.Named("networks"), overrides)

	tokenRegistry := provider.NewTokenProvider(
		tokenloader.NewTokenLoader(cfg.Tokens.Directory, logger.Named("tokenloader")),
		netDefProvider,
		appLogger,
	)

	clientProvider := clientprovider.NewEVMClientProvider(clientprovider.ProviderConfig{
		ConnectionTimeout: time.Duration(cfg.RPCClient.ConnectionTimeoutSeconds) * time.Second,
		RPCCallTimeout:    cfg.RPCCallTimeout(),
		RateLimit:         cfg.RPCClient.RateLimit,
		BurstLimit:        cfg.RPCClient.BurstLimit,
	}, logger.Named("evm"))
	defer clientProvider.Close()

	tokenPriceService := service.NewTokenPriceService(pricefeed.NewStaticFeed(cfg.Prices.Table), cfg.PriceCacheTTL(), appLogger)
	if err := tokenPriceService.LoadAndCacheTokenPrices(context.Background()); err != nil {
		// без цен портфель оценивается в 0, это не фатально
		logger.Warn("Не удалось загрузить и закешировать цены токенов", "ошибка", err)
	}

	resolver := service.NewBalanceResolver(netDefProvider, clientProvider, tokenRegistry, logger.Named("resolver"), cfg.Portfolio.MaxConcurrentLookups)
	portfolioService := service.NewPortfolioService(
		resolver,
		service.NewPortfolioAggregator(tokenPriceService, appLogger),
		appLogger,
		cfg.PortfolioTimeout(),
	)

	fortuneService := service.NewFortuneService(newGenerator(cfg, appLogger), logger.Named("oracle"), cfg.AI.MaxTokens, cfg.AI.Temperature)

	// Настройка и запуск HTTP сервера
	swaggerPath := ""
	if cfg.Swagger.Enabled {
		swaggerPath = cfg.Swagger.Path
	}
	router := restapi.SetupRouter(
		restapi.NewPortfolioHandler(portfolioService, logger.Named("api")),
		restapi.NewOracleHandler(fortuneService, logger.Named("api")),
		zapLogger.Named("http"),
		restapi.RouterOptions{
			AllowedOrigins:  cfg.CORS.AllowedOrigins,
			EnablePprof:     cfg.Logging.Level == "debug",
			SwaggerSpecPath: swaggerPath,
		},
	)

	// WriteTimeout 0 оставляет SSE потоки без ограничения
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		logger.Info("Запуск HTTP сервера", "адрес", srv.Addr, "ai_provider", cfg.AI.Provider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Не удалось запустить HTTP сервер", "ошибка", err)
		}
	}()

	// Ожидание сигнала завершения (например, Ctrl+C)
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)
	<-signalChan

	logger.Info("Получен сигнал завершения. Завершение работы HTTP сервера...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ошибка при Graceful Shutdown HTTP сервера", "ошибка", err)
	} else {
		logger.Info("HTTP сервер успешно остановлен.")
	}
	zapLogger.Info("Portfolio oracle остановлен.", zap.String("config", configPath))
}

func newGenerator(cfg *configloader.Config, log port.Logger) port.TextGenerator {
	if cfg.AI.Provider == "anthropic" {
		return aiclient.NewAnthropicGenerator(cfg.AI.APIKey, cfg.AI.Model, logger.Named("anthropic"))
	}
	log.Warn("Using scripted oracle, no AI backend configured")
	return aiclient.NewScriptedGenerator("", 40*time.Millisecond)
}
