package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"order-gateway/internal/breaker"
	"order-gateway/internal/config"
	"order-gateway/internal/events"
	"order-gateway/internal/gateway"
	"order-gateway/internal/httpx"
	"order-gateway/internal/inventory"
	"order-gateway/internal/orders"
	"order-gateway/internal/redisx"
	"order-gateway/internal/retry"
)

func main() {
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	setLogLevel(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis (order read cache)
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer for domain events
	prod := events.NewProducer(cfg.KafkaBrokers, cfg.OrderTopic, 1024)
	prod.Start(ctx)

	// Backends and catalog
	backend := orders.NewMemoryBackend()
	catalog := inventory.SeedCatalog()
	invSvc := inventory.NewService(inventory.NewAllocator(catalog))

	// Circuit breakers, one per downstream service
	breakers := breaker.NewManager()
	breakers.Register(gateway.ServiceOrder, breakerConfig(cfg.Order))
	breakers.Register(gateway.ServiceInventory, breakerConfig(cfg.Inventory))

	orch := gateway.New(backend, invSvc, breakers, gateway.Options{
		OrderRetry:       retryPolicy(cfg.Order),
		InventoryRetry:   retryPolicy(cfg.Inventory),
		OrderTimeout:     cfg.Order.CallTimeout,
		InventoryTimeout: cfg.Inventory.CallTimeout,
		Events:           &events.Emitter{Sink: prod, Producer: cfg.ServiceName},
	})

	router := httpx.NewRouter()
	oh := &httpx.OrdersHandler{
		Gateway: orch,
		Orders:  backend,
		Catalog: catalog,
		Redis:   rdb,
	}
	oh.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("HTTP listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info().Msg("shutting down...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	_ = srv.Shutdown(shutdownCtx)

	prod.Close()
	cancel()
	prod.WaitClosed()
}

func setLogLevel(level string) {
	switch strings.ToLower(level) {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func breakerConfig(s config.ServiceSettings) breaker.Config {
	return breaker.Config{
		FailureThreshold:  s.FailureThreshold,
		RecoveryTimeout:   s.RecoveryTimeout,
		HalfOpenSuccesses: s.HalfOpenSuccesses,
	}
}

func retryPolicy(s config.ServiceSettings) retry.Policy {
	return retry.Policy{
		MaxAttempts: s.RetryMaxAttempts,
		BaseDelay:   s.RetryBaseDelay,
	}
}
