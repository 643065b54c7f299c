package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"math/big"
	"os"
	"os/signal"
	"syscall"
	"time"

	"arclens/internal/application"
	"arclens/internal/config"
	"arclens/internal/infrastructure/ethrpc"
	"arclens/internal/infrastructure/explorer"
	"arclens/internal/infrastructure/logging"
	"arclens/internal/infrastructure/ratelimit"
	"arclens/internal/infrastructure/telemetry"
	"arclens/internal/interfaces/httpapi"
)

var (
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	rotating, err := logging.Init(logging.Config{
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
	})
	if err != nil {
		log.Fatalf("logging error: %v", err)
	}
	if rotating != nil {
		defer rotating.Close()
	}

	shutdownTracing, err := telemetry.InitTracer(context.Background(), "arclens-api", cfg.OtelEndpoint)
	if err != nil {
		log.Printf("tracing init error: %v", err)
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracing(ctx); err != nil {
				log.Printf("tracing shutdown error: %v", err)
			}
		}()
	}

	rpcClient, err := ethrpc.NewClient(ethrpc.Config{
		URL:     cfg.RPCURL,
		Timeout: cfg.HTTPTimeout,
	})
	if err != nil {
		log.Fatalf("rpc error: %v", err)
	}

	explorerClient, err := explorer.NewClient(explorer.Config{
		BaseURL: cfg.ExplorerAPIURL,
		APIKey:  cfg.ExplorerAPIKey,
		Limit:   cfg.FetchLimit,
		Timeout: cfg.HTTPTimeout,
	})
	if err != nil {
		log.Fatalf("explorer error: %v", err)
	}

	service, err := application.NewService(rpcClient, explorerClient, application.EstimateConfig{
		ReferenceGasPriceWei: new(big.Int).Mul(big.NewInt(cfg.ReferenceGasGwei), big.NewInt(1_000_000_000)),
		ReferenceUsdPerUnit:  cfg.ReferenceUsdPrice,
	})
	if err != nil {
		log.Fatalf("service error: %v", err)
	}

	var limiter httpapi.RequestLimiter
	if redisLimiter, err := ratelimit.NewLimiter(ratelimit.Config{
		Addr:      cfg.RedisAddr,
		PerMinute: cfg.RateLimitPerMin,
	}); err != nil {
		log.Printf("rate limiter disabled: %v", err)
	} else {
		limiter = redisLimiter
		defer redisLimiter.Close()
	}

	httpServer, err := httpapi.NewServer(service, rpcClient, explorerClient, limiter, httpapi.NewMetrics(), httpapi.BuildInfo{
		Version:   version,
		Commit:    commit,
		BuildTime: buildTime,
	})
	if err != nil {
		log.Fatalf("http server error: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	slog.Info("http server listening", "addr", cfg.HTTPAddr)
	if err := httpServer.ListenAndServe(ctx, cfg.HTTPAddr); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("http server error: %v", err)
	}
}
