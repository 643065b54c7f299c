// Command report prints the analytics payload for one address as JSON,
// using the same configuration and upstream clients as the HTTP service.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"math/big"
	"os"
	"time"

	"arclens/internal/application"
	"arclens/internal/config"
	"arclens/internal/infrastructure/ethrpc"
	"arclens/internal/infrastructure/explorer"
)

func main() {
	address := flag.String("address", "", "account address (0x-prefixed)")
	timeout := flag.Duration("timeout", 30*time.Second, "overall fetch timeout")
	flag.Parse()

	if err := application.ValidateAddress(*address); err != nil {
		log.Fatalf("address error: %v", err)
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	rpcClient, err := ethrpc.NewClient(ethrpc.Config{URL: cfg.RPCURL, Timeout: cfg.HTTPTimeout})
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

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	result, err := service.Analyze(ctx, *address)
	if err != nil {
		log.Fatalf("analyze error: %v", err)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		log.Fatalf("encode error: %v", err)
	}
}
