package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	RPCURL            string
	ExplorerAPIURL    string
	ExplorerAPIKey    string
	HTTPAddr          string
	RedisAddr         string
	OtelEndpoint      string
	FetchLimit        int
	ReferenceGasGwei  int64
	ReferenceUsdPrice int64
	RateLimitPerMin   int
	HTTPTimeout       time.Duration
	LogLevel          string
	LogFile           string
	LogMaxSizeMB      int
	LogMaxBackups     int
}

type EnvSource interface {
	Lookup(key string) (string, bool)
}

type EnvMap map[string]string

func (e EnvMap) Lookup(key string) (string, bool) {
	value, ok := e[key]
	return value, ok
}

func FromEnviron() EnvSource {
	env := make(EnvMap)
	for _, entry := range os.Environ() {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		env[parts[0]] = parts[1]
	}
	return env
}

func Load(source EnvSource) (Config, error) {
	if source == nil {
		return Config{}, errors.New("env source is required")
	}

	rpcURL, ok := source.Lookup("RPC_URL")
	if !ok || rpcURL == "" {
		return Config{}, errors.New("RPC_URL is required")
	}
	explorerURL, ok := source.Lookup("EXPLORER_API_URL")
	if !ok || strings.TrimSpace(explorerURL) == "" {
		return Config{}, errors.New("EXPLORER_API_URL is required")
	}
	explorerKey, _ := source.Lookup("EXPLORER_API_KEY")

	fetchLimit, err := parseIntEnv(source, "FETCH_LIMIT", 10000)
	if err != nil {
		return Config{}, err
	}
	referenceGasGwei, err := parseIntEnv(source, "REFERENCE_GAS_PRICE_GWEI", 30)
	if err != nil {
		return Config{}, err
	}
	referenceUsdPrice, err := parseIntEnv(source, "REFERENCE_USD_PRICE", 3000)
	if err != nil {
		return Config{}, err
	}
	rateLimit, err := parseIntEnv(source, "RATE_LIMIT_PER_MINUTE", 0)
	if err != nil {
		return Config{}, err
	}

	httpTimeout := 15 * time.Second
	if raw, ok := source.Lookup("HTTP_TIMEOUT"); ok && raw != "" {
		duration, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
		}
		httpTimeout = duration
	}

	httpAddr := ":8080"
	if raw, ok := source.Lookup("HTTP_ADDR"); ok && raw != "" {
		httpAddr = raw
	}

	redisAddr := ""
	if raw, ok := source.Lookup("REDIS_ADDR"); ok {
		redisAddr = strings.TrimSpace(raw)
	}

	otelEndpoint, _ := source.Lookup("OTEL_EXPORTER_OTLP_ENDPOINT")
	otelEndpoint = strings.TrimSpace(otelEndpoint)

	logLevel, _ := source.Lookup("LOG_LEVEL")
	logFile, _ := source.Lookup("LOG_FILE")
	logMaxSize, err := parseIntEnv(source, "LOG_MAX_SIZE_MB", 100)
	if err != nil {
		return Config{}, err
	}
	logMaxBackups, err := parseIntEnv(source, "LOG_MAX_BACKUPS", 3)
	if err != nil {
		return Config{}, err
	}

	return Config{
		RPCURL:            rpcURL,
		ExplorerAPIURL:    strings.TrimSpace(explorerURL),
		ExplorerAPIKey:    strings.TrimSpace(explorerKey),
		HTTPAddr:          httpAddr,
		RedisAddr:         redisAddr,
		OtelEndpoint:      otelEndpoint,
		FetchLimit:        int(fetchLimit),
		ReferenceGasGwei:  referenceGasGwei,
		ReferenceUsdPrice: referenceUsdPrice,
		RateLimitPerMin:   int(rateLimit),
		HTTPTimeout:       httpTimeout,
		LogLevel:          strings.TrimSpace(logLevel),
		LogFile:           strings.TrimSpace(logFile),
		LogMaxSizeMB:      int(logMaxSize),
		LogMaxBackups:     int(logMaxBackups),
	}, nil
}

func parseIntEnv(source EnvSource, key string, defaultValue int64) (int64, error) {
	raw, ok := source.Lookup(key)
	if !ok || raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return value, nil
}
