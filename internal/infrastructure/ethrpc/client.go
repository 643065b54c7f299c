package ethrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// Client is a minimal JSON-RPC 2.0 client for the account read methods the
// service needs.
type Client struct {
	url        string
	httpClient *http.Client
	idCounter  uint64
}

type Config struct {
	URL     string
	Timeout time.Duration
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("rpc url is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		url:        cfg.URL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Balance returns the account balance in base units via eth_getBalance.
// An empty or absent result counts as zero.
func (c *Client) Balance(ctx context.Context, address string) (*big.Int, error) {
	var result string
	if err := c.call(ctx, "eth_getBalance", []any{strings.ToLower(address), "latest"}, &result); err != nil {
		if errors.Is(err, errEmptyResult) {
			return new(big.Int), nil
		}
		return nil, err
	}
	return parseHexBig(result)
}

// TransactionCount returns the account nonce via eth_getTransactionCount,
// zero when the node has no record of the account.
func (c *Client) TransactionCount(ctx context.Context, address string) (uint64, error) {
	var result string
	if err := c.call(ctx, "eth_getTransactionCount", []any{strings.ToLower(address), "latest"}, &result); err != nil {
		if errors.Is(err, errEmptyResult) {
			return 0, nil
		}
		return 0, err
	}
	return parseHexUint(result)
}

// Ping verifies the node answers at all; used by the readiness probe.
func (c *Client) Ping(ctx context.Context) error {
	var result string
	return c.call(ctx, "eth_blockNumber", []any{}, &result)
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

var errEmptyResult = errors.New("rpc result is empty")

func (c *Client) call(ctx context.Context, method string, params []any, result any) error {
	id := atomic.AddUint64(&c.idCounter, 1)
	payload, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      id,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("rpc status %d", resp.StatusCode)
	}

	var decoded rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return err
	}
	if decoded.Error != nil {
		return fmt.Errorf("rpc error %d: %s", decoded.Error.Code, decoded.Error.Message)
	}
	if result == nil {
		return nil
	}
	if len(decoded.Result) == 0 || string(decoded.Result) == "null" {
		return errEmptyResult
	}
	return json.Unmarshal(decoded.Result, result)
}

func parseHexBig(value string) (*big.Int, error) {
	trimmed := strings.TrimPrefix(value, "0x")
	if trimmed == "" {
		return new(big.Int), nil
	}
	parsed, ok := new(big.Int).SetString(trimmed, 16)
	if !ok {
		return nil, fmt.Errorf("invalid hex quantity: %s", value)
	}
	return parsed, nil
}

func parseHexUint(value string) (uint64, error) {
	trimmed := strings.TrimPrefix(value, "0x")
	if trimmed == "" {
		return 0, nil
	}
	return strconv.ParseUint(trimmed, 16, 64)
}
