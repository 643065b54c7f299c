package explorer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"arclens/internal/domain"
)

// Client talks to the Etherscan-compatible explorer API that serves the
// account history. Responses use the {status,message,result} envelope;
// status "0" with a "No transactions found" message is a normal empty
// answer, not a failure.
type Client struct {
	baseURL    string
	apiKey     string
	limit      int
	httpClient *http.Client
}

type Config struct {
	BaseURL string
	APIKey  string
	// Limit bounds a single history fetch; the service never paginates
	// past it.
	Limit   int
	Timeout time.Duration
}

const defaultFetchLimit = 10000

func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("explorer base url is required")
	}
	if cfg.Limit <= 0 {
		cfg.Limit = defaultFetchLimit
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		limit:      cfg.Limit,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Transactions returns the account's transaction history, ascending by
// time, at most Limit entries.
func (c *Client) Transactions(ctx context.Context, address string) ([]domain.TransactionRecord, error) {
	var records []domain.TransactionRecord
	if err := c.query(ctx, "txlist", address, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []domain.TransactionRecord{}
	}
	return records, nil
}

// TokenTransfers returns the account's token-transfer history under the
// same contract as Transactions.
func (c *Client) TokenTransfers(ctx context.Context, address string) ([]domain.TokenTransferRecord, error) {
	var records []domain.TokenTransferRecord
	if err := c.query(ctx, "tokentx", address, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []domain.TokenTransferRecord{}
	}
	return records, nil
}

// Ping checks the API responds; used by the readiness probe.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 500 {
		return fmt.Errorf("explorer status %d", resp.StatusCode)
	}
	return nil
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

func (c *Client) query(ctx context.Context, action, address string, result any) error {
	params := url.Values{}
	params.Set("module", "account")
	params.Set("action", action)
	params.Set("address", strings.ToLower(address))
	params.Set("startblock", "0")
	params.Set("endblock", "99999999")
	params.Set("page", "1")
	params.Set("offset", strconv.Itoa(c.limit))
	params.Set("sort", "asc")
	if c.apiKey != "" {
		params.Set("apikey", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("explorer status %d", resp.StatusCode)
	}

	var decoded envelope
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return err
	}
	// On non-success the result field carries an error string rather than
	// a record list; the caller gets an empty history either way.
	if decoded.Status != "1" {
		return nil
	}
	return json.Unmarshal(decoded.Result, result)
}
