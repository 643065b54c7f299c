package explorer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

const testAddress = "0x1234567890abcdef1234567890abcdef12345678"

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{BaseURL: server.URL, Limit: 100})
	if err != nil {
		t.Fatalf("client init failed: %v", err)
	}
	return client
}

func TestClient_Transactions(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if query.Get("module") != "account" || query.Get("action") != "txlist" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		if query.Get("address") != testAddress {
			t.Errorf("expected lower-cased address, got %s", query.Get("address"))
		}
		if query.Get("sort") != "asc" || query.Get("offset") != "100" {
			t.Errorf("expected asc sort and offset 100, got %s", r.URL.RawQuery)
		}
		if err := json.NewEncoder(w).Encode(map[string]any{
			"status":  "1",
			"message": "OK",
			"result": []map[string]string{
				{"hash": "0xaaa", "value": "1000", "timeStamp": "1700000000", "methodId": "0xa9059cbb"},
				{"hash": "0xbbb", "value": "2000", "timeStamp": "1700000100"},
			},
		}); err != nil {
			t.Fatalf("encode response: %v", err)
		}
	})

	records, err := client.Transactions(context.Background(), "0x1234567890ABCDEF1234567890abcdef12345678")
	if err != nil {
		t.Fatalf("transactions failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Hash != "0xaaa" || records[0].MethodID != "0xa9059cbb" {
		t.Errorf("unexpected first record %+v", records[0])
	}
}

func TestClient_TransactionsNoResultsIsEmpty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewEncoder(w).Encode(map[string]any{
			"status":  "0",
			"message": "No transactions found",
			"result":  []any{},
		}); err != nil {
			t.Fatalf("encode response: %v", err)
		}
	})

	records, err := client.Transactions(context.Background(), testAddress)
	if err != nil {
		t.Fatalf("expected empty history, got error %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", records)
	}
}

func TestClient_ErrorStatusWithStringResult(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// Etherscan puts an error string where the record list would be.
		if err := json.NewEncoder(w).Encode(map[string]any{
			"status":  "0",
			"message": "NOTOK",
			"result":  "Max rate limit reached",
		}); err != nil {
			t.Fatalf("encode response: %v", err)
		}
	})

	records, err := client.Transactions(context.Background(), testAddress)
	if err != nil {
		t.Fatalf("expected empty history on api error status, got %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected empty slice, got %v", records)
	}
}

func TestClient_TokenTransfers(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("action"); got != "tokentx" {
			t.Errorf("expected tokentx action, got %s", got)
		}
		if err := json.NewEncoder(w).Encode(map[string]any{
			"status":  "1",
			"message": "OK",
			"result": []map[string]string{
				{"hash": "0xccc", "tokenSymbol": "USDC", "tokenDecimal": "6"},
			},
		}); err != nil {
			t.Fatalf("encode response: %v", err)
		}
	})

	records, err := client.TokenTransfers(context.Background(), testAddress)
	if err != nil {
		t.Fatalf("token transfers failed: %v", err)
	}
	if len(records) != 1 || records[0].TokenSymbol != "USDC" {
		t.Errorf("unexpected records %v", records)
	}
}

func TestClient_ServerErrorPropagates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	if _, err := client.Transactions(context.Background(), testAddress); err == nil {
		t.Error("expected transport failure to propagate")
	}
}

func TestClient_APIKeyForwarded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("apikey"); got != "secret" {
			t.Errorf("expected apikey forwarded, got %q", got)
		}
		if err := json.NewEncoder(w).Encode(map[string]any{"status": "1", "message": "OK", "result": []any{}}); err != nil {
			t.Fatalf("encode response: %v", err)
		}
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(Config{BaseURL: server.URL, APIKey: "secret"})
	if err != nil {
		t.Fatalf("client init failed: %v", err)
	}
	if _, err := client.Transactions(context.Background(), testAddress); err != nil {
		t.Fatalf("transactions failed: %v", err)
	}
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Error("expected error for missing base url")
	}
}
