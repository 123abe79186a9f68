package cointracking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"taxlot/internal/model"
)

const tradesResponse = `{
	"success": 1,
	"method": "getTrades",
	"1": {
		"type": "Trade",
		"time": 1515162600,
		"trade_id": "t1",
		"buy_currency": "BTC",
		"sell_currency": "USD",
		"fee_currency": "",
		"buy_amount": "0.5",
		"sell_amount": "5000",
		"fee_amount": "0",
		"buy_value_usd": "5000",
		"sell_value_usd": "5000",
		"exchange": "Coinbase",
		"group": "",
		"comment": "",
		"imported_from": "api",
		"imported_time": 1515400800
	},
	"2": {
		"type": "Income",
		"time": 1514162600,
		"trade_id": "t2",
		"buy_currency": "BTC",
		"sell_currency": "",
		"fee_currency": "",
		"buy_amount": "0.01",
		"sell_amount": "-",
		"fee_amount": "0",
		"buy_value_usd": "150",
		"sell_value_usd": "",
		"exchange": "Mining",
		"group": "",
		"comment": "",
		"imported_from": "api",
		"imported_time": 1515400800
	}
}`

func TestGetTrades(t *testing.T) {
	var gotKey, gotSign, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("Key")
		gotSign = r.Header.Get("Sign")
		if err := r.ParseForm(); err != nil {
			t.Errorf("bad form body: %v", err)
		}
		gotBody = r.PostForm.Get("method")
		w.Write([]byte(tradesResponse))
	}))
	defer server.Close()

	client := NewAPIClient(server.URL)
	trades, err := client.GetTrades(context.Background(), "test-key", "test-secret")
	if err != nil {
		t.Fatalf("GetTrades() error = %v", err)
	}

	if gotKey != "test-key" {
		t.Errorf("Key header = %q, want test-key", gotKey)
	}
	if len(gotSign) != 128 {
		t.Errorf("Sign header length = %d, want 128 hex chars of HMAC-SHA512", len(gotSign))
	}
	if gotBody != "getTrades" {
		t.Errorf("method = %q, want getTrades", gotBody)
	}

	if len(trades) != 2 {
		t.Fatalf("got %d trades, want 2", len(trades))
	}
	// sorted ascending: the income record predates the trade
	if trades[0].Type != model.TypeIncome || trades[1].Type != model.TypeTrade {
		t.Errorf("trades not sorted by time: %v, %v", trades[0].Type, trades[1].Type)
	}
	if !trades[1].BuyValueUSD.Valid {
		t.Errorf("buy value lost in transit")
	}
}

func TestGetTradesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": 0, "error": "permission_denied", "error_msg": "No permission"}`))
	}))
	defer server.Close()

	client := NewAPIClient(server.URL)
	_, err := client.GetTrades(context.Background(), "key", "secret")
	if err == nil || !strings.Contains(err.Error(), "No permission") {
		t.Fatalf("GetTrades() error = %v, want api error message", err)
	}
}

func TestGetTradesHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewAPIClient(server.URL)
	if _, err := client.GetTrades(context.Background(), "key", "secret"); err == nil {
		t.Fatalf("GetTrades() succeeded on status 502")
	}
}

func TestGetTradesMissingCredentials(t *testing.T) {
	client := NewAPIClient(DefaultBaseURL)
	if _, err := client.GetTrades(context.Background(), "", ""); err == nil {
		t.Fatalf("GetTrades() accepted empty credentials")
	}
}
