// Package cointracking fetches trade data from the CoinTracking API.
package cointracking

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"taxlot/internal/importer"
	"taxlot/internal/model"
)

// DefaultBaseURL is the production CoinTracking API endpoint.
const DefaultBaseURL = "https://cointracking.info/api/v1/"

// Client defines the interface for fetching trades from CoinTracking.
// This interface enables dependency injection and testing with mock implementations.
type Client interface {
	GetTrades(ctx context.Context, apiKey, apiSecret string) ([]model.Trade, error)
}

// APIClient talks to the CoinTracking REST API. Requests are form POSTs
// signed with HMAC-SHA512 over the request body, keyed by the account's API
// secret.
type APIClient struct {
	httpClient *http.Client
	baseURL    string
	nonce      func() string
}

// NewAPIClient creates a client for the given endpoint, normally
// DefaultBaseURL.
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    baseURL,
		nonce: func() string {
			return strconv.FormatInt(time.Now().UnixNano(), 10)
		},
	}
}

// GetTrades fetches the account's full trade list, sorted ascending by time.
func (c *APIClient) GetTrades(ctx context.Context, apiKey, apiSecret string) ([]model.Trade, error) {
	if apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("missing api credentials")
	}

	form := url.Values{}
	form.Set("method", "getTrades")
	form.Set("nonce", c.nonce())
	body := form.Encode()

	mac := hmac.New(sha512.New, []byte(apiSecret))
	mac.Write([]byte(body))
	sign := hex.EncodeToString(mac.Sum(nil))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Key", apiKey)
	req.Header.Set("Sign", sign)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cointracking returned status %d", resp.StatusCode)
	}

	return parseGetTradesResponse(data)
}

// parseGetTradesResponse unpacks the getTrades payload: a JSON object with
// bookkeeping fields ("success", "method") and one numbered entry per trade.
func parseGetTradesResponse(data []byte) ([]model.Trade, error) {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	var success flexString
	if raw, ok := payload["success"]; ok {
		if err := json.Unmarshal(raw, &success); err != nil {
			return nil, fmt.Errorf("decoding success flag: %w", err)
		}
	}
	if success != "1" && success != "true" {
		var message flexString
		if raw, ok := payload["error_msg"]; ok {
			_ = json.Unmarshal(raw, &message)
		}
		return nil, fmt.Errorf("cointracking error: %s", message)
	}

	var trades []model.Trade
	for key, raw := range payload {
		switch key {
		case "success", "method", "error", "error_msg":
			continue
		}
		var wire wireTrade
		if err := json.Unmarshal(raw, &wire); err != nil {
			return nil, fmt.Errorf("decoding trade %s: %w", key, err)
		}
		trade, err := wire.record().Trade()
		if err != nil {
			return nil, fmt.Errorf("trade %s: %w", key, err)
		}
		trades = append(trades, trade)
	}

	model.SortTradesByTime(trades)
	return trades, nil
}

// wireTrade matches the API's trade entries. The API is inconsistent about
// quoting, so every field tolerates both strings and bare numbers.
type wireTrade struct {
	Type         flexString `json:"type"`
	Time         flexString `json:"time"`
	TradeID      flexString `json:"trade_id"`
	BuyCurrency  flexString `json:"buy_currency"`
	SellCurrency flexString `json:"sell_currency"`
	FeeCurrency  flexString `json:"fee_currency"`
	BuyAmount    flexString `json:"buy_amount"`
	SellAmount   flexString `json:"sell_amount"`
	FeeAmount    flexString `json:"fee_amount"`
	BuyValueUSD  flexString `json:"buy_value_usd"`
	SellValueUSD flexString `json:"sell_value_usd"`
	Exchange     flexString `json:"exchange"`
	Group        flexString `json:"group"`
	Comment      flexString `json:"comment"`
	ImportedFrom flexString `json:"imported_from"`
	ImportedTime flexString `json:"imported_time"`
}

func (w wireTrade) record() importer.Record {
	return importer.Record{
		Type:         string(w.Type),
		Time:         string(w.Time),
		TradeID:      string(w.TradeID),
		BuyCurrency:  string(w.BuyCurrency),
		SellCurrency: string(w.SellCurrency),
		FeeCurrency:  string(w.FeeCurrency),
		BuyAmount:    string(w.BuyAmount),
		SellAmount:   string(w.SellAmount),
		FeeAmount:    string(w.FeeAmount),
		BuyValueUSD:  string(w.BuyValueUSD),
		SellValueUSD: string(w.SellValueUSD),
		Exchange:     string(w.Exchange),
		Group:        string(w.Group),
		Comment:      string(w.Comment),
		ImportedFrom: string(w.ImportedFrom),
		ImportedTime: string(w.ImportedTime),
	}
}

// flexString accepts a JSON string, number, bool, or null.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	*s = flexString(b)
	return nil
}
