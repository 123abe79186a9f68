package testutil

import (
	"context"
	"testing"
	"time"

	"taxlot/internal/model"
)

// MockCoinTrackingClient is a mock implementation of cointracking.Client for
// testing. It returns predefined trades instead of making actual API calls.
type MockCoinTrackingClient struct {
	// MockTrades is the trade list to return from GetTrades
	MockTrades []model.Trade
	// MockError is the error to return from GetTrades
	MockError error
	// CallCount tracks how many times GetTrades was called
	CallCount int
	// LastAPIKey and LastAPISecret capture the credentials of the last call
	LastAPIKey    string
	LastAPISecret string
}

// NewMockCoinTrackingClient creates a mock client with a small default
// trade list.
func NewMockCoinTrackingClient(t *testing.T) *MockCoinTrackingClient {
	t.Helper()

	return &MockCoinTrackingClient{
		MockTrades: CreateMockTrades(t, 3),
	}
}

// GetTrades returns the configured trades and error.
func (m *MockCoinTrackingClient) GetTrades(_ context.Context, apiKey, apiSecret string) ([]model.Trade, error) {
	m.CallCount++
	m.LastAPIKey = apiKey
	m.LastAPISecret = apiSecret
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockTrades, nil
}

// WithTrades configures the mock to return the specified trades.
func (m *MockCoinTrackingClient) WithTrades(trades []model.Trade) *MockCoinTrackingClient {
	m.MockTrades = trades
	return m
}

// WithError configures the mock to return the specified error.
func (m *MockCoinTrackingClient) WithError(err error) *MockCoinTrackingClient {
	m.MockError = err
	return m
}

// CreateMockTrades builds count BTC purchases on consecutive days, each with
// a unique trade ID.
func CreateMockTrades(t *testing.T, count int) []model.Trade {
	t.Helper()

	start := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	trades := make([]model.Trade, 0, count)
	for i := 0; i < count; i++ {
		trades = append(trades, NewTrade().
			WithTime(start.AddDate(0, 0, i)).
			WithTradeID(MakeID()).
			Trade(t))
	}
	return trades
}
