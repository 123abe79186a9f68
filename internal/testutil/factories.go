package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"taxlot/internal/model"
	"taxlot/internal/repository"
)

// TradeBuilder provides a fluent interface for creating test trades.
//
// Example usage:
//
//	// Simple creation with defaults: 1 BTC bought for 1000 USD
//	trade := testutil.NewTrade().Build(t, db)
//
//	// Customized trade
//	trade := testutil.NewTrade().
//	    WithType(model.TypeIncome).
//	    WithBuy("ETH", "10").
//	    WithBuyValueUSD("1500").
//	    WithExchange("Kraken").
//	    Build(t, db)
type TradeBuilder struct {
	Type         model.TradeType
	Time         time.Time
	TradeID      string
	BuyCurrency  string
	BuyAmount    string
	SellCurrency string
	SellAmount   string
	FeeAmount    string
	BuyValueUSD  string
	SellValueUSD string
	Exchange     string
	Group        string
	Comment      string
}

// NewTrade creates a TradeBuilder with sensible defaults: a purchase of
// 1 BTC for 1000 USD on Coinbase.
func NewTrade() *TradeBuilder {
	return &TradeBuilder{
		Type:         model.TypeTrade,
		Time:         time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC),
		TradeID:      MakeID(),
		BuyCurrency:  "BTC",
		BuyAmount:    "1",
		SellCurrency: "USD",
		SellAmount:   "1000",
		FeeAmount:    "0",
		Exchange:     "Coinbase",
	}
}

// WithType sets the trade type.
func (b *TradeBuilder) WithType(typ model.TradeType) *TradeBuilder {
	b.Type = typ
	return b
}

// WithTime sets the trade time.
func (b *TradeBuilder) WithTime(t time.Time) *TradeBuilder {
	b.Time = t
	return b
}

// WithTradeID sets a custom trade ID.
func (b *TradeBuilder) WithTradeID(id string) *TradeBuilder {
	b.TradeID = id
	return b
}

// WithBuy sets the buy side. Pass an empty currency and "0" for one-sided
// disposals.
func (b *TradeBuilder) WithBuy(currency, amount string) *TradeBuilder {
	b.BuyCurrency = currency
	b.BuyAmount = amount
	return b
}

// WithSell sets the sell side.
func (b *TradeBuilder) WithSell(currency, amount string) *TradeBuilder {
	b.SellCurrency = currency
	b.SellAmount = amount
	return b
}

// WithBuyValueUSD sets the reported buy-side USD valuation.
func (b *TradeBuilder) WithBuyValueUSD(value string) *TradeBuilder {
	b.BuyValueUSD = value
	return b
}

// WithSellValueUSD sets the reported sell-side USD valuation.
func (b *TradeBuilder) WithSellValueUSD(value string) *TradeBuilder {
	b.SellValueUSD = value
	return b
}

// WithExchange sets the exchange.
func (b *TradeBuilder) WithExchange(exchange string) *TradeBuilder {
	b.Exchange = exchange
	return b
}

// WithComment sets the comment.
func (b *TradeBuilder) WithComment(comment string) *TradeBuilder {
	b.Comment = comment
	return b
}

// Trade assembles the model.Trade without touching the database.
//
// Real exports always report USD valuations on USD-leg trades, equal to the
// USD amount, so when neither valuation was set explicitly the builder fills
// both in from the USD side. Crypto-to-crypto trades are left untouched.
func (b *TradeBuilder) Trade(t *testing.T) model.Trade {
	t.Helper()

	if b.BuyValueUSD == "" && b.SellValueUSD == "" {
		switch {
		case b.BuyCurrency == "USD":
			b.BuyValueUSD, b.SellValueUSD = b.BuyAmount, b.BuyAmount
		case b.SellCurrency == "USD":
			b.BuyValueUSD, b.SellValueUSD = b.SellAmount, b.SellAmount
		}
	}

	return model.Trade{
		Type:         b.Type,
		Time:         b.Time,
		TradeID:      b.TradeID,
		BuyCurrency:  b.BuyCurrency,
		SellCurrency: b.SellCurrency,
		BuyAmount:    MakeDecimal(t, b.BuyAmount),
		SellAmount:   MakeDecimal(t, b.SellAmount),
		FeeAmount:    MakeDecimal(t, b.FeeAmount),
		BuyValueUSD:  makeNullDecimal(t, b.BuyValueUSD),
		SellValueUSD: makeNullDecimal(t, b.SellValueUSD),
		Exchange:     b.Exchange,
		Group:        b.Group,
		Comment:      b.Comment,
	}
}

// Build creates the trade in the database and returns it.
func (b *TradeBuilder) Build(t *testing.T, db *sql.DB) model.Trade {
	t.Helper()

	trade := b.Trade(t)
	if _, err := repository.NewTradeRepository(db).InsertTrades([]model.Trade{trade}); err != nil {
		t.Fatalf("Failed to create test trade: %v", err)
	}
	return trade
}

// MakeDecimal parses a decimal literal, failing the test on bad input.
func MakeDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()

	if s == "" {
		return decimal.Zero
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("Bad decimal literal %q: %v", s, err)
	}
	return v
}

func makeNullDecimal(t *testing.T, s string) decimal.NullDecimal {
	t.Helper()

	if s == "" {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: MakeDecimal(t, s), Valid: true}
}
