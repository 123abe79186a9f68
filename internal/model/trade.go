// Package model defines the domain data structures shared across the
// repository, service, and API layers.
package model

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// TradeType identifies how a trade record affects holdings.
type TradeType string

// Trade record types as they appear in CoinTracking exports.
const (
	TypeTrade      TradeType = "Trade"
	TypeSpend      TradeType = "Spend"
	TypeDonation   TradeType = "Donation"
	TypeGift       TradeType = "Gift"
	TypeStolen     TradeType = "Stolen"
	TypeIncome     TradeType = "Income"
	TypeWithdrawal TradeType = "Withdrawal"
	TypeDeposit    TradeType = "Deposit"
)

// Trade is a single imported exchange record. A trade proper has both a buy
// and a sell side; one-sided records (deposits, withdrawals, income, spends)
// leave the unused side's currency empty and amount zero.
//
// BuyValueUSD and SellValueUSD are the exchange-reported USD valuations at
// trade time. They are optional: an absent valuation is distinct from a
// reported valuation of zero, hence decimal.NullDecimal.
type Trade struct {
	ID           string              `json:"id,omitempty"`
	Type         TradeType           `json:"type"`
	Time         time.Time           `json:"time"`
	TradeID      string              `json:"tradeId"`
	BuyCurrency  string              `json:"buyCurrency"`
	SellCurrency string              `json:"sellCurrency"`
	FeeCurrency  string              `json:"feeCurrency"`
	BuyAmount    decimal.Decimal     `json:"buyAmount"`
	SellAmount   decimal.Decimal     `json:"sellAmount"`
	FeeAmount    decimal.Decimal     `json:"feeAmount"`
	BuyValueUSD  decimal.NullDecimal `json:"buyValueUsd"`
	SellValueUSD decimal.NullDecimal `json:"sellValueUsd"`
	Exchange     string              `json:"exchange"`
	Group        string              `json:"group"`
	Comment      string              `json:"comment"`
	ImportedFrom string              `json:"importedFrom"`
	ImportedTime time.Time           `json:"importedTime"`
}

// TradeKey is the identity of a trade record. Two records with equal keys
// describe the same underlying event even when they come from different
// exports with different metadata (exchange naming, comments, import time).
type TradeKey struct {
	TradeID      string
	Type         TradeType
	Time         int64
	BuyCurrency  string
	SellCurrency string
	FeeCurrency  string
	BuyAmount    string
	SellAmount   string
	FeeAmount    string
}

// Key returns the trade's identity key. Amounts are canonicalized through
// decimal string form so 1.50 and 1.5 compare equal.
func (t Trade) Key() TradeKey {
	return TradeKey{
		TradeID:      t.TradeID,
		Type:         t.Type,
		Time:         t.Time.UTC().Unix(),
		BuyCurrency:  t.BuyCurrency,
		SellCurrency: t.SellCurrency,
		FeeCurrency:  t.FeeCurrency,
		BuyAmount:    t.BuyAmount.String(),
		SellAmount:   t.SellAmount.String(),
		FeeAmount:    t.FeeAmount.String(),
	}
}

// Equal reports whether two records have the same identity key.
func (t Trade) Equal(other Trade) bool {
	return t.Key() == other.Key()
}

// String renders the record compactly for logs and error messages.
func (t Trade) String() string {
	return fmt.Sprintf("%s %s buy %s %s sell %s %s on %s (trade id %q)",
		t.Time.UTC().Format(time.RFC3339), t.Type,
		t.BuyAmount, t.BuyCurrency, t.SellAmount, t.SellCurrency,
		t.Exchange, t.TradeID)
}

// ImportResult summarizes one import of an export payload. Skipped counts
// records whose identity key was already stored.
type ImportResult struct {
	Parsed   int `json:"parsed"`
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// SortTradesByTime orders trades ascending by time, preserving the relative
// order of records with identical timestamps.
func SortTradesByTime(trades []Trade) {
	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].Time.Before(trades[j].Time)
	})
}
