package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a realized disposal: a slice of an acquisition lot matched
// against (part of) a later sale, spend, or loss. Basis is the cost consumed
// from the lot; Proceeds is this slice's share of the disposal's USD value.
type Transaction struct {
	Amount    decimal.Decimal
	Basis     decimal.Decimal
	Proceeds  decimal.Decimal
	BuyTrade  *Trade
	SellTrade *Trade
	Comment   string
}

// Gain is proceeds minus basis.
func (t Transaction) Gain() decimal.Decimal {
	return t.Proceeds.Sub(t.Basis)
}

// Currency is the asset disposed of, taken from the acquiring trade's buy
// side.
func (t Transaction) Currency() string {
	return t.BuyTrade.BuyCurrency
}

// BuyTime is when the lot was acquired.
func (t Transaction) BuyTime() time.Time { return t.BuyTrade.Time }

// SellTime is when the disposal happened.
func (t Transaction) SellTime() time.Time { return t.SellTrade.Time }

// TaxYear is the calendar year of the disposal.
func (t Transaction) TaxYear() int { return t.SellTrade.Time.Year() }

// TimeHeld is the interval between acquisition and disposal.
func (t Transaction) TimeHeld() time.Duration {
	return t.SellTrade.Time.Sub(t.BuyTrade.Time)
}

// IsLong reports whether the holding period qualifies as long term: the
// disposal falls on or after the 365th day from acquisition.
func (t Transaction) IsLong() bool {
	return !t.SellTrade.Time.Before(t.BuyTrade.Time.AddDate(0, 0, 365))
}

// BuyExchange is where the lot was acquired.
func (t Transaction) BuyExchange() string { return t.BuyTrade.Exchange }

// SellExchange is where the disposal happened.
func (t Transaction) SellExchange() string { return t.SellTrade.Exchange }
