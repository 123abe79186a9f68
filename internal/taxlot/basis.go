// Package taxlot implements FIFO cost-basis accounting over a time-ordered
// stream of trade records. A Processor replays the stream, maintaining one
// lot ledger per (exchange, currency) account, and emits a realized
// Transaction for every slice of an acquisition lot consumed by a later
// disposal.
package taxlot

import (
	"fmt"

	"github.com/shopspring/decimal"

	"taxlot/internal/apperrors"
	"taxlot/internal/model"
)

// DetermineBasis resolves the USD value of a trade record. Rules apply in
// order:
//
//  1. buying USD directly: the buy amount is the value
//  2. selling for USD directly: the sell amount is the value
//  3. one-sided acquisition (no sell leg): the reported sell-side USD value
//  4. one-sided disposal (no buy leg): the reported buy-side USD value
//  5. crypto-to-crypto: the reported sell-side USD value
//
// An absent or zero reported value does not satisfy rules 3-5. When no rule
// applies the trade's value is unknowable and the error wraps
// apperrors.ErrBasisUnresolvable.
func DetermineBasis(t *model.Trade) (decimal.Decimal, error) {
	if t.BuyCurrency == "USD" {
		return t.BuyAmount, nil
	}
	if t.SellCurrency == "USD" {
		return t.SellAmount, nil
	}
	if t.BuyCurrency == "" && usable(t.SellValueUSD) {
		return t.SellValueUSD.Decimal, nil
	}
	if t.SellCurrency == "" && usable(t.BuyValueUSD) {
		return t.BuyValueUSD.Decimal, nil
	}
	if usable(t.SellValueUSD) {
		return t.SellValueUSD.Decimal, nil
	}
	return decimal.Zero, fmt.Errorf("%w for %s", apperrors.ErrBasisUnresolvable, t)
}

func usable(v decimal.NullDecimal) bool {
	return v.Valid && !v.Decimal.IsZero()
}
