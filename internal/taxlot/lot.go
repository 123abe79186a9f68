package taxlot

import (
	"fmt"

	"github.com/shopspring/decimal"

	"taxlot/internal/apperrors"
	"taxlot/internal/model"
)

// negligible is the threshold below which leftover amounts are treated as
// floating-point noise from exchange exports rather than real holdings.
var negligible = decimal.New(1, -5)

// Lot is an open acquisition: units bought by one trade that have not yet
// been disposed of, with the cost basis still attached to them. Basis and
// AmountRemaining shrink proportionally as the lot is consumed.
type Lot struct {
	BuyTrade        *model.Trade
	Basis           decimal.Decimal
	AmountRemaining decimal.Decimal
}

// remove takes amount units out of the lot and returns the basis that leaves
// with them: the lot's remaining basis in proportion to the units taken.
// Removing more than the lot holds wraps apperrors.ErrLotOverdrawn; the
// ledger must never let that happen.
func (l *Lot) remove(amount decimal.Decimal) (decimal.Decimal, error) {
	basisRemoved := amount.Mul(l.Basis).Div(l.AmountRemaining)
	l.AmountRemaining = l.AmountRemaining.Sub(amount)
	l.Basis = l.Basis.Sub(basisRemoved)
	if l.AmountRemaining.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: removed %s from lot acquired by %s",
			apperrors.ErrLotOverdrawn, amount, l.BuyTrade)
	}
	return basisRemoved, nil
}

func (l *Lot) depleted() bool {
	return l.AmountRemaining.IsZero()
}
