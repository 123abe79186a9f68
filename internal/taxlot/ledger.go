package taxlot

import (
	"github.com/shopspring/decimal"

	"taxlot/internal/model"
)

// reportFunc records a non-fatal issue with the trade it concerns.
type reportFunc func(trade *model.Trade, format string, args ...any)

// Ledger is the FIFO lot queue for one (exchange, currency) account. Lots
// enter at the tail as assets are acquired or transferred in, and disposals
// drain them from the head, oldest first. The ledger keeps its own
// append-only record of realized transactions in addition to feeding the
// run-wide recorder.
type Ledger struct {
	Exchange string
	Currency string

	lots         []*Lot
	transactions []model.Transaction

	recorder *Recorder
	report   reportFunc
}

func newLedger(exchange, currency string, rec *Recorder, report reportFunc) *Ledger {
	return &Ledger{
		Exchange: exchange,
		Currency: currency,
		recorder: rec,
		report:   report,
	}
}

// Deposit appends a new lot acquired by trade, carrying the given basis.
func (l *Ledger) Deposit(trade *model.Trade, basis, amount decimal.Decimal) {
	l.lots = append(l.lots, &Lot{
		BuyTrade:        trade,
		Basis:           basis,
		AmountRemaining: amount,
	})
}

// receive appends a lot split off another ledger by a transfer. The lot
// keeps its original acquisition trade and basis.
func (l *Ledger) receive(lot *Lot) {
	l.lots = append(l.lots, lot)
}

// Balance is the sum of the remaining amounts of all open lots.
func (l *Ledger) Balance() decimal.Decimal {
	total := decimal.Zero
	for _, lot := range l.lots {
		total = total.Add(lot.AmountRemaining)
	}
	return total
}

// Lots returns the open lots, oldest first.
func (l *Ledger) Lots() []*Lot {
	return l.lots
}

// Transactions returns the realized transactions this account produced.
func (l *Ledger) Transactions() []model.Transaction {
	return l.transactions
}

// ConsumeForSale drains trade.SellAmount units from the head of the queue,
// realizing one transaction per lot touched. proceeds is the USD value of
// the whole disposal; each transaction gets a share proportional to the
// units it covers, recomputed against what is still unmatched so the shares
// sum exactly to the total.
func (l *Ledger) ConsumeForSale(trade *model.Trade, proceeds decimal.Decimal) error {
	return l.consume(trade, proceeds, "")
}

// ConsumeForSpend is ConsumeForSale with a comment tag on the realized
// transactions, marking them as spends, donations, gifts, or losses.
func (l *Ledger) ConsumeForSpend(trade *model.Trade, proceeds decimal.Decimal, tag string) error {
	return l.consume(trade, proceeds, tag)
}

func (l *Ledger) consume(trade *model.Trade, proceeds decimal.Decimal, comment string) error {
	amountRemaining := trade.SellAmount
	proceedsRemaining := proceeds

	for amountRemaining.IsPositive() && len(l.lots) > 0 {
		head := l.lots[0]
		txAmount := decimal.Min(amountRemaining, head.AmountRemaining)
		txProceeds := txAmount.Mul(proceedsRemaining).Div(amountRemaining)

		basisRemoved, err := head.remove(txAmount)
		if err != nil {
			return err
		}

		tx := model.Transaction{
			Amount:    txAmount,
			Basis:     basisRemoved,
			Proceeds:  txProceeds,
			BuyTrade:  head.BuyTrade,
			SellTrade: trade,
			Comment:   comment,
		}
		l.transactions = append(l.transactions, tx)
		l.recorder.add(tx)

		amountRemaining = amountRemaining.Sub(txAmount)
		proceedsRemaining = proceedsRemaining.Sub(txProceeds)
		if head.depleted() {
			l.lots = l.lots[1:]
		}
	}

	l.checkRemainder(trade, amountRemaining, proceedsRemaining)
	return nil
}

// ConsumeForWithdrawal drains trade.SellAmount units like a sale but realizes
// nothing: the consumed slices come back as lots, each still attached to its
// original acquisition trade and carrying the basis removed with it, ready to
// be received by the destination account.
func (l *Ledger) ConsumeForWithdrawal(trade *model.Trade) ([]*Lot, error) {
	amountRemaining := trade.SellAmount
	var moved []*Lot

	for amountRemaining.IsPositive() && len(l.lots) > 0 {
		head := l.lots[0]
		amount := decimal.Min(amountRemaining, head.AmountRemaining)

		basisRemoved, err := head.remove(amount)
		if err != nil {
			return nil, err
		}
		moved = append(moved, &Lot{
			BuyTrade:        head.BuyTrade,
			Basis:           basisRemoved,
			AmountRemaining: amount,
		})

		amountRemaining = amountRemaining.Sub(amount)
		if head.depleted() {
			l.lots = l.lots[1:]
		}
	}

	if amountRemaining.IsPositive() && !amountRemaining.LessThan(negligible) {
		l.reportUnmatched(trade, amountRemaining)
	}
	return moved, nil
}

// checkRemainder handles the part of a disposal that no lot covered.
// Sub-tolerance remainders, in units or in value, are export rounding noise
// and are dropped silently; anything larger means the ledger never saw the
// acquisition and is reported.
func (l *Ledger) checkRemainder(trade *model.Trade, amount, proceeds decimal.Decimal) {
	if !amount.IsPositive() {
		return
	}
	if amount.LessThan(negligible) || proceeds.LessThan(negligible) {
		return
	}
	l.reportUnmatched(trade, amount)
}

func (l *Ledger) reportUnmatched(trade *model.Trade, amount decimal.Decimal) {
	l.report(trade, "insufficient lots on %s/%s: %s %s unmatched",
		l.Exchange, l.Currency, amount, l.Currency)
}
