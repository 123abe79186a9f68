package taxlot

import (
	"fmt"
	"log"
	"strings"

	"taxlot/internal/apperrors"
	"taxlot/internal/model"
)

// Processor replays a time-ordered trade stream through a fresh registry of
// ledgers. A Processor is single-use: NewProcessor, one Process call, then
// inspect the result. It is not safe for concurrent use.
type Processor struct {
	recorder *Recorder
	registry *Registry
	issues   []Issue

	// A transfer is a withdrawal and a deposit that arrive as separate
	// adjacent records. Whichever side arrives first waits here for its
	// counterpart.
	pendingWithdrawal *model.Trade
	pendingDeposit    *model.Trade
}

// NewProcessor returns a processor with empty ledgers.
func NewProcessor() *Processor {
	p := &Processor{recorder: &Recorder{}}
	p.registry = newRegistry(p.recorder, p.reportf)
	return p
}

// Registry exposes the ledgers built up by Process, for balance inspection.
func (p *Processor) Registry() *Registry {
	return p.registry
}

// Issues returns the non-fatal problems encountered, in order.
func (p *Processor) Issues() []Issue {
	return p.issues
}

// Process replays the trades, which must already be sorted ascending by
// time, and returns every realized transaction in realization order. Any
// error is fatal: the books cannot be trusted past it and no partial result
// is returned.
func (p *Processor) Process(trades []model.Trade) ([]model.Transaction, error) {
	for i := range trades {
		trade := &trades[i]
		if isCancelled(trade) {
			continue
		}
		if err := p.dispatch(trade); err != nil {
			return nil, err
		}
	}
	return p.recorder.Transactions(), nil
}

func (p *Processor) dispatch(trade *model.Trade) error {
	switch trade.Type {
	case model.TypeWithdrawal, model.TypeDeposit:
		return p.latchTransfer(trade)
	}

	if p.pendingWithdrawal != nil || p.pendingDeposit != nil {
		p.reportf(trade, "unpaired transfer still pending (withdrawal=%v, deposit=%v)",
			p.pendingWithdrawal, p.pendingDeposit)
	}

	switch trade.Type {
	case model.TypeTrade:
		return p.processTrade(trade)
	case model.TypeSpend:
		return p.processSpend(trade, "")
	case model.TypeDonation:
		return p.processSpend(trade, "Donation")
	case model.TypeGift:
		return p.processSpend(trade, "Gift")
	case model.TypeStolen:
		return p.processSpend(trade, "Stolen")
	case model.TypeIncome:
		return p.processIncome(trade)
	default:
		p.reportf(trade, "unknown trade type %q", trade.Type)
		return nil
	}
}

// processTrade handles a two-sided exchange of one asset for another. Trades
// with a missing side or no USD valuation at all are dust entries and are
// skipped silently. The disposal of the sell side and the acquisition of the
// buy side share one basis: the trade's USD value.
func (p *Processor) processTrade(trade *model.Trade) error {
	if trade.BuyAmount.IsZero() || trade.SellAmount.IsZero() {
		return nil
	}
	if !usable(trade.BuyValueUSD) && !usable(trade.SellValueUSD) {
		return nil
	}

	basis, err := DetermineBasis(trade)
	if err != nil {
		return err
	}

	if trade.SellCurrency != "USD" {
		ledger := p.registry.Ledger(trade.Exchange, trade.SellCurrency)
		if err := ledger.ConsumeForSale(trade, basis); err != nil {
			return err
		}
	}
	if trade.BuyCurrency != "USD" {
		ledger := p.registry.Ledger(trade.Exchange, trade.BuyCurrency)
		ledger.Deposit(trade, basis, trade.BuyAmount)
	}
	return nil
}

func (p *Processor) processSpend(trade *model.Trade, tag string) error {
	basis, err := DetermineBasis(trade)
	if err != nil {
		return err
	}
	ledger := p.registry.Ledger(trade.Exchange, trade.SellCurrency)
	return ledger.ConsumeForSpend(trade, basis, tag)
}

// processIncome deposits the received amount as a new lot. Zero-amount
// records are dust and are skipped: an empty lot could never be drained and
// would poison the head of the FIFO queue.
func (p *Processor) processIncome(trade *model.Trade) error {
	if trade.BuyAmount.IsZero() {
		return nil
	}
	basis, err := DetermineBasis(trade)
	if err != nil {
		return err
	}
	ledger := p.registry.Ledger(trade.Exchange, trade.BuyCurrency)
	ledger.Deposit(trade, basis, trade.BuyAmount)
	return nil
}

// latchTransfer stores one side of a transfer and completes the transfer
// when both sides are present. A repeated withdrawal or deposit overwrites
// the slot; only a completed pair clears them.
func (p *Processor) latchTransfer(trade *model.Trade) error {
	if trade.Type == model.TypeWithdrawal {
		p.pendingWithdrawal = trade
	} else {
		p.pendingDeposit = trade
	}
	if p.pendingWithdrawal == nil || p.pendingDeposit == nil {
		return nil
	}

	withdrawal, deposit := p.pendingWithdrawal, p.pendingDeposit
	p.pendingWithdrawal, p.pendingDeposit = nil, nil
	return p.transfer(withdrawal, deposit)
}

// transfer moves lots between exchanges without realizing anything: the
// withdrawn slices keep their acquisition trades and basis and join the tail
// of the destination ledger. USD moves carry no basis, so they are no-ops.
func (p *Processor) transfer(withdrawal, deposit *model.Trade) error {
	if withdrawal.SellCurrency != deposit.BuyCurrency {
		return fmt.Errorf("%w: withdrew %s (%s), deposited %s (%s)",
			apperrors.ErrTransferMismatch,
			withdrawal.SellCurrency, withdrawal, deposit.BuyCurrency, deposit)
	}
	currency := withdrawal.SellCurrency
	if currency == "USD" {
		return nil
	}

	source := p.registry.Ledger(withdrawal.Exchange, currency)
	destination := p.registry.Ledger(deposit.Exchange, currency)

	lots, err := source.ConsumeForWithdrawal(withdrawal)
	if err != nil {
		return err
	}
	for _, lot := range lots {
		destination.receive(lot)
	}
	return nil
}

func (p *Processor) reportf(trade *model.Trade, format string, args ...any) {
	message := fmt.Sprintf(format, args...)
	log.Printf("taxlot: %s: %s", message, trade)
	p.issues = append(p.issues, Issue{Trade: trade, Message: message})
}

// isCancelled reports whether the record is marked cancelled or failed by
// the exchange and should not touch the books.
func isCancelled(trade *model.Trade) bool {
	for _, field := range []string{trade.Comment, trade.Group} {
		field = strings.ToLower(field)
		if strings.Contains(field, "cancelled") || strings.Contains(field, "failed") {
			return true
		}
	}
	return false
}
