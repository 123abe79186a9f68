package taxlot

import "taxlot/internal/model"

// Recorder accumulates realized transactions across all ledgers of a run, in
// the order they were realized.
type Recorder struct {
	transactions []model.Transaction
}

func (r *Recorder) add(tx model.Transaction) {
	r.transactions = append(r.transactions, tx)
}

// Transactions returns everything recorded so far.
func (r *Recorder) Transactions() []model.Transaction {
	return r.transactions
}

// Issue is a non-fatal problem noticed while processing a trade. The run
// continues past it; issues are collected so callers can surface them.
type Issue struct {
	Trade   *model.Trade
	Message string
}
