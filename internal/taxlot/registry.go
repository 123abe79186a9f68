package taxlot

type accountKey struct {
	exchange string
	currency string
}

// Registry owns the ledgers of one processing run, keyed by (exchange,
// currency). Ledgers are created on first use.
type Registry struct {
	ledgers  map[accountKey]*Ledger
	recorder *Recorder
	report   reportFunc
}

func newRegistry(rec *Recorder, report reportFunc) *Registry {
	return &Registry{
		ledgers:  make(map[accountKey]*Ledger),
		recorder: rec,
		report:   report,
	}
}

// Ledger returns the account ledger for the exchange and currency, creating
// an empty one if the account has not been seen before.
func (r *Registry) Ledger(exchange, currency string) *Ledger {
	key := accountKey{exchange: exchange, currency: currency}
	l, ok := r.ledgers[key]
	if !ok {
		l = newLedger(exchange, currency, r.recorder, r.report)
		r.ledgers[key] = l
	}
	return l
}
