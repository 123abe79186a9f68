package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Report is one stored run of the tax engine over the trade store.
type Report struct {
	ID               string    `json:"id"`
	GeneratedAt      time.Time `json:"generatedAt"`
	TradeCount       int       `json:"tradeCount"`
	TransactionCount int       `json:"transactionCount"`
	TotalGain        string    `json:"totalGain"`
}

// ReportTransaction is a realized transaction flattened for storage and API
// responses. Derived fields (gain, tax year, holding period) are materialized
// so stored reports stay stable even if derivation rules change.
type ReportTransaction struct {
	ID           string          `json:"id"`
	ReportID     string          `json:"reportId"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	Basis        decimal.Decimal `json:"basis"`
	Proceeds     decimal.Decimal `json:"proceeds"`
	Gain         decimal.Decimal `json:"gain"`
	BuyTime      time.Time       `json:"buyTime"`
	SellTime     time.Time       `json:"sellTime"`
	TaxYear      int             `json:"taxYear"`
	TimeHeld     time.Duration   `json:"timeHeld"`
	IsLong       bool            `json:"isLong"`
	BuyExchange  string          `json:"buyExchange"`
	SellExchange string          `json:"sellExchange"`
	Comment      string          `json:"comment"`
}

// NewReportTransaction flattens an engine transaction. ID and ReportID are
// assigned by the caller when the row is persisted.
func NewReportTransaction(tx Transaction) ReportTransaction {
	return ReportTransaction{
		Amount:       tx.Amount,
		Currency:     tx.Currency(),
		Basis:        tx.Basis,
		Proceeds:     tx.Proceeds,
		Gain:         tx.Gain(),
		BuyTime:      tx.BuyTime(),
		SellTime:     tx.SellTime(),
		TaxYear:      tx.TaxYear(),
		TimeHeld:     tx.TimeHeld(),
		IsLong:       tx.IsLong(),
		BuyExchange:  tx.BuyExchange(),
		SellExchange: tx.SellExchange(),
		Comment:      tx.Comment,
	}
}
