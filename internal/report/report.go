// Package report writes computed tax reports as CSV or JSON.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"taxlot/internal/model"
)

// timeLayout is ISO 8601 without a zone; report times are UTC.
const timeLayout = "2006-01-02T15:04:05"

var columns = []string{
	"amount", "currency", "basis", "proceeds", "gain",
	"buy_time", "sell_time", "tax_year", "time_held", "is_long",
	"buy_exchange", "sell_exchange", "comment",
}

// WriteCSV writes the transactions with a header row.
func WriteCSV(w io.Writer, transactions []model.ReportTransaction) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, tx := range transactions {
		row := []string{
			tx.Amount.String(),
			tx.Currency,
			tx.Basis.String(),
			tx.Proceeds.String(),
			tx.Gain.String(),
			tx.BuyTime.UTC().Format(timeLayout),
			tx.SellTime.UTC().Format(timeLayout),
			strconv.Itoa(tx.TaxYear),
			tx.TimeHeld.String(),
			strconv.FormatBool(tx.IsLong),
			tx.BuyExchange,
			tx.SellExchange,
			tx.Comment,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

type jsonRow struct {
	Amount       string `json:"amount"`
	Currency     string `json:"currency"`
	Basis        string `json:"basis"`
	Proceeds     string `json:"proceeds"`
	Gain         string `json:"gain"`
	BuyTime      string `json:"buy_time"`
	SellTime     string `json:"sell_time"`
	TaxYear      int    `json:"tax_year"`
	TimeHeld     string `json:"time_held"`
	IsLong       bool   `json:"is_long"`
	BuyExchange  string `json:"buy_exchange"`
	SellExchange string `json:"sell_exchange"`
	Comment      string `json:"comment"`
}

// WriteJSON writes the transactions as an indented JSON array.
func WriteJSON(w io.Writer, transactions []model.ReportTransaction) error {
	rows := make([]jsonRow, 0, len(transactions))
	for _, tx := range transactions {
		rows = append(rows, jsonRow{
			Amount:       tx.Amount.String(),
			Currency:     tx.Currency,
			Basis:        tx.Basis.String(),
			Proceeds:     tx.Proceeds.String(),
			Gain:         tx.Gain.String(),
			BuyTime:      tx.BuyTime.UTC().Format(timeLayout),
			SellTime:     tx.SellTime.UTC().Format(timeLayout),
			TaxYear:      tx.TaxYear,
			TimeHeld:     tx.TimeHeld.String(),
			IsLong:       tx.IsLong,
			BuyExchange:  tx.BuyExchange,
			SellExchange: tx.SellExchange,
			Comment:      tx.Comment,
		})
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "    ")
	return encoder.Encode(rows)
}
