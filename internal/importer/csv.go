package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"taxlot/internal/apperrors"
	"taxlot/internal/model"
)

// Column counts of the raw CoinTracking "Trade List" export. The short
// layout is the same export without the bookkeeping columns.
const (
	rawColumns      = 16
	rawShortColumns = 11
)

// ReadCSV parses a trade export. The layout is detected from the header row:
// either the raw CoinTracking export (full or short) or the normalized
// snake_case layout written by this program. Trades come back sorted
// ascending by time.
func ReadCSV(r io.Reader) ([]model.Trade, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty file", apperrors.ErrInvalidCSVHeaders)
	}

	header, rows := rows[0], rows[1:]
	toRecord, err := layoutFor(header)
	if err != nil {
		return nil, err
	}

	trades := make([]model.Trade, 0, len(rows))
	for i, row := range rows {
		record, err := toRecord(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		trade, err := record.Trade()
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		trades = append(trades, trade)
	}

	model.SortTradesByTime(trades)
	return trades, nil
}

func layoutFor(header []string) (func([]string) (Record, error), error) {
	if len(header) > 0 && strings.TrimSpace(header[0]) == "Type" {
		switch len(header) {
		case rawColumns:
			return rawRecord, nil
		case rawShortColumns:
			return rawShortRecord, nil
		}
		return nil, fmt.Errorf("%w: %d raw columns", apperrors.ErrInvalidCSVHeaders, len(header))
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	if _, ok := index["type"]; !ok {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidCSVHeaders, header)
	}
	if _, ok := index["buy_amount"]; !ok {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidCSVHeaders, header)
	}

	return func(row []string) (Record, error) {
		field := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(row) {
				return ""
			}
			return row[i]
		}
		return Record{
			Type:         field("type"),
			Time:         field("time"),
			TradeID:      field("trade_id"),
			BuyCurrency:  field("buy_currency"),
			SellCurrency: field("sell_currency"),
			FeeCurrency:  field("fee_currency"),
			BuyAmount:    field("buy_amount"),
			SellAmount:   field("sell_amount"),
			FeeAmount:    field("fee_amount"),
			BuyValueUSD:  field("buy_value_usd"),
			SellValueUSD: field("sell_value_usd"),
			Exchange:     field("exchange"),
			Group:        field("group"),
			Comment:      field("comment"),
			ImportedFrom: field("imported_from"),
			ImportedTime: field("imported_time"),
		}, nil
	}, nil
}

func rawRecord(row []string) (Record, error) {
	if len(row) != rawColumns {
		return Record{}, fmt.Errorf("expected %d columns, got %d", rawColumns, len(row))
	}
	return Record{
		Type:         row[0],
		BuyAmount:    row[1],
		BuyCurrency:  row[2],
		BuyValueUSD:  row[3],
		SellAmount:   row[4],
		SellCurrency: row[5],
		SellValueUSD: row[6],
		FeeAmount:    row[7],
		FeeCurrency:  row[8],
		Exchange:     row[9],
		ImportedFrom: row[10],
		Group:        row[11],
		Comment:      row[12],
		TradeID:      row[13],
		ImportedTime: row[14],
		Time:         row[15],
	}, nil
}

func rawShortRecord(row []string) (Record, error) {
	if len(row) != rawShortColumns {
		return Record{}, fmt.Errorf("expected %d columns, got %d", rawShortColumns, len(row))
	}
	return Record{
		Type:         row[0],
		BuyAmount:    row[1],
		BuyCurrency:  row[2],
		BuyValueUSD:  row[3],
		SellAmount:   row[4],
		SellCurrency: row[5],
		SellValueUSD: row[6],
		FeeAmount:    row[7],
		FeeCurrency:  row[8],
		Exchange:     row[9],
		Time:         row[10],
	}, nil
}
