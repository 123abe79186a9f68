// Package importer reads CoinTracking trade exports. It accepts the raw CSV
// export layouts, a normalized snake_case CSV layout, and JSON records, and
// cleans exchange quirks (dash placeholders, zero fees, legacy type names,
// three timestamp formats) into model.Trade values.
package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"taxlot/internal/model"
)

// Record is one export row before cleaning, every field in the string form
// the export uses.
type Record struct {
	Type         string `json:"type"`
	Time         string `json:"time"`
	TradeID      string `json:"trade_id"`
	BuyCurrency  string `json:"buy_currency"`
	SellCurrency string `json:"sell_currency"`
	FeeCurrency  string `json:"fee_currency"`
	BuyAmount    string `json:"buy_amount"`
	SellAmount   string `json:"sell_amount"`
	FeeAmount    string `json:"fee_amount"`
	BuyValueUSD  string `json:"buy_value_usd"`
	SellValueUSD string `json:"sell_value_usd"`
	Exchange     string `json:"exchange"`
	Group        string `json:"group"`
	Comment      string `json:"comment"`
	ImportedFrom string `json:"imported_from"`
	ImportedTime string `json:"imported_time"`
}

// Trade cleans the record into a model.Trade:
//
//   - "-" and empty amounts become zero
//   - the fee currency is dropped when the fee is zero
//   - the legacy "Gift(Out)" type becomes "Gift"
//   - timestamps may be unix seconds, "31.12.2017 23:59", or ISO 8601
//     without a zone; naive times are taken as UTC
func (r Record) Trade() (model.Trade, error) {
	tradeTime, err := parseTime(r.Time)
	if err != nil {
		return model.Trade{}, fmt.Errorf("trade time: %w", err)
	}

	var importedTime time.Time
	if strings.TrimSpace(r.ImportedTime) != "" {
		importedTime, err = parseTime(r.ImportedTime)
		if err != nil {
			return model.Trade{}, fmt.Errorf("imported time: %w", err)
		}
	}

	buyAmount, err := parseAmount(r.BuyAmount)
	if err != nil {
		return model.Trade{}, fmt.Errorf("buy amount: %w", err)
	}
	sellAmount, err := parseAmount(r.SellAmount)
	if err != nil {
		return model.Trade{}, fmt.Errorf("sell amount: %w", err)
	}
	feeAmount, err := parseAmount(r.FeeAmount)
	if err != nil {
		return model.Trade{}, fmt.Errorf("fee amount: %w", err)
	}
	buyValue, err := parseOptionalValue(r.BuyValueUSD)
	if err != nil {
		return model.Trade{}, fmt.Errorf("buy value: %w", err)
	}
	sellValue, err := parseOptionalValue(r.SellValueUSD)
	if err != nil {
		return model.Trade{}, fmt.Errorf("sell value: %w", err)
	}

	feeCurrency := strings.TrimSpace(r.FeeCurrency)
	if feeAmount.IsZero() {
		feeCurrency = ""
	}

	typ := strings.TrimSpace(r.Type)
	if typ == "Gift(Out)" {
		typ = "Gift"
	}

	return model.Trade{
		Type:         model.TradeType(typ),
		Time:         tradeTime,
		TradeID:      strings.TrimSpace(r.TradeID),
		BuyCurrency:  strings.TrimSpace(r.BuyCurrency),
		SellCurrency: strings.TrimSpace(r.SellCurrency),
		FeeCurrency:  feeCurrency,
		BuyAmount:    buyAmount,
		SellAmount:   sellAmount,
		FeeAmount:    feeAmount,
		BuyValueUSD:  buyValue,
		SellValueUSD: sellValue,
		Exchange:     strings.TrimSpace(r.Exchange),
		Group:        strings.TrimSpace(r.Group),
		Comment:      strings.TrimSpace(r.Comment),
		ImportedFrom: strings.TrimSpace(r.ImportedFrom),
		ImportedTime: importedTime,
	}, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// parseOptionalValue distinguishes an absent USD valuation from a reported
// zero.
func parseOptionalValue(s string) (decimal.NullDecimal, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return decimal.NullDecimal{}, nil
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NullDecimal{Decimal: v, Valid: true}, nil
}

var timeLayouts = []string{
	"02.01.2006 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
