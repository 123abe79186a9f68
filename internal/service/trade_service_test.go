package service_test

import (
	"errors"
	"strings"
	"testing"

	"taxlot/internal/apperrors"
	"taxlot/internal/testutil"
)

const tradesCSV = `type,time,trade_id,buy_currency,sell_currency,fee_currency,buy_amount,sell_amount,fee_amount,buy_value_usd,sell_value_usd,exchange,group,comment,imported_from,imported_time
Trade,1514800800,t1,BTC,USD,,1,1000,0,1000,1000,Coinbase,,,,
Trade,1514887200,t2,USD,BTC,,2000,1,0,2000,2000,Coinbase,,,,
`

func TestImportTrades(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestTradeService(t, db)

	t.Run("imports csv", func(t *testing.T) {
		result, err := svc.ImportTrades("csv", strings.NewReader(tradesCSV))
		if err != nil {
			t.Fatalf("ImportTrades() error = %v", err)
		}
		if result.Parsed != 2 || result.Imported != 2 || result.Skipped != 0 {
			t.Errorf("result = %+v, want 2 parsed, 2 imported", result)
		}
		testutil.AssertRowCount(t, db, "trade", 2)
	})

	t.Run("re-import skips duplicates", func(t *testing.T) {
		result, err := svc.ImportTrades("csv", strings.NewReader(tradesCSV))
		if err != nil {
			t.Fatalf("ImportTrades() error = %v", err)
		}
		if result.Imported != 0 || result.Skipped != 2 {
			t.Errorf("result = %+v, want everything skipped", result)
		}
		testutil.AssertRowCount(t, db, "trade", 2)
	})

	t.Run("rejects unknown format", func(t *testing.T) {
		_, err := svc.ImportTrades("xml", strings.NewReader(""))
		if !errors.Is(err, apperrors.ErrInvalidFormat) {
			t.Errorf("ImportTrades() error = %v, want ErrInvalidFormat", err)
		}
	})

	t.Run("rejects malformed payload", func(t *testing.T) {
		_, err := svc.ImportTrades("csv", strings.NewReader("foo,bar\n1,2\n"))
		if !errors.Is(err, apperrors.ErrFailedToImportTrades) {
			t.Errorf("ImportTrades() error = %v, want ErrFailedToImportTrades", err)
		}
	})
}

func TestGetTradesRoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestTradeService(t, db)

	if _, err := svc.ImportTrades("csv", strings.NewReader(tradesCSV)); err != nil {
		t.Fatalf("ImportTrades() error = %v", err)
	}

	trades, err := svc.GetTrades()
	if err != nil {
		t.Fatalf("GetTrades() error = %v", err)
	}
	if len(trades) != 2 {
		t.Fatalf("got %d trades, want 2", len(trades))
	}
	if !trades[0].Time.Before(trades[1].Time) {
		t.Errorf("trades not sorted ascending by time")
	}
	if trades[0].TradeID != "t1" {
		t.Errorf("first trade = %q, want t1", trades[0].TradeID)
	}
	if !trades[0].BuyValueUSD.Valid {
		t.Errorf("usd valuation lost in storage round trip")
	}
}

func TestGetTradesEqualTimestampOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestTradeService(t, db)

	// two trades in the same second must come back in import order
	const sameSecondCSV = `type,time,trade_id,buy_currency,sell_currency,fee_currency,buy_amount,sell_amount,fee_amount,buy_value_usd,sell_value_usd,exchange,group,comment,imported_from,imported_time
Trade,1514800800,first,BTC,USD,,1,1000,0,1000,1000,Coinbase,,,,
Trade,1514800800,second,USD,BTC,,2000,1,0,2000,2000,Coinbase,,,,
`
	if _, err := svc.ImportTrades("csv", strings.NewReader(sameSecondCSV)); err != nil {
		t.Fatalf("ImportTrades() error = %v", err)
	}

	trades, err := svc.GetTrades()
	if err != nil {
		t.Fatalf("GetTrades() error = %v", err)
	}
	if len(trades) != 2 {
		t.Fatalf("got %d trades, want 2", len(trades))
	}
	if trades[0].TradeID != "first" || trades[1].TradeID != "second" {
		t.Errorf("order = %q, %q; want import order preserved", trades[0].TradeID, trades[1].TradeID)
	}
}
