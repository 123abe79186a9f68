package importer

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"taxlot/internal/apperrors"
	"taxlot/internal/model"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	v, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}
	return v
}

func TestReadCSVRawLayout(t *testing.T) {
	csv := `"Type","Buy","Cur.","Buy value in USD","Sell","Cur.","Sell value in USD","Fee","Cur.","Exchange","Imported From","Trade Group","Comment","Trade ID","Add Date","Trade Date"
"Trade","0.50000000","BTC","5000.00","5000.00","USD","5000.00","0.00000000","BTC","Coinbase","coinbase","","","abc123","08.01.2018 10:00","05.01.2018 14:30"
"Gift(Out)","-","","-","0.10000000","BTC","1000.00","-","","Coinbase","","","","def456","08.01.2018 10:00","06.01.2018 09:15"
`
	trades, err := ReadCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if len(trades) != 2 {
		t.Fatalf("got %d trades, want 2", len(trades))
	}

	buy := trades[0]
	if buy.Type != model.TypeTrade {
		t.Errorf("type = %q, want Trade", buy.Type)
	}
	if !buy.BuyAmount.Equal(dec(t, "0.5")) || buy.BuyCurrency != "BTC" {
		t.Errorf("buy side = %s %s, want 0.5 BTC", buy.BuyAmount, buy.BuyCurrency)
	}
	if buy.FeeCurrency != "" {
		t.Errorf("zero fee kept currency %q", buy.FeeCurrency)
	}
	want := time.Date(2018, 1, 5, 14, 30, 0, 0, time.UTC)
	if !buy.Time.Equal(want) {
		t.Errorf("time = %s, want %s", buy.Time, want)
	}
	if buy.TradeID != "abc123" {
		t.Errorf("trade id = %q, want abc123", buy.TradeID)
	}

	gift := trades[1]
	if gift.Type != model.TypeGift {
		t.Errorf("type = %q, want Gift(Out) normalized to Gift", gift.Type)
	}
	if !gift.BuyAmount.IsZero() {
		t.Errorf("dash amount parsed as %s, want 0", gift.BuyAmount)
	}
	if gift.BuyValueUSD.Valid {
		t.Errorf("dash value parsed as present")
	}
	if !gift.SellValueUSD.Valid || !gift.SellValueUSD.Decimal.Equal(dec(t, "1000")) {
		t.Errorf("sell value = %v, want 1000", gift.SellValueUSD)
	}
}

func TestReadCSVShortLayout(t *testing.T) {
	csv := `"Type","Buy","Cur.","Buy value in USD","Sell","Cur.","Sell value in USD","Fee","Cur.","Exchange","Trade Date"
"Trade","1.00000000","ETH","700.00","700.00","USD","700.00","-","","Kraken","05.01.2018 14:30"
`
	trades, err := ReadCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if len(trades) != 1 {
		t.Fatalf("got %d trades, want 1", len(trades))
	}
	if trades[0].Exchange != "Kraken" || trades[0].BuyCurrency != "ETH" {
		t.Errorf("parsed %s on %s, want ETH on Kraken", trades[0].BuyCurrency, trades[0].Exchange)
	}
	if trades[0].TradeID != "" {
		t.Errorf("short layout produced trade id %q", trades[0].TradeID)
	}
}

func TestReadCSVNormalizedLayout(t *testing.T) {
	csv := `type,time,trade_id,buy_currency,sell_currency,fee_currency,buy_amount,sell_amount,fee_amount,buy_value_usd,sell_value_usd,exchange,group,comment,imported_from,imported_time
Trade,1515162600,abc123,BTC,USD,,0.5,5000,0,5000,5000,Coinbase,,,coinbase,1515400800
`
	trades, err := ReadCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if len(trades) != 1 {
		t.Fatalf("got %d trades, want 1", len(trades))
	}
	if trades[0].Time.Unix() != 1515162600 {
		t.Errorf("unix time = %d, want 1515162600", trades[0].Time.Unix())
	}
	if trades[0].ImportedTime.Unix() != 1515400800 {
		t.Errorf("imported time = %d, want 1515400800", trades[0].ImportedTime.Unix())
	}
}

func TestReadCSVSortsByTime(t *testing.T) {
	csv := `type,time,buy_currency,buy_amount,sell_currency,sell_amount,fee_amount,buy_value_usd,sell_value_usd,exchange
Trade,2018-01-02T00:00:00,BTC,1,USD,100,0,100,100,Coinbase
Trade,2018-01-01T00:00:00,BTC,1,USD,100,0,100,100,Coinbase
`
	trades, err := ReadCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if !trades[0].Time.Before(trades[1].Time) {
		t.Errorf("trades not sorted ascending by time")
	}
}

func TestReadCSVRejectsUnknownHeader(t *testing.T) {
	csv := "foo,bar\n1,2\n"
	_, err := ReadCSV(strings.NewReader(csv))
	if !errors.Is(err, apperrors.ErrInvalidCSVHeaders) {
		t.Fatalf("ReadCSV() error = %v, want ErrInvalidCSVHeaders", err)
	}
}

func TestReadJSON(t *testing.T) {
	payload := `[
	  {"type":"Income","time":"1515162600","buy_currency":"BTC","buy_amount":"0.01",
	   "sell_currency":"","sell_amount":"-","fee_amount":"0.00000000",
	   "buy_value_usd":"150.00","sell_value_usd":"","exchange":"Mining","trade_id":"m1",
	   "group":"","comment":"","imported_from":"api","imported_time":"1515400800"}
	]`
	trades, err := ReadJSON(strings.NewReader(payload))
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if len(trades) != 1 {
		t.Fatalf("got %d trades, want 1", len(trades))
	}
	if trades[0].Type != model.TypeIncome {
		t.Errorf("type = %q, want Income", trades[0].Type)
	}
	if !trades[0].BuyValueUSD.Valid {
		t.Errorf("buy value lost")
	}
	if trades[0].SellValueUSD.Valid {
		t.Errorf("empty sell value parsed as present")
	}
}

func TestCombine(t *testing.T) {
	record := func(tm time.Time, imported time.Time) model.Trade {
		return model.Trade{
			Type: model.TypeTrade, Time: tm, TradeID: "abc",
			BuyCurrency: "BTC", BuyAmount: dec(t, "1"),
			SellCurrency: "USD", SellAmount: dec(t, "100"),
			Exchange:     "Coinbase",
			ImportedTime: imported,
		}
	}

	minute := time.Date(2018, 1, 5, 14, 30, 0, 0, time.UTC)
	precise := minute.Add(42 * time.Second)
	oldImport := time.Date(2018, 1, 8, 0, 0, 0, 0, time.UTC)
	newImport := time.Date(2018, 2, 1, 0, 0, 0, 0, time.UTC)

	merged, err := Combine(
		[]model.Trade{record(minute, oldImport)},
		[]model.Trade{record(precise, newImport)},
	)
	if err != nil {
		t.Fatalf("Combine() error = %v", err)
	}
	if !merged[0].Time.Equal(precise) {
		t.Errorf("time = %s, want second-precision %s", merged[0].Time, precise)
	}
	if !merged[0].ImportedTime.Equal(newImport) {
		t.Errorf("imported time = %s, want %s", merged[0].ImportedTime, newImport)
	}
}

func TestCombineUnmatchedTrade(t *testing.T) {
	stray := model.Trade{
		Type: model.TypeTrade, Time: time.Date(2018, 1, 5, 14, 30, 42, 0, time.UTC),
		BuyCurrency: "BTC", BuyAmount: dec(t, "1"),
		SellCurrency: "USD", SellAmount: dec(t, "100"),
	}
	_, err := Combine(nil, []model.Trade{stray})
	if !errors.Is(err, apperrors.ErrUnmatchedTrade) {
		t.Fatalf("Combine() error = %v, want ErrUnmatchedTrade", err)
	}
}

func TestParseTimeFormats(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"1515162600", time.Unix(1515162600, 0).UTC()},
		{"05.01.2018 14:30", time.Date(2018, 1, 5, 14, 30, 0, 0, time.UTC)},
		{"2018-01-05T14:30:42", time.Date(2018, 1, 5, 14, 30, 42, 0, time.UTC)},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := parseTime(tc.in)
			if err != nil {
				t.Fatalf("parseTime(%q) error = %v", tc.in, err)
			}
			if !got.Equal(tc.want) {
				t.Errorf("parseTime(%q) = %s, want %s", tc.in, got, tc.want)
			}
		})
	}

	if _, err := parseTime("yesterday"); err == nil {
		t.Errorf("parseTime accepted garbage")
	}
}
