package importer

import (
	"encoding/json"
	"fmt"
	"io"

	"taxlot/internal/model"
)

// ReadJSON parses an array of normalized export records. Trades come back
// sorted ascending by time.
func ReadJSON(r io.Reader) ([]model.Trade, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding json: %w", err)
	}

	trades := make([]model.Trade, 0, len(records))
	for i, record := range records {
		trade, err := record.Trade()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		trades = append(trades, trade)
	}

	model.SortTradesByTime(trades)
	return trades, nil
}
