package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"taxlot/internal/model"
)

// TradeRepository provides data access methods for the trade table.
type TradeRepository struct {
	db *sql.DB
}

// NewTradeRepository creates a new TradeRepository with the provided database connection.
func NewTradeRepository(db *sql.DB) *TradeRepository {
	return &TradeRepository{db: db}
}

// InsertTrades stores the trades, skipping any whose identity key is already
// present (the trade table has a unique constraint on the key columns, so
// re-importing an overlapping export is harmless). Returns how many rows
// were actually inserted.
func (s *TradeRepository) InsertTrades(trades []model.Trade) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO trade (
			id, trade_id, type, time,
			buy_currency, sell_currency, fee_currency,
			buy_amount, sell_amount, fee_amount,
			buy_value_usd, sell_value_usd,
			exchange, trade_group, comment, imported_from, imported_time
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, t := range trades {
		result, err := stmt.Exec(
			uuid.New().String(),
			t.TradeID,
			string(t.Type),
			formatTime(t.Time),
			t.BuyCurrency,
			t.SellCurrency,
			t.FeeCurrency,
			t.BuyAmount.String(),
			t.SellAmount.String(),
			t.FeeAmount.String(),
			formatNullDecimal(t.BuyValueUSD),
			formatNullDecimal(t.SellValueUSD),
			t.Exchange,
			t.Group,
			t.Comment,
			t.ImportedFrom,
			formatNullTime(t.ImportedTime),
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert trade: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to read insert result: %w", err)
		}
		inserted += int(rows)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit trades: %w", err)
	}
	return inserted, nil
}

// GetTrades retrieves all trades sorted ascending by time. Equal timestamps
// break the tie on insertion order (rowid), so repeated reads feed the lot
// engine an identical sequence.
func (s *TradeRepository) GetTrades() ([]model.Trade, error) {
	rows, err := s.db.Query(`
		SELECT id, trade_id, type, time,
			buy_currency, sell_currency, fee_currency,
			buy_amount, sell_amount, fee_amount,
			buy_value_usd, sell_value_usd,
			exchange, trade_group, comment, imported_from, imported_time
		FROM trade
		ORDER BY time ASC, rowid ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query trade table: %w", err)
	}
	defer rows.Close()

	trades := []model.Trade{}
	for rows.Next() {
		var t model.Trade
		var timeStr string
		var buyAmount, sellAmount, feeAmount string
		var buyValue, sellValue, importedTime sql.NullString

		err := rows.Scan(
			&t.ID,
			&t.TradeID,
			&t.Type,
			&timeStr,
			&t.BuyCurrency,
			&t.SellCurrency,
			&t.FeeCurrency,
			&buyAmount,
			&sellAmount,
			&feeAmount,
			&buyValue,
			&sellValue,
			&t.Exchange,
			&t.Group,
			&t.Comment,
			&t.ImportedFrom,
			&importedTime,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade table results: %w", err)
		}

		if t.Time, err = ParseTime(timeStr); err != nil {
			return nil, err
		}
		if importedTime.Valid {
			if t.ImportedTime, err = ParseTime(importedTime.String); err != nil {
				return nil, err
			}
		}
		if t.BuyAmount, err = parseDecimal(buyAmount); err != nil {
			return nil, err
		}
		if t.SellAmount, err = parseDecimal(sellAmount); err != nil {
			return nil, err
		}
		if t.FeeAmount, err = parseDecimal(feeAmount); err != nil {
			return nil, err
		}
		if t.BuyValueUSD, err = parseNullDecimal(buyValue); err != nil {
			return nil, err
		}
		if t.SellValueUSD, err = parseNullDecimal(sellValue); err != nil {
			return nil, err
		}

		trades = append(trades, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trade table: %w", err)
	}
	return trades, nil
}

// CountTrades returns the number of stored trades.
func (s *TradeRepository) CountTrades() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM trade`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count trades: %w", err)
	}
	return count, nil
}
