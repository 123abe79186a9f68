package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"taxlot/internal/apperrors"
	"taxlot/internal/model"
)

// ReportRepository provides data access methods for stored tax reports and
// their transactions.
type ReportRepository struct {
	db *sql.DB
}

// NewReportRepository creates a new ReportRepository with the provided database connection.
func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// InsertReport stores a report and its transactions atomically. Transaction
// rows keep their realization order through the position column.
func (s *ReportRepository) InsertReport(report model.Report, transactions []model.ReportTransaction) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO report (id, generated_at, trade_count, transaction_count, total_gain)
		VALUES (?, ?, ?, ?, ?)
	`, report.ID, formatTime(report.GeneratedAt), report.TradeCount, report.TransactionCount, report.TotalGain)
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO report_transaction (
			id, report_id, position,
			amount, currency, basis, proceeds, gain,
			buy_time, sell_time, tax_year, time_held_seconds, is_long,
			buy_exchange, sell_exchange, comment
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range transactions {
		_, err := stmt.Exec(
			t.ID,
			report.ID,
			i,
			t.Amount.String(),
			t.Currency,
			t.Basis.String(),
			t.Proceeds.String(),
			t.Gain.String(),
			formatTime(t.BuyTime),
			formatTime(t.SellTime),
			t.TaxYear,
			int64(t.TimeHeld.Seconds()),
			t.IsLong,
			t.BuyExchange,
			t.SellExchange,
			t.Comment,
		)
		if err != nil {
			return fmt.Errorf("failed to insert report transaction: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit report: %w", err)
	}
	return nil
}

// GetReports retrieves all reports, newest first.
func (s *ReportRepository) GetReports() ([]model.Report, error) {
	rows, err := s.db.Query(`
		SELECT id, generated_at, trade_count, transaction_count, total_gain
		FROM report
		ORDER BY generated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query report table: %w", err)
	}
	defer rows.Close()

	reports := []model.Report{}
	for rows.Next() {
		r, err := scanReport(rows.Scan)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating report table: %w", err)
	}
	return reports, nil
}

// GetReport retrieves a single report by ID. Returns
// apperrors.ErrReportNotFound when the ID is unknown.
func (s *ReportRepository) GetReport(id string) (model.Report, error) {
	row := s.db.QueryRow(`
		SELECT id, generated_at, trade_count, transaction_count, total_gain
		FROM report
		WHERE id = ?
	`, id)

	r, err := scanReport(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Report{}, apperrors.ErrReportNotFound
	}
	return r, err
}

func scanReport(scan func(...any) error) (model.Report, error) {
	var r model.Report
	var generatedAt string
	if err := scan(&r.ID, &generatedAt, &r.TradeCount, &r.TransactionCount, &r.TotalGain); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Report{}, err
		}
		return model.Report{}, fmt.Errorf("failed to scan report: %w", err)
	}
	var err error
	if r.GeneratedAt, err = ParseTime(generatedAt); err != nil {
		return model.Report{}, err
	}
	return r, nil
}

// GetReportTransactions retrieves a report's transactions in realization
// order.
func (s *ReportRepository) GetReportTransactions(reportID string) ([]model.ReportTransaction, error) {
	rows, err := s.db.Query(`
		SELECT id, report_id,
			amount, currency, basis, proceeds, gain,
			buy_time, sell_time, tax_year, time_held_seconds, is_long,
			buy_exchange, sell_exchange, comment
		FROM report_transaction
		WHERE report_id = ?
		ORDER BY position ASC
	`, reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to query report_transaction table: %w", err)
	}
	defer rows.Close()

	transactions := []model.ReportTransaction{}
	for rows.Next() {
		var t model.ReportTransaction
		var amount, basis, proceeds, gain string
		var buyTime, sellTime string
		var heldSeconds int64

		err := rows.Scan(
			&t.ID,
			&t.ReportID,
			&amount,
			&t.Currency,
			&basis,
			&proceeds,
			&gain,
			&buyTime,
			&sellTime,
			&t.TaxYear,
			&heldSeconds,
			&t.IsLong,
			&t.BuyExchange,
			&t.SellExchange,
			&t.Comment,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report_transaction results: %w", err)
		}

		if t.Amount, err = parseDecimal(amount); err != nil {
			return nil, err
		}
		if t.Basis, err = parseDecimal(basis); err != nil {
			return nil, err
		}
		if t.Proceeds, err = parseDecimal(proceeds); err != nil {
			return nil, err
		}
		if t.Gain, err = parseDecimal(gain); err != nil {
			return nil, err
		}
		if t.BuyTime, err = ParseTime(buyTime); err != nil {
			return nil, err
		}
		if t.SellTime, err = ParseTime(sellTime); err != nil {
			return nil, err
		}
		t.TimeHeld = secondsToDuration(heldSeconds)

		transactions = append(transactions, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating report_transaction table: %w", err)
	}
	return transactions, nil
}
