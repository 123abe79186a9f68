package service

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"taxlot/internal/apperrors"
	"taxlot/internal/model"
	taxreport "taxlot/internal/report"
	"taxlot/internal/repository"
	"taxlot/internal/taxlot"
)

// ReportService runs the tax engine over the stored trades and manages the
// resulting reports.
type ReportService struct {
	tradeRepo  *repository.TradeRepository
	reportRepo *repository.ReportRepository
}

// NewReportService creates a new ReportService
func NewReportService(tradeRepo *repository.TradeRepository, reportRepo *repository.ReportRepository) *ReportService {
	return &ReportService{
		tradeRepo:  tradeRepo,
		reportRepo: reportRepo,
	}
}

// GenerateReport loads all trades, replays them through a fresh processor,
// and stores the realized transactions as a new report. An accounting error
// (unresolvable basis, overdrawn lot, mismatched transfer) aborts the run
// and nothing is stored.
func (s *ReportService) GenerateReport() (model.Report, error) {
	trades, err := s.tradeRepo.GetTrades()
	if err != nil {
		return model.Report{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToRetrieveTrades, err)
	}

	processor := taxlot.NewProcessor()
	transactions, err := processor.Process(trades)
	if err != nil {
		return model.Report{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToGenerateReport, err)
	}

	report := model.Report{
		ID:               uuid.New().String(),
		GeneratedAt:      time.Now().UTC(),
		TradeCount:       len(trades),
		TransactionCount: len(transactions),
	}

	totalGain := decimal.Zero
	rows := make([]model.ReportTransaction, 0, len(transactions))
	for _, tx := range transactions {
		row := model.NewReportTransaction(tx)
		row.ID = uuid.New().String()
		row.ReportID = report.ID
		totalGain = totalGain.Add(row.Gain)
		rows = append(rows, row)
	}
	report.TotalGain = totalGain.String()

	if err := s.reportRepo.InsertReport(report, rows); err != nil {
		return model.Report{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToGenerateReport, err)
	}
	return report, nil
}

// GetReports returns all stored reports, newest first.
func (s *ReportService) GetReports() ([]model.Report, error) {
	reports, err := s.reportRepo.GetReports()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFailedToRetrieveReports, err)
	}
	return reports, nil
}

// GetReport returns a stored report and its transactions in realization
// order.
func (s *ReportService) GetReport(id string) (model.Report, []model.ReportTransaction, error) {
	report, err := s.reportRepo.GetReport(id)
	if err != nil {
		return model.Report{}, nil, err
	}
	transactions, err := s.reportRepo.GetReportTransactions(id)
	if err != nil {
		return model.Report{}, nil, fmt.Errorf("%w: %v", apperrors.ErrFailedToRetrieveReport, err)
	}
	return report, transactions, nil
}

// ExportReport writes a stored report to w as "csv" or "json".
func (s *ReportService) ExportReport(id, format string, w io.Writer) error {
	_, transactions, err := s.GetReport(id)
	if err != nil {
		return err
	}

	switch format {
	case "csv":
		return taxreport.WriteCSV(w, transactions)
	case "json":
		return taxreport.WriteJSON(w, transactions)
	default:
		return fmt.Errorf("%w: %q", apperrors.ErrInvalidFormat, format)
	}
}
