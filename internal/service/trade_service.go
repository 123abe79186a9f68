package service

import (
	"fmt"
	"io"

	"taxlot/internal/apperrors"
	"taxlot/internal/importer"
	"taxlot/internal/model"
	"taxlot/internal/repository"
)

// TradeService handles importing and listing trade records.
type TradeService struct {
	tradeRepo *repository.TradeRepository
}

// NewTradeService creates a new TradeService
func NewTradeService(tradeRepo *repository.TradeRepository) *TradeService {
	return &TradeService{
		tradeRepo: tradeRepo,
	}
}

// ImportTrades parses an export payload in the given format ("csv" or
// "json") and stores the trades. Records already present are skipped, so
// overlapping exports can be imported repeatedly.
func (s *TradeService) ImportTrades(format string, r io.Reader) (model.ImportResult, error) {
	var trades []model.Trade
	var err error

	switch format {
	case "csv":
		trades, err = importer.ReadCSV(r)
	case "json":
		trades, err = importer.ReadJSON(r)
	default:
		return model.ImportResult{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidFormat, format)
	}
	if err != nil {
		return model.ImportResult{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToImportTrades, err)
	}

	inserted, err := s.tradeRepo.InsertTrades(trades)
	if err != nil {
		return model.ImportResult{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToImportTrades, err)
	}

	return model.ImportResult{
		Parsed:   len(trades),
		Imported: inserted,
		Skipped:  len(trades) - inserted,
	}, nil
}

// GetTrades returns all stored trades sorted ascending by time.
func (s *TradeService) GetTrades() ([]model.Trade, error) {
	trades, err := s.tradeRepo.GetTrades()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFailedToRetrieveTrades, err)
	}
	return trades, nil
}
