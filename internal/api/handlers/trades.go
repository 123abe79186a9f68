package handlers

import (
	"errors"
	"net/http"

	"taxlot/internal/api/response"
	"taxlot/internal/apperrors"
	"taxlot/internal/service"
)

// TradeHandler handles HTTP requests for trade endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the tradeService.
type TradeHandler struct {
	tradeService *service.TradeService
}

// NewTradeHandler creates a new TradeHandler with the provided service dependency.
func NewTradeHandler(tradeService *service.TradeService) *TradeHandler {
	return &TradeHandler{
		tradeService: tradeService,
	}
}

// ImportTrades handles POST requests to import a CoinTracking trade export.
// The request body is the export file itself; the format query parameter
// selects the parser. Already-known trades are skipped, so re-importing an
// overlapping export is safe.
//
// Endpoint: POST /api/trade/import?format={csv|json}
// Request Body: raw CSV or JSON export
// Response: 200 OK with ImportResult (parsed, imported, skipped counts)
// Error: 400 Bad Request if the format is unknown
// Error: 500 Internal Server Error if parsing or storage fails
func (h *TradeHandler) ImportTrades(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	result, err := h.tradeService.ImportTrades(format, r.Body)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidFormat) {
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidFormat.Error(), err.Error())
			return
		}

		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToImportTrades.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}

// AllTrades handles GET requests to retrieve all stored trades, sorted by
// time ascending.
//
// Endpoint: GET /api/trade
// Response: 200 OK with array of Trade
// Error: 500 Internal Server Error if retrieval fails
func (h *TradeHandler) AllTrades(w http.ResponseWriter, _ *http.Request) {
	trades, err := h.tradeService.GetTrades()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTrades.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, trades)
}
