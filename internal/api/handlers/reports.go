package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"taxlot/internal/api/response"
	"taxlot/internal/apperrors"
	"taxlot/internal/model"
	"taxlot/internal/service"
)

// ReportHandler handles HTTP requests for capital gains report endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the reportService.
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new ReportHandler with the provided service dependency.
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// ReportDetailResponse bundles a report with its realized transactions.
type ReportDetailResponse struct {
	Report       model.Report              `json:"report"`
	Transactions []model.ReportTransaction `json:"transactions"`
}

// GenerateReport handles POST requests to run the tax lot engine over all
// stored trades and persist the resulting capital gains report.
//
// Endpoint: POST /api/report
// Response: 201 Created with Report
// Error: 500 Internal Server Error if the engine fails or storage fails
func (h *ReportHandler) GenerateReport(w http.ResponseWriter, _ *http.Request) {
	report, err := h.reportService.GenerateReport()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToGenerateReport.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, report)
}

// AllReports handles GET requests to list all generated reports, newest first.
//
// Endpoint: GET /api/report
// Response: 200 OK with array of Report
// Error: 500 Internal Server Error if retrieval fails
func (h *ReportHandler) AllReports(w http.ResponseWriter, _ *http.Request) {
	reports, err := h.reportService.GetReports()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveReports.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, reports)
}

// GetReport handles GET requests to retrieve a single report and its
// transactions by ID.
//
// Endpoint: GET /api/report/{uuid}
// Response: 200 OK with ReportDetailResponse
// Error: 400 Bad Request if the report ID is invalid (validated by middleware)
// Error: 404 Not Found if the report does not exist
// Error: 500 Internal Server Error if retrieval fails
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "uuid")

	report, transactions, err := h.reportService.GetReport(reportID)
	if err != nil {
		if errors.Is(err, apperrors.ErrReportNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrReportNotFound.Error(), err.Error())
			return
		}

		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveReport.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, ReportDetailResponse{
		Report:       report,
		Transactions: transactions,
	})
}

// ExportReport handles GET requests to download a report as a file.
// The format query parameter selects CSV or JSON output.
//
// Endpoint: GET /api/report/{uuid}/export?format={csv|json}
// Response: 200 OK with the report file as attachment
// Error: 400 Bad Request if the report ID or format is invalid
// Error: 404 Not Found if the report does not exist
// Error: 500 Internal Server Error if retrieval fails
func (h *ReportHandler) ExportReport(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "uuid")

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	contentType := "text/csv"
	if format == "json" {
		contentType = "application/json"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=report-%s.%s", reportID, format))

	if err := h.reportService.ExportReport(reportID, format, w); err != nil {
		w.Header().Del("Content-Disposition")
		if errors.Is(err, apperrors.ErrReportNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrReportNotFound.Error(), err.Error())
			return
		}
		if errors.Is(err, apperrors.ErrInvalidFormat) {
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidFormat.Error(), err.Error())
			return
		}

		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveReport.Error(), err.Error())
		return
	}
}
