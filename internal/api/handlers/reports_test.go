package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"taxlot/internal/model"
	"taxlot/internal/testutil"
)

func setupReportHandler(t *testing.T) (*ReportHandler, *sql.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	rs := testutil.NewTestReportService(t, db)
	return NewReportHandler(rs), db
}

// seedGain stores a buy and a later sale so a generated report has one
// realized transaction with a 2000 USD gain.
func seedGain(t *testing.T, db *sql.DB) {
	t.Helper()
	testutil.NewTrade().
		WithTime(time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)).
		Build(t, db)
	testutil.NewTrade().
		WithTime(time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC)).
		WithBuy("USD", "3000").
		WithSell("BTC", "1").
		Build(t, db)
}

func TestReportHandler_GenerateReport(t *testing.T) {
	t.Run("generates and persists a report", func(t *testing.T) {
		handler, db := setupReportHandler(t)
		seedGain(t, db)

		req := httptest.NewRequest(http.MethodPost, "/api/report", nil)
		w := httptest.NewRecorder()

		handler.GenerateReport(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var report model.Report
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&report)

		if report.TransactionCount != 1 || report.TotalGain != "2000" {
			t.Errorf("report = %+v, want 1 transaction with gain 2000", report)
		}
		testutil.AssertRowCount(t, db, "report", 1)
	})

	t.Run("returns 500 when the engine fails", func(t *testing.T) {
		handler, db := setupReportHandler(t)

		// crypto-to-crypto with only a buy-side valuation: basis unresolvable
		testutil.NewTrade().
			WithBuy("ETH", "10").
			WithSell("BTC", "1").
			WithBuyValueUSD("1500").
			Build(t, db)

		req := httptest.NewRequest(http.MethodPost, "/api/report", nil)
		w := httptest.NewRecorder()

		handler.GenerateReport(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Errorf("Expected 500, got %d: %s", w.Code, w.Body.String())
		}
		testutil.AssertRowCount(t, db, "report", 0)
	})
}

func TestReportHandler_GetReport(t *testing.T) {
	handler, db := setupReportHandler(t)
	seedGain(t, db)

	w := httptest.NewRecorder()
	handler.GenerateReport(w, httptest.NewRequest(http.MethodPost, "/api/report", nil))
	var report model.Report
	//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
	json.NewDecoder(w.Body).Decode(&report)

	t.Run("returns report with transactions", func(t *testing.T) {
		req := testutil.NewRequestWithURLParams(
			http.MethodGet,
			"/api/report/"+report.ID,
			map[string]string{"uuid": report.ID},
		)
		w := httptest.NewRecorder()

		handler.GetReport(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var detail ReportDetailResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&detail)

		if detail.Report.ID != report.ID {
			t.Errorf("report id = %q, want %q", detail.Report.ID, report.ID)
		}
		if len(detail.Transactions) != 1 {
			t.Errorf("got %d transactions, want 1", len(detail.Transactions))
		}
	})

	t.Run("returns 404 for unknown report", func(t *testing.T) {
		id := testutil.MakeID()
		req := testutil.NewRequestWithURLParams(
			http.MethodGet,
			"/api/report/"+id,
			map[string]string{"uuid": id},
		)
		w := httptest.NewRecorder()

		handler.GetReport(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestReportHandler_AllReports(t *testing.T) {
	handler, db := setupReportHandler(t)
	seedGain(t, db)

	handler.GenerateReport(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/report", nil))

	req := httptest.NewRequest(http.MethodGet, "/api/report", nil)
	w := httptest.NewRecorder()

	handler.AllReports(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var reports []model.Report
	//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
	json.NewDecoder(w.Body).Decode(&reports)

	if len(reports) != 1 {
		t.Errorf("got %d reports, want 1", len(reports))
	}
}

func TestReportHandler_ExportReport(t *testing.T) {
	handler, db := setupReportHandler(t)
	seedGain(t, db)

	w := httptest.NewRecorder()
	handler.GenerateReport(w, httptest.NewRequest(http.MethodPost, "/api/report", nil))
	var report model.Report
	//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
	json.NewDecoder(w.Body).Decode(&report)

	t.Run("exports csv attachment", func(t *testing.T) {
		req := testutil.NewRequestWithURLParams(
			http.MethodGet,
			"/api/report/"+report.ID+"/export?format=csv",
			map[string]string{"uuid": report.ID},
		)
		w := httptest.NewRecorder()

		handler.ExportReport(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if ct := w.Header().Get("Content-Type"); ct != "text/csv" {
			t.Errorf("Content-Type = %q, want text/csv", ct)
		}
		if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, report.ID) {
			t.Errorf("Content-Disposition = %q, want filename with report ID", cd)
		}
		if !strings.HasPrefix(w.Body.String(), "amount,currency,basis,") {
			t.Errorf("csv export missing header: %q", w.Body.String())
		}
	})

	t.Run("exports json attachment", func(t *testing.T) {
		req := testutil.NewRequestWithURLParams(
			http.MethodGet,
			"/api/report/"+report.ID+"/export?format=json",
			map[string]string{"uuid": report.ID},
		)
		w := httptest.NewRecorder()

		handler.ExportReport(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if ct := w.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		if !strings.Contains(w.Body.String(), `"gain": "2000"`) {
			t.Errorf("json export missing gain: %q", w.Body.String())
		}
	})

	t.Run("returns 400 for unknown format", func(t *testing.T) {
		req := testutil.NewRequestWithURLParams(
			http.MethodGet,
			"/api/report/"+report.ID+"/export?format=xlsx",
			map[string]string{"uuid": report.ID},
		)
		w := httptest.NewRecorder()

		handler.ExportReport(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 404 for unknown report", func(t *testing.T) {
		id := testutil.MakeID()
		req := testutil.NewRequestWithURLParams(
			http.MethodGet,
			"/api/report/"+id+"/export?format=csv",
			map[string]string{"uuid": id},
		)
		w := httptest.NewRecorder()

		handler.ExportReport(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})
}
