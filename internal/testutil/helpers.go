package testutil

import (
	"database/sql"
	"testing"

	"github.com/google/uuid"

	"taxlot/internal/cointracking"
	"taxlot/internal/repository"
	"taxlot/internal/secrets"
	"taxlot/internal/service"
)

func NewTestTradeService(t *testing.T, db *sql.DB) *service.TradeService {
	t.Helper()

	tradeRepo := repository.NewTradeRepository(db)

	return service.NewTradeService(
		tradeRepo,
	)
}

func NewTestReportService(t *testing.T, db *sql.DB) *service.ReportService {
	t.Helper()

	tradeRepo := repository.NewTradeRepository(db)
	reportRepo := repository.NewReportRepository(db)

	return service.NewReportService(
		tradeRepo,
		reportRepo,
	)
}

// NewTestSyncService creates a SyncService with a mock CoinTracking client
// and a fresh fernet key, so tests never touch the real API.
func NewTestSyncService(t *testing.T, db *sql.DB, client cointracking.Client) *service.SyncService {
	t.Helper()

	key, err := secrets.GenerateKey()
	if err != nil {
		t.Fatalf("Failed to generate test secret key: %v", err)
	}

	syncRepo := repository.NewSyncRepository(db)
	tradeRepo := repository.NewTradeRepository(db)

	return service.NewSyncService(
		syncRepo,
		tradeRepo,
		client,
		key,
	)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}
