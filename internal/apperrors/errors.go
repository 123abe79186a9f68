package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrReportNotFound indicates that a report with the given ID does not exist.
	ErrReportNotFound = errors.New("report not found")

	// ErrSyncConfigNotFound indicates sync configuration has not been set up.
	ErrSyncConfigNotFound = errors.New("sync configuration not found")
)

// Accounting errors abort a report run. A report computed past any of these
// would be wrong, so no partial result is ever returned.
var (
	// ErrBasisUnresolvable indicates that no rule could determine the USD
	// cost basis of a trade.
	ErrBasisUnresolvable = errors.New("cannot determine basis")

	// ErrLotOverdrawn indicates that more units were removed from a lot than
	// it held, which means the ledger bookkeeping is corrupt.
	ErrLotOverdrawn = errors.New("lot overdrawn")

	// ErrTransferMismatch indicates a withdrawal/deposit pair with different
	// currencies.
	ErrTransferMismatch = errors.New("transfer currency mismatch")
)

// Business logic errors represent validation failures or constraint violations.
var (
	// ErrInvalidFormat indicates an unsupported import or export format.
	ErrInvalidFormat = errors.New("unsupported format")

	// ErrSyncNotConfigured indicates a sync run was requested before API
	// credentials were stored.
	ErrSyncNotConfigured = errors.New("sync credentials not configured")

	// ErrMissingRequiredField indicates that a required field is missing or empty.
	ErrMissingRequiredField = errors.New("missing required field")
)

// Import errors represent malformed export payloads.
var (
	// ErrInvalidCSVHeaders indicates a CSV payload whose header row matches
	// no known export layout.
	ErrInvalidCSVHeaders = errors.New("invalid CSV headers")

	// ErrUnmatchedTrade indicates a record in a combine operation that has no
	// counterpart in the base export.
	ErrUnmatchedTrade = errors.New("trade not present in base export")
)

// Operation failure errors represent system-level failures when retrieving or
// processing data.
var (
	ErrFailedToRetrieveTrades     = errors.New("failed to retrieve trades")
	ErrFailedToImportTrades       = errors.New("failed to import trades")
	ErrFailedToRetrieveReports    = errors.New("failed to retrieve reports")
	ErrFailedToRetrieveReport     = errors.New("failed to retrieve report")
	ErrFailedToGenerateReport     = errors.New("failed to generate report")
	ErrFailedToRetrieveSyncConfig = errors.New("failed to retrieve sync config")
	ErrFailedToUpdateSyncConfig   = errors.New("failed to update sync config")
	ErrFailedToSync               = errors.New("failed to sync trades")
	ErrFailedToGetVersionInfo     = errors.New("failed to get version information")
)
