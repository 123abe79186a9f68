package handlers

import (
	"errors"
	"net/http"

	"taxlot/internal/api/request"
	"taxlot/internal/api/response"
	"taxlot/internal/apperrors"
	"taxlot/internal/service"
	"taxlot/internal/validation"
)

// SyncHandler handles HTTP requests for CoinTracking sync endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the syncService.
type SyncHandler struct {
	syncService *service.SyncService
}

// NewSyncHandler creates a new SyncHandler with the provided service dependency.
func NewSyncHandler(syncService *service.SyncService) *SyncHandler {
	return &SyncHandler{
		syncService: syncService,
	}
}

// GetConfig handles GET requests to retrieve the sync configuration.
// The API secret is never included in the response.
//
// Endpoint: GET /api/sync/config
// Response: 200 OK with SyncConfig
// Error: 404 Not Found if sync has not been configured
// Error: 500 Internal Server Error if retrieval fails
func (h *SyncHandler) GetConfig(w http.ResponseWriter, _ *http.Request) {
	config, err := h.syncService.GetConfig()
	if err != nil {
		if errors.Is(err, apperrors.ErrSyncConfigNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrSyncConfigNotFound.Error(), err.Error())
			return
		}

		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveSyncConfig.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, config)
}

// UpdateConfig handles PUT requests to store CoinTracking API credentials.
// The secret is encrypted before it is written to the database.
//
// Endpoint: PUT /api/sync/config
// Request Body: UpdateSyncConfigRequest
// Response: 200 OK with the stored SyncConfig
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if storage fails
func (h *SyncHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.UpdateSyncConfigRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateSyncConfig(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	config, err := h.syncService.UpdateConfig(req.APIKey, req.APISecret, req.AutoSyncEnabled)
	if err != nil {
		if errors.Is(err, apperrors.ErrMissingRequiredField) {
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrMissingRequiredField.Error(), err.Error())
			return
		}

		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToUpdateSyncConfig.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, config)
}

// Run handles POST requests to fetch trades from the CoinTracking API now.
// Already-known trades are skipped.
//
// Endpoint: POST /api/sync/run
// Response: 200 OK with SyncResult
// Error: 400 Bad Request if sync has not been configured
// Error: 500 Internal Server Error if the fetch or import fails
func (h *SyncHandler) Run(w http.ResponseWriter, r *http.Request) {
	result, err := h.syncService.Sync(r.Context())
	if err != nil {
		if errors.Is(err, apperrors.ErrSyncNotConfigured) {
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrSyncNotConfigured.Error(), err.Error())
			return
		}

		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToSync.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}
