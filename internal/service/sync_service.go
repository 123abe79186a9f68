package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"taxlot/internal/apperrors"
	"taxlot/internal/cointracking"
	"taxlot/internal/model"
	"taxlot/internal/repository"
	"taxlot/internal/secrets"
)

// SyncService fetches trades from the CoinTracking API and stores them. The
// API secret is kept fernet-encrypted in the database and only decrypted for
// the duration of a request.
type SyncService struct {
	syncRepo  *repository.SyncRepository
	tradeRepo *repository.TradeRepository
	client    cointracking.Client
	secretKey string
}

// NewSyncService creates a new SyncService. secretKey is the fernet key used
// to encrypt credentials at rest.
func NewSyncService(syncRepo *repository.SyncRepository, tradeRepo *repository.TradeRepository, client cointracking.Client, secretKey string) *SyncService {
	return &SyncService{
		syncRepo:  syncRepo,
		tradeRepo: tradeRepo,
		client:    client,
		secretKey: secretKey,
	}
}

// GetConfig returns the stored sync configuration. The API secret never
// leaves the service.
func (s *SyncService) GetConfig() (model.SyncConfig, error) {
	config, err := s.syncRepo.GetConfig()
	if err != nil {
		if errors.Is(err, apperrors.ErrSyncConfigNotFound) {
			return model.SyncConfig{}, err
		}
		return model.SyncConfig{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToRetrieveSyncConfig, err)
	}
	return config, nil
}

// UpdateConfig stores new API credentials, replacing any previous ones.
func (s *SyncService) UpdateConfig(apiKey, apiSecret string, autoSyncEnabled bool) (model.SyncConfig, error) {
	if s.secretKey == "" {
		return model.SyncConfig{}, fmt.Errorf("%w: no secret key configured", apperrors.ErrFailedToUpdateSyncConfig)
	}
	if apiKey == "" || apiSecret == "" {
		return model.SyncConfig{}, fmt.Errorf("%w: api key and secret", apperrors.ErrMissingRequiredField)
	}

	encrypted, err := secrets.Encrypt(s.secretKey, apiSecret)
	if err != nil {
		return model.SyncConfig{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToUpdateSyncConfig, err)
	}

	config, err := s.syncRepo.UpsertConfig(apiKey, encrypted, autoSyncEnabled)
	if err != nil {
		return model.SyncConfig{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToUpdateSyncConfig, err)
	}
	return config, nil
}

// Sync fetches the full trade list from CoinTracking and stores any records
// not yet present.
func (s *SyncService) Sync(ctx context.Context) (model.SyncResult, error) {
	config, err := s.syncRepo.GetConfig()
	if errors.Is(err, apperrors.ErrSyncConfigNotFound) {
		return model.SyncResult{}, apperrors.ErrSyncNotConfigured
	}
	if err != nil {
		return model.SyncResult{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToSync, err)
	}

	apiSecret, err := secrets.Decrypt(s.secretKey, config.APISecret)
	if err != nil {
		return model.SyncResult{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToSync, err)
	}

	trades, err := s.client.GetTrades(ctx, config.APIKey, apiSecret)
	if err != nil {
		return model.SyncResult{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToSync, err)
	}

	inserted, err := s.tradeRepo.InsertTrades(trades)
	if err != nil {
		return model.SyncResult{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToSync, err)
	}

	now := time.Now().UTC()
	if err := s.syncRepo.SetLastSync(config.ID, now); err != nil {
		return model.SyncResult{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToSync, err)
	}

	return model.SyncResult{
		Fetched:  len(trades),
		Imported: inserted,
		Skipped:  len(trades) - inserted,
		SyncedAt: now,
	}, nil
}

// RunScheduled is the cron entry point: it syncs only when a configuration
// exists and auto-sync is enabled, and logs instead of failing.
func (s *SyncService) RunScheduled(ctx context.Context) {
	config, err := s.syncRepo.GetConfig()
	if errors.Is(err, apperrors.ErrSyncConfigNotFound) {
		return
	}
	if err != nil {
		log.Printf("sync: reading config: %v", err)
		return
	}
	if !config.AutoSyncEnabled {
		return
	}

	result, err := s.Sync(ctx)
	if err != nil {
		log.Printf("sync: scheduled run failed: %v", err)
		return
	}
	log.Printf("sync: fetched %d trades, imported %d new", result.Fetched, result.Imported)
}
