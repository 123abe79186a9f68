package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"taxlot/internal/apperrors"
	"taxlot/internal/model"
)

// SyncRepository provides data access methods for the sync_config table,
// which holds at most one row: the account's CoinTracking credentials and
// sync state.
type SyncRepository struct {
	db *sql.DB
}

// NewSyncRepository creates a new SyncRepository with the provided database connection.
func NewSyncRepository(db *sql.DB) *SyncRepository {
	return &SyncRepository{db: db}
}

// GetConfig retrieves the sync configuration. Returns
// apperrors.ErrSyncConfigNotFound when none has been stored yet.
func (s *SyncRepository) GetConfig() (model.SyncConfig, error) {
	row := s.db.QueryRow(`
		SELECT id, api_key, api_secret, auto_sync_enabled, last_sync_at, created_at, updated_at
		FROM sync_config
		LIMIT 1
	`)

	var c model.SyncConfig
	var lastSync sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&c.ID, &c.APIKey, &c.APISecret, &c.AutoSyncEnabled, &lastSync, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.SyncConfig{}, apperrors.ErrSyncConfigNotFound
	}
	if err != nil {
		return model.SyncConfig{}, fmt.Errorf("failed to scan sync_config: %w", err)
	}

	if lastSync.Valid {
		t, err := ParseTime(lastSync.String)
		if err != nil {
			return model.SyncConfig{}, err
		}
		c.LastSyncAt = &t
	}
	if c.CreatedAt, err = ParseTime(createdAt); err != nil {
		return model.SyncConfig{}, err
	}
	if c.UpdatedAt, err = ParseTime(updatedAt); err != nil {
		return model.SyncConfig{}, err
	}
	return c, nil
}

// UpsertConfig stores the credentials and auto-sync flag, replacing any
// previous configuration.
func (s *SyncRepository) UpsertConfig(apiKey, encryptedSecret string, autoSyncEnabled bool) (model.SyncConfig, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return model.SyncConfig{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM sync_config`); err != nil {
		return model.SyncConfig{}, fmt.Errorf("failed to clear sync_config: %w", err)
	}

	now := formatTime(time.Now())
	id := uuid.New().String()
	_, err = tx.Exec(`
		INSERT INTO sync_config (id, api_key, api_secret, auto_sync_enabled, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, apiKey, encryptedSecret, autoSyncEnabled, now, now)
	if err != nil {
		return model.SyncConfig{}, fmt.Errorf("failed to insert sync_config: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return model.SyncConfig{}, fmt.Errorf("failed to commit sync_config: %w", err)
	}
	return s.GetConfig()
}

// SetLastSync records a completed sync run.
func (s *SyncRepository) SetLastSync(id string, at time.Time) error {
	_, err := s.db.Exec(`
		UPDATE sync_config SET last_sync_at = ?, updated_at = ? WHERE id = ?
	`, formatTime(at), formatTime(time.Now()), id)
	if err != nil {
		return fmt.Errorf("failed to update last sync time: %w", err)
	}
	return nil
}
