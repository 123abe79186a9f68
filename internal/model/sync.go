package model

import "time"

// SyncConfig holds the CoinTracking API credentials and scheduling state for
// remote trade sync. APISecret is stored fernet-encrypted; it is never
// returned by the API.
type SyncConfig struct {
	ID              string     `json:"id"`
	APIKey          string     `json:"apiKey"`
	APISecret       string     `json:"-"`
	AutoSyncEnabled bool       `json:"autoSyncEnabled"`
	LastSyncAt      *time.Time `json:"lastSyncAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt,omitempty"`
	UpdatedAt       time.Time  `json:"updatedAt,omitempty"`
}

// SyncResult summarizes one sync run.
type SyncResult struct {
	Fetched  int       `json:"fetched"`
	Imported int       `json:"imported"`
	Skipped  int       `json:"skipped"`
	SyncedAt time.Time `json:"syncedAt"`
}
