package request

// UpdateSyncConfigRequest represents the request body for configuring the
// CoinTracking API sync. The secret is accepted on write but never echoed
// back in responses.
type UpdateSyncConfigRequest struct {
	APIKey          string `json:"apiKey"`
	APISecret       string `json:"apiSecret"`
	AutoSyncEnabled bool   `json:"autoSyncEnabled"`
}
