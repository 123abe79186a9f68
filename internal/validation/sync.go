package validation

import (
	"strings"

	"taxlot/internal/api/request"
)

func ValidateUpdateSyncConfig(req request.UpdateSyncConfigRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.APIKey) == "" {
		errors["apiKey"] = "apiKey must be set"
	}
	if strings.TrimSpace(req.APISecret) == "" {
		errors["apiSecret"] = "apiSecret must be set"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
