package service

import (
	"database/sql"
	"fmt"

	"taxlot/internal/database"
	"taxlot/internal/model"
	"taxlot/internal/version"
)

// SystemService handles system-related operations
type SystemService struct {
	db *sql.DB
}

// NewSystemService creates a new SystemService
func NewSystemService(db *sql.DB) *SystemService {
	return &SystemService{
		db: db,
	}
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth() error {
	return database.HealthCheck(s.db)
}

// CheckVersion returns the application version and the database schema
// version.
func (s *SystemService) CheckVersion() (model.VersionInfo, error) {
	dbVersion, err := database.SchemaVersion(s.db)
	if err != nil {
		return model.VersionInfo{}, fmt.Errorf("failed to read schema version: %w", err)
	}
	return model.VersionInfo{
		AppVersion: version.Version,
		DbVersion:  dbVersion,
	}, nil
}
