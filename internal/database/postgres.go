package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"voting-service/internal/models"
)

// NewPostgresConnection opens the gorm connection, runs migrations and
// installs the immutability guard on ledger-class tables. onViolation is
// invoked when application code attempts a forbidden write; nil is allowed.
func NewPostgresConnection(dburi string, onViolation ViolationHook) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dburi), &gorm.Config{
		SkipDefaultTransaction: true,
		AllowGlobalUpdate:      false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := Migrate(db); err != nil {
		return nil, err
	}
	RegisterImmutabilityGuard(db, onViolation)

	return db, nil
}

// Migrate runs schema migrations and installs the storage-level triggers.
func Migrate(db *gorm.DB) error {
	modelsToMigrate := []interface{}{
		&models.VotingSession{},
		&models.VotingOption{},
		&models.VoterEligibility{},
		&models.Vote{},
		&models.AuditLogEntry{},
	}
	for _, model := range modelsToMigrate {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model: %w", err)
		}
	}
	if err := addIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}
	if err := InstallImmutabilityTriggers(db); err != nil {
		return fmt.Errorf("failed to install immutability triggers: %w", err)
	}
	return nil
}

func addIndexes(db *gorm.DB) error {
	stmts := []string{
		// one ballot per voter per session unless the session or the
		// voter's eligibility allows multiples; enforced in the casting
		// transaction, backed here for lookup speed
		"CREATE INDEX IF NOT EXISTS idx_votes_session_voter ON votes (session_id, voter_id)",
		"CREATE INDEX IF NOT EXISTS idx_votes_session_ip ON votes (session_id, ip_address) WHERE is_anonymous",
		"CREATE INDEX IF NOT EXISTS idx_audit_session_order ON audit_log_entries (session_id, id)",
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
