package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"voting-service/internal/models"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db}
}

// ListBySession returns a session's entries in creation order, which is the
// chain order.
func (r *AuditRepository) ListBySession(ctx context.Context, sessionID uint) ([]models.AuditLogEntry, error) {
	var entries []models.AuditLogEntry
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("id ASC").
		Find(&entries).Error
	return entries, err
}

// GetByReceipt returns (nil, nil) when no entry carries the receipt.
func (r *AuditRepository) GetByReceipt(ctx context.Context, receiptID string) (*models.AuditLogEntry, error) {
	var e models.AuditLogEntry
	err := r.db.WithContext(ctx).Where("receipt_id = ?", receiptID).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}
