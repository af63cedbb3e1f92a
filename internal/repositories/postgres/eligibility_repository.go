package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"voting-service/internal/models"
)

type EligibilityRepository struct {
	db *gorm.DB
}

func NewEligibilityRepository(db *gorm.DB) *EligibilityRepository {
	return &EligibilityRepository{db}
}

// Upsert adds or refreshes a roster entry for (session, voter).
func (r *EligibilityRepository) Upsert(ctx context.Context, e *models.VoterEligibility) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}, {Name: "voter_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"allow_multiple", "updated_at"}),
	}).Create(e).Error
}

// Get returns (nil, nil) when the voter is not on the roster.
func (r *EligibilityRepository) Get(ctx context.Context, sessionID uint, voterID string) (*models.VoterEligibility, error) {
	var e models.VoterEligibility
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND voter_id = ?", sessionID, voterID).
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EligibilityRepository) ListBySession(ctx context.Context, sessionID uint) ([]models.VoterEligibility, error) {
	var roster []models.VoterEligibility
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("id ASC").
		Find(&roster).Error
	return roster, err
}
