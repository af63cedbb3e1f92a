package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"voting-service/internal/models"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db}
}

func (r *SessionRepository) Create(ctx context.Context, session *models.VotingSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

// GetByID returns (nil, nil) when the session does not exist.
func (r *SessionRepository) GetByID(ctx context.Context, id uint) (*models.VotingSession, error) {
	var s models.VotingSession
	err := r.db.WithContext(ctx).First(&s, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SessionRepository) ListByOrganization(ctx context.Context, organizationID string) ([]models.VotingSession, error) {
	var sessions []models.VotingSession
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("created_at DESC").
		Find(&sessions).Error
	return sessions, err
}

// ListOverdue returns active sessions whose scheduled end has passed, for
// the close sweep.
func (r *SessionRepository) ListOverdue(ctx context.Context, now time.Time) ([]models.VotingSession, error) {
	var sessions []models.VotingSession
	err := r.db.WithContext(ctx).
		Where("status = ? AND scheduled_end_time IS NOT NULL AND scheduled_end_time < ?", models.StatusActive, now).
		Find(&sessions).Error
	return sessions, err
}

// UpdateDraft persists organizer edits. The service guarantees the session
// is still in draft.
func (r *SessionRepository) UpdateDraft(ctx context.Context, session *models.VotingSession) error {
	return r.db.WithContext(ctx).Save(session).Error
}

// DeleteDraft removes a draft session with its options and roster. Closed
// or active sessions are history and are never deleted.
func (r *SessionRepository) DeleteDraft(ctx context.Context, sessionID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", sessionID).Delete(&models.VotingOption{}).Error; err != nil {
			return err
		}
		if err := tx.Where("session_id = ?", sessionID).Delete(&models.VoterEligibility{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.VotingSession{}, sessionID).Error
	})
}

// Transition applies a lifecycle change and appends its ledger entry in one
// transaction. The row lock on the session serializes this against
// concurrent casts touching the same chain tail.
func (r *SessionRepository) Transition(
	ctx context.Context,
	sessionID uint,
	apply func(s *models.VotingSession) error,
	buildEntry func(prev *models.AuditLogEntry) (*models.AuditLogEntry, error),
) (*models.VotingSession, error) {
	var out *models.VotingSession
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var s models.VotingSession
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&s, sessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrSessionNotFound
			}
			return err
		}
		if err := apply(&s); err != nil {
			return err
		}
		if err := tx.Save(&s).Error; err != nil {
			return err
		}

		prev, err := latestEntry(tx, sessionID)
		if err != nil {
			return err
		}
		entry, err := buildEntry(prev)
		if err != nil {
			return err
		}
		if err := tx.Create(entry).Error; err != nil {
			return err
		}
		out = &s
		return nil
	})
	return out, err
}

func latestEntry(tx *gorm.DB, sessionID uint) (*models.AuditLogEntry, error) {
	var prev models.AuditLogEntry
	err := tx.Where("session_id = ?", sessionID).Order("id DESC").First(&prev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &prev, nil
}
