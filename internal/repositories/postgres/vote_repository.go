package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"voting-service/internal/models"
)

type VoteRepository struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) *VoteRepository {
	return &VoteRepository{db}
}

// CastVote inserts the vote and its chained audit entry as one atomic unit.
//
// The SELECT ... FOR UPDATE on the session row is the serialization point
// for the whole subsystem: two concurrent casts for the same session cannot
// both read the same chain tail, so the chain can never fork. The
// effectively-closed and duplicate checks are repeated here, inside the
// lock, so the check-then-write race is closed as well.
func (r *VoteRepository) CastVote(
	ctx context.Context,
	vote *models.Vote,
	allowMultiple bool,
	buildEntry func(prev *models.AuditLogEntry) (*models.AuditLogEntry, error),
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var s models.VotingSession
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&s, vote.SessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrSessionNotFound
			}
			return err
		}
		if s.EffectiveStatus(time.Now()) != models.StatusActive {
			return models.ErrSessionNotActive
		}

		if !allowMultiple {
			dup, err := hasExistingVote(tx, vote)
			if err != nil {
				return err
			}
			if dup {
				return models.ErrDuplicateVote
			}
		}

		if err := tx.Create(vote).Error; err != nil {
			return fmt.Errorf("failed to record vote: %w", err)
		}

		prev, err := latestEntry(tx, vote.SessionID)
		if err != nil {
			return err
		}
		entry, err := buildEntry(prev)
		if err != nil {
			return err
		}
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to append audit entry: %w", err)
		}
		return nil
	})
}

func hasExistingVote(tx *gorm.DB, vote *models.Vote) (bool, error) {
	q := tx.Model(&models.Vote{}).Where("session_id = ?", vote.SessionID)
	if vote.VoterID != nil {
		q = q.Where("voter_id = ?", *vote.VoterID)
	} else {
		// anonymous ballots fall back to the client address as the
		// duplicate key
		q = q.Where("is_anonymous AND ip_address = ?", vote.IPAddress)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetByReceipt returns (nil, nil) when no vote carries the receipt.
func (r *VoteRepository) GetByReceipt(ctx context.Context, receiptID string) (*models.Vote, error) {
	var v models.Vote
	err := r.db.WithContext(ctx).Where("receipt_id = ?", receiptID).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VoteRepository) HasVoted(ctx context.Context, sessionID uint, voterID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Vote{}).
		Where("session_id = ? AND voter_id = ?", sessionID, voterID).
		Count(&count).Error
	return count > 0, err
}

// CountsByOption returns vote counts grouped by option. Options without
// votes are absent; the tabulation service zero-fills them.
func (r *VoteRepository) CountsByOption(ctx context.Context, sessionID uint) (map[uint]int64, error) {
	type row struct {
		OptionID uint
		Count    int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&models.Vote{}).
		Select("option_id, COUNT(*) as count").
		Where("session_id = ?", sessionID).
		Group("option_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.OptionID] = r.Count
	}
	return counts, nil
}

func (r *VoteRepository) TotalVotes(ctx context.Context, sessionID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Vote{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error
	return count, err
}

// UniqueVoterCount counts distinct casting identities: voter IDs for
// authenticated ballots, client addresses for anonymous ones.
func (r *VoteRepository) UniqueVoterCount(ctx context.Context, sessionID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Vote{}).
		Where("session_id = ?", sessionID).
		Select("COUNT(DISTINCT COALESCE(voter_id, ip_address))").
		Scan(&count).Error
	return count, err
}
