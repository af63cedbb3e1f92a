package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"voting-service/internal/ledger"
	"voting-service/internal/models"
	"voting-service/pkg/votecode"
)

// CastingService records ballots. The preconditions run in a fixed order so
// each failure mode is distinct; the write itself is a single transaction
// in the vote store, which re-checks the racy conditions under the session
// row lock.
type CastingService struct {
	sessions    SessionStore
	options     OptionStore
	eligibility EligibilityStore
	votes       VoteStore
	signer      *ledger.Signer
}

func NewCastingService(
	sessions SessionStore,
	options OptionStore,
	eligibility EligibilityStore,
	votes VoteStore,
	signer *ledger.Signer,
) *CastingService {
	return &CastingService{
		sessions:    sessions,
		options:     options,
		eligibility: eligibility,
		votes:       votes,
		signer:      signer,
	}
}

// Cast validates eligibility and duplication, writes the vote with its
// chained audit entry, and returns the voter's receipt. The verification
// code in the receipt is shown exactly once.
func (s *CastingService) Cast(ctx context.Context, actor models.ActorContext, sessionID uint, req models.CastVoteRequest, clientIP string) (*models.Receipt, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, models.ErrSessionNotFound
	}
	if session.EffectiveStatus(time.Now()) != models.StatusActive {
		return nil, models.ErrSessionNotActive
	}

	option, err := s.options.GetByID(ctx, req.OptionID)
	if err != nil {
		return nil, err
	}
	if option == nil || option.SessionID != session.ID {
		return nil, models.ErrInvalidOption
	}

	if !actor.IsAuthenticated() {
		if session.RequireAuthentication || !session.AllowAnonymous {
			return nil, models.ErrAuthRequired
		}
	}

	allowMultiple := session.AllowMultipleVotes
	var voterID *string
	if actor.IsAuthenticated() {
		id := actor.VoterID
		voterID = &id
		elig, err := s.eligibility.Get(ctx, sessionID, actor.VoterID)
		if err != nil {
			return nil, err
		}
		if elig == nil {
			return nil, models.ErrNotEligible
		}
		allowMultiple = allowMultiple || elig.AllowMultiple
	}

	receiptID := uuid.NewString()
	code, err := votecode.New(votecode.DefaultLength)
	if err != nil {
		return nil, err
	}
	castAt := time.Now()

	// the canonical vote hash never covers voter identity
	voteHash := ledger.VoteHash(sessionID, option.ID, castAt, receiptID)
	signature := s.signer.Sign(voteHash, receiptID, votecode.Normalize(code))

	vote := &models.Vote{
		SessionID:        sessionID,
		OptionID:         option.ID,
		VoterID:          voterID,
		IPAddress:        clientIP,
		ReceiptID:        receiptID,
		VerificationCode: votecode.Normalize(code),
		IsAnonymous:      voterID == nil,
		CastAt:           castAt,
	}

	err = s.votes.CastVote(ctx, vote, allowMultiple, func(prev *models.AuditLogEntry) (*models.AuditLogEntry, error) {
		return ledger.NewEntry(prev, sessionID, models.EventVoteCast, voteHash, receiptID, signature, castAt), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to cast vote: %w", err)
	}

	slog.Info("vote cast", "session_id", sessionID, "receipt_id", receiptID, "anonymous", vote.IsAnonymous)
	return &models.Receipt{
		ReceiptID:        receiptID,
		VerificationCode: code,
		CastAt:           castAt,
	}, nil
}

// HasVoted reports whether a voter already cast a ballot in a session.
func (s *CastingService) HasVoted(ctx context.Context, sessionID uint, voterID string) (bool, error) {
	return s.votes.HasVoted(ctx, sessionID, voterID)
}
