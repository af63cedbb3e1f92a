package services

import (
	"context"
	"time"

	"voting-service/internal/models"
)

// Store interfaces consumed by the services. The postgres repositories are
// the production implementations; tests substitute in-memory fakes.

type SessionStore interface {
	Create(ctx context.Context, session *models.VotingSession) error
	GetByID(ctx context.Context, id uint) (*models.VotingSession, error)
	ListByOrganization(ctx context.Context, organizationID string) ([]models.VotingSession, error)
	ListOverdue(ctx context.Context, now time.Time) ([]models.VotingSession, error)
	UpdateDraft(ctx context.Context, session *models.VotingSession) error
	DeleteDraft(ctx context.Context, sessionID uint) error
	Transition(
		ctx context.Context,
		sessionID uint,
		apply func(s *models.VotingSession) error,
		buildEntry func(prev *models.AuditLogEntry) (*models.AuditLogEntry, error),
	) (*models.VotingSession, error)
}

type OptionStore interface {
	Create(ctx context.Context, option *models.VotingOption) error
	GetByID(ctx context.Context, id uint) (*models.VotingOption, error)
	ListBySession(ctx context.Context, sessionID uint) ([]models.VotingOption, error)
	Update(ctx context.Context, option *models.VotingOption) error
	Delete(ctx context.Context, id uint) error
}

type EligibilityStore interface {
	Upsert(ctx context.Context, e *models.VoterEligibility) error
	Get(ctx context.Context, sessionID uint, voterID string) (*models.VoterEligibility, error)
	ListBySession(ctx context.Context, sessionID uint) ([]models.VoterEligibility, error)
}

type VoteStore interface {
	CastVote(
		ctx context.Context,
		vote *models.Vote,
		allowMultiple bool,
		buildEntry func(prev *models.AuditLogEntry) (*models.AuditLogEntry, error),
	) error
	GetByReceipt(ctx context.Context, receiptID string) (*models.Vote, error)
	HasVoted(ctx context.Context, sessionID uint, voterID string) (bool, error)
	CountsByOption(ctx context.Context, sessionID uint) (map[uint]int64, error)
	TotalVotes(ctx context.Context, sessionID uint) (int64, error)
	UniqueVoterCount(ctx context.Context, sessionID uint) (int64, error)
}

type AuditStore interface {
	ListBySession(ctx context.Context, sessionID uint) ([]models.AuditLogEntry, error)
	GetByReceipt(ctx context.Context, receiptID string) (*models.AuditLogEntry, error)
}

// Alerter escalates ledger-class integrity faults to operators.
type Alerter interface {
	PublishIntegrityAlert(ctx context.Context, alert models.IntegrityAlert)
}
