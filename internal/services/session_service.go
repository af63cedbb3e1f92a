package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"voting-service/internal/ledger"
	"voting-service/internal/models"
)

// SessionService owns the session lifecycle: draft -> active -> closed, with
// draft -> voided as the only other transition. Every transition appends a
// typed entry to the session's audit chain in the same transaction.
type SessionService struct {
	sessions    SessionStore
	options     OptionStore
	eligibility EligibilityStore
	audit       AuditStore
	signer      *ledger.Signer
	archive     *ArchiveService
}

func NewSessionService(
	sessions SessionStore,
	options OptionStore,
	eligibility EligibilityStore,
	audit AuditStore,
	signer *ledger.Signer,
	archive *ArchiveService,
) *SessionService {
	return &SessionService{
		sessions:    sessions,
		options:     options,
		eligibility: eligibility,
		audit:       audit,
		signer:      signer,
		archive:     archive,
	}
}

// Create returns a new session in draft.
func (s *SessionService) Create(ctx context.Context, actor models.ActorContext, req models.CreateSessionRequest) (*models.VotingSession, error) {
	requireAuth := true
	if req.RequireAuthentication != nil {
		requireAuth = *req.RequireAuthentication
	}
	session := &models.VotingSession{
		OrganizationID:         actor.OrganizationID,
		Title:                  req.Title,
		Description:            req.Description,
		Type:                   models.SessionType(req.Type),
		Status:                 models.StatusDraft,
		AllowAnonymous:         req.AllowAnonymous,
		RequireAuthentication:  requireAuth,
		AllowMultipleVotes:     req.AllowMultipleVotes,
		RequiresQuorum:         req.RequiresQuorum,
		QuorumThresholdPercent: req.QuorumThresholdPercent,
		TotalEligibleVoters:    req.TotalEligibleVoters,
	}
	if err := session.Validate(); err != nil {
		return nil, err
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	slog.Info("voting session created", "session_id", session.ID, "type", session.Type)
	return session, nil
}

// Get returns a session owned by the actor's organization.
func (s *SessionService) Get(ctx context.Context, actor models.ActorContext, sessionID uint) (*models.VotingSession, error) {
	return s.ownedSession(ctx, actor, sessionID)
}

func (s *SessionService) List(ctx context.Context, actor models.ActorContext) ([]models.VotingSession, error) {
	return s.sessions.ListByOrganization(ctx, actor.OrganizationID)
}

// Update applies organizer edits. Only draft sessions are editable; after
// activation the engine alone mutates status and time fields.
func (s *SessionService) Update(ctx context.Context, actor models.ActorContext, sessionID uint, req models.UpdateSessionRequest) (*models.VotingSession, error) {
	session, err := s.ownedSession(ctx, actor, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.StatusDraft {
		return nil, models.ErrSessionNotDraft
	}
	if req.Title != nil {
		session.Title = *req.Title
	}
	if req.Description != nil {
		session.Description = *req.Description
	}
	if req.AllowAnonymous != nil {
		session.AllowAnonymous = *req.AllowAnonymous
	}
	if req.RequireAuthentication != nil {
		session.RequireAuthentication = *req.RequireAuthentication
	}
	if req.AllowMultipleVotes != nil {
		session.AllowMultipleVotes = *req.AllowMultipleVotes
	}
	if req.RequiresQuorum != nil {
		session.RequiresQuorum = *req.RequiresQuorum
	}
	if req.QuorumThresholdPercent != nil {
		session.QuorumThresholdPercent = *req.QuorumThresholdPercent
	}
	if req.TotalEligibleVoters != nil {
		session.TotalEligibleVoters = *req.TotalEligibleVoters
	}
	if err := session.Validate(); err != nil {
		return nil, err
	}
	if err := s.sessions.UpdateDraft(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}
	return session, nil
}

// Delete removes a draft session. Anything past draft is history: it can be
// voided, never erased.
func (s *SessionService) Delete(ctx context.Context, actor models.ActorContext, sessionID uint) error {
	session, err := s.ownedSession(ctx, actor, sessionID)
	if err != nil {
		return err
	}
	if session.Status != models.StatusDraft {
		return models.ErrSessionNotDraft
	}
	return s.sessions.DeleteDraft(ctx, sessionID)
}

// AddOption attaches a choice to a draft session. Options freeze when the
// session leaves draft.
func (s *SessionService) AddOption(ctx context.Context, actor models.ActorContext, sessionID uint, req models.AddOptionRequest) (*models.VotingOption, error) {
	session, err := s.ownedSession(ctx, actor, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.StatusDraft {
		return nil, models.ErrSessionNotDraft
	}
	option := &models.VotingOption{
		SessionID:   sessionID,
		Text:        req.Text,
		Description: req.Description,
		OrderIndex:  req.OrderIndex,
	}
	if err := s.options.Create(ctx, option); err != nil {
		return nil, fmt.Errorf("failed to add option: %w", err)
	}
	return option, nil
}

// UpdateOption edits a choice on a draft session.
func (s *SessionService) UpdateOption(ctx context.Context, actor models.ActorContext, sessionID, optionID uint, req models.UpdateOptionRequest) (*models.VotingOption, error) {
	option, err := s.draftOption(ctx, actor, sessionID, optionID)
	if err != nil {
		return nil, err
	}
	if req.Text != nil {
		option.Text = *req.Text
	}
	if req.Description != nil {
		option.Description = *req.Description
	}
	if req.OrderIndex != nil {
		option.OrderIndex = *req.OrderIndex
	}
	if err := s.options.Update(ctx, option); err != nil {
		return nil, fmt.Errorf("failed to update option: %w", err)
	}
	return option, nil
}

// DeleteOption removes a choice from a draft session.
func (s *SessionService) DeleteOption(ctx context.Context, actor models.ActorContext, sessionID, optionID uint) error {
	if _, err := s.draftOption(ctx, actor, sessionID, optionID); err != nil {
		return err
	}
	return s.options.Delete(ctx, optionID)
}

// draftOption resolves an option on an owned draft session. Options from
// other sessions are indistinguishable from missing ones.
func (s *SessionService) draftOption(ctx context.Context, actor models.ActorContext, sessionID, optionID uint) (*models.VotingOption, error) {
	session, err := s.ownedSession(ctx, actor, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.StatusDraft {
		return nil, models.ErrSessionNotDraft
	}
	option, err := s.options.GetByID(ctx, optionID)
	if err != nil {
		return nil, err
	}
	if option == nil || option.SessionID != sessionID {
		return nil, models.ErrOptionNotFound
	}
	return option, nil
}

func (s *SessionService) ListOptions(ctx context.Context, sessionID uint) ([]models.VotingOption, error) {
	return s.options.ListBySession(ctx, sessionID)
}

// AddEligibility puts a voter on the roster. Allowed while the session is
// draft or still effectively active.
func (s *SessionService) AddEligibility(ctx context.Context, actor models.ActorContext, sessionID uint, req models.AddEligibilityRequest) (*models.VoterEligibility, error) {
	session, err := s.ownedSession(ctx, actor, sessionID)
	if err != nil {
		return nil, err
	}
	switch session.EffectiveStatus(time.Now()) {
	case models.StatusDraft, models.StatusActive:
	default:
		return nil, fmt.Errorf("%w: roster is frozen once the session ends", models.ErrInvalidTransition)
	}
	e := &models.VoterEligibility{
		SessionID:     sessionID,
		VoterID:       req.VoterID,
		AllowMultiple: req.AllowMultiple,
	}
	if err := s.eligibility.Upsert(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to add eligibility: %w", err)
	}
	return e, nil
}

// Eligibility lists the roster for organizer follow-up.
func (s *SessionService) Eligibility(ctx context.Context, actor models.ActorContext, sessionID uint) ([]models.VoterEligibility, error) {
	if _, err := s.ownedSession(ctx, actor, sessionID); err != nil {
		return nil, err
	}
	return s.eligibility.ListBySession(ctx, sessionID)
}

// Activate moves a draft session into active voting.
func (s *SessionService) Activate(ctx context.Context, actor models.ActorContext, sessionID uint, req models.ActivateSessionRequest) (*models.VotingSession, error) {
	if _, err := s.ownedSession(ctx, actor, sessionID); err != nil {
		return nil, err
	}
	if !req.ScheduledEndTime.After(req.StartTime) {
		return nil, fmt.Errorf("%w: scheduled end time must be after start time", models.ErrValidation)
	}
	return s.transition(ctx, sessionID, models.StatusActive, models.EventSessionActivated, func(session *models.VotingSession) {
		session.StartTime = &req.StartTime
		session.ScheduledEndTime = &req.ScheduledEndTime
	})
}

// Close ends voting explicitly. Read paths already treat a session past its
// scheduled end as closed; this persists that fact and archives the chain.
func (s *SessionService) Close(ctx context.Context, actor models.ActorContext, sessionID uint) (*models.VotingSession, error) {
	if _, err := s.ownedSession(ctx, actor, sessionID); err != nil {
		return nil, err
	}
	return s.close(ctx, sessionID)
}

func (s *SessionService) close(ctx context.Context, sessionID uint) (*models.VotingSession, error) {
	session, err := s.transition(ctx, sessionID, models.StatusClosed, models.EventSessionClosed, func(session *models.VotingSession) {
		now := time.Now()
		session.EndTime = &now
	})
	if err != nil {
		return nil, err
	}
	s.archiveChain(ctx, session)
	return session, nil
}

// Void cancels a draft session. There is no path back.
func (s *SessionService) Void(ctx context.Context, actor models.ActorContext, sessionID uint) (*models.VotingSession, error) {
	if _, err := s.ownedSession(ctx, actor, sessionID); err != nil {
		return nil, err
	}
	return s.transition(ctx, sessionID, models.StatusVoided, models.EventSessionVoided, func(session *models.VotingSession) {
		now := time.Now()
		session.EndTime = &now
	})
}

func (s *SessionService) transition(
	ctx context.Context,
	sessionID uint,
	next models.SessionStatus,
	event models.AuditEventType,
	mutate func(session *models.VotingSession),
) (*models.VotingSession, error) {
	now := time.Now()
	eventID := uuid.NewString()
	return s.sessions.Transition(ctx, sessionID,
		func(session *models.VotingSession) error {
			if !session.Status.CanTransitionTo(next) {
				return fmt.Errorf("%w: %s -> %s", models.ErrInvalidTransition, session.Status, next)
			}
			session.Status = next
			mutate(session)
			return nil
		},
		func(prev *models.AuditLogEntry) (*models.AuditLogEntry, error) {
			eventHash := ledger.EventHash(sessionID, event, now, eventID)
			signature := s.signer.Sign(eventHash, eventID, "")
			return ledger.NewEntry(prev, sessionID, event, eventHash, eventID, signature, now), nil
		},
	)
}

func (s *SessionService) archiveChain(ctx context.Context, session *models.VotingSession) {
	if s.archive == nil {
		return
	}
	entries, err := s.audit.ListBySession(ctx, session.ID)
	if err != nil {
		slog.Warn("failed to load audit chain for archive", "session_id", session.ID, "error", err)
		return
	}
	object, err := s.archive.ArchiveChain(ctx, session, entries)
	if err != nil {
		slog.Warn("failed to archive audit chain", "session_id", session.ID, "error", err)
		return
	}
	slog.Info("audit chain archived", "session_id", session.ID, "object", object)
}

// RunCloseSweep periodically flips sessions past their scheduled end into
// closed. Convenience only: read paths never depend on the stored status
// once the scheduled end has passed.
func (s *SessionService) RunCloseSweep(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweepOnce(ctx)
		}
	}
}

func (s *SessionService) sweepOnce(ctx context.Context) {
	overdue, err := s.sessions.ListOverdue(ctx, time.Now())
	if err != nil {
		slog.Warn("close sweep failed to list sessions", "error", err)
		return
	}
	for _, session := range overdue {
		if _, err := s.close(ctx, session.ID); err != nil {
			slog.Warn("close sweep failed to close session", "session_id", session.ID, "error", err)
		} else {
			slog.Info("close sweep closed session", "session_id", session.ID)
		}
	}
}

func (s *SessionService) ownedSession(ctx context.Context, actor models.ActorContext, sessionID uint) (*models.VotingSession, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	// sessions from other tenants are indistinguishable from missing ones
	if session == nil || session.OrganizationID != actor.OrganizationID {
		return nil, models.ErrSessionNotFound
	}
	return session, nil
}
