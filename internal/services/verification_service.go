package services

import (
	"context"
	"log/slog"
	"time"

	"voting-service/internal/ledger"
	"voting-service/internal/models"
	"voting-service/pkg/votecode"
)

// Tamper warnings shown to voters. These must be unmistakable: a voter who
// sees one is looking at a fault in the official record, not a hiccup.
const (
	warnRecordTampered = "INTEGRITY WARNING: the stored record of this vote does not match its audit trail. The official record may have been tampered with. Contact your election administrator."
	warnAuditMissing   = "INTEGRITY WARNING: the audit record for this vote is missing from the ledger. This must never happen in normal operation. Contact your election administrator."
	warnChainDamaged   = "This vote verified correctly, but the session's audit chain is damaged elsewhere. The overall election record may have been tampered with."
)

// VerificationService lets a voter confirm, with receipt and code, that
// their vote was recorded and counted, without revealing identity.
type VerificationService struct {
	sessions SessionStore
	options  OptionStore
	votes    VoteStore
	auditLog AuditStore
	audit    *AuditService
	signer   *ledger.Signer
	alerts   Alerter
}

func NewVerificationService(
	sessions SessionStore,
	options OptionStore,
	votes VoteStore,
	auditLog AuditStore,
	audit *AuditService,
	signer *ledger.Signer,
	alerts Alerter,
) *VerificationService {
	return &VerificationService{
		sessions: sessions,
		options:  options,
		votes:    votes,
		auditLog: auditLog,
		audit:    audit,
		signer:   signer,
		alerts:   alerts,
	}
}

// Verify re-derives every hash and the signature from stored fields. Any
// mismatch yields verified=false with an explicit tamper warning, never an
// error: a tampered record must not look like a transient failure.
func (s *VerificationService) Verify(ctx context.Context, receiptID, code string) (*models.VerificationResult, error) {
	vote, err := s.votes.GetByReceipt(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	if vote == nil {
		return nil, models.ErrReceiptNotFound
	}
	if !votecode.Match(vote.VerificationCode, code) {
		return nil, models.ErrCodeMismatch
	}

	entry, err := s.auditLog.GetByReceipt(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		// a vote without its audit entry means the same-transaction
		// invariant was broken out of band
		slog.Error("audit record missing for vote", "receipt_id", receiptID, "session_id", vote.SessionID)
		s.publishAlert(ctx, models.AlertAuditRecordMissing, vote.SessionID, receiptID,
			"vote exists without its audit ledger entry")
		return &models.VerificationResult{
			Verified: false,
			Warning:  warnAuditMissing,
		}, nil
	}

	chain, err := s.audit.VerifyChain(ctx, vote.SessionID)
	if err != nil {
		return nil, err
	}

	expectedVoteHash := ledger.VoteHash(vote.SessionID, vote.OptionID, vote.CastAt, vote.ReceiptID)
	entryIntact := ledger.EntryHash(entry) == entry.AuditHash && entry.VoteHash == expectedVoteHash
	signatureValid := s.signer.Verify(entry.VoteHash, vote.ReceiptID, votecode.Normalize(code), entry.Signature)

	if !entryIntact || !signatureValid {
		slog.Error("vote verification failed: stored record does not re-derive",
			"receipt_id", receiptID,
			"session_id", vote.SessionID,
			"entry_intact", entryIntact,
			"signature_valid", signatureValid,
		)
		s.publishAlert(ctx, models.AlertChainTampered, vote.SessionID, receiptID,
			"stored vote hash or signature does not re-derive from canonical fields")
		return &models.VerificationResult{
			Verified:    false,
			ChainIntact: chain.ChainIntact,
			Warning:     warnRecordTampered,
		}, nil
	}

	verified, err := s.verifiedView(ctx, vote)
	if err != nil {
		return nil, err
	}
	result := &models.VerificationResult{
		Verified:    true,
		Vote:        verified,
		ChainIntact: chain.ChainIntact,
	}
	if !chain.ChainIntact {
		result.Warning = warnChainDamaged
	}
	return result, nil
}

// verifiedView exposes the option and session, never the voter.
func (s *VerificationService) verifiedView(ctx context.Context, vote *models.Vote) (*models.VerifiedVote, error) {
	option, err := s.options.GetByID(ctx, vote.OptionID)
	if err != nil {
		return nil, err
	}
	session, err := s.sessions.GetByID(ctx, vote.SessionID)
	if err != nil {
		return nil, err
	}
	view := &models.VerifiedVote{CastAt: vote.CastAt}
	if option != nil {
		view.OptionText = option.Text
	}
	if session != nil {
		view.SessionTitle = session.Title
	}
	return view, nil
}

func (s *VerificationService) publishAlert(ctx context.Context, kind string, sessionID uint, receiptID, detail string) {
	if s.alerts == nil {
		return
	}
	s.alerts.PublishIntegrityAlert(ctx, models.IntegrityAlert{
		Kind:       kind,
		SessionID:  sessionID,
		ReceiptID:  receiptID,
		Detail:     detail,
		DetectedAt: time.Now(),
	})
}
