package services

import (
	"context"
	"fmt"
	"time"

	"voting-service/internal/ledger"
	"voting-service/internal/models"
)

// AuditService replays a session's hash chain on demand. The chain itself is
// the tamper-evidence mechanism; this service only walks and reports.
type AuditService struct {
	sessions SessionStore
	audit    AuditStore
	alerts   Alerter
}

func NewAuditService(sessions SessionStore, audit AuditStore, alerts Alerter) *AuditService {
	return &AuditService{sessions: sessions, audit: audit, alerts: alerts}
}

// VerifyChain replays every entry of the session's chain and reports the
// first break, if any. A broken chain is escalated to operators every time
// it is observed.
func (s *AuditService) VerifyChain(ctx context.Context, sessionID uint) (models.ChainReport, error) {
	entries, err := s.audit.ListBySession(ctx, sessionID)
	if err != nil {
		return models.ChainReport{}, err
	}
	report := ledger.Replay(entries)
	if !report.ChainIntact && s.alerts != nil {
		s.alerts.PublishIntegrityAlert(ctx, models.IntegrityAlert{
			Kind:       models.AlertChainTampered,
			SessionID:  sessionID,
			Detail:     fmt.Sprintf("audit chain broken at index %d of %d", *report.BrokenAt, report.Length),
			DetectedAt: time.Now(),
		})
	}
	return report, nil
}

// VerifyChainForOrganizer is the handler-facing variant with tenant scoping.
func (s *AuditService) VerifyChainForOrganizer(ctx context.Context, actor models.ActorContext, sessionID uint) (models.ChainReport, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return models.ChainReport{}, err
	}
	if session == nil || session.OrganizationID != actor.OrganizationID {
		return models.ChainReport{}, models.ErrSessionNotFound
	}
	return s.VerifyChain(ctx, sessionID)
}
