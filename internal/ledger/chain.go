package ledger

import (
	"time"

	"voting-service/internal/models"
)

// NewEntry builds the next entry for a session's chain, linked to prev.
// prev is nil for the first entry of a chain, which links to the fixed
// genesis value instead.
func NewEntry(prev *models.AuditLogEntry, sessionID uint, event models.AuditEventType, voteHash, receiptID, signature string, at time.Time) *models.AuditLogEntry {
	entry := &models.AuditLogEntry{
		SessionID:         sessionID,
		EventType:         event,
		ReceiptID:         receiptID,
		VoteHash:          voteHash,
		Signature:         signature,
		PreviousAuditHash: models.GenesisHash,
		VotedAt:           at,
	}
	if prev != nil {
		entry.PreviousAuditHash = prev.AuditHash
	}
	entry.AuditHash = EntryHash(entry)
	return entry
}

// Replay walks a session's entries in creation order and checks both the
// predecessor links and each entry's own recomputed hash. It short-circuits
// at the first break.
func Replay(entries []models.AuditLogEntry) models.ChainReport {
	report := models.ChainReport{ChainIntact: true, Length: len(entries)}
	expectedPrev := models.GenesisHash
	for i := range entries {
		e := &entries[i]
		if e.PreviousAuditHash != expectedPrev || EntryHash(e) != e.AuditHash {
			idx := i
			report.ChainIntact = false
			report.BrokenAt = &idx
			return report
		}
		expectedPrev = e.AuditHash
	}
	return report
}
