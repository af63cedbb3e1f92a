// Package ledger implements the tamper-evident audit chain: canonical
// hashing of votes and ledger entries, server-side signing, and chain
// replay. It is pure computation; persistence lives in the repositories.
package ledger

import (
	"encoding/hex"
	"fmt"
	"time"

	"golang.org/x/crypto/sha3"

	"voting-service/internal/models"
)

// hashVersion is folded into every canonical encoding so the scheme can be
// rotated without ambiguity about which layout produced a stored hash.
const hashVersion = "v1"

func sum(canonical string) string {
	h := sha3.Sum256([]byte(canonical))
	return hex.EncodeToString(h[:])
}

// VoteHash computes the canonical hash of a cast vote. The canonical tuple
// deliberately excludes voter identity so the hash cannot be used to
// deanonymize a ballot.
func VoteHash(sessionID, optionID uint, castAt time.Time, receiptID string) string {
	canonical := fmt.Sprintf("vote|%s|%d|%d|%s|%s",
		hashVersion, sessionID, optionID, castAt.UTC().Format(time.RFC3339Nano), receiptID)
	return sum(canonical)
}

// EventHash computes the payload hash recorded for a session state
// transition. It fills the vote_hash slot of non-vote ledger entries.
func EventHash(sessionID uint, event models.AuditEventType, at time.Time, eventID string) string {
	canonical := fmt.Sprintf("event|%s|%d|%s|%s|%s",
		hashVersion, sessionID, event, at.UTC().Format(time.RFC3339Nano), eventID)
	return sum(canonical)
}

// EntryHash computes an audit entry's own hash over its canonical fields,
// including the predecessor link. Recomputing it over the stored fields and
// comparing against the stored audit_hash is how tampering is detected.
func EntryHash(e *models.AuditLogEntry) string {
	canonical := fmt.Sprintf("entry|%s|%d|%s|%s|%s|%s|%s",
		hashVersion, e.SessionID, e.EventType, e.VoteHash, e.ReceiptID,
		e.PreviousAuditHash, e.VotedAt.UTC().Format(time.RFC3339Nano))
	return sum(canonical)
}
