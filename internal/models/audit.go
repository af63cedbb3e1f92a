package models

import (
	"time"

	"gorm.io/gorm"
)

// AuditEventType identifies what a ledger entry records.
type AuditEventType string

const (
	EventVoteCast         AuditEventType = "vote_cast"
	EventSessionActivated AuditEventType = "session_activated"
	EventSessionClosed    AuditEventType = "session_closed"
	EventSessionVoided    AuditEventType = "session_voided"
)

// GenesisHash is the fixed previous_audit_hash of the first entry in every
// session's chain.
const GenesisHash = "0000000000000000000000000000000000000000000000000000000000000000"

// AuditLogEntry is one link in a session's hash chain. Each entry commits to
// its predecessor through PreviousAuditHash, so any retroactive edit,
// deletion or reordering is detectable by replaying the chain. Entries are
// written in the same transaction as the event they record and are never
// updated or deleted.
type AuditLogEntry struct {
	gorm.Model
	SessionID         uint           `gorm:"column:session_id;not null;index" json:"session_id"`
	EventType         AuditEventType `gorm:"column:event_type;not null" json:"event_type"`
	ReceiptID         string         `gorm:"column:receipt_id;not null;index" json:"receipt_id"`
	VoteHash          string         `gorm:"column:vote_hash;not null" json:"vote_hash"`
	Signature         string         `gorm:"column:signature;not null" json:"signature"`
	PreviousAuditHash string         `gorm:"column:previous_audit_hash;not null" json:"previous_audit_hash"`
	AuditHash         string         `gorm:"column:audit_hash;not null" json:"audit_hash"`
	VotedAt           time.Time      `gorm:"column:voted_at;not null" json:"voted_at"`
}

func (AuditLogEntry) TableName() string {
	return "audit_log_entries"
}

// ChainReport is the outcome of replaying a session's chain.
type ChainReport struct {
	ChainIntact bool `json:"chain_intact"`
	Length      int  `json:"length"`
	// BrokenAt is the zero-based index of the first broken entry, or nil
	// when the chain is intact.
	BrokenAt *int `json:"broken_at,omitempty"`
}

// IntegrityAlert is published to operators when a ledger-class fault is
// detected. These faults are never swallowed.
type IntegrityAlert struct {
	Kind       string    `json:"kind"`
	SessionID  uint      `json:"session_id,omitempty"`
	ReceiptID  string    `json:"receipt_id,omitempty"`
	Detail     string    `json:"detail"`
	DetectedAt time.Time `json:"detected_at"`
}

const (
	AlertChainTampered      = "chain_tamper_detected"
	AlertAuditRecordMissing = "audit_record_missing"
	AlertImmutableViolation = "immutable_record_violation"
)
