package models

import "errors"

// Domain errors. Handlers map these onto HTTP status codes; services wrap
// them with fmt.Errorf("...: %w", err) to add context.
var (
	ErrValidation         = errors.New("validation error")
	ErrInvalidTransition  = errors.New("invalid session transition")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionNotActive   = errors.New("session is not active")
	ErrSessionNotDraft    = errors.New("session is no longer in draft")
	ErrOptionNotFound     = errors.New("option not found")
	ErrInvalidOption      = errors.New("option does not belong to session")
	ErrAuthRequired       = errors.New("authentication required")
	ErrNotEligible        = errors.New("voter is not eligible")
	ErrDuplicateVote      = errors.New("vote already cast")
	ErrResultsNotReady    = errors.New("results not yet available")
	ErrReceiptNotFound    = errors.New("receipt not found")
	ErrCodeMismatch       = errors.New("verification code mismatch")
	ErrAuditRecordMissing = errors.New("audit record missing for vote")
	ErrImmutableRecord    = errors.New("immutable record cannot be modified")
	ErrChainTampered      = errors.New("audit chain tamper detected")
)
