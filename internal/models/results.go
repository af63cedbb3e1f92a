package models

import "time"

// OptionResult is one row of the tabulated results. Options nobody voted for
// still appear, zero-filled.
type OptionResult struct {
	OptionID   uint    `json:"option_id"`
	OptionText string  `json:"option_text"`
	VoteCount  int64   `json:"vote_count"`
	Percentage float64 `json:"percentage"`
}

// ResultStatistics summarizes turnout and quorum for a session.
type ResultStatistics struct {
	TotalVotes        int64   `json:"total_votes"`
	UniqueVoters      int64   `json:"unique_voters"`
	TurnoutPercentage float64 `json:"turnout_percentage"`
	QuorumMet         bool    `json:"quorum_met"`
}

// AuditSummary is the ledger status attached to results.
type AuditSummary struct {
	ChainIntact bool `json:"chain_intact"`
}

// Results is the full tabulation for a closed session. Winner is withheld
// when quorum is not met or when the top options are tied; counts are
// factual either way.
type Results struct {
	SessionID  uint             `json:"session_id"`
	Title      string           `json:"title"`
	Results    []OptionResult   `json:"results"`
	Statistics ResultStatistics `json:"statistics"`
	Winner     *OptionResult    `json:"winner"`
	Tie        bool             `json:"tie"`
	Audit      AuditSummary     `json:"audit"`
}

// ResultsPending is the 403 payload returned while a session is still open.
type ResultsPending struct {
	Status           SessionStatus `json:"status"`
	ScheduledEndTime *time.Time    `json:"scheduled_end_time,omitempty"`
}

// VerificationResult is returned by the public verify endpoint. Verified is
// false with a Warning on any hash or signature mismatch; that case is a
// statement about the official record, not a transient error.
type VerificationResult struct {
	Verified    bool          `json:"verified"`
	Vote        *VerifiedVote `json:"vote"`
	ChainIntact bool          `json:"chain_intact"`
	Warning     string        `json:"warning,omitempty"`
}

// VerifiedVote is the voter-facing view of a verified ballot. It never
// contains voter identity, even for non-anonymous sessions.
type VerifiedVote struct {
	OptionText   string    `json:"option_text"`
	CastAt       time.Time `json:"cast_at"`
	SessionTitle string    `json:"session_title"`
}
