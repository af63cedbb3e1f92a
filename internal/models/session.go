package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// SessionStatus is the lifecycle state of a voting session. Transitions are
// strictly forward; Closed and Voided are terminal.
type SessionStatus string

const (
	StatusDraft  SessionStatus = "draft"
	StatusActive SessionStatus = "active"
	StatusClosed SessionStatus = "closed"
	StatusVoided SessionStatus = "voided"
)

// SessionType distinguishes the kinds of votable events the union runs.
type SessionType string

const (
	TypeConvention   SessionType = "convention"
	TypeRatification SessionType = "ratification"
	TypeSpecialVote  SessionType = "special_vote"
)

var validTransitions = map[SessionStatus][]SessionStatus{
	StatusDraft:  {StatusActive, StatusVoided},
	StatusActive: {StatusClosed},
	StatusClosed: {},
	StatusVoided: {},
}

// CanTransitionTo reports whether the lifecycle allows moving to next.
func (s SessionStatus) CanTransitionTo(next SessionStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether s is one of the defined statuses.
func (s SessionStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusClosed, StatusVoided:
		return true
	}
	return false
}

// Valid reports whether t is one of the defined session types.
func (t SessionType) Valid() bool {
	switch t {
	case TypeConvention, TypeRatification, TypeSpecialVote:
		return true
	}
	return false
}

// VotingSession represents one election, ratification vote or board
// resolution.
type VotingSession struct {
	gorm.Model
	OrganizationID         string        `gorm:"column:organization_id;not null;index" json:"organization_id"`
	Title                  string        `gorm:"column:title;not null" json:"title"`
	Description            string        `gorm:"column:description" json:"description"`
	Type                   SessionType   `gorm:"column:type;not null" json:"type"`
	Status                 SessionStatus `gorm:"column:status;not null;default:draft;index" json:"status"`
	StartTime              *time.Time    `gorm:"column:start_time" json:"start_time,omitempty"`
	ScheduledEndTime       *time.Time    `gorm:"column:scheduled_end_time" json:"scheduled_end_time,omitempty"`
	EndTime                *time.Time    `gorm:"column:end_time" json:"end_time,omitempty"`
	AllowAnonymous         bool          `gorm:"column:allow_anonymous;not null;default:false" json:"allow_anonymous"`
	RequireAuthentication  bool          `gorm:"column:require_authentication;not null;default:true" json:"require_authentication"`
	AllowMultipleVotes     bool          `gorm:"column:allow_multiple_votes;not null;default:false" json:"allow_multiple_votes"`
	RequiresQuorum         bool          `gorm:"column:requires_quorum;not null;default:false" json:"requires_quorum"`
	QuorumThresholdPercent float64       `gorm:"column:quorum_threshold_percent;not null;default:0" json:"quorum_threshold_percent"`
	TotalEligibleVoters    int           `gorm:"column:total_eligible_voters;not null;default:0" json:"total_eligible_voters"`
}

func (VotingSession) TableName() string {
	return "voting_sessions"
}

// EffectiveStatus computes the status as read paths must see it: an active
// session past its scheduled end is closed, whether or not the close sweep
// has flipped the stored row yet.
func (s *VotingSession) EffectiveStatus(now time.Time) SessionStatus {
	if s.Status == StatusActive && s.ScheduledEndTime != nil && now.After(*s.ScheduledEndTime) {
		return StatusClosed
	}
	return s.Status
}

// Validate checks the quorum configuration on create/update.
func (s *VotingSession) Validate() error {
	if s.Title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if !s.Type.Valid() {
		return fmt.Errorf("%w: unknown session type %q", ErrValidation, s.Type)
	}
	if s.QuorumThresholdPercent < 0 || s.QuorumThresholdPercent > 100 {
		return fmt.Errorf("%w: quorum threshold must be between 0 and 100", ErrValidation)
	}
	if s.TotalEligibleVoters < 0 {
		return fmt.Errorf("%w: total eligible voters must not be negative", ErrValidation)
	}
	return nil
}

// CreateSessionRequest is the POST /sessions body.
type CreateSessionRequest struct {
	Title                  string  `json:"title" binding:"required"`
	Description            string  `json:"description"`
	Type                   string  `json:"type" binding:"required"`
	AllowAnonymous         bool    `json:"allow_anonymous"`
	RequireAuthentication  *bool   `json:"require_authentication"`
	AllowMultipleVotes     bool    `json:"allow_multiple_votes"`
	RequiresQuorum         bool    `json:"requires_quorum"`
	QuorumThresholdPercent float64 `json:"quorum_threshold_percent"`
	TotalEligibleVoters    int     `json:"total_eligible_voters"`
}

// UpdateSessionRequest mutates a draft session. Pointer fields distinguish
// "not sent" from zero values.
type UpdateSessionRequest struct {
	Title                  *string  `json:"title"`
	Description            *string  `json:"description"`
	AllowAnonymous         *bool    `json:"allow_anonymous"`
	RequireAuthentication  *bool    `json:"require_authentication"`
	AllowMultipleVotes     *bool    `json:"allow_multiple_votes"`
	RequiresQuorum         *bool    `json:"requires_quorum"`
	QuorumThresholdPercent *float64 `json:"quorum_threshold_percent"`
	TotalEligibleVoters    *int     `json:"total_eligible_voters"`
}

// ActivateSessionRequest is the POST /sessions/{id}/activate body.
type ActivateSessionRequest struct {
	StartTime        time.Time `json:"start_time" binding:"required"`
	ScheduledEndTime time.Time `json:"scheduled_end_time" binding:"required"`
}
