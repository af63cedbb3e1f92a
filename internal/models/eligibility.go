package models

import "gorm.io/gorm"

// VoterEligibility marks a voter as allowed to vote in a session. The roster
// is owned by the session organizer while the session is draft or active.
type VoterEligibility struct {
	gorm.Model
	SessionID     uint   `gorm:"column:session_id;not null;uniqueIndex:idx_eligibility_session_voter" json:"session_id"`
	VoterID       string `gorm:"column:voter_id;not null;uniqueIndex:idx_eligibility_session_voter" json:"voter_id"`
	AllowMultiple bool   `gorm:"column:allow_multiple;not null;default:false" json:"allow_multiple"`
}

func (VoterEligibility) TableName() string {
	return "voter_eligibility"
}

// AddEligibilityRequest is the POST /sessions/{id}/eligibility body.
type AddEligibilityRequest struct {
	VoterID       string `json:"voter_id" binding:"required"`
	AllowMultiple bool   `json:"allow_multiple"`
}
