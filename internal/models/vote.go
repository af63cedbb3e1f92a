package models

import (
	"time"

	"gorm.io/gorm"
)

// Vote is one cast ballot. Votes are write-once: the immutability guard and
// the storage triggers reject any UPDATE or DELETE after creation.
type Vote struct {
	gorm.Model
	SessionID        uint      `gorm:"column:session_id;not null;index" json:"session_id"`
	OptionID         uint      `gorm:"column:option_id;not null;index" json:"option_id"`
	VoterID          *string   `gorm:"column:voter_id;index" json:"voter_id,omitempty"`
	IPAddress        string    `gorm:"column:ip_address" json:"-"`
	ReceiptID        string    `gorm:"column:receipt_id;not null;uniqueIndex" json:"receipt_id"`
	VerificationCode string    `gorm:"column:verification_code;not null" json:"-"`
	IsAnonymous      bool      `gorm:"column:is_anonymous;not null;default:false" json:"is_anonymous"`
	CastAt           time.Time `gorm:"column:cast_at;not null" json:"cast_at"`
}

func (Vote) TableName() string {
	return "votes"
}

// CastVoteRequest is the POST /sessions/{id}/votes body. The voter identity
// comes from the auth middleware, never from the body.
type CastVoteRequest struct {
	OptionID uint `json:"option_id" binding:"required"`
}

// Receipt is handed back to the voter exactly once. The verification code is
// not retrievable again through any API.
type Receipt struct {
	ReceiptID        string    `json:"receipt_id"`
	VerificationCode string    `json:"verification_code"`
	CastAt           time.Time `json:"cast_at"`
}
