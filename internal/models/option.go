package models

import "gorm.io/gorm"

// VotingOption is one selectable choice within a session. Options are frozen
// as soon as the session leaves draft.
type VotingOption struct {
	gorm.Model
	SessionID   uint   `gorm:"column:session_id;not null;index" json:"session_id"`
	Text        string `gorm:"column:text;not null" json:"text"`
	Description string `gorm:"column:description" json:"description"`
	OrderIndex  int    `gorm:"column:order_index;not null;default:0" json:"order_index"`
}

func (VotingOption) TableName() string {
	return "voting_options"
}

// AddOptionRequest is the POST /sessions/{id}/options body.
type AddOptionRequest struct {
	Text        string `json:"text" binding:"required"`
	Description string `json:"description"`
	OrderIndex  int    `json:"order_index"`
}

// UpdateOptionRequest is the PUT /sessions/{id}/options/{optionID} body.
// Nil fields are left unchanged.
type UpdateOptionRequest struct {
	Text        *string `json:"text"`
	Description *string `json:"description"`
	OrderIndex  *int    `json:"order_index"`
}
