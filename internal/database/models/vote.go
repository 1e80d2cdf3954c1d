package models

import (
	"time"

	"github.com/google/uuid"
)

type Vote struct {
	Base
	Title       string     `gorm:"not null" json:"title"`
	CreatorID   *uuid.UUID `gorm:"type:uuid;index" json:"creator_id"` // nulled when the creator account is deleted
	WorkspaceID uuid.UUID  `gorm:"type:uuid;not null;index" json:"workspace_id"`
	DueDate     *time.Time `json:"due_date,omitempty"`

	// Relationships
	Options []VoteOption `gorm:"foreignKey:VoteID" json:"options,omitempty"`
}

func (Vote) TableName() string {
	return "votes"
}

// VoteOption rows are wholesale-replaced on vote update.
type VoteOption struct {
	Base
	VoteID uuid.UUID `gorm:"type:uuid;not null;index" json:"vote_id"`
	Text   string    `gorm:"not null" json:"text"`
}

func (VoteOption) TableName() string {
	return "vote_options"
}

// VoteResult holds one member's submission. The composite unique index
// enforces at most one result per (vote, user) pair.
type VoteResult struct {
	Base
	WorkspaceID uuid.UUID `gorm:"type:uuid;not null;index" json:"workspace_id"`
	VoteID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_vote_user" json:"vote_id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_vote_user" json:"user_id"`
	Option      string    `gorm:"not null" json:"option"`
}

func (VoteResult) TableName() string {
	return "vote_results"
}
