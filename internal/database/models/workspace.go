package models

import "github.com/google/uuid"

type Workspace struct {
	Base
	Title    string `gorm:"not null" json:"title"`
	Account  string `gorm:"uniqueIndex;not null" json:"account"`
	SlackURL string `json:"slack_url,omitempty"`

	// Relationships
	Members []WorkspaceMember `gorm:"foreignKey:WorkspaceID" json:"members,omitempty"`
}

func (Workspace) TableName() string {
	return "workspaces"
}

// WorkspaceMember is one membership row. The composite unique index keeps
// at most one row per (workspace, user) pair.
type WorkspaceMember struct {
	Base
	WorkspaceID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_workspace_user" json:"workspace_id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_workspace_user" json:"user_id"`
	IsAdmin     bool      `gorm:"default:false" json:"is_admin"`
	IsPending   bool      `gorm:"default:false" json:"is_pending"`
}

func (WorkspaceMember) TableName() string {
	return "workspace_members"
}
