package models

import "github.com/google/uuid"

// Workfolder groups todos inside a workspace. Order values of live
// folders within one workspace are always the dense set {1..N}.
type Workfolder struct {
	Base
	Title       string    `gorm:"size:50" json:"title"`
	WorkspaceID uuid.UUID `gorm:"type:uuid;not null;index" json:"workspace_id"`
	Order       int       `gorm:"not null" json:"order"`
}

func (Workfolder) TableName() string {
	return "workfolders"
}
