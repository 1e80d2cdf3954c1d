package models

import (
	"time"

	"github.com/google/uuid"
)

type TodoStatus string

const (
	TodoStatusPending    TodoStatus = "pending"
	TodoStatusProcessing TodoStatus = "processing"
	TodoStatusCompleted  TodoStatus = "completed"
)

// Todo order values within one folder are always the dense set {1..M}.
type Todo struct {
	Base
	Title        string     `gorm:"size:50;not null" json:"title"`
	WorkspaceID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"workspace_id"`
	WorkfolderID uuid.UUID  `gorm:"type:uuid;not null;index" json:"workfolder_id"`
	Status       TodoStatus `gorm:"default:'pending'" json:"status"` // pending, processing, completed
	Note         string     `json:"note,omitempty"`
	Deadline     *time.Time `json:"deadline,omitempty"`
	Order        int        `gorm:"not null" json:"order"`

	// Relationships
	Checklists  []ChecklistItem  `gorm:"foreignKey:TodoID" json:"checklists,omitempty"`
	Assignments []TodoAssignment `gorm:"foreignKey:TodoID" json:"assignments,omitempty"`
}

func (Todo) TableName() string {
	return "todos"
}

// ChecklistItem rows are wholesale-replaced on todo update.
type ChecklistItem struct {
	Base
	TodoID    uuid.UUID `gorm:"type:uuid;not null;index" json:"todo_id"`
	Text      string    `gorm:"not null" json:"text"`
	IsChecked bool      `gorm:"default:false" json:"is_checked"`
	Position  int       `gorm:"not null" json:"position"`
}

func (ChecklistItem) TableName() string {
	return "todo_checklist_items"
}

// TodoAssignment is a weak reference to a user. Deleting the user
// detaches the assignment, never the todo.
type TodoAssignment struct {
	Base
	TodoID uuid.UUID `gorm:"type:uuid;not null;index" json:"todo_id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
}

func (TodoAssignment) TableName() string {
	return "todo_assignments"
}
