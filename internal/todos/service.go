// Package todos implements workfolder and todo operations, including
// the ordered create/move/delete paths that keep sibling order values
// dense.
package todos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/workhive/workhive/internal/database/models"
	"github.com/workhive/workhive/internal/ordering"
	"gorm.io/gorm"
)

var (
	ErrFolderNotFound = errors.New("folder not found")
	ErrTodoNotFound   = errors.New("todo not found")
)

type Service struct {
	db     *gorm.DB
	orders *ordering.Engine
}

func NewService(db *gorm.DB, orders *ordering.Engine) *Service {
	return &Service{db: db, orders: orders}
}

// FolderWithTodos is one workfolder with its todos in order.
type FolderWithTodos struct {
	models.Workfolder
	Todos []models.Todo `json:"todos"`
}

// ListFolders returns the workspace's folders in order, each carrying
// its todos in order.
func (s *Service) ListFolders(ctx context.Context, workspaceID uuid.UUID) ([]FolderWithTodos, error) {
	var folders []models.Workfolder
	if err := s.db.WithContext(ctx).
		Where("workspace_id = ?", workspaceID).
		Order(`"order"`).
		Find(&folders).Error; err != nil {
		return nil, err
	}

	var todos []models.Todo
	if err := s.db.WithContext(ctx).
		Preload("Checklists", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Assignments").
		Where("workspace_id = ?", workspaceID).
		Order(`"order"`).
		Find(&todos).Error; err != nil {
		return nil, err
	}

	byFolder := make(map[uuid.UUID][]models.Todo, len(folders))
	for _, todo := range todos {
		byFolder[todo.WorkfolderID] = append(byFolder[todo.WorkfolderID], todo)
	}

	result := make([]FolderWithTodos, len(folders))
	for i, folder := range folders {
		result[i] = FolderWithTodos{Workfolder: folder, Todos: byFolder[folder.ID]}
	}
	return result, nil
}

func (s *Service) GetFolder(ctx context.Context, folderID uuid.UUID) (*models.Workfolder, error) {
	var folder models.Workfolder
	if err := s.db.WithContext(ctx).First(&folder, folderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFolderNotFound
		}
		return nil, err
	}
	return &folder, nil
}

// CreateFolder appends a folder at the end of the workspace's folder
// list.
func (s *Service) CreateFolder(ctx context.Context, workspaceID uuid.UUID, title string) (*models.Workfolder, error) {
	folder := models.Workfolder{
		Title:       title,
		WorkspaceID: workspaceID,
	}
	err := s.orders.InsertAtEnd(ctx, ordering.FolderScope(workspaceID), func(tx *gorm.DB, order int) error {
		folder.Order = order
		return tx.Create(&folder).Error
	})
	if err != nil {
		return nil, err
	}
	return &folder, nil
}

func (s *Service) RenameFolder(ctx context.Context, folderID uuid.UUID, title string) (*models.Workfolder, error) {
	folder, err := s.GetFolder(ctx, folderID)
	if err != nil {
		return nil, err
	}
	folder.Title = title
	if err := s.db.WithContext(ctx).Save(folder).Error; err != nil {
		return nil, err
	}
	return folder, nil
}

// DeleteFolder removes the folder and every todo inside it, then
// renumbers the workspace's remaining folders to stay dense.
func (s *Service) DeleteFolder(ctx context.Context, folderID uuid.UUID) error {
	folder, err := s.GetFolder(ctx, folderID)
	if err != nil {
		return err
	}

	scope := ordering.FolderScope(folder.WorkspaceID)
	return s.orders.RemoveAndCompact(ctx, scope, folder.Order, func(tx *gorm.DB) error {
		todoIDs := tx.Model(&models.Todo{}).Select("id").Where("workfolder_id = ?", folder.ID)
		if err := tx.Where("todo_id IN (?)", todoIDs).Delete(&models.ChecklistItem{}).Error; err != nil {
			return err
		}
		todoIDs = tx.Model(&models.Todo{}).Select("id").Where("workfolder_id = ?", folder.ID)
		if err := tx.Where("todo_id IN (?)", todoIDs).Delete(&models.TodoAssignment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("workfolder_id = ?", folder.ID).Delete(&models.Todo{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Workfolder{}, folder.ID).Error
	})
}

type ChecklistInput struct {
	Text      string
	IsChecked bool
}

type CreateTodoInput struct {
	Title        string
	WorkfolderID uuid.UUID
	Status       models.TodoStatus
	Note         string
	Deadline     *time.Time
	Checklists   []ChecklistInput
	Assignments  []uuid.UUID
}

// CreateTodo appends a todo at the end of the folder's list. The folder
// must belong to the given workspace.
func (s *Service) CreateTodo(ctx context.Context, workspaceID uuid.UUID, input CreateTodoInput) (*models.Todo, error) {
	folder, err := s.GetFolder(ctx, input.WorkfolderID)
	if err != nil {
		return nil, err
	}
	if folder.WorkspaceID != workspaceID {
		return nil, ErrFolderNotFound
	}

	status := input.Status
	if status == "" {
		status = models.TodoStatusPending
	}

	todo := models.Todo{
		Title:        input.Title,
		WorkspaceID:  workspaceID,
		WorkfolderID: input.WorkfolderID,
		Status:       status,
		Note:         input.Note,
		Deadline:     input.Deadline,
	}

	err = s.orders.InsertAtEnd(ctx, ordering.TodoScope(input.WorkfolderID), func(tx *gorm.DB, order int) error {
		todo.Order = order
		if err := tx.Create(&todo).Error; err != nil {
			return err
		}
		if err := createChecklists(tx, todo.ID, input.Checklists); err != nil {
			return err
		}
		return createAssignments(tx, todo.ID, input.Assignments)
	})
	if err != nil {
		return nil, err
	}
	return s.GetTodo(ctx, todo.ID)
}

func (s *Service) GetTodo(ctx context.Context, todoID uuid.UUID) (*models.Todo, error) {
	var todo models.Todo
	if err := s.db.WithContext(ctx).
		Preload("Checklists", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Assignments").
		First(&todo, todoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}
	return &todo, nil
}

// TodoPatch carries the optional todo fields; nil fields stay
// untouched. Checklist and assignment slices are wholesale replacements:
// nil leaves the rows alone, an empty slice clears them.
type TodoPatch struct {
	Title       *string
	Status      *models.TodoStatus
	Note        *string
	Deadline    *time.Time
	Checklists  *[]ChecklistInput
	Assignments *[]uuid.UUID
}

// UpdateTodo applies the patch. Moving a todo between folders is not an
// update; that goes through MoveTodo so the order bookkeeping runs.
func (s *Service) UpdateTodo(ctx context.Context, todoID uuid.UUID, patch TodoPatch) (*models.Todo, error) {
	todo, err := s.GetTodo(ctx, todoID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		todo.Title = *patch.Title
	}
	if patch.Status != nil {
		todo.Status = *patch.Status
	}
	if patch.Note != nil {
		todo.Note = *patch.Note
	}
	if patch.Deadline != nil {
		todo.Deadline = patch.Deadline
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Checklists", "Assignments").Save(todo).Error; err != nil {
			return err
		}
		if patch.Checklists != nil {
			if err := tx.Where("todo_id = ?", todo.ID).Delete(&models.ChecklistItem{}).Error; err != nil {
				return err
			}
			if err := createChecklists(tx, todo.ID, *patch.Checklists); err != nil {
				return err
			}
		}
		if patch.Assignments != nil {
			if err := tx.Where("todo_id = ?", todo.ID).Delete(&models.TodoAssignment{}).Error; err != nil {
				return err
			}
			if err := createAssignments(tx, todo.ID, *patch.Assignments); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetTodo(ctx, todoID)
}

// DeleteTodo removes the todo and renumbers the later siblings in its
// folder.
func (s *Service) DeleteTodo(ctx context.Context, todoID uuid.UUID) error {
	todo, err := s.GetTodo(ctx, todoID)
	if err != nil {
		return err
	}

	scope := ordering.TodoScope(todo.WorkfolderID)
	return s.orders.RemoveAndCompact(ctx, scope, todo.Order, func(tx *gorm.DB) error {
		if err := tx.Where("todo_id = ?", todo.ID).Delete(&models.ChecklistItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("todo_id = ?", todo.ID).Delete(&models.TodoAssignment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Todo{}, todo.ID).Error
	})
}

// MoveTodo relocates a todo within its folder or into another folder of
// the same workspace, shifting the affected siblings by one slot.
func (s *Service) MoveTodo(ctx context.Context, todoID, newFolderID uuid.UUID, newOrder int) (*models.Todo, error) {
	todo, err := s.GetTodo(ctx, todoID)
	if err != nil {
		return nil, err
	}

	if newFolderID != todo.WorkfolderID {
		dest, err := s.GetFolder(ctx, newFolderID)
		if err != nil {
			return nil, err
		}
		if dest.WorkspaceID != todo.WorkspaceID {
			return nil, ErrFolderNotFound
		}
	}

	cur := ordering.TodoScope(todo.WorkfolderID)
	dst := ordering.TodoScope(newFolderID)
	err = s.orders.Move(ctx, cur, todo.Order, dst, newOrder, func(tx *gorm.DB, order int) error {
		return tx.Model(&models.Todo{}).
			Where("id = ?", todo.ID).
			Updates(map[string]interface{}{
				"workfolder_id": newFolderID,
				"order":         order,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetTodo(ctx, todoID)
}

func createChecklists(tx *gorm.DB, todoID uuid.UUID, items []ChecklistInput) error {
	for i, item := range items {
		row := models.ChecklistItem{
			TodoID:    todoID,
			Text:      item.Text,
			IsChecked: item.IsChecked,
			Position:  i + 1,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

func createAssignments(tx *gorm.DB, todoID uuid.UUID, userIDs []uuid.UUID) error {
	for _, userID := range userIDs {
		row := models.TodoAssignment{
			TodoID: todoID,
			UserID: userID,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}
