// Package workspaces implements workspace lifecycle, the membership
// gate, and the cascades that keep dependent rows consistent when a
// workspace or a membership goes away.
package workspaces

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/workhive/workhive/internal/database/models"
	"gorm.io/gorm"
)

var (
	ErrNotFound       = errors.New("workspace not found")
	ErrAccountExists  = errors.New("account already exists")
	ErrMemberNotFound = errors.New("member not found")
	ErrAlreadyMember  = errors.New("user is already a member")
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Create makes a new workspace with the creator as its sole admin
// member. The account slug must be globally unique.
func (s *Service) Create(ctx context.Context, creatorID uuid.UUID, title, account string) (*models.Workspace, error) {
	var existing models.Workspace
	if err := s.db.WithContext(ctx).Where("account = ?", account).First(&existing).Error; err == nil {
		return nil, ErrAccountExists
	}

	workspace := models.Workspace{
		Title:   title,
		Account: account,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&workspace).Error; err != nil {
			return err
		}
		member := models.WorkspaceMember{
			WorkspaceID: workspace.ID,
			UserID:      creatorID,
			IsAdmin:     true,
			IsPending:   false,
		}
		return tx.Create(&member).Error
	})
	if err != nil {
		return nil, err
	}

	return s.GetByAccount(ctx, account)
}

func (s *Service) GetByAccount(ctx context.Context, account string) (*models.Workspace, error) {
	var workspace models.Workspace
	if err := s.db.WithContext(ctx).
		Preload("Members").
		Where("account = ?", account).
		First(&workspace).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &workspace, nil
}

// ListByUser returns every workspace the user has a member row in,
// pending memberships included.
func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Workspace, error) {
	var workspaces []models.Workspace
	err := s.db.WithContext(ctx).
		Preload("Members").
		Where("id IN (?)", s.db.Model(&models.WorkspaceMember{}).
			Select("workspace_id").
			Where("user_id = ?", userID)).
		Find(&workspaces).Error
	return workspaces, err
}

func (s *Service) UpdateTitle(ctx context.Context, account, title string) (*models.Workspace, error) {
	if err := s.updateColumn(ctx, account, "title", title); err != nil {
		return nil, err
	}
	return s.GetByAccount(ctx, account)
}

func (s *Service) UpdateSlackURL(ctx context.Context, account, slackURL string) (*models.Workspace, error) {
	if err := s.updateColumn(ctx, account, "slack_url", slackURL); err != nil {
		return nil, err
	}
	return s.GetByAccount(ctx, account)
}

func (s *Service) updateColumn(ctx context.Context, account, column string, value interface{}) error {
	result := s.db.WithContext(ctx).Model(&models.Workspace{}).
		Where("account = ?", account).
		Update(column, value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetMember returns the member row for the user, pending or not.
func (s *Service) GetMember(ctx context.Context, account string, userID uuid.UUID) (*models.WorkspaceMember, error) {
	workspace, err := s.GetByAccount(ctx, account)
	if err != nil {
		return nil, err
	}

	var member models.WorkspaceMember
	if err := s.db.WithContext(ctx).
		Where("workspace_id = ? AND user_id = ?", workspace.ID, userID).
		First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

// IsMember reports whether the user is an approved member. Pending
// members have no access beyond the entry request itself.
func (s *Service) IsMember(ctx context.Context, account string, userID uuid.UUID) (bool, error) {
	member, err := s.GetMember(ctx, account, userID)
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) || errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return !member.IsPending, nil
}

func (s *Service) IsAdmin(ctx context.Context, account string, userID uuid.UUID) (bool, error) {
	member, err := s.GetMember(ctx, account, userID)
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) || errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return member.IsAdmin && !member.IsPending, nil
}

// RequestJoin creates a pending member row for the user. The composite
// unique index on (workspace_id, user_id) backs up the existence check.
func (s *Service) RequestJoin(ctx context.Context, account string, userID uuid.UUID) (*models.Workspace, error) {
	workspace, err := s.GetByAccount(ctx, account)
	if err != nil {
		return nil, err
	}

	if _, err := s.GetMember(ctx, account, userID); err == nil {
		return nil, ErrAlreadyMember
	} else if !errors.Is(err, ErrMemberNotFound) {
		return nil, err
	}

	member := models.WorkspaceMember{
		WorkspaceID: workspace.ID,
		UserID:      userID,
		IsAdmin:     false,
		IsPending:   true,
	}
	if err := s.db.WithContext(ctx).Create(&member).Error; err != nil {
		return nil, err
	}

	return s.GetByAccount(ctx, account)
}

// MemberStatusPatch carries the optional membership flags; nil fields
// stay untouched.
type MemberStatusPatch struct {
	IsAdmin   *bool
	IsPending *bool
}

// UpdateMemberStatus applies admin promotion/demotion and pending
// approval to one member row.
func (s *Service) UpdateMemberStatus(ctx context.Context, account string, userID uuid.UUID, patch MemberStatusPatch) (*models.Workspace, error) {
	member, err := s.GetMember(ctx, account, userID)
	if err != nil {
		return nil, err
	}

	if patch.IsAdmin != nil {
		member.IsAdmin = *patch.IsAdmin
	}
	if patch.IsPending != nil {
		member.IsPending = *patch.IsPending
	}

	if err := s.db.WithContext(ctx).Save(member).Error; err != nil {
		return nil, err
	}
	return s.GetByAccount(ctx, account)
}

// RemoveMember drops the member row and revokes the user's traces in
// the workspace: todo assignments are detached and their vote results
// deleted. All three steps commit atomically.
func (s *Service) RemoveMember(ctx context.Context, account string, userID uuid.UUID) (*models.Workspace, error) {
	workspace, err := s.GetByAccount(ctx, account)
	if err != nil {
		return nil, err
	}
	if _, err := s.GetMember(ctx, account, userID); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("workspace_id = ? AND user_id = ?", workspace.ID, userID).
			Delete(&models.WorkspaceMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ? AND todo_id IN (?)", userID,
			tx.Model(&models.Todo{}).Select("id").Where("workspace_id = ?", workspace.ID)).
			Delete(&models.TodoAssignment{}).Error; err != nil {
			return err
		}
		return tx.Where("workspace_id = ? AND user_id = ?", workspace.ID, userID).
			Delete(&models.VoteResult{}).Error
	})
	if err != nil {
		return nil, err
	}

	return s.GetByAccount(ctx, account)
}

// Delete removes the workspace and everything it owns: checklist items,
// assignments, todos, workfolders, vote options, vote results, votes and
// member rows, in one transaction. A second delete of the same account
// reports ErrNotFound and changes nothing.
func (s *Service) Delete(ctx context.Context, account string) error {
	workspace, err := s.GetByAccount(ctx, account)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		todoIDs := tx.Model(&models.Todo{}).Select("id").Where("workspace_id = ?", workspace.ID)
		if err := tx.Where("todo_id IN (?)", todoIDs).Delete(&models.ChecklistItem{}).Error; err != nil {
			return err
		}
		todoIDs = tx.Model(&models.Todo{}).Select("id").Where("workspace_id = ?", workspace.ID)
		if err := tx.Where("todo_id IN (?)", todoIDs).Delete(&models.TodoAssignment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("workspace_id = ?", workspace.ID).Delete(&models.Todo{}).Error; err != nil {
			return err
		}
		if err := tx.Where("workspace_id = ?", workspace.ID).Delete(&models.Workfolder{}).Error; err != nil {
			return err
		}
		voteIDs := tx.Model(&models.Vote{}).Select("id").Where("workspace_id = ?", workspace.ID)
		if err := tx.Where("vote_id IN (?)", voteIDs).Delete(&models.VoteOption{}).Error; err != nil {
			return err
		}
		if err := tx.Where("workspace_id = ?", workspace.ID).Delete(&models.VoteResult{}).Error; err != nil {
			return err
		}
		if err := tx.Where("workspace_id = ?", workspace.ID).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("workspace_id = ?", workspace.ID).Delete(&models.WorkspaceMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Workspace{}, workspace.ID).Error
	})
}
