// Package users implements profile management and the account deletion
// cascade.
package users

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/workhive/workhive/internal/auth"
	"github.com/workhive/workhive/internal/database/models"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrWrongPassword = errors.New("original password does not match")
	// ErrSoleAdmin blocks account deletion while the user is the only
	// admin of a workspace that still has other members.
	ErrSoleAdmin = errors.New("user is the sole admin of a workspace")
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ProfilePatch carries the optional profile fields; nil fields stay
// untouched.
type ProfilePatch struct {
	FirstName    *string
	LastName     *string
	PlatformMode *models.PlatformMode
}

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, patch ProfilePatch) (*models.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.FirstName != nil {
		user.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		user.LastName = *patch.LastName
	}
	if patch.PlatformMode != nil {
		user.PlatformMode = *patch.PlatformMode
	}

	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword verifies the original password before storing the new
// hash.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, original, updated string) error {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}

	if !auth.CheckPassword(original, user.PasswordHash) {
		return ErrWrongPassword
	}

	hash, err := auth.HashPassword(updated)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Model(user).
		Update("password_hash", hash).Error
}

// Delete removes the account and every per-workspace trace of it:
// member rows, todo assignments and vote results go away, votes the
// user created stay with a nulled creator. The whole cascade commits
// atomically.
//
// Deletion is refused while the user is the only admin of a workspace
// that still has other approved members; the workspace would be left
// unmanageable.
func (s *Service) Delete(ctx context.Context, userID uuid.UUID) error {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}

	soleAdmin, err := s.isSoleAdminSomewhere(ctx, user.ID)
	if err != nil {
		return err
	}
	if soleAdmin {
		return ErrSoleAdmin
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.WorkspaceMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.TodoAssignment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.VoteResult{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Vote{}).
			Where("creator_id = ?", user.ID).
			Update("creator_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, user.ID).Error
	})
}

func (s *Service) isSoleAdminSomewhere(ctx context.Context, userID uuid.UUID) (bool, error) {
	var adminRows []models.WorkspaceMember
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND is_admin = ? AND is_pending = ?", userID, true, false).
		Find(&adminRows).Error; err != nil {
		return false, err
	}

	for _, row := range adminRows {
		var others int64
		if err := s.db.WithContext(ctx).Model(&models.WorkspaceMember{}).
			Where("workspace_id = ? AND user_id <> ? AND is_pending = ?", row.WorkspaceID, userID, false).
			Count(&others).Error; err != nil {
			return false, err
		}
		if others == 0 {
			continue
		}

		var otherAdmins int64
		if err := s.db.WithContext(ctx).Model(&models.WorkspaceMember{}).
			Where("workspace_id = ? AND user_id <> ? AND is_admin = ? AND is_pending = ?", row.WorkspaceID, userID, true, false).
			Count(&otherAdmins).Error; err != nil {
			return false, err
		}
		if otherAdmins == 0 {
			return true, nil
		}
	}
	return false, nil
}
