// Package votes implements workspace polls: vote lifecycle, one-result-
// per-member submission, owner-gated result updates and aggregation.
package votes

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/workhive/workhive/internal/database/models"
	"gorm.io/gorm"
)

var (
	ErrVoteNotFound   = errors.New("vote not found")
	ErrResultNotFound = errors.New("result not found")
	ErrAlreadyVoted   = errors.New("already voted")
	ErrNotOwner       = errors.New("result belongs to another user")
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]models.Vote, error) {
	var votes []models.Vote
	err := s.db.WithContext(ctx).
		Preload("Options").
		Where("workspace_id = ?", workspaceID).
		Order("created_at").
		Find(&votes).Error
	return votes, err
}

func (s *Service) Get(ctx context.Context, voteID uuid.UUID) (*models.Vote, error) {
	var vote models.Vote
	if err := s.db.WithContext(ctx).
		Preload("Options").
		First(&vote, voteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVoteNotFound
		}
		return nil, err
	}
	return &vote, nil
}

func (s *Service) Create(ctx context.Context, workspaceID, creatorID uuid.UUID, title string, options []string, dueDate *time.Time) (*models.Vote, error) {
	vote := models.Vote{
		Title:       title,
		CreatorID:   &creatorID,
		WorkspaceID: workspaceID,
		DueDate:     dueDate,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&vote).Error; err != nil {
			return err
		}
		return createOptions(tx, vote.ID, options)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, vote.ID)
}

// VotePatch carries the optional vote fields; nil fields stay
// untouched. A non-nil Options slice wholesale-replaces the option rows.
type VotePatch struct {
	Title   *string
	Options *[]string
	DueDate *time.Time
}

func (s *Service) Update(ctx context.Context, voteID uuid.UUID, patch VotePatch) (*models.Vote, error) {
	vote, err := s.Get(ctx, voteID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		vote.Title = *patch.Title
	}
	if patch.DueDate != nil {
		vote.DueDate = patch.DueDate
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Options").Save(vote).Error; err != nil {
			return err
		}
		if patch.Options != nil {
			if err := tx.Where("vote_id = ?", vote.ID).Delete(&models.VoteOption{}).Error; err != nil {
				return err
			}
			return createOptions(tx, vote.ID, *patch.Options)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, voteID)
}

// Delete removes the vote with its options and every submitted result,
// atomically.
func (s *Service) Delete(ctx context.Context, voteID uuid.UUID) error {
	vote, err := s.Get(ctx, voteID)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("vote_id = ?", vote.ID).Delete(&models.VoteResult{}).Error; err != nil {
			return err
		}
		if err := tx.Where("vote_id = ?", vote.ID).Delete(&models.VoteOption{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Vote{}, vote.ID).Error
	})
}

// SubmitResult records one member's choice. A second submission for the
// same (vote, user) pair is rejected; the composite unique index backs
// up the existence check.
func (s *Service) SubmitResult(ctx context.Context, voteID, userID uuid.UUID, option string) (*models.VoteResult, error) {
	vote, err := s.Get(ctx, voteID)
	if err != nil {
		return nil, err
	}

	var existing models.VoteResult
	err = s.db.WithContext(ctx).
		Where("vote_id = ? AND user_id = ?", voteID, userID).
		First(&existing).Error
	if err == nil {
		return nil, ErrAlreadyVoted
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	result := models.VoteResult{
		WorkspaceID: vote.WorkspaceID,
		VoteID:      voteID,
		UserID:      userID,
		Option:      option,
	}
	if err := s.db.WithContext(ctx).Create(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateResult changes the chosen option. Only the original voter may
// touch their result.
func (s *Service) UpdateResult(ctx context.Context, resultID, actorID uuid.UUID, option string) (*models.VoteResult, error) {
	var result models.VoteResult
	if err := s.db.WithContext(ctx).First(&result, resultID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResultNotFound
		}
		return nil, err
	}

	if result.UserID != actorID {
		return nil, ErrNotOwner
	}

	result.Option = option
	if err := s.db.WithContext(ctx).Save(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

// OptionCount is one aggregated tally line.
type OptionCount struct {
	Option string `json:"option"`
	Count  int64  `json:"count"`
}

// Aggregate tallies submitted results per option, highest first.
func (s *Service) Aggregate(ctx context.Context, voteID uuid.UUID) ([]OptionCount, error) {
	if _, err := s.Get(ctx, voteID); err != nil {
		return nil, err
	}

	var counts []OptionCount
	err := s.db.WithContext(ctx).
		Model(&models.VoteResult{}).
		Select(`option, COUNT(*) AS count`).
		Where("vote_id = ?", voteID).
		Group("option").
		Order("count DESC").
		Scan(&counts).Error
	return counts, err
}

func createOptions(tx *gorm.DB, voteID uuid.UUID, options []string) error {
	for _, text := range options {
		row := models.VoteOption{
			VoteID: voteID,
			Text:   text,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}
