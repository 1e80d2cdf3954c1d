package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/workhive/workhive/internal/database/models"
	"github.com/workhive/workhive/internal/notify"
	"github.com/workhive/workhive/internal/votes"
	"gorm.io/gorm"
)

type Handler struct {
	db          *gorm.DB
	logger      *slog.Logger
	notifier    notify.Notifier
	voteService *votes.Service
}

func NewHandler(db *gorm.DB, logger *slog.Logger, notifier notify.Notifier) *Handler {
	return &Handler{
		db:          db,
		logger:      logger,
		notifier:    notifier,
		voteService: votes.NewService(db),
	}
}

func (h *Handler) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeVoteDueReminder, h.HandleVoteDueReminder)
	mux.HandleFunc(TypeVoteResultReport, h.HandleVoteResultReport)
	mux.HandleFunc(TypeWeeklyTodoReport, h.HandleWeeklyTodoReport)
}

// HandleVoteDueReminder posts a reminder for every vote closing within
// the next hour, to workspaces that have a Slack webhook.
func (h *Handler) HandleVoteDueReminder(ctx context.Context, t *asynq.Task) error {
	now := time.Now()
	cutoff := now.Add(time.Hour)

	workspaces, err := h.notifiableWorkspaces(ctx)
	if err != nil {
		return err
	}

	for _, ws := range workspaces {
		var due []models.Vote
		if err := h.db.WithContext(ctx).
			Where("workspace_id = ? AND due_date > ? AND due_date <= ?", ws.ID, now, cutoff).
			Find(&due).Error; err != nil {
			return err
		}
		if len(due) == 0 {
			continue
		}

		lines := make([]string, len(due))
		for i, vote := range due {
			lines[i] = fmt.Sprintf("• *%s* closes at %s", vote.Title, vote.DueDate.Format("15:04 MST"))
		}

		msg := notify.SlackMessage{
			IconEmoji: ":hourglass_flowing_sand:",
			Text:      fmt.Sprintf(":hourglass_flowing_sand: *Votes closing soon in %s*\n%s", ws.Title, strings.Join(lines, "\n")),
		}
		if err := h.notifier.Send(ctx, ws.SlackURL, msg); err != nil {
			h.logger.Error("vote due reminder failed", "workspace", ws.Account, "error", err)
		}
	}

	h.logger.Info("vote due reminder sweep done", "workspaces", len(workspaces))
	return nil
}

// HandleVoteResultReport posts the tally for every vote that closed in
// the past hour.
func (h *Handler) HandleVoteResultReport(ctx context.Context, t *asynq.Task) error {
	now := time.Now()
	since := now.Add(-time.Hour)

	workspaces, err := h.notifiableWorkspaces(ctx)
	if err != nil {
		return err
	}

	for _, ws := range workspaces {
		var closed []models.Vote
		if err := h.db.WithContext(ctx).
			Where("workspace_id = ? AND due_date > ? AND due_date <= ?", ws.ID, since, now).
			Find(&closed).Error; err != nil {
			return err
		}

		for _, vote := range closed {
			counts, err := h.voteService.Aggregate(ctx, vote.ID)
			if err != nil {
				h.logger.Error("vote aggregation failed", "vote_id", vote.ID, "error", err)
				continue
			}

			fields := make([]notify.SlackField, len(counts))
			for i, c := range counts {
				fields[i] = notify.SlackField{Title: c.Option, Value: fmt.Sprintf("%d", c.Count), Short: true}
			}

			msg := notify.SlackMessage{
				IconEmoji: ":ballot_box_with_ballot:",
				Text:      fmt.Sprintf(":ballot_box_with_ballot: *Vote closed: %s*", vote.Title),
				Attachments: []notify.SlackAttachment{
					{
						Color:     "good",
						Title:     "Final results",
						Fields:    fields,
						Footer:    ws.Title,
						Timestamp: now.Unix(),
					},
				},
			}
			if err := h.notifier.Send(ctx, ws.SlackURL, msg); err != nil {
				h.logger.Error("vote result report failed", "workspace", ws.Account, "error", err)
			}
		}
	}

	return nil
}

// HandleWeeklyTodoReport posts a per-workspace status summary of open
// todos.
func (h *Handler) HandleWeeklyTodoReport(ctx context.Context, t *asynq.Task) error {
	workspaces, err := h.notifiableWorkspaces(ctx)
	if err != nil {
		return err
	}

	for _, ws := range workspaces {
		type statusCount struct {
			Status models.TodoStatus
			Count  int64
		}
		var counts []statusCount
		if err := h.db.WithContext(ctx).
			Model(&models.Todo{}).
			Select("status, COUNT(*) AS count").
			Where("workspace_id = ?", ws.ID).
			Group("status").
			Scan(&counts).Error; err != nil {
			return err
		}
		if len(counts) == 0 {
			continue
		}

		fields := make([]notify.SlackField, len(counts))
		for i, c := range counts {
			fields[i] = notify.SlackField{Title: string(c.Status), Value: fmt.Sprintf("%d", c.Count), Short: true}
		}

		msg := notify.SlackMessage{
			IconEmoji: ":clipboard:",
			Text:      fmt.Sprintf(":clipboard: *Weekly todo report for %s*", ws.Title),
			Attachments: []notify.SlackAttachment{
				{
					Color:     "#36a64f",
					Title:     "Todos by status",
					Fields:    fields,
					Footer:    ws.Title,
					Timestamp: time.Now().Unix(),
				},
			},
		}
		if err := h.notifier.Send(ctx, ws.SlackURL, msg); err != nil {
			h.logger.Error("weekly todo report failed", "workspace", ws.Account, "error", err)
		}
	}

	return nil
}

func (h *Handler) notifiableWorkspaces(ctx context.Context) ([]models.Workspace, error) {
	var workspaces []models.Workspace
	err := h.db.WithContext(ctx).
		Where("slack_url <> ''").
		Find(&workspaces).Error
	return workspaces, err
}
