package tasks

import (
	"github.com/hibiken/asynq"
)

// Task type names
const (
	TypeVoteDueReminder  = "notify:vote_due_reminder"
	TypeVoteResultReport = "notify:vote_result_report"
	TypeWeeklyTodoReport = "notify:weekly_todo_report"
)

// The notification tasks carry no payload: each run sweeps every
// workspace that has a Slack webhook configured.

func NewVoteDueReminderTask() *asynq.Task {
	return asynq.NewTask(TypeVoteDueReminder, nil)
}

func NewVoteResultReportTask() *asynq.Task {
	return asynq.NewTask(TypeVoteResultReport, nil)
}

func NewWeeklyTodoReportTask() *asynq.Task {
	return asynq.NewTask(TypeWeeklyTodoReport, nil)
}
