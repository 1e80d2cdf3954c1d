package tasks_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workhive/workhive/internal/database/models"
	"github.com/workhive/workhive/internal/notify"
	"github.com/workhive/workhive/internal/tasks"
	"github.com/workhive/workhive/internal/testutil"
)

// slackCapture records every webhook payload posted to it.
type slackCapture struct {
	server   *httptest.Server
	messages []notify.SlackMessage
}

func newSlackCapture(t *testing.T) *slackCapture {
	t.Helper()

	c := &slackCapture{}
	c.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var msg notify.SlackMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&msg))
		c.messages = append(c.messages, msg)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(c.server.Close)
	return c
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHandler_VoteDueReminder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	capture := newSlackCapture(t)

	user := testutil.CreateTestUser(t, db)
	ws := testutil.CreateTestWorkspace(t, db, user)
	require.NoError(t, db.Model(&models.Workspace{}).
		Where("id = ?", ws.ID).
		Update("slack_url", capture.server.URL).Error)

	// One vote closing within the hour, one far out, one with no due
	// date at all.
	soon := time.Now().Add(30 * time.Minute)
	far := time.Now().Add(72 * time.Hour)
	closing := testutil.CreateTestVote(t, db, ws, user, "closing soon", "a", "b")
	require.NoError(t, db.Model(&models.Vote{}).Where("id = ?", closing.ID).Update("due_date", soon).Error)
	later := testutil.CreateTestVote(t, db, ws, user, "much later", "a", "b")
	require.NoError(t, db.Model(&models.Vote{}).Where("id = ?", later.ID).Update("due_date", far).Error)
	testutil.CreateTestVote(t, db, ws, user, "open ended", "a", "b")

	handler := tasks.NewHandler(db, discardLogger(), notify.NewSlackNotifier())
	err := handler.HandleVoteDueReminder(context.Background(), tasks.NewVoteDueReminderTask())
	require.NoError(t, err)

	require.Len(t, capture.messages, 1)
	assert.Contains(t, capture.messages[0].Text, "closing soon")
	assert.NotContains(t, capture.messages[0].Text, "much later")
}

func TestHandler_VoteResultReport(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	capture := newSlackCapture(t)

	user := testutil.CreateTestUser(t, db)
	ws := testutil.CreateTestWorkspace(t, db, user)
	require.NoError(t, db.Model(&models.Workspace{}).
		Where("id = ?", ws.ID).
		Update("slack_url", capture.server.URL).Error)

	justClosed := time.Now().Add(-10 * time.Minute)
	vote := testutil.CreateTestVote(t, db, ws, user, "lunch", "pizza", "sushi")
	require.NoError(t, db.Model(&models.Vote{}).Where("id = ?", vote.ID).Update("due_date", justClosed).Error)
	require.NoError(t, db.Create(&models.VoteResult{
		WorkspaceID: ws.ID,
		VoteID:      vote.ID,
		UserID:      user.ID,
		Option:      "pizza",
	}).Error)

	handler := tasks.NewHandler(db, discardLogger(), notify.NewSlackNotifier())
	err := handler.HandleVoteResultReport(context.Background(), tasks.NewVoteResultReportTask())
	require.NoError(t, err)

	require.Len(t, capture.messages, 1)
	msg := capture.messages[0]
	assert.Contains(t, msg.Text, "lunch")
	require.Len(t, msg.Attachments, 1)
	require.NotEmpty(t, msg.Attachments[0].Fields)
	assert.Equal(t, "pizza", msg.Attachments[0].Fields[0].Title)
	assert.Equal(t, "1", msg.Attachments[0].Fields[0].Value)
}

func TestHandler_WeeklyTodoReport(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	capture := newSlackCapture(t)

	user := testutil.CreateTestUser(t, db)
	ws := testutil.CreateTestWorkspace(t, db, user)
	require.NoError(t, db.Model(&models.Workspace{}).
		Where("id = ?", ws.ID).
		Update("slack_url", capture.server.URL).Error)

	folder := testutil.CreateTestFolder(t, db, ws, "inbox", 1)
	testutil.CreateTestTodo(t, db, ws, folder, "a", 1)
	testutil.CreateTestTodo(t, db, ws, folder, "b", 2)

	// A workspace without a webhook is skipped entirely.
	silent := testutil.CreateTestWorkspace(t, db, user)
	silentFolder := testutil.CreateTestFolder(t, db, silent, "quiet", 1)
	testutil.CreateTestTodo(t, db, silent, silentFolder, "c", 1)

	handler := tasks.NewHandler(db, discardLogger(), notify.NewSlackNotifier())
	err := handler.HandleWeeklyTodoReport(context.Background(), tasks.NewWeeklyTodoReportTask())
	require.NoError(t, err)

	require.Len(t, capture.messages, 1)
	msg := capture.messages[0]
	require.Len(t, msg.Attachments, 1)
	require.Len(t, msg.Attachments[0].Fields, 1)
	assert.Equal(t, "pending", msg.Attachments[0].Fields[0].Title)
	assert.Equal(t, "2", msg.Attachments[0].Fields[0].Value)
}
