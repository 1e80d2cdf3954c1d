package workspaces_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workhive/workhive/internal/database/models"
	"github.com/workhive/workhive/internal/testutil"
	"github.com/workhive/workhive/internal/workspaces"
)

func TestService_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	service := workspaces.NewService(db)

	ws, err := service.Create(context.Background(), user.ID, "Team Alpha", "team-alpha")
	require.NoError(t, err)
	assert.Equal(t, "Team Alpha", ws.Title)
	require.Len(t, ws.Members, 1)
	assert.Equal(t, user.ID, ws.Members[0].UserID)
	assert.True(t, ws.Members[0].IsAdmin)
	assert.False(t, ws.Members[0].IsPending)

	t.Run("duplicate account", func(t *testing.T) {
		_, err := service.Create(context.Background(), user.ID, "Other", "team-alpha")
		assert.ErrorIs(t, err, workspaces.ErrAccountExists)
	})
}

func TestService_RequestJoin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	admin := testutil.CreateTestUser(t, db)
	ws := testutil.CreateTestWorkspace(t, db, admin)
	joiner := testutil.CreateTestUser(t, db)
	service := workspaces.NewService(db)

	updated, err := service.RequestJoin(context.Background(), ws.Account, joiner.ID)
	require.NoError(t, err)
	require.Len(t, updated.Members, 2)

	member, err := service.GetMember(context.Background(), ws.Account, joiner.ID)
	require.NoError(t, err)
	assert.True(t, member.IsPending)
	assert.False(t, member.IsAdmin)

	t.Run("pending member is not a member", func(t *testing.T) {
		ok, err := service.IsMember(context.Background(), ws.Account, joiner.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("second request rejected", func(t *testing.T) {
		_, err := service.RequestJoin(context.Background(), ws.Account, joiner.ID)
		assert.ErrorIs(t, err, workspaces.ErrAlreadyMember)
	})

	t.Run("approval grants membership", func(t *testing.T) {
		pending := false
		_, err := service.UpdateMemberStatus(context.Background(), ws.Account, joiner.ID, workspaces.MemberStatusPatch{
			IsPending: &pending,
		})
		require.NoError(t, err)

		ok, err := service.IsMember(context.Background(), ws.Account, joiner.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		isAdmin, err := service.IsAdmin(context.Background(), ws.Account, joiner.ID)
		require.NoError(t, err)
		assert.False(t, isAdmin)
	})
}

func TestService_RemoveMemberCascades(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	admin := testutil.CreateTestUser(t, db)
	ws := testutil.CreateTestWorkspace(t, db, admin)
	member := testutil.CreateTestUser(t, db)
	testutil.AddTestMember(t, db, ws, member, false, false)

	folder := testutil.CreateTestFolder(t, db, ws, "inbox", 1)
	todo := testutil.CreateTestTodo(t, db, ws, folder, "task", 1)
	require.NoError(t, db.Create(&models.TodoAssignment{TodoID: todo.ID, UserID: member.ID}).Error)

	vote := testutil.CreateTestVote(t, db, ws, admin, "lunch", "pizza", "sushi")
	require.NoError(t, db.Create(&models.VoteResult{
		WorkspaceID: ws.ID,
		VoteID:      vote.ID,
		UserID:      member.ID,
		Option:      "pizza",
	}).Error)

	service := workspaces.NewService(db)
	_, err := service.RemoveMember(context.Background(), ws.Account, member.ID)
	require.NoError(t, err)

	var assignments int64
	require.NoError(t, db.Model(&models.TodoAssignment{}).Where("user_id = ?", member.ID).Count(&assignments).Error)
	assert.Zero(t, assignments)

	var results int64
	require.NoError(t, db.Model(&models.VoteResult{}).Where("user_id = ?", member.ID).Count(&results).Error)
	assert.Zero(t, results)

	_, err = service.GetMember(context.Background(), ws.Account, member.ID)
	assert.ErrorIs(t, err, workspaces.ErrMemberNotFound)
}

func TestService_DeleteIsIdempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	admin := testutil.CreateTestUser(t, db)
	ws := testutil.CreateTestWorkspace(t, db, admin)

	folder := testutil.CreateTestFolder(t, db, ws, "inbox", 1)
	todo := testutil.CreateTestTodo(t, db, ws, folder, "task", 1)
	require.NoError(t, db.Create(&models.ChecklistItem{TodoID: todo.ID, Text: "step", Position: 1}).Error)
	require.NoError(t, db.Create(&models.TodoAssignment{TodoID: todo.ID, UserID: admin.ID}).Error)

	vote := testutil.CreateTestVote(t, db, ws, admin, "lunch", "pizza", "sushi")
	require.NoError(t, db.Create(&models.VoteResult{
		WorkspaceID: ws.ID,
		VoteID:      vote.ID,
		UserID:      admin.ID,
		Option:      "pizza",
	}).Error)

	service := workspaces.NewService(db)
	require.NoError(t, service.Delete(context.Background(), ws.Account))

	// Second delete reports not found.
	assert.ErrorIs(t, service.Delete(context.Background(), ws.Account), workspaces.ErrNotFound)

	// Zero orphans anywhere.
	for _, model := range []interface{}{
		&models.Todo{}, &models.Workfolder{}, &models.ChecklistItem{},
		&models.TodoAssignment{}, &models.Vote{}, &models.VoteOption{},
		&models.VoteResult{}, &models.WorkspaceMember{},
	} {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		assert.Zero(t, count, "orphaned rows in %T", model)
	}
}

func TestService_UpdateTitleAndSlackURL(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	admin := testutil.CreateTestUser(t, db)
	ws := testutil.CreateTestWorkspace(t, db, admin)
	service := workspaces.NewService(db)

	updated, err := service.UpdateTitle(context.Background(), ws.Account, "Renamed")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)

	updated, err = service.UpdateSlackURL(context.Background(), ws.Account, "https://hooks.slack.com/services/T/B/x")
	require.NoError(t, err)
	assert.Equal(t, "https://hooks.slack.com/services/T/B/x", updated.SlackURL)

	_, err = service.UpdateTitle(context.Background(), "no-such-account", "x")
	assert.ErrorIs(t, err, workspaces.ErrNotFound)
}

func TestService_ListByUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)
	ws1 := testutil.CreateTestWorkspace(t, db, user)
	testutil.CreateTestWorkspace(t, db, other)
	ws3 := testutil.CreateTestWorkspace(t, db, other)
	testutil.AddTestMember(t, db, ws3, user, false, true)

	service := workspaces.NewService(db)
	list, err := service.ListByUser(context.Background(), user.ID)
	require.NoError(t, err)

	accounts := make([]string, len(list))
	for i, ws := range list {
		accounts[i] = ws.Account
	}
	assert.ElementsMatch(t, []string{ws1.Account, ws3.Account}, accounts)
}
