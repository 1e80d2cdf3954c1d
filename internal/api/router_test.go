package api_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workhive/workhive/internal/api"
	"github.com/workhive/workhive/internal/auth"
	"github.com/workhive/workhive/internal/database/models"
	"github.com/workhive/workhive/internal/testutil"
)

func setupRouter(t *testing.T) (*api.Router, *testutil.TestSetup) {
	t.Helper()

	tc := testutil.NewTestContext(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := api.NewRouter(api.RouterConfig{
		DB:          tc.DB,
		Logger:      logger,
		JWTService:  tc.JWTService,
		AuthService: auth.NewService(tc.DB, tc.JWTService),
	})

	return router, tc
}

func do(t *testing.T, router *api.Router, req *http.Request) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	var body map[string]interface{}
	if len(rr.Body.Bytes()) > 0 && json.Valid(rr.Body.Bytes()) {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	}
	return rr, body
}

func TestRouter_AuthFlow(t *testing.T) {
	router, tc := setupRouter(t)
	defer tc.Cleanup()

	register := map[string]string{
		"firstname": "New",
		"lastname":  "User",
		"email":     "new@example.com",
		"password":  "securepassword",
	}

	rr, body := do(t, router, testutil.UnauthenticatedRequest(t, "POST", "/auth/register", register))
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, true, body["OK"])

	t.Run("duplicate email", func(t *testing.T) {
		rr, body := do(t, router, testutil.UnauthenticatedRequest(t, "POST", "/auth/register", register))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, false, body["OK"])
	})

	t.Run("login issues token", func(t *testing.T) {
		rr, body := do(t, router, testutil.UnauthenticatedRequest(t, "POST", "/auth/login", map[string]string{
			"email":    "new@example.com",
			"password": "securepassword",
		}))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, true, body["OK"])
		assert.NotEmpty(t, body["token"])
	})

	t.Run("wrong password", func(t *testing.T) {
		rr, _ := do(t, router, testutil.UnauthenticatedRequest(t, "POST", "/auth/login", map[string]string{
			"email":    "new@example.com",
			"password": "wrongpassword",
		}))
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		rr, body := do(t, router, testutil.UnauthenticatedRequest(t, "POST", "/auth/register", map[string]string{}))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.NotEmpty(t, body["details"])
	})
}

func TestRouter_RequiresAuth(t *testing.T) {
	router, tc := setupRouter(t)
	defer tc.Cleanup()

	rr, _ := do(t, router, testutil.UnauthenticatedRequest(t, "GET", "/workspace/"+tc.Workspace.Account, nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRouter_SelfOnlyUserRoutes(t *testing.T) {
	router, tc := setupRouter(t)
	defer tc.Cleanup()

	other := testutil.CreateTestUser(t, tc.DB)

	rr, _ := do(t, router, testutil.AuthenticatedRequest(t, "GET", "/user/"+other.ID.String(), nil, tc.Token))
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr, body := do(t, router, testutil.AuthenticatedRequest(t, "GET", "/user/"+tc.User.ID.String(), nil, tc.Token))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, true, body["OK"])
}

func TestRouter_PendingMemberGetsForbidden(t *testing.T) {
	router, tc := setupRouter(t)
	defer tc.Cleanup()

	pending := testutil.CreateTestUser(t, tc.DB)
	testutil.AddTestMember(t, tc.DB, tc.Workspace, pending, false, true)
	pendingToken := testutil.GenerateTestToken(t, tc.JWTService, pending)

	paths := []struct {
		method string
		path   string
		body   interface{}
	}{
		{"GET", "/workspace/" + tc.Workspace.Account, nil},
		{"POST", "/workspace/" + tc.Workspace.Account + "/workfolder", map[string]string{"title": "x"}},
		{"POST", "/workspace/" + tc.Workspace.Account + "/vote", map[string]interface{}{"title": "x", "options": []string{"a", "b"}}},
	}
	for _, p := range paths {
		rr, _ := do(t, router, testutil.AuthenticatedRequest(t, p.method, p.path, p.body, pendingToken))
		assert.Equal(t, http.StatusForbidden, rr.Code, "%s %s should be gated", p.method, p.path)
	}
}

func TestRouter_NonAdminCannotUseAdminRoutes(t *testing.T) {
	router, tc := setupRouter(t)
	defer tc.Cleanup()

	member := testutil.CreateTestUser(t, tc.DB)
	testutil.AddTestMember(t, tc.DB, tc.Workspace, member, false, false)
	memberToken := testutil.GenerateTestToken(t, tc.JWTService, member)

	rr, _ := do(t, router, testutil.AuthenticatedRequest(t, "PATCH", "/workspace/admin/"+tc.Workspace.Account,
		map[string]string{"title": "hijacked"}, memberToken))
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr, _ = do(t, router, testutil.AuthenticatedRequest(t, "DELETE", "/workspace/admin/"+tc.Workspace.Account, nil, memberToken))
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestRouter_TodoLifecycle(t *testing.T) {
	router, tc := setupRouter(t)
	defer tc.Cleanup()

	base := "/workspace/" + tc.Workspace.Account

	// Create a folder.
	rr, body := do(t, router, testutil.AuthenticatedRequest(t, "POST", base+"/workfolder",
		map[string]string{"title": "sprint"}, tc.Token))
	require.Equal(t, http.StatusCreated, rr.Code)
	folder := body["data"].(map[string]interface{})
	folderID := folder["id"].(string)
	assert.Equal(t, float64(1), folder["order"])

	// Create two todos in it.
	var todoIDs []string
	for _, title := range []string{"first", "second"} {
		rr, body = do(t, router, testutil.AuthenticatedRequest(t, "POST", base+"/todo", map[string]interface{}{
			"title":         title,
			"workfolder_id": folderID,
		}, tc.Token))
		require.Equal(t, http.StatusCreated, rr.Code)
		todoIDs = append(todoIDs, body["data"].(map[string]interface{})["id"].(string))
	}

	// Move the second todo to the front.
	rr, body = do(t, router, testutil.AuthenticatedRequest(t, "PATCH", base+"/todo/"+todoIDs[1]+"/order",
		map[string]interface{}{"workfolder_id": folderID, "order": 1}, tc.Token))
	require.Equal(t, http.StatusOK, rr.Code)
	moved := body["data"].(map[string]interface{})
	assert.Equal(t, float64(1), moved["order"])

	// Folder listing nests todos in the new order.
	rr, body = do(t, router, testutil.AuthenticatedRequest(t, "GET", base+"/workfolder", nil, tc.Token))
	require.Equal(t, http.StatusOK, rr.Code)
	folders := body["data"].([]interface{})
	require.Len(t, folders, 1)
	nested := folders[0].(map[string]interface{})["todos"].([]interface{})
	require.Len(t, nested, 2)
	assert.Equal(t, "second", nested[0].(map[string]interface{})["title"])
	assert.Equal(t, "first", nested[1].(map[string]interface{})["title"])

	// Delete the folder; both todos go with it.
	rr, _ = do(t, router, testutil.AuthenticatedRequest(t, "DELETE", base+"/workfolder/"+folderID, nil, tc.Token))
	require.Equal(t, http.StatusOK, rr.Code)

	var todoCount int64
	require.NoError(t, tc.DB.Model(&models.Todo{}).Count(&todoCount).Error)
	assert.Zero(t, todoCount)
}

func TestRouter_VoteSubmitTwice(t *testing.T) {
	router, tc := setupRouter(t)
	defer tc.Cleanup()

	base := "/workspace/" + tc.Workspace.Account

	rr, body := do(t, router, testutil.AuthenticatedRequest(t, "POST", base+"/vote", map[string]interface{}{
		"title":   "lunch",
		"options": []string{"pizza", "sushi"},
	}, tc.Token))
	require.Equal(t, http.StatusCreated, rr.Code)
	voteID := body["data"].(map[string]interface{})["id"].(string)

	submit := map[string]string{"vote_id": voteID, "option": "pizza"}

	rr, body = do(t, router, testutil.AuthenticatedRequest(t, "POST", base+"/vote/result", submit, tc.Token))
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, true, body["OK"])

	rr, body = do(t, router, testutil.AuthenticatedRequest(t, "POST", base+"/vote/result", submit, tc.Token))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, false, body["OK"])
	assert.Equal(t, "Already voted", body["message"])

	var results int64
	require.NoError(t, tc.DB.Model(&models.VoteResult{}).Count(&results).Error)
	assert.Equal(t, int64(1), results)

	t.Run("aggregate", func(t *testing.T) {
		rr, body := do(t, router, testutil.AuthenticatedRequest(t, "GET", base+"/vote/result/"+voteID, nil, tc.Token))
		require.Equal(t, http.StatusOK, rr.Code)
		counts := body["data"].([]interface{})
		require.Len(t, counts, 1)
		first := counts[0].(map[string]interface{})
		assert.Equal(t, "pizza", first["option"])
		assert.Equal(t, float64(1), first["count"])
	})

	t.Run("admin delete cascades", func(t *testing.T) {
		rr, _ := do(t, router, testutil.AuthenticatedRequest(t, "DELETE", base+"/vote/admin/"+voteID, nil, tc.Token))
		require.Equal(t, http.StatusOK, rr.Code)

		var votes int64
		require.NoError(t, tc.DB.Model(&models.Vote{}).Count(&votes).Error)
		assert.Zero(t, votes)
	})
}
