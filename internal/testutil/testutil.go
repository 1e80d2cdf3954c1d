// Package testutil provides an in-memory database and fixture builders
// shared by the package tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/workhive/workhive/internal/auth"
	"github.com/workhive/workhive/internal/database/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an in-memory SQLite database for testing
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Workspace{},
		&models.WorkspaceMember{},
		&models.Workfolder{},
		&models.Todo{},
		&models.ChecklistItem{},
		&models.TodoAssignment{},
		&models.Vote{},
		&models.VoteOption{},
		&models.VoteResult{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// CleanupTestDB closes the test database connection
func CleanupTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	if err != nil {
		t.Logf("warning: failed to get sql.DB: %v", err)
		return
	}
	sqlDB.Close()
}

// CreateTestUser creates a user with a known password ("testpassword123")
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	hash, err := auth.HashPassword("testpassword123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Base: models.Base{
			ID: uuid.New(),
		},
		FirstName:    "Test",
		LastName:     "User",
		Email:        "test-" + uuid.New().String()[:8] + "@example.com",
		PasswordHash: hash,
		PlatformMode: models.PlatformModeLight,
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateTestWorkspace creates a workspace with the given user as admin
func CreateTestWorkspace(t *testing.T, db *gorm.DB, admin *models.User) *models.Workspace {
	t.Helper()

	workspace := &models.Workspace{
		Base: models.Base{
			ID: uuid.New(),
		},
		Title:   "Test Workspace",
		Account: "test-ws-" + uuid.New().String()[:8],
	}

	if err := db.Create(workspace).Error; err != nil {
		t.Fatalf("failed to create test workspace: %v", err)
	}

	member := &models.WorkspaceMember{
		WorkspaceID: workspace.ID,
		UserID:      admin.ID,
		IsAdmin:     true,
		IsPending:   false,
	}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("failed to create admin member: %v", err)
	}

	return workspace
}

// AddTestMember attaches a user to the workspace with the given flags
func AddTestMember(t *testing.T, db *gorm.DB, workspace *models.Workspace, user *models.User, isAdmin, isPending bool) *models.WorkspaceMember {
	t.Helper()

	member := &models.WorkspaceMember{
		WorkspaceID: workspace.ID,
		UserID:      user.ID,
		IsAdmin:     isAdmin,
		IsPending:   isPending,
	}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("failed to create member: %v", err)
	}
	return member
}

// CreateTestFolder creates a workfolder at the given order
func CreateTestFolder(t *testing.T, db *gorm.DB, workspace *models.Workspace, title string, order int) *models.Workfolder {
	t.Helper()

	folder := &models.Workfolder{
		Base: models.Base{
			ID: uuid.New(),
		},
		Title:       title,
		WorkspaceID: workspace.ID,
		Order:       order,
	}
	if err := db.Create(folder).Error; err != nil {
		t.Fatalf("failed to create test folder: %v", err)
	}
	return folder
}

// CreateTestTodo creates a todo at the given order
func CreateTestTodo(t *testing.T, db *gorm.DB, workspace *models.Workspace, folder *models.Workfolder, title string, order int) *models.Todo {
	t.Helper()

	todo := &models.Todo{
		Base: models.Base{
			ID: uuid.New(),
		},
		Title:        title,
		WorkspaceID:  workspace.ID,
		WorkfolderID: folder.ID,
		Status:       models.TodoStatusPending,
		Order:        order,
	}
	if err := db.Create(todo).Error; err != nil {
		t.Fatalf("failed to create test todo: %v", err)
	}
	return todo
}

// CreateTestVote creates a vote with the given options
func CreateTestVote(t *testing.T, db *gorm.DB, workspace *models.Workspace, creator *models.User, title string, options ...string) *models.Vote {
	t.Helper()

	vote := &models.Vote{
		Base: models.Base{
			ID: uuid.New(),
		},
		Title:       title,
		CreatorID:   &creator.ID,
		WorkspaceID: workspace.ID,
	}
	if err := db.Create(vote).Error; err != nil {
		t.Fatalf("failed to create test vote: %v", err)
	}

	for _, opt := range options {
		row := &models.VoteOption{VoteID: vote.ID, Text: opt}
		if err := db.Create(row).Error; err != nil {
			t.Fatalf("failed to create vote option: %v", err)
		}
	}
	return vote
}

// CreateTestJWTService creates a JWT service for testing
func CreateTestJWTService() *auth.JWTService {
	return auth.NewJWTService("test-secret-key-for-testing", 24*time.Hour)
}

// GenerateTestToken generates a valid JWT token for the given user
func GenerateTestToken(t *testing.T, jwtService *auth.JWTService, user *models.User) string {
	t.Helper()

	token, err := jwtService.GenerateToken(user.ID, user.Email, string(user.PlatformMode))
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}

	return token
}

// AuthenticatedRequest creates an HTTP request with authentication
func AuthenticatedRequest(t *testing.T, method, path string, body interface{}, token string) *http.Request {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}

// UnauthenticatedRequest creates an HTTP request without authentication
func UnauthenticatedRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	return AuthenticatedRequest(t, method, path, body, "")
}

type TestSetup struct {
	DB         *gorm.DB
	JWTService *auth.JWTService
	User       *models.User
	Workspace  *models.Workspace
	Token      string
}

// NewTestContext creates a complete test setup with DB, user, workspace
// (user as admin) and a valid token
func NewTestContext(t *testing.T) *TestSetup {
	t.Helper()

	db := SetupTestDB(t)
	jwtService := CreateTestJWTService()
	user := CreateTestUser(t, db)
	workspace := CreateTestWorkspace(t, db, user)
	token := GenerateTestToken(t, jwtService, user)

	return &TestSetup{
		DB:         db,
		JWTService: jwtService,
		User:       user,
		Workspace:  workspace,
		Token:      token,
	}
}

// Cleanup closes the test database
func (ts *TestSetup) Cleanup() {
	if ts.DB != nil {
		sqlDB, err := ts.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}
