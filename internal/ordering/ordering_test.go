package ordering_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workhive/workhive/internal/database/models"
	"github.com/workhive/workhive/internal/ordering"
	"github.com/workhive/workhive/internal/testutil"
	"gorm.io/gorm"
)

// orderByTitle reads the folder's todos into a title -> order map.
func orderByTitle(t *testing.T, db *gorm.DB, folderID uuid.UUID) map[string]int {
	t.Helper()

	var rows []models.Todo
	require.NoError(t, db.Where("workfolder_id = ?", folderID).Find(&rows).Error)

	out := make(map[string]int, len(rows))
	for _, row := range rows {
		out[row.Title] = row.Order
	}
	return out
}

// assertDense checks the live orders in the folder are exactly {1..N}.
func assertDense(t *testing.T, db *gorm.DB, folderID uuid.UUID) {
	t.Helper()

	var orders []int
	require.NoError(t, db.Model(&models.Todo{}).
		Where("workfolder_id = ?", folderID).
		Order(`"order"`).
		Pluck("order", &orders).Error)

	for i, o := range orders {
		assert.Equal(t, i+1, o, "orders must be dense 1..N, got %v", orders)
	}
}

func moveTodo(t *testing.T, db *gorm.DB, engine *ordering.Engine, todo *models.Todo, dstFolder uuid.UUID, pos int) {
	t.Helper()

	var cur models.Todo
	require.NoError(t, db.First(&cur, todo.ID).Error)

	err := engine.Move(context.Background(),
		ordering.TodoScope(cur.WorkfolderID), cur.Order,
		ordering.TodoScope(dstFolder), pos,
		func(tx *gorm.DB, order int) error {
			return tx.Model(&models.Todo{}).
				Where("id = ?", cur.ID).
				Updates(map[string]interface{}{
					"workfolder_id": dstFolder,
					"order":         order,
				}).Error
		})
	require.NoError(t, err)
}

func TestEngine_InsertAtEnd(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	ws := testutil.CreateTestWorkspace(t, db, user)
	folder := testutil.CreateTestFolder(t, db, ws, "inbox", 1)

	engine := ordering.NewEngine(db)
	for i, title := range []string{"a", "b", "c"} {
		todo := models.Todo{
			Title:        title,
			WorkspaceID:  ws.ID,
			WorkfolderID: folder.ID,
			Status:       models.TodoStatusPending,
		}
		err := engine.InsertAtEnd(context.Background(), ordering.TodoScope(folder.ID), func(tx *gorm.DB, order int) error {
			assert.Equal(t, i+1, order)
			todo.Order = order
			return tx.Create(&todo).Error
		})
		require.NoError(t, err)
	}

	assertDense(t, db, folder.ID)
}

func TestEngine_MoveWithinFolder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	ws := testutil.CreateTestWorkspace(t, db, user)
	folder := testutil.CreateTestFolder(t, db, ws, "inbox", 1)

	testutil.CreateTestTodo(t, db, ws, folder, "todo1", 1)
	testutil.CreateTestTodo(t, db, ws, folder, "todo2", 2)
	testutil.CreateTestTodo(t, db, ws, folder, "todo3", 3)
	todo4 := testutil.CreateTestTodo(t, db, ws, folder, "todo4", 4)

	engine := ordering.NewEngine(db)

	// Move the last todo up to position 2: everything in between shifts
	// down by one.
	moveTodo(t, db, engine, todo4, folder.ID, 2)

	got := orderByTitle(t, db, folder.ID)
	assert.Equal(t, 1, got["todo1"])
	assert.Equal(t, 3, got["todo2"])
	assert.Equal(t, 4, got["todo3"])
	assert.Equal(t, 2, got["todo4"])
	assertDense(t, db, folder.ID)
}

func TestEngine_MoveRoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	ws := testutil.CreateTestWorkspace(t, db, user)
	folder := testutil.CreateTestFolder(t, db, ws, "inbox", 1)

	titles := []string{"t1", "t2", "t3", "t4", "t5"}
	byTitle := make(map[string]*models.Todo, len(titles))
	for i, title := range titles {
		byTitle[title] = testutil.CreateTestTodo(t, db, ws, folder, title, i+1)
	}

	engine := ordering.NewEngine(db)

	// 3 -> 1, then back to 3: the original sequence must be restored.
	moveTodo(t, db, engine, byTitle["t3"], folder.ID, 1)
	moveTodo(t, db, engine, byTitle["t3"], folder.ID, 3)

	got := orderByTitle(t, db, folder.ID)
	for i, title := range titles {
		assert.Equal(t, i+1, got[title], "order of %s after round trip", title)
	}
}

func TestEngine_MoveAcrossFolders(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	ws := testutil.CreateTestWorkspace(t, db, user)
	src := testutil.CreateTestFolder(t, db, ws, "src", 1)
	dst := testutil.CreateTestFolder(t, db, ws, "dst", 2)

	testutil.CreateTestTodo(t, db, ws, src, "s1", 1)
	s2 := testutil.CreateTestTodo(t, db, ws, src, "s2", 2)
	testutil.CreateTestTodo(t, db, ws, src, "s3", 3)
	testutil.CreateTestTodo(t, db, ws, dst, "d1", 1)
	testutil.CreateTestTodo(t, db, ws, dst, "d2", 2)

	engine := ordering.NewEngine(db)

	// Move s2 into dst at position 1: src closes the gap, dst opens a
	// slot at the front.
	moveTodo(t, db, engine, s2, dst.ID, 1)

	srcOrders := orderByTitle(t, db, src.ID)
	assert.Equal(t, 1, srcOrders["s1"])
	assert.Equal(t, 2, srcOrders["s3"])

	dstOrders := orderByTitle(t, db, dst.ID)
	assert.Equal(t, 1, dstOrders["s2"])
	assert.Equal(t, 2, dstOrders["d1"])
	assert.Equal(t, 3, dstOrders["d2"])

	assertDense(t, db, src.ID)
	assertDense(t, db, dst.ID)
}

func TestEngine_MoveClampsRequestedPosition(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	ws := testutil.CreateTestWorkspace(t, db, user)
	folder := testutil.CreateTestFolder(t, db, ws, "inbox", 1)

	t1 := testutil.CreateTestTodo(t, db, ws, folder, "t1", 1)
	testutil.CreateTestTodo(t, db, ws, folder, "t2", 2)
	testutil.CreateTestTodo(t, db, ws, folder, "t3", 3)

	engine := ordering.NewEngine(db)

	// Position 99 clamps to the end.
	moveTodo(t, db, engine, t1, folder.ID, 99)
	got := orderByTitle(t, db, folder.ID)
	assert.Equal(t, 3, got["t1"])
	assertDense(t, db, folder.ID)

	// Position 0 clamps to the front.
	moveTodo(t, db, engine, t1, folder.ID, 0)
	got = orderByTitle(t, db, folder.ID)
	assert.Equal(t, 1, got["t1"])
	assertDense(t, db, folder.ID)
}

func TestEngine_RemoveAndCompact(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	ws := testutil.CreateTestWorkspace(t, db, user)
	folder := testutil.CreateTestFolder(t, db, ws, "inbox", 1)

	testutil.CreateTestTodo(t, db, ws, folder, "t1", 1)
	t2 := testutil.CreateTestTodo(t, db, ws, folder, "t2", 2)
	testutil.CreateTestTodo(t, db, ws, folder, "t3", 3)
	testutil.CreateTestTodo(t, db, ws, folder, "t4", 4)

	engine := ordering.NewEngine(db)
	scope := ordering.TodoScope(folder.ID)
	err := engine.RemoveAndCompact(context.Background(), scope, t2.Order, func(tx *gorm.DB) error {
		return tx.Delete(&models.Todo{}, t2.ID).Error
	})
	require.NoError(t, err)

	got := orderByTitle(t, db, folder.ID)
	assert.Equal(t, 1, got["t1"])
	assert.Equal(t, 2, got["t3"])
	assert.Equal(t, 3, got["t4"])
	assertDense(t, db, folder.ID)
}

func TestEngine_ConcurrentInsertsStayDense(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	ws := testutil.CreateTestWorkspace(t, db, user)
	folder := testutil.CreateTestFolder(t, db, ws, "inbox", 1)

	engine := ordering.NewEngine(db)
	scope := ordering.TodoScope(folder.ID)

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			todo := models.Todo{
				Title:        "concurrent",
				WorkspaceID:  ws.ID,
				WorkfolderID: folder.ID,
				Status:       models.TodoStatusPending,
			}
			errs <- engine.InsertAtEnd(context.Background(), scope, func(tx *gorm.DB, order int) error {
				todo.Order = order
				return tx.Create(&todo).Error
			})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	var count int64
	require.NoError(t, db.Model(&models.Todo{}).Where("workfolder_id = ?", folder.ID).Count(&count).Error)
	assert.Equal(t, int64(n), count)
	assertDense(t, db, folder.ID)
}
