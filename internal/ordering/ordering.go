// Package ordering maintains dense, gap-free order values for sibling
// rows: todos inside a workfolder and workfolders inside a workspace.
// For every scope the set of live order values is exactly {1..N}.
package ordering

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Scope selects one sibling group of ordered rows: the table plus the
// parent column/value pair that identifies the group.
type Scope struct {
	Table  string
	Column string
	ID     uuid.UUID
}

func (s Scope) key() string {
	return s.Table + ":" + s.ID.String()
}

// TodoScope is the sibling group of todos inside one workfolder.
func TodoScope(folderID uuid.UUID) Scope {
	return Scope{Table: "todos", Column: "workfolder_id", ID: folderID}
}

// FolderScope is the sibling group of workfolders inside one workspace.
func FolderScope(workspaceID uuid.UUID) Scope {
	return Scope{Table: "workfolders", Column: "workspace_id", ID: workspaceID}
}

// Engine serializes order mutations per scope. Each mutation runs inside
// a transaction and under a scope-keyed mutex, so two concurrent inserts
// or moves targeting the same sibling group cannot race on the
// read-count-then-write step.
type Engine struct {
	db    *gorm.DB
	locks sync.Map // scope key -> *sync.Mutex
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

func (e *Engine) mutex(s Scope) *sync.Mutex {
	v, _ := e.locks.LoadOrStore(s.key(), &sync.Mutex{})
	return v.(*sync.Mutex)
}

// lockScopes acquires both scope locks in stable key order so that two
// cross-folder moves in opposite directions cannot deadlock.
func (e *Engine) lockScopes(a, b Scope) func() {
	if a.key() == b.key() {
		mu := e.mutex(a)
		mu.Lock()
		return mu.Unlock
	}
	first, second := a, b
	if second.key() < first.key() {
		first, second = second, first
	}
	m1, m2 := e.mutex(first), e.mutex(second)
	m1.Lock()
	m2.Lock()
	return func() {
		m2.Unlock()
		m1.Unlock()
	}
}

func (e *Engine) countSiblings(tx *gorm.DB, s Scope) (int, error) {
	var n int64
	err := tx.Table(s.Table).Where(s.Column+" = ?", s.ID).Count(&n).Error
	return int(n), err
}

func clamp(pos, min, max int) int {
	if pos < min {
		return min
	}
	if pos > max {
		return max
	}
	return pos
}

// InsertAtEnd counts live siblings under s and calls insert with
// count+1. The insert callback must create the row using the supplied
// transaction.
func (e *Engine) InsertAtEnd(ctx context.Context, s Scope, insert func(tx *gorm.DB, order int) error) error {
	mu := e.mutex(s)
	mu.Lock()
	defer mu.Unlock()

	return e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := e.countSiblings(tx, s)
		if err != nil {
			return err
		}
		return insert(tx, n+1)
	})
}

// Move relocates an entity currently at curOrder in cur to the requested
// position in dst, shifting the affected siblings by exactly one slot.
// Requested positions outside the valid range are clamped to
// [1, siblings] (same scope) or [1, siblings+1] (scope change). The
// apply callback must persist the entity's new scope and order within
// the supplied transaction.
func (e *Engine) Move(ctx context.Context, cur Scope, curOrder int, dst Scope, requested int, apply func(tx *gorm.DB, order int) error) error {
	unlock := e.lockScopes(cur, dst)
	defer unlock()

	return e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if cur == dst {
			n, err := e.countSiblings(tx, cur)
			if err != nil {
				return err
			}
			newOrder := clamp(requested, 1, n)
			switch {
			case newOrder > curOrder:
				// Rotate the range (cur, new] left by one.
				if err := tx.Table(cur.Table).
					Where(cur.Column+" = ?", cur.ID).
					Where(`"order" > ? AND "order" <= ?`, curOrder, newOrder).
					UpdateColumn("order", gorm.Expr(`"order" - 1`)).Error; err != nil {
					return err
				}
			case newOrder < curOrder:
				// Rotate the range [new, cur) right by one.
				if err := tx.Table(cur.Table).
					Where(cur.Column+" = ?", cur.ID).
					Where(`"order" >= ? AND "order" < ?`, newOrder, curOrder).
					UpdateColumn("order", gorm.Expr(`"order" + 1`)).Error; err != nil {
					return err
				}
			default:
				return nil
			}
			return apply(tx, newOrder)
		}

		// Scope changed: close the gap left behind, then open a slot in
		// the destination.
		n, err := e.countSiblings(tx, dst)
		if err != nil {
			return err
		}
		newOrder := clamp(requested, 1, n+1)

		if err := tx.Table(cur.Table).
			Where(cur.Column+" = ?", cur.ID).
			Where(`"order" > ?`, curOrder).
			UpdateColumn("order", gorm.Expr(`"order" - 1`)).Error; err != nil {
			return err
		}
		if err := tx.Table(dst.Table).
			Where(dst.Column+" = ?", dst.ID).
			Where(`"order" >= ?`, newOrder).
			UpdateColumn("order", gorm.Expr(`"order" + 1`)).Error; err != nil {
			return err
		}
		return apply(tx, newOrder)
	})
}

// RemoveAndCompact runs the remove callback, then decrements every
// sibling ordered after the removed position, restoring density. The
// callback may delete more than the entity itself (cascades) as long as
// it uses the supplied transaction.
func (e *Engine) RemoveAndCompact(ctx context.Context, s Scope, order int, remove func(tx *gorm.DB) error) error {
	mu := e.mutex(s)
	mu.Lock()
	defer mu.Unlock()

	return e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := remove(tx); err != nil {
			return err
		}
		return CompactAfter(tx, s, order)
	})
}

// CompactAfter closes the gap at the given position inside an existing
// transaction. Callers that manage their own transaction and locking
// (workspace-level cascades) use this directly.
func CompactAfter(tx *gorm.DB, s Scope, order int) error {
	return tx.Table(s.Table).
		Where(s.Column+" = ?", s.ID).
		Where(`"order" > ?`, order).
		UpdateColumn("order", gorm.Expr(`"order" - 1`)).Error
}
