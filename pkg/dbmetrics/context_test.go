package dbmetrics

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeTx struct {
	DBExecutor
}

func (fakeTx) Commit() error   { return nil }
func (fakeTx) Rollback() error { return nil }

type fakeDB struct {
	DBExecutor
}

func TestGetExecutor(t *testing.T) {
	db := &fakeDB{}
	ctx := context.Background()

	assert.False(t, IsInTransaction(ctx))
	assert.Same(t, db, GetExecutor(ctx, db))

	tx := &fakeTx{}
	txCtx := WithTx(ctx, tx)

	assert.True(t, IsInTransaction(txCtx))
	assert.Same(t, tx, GetExecutor(txCtx, db))
}

func TestOperationOf(t *testing.T) {
	assert.Equal(t, "select", operationOf("SELECT id FROM appointments"))
	assert.Equal(t, "insert", operationOf("  INSERT INTO appointment_state_history"))
	assert.Equal(t, "unknown", operationOf(""))
}

func TestWrap_WithoutMetrics(t *testing.T) {
	db := Wrap(&sql.DB{}, nil, "svc")
	// без коллектора observe ничего не делает
	assert.NotPanics(t, func() { db.observe("SELECT 1", time.Now(), nil) })
}
