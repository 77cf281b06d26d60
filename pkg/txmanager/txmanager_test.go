package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunewave/scheduling-service/pkg/dbmetrics"
)

type fakeTx struct {
	commitErr  error
	committed  bool
	rolledBack bool
}

func (t *fakeTx) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (t *fakeTx) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (t *fakeTx) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

func (t *fakeTx) Commit() error {
	t.committed = true
	return t.commitErr
}

func (t *fakeTx) Rollback() error {
	t.rolledBack = true
	return nil
}

type fakeBeginner struct {
	commitErrs []error // ошибка Commit по номеру попытки; за пределами списка - nil
	lastOpts   *sql.TxOptions
	txs        []*fakeTx
}

func (b *fakeBeginner) BeginTx(_ context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	b.lastOpts = opts
	tx := &fakeTx{}
	if len(b.txs) < len(b.commitErrs) {
		tx.commitErr = b.commitErrs[len(b.txs)]
	}
	b.txs = append(b.txs, tx)
	return tx, nil
}

var serializationErr = &pq.Error{Code: "40001"}

func TestDoSerializable_Commits(t *testing.T) {
	db := &fakeBeginner{}
	m := NewTransactionManager(db)

	calls := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	require.Len(t, db.txs, 1)
	assert.True(t, db.txs[0].committed)
	assert.Equal(t, sql.LevelSerializable, db.lastOpts.Isolation)
}

func TestDoSerializable_RetriesOnCommitSerializationFailure(t *testing.T) {
	// 40001 на COMMIT - штатный исход сериализуемой транзакции,
	// менеджер обязан повторить попытку
	db := &fakeBeginner{commitErrs: []error{serializationErr, serializationErr, serializationErr}}
	m := NewTransactionManager(db)

	calls := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTxFailed)
	assert.Equal(t, maxRetries, calls)
	assert.Len(t, db.txs, maxRetries)
}

func TestDoSerializable_SucceedsAfterRetry(t *testing.T) {
	db := &fakeBeginner{commitErrs: []error{serializationErr}}
	m := NewTransactionManager(db)

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		return nil
	})

	require.NoError(t, err)
	require.Len(t, db.txs, 2)
	assert.True(t, db.txs[1].committed)
}

func TestDoSerializable_NoRetryOnPlainError(t *testing.T) {
	db := &fakeBeginner{}
	m := NewTransactionManager(db)

	wantErr := errors.New("business rule violated")
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		return wantErr
	})

	assert.ErrorIs(t, err, wantErr)
	require.Len(t, db.txs, 1)
	assert.True(t, db.txs[0].rolledBack)
	assert.False(t, db.txs[0].committed)
}

func TestDoSerializable_RetriesOnDeadlockInFn(t *testing.T) {
	db := &fakeBeginner{}
	m := NewTransactionManager(db)

	calls := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return &pq.Error{Code: "40P01"}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestIsSerializationFailure_SeesWrappedCommitError(t *testing.T) {
	wrapped := fmt.Errorf("%w: commit: %w", ErrTxFailed, serializationErr)
	assert.True(t, isSerializationFailure(wrapped))
	assert.False(t, isSerializationFailure(errors.New("commit: pq: 40001")))
}
