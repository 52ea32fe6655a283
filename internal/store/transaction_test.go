package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTx(t *testing.T) {
	t.Parallel()

	fnErr := errors.New("apply failed")

	tests := []struct {
		name    string
		expect  func(m sqlmock.Sqlmock)
		fn      func(tx DBTX) error
		wantErr error
		called  bool
	}{
		{
			name: "commits on success",
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectCommit()
			},
			fn:     func(DBTX) error { return nil },
			called: true,
		},
		{
			name: "rolls back and returns fn error unchanged",
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectRollback()
			},
			fn:      func(DBTX) error { return ErrConflict },
			wantErr: ErrConflict,
			called:  true,
		},
		{
			name: "begin failure skips fn",
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectBegin().WillReturnError(errors.New("too many connections"))
			},
			fn:      func(DBTX) error { return nil },
			wantErr: ErrTransactionFailed,
		},
		{
			name: "commit failure",
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectCommit().WillReturnError(errors.New("serialization failure"))
			},
			fn:      func(DBTX) error { return nil },
			wantErr: ErrTransactionFailed,
			called:  true,
		},
		{
			name: "rollback failure keeps fn error",
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectRollback().WillReturnError(errors.New("connection reset"))
			},
			fn:      func(DBTX) error { return fnErr },
			wantErr: fnErr,
			called:  true,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer func() { _ = db.Close() }()
			tc.expect(mock)

			called := false
			err = WithTx(context.Background(), db, func(tx DBTX) error {
				called = true
				return tc.fn(tx)
			})

			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
			assert.Equal(t, tc.called, called)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestWithTxRollsBackOnPanic(t *testing.T) {
	t.Parallel()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.PanicsWithValue(t, "boom", func() {
		_ = WithTx(context.Background(), db, func(DBTX) error { panic("boom") })
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxReusesOpenTransaction(t *testing.T) {
	t.Parallel()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)

	var got DBTX
	require.NoError(t, WithTx(context.Background(), tx, func(inner DBTX) error {
		got = inner
		return nil
	}))
	assert.Same(t, tx, got, "no nested transaction is started")

	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}
