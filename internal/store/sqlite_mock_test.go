package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/ayush/social-media-api/internal/models"
)

func newMockSQLite(t *testing.T) (*SQLiteStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewSQLiteStoreFromDB(db, quietLogger()), mock
}

func TestSQLiteInsertAccountMapsUniqueViolation(t *testing.T) {
	s, mock := newMockSQLite(t)
	mock.ExpectExec("INSERT INTO account").
		WithArgs("alice", "pass1").
		WillReturnError(errors.New("constraint failed: UNIQUE constraint failed: account.username (2067)"))

	_, err := s.InsertAccount(context.Background(), models.Account{Username: "alice", Password: "pass1"})
	require.ErrorIs(t, err, ErrDuplicateUsername)
}

func TestSQLiteInsertAccountWrapsOtherErrors(t *testing.T) {
	s, mock := newMockSQLite(t)
	boom := errors.New("disk I/O error")
	mock.ExpectExec("INSERT INTO account").WillReturnError(boom)

	_, err := s.InsertAccount(context.Background(), models.Account{Username: "alice", Password: "pass1"})
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, ErrDuplicateUsername)
}

func TestSQLiteFindMessageByIDNoRows(t *testing.T) {
	s, mock := newMockSQLite(t)
	mock.ExpectQuery("SELECT message_id, posted_by, message_text, time_posted_epoch FROM message WHERE message_id").
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"message_id", "posted_by", "message_text", "time_posted_epoch"}))

	_, err := s.FindMessageByID(context.Background(), 3)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteListMessagesQueryError(t *testing.T) {
	s, mock := newMockSQLite(t)
	mock.ExpectQuery("FROM message WHERE posted_by").
		WithArgs(1).
		WillReturnError(errors.New("database is locked"))

	_, err := s.FindAllMessagesByPostedBy(context.Background(), 1)
	require.Error(t, err)
	require.Contains(t, err.Error(), "list messages")
}

func TestSQLiteDeleteReportsRowsAffected(t *testing.T) {
	s, mock := newMockSQLite(t)
	mock.ExpectExec("DELETE FROM message").
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := s.DeleteMessageByID(context.Background(), 5)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestSQLiteUpdateError(t *testing.T) {
	s, mock := newMockSQLite(t)
	mock.ExpectExec("UPDATE message SET message_text").
		WithArgs("new text", 5).
		WillReturnError(errors.New("database is locked"))

	_, err := s.UpdateMessageTextByID(context.Background(), 5, "new text")
	require.Error(t, err)
}
