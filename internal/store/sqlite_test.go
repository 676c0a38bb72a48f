package store

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/ayush/social-media-api/internal/models"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "nested", "social.db"), quietLogger())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestSQLiteMigrateIsIdempotent(t *testing.T) {
	s := newTestSQLite(t)
	require.NoError(t, s.Migrate(context.Background()))
}

func TestSQLiteAccounts(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	s := newTestSQLite(t)

	first, err := s.InsertAccount(ctx, models.Account{Username: "alice", Password: "pass1"})
	req.NoError(err)
	req.Equal(1, first.AccountID)

	second, err := s.InsertAccount(ctx, models.Account{Username: "bob", Password: "pass2"})
	req.NoError(err)
	req.Equal(2, second.AccountID)

	_, err = s.InsertAccount(ctx, models.Account{Username: "alice", Password: "other"})
	req.ErrorIs(err, ErrDuplicateUsername)

	got, err := s.FindAccountByID(ctx, first.AccountID)
	req.NoError(err)
	req.Equal(first, got)

	got, err = s.FindAccountByUsername(ctx, "bob")
	req.NoError(err)
	req.Equal(second, got)

	got, err = s.FindAccountByUsernameAndPassword(ctx, "alice", "pass1")
	req.NoError(err)
	req.Equal(first, got)

	_, err = s.FindAccountByUsernameAndPassword(ctx, "alice", "pass2")
	req.ErrorIs(err, ErrNotFound)

	_, err = s.FindAccountByUsername(ctx, "Alice")
	req.ErrorIs(err, ErrNotFound)

	_, err = s.FindAccountByID(ctx, 99)
	req.ErrorIs(err, ErrNotFound)
}

func TestSQLiteMessages(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	s := newTestSQLite(t)

	all, err := s.FindAllMessages(ctx)
	req.NoError(err)
	req.Empty(all)

	m1, err := s.InsertMessage(ctx, models.Message{PostedBy: 1, MessageText: "first", TimePostedEpoch: 1669947792})
	req.NoError(err)
	m2, err := s.InsertMessage(ctx, models.Message{PostedBy: 2, MessageText: "second", TimePostedEpoch: 1669947793})
	req.NoError(err)
	m3, err := s.InsertMessage(ctx, models.Message{PostedBy: 1, MessageText: "third", TimePostedEpoch: 1669947794})
	req.NoError(err)
	req.Equal([]int{1, 2, 3}, []int{m1.MessageID, m2.MessageID, m3.MessageID})

	got, err := s.FindMessageByID(ctx, m2.MessageID)
	req.NoError(err)
	req.Equal(m2, got)

	_, err = s.FindMessageByID(ctx, 42)
	req.ErrorIs(err, ErrNotFound)

	all, err = s.FindAllMessages(ctx)
	req.NoError(err)
	req.Equal([]models.Message{m1, m2, m3}, all)

	mine, err := s.FindAllMessagesByPostedBy(ctx, 1)
	req.NoError(err)
	req.Equal([]models.Message{m1, m3}, mine)

	none, err := s.FindAllMessagesByPostedBy(ctx, 7)
	req.NoError(err)
	req.Empty(none)

	n, err := s.UpdateMessageTextByID(ctx, m1.MessageID, "edited")
	req.NoError(err)
	req.EqualValues(1, n)
	got, err = s.FindMessageByID(ctx, m1.MessageID)
	req.NoError(err)
	req.Equal("edited", got.MessageText)
	req.Equal(m1.TimePostedEpoch, got.TimePostedEpoch)

	n, err = s.UpdateMessageTextByID(ctx, 42, "nothing")
	req.NoError(err)
	req.EqualValues(0, n)

	n, err = s.DeleteMessageByID(ctx, m2.MessageID)
	req.NoError(err)
	req.EqualValues(1, n)

	n, err = s.DeleteMessageByID(ctx, m2.MessageID)
	req.NoError(err)
	req.EqualValues(0, n)

	all, err = s.FindAllMessages(ctx)
	req.NoError(err)
	req.Len(all, 2)
}

func TestSQLiteMessageWithoutAuthorRow(t *testing.T) {
	// The table has no foreign key; author checks live above the store.
	s := newTestSQLite(t)
	msg, err := s.InsertMessage(context.Background(), models.Message{PostedBy: 500, MessageText: "orphan"})
	require.NoError(t, err)
	require.NotZero(t, msg.MessageID)
}
