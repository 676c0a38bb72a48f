package gateway

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ayush/social-media-api/internal/auth"
	"github.com/ayush/social-media-api/internal/models"
	"github.com/ayush/social-media-api/internal/store"
)

func newStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "social.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestAccountGatewayAbsence(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	g := NewAccountGateway(newStore(t), nil)

	acct, err := g.FindByID(ctx, 1)
	req.NoError(err)
	req.Nil(acct)

	acct, err = g.FindByUsername(ctx, "nobody")
	req.NoError(err)
	req.Nil(acct)

	acct, err = g.FindByCredentials(ctx, "nobody", "pass")
	req.NoError(err)
	req.Nil(acct)
}

func TestAccountGatewayPlainPasswords(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	g := NewAccountGateway(newStore(t), auth.PlainPasswords{})

	saved, err := g.Persist(ctx, models.Account{Username: "alice", Password: "pass1"})
	req.NoError(err)
	req.Equal(&models.Account{AccountID: 1, Username: "alice", Password: "pass1"}, saved)

	_, err = g.Persist(ctx, models.Account{Username: "alice", Password: "pass2"})
	req.ErrorIs(err, store.ErrDuplicateUsername)

	acct, err := g.FindByCredentials(ctx, "alice", "pass1")
	req.NoError(err)
	req.Equal(saved, acct)

	acct, err = g.FindByCredentials(ctx, "alice", "wrong")
	req.NoError(err)
	req.Nil(acct)
}

func TestAccountGatewayBcryptPasswords(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	g := NewAccountGateway(newStore(t), auth.BcryptPasswords{Cost: bcrypt.MinCost})

	saved, err := g.Persist(ctx, models.Account{Username: "alice", Password: "pass1"})
	req.NoError(err)
	req.NotEqual("pass1", saved.Password)

	acct, err := g.FindByCredentials(ctx, "alice", "pass1")
	req.NoError(err)
	req.NotNil(acct)
	req.Equal(saved.AccountID, acct.AccountID)

	acct, err = g.FindByCredentials(ctx, "alice", "pass2")
	req.NoError(err)
	req.Nil(acct)

	long := strings.Repeat("p", 80)
	saved, err = g.Persist(ctx, models.Account{Username: "bob", Password: long})
	req.NoError(err)

	acct, err = g.FindByCredentials(ctx, "bob", long)
	req.NoError(err)
	req.NotNil(acct)
	req.Equal(saved.AccountID, acct.AccountID)

	acct, err = g.FindByCredentials(ctx, "bob", long[:72])
	req.NoError(err)
	req.Nil(acct)
}

func TestMessageGateway(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	g := NewMessageGateway(newStore(t))

	all, err := g.FindAll(ctx)
	req.NoError(err)
	req.NotNil(all)
	req.Empty(all)

	byAuthor, err := g.FindAllByPostedBy(ctx, 1)
	req.NoError(err)
	req.NotNil(byAuthor)
	req.Empty(byAuthor)

	msg, err := g.FindByID(ctx, 1)
	req.NoError(err)
	req.Nil(msg)

	saved, err := g.Persist(ctx, models.Message{PostedBy: 1, MessageText: "hello", TimePostedEpoch: 1669947792})
	req.NoError(err)
	req.Equal(1, saved.MessageID)

	rows, ok, err := g.UpdateTextByID(ctx, saved.MessageID, "edited")
	req.NoError(err)
	req.True(ok)
	req.EqualValues(1, rows)

	rows, ok, err = g.UpdateTextByID(ctx, 99, "edited")
	req.NoError(err)
	req.False(ok)
	req.Zero(rows)

	rows, ok, err = g.DeleteByID(ctx, saved.MessageID)
	req.NoError(err)
	req.True(ok)
	req.EqualValues(1, rows)

	_, ok, err = g.DeleteByID(ctx, saved.MessageID)
	req.NoError(err)
	req.False(ok)
}
