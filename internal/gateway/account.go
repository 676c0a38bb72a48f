// Package gateway translates domain lookups and mutations into store calls.
// A missing row is reported as a nil result, never as an error; callers decide
// what absence means.
package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/ayush/social-media-api/internal/auth"
	"github.com/ayush/social-media-api/internal/models"
	"github.com/ayush/social-media-api/internal/store"
)

// AccountGateway wraps an AccountStore.
type AccountGateway struct {
	store     store.AccountStore
	passwords auth.Passwords
}

func NewAccountGateway(s store.AccountStore, passwords auth.Passwords) *AccountGateway {
	if passwords == nil {
		passwords = auth.PlainPasswords{}
	}
	return &AccountGateway{store: s, passwords: passwords}
}

// Persist inserts the account and returns it with its assigned id.
// A unique-constraint violation surfaces as store.ErrDuplicateUsername.
func (g *AccountGateway) Persist(ctx context.Context, acct models.Account) (*models.Account, error) {
	stored, err := g.passwords.Hash(acct.Password)
	if err != nil {
		return nil, err
	}
	acct.Password = stored
	saved, err := g.store.InsertAccount(ctx, acct)
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (g *AccountGateway) FindByID(ctx context.Context, id int) (*models.Account, error) {
	return absentIfNotFound(g.store.FindAccountByID(ctx, id))
}

func (g *AccountGateway) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	return absentIfNotFound(g.store.FindAccountByUsername(ctx, username))
}

// FindByCredentials returns the account whose username and password both match.
func (g *AccountGateway) FindByCredentials(ctx context.Context, username, password string) (*models.Account, error) {
	if g.passwords.Literal() {
		return absentIfNotFound(g.store.FindAccountByUsernameAndPassword(ctx, username, password))
	}

	acct, err := g.FindByUsername(ctx, username)
	if err != nil || acct == nil {
		return nil, err
	}
	if !g.passwords.Compare(acct.Password, password) {
		return nil, nil
	}
	return acct, nil
}

func absentIfNotFound[T any](v T, err error) (*T, error) {
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("gateway: %w", err)
	}
	return &v, nil
}
