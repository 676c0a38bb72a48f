package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewPasswords(t *testing.T) {
	req := require.New(t)

	p, err := NewPasswords("")
	req.NoError(err)
	req.IsType(PlainPasswords{}, p)

	p, err = NewPasswords(PasswordBcrypt)
	req.NoError(err)
	req.IsType(BcryptPasswords{}, p)

	_, err = NewPasswords("sha1")
	req.Error(err)
}

func TestPlainPasswords(t *testing.T) {
	req := require.New(t)
	p := PlainPasswords{}

	stored, err := p.Hash("secret")
	req.NoError(err)
	req.Equal("secret", stored)
	req.True(p.Compare(stored, "secret"))
	req.False(p.Compare(stored, "Secret"))
	req.True(p.Literal())
}

func TestBcryptPasswords(t *testing.T) {
	req := require.New(t)
	p := BcryptPasswords{Cost: bcrypt.MinCost}

	stored, err := p.Hash("secret")
	req.NoError(err)
	req.NotEqual("secret", stored)
	req.True(p.Compare(stored, "secret"))
	req.False(p.Compare(stored, "wrong"))
	req.False(p.Compare("not-a-hash", "secret"))
	req.False(p.Literal())
}

func TestBcryptPasswordsBeyondInputLimit(t *testing.T) {
	req := require.New(t)
	p := BcryptPasswords{Cost: bcrypt.MinCost}
	long := strings.Repeat("p", 80)

	stored, err := p.Hash(long)
	req.NoError(err)
	req.True(p.Compare(stored, long))
	// Passwords sharing the first 72 bytes must still differ.
	req.False(p.Compare(stored, strings.Repeat("p", 79)+"q"))
	req.False(p.Compare(stored, long[:72]))
}
