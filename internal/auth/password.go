package auth

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Password storage modes.
const (
	PasswordPlain  = "plain"
	PasswordBcrypt = "bcrypt"
)

// Passwords decides how a password is stored and compared.
// Literal policies compare by equality, so the store can match credentials in
// a single query.
type Passwords interface {
	Hash(password string) (string, error)
	Compare(stored, password string) bool
	Literal() bool
}

// NewPasswords returns the policy for mode.
func NewPasswords(mode string) (Passwords, error) {
	switch mode {
	case "", PasswordPlain:
		return PlainPasswords{}, nil
	case PasswordBcrypt:
		return BcryptPasswords{Cost: bcrypt.DefaultCost}, nil
	default:
		return nil, fmt.Errorf("unknown password mode %q", mode)
	}
}

// PlainPasswords stores passwords unchanged.
type PlainPasswords struct{}

func (PlainPasswords) Hash(password string) (string, error) { return password, nil }

func (PlainPasswords) Compare(stored, password string) bool { return stored == password }

func (PlainPasswords) Literal() bool { return true }

// BcryptPasswords stores bcrypt hashes of a SHA-256 digest of the password,
// so passwords longer than bcrypt's 72-byte input limit are accepted in full.
type BcryptPasswords struct {
	Cost int
}

func (b BcryptPasswords) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(prehash(password), b.Cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(hashed), nil
}

func (BcryptPasswords) Compare(stored, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), prehash(password)) == nil
}

func (BcryptPasswords) Literal() bool { return false }

// prehash is base64 encoded so the bcrypt input never contains NUL bytes.
func prehash(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}
