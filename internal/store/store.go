package store

import (
	"context"
	"errors"

	"github.com/ayush/social-media-api/internal/models"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// ErrDuplicateUsername is returned when an insert violates the unique username constraint.
var ErrDuplicateUsername = errors.New("username already exists")

// AccountStore is the persistence contract for the account table.
type AccountStore interface {
	InsertAccount(ctx context.Context, acct models.Account) (models.Account, error)
	FindAccountByID(ctx context.Context, id int) (models.Account, error)
	FindAccountByUsername(ctx context.Context, username string) (models.Account, error)
	FindAccountByUsernameAndPassword(ctx context.Context, username, password string) (models.Account, error)
}

// MessageStore is the persistence contract for the message table.
// Mutations report the number of rows they touched.
type MessageStore interface {
	InsertMessage(ctx context.Context, msg models.Message) (models.Message, error)
	FindMessageByID(ctx context.Context, id int) (models.Message, error)
	FindAllMessages(ctx context.Context) ([]models.Message, error)
	FindAllMessagesByPostedBy(ctx context.Context, accountID int) ([]models.Message, error)
	DeleteMessageByID(ctx context.Context, id int) (int64, error)
	UpdateMessageTextByID(ctx context.Context, id int, text string) (int64, error)
}

// Store is implemented by every relational backend.
type Store interface {
	AccountStore
	MessageStore
	Migrate(ctx context.Context) error
	Close() error
}
