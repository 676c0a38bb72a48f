//go:generate go run go.uber.org/mock/mockgen -source=service.go -destination=mocks/mock_service.go -package=mocks

package social

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/ayush/social-media-api/internal/metrics"
	"github.com/ayush/social-media-api/internal/models"
	"github.com/ayush/social-media-api/internal/store"
)

var (
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrUnavailable  = errors.New("feature not configured")
)

// Accounts is the account gateway contract.
type Accounts interface {
	Persist(ctx context.Context, acct models.Account) (*models.Account, error)
	FindByID(ctx context.Context, id int) (*models.Account, error)
	FindByUsername(ctx context.Context, username string) (*models.Account, error)
	FindByCredentials(ctx context.Context, username, password string) (*models.Account, error)
}

// Messages is the message gateway contract.
type Messages interface {
	Persist(ctx context.Context, msg models.Message) (*models.Message, error)
	FindByID(ctx context.Context, id int) (*models.Message, error)
	FindAll(ctx context.Context) ([]models.Message, error)
	FindAllByPostedBy(ctx context.Context, accountID int) ([]models.Message, error)
	DeleteByID(ctx context.Context, id int) (int64, bool, error)
	UpdateTextByID(ctx context.Context, id int, text string) (int64, bool, error)
}

// ActivityLog stores the audit trail of mutations.
type ActivityLog interface {
	Record(ctx context.Context, entry models.Activity) error
	ListByAccount(ctx context.Context, accountID int) ([]models.Activity, error)
}

// ArchiveStore holds exported message archives.
type ArchiveStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Download(ctx context.Context, key string) ([]byte, string, error)
}

// Service applies the account and message rules on top of the gateways.
type Service struct {
	accounts Accounts
	messages Messages
	activity ActivityLog
	archives ArchiveStore
	validate *validator.Validate
	log      *logrus.Entry
}

type Option func(*Service)

// WithActivityLog enables the audit trail.
func WithActivityLog(a ActivityLog) Option {
	return func(s *Service) { s.activity = a }
}

// WithArchiveStore enables message archives.
func WithArchiveStore(a ArchiveStore) Option {
	return func(s *Service) { s.archives = a }
}

func WithLogger(l *logrus.Logger) Option {
	return func(s *Service) { s.log = l.WithField("component", "social") }
}

func NewService(accounts Accounts, messages Messages, opts ...Option) *Service {
	s := &Service{
		accounts: accounts,
		messages: messages,
		validate: newValidator(),
		log:      logrus.StandardLogger().WithField("component", "social"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a new account. The username check runs before the format
// checks, so a taken username always reports ErrConflict.
func (s *Service) Register(ctx context.Context, acct models.Account) (_ *models.Account, err error) {
	defer s.observe("register", &err)

	existing, err := s.accounts.FindByUsername(ctx, acct.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrConflict
	}
	if err := s.checkRegistration(acct.Username, acct.Password); err != nil {
		return nil, err
	}

	acct.AccountID = 0
	saved, err := s.accounts.Persist(ctx, acct)
	if errors.Is(err, store.ErrDuplicateUsername) {
		return nil, ErrConflict
	}
	if err != nil {
		return nil, err
	}

	s.record(ctx, models.Activity{AccountID: saved.AccountID, Action: models.ActionRegistered})
	return saved, nil
}

// Login returns the account matching both username and password.
func (s *Service) Login(ctx context.Context, creds models.Account) (_ *models.Account, err error) {
	defer s.observe("login", &err)

	acct, err := s.accounts.FindByCredentials(ctx, creds.Username, creds.Password)
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return nil, ErrUnauthorized
	}
	return acct, nil
}

// PostMessage stores a message from an existing account.
func (s *Service) PostMessage(ctx context.Context, msg models.Message) (_ *models.Message, err error) {
	defer s.observe("post_message", &err)

	if err := s.checkText(msg.MessageText); err != nil {
		return nil, err
	}
	author, err := s.accounts.FindByID(ctx, msg.PostedBy)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, fmt.Errorf("%w: account %d does not exist", ErrInvalidInput, msg.PostedBy)
	}

	msg.MessageID = 0
	saved, err := s.messages.Persist(ctx, msg)
	if err != nil {
		return nil, err
	}

	s.record(ctx, models.Activity{AccountID: saved.PostedBy, Action: models.ActionMessagePosted, MessageID: saved.MessageID})
	return saved, nil
}

func (s *Service) ListMessages(ctx context.Context) ([]models.Message, error) {
	return s.messages.FindAll(ctx)
}

// GetMessage returns nil, nil when no message has the id.
func (s *Service) GetMessage(ctx context.Context, id int) (*models.Message, error) {
	return s.messages.FindByID(ctx, id)
}

// ListMessagesByAuthor does not check that the account exists.
func (s *Service) ListMessagesByAuthor(ctx context.Context, accountID int) ([]models.Message, error) {
	return s.messages.FindAllByPostedBy(ctx, accountID)
}

// DeleteMessage removes a message. ok is false when nothing was deleted,
// which is not an error.
func (s *Service) DeleteMessage(ctx context.Context, id int) (rows int64, ok bool, err error) {
	defer s.observe("delete_message", &err)

	var existing *models.Message
	if s.activity != nil {
		if existing, err = s.messages.FindByID(ctx, id); err != nil {
			return 0, false, err
		}
	}

	rows, ok, err = s.messages.DeleteByID(ctx, id)
	if err != nil {
		return 0, false, err
	}
	if ok && existing != nil {
		s.record(ctx, models.Activity{AccountID: existing.PostedBy, Action: models.ActionMessageDeleted, MessageID: id})
	}
	return rows, ok, nil
}

// UpdateMessage replaces the text of an existing message.
func (s *Service) UpdateMessage(ctx context.Context, id int, text string) (rows int64, ok bool, err error) {
	defer s.observe("update_message", &err)

	existing, err := s.messages.FindByID(ctx, id)
	if err != nil {
		return 0, false, err
	}
	if existing == nil {
		return 0, false, fmt.Errorf("%w: message %d does not exist", ErrInvalidInput, id)
	}
	if err := s.checkText(text); err != nil {
		return 0, false, err
	}

	rows, ok, err = s.messages.UpdateTextByID(ctx, id, text)
	if err != nil {
		return 0, false, err
	}
	if ok {
		s.record(ctx, models.Activity{AccountID: existing.PostedBy, Action: models.ActionMessageUpdated, MessageID: id})
	}
	return rows, ok, nil
}

// AccountByID returns nil, nil when the account does not exist.
func (s *Service) AccountByID(ctx context.Context, id int) (*models.Account, error) {
	return s.accounts.FindByID(ctx, id)
}

// Activity lists the audit trail of an account, newest first.
func (s *Service) Activity(ctx context.Context, accountID int) ([]models.Activity, error) {
	if s.activity == nil {
		return nil, ErrUnavailable
	}
	entries, err := s.activity.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.Activity{}
	}
	return entries, nil
}

// ArchiveMessages snapshots an author's messages into the archive store.
func (s *Service) ArchiveMessages(ctx context.Context, accountID int) (models.ArchiveResult, error) {
	if s.archives == nil {
		return models.ArchiveResult{}, ErrUnavailable
	}
	msgs, err := s.messages.FindAllByPostedBy(ctx, accountID)
	if err != nil {
		return models.ArchiveResult{}, err
	}
	data, err := json.Marshal(msgs)
	if err != nil {
		return models.ArchiveResult{}, fmt.Errorf("encode archive: %w", err)
	}

	key := ArchiveKey(accountID)
	if err := s.archives.Upload(ctx, key, data, "application/json"); err != nil {
		return models.ArchiveResult{}, err
	}
	return models.ArchiveResult{Key: key, Count: len(msgs)}, nil
}

// DownloadArchive returns the last archive written for the author.
func (s *Service) DownloadArchive(ctx context.Context, accountID int) ([]byte, string, error) {
	if s.archives == nil {
		return nil, "", ErrUnavailable
	}
	data, contentType, err := s.archives.Download(ctx, ArchiveKey(accountID))
	if errors.Is(err, store.ErrNotFound) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", err
	}
	return data, contentType, nil
}

func ArchiveKey(accountID int) string {
	return "archives/" + strconv.Itoa(accountID) + "/messages.json"
}

// record is best-effort: a failing audit write never fails the request.
func (s *Service) record(ctx context.Context, entry models.Activity) {
	if s.activity == nil {
		return
	}
	if err := s.activity.Record(ctx, entry); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"account_id": entry.AccountID,
			"action":     entry.Action,
		}).Warn("activity record failed")
	}
}

func (s *Service) observe(operation string, errp *error) {
	metrics.RecordOperation(operation, outcome(*errp))
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	default:
		return "error"
	}
}
