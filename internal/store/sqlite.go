package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/ayush/social-media-api/internal/models"
)

// SQLiteStore handles account and message CRUD against an embedded SQLite file.
type SQLiteStore struct {
	db  *sql.DB
	log *logrus.Entry
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens the database at path, creating parent directories as needed.
func NewSQLiteStore(path string, log *logrus.Logger) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A single connection keeps writes serialized and makes ":memory:" usable.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := NewSQLiteStoreFromDB(db, log)
	s.log.WithField("path", path).Info("sqlite store opened")
	return s, nil
}

// NewSQLiteStoreFromDB wraps an already opened handle.
func NewSQLiteStoreFromDB(db *sql.DB, log *logrus.Logger) *SQLiteStore {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &SQLiteStore{db: db, log: log.WithField("component", "store")}
}

// Migrate creates the account and message tables if they don't exist.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS account (
			account_id INTEGER PRIMARY KEY AUTOINCREMENT,
			username   TEXT NOT NULL UNIQUE,
			password   TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS message (
			message_id        INTEGER PRIMARY KEY AUTOINCREMENT,
			posted_by         INTEGER NOT NULL,
			message_text      TEXT    NOT NULL,
			time_posted_epoch INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_message_posted_by ON message (posted_by);
	`)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) InsertAccount(ctx context.Context, acct models.Account) (models.Account, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO account (username, password) VALUES (?, ?)`,
		acct.Username, acct.Password,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Account{}, ErrDuplicateUsername
		}
		return models.Account{}, fmt.Errorf("insert account: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Account{}, fmt.Errorf("insert account: %w", err)
	}
	acct.AccountID = int(id)
	return acct, nil
}

func (s *SQLiteStore) FindAccountByID(ctx context.Context, id int) (models.Account, error) {
	return s.findAccount(ctx,
		`SELECT account_id, username, password FROM account WHERE account_id = ?`, id)
}

func (s *SQLiteStore) FindAccountByUsername(ctx context.Context, username string) (models.Account, error) {
	return s.findAccount(ctx,
		`SELECT account_id, username, password FROM account WHERE username = ?`, username)
}

func (s *SQLiteStore) FindAccountByUsernameAndPassword(ctx context.Context, username, password string) (models.Account, error) {
	return s.findAccount(ctx,
		`SELECT account_id, username, password FROM account WHERE username = ? AND password = ?`, username, password)
}

func (s *SQLiteStore) findAccount(ctx context.Context, query string, args ...any) (models.Account, error) {
	var a models.Account
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&a.AccountID, &a.Username, &a.Password)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Account{}, ErrNotFound
	}
	if err != nil {
		return models.Account{}, fmt.Errorf("find account: %w", err)
	}
	return a, nil
}

func (s *SQLiteStore) InsertMessage(ctx context.Context, msg models.Message) (models.Message, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO message (posted_by, message_text, time_posted_epoch) VALUES (?, ?, ?)`,
		msg.PostedBy, msg.MessageText, msg.TimePostedEpoch,
	)
	if err != nil {
		return models.Message{}, fmt.Errorf("insert message: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Message{}, fmt.Errorf("insert message: %w", err)
	}
	msg.MessageID = int(id)
	return msg, nil
}

func (s *SQLiteStore) FindMessageByID(ctx context.Context, id int) (models.Message, error) {
	var m models.Message
	err := s.db.QueryRowContext(ctx,
		`SELECT message_id, posted_by, message_text, time_posted_epoch FROM message WHERE message_id = ?`, id,
	).Scan(&m.MessageID, &m.PostedBy, &m.MessageText, &m.TimePostedEpoch)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Message{}, ErrNotFound
	}
	if err != nil {
		return models.Message{}, fmt.Errorf("find message: %w", err)
	}
	return m, nil
}

func (s *SQLiteStore) FindAllMessages(ctx context.Context) ([]models.Message, error) {
	return s.listMessages(ctx,
		`SELECT message_id, posted_by, message_text, time_posted_epoch FROM message ORDER BY message_id`)
}

func (s *SQLiteStore) FindAllMessagesByPostedBy(ctx context.Context, accountID int) ([]models.Message, error) {
	return s.listMessages(ctx,
		`SELECT message_id, posted_by, message_text, time_posted_epoch FROM message WHERE posted_by = ? ORDER BY message_id`,
		accountID)
}

func (s *SQLiteStore) listMessages(ctx context.Context, query string, args ...any) ([]models.Message, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var msgs []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.MessageID, &m.PostedBy, &m.MessageText, &m.TimePostedEpoch); err != nil {
			return nil, fmt.Errorf("list messages: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (s *SQLiteStore) DeleteMessageByID(ctx context.Context, id int) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM message WHERE message_id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("delete message: %w", err)
	}
	return res.RowsAffected()
}

func (s *SQLiteStore) UpdateMessageTextByID(ctx context.Context, id int, text string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE message SET message_text = ? WHERE message_id = ?`, text, id)
	if err != nil {
		return 0, fmt.Errorf("update message: %w", err)
	}
	return res.RowsAffected()
}

// SQLite reports constraint failures only through the error text.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
