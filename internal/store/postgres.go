package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ayush/social-media-api/internal/models"
)

const pgUniqueViolation = "23505"

// PostgresStore handles account and message CRUD against PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ Store = (*PostgresStore)(nil)

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the account and message tables if they don't exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS account (
			account_id SERIAL PRIMARY KEY,
			username   VARCHAR(255) UNIQUE NOT NULL,
			password   VARCHAR(255) NOT NULL
		);
		CREATE TABLE IF NOT EXISTS message (
			message_id        SERIAL PRIMARY KEY,
			posted_by         INTEGER      NOT NULL,
			message_text      VARCHAR(255) NOT NULL,
			time_posted_epoch BIGINT       NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_message_posted_by ON message (posted_by);
	`)
	return err
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) InsertAccount(ctx context.Context, acct models.Account) (models.Account, error) {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO account (username, password)
		 VALUES ($1, $2)
		 RETURNING account_id`,
		acct.Username, acct.Password,
	).Scan(&acct.AccountID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return models.Account{}, ErrDuplicateUsername
		}
		return models.Account{}, fmt.Errorf("insert account: %w", err)
	}
	return acct, nil
}

func (s *PostgresStore) FindAccountByID(ctx context.Context, id int) (models.Account, error) {
	return s.findAccount(ctx,
		`SELECT account_id, username, password FROM account WHERE account_id = $1`, id)
}

func (s *PostgresStore) FindAccountByUsername(ctx context.Context, username string) (models.Account, error) {
	return s.findAccount(ctx,
		`SELECT account_id, username, password FROM account WHERE username = $1`, username)
}

func (s *PostgresStore) FindAccountByUsernameAndPassword(ctx context.Context, username, password string) (models.Account, error) {
	return s.findAccount(ctx,
		`SELECT account_id, username, password FROM account WHERE username = $1 AND password = $2`, username, password)
}

func (s *PostgresStore) findAccount(ctx context.Context, query string, args ...any) (models.Account, error) {
	var a models.Account
	err := s.pool.QueryRow(ctx, query, args...).Scan(&a.AccountID, &a.Username, &a.Password)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Account{}, ErrNotFound
	}
	if err != nil {
		return models.Account{}, fmt.Errorf("find account: %w", err)
	}
	return a, nil
}

func (s *PostgresStore) InsertMessage(ctx context.Context, msg models.Message) (models.Message, error) {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO message (posted_by, message_text, time_posted_epoch)
		 VALUES ($1, $2, $3)
		 RETURNING message_id`,
		msg.PostedBy, msg.MessageText, msg.TimePostedEpoch,
	).Scan(&msg.MessageID)
	if err != nil {
		return models.Message{}, fmt.Errorf("insert message: %w", err)
	}
	return msg, nil
}

func (s *PostgresStore) FindMessageByID(ctx context.Context, id int) (models.Message, error) {
	var m models.Message
	err := s.pool.QueryRow(ctx,
		`SELECT message_id, posted_by, message_text, time_posted_epoch FROM message WHERE message_id = $1`, id,
	).Scan(&m.MessageID, &m.PostedBy, &m.MessageText, &m.TimePostedEpoch)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Message{}, ErrNotFound
	}
	if err != nil {
		return models.Message{}, fmt.Errorf("find message: %w", err)
	}
	return m, nil
}

func (s *PostgresStore) FindAllMessages(ctx context.Context) ([]models.Message, error) {
	return s.listMessages(ctx,
		`SELECT message_id, posted_by, message_text, time_posted_epoch FROM message ORDER BY message_id`)
}

func (s *PostgresStore) FindAllMessagesByPostedBy(ctx context.Context, accountID int) ([]models.Message, error) {
	return s.listMessages(ctx,
		`SELECT message_id, posted_by, message_text, time_posted_epoch FROM message WHERE posted_by = $1 ORDER BY message_id`,
		accountID)
}

func (s *PostgresStore) listMessages(ctx context.Context, query string, args ...any) ([]models.Message, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	msgs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Message, error) {
		var m models.Message
		err := row.Scan(&m.MessageID, &m.PostedBy, &m.MessageText, &m.TimePostedEpoch)
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return msgs, nil
}

func (s *PostgresStore) DeleteMessageByID(ctx context.Context, id int) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM message WHERE message_id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete message: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *PostgresStore) UpdateMessageTextByID(ctx context.Context, id int, text string) (int64, error) {
	tag, err := s.pool.Exec(ctx, `UPDATE message SET message_text = $2 WHERE message_id = $1`, id, text)
	if err != nil {
		return 0, fmt.Errorf("update message: %w", err)
	}
	return tag.RowsAffected(), nil
}
