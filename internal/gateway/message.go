package gateway

import (
	"context"

	"github.com/ayush/social-media-api/internal/models"
	"github.com/ayush/social-media-api/internal/store"
)

// MessageGateway wraps a MessageStore.
type MessageGateway struct {
	store store.MessageStore
}

func NewMessageGateway(s store.MessageStore) *MessageGateway {
	return &MessageGateway{store: s}
}

// Persist inserts the message and returns it with its assigned id.
func (g *MessageGateway) Persist(ctx context.Context, msg models.Message) (*models.Message, error) {
	saved, err := g.store.InsertMessage(ctx, msg)
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (g *MessageGateway) FindByID(ctx context.Context, id int) (*models.Message, error) {
	return absentIfNotFound(g.store.FindMessageByID(ctx, id))
}

// FindAll never returns a nil slice on success.
func (g *MessageGateway) FindAll(ctx context.Context) ([]models.Message, error) {
	return nonNil(g.store.FindAllMessages(ctx))
}

func (g *MessageGateway) FindAllByPostedBy(ctx context.Context, accountID int) ([]models.Message, error) {
	return nonNil(g.store.FindAllMessagesByPostedBy(ctx, accountID))
}

// DeleteByID reports the rows removed; ok is false when nothing matched.
func (g *MessageGateway) DeleteByID(ctx context.Context, id int) (rows int64, ok bool, err error) {
	rows, err = g.store.DeleteMessageByID(ctx, id)
	if err != nil {
		return 0, false, err
	}
	return rows, rows > 0, nil
}

// UpdateTextByID reports the rows changed; ok is false when nothing matched.
func (g *MessageGateway) UpdateTextByID(ctx context.Context, id int, text string) (rows int64, ok bool, err error) {
	rows, err = g.store.UpdateMessageTextByID(ctx, id, text)
	if err != nil {
		return 0, false, err
	}
	return rows, rows > 0, nil
}

func nonNil(msgs []models.Message, err error) ([]models.Message, error) {
	if err != nil {
		return nil, err
	}
	if msgs == nil {
		msgs = []models.Message{}
	}
	return msgs, nil
}
