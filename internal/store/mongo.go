package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ayush/social-media-api/internal/models"
)

// MongoActivityLog keeps the account/message audit trail in MongoDB.
type MongoActivityLog struct {
	col *mongo.Collection
}

func NewMongoActivityLog(db *mongo.Database) *MongoActivityLog {
	return &MongoActivityLog{col: db.Collection("activity")}
}

// EnsureIndexes creates the per-account lookup index.
func (s *MongoActivityLog) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "account_id", Value: 1}, {Key: "at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("mongo index: %w", err)
	}
	return nil
}

func (s *MongoActivityLog) Record(ctx context.Context, entry models.Activity) error {
	if entry.At.IsZero() {
		entry.At = time.Now().UTC()
	}
	if _, err := s.col.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("mongo insert: %w", err)
	}
	return nil
}

func (s *MongoActivityLog) ListByAccount(ctx context.Context, accountID int) ([]models.Activity, error) {
	opts := options.Find().SetSort(bson.D{{Key: "at", Value: -1}})
	cur, err := s.col.Find(ctx, bson.M{"account_id": accountID}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo find: %w", err)
	}
	defer cur.Close(ctx)

	var entries []models.Activity
	if err := cur.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("mongo decode: %w", err)
	}
	return entries, nil
}
