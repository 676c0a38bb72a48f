package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Activity actions.
const (
	ActionRegistered     = "registered"
	ActionMessagePosted  = "message_posted"
	ActionMessageUpdated = "message_updated"
	ActionMessageDeleted = "message_deleted"
)

// Activity is a single audit entry stored in MongoDB.
type Activity struct {
	ID        primitive.ObjectID `json:"id"                  bson:"_id,omitempty"`
	AccountID int                `json:"accountId"           bson:"account_id"`
	Action    string             `json:"action"              bson:"action"`
	MessageID int                `json:"messageId,omitempty" bson:"message_id,omitempty"`
	At        time.Time          `json:"at"                  bson:"at"`
}
