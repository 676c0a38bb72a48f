package models

// Message represents a row in the message table.
type Message struct {
	MessageID       int    `json:"messageId"`
	PostedBy        int    `json:"postedBy"`
	MessageText     string `json:"messageText"`
	TimePostedEpoch int64  `json:"timePostedEpoch"`
}

// UpdateMessageRequest is the JSON body for PATCH /messages/{messageId}.
type UpdateMessageRequest struct {
	MessageText string `json:"messageText"`
}

// ArchiveResult is returned after a message archive is written.
type ArchiveResult struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}
