package models

// Message is a chat line posted to a group.
type Message struct {
	ID       string `json:"-"`
	SenderID string `json:"senderId"`
	Text     string `json:"text"`

	// Timestamp is Unix milliseconds.
	Timestamp int64 `json:"timestamp"`
}
