package domain

// Message belongs to a Conversation and owns Thoughts.
type Message struct {
	ID           int64  `json:"id"`
	Conversation int64  `json:"conversation"`
	Text         string `json:"text"`
	DatetimeSent string `json:"datetimeSent"`
}
