package domain

// Thought is attached to a single Message.
type Thought struct {
	ID           int64  `json:"id"`
	Message      int64  `json:"message"`
	Text         string `json:"text"`
	DatetimeSent string `json:"datetimeSent"`
}
